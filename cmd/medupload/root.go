package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

// NewRootCmd creates the root command for medupload.
func NewRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "medupload",
		Short: "Preview and upload medical files to SistemaMedi",
		Long: `medupload is the command-line counterpart of the SistemaMedi upload page.

It previews image files the way the page does and submits files to the
server's /upload endpoint as multipart form data, printing the JSON reply
or an error message.`,
		Version:       getVersion(),
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	// Global flags that apply to all commands
	cmd.PersistentFlags().BoolP("verbose", "v", false, "Enable verbose logging")
	cmd.PersistentFlags().StringP("config", "c", "",
		"Configuration file path (default: .medupload in current or home directory)")
	cmd.PersistentFlags().StringP("locale", "l", "",
		"Language of user messages: pt-BR or en (default pt-BR)")

	// Add subcommands
	cmd.AddCommand(NewPreviewCmd())
	cmd.AddCommand(NewUploadCmd())
	cmd.AddCommand(NewInitCmd())
	cmd.AddCommand(NewVersionCmd())

	return cmd
}

// Execute runs the root command.
func Execute() {
	if err := NewRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
