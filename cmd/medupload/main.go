// Package main provides the entry point for the medupload CLI.
//
// medupload previews image files and submits files to the SistemaMedi
// upload endpoint, printing the server's JSON reply.
//
// Usage:
//
//	medupload preview <file>
//	medupload upload <file>...
//
// See --help for all available options.
package main

// main is the entry point for medupload.
func main() {
	Execute()
}
