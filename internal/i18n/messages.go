package i18n

import (
	"strings"

	"golang.org/x/text/language"
	"golang.org/x/text/message"
	"golang.org/x/text/message/catalog"
)

// Message keys.
const (
	// KeyNoFile is shown when a submission is attempted with no file selected.
	KeyNoFile = "no-file"

	// KeyError prefixes the description of a failed submission.
	KeyError = "error"
)

// DefaultLocale is used when no locale is configured or the configured
// locale is not supported.
var DefaultLocale = language.BrazilianPortuguese

// supported lists the locales with translations, DefaultLocale first so
// that it wins when nothing matches.
var supported = []language.Tag{
	language.BrazilianPortuguese,
	language.English,
}

var (
	matcher  = language.NewMatcher(supported)
	messages = newCatalog()
)

// newCatalog builds the message catalog. It panics on a malformed entry,
// which can only happen through a programming error in this file.
func newCatalog() catalog.Catalog {
	b := catalog.NewBuilder(catalog.Fallback(DefaultLocale))

	entries := []struct {
		tag language.Tag
		key string
		msg string
	}{
		{language.BrazilianPortuguese, KeyNoFile, "Selecione um arquivo."},
		{language.BrazilianPortuguese, KeyError, "Erro: %s"},
		{language.English, KeyNoFile, "Select a file."},
		{language.English, KeyError, "Error: %s"},
	}
	for _, e := range entries {
		if err := b.SetString(e.tag, e.key, e.msg); err != nil {
			panic(err)
		}
	}
	return b
}

// Match returns the supported locale closest to locale.
// Empty, malformed or unsupported locales resolve to DefaultLocale.
func Match(locale string) language.Tag {
	locale = strings.TrimSpace(locale)
	if locale == "" {
		return DefaultLocale
	}
	tag, err := language.Parse(locale)
	if err != nil {
		return DefaultLocale
	}
	_, index, confidence := matcher.Match(tag)
	if confidence == language.No {
		return DefaultLocale
	}
	return supported[index]
}

// Messages renders user-visible messages for one locale.
// It is safe for concurrent use.
type Messages struct {
	tag     language.Tag
	printer *message.Printer
}

// New creates Messages for the supported locale closest to locale.
func New(locale string) *Messages {
	tag := Match(locale)
	return &Messages{
		tag:     tag,
		printer: message.NewPrinter(tag, message.Catalog(messages)),
	}
}

// Tag returns the resolved locale.
func (m *Messages) Tag() language.Tag {
	return m.tag
}

// NoFile returns the message shown when no file is selected.
func (m *Messages) NoFile() string {
	return m.printer.Sprintf(KeyNoFile)
}

// Error returns the message shown for a failed submission.
func (m *Messages) Error(description string) string {
	return m.printer.Sprintf(KeyError, description)
}
