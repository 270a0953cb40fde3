// Package i18n holds the user-visible messages of medupload.
//
// Messages are stored in a golang.org/x/text catalog. Brazilian Portuguese
// is the default locale because the upload page is served to Portuguese
// speaking users; English is available for operators.
package i18n
