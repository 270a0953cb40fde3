// Package report renders the outcome of uploads and previews.
//
// Upload writers implement the Writer interface:
//   - SimpleWriter: the response text of every upload, as the page shows it
//   - JSONWriter: the whole run as a JSON document
//   - MarkdownWriter: a summary with tables and the server replies
//
// PageWriter renders the upload page itself as HTML, with the preview
// element in its current state.
package report
