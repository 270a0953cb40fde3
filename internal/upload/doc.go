// Package upload implements the submit handler of the upload page.
//
// A Submitter sends the selected file to the server as multipart form
// data under the part name "file", then writes the server's JSON reply,
// indented with two spaces, to the response container of the page. A
// missing file or a failed request produces a localized message instead.
//
// Submissions follow a small state machine:
//
//	Idle -> Validating -> Idle                 (no file selected)
//	Idle -> Validating -> Sending -> Succeeded
//	Idle -> Validating -> Sending -> Failed
//
// When submissions overlap, only the most recently started one updates
// the page.
package upload
