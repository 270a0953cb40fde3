// Package preview implements the image preview of the upload page.
//
// A Previewer reacts to selection changes of the file-input control.
// Image files are read asynchronously and shown as a base64 data URI;
// anything else hides the preview. Every selection takes a new token and
// only the decode started by the latest selection may update the page,
// so a slow read of an earlier file never replaces a newer choice.
//
// Inspect reports the dimensions and a short EXIF summary of an image.
package preview
