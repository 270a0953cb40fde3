// Package ui defines the user-interface surface the medupload handlers
// write to, and an in-memory page that implements it.
//
// The handlers never touch global state: they receive a Document and use
// its four operations (set preview visibility, set preview source, set
// response text, read the selected file). Page is the goroutine-safe
// implementation used by the CLI; tests substitute their own doubles.
package ui
