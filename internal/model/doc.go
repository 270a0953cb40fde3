// Package model defines the data structures shared by the medupload
// components.
//
// This package contains the following main types:
//   - SelectedFile: The file chosen in the file-input control
//   - PreviewState: Visibility and image source of the preview element
//   - UploadResponse: Typed view of the JSON returned by the upload endpoint
//   - ImageInfo: Dimensions and EXIF summary of a previewed image
//   - UploadResult, UploadReport: Submissions of one upload run
//
// Models live in their own package so that ui, preview, upload and report
// can share them without import cycles.
package model
