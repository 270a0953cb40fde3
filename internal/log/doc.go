// Package log provides the structured logger of medupload, built on the
// standard slog package.
//
// SecureHandler wraps any slog.Handler and rewrites attribute values
// before they are written:
//   - Sensitive keys (cookies, authorization headers, tokens, passwords)
//     are replaced with MaskValue.
//   - Values that look like credentials (bearer/basic auth, JWTs, private
//     key blocks) are replaced with MaskValue whatever their key.
//   - Data URIs, such as image previews, are shortened to their media type
//     and payload size so a preview never floods the log.
//
// # Usage
//
//	logger := log.NewSecureLogger(os.Stderr, verbose)
//	logger.Info("upload sent",
//	    "endpoint", "http://localhost:8000/upload",
//	    "cookie", "session=abc123", // written as ***REDACTED***
//	)
package log
