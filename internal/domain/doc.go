// Package domain holds the small set of types every logtail layer shares.
//
//   - [Cursor]: the read position inside the followed file
//   - the error taxonomy ([ErrNotFound], [ErrPermissionDenied],
//     [ErrInterrupted], [ErrUnexpectedIO]) and [Classify]
//
// It has no dependencies on the file system, the terminal or logging.
package domain
