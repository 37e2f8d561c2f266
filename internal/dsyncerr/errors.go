// Package dsyncerr defines the fatal error kinds a meta-tree run can end in.
//
// All four are terminal: the run aborts, nothing retries, and a scope that
// has not reached Finalize writes no output. Callers identify a kind with
// errors.Is against the sentinel, and recover the offending path/reason
// from the wrapped message.
package dsyncerr

import (
	"errors"
	"fmt"
)

var (
	// ErrBadFilename means a path component could not be decoded/validated.
	ErrBadFilename = errors.New("bad filename")

	// ErrUnsupportedEntry means a filesystem entry is neither a regular
	// file nor a directory (device, socket, dangling symlink, ...).
	ErrUnsupportedEntry = errors.New("unsupported filesystem entry")

	// ErrIO covers any read/write/stat/mkdir failure.
	ErrIO = errors.New("i/o error")

	// ErrInvalidMetainfo means the assembled info dictionary failed
	// validation before being written.
	ErrInvalidMetainfo = errors.New("invalid metainfo")
)

// BadFilename reports a path component that failed decoding, including its
// raw bytes in the diagnostic.
func BadFilename(raw []byte, cause error) error {
	return fmt.Errorf("%w: %q: %v", ErrBadFilename, raw, cause)
}

// UnsupportedEntry reports a filesystem entry this tool cannot describe.
func UnsupportedEntry(path string) error {
	return fmt.Errorf("%w: %s", ErrUnsupportedEntry, path)
}

// IO reports a filesystem failure at path.
func IO(path string, cause error) error {
	return fmt.Errorf("%w: %s: %w", ErrIO, path, cause)
}

// InvalidMetainfo reports why an assembled info dictionary was rejected.
func InvalidMetainfo(reason string) error {
	return fmt.Errorf("%w: %s", ErrInvalidMetainfo, reason)
}
