// Package pathnorm validates a single filesystem path component and
// produces the exact UTF-8 byte string stored in a metainfo "path" field.
//
// Go's os/syscall layer already hands back UTF-8 path components on
// every platform this tool targets; this package makes that assumption
// explicit and rejects anything that would silently corrupt a metainfo
// file.
package pathnorm

import (
	"errors"
	"strings"
	"unicode/utf8"

	"github.com/javanhut/dsync/internal/dsyncerr"
)

// Normalize validates a single path component decoded from the OS. Go's
// os package already returns path components as UTF-8 on every platform
// this tool targets, so normalization here is a validation pass: reject
// components that are empty, not valid UTF-8, or that contain a NUL byte
// or a path separator (which would make the component ambiguous once
// written into a metainfo "path" list).
func Normalize(component string) (string, error) {
	if component == "" {
		return "", dsyncerr.BadFilename(nil, errors.New("empty path component"))
	}
	if !utf8.ValidString(component) {
		return "", dsyncerr.BadFilename([]byte(component), errors.New("not valid UTF-8"))
	}
	if strings.ContainsRune(component, '/') {
		return "", dsyncerr.BadFilename([]byte(component), errors.New("contains path separator"))
	}
	if strings.IndexByte(component, 0) >= 0 {
		return "", dsyncerr.BadFilename([]byte(component), errors.New("contains NUL byte"))
	}
	return component, nil
}

// IsHidden reports whether a raw (unnormalized) component name marks a
// hidden entry under the Tree Builder's rule: the first byte is '.'.
func IsHidden(name string) bool {
	return len(name) > 0 && name[0] == '.'
}
