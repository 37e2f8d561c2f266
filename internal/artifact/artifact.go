// Package artifact writes a finalized metainfo dictionary to its target
// path on disk.
//
// Writes to a sibling temp file, then os.Rename into place, so a reader
// never observes a partially written .torrent file.
package artifact

import (
	"os"
	"path/filepath"

	"github.com/javanhut/dsync/internal/dsyncerr"
	"github.com/javanhut/dsync/internal/metainfo"
)

// TargetPath joins targetRoot with path and appends the ".torrent"
// extension. path is the node's own logical path (its ancestors'
// components followed by its own), e.g. ["a", "b"] under targetRoot "/out" yields
// "/out/a/b.torrent".
func TargetPath(targetRoot string, path []string) string {
	if len(path) == 0 {
		return filepath.Join(targetRoot, "root.torrent")
	}
	return filepath.Join(targetRoot, filepath.Join(path...)+".torrent")
}

// Write bencodes m and writes it atomically to TargetPath(targetRoot,
// path), creating any missing parent directories. It returns the path
// written.
func Write(m *metainfo.Metainfo, targetRoot string, path []string) (string, error) {
	dest := TargetPath(targetRoot, path)
	dir := filepath.Dir(dest)

	if err := os.MkdirAll(dir, 0755); err != nil {
		return "", dsyncerr.IO(dir, err)
	}

	data, err := metainfo.Encode(m)
	if err != nil {
		return "", dsyncerr.IO(dest, err)
	}

	tmp, err := os.CreateTemp(dir, "."+filepath.Base(dest)+".*.tmp")
	if err != nil {
		return "", dsyncerr.IO(dest, err)
	}
	tmpPath := tmp.Name()

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmpPath)
		return "", dsyncerr.IO(dest, err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpPath)
		return "", dsyncerr.IO(dest, err)
	}

	if err := os.Rename(tmpPath, dest); err != nil {
		os.Remove(tmpPath)
		return "", dsyncerr.IO(dest, err)
	}

	return dest, nil
}
