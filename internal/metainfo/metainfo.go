// Package metainfo defines the on-disk metainfo dictionary this tool
// produces and validates it before it is ever bencoded to disk.
//
// Field order within each struct matters: the bencode encoder
// (github.com/anacrolix/torrent/bencode) emits dictionary keys in struct
// declaration order, so every struct below declares its fields already
// sorted by byte value, the way the BitTorrent metainfo format requires.
package metainfo

import (
	"fmt"

	"github.com/anacrolix/torrent/bencode"

	"github.com/javanhut/dsync/internal/dsyncerr"
)

// FileEntry describes one file within a scope's subtree. Keys: "length"
// then "path", already in sorted order.
type FileEntry struct {
	Length int64    `bencode:"length"`
	Path   []string `bencode:"path"`
}

// Info is the bencoded "info" sub-dictionary. Keys: "files", "name",
// "piece length", "pieces" — "piece length" sorts before "pieces" because
// a space (0x20) is less than 's' (0x73) at the first differing byte.
type Info struct {
	Files       []FileEntry `bencode:"files"`
	Name        string      `bencode:"name"`
	PieceLength int64       `bencode:"piece length"`
	Pieces      []byte      `bencode:"pieces"`
}

// Metainfo is the top-level bencoded dictionary written to a .torrent
// file. Keys: "announce", "creation date", "info".
//
// The historical source this tool descends from spelled the timestamp key
// "creation data" — a typo. This type emits the canonical "creation date"
// spelling; no compatibility shim is provided for the typo.
type Metainfo struct {
	Announce     string `bencode:"announce"`
	CreationDate int64  `bencode:"creation date"`
	Info         Info   `bencode:"info"`
}

// Validate checks that info satisfies the metainfo rules required before
// a scope is allowed to write its artifact: non-empty name, positive
// piece length, a pieces string whose length is a multiple of 20, and
// well-formed file entries.
func Validate(info *Info) error {
	if info.Name == "" {
		return dsyncerr.InvalidMetainfo("empty name")
	}
	if info.PieceLength <= 0 {
		return dsyncerr.InvalidMetainfo("non-positive piece length")
	}
	if len(info.Pieces)%20 != 0 {
		return dsyncerr.InvalidMetainfo(fmt.Sprintf("pieces length %d is not a multiple of 20", len(info.Pieces)))
	}
	for i, f := range info.Files {
		if f.Length < 0 {
			return dsyncerr.InvalidMetainfo(fmt.Sprintf("file %d: negative length %d", i, f.Length))
		}
		if len(f.Path) == 0 {
			return dsyncerr.InvalidMetainfo(fmt.Sprintf("file %d: empty path", i))
		}
		for j, c := range f.Path {
			if c == "" {
				return dsyncerr.InvalidMetainfo(fmt.Sprintf("file %d: empty path component at index %d", i, j))
			}
		}
	}
	return nil
}

// Encode bencodes m. It does not call Validate; callers are expected to
// have already validated m.Info via Validate.
func Encode(m *Metainfo) ([]byte, error) {
	return bencode.Marshal(m)
}
