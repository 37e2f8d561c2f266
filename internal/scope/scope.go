// Package scope implements the Hasher Scope: one rolling SHA-1 piece
// hasher and file manifest per metainfo artifact.
//
// The boundary bookkeeping — absorb bytes, emit a digest the instant a
// boundary is crossed, carry the remainder forward — mirrors a
// fixed-size chunking builder that folds a byte stream into a Merkle
// tree one leaf at a time. The output shape differs: a torrent's
// "pieces" field is a flat concatenation of whole-file-spanning digests,
// not a binary tree of per-chunk hashes, so there is no tree
// construction here, only the boundary bookkeeping.
package scope

import (
	"crypto/sha1"
	"hash"
	"time"

	"github.com/javanhut/dsync/internal/metainfo"
	"github.com/javanhut/dsync/internal/piecelen"
)

// FileEntry is one manifest entry recorded by AppendFile.
type FileEntry struct {
	Length uint64
	Path   []string
}

// Scope is the hashing state for one metainfo artifact: a rolling SHA-1
// digest, the piece boundary bookkeeping, and the file manifest. A Scope
// is owned exclusively by the stack frame that created it; nothing else
// ever reads or mutates its state.
type Scope struct {
	Name         string
	Target       string
	Announce     string
	DeclaredSize uint64
	PieceLength  int

	// RootDepth is the number of path components belonging to this
	// scope's own root. A leaf's own scope is one component shallower
	// than the leaf's full path (so AppendFile records just the leaf's
	// bare name); a directory scope's RootDepth equals its own Path
	// length.
	RootDepth int

	Files []FileEntry

	pieces      []byte
	h           hash.Hash
	done        int
	totalHashed uint64
}

// New creates a Hasher Scope for a node whose root logical path has the
// given length (rootDepth) and declared subtree size.
func New(name, target, announce string, rootDepth int, declaredSize uint64) *Scope {
	return &Scope{
		Name:         name,
		Target:       target,
		Announce:     announce,
		DeclaredSize: declaredSize,
		PieceLength:  piecelen.For(declaredSize),
		RootDepth:    rootDepth,
		h:            sha1.New(),
	}
}

// AppendFile records a file entry in this scope's manifest. path is
// copied; callers must not rely on aliasing.
func (s *Scope) AppendFile(length uint64, path []string) {
	entryPath := make([]string, len(path))
	copy(entryPath, path)
	s.Files = append(s.Files, FileEntry{Length: length, Path: entryPath})
}

// RelativePath returns fullPath truncated to the components below this
// scope's own root, the path recorded in AppendFile for a leaf at
// fullPath.
func (s *Scope) RelativePath(fullPath []string) []string {
	if s.RootDepth >= len(fullPath) {
		return nil
	}
	return fullPath[s.RootDepth:]
}

// Absorb folds data into the rolling hash state. Every complete piece
// boundary reached during this call is finalized and appended to the
// piece list; the residual is carried in done. The result is independent
// of how the caller chunks its input — absorbing "abc" then "def" yields
// the same pieces as absorbing "abcdef" in one call.
func (s *Scope) Absorb(data []byte) {
	for len(data) > 0 {
		remaining := s.PieceLength - s.done
		n := len(data)
		if n > remaining {
			n = remaining
		}

		s.h.Write(data[:n])
		s.done += n
		s.totalHashed += uint64(n)
		data = data[n:]

		if s.done == s.PieceLength {
			s.flushPiece()
		}
	}
}

// TotalHashed returns the number of bytes absorbed so far.
func (s *Scope) TotalHashed() uint64 {
	return s.totalHashed
}

func (s *Scope) flushPiece() {
	s.pieces = s.h.Sum(s.pieces)
	s.h = sha1.New()
	s.done = 0
}

// Finalize flushes any in-progress short piece, assembles and validates
// the metainfo dictionary, and returns it. After Finalize the scope must
// not be used again.
func (s *Scope) Finalize() (*metainfo.Metainfo, error) {
	if s.done > 0 {
		s.flushPiece()
	}

	files := make([]metainfo.FileEntry, len(s.Files))
	for i, f := range s.Files {
		files[i] = metainfo.FileEntry{Length: int64(f.Length), Path: f.Path}
	}

	info := metainfo.Info{
		Files:       files,
		Name:        s.Name,
		PieceLength: int64(s.PieceLength),
		Pieces:      s.pieces,
	}
	if err := metainfo.Validate(&info); err != nil {
		return nil, err
	}

	return &metainfo.Metainfo{
		Announce:     s.Announce,
		CreationDate: time.Now().Unix(),
		Info:         info,
	}, nil
}
