// Package dedupe detects byte-identical leaf files encountered within a
// single meta-tree run and reports the first path that produced each
// fingerprint.
//
// Same mutex-guarded map shape as a content-addressable store, repurposed
// from one that persists content into a same-run duplicate detector that
// persists nothing but a hash and a path. It deliberately uses BLAKE3,
// not the SHA-1 the piece hasher is pinned to, so a fingerprint collision
// can never be confused with a piece digest, and it never touches disk:
// content-addressed deduplication across runs is out of scope, so this
// tracker is scoped to the lifetime of one process and is discarded
// afterward.
package dedupe

import (
	"sync"

	"lukechampine.com/blake3"
)

// Fingerprint is a whole-file BLAKE3-256 content hash.
type Fingerprint = [32]byte

// Sum computes the fingerprint of data in one call, for small inputs.
func Sum(data []byte) Fingerprint {
	return blake3.Sum256(data)
}

// NewHasher returns a streaming BLAKE3 hasher for computing a fingerprint
// incrementally, alongside the SHA-1 piece hashing the driver already does
// in the same read loop.
func NewHasher() *blake3.Hasher {
	return blake3.New(32, nil)
}

// Tracker records the first path seen for each fingerprint during one run.
type Tracker struct {
	mu   sync.Mutex
	seen map[Fingerprint]string
}

// NewTracker creates an empty, run-scoped tracker.
func NewTracker() *Tracker {
	return &Tracker{seen: make(map[Fingerprint]string)}
}

// Observe records fp as produced by path. If fp was already seen, it
// returns the first path that produced it and true; otherwise it records
// path as the first occurrence and returns ("", false).
func (t *Tracker) Observe(fp Fingerprint, path string) (firstPath string, duplicate bool) {
	t.mu.Lock()
	defer t.mu.Unlock()

	if prior, ok := t.seen[fp]; ok {
		return prior, true
	}
	t.seen[fp] = path
	return "", false
}
