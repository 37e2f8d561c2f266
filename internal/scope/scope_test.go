package scope

import (
	"bytes"
	"crypto/sha1"
	"testing"
)

func sha1Sum(b []byte) []byte {
	sum := sha1.Sum(b)
	return sum[:]
}

// Scenario B: two small files, single piece.
func TestAbsorbConcatenation(t *testing.T) {
	s := New("a", "/out/a.torrent", "http://tracker", 1, 8)
	s.AppendFile(3, []string{"x"})
	s.AppendFile(5, []string{"y"})
	s.Absorb([]byte("abc"))
	s.Absorb([]byte("hello"))

	m, err := s.Finalize()
	if err != nil {
		t.Fatalf("Finalize: %v", err)
	}
	want := sha1Sum([]byte("abchello"))
	if !bytes.Equal(m.Info.Pieces, want) {
		t.Errorf("pieces = %x, want %x", m.Info.Pieces, want)
	}
	if m.Info.PieceLength != 32768 {
		t.Errorf("piece length = %d, want 32768", m.Info.PieceLength)
	}
}

// Scenario D: exact piece boundary — two full pieces, no short piece.
func TestAbsorbExactBoundary(t *testing.T) {
	s := New("a", "/out/a.torrent", "http://tracker", 1, 2*32768)
	block := bytes.Repeat([]byte{0x41}, 32768)

	s.Absorb(block)
	s.Absorb(block)

	m, err := s.Finalize()
	if err != nil {
		t.Fatalf("Finalize: %v", err)
	}
	if len(m.Info.Pieces) != 40 {
		t.Fatalf("pieces length = %d, want 40 (two digests)", len(m.Info.Pieces))
	}
	want1 := sha1Sum(block)
	if !bytes.Equal(m.Info.Pieces[:20], want1) || !bytes.Equal(m.Info.Pieces[20:], want1) {
		t.Error("digests do not match expected per-piece SHA-1")
	}
}

// Scenario E: partial trailing piece — second piece covers exactly one byte.
func TestAbsorbPartialTrailingPiece(t *testing.T) {
	s := New("a", "/out/a.torrent", "http://tracker", 1, 32769)
	full := bytes.Repeat([]byte{0x42}, 32768)
	s.Absorb(full)
	s.Absorb([]byte{0x43})

	m, err := s.Finalize()
	if err != nil {
		t.Fatalf("Finalize: %v", err)
	}
	if len(m.Info.Pieces) != 40 {
		t.Fatalf("pieces length = %d, want 40", len(m.Info.Pieces))
	}
	wantSecond := sha1Sum([]byte{0x43})
	if !bytes.Equal(m.Info.Pieces[20:], wantSecond) {
		t.Error("trailing short piece digest mismatch")
	}
}

// Invariant 2: chunk-independence — any chunking of the same bytes
// produces the same pieces.
func TestAbsorbChunkIndependence(t *testing.T) {
	data := bytes.Repeat([]byte("0123456789"), 10000) // 100000 bytes

	chunkings := [][]int{
		{len(data)},
		splitEvery(len(data), 1),
		splitEvery(len(data), 7),
		splitEvery(len(data), 32768),
	}

	var results [][]byte
	for _, sizes := range chunkings {
		s := New("a", "/out/a.torrent", "http://tracker", 1, uint64(len(data)))
		offset := 0
		for _, n := range sizes {
			s.Absorb(data[offset : offset+n])
			offset += n
		}
		m, err := s.Finalize()
		if err != nil {
			t.Fatalf("Finalize: %v", err)
		}
		results = append(results, m.Info.Pieces)
	}

	for i := 1; i < len(results); i++ {
		if !bytes.Equal(results[0], results[i]) {
			t.Errorf("chunking %d produced different pieces than chunking 0", i)
		}
	}
}

func splitEvery(total, n int) []int {
	var out []int
	for total > 0 {
		c := n
		if c > total {
			c = total
		}
		out = append(out, c)
		total -= c
	}
	return out
}

func TestFinalizeEmptyScope(t *testing.T) {
	s := New("a", "/out/a.torrent", "http://tracker", 1, 0)
	m, err := s.Finalize()
	if err != nil {
		t.Fatalf("Finalize: %v", err)
	}
	if len(m.Info.Pieces) != 0 {
		t.Errorf("pieces = %x, want empty", m.Info.Pieces)
	}
	if len(m.Info.Files) != 0 {
		t.Errorf("files = %v, want empty", m.Info.Files)
	}
}

func TestRelativePath(t *testing.T) {
	// Ancestor scope rooted at depth 1 ("a"); leaf at ["a","b","f"].
	s := New("a", "/out/a.torrent", "http://tracker", 1, 100)
	got := s.RelativePath([]string{"a", "b", "f"})
	want := []string{"b", "f"}
	if !equalStrings(got, want) {
		t.Errorf("RelativePath = %v, want %v", got, want)
	}

	// Leaf's own scope, rootDepth = len(path)-1.
	own := New("f", "/out/a/b/f.torrent", "http://tracker", 2, 0)
	got = own.RelativePath([]string{"a", "b", "f"})
	want = []string{"f"}
	if !equalStrings(got, want) {
		t.Errorf("RelativePath (own scope) = %v, want %v", got, want)
	}
}

func equalStrings(a, b []string) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}
