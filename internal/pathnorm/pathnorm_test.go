package pathnorm

import (
	"errors"
	"testing"

	"github.com/javanhut/dsync/internal/dsyncerr"
)

func TestNormalizeValid(t *testing.T) {
	got, err := Normalize("file.txt")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got != "file.txt" {
		t.Errorf("got %q, want %q", got, "file.txt")
	}
}

func TestNormalizeRejects(t *testing.T) {
	cases := []string{"", "a/b", "bad\x00name"}
	for _, c := range cases {
		_, err := Normalize(c)
		if err == nil {
			t.Errorf("Normalize(%q) = nil error, want BadFilename", c)
			continue
		}
		if !errors.Is(err, dsyncerr.ErrBadFilename) {
			t.Errorf("Normalize(%q) error = %v, want wrapping ErrBadFilename", c, err)
		}
	}
}

func TestIsHidden(t *testing.T) {
	if !IsHidden(".git") {
		t.Error("IsHidden(\".git\") = false, want true")
	}
	if IsHidden("git") {
		t.Error("IsHidden(\"git\") = true, want false")
	}
}
