// Package treewalk builds a size-annotated tree from a filesystem
// hierarchy in the canonical order the meta-tree driver depends on:
// children sorted lexicographically by byte value, hidden entries
// excluded.
//
// This package walks with os.ReadDir rather than filepath.Walk so it can
// enumerate one directory level, sort it explicitly, and recurse itself —
// filepath.Walk does not expose a seam to reject unsupported entry kinds
// (sockets, devices, dangling symlinks) before descending into them.
package treewalk

import (
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/javanhut/dsync/internal/dsyncerr"
	"github.com/javanhut/dsync/internal/pathnorm"
)

// Kind distinguishes the two Tree Node variants.
type Kind int

const (
	KindLeaf Kind = iota
	KindBranch
)

// Node is either a Leaf (regular file) or a Branch (directory).
type Node struct {
	Kind     Kind
	Location string   // absolute (or as-given) filesystem path
	Path     []string // logical path, extension of the parent's Path by one component
	Size     uint64
	Children []*Node // sorted by component name; nil for a Leaf
}

// Options configures traversal beyond the mandatory lexicographic,
// hidden-entry-excluding rule.
type Options struct {
	// FollowSymlinks makes a symlink to a file or directory behave as the
	// target, instead of the default UnsupportedEntry. By default every
	// symlink is unsupported; this is an opt-in relaxation of that rule.
	FollowSymlinks bool

	// SkipPatterns is a list of case-insensitive filename suffixes
	// skipped in addition to the mandatory hidden-entry rule (e.g.
	// ".torrent", "thumbs.db"). Empty by default, so only hidden entries
	// are excluded.
	SkipPatterns []string
}

// Build walks fsPath and returns its Tree Node, with logicalPath as the
// Path prefix of the node it returns (so a caller composing --prefix /
// --use-path / --ignore-prefix can seed the starting path).
func Build(fsPath string, logicalPath []string, opts Options) (*Node, error) {
	info, err := os.Lstat(fsPath)
	if err != nil {
		return nil, dsyncerr.IO(fsPath, err)
	}

	if info.Mode()&os.ModeSymlink != 0 {
		if !opts.FollowSymlinks {
			return nil, dsyncerr.UnsupportedEntry(fsPath)
		}
		info, err = os.Stat(fsPath)
		if err != nil {
			return nil, dsyncerr.IO(fsPath, err)
		}
	}

	switch {
	case info.Mode().IsRegular():
		path := make([]string, len(logicalPath))
		copy(path, logicalPath)
		return &Node{
			Kind:     KindLeaf,
			Location: fsPath,
			Path:     path,
			Size:     uint64(info.Size()),
		}, nil
	case info.IsDir():
		return buildBranch(fsPath, logicalPath, opts)
	default:
		return nil, dsyncerr.UnsupportedEntry(fsPath)
	}
}

func buildBranch(fsPath string, logicalPath []string, opts Options) (*Node, error) {
	entries, err := os.ReadDir(fsPath)
	if err != nil {
		return nil, dsyncerr.IO(fsPath, err)
	}

	names := make([]string, 0, len(entries))
	for _, e := range entries {
		name := e.Name()
		if pathnorm.IsHidden(name) {
			continue
		}
		if matchesSkipPattern(name, opts.SkipPatterns) {
			continue
		}
		names = append(names, name)
	}

	// Byte-wise, not locale-aware: sort.Strings compares Go strings
	// (UTF-8 bytes) directly, which is exactly the ordering the driver's
	// reproducibility guarantee depends on.
	sort.Strings(names)

	children := make([]*Node, 0, len(names))
	var total uint64
	for _, name := range names {
		normName, err := pathnorm.Normalize(name)
		if err != nil {
			return nil, err
		}

		childPath := make([]string, len(logicalPath)+1)
		copy(childPath, logicalPath)
		childPath[len(logicalPath)] = normName

		child, err := Build(filepath.Join(fsPath, name), childPath, opts)
		if err != nil {
			return nil, err
		}
		children = append(children, child)
		total += child.Size
	}

	path := make([]string, len(logicalPath))
	copy(path, logicalPath)
	return &Node{
		Kind:     KindBranch,
		Location: fsPath,
		Path:     path,
		Size:     total,
		Children: children,
	}, nil
}

func matchesSkipPattern(name string, patterns []string) bool {
	lower := strings.ToLower(name)
	for _, p := range patterns {
		if strings.HasSuffix(lower, strings.ToLower(p)) {
			return true
		}
	}
	return false
}
