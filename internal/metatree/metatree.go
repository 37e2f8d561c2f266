// Package metatree implements the Meta-Tree Driver: the recursive descent
// that walks a Tree Node, maintains the active stack of Hasher Scopes, fans
// leaf bytes out to every scope on that stack, and finalizes each scope's
// artifact as the recursion unwinds past it.
//
// The overall shape (enter node, recurse children, unwind) follows a
// plain recursive filesystem walk, generalized here to the multi-scope
// fan-out that is this module's algorithmic heart.
package metatree

import (
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/javanhut/dsync/internal/artifact"
	"github.com/javanhut/dsync/internal/colors"
	"github.com/javanhut/dsync/internal/dedupe"
	"github.com/javanhut/dsync/internal/dsyncerr"
	"github.com/javanhut/dsync/internal/scope"
	"github.com/javanhut/dsync/internal/treewalk"
)

// Logger is satisfied by *log.Logger; Run emits one line per node visited
// and one duplicate-content notice per repeated leaf.
type Logger interface {
	Printf(format string, args ...interface{})
}

type nullLogger struct{}

func (nullLogger) Printf(string, ...interface{}) {}

// Options configures one Run.
type Options struct {
	Announce   string
	TargetRoot string

	// Dedupe, when non-nil, is consulted for every leaf visited and
	// receives a notice logged through Logger when a leaf's content
	// duplicates an earlier one in this same run. Dedupe is run-scoped
	// only; nothing is persisted across runs (spec Non-goal).
	Dedupe *dedupe.Tracker

	Logger Logger
}

func (o *Options) logger() Logger {
	if o.Logger == nil {
		return nullLogger{}
	}
	return o.Logger
}

// Run descends node, writing one artifact per Tree Node beneath
// opts.TargetRoot. It returns the first error encountered; on error no
// artifact for an ancestor of the failing node is written, since a scope
// only writes after a successful Finalize of its entire subtree.
func Run(node *treewalk.Node, opts Options) error {
	return descend(node, nil, &opts)
}

func descend(node *treewalk.Node, stack []*scope.Scope, opts *Options) error {
	rootDepth := len(node.Path)
	if node.Kind == treewalk.KindLeaf && rootDepth > 0 {
		rootDepth--
	}

	sc := scope.New(
		nameFor(node),
		artifact.TargetPath(opts.TargetRoot, node.Path),
		opts.Announce,
		rootDepth,
		node.Size,
	)

	// Every recursive call receives its own stack slice; the make and copy
	// below never share a backing array with the parent's stack, since
	// a sibling call later in the same loop must not see scopes pushed by
	// an already-returned recursive call.
	childStack := make([]*scope.Scope, len(stack)+1)
	copy(childStack, stack)
	childStack[len(stack)] = sc

	switch node.Kind {
	case treewalk.KindBranch:
		opts.logger().Printf("%s", colors.InfoText(fmt.Sprintf("Directory: %s (%d)", filepath.Join(node.Path...), node.Size)))
		for _, child := range node.Children {
			if err := descend(child, childStack, opts); err != nil {
				return err
			}
		}
	case treewalk.KindLeaf:
		opts.logger().Printf("%s", colors.InfoText(fmt.Sprintf("File: %s (%d)", filepath.Join(node.Path...), node.Size)))
		if err := visitLeaf(node, childStack, opts); err != nil {
			return err
		}
	}

	m, err := sc.Finalize()
	if err != nil {
		return err
	}
	if _, err := artifact.Write(m, opts.TargetRoot, node.Path); err != nil {
		return err
	}
	return nil
}

// nameFor implements the Hasher Scope's name rule: the first component of
// the scope's own root path. Because every node's Path is its parent's
// Path extended by one component, Path[0] is the same value — the overall
// traversal root's name — for every scope in a single Run, which is
// exactly the behavior observed in the historical source.
func nameFor(node *treewalk.Node) string {
	if len(node.Path) > 0 {
		return node.Path[0]
	}
	return filepath.Base(node.Location)
}

// visitLeaf appends a manifest entry to every active scope and streams the
// leaf's bytes into all of them in one pass, chunked at the largest piece
// length among the active scopes.
func visitLeaf(node *treewalk.Node, stack []*scope.Scope, opts *Options) error {
	for _, sc := range stack {
		sc.AppendFile(node.Size, sc.RelativePath(node.Path))
	}

	f, err := os.Open(node.Location)
	if err != nil {
		return dsyncerr.IO(node.Location, err)
	}
	defer f.Close()

	chunkSize := 0
	for _, sc := range stack {
		if sc.PieceLength > chunkSize {
			chunkSize = sc.PieceLength
		}
	}
	if chunkSize == 0 {
		chunkSize = 32768
	}

	// A file small enough to land in a single read is hashed for dedupe
	// with one Sum call over the whole buffer instead of a streaming
	// Hasher — no incremental state to carry across reads that never
	// happen.
	if opts.Dedupe != nil && node.Size <= uint64(chunkSize) {
		data, err := io.ReadAll(f)
		if err != nil {
			return dsyncerr.IO(node.Location, err)
		}
		for _, sc := range stack {
			sc.Absorb(data)
		}
		opts.noteDuplicate(dedupe.Sum(data), node.Location)
		return nil
	}

	var hasher interface {
		Write(p []byte) (int, error)
		Sum(b []byte) []byte
	}
	if opts.Dedupe != nil {
		hasher = dedupe.NewHasher()
	}

	buf := make([]byte, chunkSize)
	for {
		n, rerr := f.Read(buf)
		if n > 0 {
			chunk := buf[:n]
			for _, sc := range stack {
				sc.Absorb(chunk)
			}
			if hasher != nil {
				hasher.Write(chunk)
			}
		}
		if rerr == io.EOF {
			break
		}
		if rerr != nil {
			return dsyncerr.IO(node.Location, rerr)
		}
	}

	if opts.Dedupe != nil {
		var fp dedupe.Fingerprint
		copy(fp[:], hasher.Sum(nil))
		opts.noteDuplicate(fp, node.Location)
	}

	return nil
}

// noteDuplicate records fp as produced by path and logs a warning-colored
// notice if another leaf in this run already produced the same content.
func (o *Options) noteDuplicate(fp dedupe.Fingerprint, path string) {
	if prior, dup := o.Dedupe.Observe(fp, path); dup {
		o.logger().Printf("%s", colors.WarningText(fmt.Sprintf("duplicate content: %s matches %s", path, prior)))
	}
}
