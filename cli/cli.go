// Package cli wires the cobra root command: this tool takes a tracker
// announce URL and one or more source paths, and produces a meta-tree of
// torrent metainfo artifacts under a target directory.
//
// Laid out as a package-level rootCmd, flag variables registered in
// init, and Execute() as the sole exported entrypoint that os.Exit(1)s
// on error.
package cli

import (
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/javanhut/dsync/internal/colors"
	"github.com/javanhut/dsync/internal/config"
	"github.com/javanhut/dsync/internal/dedupe"
	"github.com/javanhut/dsync/internal/metatree"
	"github.com/javanhut/dsync/internal/treewalk"
)

const dsyncVersion = "0.1.0"

var (
	flagUsePath       bool
	flagPrefix        []string
	flagIgnorePrefix  []string
	flagTarget        string
	flagFollowSymlink bool
	flagNoIgnoreSkips bool
	flagDedupeNotice  bool
	flagVerbose       bool
	flagQuiet         bool
	flagVersion       bool
)

var rootCmd = &cobra.Command{
	Use:   "dsync <announce-url> <source>...",
	Short: "Build a meta-tree of torrent metainfo artifacts",
	Long: `dsync walks one or more source files or directories and emits one
torrent metainfo artifact per node in the tree: one per directory and one
per regular file, each describing exactly the subtree rooted there.`,
	Args: func(cmd *cobra.Command, args []string) error {
		if flagVersion {
			return nil
		}
		if len(args) < 2 {
			return fmt.Errorf("requires an announce URL and at least one source path")
		}
		return nil
	},
	RunE: runDsync,
}

// Execute runs the root command, exiting non-zero on any error.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func init() {
	rootCmd.Flags().BoolVar(&flagVersion, "version", false, "print the version and exit")
	rootCmd.Flags().BoolVarP(&flagUsePath, "use-path", "u", false, "include ancestor path components in recorded paths")
	rootCmd.Flags().StringArrayVarP(&flagPrefix, "prefix", "p", nil, "prepend these path components to every recorded path (implies --use-path)")
	rootCmd.Flags().StringArrayVarP(&flagIgnorePrefix, "ignore-prefix", "i", nil, "strip this leading path-component prefix before --prefix is applied (implies --use-path)")
	rootCmd.Flags().StringVarP(&flagTarget, "target", "t", "", "output root directory for generated artifacts (default: config or current directory)")
	rootCmd.Flags().BoolVar(&flagFollowSymlink, "follow-symlinks", false, "follow symlinks to files/directories instead of treating them as unsupported")
	rootCmd.Flags().BoolVar(&flagNoIgnoreSkips, "no-ignore-defaults", false, "disable the default OS-clutter skip list (.DS_Store, Thumbs.db, desktop.ini, *.torrent)")
	rootCmd.Flags().BoolVar(&flagDedupeNotice, "dedupe-notices", false, "log a notice when two leaf files in this run are byte-identical (printed only with --verbose)")
	rootCmd.Flags().BoolVarP(&flagVerbose, "verbose", "v", false, "log every node visited during traversal")
	rootCmd.Flags().BoolVar(&flagQuiet, "quiet", false, "suppress all non-error output")
}

func runDsync(cmd *cobra.Command, args []string) error {
	if flagVersion {
		fmt.Printf("dsync version %s\n", dsyncVersion)
		return nil
	}

	cfg, err := config.Load()
	if err != nil {
		return err
	}
	colors.SetColorEnabled(cfg.Color.UI)

	target := flagTarget
	if target == "" {
		target = cfg.Defaults.Target
	}
	if target == "" {
		target = "."
	}

	announce := args[0]
	sources := args[1:]

	var skipPatterns []string
	if !flagNoIgnoreSkips && !cfg.Defaults.IgnoreDefaultSkips {
		skipPatterns = append(skipPatterns, config.DefaultSkipPatterns...)
		skipPatterns = append(skipPatterns, cfg.Defaults.ExtraSkipPatterns...)
	}

	logger := log.New(os.Stderr, "", 0)
	var tracker *dedupe.Tracker
	if flagDedupeNotice {
		tracker = dedupe.NewTracker()
	}

	for _, src := range sources {
		prefix := composePrefix(src)

		if !flagQuiet {
			logger.Printf("%s", colors.InfoText(fmt.Sprintf("Total size: %d", totalSizeOf(src))))
		}

		walkOpts := treewalk.Options{
			FollowSymlinks: flagFollowSymlink,
			SkipPatterns:   skipPatterns,
		}
		node, err := treewalk.Build(src, prefix, walkOpts)
		if err != nil {
			return err
		}

		runOpts := metatree.Options{
			Announce:   announce,
			TargetRoot: target,
			Dedupe:     tracker,
		}
		if flagVerbose && !flagQuiet {
			runOpts.Logger = logger
		}

		if err := metatree.Run(node, runOpts); err != nil {
			return err
		}
	}

	return nil
}

// totalSizeOf stats src for the total-size banner printed before
// traversal begins. A failure here is swallowed; Build will report the
// real error shortly after.
func totalSizeOf(src string) int64 {
	info, err := os.Stat(src)
	if err != nil {
		return 0
	}
	if !info.IsDir() {
		return info.Size()
	}
	var total int64
	sumDirSize(src, &total)
	return total
}

func sumDirSize(root string, total *int64) {
	entries, err := os.ReadDir(root)
	if err != nil {
		return
	}
	for _, e := range entries {
		full := filepath.Join(root, e.Name())
		if e.IsDir() {
			sumDirSize(full, total)
			continue
		}
		if info, err := e.Info(); err == nil {
			*total += info.Size()
		}
	}
}

// composePrefix resolves --prefix/--ignore-prefix/--use-path for one
// source argument: ignore-prefix strips a leading path-element prefix
// from the source argument's own directory path, then prefix is
// prepended; a bare filename (no directory components) has nothing for
// ignore-prefix to strip and the flag is a no-op for that argument.
func composePrefix(src string) []string {
	var logical []string

	if flagUsePath || len(flagPrefix) > 0 || len(flagIgnorePrefix) > 0 {
		dir := filepath.Dir(src)
		if dir != "." && dir != string(filepath.Separator) {
			parts := strings.Split(filepath.ToSlash(dir), "/")
			logical = stripIgnorePrefix(parts, flagIgnorePrefix)
		}
	}

	prefixed := make([]string, 0, len(flagPrefix)+len(logical)+1)
	prefixed = append(prefixed, flagPrefix...)
	prefixed = append(prefixed, logical...)
	prefixed = append(prefixed, filepath.Base(src))
	return prefixed
}

func stripIgnorePrefix(parts, ignore []string) []string {
	if len(ignore) == 0 {
		return parts
	}
	i := 0
	for i < len(parts) && i < len(ignore) && parts[i] == ignore[i] {
		i++
	}
	return parts[i:]
}
