// Package config carries this tool's two-tier configuration: compiled-in
// defaults, overridden first by a global file, then by a repository-local
// one.
package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
)

// Config is this tool's on-disk configuration.
type Config struct {
	Defaults Defaults    `json:"defaults"`
	Color    ColorConfig `json:"color"`
}

// Defaults holds the settings a config file can override: the announce
// URL, the output target directory, and the ignore-list behavior. The CLI
// reads Target and the ignore-list settings; it does not read Announce,
// since it always takes the announce URL as its first argument.
type Defaults struct {
	Announce           string   `json:"announce,omitempty"`
	Target             string   `json:"target,omitempty"`
	IgnoreDefaultSkips bool     `json:"ignore_default_skips"`
	ExtraSkipPatterns  []string `json:"extra_skip_patterns,omitempty"`
}

// ColorConfig controls whether CLI progress output is colorized.
type ColorConfig struct {
	UI bool `json:"ui"`
}

// DefaultSkipPatterns are the filename suffixes skipped in addition to the
// spec's mandatory "hidden entries only" rule, lifted from mkbrr's
// shouldIgnoreFile list: common OS-generated clutter plus the tool's own
// output extension, so a re-run over a previous --target doesn't describe
// its own artifacts.
var DefaultSkipPatterns = []string{
	".ds_store",
	"thumbs.db",
	"desktop.ini",
	".torrent",
}

// DefaultConfig returns the compiled-in defaults.
func DefaultConfig() *Config {
	return &Config{
		Defaults: Defaults{
			Announce:           "",
			Target:             ".",
			IgnoreDefaultSkips: false,
		},
		Color: ColorConfig{UI: true},
	}
}

func globalConfigPath() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("failed to get home directory: %w", err)
	}
	return filepath.Join(home, ".dsyncconfig"), nil
}

func localConfigPath() string {
	return ".dsyncconfig"
}

// Load reads the global config file, then the repository-local one,
// merging each on top of the compiled-in defaults in turn. A missing or
// unparsable file at either tier is silently skipped; only the values
// present in each successive file override the prior tier.
func Load() (*Config, error) {
	cfg := DefaultConfig()

	if globalPath, err := globalConfigPath(); err == nil {
		if data, err := os.ReadFile(globalPath); err == nil {
			globalCfg := *cfg
			if err := json.Unmarshal(data, &globalCfg); err == nil {
				merge(cfg, &globalCfg)
			}
		}
	}

	if data, err := os.ReadFile(localConfigPath()); err == nil {
		localCfg := *cfg
		if err := json.Unmarshal(data, &localCfg); err == nil {
			merge(cfg, &localCfg)
		}
	}

	return cfg, nil
}

// merge overlays non-empty strings and lists of src onto dst and copies
// the booleans as they are. Load decodes each file on top of a copy of
// the prior tier, so a boolean a file omits keeps its prior value.
func merge(dst, src *Config) {
	if src.Defaults.Announce != "" {
		dst.Defaults.Announce = src.Defaults.Announce
	}
	if src.Defaults.Target != "" {
		dst.Defaults.Target = src.Defaults.Target
	}
	dst.Defaults.IgnoreDefaultSkips = src.Defaults.IgnoreDefaultSkips
	if len(src.Defaults.ExtraSkipPatterns) > 0 {
		dst.Defaults.ExtraSkipPatterns = src.Defaults.ExtraSkipPatterns
	}
	dst.Color.UI = src.Color.UI
}
