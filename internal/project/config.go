// Package project loads and validates extlint.toml.
package project

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"strings"

	"github.com/BurntSushi/toml"

	"extlint/internal/diag"
	"extlint/internal/rules"
	"extlint/internal/symbols"
)

// ManifestName is the configuration file looked up from the analysis root
// upwards.
const ManifestName = "extlint.toml"

// Mode selects what a run does with its findings.
type Mode uint8

const (
	ModeReport Mode = iota
	ModeFix
)

func (m Mode) String() string {
	if m == ModeFix {
		return "fix"
	}
	return "report"
}

// Config is the raw TOML shape.
//
//	categories = ["threading", "reliability"]
//	mode       = "report"
//	failOn     = "error"
//	maxWorkers = 8
//
//	[symbols]
//	"Legacy.Bridge.Pump" = ["BlockingWait"]
type Config struct {
	Categories []string            `toml:"categories"`
	Mode       string              `toml:"mode"`
	FailOn     string              `toml:"failOn"`
	MaxWorkers int                 `toml:"maxWorkers"`
	Symbols    map[string][]string `toml:"symbols"`
}

// Settings is the validated, typed form every component consumes.
type Settings struct {
	Categories   rules.CategorySet
	Mode         Mode
	FailOn       diag.Severity
	MaxWorkers   int
	ExtraSymbols map[string]symbols.Tag
}

// Defaults returns the settings used when no manifest exists: everything
// enabled, report mode, fail on errors, one worker per CPU.
func Defaults() Settings {
	return Settings{
		Categories: rules.AllCategories,
		Mode:       ModeReport,
		FailOn:     diag.SevError,
		MaxWorkers: runtime.GOMAXPROCS(0),
	}
}

// Validate converts the raw config into settings, filling defaults for
// omitted fields.
func (cfg Config) Validate() (Settings, error) {
	out := Defaults()

	set, err := rules.ParseCategorySet(cfg.Categories)
	if err != nil {
		return out, err
	}
	out.Categories = set

	switch strings.ToLower(strings.TrimSpace(cfg.Mode)) {
	case "", "report":
		out.Mode = ModeReport
	case "fix":
		out.Mode = ModeFix
	default:
		return out, fmt.Errorf("unknown mode %q (want report or fix)", cfg.Mode)
	}

	if cfg.FailOn != "" {
		sev, ok := diag.ParseSeverity(cfg.FailOn)
		if !ok {
			return out, fmt.Errorf("unknown failOn severity %q", cfg.FailOn)
		}
		out.FailOn = sev
	}

	if cfg.MaxWorkers < 0 {
		return out, fmt.Errorf("maxWorkers must be positive, got %d", cfg.MaxWorkers)
	}
	if cfg.MaxWorkers > 0 {
		out.MaxWorkers = cfg.MaxWorkers
	}

	if len(cfg.Symbols) > 0 {
		out.ExtraSymbols = make(map[string]symbols.Tag, len(cfg.Symbols))
		for name, tagNames := range cfg.Symbols {
			var tags symbols.Tag
			for _, tn := range tagNames {
				tag, err := symbols.ParseTag(tn)
				if err != nil {
					return out, fmt.Errorf("symbol %q: %w", name, err)
				}
				tags |= tag
			}
			out.ExtraSymbols[name] = tags
		}
	}
	return out, nil
}

// Load reads and validates one manifest file.
func Load(path string) (Settings, error) {
	var cfg Config
	if _, err := toml.DecodeFile(path, &cfg); err != nil {
		return Defaults(), fmt.Errorf("%s: failed to parse TOML: %w", path, err)
	}
	settings, err := cfg.Validate()
	if err != nil {
		return Defaults(), fmt.Errorf("%s: %w", path, err)
	}
	return settings, nil
}

// Find walks from startDir towards the filesystem root looking for the
// manifest. The second return is false when none exists.
func Find(startDir string) (string, bool, error) {
	dir, err := filepath.Abs(startDir)
	if err != nil {
		return "", false, err
	}
	for {
		candidate := filepath.Join(dir, ManifestName)
		info, err := os.Stat(candidate)
		if err == nil && !info.IsDir() {
			return candidate, true, nil
		}
		if err != nil && !errors.Is(err, os.ErrNotExist) {
			return "", false, err
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			return "", false, nil
		}
		dir = parent
	}
}

// Resolve locates and loads the manifest governing startDir, falling back
// to defaults when there is none.
func Resolve(startDir string) (Settings, string, error) {
	path, ok, err := Find(startDir)
	if err != nil {
		return Defaults(), "", err
	}
	if !ok {
		return Defaults(), "", nil
	}
	settings, err := Load(path)
	return settings, path, err
}
