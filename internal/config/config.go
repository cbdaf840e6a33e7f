// Package config locates and parses basfmt.toml, the per-project formatting
// configuration.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/BurntSushi/toml"
)

// ManifestName is the config file looked up from the start directory upward.
const ManifestName = "basfmt.toml"

// DefaultExtensions are the source file suffixes formatted when a directory
// is given and no config overrides them.
var DefaultExtensions = []string{".pb", ".pbi"}

// Config is the parsed basfmt.toml.
type Config struct {
	Format FormatConfig `toml:"format"`
	Files  FilesConfig  `toml:"files"`
}

type FormatConfig struct {
	TabSize      int  `toml:"tab_size"`
	InsertSpaces bool `toml:"insert_spaces"`
}

type FilesConfig struct {
	Extensions []string `toml:"extensions"`
}

// Manifest is a loaded config plus where it was found.
type Manifest struct {
	Path   string
	Root   string
	Config Config
}

// Default returns the configuration used when no basfmt.toml exists.
func Default() Config {
	return Config{
		Format: FormatConfig{TabSize: 4, InsertSpaces: true},
		Files:  FilesConfig{Extensions: DefaultExtensions},
	}
}

// Find walks from startDir toward the filesystem root looking for
// basfmt.toml. The second result is false when none exists.
func Find(startDir string) (string, bool, error) {
	if startDir == "" {
		startDir = "."
	}
	dir, err := filepath.Abs(startDir)
	if err != nil {
		return "", false, fmt.Errorf("failed to resolve start directory: %w", err)
	}
	for {
		candidate := filepath.Join(dir, ManifestName)
		if _, err := os.Stat(candidate); err == nil {
			return candidate, true, nil
		} else if !errors.Is(err, os.ErrNotExist) {
			return "", false, fmt.Errorf("failed to stat %q: %w", candidate, err)
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			break
		}
		dir = parent
	}
	return "", false, nil
}

// Load finds and parses the manifest for startDir. When none exists it
// returns defaults and ok=false, never an error.
func Load(startDir string) (*Manifest, bool, error) {
	path, ok, err := Find(startDir)
	if err != nil {
		return nil, false, err
	}
	if !ok {
		return &Manifest{Config: Default()}, false, nil
	}
	cfg, err := parseFile(path)
	if err != nil {
		return nil, true, err
	}
	return &Manifest{
		Path:   path,
		Root:   filepath.Dir(path),
		Config: cfg,
	}, true, nil
}

func parseFile(path string) (Config, error) {
	// decoding over defaults keeps unset keys at their default values
	cfg := Default()
	meta, err := toml.DecodeFile(path, &cfg)
	if err != nil {
		return Config{}, fmt.Errorf("%s: failed to parse TOML: %w", path, err)
	}
	if meta.IsDefined("format", "tab_size") && cfg.Format.TabSize <= 0 {
		return Config{}, fmt.Errorf("%s: [format].tab_size must be positive", path)
	}
	if meta.IsDefined("files", "extensions") && len(cfg.Files.Extensions) == 0 {
		return Config{}, fmt.Errorf("%s: [files].extensions must not be empty", path)
	}
	return cfg, nil
}
