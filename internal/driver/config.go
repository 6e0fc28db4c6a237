package driver

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/BurntSushi/toml"
)

// ConfigFile is the project file looked up from the working directory.
const ConfigFile = "synapse.toml"

// Config mirrors synapse.toml. Relative paths are resolved against Root.
type Config struct {
	Project struct {
		Name string `toml:"name"`
	} `toml:"project"`
	Compile struct {
		MaxDiagnostics int      `toml:"max-diagnostics"`
		Strict         bool     `toml:"strict"`
		Bindings       []string `toml:"bindings"`
	} `toml:"compile"`
	Cache struct {
		Enabled bool   `toml:"enabled"`
		Dir     string `toml:"dir"`
	} `toml:"cache"`

	// Root is the directory holding the file; empty for DefaultConfig.
	Root string `toml:"-"`
}

// DefaultConfig is used when no synapse.toml is found.
func DefaultConfig() Config {
	var cfg Config
	cfg.Compile.MaxDiagnostics = 100
	cfg.Cache.Enabled = true
	return cfg
}

// FindConfig walks up from startDir to locate synapse.toml.
func FindConfig(startDir string) (path string, ok bool, err error) {
	if startDir == "" {
		startDir = "."
	}
	dir, err := filepath.Abs(startDir)
	if err != nil {
		return "", false, fmt.Errorf("failed to resolve start directory: %w", err)
	}
	for {
		candidate := filepath.Join(dir, ConfigFile)
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

// LoadConfig parses path on top of DefaultConfig. Keys that are absent
// keep their defaults.
func LoadConfig(path string) (Config, error) {
	var file Config
	meta, err := toml.DecodeFile(path, &file)
	if err != nil {
		return Config{}, fmt.Errorf("%s: failed to parse TOML: %w", path, err)
	}
	if keys := meta.Undecoded(); len(keys) > 0 {
		return Config{}, fmt.Errorf("%s: unknown key %q", path, keys[0].String())
	}

	cfg := DefaultConfig()
	cfg.Root = filepath.Dir(path)
	cfg.Project.Name = file.Project.Name
	if meta.IsDefined("compile", "max-diagnostics") {
		if file.Compile.MaxDiagnostics < 0 {
			return Config{}, fmt.Errorf("%s: compile.max-diagnostics must not be negative", path)
		}
		cfg.Compile.MaxDiagnostics = file.Compile.MaxDiagnostics
	}
	cfg.Compile.Strict = file.Compile.Strict
	for _, b := range file.Compile.Bindings {
		cfg.Compile.Bindings = append(cfg.Compile.Bindings, cfg.resolve(b))
	}
	if meta.IsDefined("cache", "enabled") {
		cfg.Cache.Enabled = file.Cache.Enabled
	}
	if file.Cache.Dir != "" {
		cfg.Cache.Dir = cfg.resolve(file.Cache.Dir)
	}
	return cfg, nil
}

// LoadProjectConfig finds synapse.toml above startDir, or returns the
// defaults when there is none.
func LoadProjectConfig(startDir string) (Config, error) {
	path, ok, err := FindConfig(startDir)
	if err != nil {
		return Config{}, err
	}
	if !ok {
		return DefaultConfig(), nil
	}
	return LoadConfig(path)
}

func (c Config) resolve(p string) string {
	if filepath.IsAbs(p) || c.Root == "" {
		return p
	}
	return filepath.Join(c.Root, p)
}
