package main

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"slices"
	"strings"

	"github.com/BurntSushi/toml"
	"github.com/bmatcuk/doublestar/v4"
	"github.com/spf13/cobra"
)

const configFileName = "norg.toml"

type projectConfig struct {
	Parse  parseConfig  `toml:"parse"`
	Output outputConfig `toml:"output"`
	Cache  cacheConfig  `toml:"cache"`
}

type parseConfig struct {
	Jobs           int      `toml:"jobs"`
	MaxDiagnostics int      `toml:"max_diagnostics"`
	Normalize      string   `toml:"normalize"`
	Exclude        []string `toml:"exclude"`
}

type outputConfig struct {
	Format string `toml:"format"`
	Color  string `toml:"color"`
}

type cacheConfig struct {
	Enabled bool   `toml:"enabled"`
	Dir     string `toml:"dir"`
}

func defaultConfig() projectConfig {
	return projectConfig{
		Parse:  parseConfig{Jobs: runtime.GOMAXPROCS(0), MaxDiagnostics: 100, Normalize: "none"},
		Output: outputConfig{Format: "pretty", Color: "auto"},
	}
}

// findConfig ищет norg.toml от startDir вверх до корня.
func findConfig(startDir string) (string, bool, error) {
	if startDir == "" {
		startDir = "."
	}
	dir, err := filepath.Abs(startDir)
	if err != nil {
		return "", false, fmt.Errorf("failed to resolve start directory: %w", err)
	}
	for {
		candidate := filepath.Join(dir, configFileName)
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

// loadConfig decodes path over the defaults. Unknown keys are errors so that
// typos do not silently fall back to defaults.
func loadConfig(path string) (projectConfig, error) {
	cfg := defaultConfig()
	meta, err := toml.DecodeFile(path, &cfg)
	if err != nil {
		return projectConfig{}, fmt.Errorf("%s: failed to parse TOML: %w", path, err)
	}
	if undecoded := meta.Undecoded(); len(undecoded) > 0 {
		keys := make([]string, len(undecoded))
		for i, k := range undecoded {
			keys[i] = k.String()
		}
		return projectConfig{}, fmt.Errorf("%s: unknown keys: %s", path, strings.Join(keys, ", "))
	}
	if err := cfg.validate(); err != nil {
		return projectConfig{}, fmt.Errorf("%s: %w", path, err)
	}
	// относительный каталог кэша считается от norg.toml
	if cfg.Cache.Dir != "" && !filepath.IsAbs(cfg.Cache.Dir) {
		cfg.Cache.Dir = filepath.Join(filepath.Dir(path), cfg.Cache.Dir)
	}
	return cfg, nil
}

func (cfg projectConfig) validate() error {
	if cfg.Parse.Jobs < 0 {
		return fmt.Errorf("[parse].jobs must be >= 0, got %d", cfg.Parse.Jobs)
	}
	if cfg.Parse.MaxDiagnostics < 0 {
		return fmt.Errorf("[parse].max_diagnostics must be >= 0, got %d", cfg.Parse.MaxDiagnostics)
	}
	for _, pattern := range cfg.Parse.Exclude {
		if !doublestar.ValidatePattern(pattern) {
			return fmt.Errorf("[parse].exclude: invalid pattern %q", pattern)
		}
	}
	switch cfg.Parse.Normalize {
	case "none", "nfc":
	default:
		return fmt.Errorf("[parse].normalize must be none or nfc, got %q", cfg.Parse.Normalize)
	}
	if _, err := readTreeFormat(cfg.Output.Format); err != nil {
		return fmt.Errorf("[output].format: %w", err)
	}
	if _, err := readSwitch("color", cfg.Output.Color); err != nil {
		return fmt.Errorf("[output].color: %w", err)
	}
	return nil
}

// settings: итоговые параметры команды: norg.toml, поверх него флаги.
type settings struct {
	configPath     string
	jobs           int
	maxDiagnostics int
	nfc            bool
	exclude        []string
	format         treeFormat
	color          switchMode
	cache          bool
	cacheDir       string
	quiet          bool
	timings        bool
	diagFormat     string
}

func loadSettings(cmd *cobra.Command) (settings, error) {
	root := cmd.Root().PersistentFlags()
	cfg := defaultConfig()

	configPath, err := root.GetString("config")
	if err != nil {
		return settings{}, err
	}
	if configPath == "" {
		var found bool
		if configPath, found, err = findConfig("."); err != nil {
			return settings{}, err
		} else if !found {
			configPath = ""
		}
	}
	if configPath != "" {
		if cfg, err = loadConfig(configPath); err != nil {
			return settings{}, err
		}
	}

	s := settings{
		configPath:     configPath,
		jobs:           cfg.Parse.Jobs,
		maxDiagnostics: cfg.Parse.MaxDiagnostics,
		nfc:            cfg.Parse.Normalize == "nfc",
		exclude:        cfg.Parse.Exclude,
		cache:          cfg.Cache.Enabled,
		cacheDir:       cfg.Cache.Dir,
	}
	// validate уже проверил оба значения
	s.format, _ = readTreeFormat(cfg.Output.Format)
	s.color, _ = readSwitch("color", cfg.Output.Color)

	if root.Changed("color") {
		v, _ := root.GetString("color")
		if s.color, err = readSwitch("color", v); err != nil {
			return settings{}, err
		}
	}
	if root.Changed("max-diagnostics") {
		s.maxDiagnostics, _ = root.GetInt("max-diagnostics")
	}
	s.quiet, _ = root.GetBool("quiet")
	s.timings, _ = root.GetBool("timings")
	s.diagFormat, _ = root.GetString("diagnostics")
	if s.diagFormat != "pretty" && s.diagFormat != "json" {
		return settings{}, fmt.Errorf("invalid --diagnostics value %q (expected pretty|json)", s.diagFormat)
	}

	local := cmd.Flags()
	if f := local.Lookup("jobs"); f != nil && f.Changed {
		s.jobs, _ = local.GetInt("jobs")
	}
	if f := local.Lookup("nfc"); f != nil && f.Changed {
		s.nfc, _ = local.GetBool("nfc")
	}
	// --exclude дополняет шаблоны из norg.toml
	if f := local.Lookup("exclude"); f != nil && f.Changed {
		extra, _ := local.GetStringSlice("exclude")
		s.exclude = append(slices.Clone(s.exclude), extra...)
	}
	if f := local.Lookup("format"); f != nil && f.Changed {
		v, _ := local.GetString("format")
		if s.format, err = readTreeFormat(v); err != nil {
			return settings{}, err
		}
	}
	if f := local.Lookup("cache"); f != nil && f.Changed {
		s.cache, _ = local.GetBool("cache")
	}
	if f := local.Lookup("cache-dir"); f != nil && f.Changed {
		s.cacheDir, _ = local.GetString("cache-dir")
	}
	return s, nil
}
