package config

import (
	"os"
	"time"

	"github.com/BurntSushi/toml"

	"burrow/internal/errors"
)

type Config struct {
	GrammarsPath string   `toml:"grammars_path"`
	ScanRoots    []string `toml:"scan_roots"`
	Exclude      Exclude  `toml:"exclude"`
	Viewport     Viewport `toml:"viewport"`
	Ace          Ace      `toml:"ace"`
	Watch        Watch    `toml:"watch"`
	Index        Index    `toml:"index"`
}

type Exclude struct {
	Dirs  []string `toml:"dirs"`
	Files []string `toml:"files"`
}

type Viewport struct {
	// Height is the number of document lines shown for the current entry.
	Height int `toml:"height"`
	// ListHeight is the number of definition entries shown at once.
	ListHeight int `toml:"list_height"`
}

type Ace struct {
	Keys       string `toml:"keys"`
	CancelKeys string `toml:"cancel_keys"`
}

type Watch struct {
	Enabled  bool          `toml:"enabled"`
	Debounce time.Duration `toml:"debounce"`
}

type Index struct {
	// Path of the persistent symbol index; empty disables it.
	Path string `toml:"path"`
}

func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	var cfg Config
	if _, err := toml.Decode(string(data), &cfg); err != nil {
		return nil, err
	}

	applyDefaults(&cfg)

	if err := validate(&cfg); err != nil {
		return nil, err
	}

	return &cfg, nil
}

// Default returns the configuration used when no config file exists.
func Default() *Config {
	cfg := &Config{}
	applyDefaults(cfg)
	return cfg
}

func applyDefaults(cfg *Config) {
	if cfg.Viewport.Height == 0 {
		cfg.Viewport.Height = 8
	}
	if cfg.Viewport.ListHeight == 0 {
		cfg.Viewport.ListHeight = 5
	}
	if cfg.Ace.Keys == "" {
		cfg.Ace.Keys = "asdfghjkl"
	}
	if cfg.Watch.Debounce == 0 {
		cfg.Watch.Debounce = 500 * time.Millisecond
	}
	if len(cfg.ScanRoots) == 0 {
		cfg.ScanRoots = []string{"."}
	}
}

func validate(cfg *Config) error {
	if cfg.Viewport.Height < 1 {
		return errors.New(errors.CodeValidation, "viewport height must be at least 1")
	}
	if cfg.Viewport.ListHeight < 1 {
		return errors.New(errors.CodeValidation, "viewport list_height must be at least 1")
	}
	seen := make(map[rune]bool)
	for _, r := range cfg.Ace.Keys {
		if seen[r] {
			return errors.Newf(errors.CodeValidation, "duplicate ace key %q", r)
		}
		seen[r] = true
	}
	for _, r := range cfg.Ace.CancelKeys {
		if seen[r] {
			return errors.Newf(errors.CodeValidation, "cancel key %q collides with ace keys", r)
		}
	}
	return nil
}
