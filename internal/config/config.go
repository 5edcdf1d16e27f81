package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"
	"github.com/go-playground/validator"
	"github.com/joho/godotenv"

	"github.com/msalah0e/tradegraph/internal/graph"
)

// Environment variables that override file values.
const (
	EnvData  = "TRADEGRAPH_DATA"
	EnvAddr  = "TRADEGRAPH_ADDR"
	EnvDebug = "TRADEGRAPH_DEBUG"
)

// Config holds tradegraph configuration.
type Config struct {
	Data       DataConfig       `toml:"data"`
	Display    DisplayConfig    `toml:"display"`
	Filter     FilterConfig     `toml:"filter"`
	Layout     LayoutConfig     `toml:"layout"`
	Server     ServerConfig     `toml:"server"`
	Log        LogConfig        `toml:"log"`
	Vocabulary graph.Vocabulary `toml:"vocabulary"`
}

// DataConfig points at the trade export.
type DataConfig struct {
	Path string `toml:"path"` // CSV file, or "-" for stdin
}

// DisplayConfig selects the graph topology and product identity.
type DisplayConfig struct {
	Mode    string `toml:"mode" validate:"oneof=full country-supplier supplier-product product-importer country-product supplier-importer"`
	Product string `toml:"product" validate:"oneof=hsCode productName"`
	HSLevel string `toml:"hs_level" validate:"oneof=category subcategory exact"`
}

// FilterConfig holds the initial filter state.
type FilterConfig struct {
	MinTransactions int `toml:"min_transactions" validate:"min=1"`
}

// LayoutConfig sizes the canvas layout hints are computed for.
type LayoutConfig struct {
	Width  float64 `toml:"width" validate:"gt=0"`
	Height float64 `toml:"height" validate:"gt=0"`
	Seed   uint64  `toml:"seed"`
}

// ServerConfig controls `tradegraph serve`.
type ServerConfig struct {
	Addr string `toml:"addr" validate:"required"`
}

// LogConfig controls log verbosity.
type LogConfig struct {
	Level string `toml:"level" validate:"oneof=debug info warn error"`
	Debug bool   `toml:"-"`
}

// Default returns the default configuration.
func Default() *Config {
	d := graph.DefaultDisplay()
	l := graph.DefaultLayoutOptions()
	return &Config{
		Display: DisplayConfig{
			Mode:    string(d.Mode),
			Product: string(d.Product),
			HSLevel: string(d.HSLevel),
		},
		Filter:     FilterConfig{MinTransactions: 20},
		Layout:     LayoutConfig{Width: l.Width, Height: l.Height, Seed: l.Seed},
		Server:     ServerConfig{Addr: "127.0.0.1:8420"},
		Log:        LogConfig{Level: "info"},
		Vocabulary: graph.DefaultVocabulary(),
	}
}

// ConfigDir returns the tradegraph config directory path.
func ConfigDir() string {
	dir := os.Getenv("XDG_CONFIG_HOME")
	if dir == "" {
		home, _ := os.UserHomeDir()
		dir = filepath.Join(home, ".config")
	}
	return filepath.Join(dir, "tradegraph")
}

// Path is the config file location.
func Path() string {
	return filepath.Join(ConfigDir(), "config.toml")
}

// Load reads the config file over the defaults, then applies a .env file in
// the working directory and the TRADEGRAPH_* environment. A missing file is
// not an error.
func Load() (*Config, error) {
	cfg := Default()

	data, err := os.ReadFile(Path())
	switch {
	case err == nil:
		if err := toml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parse %s: %w", Path(), err)
		}
	case !os.IsNotExist(err):
		return nil, err
	}

	LoadEnv()
	cfg.ApplyEnv()
	return cfg, nil
}

// LoadEnv loads ./.env into the process environment without overriding
// variables that are already set.
func LoadEnv() bool {
	return godotenv.Load() == nil
}

// ApplyEnv overrides file values with TRADEGRAPH_* variables.
func (c *Config) ApplyEnv() {
	if v, ok := os.LookupEnv(EnvData); ok {
		c.Data.Path = v
	}
	if v, ok := os.LookupEnv(EnvAddr); ok && v != "" {
		c.Server.Addr = v
	}
	if v, ok := os.LookupEnv(EnvDebug); ok {
		c.Log.Debug = strings.EqualFold(v, "true") || v == "1"
	}
}

var validate = validator.New()

// Validate checks enum values and ranges.
func (c *Config) Validate() error {
	if err := validate.Struct(c); err != nil {
		return fmt.Errorf("invalid config: %w", err)
	}
	return nil
}

// GraphDisplay converts the display section.
func (c *Config) GraphDisplay() graph.DisplayConfig {
	return graph.DisplayConfig{
		Mode:    graph.DisplayMode(c.Display.Mode),
		Product: graph.ProductMode(c.Display.Product),
		HSLevel: graph.HSLevel(c.Display.HSLevel),
	}
}

// GraphLayout converts the layout section.
func (c *Config) GraphLayout() graph.LayoutOptions {
	return graph.LayoutOptions{Width: c.Layout.Width, Height: c.Layout.Height, Seed: c.Layout.Seed}
}

// Save writes the config to disk.
func Save(cfg *Config) error {
	path := Path()
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}

	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()

	return toml.NewEncoder(f).Encode(cfg)
}

// EnsureExists creates the config file with defaults if it doesn't exist.
// It reports whether a file was written.
func EnsureExists() (bool, error) {
	if _, err := os.Stat(Path()); err == nil {
		return false, nil
	}
	if err := Save(Default()); err != nil {
		return false, err
	}
	return true, nil
}
