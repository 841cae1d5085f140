package config

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"
)

// Config carries runtime options for histview.
type Config struct {
	Theme string     `yaml:"theme"`
	Plot  PlotConfig `yaml:"plot"`
	Web   WebConfig  `yaml:"web"`
	Log   LogConfig  `yaml:"log"`
}

// PlotConfig sizes canvases printed outside the TUI. Zero means the
// current console size.
type PlotConfig struct {
	Width  int `yaml:"width"`
	Height int `yaml:"height"`
}

type WebConfig struct {
	Addr string `yaml:"addr"`
}

type LogConfig struct {
	File  string `yaml:"file"`
	Level string `yaml:"level"`
}

func Default() Config {
	return Config{
		Theme: "default",
		Web:   WebConfig{Addr: "localhost:8080"},
		Log:   LogConfig{Level: "info"},
	}
}

// DefaultPath is $XDG_CONFIG_HOME/histview/config.yaml, falling back to
// ~/.config when XDG_CONFIG_HOME is unset.
func DefaultPath() string {
	base := os.Getenv("XDG_CONFIG_HOME")
	if base == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return ""
		}
		base = filepath.Join(home, ".config")
	}
	return filepath.Join(base, "histview", "config.yaml")
}

// Load reads path, or DefaultPath when path is empty. A missing default
// file is not an error; a missing explicit file is.
func Load(path string) (Config, error) {
	explicit := path != ""
	if !explicit {
		path = DefaultPath()
	}

	cfg := Default()
	f, err := os.Open(path)
	switch {
	case err == nil:
		defer f.Close()
		cfg, err = FromReader(f)
		if err != nil {
			return cfg, fmt.Errorf("config %s: %w", path, err)
		}
		return cfg, nil
	case errors.Is(err, os.ErrNotExist) && !explicit:
		applyEnv(&cfg)
		return cfg, nil
	default:
		return cfg, fmt.Errorf("config: %w", err)
	}
}

// FromReader decodes YAML over the defaults, then applies environment overrides.
func FromReader(r io.Reader) (Config, error) {
	cfg := Default()
	if err := yaml.NewDecoder(r).Decode(&cfg); err != nil && !errors.Is(err, io.EOF) {
		return cfg, err
	}
	applyEnv(&cfg)
	return cfg, cfg.Validate()
}

func applyEnv(cfg *Config) {
	if v := os.Getenv("HISTVIEW_THEME"); v != "" {
		cfg.Theme = v
	}
	if v := os.Getenv("HISTVIEW_WEB_ADDR"); v != "" {
		cfg.Web.Addr = v
	}
	if v := os.Getenv("HISTVIEW_LOG_LEVEL"); v != "" {
		cfg.Log.Level = v
	}
}

// Validate rejects values no component can use.
func (c Config) Validate() error {
	if c.Plot.Width < 0 || c.Plot.Height < 0 {
		return fmt.Errorf("plot size %dx%d is negative", c.Plot.Width, c.Plot.Height)
	}
	if _, err := c.LogLevel(); err != nil {
		return err
	}
	return nil
}

// LogLevel parses Log.Level.
func (c Config) LogLevel() (slog.Level, error) {
	var lvl slog.Level
	if err := lvl.UnmarshalText([]byte(strings.ToUpper(c.Log.Level))); err != nil {
		return lvl, fmt.Errorf("log level %q: %w", c.Log.Level, err)
	}
	return lvl, nil
}

// Logger builds the process logger. Without a log file everything is
// discarded so the TUI owns the terminal.
func (c Config) Logger() (*slog.Logger, io.Closer, error) {
	if c.Log.File == "" {
		return slog.New(slog.NewTextHandler(io.Discard, nil)), io.NopCloser(nil), nil
	}
	lvl, err := c.LogLevel()
	if err != nil {
		return nil, nil, err
	}
	f, err := os.OpenFile(c.Log.File, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return nil, nil, fmt.Errorf("open log file: %w", err)
	}
	return slog.New(slog.NewTextHandler(f, &slog.HandlerOptions{Level: lvl})), f, nil
}
