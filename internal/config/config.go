// Package config loads Tempo's configuration from defaults, an optional
// YAML file and TEMPO_* environment variables, in that order.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/Mr-Dark-debug/tempo/internal/timeline"
	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
	yamlv3 "gopkg.in/yaml.v3"
)

// EnvPrefix is the prefix for environment overrides.
const EnvPrefix = "TEMPO_"

// Config is the top-level Tempo configuration, corresponding to tempo.yml.
type Config struct {
	DBPath               string        `yaml:"db_path" koanf:"db_path"`
	Deck                 string        `yaml:"deck" koanf:"deck"`
	Language             string        `yaml:"language" koanf:"language"`
	DefaultLanguage      string        `yaml:"default_language" koanf:"default_language"`
	LocalesDir           string        `yaml:"locales_dir" koanf:"locales_dir"`
	Interval             time.Duration `yaml:"interval" koanf:"interval"`
	VisibilityThreshold  float64       `yaml:"visibility_threshold" koanf:"visibility_threshold"`
	RespectReducedMotion bool          `yaml:"respect_reduced_motion" koanf:"respect_reduced_motion"`
	FrameRate            int           `yaml:"frame_rate" koanf:"frame_rate"`
	LogFile              string        `yaml:"log_file" koanf:"log_file"`
}

// DefaultConfig returns a Config with sensible defaults.
func DefaultConfig() *Config {
	homeDir, _ := os.UserHomeDir()
	base := filepath.Join(homeDir, ".tempo")

	return &Config{
		DBPath:               filepath.Join(base, "tempo.db"),
		DefaultLanguage:      "en",
		LocalesDir:           filepath.Join(base, "locales"),
		Interval:             timeline.DefaultInterval,
		VisibilityThreshold:  timeline.DefaultVisibilityThreshold,
		RespectReducedMotion: true,
		FrameRate:            20,
		LogFile:              filepath.Join(base, "tempo.log"),
	}
}

// Load reads configuration from the given YAML file, then overlays
// environment variable overrides (TEMPO_*). A missing file is not an error.
func Load(path string) (*Config, error) {
	k := koanf.New(".")

	cfg := DefaultConfig()

	if path != "" {
		if _, err := os.Stat(path); err == nil {
			if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
				return nil, fmt.Errorf("reading config %s: %w", path, err)
			}
		} else if !os.IsNotExist(err) {
			return nil, fmt.Errorf("accessing config %s: %w", path, err)
		}
	}

	// TEMPO_LOCALES_DIR -> locales_dir, etc.
	if err := k.Load(env.Provider(EnvPrefix, ".", func(s string) string {
		return strings.ToLower(strings.TrimPrefix(s, EnvPrefix))
	}), nil); err != nil {
		return nil, fmt.Errorf("loading env overrides: %w", err)
	}

	if err := k.Unmarshal("", cfg); err != nil {
		return nil, fmt.Errorf("unmarshalling config: %w", err)
	}

	return cfg, nil
}

// Save writes the configuration to the given YAML file path.
func (c *Config) Save(path string) error {
	data, err := yamlv3.Marshal(c)
	if err != nil {
		return fmt.Errorf("marshalling config: %w", err)
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("creating config dir: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("writing config to %s: %w", path, err)
	}
	return nil
}

// Validate checks that the configuration contains valid values.
func (c *Config) Validate() error {
	if c.DBPath == "" {
		return fmt.Errorf("db_path is required")
	}
	if c.DefaultLanguage == "" {
		return fmt.Errorf("default_language is required")
	}
	if c.Interval <= 0 {
		return fmt.Errorf("interval must be positive, got %s", c.Interval)
	}
	if c.VisibilityThreshold <= 0 || c.VisibilityThreshold > 1 {
		return fmt.Errorf("visibility_threshold must be within (0, 1], got %v", c.VisibilityThreshold)
	}
	if c.FrameRate < 1 || c.FrameRate > 120 {
		return fmt.Errorf("frame_rate must be between 1 and 120, got %d", c.FrameRate)
	}
	return nil
}

// FrameInterval is the redraw period derived from FrameRate.
func (c *Config) FrameInterval() time.Duration {
	if c.FrameRate <= 0 {
		return time.Second / 20
	}
	return time.Second / time.Duration(c.FrameRate)
}

// HostPrefersReducedMotion reports whether the environment asks for
// reduced motion: REDUCED_MOTION, NO_MOTION or TEMPO_REDUCED_MOTION set
// to a truthy value, or a dumb terminal.
func HostPrefersReducedMotion() bool {
	for _, name := range []string{EnvPrefix + "REDUCED_MOTION", "REDUCED_MOTION", "NO_MOTION"} {
		if truthy(os.Getenv(name)) {
			return true
		}
	}
	return os.Getenv("TERM") == "dumb"
}

func truthy(v string) bool {
	switch strings.ToLower(strings.TrimSpace(v)) {
	case "1", "true", "yes", "on", "reduce":
		return true
	}
	return false
}
