package config

import (
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"
)

// Config holds all hexmap settings
type Config struct {
	Dataset string       `yaml:"dataset"`
	Log     LogConfig    `yaml:"log"`
	Style   StyleConfig  `yaml:"style"`
	Counts  CountsConfig `yaml:"counts"`
	Map     MapConfig    `yaml:"map"`
	Server  ServerConfig `yaml:"server"`
}

// LogConfig holds logger settings
type LogConfig struct {
	Level  string `yaml:"level"`  // debug, info, warn, error
	Format string `yaml:"format"` // text or json
	File   string `yaml:"file"`   // terminal viewer only; commands log to stderr
}

// StyleConfig holds the fixed part of the hex polygon style
type StyleConfig struct {
	StrokeColor string  `yaml:"stroke_color"`
	Opacity     float64 `yaml:"opacity"`
	StrokeWidth int     `yaml:"stroke_width"`
	StrokeStyle string  `yaml:"stroke_style"`
}

// CountsConfig holds the out-of-range count policy
type CountsConfig struct {
	Policy string `yaml:"policy"` // reject or clamp
}

// MapConfig holds the initial web map view
type MapConfig struct {
	Center [2]float64 `yaml:"center"` // lat, lon
	Zoom   int        `yaml:"zoom"`
}

// ServerConfig holds web canvas settings
type ServerConfig struct {
	Addr string `yaml:"addr"`
}

// Default returns the configuration used when no file is given.
func Default() *Config {
	cfg := &Config{
		Style: StyleConfig{Opacity: 0.3},
		Map: MapConfig{
			Center: [2]float64{56.79177158, 60.5441967363},
			Zoom:   14,
		},
	}
	cfg.setDefaults()
	return cfg
}

// Load reads configuration from a YAML file
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	// decode over the defaults so zero opacity, zoom and center stay settable
	cfg := Default()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}
	cfg.setDefaults()
	return cfg, nil
}

func (c *Config) setDefaults() {
	if c.Log.Level == "" {
		c.Log.Level = "info"
	}
	if c.Log.Format == "" {
		c.Log.Format = "text"
	}
	if c.Log.File == "" {
		c.Log.File = "hexmap.log"
	}
	if c.Style.StrokeColor == "" {
		c.Style.StrokeColor = "#0000FF"
	}
	if c.Style.StrokeWidth == 0 {
		c.Style.StrokeWidth = 1
	}
	if c.Style.StrokeStyle == "" {
		c.Style.StrokeStyle = "shortdash"
	}
	if c.Counts.Policy == "" {
		c.Counts.Policy = "reject"
	}
	if c.Server.Addr == "" {
		c.Server.Addr = ":8080"
	}
}

// ApplyEnv overrides settings from the environment. getenv is usually
// os.Getenv.
func (c *Config) ApplyEnv(getenv func(string) string) {
	set := func(dst *string, key string) {
		if v := strings.TrimSpace(getenv(key)); v != "" {
			*dst = v
		}
	}
	set(&c.Dataset, "HEXMAP_DATASET")
	set(&c.Server.Addr, "HEXMAP_ADDR")
	set(&c.Counts.Policy, "HEXMAP_COUNT_POLICY")
	set(&c.Log.Level, "LOG_LEVEL")
	set(&c.Log.Format, "LOG_FORMAT")
	set(&c.Log.File, "LOG_FILE")
}
