package cli

import (
	"fmt"
	"os"

	"github.com/BurntSushi/toml"

	"github.com/curiosity110/LabelForge/pkg/pipeline"
)

// Config is the TOML configuration for the serve command. Every value has
// a working default; flags override the file.
type Config struct {
	Server struct {
		Addr string `toml:"addr"`
	} `toml:"server"`

	Limits struct {
		MaxRows         int `toml:"max_rows"`
		MaxImageBytes   int `toml:"max_image_bytes"`
		MaxArchiveBytes int `toml:"max_archive_bytes"`
		MaxTableBytes   int `toml:"max_table_bytes"`
		Workers         int `toml:"workers"`
	} `toml:"limits"`

	Render struct {
		// Font optionally names a system font file (e.g.
		// "DejaVuSans.ttf") to use instead of the built-in typeface.
		Font string `toml:"font"`
	} `toml:"render"`
}

// DefaultAddr is the serve command's default listen address.
const DefaultAddr = ":8080"

// LoadConfig reads a TOML config file. An empty path yields defaults; a
// missing file at an explicit path is an error.
func LoadConfig(path string) (*Config, error) {
	cfg := &Config{}
	cfg.Server.Addr = DefaultAddr

	if path == "" {
		return cfg, nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config: %w", err)
	}
	if err := toml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parse config %s: %w", path, err)
	}
	if cfg.Server.Addr == "" {
		cfg.Server.Addr = DefaultAddr
	}
	return cfg, nil
}

// PipelineLimits converts the config's limit section; zero values defer to
// the pipeline defaults.
func (c *Config) PipelineLimits() pipeline.Limits {
	return pipeline.Limits{
		MaxRows:         c.Limits.MaxRows,
		MaxImageBytes:   c.Limits.MaxImageBytes,
		MaxArchiveBytes: c.Limits.MaxArchiveBytes,
		MaxTableBytes:   c.Limits.MaxTableBytes,
		Workers:         c.Limits.Workers,
	}
}
