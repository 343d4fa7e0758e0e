package config

import (
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"

	"gitgub.com/cam-per/kirke/internal/convert"
	"gitgub.com/cam-per/kirke/utils"
)

type Config struct {
	OutputDir string `yaml:"output_dir,omitempty"`
	Charset   string `yaml:"charset,omitempty"`
	Compress  string `yaml:"compress,omitempty"`
	Verbosity int    `yaml:"verbosity,omitempty"`
}

func Defaults() Config {
	return Config{Compress: string(convert.CompressNone)}
}

// Load reads a YAML config file on top of the defaults. An empty path yields
// the defaults.
func Load(path string) (Config, error) {
	cfg := Defaults()
	if strings.TrimSpace(path) == "" {
		return cfg, nil
	}
	b, err := os.ReadFile(path)
	if err != nil {
		return cfg, err
	}
	if err := yaml.Unmarshal(b, &cfg); err != nil {
		return cfg, fmt.Errorf("%s: %w", path, err)
	}
	cfg.Normalize()
	if err := cfg.Validate(); err != nil {
		return cfg, fmt.Errorf("%s: %w", path, err)
	}
	return cfg, nil
}

func (c *Config) Normalize() {
	c.Charset = strings.ToLower(strings.TrimSpace(c.Charset))
	c.Compress = strings.ToLower(strings.TrimSpace(c.Compress))
	if c.Compress == "" {
		c.Compress = string(convert.CompressNone)
	}
}

func (c Config) Validate() error {
	if _, err := utils.Charset(c.Charset); err != nil {
		return err
	}
	if _, err := convert.ParseCompression(c.Compress); err != nil {
		return err
	}
	if c.Verbosity < 0 {
		return fmt.Errorf("verbosity must be non-negative: %d", c.Verbosity)
	}
	return nil
}

// Options resolves the config into converter options.
func (c Config) Options() (convert.Options, error) {
	cm, err := utils.Charset(c.Charset)
	if err != nil {
		return convert.Options{}, err
	}
	comp, err := convert.ParseCompression(c.Compress)
	if err != nil {
		return convert.Options{}, err
	}
	return convert.Options{
		OutputDir:   c.OutputDir,
		Charset:     cm,
		Compression: comp,
	}, nil
}
