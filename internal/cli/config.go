package cli

import (
	"os"
	"path/filepath"

	"github.com/BurntSushi/toml"

	"github.com/longplay45/swissgrid/pkg/errors"
	"github.com/longplay45/swissgrid/pkg/pipeline"
)

// configFile is the configuration file name, searched for in the working
// directory first and then in ~/.config/swissgrid/.
const configFile = "swissgrid.toml"

// Config holds optional file-based defaults. Precedence is flags over
// config over built-in defaults; apply only fills fields the flags left
// at their zero value.
type Config struct {
	Format       string   `toml:"format"`
	Orientation  string   `toml:"orientation"`
	Cols         int      `toml:"cols"`
	Rows         int      `toml:"rows"`
	MarginMethod int      `toml:"margin_method"`
	Baseline     float64  `toml:"baseline"`
	Formats      []string `toml:"formats"`
	FontPath     string   `toml:"font_path"`
	OutputDir    string   `toml:"output_dir"`
	StoreURL     string   `toml:"store_url"`
}

// loadConfig reads the first config file found. A missing file is not an
// error; the zero Config applies nothing.
func loadConfig() (Config, error) {
	paths := []string{configFile}
	if home, err := os.UserHomeDir(); err == nil {
		paths = append(paths, filepath.Join(home, ".config", appName, configFile))
	}

	for _, path := range paths {
		data, err := os.ReadFile(path)
		if os.IsNotExist(err) {
			continue
		}
		if err != nil {
			return Config{}, errors.Wrap(errors.ErrCodeInvalidPath, err, "read config %s", path)
		}
		var cfg Config
		if err := toml.Unmarshal(data, &cfg); err != nil {
			return Config{}, errors.Wrap(errors.ErrCodeInvalidInput, err, "parse config %s", path)
		}
		return cfg, nil
	}
	return Config{}, nil
}

// apply fills zero-valued pipeline options from the config.
func (c Config) apply(opts *pipeline.Options) {
	if opts.Format == "" {
		opts.Format = c.Format
	}
	if opts.Orientation == "" {
		opts.Orientation = c.Orientation
	}
	if opts.Cols == 0 {
		opts.Cols = c.Cols
	}
	if opts.Rows == 0 {
		opts.Rows = c.Rows
	}
	if opts.MarginMethod == 0 {
		opts.MarginMethod = c.MarginMethod
	}
	if opts.Baseline == 0 {
		opts.Baseline = c.Baseline
	}
	if len(opts.Formats) == 0 && len(c.Formats) > 0 {
		opts.Formats = append([]string(nil), c.Formats...)
	}
	if opts.FontPath == "" {
		opts.FontPath = c.FontPath
	}
}
