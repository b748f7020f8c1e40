// Package config provides configuration types, defaults, and loading for cadbom.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/viper"
)

// Report formats accepted by the format option.
const (
	FormatText = "text"
	FormatTSV  = "tsv"
	FormatCSV  = "csv"
	FormatBoth = "both"
)

// LocalPath is the project-local config file, relative to the working directory.
const LocalPath = ".cadbom/config.yaml"

// Config holds all configuration options for cadbom.
type Config struct {
	OutputDir string `mapstructure:"output_dir" yaml:"output_dir"`
	// Name is the base name of written files.
	Name string `mapstructure:"name" yaml:"name"`
	// Headers lists the part fields rendered as extra BOM columns.
	Headers         []string `mapstructure:"headers" yaml:"headers"`
	DefaultCurrency string   `mapstructure:"default_currency" yaml:"default_currency"`
	Format          string   `mapstructure:"format" yaml:"format"`
	STL             bool     `mapstructure:"stl" yaml:"stl"`
	// MeshCells is the marching cubes resolution along the longest axis.
	MeshCells int `mapstructure:"mesh_cells" yaml:"mesh_cells"`
	// Catalog is a YAML price list applied after the assembly is built.
	Catalog string    `mapstructure:"catalog" yaml:"catalog"`
	Log     LogConfig `mapstructure:"log" yaml:"log"`
}

// LogConfig holds logging options.
type LogConfig struct {
	Level  string `mapstructure:"level" yaml:"level"`
	Format string `mapstructure:"format" yaml:"format"` // "console" (default) or "json"
}

// Defaults returns a Config with default values.
func Defaults() Config {
	return Config{
		OutputDir:       "",
		Name:            "assembly",
		Headers:         []string{"link", "leftover"},
		DefaultCurrency: "US$",
		Format:          FormatBoth,
		STL:             false,
		MeshCells:       200,
		Log: LogConfig{
			Level:  "warn",
			Format: "console",
		},
	}
}

// Validate checks option values that would otherwise fail late.
func (c Config) Validate() error {
	var errs []error
	switch c.Format {
	case FormatText, FormatTSV, FormatCSV, FormatBoth:
	default:
		errs = append(errs, fmt.Errorf("format %q: expected text, tsv, csv or both", c.Format))
	}
	if c.Name == "" {
		errs = append(errs, errors.New("name is required"))
	}
	if strings.ContainsRune(c.Name, os.PathSeparator) {
		errs = append(errs, fmt.Errorf("name %q must not contain a path separator", c.Name))
	}
	if c.DefaultCurrency == "" {
		errs = append(errs, errors.New("default_currency is required"))
	}
	if c.MeshCells <= 0 {
		errs = append(errs, fmt.Errorf("mesh_cells must be positive, got %d", c.MeshCells))
	}
	switch c.Log.Format {
	case "console", "json":
	default:
		errs = append(errs, fmt.Errorf("log.format %q: expected console or json", c.Log.Format))
	}
	return errors.Join(errs...)
}

// Load reads the configuration. Lookup order:
//  1. cfgFile, when non-empty
//  2. .cadbom/config.yaml (current directory)
//  3. ~/.config/cadbom/config.yaml (user config)
//
// A missing file is not an error; defaults apply. Environment variables
// prefixed with CADBOM_ override file values (CADBOM_LOG_LEVEL for log.level).
// The returned path is the config file used, or empty.
func Load(cfgFile string) (Config, string, error) {
	v := viper.New()
	setDefaults(v, Defaults())

	v.SetEnvPrefix("cadbom")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if cfgFile != "" {
		v.SetConfigFile(cfgFile)
	} else if _, err := os.Stat(LocalPath); err == nil {
		v.SetConfigFile(LocalPath)
	} else {
		if home, err := os.UserHomeDir(); err == nil {
			v.AddConfigPath(filepath.Join(home, ".config", "cadbom"))
		}
		v.SetConfigName("config")
		v.SetConfigType("yaml")
	}

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return Config{}, "", fmt.Errorf("reading config: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return Config{}, "", fmt.Errorf("decoding config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, "", fmt.Errorf("invalid config %s: %w", v.ConfigFileUsed(), err)
	}
	return cfg, v.ConfigFileUsed(), nil
}

func setDefaults(v *viper.Viper, d Config) {
	v.SetDefault("output_dir", d.OutputDir)
	v.SetDefault("name", d.Name)
	v.SetDefault("headers", d.Headers)
	v.SetDefault("default_currency", d.DefaultCurrency)
	v.SetDefault("format", d.Format)
	v.SetDefault("stl", d.STL)
	v.SetDefault("mesh_cells", d.MeshCells)
	v.SetDefault("catalog", d.Catalog)
	v.SetDefault("log.level", d.Log.Level)
	v.SetDefault("log.format", d.Log.Format)
}
