package config

import (
	"bytes"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/fulmenhq/sitecheck/internal/assets"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

// EnvPrefix is the prefix for environment overrides (SITECHECK_CONCURRENCY, ...).
const EnvPrefix = "SITECHECK"

// SourceDefaults names the built-in profile when no site config file was found.
const SourceDefaults = "built-in defaults"

// ProjectConfigFiles are looked up, in order, in the site root.
var ProjectConfigFiles = []string{
	".sitecheck.yaml",
	".sitecheck.yml",
	".sitecheck.json",
	".sitecheck.toml",
	"sitecheck.yaml",
}

// Config holds all configuration for sitecheck
type Config struct {
	Concurrency int            `mapstructure:"concurrency" json:"concurrency" yaml:"concurrency" toml:"concurrency"`
	MaxFileSize int64          `mapstructure:"max_file_size" json:"max_file_size" yaml:"max_file_size" toml:"max_file_size"`
	Files       []string       `mapstructure:"files" json:"files" yaml:"files" toml:"files"`
	Directories []string       `mapstructure:"directories" json:"directories" yaml:"directories" toml:"directories"`
	Manifest    ManifestConfig `mapstructure:"manifest" json:"manifest" yaml:"manifest" toml:"manifest"`
	Content     []ContentRule  `mapstructure:"content" json:"content" yaml:"content" toml:"content"`
	Publish     PublishConfig  `mapstructure:"publish" json:"publish" yaml:"publish" toml:"publish"`
	Icons       IconsConfig    `mapstructure:"icons" json:"icons" yaml:"icons" toml:"icons"`
}

// ManifestConfig describes the application manifest check.
type ManifestConfig struct {
	Path           string   `mapstructure:"path" json:"path" yaml:"path" toml:"path"`
	RequiredKeys   []string `mapstructure:"required_keys" json:"required_keys" yaml:"required_keys" toml:"required_keys"`
	MinIcons       int      `mapstructure:"min_icons" json:"min_icons" yaml:"min_icons" toml:"min_icons"`
	CheckIconFiles bool     `mapstructure:"check_icon_files" json:"check_icon_files" yaml:"check_icon_files" toml:"check_icon_files"`
}

// ContentRule lists the substrings one file must contain.
type ContentRule struct {
	Path       string      `mapstructure:"path" json:"path" yaml:"path" toml:"path"`
	Assertions []Assertion `mapstructure:"assertions" json:"assertions" yaml:"assertions" toml:"assertions"`
}

// Assertion is a required substring with a human-readable label.
type Assertion struct {
	Contains string `mapstructure:"contains" json:"contains" yaml:"contains" toml:"contains"`
	Label    string `mapstructure:"label" json:"label" yaml:"label" toml:"label"`
}

// PublishConfig drives the next-step guidance printed after a passing run.
type PublishConfig struct {
	Target              string   `mapstructure:"target" json:"target" yaml:"target" toml:"target"`
	CheckIgnored        bool     `mapstructure:"check_ignored" json:"check_ignored" yaml:"check_ignored" toml:"check_ignored"`
	CacheVersionFile    string   `mapstructure:"cache_version_file" json:"cache_version_file" yaml:"cache_version_file" toml:"cache_version_file"`
	CacheVersionPattern string   `mapstructure:"cache_version_pattern" json:"cache_version_pattern" yaml:"cache_version_pattern" toml:"cache_version_pattern"`
	Reminders           []string `mapstructure:"reminders" json:"reminders" yaml:"reminders" toml:"reminders"`
}

// IconsConfig describes the icon resize plan.
type IconsConfig struct {
	Source         string `mapstructure:"source" json:"source" yaml:"source" toml:"source"`
	Sizes          []int  `mapstructure:"sizes" json:"sizes" yaml:"sizes" toml:"sizes"`
	OutputTemplate string `mapstructure:"output_template" json:"output_template" yaml:"output_template" toml:"output_template"`
	Converter      string `mapstructure:"converter" json:"converter" yaml:"converter" toml:"converter"`
}

// LoadOptions controls where configuration is read from.
type LoadOptions struct {
	// SiteDir is searched for ProjectConfigFiles when ConfigFile is empty.
	SiteDir string
	// ConfigFile is an explicit config path; it must exist.
	ConfigFile string
	// Flags, when set, are bound over file and env values (only flags the user changed win).
	Flags *pflag.FlagSet
}

// ErrConfigNotFound is returned when an explicit config file does not exist.
var ErrConfigNotFound = errors.New("config file not found")

// Load builds the effective configuration: embedded defaults, then the site
// config file, then SITECHECK_* environment variables, then bound flags.
// It returns the config and a description of where it came from.
func Load(opts LoadOptions) (*Config, string, error) {
	v := viper.New()
	v.SetConfigType("yaml")
	if err := v.ReadConfig(bytes.NewReader(assets.DefaultConfig())); err != nil {
		return nil, "", fmt.Errorf("failed to read built-in defaults: %w", err)
	}

	source := SourceDefaults
	path, err := locate(opts)
	if err != nil {
		return nil, "", err
	}
	if path != "" {
		if err := mergeFile(v, path); err != nil {
			return nil, "", err
		}
		source = path
	}

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if opts.Flags != nil {
		if f := opts.Flags.Lookup("concurrency"); f != nil {
			if err := v.BindPFlag("concurrency", f); err != nil {
				return nil, "", fmt.Errorf("failed to bind flag %s: %w", f.Name, err)
			}
		}
	}

	var cfg Config
	if err := v.UnmarshalExact(&cfg); err != nil {
		return nil, "", fmt.Errorf("error unmarshaling config from %s: %w", source, err)
	}
	cfg.normalize()

	if err := Validate(&cfg); err != nil {
		return nil, "", fmt.Errorf("%s: %w", source, err)
	}
	return &cfg, source, nil
}

// Default returns the built-in configuration without consulting files or env.
func Default() (*Config, error) {
	v := viper.New()
	v.SetConfigType("yaml")
	if err := v.ReadConfig(bytes.NewReader(assets.DefaultConfig())); err != nil {
		return nil, err
	}
	var cfg Config
	if err := v.UnmarshalExact(&cfg); err != nil {
		return nil, err
	}
	cfg.normalize()
	return &cfg, nil
}

func locate(opts LoadOptions) (string, error) {
	if opts.ConfigFile != "" {
		st, err := os.Stat(opts.ConfigFile)
		if err != nil {
			if errors.Is(err, os.ErrNotExist) {
				return "", fmt.Errorf("%w: %s", ErrConfigNotFound, opts.ConfigFile)
			}
			return "", err
		}
		if st.IsDir() {
			return "", fmt.Errorf("config path %s is a directory", opts.ConfigFile)
		}
		return opts.ConfigFile, nil
	}
	dir := opts.SiteDir
	if dir == "" {
		dir = "."
	}
	for _, name := range ProjectConfigFiles {
		candidate := filepath.Join(dir, name)
		if st, err := os.Stat(candidate); err == nil && !st.IsDir() {
			return candidate, nil
		}
	}
	return "", nil
}

func mergeFile(v *viper.Viper, path string) error {
	format, err := formatFor(path)
	if err != nil {
		return err
	}
	data, err := os.ReadFile(path) // #nosec G304 -- user-selected config file
	if err != nil {
		return fmt.Errorf("failed to read config %s: %w", path, err)
	}
	v.SetConfigType(format)
	if err := v.MergeConfig(bytes.NewReader(data)); err != nil {
		return fmt.Errorf("failed to parse config %s: %w", path, err)
	}
	return nil
}

func formatFor(path string) (string, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		return "yaml", nil
	case ".json":
		return "json", nil
	case ".toml":
		return "toml", nil
	default:
		return "", fmt.Errorf("unsupported config format %q (use .yaml, .json or .toml)", filepath.Ext(path))
	}
}

// normalize fills in derived defaults.
func (c *Config) normalize() {
	for i := range c.Content {
		for j := range c.Content[i].Assertions {
			a := &c.Content[i].Assertions[j]
			if strings.TrimSpace(a.Label) == "" {
				a.Label = fmt.Sprintf("contains %q", a.Contains)
			}
		}
	}
}
