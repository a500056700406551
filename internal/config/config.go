package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"unicode/utf8"

	"github.com/KaramelBytes/dataverify/internal/table"
	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"
)

// Global configuration structure.
type Global struct {
	// Loading
	Delimiter          string   `mapstructure:"delimiter" yaml:"delimiter"`
	DecimalSeparator   string   `mapstructure:"decimal_separator" yaml:"decimal_separator"`
	ThousandsSeparator string   `mapstructure:"thousands_separator" yaml:"thousands_separator"`
	MaxRows            int      `mapstructure:"max_rows" yaml:"max_rows"`
	NullValues         []string `mapstructure:"null_values" yaml:"null_values"`

	// Output and logging
	OutputFormat string `mapstructure:"output_format" yaml:"output_format"`
	LogLevel     string `mapstructure:"log_level" yaml:"log_level"`
	LogFormat    string `mapstructure:"log_format" yaml:"log_format"`

	// SQL source
	SQLDriver string `mapstructure:"sql_driver" yaml:"sql_driver"`

	// Watch mode
	WatchDebounceMs int `mapstructure:"watch_debounce_ms" yaml:"watch_debounce_ms"`
}

// Keys lists every settable key in display order.
var Keys = []string{
	"delimiter", "decimal_separator", "thousands_separator", "max_rows", "null_values",
	"output_format", "log_level", "log_format", "sql_driver", "watch_debounce_ms",
}

// Defaults returns the settings used when neither file nor env sets a key.
func Defaults() *Global {
	return &Global{
		NullValues:      append([]string(nil), table.DefaultNullValues...),
		OutputFormat:    "markdown",
		LogLevel:        "warn",
		LogFormat:       "text",
		SQLDriver:       "sqlite",
		WatchDebounceMs: 300,
	}
}

func configDir() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("resolve home dir: %w", err)
	}
	return filepath.Join(home, ".dataverify"), nil
}

// Save writes the given configuration to the cfgFile path. If cfgFile is empty,
// it writes to ~/.dataverify/config.yaml, creating the directory if necessary.
func Save(c *Global, cfgFile string) error {
	path := cfgFile
	if path == "" {
		dir, err := configDir()
		if err != nil {
			return err
		}
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("mkdir config dir: %w", err)
		}
		path = filepath.Join(dir, "config.yaml")
	}
	b, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("marshal yaml: %w", err)
	}
	if err := os.WriteFile(path, b, 0o644); err != nil {
		return fmt.Errorf("write config: %w", err)
	}
	return nil
}

// Load loads configuration from file, env, and defaults.
// Precedence: flags (cfgFile) > env > config file > defaults.
func Load(cfgFile string) (*Global, error) {
	v := viper.New()
	v.SetEnvPrefix("DATAVERIFY")
	v.AutomaticEnv()

	d := Defaults()
	v.SetDefault("delimiter", d.Delimiter)
	v.SetDefault("decimal_separator", d.DecimalSeparator)
	v.SetDefault("thousands_separator", d.ThousandsSeparator)
	v.SetDefault("max_rows", d.MaxRows)
	v.SetDefault("null_values", d.NullValues)
	v.SetDefault("output_format", d.OutputFormat)
	v.SetDefault("log_level", d.LogLevel)
	v.SetDefault("log_format", d.LogFormat)
	v.SetDefault("sql_driver", d.SQLDriver)
	v.SetDefault("watch_debounce_ms", d.WatchDebounceMs)

	if cfgFile != "" {
		v.SetConfigFile(cfgFile)
	} else {
		dir, err := configDir()
		if err != nil {
			return nil, err
		}
		v.AddConfigPath(dir)
		v.SetConfigName("config")
		v.SetConfigType("yaml")
	}
	// optional read
	_ = v.ReadInConfig()

	var c Global
	if err := v.Unmarshal(&c); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}
	return &c, nil
}

// Set updates one key from its string form.
func (c *Global) Set(key, val string) error {
	switch key {
	case "delimiter", "decimal_separator", "thousands_separator":
		if _, err := ParseRune(val); err != nil {
			return fmt.Errorf("invalid %s: %w", key, err)
		}
		switch key {
		case "delimiter":
			c.Delimiter = val
		case "decimal_separator":
			c.DecimalSeparator = val
		default:
			c.ThousandsSeparator = val
		}
	case "max_rows":
		i, err := strconv.Atoi(val)
		if err != nil || i < 0 {
			return fmt.Errorf("invalid int for max_rows: %v", val)
		}
		c.MaxRows = i
	case "null_values":
		c.NullValues = SplitList(val)
	case "output_format":
		switch strings.ToLower(val) {
		case "markdown", "md", "json", "yaml", "yml":
			c.OutputFormat = strings.ToLower(val)
		default:
			return fmt.Errorf("invalid output_format: %s (use markdown, json or yaml)", val)
		}
	case "log_level":
		switch strings.ToLower(val) {
		case "debug", "info", "warn", "warning", "error":
			c.LogLevel = strings.ToLower(val)
		default:
			return fmt.Errorf("invalid log_level: %s (use debug, info, warn or error)", val)
		}
	case "log_format":
		switch strings.ToLower(val) {
		case "text", "json":
			c.LogFormat = strings.ToLower(val)
		default:
			return fmt.Errorf("invalid log_format: %s (use text or json)", val)
		}
	case "sql_driver":
		ok := false
		for _, d := range table.SQLDrivers {
			if d == val {
				ok = true
			}
		}
		if !ok {
			return fmt.Errorf("invalid sql_driver: %s (use %s)", val, strings.Join(table.SQLDrivers, ", "))
		}
		c.SQLDriver = val
	case "watch_debounce_ms":
		i, err := strconv.Atoi(val)
		if err != nil || i < 0 {
			return fmt.Errorf("invalid int for watch_debounce_ms: %v", val)
		}
		c.WatchDebounceMs = i
	default:
		return fmt.Errorf("unknown key: %s", key)
	}
	return nil
}

// Get returns the display form of one key.
func (c *Global) Get(key string) (string, bool) {
	switch key {
	case "delimiter":
		return c.Delimiter, true
	case "decimal_separator":
		return c.DecimalSeparator, true
	case "thousands_separator":
		return c.ThousandsSeparator, true
	case "max_rows":
		return strconv.Itoa(c.MaxRows), true
	case "null_values":
		return strings.Join(c.NullValues, ","), true
	case "output_format":
		return c.OutputFormat, true
	case "log_level":
		return c.LogLevel, true
	case "log_format":
		return c.LogFormat, true
	case "sql_driver":
		return c.SQLDriver, true
	case "watch_debounce_ms":
		return strconv.Itoa(c.WatchDebounceMs), true
	}
	return "", false
}

// TableOptions converts the loading settings into loader options.
func (c *Global) TableOptions() (table.Options, error) {
	opt := table.DefaultOptions()
	opt.MaxRows = c.MaxRows
	if c.NullValues != nil {
		opt.NullValues = append([]string(nil), c.NullValues...)
	}
	var err error
	if opt.Delimiter, err = ParseRune(c.Delimiter); err != nil {
		return opt, fmt.Errorf("delimiter: %w", err)
	}
	if opt.DecimalSeparator, err = ParseRune(c.DecimalSeparator); err != nil {
		return opt, fmt.Errorf("decimal_separator: %w", err)
	}
	if opt.ThousandsSeparator, err = ParseRune(c.ThousandsSeparator); err != nil {
		return opt, fmt.Errorf("thousands_separator: %w", err)
	}
	return opt, nil
}

// ParseRune reads a single-character setting. "" means auto (0); "\t" and
// "tab" mean a tab; "space" means a space.
func ParseRune(s string) (rune, error) {
	switch strings.ToLower(s) {
	case "":
		return 0, nil
	case `\t`, "tab":
		return '\t', nil
	case "space":
		return ' ', nil
	}
	if utf8.RuneCountInString(s) != 1 {
		return 0, fmt.Errorf("want a single character, got %q", s)
	}
	r, _ := utf8.DecodeRuneInString(s)
	return r, nil
}

// SplitList splits a comma-separated list. Items are trimmed and empty items
// are kept, so ",NA" means the empty string and "NA".
func SplitList(s string) []string {
	if s == "" {
		return []string{}
	}
	parts := strings.Split(s, ",")
	for i := range parts {
		parts[i] = strings.TrimSpace(parts[i])
	}
	return parts
}
