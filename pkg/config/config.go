package config

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/viper"

	"tasklist/pkg/database"
	"tasklist/pkg/keymaps"
)

// Config holds the application configuration
type Config struct {
	Database   string            `mapstructure:"database"`
	StorageKey string            `mapstructure:"storage_key"`
	Timeout    time.Duration     `mapstructure:"timeout"`
	Verbose    bool              `mapstructure:"verbose"`
	LogFile    string            `mapstructure:"log_file"`
	KeyMap     map[string]string `mapstructure:"keymap"`
	Styles     Styles            `mapstructure:"styles"`
}

// Styles holds the application colors
type Styles struct {
	BorderColor       string `mapstructure:"border_color"`
	AccentColor       string `mapstructure:"accent_color"`
	NormalTextColor   string `mapstructure:"normal_text_color"`
	SelectedTextColor string `mapstructure:"selected_text_color"`
	SelectedBgColor   string `mapstructure:"selected_bg_color"`
	ErrorColor        string `mapstructure:"error_color"`
	HighColor         string `mapstructure:"high_color"`
	MediumColor       string `mapstructure:"medium_color"`
	LowColor          string `mapstructure:"low_color"`
	DoneColor         string `mapstructure:"done_color"`
}

// DefaultStyles returns the built-in color scheme
func DefaultStyles() Styles {
	return Styles{
		BorderColor:       "240",
		AccentColor:       "205",
		NormalTextColor:   "86",
		SelectedTextColor: "229",
		SelectedBgColor:   "57",
		ErrorColor:        "9",
		HighColor:         "196",
		MediumColor:       "214",
		LowColor:          "34",
		DoneColor:         "243",
	}
}

// DefaultDir returns ~/.config/tasklist
func DefaultDir() (string, error) {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(homeDir, ".config", "tasklist"), nil
}

// Load reads the configuration file at configPath, or the default one when
// configPath is empty. A missing file is created with default values.
// TASKLIST_* environment variables override file values.
func Load(configPath string) (Config, error) {
	if configPath == "" {
		dir, err := DefaultDir()
		if err != nil {
			return Config{}, err
		}
		configPath = filepath.Join(dir, "config.json")
	}

	v := viper.New()
	setDefaults(v, filepath.Dir(configPath))

	v.SetConfigFile(configPath)
	v.SetConfigType(configType(configPath))
	v.SetEnvPrefix("TASKLIST")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if _, err := os.Stat(configPath); errors.Is(err, os.ErrNotExist) {
		if err := os.MkdirAll(filepath.Dir(configPath), 0755); err != nil {
			return Config{}, err
		}
		if err := v.WriteConfigAs(configPath); err != nil {
			return Config{}, err
		}
	}

	if err := v.ReadInConfig(); err != nil {
		return Config{}, err
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return Config{}, err
	}
	if cfg.StorageKey == "" {
		cfg.StorageKey = database.DefaultStorageKey
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = database.DefaultTimeout
	}

	return cfg, nil
}

func setDefaults(v *viper.Viper, dir string) {
	styles := DefaultStyles()

	v.SetDefault("database", filepath.Join(dir, "tasks.db"))
	v.SetDefault("storage_key", database.DefaultStorageKey)
	v.SetDefault("timeout", database.DefaultTimeout.String())
	v.SetDefault("verbose", false)
	v.SetDefault("log_file", "")
	v.SetDefault("keymap", keymaps.GetDefaultKeyMappings())
	v.SetDefault("styles.border_color", styles.BorderColor)
	v.SetDefault("styles.accent_color", styles.AccentColor)
	v.SetDefault("styles.normal_text_color", styles.NormalTextColor)
	v.SetDefault("styles.selected_text_color", styles.SelectedTextColor)
	v.SetDefault("styles.selected_bg_color", styles.SelectedBgColor)
	v.SetDefault("styles.error_color", styles.ErrorColor)
	v.SetDefault("styles.high_color", styles.HighColor)
	v.SetDefault("styles.medium_color", styles.MediumColor)
	v.SetDefault("styles.low_color", styles.LowColor)
	v.SetDefault("styles.done_color", styles.DoneColor)
}

func configType(path string) string {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		return "yaml"
	case ".toml":
		return "toml"
	default:
		return "json"
	}
}
