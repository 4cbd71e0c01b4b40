package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"

	"toproad/pkg/keymaps"
)

// AppName names the config directory under the user config dir.
const AppName = "toproad"

// EnvPrefix prefixes environment overrides, e.g. TOPROAD_DATA_DIR.
const EnvPrefix = "TOPROAD"

// Config holds the application configuration
type Config struct {
	DataDir        string            `mapstructure:"data_dir"`
	LogLevel       string            `mapstructure:"log_level"`
	KeyMap         map[string]string `mapstructure:"keymap"`
	StylesFile     string            `mapstructure:"styles_file"`
	ReminderHour   int               `mapstructure:"reminder_hour"`
	KeyringService string            `mapstructure:"keyring_service"`
}

// Styles holds the application colors
type Styles struct {
	BorderColor string `json:"border_color"`
	AccentColor string `json:"accent_color"`

	NormalTextColor   string `json:"normal_text_color"`
	SelectedTextColor string `json:"selected_text_color"`
	SelectedBgColor   string `json:"selected_bg_color"`
	ErrorColor        string `json:"error_color"`
	MutedColor        string `json:"muted_color"`
	OverdueColor      string `json:"overdue_color"`

	// Per trip category, keyed by category tag.
	CategoryColors map[string]string `json:"category_colors"`
}

// DefaultStyles returns the built-in color scheme.
func DefaultStyles() Styles {
	return Styles{
		BorderColor:       "240",
		AccentColor:       "205",
		NormalTextColor:   "86",
		SelectedTextColor: "229",
		SelectedBgColor:   "57",
		ErrorColor:        "9",
		MutedColor:        "245",
		OverdueColor:      "208",
		CategoryColors: map[string]string{
			"vacation": "39",
			"business": "141",
			"weekend":  "78",
			"event":    "213",
			"other":    "250",
		},
	}
}

// Dir returns the default configuration directory.
func Dir() (string, error) {
	base, err := os.UserConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(base, AppName), nil
}

// Load reads the configuration file at configPath, or the default location
// when configPath is empty. A missing file is created with default values.
// Environment variables (and a .env file in the working directory) override
// file values.
func Load(configPath string) (Config, Styles, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		return Config{}, Styles{}, fmt.Errorf("error loading .env: %w", err)
	}

	configDir, err := Dir()
	if err != nil {
		return Config{}, Styles{}, err
	}
	if configPath == "" {
		configPath = filepath.Join(configDir, "config.json")
	}

	v := viper.New()
	v.SetConfigFile(configPath)
	v.SetConfigType("json")
	v.SetDefault("data_dir", configDir)
	v.SetDefault("log_level", "info")
	v.SetDefault("keymap", keymaps.GetDefaultKeyMappings())
	v.SetDefault("styles_file", filepath.Join(filepath.Dir(configPath), "styles.json"))
	v.SetDefault("reminder_hour", 10)
	v.SetDefault("keyring_service", AppName)

	if _, err := os.Stat(configPath); errors.Is(err, os.ErrNotExist) {
		if err := os.MkdirAll(filepath.Dir(configPath), 0755); err != nil {
			return Config{}, Styles{}, err
		}
		if err := v.WriteConfigAs(configPath); err != nil {
			return Config{}, Styles{}, fmt.Errorf("error writing default config: %w", err)
		}
	} else if err != nil {
		return Config{}, Styles{}, err
	}

	if err := v.ReadInConfig(); err != nil {
		return Config{}, Styles{}, fmt.Errorf("error reading config: %w", err)
	}

	// Env is bound after the defaults are written so overrides never end up in
	// the file.
	v.SetEnvPrefix(EnvPrefix)
	v.AutomaticEnv()

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return Config{}, Styles{}, fmt.Errorf("error decoding config: %w", err)
	}
	if cfg.ReminderHour < 0 || cfg.ReminderHour > 23 {
		return cfg, Styles{}, fmt.Errorf("reminder_hour must be between 0 and 23, got %d", cfg.ReminderHour)
	}

	styles, err := loadStyles(cfg.StylesFile)
	if err != nil {
		return cfg, styles, fmt.Errorf("error loading styles: %w", err)
	}

	return cfg, styles, nil
}

// loadStyles loads the application styles from the specified path. Colors
// missing from the file keep their defaults.
func loadStyles(stylesPath string) (Styles, error) {
	defaultStyles := DefaultStyles()

	stylesData, err := os.ReadFile(stylesPath)
	if errors.Is(err, os.ErrNotExist) {
		if err := os.MkdirAll(filepath.Dir(stylesPath), 0755); err != nil {
			return defaultStyles, err
		}
		stylesData, err = json.MarshalIndent(defaultStyles, "", "  ")
		if err != nil {
			return defaultStyles, err
		}
		if err := os.WriteFile(stylesPath, stylesData, 0644); err != nil {
			return defaultStyles, err
		}
		return defaultStyles, nil
	}
	if err != nil {
		return defaultStyles, err
	}

	loaded := defaultStyles
	loaded.CategoryColors = nil
	if err := json.Unmarshal(stylesData, &loaded); err != nil {
		return defaultStyles, err
	}
	for k, c := range defaultStyles.CategoryColors {
		if loaded.CategoryColors == nil {
			loaded.CategoryColors = map[string]string{}
		}
		if _, ok := loaded.CategoryColors[k]; !ok {
			loaded.CategoryColors[k] = c
		}
	}
	return loaded, nil
}
