package config

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/viper"
)

const (
	WindowWidth  = 720
	WindowHeight = 560

	// Widget area, centered horizontally below the two button rows
	WidgetSize = 400
	WidgetY    = 130

	// Button dimensions
	ButtonWidth  = 100
	ButtonHeight = 36
	ButtonX      = 12
	ButtonY      = 40
	ButtonGap    = 6

	StateViewKey = "circle"
)

// Config holds runtime settings.
type Config struct {
	Widget WidgetConfig `mapstructure:"widget"`
	Window WindowConfig `mapstructure:"window"`
	Sound  SoundConfig  `mapstructure:"sound"`
	State  StateConfig  `mapstructure:"state"`
	Log    LogConfig    `mapstructure:"log"`
}

// WidgetConfig mirrors the widget's construction attributes.
type WidgetConfig struct {
	NodeCount int    `mapstructure:"cev_nodecount"`
	Expanded  bool   `mapstructure:"cev_expanded"`
	Icon      string `mapstructure:"icon"`
}

type WindowConfig struct {
	Width  int    `mapstructure:"width"`
	Height int    `mapstructure:"height"`
	Title  string `mapstructure:"title"`
}

type SoundConfig struct {
	Enabled bool `mapstructure:"enabled"`
}

type StateConfig struct {
	Path    string `mapstructure:"path"`
	Restore bool   `mapstructure:"restore"`
}

type LogConfig struct {
	Level string `mapstructure:"level"`
}

// New returns a viper instance with defaults, env binding (CEV_ prefix) and
// config file lookup set up. Callers may bind flags before Load.
func New() *viper.Viper {
	v := viper.New()

	v.SetDefault("widget.cev_nodecount", 3)
	v.SetDefault("widget.cev_expanded", true)
	v.SetDefault("widget.icon", "")
	v.SetDefault("window.width", WindowWidth)
	v.SetDefault("window.height", WindowHeight)
	v.SetDefault("window.title", "Circle Expandable View - Space: expand/collapse, arrows: rotate, +/-: nodes, Esc/Q: quit")
	v.SetDefault("sound.enabled", true)
	v.SetDefault("state.path", filepath.Join(stateDir(), "state.yaml"))
	v.SetDefault("state.restore", true)
	v.SetDefault("log.level", "info")

	v.SetConfigType("yaml")
	v.SetConfigName("circleview")
	v.AddConfigPath(".")
	v.AddConfigPath(filepath.Join(os.Getenv("HOME"), ".config", "circleview"))

	v.SetEnvPrefix("CEV")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	return v
}

// Load reads the config file (if any) and unmarshals everything. An explicit
// file that cannot be read is an error; a missing default file is not.
func Load(v *viper.Viper, file string) (Config, error) {
	if file != "" {
		v.SetConfigFile(file)
	}
	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if file != "" || !errors.As(err, &notFound) {
			return Config{}, fmt.Errorf("read config: %w", err)
		}
	}

	var c Config
	if err := v.Unmarshal(&c); err != nil {
		return Config{}, fmt.Errorf("unmarshal config: %w", err)
	}
	if c.Window.Width <= 0 || c.Window.Height <= 0 {
		return Config{}, fmt.Errorf("invalid window size %dx%d", c.Window.Width, c.Window.Height)
	}
	return c, nil
}

// SlogLevel maps the configured level name onto slog. Unknown names mean info.
func (c LogConfig) SlogLevel() slog.Level {
	var l slog.Level
	if err := l.UnmarshalText([]byte(c.Level)); err != nil {
		return slog.LevelInfo
	}
	return l
}

func stateDir() string {
	if dir, err := os.UserConfigDir(); err == nil {
		return filepath.Join(dir, "circleview")
	}
	return "."
}
