// Package config resolves runtime settings from embedded defaults, an
// optional YAML file, NEVIRALLER_* environment variables and command-line
// flags, in increasing order of precedence.
package config

import (
	"bytes"
	_ "embed"
	"errors"
	"fmt"
	"log/slog"
	"math"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/muesli/termenv"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"

	"neviraller/internal/action"
	"neviraller/internal/keymap"
)

//go:embed default.yaml
var defaultYAML []byte

// EnvPrefix prefixes every environment override (NEVIRALLER_TICK_RATE).
const EnvPrefix = "NEVIRALLER"

// Config is the fully resolved configuration.
type Config struct {
	TickRate    float64       `mapstructure:"tick_rate"`
	FrameRate   float64       `mapstructure:"frame_rate"`
	Color       string        `mapstructure:"color"`
	StepPace    time.Duration `mapstructure:"step_pace"`
	StepTimeout time.Duration `mapstructure:"step_timeout"` // 0: unbounded

	Log       LogConfig       `mapstructure:"log"`
	UI        UIConfig        `mapstructure:"ui"`
	Nightly   NightlyConfig   `mapstructure:"nightly"`
	Neviraide NeviraideConfig `mapstructure:"neviraide"`

	Keybindings map[string][]BindingEntry `mapstructure:"keybindings"`

	// Bindings is built from Keybindings by Load.
	Bindings *keymap.Bindings `mapstructure:"-"`
	// File is the user configuration file that was merged, if any.
	File string `mapstructure:"-"`
}

// LogConfig holds log destination settings.
type LogConfig struct {
	File  string `mapstructure:"file"`
	Level string `mapstructure:"level"`
}

// UIConfig holds presentation text.
type UIConfig struct {
	Title     string `mapstructure:"title"`
	Copyright string `mapstructure:"copyright"`
}

// NightlyConfig locates the Neovim nightly release.
type NightlyConfig struct {
	ReleaseURL  string        `mapstructure:"release_url"`
	AppImageURL string        `mapstructure:"appimage_url"`
	InstallPath string        `mapstructure:"install_path"`
	Timeout     time.Duration `mapstructure:"timeout"`
}

// NeviraideConfig locates the NEVIRAIDE configuration repository.
type NeviraideConfig struct {
	RepoURL   string `mapstructure:"repo_url"`
	CloneDir  string `mapstructure:"clone_dir"`
	ConfigDir string `mapstructure:"config_dir"` // empty: ~/.config/nvim
}

// BindingEntry is one keybinding entry of the YAML file.
type BindingEntry struct {
	Keys   string `mapstructure:"keys"`
	Action string `mapstructure:"action"`
	Desc   string `mapstructure:"desc"`
}

// TickInterval is the period of the tick schedule.
func (c Config) TickInterval() time.Duration {
	return rateInterval(c.TickRate)
}

// FrameInterval is the period of the frame schedule.
func (c Config) FrameInterval() time.Duration {
	return rateInterval(c.FrameRate)
}

func rateInterval(perSecond float64) time.Duration {
	if perSecond <= 0 {
		return time.Second
	}
	return time.Duration(float64(time.Second) / perSecond)
}

// SlogLevel parses Log.Level.
func (c Config) SlogLevel() (slog.Level, error) {
	var lvl slog.Level
	if err := lvl.UnmarshalText([]byte(c.Log.Level)); err != nil {
		return slog.LevelInfo, fmt.Errorf("log level %q: %w", c.Log.Level, err)
	}
	return lvl, nil
}

// AddFlags registers the configuration flags on fs.
func AddFlags(fs *pflag.FlagSet) {
	fs.Float64P("tick-rate", "t", 1.0, "tick rate, i.e. number of ticks per second")
	fs.Float64P("frame-rate", "f", 4.0, "frame rate, i.e. number of frames per second")
	fs.String("config", "", "path to a YAML configuration file")
	fs.String("log-file", "", "write JSON log records to this file")
	fs.String("log-level", "info", "log level (debug, info, warn, error)")
	fs.String("color", "auto", "color mode (auto, truecolor, ansi256, ansi, none)")
}

var flagKeys = map[string]string{
	"tick-rate":  "tick_rate",
	"frame-rate": "frame_rate",
	"log-file":   "log.file",
	"log-level":  "log.level",
	"color":      "color",
}

// Load resolves the configuration. fs may be nil; when given, its flags
// (registered with AddFlags) override every other source.
func Load(fs *pflag.FlagSet) (Config, error) {
	v := viper.New()
	v.SetConfigType("yaml")
	if err := v.ReadConfig(bytes.NewReader(defaultYAML)); err != nil {
		return Config{}, fmt.Errorf("read defaults: %w", err)
	}
	v.SetDefault("log.file", DefaultLogFile())

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if fs != nil {
		for name, key := range flagKeys {
			if f := fs.Lookup(name); f != nil {
				if err := v.BindPFlag(key, f); err != nil {
					return Config{}, fmt.Errorf("bind flag --%s: %w", name, err)
				}
			}
		}
	}

	path, explicit := configPath(fs)
	if !explicit {
		if _, err := os.Stat(path); errors.Is(err, os.ErrNotExist) {
			path = ""
		}
	}
	if path != "" {
		v.SetConfigFile(path)
		if err := v.MergeInConfig(); err != nil {
			return Config{}, fmt.Errorf("read config %s: %w", path, err)
		}
	}

	var c Config
	if err := v.Unmarshal(&c); err != nil {
		return Config{}, fmt.Errorf("unmarshal config: %w", err)
	}
	c.File = path
	if err := c.build(); err != nil {
		return Config{}, err
	}
	return c, nil
}

// Default returns the embedded configuration without consulting the
// environment, files or flags.
func Default() Config {
	v := viper.New()
	v.SetConfigType("yaml")
	if err := v.ReadConfig(bytes.NewReader(defaultYAML)); err != nil {
		panic(fmt.Sprintf("embedded config: %v", err))
	}
	var c Config
	if err := v.Unmarshal(&c); err != nil {
		panic(fmt.Sprintf("embedded config: %v", err))
	}
	if err := c.build(); err != nil {
		panic(fmt.Sprintf("embedded config: %v", err))
	}
	return c
}

// configPath picks the user file: --config, then NEVIRALLER_CONFIG, then
// the XDG location. explicit is true when the user named the file.
func configPath(fs *pflag.FlagSet) (path string, explicit bool) {
	if fs != nil {
		if p, err := fs.GetString("config"); err == nil && p != "" {
			return p, true
		}
	}
	if p := os.Getenv(EnvPrefix + "_CONFIG"); p != "" {
		return p, true
	}
	return DefaultConfigFile(), false
}

func (c *Config) build() error {
	if err := c.Validate(); err != nil {
		return err
	}
	b, err := BuildBindings(c.Keybindings)
	if err != nil {
		return err
	}
	c.Bindings = b
	return nil
}

var colorModes = map[string]bool{
	"auto": true, "truecolor": true, "ansi256": true, "ansi": true, "none": true,
}

// ColorProfile maps the color mode to a termenv profile. ok is false for
// "auto", which leaves terminal detection to lipgloss.
func (c Config) ColorProfile() (p termenv.Profile, ok bool) {
	switch strings.ToLower(c.Color) {
	case "truecolor":
		return termenv.TrueColor, true
	case "ansi256":
		return termenv.ANSI256, true
	case "ansi":
		return termenv.ANSI, true
	case "none":
		return termenv.Ascii, true
	}
	return termenv.Ascii, false
}

// Validate checks scalar settings.
func (c Config) Validate() error {
	if !validRate(c.TickRate) {
		return fmt.Errorf("tick rate must be a positive number, got %v", c.TickRate)
	}
	if !validRate(c.FrameRate) {
		return fmt.Errorf("frame rate must be a positive number, got %v", c.FrameRate)
	}
	if !colorModes[strings.ToLower(c.Color)] {
		return fmt.Errorf("unknown color mode %q", c.Color)
	}
	if c.StepPace < 0 {
		return fmt.Errorf("step pace must not be negative, got %s", c.StepPace)
	}
	if c.StepTimeout < 0 {
		return fmt.Errorf("step timeout must not be negative, got %s", c.StepTimeout)
	}
	if _, err := c.SlogLevel(); err != nil {
		return err
	}
	return nil
}

func validRate(r float64) bool {
	return r > 0 && !math.IsInf(r, 0) && !math.IsNaN(r)
}

// BuildBindings turns keybinding entries into tables. Unknown modes, unknown
// or unbindable actions, bad key notation and collisions are errors.
func BuildBindings(entries map[string][]BindingEntry) (*keymap.Bindings, error) {
	b := keymap.NewBindings()
	for _, name := range sortedModes(entries) {
		mode, err := keymap.ParseMode(name)
		if err != nil {
			return nil, fmt.Errorf("keybindings: %w", err)
		}
		for i, s := range entries[name] {
			seq, err := keymap.ParseSequence(s.Keys)
			if err != nil {
				return nil, fmt.Errorf("keybindings.%s[%d]: %w", name, i, err)
			}
			kind, err := action.ParseKind(s.Action)
			if err != nil {
				return nil, fmt.Errorf("keybindings.%s[%d]: %w", name, i, err)
			}
			if err := b.BindWithDesc(mode, seq, action.New(kind), s.Desc); err != nil {
				return nil, fmt.Errorf("keybindings.%s[%d]: %w", name, i, err)
			}
		}
	}
	return b, nil
}

func sortedModes(entries map[string][]BindingEntry) []string {
	names := make([]string, 0, len(entries))
	for name := range entries {
		names = append(names, name)
	}
	sort.Slice(names, func(i, j int) bool { return modeRank(names[i]) < modeRank(names[j]) })
	return names
}

func modeRank(name string) string {
	if m, err := keymap.ParseMode(name); err == nil {
		return fmt.Sprintf("0%d", int(m))
	}
	return "1" + name
}

// DefaultConfigFile is $XDG_CONFIG_HOME/neviraller/config.yaml.
func DefaultConfigFile() string {
	dir := os.Getenv("XDG_CONFIG_HOME")
	if dir == "" {
		dir = filepath.Join(homeDir(), ".config")
	}
	return filepath.Join(dir, "neviraller", "config.yaml")
}

// DefaultLogFile is $XDG_STATE_HOME/neviraller/neviraller.log.
func DefaultLogFile() string {
	dir := os.Getenv("XDG_STATE_HOME")
	if dir == "" {
		dir = filepath.Join(homeDir(), ".local", "state")
	}
	return filepath.Join(dir, "neviraller", "neviraller.log")
}

// NvimConfigDir returns where NEVIRAIDE is installed.
func (c NeviraideConfig) NvimConfigDir() string {
	if c.ConfigDir != "" {
		return c.ConfigDir
	}
	return filepath.Join(homeDir(), ".config", "nvim")
}

func homeDir() string {
	if h, err := os.UserHomeDir(); err == nil {
		return h
	}
	return os.Getenv("HOME")
}
