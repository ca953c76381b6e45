package model

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/spf13/viper"
)

// DefaultHistoryLimit is the number of undo snapshots kept per session.
const DefaultHistoryLimit = 50

// MaxHistoryLimit bounds history.limit; every snapshot is a full document.
const MaxHistoryLimit = 1000

// Themes lists the names accepted by display.theme.
var Themes = []string{"default", "mono"}

var logLevels = []any{"trace", "debug", "info", "warn", "error", "fatal", "panic", "disabled"}

// HistoryConfig controls the undo/redo stack.
type HistoryConfig struct {
	Limit int `mapstructure:"limit" yaml:"limit"`
}

// EditorConfig holds defaults applied when new entities are created.
type EditorConfig struct {
	DefaultRuleTitle string `mapstructure:"default_rule_title" yaml:"default_rule_title"`
}

// ExportConfig controls where dated JSON exports are written.
type ExportConfig struct {
	Dir    string `mapstructure:"dir" yaml:"dir"`
	Prefix string `mapstructure:"prefix" yaml:"prefix"`
}

// LibraryConfig points at the SQLite export library.
type LibraryConfig struct {
	Path string `mapstructure:"path" yaml:"path"`
}

// LogConfig controls the file logger. The terminal is owned by the TUI,
// so logs never go to stdout.
type LogConfig struct {
	Path  string `mapstructure:"path" yaml:"path"`
	Level string `mapstructure:"level" yaml:"level"`
}

// DisplayConfig holds UI/rendering preferences.
type DisplayConfig struct {
	Theme string `mapstructure:"theme" yaml:"theme"`
}

func (c HistoryConfig) Validate() error {
	return validation.ValidateStruct(&c,
		validation.Field(&c.Limit, validation.Required, validation.Max(MaxHistoryLimit)),
	)
}

func (c ExportConfig) Validate() error {
	return validation.ValidateStruct(&c,
		validation.Field(&c.Prefix, validation.By(noPathSeparator)),
	)
}

func (c LogConfig) Validate() error {
	return validation.ValidateStruct(&c,
		validation.Field(&c.Level, validation.In(logLevels...)),
	)
}

func (c DisplayConfig) Validate() error {
	themes := make([]any, len(Themes))
	for i, t := range Themes {
		themes[i] = t
	}
	return validation.ValidateStruct(&c,
		validation.Field(&c.Theme, validation.In(themes...)),
	)
}

func noPathSeparator(value any) error {
	s, _ := value.(string)
	if strings.ContainsAny(s, `/\`) {
		return errors.New("must not contain a path separator")
	}
	return nil
}

// AppConfig is the top-level application configuration.
type AppConfig struct {
	History HistoryConfig `mapstructure:"history" yaml:"history"`
	Editor  EditorConfig  `mapstructure:"editor" yaml:"editor"`
	Export  ExportConfig  `mapstructure:"export" yaml:"export"`
	Library LibraryConfig `mapstructure:"library" yaml:"library"`
	Log     LogConfig     `mapstructure:"log" yaml:"log"`
	Display DisplayConfig `mapstructure:"display" yaml:"display"`
}

// Validate checks every section.
func (c *AppConfig) Validate() error {
	return validation.ValidateStruct(c,
		validation.Field(&c.History),
		validation.Field(&c.Export),
		validation.Field(&c.Log),
		validation.Field(&c.Display),
	)
}

// ConfigDir returns ~/.config/rulebook, or the working directory when the
// home directory cannot be resolved.
func ConfigDir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return "."
	}
	return filepath.Join(home, ".config", "rulebook")
}

// DefaultConfigPath returns the default path for the configuration file,
// located at ~/.config/rulebook/config.yaml.
func DefaultConfigPath() string {
	return filepath.Join(ConfigDir(), "config.yaml")
}

// DefaultAppConfig returns the configuration used when no file is present.
func DefaultAppConfig() *AppConfig {
	dir := ConfigDir()
	return &AppConfig{
		History: HistoryConfig{Limit: DefaultHistoryLimit},
		Export: ExportConfig{
			Dir:    ".",
			Prefix: "ultimate-rule-book",
		},
		Library: LibraryConfig{Path: filepath.Join(dir, "library.db")},
		Log: LogConfig{
			Path:  filepath.Join(dir, "rulebook.log"),
			Level: "info",
		},
		Display: DisplayConfig{Theme: "default"},
	}
}

func setDefaults(v *viper.Viper) {
	def := DefaultAppConfig()
	v.SetDefault("history.limit", def.History.Limit)
	v.SetDefault("editor.default_rule_title", def.Editor.DefaultRuleTitle)
	v.SetDefault("export.dir", def.Export.Dir)
	v.SetDefault("export.prefix", def.Export.Prefix)
	v.SetDefault("library.path", def.Library.Path)
	v.SetDefault("log.path", def.Log.Path)
	v.SetDefault("log.level", def.Log.Level)
	v.SetDefault("display.theme", def.Display.Theme)
}

// LoadConfig reads configuration from the given YAML file path using Viper.
// RULEBOOK_* environment variables override file values (for example
// RULEBOOK_HISTORY_LIMIT). A missing file is not an error.
func LoadConfig(path string) (*AppConfig, error) {
	v := viper.New()
	v.SetConfigFile(path)
	v.SetConfigType("yaml")
	v.SetEnvPrefix("RULEBOOK")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	setDefaults(v)

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		var pathErr *os.PathError
		if !errors.As(err, &notFound) && !errors.As(err, &pathErr) {
			return nil, fmt.Errorf("reading config %s: %w", path, err)
		}
	}

	cfg := DefaultAppConfig()
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("parsing config %s: %w", path, err)
	}

	if cfg.History.Limit <= 0 {
		cfg.History.Limit = DefaultHistoryLimit
	}
	cfg.Export.Dir = ExpandHome(cfg.Export.Dir)
	cfg.Library.Path = ExpandHome(cfg.Library.Path)
	cfg.Log.Path = ExpandHome(cfg.Log.Path)

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config %s: %w", path, err)
	}

	return cfg, nil
}

// SaveConfig writes the given configuration to a YAML file at path,
// creating parent directories if needed.
func SaveConfig(path string, cfg *AppConfig) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("creating config directory %s: %w", dir, err)
	}

	v := viper.New()
	v.SetConfigFile(path)
	v.SetConfigType("yaml")

	v.Set("history", cfg.History)
	v.Set("editor", cfg.Editor)
	v.Set("export", cfg.Export)
	v.Set("library", cfg.Library)
	v.Set("log", cfg.Log)
	v.Set("display", cfg.Display)

	if err := v.WriteConfigAs(path); err != nil {
		return fmt.Errorf("writing config to %s: %w", path, err)
	}

	return nil
}

// ExpandHome replaces a leading "~/" with the user's home directory.
func ExpandHome(path string) string {
	if path != "~" && !strings.HasPrefix(path, "~/") {
		return path
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return path
	}
	return filepath.Join(home, strings.TrimPrefix(path, "~"))
}
