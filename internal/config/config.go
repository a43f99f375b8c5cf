// Package config loads editor settings and extra syntax profiles from a TOML file.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"time"

	"github.com/BurntSushi/toml"
	"github.com/rs/zerolog"

	"github.com/JackWReid/kite/internal/buffer"
	"github.com/JackWReid/kite/internal/syntax"
)

// Config is the root configuration structure.
type Config struct {
	TabStop        int      `toml:"tab_stop"`
	QuitTimes      int      `toml:"quit_times"`
	MessageSeconds int      `toml:"message_seconds"`
	LogFile        string   `toml:"log_file"`
	LogLevel       string   `toml:"log_level"`
	Syntax         []Syntax `toml:"syntax"`
}

// Syntax describes one highlighting profile. Keywords ending in "|" are
// drawn in the secondary keyword colour.
type Syntax struct {
	FileType          string   `toml:"filetype"`
	FileMatch         []string `toml:"filematch"`
	Keywords          []string `toml:"keywords"`
	SingleLineComment string   `toml:"singleline_comment"`
	MultiLineStart    string   `toml:"multiline_start"`
	MultiLineEnd      string   `toml:"multiline_end"`
	HighlightNumbers  bool     `toml:"highlight_numbers"`
	HighlightStrings  bool     `toml:"highlight_strings"`
}

// Default returns the built-in settings.
func Default() *Config {
	return &Config{
		TabStop:        buffer.DefaultTabStop,
		QuitTimes:      3,
		MessageSeconds: 5,
		LogLevel:       zerolog.LevelInfoValue,
	}
}

// DefaultPath returns $XDG_CONFIG_HOME/kite/config.toml, falling back to
// ~/.config/kite/config.toml.
func DefaultPath() (string, error) {
	if dir := os.Getenv("XDG_CONFIG_HOME"); dir != "" {
		return filepath.Join(dir, "kite", "config.toml"), nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".config", "kite", "config.toml"), nil
}

// Load reads the file at path over the defaults. When required is false a
// missing file yields the defaults.
func Load(path string, required bool) (*Config, error) {
	cfg := Default()

	if _, err := os.Stat(path); err != nil {
		if !required && errors.Is(err, fs.ErrNotExist) {
			return cfg, nil
		}
		return nil, fmt.Errorf("config file not found: %s", path)
	}

	if _, err := toml.DecodeFile(path, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate returns an error if the configuration is invalid.
func (c *Config) Validate() error {
	var errs []error

	if c.TabStop < 1 || c.TabStop > 16 {
		errs = append(errs, fmt.Errorf("tab_stop=%d must be between 1 and 16", c.TabStop))
	}
	if c.QuitTimes < 1 {
		errs = append(errs, fmt.Errorf("quit_times=%d must be at least 1", c.QuitTimes))
	}
	if c.MessageSeconds < 1 {
		errs = append(errs, fmt.Errorf("message_seconds=%d must be at least 1", c.MessageSeconds))
	}
	if _, err := zerolog.ParseLevel(c.LogLevel); err != nil {
		errs = append(errs, fmt.Errorf("log_level=%q is invalid: %v", c.LogLevel, err))
	}
	for i, s := range c.Syntax {
		errs = append(errs, validateSyntax(i, s)...)
	}

	if len(errs) > 0 {
		return errors.Join(errs...)
	}
	return nil
}

func validateSyntax(i int, s Syntax) []error {
	var errs []error
	if s.FileType == "" {
		errs = append(errs, fmt.Errorf("syntax[%d].filetype is required", i))
	}
	if len(s.FileMatch) == 0 {
		errs = append(errs, fmt.Errorf("syntax[%d].filematch needs at least one pattern", i))
	}
	if (s.MultiLineStart == "") != (s.MultiLineEnd == "") {
		errs = append(errs, fmt.Errorf("syntax[%d]: multiline_start and multiline_end must be set together", i))
	}
	return errs
}

// Level returns the parsed log level. Call after Validate.
func (c *Config) Level() zerolog.Level {
	lvl, err := zerolog.ParseLevel(c.LogLevel)
	if err != nil {
		return zerolog.InfoLevel
	}
	return lvl
}

// MessageTimeout returns how long status messages stay visible.
func (c *Config) MessageTimeout() time.Duration {
	return time.Duration(c.MessageSeconds) * time.Second
}

// Profiles returns the configured syntax profiles followed by the built-ins,
// in match order.
func (c *Config) Profiles() []*syntax.Profile {
	profiles := make([]*syntax.Profile, 0, len(c.Syntax)+len(syntax.Builtin))
	for _, s := range c.Syntax {
		p := &syntax.Profile{
			FileType:          s.FileType,
			FileMatch:         s.FileMatch,
			Keywords:          s.Keywords,
			SingleLineComment: s.SingleLineComment,
			MultiLineStart:    s.MultiLineStart,
			MultiLineEnd:      s.MultiLineEnd,
		}
		if s.HighlightNumbers {
			p.Flags |= syntax.HighlightNumbers
		}
		if s.HighlightStrings {
			p.Flags |= syntax.HighlightStrings
		}
		profiles = append(profiles, p)
	}
	return append(profiles, syntax.Builtin...)
}
