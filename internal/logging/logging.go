// Package logging builds the zerolog logger used by the checklist service and CLI.
package logging

import (
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/rs/zerolog"
)

const (
	EnvLogLevel     = "MATCHECK_LOG_LEVEL"
	EnvLogFormat    = "MATCHECK_LOG_FORMAT"
	EnvLogTimestamp = "MATCHECK_LOG_TIMESTAMP"
	EnvLogNoColor   = "MATCHECK_LOG_NO_COLOR"
)

// Output formats.
const (
	FormatConsole = "console"
	FormatJSON    = "json"
)

type Profile int

const (
	ProfileRuntime Profile = iota
	ProfileTest
)

// Config describes logger construction. The toml tags let it sit directly in
// the application config file.
type Config struct {
	Level     string `toml:"level"`
	Format    string `toml:"format"`
	Timestamp bool   `toml:"timestamp"`
	NoColor   bool   `toml:"no_color"`
}

// DefaultConfig returns the defaults for profile.
func DefaultConfig(profile Profile) Config {
	switch profile {
	case ProfileTest:
		return Config{Level: "debug", Format: FormatConsole, Timestamp: false, NoColor: true}
	default:
		return Config{Level: "warn", Format: FormatConsole, Timestamp: true}
	}
}

// ApplyEnv overrides cfg from MATCHECK_LOG_* variables. Unparseable values are ignored.
func ApplyEnv(cfg *Config) {
	ApplyLookup(cfg, os.LookupEnv)
}

// ApplyLookup is ApplyEnv with an injectable variable source.
func ApplyLookup(cfg *Config, lookup func(string) (string, bool)) {
	if raw, ok := lookup(EnvLogLevel); ok {
		if _, valid := ParseLevel(raw); valid {
			cfg.Level = strings.ToLower(strings.TrimSpace(raw))
		}
	}
	if raw, ok := lookup(EnvLogFormat); ok {
		switch f := strings.ToLower(strings.TrimSpace(raw)); f {
		case FormatConsole, FormatJSON:
			cfg.Format = f
		}
	}
	if raw, ok := lookup(EnvLogTimestamp); ok {
		if v, ok := parseBool(raw); ok {
			cfg.Timestamp = v
		}
	}
	if raw, ok := lookup(EnvLogNoColor); ok {
		if v, ok := parseBool(raw); ok {
			cfg.NoColor = v
		}
	}
}

// Validate reports configuration values New would reject.
func (c Config) Validate() error {
	if _, ok := ParseLevel(c.Level); !ok && strings.TrimSpace(c.Level) != "" {
		return fmt.Errorf("unknown log level %q", c.Level)
	}
	switch strings.ToLower(strings.TrimSpace(c.Format)) {
	case "", FormatConsole, FormatJSON:
		return nil
	default:
		return fmt.Errorf("unknown log format %q", c.Format)
	}
}

// New builds a logger writing to w. An empty level means info.
func New(cfg Config, w io.Writer) (zerolog.Logger, error) {
	if err := cfg.Validate(); err != nil {
		return zerolog.Nop(), err
	}
	level := zerolog.InfoLevel
	if lvl, ok := ParseLevel(cfg.Level); ok {
		level = lvl
	}
	if w == nil {
		w = os.Stderr
	}
	out := w
	if strings.ToLower(strings.TrimSpace(cfg.Format)) != FormatJSON {
		out = zerolog.ConsoleWriter{Out: w, NoColor: cfg.NoColor, TimeFormat: time.RFC3339}
	}
	ctx := zerolog.New(out).Level(level).With().Str("app", "matcheck")
	if cfg.Timestamp {
		ctx = ctx.Timestamp()
	}
	return ctx.Logger(), nil
}

// ParseLevel maps a level name onto a zerolog level.
func ParseLevel(raw string) (zerolog.Level, bool) {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "trace":
		return zerolog.TraceLevel, true
	case "debug":
		return zerolog.DebugLevel, true
	case "info":
		return zerolog.InfoLevel, true
	case "warn", "warning":
		return zerolog.WarnLevel, true
	case "error":
		return zerolog.ErrorLevel, true
	case "disabled", "disable", "off", "none":
		return zerolog.Disabled, true
	default:
		return zerolog.InfoLevel, false
	}
}

func parseBool(raw string) (bool, bool) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return false, false
	}
	v, err := strconv.ParseBool(raw)
	if err != nil {
		return false, false
	}
	return v, true
}
