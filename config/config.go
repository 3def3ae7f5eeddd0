// Package config handles application configuration.
//
// Configuration is read once at startup from, in increasing precedence:
// built-in defaults, config.json in the user config directory, a .env file in
// the working directory, and the process environment. Nothing is written back;
// choices made at runtime (such as the dictation language) last only for the
// current session.
package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/caarlos0/env/v6"
	"github.com/joho/godotenv"

	"go.aimuz.me/whispertype/language"
)

const (
	appName        = "whispertype"
	configFileName = "config.json"
	dotEnvFileName = ".env"
)

// Defaults.
const (
	DefaultModel           = "whisper-1"
	DefaultHotkey          = "ctrl+space"
	DefaultHoldDelay       = 300 * time.Millisecond
	DefaultTypeDelay       = 500 * time.Millisecond
	DefaultSampleRate      = 44100
	DefaultChannels        = 2
	DefaultFramesPerBuffer = 1024
	DefaultRequestTimeout  = 60 * time.Second
	DefaultHistorySize     = 50
	DefaultHistoryTTL      = 24 * time.Hour
	DefaultLogLevel        = "info"
)

// Config represents the application configuration.
type Config struct {
	// Transcription service
	APIKey         string   `json:"api_key,omitempty" env:"OPENAI_API_KEY"`
	BaseURL        string   `json:"base_url,omitempty" env:"OPENAI_BASE_URL"`
	Model          string   `json:"model,omitempty" env:"WHISPERTYPE_MODEL"`
	RequestTimeout Duration `json:"request_timeout,omitempty" env:"WHISPERTYPE_REQUEST_TIMEOUT"`

	// Dictation
	Language  string   `json:"language,omitempty" env:"WHISPERTYPE_LANGUAGE"`
	Hotkey    string   `json:"hotkey,omitempty" env:"WHISPERTYPE_HOTKEY"`
	HoldDelay Duration `json:"hold_delay,omitempty" env:"WHISPERTYPE_HOLD_DELAY"`
	TypeDelay Duration `json:"type_delay,omitempty" env:"WHISPERTYPE_TYPE_DELAY"`

	// Microphone
	SampleRate      int `json:"sample_rate,omitempty" env:"WHISPERTYPE_SAMPLE_RATE"`
	Channels        int `json:"channels,omitempty" env:"WHISPERTYPE_CHANNELS"`
	FramesPerBuffer int `json:"frames_per_buffer,omitempty" env:"WHISPERTYPE_FRAMES_PER_BUFFER"`

	// Transcript history (in memory only)
	HistorySize int      `json:"history_size,omitempty" env:"WHISPERTYPE_HISTORY_SIZE"`
	HistoryTTL  Duration `json:"history_ttl,omitempty" env:"WHISPERTYPE_HISTORY_TTL"`

	LogLevel string `json:"log_level,omitempty" env:"WHISPERTYPE_LOG_LEVEL"`
}

// Load reads the configuration from the standard locations.
// A missing config file or .env file is not an error.
func Load() (*Config, error) {
	path, err := configPath()
	if err != nil {
		return nil, fmt.Errorf("get config path: %w", err)
	}
	return LoadFile(path, dotEnvFileName)
}

// LoadFile reads the configuration from the given JSON file and .env file,
// then applies environment overrides and validates the result.
// Empty paths are skipped.
func LoadFile(path, dotEnvPath string) (*Config, error) {
	cfg := defaultConfig()

	if path != "" {
		data, err := os.ReadFile(path)
		switch {
		case errors.Is(err, fs.ErrNotExist):
		case err != nil:
			return nil, fmt.Errorf("read config: %w", err)
		default:
			if err := json.Unmarshal(data, cfg); err != nil {
				return nil, fmt.Errorf("unmarshal config: %w", err)
			}
		}
	}

	if dotEnvPath != "" {
		// godotenv never overrides variables already set in the environment.
		if err := godotenv.Load(dotEnvPath); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("load %s: %w", dotEnvPath, err)
		}
	}

	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("parse environment: %w", err)
	}

	cfg.applyDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate reports the first invalid setting.
func (c *Config) Validate() error {
	if !language.Supported(c.Language) {
		return fmt.Errorf("unsupported language %q (supported: %s)", c.Language, strings.Join(language.Codes(), ", "))
	}
	if strings.TrimSpace(c.Hotkey) == "" {
		return fmt.Errorf("hotkey required")
	}
	if c.Channels != 1 && c.Channels != 2 {
		return fmt.Errorf("channels must be 1 or 2, got %d", c.Channels)
	}
	if c.SampleRate <= 0 {
		return fmt.Errorf("sample rate must be positive, got %d", c.SampleRate)
	}
	if c.FramesPerBuffer <= 0 {
		return fmt.Errorf("frames per buffer must be positive, got %d", c.FramesPerBuffer)
	}
	if c.HoldDelay < 0 || c.TypeDelay < 0 {
		return fmt.Errorf("delays must not be negative")
	}
	if c.RequestTimeout <= 0 {
		return fmt.Errorf("request timeout must be positive")
	}
	if c.HistorySize <= 0 {
		return fmt.Errorf("history size must be positive, got %d", c.HistorySize)
	}
	return nil
}

// applyDefaults fills zero values left after the file and environment were applied.
func (c *Config) applyDefaults() {
	if c.Model == "" {
		c.Model = DefaultModel
	}
	if c.Language == "" {
		c.Language = language.Default
	}
	if c.Hotkey == "" {
		c.Hotkey = DefaultHotkey
	}
	if c.RequestTimeout == 0 {
		c.RequestTimeout = Duration(DefaultRequestTimeout)
	}
	if c.SampleRate == 0 {
		c.SampleRate = DefaultSampleRate
	}
	if c.Channels == 0 {
		c.Channels = DefaultChannels
	}
	if c.FramesPerBuffer == 0 {
		c.FramesPerBuffer = DefaultFramesPerBuffer
	}
	if c.HistorySize == 0 {
		c.HistorySize = DefaultHistorySize
	}
	if c.HistoryTTL == 0 {
		c.HistoryTTL = Duration(DefaultHistoryTTL)
	}
	if c.LogLevel == "" {
		c.LogLevel = DefaultLogLevel
	}
}

func configPath() (string, error) {
	dir, err := os.UserConfigDir()
	if err != nil {
		return "", fmt.Errorf("get user config dir: %w", err)
	}
	return filepath.Join(dir, appName, configFileName), nil
}

// defaultConfig returns the configuration used when no file exists.
// Delays are set here rather than in applyDefaults so that an explicit zero
// from the file or environment disables them.
func defaultConfig() *Config {
	return &Config{
		HoldDelay: Duration(DefaultHoldDelay),
		TypeDelay: Duration(DefaultTypeDelay),
	}
}

// ─────────────────────────────────────────────────────────────────────────────
// Duration
// ─────────────────────────────────────────────────────────────────────────────

// Duration is a time.Duration written as a string ("300ms") in JSON and
// environment variables.
type Duration time.Duration

// Std returns d as a time.Duration.
func (d Duration) Std() time.Duration { return time.Duration(d) }

func (d Duration) String() string { return time.Duration(d).String() }

// MarshalText implements encoding.TextMarshaler.
func (d Duration) MarshalText() ([]byte, error) {
	return []byte(time.Duration(d).String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (d *Duration) UnmarshalText(text []byte) error {
	v, err := time.ParseDuration(string(text))
	if err != nil {
		return fmt.Errorf("parse duration %q: %w", text, err)
	}
	*d = Duration(v)
	return nil
}
