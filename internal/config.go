package internal

import (
	"fmt"
	"log/slog"
	"regexp"
	"strings"

	validation "github.com/go-ozzo/ozzo-validation/v4"

	"github.com/starford/moodmusic/internal/music"
	"github.com/starford/moodmusic/internal/musicservice"
)

// Auth modes.
const (
	AuthModeDisabled = "disabled"
	AuthModeToken    = "token"
)

// Config represents the application configuration.
type Config struct {
	App    ApplicationConfig `yaml:"app"`
	Music  MusicConfig       `yaml:"music"`
	SQLite SQLiteConfig      `yaml:"sqlite"`
	Auth   AuthConfig        `yaml:"auth"`
}

// Validate validates the configuration.
func (c *Config) Validate() error {
	if err := c.App.Validate(); err != nil {
		return fmt.Errorf("app: %w", err)
	}
	if err := c.Music.Validate(); err != nil {
		return fmt.Errorf("music: %w", err)
	}
	if err := c.SQLite.Validate(); err != nil {
		return fmt.Errorf("sqlite: %w", err)
	}
	return c.Auth.Validate()
}

// ApplicationConfig holds application-level configuration.
type ApplicationConfig struct {
	LogLevel slog.Level `yaml:"log_level"`
	HTTP     HTTPConfig `yaml:"http"`
}

// Validate validates the application configuration.
func (c *ApplicationConfig) Validate() error {
	return c.HTTP.Validate()
}

var publicURLPattern = regexp.MustCompile(`^https?://[^\s/]+`)

// HTTPConfig holds HTTP server configuration.
//
// PublicURL is the base used when synthesizing track URLs. When empty,
// http://localhost:<port> is used.
type HTTPConfig struct {
	Port      int    `yaml:"port"`
	PublicURL string `yaml:"public_url"`
}

// Address returns HTTP server address.
func (c *HTTPConfig) Address() string {
	return fmt.Sprintf(":%d", c.Port)
}

// BaseURL returns the base for track URLs without a trailing slash.
func (c *HTTPConfig) BaseURL() string {
	if c.PublicURL == "" {
		return fmt.Sprintf("http://localhost:%d", c.Port)
	}
	return strings.TrimRight(c.PublicURL, "/")
}

// Validate validates the HTTP configuration.
func (c *HTTPConfig) Validate() error {
	return validation.ValidateStruct(c,
		validation.Field(&c.Port, validation.Required, validation.Min(1), validation.Max(65535)),
		validation.Field(&c.PublicURL, validation.Match(publicURLPattern)),
	)
}

// MusicConfig holds the music library settings.
//
// DurationBuffer is added to every requested duration, in seconds. Watch
// enables automatic reloads when the expanded tree changes on disk.
type MusicConfig struct {
	Path           string  `yaml:"path"`
	DurationBuffer float64 `yaml:"duration_buffer"`
	Watch          bool    `yaml:"watch"`
}

// Validate validates the music configuration.
func (c *MusicConfig) Validate() error {
	return validation.ValidateStruct(c,
		validation.Field(&c.Path, validation.Required),
		validation.Field(&c.DurationBuffer, validation.Min(0.0), validation.Max(musicservice.MaxDuration)),
	)
}

// SQLiteConfig holds SQLite database configuration.
type SQLiteConfig struct {
	Path string `yaml:"path"`
}

// Validate validates the SQLite configuration.
func (c *SQLiteConfig) Validate() error {
	return validation.ValidateStruct(c,
		validation.Field(&c.Path, validation.Required),
	)
}

// AuthConfig holds authentication configuration.
//
// Mode controls how the protected routes (history, reload, verify, events)
// are guarded:
//   - "disabled" (default): open, suitable for local use.
//   - "token": Bearer token authentication; Token must be non-empty.
type AuthConfig struct {
	Mode  string `yaml:"mode"`
	Token string `yaml:"token"`
}

// Validate validates the auth configuration.
func (c *AuthConfig) Validate() error {
	if c.Mode == "" {
		c.Mode = AuthModeDisabled
	}
	if err := validation.ValidateStruct(c,
		validation.Field(&c.Mode, validation.Required, validation.In(AuthModeDisabled, AuthModeToken)),
	); err != nil {
		return fmt.Errorf("auth: %w", err)
	}
	if c.Mode == AuthModeToken && c.Token == "" {
		return fmt.Errorf("auth: mode is %q but token is empty", AuthModeToken)
	}
	return nil
}

// AuthEnabled returns true when authentication is active.
func (c *AuthConfig) AuthEnabled() bool {
	return c.Mode == AuthModeToken
}

// NewDefaultConfig returns a new Config with sensible default values.
func NewDefaultConfig() *Config {
	return &Config{
		App: ApplicationConfig{
			LogLevel: slog.LevelInfo,
			HTTP: HTTPConfig{
				Port: 8080,
			},
		},
		Music: MusicConfig{
			Path:           "./music",
			DurationBuffer: music.DefaultBuffer,
		},
		SQLite: SQLiteConfig{
			Path: "./moodmusic.db",
		},
		Auth: AuthConfig{
			Mode: AuthModeDisabled,
		},
	}
}
