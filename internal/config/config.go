// Package config loads playlistporter settings from a TOML file, a .env file
// and the environment, in increasing order of precedence.
package config

import (
	_ "embed"
	"errors"
	"fmt"
	"net"
	"os"
	"strconv"

	"github.com/BurntSushi/toml"
	"github.com/joho/godotenv"
)

//go:embed config.example.toml
var exampleConf []byte

var (
	ErrMissingCredentials = errors.New("missing client credentials")
	ErrInvalidConfig      = errors.New("invalid configuration")
)

// DefaultPath is where Load looks when no path is given
const DefaultPath = "config.toml"

// Config is the application configuration
type Config struct {
	Spotify  ProviderConfig `toml:"spotify"`
	YouTube  ProviderConfig `toml:"youtube"`
	Server   ServerConfig   `toml:"server"`
	Transfer TransferConfig `toml:"transfer"`
	Log      LogConfig      `toml:"log"`
}

// ProviderConfig holds the OAuth client registered with one platform
type ProviderConfig struct {
	ClientID     string `toml:"client_id"`
	ClientSecret string `toml:"client_secret"`
	RedirectURI  string `toml:"redirect_uri"`
}

// ServerConfig is where the local OAuth callback server listens
type ServerConfig struct {
	Host string `toml:"host"`
	Port int    `toml:"port"`
}

// Addr returns host:port for net.Listen
func (s ServerConfig) Addr() string {
	return net.JoinHostPort(s.Host, strconv.Itoa(s.Port))
}

// TransferConfig shapes the destination playlist and request pacing
type TransferConfig struct {
	TitlePrefix       string  `toml:"title_prefix"`
	Description       string  `toml:"description"`
	Privacy           string  `toml:"privacy"`
	RequestsPerSecond float64 `toml:"requests_per_second"`
}

type LogConfig struct {
	Level string `toml:"level"`
	File  string `toml:"file"`
}

// Default returns the configuration described by the embedded example file
func Default() *Config {
	var cfg Config
	if err := toml.Unmarshal(exampleConf, &cfg); err != nil {
		panic(fmt.Sprintf("failed to parse embedded default config: %v", err))
	}
	return &cfg
}

// Load reads the TOML file at path over the defaults, then applies .env and
// environment overrides. A missing file at the default path is not an error;
// a missing file at an explicit path is.
func Load(path string) (*Config, error) {
	cfg := Default()

	explicit := path != ""
	if !explicit {
		path = DefaultPath
	}

	data, err := os.ReadFile(path)
	switch {
	case err == nil:
		if err := toml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("%w: failed to parse %s: %w", ErrInvalidConfig, path, err)
		}
	case errors.Is(err, os.ErrNotExist) && !explicit:
	default:
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	// .env is optional; variables already in the environment win
	_ = godotenv.Load()

	cfg.applyEnv(os.Getenv)
	return cfg, nil
}

func (c *Config) applyEnv(getenv func(string) string) {
	override := func(dst *string, keys ...string) {
		for _, k := range keys {
			if v := getenv(k); v != "" {
				*dst = v
				return
			}
		}
	}

	override(&c.Spotify.ClientID, "SPOTIFY_ID", "SPOTIFY_CLIENT_ID")
	override(&c.Spotify.ClientSecret, "SPOTIFY_SECRET", "SPOTIFY_CLIENT_SECRET")
	override(&c.YouTube.ClientID, "YOUTUBE_CLIENT_ID", "GOOGLE_CLIENT_ID")
	override(&c.YouTube.ClientSecret, "YOUTUBE_CLIENT_SECRET", "GOOGLE_CLIENT_SECRET")
}

// ValidatePrivacy reports whether s is a privacy status YouTube accepts
func ValidatePrivacy(s string) bool {
	switch s {
	case "private", "public", "unlisted":
		return true
	}
	return false
}

// Validate checks that the configuration can drive a transfer
func (c *Config) Validate() error {
	var missing []string
	if c.Spotify.ClientID == "" {
		missing = append(missing, "spotify.client_id")
	}
	if c.Spotify.ClientSecret == "" {
		missing = append(missing, "spotify.client_secret")
	}
	if c.YouTube.ClientID == "" {
		missing = append(missing, "youtube.client_id")
	}
	if c.YouTube.ClientSecret == "" {
		missing = append(missing, "youtube.client_secret")
	}
	if len(missing) > 0 {
		return fmt.Errorf("%w: %v", ErrMissingCredentials, missing)
	}

	return c.validateSettings()
}

// ValidateSource checks only what listing source playlists needs
func (c *Config) ValidateSource() error {
	if c.Spotify.ClientID == "" || c.Spotify.ClientSecret == "" {
		return fmt.Errorf("%w: spotify client id and secret are required", ErrMissingCredentials)
	}
	return c.validateSettings()
}

func (c *Config) validateSettings() error {
	if !ValidatePrivacy(c.Transfer.Privacy) {
		return fmt.Errorf("%w: privacy must be private, public or unlisted, got %q", ErrInvalidConfig, c.Transfer.Privacy)
	}
	if c.Transfer.RequestsPerSecond < 0 {
		return fmt.Errorf("%w: requests_per_second must not be negative", ErrInvalidConfig)
	}
	if c.Server.Port <= 0 || c.Server.Port > 65535 {
		return fmt.Errorf("%w: server port %d out of range", ErrInvalidConfig, c.Server.Port)
	}
	if c.Spotify.RedirectURI == "" || c.YouTube.RedirectURI == "" {
		return fmt.Errorf("%w: redirect_uri is required for both providers", ErrInvalidConfig)
	}
	return nil
}
