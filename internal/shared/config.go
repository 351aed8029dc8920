package shared

import (
	"bytes"
	_ "embed"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/BurntSushi/toml"
)

//go:embed config.example.toml
var exampleConf []byte

// Provider names as shown in logs and as the source of each concert.
const (
	ProviderSeatGeek    = "SeatGeek"
	ProviderBandsintown = "Bandsintown"
	ProviderSongkick    = "Songkick"
)

// ProviderNames lists every supported concert provider in registration order.
var ProviderNames = []string{ProviderSeatGeek, ProviderBandsintown, ProviderSongkick}

// Config represents the application configuration loaded from a TOML file.
type Config struct {
	HomeLocation string            `toml:"home_location"`
	Credentials  CredentialsConfig `toml:"credentials"`
	Providers    ProvidersConfig   `toml:"providers"`
	Calendar     CalendarConfig    `toml:"calendar"`
	HTTP         HTTPConfig        `toml:"http"`
	Database     DatabaseConfig    `toml:"database"`
	Server       ServerConfig      `toml:"server"`
	Log          LogConfig         `toml:"log"`
}

// CredentialsConfig contains credentials for the artist and calendar sources.
type CredentialsConfig struct {
	Spotify SpotifyConfig `toml:"spotify"`
	Google  GoogleConfig  `toml:"google"`
}

// SpotifyConfig contains Spotify API credentials.
type SpotifyConfig struct {
	ClientID     string `toml:"client_id"`
	ClientSecret string `toml:"client_secret"`
	RedirectURI  string `toml:"redirect_uri"`
}

// Map returns the credentials in the shape expected by services.NewSpotifyService.
func (s SpotifyConfig) Map() map[string]string {
	return map[string]string{
		"client_id":     s.ClientID,
		"client_secret": s.ClientSecret,
		"redirect_uri":  s.RedirectURI,
	}
}

// Configured reports whether both client credentials are set to real values.
func (s SpotifyConfig) Configured() bool {
	return isSet(s.ClientID) && isSet(s.ClientSecret)
}

// GoogleConfig points at the OAuth client JSON for Google Calendar.
type GoogleConfig struct {
	CredentialsFile string `toml:"credentials_file"`
}

// ProvidersConfig holds one credential bundle per concert provider.
type ProvidersConfig struct {
	SeatGeek    SeatGeekConfig    `toml:"seatgeek"`
	Bandsintown BandsintownConfig `toml:"bandsintown"`
	Songkick    SongkickConfig    `toml:"songkick"`
}

// SeatGeekConfig contains SeatGeek client credentials.
type SeatGeekConfig struct {
	Enabled      bool   `toml:"enabled"`
	ClientID     string `toml:"client_id"`
	ClientSecret string `toml:"client_secret"`
}

// BandsintownConfig contains the Bandsintown app ID.
type BandsintownConfig struct {
	Enabled bool   `toml:"enabled"`
	AppID   string `toml:"app_id"`
}

// SongkickConfig contains the Songkick API key.
type SongkickConfig struct {
	Enabled bool   `toml:"enabled"`
	APIKey  string `toml:"api_key"`
}

// CalendarConfig selects the calendar source and the search window.
type CalendarConfig struct {
	Source        string `toml:"source"`
	CalendarID    string `toml:"calendar_id"`
	ICSURL        string `toml:"ics_url"`
	LookaheadDays int    `toml:"lookahead_days"`
}

// Lookahead returns the calendar window length, defaulting to one year.
func (c CalendarConfig) Lookahead() time.Duration {
	days := c.LookaheadDays
	if days <= 0 {
		days = 365
	}
	return time.Duration(days) * 24 * time.Hour
}

// HTTPConfig bounds outgoing provider requests.
type HTTPConfig struct {
	TimeoutSeconds    int     `toml:"timeout_seconds"`
	RequestsPerSecond float64 `toml:"requests_per_second"`
}

// Timeout returns the per-request timeout, defaulting to 15 seconds.
func (h HTTPConfig) Timeout() time.Duration {
	if h.TimeoutSeconds <= 0 {
		return 15 * time.Second
	}
	return time.Duration(h.TimeoutSeconds) * time.Second
}

// DatabaseConfig contains database connection settings.
type DatabaseConfig struct {
	Path         string `toml:"path"`
	MaxOpenConns int    `toml:"max_open_conns"`
	MaxIdleConns int    `toml:"max_idle_conns"`
}

// ServerConfig contains the OAuth callback server address.
type ServerConfig struct {
	Host string `toml:"host"`
	Port int    `toml:"port"`
}

// LogConfig contains logging settings.
type LogConfig struct {
	Level string `toml:"level"`
}

// ProviderStatus describes whether a provider can be used and why not.
type ProviderStatus struct {
	Name    string
	Enabled bool
	Reason  string
}

// ProviderStatuses reports, in registration order, which providers are usable.
//
// A provider is usable only when it is switched on and all of its credentials are set.
func (c *Config) ProviderStatuses() []ProviderStatus {
	statuses := make([]ProviderStatus, 0, len(ProviderNames))
	for _, name := range ProviderNames {
		var on, creds bool
		switch name {
		case ProviderSeatGeek:
			on = c.Providers.SeatGeek.Enabled
			creds = isSet(c.Providers.SeatGeek.ClientID) && isSet(c.Providers.SeatGeek.ClientSecret)
		case ProviderBandsintown:
			on = c.Providers.Bandsintown.Enabled
			creds = isSet(c.Providers.Bandsintown.AppID)
		case ProviderSongkick:
			on = c.Providers.Songkick.Enabled
			creds = isSet(c.Providers.Songkick.APIKey)
		}

		status := ProviderStatus{Name: name, Enabled: on && creds}
		switch {
		case !on:
			status.Reason = "disabled in config"
		case !creds:
			status.Reason = "missing credentials"
		}
		statuses = append(statuses, status)
	}
	return statuses
}

// EnabledProviders returns the names of usable providers in registration order.
func (c *Config) EnabledProviders() []string {
	var names []string
	for _, s := range c.ProviderStatuses() {
		if s.Enabled {
			names = append(names, s.Name)
		}
	}
	return names
}

// Validate checks the settings the finder cannot run without.
func (c *Config) Validate() error {
	if !isSet(c.HomeLocation) || c.HomeLocation == "City, Country" {
		return fmt.Errorf("%w: home_location must be set", ErrInvalidConfig)
	}
	switch c.Calendar.Source {
	case "", "google":
	case "ics":
		if c.Calendar.ICSURL == "" {
			return fmt.Errorf("%w: calendar.ics_url is required for the ics source", ErrInvalidConfig)
		}
	default:
		return fmt.Errorf("%w: unknown calendar source %q", ErrInvalidConfig, c.Calendar.Source)
	}
	return nil
}

// isSet reports whether a credential holds a real value rather than a blank or template placeholder.
func isSet(v string) bool {
	v = strings.TrimSpace(v)
	return v != "" && !strings.HasPrefix(v, "your_")
}

// LoadConfig reads and parses a TOML configuration file from the specified path.
//
// Values missing from the file fall back to the embedded defaults.
func LoadConfig(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	config := DefaultConfig()
	if err := toml.Unmarshal(data, config); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}

	return config, nil
}

// DefaultConfig returns a Config with sensible defaults loaded from the embedded example config.
func DefaultConfig() *Config {
	var config Config
	if err := toml.Unmarshal(exampleConf, &config); err != nil {
		panic(fmt.Sprintf("failed to parse embedded default config: %v", err))
	}
	return &config
}

// CreateConfigFile creates a config.toml file at the specified path using the embedded example config.
func CreateConfigFile(path string) error {
	if _, err := os.Stat(path); err == nil {
		return fmt.Errorf("config file already exists at %s", path)
	}

	if err := os.WriteFile(path, exampleConf, 0644); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	return nil
}

// SaveConfig encodes the config as TOML and writes it to path.
func SaveConfig(path string, config *Config) error {
	var buf bytes.Buffer
	if err := toml.NewEncoder(&buf).Encode(config); err != nil {
		return fmt.Errorf("failed to encode config: %w", err)
	}

	if err := os.WriteFile(path, buf.Bytes(), 0600); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	return nil
}
