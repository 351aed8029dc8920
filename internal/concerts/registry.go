package concerts

import (
	"net/http"

	"github.com/charmbracelet/log"
	"github.com/desertthunder/gigx/internal/shared"
)

// FromConfig builds the enabled providers in canonical order: SeatGeek, Bandsintown, Songkick.
//
// Providers that are disabled or lack credentials are logged and left out. Each provider gets its own
// rate limiter over a shared HTTP client.
func FromConfig(cfg *shared.Config, logger *log.Logger) []Provider {
	if logger == nil {
		logger = shared.NewLogger(nil)
	}

	httpClient := &http.Client{Timeout: cfg.HTTP.Timeout()}
	newClient := func() *Client {
		return NewClient(ClientOpts{HTTPClient: httpClient, RequestsPerSecond: cfg.HTTP.RequestsPerSecond})
	}

	var providers []Provider
	for _, status := range cfg.ProviderStatuses() {
		if !status.Enabled {
			logger.Warn("provider disabled", "provider", status.Name, "reason", status.Reason)
			continue
		}

		switch status.Name {
		case shared.ProviderSeatGeek:
			providers = append(providers, NewSeatGeek(SeatGeekOpts{
				ClientID:     cfg.Providers.SeatGeek.ClientID,
				ClientSecret: cfg.Providers.SeatGeek.ClientSecret,
				Client:       newClient(),
				Logger:       logger,
			}))
		case shared.ProviderBandsintown:
			providers = append(providers, NewBandsintown(BandsintownOpts{
				AppID:  cfg.Providers.Bandsintown.AppID,
				Client: newClient(),
				Logger: logger,
			}))
		case shared.ProviderSongkick:
			providers = append(providers, NewSongkick(SongkickOpts{
				APIKey: cfg.Providers.Songkick.APIKey,
				Client: newClient(),
				Logger: logger,
			}))
		}
		logger.Debug("provider enabled", "provider", status.Name)
	}
	return providers
}
