package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/desertthunder/gigx/internal/server"
	"github.com/desertthunder/gigx/internal/services"
	"github.com/desertthunder/gigx/internal/shared"
	"github.com/urfave/cli/v3"
	"golang.org/x/oauth2"
)

const authTimeout = 2 * time.Minute

// authenticator is implemented by sources that accept a replacement token.
type authenticator interface {
	Authenticate(ctx context.Context, token *oauth2.Token) error
}

// AuthSpotify performs the OAuth2 authorization flow for Spotify and stores the token.
func (r *Runner) AuthSpotify(ctx context.Context, cmd *cli.Command) error {
	config, err := r.loadConfig(cmd)
	if err != nil {
		return err
	}
	if err := r.openStore(config); err != nil {
		return err
	}

	spotify, err := r.newSpotify(config)
	if err != nil {
		return err
	}

	if err := r.authorize(ctx, config, spotify, "authorization"); err != nil {
		return err
	}

	r.writePlain("\nYou can now run: gigx\n")
	return nil
}

// AuthGoogle performs the OAuth2 authorization flow for Google Calendar and stores the token.
func (r *Runner) AuthGoogle(ctx context.Context, cmd *cli.Command) error {
	config, err := r.loadConfig(cmd)
	if err != nil {
		return err
	}
	if err := r.openStore(config); err != nil {
		return err
	}

	google, err := r.newGoogleOAuth(config)
	if err != nil {
		return err
	}

	return r.authorize(ctx, config, google, "authorization")
}

// AuthStatus reports which services have a stored token.
func (r *Runner) AuthStatus(ctx context.Context, cmd *cli.Command) error {
	config, err := r.loadConfig(cmd)
	if err != nil {
		return err
	}
	if err := r.openStore(config); err != nil {
		return err
	}

	r.writePlainHeader("Authentication")
	for _, service := range []string{"Spotify", "Google"} {
		token, err := r.tokens.Get(service)
		switch {
		case errors.Is(err, shared.ErrNotFound):
			r.writePlain("✗ %s: not authenticated (run 'gigx auth %s')\n", service, authCommandName(service))
		case err != nil:
			return err
		case !token.Expiry.IsZero() && token.Expiry.Before(r.now()) && token.RefreshToken == "":
			r.writePlain("⚠ %s: token expired\n", service)
		default:
			r.writePlain("✓ %s: authenticated\n", service)
		}
	}
	return nil
}

func authCommandName(service string) string {
	if service == "Google" {
		return "google"
	}
	return "spotify"
}

// authorize runs the browser flow for srv and saves the resulting token.
func (r *Runner) authorize(ctx context.Context, config *shared.Config, srv services.OAuthService, prefix string) error {
	token, err := r.doOAuth(ctx, config, srv, prefix)
	if err != nil {
		return err
	}

	if err := r.tokens.Save(srv.Name(), token); err != nil {
		return fmt.Errorf("failed to save %s token: %w", srv.Name(), err)
	}

	r.writePlainln("✓ %s %s successful", srv.Name(), prefix)
	r.writePlain("✓ Token saved to %s\n", config.Database.Path)
	return nil
}

// storedToken returns the saved token for srv, running the browser flow when there is none.
func (r *Runner) storedToken(ctx context.Context, config *shared.Config, srv services.OAuthService) (*oauth2.Token, error) {
	token, err := r.tokens.Get(srv.Name())
	if err == nil {
		return token, nil
	}
	if !errors.Is(err, shared.ErrNotFound) {
		return nil, err
	}

	r.writePlain("⚠ No %s token found. Starting authorization...\n", srv.Name())
	if err := r.authorize(ctx, config, srv, "authorization"); err != nil {
		return nil, err
	}
	return r.tokens.Get(srv.Name())
}

// tokenSaver persists refreshed tokens for service.
func (r *Runner) tokenSaver(service string) func(*oauth2.Token) {
	return func(token *oauth2.Token) {
		if err := r.tokens.Save(service, token); err != nil {
			r.logger.Warn("failed to persist refreshed token", "service", service, "error", err)
			return
		}
		r.logger.Debug("refreshed token saved", "service", service)
	}
}

func (r *Runner) newSpotify(config *shared.Config) (*services.SpotifyService, error) {
	if !config.Credentials.Spotify.Configured() {
		return nil, fmt.Errorf("%w: Spotify client_id and client_secret must be set in %s", shared.ErrMissingCredentials, r.configPath)
	}

	spotify, err := services.NewSpotifyService(config.Credentials.Spotify.Map())
	if err != nil {
		return nil, fmt.Errorf("failed to create Spotify service: %w", err)
	}
	return spotify, nil
}

func (r *Runner) newGoogleOAuth(config *shared.Config) (*services.GoogleOAuth, error) {
	path := config.Credentials.Google.CredentialsFile
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("%w: cannot read Google credentials file %q: %v", shared.ErrMissingCredentials, path, err)
	}
	return services.NewGoogleOAuth(data, callbackURL(config))
}

func callbackURL(config *shared.Config) string {
	return fmt.Sprintf("http://%s:%d/callback", config.Server.Host, config.Server.Port)
}

// doOAuth executes the OAuth2 authorization flow with a local HTTP server
func (r *Runner) doOAuth(ctx context.Context, config *shared.Config, oauthSrv services.OAuthService, prefix string) (*oauth2.Token, error) {
	state, err := shared.GenerateState()
	if err != nil {
		return nil, fmt.Errorf("failed to generate state token: %w", err)
	}

	authURL := oauthSrv.GetAuthURL(state)
	oauthHandler := server.NewOAuthHandler(oauthSrv, oauthSrv.Name(), state)
	router := server.NewBasicRouter()
	router.Use(server.RequestLogger(r.logger))
	router.Handler(oauthHandler)

	serverAddr := fmt.Sprintf("%s:%d", config.Server.Host, config.Server.Port)
	r.logger.Infof("starting OAuth server for %s %s at %v", oauthSrv.Name(), prefix, serverAddr)

	callbackServer, err := server.Start(serverAddr, router, r.logger)
	if err != nil {
		return nil, err
	}
	defer callbackServer.Shutdown()

	r.writePlain("→ Opening browser for %s %s...\n", oauthSrv.Name(), prefix)
	if err := r.openBrowser(authURL); err != nil {
		r.logger.Warnf("failed to open browser automatically %v", err)
		r.writePlainln("⚠ Could not open browser automatically.")
		r.writePlain("Please open this URL in your browser:\n%s\n\n", authURL)
	}

	r.writePlain("→ Waiting for authorization (2 minute timeout)...\n")

	timeout := time.NewTimer(authTimeout)
	defer timeout.Stop()

	var result server.OAuthResult

	select {
	case result = <-oauthHandler.Result():
	case err, ok := <-callbackServer.Errors():
		if !ok {
			return nil, fmt.Errorf("%w: callback server stopped", shared.ErrServiceUnavailable)
		}
		return nil, fmt.Errorf("server error: %w", err)
	case <-timeout.C:
		return nil, fmt.Errorf("%w: authorization timed out after 2 minutes", shared.ErrTimeout)
	case <-ctx.Done():
		return nil, fmt.Errorf("%w: %v", shared.ErrCancelled, ctx.Err())
	}

	if result.Error() != nil {
		return nil, fmt.Errorf("authorization failed: %w", result.Error())
	}

	if result.Token == nil {
		return nil, fmt.Errorf("%w: no token received", shared.ErrAuthFailed)
	}

	return result.Token, nil
}

// handleAuthError checks if an error is a token expiration error and triggers reauthorization if needed.
func (r *Runner) handleAuthError(ctx context.Context, err error, config *shared.Config, srv services.OAuthService) (bool, error) {
	if err == nil {
		return false, nil
	}

	if !errors.Is(err, shared.ErrTokenExpired) {
		return false, err
	}

	auth, ok := srv.(authenticator)
	if !ok {
		return true, fmt.Errorf("%s does not support reauthorization", srv.Name())
	}

	r.writePlainln("⚠ Authentication token expired. Starting reauthorization...\n")

	if err := r.tokens.Delete(srv.Name()); err != nil && !errors.Is(err, shared.ErrNotFound) {
		return true, err
	}
	if err := r.authorize(ctx, config, srv, "reauthorization"); err != nil {
		return true, fmt.Errorf("reauthorization failed: %w", err)
	}

	token, err := r.tokens.Get(srv.Name())
	if err != nil {
		return true, err
	}
	if authErr := auth.Authenticate(ctx, token); authErr != nil {
		return true, fmt.Errorf("failed to authenticate with new tokens: %w", authErr)
	}

	r.writePlainln("✓ Successfully reauthenticated. Retrying...\n")
	return true, nil
}

// authCommand handles authentication operations
func authCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "auth",
		Usage: "Manage authentication",
		Commands: []*cli.Command{
			{
				Name:   "spotify",
				Usage:  "Authenticate with Spotify using OAuth2",
				Action: r.AuthSpotify,
			},
			{
				Name:    "google",
				Aliases: []string{"calendar"},
				Usage:   "Authenticate with Google Calendar using OAuth2",
				Action:  r.AuthGoogle,
			},
			{
				Name:   "status",
				Usage:  "Show which services have a stored token",
				Action: r.AuthStatus,
			},
		},
	}
}
