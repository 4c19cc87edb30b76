package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"time"

	"github.com/bmckenna/saylist/internal/server"
	"github.com/bmckenna/saylist/internal/services"
	"github.com/bmckenna/saylist/internal/shared"
	"github.com/urfave/cli/v3"
	"golang.org/x/oauth2"
)

// Auth performs the OAuth2 authorization flow for Spotify.
//
// Starts a local HTTP server, opens the browser for user authorization, and exchanges the auth code for tokens.
func (r *Runner) Auth(ctx context.Context, cmd *cli.Command) error {
	configPath := cmd.String("config")

	config, err := r.loadConfig(configPath)
	if err != nil {
		return err
	}

	if config.Credentials.Spotify.ClientID == "" || config.Credentials.Spotify.ClientSecret == "" {
		return fmt.Errorf("%w: Spotify client_id and client_secret must be set in %s", shared.ErrMissingCredentials, configPath)
	}

	spotifyService, err := services.NewSpotifyService(config.Credentials.Spotify.Map())
	if err != nil {
		return fmt.Errorf("failed to create Spotify service: %w", err)
	}

	token, err := r.doOAuth(config, spotifyService, "authorization")
	if err != nil {
		return err
	}

	if err := config.Credentials.Spotify.Update(token); err != nil {
		return fmt.Errorf("failed to update spotify configuration: %w", err)
	}

	if err := shared.SaveConfig(configPath, config); err != nil {
		return fmt.Errorf("failed to save config: %w", err)
	}

	if err := spotifyService.OAuthenticate(ctx, token); err != nil {
		return fmt.Errorf("%w: %v", shared.ErrAuthFailed, err)
	}
	r.catalog = spotifyService
	r.config = config

	r.writePlainln("✓ Authorization successful")
	r.writePlain("✓ Tokens saved to %s\n\n", configPath)
	r.writePlain("You can now use: saylist generate \"your sentence here\"\n")

	return nil
}

// AuthStatus reports whether a usable credential is installed.
func (r *Runner) AuthStatus(ctx context.Context, cmd *cli.Command) error {
	if r.catalog == nil || !r.catalog.Authenticated() {
		r.writePlain("Authentication: ✗ Not authenticated\n")
		r.writePlain("Run `saylist auth` to authorize with Spotify.\n")
		return nil
	}

	user, err := r.catalog.CurrentUser(ctx)
	if err != nil {
		if errors.Is(err, shared.ErrTokenExpired) {
			r.writePlain("Authentication: ⚠ Token expired, run `saylist auth`\n")
			return nil
		}
		return fmt.Errorf("%w: %v", shared.ErrAPIRequest, err)
	}

	r.writePlain("Authentication: ✓ Authenticated\n")
	if user.DisplayName != "" {
		r.writePlain("User: %s (%s)\n", user.DisplayName, user.ID)
	} else {
		r.writePlain("User: %s\n", user.ID)
	}
	return nil
}

// Reauth performs the full OAuth2 flow to replace expired tokens.
func (r *Runner) Reauth(ctx context.Context, configPath string, config *shared.Config, srv services.OAuthService) (*shared.Config, error) {
	token, err := r.doOAuth(config, srv, "reauthorization")
	if err != nil {
		return nil, err
	}

	if err := config.Credentials.Spotify.Update(token); err != nil {
		return nil, fmt.Errorf("failed to update spotify configuration: %w", err)
	}

	if err := shared.SaveConfig(configPath, config); err != nil {
		return nil, fmt.Errorf("failed to save config: %w", err)
	}

	r.writePlainln("✓ Reauthorization successful")
	r.writePlain("✓ New tokens saved to %s\n", configPath)

	return config, nil
}

// loadConfig reads the config at path, falling back to the runner's config or defaults.
func (r *Runner) loadConfig(configPath string) (*shared.Config, error) {
	if r.config != nil {
		return r.config, nil
	}

	if _, err := os.Stat(configPath); err == nil {
		config, err := shared.LoadConfig(configPath)
		if err != nil {
			r.logger.Warnf("failed to load config, using defaults %v", err)
			return shared.DefaultConfig(), nil
		}
		return config, nil
	}

	return shared.DefaultConfig(), nil
}

// doOAuth executes the OAuth2 authorization flow with a local HTTP server
func (r *Runner) doOAuth(config *shared.Config, oauthSrv services.OAuthService, prefix string) (*oauth2.Token, error) {
	state, err := shared.GenerateState()
	if err != nil {
		return nil, fmt.Errorf("failed to generate state token: %w", err)
	}

	authURL := oauthSrv.GetAuthURL(state)
	oauthHandler := server.NewOAuthHandler(oauthSrv.GetOAuthConfig(), state)
	router := server.NewBasicRouter()
	router.Use(server.Logging(r.logger))
	router.Handler(oauthHandler)

	serverAddr := fmt.Sprintf("%s:%d", config.Server.Host, config.Server.Port)
	httpServer := &http.Server{
		Addr:    serverAddr,
		Handler: router,
	}

	serverErrors := make(chan error, 1)
	go func() {
		r.logger.Infof("starting OAuth server for %s at %v", prefix, serverAddr)
		if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			serverErrors <- err
		}
	}()

	time.Sleep(100 * time.Millisecond)

	r.writePlain("→ Opening browser for Spotify %s...\n", prefix)
	if err := shared.OpenBrowser(authURL); err != nil {
		r.logger.Warnf("failed to open browser automatically %v", err)
		r.writePlainln("⚠ Could not open browser automatically.")
		r.writePlain("Please open this URL in your browser:\n%s\n\n", authURL)
	}

	r.writePlain("→ Waiting for authorization (2 minute timeout)...\n")

	timeout := time.NewTimer(2 * time.Minute)
	defer timeout.Stop()

	var result server.OAuthResult

	select {
	case result = <-oauthHandler.Result():
		// Got result from callback
	case err := <-serverErrors:
		return nil, fmt.Errorf("server error: %w", err)
	case <-timeout.C:
		return nil, fmt.Errorf("%w: authorization timed out after 2 minutes", shared.ErrTimeout)
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		r.logger.Warn("error shutting down server", "error", err)
	}

	if result.Error() != nil {
		return nil, fmt.Errorf("%w: %v", shared.ErrAuthFailed, result.Error())
	}

	if result.Token == nil {
		return nil, fmt.Errorf("%w: no token received", shared.ErrAuthFailed)
	}

	return result.Token, nil
}

// handleAuthError checks if an error is a token expiration error and triggers reauthorization if needed.
func (r *Runner) handleAuthError(ctx context.Context, err error, cmd *cli.Command) (bool, error) {
	if err == nil {
		return false, nil
	}

	if !errors.Is(err, shared.ErrTokenExpired) {
		return false, err
	}

	r.writePlainln("⚠ Authentication token expired. Starting reauthorization...\n")

	configPath := cmd.String("config")
	if configPath == "" {
		configPath = "config.toml"
	}

	config, loadErr := r.loadConfig(configPath)
	if loadErr != nil {
		return true, loadErr
	}

	oauthSrv, ok := r.catalog.(services.OAuthService)
	if !ok {
		return true, fmt.Errorf("catalog does not support reauthorization")
	}

	updatedConfig, reauthErr := r.Reauth(ctx, configPath, config, oauthSrv)
	if reauthErr != nil {
		return true, fmt.Errorf("reauthorization failed: %w", reauthErr)
	}

	if authErr := oauthSrv.OAuthenticate(ctx, updatedConfig.Credentials.Spotify.Token()); authErr != nil {
		return true, fmt.Errorf("failed to authenticate with new tokens: %w", authErr)
	}

	r.config = updatedConfig
	r.writePlainln("✓ Successfully reauthenticated. Retrying operation...\n")

	return true, nil
}
