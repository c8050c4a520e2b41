package userclient

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"time"

	"svc-wallet/config"

	"github.com/rs/zerolog"
)

// Client verifies user existence against the users service. It implements
// ports.UserVerifier and fails closed: any transport error, timeout, or
// non-200 response is reported as "user does not exist".
type Client struct {
	baseURL       string
	http          *http.Client
	healthTimeout time.Duration
	log           zerolog.Logger
}

// New creates a users-service client from config.
func New(cfg config.UsersConfig, log zerolog.Logger) *Client {
	return &Client{
		baseURL:       cfg.BaseURL,
		http:          &http.Client{Timeout: cfg.Timeout},
		healthTimeout: cfg.HealthTimeout,
		log:           log.With().Str("component", "userclient").Logger(),
	}
}

// Exists reports whether the user is known to the users service.
func (c *Client) Exists(ctx context.Context, userID string) bool {
	endpoint := fmt.Sprintf("%s/users/%s", c.baseURL, url.PathEscape(userID))

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		c.log.Error().Err(err).Str("user_id", userID).Msg("Failed to build user lookup request")
		return false
	}

	resp, err := c.http.Do(req)
	if err != nil {
		c.log.Warn().Err(err).Str("user_id", userID).Msg("User lookup failed, treating user as unknown")
		return false
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		c.log.Debug().Int("status", resp.StatusCode).Str("user_id", userID).Msg("User lookup returned non-200")
		return false
	}
	return true
}

// Ping checks the users service health endpoint. Used by the readiness probe.
func (c *Client) Ping(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, c.healthTimeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/health", nil)
	if err != nil {
		return fmt.Errorf("build users health request: %w", err)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("users service unreachable: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("users service unhealthy: status %d", resp.StatusCode)
	}
	return nil
}

// Name identifies this dependency in health reports.
func (c *Client) Name() string {
	return "svc-users"
}
