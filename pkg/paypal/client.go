package paypal

import (
	"context"
	"errors"
	"fmt"
	"strings"

	paypallib "github.com/plutov/paypal/v4"

	"github.com/acuellar/tiendita-backend/pkg/config"
	"github.com/acuellar/tiendita-backend/pkg/logger"
)

const (
	sandboxEnv = "sandbox"
	liveEnv    = "live"
)

var (
	errCredentialsRequired = errors.New("paypal client id and secret are required")
	errInvalidPayPalEnv    = fmt.Errorf("paypal environment must be %q or %q", sandboxEnv, liveEnv)
)

// Client wraps the PayPal REST client plus env metadata.
type Client struct {
	api         *paypallib.Client
	environment string
}

// NewClient builds a PayPal client against the configured environment.
func NewClient(ctx context.Context, cfg config.PayPalConfig, logg *logger.Logger) (*Client, error) {
	env, err := normalizeEnv(cfg.Environment())
	if err != nil {
		return nil, err
	}

	clientID := strings.TrimSpace(cfg.ClientID)
	secret := strings.TrimSpace(cfg.Secret)
	if clientID == "" || secret == "" {
		return nil, errCredentialsRequired
	}

	base := paypallib.APIBaseSandBox
	if env == liveEnv {
		base = paypallib.APIBaseLive
	}

	api, err := paypallib.NewClient(clientID, secret, base)
	if err != nil {
		return nil, fmt.Errorf("creating paypal client: %w", err)
	}

	if logg != nil {
		logg.Info(ctx, fmt.Sprintf("paypal client initialized (%s)", env))
	}

	return &Client{api: api, environment: env}, nil
}

// API returns the underlying PayPal REST client.
func (c *Client) API() *paypallib.Client {
	if c == nil {
		return nil
	}
	return c.api
}

// Environment reports the normalized PayPal environment in use.
func (c *Client) Environment() string {
	if c == nil {
		return ""
	}
	return c.environment
}

func normalizeEnv(raw string) (string, error) {
	env := strings.TrimSpace(strings.ToLower(raw))
	if env == "" {
		env = sandboxEnv
	}
	switch env {
	case sandboxEnv, liveEnv:
		return env, nil
	default:
		return "", errInvalidPayPalEnv
	}
}
