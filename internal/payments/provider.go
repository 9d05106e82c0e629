package payments

import (
	"context"
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/acuellar/tiendita-backend/internal/cart"
)

// RedirectTarget is where the shopper goes to approve a payment, plus
// the provider-side identifier the capture step correlates on.
type RedirectTarget struct {
	URL              string `json:"url"`
	CorrelationToken string `json:"-"`
}

// CaptureResult carries the provider's settlement metadata. LastFour and
// Address are only populated by card providers.
type CaptureResult struct {
	CardType       string
	CardholderName string
	LastFour       *string
	Country        string
	Address        *string
}

// Provider is one hosted payment integration.
type Provider interface {
	// Initiate creates the provider-side payment for the given line
	// items and returns the approval redirect.
	Initiate(ctx context.Context, items []cart.LineItem, total decimal.Decimal) (*RedirectTarget, error)
	// Capture settles the payment identified by the correlation token.
	Capture(ctx context.Context, token string) (*CaptureResult, error)
}

// NotCompletedError reports a capture attempt against a payment the
// provider does not consider settled yet.
type NotCompletedError struct {
	Provider string
	Status   string
}

func (e *NotCompletedError) Error() string {
	return fmt.Sprintf("%s payment not completed (status %q)", e.Provider, e.Status)
}

// ConfigurationError reports an unusable provider setup, such as
// missing credentials. It is fatal for the request, not retryable.
type ConfigurationError struct {
	Provider string
	Reason   string
}

func (e *ConfigurationError) Error() string {
	return fmt.Sprintf("%s provider not configured: %s", e.Provider, e.Reason)
}
