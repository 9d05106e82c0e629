package payments

import (
	"context"
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
	"github.com/stripe/stripe-go/v84"
	checkoutsession "github.com/stripe/stripe-go/v84/checkout/session"
	"github.com/stripe/stripe-go/v84/paymentintent"
	"github.com/stripe/stripe-go/v84/paymentmethod"

	"github.com/acuellar/tiendita-backend/internal/cart"
	"github.com/acuellar/tiendita-backend/pkg/config"
	pkgstripe "github.com/acuellar/tiendita-backend/pkg/stripe"
)

// maxAddressLength caps the billing address persisted on the order row.
const maxAddressLength = 255

// StripeAPI exposes the subset of Stripe operations the card provider
// needs, so the provider can be tested without network access.
type StripeAPI interface {
	NewCheckoutSession(ctx context.Context, params *stripe.CheckoutSessionParams) (*stripe.CheckoutSession, error)
	GetCheckoutSession(ctx context.Context, id string, params *stripe.CheckoutSessionParams) (*stripe.CheckoutSession, error)
	GetPaymentIntent(ctx context.Context, id string, params *stripe.PaymentIntentParams) (*stripe.PaymentIntent, error)
	GetPaymentMethod(ctx context.Context, id string, params *stripe.PaymentMethodParams) (*stripe.PaymentMethod, error)
}

type stripeAPIWrapper struct{}

// NewStripeAPI wraps the initialized Stripe client behind StripeAPI.
func NewStripeAPI(client *pkgstripe.Client) StripeAPI {
	if client == nil {
		return nil
	}
	return &stripeAPIWrapper{}
}

func (w *stripeAPIWrapper) NewCheckoutSession(ctx context.Context, params *stripe.CheckoutSessionParams) (*stripe.CheckoutSession, error) {
	if params != nil {
		params.Context = ctx
	}
	return checkoutsession.New(params)
}

func (w *stripeAPIWrapper) GetCheckoutSession(ctx context.Context, id string, params *stripe.CheckoutSessionParams) (*stripe.CheckoutSession, error) {
	if params == nil {
		params = &stripe.CheckoutSessionParams{}
	}
	params.Context = ctx
	return checkoutsession.Get(id, params)
}

func (w *stripeAPIWrapper) GetPaymentIntent(ctx context.Context, id string, params *stripe.PaymentIntentParams) (*stripe.PaymentIntent, error) {
	if params == nil {
		params = &stripe.PaymentIntentParams{}
	}
	params.Context = ctx
	return paymentintent.Get(id, params)
}

func (w *stripeAPIWrapper) GetPaymentMethod(ctx context.Context, id string, params *stripe.PaymentMethodParams) (*stripe.PaymentMethod, error) {
	if params == nil {
		params = &stripe.PaymentMethodParams{}
	}
	params.Context = ctx
	return paymentmethod.Get(id, params)
}

// StripeProvider drives card payments through Stripe hosted checkout.
type StripeProvider struct {
	api      StripeAPI
	currency string
	baseURL  string
}

// NewStripeProvider builds the card provider. A nil api means Stripe
// credentials were never configured.
func NewStripeProvider(api StripeAPI, cfg config.CheckoutConfig, baseURL string) *StripeProvider {
	return &StripeProvider{
		api:      api,
		currency: strings.ToLower(cfg.Currency),
		baseURL:  strings.TrimRight(baseURL, "/"),
	}
}

// Initiate creates a hosted checkout session with one line item per
// cart entry, priced in minor units.
func (p *StripeProvider) Initiate(ctx context.Context, items []cart.LineItem, _ decimal.Decimal) (*RedirectTarget, error) {
	if p.api == nil {
		return nil, &ConfigurationError{Provider: "stripe", Reason: "missing credentials"}
	}

	lineItems := make([]*stripe.CheckoutSessionLineItemParams, 0, len(items))
	for _, item := range items {
		lineItems = append(lineItems, &stripe.CheckoutSessionLineItemParams{
			PriceData: &stripe.CheckoutSessionLineItemPriceDataParams{
				Currency:   stripe.String(p.currency),
				UnitAmount: stripe.Int64(toMinorUnits(item.UnitPrice)),
				ProductData: &stripe.CheckoutSessionLineItemPriceDataProductDataParams{
					Name: stripe.String(item.Name),
				},
			},
			Quantity: stripe.Int64(item.Quantity),
		})
	}

	params := &stripe.CheckoutSessionParams{
		Mode:                     stripe.String(string(stripe.CheckoutSessionModePayment)),
		PaymentMethodTypes:       stripe.StringSlice([]string{"card"}),
		BillingAddressCollection: stripe.String(string(stripe.CheckoutSessionBillingAddressCollectionRequired)),
		LineItems:                lineItems,
		SuccessURL:               stripe.String(p.baseURL + "/api/v1/payments/capture?session_id={CHECKOUT_SESSION_ID}&method=stripe"),
		CancelURL:                stripe.String(p.baseURL + "/checkout"),
	}

	sess, err := p.api.NewCheckoutSession(ctx, params)
	if err != nil {
		return nil, fmt.Errorf("stripe: create checkout session: %w", err)
	}

	return &RedirectTarget{URL: sess.URL, CorrelationToken: sess.ID}, nil
}

// Capture verifies the checkout session is paid and extracts the card
// metadata from its payment method.
func (p *StripeProvider) Capture(ctx context.Context, token string) (*CaptureResult, error) {
	if p.api == nil {
		return nil, &ConfigurationError{Provider: "stripe", Reason: "missing credentials"}
	}

	sess, err := p.api.GetCheckoutSession(ctx, token, nil)
	if err != nil {
		return nil, fmt.Errorf("stripe: retrieve checkout session: %w", err)
	}
	if sess.PaymentStatus != stripe.CheckoutSessionPaymentStatusPaid {
		return nil, &NotCompletedError{Provider: "stripe", Status: string(sess.PaymentStatus)}
	}
	if sess.PaymentIntent == nil {
		return nil, fmt.Errorf("stripe: checkout session %s has no payment intent", token)
	}

	intent, err := p.api.GetPaymentIntent(ctx, sess.PaymentIntent.ID, nil)
	if err != nil {
		return nil, fmt.Errorf("stripe: retrieve payment intent: %w", err)
	}
	if intent.PaymentMethod == nil {
		return nil, fmt.Errorf("stripe: payment intent %s has no payment method", intent.ID)
	}

	method, err := p.api.GetPaymentMethod(ctx, intent.PaymentMethod.ID, nil)
	if err != nil {
		return nil, fmt.Errorf("stripe: retrieve payment method: %w", err)
	}

	result := &CaptureResult{CardType: "card"}
	if method.Card != nil {
		result.CardType = string(method.Card.Brand)
		lastFour := method.Card.Last4
		result.LastFour = &lastFour
		result.Country = method.Card.Country
	}
	if method.BillingDetails != nil {
		result.CardholderName = method.BillingDetails.Name
		if addr := joinAddress(method.BillingDetails.Address); addr != "" {
			result.Address = &addr
		}
		if method.BillingDetails.Address != nil && method.BillingDetails.Address.Country != "" {
			result.Country = method.BillingDetails.Address.Country
		}
	}
	return result, nil
}

// toMinorUnits converts a major-unit decimal amount to integer minor
// units, e.g. 4.50 EUR to 450 cents.
func toMinorUnits(amount decimal.Decimal) int64 {
	return amount.Shift(2).Round(0).IntPart()
}

// joinAddress flattens the Stripe address components into a single
// comma-joined line, truncated to the order column width.
func joinAddress(addr *stripe.Address) string {
	if addr == nil {
		return ""
	}
	parts := make([]string, 0, 6)
	for _, part := range []string{addr.Line1, addr.Line2, addr.City, addr.State, addr.PostalCode, addr.Country} {
		if strings.TrimSpace(part) != "" {
			parts = append(parts, strings.TrimSpace(part))
		}
	}
	joined := strings.Join(parts, ", ")
	if len(joined) > maxAddressLength {
		joined = joined[:maxAddressLength]
	}
	return joined
}
