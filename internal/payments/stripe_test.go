package payments

import (
	"context"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/stripe/stripe-go/v84"

	"github.com/acuellar/tiendita-backend/internal/cart"
	"github.com/acuellar/tiendita-backend/pkg/config"
)

type fakeStripeAPI struct {
	createdParams *stripe.CheckoutSessionParams
	session       *stripe.CheckoutSession
	intent        *stripe.PaymentIntent
	method        *stripe.PaymentMethod
	err           error
}

func (f *fakeStripeAPI) NewCheckoutSession(_ context.Context, params *stripe.CheckoutSessionParams) (*stripe.CheckoutSession, error) {
	f.createdParams = params
	return f.session, f.err
}

func (f *fakeStripeAPI) GetCheckoutSession(_ context.Context, _ string, _ *stripe.CheckoutSessionParams) (*stripe.CheckoutSession, error) {
	return f.session, f.err
}

func (f *fakeStripeAPI) GetPaymentIntent(_ context.Context, _ string, _ *stripe.PaymentIntentParams) (*stripe.PaymentIntent, error) {
	return f.intent, f.err
}

func (f *fakeStripeAPI) GetPaymentMethod(_ context.Context, _ string, _ *stripe.PaymentMethodParams) (*stripe.PaymentMethod, error) {
	return f.method, f.err
}

func testLineItems() ([]cart.LineItem, decimal.Decimal) {
	items := []cart.LineItem{
		{ProductID: 1, Name: "Green Tea", UnitPrice: decimal.RequireFromString("4.50"), Quantity: 2, Subtotal: decimal.RequireFromString("9.00")},
		{ProductID: 2, Name: "Matcha", UnitPrice: decimal.RequireFromString("8.00"), Quantity: 2, Subtotal: decimal.RequireFromString("16.00")},
	}
	return items, decimal.RequireFromString("25.00")
}

func TestStripeInitiateBuildsMinorUnitLineItems(t *testing.T) {
	api := &fakeStripeAPI{session: &stripe.CheckoutSession{ID: "cs_123", URL: "https://checkout.stripe.com/pay/cs_123"}}
	provider := NewStripeProvider(api, config.CheckoutConfig{Currency: "eur"}, "https://shop.example.com/")

	items, total := testLineItems()
	target, err := provider.Initiate(context.Background(), items, total)
	require.NoError(t, err)
	assert.Equal(t, "cs_123", target.CorrelationToken)
	assert.Equal(t, "https://checkout.stripe.com/pay/cs_123", target.URL)

	params := api.createdParams
	require.NotNil(t, params)
	require.Len(t, params.LineItems, 2)
	assert.Equal(t, int64(450), *params.LineItems[0].PriceData.UnitAmount)
	assert.Equal(t, "eur", *params.LineItems[0].PriceData.Currency)
	assert.Equal(t, int64(2), *params.LineItems[0].Quantity)
	assert.Equal(t, "required", *params.BillingAddressCollection)
	assert.Contains(t, *params.SuccessURL, "session_id={CHECKOUT_SESSION_ID}&method=stripe")
}

func TestStripeInitiateWithoutCredentials(t *testing.T) {
	provider := NewStripeProvider(nil, config.CheckoutConfig{Currency: "eur"}, "https://shop.example.com")

	items, total := testLineItems()
	_, err := provider.Initiate(context.Background(), items, total)
	var cfgErr *ConfigurationError
	require.ErrorAs(t, err, &cfgErr)
	assert.Equal(t, "stripe", cfgErr.Provider)
}

func TestStripeCaptureUnpaidSession(t *testing.T) {
	api := &fakeStripeAPI{session: &stripe.CheckoutSession{ID: "cs_123", PaymentStatus: stripe.CheckoutSessionPaymentStatusUnpaid}}
	provider := NewStripeProvider(api, config.CheckoutConfig{Currency: "eur"}, "https://shop.example.com")

	_, err := provider.Capture(context.Background(), "cs_123")
	var notCompleted *NotCompletedError
	require.ErrorAs(t, err, &notCompleted)
	assert.Equal(t, "unpaid", notCompleted.Status)
}

func TestStripeCaptureExtractsCardMetadata(t *testing.T) {
	api := &fakeStripeAPI{
		session: &stripe.CheckoutSession{
			ID:            "cs_123",
			PaymentStatus: stripe.CheckoutSessionPaymentStatusPaid,
			PaymentIntent: &stripe.PaymentIntent{ID: "pi_1"},
		},
		intent: &stripe.PaymentIntent{
			ID:            "pi_1",
			PaymentMethod: &stripe.PaymentMethod{ID: "pm_1"},
		},
		method: &stripe.PaymentMethod{
			ID:   "pm_1",
			Card: &stripe.PaymentMethodCard{Brand: stripe.PaymentMethodCardBrandVisa, Last4: "4242", Country: "US"},
			BillingDetails: &stripe.PaymentMethodBillingDetails{
				Name: "Jane Shopper",
				Address: &stripe.Address{
					Line1:      "221B Baker St",
					City:       "London",
					PostalCode: "NW1 6XE",
					Country:    "GB",
				},
			},
		},
	}
	provider := NewStripeProvider(api, config.CheckoutConfig{Currency: "eur"}, "https://shop.example.com")

	result, err := provider.Capture(context.Background(), "cs_123")
	require.NoError(t, err)
	assert.Equal(t, "visa", result.CardType)
	assert.Equal(t, "Jane Shopper", result.CardholderName)
	require.NotNil(t, result.LastFour)
	assert.Equal(t, "4242", *result.LastFour)
	assert.Equal(t, "GB", result.Country)
	require.NotNil(t, result.Address)
	assert.Equal(t, "221B Baker St, London, NW1 6XE, GB", *result.Address)
}

func TestJoinAddressTruncates(t *testing.T) {
	long := make([]byte, 300)
	for i := range long {
		long[i] = 'a'
	}
	joined := joinAddress(&stripe.Address{Line1: string(long)})
	assert.Len(t, joined, maxAddressLength)
}
