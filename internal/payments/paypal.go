package payments

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	paypallib "github.com/plutov/paypal/v4"
	"github.com/shopspring/decimal"

	"github.com/acuellar/tiendita-backend/internal/cart"
	"github.com/acuellar/tiendita-backend/pkg/config"
	pkgpaypal "github.com/acuellar/tiendita-backend/pkg/paypal"
)

// PayPalAPI exposes the subset of PayPal operations the provider needs.
type PayPalAPI interface {
	CreateOrder(ctx context.Context, intent string, purchaseUnits []paypallib.PurchaseUnitRequest, paymentSource *paypallib.PaymentSource, appContext *paypallib.ApplicationContext) (*paypallib.Order, error)
	CaptureOrder(ctx context.Context, orderID string, captureRequest paypallib.CaptureOrderRequest) (*paypallib.CaptureOrderResponse, error)
}

type paypalAPIWrapper struct {
	client *paypallib.Client
}

// NewPayPalAPI wraps the initialized PayPal client behind PayPalAPI.
func NewPayPalAPI(client *pkgpaypal.Client) PayPalAPI {
	if client == nil || client.API() == nil {
		return nil
	}
	return &paypalAPIWrapper{client: client.API()}
}

func (w *paypalAPIWrapper) CreateOrder(ctx context.Context, intent string, purchaseUnits []paypallib.PurchaseUnitRequest, paymentSource *paypallib.PaymentSource, appContext *paypallib.ApplicationContext) (*paypallib.Order, error) {
	return w.client.CreateOrder(ctx, intent, purchaseUnits, paymentSource, appContext)
}

func (w *paypalAPIWrapper) CaptureOrder(ctx context.Context, orderID string, captureRequest paypallib.CaptureOrderRequest) (*paypallib.CaptureOrderResponse, error) {
	return w.client.CaptureOrder(ctx, orderID, captureRequest)
}

// PayPalProvider drives payments through PayPal orders with CAPTURE
// intent.
type PayPalProvider struct {
	api      PayPalAPI
	currency string
	baseURL  string
}

// NewPayPalProvider builds the PayPal provider. A nil api means PayPal
// credentials were never configured.
func NewPayPalProvider(api PayPalAPI, cfg config.CheckoutConfig, baseURL string) *PayPalProvider {
	return &PayPalProvider{
		api:      api,
		currency: strings.ToUpper(cfg.PayPalCurrency),
		baseURL:  strings.TrimRight(baseURL, "/"),
	}
}

// Initiate creates a PayPal order carrying the item breakdown in major
// units and returns the approve link.
func (p *PayPalProvider) Initiate(ctx context.Context, items []cart.LineItem, total decimal.Decimal) (*RedirectTarget, error) {
	if p.api == nil {
		return nil, &ConfigurationError{Provider: "paypal", Reason: "missing credentials"}
	}

	ppItems := make([]paypallib.Item, 0, len(items))
	for _, item := range items {
		ppItems = append(ppItems, paypallib.Item{
			Name:     item.Name,
			Quantity: strconv.FormatInt(item.Quantity, 10),
			UnitAmount: &paypallib.Money{
				Currency: p.currency,
				Value:    majorUnits(item.UnitPrice),
			},
		})
	}

	units := []paypallib.PurchaseUnitRequest{{
		Amount: &paypallib.PurchaseUnitAmount{
			Currency: p.currency,
			Value:    majorUnits(total),
			Breakdown: &paypallib.PurchaseUnitAmountBreakdown{
				ItemTotal: &paypallib.Money{
					Currency: p.currency,
					Value:    majorUnits(total),
				},
			},
		},
		Items: ppItems,
	}}

	appContext := &paypallib.ApplicationContext{
		ReturnURL: p.baseURL + "/api/v1/payments/capture?method=paypal",
		CancelURL: p.baseURL + "/checkout",
	}

	order, err := p.api.CreateOrder(ctx, paypallib.OrderIntentCapture, units, nil, appContext)
	if err != nil {
		return nil, fmt.Errorf("paypal: create order: %w", err)
	}

	approveURL := ""
	for _, link := range order.Links {
		if link.Rel == "approve" {
			approveURL = link.Href
			break
		}
	}
	if approveURL == "" {
		return nil, fmt.Errorf("paypal: order %s has no approve link", order.ID)
	}

	return &RedirectTarget{URL: approveURL, CorrelationToken: order.ID}, nil
}

// Capture settles the approved order and extracts payer metadata. PayPal
// captures carry no card digits and no billing address.
func (p *PayPalProvider) Capture(ctx context.Context, token string) (*CaptureResult, error) {
	if p.api == nil {
		return nil, &ConfigurationError{Provider: "paypal", Reason: "missing credentials"}
	}
	if token == "" {
		return nil, &NotCompletedError{Provider: "paypal", Status: "no order in progress"}
	}

	resp, err := p.api.CaptureOrder(ctx, token, paypallib.CaptureOrderRequest{})
	if err != nil {
		return nil, fmt.Errorf("paypal: capture order: %w", err)
	}
	if resp.Status != "COMPLETED" {
		return nil, &NotCompletedError{Provider: "paypal", Status: resp.Status}
	}

	result := &CaptureResult{CardType: "PayPal", Country: "Unknown"}
	if resp.Payer != nil {
		if resp.Payer.Name != nil {
			result.CardholderName = strings.TrimSpace(resp.Payer.Name.GivenName + " " + resp.Payer.Name.Surname)
		}
		if resp.Payer.Address != nil && resp.Payer.Address.CountryCode != "" {
			result.Country = resp.Payer.Address.CountryCode
		}
	}
	return result, nil
}

// majorUnits renders a decimal amount as a 2dp string, the shape the
// PayPal API expects.
func majorUnits(amount decimal.Decimal) string {
	return amount.StringFixed(2)
}
