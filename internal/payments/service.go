package payments

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"
	"time"

	"gorm.io/gorm"

	"github.com/acuellar/tiendita-backend/internal/cart"
	"github.com/acuellar/tiendita-backend/internal/catalog"
	"github.com/acuellar/tiendita-backend/internal/orders"
	"github.com/acuellar/tiendita-backend/pkg/config"
	"github.com/acuellar/tiendita-backend/pkg/db"
	"github.com/acuellar/tiendita-backend/pkg/db/models"
	"github.com/acuellar/tiendita-backend/pkg/enums"
	pkgerrors "github.com/acuellar/tiendita-backend/pkg/errors"
	"github.com/acuellar/tiendita-backend/pkg/logger"
	"github.com/acuellar/tiendita-backend/pkg/metrics"
	"github.com/acuellar/tiendita-backend/pkg/session"
)

type sessionSaver interface {
	Save(ctx context.Context, sess *session.CheckoutSession) error
}

// CaptureOutcome reports the persisted order a successful capture produced.
type CaptureOutcome struct {
	OrderID int64 `json:"order_id"`
}

// Service drives payment initiation and capture across providers.
type Service interface {
	Initiate(ctx context.Context, sess *session.CheckoutSession, method enums.PaymentMethod) (*RedirectTarget, error)
	Capture(ctx context.Context, sess *session.CheckoutSession, method enums.PaymentMethod, token string) (*CaptureOutcome, error)
}

// ServiceParams bundles the capture service dependencies.
type ServiceParams struct {
	DBClient  *db.Client
	Orders    *orders.Repository
	Catalog   *catalog.Repository
	Reader    *cart.Reader
	Sessions  sessionSaver
	Guard     CaptureGuard
	Providers map[enums.PaymentMethod]Provider
	Logger    *logger.Logger
	Metrics   *metrics.CheckoutMetrics
	Checkout  config.CheckoutConfig
}

type service struct {
	dbClient  *db.Client
	orders    *orders.Repository
	catalog   *catalog.Repository
	reader    *cart.Reader
	sessions  sessionSaver
	guard     CaptureGuard
	providers map[enums.PaymentMethod]Provider
	logg      *logger.Logger
	metrics   *metrics.CheckoutMetrics
	guardTTL  time.Duration
}

// NewService constructs the payments service.
func NewService(params ServiceParams) (Service, error) {
	if params.DBClient == nil {
		return nil, fmt.Errorf("db client required")
	}
	if params.Orders == nil {
		return nil, fmt.Errorf("orders repository required")
	}
	if params.Catalog == nil {
		return nil, fmt.Errorf("catalog repository required")
	}
	if params.Reader == nil {
		return nil, fmt.Errorf("cart reader required")
	}
	if params.Sessions == nil {
		return nil, fmt.Errorf("session store required")
	}
	if params.Guard == nil {
		return nil, fmt.Errorf("capture guard required")
	}
	if len(params.Providers) == 0 {
		return nil, fmt.Errorf("at least one payment provider required")
	}
	if params.Logger == nil {
		return nil, fmt.Errorf("logger required")
	}
	guardTTL := params.Checkout.CaptureGuardTTL
	if guardTTL <= 0 {
		guardTTL = 24 * time.Hour
	}
	return &service{
		dbClient:  params.DBClient,
		orders:    params.Orders,
		catalog:   params.Catalog,
		reader:    params.Reader,
		sessions:  params.Sessions,
		guard:     params.Guard,
		providers: params.Providers,
		logg:      params.Logger,
		metrics:   params.Metrics,
		guardTTL:  guardTTL,
	}, nil
}

// Initiate prices the cart, hands it to the provider, and records the
// payable total (and PayPal order id) on the session. The caller's
// session is mutated and saved before the redirect is returned.
func (s *service) Initiate(ctx context.Context, sess *session.CheckoutSession, method enums.PaymentMethod) (*RedirectTarget, error) {
	provider, err := s.providerFor(method)
	if err != nil {
		return nil, err
	}

	if !sess.IsAuthenticated() && !sess.HasGuestInfo() {
		return nil, pkgerrors.New(pkgerrors.CodeStateConflict, "guest details are required before payment")
	}

	items, total, err := s.reader.PriceCart(ctx, sess.Cart)
	if err != nil {
		return nil, err
	}

	target, err := provider.Initiate(ctx, items, total)
	if err != nil {
		s.metrics.IncFailed(method.String())
		return nil, s.paymentError(ctx, method, err, "initiate")
	}

	sess.PaymentTotal = &total
	if method == enums.PaymentMethodPayPal {
		sess.PayPalOrderID = target.CorrelationToken
	}
	if err := s.sessions.Save(ctx, sess); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "session: save after initiate")
	}

	s.metrics.IncInitiated(method.String())
	return target, nil
}

// Capture settles the provider payment and persists the order, its item
// snapshot, and the payment record in one transaction. The session's
// checkout state is cleared only after the transaction commits.
func (s *service) Capture(ctx context.Context, sess *session.CheckoutSession, method enums.PaymentMethod, token string) (*CaptureOutcome, error) {
	provider, err := s.providerFor(method)
	if err != nil {
		return nil, err
	}

	if sess.CartEmpty() {
		return nil, cart.ErrEmptyCart
	}
	if sess.PaymentTotal == nil {
		return nil, pkgerrors.New(pkgerrors.CodeStateConflict, "no payment in progress")
	}
	if !sess.IsAuthenticated() && !sess.HasGuestInfo() {
		return nil, pkgerrors.New(pkgerrors.CodeStateConflict, "guest details are required before payment")
	}

	if method == enums.PaymentMethodPayPal && token == "" {
		token = sess.PayPalOrderID
	}
	if token == "" {
		return nil, pkgerrors.New(pkgerrors.CodeStateConflict, "no payment in progress")
	}

	acquired, err := s.guard.Acquire(ctx, method.String(), token, s.guardTTL)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "redis: acquire capture guard")
	}
	if !acquired {
		return nil, pkgerrors.New(pkgerrors.CodeConflict, "payment already captured")
	}

	outcome, err := s.captureLocked(ctx, sess, provider, method, token)
	if err != nil {
		if releaseErr := s.guard.Release(ctx, method.String(), token); releaseErr != nil {
			s.logg.Warn(ctx, fmt.Sprintf("release capture guard: %v", releaseErr))
		}
		s.metrics.IncFailed(method.String())
		return nil, err
	}

	s.metrics.IncCaptured(method.String())
	return outcome, nil
}

func (s *service) captureLocked(ctx context.Context, sess *session.CheckoutSession, provider Provider, method enums.PaymentMethod, token string) (*CaptureOutcome, error) {
	result, err := provider.Capture(ctx, token)
	if err != nil {
		return nil, s.paymentError(ctx, method, err, "capture")
	}

	address, err := s.resolveAddress(sess, method, result)
	if err != nil {
		return nil, err
	}

	order := &models.Order{
		UserID:      sess.UserID,
		TotalAmount: *sess.PaymentTotal,
		Status:      enums.OrderStatusCompleted,
		Address:     address,
	}
	if !sess.IsAuthenticated() {
		email := sess.GuestEmail
		order.Email = &email
	}
	if sess.GuestPhone != "" {
		phone := sess.GuestPhone
		order.PhoneNumber = &phone
	}

	txErr := s.dbClient.WithTx(ctx, func(tx *gorm.DB) error {
		ordersRepo := s.orders.WithTx(tx)
		catalogRepo := s.catalog.WithTx(tx)

		if _, err := ordersRepo.CreateOrder(ctx, order); err != nil {
			return fmt.Errorf("insert order: %w", err)
		}

		items, err := s.buildOrderItems(ctx, catalogRepo, order.ID, sess.Cart)
		if err != nil {
			return err
		}
		if err := ordersRepo.CreateOrderItems(ctx, items); err != nil {
			return fmt.Errorf("insert order items: %w", err)
		}

		payment := &models.Payment{
			OrderID:        order.ID,
			PaymentMethod:  method,
			CardType:       result.CardType,
			CardholderName: result.CardholderName,
			CardLastFour:   result.LastFour,
			Country:        result.Country,
			Amount:         *sess.PaymentTotal,
			Status:         enums.PaymentStatusCompleted,
		}
		if _, err := ordersRepo.CreatePayment(ctx, payment); err != nil {
			return fmt.Errorf("insert payment: %w", err)
		}
		return nil
	})
	if txErr != nil {
		return nil, s.paymentError(ctx, method, txErr, "persist order")
	}

	sess.ClearCheckoutState()
	ctx = s.logg.WithOrderID(ctx, order.ID)
	if err := s.sessions.Save(ctx, sess); err != nil {
		// the order is committed; a stale session is recoverable
		s.logg.Warn(ctx, fmt.Sprintf("clear session after capture: %v", err))
	}

	s.logg.Info(ctx, fmt.Sprintf("payment captured via %s", method))
	return &CaptureOutcome{OrderID: order.ID}, nil
}

// buildOrderItems snapshots each cart entry at the product's current
// price, read inside the capture transaction. A product that vanished
// from the catalog aborts the whole capture.
func (s *service) buildOrderItems(ctx context.Context, catalogRepo *catalog.Repository, orderID int64, cartMap map[int64]int64) ([]models.OrderItem, error) {
	ids := make([]int64, 0, len(cartMap))
	for id := range cartMap {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })

	rows, err := catalogRepo.FindByIDs(ctx, ids)
	if err != nil {
		return nil, fmt.Errorf("load products: %w", err)
	}
	byID := make(map[int64]*models.Product, len(rows))
	for i := range rows {
		byID[rows[i].ID] = &rows[i]
	}

	items := make([]models.OrderItem, 0, len(ids))
	for _, id := range ids {
		product, ok := byID[id]
		if !ok {
			return nil, fmt.Errorf("product %d no longer exists", id)
		}
		items = append(items, models.OrderItem{
			OrderID:   orderID,
			ProductID: id,
			Quantity:  cartMap[id],
			UnitPrice: product.Price,
		})
	}
	return items, nil
}

// resolveAddress picks the billing address for the order row. Stripe
// captures prefer the provider's billing address; PayPal has none, so
// the guest address is the only source.
func (s *service) resolveAddress(sess *session.CheckoutSession, method enums.PaymentMethod, result *CaptureResult) (string, error) {
	address := sess.GuestAddress
	if method == enums.PaymentMethodStripe && result.Address != nil && strings.TrimSpace(*result.Address) != "" {
		address = *result.Address
	}
	if len(address) > maxAddressLength {
		address = address[:maxAddressLength]
	}
	if len(strings.TrimSpace(address)) < 5 {
		return "", pkgerrors.New(pkgerrors.CodeValidation, "a valid shipping address is required")
	}
	return address, nil
}

func (s *service) providerFor(method enums.PaymentMethod) (Provider, error) {
	provider, ok := s.providers[method]
	if !ok {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "unsupported payment method")
	}
	return provider, nil
}

// paymentError logs the concrete cause and returns the one generic
// payment failure the public API exposes.
func (s *service) paymentError(ctx context.Context, method enums.PaymentMethod, err error, stage string) error {
	var notCompleted *NotCompletedError
	if errors.As(err, &notCompleted) {
		s.logg.Warn(ctx, fmt.Sprintf("%s %s: %s", method, stage, notCompleted.Error()))
	} else {
		s.logg.Error(ctx, fmt.Sprintf("%s %s failed", method, stage), err)
	}
	return pkgerrors.Wrap(pkgerrors.CodePayment, err, fmt.Sprintf("%s %s failed", method, stage))
}
