package session

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/acuellar/tiendita-backend/pkg/config"
	pkgerrors "github.com/acuellar/tiendita-backend/pkg/errors"
	redisclient "github.com/acuellar/tiendita-backend/pkg/redis"
)

// CheckoutSession is the typed per-visitor state that drives the checkout
// flow. It replaces an untyped session bag: every field the flow needs is
// declared here and nothing else is stored.
type CheckoutSession struct {
	Token         string           `json:"-"`
	Cart          map[int64]int64  `json:"cart,omitempty"`
	GuestEmail    string           `json:"guest_email,omitempty"`
	GuestAddress  string           `json:"guest_address,omitempty"`
	GuestPhone    string           `json:"guest_phone_number,omitempty"`
	PaymentTotal  *decimal.Decimal `json:"payment_total,omitempty"`
	PayPalOrderID string           `json:"paypal_order_id,omitempty"`
	UserID        *int64           `json:"user_id,omitempty"`
}

// HasGuestInfo reports whether all three guest checkout fields are present.
func (s *CheckoutSession) HasGuestInfo() bool {
	return s.GuestEmail != "" && s.GuestAddress != "" && s.GuestPhone != ""
}

// IsAuthenticated reports whether a signed-in user owns the session.
func (s *CheckoutSession) IsAuthenticated() bool {
	return s.UserID != nil
}

// CartEmpty reports whether the cart mapping has no entries.
func (s *CheckoutSession) CartEmpty() bool {
	return len(s.Cart) == 0
}

// ClearCheckoutState drops the cart, payment total, provider correlation
// token, and guest fields. The user binding survives so an authenticated
// shopper stays signed in after an order completes.
func (s *CheckoutSession) ClearCheckoutState() {
	s.Cart = nil
	s.PaymentTotal = nil
	s.PayPalOrderID = ""
	s.GuestEmail = ""
	s.GuestAddress = ""
	s.GuestPhone = ""
}

type sessionStore interface {
	Set(ctx context.Context, key string, value any, ttl time.Duration) error
	Get(ctx context.Context, key string) (string, error)
	Del(ctx context.Context, keys ...string) error
}

type sessionKeyer interface {
	SessionKey(token string) string
}

// Store persists checkout sessions in Redis with a sliding TTL. Writes are
// last-writer-wins; there is no versioning.
type Store struct {
	store sessionStore
	keyer sessionKeyer
	ttl   time.Duration
}

// NewStore constructs a session store backed by Redis.
func NewStore(client *redisclient.Client, cfg config.SessionConfig) (*Store, error) {
	if client == nil {
		return nil, fmt.Errorf("redis client is required")
	}
	ttl := cfg.TTL
	if ttl <= 0 {
		return nil, fmt.Errorf("session ttl must be positive")
	}
	return &Store{store: client, keyer: client, ttl: ttl}, nil
}

// NewToken mints an opaque session token.
func NewToken() string {
	return uuid.NewString()
}

// Load fetches the session for the given token. A missing or expired token
// yields a fresh empty session under the same token.
func (st *Store) Load(ctx context.Context, token string) (*CheckoutSession, error) {
	token = strings.TrimSpace(token)
	if token == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "session token required")
	}

	raw, err := st.store.Get(ctx, st.keyer.SessionKey(token))
	if err != nil {
		if redisclient.IsNil(err) {
			return &CheckoutSession{Token: token, Cart: map[int64]int64{}}, nil
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load session")
	}

	sess := &CheckoutSession{}
	if err := json.Unmarshal([]byte(raw), sess); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "decode session")
	}
	if sess.Cart == nil {
		sess.Cart = map[int64]int64{}
	}
	sess.Token = token
	return sess, nil
}

// Save writes the session back and refreshes its TTL.
func (st *Store) Save(ctx context.Context, sess *CheckoutSession) error {
	if sess == nil || strings.TrimSpace(sess.Token) == "" {
		return pkgerrors.New(pkgerrors.CodeInternal, "session token missing")
	}
	payload, err := json.Marshal(sess)
	if err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "encode session")
	}
	if err := st.store.Set(ctx, st.keyer.SessionKey(sess.Token), string(payload), st.ttl); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "save session")
	}
	return nil
}

// Delete removes the session entirely.
func (st *Store) Delete(ctx context.Context, token string) error {
	token = strings.TrimSpace(token)
	if token == "" {
		return nil
	}
	if err := st.store.Del(ctx, st.keyer.SessionKey(token)); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "delete session")
	}
	return nil
}
