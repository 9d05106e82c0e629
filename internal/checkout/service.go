package checkout

import (
	"context"
	"fmt"
	"regexp"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/acuellar/tiendita-backend/internal/cart"
	"github.com/acuellar/tiendita-backend/pkg/enums"
	pkgerrors "github.com/acuellar/tiendita-backend/pkg/errors"
	"github.com/acuellar/tiendita-backend/pkg/session"
)

// MinAddressLength is the shortest accepted shipping address after trimming.
const MinAddressLength = 5

var (
	emailRe = regexp.MustCompile(`^[^@\s]+@[^@\s]+\.[^@\s]+$`)
	phoneRe = regexp.MustCompile(`^[\d\s\-\+\(\)]{7,20}$`)
)

// GuestInfoInput carries the three guest checkout fields.
type GuestInfoInput struct {
	Email       string `json:"email"`
	Address     string `json:"address"`
	PhoneNumber string `json:"phone_number"`
}

// SummaryDTO is the priced checkout view.
type SummaryDTO struct {
	Items []cart.LineItem     `json:"items"`
	Total decimal.Decimal     `json:"total"`
	State enums.CheckoutState `json:"state"`
}

// Service drives the pre-payment checkout steps.
type Service interface {
	SubmitGuestInfo(ctx context.Context, sess *session.CheckoutSession, input GuestInfoInput) error
	Summary(ctx context.Context, sess *session.CheckoutSession) (*SummaryDTO, error)
}

type service struct {
	reader *cart.Reader
}

// NewService constructs a checkout service over the cart reader.
func NewService(reader *cart.Reader) (Service, error) {
	if reader == nil {
		return nil, fmt.Errorf("cart reader required")
	}
	return &service{reader: reader}, nil
}

// SubmitGuestInfo validates and stores the guest contact fields on the
// session. Checks run in order and stop at the first failure: email
// syntax, then address length, then phone shape. Resubmission
// overwrites previous values.
func (s *service) SubmitGuestInfo(_ context.Context, sess *session.CheckoutSession, input GuestInfoInput) error {
	email := strings.TrimSpace(input.Email)
	if !emailRe.MatchString(email) {
		return pkgerrors.New(pkgerrors.CodeValidation, "a valid email address is required")
	}

	address := strings.TrimSpace(input.Address)
	if len(address) < MinAddressLength {
		return pkgerrors.New(pkgerrors.CodeValidation,
			fmt.Sprintf("address must be at least %d characters", MinAddressLength))
	}

	phone := strings.TrimSpace(input.PhoneNumber)
	if !phoneRe.MatchString(phone) {
		return pkgerrors.New(pkgerrors.CodeValidation, "a valid phone number is required")
	}

	sess.GuestEmail = email
	sess.GuestAddress = address
	sess.GuestPhone = phone
	return nil
}

// Summary prices the cart and records the payable total on the session.
// The stored total is what payment capture later trusts, so every visit
// to the summary refreshes it against current catalog prices.
func (s *service) Summary(ctx context.Context, sess *session.CheckoutSession) (*SummaryDTO, error) {
	items, total, err := s.reader.PriceCart(ctx, sess.Cart)
	if err != nil {
		return nil, err
	}

	sess.PaymentTotal = &total

	state := enums.CheckoutStateAwaitingGuestInfo
	if sess.IsAuthenticated() || sess.HasGuestInfo() {
		state = enums.CheckoutStateReadyForPayment
	}

	return &SummaryDTO{Items: items, Total: total, State: state}, nil
}
