package enums

// CheckoutState reports how far a session has progressed toward payment.
type CheckoutState string

const (
	CheckoutStateAwaitingGuestInfo CheckoutState = "awaiting_guest_info"
	CheckoutStateReadyForPayment   CheckoutState = "ready_for_payment"
)
