package middleware

import (
	"context"

	"github.com/acuellar/tiendita-backend/pkg/session"
)

type contextKey string

const (
	ctxUserID  contextKey = "user_id"
	ctxIsAdmin contextKey = "is_admin"
	ctxSession contextKey = "checkout_session"
)

// UserIDFromContext returns the authenticated user id, or 0 for guests.
func UserIDFromContext(ctx context.Context) int64 {
	if ctx == nil {
		return 0
	}
	if v, ok := ctx.Value(ctxUserID).(int64); ok {
		return v
	}
	return 0
}

// IsAdminFromContext reports whether the request carries an admin token.
func IsAdminFromContext(ctx context.Context) bool {
	if ctx == nil {
		return false
	}
	if v, ok := ctx.Value(ctxIsAdmin).(bool); ok {
		return v
	}
	return false
}

// SessionFromContext returns the checkout session attached by Session.
func SessionFromContext(ctx context.Context) *session.CheckoutSession {
	if ctx == nil {
		return nil
	}
	if v, ok := ctx.Value(ctxSession).(*session.CheckoutSession); ok {
		return v
	}
	return nil
}

// WithUserID injects the user identifier into the context.
func WithUserID(ctx context.Context, userID int64) context.Context {
	if ctx == nil {
		ctx = context.Background()
	}
	return context.WithValue(ctx, ctxUserID, userID)
}

// WithSession injects the checkout session into the context.
func WithSession(ctx context.Context, sess *session.CheckoutSession) context.Context {
	if ctx == nil {
		ctx = context.Background()
	}
	return context.WithValue(ctx, ctxSession, sess)
}
