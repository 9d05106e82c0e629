package cart

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	pkgerrors "github.com/acuellar/tiendita-backend/pkg/errors"
	"github.com/acuellar/tiendita-backend/pkg/session"
)

func newTestCartService(t *testing.T) Service {
	t.Helper()
	svc, err := NewService(newFakeProducts())
	require.NoError(t, err)
	return svc
}

func TestAddItemIncrementsQuantity(t *testing.T) {
	svc := newTestCartService(t)
	sess := &session.CheckoutSession{}
	ctx := context.Background()

	require.NoError(t, svc.AddItem(ctx, sess, 1))
	require.NoError(t, svc.AddItem(ctx, sess, 1))
	require.NoError(t, svc.AddItem(ctx, sess, 2))

	assert.Equal(t, int64(2), sess.Cart[1])
	assert.Equal(t, int64(1), sess.Cart[2])
}

func TestAddItemUnknownProduct(t *testing.T) {
	svc := newTestCartService(t)
	sess := &session.CheckoutSession{}

	err := svc.AddItem(context.Background(), sess, 999)
	require.Error(t, err)
	appErr := pkgerrors.As(err)
	require.NotNil(t, appErr)
	assert.Equal(t, pkgerrors.CodeNotFound, appErr.Code())
	assert.Empty(t, sess.Cart)
}

func TestUpdateItemRejectsNonPositiveQuantity(t *testing.T) {
	svc := newTestCartService(t)
	sess := &session.CheckoutSession{Cart: map[int64]int64{1: 1}}

	for _, qty := range []int64{0, -1} {
		err := svc.UpdateItem(context.Background(), sess, 1, qty)
		require.Error(t, err)
		appErr := pkgerrors.As(err)
		require.NotNil(t, appErr)
		assert.Equal(t, pkgerrors.CodeValidation, appErr.Code())
	}
	assert.Equal(t, int64(1), sess.Cart[1], "rejected update must not change the cart")
}

func TestUpdateItemSetsQuantity(t *testing.T) {
	svc := newTestCartService(t)
	sess := &session.CheckoutSession{Cart: map[int64]int64{1: 1}}

	require.NoError(t, svc.UpdateItem(context.Background(), sess, 1, 5))
	assert.Equal(t, int64(5), sess.Cart[1])
}

func TestRemoveItem(t *testing.T) {
	svc := newTestCartService(t)
	sess := &session.CheckoutSession{Cart: map[int64]int64{1: 2, 2: 1}}
	ctx := context.Background()

	require.NoError(t, svc.RemoveItem(ctx, sess, 1))
	assert.NotContains(t, sess.Cart, int64(1))
	assert.Contains(t, sess.Cart, int64(2))

	// removing something absent is a no-op
	require.NoError(t, svc.RemoveItem(ctx, sess, 42))
}

func TestViewEmptyCartIsNotAnError(t *testing.T) {
	svc := newTestCartService(t)

	view, err := svc.View(context.Background(), &session.CheckoutSession{})
	require.NoError(t, err)
	assert.Empty(t, view.Items)
	assert.True(t, view.Total.IsZero())
}

func TestViewPricesCart(t *testing.T) {
	svc := newTestCartService(t)
	sess := &session.CheckoutSession{Cart: map[int64]int64{1: 2, 2: 2}}

	view, err := svc.View(context.Background(), sess)
	require.NoError(t, err)
	require.Len(t, view.Items, 2)
	assert.True(t, view.Total.Equal(price("25.00")))
}
