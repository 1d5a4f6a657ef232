package service_test

import (
	"context"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/d60-Lab/gin-restaurant/internal/model"
	"github.com/d60-Lab/gin-restaurant/internal/repository"
	"github.com/d60-Lab/gin-restaurant/internal/service"
	"github.com/d60-Lab/gin-restaurant/internal/testutil"
)

func dec(s string) decimal.Decimal { return decimal.RequireFromString(s) }

type cartFixture struct {
	ctx   context.Context
	store *repository.Store
	cat   testutil.Catalog
	carts service.CartService
	cart  *model.Cart
}

func newCartFixture(t *testing.T) *cartFixture {
	t.Helper()
	db := testutil.NewDB(t)
	f := &cartFixture{
		ctx:   context.Background(),
		store: repository.NewStore(db),
		cat:   testutil.SeedCatalog(t, db),
	}
	f.carts = service.NewCartService(f.store)
	cart, err := f.carts.ResolveCart(f.ctx, model.SessionIdentity("sess-cart"))
	require.NoError(t, err)
	f.cart = cart
	return f
}

func TestCartService_ResolveCartRequiresExactlyOneIdentity(t *testing.T) {
	f := newCartFixture(t)

	_, err := f.carts.ResolveCart(f.ctx, model.Identity{})
	assert.ErrorIs(t, err, service.ErrInvalidInput)

	uid := uint(1)
	_, err = f.carts.ResolveCart(f.ctx, model.Identity{UserID: &uid, SessionKey: "both"})
	assert.ErrorIs(t, err, service.ErrInvalidInput)

	again, err := f.carts.ResolveCart(f.ctx, model.SessionIdentity("sess-cart"))
	require.NoError(t, err)
	assert.Equal(t, f.cart.ID, again.ID)
}

func TestCartService_AddItemMergesDuplicates(t *testing.T) {
	f := newCartFixture(t)

	_, err := f.carts.AddItem(f.ctx, f.cart.ID, f.cat.Borscht.ID, 1)
	require.NoError(t, err)
	item, err := f.carts.AddItem(f.ctx, f.cart.ID, f.cat.Borscht.ID, 2)
	require.NoError(t, err)
	assert.Equal(t, 3, item.Quantity)

	view, err := f.carts.GetCart(f.ctx, f.cart.ID)
	require.NoError(t, err)
	require.Len(t, view.Lines, 1)
	assert.Equal(t, 3, view.Lines[0].Quantity)
	assert.True(t, dec("360").Equal(view.Total), "total %s", view.Total)
}

func TestCartService_AddItemValidation(t *testing.T) {
	f := newCartFixture(t)

	_, err := f.carts.AddItem(f.ctx, f.cart.ID, f.cat.Borscht.ID, 0)
	assert.ErrorIs(t, err, service.ErrInvalidInput)

	_, err = f.carts.AddItem(f.ctx, f.cart.ID, f.cat.Hidden.ID, 1)
	assert.ErrorIs(t, err, service.ErrNotFound)

	_, err = f.carts.AddItem(f.ctx, f.cart.ID, 9999, 1)
	assert.ErrorIs(t, err, service.ErrNotFound)

	_, err = f.carts.AddItem(f.ctx, 9999, f.cat.Borscht.ID, 1)
	assert.ErrorIs(t, err, service.ErrNotFound)
}

func TestCartService_UpdateItemQuantity(t *testing.T) {
	f := newCartFixture(t)
	item, err := f.carts.AddItem(f.ctx, f.cart.ID, f.cat.Varenyky.ID, 1)
	require.NoError(t, err)

	updated, err := f.carts.UpdateItemQuantity(f.ctx, f.cart.ID, item.ID, 4)
	require.NoError(t, err)
	assert.Equal(t, 4, updated.Quantity)

	removed, err := f.carts.UpdateItemQuantity(f.ctx, f.cart.ID, item.ID, 0)
	require.NoError(t, err)
	assert.Nil(t, removed)

	total, err := f.carts.GetTotal(f.ctx, f.cart.ID)
	require.NoError(t, err)
	assert.True(t, total.IsZero())

	_, err = f.carts.UpdateItemQuantity(f.ctx, f.cart.ID, item.ID, 2)
	assert.ErrorIs(t, err, service.ErrNotFound)
}

func TestCartService_NegativeQuantityRemovesLine(t *testing.T) {
	f := newCartFixture(t)
	item, err := f.carts.AddItem(f.ctx, f.cart.ID, f.cat.Borscht.ID, 2)
	require.NoError(t, err)

	removed, err := f.carts.UpdateItemQuantity(f.ctx, f.cart.ID, item.ID, -3)
	require.NoError(t, err)
	assert.Nil(t, removed)

	view, err := f.carts.GetCart(f.ctx, f.cart.ID)
	require.NoError(t, err)
	assert.Empty(t, view.Lines)
}

func TestCartService_RemoveItemChecksOwnership(t *testing.T) {
	f := newCartFixture(t)
	item, err := f.carts.AddItem(f.ctx, f.cart.ID, f.cat.Borscht.ID, 1)
	require.NoError(t, err)

	other, err := f.carts.ResolveCart(f.ctx, model.SessionIdentity("someone-else"))
	require.NoError(t, err)

	assert.ErrorIs(t, f.carts.RemoveItem(f.ctx, other.ID, item.ID), service.ErrNotFound)
	require.NoError(t, f.carts.RemoveItem(f.ctx, f.cart.ID, item.ID))
	assert.ErrorIs(t, f.carts.RemoveItem(f.ctx, f.cart.ID, item.ID), service.ErrNotFound)
}

func TestCartService_GetTotal(t *testing.T) {
	f := newCartFixture(t)

	total, err := f.carts.GetTotal(f.ctx, f.cart.ID)
	require.NoError(t, err)
	assert.True(t, total.IsZero())

	_, err = f.carts.AddItem(f.ctx, f.cart.ID, f.cat.Borscht.ID, 2)
	require.NoError(t, err)
	_, err = f.carts.AddItem(f.ctx, f.cart.ID, f.cat.Varenyky.ID, 1)
	require.NoError(t, err)

	total, err = f.carts.GetTotal(f.ctx, f.cart.ID)
	require.NoError(t, err)
	assert.True(t, dec("315.50").Equal(total), "total %s", total)
}

func TestCartService_UnknownCartNotFound(t *testing.T) {
	f := newCartFixture(t)

	_, err := f.carts.GetTotal(f.ctx, 999999)
	assert.ErrorIs(t, err, service.ErrNotFound)
	_, err = f.carts.GetCart(f.ctx, 999999)
	assert.ErrorIs(t, err, service.ErrNotFound)
	assert.ErrorIs(t, f.carts.RemoveItem(f.ctx, 999999, 1), service.ErrNotFound)
}

func TestCartService_ResolveCartProvisionsUser(t *testing.T) {
	f := newCartFixture(t)
	uid := uint(4242)

	cart, err := f.carts.ResolveCart(f.ctx, model.UserIdentity(uid))
	require.NoError(t, err)
	require.NotNil(t, cart.UserID)
	assert.Equal(t, uid, *cart.UserID)

	_, err = f.carts.AddItem(f.ctx, cart.ID, f.cat.Borscht.ID, 1)
	require.NoError(t, err)

	again, err := f.carts.ResolveCart(f.ctx, model.UserIdentity(uid))
	require.NoError(t, err)
	assert.Equal(t, cart.ID, again.ID)
}
