package service_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/d60-Lab/gin-restaurant/internal/model"
	"github.com/d60-Lab/gin-restaurant/internal/service"
	"github.com/d60-Lab/gin-restaurant/internal/testutil"
)

var customer = service.CustomerInfo{
	Name:    "Olena",
	Phone:   "+380501112233",
	Address: "Khreshchatyk 1",
}

func fillCart(t *testing.T, f *cartFixture) {
	t.Helper()
	_, err := f.carts.AddItem(f.ctx, f.cart.ID, f.cat.Borscht.ID, 2)
	require.NoError(t, err)
	_, err = f.carts.AddItem(f.ctx, f.cart.ID, f.cat.Varenyky.ID, 1)
	require.NoError(t, err)
}

func TestOrderService_PlaceOrderFreezesPrices(t *testing.T) {
	f := newCartFixture(t)
	orders := service.NewOrderService(f.store)
	fillCart(t, f)

	order, err := orders.PlaceOrder(f.ctx, f.cart.ID, customer)
	require.NoError(t, err)
	assert.Equal(t, model.OrderStatusNew, order.Status)
	assert.Equal(t, model.PaymentCash, order.PaymentMethod)
	require.Len(t, order.Items, 2)
	assert.True(t, dec("315.50").Equal(order.Total()), "total %s", order.Total())

	require.NoError(t, f.store.Catalog().UpdateDishPrice(f.ctx, f.cat.Borscht.ID, dec("150.00")))

	stored, err := orders.GetOrder(f.ctx, order.ID)
	require.NoError(t, err)
	assert.True(t, dec("315.50").Equal(stored.Total()), "total %s", stored.Total())

	n, err := f.store.Outbox().CountByStatus(f.ctx, model.OutboxPending)
	require.NoError(t, err)
	assert.EqualValues(t, 1, n)
}

func TestOrderService_PlaceOrderDeactivatesCart(t *testing.T) {
	f := newCartFixture(t)
	orders := service.NewOrderService(f.store)
	fillCart(t, f)

	_, err := orders.PlaceOrder(f.ctx, f.cart.ID, customer)
	require.NoError(t, err)

	next, err := f.carts.ResolveCart(f.ctx, model.SessionIdentity("sess-cart"))
	require.NoError(t, err)
	assert.NotEqual(t, f.cart.ID, next.ID)
	total, err := f.carts.GetTotal(f.ctx, next.ID)
	require.NoError(t, err)
	assert.True(t, total.IsZero())

	_, err = orders.PlaceOrder(f.ctx, f.cart.ID, customer)
	assert.ErrorIs(t, err, service.ErrInvalidState)

	_, err = f.carts.AddItem(f.ctx, f.cart.ID, f.cat.Borscht.ID, 1)
	assert.ErrorIs(t, err, service.ErrInvalidState)
}

func TestOrderService_CheckedOutCartRejectsEdits(t *testing.T) {
	f := newCartFixture(t)
	orders := service.NewOrderService(f.store)
	fillCart(t, f)
	view, err := f.carts.GetCart(f.ctx, f.cart.ID)
	require.NoError(t, err)
	require.Len(t, view.Lines, 2)
	line := view.Lines[0]

	order, err := orders.PlaceOrder(f.ctx, f.cart.ID, customer)
	require.NoError(t, err)

	_, err = f.carts.UpdateItemQuantity(f.ctx, f.cart.ID, line.ItemID, 50)
	assert.ErrorIs(t, err, service.ErrInvalidState)
	_, err = f.carts.UpdateItemQuantity(f.ctx, f.cart.ID, line.ItemID, 0)
	assert.ErrorIs(t, err, service.ErrInvalidState)
	assert.ErrorIs(t, f.carts.RemoveItem(f.ctx, f.cart.ID, line.ItemID), service.ErrInvalidState)

	after, err := f.carts.GetCart(f.ctx, f.cart.ID)
	require.NoError(t, err)
	require.Len(t, after.Lines, 2)
	assert.Equal(t, line.Quantity, after.Lines[0].Quantity)
	assert.True(t, dec("315.50").Equal(after.Total), "total %s", after.Total)

	stored, err := orders.GetOrder(f.ctx, order.ID)
	require.NoError(t, err)
	assert.True(t, dec("315.50").Equal(stored.Total()))
}

func TestOrderService_EmptyCartCreatesNoOrder(t *testing.T) {
	f := newCartFixture(t)
	orders := service.NewOrderService(f.store)

	_, err := orders.PlaceOrder(f.ctx, f.cart.ID, customer)
	assert.ErrorIs(t, err, service.ErrInvalidState)

	n, err := f.store.Orders().Count(f.ctx)
	require.NoError(t, err)
	assert.Zero(t, n)

	cart, err := f.store.Carts().Get(f.ctx, f.cart.ID)
	require.NoError(t, err)
	assert.True(t, cart.IsActive)
}

func TestOrderService_PlaceOrderValidatesCustomer(t *testing.T) {
	f := newCartFixture(t)
	orders := service.NewOrderService(f.store)
	fillCart(t, f)

	cases := []struct {
		name  string
		info  service.CustomerInfo
		field string
	}{
		{"missing name", service.CustomerInfo{Phone: "1", Address: "a"}, "name"},
		{"blank phone", service.CustomerInfo{Name: "n", Phone: "  ", Address: "a"}, "phone"},
		{"missing address", service.CustomerInfo{Name: "n", Phone: "1"}, "address"},
		{"bad payment", service.CustomerInfo{Name: "n", Phone: "1", Address: "a", PaymentMethod: "barter"}, "payment_method"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := orders.PlaceOrder(f.ctx, f.cart.ID, tc.info)
			require.ErrorIs(t, err, service.ErrInvalidInput)
			var ie *service.InputError
			require.ErrorAs(t, err, &ie)
			assert.Equal(t, tc.field, ie.Field)
		})
	}

	n, err := f.store.Orders().Count(f.ctx)
	require.NoError(t, err)
	assert.Zero(t, n)
}

func TestOrderService_UnavailableDishBlocksCheckout(t *testing.T) {
	f := newCartFixture(t)
	orders := service.NewOrderService(f.store)
	fillCart(t, f)
	require.NoError(t, f.store.Catalog().SetDishAvailability(f.ctx, f.cat.Varenyky.ID, false))

	_, err := orders.PlaceOrder(f.ctx, f.cart.ID, customer)
	assert.ErrorIs(t, err, service.ErrInvalidState)

	cart, err := f.store.Carts().Get(f.ctx, f.cart.ID)
	require.NoError(t, err)
	assert.True(t, cart.IsActive)
}

func TestOrderService_UserCartOwnsOrder(t *testing.T) {
	f := newCartFixture(t)
	orders := service.NewOrderService(f.store)
	u := testutil.CreateUser(t, f.store.DB(), "taras")

	cart, err := f.carts.ResolveCart(f.ctx, model.UserIdentity(u.ID))
	require.NoError(t, err)
	_, err = f.carts.AddItem(f.ctx, cart.ID, f.cat.Borscht.ID, 1)
	require.NoError(t, err)

	order, err := orders.PlaceOrder(f.ctx, cart.ID, service.CustomerInfo{
		Name: "Taras", Phone: "1", Address: "Lviv", PaymentMethod: model.PaymentOnline,
	})
	require.NoError(t, err)
	require.NotNil(t, order.UserID)
	assert.Equal(t, u.ID, *order.UserID)

	history, err := orders.ListUserOrders(f.ctx, u.ID, 0)
	require.NoError(t, err)
	require.Len(t, history, 1)
	assert.Equal(t, order.ID, history[0].ID)
	assert.Equal(t, model.PaymentOnline, history[0].PaymentMethod)
}

func TestOrderService_ChangeStatus(t *testing.T) {
	f := newCartFixture(t)
	orders := service.NewOrderService(f.store)
	fillCart(t, f)
	order, err := orders.PlaceOrder(f.ctx, f.cart.ID, customer)
	require.NoError(t, err)

	for _, next := range []model.OrderStatus{
		model.OrderStatusInProgress, model.OrderStatusDelivering,
	} {
		updated, err := orders.ChangeStatus(f.ctx, order.ID, next)
		require.NoError(t, err)
		assert.Equal(t, next, updated.Status)
	}

	_, err = orders.ChangeStatus(f.ctx, order.ID, model.OrderStatusNew)
	assert.ErrorIs(t, err, service.ErrInvalidTransition)
	stored, err := orders.GetOrder(f.ctx, order.ID)
	require.NoError(t, err)
	assert.Equal(t, model.OrderStatusDelivering, stored.Status)

	_, err = orders.ChangeStatus(f.ctx, order.ID, model.OrderStatusCompleted)
	require.NoError(t, err)
	_, err = orders.ChangeStatus(f.ctx, order.ID, model.OrderStatusCanceled)
	assert.ErrorIs(t, err, service.ErrInvalidTransition)
	stored, err = orders.GetOrder(f.ctx, order.ID)
	require.NoError(t, err)
	assert.Equal(t, model.OrderStatusCompleted, stored.Status)

	_, err = orders.ChangeStatus(f.ctx, order.ID, "lost")
	assert.ErrorIs(t, err, service.ErrInvalidInput)
	_, err = orders.ChangeStatus(f.ctx, 9999, model.OrderStatusCanceled)
	assert.ErrorIs(t, err, service.ErrNotFound)

	// placed + three status changes
	n, err := f.store.Outbox().CountByStatus(f.ctx, model.OutboxPending)
	require.NoError(t, err)
	assert.EqualValues(t, 4, n)
}
