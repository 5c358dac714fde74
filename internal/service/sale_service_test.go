package service_test

import (
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Jotadose/palelu-app/internal/dto"
	"github.com/Jotadose/palelu-app/internal/model"
	"github.com/Jotadose/palelu-app/internal/repository"
	"github.com/Jotadose/palelu-app/internal/service"
)

type saleFixture struct {
	svc      service.SaleService
	till     service.TillService
	products *stubProductRepo
	orders   *stubOrderRepo
	invMovs  *stubInvMovRepo
	carts    *stubCartStore
}

func newSaleFixture(products ...*model.Product) *saleFixture {
	f := &saleFixture{
		products: newStubProductRepo(products...),
		orders:   newStubOrderRepo(),
		invMovs:  &stubInvMovRepo{},
		carts:    newStubCartStore(),
	}
	cashRepo := newStubCashRepo()
	f.till = service.NewTillService(cashRepo, f.orders, nil, nil)
	f.svc = service.NewSaleService(f.orders, f.products, f.invMovs, f.carts, f.till, nil)
	return f
}

func (f *saleFixture) fillCart(t *testing.T, userID uuid.UUID, p *model.Product, qty int) {
	t.Helper()
	c, err := f.carts.Get(context.Background(), userID)
	require.NoError(t, err)
	require.NoError(t, c.Add(p, qty))
	require.NoError(t, f.carts.Save(context.Background(), userID, c))
}

func TestCheckout_CommitsCartAsSale(t *testing.T) {
	coca := &model.Product{Name: "Coca 1.5L", Price: d(1800), Stock: 10, Active: true}
	pan := &model.Product{Name: "Pan lactal", Price: d(2200), Stock: 4, Active: true}
	f := newSaleFixture(coca, pan)
	userID := uuid.New()

	open, err := f.till.Open(context.Background(), userID, dto.OpenSessionRequest{InitialCash: d(5000)})
	require.NoError(t, err)

	f.fillCart(t, userID, coca, 2)
	f.fillCart(t, userID, pan, 1)

	resp, err := f.svc.Checkout(context.Background(), userID, dto.CheckoutRequest{PaymentMethod: model.PaymentCash})
	require.NoError(t, err)

	// 2×1800 + 1×2200
	assert.True(t, resp.Total.Equal(d(5800)))
	assert.Len(t, resp.Items, 2)
	assert.NotEmpty(t, resp.OrderNumber)
	require.NotNil(t, resp.SessionID)
	assert.Equal(t, open.SessionID, *resp.SessionID)

	// Stock decremented, one ledger row per line, cart cleared.
	assert.Equal(t, 8, f.products.products[coca.ID].Stock)
	assert.Equal(t, 3, f.products.products[pan.ID].Stock)
	assert.Len(t, f.invMovs.movements, 2)
	for _, m := range f.invMovs.movements {
		assert.Equal(t, model.InvMovementSale, m.Type)
		assert.Negative(t, m.Quantity)
		require.NotNil(t, m.ReferenceID)
		assert.Equal(t, resp.ID, m.ReferenceID.String())
	}
	c, _ := f.carts.Get(context.Background(), userID)
	assert.True(t, c.Empty())
}

func TestCheckout_WithoutOpenSession(t *testing.T) {
	p := &model.Product{Name: "Galletitas", Price: d(900), Stock: 5, Active: true}
	f := newSaleFixture(p)
	userID := uuid.New()
	f.fillCart(t, userID, p, 1)

	// Sales are allowed with the till closed; the order simply has no session.
	resp, err := f.svc.Checkout(context.Background(), userID, dto.CheckoutRequest{PaymentMethod: model.PaymentCard})
	require.NoError(t, err)
	assert.Nil(t, resp.SessionID)
}

func TestCheckout_EmptyCart(t *testing.T) {
	f := newSaleFixture()

	_, err := f.svc.Checkout(context.Background(), uuid.New(), dto.CheckoutRequest{PaymentMethod: model.PaymentCash})
	assert.ErrorIs(t, err, service.ErrEmptyCart)
	assert.Empty(t, f.orders.orders)
}

func TestCheckout_InsufficientStock(t *testing.T) {
	p := &model.Product{Name: "Yerba", Price: d(2500), Stock: 5, Active: true}
	f := newSaleFixture(p)
	userID := uuid.New()
	f.fillCart(t, userID, p, 5)

	// Someone else sold 3 units after the cart was built.
	f.products.products[p.ID].Stock = 2

	_, err := f.svc.Checkout(context.Background(), userID, dto.CheckoutRequest{PaymentMethod: model.PaymentCash})
	assert.ErrorIs(t, err, repository.ErrInsufficientStock)

	// Nothing committed: no order, no movement, stock untouched.
	assert.Empty(t, f.orders.orders)
	assert.Empty(t, f.invMovs.movements)
	assert.Equal(t, 2, f.products.products[p.ID].Stock)
}

func TestCheckout_InactiveProduct(t *testing.T) {
	p := &model.Product{Name: "Descontinuado", Price: d(100), Stock: 5, Active: true}
	f := newSaleFixture(p)
	userID := uuid.New()
	f.fillCart(t, userID, p, 1)

	f.products.products[p.ID].Active = false

	_, err := f.svc.Checkout(context.Background(), userID, dto.CheckoutRequest{PaymentMethod: model.PaymentCash})
	assert.ErrorIs(t, err, service.ErrProductGone)
	assert.Empty(t, f.orders.orders)
}

func TestCheckout_WriteFailureLeavesNoPartialState(t *testing.T) {
	p := &model.Product{Name: "Fideos", Price: d(1100), Stock: 6, Active: true}
	f := newSaleFixture(p)
	userID := uuid.New()
	f.fillCart(t, userID, p, 2)

	f.orders.failCreate = errors.New("connection reset by peer")

	_, err := f.svc.Checkout(context.Background(), userID, dto.CheckoutRequest{PaymentMethod: model.PaymentCash})
	require.Error(t, err)

	// The failed commit left zero orders, zero ledger rows, stock intact, and
	// the cart still loaded for a retry.
	assert.Empty(t, f.orders.orders)
	assert.Empty(t, f.invMovs.movements)
	assert.Equal(t, 6, f.products.products[p.ID].Stock)
	c, _ := f.carts.Get(context.Background(), userID)
	assert.False(t, c.Empty())
}

func TestCheckout_RepricesFromCatalog(t *testing.T) {
	p := &model.Product{Name: "Azucar", Price: d(1000), Stock: 10, Active: true}
	f := newSaleFixture(p)
	userID := uuid.New()
	f.fillCart(t, userID, p, 1)

	// Price updated after the cart snapshot was taken.
	f.products.products[p.ID].Price = d(1300)

	resp, err := f.svc.Checkout(context.Background(), userID, dto.CheckoutRequest{PaymentMethod: model.PaymentCash})
	require.NoError(t, err)

	assert.True(t, resp.Total.Equal(d(1300)), "checkout charges the live catalog price")
	assert.True(t, resp.Items[0].UnitPrice.Equal(d(1300)))
}

func TestCheckout_InvalidPaymentMethod(t *testing.T) {
	p := &model.Product{Name: "Sal", Price: d(500), Stock: 3, Active: true}
	f := newSaleFixture(p)
	userID := uuid.New()
	f.fillCart(t, userID, p, 1)

	_, err := f.svc.Checkout(context.Background(), userID, dto.CheckoutRequest{PaymentMethod: "cheque"})
	assert.ErrorIs(t, err, service.ErrInvalidPayment)
}

func TestGetSale_NotFound(t *testing.T) {
	f := newSaleFixture()

	_, err := f.svc.Get(context.Background(), uuid.New())
	assert.ErrorIs(t, err, service.ErrSaleNotFound)
}
