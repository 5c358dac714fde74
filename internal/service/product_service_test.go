package service_test

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Jotadose/palelu-app/internal/dto"
	"github.com/Jotadose/palelu-app/internal/model"
	"github.com/Jotadose/palelu-app/internal/repository"
	"github.com/Jotadose/palelu-app/internal/service"
)

func newProductFixture(products ...*model.Product) (service.ProductService, *stubProductRepo, *stubInvMovRepo) {
	repo := newStubProductRepo(products...)
	invMovs := &stubInvMovRepo{}
	svc := service.NewProductService(repo, invMovs, nil, nil)
	return svc, repo, invMovs
}

func TestCreateProduct_ValidatesCategory(t *testing.T) {
	svc, _, _ := newProductFixture()

	_, err := svc.Create(context.Background(), dto.CreateProductRequest{
		Name:     "Cerveza",
		Category: "bebidas-alcoholicas",
		Price:    d(3500),
		Stock:    12,
	})
	assert.ErrorIs(t, err, service.ErrInvalidCategory)

	resp, err := svc.Create(context.Background(), dto.CreateProductRequest{
		Name:     "Cerveza",
		Category: "beverage",
		Price:    d(3500),
		Stock:    12,
	})
	require.NoError(t, err)
	assert.True(t, resp.Active)
	assert.Equal(t, "beverage", resp.Category)
}

func TestShrinkage_DecrementsAndRecordsLedger(t *testing.T) {
	p := &model.Product{Name: "Queso", Price: d(4000), Stock: 8, Active: true}
	svc, repo, invMovs := newProductFixture(p)

	resp, err := svc.Shrinkage(context.Background(), p.ID, dto.ShrinkageRequest{
		Quantity: 3,
		Reason:   model.ShrinkageExpired,
		Notes:    "vencio el lote de enero",
	})
	require.NoError(t, err)

	assert.Equal(t, 5, repo.products[p.ID].Stock)
	assert.Equal(t, model.InvMovementShrinkage, resp.Type)
	assert.Equal(t, -3, resp.Quantity)
	assert.Equal(t, 8, resp.PrevStock)
	assert.Equal(t, 5, resp.NewStock)
	assert.Nil(t, resp.ReferenceID, "shrinkage is not tied to an order")
	require.Len(t, invMovs.movements, 1)
}

func TestShrinkage_RejectsMoreThanStock(t *testing.T) {
	p := &model.Product{Name: "Manteca", Price: d(1900), Stock: 2, Active: true}
	svc, repo, invMovs := newProductFixture(p)

	_, err := svc.Shrinkage(context.Background(), p.ID, dto.ShrinkageRequest{
		Quantity: 3,
		Reason:   model.ShrinkageDamaged,
	})
	assert.ErrorIs(t, err, repository.ErrInsufficientStock)

	// Nothing written on the failure path.
	assert.Equal(t, 2, repo.products[p.ID].Stock)
	assert.Empty(t, invMovs.movements)
}

func TestShrinkage_UnknownProduct(t *testing.T) {
	svc, _, _ := newProductFixture()

	_, err := svc.Shrinkage(context.Background(), uuid.New(), dto.ShrinkageRequest{
		Quantity: 1,
		Reason:   model.ShrinkageOther,
	})
	assert.ErrorIs(t, err, service.ErrProductNotFound)
}

func TestDeactivate_SoftDeletesOnly(t *testing.T) {
	p := &model.Product{Name: "Harina", Price: d(1100), Stock: 5, Active: true}
	svc, repo, _ := newProductFixture(p)

	require.NoError(t, svc.Deactivate(context.Background(), p.ID))
	assert.False(t, repo.products[p.ID].Active)

	require.NoError(t, svc.Reactivate(context.Background(), p.ID))
	assert.True(t, repo.products[p.ID].Active)
}

func TestDescribe_DegradesWithoutSidecar(t *testing.T) {
	svc, _, _ := newProductFixture()

	resp, err := svc.Describe(context.Background(), dto.DescribeRequest{Name: "Alfajor", Category: "snack"})
	require.NoError(t, err)
	assert.Empty(t, resp.Description, "no sidecar configured means an empty description, not an error")
}
