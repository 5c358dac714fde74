package repository

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/Jotadose/palelu-app/internal/model"
)

type InventoryMovementRepository interface {
	// CreateTx appends a movement inside the caller's transaction, so the
	// ledger row and the stock change it describes commit or roll back together.
	CreateTx(tx *gorm.DB, m *model.InventoryMovement) error
	ListByProduct(ctx context.Context, productID uuid.UUID, limit int) ([]model.InventoryMovement, error)
	ListRecent(ctx context.Context, limit int) ([]model.InventoryMovement, error)
}

type inventoryMovementRepo struct{ db *gorm.DB }

func NewInventoryMovementRepository(db *gorm.DB) InventoryMovementRepository {
	return &inventoryMovementRepo{db: db}
}

func (r *inventoryMovementRepo) CreateTx(tx *gorm.DB, m *model.InventoryMovement) error {
	return tx.Create(m).Error
}

func (r *inventoryMovementRepo) ListByProduct(ctx context.Context, productID uuid.UUID, limit int) ([]model.InventoryMovement, error) {
	var movs []model.InventoryMovement
	err := r.db.WithContext(ctx).
		Where("product_id = ?", productID).
		Order("created_at DESC").Limit(limit).
		Find(&movs).Error
	return movs, err
}

func (r *inventoryMovementRepo) ListRecent(ctx context.Context, limit int) ([]model.InventoryMovement, error) {
	var movs []model.InventoryMovement
	err := r.db.WithContext(ctx).Order("created_at DESC").Limit(limit).Find(&movs).Error
	return movs, err
}
