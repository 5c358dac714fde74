package repository

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/Jotadose/palelu-app/internal/model"
)

type CashRepository interface {
	CreateSession(ctx context.Context, s *model.CashSession) error
	FindOpenSession(ctx context.Context) (*model.CashSession, error)
	FindSessionByID(ctx context.Context, id uuid.UUID) (*model.CashSession, error)
	UpdateSession(ctx context.Context, s *model.CashSession) error
	ListClosedSessions(ctx context.Context, page, limit int) ([]model.CashSession, error)
	CreateMovement(ctx context.Context, m *model.CashMovement) error
	ListMovements(ctx context.Context, sessionID uuid.UUID) ([]model.CashMovement, error)
}

type cashRepo struct{ db *gorm.DB }

func NewCashRepository(db *gorm.DB) CashRepository { return &cashRepo{db: db} }

// CreateSession inserts a new open session. The partial unique index
// uni_cash_sessions_open makes a concurrent double-open fail at the database,
// not just at the pre-flight query.
func (r *cashRepo) CreateSession(ctx context.Context, s *model.CashSession) error {
	return r.db.WithContext(ctx).Create(s).Error
}

func (r *cashRepo) FindOpenSession(ctx context.Context) (*model.CashSession, error) {
	var s model.CashSession
	err := r.db.WithContext(ctx).Where("status = ?", model.SessionOpen).First(&s).Error
	if err != nil {
		return nil, err
	}
	return &s, nil
}

func (r *cashRepo) FindSessionByID(ctx context.Context, id uuid.UUID) (*model.CashSession, error) {
	var s model.CashSession
	err := r.db.WithContext(ctx).First(&s, id).Error
	if err != nil {
		return nil, err
	}
	return &s, nil
}

func (r *cashRepo) UpdateSession(ctx context.Context, s *model.CashSession) error {
	return r.db.WithContext(ctx).Save(s).Error
}

func (r *cashRepo) ListClosedSessions(ctx context.Context, page, limit int) ([]model.CashSession, error) {
	var sessions []model.CashSession
	err := r.db.WithContext(ctx).
		Where("status = ?", model.SessionClosed).
		Order("closed_at DESC").
		Offset((page - 1) * limit).Limit(limit).
		Find(&sessions).Error
	return sessions, err
}

func (r *cashRepo) CreateMovement(ctx context.Context, m *model.CashMovement) error {
	return r.db.WithContext(ctx).Create(m).Error
}

func (r *cashRepo) ListMovements(ctx context.Context, sessionID uuid.UUID) ([]model.CashMovement, error) {
	var movs []model.CashMovement
	err := r.db.WithContext(ctx).Where("session_id = ?", sessionID).Order("created_at ASC").Find(&movs).Error
	return movs, err
}
