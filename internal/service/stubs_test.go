package service_test

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/Jotadose/palelu-app/internal/cart"
	"github.com/Jotadose/palelu-app/internal/dto"
	"github.com/Jotadose/palelu-app/internal/model"
	"github.com/Jotadose/palelu-app/internal/repository"
)

// In-memory stubs. Every DB() returns nil so services run their transactions
// in nil-tx mode and the stubs see each write directly.

// ── CashRepository ───────────────────────────────────────────────────────────

type stubCashRepo struct {
	sessions  map[uuid.UUID]*model.CashSession
	movements []model.CashMovement
}

func newStubCashRepo() *stubCashRepo {
	return &stubCashRepo{sessions: make(map[uuid.UUID]*model.CashSession)}
}

func (r *stubCashRepo) CreateSession(_ context.Context, s *model.CashSession) error {
	// Mirrors the partial unique index on open sessions.
	for _, existing := range r.sessions {
		if existing.Status == model.SessionOpen {
			return errors.New("duplicate key value violates unique constraint \"uni_cash_sessions_open\"")
		}
	}
	if s.ID == uuid.Nil {
		s.ID = uuid.New()
	}
	r.sessions[s.ID] = s
	return nil
}

func (r *stubCashRepo) FindOpenSession(_ context.Context) (*model.CashSession, error) {
	for _, s := range r.sessions {
		if s.Status == model.SessionOpen {
			return s, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (r *stubCashRepo) FindSessionByID(_ context.Context, id uuid.UUID) (*model.CashSession, error) {
	s, ok := r.sessions[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return s, nil
}

func (r *stubCashRepo) UpdateSession(_ context.Context, s *model.CashSession) error {
	r.sessions[s.ID] = s
	return nil
}

func (r *stubCashRepo) ListClosedSessions(_ context.Context, _, _ int) ([]model.CashSession, error) {
	var out []model.CashSession
	for _, s := range r.sessions {
		if s.Status == model.SessionClosed {
			out = append(out, *s)
		}
	}
	return out, nil
}

func (r *stubCashRepo) CreateMovement(_ context.Context, m *model.CashMovement) error {
	if m.ID == uuid.Nil {
		m.ID = uuid.New()
	}
	r.movements = append(r.movements, *m)
	return nil
}

func (r *stubCashRepo) ListMovements(_ context.Context, sessionID uuid.UUID) ([]model.CashMovement, error) {
	var out []model.CashMovement
	for _, m := range r.movements {
		if m.SessionID == sessionID {
			out = append(out, m)
		}
	}
	return out, nil
}

var _ repository.CashRepository = (*stubCashRepo)(nil)

// ── OrderRepository ──────────────────────────────────────────────────────────

type stubOrderRepo struct {
	orders     map[uuid.UUID]*model.Order
	failCreate error
}

func newStubOrderRepo() *stubOrderRepo {
	return &stubOrderRepo{orders: make(map[uuid.UUID]*model.Order)}
}

func (r *stubOrderRepo) Create(_ context.Context, _ *gorm.DB, o *model.Order) error {
	if r.failCreate != nil {
		return r.failCreate
	}
	if o.ID == uuid.Nil {
		o.ID = uuid.New()
	}
	r.orders[o.ID] = o
	return nil
}

func (r *stubOrderRepo) FindByID(_ context.Context, id uuid.UUID) (*model.Order, error) {
	o, ok := r.orders[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return o, nil
}

func (r *stubOrderRepo) ListBySession(_ context.Context, sessionID uuid.UUID) ([]model.Order, error) {
	var out []model.Order
	for _, o := range r.orders {
		if o.SessionID != nil && *o.SessionID == sessionID {
			out = append(out, *o)
		}
	}
	return out, nil
}

func (r *stubOrderRepo) List(_ context.Context, _ dto.SaleFilter) ([]model.Order, int64, error) {
	var out []model.Order
	for _, o := range r.orders {
		out = append(out, *o)
	}
	return out, int64(len(out)), nil
}

func (r *stubOrderRepo) DB() *gorm.DB { return nil }

var _ repository.OrderRepository = (*stubOrderRepo)(nil)

// ── ProductRepository ────────────────────────────────────────────────────────

type stubProductRepo struct {
	products map[uuid.UUID]*model.Product
}

func newStubProductRepo(products ...*model.Product) *stubProductRepo {
	r := &stubProductRepo{products: make(map[uuid.UUID]*model.Product)}
	for _, p := range products {
		if p.ID == uuid.Nil {
			p.ID = uuid.New()
		}
		r.products[p.ID] = p
	}
	return r
}

func (r *stubProductRepo) Create(_ context.Context, p *model.Product) error {
	if p.ID == uuid.Nil {
		p.ID = uuid.New()
	}
	r.products[p.ID] = p
	return nil
}

func (r *stubProductRepo) FindByID(_ context.Context, id uuid.UUID) (*model.Product, error) {
	p, ok := r.products[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	cp := *p
	return &cp, nil
}

func (r *stubProductRepo) List(_ context.Context, _ dto.ProductFilter) ([]model.Product, int64, error) {
	var out []model.Product
	for _, p := range r.products {
		out = append(out, *p)
	}
	return out, int64(len(out)), nil
}

func (r *stubProductRepo) Update(_ context.Context, p *model.Product) error {
	r.products[p.ID] = p
	return nil
}

func (r *stubProductRepo) SoftDelete(_ context.Context, id uuid.UUID) error {
	if p, ok := r.products[id]; ok {
		p.Active = false
	}
	return nil
}

func (r *stubProductRepo) Reactivate(_ context.Context, id uuid.UUID) error {
	if p, ok := r.products[id]; ok {
		p.Active = true
	}
	return nil
}

func (r *stubProductRepo) DecrementStockTx(_ *gorm.DB, id uuid.UUID, qty int) error {
	p, ok := r.products[id]
	if !ok || p.Stock < qty {
		return repository.ErrInsufficientStock
	}
	p.Stock -= qty
	return nil
}

func (r *stubProductRepo) DB() *gorm.DB { return nil }

var _ repository.ProductRepository = (*stubProductRepo)(nil)

// ── InventoryMovementRepository ──────────────────────────────────────────────

type stubInvMovRepo struct {
	movements []model.InventoryMovement
}

func (r *stubInvMovRepo) CreateTx(_ *gorm.DB, m *model.InventoryMovement) error {
	if m.ID == uuid.Nil {
		m.ID = uuid.New()
	}
	r.movements = append(r.movements, *m)
	return nil
}

func (r *stubInvMovRepo) ListByProduct(_ context.Context, productID uuid.UUID, _ int) ([]model.InventoryMovement, error) {
	var out []model.InventoryMovement
	for _, m := range r.movements {
		if m.ProductID == productID {
			out = append(out, m)
		}
	}
	return out, nil
}

func (r *stubInvMovRepo) ListRecent(_ context.Context, _ int) ([]model.InventoryMovement, error) {
	return r.movements, nil
}

var _ repository.InventoryMovementRepository = (*stubInvMovRepo)(nil)

// ── cart.Store ───────────────────────────────────────────────────────────────

type stubCartStore struct {
	carts map[uuid.UUID]*cart.Cart
}

func newStubCartStore() *stubCartStore {
	return &stubCartStore{carts: make(map[uuid.UUID]*cart.Cart)}
}

func (s *stubCartStore) Get(_ context.Context, userID uuid.UUID) (*cart.Cart, error) {
	c, ok := s.carts[userID]
	if !ok {
		return cart.New(), nil
	}
	return c, nil
}

func (s *stubCartStore) Save(_ context.Context, userID uuid.UUID, c *cart.Cart) error {
	s.carts[userID] = c
	return nil
}

func (s *stubCartStore) Delete(_ context.Context, userID uuid.UUID) error {
	delete(s.carts, userID)
	return nil
}

var _ cart.Store = (*stubCartStore)(nil)
