package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
	"gorm.io/gorm"

	"github.com/Jotadose/palelu-app/internal/dto"
	"github.com/Jotadose/palelu-app/internal/infra"
	"github.com/Jotadose/palelu-app/internal/live"
	"github.com/Jotadose/palelu-app/internal/model"
	"github.com/Jotadose/palelu-app/internal/repository"
)

var (
	ErrProductNotFound = errors.New("product not found")
	ErrInvalidCategory = errors.New("invalid category")
)

type ProductService interface {
	Create(ctx context.Context, req dto.CreateProductRequest) (*dto.ProductResponse, error)
	Get(ctx context.Context, id uuid.UUID) (*dto.ProductResponse, error)
	List(ctx context.Context, filter dto.ProductFilter) (*dto.ProductListResponse, error)
	Update(ctx context.Context, id uuid.UUID, req dto.UpdateProductRequest) (*dto.ProductResponse, error)
	Deactivate(ctx context.Context, id uuid.UUID) error
	Reactivate(ctx context.Context, id uuid.UUID) error
	Shrinkage(ctx context.Context, id uuid.UUID, req dto.ShrinkageRequest) (*dto.InventoryMovementResponse, error)
	Movements(ctx context.Context, productID *uuid.UUID, limit int) ([]dto.InventoryMovementResponse, error)
	Describe(ctx context.Context, req dto.DescribeRequest) (*dto.DescribeResponse, error)
}

type productService struct {
	repo    repository.ProductRepository
	invMovs repository.InventoryMovementRepository
	textgen *infra.TextGenClient
	feed    *live.Feed
}

func NewProductService(
	repo repository.ProductRepository,
	invMovs repository.InventoryMovementRepository,
	textgen *infra.TextGenClient,
	feed *live.Feed,
) ProductService {
	return &productService{repo: repo, invMovs: invMovs, textgen: textgen, feed: feed}
}

func (s *productService) Create(ctx context.Context, req dto.CreateProductRequest) (*dto.ProductResponse, error) {
	category := model.Category(req.Category)
	if !category.Valid() {
		return nil, ErrInvalidCategory
	}

	p := &model.Product{
		Name:        req.Name,
		Description: req.Description,
		Category:    category,
		Price:       req.Price,
		Stock:       req.Stock,
		ImageURL:    req.ImageURL,
		Active:      true,
	}
	if err := s.repo.Create(ctx, p); err != nil {
		return nil, err
	}
	s.publish(ctx)
	return toProductResponse(p), nil
}

func (s *productService) Get(ctx context.Context, id uuid.UUID) (*dto.ProductResponse, error) {
	p, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, ErrProductNotFound
	}
	return toProductResponse(p), nil
}

func (s *productService) List(ctx context.Context, filter dto.ProductFilter) (*dto.ProductListResponse, error) {
	products, total, err := s.repo.List(ctx, filter)
	if err != nil {
		return nil, err
	}
	resp := &dto.ProductListResponse{
		Data:  make([]dto.ProductResponse, 0, len(products)),
		Total: total,
		Page:  filter.Page,
		Limit: filter.Limit,
	}
	for i := range products {
		resp.Data = append(resp.Data, *toProductResponse(&products[i]))
	}
	return resp, nil
}

func (s *productService) Update(ctx context.Context, id uuid.UUID, req dto.UpdateProductRequest) (*dto.ProductResponse, error) {
	category := model.Category(req.Category)
	if !category.Valid() {
		return nil, ErrInvalidCategory
	}

	p, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, ErrProductNotFound
	}

	p.Name = req.Name
	p.Description = req.Description
	p.Category = category
	p.Price = req.Price
	p.Stock = req.Stock
	p.ImageURL = req.ImageURL

	if err := s.repo.Update(ctx, p); err != nil {
		return nil, err
	}
	s.publish(ctx)
	return toProductResponse(p), nil
}

// Deactivate hides the product from the catalog. Sales history keeps its own
// name and price snapshots, so nothing is actually deleted.
func (s *productService) Deactivate(ctx context.Context, id uuid.UUID) error {
	if _, err := s.repo.FindByID(ctx, id); err != nil {
		return ErrProductNotFound
	}
	if err := s.repo.SoftDelete(ctx, id); err != nil {
		return err
	}
	s.publish(ctx)
	return nil
}

func (s *productService) Reactivate(ctx context.Context, id uuid.UUID) error {
	if _, err := s.repo.FindByID(ctx, id); err != nil {
		return ErrProductNotFound
	}
	if err := s.repo.Reactivate(ctx, id); err != nil {
		return err
	}
	s.publish(ctx)
	return nil
}

// Shrinkage records a stock loss not tied to a sale (breakage, expiry, ...).
// The guarded decrement and the ledger row share one transaction: stock can
// never drop below zero, and every unit that leaves is accounted for.
func (s *productService) Shrinkage(ctx context.Context, id uuid.UUID, req dto.ShrinkageRequest) (*dto.InventoryMovementResponse, error) {
	p, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, ErrProductNotFound
	}
	if req.Quantity > p.Stock {
		return nil, fmt.Errorf("%w: %s (available %d)", repository.ErrInsufficientStock, p.Name, p.Stock)
	}

	mov := &model.InventoryMovement{
		ProductID:   p.ID,
		ProductName: p.Name,
		Type:        model.InvMovementShrinkage,
		Quantity:    -req.Quantity,
		Reason:      req.Reason,
		Notes:       req.Notes,
		PrevStock:   p.Stock,
		NewStock:    p.Stock - req.Quantity,
		CreatedAt:   time.Now(),
	}

	err = runTx(ctx, s.repo.DB(), func(tx *gorm.DB) error {
		if err := s.repo.DecrementStockTx(tx, p.ID, req.Quantity); err != nil {
			return err
		}
		return s.invMovs.CreateTx(tx, mov)
	})
	if err != nil {
		return nil, err
	}

	s.publish(ctx)
	return toMovementResponse(mov), nil
}

func (s *productService) Movements(ctx context.Context, productID *uuid.UUID, limit int) ([]dto.InventoryMovementResponse, error) {
	if limit < 1 || limit > 200 {
		limit = 50
	}
	var (
		movs []model.InventoryMovement
		err  error
	)
	if productID != nil {
		movs, err = s.invMovs.ListByProduct(ctx, *productID, limit)
	} else {
		movs, err = s.invMovs.ListRecent(ctx, limit)
	}
	if err != nil {
		return nil, err
	}
	out := make([]dto.InventoryMovementResponse, 0, len(movs))
	for i := range movs {
		out = append(out, *toMovementResponse(&movs[i]))
	}
	return out, nil
}

// Describe asks the text-generation sidecar for marketing copy. Degrades to an
// empty description when the sidecar is down or its breaker is open: the form
// field stays blank and the cashier types one by hand.
func (s *productService) Describe(ctx context.Context, req dto.DescribeRequest) (*dto.DescribeResponse, error) {
	if s.textgen == nil {
		return &dto.DescribeResponse{}, nil
	}
	text, err := s.textgen.GenerateDescription(ctx, req.Name, req.Category)
	if err != nil {
		log.Warn().Err(err).Str("product", req.Name).Msg("description generation degraded")
		return &dto.DescribeResponse{}, nil
	}
	return &dto.DescribeResponse{Description: text}, nil
}

func (s *productService) publish(ctx context.Context) {
	if s.feed != nil {
		s.feed.Publish(ctx, live.TopicProducts)
	}
}

func toProductResponse(p *model.Product) *dto.ProductResponse {
	return &dto.ProductResponse{
		ID:          p.ID.String(),
		Name:        p.Name,
		Description: p.Description,
		Category:    string(p.Category),
		Price:       p.Price,
		Stock:       p.Stock,
		ImageURL:    p.ImageURL,
		Active:      p.Active,
		CreatedAt:   p.CreatedAt.Format(time.RFC3339),
	}
}

func toMovementResponse(m *model.InventoryMovement) *dto.InventoryMovementResponse {
	resp := &dto.InventoryMovementResponse{
		ID:          m.ID.String(),
		ProductID:   m.ProductID.String(),
		ProductName: m.ProductName,
		Type:        m.Type,
		Quantity:    m.Quantity,
		Reason:      m.Reason,
		Notes:       m.Notes,
		PrevStock:   m.PrevStock,
		NewStock:    m.NewStock,
		CreatedAt:   m.CreatedAt.Format(time.RFC3339),
	}
	if m.ReferenceID != nil {
		ref := m.ReferenceID.String()
		resp.ReferenceID = &ref
	}
	return resp
}
