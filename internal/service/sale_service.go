package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/Jotadose/palelu-app/internal/cart"
	"github.com/Jotadose/palelu-app/internal/dto"
	"github.com/Jotadose/palelu-app/internal/live"
	"github.com/Jotadose/palelu-app/internal/model"
	"github.com/Jotadose/palelu-app/internal/repository"
)

var (
	ErrEmptyCart      = cart.ErrEmpty
	ErrSaleNotFound   = errors.New("sale not found")
	ErrProductGone    = errors.New("product no longer available")
	ErrStockExceeded  = repository.ErrInsufficientStock
	ErrInvalidPayment = errors.New("invalid payment method")
)

type SaleService interface {
	Checkout(ctx context.Context, userID uuid.UUID, req dto.CheckoutRequest) (*dto.SaleResponse, error)
	Get(ctx context.Context, id uuid.UUID) (*dto.SaleResponse, error)
	List(ctx context.Context, filter dto.SaleFilter) (*dto.SaleListResponse, error)
}

type saleService struct {
	orders   repository.OrderRepository
	products repository.ProductRepository
	invMovs  repository.InventoryMovementRepository
	carts    cart.Store
	till     TillService
	feed     *live.Feed
}

func NewSaleService(
	orders repository.OrderRepository,
	products repository.ProductRepository,
	invMovs repository.InventoryMovementRepository,
	carts cart.Store,
	till TillService,
	feed *live.Feed,
) SaleService {
	return &saleService{
		orders:   orders,
		products: products,
		invMovs:  invMovs,
		carts:    carts,
		till:     till,
		feed:     feed,
	}
}

// Checkout commits the user's cart as a sale.
//
// All validation happens before the transaction opens: the cart is re-priced
// against the live catalog so stale cart snapshots can never sell at an old
// price, and stock is pre-checked for a friendly error. The guarded UPDATE
// inside the transaction remains the real stock arbiter under concurrency.
func (s *saleService) Checkout(ctx context.Context, userID uuid.UUID, req dto.CheckoutRequest) (*dto.SaleResponse, error) {
	c, err := s.carts.Get(ctx, userID)
	if err != nil {
		return nil, err
	}
	if c.Empty() {
		return nil, ErrEmptyCart
	}

	switch req.PaymentMethod {
	case model.PaymentCash, model.PaymentTransfer, model.PaymentCard:
	default:
		return nil, ErrInvalidPayment
	}

	// Pre-flight: resolve every line against the current catalog.
	type resolvedLine struct {
		product *model.Product
		qty     int
	}
	resolved := make([]resolvedLine, 0, len(c.Lines))
	total := decimal.Zero
	items := make([]model.OrderItem, 0, len(c.Lines))

	for _, line := range c.Lines {
		p, err := s.products.FindByID(ctx, line.ProductID)
		if err != nil || !p.Active {
			return nil, fmt.Errorf("%w: %s", ErrProductGone, line.Name)
		}
		if line.Quantity > p.Stock {
			return nil, fmt.Errorf("%w: %s (available %d)", ErrStockExceeded, p.Name, p.Stock)
		}
		subtotal := p.Price.Mul(decimal.NewFromInt(int64(line.Quantity)))
		items = append(items, model.OrderItem{
			ProductID: p.ID,
			Name:      p.Name,
			UnitPrice: p.Price,
			Quantity:  line.Quantity,
			Subtotal:  subtotal,
		})
		total = total.Add(subtotal)
		resolved = append(resolved, resolvedLine{product: p, qty: line.Quantity})
	}

	order := &model.Order{
		OrderNumber:   newOrderNumber(),
		Total:         total,
		PaymentMethod: req.PaymentMethod,
		Notes:         req.Notes,
		SellerID:      userID,
		SessionID:     s.till.OpenSessionID(ctx),
		Status:        model.OrderCompleted,
		CreatedAt:     time.Now(),
		Items:         items,
	}

	err = runTx(ctx, s.orders.DB(), func(tx *gorm.DB) error {
		if err := s.orders.Create(ctx, tx, order); err != nil {
			return err
		}
		for _, r := range resolved {
			if err := s.products.DecrementStockTx(tx, r.product.ID, r.qty); err != nil {
				return fmt.Errorf("%w: %s", err, r.product.Name)
			}
			mov := &model.InventoryMovement{
				ProductID:   r.product.ID,
				ProductName: r.product.Name,
				Type:        model.InvMovementSale,
				Quantity:    -r.qty,
				PrevStock:   r.product.Stock,
				NewStock:    r.product.Stock - r.qty,
				ReferenceID: &order.ID,
				CreatedAt:   time.Now(),
			}
			if err := s.invMovs.CreateTx(tx, mov); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	// Post-commit cleanup is best-effort: an orphaned cart expires via TTL.
	_ = s.carts.Delete(ctx, userID)
	if s.feed != nil {
		s.feed.Publish(ctx, live.TopicOrders)
		s.feed.Publish(ctx, live.TopicProducts)
	}

	return toSaleResponse(order), nil
}

func (s *saleService) Get(ctx context.Context, id uuid.UUID) (*dto.SaleResponse, error) {
	order, err := s.orders.FindByID(ctx, id)
	if err != nil {
		return nil, ErrSaleNotFound
	}
	return toSaleResponse(order), nil
}

func (s *saleService) List(ctx context.Context, filter dto.SaleFilter) (*dto.SaleListResponse, error) {
	orders, total, err := s.orders.List(ctx, filter)
	if err != nil {
		return nil, err
	}
	resp := &dto.SaleListResponse{
		Data:  make([]dto.SaleResponse, 0, len(orders)),
		Total: total,
		Page:  filter.Page,
		Limit: filter.Limit,
	}
	for i := range orders {
		resp.Data = append(resp.Data, *toSaleResponse(&orders[i]))
	}
	return resp, nil
}

// newOrderNumber builds a short display label for receipts. Uniqueness is the
// job of the order ID; the label only needs to be easy to read aloud.
func newOrderNumber() string {
	return fmt.Sprintf("P%06d", time.Now().UnixMilli()%1_000_000)
}

func toSaleResponse(o *model.Order) *dto.SaleResponse {
	resp := &dto.SaleResponse{
		ID:            o.ID.String(),
		OrderNumber:   o.OrderNumber,
		Total:         o.Total,
		PaymentMethod: o.PaymentMethod,
		Notes:         o.Notes,
		SellerID:      o.SellerID.String(),
		Status:        o.Status,
		CreatedAt:     o.CreatedAt.Format(time.RFC3339),
		Items:         make([]dto.SaleItemResponse, 0, len(o.Items)),
	}
	if o.SessionID != nil {
		sessionID := o.SessionID.String()
		resp.SessionID = &sessionID
	}
	for _, it := range o.Items {
		resp.Items = append(resp.Items, dto.SaleItemResponse{
			ProductID: it.ProductID.String(),
			Name:      it.Name,
			UnitPrice: it.UnitPrice,
			Quantity:  it.Quantity,
			Subtotal:  it.Subtotal,
		})
	}
	return resp
}
