package service

import (
	"context"
	"sort"

	"github.com/google/uuid"

	"github.com/Jotadose/palelu-app/internal/cart"
	"github.com/Jotadose/palelu-app/internal/dto"
	"github.com/Jotadose/palelu-app/internal/repository"
)

type CartService interface {
	Get(ctx context.Context, userID uuid.UUID) (*dto.CartResponse, error)
	AddItem(ctx context.Context, userID uuid.UUID, req dto.AddCartItemRequest) (*dto.CartResponse, error)
	SetQuantity(ctx context.Context, userID, productID uuid.UUID, req dto.SetCartQuantityRequest) (*dto.CartResponse, error)
	RemoveItem(ctx context.Context, userID, productID uuid.UUID) (*dto.CartResponse, error)
	Clear(ctx context.Context, userID uuid.UUID) error
}

type cartService struct {
	carts    cart.Store
	products repository.ProductRepository
}

func NewCartService(carts cart.Store, products repository.ProductRepository) CartService {
	return &cartService{carts: carts, products: products}
}

func (s *cartService) Get(ctx context.Context, userID uuid.UUID) (*dto.CartResponse, error) {
	c, err := s.carts.Get(ctx, userID)
	if err != nil {
		return nil, err
	}
	return toCartResponse(c), nil
}

// AddItem re-reads the product so the line snapshots the current name, price
// and stock, not whatever the client last rendered.
func (s *cartService) AddItem(ctx context.Context, userID uuid.UUID, req dto.AddCartItemRequest) (*dto.CartResponse, error) {
	productID, err := uuid.Parse(req.ProductID)
	if err != nil {
		return nil, ErrProductNotFound
	}
	p, err := s.products.FindByID(ctx, productID)
	if err != nil || !p.Active {
		return nil, ErrProductNotFound
	}

	c, err := s.carts.Get(ctx, userID)
	if err != nil {
		return nil, err
	}
	if err := c.Add(p, req.Quantity); err != nil {
		return nil, err
	}
	if err := s.carts.Save(ctx, userID, c); err != nil {
		return nil, err
	}
	return toCartResponse(c), nil
}

func (s *cartService) SetQuantity(ctx context.Context, userID, productID uuid.UUID, req dto.SetCartQuantityRequest) (*dto.CartResponse, error) {
	c, err := s.carts.Get(ctx, userID)
	if err != nil {
		return nil, err
	}
	if err := c.SetQuantity(productID, req.Quantity); err != nil {
		return nil, err
	}
	if err := s.carts.Save(ctx, userID, c); err != nil {
		return nil, err
	}
	return toCartResponse(c), nil
}

func (s *cartService) RemoveItem(ctx context.Context, userID, productID uuid.UUID) (*dto.CartResponse, error) {
	c, err := s.carts.Get(ctx, userID)
	if err != nil {
		return nil, err
	}
	if _, ok := c.Lines[productID]; !ok {
		return nil, cart.ErrNotInCart
	}
	c.Remove(productID)
	if err := s.carts.Save(ctx, userID, c); err != nil {
		return nil, err
	}
	return toCartResponse(c), nil
}

func (s *cartService) Clear(ctx context.Context, userID uuid.UUID) error {
	return s.carts.Delete(ctx, userID)
}

// toCartResponse renders lines in name order so the ticket view is stable
// across requests (map iteration order is not).
func toCartResponse(c *cart.Cart) *dto.CartResponse {
	resp := &dto.CartResponse{
		Lines: make([]dto.CartLineResponse, 0, len(c.Lines)),
		Total: c.Total(),
	}
	for _, l := range c.Lines {
		resp.Lines = append(resp.Lines, dto.CartLineResponse{
			ProductID: l.ProductID.String(),
			Name:      l.Name,
			UnitPrice: l.UnitPrice,
			Quantity:  l.Quantity,
			Subtotal:  l.Subtotal(),
		})
	}
	sort.Slice(resp.Lines, func(i, j int) bool { return resp.Lines[i].Name < resp.Lines[j].Name })
	return resp
}
