package store

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"github.com/talkincode/toughstore/internal/domain"
	"github.com/talkincode/toughstore/pkg/common"
	"github.com/talkincode/toughstore/pkg/metrics"
)

var (
	ErrOutOfStock      = errors.New("not enough stock for this product")
	ErrInvalidQuantity = errors.New("quantity must be between 1 and the product stock")
)

// CartService enforces the cart invariants: one row per (user, product) and
// quantity always within [1, stock].
type CartService struct {
	carts    CartRepository
	products ProductRepository
}

func NewCartService(carts CartRepository, products ProductRepository) *CartService {
	return &CartService{carts: carts, products: products}
}

// Add puts one unit of the product into the user's cart. An existing row is
// incremented instead of duplicated.
func (s *CartService) Add(ctx context.Context, userID, productID int64) (*domain.CartItem, error) {
	product, err := s.products.GetByID(ctx, productID)
	if err != nil {
		return nil, err
	}

	item, err := s.carts.GetByUserAndProduct(ctx, userID, productID)
	switch {
	case errors.Is(err, gorm.ErrRecordNotFound):
		if product.Stock < 1 {
			return nil, ErrOutOfStock
		}
		item = &domain.CartItem{
			ID:        common.UUIDint64(),
			UserId:    userID,
			ProductId: productID,
			Quantity:  1,
		}
		if err := s.carts.Create(ctx, item); err != nil {
			return nil, err
		}
	case err != nil:
		return nil, err
	default:
		if item.Quantity+1 > product.Stock {
			return nil, ErrOutOfStock
		}
		item.Quantity++
		if err := s.carts.UpdateQuantity(ctx, item.ID, item.Quantity); err != nil {
			return nil, err
		}
	}

	metrics.CounterIncr(metrics.StoreCartAdd)
	return item, nil
}

// UpdateQuantity sets an absolute quantity, rejected outside [1, stock].
func (s *CartService) UpdateQuantity(ctx context.Context, itemID int64, qty int) error {
	if qty < 1 {
		return ErrInvalidQuantity
	}
	item, err := s.carts.GetItem(ctx, itemID)
	if err != nil {
		return err
	}
	product, err := s.products.GetByID(ctx, item.ProductId)
	if err != nil {
		return err
	}
	if qty > product.Stock {
		return ErrInvalidQuantity
	}
	return s.carts.UpdateQuantity(ctx, itemID, qty)
}

// Remove deletes the cart row unconditionally.
func (s *CartService) Remove(ctx context.Context, itemID int64) error {
	return s.carts.Delete(ctx, itemID)
}

// Lines returns the user's cart resolved against current product rows.
func (s *CartService) Lines(ctx context.Context, userID int64) ([]CartLine, error) {
	return s.carts.LinesByUser(ctx, userID)
}
