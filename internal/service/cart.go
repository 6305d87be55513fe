package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/Abdul1ayev/greenshop-api/internal/events"
	"github.com/Abdul1ayev/greenshop-api/internal/models"
	"github.com/Abdul1ayev/greenshop-api/internal/repo"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// CartService owns the per-user cart rows. Every mutation keeps the
// total_price = quantity * product-price-at-mutation invariant and publishes
// a change event on the "cart" table.
//
// Concurrent mutations from two sessions of the same user are
// last-writer-wins; there is no row locking here on purpose.
type CartService struct {
	Repo *repo.GormRepo
	Bus  *events.Bus
}

func (s *CartService) AddOrIncrement(ctx context.Context, userID, productID uuid.UUID, qty uint) (*models.CartItem, error) {
	if userID == uuid.Nil {
		return nil, ErrUnauthenticated
	}
	if productID == uuid.Nil {
		return nil, fmt.Errorf("%w: product_id required", ErrValidation)
	}
	if qty == 0 {
		qty = 1
	}

	product, err := s.Repo.GetProduct(ctx, productID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("%w: product %s", ErrNotFound, productID)
		}
		return nil, fmt.Errorf("%w: %v", ErrBackendUnavailable, err)
	}
	if !product.Active {
		return nil, fmt.Errorf("%w: product %s is inactive", ErrNotFound, productID)
	}

	item := &models.CartItem{
		UserID:     userID,
		ProductID:  productID,
		Quantity:   qty,
		TotalPrice: product.Price.Mul(decimal.NewFromInt(int64(qty))),
	}
	if err := s.Repo.AddOrIncrementCartItem(ctx, item, product.Price); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrBackendUnavailable, err)
	}

	s.Bus.Publish(ctx, events.Event{
		Table:  "cart",
		Type:   "cart_item_added",
		UserID: userID,
		Payload: map[string]any{
			"item_id":     item.ID,
			"product_id":  productID,
			"quantity":    item.Quantity,
			"total_price": item.TotalPrice,
		},
	})
	return item, nil
}

// SetQuantity updates a cart row to an absolute quantity. A quantity of zero
// or less is a removal, never a stored non-positive row. The returned item is
// nil when the call ended up removing the row.
func (s *CartService) SetQuantity(ctx context.Context, userID, itemID uuid.UUID, qty int) (*models.CartItem, error) {
	if userID == uuid.Nil {
		return nil, ErrUnauthenticated
	}
	if qty <= 0 {
		return nil, s.Remove(ctx, userID, itemID)
	}

	item, err := s.Repo.GetCartItemForUser(ctx, itemID, userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("%w: cart item %s", ErrNotFound, itemID)
		}
		return nil, fmt.Errorf("%w: %v", ErrBackendUnavailable, err)
	}

	product, err := s.Repo.GetProduct(ctx, item.ProductID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("%w: product %s", ErrNotFound, item.ProductID)
		}
		return nil, fmt.Errorf("%w: %v", ErrBackendUnavailable, err)
	}

	item.Quantity = uint(qty)
	item.TotalPrice = product.Price.Mul(decimal.NewFromInt(int64(qty)))
	if err := s.Repo.SaveCartItem(ctx, item); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrBackendUnavailable, err)
	}

	s.Bus.Publish(ctx, events.Event{
		Table:  "cart",
		Type:   "cart_item_updated",
		UserID: userID,
		Payload: map[string]any{
			"item_id":     item.ID,
			"quantity":    item.Quantity,
			"total_price": item.TotalPrice,
		},
	})
	return item, nil
}

// Remove deletes a cart row. Removing an id that does not exist is a success:
// a second click on the trash button must not produce an error toast.
func (s *CartService) Remove(ctx context.Context, userID, itemID uuid.UUID) error {
	if userID == uuid.Nil {
		return ErrUnauthenticated
	}

	if err := s.Repo.DeleteCartItem(ctx, itemID, userID); err != nil {
		return fmt.Errorf("%w: %v", ErrBackendUnavailable, err)
	}

	s.Bus.Publish(ctx, events.Event{
		Table:  "cart",
		Type:   "cart_item_removed",
		UserID: userID,
		Payload: map[string]any{
			"item_id": itemID,
		},
	})
	return nil
}

func (s *CartService) ListForUser(ctx context.Context, userID uuid.UUID) ([]models.CartLine, error) {
	if userID == uuid.Nil {
		return nil, ErrUnauthenticated
	}
	lines, err := s.Repo.ListCartForUser(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrBackendUnavailable, err)
	}
	return lines, nil
}

func (s *CartService) Count(ctx context.Context, userID uuid.UUID) (int64, error) {
	if userID == uuid.Nil {
		return 0, ErrUnauthenticated
	}
	n, err := s.Repo.CountCartForUser(ctx, userID)
	if err != nil {
		return 0, fmt.Errorf("%w: %v", ErrBackendUnavailable, err)
	}
	return n, nil
}

// ClearForUser bulk-deletes the user's cart rows. Clearing an already empty
// cart is a no-op success.
func (s *CartService) ClearForUser(ctx context.Context, userID uuid.UUID) error {
	if userID == uuid.Nil {
		return ErrUnauthenticated
	}

	if err := s.Repo.DeleteAllCartForUser(ctx, userID); err != nil {
		return fmt.Errorf("%w: %v", ErrBackendUnavailable, err)
	}

	s.Bus.Publish(ctx, events.Event{
		Table:  "cart",
		Type:   "cart_cleared",
		UserID: userID,
	})
	return nil
}
