package service

import (
	"context"
	"fmt"

	"github.com/Abdul1ayev/greenshop-api/internal/events"
	"github.com/Abdul1ayev/greenshop-api/internal/logging"
	"github.com/Abdul1ayev/greenshop-api/internal/models"
	"github.com/Abdul1ayev/greenshop-api/internal/repo"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Contact is the billing form the customer fills in at checkout.
type Contact struct {
	Name    string
	Phone   string
	Address string
	Notes   string
}

// CheckoutService converts a cart into an immutable order in a single-shot
// workflow. Line items snapshot the cart rows, so a product price change
// between add-to-cart and checkout does not move the total.
type CheckoutService struct {
	Repo *repo.GormRepo
	Cart *CartService
	Bus  *events.Bus
}

// Checkout runs the whole pipeline: load cart, refuse if empty, create the
// order with its line items atomically, then clear the cart. A cart clear
// failure after the order committed comes back as ErrPartialCheckout together
// with the created order, so the caller can tell the user the order exists.
//
// Double submission is not guarded here; the UI disables the submit button
// while a request is in flight.
func (s *CheckoutService) Checkout(ctx context.Context, userID uuid.UUID, contact Contact) (*models.Order, error) {
	if userID == uuid.Nil {
		return nil, ErrUnauthenticated
	}
	l := logging.FromContext(ctx).With("svc", "checkout", "user_id", userID)

	lines, err := s.Repo.ListCartForUser(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrBackendUnavailable, err)
	}
	if len(lines) == 0 {
		return nil, fmt.Errorf("%w: nothing to check out", ErrEmptyCart)
	}

	// every snapshot comes from the cart rows; the product table is not
	// re-read here, so a price change since add-to-cart does not leak in
	total := decimal.Zero
	items := make([]models.OrderItem, 0, len(lines))
	for _, line := range lines {
		total = total.Add(line.TotalPrice)
		items = append(items, models.OrderItem{
			ProductID:  line.ProductID,
			Quantity:   line.Quantity,
			UnitPrice:  line.TotalPrice.Div(decimal.NewFromInt(int64(line.Quantity))),
			TotalPrice: line.TotalPrice,
		})
	}

	order := &models.Order{
		UserID:     userID,
		Name:       contact.Name,
		Phone:      contact.Phone,
		Address:    contact.Address,
		Notes:      contact.Notes,
		TotalPrice: total,
		Status:     models.OrderStatusPending,
		Items:      items,
	}
	if err := s.Repo.CreateOrderWithItems(ctx, order); err != nil {
		return nil, fmt.Errorf("%w: create order: %v", ErrBackendUnavailable, err)
	}

	if err := s.Cart.ClearForUser(ctx, userID); err != nil {
		l.Error("checkout_cart_clear_failed", "order_id", order.ID, "error", err)
		return order, fmt.Errorf("%w: order %s created but cart not cleared: %v", ErrPartialCheckout, order.ID, err)
	}

	s.Bus.Publish(ctx, events.Event{
		Table:  "orders",
		Type:   "order_created",
		UserID: userID,
		Payload: map[string]any{
			"order_id":    order.ID,
			"total_price": order.TotalPrice,
			"items":       len(order.Items),
		},
	})

	l.Info("checkout_success", "order_id", order.ID, "total", order.TotalPrice)
	return order, nil
}

func (s *CheckoutService) ListOrders(ctx context.Context, userID uuid.UUID, limit, offset int) ([]models.Order, error) {
	if userID == uuid.Nil {
		return nil, ErrUnauthenticated
	}
	orders, err := s.Repo.ListOrdersForUser(ctx, userID, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrBackendUnavailable, err)
	}
	return orders, nil
}

func (s *CheckoutService) GetOrder(ctx context.Context, userID, orderID uuid.UUID) (*models.Order, error) {
	if userID == uuid.Nil {
		return nil, ErrUnauthenticated
	}
	order, err := s.Repo.GetOrderForUser(ctx, orderID, userID)
	if err != nil {
		if isNotFound(err) {
			return nil, fmt.Errorf("%w: order %s", ErrNotFound, orderID)
		}
		return nil, fmt.Errorf("%w: %v", ErrBackendUnavailable, err)
	}
	return order, nil
}
