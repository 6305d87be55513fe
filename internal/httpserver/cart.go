package httpserver

import (
	"net/http"

	"github.com/Abdul1ayev/greenshop-api/internal/logging"
	"github.com/Abdul1ayev/greenshop-api/internal/service"
	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
)

type CartHTTP struct {
	Svc *service.CartService
}

func (h *CartHTTP) GetCart(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "cart.get")

	userID, err := GetID(c)
	if err != nil {
		return serviceError(err)
	}

	lines, err := h.Svc.ListForUser(ctx, userID)
	if err != nil {
		l.Error("get_cart_error", "error", err)
		return serviceError(err)
	}
	return c.JSON(http.StatusOK, lines)
}

func (h *CartHTTP) GetCartCount(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "cart.count")

	userID, err := GetID(c)
	if err != nil {
		return serviceError(err)
	}

	n, err := h.Svc.Count(ctx, userID)
	if err != nil {
		l.Error("cart_count_error", "error", err)
		return serviceError(err)
	}
	return c.JSON(http.StatusOK, map[string]int64{"count": n})
}

func (h *CartHTTP) AddToCart(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "cart.add")

	userID, err := GetID(c)
	if err != nil {
		return serviceError(err)
	}

	var req struct {
		ProductID uuid.UUID `json:"product_id"`
		Quantity  uint      `json:"quantity"`
	}
	if err := c.Bind(&req); err != nil {
		l.Warn("add_to_cart_error", "status", 400, "reason", "invalid body", "error", err)
		return echo.NewHTTPError(http.StatusBadRequest, "invalid body")
	}
	if req.ProductID == uuid.Nil {
		return echo.NewHTTPError(http.StatusBadRequest, "product_id required")
	}

	item, err := h.Svc.AddOrIncrement(ctx, userID, req.ProductID, req.Quantity)
	if err != nil {
		l.Warn("add_to_cart_error", "error", err)
		return serviceError(err)
	}

	l.Info("cart_item_added", "item_id", item.ID, "quantity", item.Quantity)
	return c.JSON(http.StatusCreated, item)
}

func (h *CartHTTP) UpdateQuantity(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "cart.update_quantity")

	userID, err := GetID(c)
	if err != nil {
		return serviceError(err)
	}

	itemID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "id not a uuid")
	}

	var req struct {
		Quantity int `json:"quantity"`
	}
	if err := c.Bind(&req); err != nil {
		l.Warn("update_quantity_error", "status", 400, "reason", "invalid body", "error", err)
		return echo.NewHTTPError(http.StatusBadRequest, "invalid body")
	}

	item, err := h.Svc.SetQuantity(ctx, userID, itemID, req.Quantity)
	if err != nil {
		l.Warn("update_quantity_error", "error", err)
		return serviceError(err)
	}
	if item == nil {
		// quantity dropped to zero, the row is gone
		return c.JSON(http.StatusOK, map[string]any{"item_id": itemID, "removed": true})
	}
	return c.JSON(http.StatusOK, item)
}

func (h *CartHTTP) RemoveFromCart(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "cart.remove")

	userID, err := GetID(c)
	if err != nil {
		return serviceError(err)
	}

	itemID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "id not a uuid")
	}

	if err := h.Svc.Remove(ctx, userID, itemID); err != nil {
		l.Error("remove_from_cart_error", "error", err)
		return serviceError(err)
	}
	return c.JSON(http.StatusOK, map[string]any{"item_id": itemID, "removed": true})
}

func (h *CartHTTP) ClearCart(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "cart.clear")

	userID, err := GetID(c)
	if err != nil {
		return serviceError(err)
	}

	if err := h.Svc.ClearForUser(ctx, userID); err != nil {
		l.Error("clear_cart_error", "error", err)
		return serviceError(err)
	}

	l.Info("cart_cleared")
	return c.JSON(http.StatusOK, "cart cleared")
}
