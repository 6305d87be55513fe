package httpserver

import (
	"errors"
	"net/http"

	"github.com/Abdul1ayev/greenshop-api/internal/logging"
	"github.com/Abdul1ayev/greenshop-api/internal/service"
	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
)

type CheckoutHTTP struct {
	Svc *service.CheckoutService
}

func (h *CheckoutHTTP) Checkout(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "checkout")

	userID, err := GetID(c)
	if err != nil {
		return serviceError(err)
	}

	var req struct {
		Name    string `json:"name"`
		Phone   string `json:"phone"`
		Address string `json:"address"`
		Notes   string `json:"notes"`
	}
	if err := c.Bind(&req); err != nil {
		l.Warn("checkout_error", "status", 400, "reason", "invalid body", "error", err)
		return echo.NewHTTPError(http.StatusBadRequest, "invalid body")
	}

	order, err := h.Svc.Checkout(ctx, userID, service.Contact{
		Name:    req.Name,
		Phone:   req.Phone,
		Address: req.Address,
		Notes:   req.Notes,
	})
	if err != nil {
		if errors.Is(err, service.ErrPartialCheckout) {
			// the order exists; the caller must not retry blindly
			l.Error("checkout_partial", "order_id", order.ID, "error", err)
			return c.JSON(http.StatusInternalServerError, map[string]any{
				"error":    "order created but cart was not cleared",
				"order_id": order.ID,
			})
		}
		l.Warn("checkout_error", "error", err)
		return serviceError(err)
	}

	return c.JSON(http.StatusCreated, order)
}

func (h *CheckoutHTTP) ListOrders(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "orders.list")

	userID, err := GetID(c)
	if err != nil {
		return serviceError(err)
	}

	page := ParseIntDefault(c.QueryParam("page"), 1)
	size := ParseIntDefault(c.QueryParam("size"), 20)
	if page < 1 {
		page = 1
	}
	if size <= 0 || size > 100 {
		size = 20
	}

	orders, err := h.Svc.ListOrders(ctx, userID, size, (page-1)*size)
	if err != nil {
		l.Error("list_orders_error", "error", err)
		return serviceError(err)
	}
	return c.JSON(http.StatusOK, orders)
}

func (h *CheckoutHTTP) GetOrder(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "orders.get")

	userID, err := GetID(c)
	if err != nil {
		return serviceError(err)
	}

	orderID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "id not a uuid")
	}

	order, err := h.Svc.GetOrder(ctx, userID, orderID)
	if err != nil {
		l.Warn("get_order_error", "error", err)
		return serviceError(err)
	}
	return c.JSON(http.StatusOK, order)
}
