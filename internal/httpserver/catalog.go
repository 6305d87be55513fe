package httpserver

import (
	"net/http"

	"github.com/Abdul1ayev/greenshop-api/internal/logging"
	"github.com/Abdul1ayev/greenshop-api/internal/repo"
	"github.com/Abdul1ayev/greenshop-api/internal/service"
	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/shopspring/decimal"
)

type CatalogHTTP struct {
	Svc *service.CatalogService
}

func (h *CatalogHTTP) GetCategories(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "catalog.get_categories")

	cats, err := h.Svc.Categories(ctx)
	if err != nil {
		l.Error("get_categories_error", "error", err)
		return serviceError(err)
	}
	return c.JSON(http.StatusOK, cats)
}

func (h *CatalogHTTP) GetProducts(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "catalog.get_products")

	var f repo.ProductFilter
	if v := c.QueryParam("category_id"); v != "" {
		id, err := uuid.Parse(v)
		if err != nil {
			l.Warn("get_products_error", "status", 400, "reason", "category_id not a uuid")
			return echo.NewHTTPError(http.StatusBadRequest, "category_id not a uuid")
		}
		f.CategoryID = id
	}
	if v := c.QueryParam("min_price"); v != "" {
		p, err := decimal.NewFromString(v)
		if err != nil {
			return echo.NewHTTPError(http.StatusBadRequest, "min_price not a number")
		}
		f.MinPrice = &p
	}
	if v := c.QueryParam("max_price"); v != "" {
		p, err := decimal.NewFromString(v)
		if err != nil {
			return echo.NewHTTPError(http.StatusBadRequest, "max_price not a number")
		}
		f.MaxPrice = &p
	}
	f.Query = c.QueryParam("q")
	f.ActiveOnly = c.QueryParam("active") == "true"

	items, err := h.Svc.Products(ctx, f)
	if err != nil {
		l.Error("get_products_error", "error", err)
		return serviceError(err)
	}
	return c.JSON(http.StatusOK, items)
}

func (h *CatalogHTTP) GetProduct(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "catalog.get_product")

	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		l.Warn("get_product_error", "status", 400, "reason", "id not a uuid")
		return echo.NewHTTPError(http.StatusBadRequest, "id not a uuid")
	}

	product, err := h.Svc.Product(ctx, id)
	if err != nil {
		l.Warn("get_product_error", "error", err)
		return serviceError(err)
	}
	return c.JSON(http.StatusOK, product)
}

func (h *CatalogHTTP) SearchProducts(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "catalog.search_products")

	query := c.QueryParam("q")
	page := ParseIntDefault(c.QueryParam("page"), 1)
	size := ParseIntDefault(c.QueryParam("size"), 20)
	if page < 1 {
		page = 1
	}
	if size <= 0 || size > 100 {
		size = 20
	}
	from := (page - 1) * size

	total, items, err := h.Svc.SearchProducts(ctx, query, from, size)
	if err != nil {
		l.Warn("search_products_error", "error", err)
		return serviceError(err)
	}

	return c.JSON(http.StatusOK, map[string]any{
		"data": items,
		"meta": map[string]any{
			"page":  page,
			"size":  size,
			"total": total,
		},
	})
}
