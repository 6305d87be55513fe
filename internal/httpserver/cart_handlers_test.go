package httpserver

import (
	"encoding/json"
	"net/http"
	"testing"

	"github.com/Abdul1ayev/greenshop-api/internal/models"
	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/require"
)

func httpCode(t *testing.T, err error) int {
	t.Helper()
	var he *echo.HTTPError
	require.ErrorAs(t, err, &he)
	return he.Code
}

func TestAddToCartCreatesItem(t *testing.T) {
	env := newTestEnv(t)
	userID := uuid.New()
	product := env.createProduct("monstera", 30)

	rec, c := env.doJSONRequest(http.MethodPost, "/cart", map[string]any{
		"product_id": product.ID,
		"quantity":   2,
	}, userID)
	require.NoError(t, env.Cart.AddToCart(c))
	require.Equal(t, http.StatusCreated, rec.Code)

	var item models.CartItem
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &item))
	require.Equal(t, uint(2), item.Quantity)
	require.Equal(t, "60", item.TotalPrice.String())
}

func TestAddToCartRequiresAuth(t *testing.T) {
	env := newTestEnv(t)
	product := env.createProduct("fern", 10)

	_, c := env.doJSONRequest(http.MethodPost, "/cart", map[string]any{
		"product_id": product.ID,
	}, uuid.Nil)
	err := env.Cart.AddToCart(c)
	require.Equal(t, http.StatusUnauthorized, httpCode(t, err))
}

func TestAddToCartRejectsMissingProductID(t *testing.T) {
	env := newTestEnv(t)

	_, c := env.doJSONRequest(http.MethodPost, "/cart", map[string]any{
		"quantity": 1,
	}, uuid.New())
	err := env.Cart.AddToCart(c)
	require.Equal(t, http.StatusBadRequest, httpCode(t, err))
}

func TestAddToCartUnknownProduct(t *testing.T) {
	env := newTestEnv(t)

	_, c := env.doJSONRequest(http.MethodPost, "/cart", map[string]any{
		"product_id": uuid.New(),
		"quantity":   1,
	}, uuid.New())
	err := env.Cart.AddToCart(c)
	require.Equal(t, http.StatusNotFound, httpCode(t, err))
}

func TestGetCartReturnsJoinedLines(t *testing.T) {
	env := newTestEnv(t)
	userID := uuid.New()
	product := env.createProduct("cactus", 15)

	_, c := env.doJSONRequest(http.MethodPost, "/cart", map[string]any{
		"product_id": product.ID,
		"quantity":   3,
	}, userID)
	require.NoError(t, env.Cart.AddToCart(c))

	rec, c := env.doJSONRequest(http.MethodGet, "/cart", nil, userID)
	require.NoError(t, env.Cart.GetCart(c))
	require.Equal(t, http.StatusOK, rec.Code)

	var lines []models.CartLine
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &lines))
	require.Len(t, lines, 1)
	require.Equal(t, "cactus", lines[0].ProductName)
	require.Equal(t, "45", lines[0].TotalPrice.String())
}

func TestGetCartCount(t *testing.T) {
	env := newTestEnv(t)
	userID := uuid.New()
	for _, name := range []string{"aloe", "ivy"} {
		product := env.createProduct(name, 5)
		_, c := env.doJSONRequest(http.MethodPost, "/cart", map[string]any{
			"product_id": product.ID,
			"quantity":   1,
		}, userID)
		require.NoError(t, env.Cart.AddToCart(c))
	}

	rec, c := env.doJSONRequest(http.MethodGet, "/cart/count", nil, userID)
	require.NoError(t, env.Cart.GetCartCount(c))

	var resp map[string]int64
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	require.Equal(t, int64(2), resp["count"])
}

func TestUpdateQuantityZeroReportsRemoved(t *testing.T) {
	env := newTestEnv(t)
	userID := uuid.New()
	product := env.createProduct("palm", 20)

	rec, c := env.doJSONRequest(http.MethodPost, "/cart", map[string]any{
		"product_id": product.ID,
		"quantity":   1,
	}, userID)
	require.NoError(t, env.Cart.AddToCart(c))
	var item models.CartItem
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &item))

	rec, c = env.doJSONRequest(http.MethodPatch, "/cart/"+item.ID.String(), map[string]any{
		"quantity": 0,
	}, userID)
	c.SetParamNames("id")
	c.SetParamValues(item.ID.String())
	require.NoError(t, env.Cart.UpdateQuantity(c))

	var resp map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	require.Equal(t, true, resp["removed"])
}

func TestUpdateQuantityBadID(t *testing.T) {
	env := newTestEnv(t)

	_, c := env.doJSONRequest(http.MethodPatch, "/cart/nope", map[string]any{
		"quantity": 2,
	}, uuid.New())
	c.SetParamNames("id")
	c.SetParamValues("nope")
	err := env.Cart.UpdateQuantity(c)
	require.Equal(t, http.StatusBadRequest, httpCode(t, err))
}

func TestRemoveFromCartIsIdempotent(t *testing.T) {
	env := newTestEnv(t)
	userID := uuid.New()
	itemID := uuid.New()

	for i := 0; i < 2; i++ {
		rec, c := env.doJSONRequest(http.MethodDelete, "/cart/"+itemID.String(), nil, userID)
		c.SetParamNames("id")
		c.SetParamValues(itemID.String())
		require.NoError(t, env.Cart.RemoveFromCart(c))
		require.Equal(t, http.StatusOK, rec.Code)
	}
}

func TestClearCartEmptiesList(t *testing.T) {
	env := newTestEnv(t)
	userID := uuid.New()
	product := env.createProduct("bonsai", 50)

	_, c := env.doJSONRequest(http.MethodPost, "/cart", map[string]any{
		"product_id": product.ID,
		"quantity":   1,
	}, userID)
	require.NoError(t, env.Cart.AddToCart(c))

	_, c = env.doJSONRequest(http.MethodDelete, "/cart", nil, userID)
	require.NoError(t, env.Cart.ClearCart(c))

	rec, c := env.doJSONRequest(http.MethodGet, "/cart", nil, userID)
	require.NoError(t, env.Cart.GetCart(c))
	var lines []models.CartLine
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &lines))
	require.Empty(t, lines)
}
