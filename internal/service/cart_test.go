package service

import (
	"context"
	"testing"

	"github.com/Abdul1ayev/greenshop-api/internal/events"
	"github.com/Abdul1ayev/greenshop-api/internal/models"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
)

func TestAddOrIncrementAccumulates(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	userID := uuid.New()
	product := env.createProduct(t, "monstera", 10, true)

	item, err := env.Cart.AddOrIncrement(ctx, userID, product.ID, 2)
	require.NoError(t, err)
	require.Equal(t, uint(2), item.Quantity)
	require.True(t, item.TotalPrice.Equal(decimal.NewFromInt(20)), "got %s", item.TotalPrice)

	item, err = env.Cart.AddOrIncrement(ctx, userID, product.ID, 3)
	require.NoError(t, err)
	require.Equal(t, uint(3+2), item.Quantity)
	require.True(t, item.TotalPrice.Equal(decimal.NewFromInt(50)), "got %s", item.TotalPrice)

	lines, err := env.Cart.ListForUser(ctx, userID)
	require.NoError(t, err)
	require.Len(t, lines, 1, "one row per (user, product)")
}

func TestAddOrIncrementDefaultsQuantityToOne(t *testing.T) {
	env := newTestEnv(t)
	userID := uuid.New()
	product := env.createProduct(t, "cactus", 7, true)

	item, err := env.Cart.AddOrIncrement(context.Background(), userID, product.ID, 0)
	require.NoError(t, err)
	require.Equal(t, uint(1), item.Quantity)
	require.True(t, item.TotalPrice.Equal(decimal.NewFromInt(7)))
}

func TestAddOrIncrementUnknownProduct(t *testing.T) {
	env := newTestEnv(t)

	_, err := env.Cart.AddOrIncrement(context.Background(), uuid.New(), uuid.New(), 1)
	require.ErrorIs(t, err, ErrNotFound)
}

func TestAddOrIncrementInactiveProduct(t *testing.T) {
	env := newTestEnv(t)
	product := env.createProduct(t, "discontinued fern", 12, false)

	_, err := env.Cart.AddOrIncrement(context.Background(), uuid.New(), product.ID, 1)
	require.ErrorIs(t, err, ErrNotFound)
}

func TestSetQuantityRecomputesTotal(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	userID := uuid.New()
	product := env.createProduct(t, "ficus", 10, true)

	item, err := env.Cart.AddOrIncrement(ctx, userID, product.ID, 1)
	require.NoError(t, err)

	updated, err := env.Cart.SetQuantity(ctx, userID, item.ID, 4)
	require.NoError(t, err)
	require.Equal(t, uint(4), updated.Quantity)
	require.True(t, updated.TotalPrice.Equal(decimal.NewFromInt(40)), "got %s", updated.TotalPrice)
}

func TestSetQuantityZeroOrNegativeRemoves(t *testing.T) {
	for _, qty := range []int{0, -5} {
		env := newTestEnv(t)
		ctx := context.Background()
		userID := uuid.New()
		product := env.createProduct(t, "rose", 10, true)

		item, err := env.Cart.AddOrIncrement(ctx, userID, product.ID, 2)
		require.NoError(t, err)

		removed, err := env.Cart.SetQuantity(ctx, userID, item.ID, qty)
		require.NoError(t, err)
		require.Nil(t, removed)

		lines, err := env.Cart.ListForUser(ctx, userID)
		require.NoError(t, err)
		require.Empty(t, lines)
	}
}

func TestSetQuantityUnknownItem(t *testing.T) {
	env := newTestEnv(t)

	_, err := env.Cart.SetQuantity(context.Background(), uuid.New(), uuid.New(), 3)
	require.ErrorIs(t, err, ErrNotFound)
}

func TestRemoveUnknownItemIsNoop(t *testing.T) {
	env := newTestEnv(t)

	err := env.Cart.Remove(context.Background(), uuid.New(), uuid.New())
	require.NoError(t, err, "removing a missing row tolerates double-clicks")
}

func TestRemoveDeletesRow(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	userID := uuid.New()
	product := env.createProduct(t, "tulip", 3, true)

	item, err := env.Cart.AddOrIncrement(ctx, userID, product.ID, 1)
	require.NoError(t, err)

	require.NoError(t, env.Cart.Remove(ctx, userID, item.ID))
	require.NoError(t, env.Cart.Remove(ctx, userID, item.ID), "second remove still succeeds")

	n, err := env.Cart.Count(ctx, userID)
	require.NoError(t, err)
	require.Zero(t, n)
}

func TestRemoveScopedToUser(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	owner := uuid.New()
	product := env.createProduct(t, "orchid", 30, true)

	item, err := env.Cart.AddOrIncrement(ctx, owner, product.ID, 1)
	require.NoError(t, err)

	require.NoError(t, env.Cart.Remove(ctx, uuid.New(), item.ID), "other user's remove is a no-op")

	lines, err := env.Cart.ListForUser(ctx, owner)
	require.NoError(t, err)
	require.Len(t, lines, 1)
}

func TestListForUserJoinsProductFields(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	userID := uuid.New()
	product := env.createProduct(t, "bonsai", 45, true)

	_, err := env.Cart.AddOrIncrement(ctx, userID, product.ID, 2)
	require.NoError(t, err)

	lines, err := env.Cart.ListForUser(ctx, userID)
	require.NoError(t, err)
	require.Len(t, lines, 1)
	require.Equal(t, "bonsai", lines[0].ProductName)
	require.True(t, lines[0].ProductPrice.Equal(decimal.NewFromInt(45)))
	require.Equal(t, models.ImageList{"https://img.example/bonsai.jpg"}, lines[0].ProductImages)
	require.True(t, lines[0].TotalPrice.Equal(decimal.NewFromInt(90)))
}

func TestClearForUserIdempotent(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	userID := uuid.New()
	product := env.createProduct(t, "ivy", 5, true)

	_, err := env.Cart.AddOrIncrement(ctx, userID, product.ID, 2)
	require.NoError(t, err)

	require.NoError(t, env.Cart.ClearForUser(ctx, userID))
	require.NoError(t, env.Cart.ClearForUser(ctx, userID), "clearing an empty cart never errors")

	lines, err := env.Cart.ListForUser(ctx, userID)
	require.NoError(t, err)
	require.Empty(t, lines)
}

func TestCartMutationsPublishEvents(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	userID := uuid.New()
	product := env.createProduct(t, "basil", 2, true)

	var got []events.Event
	unsubscribe := env.Hub.Subscribe("cart", func(e events.Event) bool {
		return e.UserID == userID
	}, func(e events.Event) {
		got = append(got, e)
	})
	defer unsubscribe()

	item, err := env.Cart.AddOrIncrement(ctx, userID, product.ID, 1)
	require.NoError(t, err)
	require.NoError(t, env.Cart.Remove(ctx, userID, item.ID))

	require.Len(t, got, 2)
	require.Equal(t, "cart_item_added", got[0].Type)
	require.Equal(t, "cart_item_removed", got[1].Type)

	// another user's mutation does not match the predicate
	_, err = env.Cart.AddOrIncrement(ctx, uuid.New(), product.ID, 1)
	require.NoError(t, err)
	require.Len(t, got, 2)
}
