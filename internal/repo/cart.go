package repo

import (
	"context"

	"github.com/Abdul1ayev/greenshop-api/internal/models"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// AddOrIncrementCartItem upserts the (user, product) cart row. When the row
// exists, quantity and total_price are recomputed in one UPDATE so both
// expressions see the pre-increment quantity. When it does not, item is
// inserted as-is. In either case item holds the persisted row afterwards.
func (r *GormRepo) AddOrIncrementCartItem(ctx context.Context, item *models.CartItem, unitPrice decimal.Decimal) error {
	return r.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		res := tx.Model(&models.CartItem{}).
			Where("user_id = ? AND product_id = ?", item.UserID, item.ProductID).
			Updates(map[string]any{
				"quantity":    gorm.Expr("quantity + ?", item.Quantity),
				"total_price": gorm.Expr("(quantity + ?) * ?", item.Quantity, unitPrice),
			})
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected > 0 {
			return tx.Where("user_id = ? AND product_id = ?", item.UserID, item.ProductID).First(item).Error
		}
		return tx.Create(item).Error
	})
}

func (r *GormRepo) GetCartItemForUser(ctx context.Context, itemID, userID uuid.UUID) (*models.CartItem, error) {
	var item models.CartItem
	if err := r.DB.WithContext(ctx).Where("id = ? AND user_id = ?", itemID, userID).First(&item).Error; err != nil {
		return nil, err
	}
	return &item, nil
}

func (r *GormRepo) SaveCartItem(ctx context.Context, item *models.CartItem) error {
	return r.DB.WithContext(ctx).Save(item).Error
}

// DeleteCartItem removes the row if present. Deleting a missing row is a
// no-op success so double-clicks in the UI never surface as errors.
func (r *GormRepo) DeleteCartItem(ctx context.Context, itemID, userID uuid.UUID) error {
	return r.DB.WithContext(ctx).
		Where("id = ? AND user_id = ?", itemID, userID).
		Delete(&models.CartItem{}).Error
}

func (r *GormRepo) ListCartForUser(ctx context.Context, userID uuid.UUID) ([]models.CartLine, error) {
	var lines []models.CartLine
	err := r.DB.WithContext(ctx).
		Table("cart_items").
		Select("cart_items.id, cart_items.user_id, cart_items.product_id, cart_items.quantity, cart_items.total_price, " +
			"products.name AS product_name, products.price AS product_price, products.images AS product_images").
		Joins("JOIN products ON products.id = cart_items.product_id").
		Where("cart_items.user_id = ?", userID).
		Scan(&lines).Error
	if err != nil {
		return nil, err
	}
	return lines, nil
}

func (r *GormRepo) CountCartForUser(ctx context.Context, userID uuid.UUID) (int64, error) {
	var n int64
	if err := r.DB.WithContext(ctx).Model(&models.CartItem{}).Where("user_id = ?", userID).Count(&n).Error; err != nil {
		return 0, err
	}
	return n, nil
}

func (r *GormRepo) DeleteAllCartForUser(ctx context.Context, userID uuid.UUID) error {
	return r.DB.WithContext(ctx).Where("user_id = ?", userID).Delete(&models.CartItem{}).Error
}
