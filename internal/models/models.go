package models

import (
	"time"

	"database/sql/driver"

	"github.com/google/uuid"
	"github.com/lib/pq"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
	"gorm.io/gorm/schema"
)

const (
	OrderStatusPending = "pending"
)

// ImageList is an ordered list of image URLs. Stored as a real text[] on
// Postgres; the sqlite test driver gets the pq array literal in a text column.
type ImageList pq.StringArray

func (l ImageList) Value() (driver.Value, error) {
	return pq.StringArray(l).Value()
}

func (l *ImageList) Scan(src any) error {
	return (*pq.StringArray)(l).Scan(src)
}

// GormDataType marks the field as a plain data column for the schema parser;
// without it GORM treats the string slice as a has-many relation.
func (ImageList) GormDataType() string { return "text" }

func (ImageList) GormDBDataType(db *gorm.DB, field *schema.Field) string {
	if db.Dialector.Name() == "postgres" {
		return "text[]"
	}
	return "text"
}

type Category struct {
	ID     uuid.UUID `gorm:"primaryKey"   json:"id"`
	Name   string    `gorm:"not null"     json:"name"`
	Active bool      `gorm:"default:true" json:"active"`
}

func (c *Category) BeforeCreate(tx *gorm.DB) error {
	if c.ID == uuid.Nil {
		c.ID = uuid.New()
	}
	return nil
}

func (Category) TableName() string { return "categories" }

// Product is immutable from the storefront's point of view: the API only
// reads it, price changes come from outside this service.
type Product struct {
	ID          uuid.UUID       `gorm:"primaryKey"                  json:"id"`
	Name        string          `gorm:"not null"                    json:"name"`
	CategoryID  uuid.UUID       `gorm:"index;not null"              json:"category_id"`
	Description string          `json:"description"`
	Price       decimal.Decimal `gorm:"type:numeric(12,2);not null" json:"price"`
	Images      ImageList       `json:"images"`
	Active      bool            `gorm:"default:true"                json:"active"`
}

func (p *Product) BeforeCreate(tx *gorm.DB) error {
	if p.ID == uuid.Nil {
		p.ID = uuid.New()
	}
	return nil
}

func (Product) TableName() string { return "products" }

// CartItem holds one product's quantity for one user. TotalPrice is quantity
// times the product price at the moment of the last mutation, not a live value.
type CartItem struct {
	ID         uuid.UUID       `gorm:"primaryKey"                                 json:"id"`
	UserID     uuid.UUID       `gorm:"uniqueIndex:idx_cart_user_product;not null" json:"user_id"`
	ProductID  uuid.UUID       `gorm:"uniqueIndex:idx_cart_user_product;not null" json:"product_id"`
	Quantity   uint            `gorm:"not null;check:quantity>0"                  json:"quantity"`
	TotalPrice decimal.Decimal `gorm:"type:numeric(12,2);not null"                json:"total_price"`
}

func (c *CartItem) BeforeCreate(tx *gorm.DB) error {
	if c.ID == uuid.Nil {
		c.ID = uuid.New()
	}
	return nil
}

func (CartItem) TableName() string { return "cart_items" }

// CartLine is a cart row joined with the product display fields the
// storefront renders next to it.
type CartLine struct {
	ID            uuid.UUID       `json:"id"`
	UserID        uuid.UUID       `json:"user_id"`
	ProductID     uuid.UUID       `json:"product_id"`
	Quantity      uint            `json:"quantity"`
	TotalPrice    decimal.Decimal `json:"total_price"`
	ProductName   string          `json:"product_name"`
	ProductPrice  decimal.Decimal `json:"product_price"`
	ProductImages ImageList       `json:"product_images"`
}

// Order is created once at checkout and never mutated by this service.
type Order struct {
	ID         uuid.UUID       `gorm:"primaryKey"                  json:"id"`
	UserID     uuid.UUID       `gorm:"index;not null"              json:"user_id"`
	Name       string          `json:"name"`
	Phone      string          `json:"phone"`
	Address    string          `json:"address"`
	Notes      string          `json:"notes"`
	TotalPrice decimal.Decimal `gorm:"type:numeric(12,2);not null" json:"total_price"`
	Status     string          `gorm:"not null;default:pending"    json:"status"`
	CreatedAt  time.Time       `json:"created_at"`
	Items      []OrderItem     `gorm:"foreignKey:OrderID"          json:"items,omitempty"`
}

func (o *Order) BeforeCreate(tx *gorm.DB) error {
	if o.ID == uuid.Nil {
		o.ID = uuid.New()
	}
	return nil
}

func (Order) TableName() string { return "orders" }

// OrderItem snapshots one cart row at checkout time.
type OrderItem struct {
	ID         uuid.UUID       `gorm:"primaryKey"                  json:"id"`
	OrderID    uuid.UUID       `gorm:"index;not null"              json:"order_id"`
	ProductID  uuid.UUID       `gorm:"not null"                    json:"product_id"`
	Quantity   uint            `gorm:"not null;check:quantity>0"   json:"quantity"`
	UnitPrice  decimal.Decimal `gorm:"type:numeric(12,2);not null" json:"unit_price"`
	TotalPrice decimal.Decimal `gorm:"type:numeric(12,2);not null" json:"total_price"`
}

func (i *OrderItem) BeforeCreate(tx *gorm.DB) error {
	if i.ID == uuid.Nil {
		i.ID = uuid.New()
	}
	return nil
}

func (OrderItem) TableName() string { return "order_items" }

// RefreshToken stores each issued refresh token so it can be revoked and so
// rotation can reject replays of an already rotated token.
type RefreshToken struct {
	ID        uuid.UUID `gorm:"primaryKey"           json:"id"`
	UserID    uuid.UUID `gorm:"index;not null"       json:"user_id"`
	Token     string    `gorm:"uniqueIndex;not null" json:"-"`
	ExpiresAt time.Time `gorm:"not null"             json:"expires_at"`
	Revoked   bool      `gorm:"default:false"        json:"revoked"`
}

func (t *RefreshToken) BeforeCreate(tx *gorm.DB) error {
	if t.ID == uuid.Nil {
		t.ID = uuid.New()
	}
	return nil
}

func (RefreshToken) TableName() string { return "refresh_tokens" }

type User struct {
	ID           uuid.UUID `gorm:"primaryKey"            json:"id"`
	Username     string    `gorm:"not null"              json:"username"`
	Email        string    `gorm:"uniqueIndex;not null"  json:"email"`
	PasswordHash string    `gorm:"not null"              json:"-"`
	Role         string    `gorm:"not null;default:user" json:"role"`
}

func (u *User) BeforeCreate(tx *gorm.DB) error {
	if u.ID == uuid.Nil {
		u.ID = uuid.New()
	}
	return nil
}

func (User) TableName() string { return "users" }
