package response

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/Alturino/dailycoffee/internal/option"
)

type Product struct {
	DiscountPrice decimal.NullDecimal `json:"discountPrice"`
	Name          string              `json:"name"`
	Slug          string              `json:"slug"`
	ImageUrl      string              `json:"imageUrl,omitempty"`
	Price         decimal.Decimal     `json:"price"`
	ID            uuid.UUID           `json:"id"`
	Stock         int32               `json:"stock"`
	IsActive      bool                `json:"isActive"`
}

type CartItem struct {
	CreatedAt       time.Time        `json:"createdAt"`
	UpdatedAt       time.Time        `json:"updatedAt"`
	SelectedOptions option.Selection `json:"selectedOptions"`
	Product         Product          `json:"product"`
	UnitPrice       decimal.Decimal  `json:"unitPrice"`
	Subtotal        decimal.Decimal  `json:"subtotal"`
	ID              uuid.UUID        `json:"id"`
	ProductID       uuid.UUID        `json:"productId"`
	Quantity        int32            `json:"quantity"`
}

type Cart struct {
	CreatedAt     time.Time       `json:"createdAt"`
	UpdatedAt     time.Time       `json:"updatedAt"`
	Items         []CartItem      `json:"items"`
	Subtotal      decimal.Decimal `json:"subtotal"`
	ShippingFee   decimal.Decimal `json:"shippingFee"`
	Total         decimal.Decimal `json:"total"`
	ID            uuid.UUID       `json:"id"`
	UserID        uuid.UUID       `json:"userId"`
	TotalQuantity int32           `json:"totalQuantity"`
}
