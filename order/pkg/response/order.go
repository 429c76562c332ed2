package response

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/Alturino/dailycoffee/internal/option"
)

type ShippingAddress struct {
	Name     string `json:"name"`
	Phone    string `json:"phone"`
	ZipCode  string `json:"zipCode"`
	Address1 string `json:"address1"`
	Address2 string `json:"address2,omitempty"`
}

type Product struct {
	Name     string    `json:"name"`
	Slug     string    `json:"slug"`
	ImageUrl string    `json:"imageUrl,omitempty"`
	ID       uuid.UUID `json:"id"`
}

type OrderItem struct {
	CreatedAt       time.Time        `json:"createdAt"`
	SelectedOptions option.Selection `json:"selectedOptions"`
	Product         Product          `json:"product"`
	Price           decimal.Decimal  `json:"price"`
	ID              uuid.UUID        `json:"id"`
	OrderID         uuid.UUID        `json:"orderId"`
	ProductID       uuid.UUID        `json:"productId"`
	Quantity        int32            `json:"quantity"`
}

type Buyer struct {
	Name  string    `json:"name"`
	Email string    `json:"email"`
	ID    uuid.UUID `json:"id"`
}

type Order struct {
	CreatedAt       time.Time       `json:"createdAt"`
	UpdatedAt       time.Time       `json:"updatedAt"`
	Buyer           *Buyer          `json:"buyer,omitempty"`
	ShippingAddress ShippingAddress `json:"shippingAddress"`
	Status          string          `json:"status"`
	PaymentMethod   string          `json:"paymentMethod"`
	OrderItems      []OrderItem     `json:"orderItems"`
	Subtotal        decimal.Decimal `json:"subtotal"`
	ShippingFee     decimal.Decimal `json:"shippingFee"`
	CouponDiscount  decimal.Decimal `json:"couponDiscount"`
	PointDiscount   decimal.Decimal `json:"pointDiscount"`
	TotalAmount     decimal.Decimal `json:"totalAmount"`
	ID              uuid.UUID       `json:"id"`
	UserID          uuid.UUID       `json:"userId"`
}
