package repository

import (
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgtype"

	"github.com/Alturino/dailycoffee/internal/option"
)

type UserRole string

const (
	UserRoleUSER  UserRole = "USER"
	UserRoleADMIN UserRole = "ADMIN"
)

type OrderStatus string

const (
	OrderStatusPENDING   OrderStatus = "PENDING"
	OrderStatusPAID      OrderStatus = "PAID"
	OrderStatusPREPARING OrderStatus = "PREPARING"
	OrderStatusSHIPPED   OrderStatus = "SHIPPED"
	OrderStatusDELIVERED OrderStatus = "DELIVERED"
	OrderStatusCANCELLED OrderStatus = "CANCELLED"
	OrderStatusREFUNDED  OrderStatus = "REFUNDED"
)

func (e OrderStatus) Valid() bool {
	switch e {
	case OrderStatusPENDING,
		OrderStatusPAID,
		OrderStatusPREPARING,
		OrderStatusSHIPPED,
		OrderStatusDELIVERED,
		OrderStatusCANCELLED,
		OrderStatusREFUNDED:
		return true
	}
	return false
}

func AllOrderStatusValues() []OrderStatus {
	return []OrderStatus{
		OrderStatusPENDING,
		OrderStatusPAID,
		OrderStatusPREPARING,
		OrderStatusSHIPPED,
		OrderStatusDELIVERED,
		OrderStatusCANCELLED,
		OrderStatusREFUNDED,
	}
}

type Address struct {
	ID        uuid.UUID          `json:"id"`
	UserID    uuid.UUID          `json:"user_id"`
	Name      string             `json:"name"`
	Phone     string             `json:"phone"`
	ZipCode   string             `json:"zip_code"`
	Address1  string             `json:"address1"`
	Address2  pgtype.Text        `json:"address2"`
	IsDefault bool               `json:"is_default"`
	CreatedAt pgtype.Timestamptz `json:"created_at"`
	UpdatedAt pgtype.Timestamptz `json:"updated_at"`
}

type Cart struct {
	ID        uuid.UUID          `json:"id"`
	UserID    uuid.UUID          `json:"user_id"`
	CreatedAt pgtype.Timestamptz `json:"created_at"`
	UpdatedAt pgtype.Timestamptz `json:"updated_at"`
}

type CartItem struct {
	ID              uuid.UUID          `json:"id"`
	CartID          uuid.UUID          `json:"cart_id"`
	ProductID       uuid.UUID          `json:"product_id"`
	Quantity        int32              `json:"quantity"`
	SelectedOptions option.Selection   `json:"selected_options"`
	CreatedAt       pgtype.Timestamptz `json:"created_at"`
	UpdatedAt       pgtype.Timestamptz `json:"updated_at"`
}

type Category struct {
	ID          uuid.UUID          `json:"id"`
	Name        string             `json:"name"`
	Slug        string             `json:"slug"`
	Description pgtype.Text        `json:"description"`
	ParentID    uuid.NullUUID      `json:"parent_id"`
	CreatedAt   pgtype.Timestamptz `json:"created_at"`
}

type Order struct {
	ID              uuid.UUID          `json:"id"`
	UserID          uuid.UUID          `json:"user_id"`
	Status          OrderStatus        `json:"status"`
	ShippingAddress []byte             `json:"shipping_address"`
	PaymentMethod   string             `json:"payment_method"`
	TotalAmount     pgtype.Numeric     `json:"total_amount"`
	CouponDiscount  pgtype.Numeric     `json:"coupon_discount"`
	PointDiscount   pgtype.Numeric     `json:"point_discount"`
	CreatedAt       pgtype.Timestamptz `json:"created_at"`
	UpdatedAt       pgtype.Timestamptz `json:"updated_at"`
}

type OrderItem struct {
	ID              uuid.UUID          `json:"id"`
	OrderID         uuid.UUID          `json:"order_id"`
	ProductID       uuid.UUID          `json:"product_id"`
	Quantity        int32              `json:"quantity"`
	Price           pgtype.Numeric     `json:"price"`
	SelectedOptions option.Selection   `json:"selected_options"`
	CreatedAt       pgtype.Timestamptz `json:"created_at"`
}

type Product struct {
	ID            uuid.UUID          `json:"id"`
	CategoryID    uuid.UUID          `json:"category_id"`
	Name          string             `json:"name"`
	Slug          string             `json:"slug"`
	Description   pgtype.Text        `json:"description"`
	Price         pgtype.Numeric     `json:"price"`
	DiscountPrice pgtype.Numeric     `json:"discount_price"`
	Stock         int32              `json:"stock"`
	Tags          []string           `json:"tags"`
	IsActive      bool               `json:"is_active"`
	IsFeatured    bool               `json:"is_featured"`
	CreatedAt     pgtype.Timestamptz `json:"created_at"`
	UpdatedAt     pgtype.Timestamptz `json:"updated_at"`
}

type ProductImage struct {
	ID        uuid.UUID   `json:"id"`
	ProductID uuid.UUID   `json:"product_id"`
	Url       string      `json:"url"`
	Alt       pgtype.Text `json:"alt"`
	IsPrimary bool        `json:"is_primary"`
	SortOrder int32       `json:"sort_order"`
}

type ProductOption struct {
	ID            uuid.UUID      `json:"id"`
	ProductID     uuid.UUID      `json:"product_id"`
	Kind          option.Kind    `json:"kind"`
	Value         string         `json:"value"`
	PriceModifier pgtype.Numeric `json:"price_modifier"`
}

type Review struct {
	ID        uuid.UUID          `json:"id"`
	UserID    uuid.UUID          `json:"user_id"`
	ProductID uuid.UUID          `json:"product_id"`
	OrderID   uuid.NullUUID      `json:"order_id"`
	Rating    int16              `json:"rating"`
	Content   string             `json:"content"`
	Images    []string           `json:"images"`
	Likes     int32              `json:"likes"`
	CreatedAt pgtype.Timestamptz `json:"created_at"`
}

type User struct {
	ID        uuid.UUID          `json:"id"`
	Email     string             `json:"email"`
	Password  string             `json:"password"`
	Name      string             `json:"name"`
	Phone     pgtype.Text        `json:"phone"`
	Role      UserRole           `json:"role"`
	Points    int32              `json:"points"`
	CreatedAt pgtype.Timestamptz `json:"created_at"`
	UpdatedAt pgtype.Timestamptz `json:"updated_at"`
}
