package request

import (
	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"

	"github.com/Alturino/dailycoffee/internal/option"
)

const (
	SortLatest    = "latest"
	SortPriceAsc  = "price_asc"
	SortPriceDesc = "price_desc"
	SortPopular   = "popular"
)

// ListProducts is read from the query string of GET /products.
type ListProducts struct {
	CategoryID *uuid.UUID `json:"categoryId"`
	Search     string     `json:"search"     validate:"max=100"`
	Sort       string     `json:"sort"       validate:"omitempty,oneof=latest price_asc price_desc popular"`
}

func (l ListProducts) MarshalZerologObject(e *zerolog.Event) {
	if l.CategoryID != nil {
		e.Str("categoryId", l.CategoryID.String())
	}
	e.Str("search", l.Search).Str("sort", l.Sort)
}

type Image struct {
	Url       string `json:"url"       validate:"required,url"`
	Alt       string `json:"alt"       validate:"max=200"`
	IsPrimary bool   `json:"isPrimary"`
}

type Option struct {
	Kind          option.Kind     `json:"kind"          validate:"required,oneof=WEIGHT GRIND"`
	Value         string          `json:"value"         validate:"required,max=50"`
	PriceModifier decimal.Decimal `json:"priceModifier"`
}

// Product is the body of admin product creation. Images and options, when present,
// replace the stored ones.
type Product struct {
	DiscountPrice decimal.NullDecimal `json:"discountPrice" validate:"omitempty,gt=0"`
	Name          string              `json:"name"          validate:"required,max=200"`
	Slug          string              `json:"slug"          validate:"required,max=200"`
	Description   string              `json:"description"`
	Price         decimal.Decimal     `json:"price"         validate:"required,gt=0"`
	Tags          []string            `json:"tags"          validate:"omitempty,dive,required,max=50"`
	Images        []Image             `json:"images"        validate:"omitempty,dive"`
	Options       []Option            `json:"options"       validate:"omitempty,dive"`
	CategoryID    uuid.UUID           `json:"categoryId"    validate:"required"`
	Stock         int32               `json:"stock"         validate:"gte=0"`
	IsActive      *bool               `json:"isActive"`
	IsFeatured    bool                `json:"isFeatured"`
}

func (p Product) MarshalZerologObject(e *zerolog.Event) {
	e.Str("name", p.Name).
		Str("slug", p.Slug).
		Str("price", p.Price.String()).
		Str("categoryId", p.CategoryID.String()).
		Int32("stock", p.Stock)
}

// UpdateProduct only changes the fields that are present. ClearDiscount removes the
// discount price.
type UpdateProduct struct {
	DiscountPrice decimal.NullDecimal `json:"discountPrice" validate:"omitempty,gt=0"`
	CategoryID    *uuid.UUID          `json:"categoryId"`
	Name          *string             `json:"name"          validate:"omitempty,max=200"`
	Slug          *string             `json:"slug"          validate:"omitempty,max=200"`
	Description   *string             `json:"description"`
	Price         decimal.NullDecimal `json:"price"         validate:"omitempty,gt=0"`
	Stock         *int32              `json:"stock"         validate:"omitempty,gte=0"`
	Tags          []string            `json:"tags"          validate:"omitempty,dive,required,max=50"`
	Images        []Image             `json:"images"        validate:"omitempty,dive"`
	Options       []Option            `json:"options"       validate:"omitempty,dive"`
	IsActive      *bool               `json:"isActive"`
	IsFeatured    *bool               `json:"isFeatured"`
	ClearDiscount bool                `json:"clearDiscount"`
}

func (p UpdateProduct) MarshalZerologObject(e *zerolog.Event) {
	if p.Name != nil {
		e.Str("name", *p.Name)
	}
	if p.Price.Valid {
		e.Str("price", p.Price.Decimal.String())
	}
	if p.Stock != nil {
		e.Int32("stock", *p.Stock)
	}
	e.Bool("clearDiscount", p.ClearDiscount)
}
