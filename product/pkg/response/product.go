package response

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/Alturino/dailycoffee/internal/option"
)

type CategorySummary struct {
	Name string    `json:"name"`
	Slug string    `json:"slug"`
	ID   uuid.UUID `json:"id"`
}

type Image struct {
	Url       string    `json:"url"`
	Alt       string    `json:"alt,omitempty"`
	ID        uuid.UUID `json:"id"`
	SortOrder int32     `json:"sortOrder"`
	IsPrimary bool      `json:"isPrimary"`
}

type Option struct {
	Kind          option.Kind     `json:"kind"`
	Value         string          `json:"value"`
	PriceModifier decimal.Decimal `json:"priceModifier"`
	ID            uuid.UUID       `json:"id"`
}

type Product struct {
	CreatedAt     time.Time           `json:"createdAt"`
	UpdatedAt     time.Time           `json:"updatedAt"`
	DiscountPrice decimal.NullDecimal `json:"discountPrice"`
	Category      CategorySummary     `json:"category"`
	Name          string              `json:"name"`
	Slug          string              `json:"slug"`
	Description   string              `json:"description"`
	ImageUrl      string              `json:"imageUrl,omitempty"`
	Price         decimal.Decimal     `json:"price"`
	Tags          []string            `json:"tags"`
	Images        []Image             `json:"images,omitempty"`
	Options       []Option            `json:"options,omitempty"`
	ID            uuid.UUID           `json:"id"`
	Stock         int32               `json:"stock"`
	IsActive      bool                `json:"isActive"`
	IsFeatured    bool                `json:"isFeatured"`
}

type Category struct {
	CreatedAt    time.Time  `json:"createdAt"`
	ParentID     *uuid.UUID `json:"parentId"`
	Name         string     `json:"name"`
	Slug         string     `json:"slug"`
	Description  string     `json:"description,omitempty"`
	ProductCount int64      `json:"productCount"`
	ID           uuid.UUID  `json:"id"`
}

type CategoryProducts struct {
	Category Category  `json:"category"`
	Products []Product `json:"products"`
}
