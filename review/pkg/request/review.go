package request

import (
	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

type CreateReview struct {
	OrderID   *uuid.UUID `json:"orderId"`
	Content   string     `json:"content"   validate:"required,max=2000"`
	Images    []string   `json:"images"    validate:"omitempty,max=5,dive,required,url"`
	ProductID uuid.UUID  `json:"productId" validate:"required"`
	Rating    int16      `json:"rating"    validate:"required,min=1,max=5"`
}

func (r CreateReview) MarshalZerologObject(e *zerolog.Event) {
	e.Str("productId", r.ProductID.String()).
		Int16("rating", r.Rating).
		Int("images", len(r.Images))
	if r.OrderID != nil {
		e.Str("orderId", r.OrderID.String())
	}
}
