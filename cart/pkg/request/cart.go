package request

import (
	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/Alturino/dailycoffee/internal/option"
)

type AddCartItem struct {
	SelectedOptions option.Selection `json:"selectedOptions" validate:"omitempty,dive,keys,oneof=WEIGHT GRIND,endkeys,required,max=50"`
	ProductID       uuid.UUID        `json:"productId"       validate:"required"`
	Quantity        int32            `json:"quantity"        validate:"required,gte=1,lte=99"`
}

func (a AddCartItem) MarshalZerologObject(e *zerolog.Event) {
	e.Str("productId", a.ProductID.String()).
		Int32("quantity", a.Quantity).
		RawJSON("selectedOptions", a.SelectedOptions.Canonical())
}

// UpdateCartItem sets the quantity of an existing item. Zero removes the item.
type UpdateCartItem struct {
	Quantity *int32 `json:"quantity" validate:"required,gte=0,lte=99"`
}

func (u UpdateCartItem) MarshalZerologObject(e *zerolog.Event) {
	if u.Quantity != nil {
		e.Int32("quantity", *u.Quantity)
	}
}
