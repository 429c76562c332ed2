package request

import "github.com/rs/zerolog"

type UpdateOrderStatus struct {
	Status string `json:"status" validate:"required,oneof=PENDING PAID PREPARING SHIPPED DELIVERED CANCELLED REFUNDED"`
}

func (u UpdateOrderStatus) MarshalZerologObject(e *zerolog.Event) {
	e.Str("status", u.Status)
}
