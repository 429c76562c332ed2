package response

import (
	"time"

	"github.com/google/uuid"
)

type Reviewer struct {
	Name string    `json:"name"`
	ID   uuid.UUID `json:"id"`
}

type Review struct {
	CreatedAt time.Time  `json:"createdAt"`
	OrderID   *uuid.UUID `json:"orderId"`
	User      *Reviewer  `json:"user,omitempty"`
	Content   string     `json:"content"`
	Images    []string   `json:"images"`
	ID        uuid.UUID  `json:"id"`
	ProductID uuid.UUID  `json:"productId"`
	UserID    uuid.UUID  `json:"userId"`
	Likes     int32      `json:"likes"`
	Rating    int16      `json:"rating"`
}
