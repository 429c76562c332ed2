package response

import (
	"time"

	"github.com/google/uuid"
)

type Address struct {
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
	Name      string    `json:"name"`
	Phone     string    `json:"phone"`
	ZipCode   string    `json:"zipCode"`
	Address1  string    `json:"address1"`
	Address2  string    `json:"address2,omitempty"`
	ID        uuid.UUID `json:"id"`
	UserID    uuid.UUID `json:"userId"`
	IsDefault bool      `json:"isDefault"`
}
