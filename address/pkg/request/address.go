package request

import "github.com/rs/zerolog"

type CreateAddress struct {
	Name      string `json:"name"      validate:"required,max=100"`
	Phone     string `json:"phone"     validate:"required,max=20"`
	ZipCode   string `json:"zipCode"   validate:"required,max=10"`
	Address1  string `json:"address1"  validate:"required,max=255"`
	Address2  string `json:"address2"  validate:"max=255"`
	IsDefault bool   `json:"isDefault"`
}

func (a CreateAddress) MarshalZerologObject(e *zerolog.Event) {
	e.Str("name", a.Name).Str("zipCode", a.ZipCode).Bool("isDefault", a.IsDefault)
}

// UpdateAddress changes only the fields that are present.
type UpdateAddress struct {
	Name      *string `json:"name"      validate:"omitempty,min=1,max=100"`
	Phone     *string `json:"phone"     validate:"omitempty,min=1,max=20"`
	ZipCode   *string `json:"zipCode"   validate:"omitempty,min=1,max=10"`
	Address1  *string `json:"address1"  validate:"omitempty,min=1,max=255"`
	Address2  *string `json:"address2"  validate:"omitempty,max=255"`
	IsDefault *bool   `json:"isDefault"`
}

func (a UpdateAddress) MarshalZerologObject(e *zerolog.Event) {
	if a.Name != nil {
		e.Str("name", *a.Name)
	}
	if a.ZipCode != nil {
		e.Str("zipCode", *a.ZipCode)
	}
	if a.IsDefault != nil {
		e.Bool("isDefault", *a.IsDefault)
	}
}
