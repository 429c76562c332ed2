package request

import (
	"encoding/json"

	"github.com/rs/zerolog"
)

type Register struct {
	Name     string `validate:"required,max=100"      json:"name"`
	Email    string `validate:"required,email"        json:"email"`
	Password string `validate:"required,min=8,max=72" json:"password"`
	Phone    string `validate:"omitempty,max=30"      json:"phone"`
}

func (r Register) MarshalZerologObject(e *zerolog.Event) {
	e.Str("email", r.Email).Str("name", r.Name)
}

func (r Register) MarshalJSON() ([]byte, error) {
	r.Password = "***"
	type R Register
	return json.Marshal(R(r))
}
