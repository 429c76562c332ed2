package request

import (
	"github.com/rs/zerolog"
)

const (
	PaymentCard         = "CARD"
	PaymentBankTransfer = "BANK_TRANSFER"
	PaymentKakaoPay     = "KAKAO_PAY"
	PaymentNaverPay     = "NAVER_PAY"
)

type ShippingAddress struct {
	Name     string `json:"name"               validate:"required,max=100"`
	Phone    string `json:"phone"              validate:"required,max=20"`
	ZipCode  string `json:"zipCode"            validate:"required,max=10"`
	Address1 string `json:"address1"           validate:"required,max=255"`
	Address2 string `json:"address2,omitempty" validate:"max=255"`
}

type CreateOrder struct {
	ShippingAddress ShippingAddress `json:"shippingAddress" validate:"required"`
	PaymentMethod   string          `json:"paymentMethod"   validate:"required,oneof=CARD BANK_TRANSFER KAKAO_PAY NAVER_PAY"`
}

func (o CreateOrder) MarshalZerologObject(e *zerolog.Event) {
	e.Str("paymentMethod", o.PaymentMethod).
		Str("recipient", o.ShippingAddress.Name).
		Str("zipCode", o.ShippingAddress.ZipCode)
}
