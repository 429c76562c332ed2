package repository

import (
	"encoding/json"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/shopspring/decimal"

	addressResponse "github.com/Alturino/dailycoffee/address/pkg/response"
	cartResponse "github.com/Alturino/dailycoffee/cart/pkg/response"
	"github.com/Alturino/dailycoffee/internal/pricing"
	orderResponse "github.com/Alturino/dailycoffee/order/pkg/response"
	productResponse "github.com/Alturino/dailycoffee/product/pkg/response"
	reviewResponse "github.com/Alturino/dailycoffee/review/pkg/response"
	userResponse "github.com/Alturino/dailycoffee/user/pkg/response"
)

func NumericFromDecimal(d decimal.Decimal) pgtype.Numeric {
	return pgtype.Numeric{
		Int:              d.Coefficient(),
		Exp:              d.Exponent(),
		InfinityModifier: pgtype.Finite,
		Valid:            true,
	}
}

func NumericFromNullDecimal(d decimal.NullDecimal) pgtype.Numeric {
	if !d.Valid {
		return pgtype.Numeric{}
	}
	return NumericFromDecimal(d.Decimal)
}

func DecimalFromNumeric(n pgtype.Numeric) decimal.Decimal {
	if !n.Valid || n.Int == nil {
		return decimal.Zero
	}
	return decimal.NewFromBigInt(n.Int, n.Exp)
}

func NullDecimalFromNumeric(n pgtype.Numeric) decimal.NullDecimal {
	if !n.Valid || n.Int == nil {
		return decimal.NullDecimal{}
	}
	return decimal.NewNullDecimal(decimal.NewFromBigInt(n.Int, n.Exp))
}

func TextFromString(s string) pgtype.Text {
	return pgtype.Text{String: s, Valid: s != ""}
}

func TextFromPointer(s *string) pgtype.Text {
	if s == nil {
		return pgtype.Text{}
	}
	return pgtype.Text{String: *s, Valid: true}
}

func BoolFromPointer(b *bool) pgtype.Bool {
	if b == nil {
		return pgtype.Bool{}
	}
	return pgtype.Bool{Bool: *b, Valid: true}
}

func Int4FromPointer(i *int32) pgtype.Int4 {
	if i == nil {
		return pgtype.Int4{}
	}
	return pgtype.Int4{Int32: *i, Valid: true}
}

func NullUUIDFromPointer(id *uuid.UUID) uuid.NullUUID {
	if id == nil {
		return uuid.NullUUID{}
	}
	return uuid.NullUUID{UUID: *id, Valid: true}
}

func (u User) Response() userResponse.User {
	return userResponse.User{
		CreatedAt: u.CreatedAt.Time,
		Email:     u.Email,
		Name:      u.Name,
		Phone:     u.Phone.String,
		Role:      string(u.Role),
		ID:        u.ID,
		Points:    u.Points,
	}
}

func (p ProductRow) Response() productResponse.Product {
	tags := p.Product.Tags
	if tags == nil {
		tags = []string{}
	}
	return productResponse.Product{
		CreatedAt:     p.Product.CreatedAt.Time,
		UpdatedAt:     p.Product.UpdatedAt.Time,
		DiscountPrice: NullDecimalFromNumeric(p.Product.DiscountPrice),
		Category: productResponse.CategorySummary{
			Name: p.CategoryName,
			Slug: p.CategorySlug,
			ID:   p.Product.CategoryID,
		},
		Name:        p.Product.Name,
		Slug:        p.Product.Slug,
		Description: p.Product.Description.String,
		ImageUrl:    p.PrimaryImageUrl.String,
		Price:       DecimalFromNumeric(p.Product.Price),
		Tags:        tags,
		ID:          p.Product.ID,
		Stock:       p.Product.Stock,
		IsActive:    p.Product.IsActive,
		IsFeatured:  p.Product.IsFeatured,
	}
}

func (i ProductImage) Response() productResponse.Image {
	return productResponse.Image{
		Url:       i.Url,
		Alt:       i.Alt.String,
		ID:        i.ID,
		SortOrder: i.SortOrder,
		IsPrimary: i.IsPrimary,
	}
}

func (o ProductOption) Response() productResponse.Option {
	return productResponse.Option{
		Kind:          o.Kind,
		Value:         o.Value,
		PriceModifier: DecimalFromNumeric(o.PriceModifier),
		ID:            o.ID,
	}
}

func (c FindCategoriesRow) Response() productResponse.Category {
	res := c.Category.Response()
	res.ProductCount = c.ProductCount
	return res
}

func (c Category) Response() productResponse.Category {
	var parentID *uuid.UUID
	if c.ParentID.Valid {
		id := c.ParentID.UUID
		parentID = &id
	}
	return productResponse.Category{
		CreatedAt:   c.CreatedAt.Time,
		ParentID:    parentID,
		Name:        c.Name,
		Slug:        c.Slug,
		Description: c.Description.String,
		ID:          c.ID,
	}
}

// UnitPrice is the price the shopper pays for one unit right now.
func (c CartItemRow) UnitPrice() decimal.Decimal {
	return pricing.EffectivePrice(
		DecimalFromNumeric(c.ProductPrice),
		NullDecimalFromNumeric(c.ProductDiscountPrice),
	)
}

func (c CartItemRow) Response() cartResponse.CartItem {
	unitPrice := c.UnitPrice()
	line := pricing.Line{UnitPrice: unitPrice, Quantity: c.CartItem.Quantity}
	return cartResponse.CartItem{
		CreatedAt:       c.CartItem.CreatedAt.Time,
		UpdatedAt:       c.CartItem.UpdatedAt.Time,
		SelectedOptions: c.CartItem.SelectedOptions,
		Product: cartResponse.Product{
			DiscountPrice: NullDecimalFromNumeric(c.ProductDiscountPrice),
			Name:          c.ProductName,
			Slug:          c.ProductSlug,
			ImageUrl:      c.PrimaryImageUrl.String,
			Price:         DecimalFromNumeric(c.ProductPrice),
			ID:            c.CartItem.ProductID,
			Stock:         c.ProductStock,
			IsActive:      c.ProductIsActive,
		},
		UnitPrice: unitPrice,
		Subtotal:  line.Subtotal(),
		ID:        c.CartItem.ID,
		ProductID: c.CartItem.ProductID,
		Quantity:  c.CartItem.Quantity,
	}
}

func (c Cart) Response(items []CartItemRow) cartResponse.Cart {
	res := cartResponse.Cart{
		CreatedAt: c.CreatedAt.Time,
		UpdatedAt: c.UpdatedAt.Time,
		Items:     make([]cartResponse.CartItem, 0, len(items)),
		ID:        c.ID,
		UserID:    c.UserID,
	}
	lines := make([]pricing.Line, 0, len(items))
	for _, item := range items {
		res.Items = append(res.Items, item.Response())
		res.TotalQuantity += item.CartItem.Quantity
		lines = append(lines, pricing.Line{UnitPrice: item.UnitPrice(), Quantity: item.CartItem.Quantity})
	}
	totals := pricing.Compute(lines)
	res.Subtotal = totals.Subtotal
	res.ShippingFee = totals.ShippingFee
	res.Total = totals.Total
	if len(items) == 0 {
		res.ShippingFee = decimal.Zero
		res.Total = decimal.Zero
	}
	return res
}

func (o OrderRow) Response() (orderResponse.Order, error) {
	orderItems := []orderResponse.OrderItem{}
	err := json.Unmarshal(o.OrderItems, &orderItems)
	if err != nil {
		return orderResponse.Order{}, fmt.Errorf("failed unmarshaling order items with error=%w", err)
	}

	shippingAddress := orderResponse.ShippingAddress{}
	err = json.Unmarshal(o.Order.ShippingAddress, &shippingAddress)
	if err != nil {
		return orderResponse.Order{}, fmt.Errorf("failed unmarshaling shipping address with error=%w", err)
	}

	var buyer *orderResponse.Buyer
	if len(o.Buyer) > 0 {
		buyer = &orderResponse.Buyer{}
		err = json.Unmarshal(o.Buyer, buyer)
		if err != nil {
			return orderResponse.Order{}, fmt.Errorf("failed unmarshaling buyer with error=%w", err)
		}
	}

	subtotal := decimal.Zero
	for _, item := range orderItems {
		subtotal = subtotal.Add(item.Price.Mul(decimal.NewFromInt32(item.Quantity)))
	}
	couponDiscount := DecimalFromNumeric(o.Order.CouponDiscount)
	pointDiscount := DecimalFromNumeric(o.Order.PointDiscount)
	totalAmount := DecimalFromNumeric(o.Order.TotalAmount)

	return orderResponse.Order{
		CreatedAt:       o.Order.CreatedAt.Time,
		UpdatedAt:       o.Order.UpdatedAt.Time,
		Buyer:           buyer,
		ShippingAddress: shippingAddress,
		Status:          string(o.Order.Status),
		PaymentMethod:   o.Order.PaymentMethod,
		OrderItems:      orderItems,
		Subtotal:        subtotal,
		ShippingFee:     totalAmount.Add(couponDiscount).Add(pointDiscount).Sub(subtotal),
		CouponDiscount:  couponDiscount,
		PointDiscount:   pointDiscount,
		TotalAmount:     totalAmount,
		ID:              o.Order.ID,
		UserID:          o.Order.UserID,
	}, nil
}

func (a Address) Response() addressResponse.Address {
	return addressResponse.Address{
		CreatedAt: a.CreatedAt.Time,
		UpdatedAt: a.UpdatedAt.Time,
		Name:      a.Name,
		Phone:     a.Phone,
		ZipCode:   a.ZipCode,
		Address1:  a.Address1,
		Address2:  a.Address2.String,
		ID:        a.ID,
		UserID:    a.UserID,
		IsDefault: a.IsDefault,
	}
}

func (r Review) Response() reviewResponse.Review {
	var orderID *uuid.UUID
	if r.OrderID.Valid {
		id := r.OrderID.UUID
		orderID = &id
	}
	images := r.Images
	if images == nil {
		images = []string{}
	}
	return reviewResponse.Review{
		CreatedAt: r.CreatedAt.Time,
		OrderID:   orderID,
		Content:   r.Content,
		Images:    images,
		ID:        r.ID,
		ProductID: r.ProductID,
		UserID:    r.UserID,
		Likes:     r.Likes,
		Rating:    r.Rating,
	}
}

func (r ReviewRow) Response() reviewResponse.Review {
	res := r.Review.Response()
	res.User = &reviewResponse.Reviewer{Name: r.UserName, ID: r.Review.UserID}
	return res
}
