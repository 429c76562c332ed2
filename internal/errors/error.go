package errors

import (
	"errors"
)

var (
	ErrEmptyAuth          = errors.New("missing authorization")
	ErrEmptySubject       = errors.New("missing subject")
	ErrTokenInvalid       = errors.New("invalid token")
	ErrForbidden          = errors.New("admin access required")
	ErrFailedHashPassword = errors.New("failed hashing password")
	ErrInvalidCredentials = errors.New("invalid email or password")
	ErrEmailExist         = errors.New("email already exist")

	ErrNotFound          = errors.New("resource not found")
	ErrConflict          = errors.New("resource conflict")
	ErrValidation        = errors.New("validation failed")
	ErrInvalidBody       = errors.New("invalid request body")
	ErrInvalidID         = errors.New("invalid id")
	ErrCartEmpty         = errors.New("Cart is empty.")
	ErrCartItemNotFound  = errors.New("Cart item not found.")
	ErrOrderNotFound     = errors.New("Order not found.")
	ErrProductNotFound   = errors.New("Product not found.")
	ErrAddressNotFound   = errors.New("Address not found.")
	ErrReviewNotFound    = errors.New("Review not found.")
	ErrCategoryNotFound  = errors.New("Category not found.")
	ErrUserNotFound      = errors.New("User not found.")
	ErrOutOfStock        = errors.New("product is out of stock")
	ErrOrderInProgress   = errors.New("order with the same idempotency key is in progress")
	ErrInvalidPagination = errors.New("invalid pagination parameter")
)
