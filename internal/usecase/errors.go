package usecase

import "errors"

var (
	ErrDuplicate          = errors.New("duplicate idempotency key")
	ErrEmptyCart          = errors.New("cart is empty")
	ErrProductNotFound    = errors.New("product not found")
	ErrShopNotFound       = errors.New("shop not found")
	ErrInvalidShop        = errors.New("invalid shop")
	ErrOrderNotFound      = errors.New("order not found")
	ErrInvalidCredentials = errors.New("invalid credentials")
)
