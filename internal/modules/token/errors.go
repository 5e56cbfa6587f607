package token

import "errors"

var (
	ErrValidation         = errors.New("validation error")
	ErrNotFound           = errors.New("property is not tokenized")
	ErrNotForSale         = errors.New("property is not open for purchase")
	ErrInsufficientTokens = errors.New("not enough tokens available")
	ErrInsufficientFunds  = errors.New("insufficient balance")
)
