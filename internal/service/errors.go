package service

import (
	"errors"

	"gorm.io/gorm"
)

// Error kinds the UI layer maps to user-facing messages. Services wrap these
// with %w; handlers match with errors.Is. No kind is retried automatically.
var (
	ErrValidation         = errors.New("validation")          // 400
	ErrUnauthenticated    = errors.New("unauthenticated")     // 401
	ErrNotFound           = errors.New("not found")           // 404
	ErrConflict           = errors.New("conflict")            // 409
	ErrEmptyCart          = errors.New("empty cart")          // 422
	ErrBackendUnavailable = errors.New("backend unavailable") // 503

	// ErrPartialCheckout means the order was committed but the cart clear
	// failed afterwards. The caller must tell the user the order exists
	// instead of treating this as a clean failure.
	ErrPartialCheckout = errors.New("partial checkout")
)

func isNotFound(err error) bool {
	return errors.Is(err, gorm.ErrRecordNotFound)
}
