package dto

import "net/http"

// General error codes
const (
	ErrCodeInternal   = "INTERNAL_ERROR"
	ErrCodeBadRequest = "BAD_REQUEST"
)

// Domain error codes surfaced over the API. These match the codes the
// domain layer attaches to its errors.
const (
	ErrCodeNotFound             = "NOT_FOUND"
	ErrCodeAlreadyExists        = "ALREADY_EXISTS"
	ErrCodeInvalidInput         = "INVALID_INPUT"
	ErrCodeConcurrencyConflict  = "CONCURRENCY_CONFLICT"
	ErrCodeInvalidState         = "INVALID_STATE"
	ErrCodeOutOfStock           = "OUT_OF_STOCK"
	ErrCodeStockExceeded        = "STOCK_EXCEEDED"
	ErrCodeEmptyCart            = "EMPTY_CART"
	ErrCodeInvalidPaymentMethod = "INVALID_PAYMENT_METHOD"
)

// ErrorCodeHTTPStatus maps error codes to HTTP status codes.
// Business rule violations map to 422 so clients can distinguish them
// from malformed requests.
var ErrorCodeHTTPStatus = map[string]int{
	ErrCodeInternal:   http.StatusInternalServerError,
	ErrCodeBadRequest: http.StatusBadRequest,

	ErrCodeNotFound:            http.StatusNotFound,
	ErrCodeAlreadyExists:       http.StatusConflict,
	ErrCodeConcurrencyConflict: http.StatusConflict,

	ErrCodeInvalidInput: http.StatusBadRequest,
	"INVALID_SKU":       http.StatusBadRequest,
	"INVALID_NAME":      http.StatusBadRequest,
	"INVALID_CATEGORY":  http.StatusBadRequest,
	"INVALID_PRICE":     http.StatusBadRequest,
	"INVALID_STOCK":     http.StatusBadRequest,

	ErrCodeInvalidState:         http.StatusUnprocessableEntity,
	ErrCodeOutOfStock:           http.StatusUnprocessableEntity,
	ErrCodeStockExceeded:        http.StatusUnprocessableEntity,
	ErrCodeEmptyCart:            http.StatusUnprocessableEntity,
	ErrCodeInvalidPaymentMethod: http.StatusUnprocessableEntity,
}

// GetHTTPStatus returns the HTTP status code for an error code.
// Unknown codes map to 500 Internal Server Error.
func GetHTTPStatus(code string) int {
	if status, ok := ErrorCodeHTTPStatus[code]; ok {
		return status
	}
	return http.StatusInternalServerError
}
