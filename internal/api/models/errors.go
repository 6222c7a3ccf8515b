package models

import "net/http"

// ErrorCode represents standard error codes
type ErrorCode string

const (
	ErrInvalidRequest  ErrorCode = "INVALID_REQUEST"
	ErrInvalidPrice    ErrorCode = "INVALID_PRICE"
	ErrInvalidQuantity ErrorCode = "INVALID_QUANTITY"
	ErrListingNotFound ErrorCode = "LISTING_NOT_FOUND"
	ErrStorageFailure  ErrorCode = "STORAGE_FAILURE"
	ErrInternalError   ErrorCode = "INTERNAL_ERROR"
)

// APIError represents a structured error response
type APIError struct {
	Code    ErrorCode              `json:"code"`
	Message string                 `json:"message"`
	Details map[string]interface{} `json:"details,omitempty"`
}

// HTTPError wraps an APIError with an HTTP status code
type HTTPError struct {
	StatusCode int
	Error      APIError
}

// NewHTTPError creates a new HTTP error
func NewHTTPError(statusCode int, code ErrorCode, message string, details map[string]interface{}) *HTTPError {
	return &HTTPError{
		StatusCode: statusCode,
		Error: APIError{
			Code:    code,
			Message: message,
			Details: details,
		},
	}
}

// Common error constructors

func ErrBadRequest(message string, details map[string]interface{}) *HTTPError {
	return NewHTTPError(http.StatusBadRequest, ErrInvalidRequest, message, details)
}

func ErrInvalidPriceError(price float64) *HTTPError {
	return NewHTTPError(http.StatusBadRequest, ErrInvalidPrice,
		"Price must not be negative",
		map[string]interface{}{"field": "price", "provided_value": price})
}

func ErrInvalidQuantityError(quantity float64) *HTTPError {
	return NewHTTPError(http.StatusBadRequest, ErrInvalidQuantity,
		"Quantity must be positive",
		map[string]interface{}{"field": "quantity", "provided_value": quantity})
}

func ErrListingNotFoundError(listingID string) *HTTPError {
	return NewHTTPError(http.StatusNotFound, ErrListingNotFound,
		"Listing not found",
		map[string]interface{}{"listing_id": listingID})
}

func ErrStorage(message string) *HTTPError {
	return NewHTTPError(http.StatusInternalServerError, ErrStorageFailure, message, nil)
}

func ErrInternal(message string) *HTTPError {
	return NewHTTPError(http.StatusInternalServerError, ErrInternalError, message, nil)
}
