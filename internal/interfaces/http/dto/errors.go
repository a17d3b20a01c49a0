package dto

import "net/http"

// Error code constants organized by category
// Format: ERR_<CATEGORY>_<DESCRIPTION>

// General error codes
const (
	// ErrCodeUnknown is used when the error type is unknown
	ErrCodeUnknown = "ERR_UNKNOWN"
	// ErrCodeInternal is used for internal server errors
	ErrCodeInternal = "ERR_INTERNAL"
)

// Validation error codes
const (
	// ErrCodeValidation is the base code for validation errors
	ErrCodeValidation = "ERR_VALIDATION"
	// ErrCodeValidationRequired is used when a required field is missing
	ErrCodeValidationRequired = "ERR_VALIDATION_REQUIRED"
	// ErrCodeValidationFormat is used when a field has invalid format
	ErrCodeValidationFormat = "ERR_VALIDATION_FORMAT"
)

// Input error codes
const (
	// ErrCodeBadRequest is used for malformed requests
	ErrCodeBadRequest = "ERR_BAD_REQUEST"
	// ErrCodeInvalidInput is used for invalid input data
	ErrCodeInvalidInput = "ERR_INVALID_INPUT"
	// ErrCodeInvalidJSON is used when JSON parsing fails
	ErrCodeInvalidJSON = "ERR_INVALID_JSON"
	// ErrCodeRequestTooLarge is used when the body exceeds the configured limit
	ErrCodeRequestTooLarge = "ERR_REQUEST_TOO_LARGE"
	// ErrCodeMethodNotAllowed is used when a route exists but not for the method
	ErrCodeMethodNotAllowed = "ERR_METHOD_NOT_ALLOWED"
	// ErrCodeNotFound is used when no route matches
	ErrCodeNotFound = "ERR_NOT_FOUND"
)

// Invoice error codes
const (
	// ErrCodeNotSubmittable is used when a draft misses the fields a document needs
	ErrCodeNotSubmittable = "ERR_INVOICE_NOT_SUBMITTABLE"
	// ErrCodeInvalidAmount is used when an amount is negative or unparseable
	ErrCodeInvalidAmount = "ERR_INVOICE_INVALID_AMOUNT"
	// ErrCodeInvalidCurrency is used for currencies other than EUR and INR
	ErrCodeInvalidCurrency = "ERR_INVOICE_INVALID_CURRENCY"
	// ErrCodeInvalidLevel is used for an unknown course level
	ErrCodeInvalidLevel = "ERR_INVOICE_INVALID_LEVEL"
	// ErrCodeLastItem is used when removing the only course
	ErrCodeLastItem = "ERR_INVOICE_LAST_ITEM"
	// ErrCodeItemOutOfRange is used for a course index past the end
	ErrCodeItemOutOfRange = "ERR_INVOICE_ITEM_OUT_OF_RANGE"
	// ErrCodeInvalidFilename is used when a filename does not follow the naming scheme
	ErrCodeInvalidFilename = "ERR_INVOICE_INVALID_FILENAME"
	// ErrCodeInvalidFormat is used for an unsupported output format
	ErrCodeInvalidFormat = "ERR_INVOICE_INVALID_FORMAT"
	// ErrCodeUnsupportedFormat is used for a known format no renderer is configured for
	ErrCodeUnsupportedFormat = "ERR_INVOICE_UNSUPPORTED_FORMAT"
)

// Delivery error codes
const (
	// ErrCodeDeliveryRejected is used when a delivery request is incomplete
	ErrCodeDeliveryRejected = "ERR_DELIVERY_REJECTED"
	// ErrCodeDeliveryFailed is used when the mail server refuses or is unreachable
	ErrCodeDeliveryFailed = "ERR_DELIVERY_FAILED"
	// ErrCodeRenderFailed is used when a renderer fails
	ErrCodeRenderFailed = "ERR_RENDER_FAILED"
)

// Rate limiting error codes
const (
	// ErrCodeRateLimited is used when rate limit is exceeded
	ErrCodeRateLimited = "ERR_RATE_LIMITED"
)

// ErrorCodeHTTPStatus maps error codes to HTTP status codes
var ErrorCodeHTTPStatus = map[string]int{
	// General errors
	ErrCodeUnknown:  http.StatusInternalServerError,
	ErrCodeInternal: http.StatusInternalServerError,

	// Validation errors -> 400 Bad Request
	ErrCodeValidation:         http.StatusBadRequest,
	ErrCodeValidationRequired: http.StatusBadRequest,
	ErrCodeValidationFormat:   http.StatusBadRequest,

	// Input errors
	ErrCodeBadRequest:       http.StatusBadRequest,
	ErrCodeInvalidInput:     http.StatusBadRequest,
	ErrCodeInvalidJSON:      http.StatusBadRequest,
	ErrCodeRequestTooLarge:  http.StatusRequestEntityTooLarge,
	ErrCodeMethodNotAllowed: http.StatusMethodNotAllowed,
	ErrCodeNotFound:         http.StatusNotFound,

	// Invoice rule errors -> 400 Bad Request
	ErrCodeNotSubmittable:    http.StatusBadRequest,
	ErrCodeInvalidAmount:     http.StatusBadRequest,
	ErrCodeInvalidCurrency:   http.StatusBadRequest,
	ErrCodeInvalidLevel:      http.StatusBadRequest,
	ErrCodeLastItem:          http.StatusBadRequest,
	ErrCodeItemOutOfRange:    http.StatusBadRequest,
	ErrCodeInvalidFilename:   http.StatusBadRequest,
	ErrCodeInvalidFormat:     http.StatusBadRequest,
	ErrCodeUnsupportedFormat: http.StatusBadRequest,

	// Delivery and rendering
	ErrCodeDeliveryRejected: http.StatusBadRequest,
	ErrCodeDeliveryFailed:   http.StatusInternalServerError,
	ErrCodeRenderFailed:     http.StatusInternalServerError,

	// Rate limiting -> 429 Too Many Requests
	ErrCodeRateLimited: http.StatusTooManyRequests,
}

// GetHTTPStatus returns the HTTP status code for an error code
// Returns 500 Internal Server Error if the error code is not found
func GetHTTPStatus(code string) int {
	if status, ok := ErrorCodeHTTPStatus[code]; ok {
		return status
	}
	return http.StatusInternalServerError
}

// DomainErrorCodeMapping maps domain error codes to API error codes
var DomainErrorCodeMapping = map[string]string{
	"INVALID_INPUT":     ErrCodeInvalidInput,
	"INVALID_STATE":     ErrCodeBadRequest,
	"NOT_SUBMITTABLE":   ErrCodeNotSubmittable,
	"INVALID_AMOUNT":    ErrCodeInvalidAmount,
	"INVALID_CURRENCY":  ErrCodeInvalidCurrency,
	"INVALID_LEVEL":     ErrCodeInvalidLevel,
	"LAST_ITEM":         ErrCodeLastItem,
	"ITEM_OUT_OF_RANGE": ErrCodeItemOutOfRange,
	"INVALID_FILENAME":  ErrCodeInvalidFilename,
	"INVALID_FORMAT":    ErrCodeInvalidFormat,
	"DELIVERY_REJECTED": ErrCodeDeliveryRejected,
	"VALIDATION_ERROR":  ErrCodeValidation,
	"BAD_REQUEST":       ErrCodeBadRequest,
	"INTERNAL_ERROR":    ErrCodeInternal,
}

// NormalizeErrorCode converts a domain error code to the API format
// If the code is already in the API format or unknown, returns it as-is
func NormalizeErrorCode(code string) string {
	if newCode, ok := DomainErrorCodeMapping[code]; ok {
		return newCode
	}
	return code
}
