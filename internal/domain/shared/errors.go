package shared

// DomainError represents a domain-level error
type DomainError struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// Error implements the error interface
func (e *DomainError) Error() string {
	return e.Message
}

// Is matches another DomainError by code so sentinel values work with errors.Is
func (e *DomainError) Is(target error) bool {
	t, ok := target.(*DomainError)
	if !ok {
		return false
	}
	return e.Code == t.Code
}

// NewDomainError creates a new domain error
func NewDomainError(code, message string) *DomainError {
	return &DomainError{
		Code:    code,
		Message: message,
	}
}

// Common domain errors
var (
	ErrInvalidInput     = NewDomainError("INVALID_INPUT", "Invalid input provided")
	ErrInvalidState     = NewDomainError("INVALID_STATE", "Operation not allowed in current state")
	ErrNotSubmittable   = NewDomainError("NOT_SUBMITTABLE", "Invoice number, student name, course amounts and payable now are required")
	ErrInvalidAmount    = NewDomainError("INVALID_AMOUNT", "Amount must be a non-negative number")
	ErrInvalidCurrency  = NewDomainError("INVALID_CURRENCY", "Currency must be EUR or INR")
	ErrInvalidLevel     = NewDomainError("INVALID_LEVEL", "Unknown course level")
	ErrLastItem         = NewDomainError("LAST_ITEM", "An invoice must keep at least one course")
	ErrItemOutOfRange   = NewDomainError("ITEM_OUT_OF_RANGE", "Course index out of range")
	ErrInvalidFilename  = NewDomainError("INVALID_FILENAME", "Filename does not follow the invoice naming scheme")
	ErrDeliveryRejected = NewDomainError("DELIVERY_REJECTED", "Delivery request is incomplete")
)
