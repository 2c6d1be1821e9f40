package model

// ErrorResponse represents a standardised error response.
type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message"`
}

// Standard error codes for API responses
const (
	ErrCodeInvalidJSON         = "INVALID_JSON"
	ErrCodeMissingField        = "MISSING_FIELD"
	ErrCodeInvalidPrice        = "INVALID_PRICE"
	ErrCodeInvalidName         = "INVALID_NAME"
	ErrCodeInvalidQuantity     = "INVALID_QUANTITY"
	ErrCodeMenuItemNotFound    = "MENU_ITEM_NOT_FOUND"
	ErrCodeInvoiceNotFound     = "INVOICE_NOT_FOUND"
	ErrCodeEmptyCart           = "EMPTY_CART"
	ErrCodeRendererUnavailable = "RENDERER_UNAVAILABLE"
	ErrCodeUnauthorised        = "UNAUTHORIZED"
	ErrCodeInternalError       = "INTERNAL_ERROR"
)

// DomainError is a business-rule failure that callers can branch on by Code.
type DomainError struct {
	Code    string
	Message string
}

func (e *DomainError) Error() string {
	return e.Message
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
	ErrInvalidPrice        = NewDomainError(ErrCodeInvalidPrice, "Price must be a non-negative decimal number")
	ErrInvalidName         = NewDomainError(ErrCodeInvalidName, "Name must not be empty")
	ErrInvalidQuantity     = NewDomainError(ErrCodeInvalidQuantity, "Quantity must be a whole number")
	ErrMenuItemNotFound    = NewDomainError(ErrCodeMenuItemNotFound, "Menu item not found")
	ErrInvoiceNotFound     = NewDomainError(ErrCodeInvoiceNotFound, "Invoice not found")
	ErrEmptyCart           = NewDomainError(ErrCodeEmptyCart, "Cart is empty")
	ErrRendererUnavailable = NewDomainError(ErrCodeRendererUnavailable, "PDF renderer is not available")
)
