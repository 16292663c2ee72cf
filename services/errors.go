package services

import "errors"

// Error codes for the service taxonomy. Controllers map these onto
// HTTP statuses; services never retry on their own.
const (
	CodeInvalidArgument    = "INVALID_ARGUMENT"
	CodePermissionDenied   = "PERMISSION_DENIED"
	CodeNotConfigured      = "NOT_CONFIGURED"
	CodeProductUnavailable = "PRODUCT_UNAVAILABLE"
	CodeOrderNotFound      = "ORDER_NOT_FOUND"
	CodeOwnershipViolation = "OWNERSHIP_VIOLATION"
)

// ServiceError is a categorized error surfaced to the caller. A record
// is either fully valid or not constructed at all; a ServiceError means
// no partial effect occurred.
type ServiceError struct {
	Code    string
	Message string
}

func (e *ServiceError) Error() string {
	return e.Message
}

// NewInvalidArgument reports malformed or missing required input.
func NewInvalidArgument(message string) *ServiceError {
	return &ServiceError{Code: CodeInvalidArgument, Message: message}
}

// NewPermissionDenied reports an admin token mismatch.
func NewPermissionDenied(message string) *ServiceError {
	return &ServiceError{Code: CodePermissionDenied, Message: message}
}

// NewNotConfigured reports a missing server-side precondition, e.g. an
// unset admin token. This is an operational condition, distinct from a
// wrong token.
func NewNotConfigured(message string) *ServiceError {
	return &ServiceError{Code: CodeNotConfigured, Message: message}
}

// NewProductUnavailable reports a product reference that cannot be
// loaded for a new or edited order.
func NewProductUnavailable(message string) *ServiceError {
	return &ServiceError{Code: CodeProductUnavailable, Message: message}
}

// NewOrderNotFound reports an order id that does not resolve.
func NewOrderNotFound(message string) *ServiceError {
	return &ServiceError{Code: CodeOrderNotFound, Message: message}
}

// NewOwnershipViolation reports an edit or archive attempted by a
// device that does not own the record.
func NewOwnershipViolation(message string) *ServiceError {
	return &ServiceError{Code: CodeOwnershipViolation, Message: message}
}

// ErrorCode extracts the service error code, or empty for other errors.
func ErrorCode(err error) string {
	var svcErr *ServiceError
	if errors.As(err, &svcErr) {
		return svcErr.Code
	}
	return ""
}

// IsCode reports whether err carries the given service error code.
func IsCode(err error, code string) bool {
	return ErrorCode(err) == code
}
