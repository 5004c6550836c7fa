package serrors

import "fmt"

// BaseError is a coded error. Code is stable across releases and is what API
// clients and tests should match on; Message is for humans.
type BaseError struct {
	Code    string
	Message string
	Details string
}

func NewError(code, message, details string) *BaseError {
	return &BaseError{
		Code:    code,
		Message: message,
		Details: details,
	}
}

func (e *BaseError) Error() string {
	if e.Details != "" {
		return fmt.Sprintf("%s: %s (%s)", e.Code, e.Message, e.Details)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// WithDetails returns a copy carrying extra detail text. The original error
// keeps its identity for errors.Is comparisons.
func (e *BaseError) WithDetails(details string) *BaseError {
	return &BaseError{
		Code:    e.Code,
		Message: e.Message,
		Details: details,
	}
}

func (e *BaseError) Is(target error) bool {
	other, ok := target.(*BaseError)
	if !ok {
		return false
	}
	return e.Code == other.Code
}
