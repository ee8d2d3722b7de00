package errors

import (
	"errors"
	"fmt"
)

// Domain errors
var (
	ErrRolloverNotFound     = errors.New("rollover record not found")
	ErrIneligibleRollover   = errors.New("loan is not eligible for rollover")
	ErrRolloverLogFailed    = errors.New("rollover request could not be logged")
	ErrCompletionTimeout    = errors.New("timed out waiting for rollover logging completion")
	ErrInquiryNotFound      = errors.New("loan inquiry not found")
	ErrInvalidAccountNumber = errors.New("invalid account number")
	ErrWalletDisabled       = errors.New("digital wallet is not enabled")
)

// BusinessError represents a business logic error
type BusinessError struct {
	Code    string
	Message string
	Err     error
}

func (e *BusinessError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s (%v)", e.Code, e.Message, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

func (e *BusinessError) Unwrap() error {
	return e.Err
}

// NewBusinessError creates a new business error
func NewBusinessError(code, message string, err error) *BusinessError {
	return &BusinessError{
		Code:    code,
		Message: message,
		Err:     err,
	}
}

// Error codes
const (
	ErrCodeRolloverNotFound   = "ROLLOVER_NOT_FOUND"
	ErrCodeIneligibleRollover = "INELIGIBLE_FOR_ROLLOVER"
	ErrCodeRolloverLogFailed  = "ROLLOVER_LOG_FAILED"
	ErrCodeCompletionTimeout  = "COMPLETION_TIMEOUT"
	ErrCodeValidationError    = "VALIDATION_ERROR"
	ErrCodeInquiryNotFound    = "INQUIRY_NOT_FOUND"
	ErrCodeDatabaseError      = "DATABASE_ERROR"
	ErrCodeCacheError         = "CACHE_ERROR"
	ErrCodeWalletDisabled     = "WALLET_DISABLED"
	ErrCodeWalletVendorError  = "WALLET_VENDOR_ERROR"
)

// Wrap common errors with business context
func WrapRolloverNotFound(account string, suffix int) *BusinessError {
	return NewBusinessError(
		ErrCodeRolloverNotFound,
		fmt.Sprintf("No rollover record for account %s suffix %d", account, suffix),
		ErrRolloverNotFound,
	)
}

func WrapIneligibleRollover(account string, suffix int) *BusinessError {
	return NewBusinessError(
		ErrCodeIneligibleRollover,
		fmt.Sprintf("Loan %d on account %s is not eligible for rollover", suffix, account),
		ErrIneligibleRollover,
	)
}

func WrapRolloverLogFailed(err error) *BusinessError {
	return NewBusinessError(
		ErrCodeRolloverLogFailed,
		"rollover request logging failed",
		err,
	)
}

func WrapCompletionTimeout(correlationID string) *BusinessError {
	return NewBusinessError(
		ErrCodeCompletionTimeout,
		fmt.Sprintf("No logging completion received for correlation id %s", correlationID),
		ErrCompletionTimeout,
	)
}

func WrapValidationError(field string, err error) *BusinessError {
	return NewBusinessError(
		ErrCodeValidationError,
		fmt.Sprintf("Invalid value for %s", field),
		err,
	)
}

func WrapDatabaseError(err error) *BusinessError {
	return NewBusinessError(
		ErrCodeDatabaseError,
		"database operation failed",
		err,
	)
}

func WrapCacheError(err error) *BusinessError {
	return NewBusinessError(
		ErrCodeCacheError,
		"Cache operation failed",
		err,
	)
}

func WrapWalletVendorError(err error) *BusinessError {
	return NewBusinessError(
		ErrCodeWalletVendorError,
		"card management vendor call failed",
		err,
	)
}
