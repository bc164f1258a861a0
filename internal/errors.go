package internal

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"
)

type ErrorType string

const (
	ErrorTypeValidation         ErrorType = "VALIDATION_ERROR"
	ErrorTypeNotFound           ErrorType = "NOT_FOUND"
	ErrorTypeUnauthorized       ErrorType = "UNAUTHORIZED"
	ErrorTypeForbidden          ErrorType = "FORBIDDEN"
	ErrorTypeConflict           ErrorType = "CONFLICT"
	ErrorTypeInternal           ErrorType = "INTERNAL_ERROR"
	ErrorTypeBackendUnavailable ErrorType = "BACKEND_UNAVAILABLE"
)

type ErrorCode string

const (
	ErrCodeValidationFailed ErrorCode = "VALIDATION_FAILED"
	ErrCodeInvalidAmount    ErrorCode = "INVALID_AMOUNT"
	ErrCodeInvalidDate      ErrorCode = "INVALID_DATE"
	ErrCodeInvalidCategory  ErrorCode = "INVALID_CATEGORY"
	ErrCodeInvalidCompany   ErrorCode = "INVALID_COMPANY"
	ErrCodeBillRequired     ErrorCode = "BILL_REQUIRED"
	ErrCodeInvalidAdvance   ErrorCode = "INVALID_ADVANCE"
	ErrCodeInvalidStaff     ErrorCode = "INVALID_STAFF"
	ErrCodeInvalidUpload    ErrorCode = "INVALID_UPLOAD"

	ErrCodeAdvanceNotFound          ErrorCode = "ADVANCE_NOT_FOUND"
	ErrCodeExpenseNotFound          ErrorCode = "EXPENSE_NOT_FOUND"
	ErrCodeAdminExpenseNotFound     ErrorCode = "ADMIN_EXPENSE_NOT_FOUND"
	ErrCodeCollectionNotFound       ErrorCode = "COLLECTION_NOT_FOUND"
	ErrCodeTransportPaymentNotFound ErrorCode = "TRANSPORT_PAYMENT_NOT_FOUND"
	ErrCodeAttachmentNotFound       ErrorCode = "ATTACHMENT_NOT_FOUND"

	ErrCodeUnauthorizedAccess ErrorCode = "UNAUTHORIZED_ACCESS"
	ErrCodeExpenseSettled     ErrorCode = "EXPENSE_SETTLED"
	ErrCodeAdvanceSettled     ErrorCode = "ADVANCE_SETTLED"
	ErrCodeAdvanceInUse       ErrorCode = "ADVANCE_IN_USE"

	ErrCodeInvalidCredentials ErrorCode = "INVALID_CREDENTIALS"
	ErrCodeUserNotFound       ErrorCode = "USER_NOT_FOUND"
	ErrCodeInvalidToken       ErrorCode = "INVALID_TOKEN"
	ErrCodeTokenExpired       ErrorCode = "TOKEN_EXPIRED"
	ErrCodeSessionEnded       ErrorCode = "SESSION_ENDED"

	ErrCodeBackendUnavailable ErrorCode = "BACKEND_UNAVAILABLE"
)

type AppError struct {
	Type       ErrorType   `json:"type"`
	Code       ErrorCode   `json:"code"`
	Message    string      `json:"message"`
	Details    interface{} `json:"details,omitempty"`
	StatusCode int         `json:"-"`
	Cause      error       `json:"-"`
}

func (e *AppError) Error() string {
	if e.Details != nil {
		if validationErrors, ok := e.Details.(ValidationErrors); ok && len(validationErrors.Errors) > 0 {
			return validationErrors.Errors[0].Message
		}
	}
	if e.Cause != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Cause)
	}
	return e.Message
}

func (e *AppError) GetDetailedMessage() string {
	if e.Details != nil {
		if validationErrors, ok := e.Details.(ValidationErrors); ok {
			if len(validationErrors.Errors) == 1 {
				return validationErrors.Errors[0].Message
			} else if len(validationErrors.Errors) > 1 {
				messages := make([]string, len(validationErrors.Errors))
				for i, err := range validationErrors.Errors {
					messages[i] = err.Message
				}
				return strings.Join(messages, "; ")
			}
		}
	}
	return e.Message
}

func (e *AppError) Unwrap() error {
	return e.Cause
}

// Is matches on Type and Code so that sentinel errors compare equal to copies
// carrying a different cause.
func (e *AppError) Is(target error) bool {
	t, ok := target.(*AppError)
	if !ok {
		return false
	}
	return e.Type == t.Type && e.Code == t.Code
}

func (e *AppError) WithCause(cause error) *AppError {
	clone := *e
	clone.Cause = cause
	return &clone
}

func (e *AppError) WithDetails(details interface{}) *AppError {
	clone := *e
	clone.Details = details
	return &clone
}

type ValidationError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
	Code    string `json:"code"`
}

type ValidationErrors struct {
	Errors []ValidationError `json:"errors"`
}

func NewValidationError(message string, code ErrorCode) *AppError {
	return &AppError{
		Type:       ErrorTypeValidation,
		Code:       code,
		Message:    message,
		StatusCode: http.StatusBadRequest,
	}
}

func NewValidationFieldError(field, message string, code ErrorCode) *AppError {
	return &AppError{
		Type:       ErrorTypeValidation,
		Code:       ErrCodeValidationFailed,
		Message:    "Validation failed",
		StatusCode: http.StatusBadRequest,
		Details: ValidationErrors{
			Errors: []ValidationError{
				{Field: field, Message: message, Code: string(code)},
			},
		},
	}
}

func NewNotFoundError(message string, code ErrorCode) *AppError {
	return &AppError{
		Type:       ErrorTypeNotFound,
		Code:       code,
		Message:    message,
		StatusCode: http.StatusNotFound,
	}
}

func NewUnauthorizedError(message string, code ErrorCode) *AppError {
	return &AppError{
		Type:       ErrorTypeUnauthorized,
		Code:       code,
		Message:    message,
		StatusCode: http.StatusUnauthorized,
	}
}

func NewForbiddenError(message string, code ErrorCode) *AppError {
	return &AppError{
		Type:       ErrorTypeForbidden,
		Code:       code,
		Message:    message,
		StatusCode: http.StatusForbidden,
	}
}

func NewInternalError(message string, cause error) *AppError {
	return &AppError{
		Type:       ErrorTypeInternal,
		Code:       "INTERNAL_ERROR",
		Message:    message,
		StatusCode: http.StatusInternalServerError,
		Cause:      cause,
	}
}

func NewConflictError(message string, code ErrorCode) *AppError {
	return &AppError{
		Type:       ErrorTypeConflict,
		Code:       code,
		Message:    message,
		StatusCode: http.StatusConflict,
	}
}

// NewBackendUnavailableError wraps a storage failure. Callers surface it as is; nothing retries.
func NewBackendUnavailableError(cause error) *AppError {
	return &AppError{
		Type:       ErrorTypeBackendUnavailable,
		Code:       ErrCodeBackendUnavailable,
		Message:    "storage backend unavailable",
		StatusCode: http.StatusServiceUnavailable,
		Cause:      cause,
	}
}

var (
	ErrAdvanceNotFound          = NewNotFoundError("Advance not found", ErrCodeAdvanceNotFound)
	ErrExpenseNotFound          = NewNotFoundError("Expense not found", ErrCodeExpenseNotFound)
	ErrAdminExpenseNotFound     = NewNotFoundError("Admin expense not found", ErrCodeAdminExpenseNotFound)
	ErrCollectionNotFound       = NewNotFoundError("Collection not found", ErrCodeCollectionNotFound)
	ErrTransportPaymentNotFound = NewNotFoundError("Transport payment not found", ErrCodeTransportPaymentNotFound)
	ErrAttachmentNotFound       = NewNotFoundError("Attachment not found", ErrCodeAttachmentNotFound)
	ErrAccountNotFound          = NewNotFoundError("User not found", ErrCodeUserNotFound)

	ErrUnauthorizedAccess = NewForbiddenError("unauthorized access to record", ErrCodeUnauthorizedAccess)
	ErrExpenseSettled     = NewConflictError("Expense is already settled", ErrCodeExpenseSettled)
	ErrAdvanceSettled     = NewConflictError("Advance is already settled", ErrCodeAdvanceSettled)
	ErrAdvanceInUse       = NewConflictError("Advance has linked expenses", ErrCodeAdvanceInUse)

	ErrInvalidCredentials = NewUnauthorizedError("Invalid email or password", ErrCodeInvalidCredentials)
	ErrUserNotFound       = NewUnauthorizedError("User not found", ErrCodeUserNotFound)
	ErrInvalidToken       = NewUnauthorizedError("Invalid token", ErrCodeInvalidToken)
	ErrTokenExpired       = NewUnauthorizedError("Token has expired", ErrCodeTokenExpired)
	ErrSessionEnded       = NewUnauthorizedError("Session has ended", ErrCodeSessionEnded)
)

func IsAppError(err error) (*AppError, bool) {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr, true
	}
	return nil, false
}

type Response struct {
	Error *AppError `json:"error"`
}

func (e *AppError) ToHTTPResponse() (int, interface{}) {
	return e.StatusCode, Response{Error: e}
}

func (e *AppError) MarshalJSON() ([]byte, error) {
	return json.Marshal(struct {
		Type    ErrorType   `json:"type"`
		Code    ErrorCode   `json:"code"`
		Message string      `json:"message"`
		Details interface{} `json:"details,omitempty"`
	}{
		Type:    e.Type,
		Code:    e.Code,
		Message: e.Message,
		Details: e.Details,
	})
}
