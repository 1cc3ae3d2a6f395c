package common

import (
	"context"
	"errors"

	"go.mongodb.org/mongo-driver/mongo"
)

// HTTP Status Code Constants
const (
	// Success Codes (2xx)
	StatusOK        = 200
	StatusCreated   = 201
	StatusNoContent = 204

	// Client Error Codes (4xx)
	StatusBadRequest          = 400
	StatusUnauthorized        = 401
	StatusForbidden           = 403
	StatusNotFound            = 404
	StatusConflict            = 409
	StatusRequestEntityTooBig = 413
	StatusUnsupportedMedia    = 415
	StatusUnprocessable       = 422
	StatusTooManyRequests     = 429

	// Server Error Codes (5xx)
	StatusInternalServerError = 500
	StatusBadGateway          = 502
	StatusServiceUnavailable  = 503
)

// Response Messages
const (
	MsgSuccess     = "Success"
	MsgCreated     = "Created successfully"
	MsgUpdated     = "Updated successfully"
	MsgDeleted     = "Deleted successfully"
	MsgPublished   = "published"
	MsgUnpublished = "unpublished"

	MsgBadRequest       = "Bad request"
	MsgUnauthorized     = "Please log in"
	MsgForbidden        = "Access denied"
	MsgNotFound         = "Resource not found"
	MsgConflict         = "Conflict"
	MsgTooManyRequests  = "Too many requests, please try again later"
	MsgInternalError    = "Internal server error"
	MsgPayloadTooLarge  = "Payload too large"
	MsgValidationError  = "Validation failed"
	MsgInvalidFormat    = "Invalid data format"
	MsgInvalidID        = "Invalid id"
	MsgDatabaseError    = "Database error"
	MsgUpstreamError    = "Upstream service error"
	MsgServiceUnhealthy = "Service unavailable"
)

// ErrorCode is the machine readable classification carried by every error response.
type ErrorCode struct {
	Code        string // e.g. AUTH_001
	Category    string // e.g. Authentication
	SubCategory string // e.g. Token
	Description string
}

var (
	// System Errors (SYS_xxx)
	ErrCodeInternalServer = ErrorCode{
		Code:        "SYS_001",
		Category:    "System",
		SubCategory: "Internal",
		Description: "Internal system error",
	}

	ErrCodeUpstream = ErrorCode{
		Code:        "SYS_002",
		Category:    "System",
		SubCategory: "Upstream",
		Description: "External collaborator failed",
	}

	// Authentication Errors (AUTH_xxx)
	ErrCodeAuthToken = ErrorCode{
		Code:        "AUTH_001",
		Category:    "Authentication",
		SubCategory: "Token",
		Description: "Token missing, malformed or expired",
	}

	ErrCodeAuthCredentials = ErrorCode{
		Code:        "AUTH_002",
		Category:    "Authentication",
		SubCategory: "Credentials",
		Description: "Wrong username or password",
	}

	ErrCodeAuthRole = ErrorCode{
		Code:        "AUTH_003",
		Category:    "Authentication",
		SubCategory: "Role",
		Description: "Role does not allow the operation",
	}

	// Validation Errors (VAL_xxx)
	ErrCodeValidationInput = ErrorCode{
		Code:        "VAL_001",
		Category:    "Validation",
		SubCategory: "Input",
		Description: "Input failed validation",
	}

	ErrCodeValidationFormat = ErrorCode{
		Code:        "VAL_002",
		Category:    "Validation",
		SubCategory: "Format",
		Description: "Input could not be parsed",
	}

	// Database Errors (DB_xxx)
	ErrCodeDatabaseConnection = ErrorCode{
		Code:        "DB_001",
		Category:    "Database",
		SubCategory: "Connection",
		Description: "Database connection error",
	}

	ErrCodeDatabaseQuery = ErrorCode{
		Code:        "DB_002",
		Category:    "Database",
		SubCategory: "Query",
		Description: "Database query error",
	}

	// Business Logic Errors (BIZ_xxx)
	ErrCodeBusinessState = ErrorCode{
		Code:        "BIZ_001",
		Category:    "Business",
		SubCategory: "State",
		Description: "Operation conflicts with the current state",
	}

	ErrCodeBusinessOperation = ErrorCode{
		Code:        "BIZ_002",
		Category:    "Business",
		SubCategory: "Operation",
		Description: "Operation is not allowed",
	}
)

// Error is the error value every layer returns. StatusCode is the HTTP status
// the response envelope will carry.
type Error struct {
	Code       ErrorCode
	Message    string
	StatusCode int
	Details    any

	// prebuilt error this one was copied from
	base *Error
}

// Error implements the error interface.
func (e *Error) Error() string {
	return e.Message
}

// Is matches another *Error with the same code, message and status, or the
// prebuilt error a WithDetails/WithMessage copy was made from.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok {
		return false
	}
	if e.Code.Code == t.Code.Code && e.Message == t.Message && e.StatusCode == t.StatusCode {
		return true
	}
	return e.base != nil && e.base.Is(t)
}

func (e *Error) copy() *Error {
	cp := *e
	if e.base == nil {
		cp.base = e
	}
	return &cp
}

// NewError builds an *Error.
func NewError(code ErrorCode, message string, statusCode int, details any) error {
	return &Error{
		Code:       code,
		Message:    message,
		StatusCode: statusCode,
		Details:    details,
	}
}

// WithDetails returns a copy of a prebuilt *Error carrying details. Non *Error
// values are returned unchanged.
func WithDetails(err error, details any) error {
	var e *Error
	if !errors.As(err, &e) {
		return err
	}
	cp := e.copy()
	cp.Details = details
	return cp
}

// WithMessage returns a copy of a prebuilt *Error with another message.
func WithMessage(err error, message string) error {
	var e *Error
	if !errors.As(err, &e) {
		return err
	}
	cp := e.copy()
	cp.Message = message
	return cp
}

// StatusOf returns the HTTP status carried by err, 500 for foreign errors.
func StatusOf(err error) int {
	var e *Error
	if errors.As(err, &e) {
		return e.StatusCode
	}
	return StatusInternalServerError
}

// Prebuilt errors
var (
	// Authentication
	ErrInvalidCredentials = NewError(ErrCodeAuthCredentials, "Invalid username or password", StatusUnauthorized, nil)
	ErrAccountDisabled    = NewError(ErrCodeAuthCredentials, "Account is disabled", StatusForbidden, nil)
	ErrTokenExpired       = NewError(ErrCodeAuthToken, "Session has expired", StatusUnauthorized, nil)
	ErrTokenInvalid       = NewError(ErrCodeAuthToken, "Invalid token", StatusUnauthorized, nil)
	ErrTokenMissing       = NewError(ErrCodeAuthToken, "Missing authentication token", StatusUnauthorized, nil)
	ErrForbidden          = NewError(ErrCodeAuthRole, "Insufficient role for this operation", StatusForbidden, nil)

	// Validation
	ErrValidation    = NewError(ErrCodeValidationInput, MsgValidationError, StatusUnprocessable, nil)
	ErrInvalidInput  = NewError(ErrCodeValidationInput, "Invalid input", StatusBadRequest, nil)
	ErrInvalidFormat = NewError(ErrCodeValidationFormat, MsgInvalidFormat, StatusBadRequest, nil)
	ErrInvalidID     = NewError(ErrCodeValidationFormat, MsgInvalidID, StatusBadRequest, nil)
	ErrRequiredField = NewError(ErrCodeValidationInput, "Missing required field", StatusBadRequest, nil)
	ErrFileTooLarge  = NewError(ErrCodeValidationInput, "File exceeds the upload size limit", StatusRequestEntityTooBig, nil)
	ErrFileType      = NewError(ErrCodeValidationInput, "File type is not allowed", StatusUnsupportedMedia, nil)
	ErrPayloadTooBig = NewError(ErrCodeValidationInput, MsgPayloadTooLarge, StatusRequestEntityTooBig, nil)

	// Database
	ErrNotFound  = NewError(ErrCodeDatabaseQuery, MsgNotFound, StatusNotFound, nil)
	ErrDuplicate = NewError(ErrCodeDatabaseQuery, "Record with the same unique field already exists", StatusConflict, nil)
	ErrDatabase  = NewError(ErrCodeDatabaseQuery, MsgDatabaseError, StatusInternalServerError, nil)
	ErrTimeout   = NewError(ErrCodeDatabaseConnection, "Database timeout", StatusServiceUnavailable, nil)
	ErrNoConn    = NewError(ErrCodeDatabaseConnection, "Database connection error", StatusServiceUnavailable, nil)

	// Business
	ErrPublishConflict = NewError(ErrCodeBusinessState, "Another record of this type is already published; unpublish it first", StatusConflict, nil)
	ErrInvalidState    = NewError(ErrCodeBusinessState, "Invalid state transition", StatusBadRequest, nil)
	ErrSelfDelete      = NewError(ErrCodeBusinessOperation, "You cannot delete your own account", StatusBadRequest, nil)
	ErrRateLimited     = NewError(ErrCodeBusinessOperation, MsgTooManyRequests, StatusTooManyRequests, nil)

	// Collaborators
	ErrUpstream = NewError(ErrCodeUpstream, MsgUpstreamError, StatusBadGateway, nil)
	ErrInternal = NewError(ErrCodeInternalServer, MsgInternalError, StatusInternalServerError, nil)
)

// ConvertMongoError maps driver errors onto the taxonomy. *Error values pass
// through untouched.
func ConvertMongoError(err error) error {
	if err == nil {
		return nil
	}

	var e *Error
	if errors.As(err, &e) {
		return err
	}

	switch {
	case errors.Is(err, mongo.ErrNoDocuments):
		return ErrNotFound
	case mongo.IsDuplicateKeyError(err):
		return WithDetails(ErrDuplicate, err.Error())
	case mongo.IsTimeout(err), errors.Is(err, context.DeadlineExceeded):
		return ErrTimeout
	case mongo.IsNetworkError(err), errors.Is(err, mongo.ErrClientDisconnected):
		return ErrNoConn
	}

	var cmdErr mongo.CommandError
	if errors.As(err, &cmdErr) && cmdErr.HasErrorLabel("NetworkError") {
		return ErrNoConn
	}

	return WithDetails(ErrDatabase, err.Error())
}
