package errors

import (
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
)

// Error is an application error that carries the HTTP status it should be
// reported with. Handlers translate everything to the JSON envelope
// {"success": false, "message": ...} via Respond.
type Error struct {
	Code    int    `json:"-"`
	Message string `json:"message"`
	Err     error  `json:"-"`
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

// Unwrap returns the wrapped error.
func (e *Error) Unwrap() error {
	return e.Err
}

// New creates a new Error.
func New(code int, message string, err error) *Error {
	return &Error{
		Code:    code,
		Message: message,
		Err:     err,
	}
}

// Wrap attaches a cause to a taxonomy error without mutating the shared value.
func Wrap(base *Error, err error) *Error {
	return &Error{Code: base.Code, Message: base.Message, Err: err}
}

// Generic error types
var (
	ErrBadRequest     = New(http.StatusBadRequest, "Bad request", nil)
	ErrUnauthorized   = New(http.StatusUnauthorized, "Not authorized", nil)
	ErrForbidden      = New(http.StatusForbidden, "Forbidden", nil)
	ErrNotFound       = New(http.StatusNotFound, "Not found", nil)
	ErrInternalServer = New(http.StatusInternalServerError, "Internal server error", nil)
)

// Authentication error types
var (
	ErrInvalidCredentials = New(http.StatusUnauthorized, "Invalid email or password", nil)
	ErrAccountInactive    = New(http.StatusUnauthorized, "Account is inactive. Please contact an administrator", nil)
	ErrInvalidToken       = New(http.StatusUnauthorized, "Invalid or expired token", nil)
	ErrResetToken         = New(http.StatusBadRequest, "Invalid or expired reset token", nil)
)

// User management error types
var (
	ErrUserNotFound    = New(http.StatusNotFound, "User not found", nil)
	ErrDuplicateEmail  = New(http.StatusBadRequest, "Email is already in use", nil)
	ErrInvalidRole     = New(http.StatusBadRequest, "Invalid role", nil)
	ErrInvalidStatus   = New(http.StatusBadRequest, "Invalid status", nil)
	ErrLastAdmin       = New(http.StatusBadRequest, "Cannot delete the last administrator", nil)
	ErrLastActiveAdmin = New(http.StatusBadRequest, "Cannot deactivate the last active administrator", nil)
)

// Catalog error types
var (
	ErrProductNotFound     = New(http.StatusNotFound, "Product not found", nil)
	ErrCategoryNotFound    = New(http.StatusNotFound, "Category not found", nil)
	ErrParentNotFound      = New(http.StatusBadRequest, "Parent category not found", nil)
	ErrDuplicateSlug       = New(http.StatusBadRequest, "Category slug is already in use", nil)
	ErrCategoryHasChildren = New(http.StatusBadRequest, "Category still has child categories", nil)
	ErrCategoryCycle       = New(http.StatusBadRequest, "Category cannot be nested under its own descendant", nil)
	ErrCategoryHasProducts = New(http.StatusBadRequest, "Category still has products", nil)
	ErrCurrencyUnavailable = New(http.StatusBadRequest, "Product is not priced in the requested currency", nil)
	ErrQuoteNotFound       = New(http.StatusNotFound, "Quote not found", nil)
)

// Respond writes err as the standard failure envelope. Unknown error values
// are reported as an internal server error; the cause is never leaked.
func Respond(c *gin.Context, err error) {
	appErr, ok := err.(*Error)
	if !ok {
		appErr = Wrap(ErrInternalServer, err)
	}
	c.JSON(appErr.Code, gin.H{"success": false, "message": appErr.Message})
}

// Abort writes the failure envelope and stops the handler chain. Used by
// middleware.
func Abort(c *gin.Context, err error) {
	appErr, ok := err.(*Error)
	if !ok {
		appErr = Wrap(ErrInternalServer, err)
	}
	c.AbortWithStatusJSON(appErr.Code, gin.H{"success": false, "message": appErr.Message})
}

// OK writes a success envelope with the given payload keys merged in.
func OK(c *gin.Context, status int, payload gin.H) {
	body := gin.H{"success": true}
	for k, v := range payload {
		body[k] = v
	}
	c.JSON(status, body)
}
