package errors

import (
	stderrors "errors"
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
)

// Kind classifies an application error.
type Kind string

const (
	KindValidation Kind = "validation"
	KindDeclined   Kind = "declined"
	KindNotFound   Kind = "not_found"
	KindDependency Kind = "dependency"
)

// Error represents an application error
type Error struct {
	Kind    Kind   `json:"-"`
	Code    int    `json:"code"`
	Message string `json:"message"`
	Err     error  `json:"-"`
}

// Error implements the error interface
func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

// Unwrap returns the wrapped error
func (e *Error) Unwrap() error {
	return e.Err
}

// Is matches any *Error of the same kind, so the sentinels below work with
// errors.Is regardless of message.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok {
		return false
	}
	return t.Kind != "" && t.Kind == e.Kind
}

// Sentinel kinds for errors.Is.
var (
	ErrValidation = &Error{Kind: KindValidation, Code: http.StatusBadRequest, Message: "validation error"}
	ErrDeclined   = &Error{Kind: KindDeclined, Code: http.StatusPaymentRequired, Message: "declined"}
	ErrNotFound   = &Error{Kind: KindNotFound, Code: http.StatusNotFound, Message: "not found"}
	ErrDependency = &Error{Kind: KindDependency, Code: http.StatusInternalServerError, Message: "dependency failure"}
)

// Validation reports missing or malformed input.
func Validation(message string) *Error {
	return &Error{Kind: KindValidation, Code: http.StatusBadRequest, Message: message}
}

// Declined reports a business rule rejecting the request.
func Declined(reason string) *Error {
	return &Error{Kind: KindDeclined, Code: http.StatusPaymentRequired, Message: reason}
}

func NotFound(message string) *Error {
	return &Error{Kind: KindNotFound, Code: http.StatusNotFound, Message: message}
}

// Dependency wraps a failed store, queue or channel call.
func Dependency(message string, err error) *Error {
	return &Error{Kind: KindDependency, Code: http.StatusInternalServerError, Message: message, Err: err}
}

// StatusCode maps err to an HTTP status. Errors outside the taxonomy are 500.
func StatusCode(err error) int {
	var appErr *Error
	if stderrors.As(err, &appErr) && appErr.Code != 0 {
		return appErr.Code
	}
	return http.StatusInternalServerError
}

// PublicMessage is the text safe to show a caller: the message of an
// application error, or a generic one for anything else.
func PublicMessage(err error) string {
	var appErr *Error
	if stderrors.As(err, &appErr) {
		return appErr.Message
	}
	return "Internal server error"
}

// Respond writes err as {"error": message} with its mapped status.
func Respond(c *gin.Context, err error) {
	c.JSON(StatusCode(err), gin.H{"error": PublicMessage(err)})
}

// ErrorMiddleware renders the last error attached to the gin context.
func ErrorMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Next()
		if len(c.Errors) > 0 && !c.Writer.Written() {
			Respond(c, c.Errors.Last().Err)
			c.Abort()
		}
	}
}
