package apperr

import (
	"net/http"

	"github.com/labstack/echo/v4"
)

// Kind classifies a failure. Each kind maps to exactly one HTTP status;
// callers only ever see the kind's status and the external message.
type Kind int

const (
	// Authentication covers bad login credentials.
	Authentication Kind = iota
	// SessionInvalid covers malformed, expired or corrupt session tokens
	// and claims. Several internal causes, one external shape.
	SessionInvalid
	// PermissionDenied covers insufficient role and cross-tenant writes.
	PermissionDenied
	// NotFound covers absent entities and entities owned by another
	// empresa; the two are indistinguishable to the caller.
	NotFound
	// Validation covers missing or malformed request fields.
	Validation
	// Internal covers unexpected store or logic faults. Detail is logged,
	// never exposed.
	Internal
	// Conflict covers uniqueness violations such as a duplicate email.
	Conflict
)

var statusByKind = map[Kind]int{
	Authentication:   http.StatusUnauthorized,
	SessionInvalid:   http.StatusUnauthorized,
	PermissionDenied: http.StatusForbidden,
	NotFound:         http.StatusNotFound,
	Validation:       http.StatusBadRequest,
	Internal:         http.StatusInternalServerError,
	Conflict:         http.StatusConflict,
}

// Error is a tagged failure propagated by return value through the
// resolver, store and handlers.
type Error struct {
	Kind    Kind
	Message string
}

func (e *Error) Error() string {
	return e.Message
}

// Status returns the HTTP status for the error's kind.
func (e *Error) Status() int {
	return statusByKind[e.Kind]
}

// New builds a tagged error with an external message.
func New(kind Kind, message string) *Error {
	return &Error{Kind: kind, Message: message}
}

// JSON writes the error to the echo context in the one external shape all
// failures share.
func (e *Error) JSON(c echo.Context) error {
	return c.JSON(e.Status(), echo.Map{"message": e.Message})
}
