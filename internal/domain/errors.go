package domain

import (
	"errors"
	"fmt"
	"strings"
)

// Sentinel errors for domain-level error discrimination.
// Services wrap these so handlers can map to HTTP status codes without
// leaking infrastructure details.
var (
	ErrNotFound     = errors.New("not found")
	ErrUnauthorized = errors.New("unauthorized")
	ErrBadRequest   = errors.New("bad request")

	ErrTokenExpired   = errors.New("token expired")
	ErrTokenMalformed = errors.New("token malformed")
	ErrTokenSignature = errors.New("token signature invalid")

	// ErrAlreadyConfirmed marks a confirmation attempt against an account
	// that is already active. A second confirmation must fail cleanly
	// instead of re-activating.
	ErrAlreadyConfirmed = errors.New("account already confirmed")
)

// FieldError reports a single failed input rule. Message is either
// "missing" or "invalid".
type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// ValidationErrors collects every failed rule for a request. Validation
// never short-circuits: all fields are checked so every problem is
// reported at once, in field order.
type ValidationErrors []FieldError

func (e ValidationErrors) Error() string {
	parts := make([]string, len(e))
	for i, fe := range e {
		parts[i] = fe.Field + " " + fe.Message
	}
	return strings.Join(parts, ", ")
}

// ConflictError reports a uniqueness violation on username or email.
type ConflictError struct {
	Field string
	Value string
}

func (e *ConflictError) Error() string {
	label := e.Field
	if label != "" {
		label = strings.ToUpper(label[:1]) + label[1:]
	}
	return fmt.Sprintf("%s %s already exist.", label, e.Value)
}

// Authentication failure reasons. Invalid username and wrong password
// share one message so login cannot be used to enumerate usernames.
const (
	ReasonInvalidCredentials = "Invalid username or password"
	ReasonEmailNotConfirmed  = "Email not confirmed"
	ReasonMissingToken       = "Unauthorized access"
	ReasonInvalidToken       = "Invalid token"
	ReasonTokenRevoked       = "Token revoked"
)

// AuthError is a tagged authentication failure. It always maps to 401 on
// the API channel.
type AuthError struct {
	Reason string
}

func (e *AuthError) Error() string { return e.Reason }
