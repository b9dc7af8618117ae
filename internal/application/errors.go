package application

import (
	"errors"
	"strings"

	"github.com/oksasatya/go-auth-api/pkg/validation"
)

var (
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrEmailTaken         = errors.New("email has already been taken")
	ErrInvalidToken       = errors.New("invalid or expired token")
)

// ValidationError lists every field-level rule the input broke.
type ValidationError struct {
	Violations []validation.FieldViolation
}

func (e *ValidationError) Error() string {
	fields := make([]string, 0, len(e.Violations))
	for _, v := range e.Violations {
		fields = append(fields, v.Field+" "+v.Message)
	}
	return "validation failed: " + strings.Join(fields, "; ")
}

// Details returns the violations keyed by field.
func (e *ValidationError) Details() map[string]string {
	return validation.Details(e.Violations)
}

// HasField reports whether field has at least one violation.
func (e *ValidationError) HasField(field string) bool {
	for _, v := range e.Violations {
		if v.Field == field {
			return true
		}
	}
	return false
}

// InfrastructureError wraps a storage or system failure. Its message is meant
// for logs, not for API clients.
type InfrastructureError struct {
	Op  string
	Err error
}

func (e *InfrastructureError) Error() string { return e.Op + ": " + e.Err.Error() }

func (e *InfrastructureError) Unwrap() error { return e.Err }

func infra(op string, err error) error {
	return &InfrastructureError{Op: op, Err: err}
}
