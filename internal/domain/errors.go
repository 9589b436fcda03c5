package domain

import (
	"errors"
	"fmt"
	"strings"
)

var (
	// ErrQuotaExceeded means a non-premium user hit the free-tier trade
	// limit. Handlers surface it as 403 with premium_required set.
	ErrQuotaExceeded = errors.New("free tier trade limit reached")

	// ErrPremiumRequired gates operations (trade deletion) behind the
	// premium subscription.
	ErrPremiumRequired = errors.New("premium subscription required")

	ErrNotFound = errors.New("not found")
)

// MissingFieldsError lists the required trade fields absent from a request.
type MissingFieldsError struct {
	Fields []string
}

func (e *MissingFieldsError) Error() string {
	return fmt.Sprintf("missing required fields: %s", strings.Join(e.Fields, ", "))
}

// InvalidFieldError reports a field whose value is outside its closed set.
type InvalidFieldError struct {
	Field string
	Value string
}

func (e *InvalidFieldError) Error() string {
	return fmt.Sprintf("invalid value for %s: %q", e.Field, e.Value)
}
