package validation

import (
	"sort"
	"strings"
)

// Field names as they appear in validationErrors.
const (
	FieldUsername = "username"
	FieldEmail    = "email"
	FieldPassword = "password"
	FieldImage    = "image"
	FieldContent  = "content"
)

// fieldOrder fixes the reporting order across every input.
var fieldOrder = map[string]int{
	FieldUsername: 0,
	FieldEmail:    1,
	FieldPassword: 2,
	FieldImage:    3,
	FieldContent:  4,
}

// FieldError pairs a field with the message key describing its first failing rule.
type FieldError struct {
	Field string
	Key   string
}

// Errors is the ordered set of failing fields for one input. At most one key per field.
type Errors []FieldError

func (e Errors) Error() string {
	parts := make([]string, 0, len(e))
	for _, fe := range e {
		parts = append(parts, fe.Field+": "+fe.Key)
	}
	return "validation failed: " + strings.Join(parts, "; ")
}

// Has reports whether field already failed.
func (e Errors) Has(field string) bool {
	for _, fe := range e {
		if fe.Field == field {
			return true
		}
	}
	return false
}

// Key returns the message key recorded for field, or "".
func (e Errors) Key(field string) string {
	for _, fe := range e {
		if fe.Field == field {
			return fe.Key
		}
	}
	return ""
}

// Set records key for field unless the field already failed, keeping field order.
func (e Errors) Set(field, key string) Errors {
	if e.Has(field) {
		return e
	}
	out := append(e, FieldError{Field: field, Key: key})
	sort.SliceStable(out, func(i, j int) bool {
		return fieldOrder[out[i].Field] < fieldOrder[out[j].Field]
	})
	return out
}

// Err returns nil for an empty set so callers can return it as an error directly.
func (e Errors) Err() error {
	if len(e) == 0 {
		return nil
	}
	return e
}
