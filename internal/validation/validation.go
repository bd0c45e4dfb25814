// Package validation checks text fields arriving on the wire. The
// central schema is old enough that stray encodings and embedded nulls
// do occur; they are rejected before they reach the relational store.
package validation

import (
	"fmt"
	"strings"
	"unicode/utf8"
)

// FieldError is a single field validation failure.
type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// Error implements the error interface.
func (e *FieldError) Error() string {
	return fmt.Sprintf("%s %s", e.Field, e.Message)
}

// Collector accumulates validation errors without failing on first.
type Collector struct {
	errors []FieldError
}

// Add appends a validation error to the collector if non-nil.
func (c *Collector) Add(err *FieldError) {
	if err != nil {
		c.errors = append(c.errors, *err)
	}
}

// HasErrors returns true if the collector has accumulated any errors.
func (c *Collector) HasErrors() bool {
	return len(c.errors) > 0
}

// Errors returns all accumulated validation errors.
func (c *Collector) Errors() []FieldError {
	return c.errors
}

// UTF8 returns an error if the value is not valid UTF-8.
func UTF8(field, value string) *FieldError {
	if !utf8.ValidString(value) {
		return &FieldError{Field: field, Message: "must be valid UTF-8"}
	}
	return nil
}

// NoNullBytes returns an error if the value contains null bytes.
func NoNullBytes(field, value string) *FieldError {
	if strings.Contains(value, "\x00") {
		return &FieldError{Field: field, Message: "must not contain null bytes"}
	}
	return nil
}

// Required returns an error if the value is empty or whitespace-only.
func Required(field, value string) *FieldError {
	if strings.TrimSpace(value) == "" {
		return &FieldError{Field: field, Message: "is required"}
	}
	return nil
}

// WireText applies the checks every legacy text field must pass.
// Returns nil when the value is acceptable.
func WireText(field, value string) error {
	if err := UTF8(field, value); err != nil {
		return err
	}
	if err := NoNullBytes(field, value); err != nil {
		return err
	}
	return nil
}
