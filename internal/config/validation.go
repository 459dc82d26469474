package config

import (
	"fmt"
	"strings"
)

// ValidationError represents a validation error with context
type ValidationError struct {
	Field   string
	Value   interface{}
	Message string
}

// Error implements the error interface
func (ve ValidationError) Error() string {
	if ve.Field == "" {
		return ve.Message
	}
	return fmt.Sprintf("field '%s': %s", ve.Field, ve.Message)
}

// ValidationErrors is a collection of validation errors
type ValidationErrors []ValidationError

// Error implements the error interface for multiple validation errors
func (ve ValidationErrors) Error() string {
	if len(ve) == 0 {
		return "no validation errors"
	}
	if len(ve) == 1 {
		return ve[0].Error()
	}

	var messages []string
	for _, err := range ve {
		messages = append(messages, err.Error())
	}
	return fmt.Sprintf("validation failed: %s", strings.Join(messages, "; "))
}

// HasErrors returns true if there are any validation errors
func (ve ValidationErrors) HasErrors() bool {
	return len(ve) > 0
}

// Add adds a new validation error
func (ve *ValidationErrors) Add(field, message string, value ...interface{}) {
	var val interface{}
	if len(value) > 0 {
		val = value[0]
	}
	*ve = append(*ve, ValidationError{
		Field:   field,
		Value:   val,
		Message: message,
	})
}

// Validate checks the configuration for values the recorder cannot use.
func (c Config) Validate() error {
	var errs ValidationErrors

	switch c.Layout {
	case "", "spec", "test":
	default:
		errs.Add("layout", `must be "spec" or "test"`, c.Layout)
	}

	switch c.Mode {
	case "", ModeRun, ModeOpen:
	default:
		errs.Add("mode", `must be "run" or "open"`, c.Mode)
	}

	if c.Retries.RunMode < 0 || c.Retries.OpenMode < 0 {
		errs.Add("retries", "must not be negative", c.Retries)
	}

	switch c.Bridge.Transport {
	case TransportInProcess, TransportStreamableHTTP:
	default:
		errs.Add("bridge.transport", fmt.Sprintf("unsupported transport (use %q)", TransportStreamableHTTP), c.Bridge.Transport)
	}

	if c.WriteToFile && strings.TrimSpace(c.LogsDir) == "" {
		errs.Add("logsDir", "is required when writeToFile is set")
	}

	if errs.HasErrors() {
		return errs
	}
	return nil
}
