package errs

import (
	"fmt"
	"strconv"
)

// ConfigurationError is reported before rendering starts: unknown dialect,
// missing or invalid job parameters, bad precision settings.
type ConfigurationError struct {
	Field   string
	Message string
}

func (e *ConfigurationError) Error() string {
	if e.Field != "" {
		return fmt.Sprintf("configuration error: %s: %s", e.Field, e.Message)
	}
	return "configuration error: " + e.Message
}

func Configf(field, format string, args ...any) *ConfigurationError {
	return &ConfigurationError{Field: field, Message: fmt.Sprintf(format, args...)}
}

// DataIntegrityError means the upstream operation sequence violates its
// contract with the parameter bundle, e.g. a tool change for an unknown tool.
type DataIntegrityError struct {
	Op      string
	Message string
}

func (e *DataIntegrityError) Error() string {
	if e.Op != "" {
		return fmt.Sprintf("data integrity error in %s: %s", e.Op, e.Message)
	}
	return "data integrity error: " + e.Message
}

func Integrityf(op, format string, args ...any) *DataIntegrityError {
	return &DataIntegrityError{Op: op, Message: fmt.Sprintf(format, args...)}
}

// FormattingError is returned when a non-finite value reaches the numeric
// formatter.
type FormattingError struct {
	Value float64
}

func (e *FormattingError) Error() string {
	return "formatting error: cannot render non-finite value " + strconv.FormatFloat(e.Value, 'g', -1, 64)
}
