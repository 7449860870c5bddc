package service

import "errors"

// ErrNotFound marks a missing referenced entity; handlers map it to 404.
var ErrNotFound = errors.New("record not found")

// ValidationError carries every field-level violation of a request at once.
// Handlers map it to 422 with the field map in the response envelope.
type ValidationError struct {
	Fields map[string][]string
}

func (e *ValidationError) Error() string {
	return "validation failed"
}

// RuleError is an expected business-rule rejection (state machine or policy
// violation). Handlers map it to 400 with the reason; it must never be
// reported as an internal error.
type RuleError struct {
	Reason string
}

func (e *RuleError) Error() string {
	return e.Reason
}

func ruleErr(reason string) *RuleError {
	return &RuleError{Reason: reason}
}
