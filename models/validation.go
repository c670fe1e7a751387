package models

import (
	"fmt"
	"math"
)

// ValidationError represents a validation error with field and message
type ValidationError struct {
	Field   string
	Message string
}

func (e ValidationError) Error() string {
	return fmt.Sprintf("validation error on field '%s': %s", e.Field, e.Message)
}

// Validate checks the invariants every materialized UsageRecord must hold
func (r *UsageRecord) Validate() error {
	if r.Timestamp.IsZero() {
		return ValidationError{Field: "Timestamp", Message: "timestamp cannot be zero"}
	}

	if r.Model == "" {
		return ValidationError{Field: "Model", Message: "model cannot be empty"}
	}

	if r.InputTokens < 0 {
		return ValidationError{Field: "InputTokens", Message: "input tokens cannot be negative"}
	}

	if r.OutputTokens < 0 {
		return ValidationError{Field: "OutputTokens", Message: "output tokens cannot be negative"}
	}

	if r.CacheReadTokens < 0 {
		return ValidationError{Field: "CacheReadTokens", Message: "cache read tokens cannot be negative"}
	}

	if r.CacheCreationTokens < 0 {
		return ValidationError{Field: "CacheCreationTokens", Message: "cache creation tokens cannot be negative"}
	}

	if !r.HasUsage() {
		return ValidationError{Field: "Tokens", Message: "at least one token type must be greater than zero"}
	}

	if r.CostUSD < 0 || math.IsNaN(r.CostUSD) || math.IsInf(r.CostUSD, 0) {
		return ValidationError{Field: "CostUSD", Message: "cost must be a finite non-negative number"}
	}

	return nil
}
