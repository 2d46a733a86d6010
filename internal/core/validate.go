// Package core provides the domain types and input validation for the
// expense tracker: dates, amounts, required fields and summary math.
package core

import (
	"fmt"
	"math"
	"regexp"
	"strconv"
	"strings"
	"time"
)

const DateLayout = "2006-01-02"

var datePattern = regexp.MustCompile(`^\d{4}-\d{2}-\d{2}$`)

// ValidateDate checks that s is a real calendar date in ISO YYYY-MM-DD
// form and returns the trimmed value. Syntactically well-formed but
// nonexistent dates (2025-02-30) are rejected.
func ValidateDate(s string) (string, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return "", fmt.Errorf("date %w", ErrEmptyField)
	}
	if !datePattern.MatchString(s) {
		return "", ErrInvalidDate
	}
	if _, err := time.Parse(DateLayout, s); err != nil {
		return "", fmt.Errorf("invalid date %q: %w", s, ErrInvalidDate)
	}
	return s, nil
}

// ParseAmount converts s to a strictly positive amount. Zero and
// negative values are rejected, as are NaN and infinities.
func ParseAmount(s string) (float64, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, fmt.Errorf("amount %w", ErrEmptyField)
	}
	amount, err := strconv.ParseFloat(s, 64)
	if err != nil || math.IsNaN(amount) || math.IsInf(amount, 0) {
		return 0, ErrNotNumeric
	}
	if amount <= 0 {
		return 0, ErrNotPositive
	}
	return amount, nil
}

// ValidateNonEmpty checks that a required field has content after
// trimming and returns the trimmed value. The field label is part of
// the error message so callers can report which input was missing.
func ValidateNonEmpty(value, label string) (string, error) {
	value = strings.TrimSpace(value)
	if value == "" {
		return "", fmt.Errorf("%s %w", label, ErrEmptyField)
	}
	return value, nil
}
