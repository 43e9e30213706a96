package util

import (
	"fmt"
	"math"
	"strings"
	"unicode/utf8"

	apperrors "github.com/openclaw/voucher-server-go/internal/errors"
)

// CheckString rejects blank values and values longer than maxLen runes.
func CheckString(field, value string, maxLen int) error {
	if strings.TrimSpace(value) == "" {
		return apperrors.MissingField(field)
	}
	if utf8.RuneCountInString(value) > maxLen {
		return apperrors.InvalidField(field, fmt.Sprintf("must be at most %d characters", maxLen))
	}
	return nil
}

// CheckLength rejects values whose rune count is outside [minLen, maxLen].
func CheckLength(field, value string, minLen, maxLen int) error {
	if value == "" {
		return apperrors.MissingField(field)
	}
	n := utf8.RuneCountInString(value)
	if n < minLen || n > maxLen {
		return apperrors.InvalidField(field, fmt.Sprintf("must be %d to %d characters", minLen, maxLen))
	}
	return nil
}

// CheckInt rejects missing, fractional and out of range values. Bounds are
// inclusive.
func CheckInt(field string, value *float64, lo, hi int) error {
	if value == nil {
		return apperrors.MissingField(field)
	}
	v := *value
	if math.IsNaN(v) || math.IsInf(v, 0) || v != math.Trunc(v) {
		return apperrors.InvalidField(field, "must be an integer")
	}
	if v < float64(lo) || v > float64(hi) {
		return apperrors.InvalidField(field, fmt.Sprintf("must be between %d and %d", lo, hi))
	}
	return nil
}

// CheckPositive rejects missing, non-finite, non-positive values and values
// above hi.
func CheckPositive(field string, value *float64, hi float64) error {
	if value == nil {
		return apperrors.MissingField(field)
	}
	v := *value
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return apperrors.InvalidField(field, "must be a finite number")
	}
	if v <= 0 || v > hi {
		return apperrors.InvalidField(field, fmt.Sprintf("must be greater than 0 and at most %g", hi))
	}
	return nil
}
