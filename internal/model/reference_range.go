package model

import (
	"strconv"
	"strings"
)

// ParseReferenceRange parses a "min-max" reference range string.
// It returns ok=false when the string does not split into exactly two
// decimal parts.
func ParseReferenceRange(referenceRange string) (min, max float64, ok bool) {
	parts := strings.Split(referenceRange, "-")
	if len(parts) != 2 {
		return 0, 0, false
	}

	min, err := strconv.ParseFloat(strings.TrimSpace(parts[0]), 64)
	if err != nil {
		return 0, 0, false
	}
	max, err = strconv.ParseFloat(strings.TrimSpace(parts[1]), 64)
	if err != nil {
		return 0, 0, false
	}

	return min, max, true
}

// IsAbnormalResult reports whether a result value falls strictly
// outside its reference range. Values on the boundary are normal.
// Free-text values and unparseable ranges are never flagged; the
// function is total and never fails.
func IsAbnormalResult(resultValue, referenceRange string) bool {
	if referenceRange == "" {
		return false
	}

	value, err := strconv.ParseFloat(strings.TrimSpace(resultValue), 64)
	if err != nil {
		return false
	}

	min, max, ok := ParseReferenceRange(referenceRange)
	if !ok {
		return false
	}

	return value < min || value > max
}
