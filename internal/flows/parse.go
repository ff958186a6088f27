package flows

import (
	"fmt"
	"strconv"
	"strings"
)

// noneSentinel lets the user skip an optional prompt or clear an optional
// field.
const noneSentinel = "none"

func isNone(s string) bool {
	return strings.EqualFold(strings.TrimSpace(s), noneSentinel)
}

// parseDecimal accepts both comma and dot as the decimal separator.
func parseDecimal(s string) (float64, error) {
	s = strings.ReplaceAll(strings.TrimSpace(s), ",", ".")
	f, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, fmt.Errorf("not a number: %q", s)
	}
	return f, nil
}

// parsePositiveInt rejects fractions and anything below one.
func parsePositiveInt(s string) (int64, error) {
	n, err := strconv.ParseInt(strings.TrimSpace(s), 10, 64)
	if err != nil {
		return 0, fmt.Errorf("not a whole number: %q", s)
	}
	if n <= 0 {
		return 0, fmt.Errorf("must be greater than zero")
	}
	return n, nil
}
