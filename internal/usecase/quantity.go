package usecase

import (
	"math"
	"strconv"
	"strings"

	"github.com/spf13/cast"
)

// ParseQuantity turns free-form quantity input into an integer. Strings are
// read like a browser parseInt (leading sign and digits), numbers are
// truncated, and anything unusable (including 0 and magnitudes past
// MaxInt32) falls back to 1. Negative
// values pass through: SetQuantity treats them as a removal.
func ParseQuantity(v any) int {
	var n int
	switch x := v.(type) {
	case nil:
		return 1
	case bool:
		return 1
	case string:
		var ok bool
		n, ok = leadingInt(x)
		if !ok {
			return 1
		}
	default:
		f, err := cast.ToFloat64E(v)
		if err != nil || math.IsNaN(f) || math.Abs(f) > math.MaxInt32 {
			return 1
		}
		n = int(f)
	}
	if n == 0 {
		return 1
	}
	return n
}

func leadingInt(s string) (int, bool) {
	s = strings.TrimSpace(s)
	end := 0
	if end < len(s) && (s[end] == '-' || s[end] == '+') {
		end++
	}
	digits := end
	for end < len(s) && s[end] >= '0' && s[end] <= '9' {
		end++
	}
	if end == digits {
		return 0, false
	}
	n, err := strconv.Atoi(s[:end])
	if err != nil || n > math.MaxInt32 || n < -math.MaxInt32 {
		return 0, false
	}
	return n, true
}
