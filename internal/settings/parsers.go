package settings

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"
)

var errRequired = errors.New("value is required")

// String accepts any stored text; absence yields fallback.
func String(fallback string) Schema[string] {
	return Schema[string]{
		Fallback: fallback,
		Parse: func(raw *string) (string, error) {
			if raw == nil {
				return fallback, nil
			}
			return *raw, nil
		},
	}
}

// RequiredString rejects absence and blank text. The build phase still
// returns fallback.
func RequiredString(fallback string) Schema[string] {
	return Schema[string]{
		Fallback: fallback,
		Parse: func(raw *string) (string, error) {
			if raw == nil || strings.TrimSpace(*raw) == "" {
				return "", errRequired
			}
			return *raw, nil
		},
	}
}

// Bool accepts exactly "true" or "false".
func Bool(fallback bool) Schema[bool] {
	return Schema[bool]{
		Fallback: fallback,
		Parse: func(raw *string) (bool, error) {
			if raw == nil {
				return fallback, nil
			}
			switch *raw {
			case "true":
				return true, nil
			case "false":
				return false, nil
			default:
				return false, fmt.Errorf("%q is not a boolean", *raw)
			}
		},
	}
}

// Int accepts a base-10 integer within [lo, hi].
func Int(lo, hi, fallback int) Schema[int] {
	return Schema[int]{
		Fallback: fallback,
		Parse: func(raw *string) (int, error) {
			if raw == nil {
				return fallback, nil
			}
			n, err := strconv.Atoi(*raw)
			if err != nil {
				return 0, fmt.Errorf("%q is not an integer", *raw)
			}
			if n < lo || n > hi {
				return 0, fmt.Errorf("%d is outside [%d, %d]", n, lo, hi)
			}
			return n, nil
		},
	}
}

// Time accepts an RFC 3339 timestamp.
func Time(fallback time.Time) Schema[time.Time] {
	return Schema[time.Time]{
		Fallback: fallback,
		Parse: func(raw *string) (time.Time, error) {
			if raw == nil {
				return fallback, nil
			}
			t, err := time.Parse(time.RFC3339, *raw)
			if err != nil {
				return time.Time{}, fmt.Errorf("%q is not an RFC 3339 timestamp", *raw)
			}
			return t, nil
		},
	}
}
