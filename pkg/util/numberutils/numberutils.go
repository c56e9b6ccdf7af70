package numberutils

import (
	"strconv"
	"strings"
)

// IsInt64 checks if the given string can be converted to a valid int64.
// Surrounding spaces are ignored.
func IsInt64(str string) bool {
	_, err := strconv.ParseInt(strings.TrimSpace(str), 10, 64)
	return err == nil
}

// ToInt64 converts the given string to an int64.
// If the string cannot be converted, it returns 0.
func ToInt64(s string) int64 {
	return ToInt64WithDefault(s, 0)
}

// ToInt64WithDefault converts the given string to an int64.
// If the string cannot be converted, it returns the provided default value.
func ToInt64WithDefault(s string, defaultVal int64) int64 {
	if i, err := strconv.ParseInt(strings.TrimSpace(s), 10, 64); err == nil {
		return i
	}
	return defaultVal
}

// ToIntWithDefault converts the given string to an integer.
// If the string cannot be converted, it returns the provided default value.
func ToIntWithDefault(s string, defaultVal int) int {
	if i, err := strconv.Atoi(strings.TrimSpace(s)); err == nil {
		return i
	}
	return defaultVal
}
