package utils

import (
	"os"
	"strings"
)

// SafeEnv returns the environment value for key with surrounding whitespace
// trimmed, or fallback when the variable is unset or blank.
func SafeEnv(key, fallback string) string {
	v := strings.TrimSpace(os.Getenv(key))
	if v == "" {
		return fallback
	}
	return v
}
