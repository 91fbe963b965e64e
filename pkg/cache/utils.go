package cache

import (
	"fmt"
	"strings"
)

// GenerateKey builds a colon-separated cache key from parts.
func GenerateKey(parts ...string) string {
	return strings.Join(parts, ":")
}

// GenerateKeyWithParams builds a key from a base and ordered parameters.
func GenerateKeyWithParams(base string, params ...interface{}) string {
	parts := make([]string, 0, len(params)+1)
	parts = append(parts, base)
	for _, p := range params {
		parts = append(parts, fmt.Sprintf("%v", p))
	}
	return strings.Join(parts, ":")
}

// BuildPattern builds a wildcard pattern for DeleteByPattern.
func BuildPattern(parts ...string) string {
	return strings.Join(parts, ":") + "*"
}
