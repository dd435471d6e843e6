/*
Copyright 2026 Chainguard, Inc.
SPDX-License-Identifier: Apache-2.0
*/

package params

import (
	"fmt"
	"maps"
	"strconv"
)

// Extract extracts a required parameter from args with type safety.
// Returns an error if the parameter is missing or cannot be converted to T.
func Extract[T any](args map[string]any, name string) (T, error) {
	var zero T

	value, exists := args[name]
	if !exists {
		return zero, fmt.Errorf("%s parameter is required", name)
	}
	if v, ok := convert[T](value); ok {
		return v, nil
	}
	return zero, fmt.Errorf("%s parameter must be of type %T, got %T", name, zero, value)
}

// ExtractOptional extracts an optional parameter with a default value.
// Returns the default if the parameter doesn't exist, or an error if type conversion fails.
func ExtractOptional[T any](args map[string]any, name string, defaultValue T) (T, error) {
	value, exists := args[name]
	if !exists {
		return defaultValue, nil
	}
	if v, ok := convert[T](value); ok {
		return v, nil
	}
	var zero T
	return zero, fmt.Errorf("%s parameter must be of type %T, got %T", name, zero, value)
}

// convert handles direct assertion plus the JSON (float64) and command line
// (string) encodings of numbers and booleans.
func convert[T any](value any) (T, bool) {
	if v, ok := value.(T); ok {
		return v, true
	}

	var zero T
	var out any
	switch any(zero).(type) {
	case int:
		n, ok := toInt64(value)
		if !ok {
			return zero, false
		}
		out = int(n)
	case int64:
		n, ok := toInt64(value)
		if !ok {
			return zero, false
		}
		out = n
	case float64:
		s, ok := value.(string)
		if !ok {
			return zero, false
		}
		f, err := strconv.ParseFloat(s, 64)
		if err != nil {
			return zero, false
		}
		out = f
	case bool:
		s, ok := value.(string)
		if !ok {
			return zero, false
		}
		b, err := strconv.ParseBool(s)
		if err != nil {
			return zero, false
		}
		out = b
	default:
		return zero, false
	}
	return out.(T), true
}

func toInt64(value any) (int64, bool) {
	switch v := value.(type) {
	case float64:
		return int64(v), true
	case string:
		n, err := strconv.ParseInt(v, 10, 64)
		return n, err == nil
	}
	return 0, false
}

// Error creates an error response map.
func Error(format string, args ...any) map[string]any {
	return map[string]any{
		"error": fmt.Sprintf(format, args...),
	}
}

// ErrorWithContext creates an error response with additional context fields.
func ErrorWithContext(err error, context map[string]any) map[string]any {
	response := map[string]any{
		"error": err.Error(),
	}
	maps.Copy(response, context)
	return response
}
