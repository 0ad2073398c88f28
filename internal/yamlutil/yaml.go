// Package yamlutil wraps YAML parsing to isolate the external dependency.
// This allows swapping the underlying YAML library without modifying callers.
package yamlutil

import (
	"errors"
	"fmt"
	"strings"

	"github.com/goccy/go-yaml"
)

// MaxInputSize limits YAML input to prevent memory exhaustion (default 1MB).
var MaxInputSize = 1 << 20

var (
	ErrNilData        = errors.New("yamlutil: nil or empty data")
	ErrNilDestination = errors.New("yamlutil: nil destination pointer")
	ErrInputTooLarge  = errors.New("yamlutil: input exceeds maximum size")
	ErrNotScalar      = errors.New("yamlutil: value is not a scalar")
)

func validateInput(data []byte, v any) error {
	if len(data) == 0 {
		return ErrNilData
	}
	if len(data) > MaxInputSize {
		return fmt.Errorf("%w: %d bytes (max %d)", ErrInputTooLarge, len(data), MaxInputSize)
	}
	if v == nil {
		return ErrNilDestination
	}
	return nil
}

func Unmarshal(data []byte, v any) error {
	if err := validateInput(data, v); err != nil {
		return err
	}
	if err := yaml.Unmarshal(data, v); err != nil {
		return fmt.Errorf("yamlutil: %w", err)
	}
	return nil
}

// UnmarshalStrict rejects unknown fields in the input.
func UnmarshalStrict(data []byte, v any) error {
	if err := validateInput(data, v); err != nil {
		return err
	}
	if err := yaml.UnmarshalWithOptions(data, v, yaml.Strict()); err != nil {
		return fmt.Errorf("yamlutil: %w", err)
	}
	return nil
}

// StringMap parses a flat YAML mapping into string keys and values.
// Scalar values of any type are kept in their textual form, so
// "gap: 4" yields "4" and "opacity: 0.5" yields "0.5". Nested mappings
// and sequences are rejected.
func StringMap(data []byte) (map[string]string, error) {
	var raw yaml.MapSlice
	if err := Unmarshal(data, &raw); err != nil {
		return nil, err
	}

	out := make(map[string]string, len(raw))
	for _, item := range raw {
		key := strings.TrimSpace(fmt.Sprint(item.Key))
		switch v := item.Value.(type) {
		case nil:
			out[key] = ""
		case string:
			out[key] = v
		case bool, int, int64, uint64, float64:
			out[key] = fmt.Sprint(v)
		default:
			return nil, fmt.Errorf("%w: %q", ErrNotScalar, key)
		}
	}
	return out, nil
}
