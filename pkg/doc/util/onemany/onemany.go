/*
Copyright SecureKey Technologies Inc. All Rights Reserved.

SPDX-License-Identifier: Apache-2.0
*/

// Package onemany normalizes the JSON-LD "one or many" convention under which
// a single value and a one-element array of that value are equivalent.
package onemany

import (
	"errors"

	"golang.org/x/exp/slices"
)

// Strings normalizes a value defined as a single string or an array of strings
// into a string slice. Normalizing an already-normalized value is a no-op.
func Strings(v interface{}) ([]string, error) {
	switch value := v.(type) {
	case string:
		return []string{value}, nil
	case []string:
		return value, nil
	case []interface{}:
		return stringSlice(value)
	default:
		return nil, errors.New("value is neither a string nor an array of strings")
	}
}

// Values normalizes a value defined as a single JSON value or an array of
// JSON values into a slice. A nil input produces a nil slice.
func Values(v interface{}) []interface{} {
	switch value := v.(type) {
	case nil:
		return nil
	case []interface{}:
		return value
	default:
		return []interface{}{value}
	}
}

// ContainsAll reports whether values includes every element of required, in
// any position. Extra elements of values never flip acceptance.
func ContainsAll(values []string, required ...string) bool {
	for _, r := range required {
		if !slices.Contains(values, r) {
			return false
		}
	}

	return true
}

// Missing returns the elements of required which are absent from values.
func Missing(values []string, required ...string) []string {
	var missing []string

	for _, r := range required {
		if !slices.Contains(values, r) {
			missing = append(missing, r)
		}
	}

	return missing
}

func stringSlice(values []interface{}) ([]string, error) {
	s := make([]string, len(values))

	for i := range values {
		t, valid := values[i].(string)
		if !valid {
			return nil, errors.New("array element is not a string")
		}

		s[i] = t
	}

	return s, nil
}
