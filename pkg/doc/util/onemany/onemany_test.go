/*
Copyright SecureKey Technologies Inc. All Rights Reserved.

SPDX-License-Identifier: Apache-2.0
*/

package onemany

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestStrings(t *testing.T) {
	t.Run("bare string becomes one-element array", func(t *testing.T) {
		s, err := Strings("VerifiableCredential")
		require.NoError(t, err)
		require.Equal(t, []string{"VerifiableCredential"}, s)
	})

	t.Run("array of strings is preserved in order", func(t *testing.T) {
		s, err := Strings([]interface{}{"a", "b", "c"})
		require.NoError(t, err)
		require.Equal(t, []string{"a", "b", "c"}, s)
	})

	t.Run("normalization is idempotent", func(t *testing.T) {
		once, err := Strings("single")
		require.NoError(t, err)

		twice, err := Strings(once)
		require.NoError(t, err)
		require.Equal(t, once, twice)
	})

	t.Run("empty array stays empty", func(t *testing.T) {
		s, err := Strings([]interface{}{})
		require.NoError(t, err)
		require.Empty(t, s)
	})

	t.Run("array with non-string element is rejected", func(t *testing.T) {
		_, err := Strings([]interface{}{"a", 42})
		require.Error(t, err)
		require.Contains(t, err.Error(), "array element is not a string")
	})

	t.Run("non-string scalar is rejected", func(t *testing.T) {
		_, err := Strings(42)
		require.Error(t, err)
	})
}

func TestValues(t *testing.T) {
	require.Nil(t, Values(nil))
	require.Equal(t, []interface{}{"x"}, Values("x"))
	require.Equal(t, []interface{}{"x", "y"}, Values([]interface{}{"x", "y"}))

	m := map[string]interface{}{"id": "did:example:1"}
	require.Equal(t, []interface{}{m}, Values(m))
}

func TestContainsAll(t *testing.T) {
	values := []string{"extra1", "required2", "required1", "extra2"}

	require.True(t, ContainsAll(values, "required1", "required2"))
	require.True(t, ContainsAll(values, "required2", "required1"))
	require.True(t, ContainsAll(values))
	require.False(t, ContainsAll(values, "required3"))
	require.False(t, ContainsAll(nil, "required1"))
	require.True(t, ContainsAll(nil))

	// extra unrelated elements never flip acceptance
	require.True(t, ContainsAll(append(values, "more"), "required1", "required2"))
}

func TestMissing(t *testing.T) {
	require.Equal(t, []string{"b"}, Missing([]string{"a"}, "a", "b"))
	require.Nil(t, Missing([]string{"a", "b"}, "a", "b"))
	require.Equal(t, []string{"a"}, Missing(nil, "a"))
}
