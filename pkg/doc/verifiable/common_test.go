/*
Copyright SecureKey Technologies Inc. All Rights Reserved.

SPDX-License-Identifier: Apache-2.0
*/

package verifiable

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestDecodeType(t *testing.T) {
	t.Run("bare string wraps into one-element array", func(t *testing.T) {
		types, err := decodeType("VerifiableCredential")
		require.NoError(t, err)
		require.Equal(t, []string{"VerifiableCredential"}, types)
	})

	t.Run("array order preserved", func(t *testing.T) {
		types, err := decodeType([]interface{}{"VerifiableCredential", "UniversityDegreeCredential"})
		require.NoError(t, err)
		require.Equal(t, []string{"VerifiableCredential", "UniversityDegreeCredential"}, types)
	})

	t.Run("non-string element", func(t *testing.T) {
		_, err := decodeType([]interface{}{"VerifiableCredential", 42})
		require.Error(t, err)
	})

	t.Run("number", func(t *testing.T) {
		_, err := decodeType(42)
		require.Error(t, err)
	})
}

func TestValidateTypeTag(t *testing.T) {
	t.Run("mandatory tag alone", func(t *testing.T) {
		require.NoError(t, validateTypeTag([]string{VCType}, VCType))
	})

	t.Run("mandatory tag first with extras", func(t *testing.T) {
		require.NoError(t, validateTypeTag([]string{VCType, "UniversityDegreeCredential"}, VCType))
	})

	t.Run("mandatory tag not first rejected", func(t *testing.T) {
		err := validateTypeTag([]string{"UniversityDegreeCredential", VCType}, VCType)
		require.Error(t, err)
		require.Contains(t, err.Error(), "first type")
	})

	t.Run("empty rejected", func(t *testing.T) {
		require.Error(t, validateTypeTag(nil, VCType))
	})

	t.Run("wrong tag rejected", func(t *testing.T) {
		require.Error(t, validateTypeTag([]string{"SomethingElse"}, VCType))
	})
}

func TestValidateTypeTuple(t *testing.T) {
	t.Run("exact tuple accepted", func(t *testing.T) {
		require.NoError(t, validateTypeTuple(
			[]string{VCType, StatusList2021CredentialType}, VCType, StatusList2021CredentialType))
	})

	t.Run("extra tag rejected", func(t *testing.T) {
		require.Error(t, validateTypeTuple(
			[]string{VCType, StatusList2021CredentialType, "Extra"}, VCType, StatusList2021CredentialType))
	})

	t.Run("reordered tuple rejected", func(t *testing.T) {
		require.Error(t, validateTypeTuple(
			[]string{StatusList2021CredentialType, VCType}, VCType, StatusList2021CredentialType))
	})

	t.Run("mandatory tag alone when additional declared rejected", func(t *testing.T) {
		require.Error(t, validateTypeTuple([]string{VCType}, VCType, StatusList2021CredentialType))
	})
}

func TestValidateTypeContains(t *testing.T) {
	t.Run("tag anywhere accepted", func(t *testing.T) {
		require.NoError(t, validateTypeContains([]string{"CredentialManagerPresentation", VPType}, VPType))
	})

	t.Run("missing tag rejected", func(t *testing.T) {
		err := validateTypeContains([]string{"CredentialManagerPresentation"}, VPType)
		require.Error(t, err)
		require.Contains(t, err.Error(), "missing")
	})
}

func TestValidateContext(t *testing.T) {
	t.Run("single mandated context", func(t *testing.T) {
		require.NoError(t, validateContext([]string{ContextV1}, ContextV1))
	})

	t.Run("extras tolerated in any order", func(t *testing.T) {
		require.NoError(t, validateContext(
			[]string{"https://example.com/custom", ContextV1}, ContextV1))
	})

	t.Run("two mandated contexts order irrelevant", func(t *testing.T) {
		require.NoError(t, validateContext(
			[]string{StatusList2021Context, ContextV1}, ContextV1, StatusList2021Context))
	})

	t.Run("missing mandated context named in error", func(t *testing.T) {
		err := validateContext([]string{"https://example.com/custom"}, ContextV1)
		require.Error(t, err)
		require.Contains(t, err.Error(), ContextV1)
	})

	t.Run("empty rejected", func(t *testing.T) {
		require.Error(t, validateContext(nil, ContextV1))
	})
}

func TestDecodeContext(t *testing.T) {
	t.Run("bare string", func(t *testing.T) {
		contexts, custom, err := decodeContext(ContextV1)
		require.NoError(t, err)
		require.Equal(t, []string{ContextV1}, contexts)
		require.Empty(t, custom)
	})

	t.Run("custom context object after URIs", func(t *testing.T) {
		contexts, custom, err := decodeContext([]interface{}{
			ContextV1,
			map[string]interface{}{"name": "https://schema.org/name"},
		})
		require.NoError(t, err)
		require.Equal(t, []string{ContextV1}, contexts)
		require.Len(t, custom, 1)
	})

	t.Run("URI after custom context rejected", func(t *testing.T) {
		_, _, err := decodeContext([]interface{}{
			map[string]interface{}{"name": "https://schema.org/name"},
			ContextV1,
		})
		require.Error(t, err)
	})

	t.Run("number rejected", func(t *testing.T) {
		_, _, err := decodeContext(42)
		require.Error(t, err)
	})
}

func TestValidationError(t *testing.T) {
	err := &ValidationError{Violations: []Violation{
		{Path: "type", Message: "first type must be \"VerifiableCredential\""},
		{Path: "(root)", Message: "issuer is required"},
	}}

	require.Contains(t, err.Error(), "type: first type")
	require.Contains(t, err.Error(), "issuer is required")
	require.NotContains(t, err.Error(), "(root)")
}
