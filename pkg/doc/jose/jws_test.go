/*
Copyright SecureKey Technologies Inc. All Rights Reserved.

SPDX-License-Identifier: Apache-2.0
*/

package jose

import (
	"encoding/base64"
	"testing"

	"github.com/stretchr/testify/require"
)

func b64(s string) string {
	return base64.RawURLEncoding.EncodeToString([]byte(s))
}

func TestIsCompactJWS(t *testing.T) {
	require.True(t, IsCompactJWS(b64(`{"alg":"ES256"}`)+"."+b64(`{"sub":"x"}`)+".c2ln"))
	require.True(t, IsCompactJWS(b64(`{"alg":"ES256"}`)+"..c2ln"), "detached payload")
	require.False(t, IsCompactJWS("one.two"))
	require.False(t, IsCompactJWS("a.b.c.d"))
	require.False(t, IsCompactJWS("ill=gal.cGF5bG9hZA.c2ln"))
}

func TestParseJWS(t *testing.T) {
	t.Run("signed", func(t *testing.T) {
		jws, err := ParseJWS(b64(`{"alg":"ES256","typ":"JWT"}`) + "." + b64(`{"sub":"x"}`) + ".c2lnbmF0dXJl")
		require.NoError(t, err)

		alg, ok := jws.ProtectedHeaders.Algorithm()
		require.True(t, ok)
		require.Equal(t, "ES256", alg)

		typ, ok := jws.ProtectedHeaders.Type()
		require.True(t, ok)
		require.Equal(t, "JWT", typ)
	})

	t.Run("detached payload", func(t *testing.T) {
		jws, err := ParseJWS(b64(`{"alg":"EdDSA"}`) + "..c2lnbmF0dXJl")
		require.NoError(t, err)
		require.Empty(t, jws.Payload)
	})

	t.Run("unsecured with empty signature", func(t *testing.T) {
		_, err := ParseJWS(b64(`{"alg":"none"}`) + "." + b64(`{"sub":"x"}`) + ".")
		require.NoError(t, err)
	})

	t.Run("unsecured with signature rejected", func(t *testing.T) {
		_, err := ParseJWS(b64(`{"alg":"none"}`) + "." + b64(`{"sub":"x"}`) + ".c2ln")
		require.Error(t, err)
		require.Contains(t, err.Error(), "empty signature")
	})

	t.Run("signed with empty signature rejected", func(t *testing.T) {
		_, err := ParseJWS(b64(`{"alg":"ES256"}`) + "." + b64(`{"sub":"x"}`) + ".")
		require.Error(t, err)
		require.Contains(t, err.Error(), "non-empty signature")
	})

	t.Run("missing alg", func(t *testing.T) {
		_, err := ParseJWS(b64(`{"typ":"JWT"}`) + "." + b64(`{}`) + ".c2ln")
		require.Error(t, err)
		require.Contains(t, err.Error(), `"alg"`)
	})

	t.Run("unknown alg", func(t *testing.T) {
		_, err := ParseJWS(b64(`{"alg":"XS512"}`) + "." + b64(`{}`) + ".c2ln")
		require.Error(t, err)
	})

	t.Run("header is not JSON", func(t *testing.T) {
		_, err := ParseJWS(b64(`not json`) + "." + b64(`{}`) + ".c2ln")
		require.Error(t, err)
	})

	t.Run("two parts", func(t *testing.T) {
		_, err := ParseJWS(b64(`{"alg":"ES256"}`) + "." + b64(`{}`))
		require.Error(t, err)
	})
}

func TestParseJWSJSON(t *testing.T) {
	t.Run("flattened", func(t *testing.T) {
		jws, err := ParseJWSJSON([]byte(`{
			"payload": "` + b64(`{"sub":"x"}`) + `",
			"protected": "` + b64(`{"alg":"ES256"}`) + `",
			"signature": "c2lnbmF0dXJl"
		}`))
		require.NoError(t, err)
		require.Equal(t, "c2lnbmF0dXJl", jws.Signature)
	})

	t.Run("general", func(t *testing.T) {
		jws, err := ParseJWSJSON([]byte(`{
			"payload": "` + b64(`{"sub":"x"}`) + `",
			"signatures": [
				{"protected": "` + b64(`{"alg":"ES256"}`) + `", "signature": "c2ln"},
				{"protected": "` + b64(`{"alg":"EdDSA"}`) + `", "signature": "c2ln"}
			]
		}`))
		require.NoError(t, err)

		alg, ok := jws.ProtectedHeaders.Algorithm()
		require.True(t, ok)
		require.Equal(t, "ES256", alg)
	})

	t.Run("unprotected header merged", func(t *testing.T) {
		jws, err := ParseJWSJSON([]byte(`{
			"payload": "` + b64(`{"sub":"x"}`) + `",
			"protected": "` + b64(`{"alg":"ES256"}`) + `",
			"header": {"kid": "key-1"},
			"signature": "c2ln"
		}`))
		require.NoError(t, err)

		kid, ok := jws.ProtectedHeaders.KeyID()
		require.True(t, ok)
		require.Equal(t, "key-1", kid)
	})

	t.Run("duplicate header rejected", func(t *testing.T) {
		_, err := ParseJWSJSON([]byte(`{
			"payload": "` + b64(`{"sub":"x"}`) + `",
			"protected": "` + b64(`{"alg":"ES256"}`) + `",
			"header": {"alg": "EdDSA"},
			"signature": "c2ln"
		}`))
		require.Error(t, err)
		require.Contains(t, err.Error(), "both protected and unprotected")
	})

	t.Run("mixed general and flattened rejected", func(t *testing.T) {
		_, err := ParseJWSJSON([]byte(`{
			"payload": "` + b64(`{"sub":"x"}`) + `",
			"protected": "` + b64(`{"alg":"ES256"}`) + `",
			"signatures": [{"protected": "` + b64(`{"alg":"ES256"}`) + `", "signature": "c2ln"}]
		}`))
		require.Error(t, err)
	})

	t.Run("no headers at all", func(t *testing.T) {
		_, err := ParseJWSJSON([]byte(`{"payload": "cGF5bG9hZA", "signature": "c2ln"}`))
		require.Error(t, err)
	})
}
