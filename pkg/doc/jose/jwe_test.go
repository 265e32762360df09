/*
Copyright SecureKey Technologies Inc. All Rights Reserved.

SPDX-License-Identifier: Apache-2.0
*/

package jose

import (
	"testing"

	"github.com/stretchr/testify/require"
)

const jweProtected = `{"alg":"RSA-OAEP","enc":"A256GCM"}`

func TestIsCompactJWE(t *testing.T) {
	require.True(t, IsCompactJWE(b64(jweProtected)+".a2V5.aXY.Y2lwaGVydGV4dA.dGFn"))
	require.True(t, IsCompactJWE(b64(`{"alg":"dir","enc":"A256GCM"}`)+"..aXY.Y2lwaGVydGV4dA.dGFn"),
		"direct encryption has an empty encrypted key")
	require.False(t, IsCompactJWE("a.b.c"), "three parts is a JWS shape")
	require.False(t, IsCompactJWE(b64(jweProtected)+".a2V5.aXY..dGFn"), "empty ciphertext")
}

func TestParseJWE(t *testing.T) {
	t.Run("success", func(t *testing.T) {
		jwe, err := ParseJWE(b64(jweProtected) + ".a2V5.aXY.Y2lwaGVydGV4dA.dGFn")
		require.NoError(t, err)
		require.Equal(t, "Y2lwaGVydGV4dA", jwe.Ciphertext)
		require.Len(t, jwe.Recipients, 1)
		require.Equal(t, "a2V5", jwe.Recipients[0].EncryptedKey)

		enc, ok := jwe.ProtectedHeaders.Encryption()
		require.True(t, ok)
		require.Equal(t, "A256GCM", enc)
	})

	t.Run("empty ciphertext", func(t *testing.T) {
		_, err := ParseJWE(b64(jweProtected) + ".a2V5.aXY..dGFn")
		require.Error(t, err)
		require.Contains(t, err.Error(), "ciphertext")
	})

	t.Run("wrong part count", func(t *testing.T) {
		_, err := ParseJWE(b64(jweProtected) + ".a2V5.aXY.Y2lwaGVydGV4dA")
		require.Error(t, err)
		require.Contains(t, err.Error(), "expected 5 parts")
	})

	t.Run("missing enc", func(t *testing.T) {
		_, err := ParseJWE(b64(`{"alg":"RSA-OAEP"}`) + ".a2V5.aXY.Y2lwaGVydGV4dA.dGFn")
		require.Error(t, err)
		require.Contains(t, err.Error(), `"enc"`)
	})

	t.Run("signature alg in JWE rejected", func(t *testing.T) {
		_, err := ParseJWE(b64(`{"alg":"ES256","enc":"A256GCM"}`) + ".a2V5.aXY.Y2lwaGVydGV4dA.dGFn")
		require.Error(t, err)
		require.Contains(t, err.Error(), "unsupported")
	})

	t.Run("unknown enc", func(t *testing.T) {
		_, err := ParseJWE(b64(`{"alg":"dir","enc":"A512GCM"}`) + "..aXY.Y2lwaGVydGV4dA.dGFn")
		require.Error(t, err)
	})
}

func TestParseJWEJSON(t *testing.T) {
	t.Run("general", func(t *testing.T) {
		jwe, err := ParseJWEJSON([]byte(`{
			"protected": "` + b64(jweProtected) + `",
			"recipients": [
				{"header": {"kid": "key-1"}, "encrypted_key": "a2V5MQ"},
				{"header": {"kid": "key-2"}, "encrypted_key": "a2V5Mg"}
			],
			"iv": "aXY",
			"ciphertext": "Y2lwaGVydGV4dA",
			"tag": "dGFn"
		}`))
		require.NoError(t, err)
		require.Len(t, jwe.Recipients, 2)
		require.Equal(t, "a2V5Mg", jwe.Recipients[1].EncryptedKey)
	})

	t.Run("flattened", func(t *testing.T) {
		jwe, err := ParseJWEJSON([]byte(`{
			"protected": "` + b64(jweProtected) + `",
			"encrypted_key": "a2V5",
			"iv": "aXY",
			"ciphertext": "Y2lwaGVydGV4dA",
			"tag": "dGFn"
		}`))
		require.NoError(t, err)
		require.Len(t, jwe.Recipients, 1)
	})

	t.Run("missing protected", func(t *testing.T) {
		_, err := ParseJWEJSON([]byte(`{"ciphertext": "Y2lwaGVydGV4dA"}`))
		require.Error(t, err)
		require.Contains(t, err.Error(), "protected")
	})

	t.Run("missing ciphertext", func(t *testing.T) {
		_, err := ParseJWEJSON([]byte(`{"protected": "` + b64(jweProtected) + `"}`))
		require.Error(t, err)
	})

	t.Run("mixed general and flattened rejected", func(t *testing.T) {
		_, err := ParseJWEJSON([]byte(`{
			"protected": "` + b64(jweProtected) + `",
			"encrypted_key": "a2V5",
			"recipients": [{"encrypted_key": "a2V5"}],
			"ciphertext": "Y2lwaGVydGV4dA"
		}`))
		require.Error(t, err)
	})

	t.Run("padded member rejected", func(t *testing.T) {
		_, err := ParseJWEJSON([]byte(`{
			"protected": "` + b64(jweProtected) + `",
			"ciphertext": "Y2lwaGVydGV4dA==",
			"iv": "aXY",
			"tag": "dGFn"
		}`))
		require.Error(t, err)
		require.Contains(t, err.Error(), "base64url")
	})
}
