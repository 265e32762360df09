/*
Copyright SecureKey Technologies Inc. All Rights Reserved.

SPDX-License-Identifier: Apache-2.0
*/

// Package jose provides structural validation for the JOSE family of formats:
// JSON Web Keys (RFC 7517/7518/8037), JSON Web Signatures (RFC 7515) and JSON
// Web Encryption (RFC 7516), in both compact and JSON serializations.
// Signatures and ciphertexts are validated as syntactically well-formed
// values only; nothing is ever verified or decrypted.
package jose

import (
	"golang.org/x/exp/slices"
)

// IANA registered JOSE headers (https://tools.ietf.org/html/rfc7515#section-4.1).
const (
	// HeaderAlgorithm identifies the cryptographic algorithm used to secure the JWS/JWE.
	HeaderAlgorithm = "alg" // string

	// HeaderEncryption identifies the content encryption algorithm of a JWE.
	HeaderEncryption = "enc" // string

	// HeaderJWKSetURL refers to a resource for a set of JSON-encoded public keys.
	HeaderJWKSetURL = "jku" // string

	// HeaderJSONWebKey is the public key used to digitally sign the JWS.
	HeaderJSONWebKey = "jwk" // JSON

	// HeaderKeyID is a hint indicating which key was used to secure the JWS.
	HeaderKeyID = "kid" // string

	// HeaderType is used by JWS applications to declare the media type of this complete JWS.
	HeaderType = "typ" // string

	// HeaderContentType is used by JWS applications to declare the media type of the secured content.
	HeaderContentType = "cty" // string

	// HeaderCritical indicates that extensions to this specification and/or JWA are being used
	// that MUST be understood and processed.
	HeaderCritical = "crit" // array
)

// AlgorithmNone identifies an unsecured JWS/JWT.
const AlgorithmNone = "none"

// Key types (https://tools.ietf.org/html/rfc7518#section-6.1, RFC 8037).
const (
	KtyEC  = "EC"
	KtyRSA = "RSA"
	KtyOct = "oct"
	KtyOKP = "OKP"
)

//nolint:gochecknoglobals
var (
	// SignatureAlgorithms are the JWS "alg" values of RFC 7518 and RFC 8037.
	SignatureAlgorithms = []string{
		"HS256", "HS384", "HS512",
		"RS256", "RS384", "RS512",
		"ES256", "ES384", "ES512", "ES256K",
		"PS256", "PS384", "PS512",
		"EdDSA",
		AlgorithmNone,
	}

	// KeyEncryptionAlgorithms are the JWE "alg" values of RFC 7518 section 4.1.
	KeyEncryptionAlgorithms = []string{
		"RSA1_5", "RSA-OAEP", "RSA-OAEP-256",
		"A128KW", "A192KW", "A256KW",
		"dir",
		"ECDH-ES", "ECDH-ES+A128KW", "ECDH-ES+A192KW", "ECDH-ES+A256KW",
		"A128GCMKW", "A192GCMKW", "A256GCMKW",
		"PBES2-HS256+A128KW", "PBES2-HS384+A192KW", "PBES2-HS512+A256KW",
	}

	// ContentEncryptionAlgorithms are the JWE "enc" values of RFC 7518 section 5.1.
	ContentEncryptionAlgorithms = []string{
		"A128CBC-HS256", "A192CBC-HS384", "A256CBC-HS512",
		"A128GCM", "A192GCM", "A256GCM",
	}

	// ECCurves are the "crv" values valid for the EC key type.
	ECCurves = []string{"P-256", "P-384", "P-521", "secp256k1"}

	// OKPCurves are the "crv" values valid for the OKP key type (RFC 8037).
	OKPCurves = []string{"Ed25519", "Ed448", "X25519", "X448"}

	// KeyUses are the registered "use" values of RFC 7517 section 4.2.
	KeyUses = []string{"sig", "enc"}

	// KeyOperations are the registered "key_ops" values of RFC 7517 section 4.3.
	KeyOperations = []string{
		"sign", "verify", "encrypt", "decrypt",
		"wrapKey", "unwrapKey", "deriveKey", "deriveBits",
	}
)

// IsSignatureAlgorithm checks alg against the JWS algorithm registry.
func IsSignatureAlgorithm(alg string) bool {
	return slices.Contains(SignatureAlgorithms, alg)
}

// IsKeyEncryptionAlgorithm checks alg against the JWE key management algorithm registry.
func IsKeyEncryptionAlgorithm(alg string) bool {
	return slices.Contains(KeyEncryptionAlgorithms, alg)
}

// IsContentEncryptionAlgorithm checks enc against the JWE content encryption algorithm registry.
func IsContentEncryptionAlgorithm(enc string) bool {
	return slices.Contains(ContentEncryptionAlgorithms, enc)
}

// Headers represents JOSE headers.
type Headers map[string]interface{}

// Algorithm returns the "alg" header.
func (h Headers) Algorithm() (string, bool) {
	return h.stringValue(HeaderAlgorithm)
}

// Encryption returns the "enc" header.
func (h Headers) Encryption() (string, bool) {
	return h.stringValue(HeaderEncryption)
}

// KeyID returns the "kid" header.
func (h Headers) KeyID() (string, bool) {
	return h.stringValue(HeaderKeyID)
}

// Type returns the "typ" header.
func (h Headers) Type() (string, bool) {
	return h.stringValue(HeaderType)
}

// ContentType returns the "cty" header.
func (h Headers) ContentType() (string, bool) {
	return h.stringValue(HeaderContentType)
}

func (h Headers) stringValue(name string) (string, bool) {
	raw, ok := h[name]
	if !ok {
		return "", false
	}

	str, ok := raw.(string)

	return str, ok
}
