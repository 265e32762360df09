/*
Copyright SecureKey Technologies Inc. All Rights Reserved.

SPDX-License-Identifier: Apache-2.0
*/

// Package jwt provides structural validation of JSON Web Tokens (RFC 7519).
// A token is checked for well-formedness only: compact shape, header and
// claims syntax, and the coupling between the "alg" header and the signature
// segment. Signatures are never cryptographically verified.
package jwt

import (
	"bytes"
	"encoding/base64"
	"errors"
	"fmt"
	"strings"

	"github.com/go-jose/go-jose/v3/json"

	"github.com/docmodel/webidentity/pkg/doc/jose"
)

// Registered claim names (https://tools.ietf.org/html/rfc7519#section-4.1).
const (
	ClaimIssuer    = "iss"
	ClaimSubject   = "sub"
	ClaimAudience  = "aud"
	ClaimExpiry    = "exp"
	ClaimNotBefore = "nbf"
	ClaimIssuedAt  = "iat"
	ClaimID        = "jti"
)

// TypeJWT is the expected "typ" header of a JWT.
const TypeJWT = "JWT"

// JSONWebToken is a structurally validated JWT.
type JSONWebToken struct {
	Headers jose.Headers
	Claims  map[string]interface{}

	signature string
}

// Signature returns the base64url-encoded signature segment. It is empty for
// unsecured tokens.
func (j *JSONWebToken) Signature() string {
	return j.signature
}

type parseOpts struct {
	signatureRequired bool
	typRequired       bool
}

// ParseOpt is an option for Parse.
type ParseOpt func(opts *parseOpts)

// WithSignatureRequired rejects unsecured (alg "none") tokens.
func WithSignatureRequired() ParseOpt {
	return func(opts *parseOpts) {
		opts.signatureRequired = true
	}
}

// WithTypRequired requires the "typ" header to be present and equal to "JWT".
func WithTypRequired() ParseOpt {
	return func(opts *parseOpts) {
		opts.typRequired = true
	}
}

// Parse validates a compact serialized JWT structurally and returns its
// headers and claims.
func Parse(jwtSerialized string, opts ...ParseOpt) (*JSONWebToken, error) {
	pOpts := &parseOpts{}
	for _, opt := range opts {
		opt(pOpts)
	}

	if !jose.IsCompactJWS(jwtSerialized) {
		return nil, errors.New("JWT of compact JWS form is supported only")
	}

	jws, err := jose.ParseJWS(jwtSerialized)
	if err != nil {
		return nil, err
	}

	alg, _ := jws.ProtectedHeaders.Algorithm()

	if pOpts.signatureRequired && alg == jose.AlgorithmNone {
		return nil, errors.New("unsecured JWT is not allowed here")
	}

	if pOpts.typRequired {
		typ, ok := jws.ProtectedHeaders.Type()
		if !ok || typ != TypeJWT {
			return nil, fmt.Errorf("token type is not %q", TypeJWT)
		}
	}

	if jws.Payload == "" {
		return nil, errors.New("JWT must not have a detached payload")
	}

	claims, err := PayloadToClaims(jws.Payload)
	if err != nil {
		return nil, err
	}

	return &JSONWebToken{
		Headers:   jws.ProtectedHeaders,
		Claims:    claims,
		signature: jws.Signature,
	}, nil
}

// IsJWS checks that s is a compact JWS whose header and payload segments
// decode to JSON objects.
func IsJWS(s string) bool {
	parts := strings.Split(s, ".")
	if len(parts) != 3 { //nolint:gomnd
		return false
	}

	return isJSONObject(parts[0]) && isJSONObject(parts[1])
}

// IsJWTUnsecured checks that s is an unsecured JWT: a compact JWS shape with
// an empty signature segment.
func IsJWTUnsecured(s string) bool {
	parts := strings.Split(s, ".")
	if len(parts) != 3 { //nolint:gomnd
		return false
	}

	return parts[2] == "" && isJSONObject(parts[0]) && isJSONObject(parts[1])
}

// PayloadToClaims decodes a base64url payload segment into a claims map and
// validates the registered claims structurally.
func PayloadToClaims(payload string) (map[string]interface{}, error) {
	claimsBytes, err := base64.RawURLEncoding.DecodeString(payload)
	if err != nil {
		return nil, fmt.Errorf("decode JWT claims: %w", err)
	}

	claims, err := decodeClaims(claimsBytes)
	if err != nil {
		return nil, err
	}

	err = validateRegisteredClaims(claims)
	if err != nil {
		return nil, err
	}

	return claims, nil
}

// decodeClaims keeps numeric claims lossless by decoding numbers as
// json.Number rather than float64.
func decodeClaims(data []byte) (map[string]interface{}, error) {
	claims := map[string]interface{}{}

	d := json.NewDecoder(bytes.NewReader(data))
	d.UseNumber()

	err := d.Decode(&claims)
	if err != nil {
		return nil, fmt.Errorf("JWT claims are not a JSON object: %w", err)
	}

	return claims, nil
}

func validateRegisteredClaims(claims map[string]interface{}) error {
	for _, name := range []string{ClaimIssuer, ClaimSubject, ClaimID} {
		if raw, ok := claims[name]; ok {
			if _, isStr := raw.(string); !isStr {
				return fmt.Errorf("%q claim must be a string", name)
			}
		}
	}

	if raw, ok := claims[ClaimAudience]; ok {
		err := validateAudience(raw)
		if err != nil {
			return err
		}
	}

	for _, name := range []string{ClaimExpiry, ClaimNotBefore, ClaimIssuedAt} {
		if raw, ok := claims[name]; ok {
			if _, isNum := raw.(json.Number); !isNum {
				return fmt.Errorf("%q claim must be a number", name)
			}
		}
	}

	return nil
}

// validateAudience accepts a single string or a non-empty array of strings.
func validateAudience(raw interface{}) error {
	switch aud := raw.(type) {
	case string:
		return nil
	case []interface{}:
		if len(aud) == 0 {
			return errors.New(`"aud" claim must not be an empty array`)
		}

		for _, entry := range aud {
			if _, isStr := entry.(string); !isStr {
				return errors.New(`"aud" claim must be a string or an array of strings`)
			}
		}

		return nil
	default:
		return errors.New(`"aud" claim must be a string or an array of strings`)
	}
}

func isJSONObject(segment string) bool {
	decoded, err := base64.RawURLEncoding.DecodeString(segment)
	if err != nil {
		return false
	}

	obj := map[string]interface{}{}

	return json.Unmarshal(decoded, &obj) == nil
}
