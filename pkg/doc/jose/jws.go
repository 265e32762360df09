/*
Copyright SecureKey Technologies Inc. All Rights Reserved.

SPDX-License-Identifier: Apache-2.0
*/

package jose

import (
	"encoding/base64"
	"errors"
	"fmt"
	"strings"

	"github.com/goccy/go-json"

	"github.com/docmodel/webidentity/pkg/doc/util/format"
)

const jwsCompactParts = 3

// JSONWebSignature holds the structurally validated parts of a JWS.
type JSONWebSignature struct {
	ProtectedHeaders   Headers
	UnprotectedHeaders Headers

	// Payload is the base64url-encoded payload segment. Empty for a
	// detached payload (RFC 7797).
	Payload string

	// Signature is the base64url-encoded signature segment. Empty only
	// when the "alg" header is "none".
	Signature string
}

// rawSignature is a single entry of the general JWS JSON serialization.
type rawSignature struct {
	Protected string  `json:"protected,omitempty"`
	Header    Headers `json:"header,omitempty"`
	Signature string  `json:"signature,omitempty"`
}

// rawJSONWebSignature covers both the general and the flattened JWS JSON
// serializations of RFC 7515 section 7.2.
type rawJSONWebSignature struct {
	Payload    string         `json:"payload,omitempty"`
	Signatures []rawSignature `json:"signatures,omitempty"`

	// Flattened form members.
	Protected string  `json:"protected,omitempty"`
	Header    Headers `json:"header,omitempty"`
	Signature string  `json:"signature,omitempty"`
}

// IsCompactJWS checks that s has the shape of a compact JWS: three dot-separated
// base64url segments. The payload segment may be empty (detached payload).
func IsCompactJWS(s string) bool {
	parts := strings.Split(s, ".")
	if len(parts) != jwsCompactParts {
		return false
	}

	if !format.IsBase64URL(parts[0]) {
		return false
	}

	if parts[1] != "" && !format.IsBase64URL(parts[1]) {
		return false
	}

	return parts[2] == "" || format.IsBase64URL(parts[2])
}

// ParseJWS validates a compact JWS and returns its parts.
// The protected header must decode to a JSON object with a registered "alg"
// value. An empty signature segment is permitted only for alg "none", and a
// non-empty one is required for every other alg.
func ParseJWS(serialized string) (*JSONWebSignature, error) {
	parts := strings.Split(serialized, ".")
	if len(parts) != jwsCompactParts {
		return nil, fmt.Errorf("invalid JWS compact format: expected %d parts, got %d", jwsCompactParts, len(parts))
	}

	headers, err := parseProtectedHeaders(parts[0])
	if err != nil {
		return nil, err
	}

	alg, ok := headers.Algorithm()
	if !ok {
		return nil, errors.New("JWS protected header is missing \"alg\"")
	}

	if !IsSignatureAlgorithm(alg) {
		return nil, fmt.Errorf("JWS has unsupported \"alg\" value %q", alg)
	}

	if parts[1] != "" && !format.IsBase64URL(parts[1]) {
		return nil, errors.New("JWS payload is not valid base64url without padding")
	}

	err = checkSignaturePart(alg, parts[2])
	if err != nil {
		return nil, err
	}

	return &JSONWebSignature{
		ProtectedHeaders: headers,
		Payload:          parts[1],
		Signature:        parts[2],
	}, nil
}

// ParseJWSJSON validates the JWS JSON serialization, general or flattened.
func ParseJWSJSON(data []byte) (*JSONWebSignature, error) {
	raw := &rawJSONWebSignature{}

	err := json.Unmarshal(data, raw)
	if err != nil {
		return nil, fmt.Errorf("unmarshal JWS JSON serialization: %w", err)
	}

	if len(raw.Signatures) > 0 {
		if raw.Protected != "" || raw.Signature != "" {
			return nil, errors.New("JWS JSON serialization mixes general and flattened members")
		}

		// The general form carries one or more signatures; only the first
		// is surfaced, the rest are validated in place.
		var first *JSONWebSignature

		for i, sig := range raw.Signatures {
			parsed, err := parseRawSignature(raw.Payload, &sig)
			if err != nil {
				return nil, fmt.Errorf("signature %d: %w", i, err)
			}

			if first == nil {
				first = parsed
			}
		}

		return first, nil
	}

	return parseRawSignature(raw.Payload, &rawSignature{
		Protected: raw.Protected,
		Header:    raw.Header,
		Signature: raw.Signature,
	})
}

func parseRawSignature(payload string, sig *rawSignature) (*JSONWebSignature, error) {
	if sig.Protected == "" && len(sig.Header) == 0 {
		return nil, errors.New("JWS signature has neither protected nor unprotected headers")
	}

	headers := Headers{}
	for k, v := range sig.Header {
		headers[k] = v
	}

	if sig.Protected != "" {
		protected, err := parseProtectedHeaders(sig.Protected)
		if err != nil {
			return nil, err
		}

		for k := range protected {
			if _, dup := headers[k]; dup {
				return nil, fmt.Errorf("JWS header %q appears in both protected and unprotected headers", k)
			}
		}

		for k, v := range protected {
			headers[k] = v
		}
	}

	alg, ok := headers.Algorithm()
	if !ok {
		return nil, errors.New("JWS headers are missing \"alg\"")
	}

	if !IsSignatureAlgorithm(alg) {
		return nil, fmt.Errorf("JWS has unsupported \"alg\" value %q", alg)
	}

	if payload != "" && !format.IsBase64URL(payload) {
		return nil, errors.New("JWS payload is not valid base64url without padding")
	}

	err := checkSignaturePart(alg, sig.Signature)
	if err != nil {
		return nil, err
	}

	return &JSONWebSignature{
		ProtectedHeaders:   headers,
		UnprotectedHeaders: sig.Header,
		Payload:            payload,
		Signature:          sig.Signature,
	}, nil
}

func parseProtectedHeaders(segment string) (Headers, error) {
	if !format.IsBase64URL(segment) {
		return nil, errors.New("protected header is not valid base64url without padding")
	}

	headerBytes, err := base64.RawURLEncoding.DecodeString(segment)
	if err != nil {
		return nil, fmt.Errorf("decode protected header: %w", err)
	}

	headers := Headers{}

	err = json.Unmarshal(headerBytes, &headers)
	if err != nil {
		return nil, fmt.Errorf("protected header is not a JSON object: %w", err)
	}

	return headers, nil
}

func checkSignaturePart(alg, signature string) error {
	if alg == AlgorithmNone {
		if signature != "" {
			return errors.New("unsecured JWS must have an empty signature")
		}

		return nil
	}

	if signature == "" {
		return fmt.Errorf("JWS with \"alg\" %q must have a non-empty signature", alg)
	}

	if !format.IsBase64URL(signature) {
		return errors.New("JWS signature is not valid base64url without padding")
	}

	return nil
}
