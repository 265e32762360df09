/*
Copyright SecureKey Technologies Inc. All Rights Reserved.

SPDX-License-Identifier: Apache-2.0
*/

package jose

import (
	"errors"
	"fmt"
	"strings"

	"github.com/goccy/go-json"

	"github.com/docmodel/webidentity/pkg/doc/util/format"
)

const jweCompactParts = 5

// JSONWebEncryption holds the structurally validated parts of a JWE.
type JSONWebEncryption struct {
	ProtectedHeaders   Headers
	UnprotectedHeaders Headers
	Recipients         []*Recipient
	AAD                string
	IV                 string
	Ciphertext         string
	Tag                string
}

// Recipient is a recipient of a JWE including the shared encryption key.
type Recipient struct {
	Header       Headers `json:"header,omitempty"`
	EncryptedKey string  `json:"encrypted_key,omitempty"`
}

// rawJSONWebEncryption covers both the general and the flattened JWE JSON
// serializations of RFC 7516 section 7.2.
type rawJSONWebEncryption struct {
	Protected   string       `json:"protected,omitempty"`
	Unprotected Headers      `json:"unprotected,omitempty"`
	Recipients  []*Recipient `json:"recipients,omitempty"`
	AAD         string       `json:"aad,omitempty"`
	IV          string       `json:"iv,omitempty"`
	Ciphertext  string       `json:"ciphertext,omitempty"`
	Tag         string       `json:"tag,omitempty"`

	// Flattened form members.
	Header       Headers `json:"header,omitempty"`
	EncryptedKey string  `json:"encrypted_key,omitempty"`
}

// IsCompactJWE checks that s has the shape of a compact JWE: five dot-separated
// base64url segments with a non-empty ciphertext. The encrypted key segment may
// be empty for direct encryption and direct key agreement.
func IsCompactJWE(s string) bool {
	parts := strings.Split(s, ".")
	if len(parts) != jweCompactParts {
		return false
	}

	if !format.IsBase64URL(parts[0]) {
		return false
	}

	// header.encryptedKey.iv.ciphertext.tag
	for _, part := range []string{parts[1], parts[2], parts[4]} {
		if part != "" && !format.IsBase64URL(part) {
			return false
		}
	}

	return format.IsBase64URL(parts[3])
}

// ParseJWE validates a compact JWE and returns its parts.
// The protected header must decode to a JSON object carrying registered
// "alg" and "enc" values, and the ciphertext segment must be non-empty.
func ParseJWE(serialized string) (*JSONWebEncryption, error) {
	parts := strings.Split(serialized, ".")
	if len(parts) != jweCompactParts {
		return nil, fmt.Errorf("invalid JWE compact format: expected %d parts, got %d", jweCompactParts, len(parts))
	}

	headers, err := parseJWEProtectedHeaders(parts[0])
	if err != nil {
		return nil, err
	}

	for i, name := range []string{"encrypted key", "initialization vector", "", "authentication tag"} {
		if name == "" {
			continue
		}

		if parts[i+1] != "" && !format.IsBase64URL(parts[i+1]) {
			return nil, fmt.Errorf("JWE %s is not valid base64url without padding", name)
		}
	}

	if parts[3] == "" {
		return nil, errors.New("JWE ciphertext must not be empty")
	}

	if !format.IsBase64URL(parts[3]) {
		return nil, errors.New("JWE ciphertext is not valid base64url without padding")
	}

	return &JSONWebEncryption{
		ProtectedHeaders: headers,
		Recipients:       []*Recipient{{EncryptedKey: parts[1]}},
		IV:               parts[2],
		Ciphertext:       parts[3],
		Tag:              parts[4],
	}, nil
}

// ParseJWEJSON validates the JWE JSON serialization, general or flattened.
func ParseJWEJSON(data []byte) (*JSONWebEncryption, error) {
	raw := &rawJSONWebEncryption{}

	err := json.Unmarshal(data, raw)
	if err != nil {
		return nil, fmt.Errorf("unmarshal JWE JSON serialization: %w", err)
	}

	if raw.Protected == "" {
		return nil, errors.New("JWE JSON serialization is missing \"protected\"")
	}

	headers, err := parseJWEProtectedHeaders(raw.Protected)
	if err != nil {
		return nil, err
	}

	if raw.Ciphertext == "" {
		return nil, errors.New("JWE ciphertext must not be empty")
	}

	for name, value := range map[string]string{
		"ciphertext": raw.Ciphertext,
		"iv":         raw.IV,
		"tag":        raw.Tag,
		"aad":        raw.AAD,
	} {
		if value != "" && !format.IsBase64URL(value) {
			return nil, fmt.Errorf("JWE %q member is not valid base64url without padding", name)
		}
	}

	recipients := raw.Recipients

	if len(recipients) == 0 {
		// Flattened form: a single recipient at the top level.
		recipients = []*Recipient{{Header: raw.Header, EncryptedKey: raw.EncryptedKey}}
	} else if len(raw.Header) > 0 || raw.EncryptedKey != "" {
		return nil, errors.New("JWE JSON serialization mixes general and flattened members")
	}

	for i, recipient := range recipients {
		if recipient.EncryptedKey != "" && !format.IsBase64URL(recipient.EncryptedKey) {
			return nil, fmt.Errorf("recipient %d: encrypted key is not valid base64url without padding", i)
		}
	}

	return &JSONWebEncryption{
		ProtectedHeaders:   headers,
		UnprotectedHeaders: raw.Unprotected,
		Recipients:         recipients,
		AAD:                raw.AAD,
		IV:                 raw.IV,
		Ciphertext:         raw.Ciphertext,
		Tag:                raw.Tag,
	}, nil
}

func parseJWEProtectedHeaders(segment string) (Headers, error) {
	headers, err := parseProtectedHeaders(segment)
	if err != nil {
		return nil, err
	}

	alg, ok := headers.Algorithm()
	if !ok {
		return nil, errors.New("JWE protected header is missing \"alg\"")
	}

	if !IsKeyEncryptionAlgorithm(alg) {
		return nil, fmt.Errorf("JWE has unsupported \"alg\" value %q", alg)
	}

	enc, ok := headers.Encryption()
	if !ok {
		return nil, errors.New("JWE protected header is missing \"enc\"")
	}

	if !IsContentEncryptionAlgorithm(enc) {
		return nil, fmt.Errorf("JWE has unsupported \"enc\" value %q", enc)
	}

	return headers, nil
}
