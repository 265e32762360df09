/*
Copyright SecureKey Technologies Inc. All Rights Reserved.

SPDX-License-Identifier: Apache-2.0
*/

package jose

import (
	"fmt"

	"github.com/goccy/go-json"
	"golang.org/x/exp/slices"

	"github.com/docmodel/webidentity/pkg/doc/util/format"
	docutil "github.com/docmodel/webidentity/pkg/doc/util/json"
)

// JWK is a JSON Web Key as defined by RFC 7517, validated structurally:
// the required members for the declared key type must be present and
// base64url-valued where the registry says so. Key material is never
// interpreted cryptographically.
type JWK struct {
	Kty string
	Use string
	Alg string
	Kid string

	KeyOps []string

	// EC and OKP members.
	Crv string
	X   string
	Y   string

	// RSA members.
	N string
	E string

	// Symmetric key member.
	K string

	CustomFields map[string]interface{}
}

// rawJWK carries the registered members of RFC 7517/7518/8037.
type rawJWK struct {
	Kty    string   `json:"kty,omitempty"`
	Use    string   `json:"use,omitempty"`
	KeyOps []string `json:"key_ops,omitempty"`
	Alg    string   `json:"alg,omitempty"`
	Kid    string   `json:"kid,omitempty"`
	Crv    string   `json:"crv,omitempty"`
	X      string   `json:"x,omitempty"`
	Y      string   `json:"y,omitempty"`
	N      string   `json:"n,omitempty"`
	E      string   `json:"e,omitempty"`
	K      string   `json:"k,omitempty"`
}

// ParseJWK validates data as a JSON Web Key and returns the parsed key.
func ParseJWK(data []byte) (*JWK, error) {
	raw := &rawJWK{}

	err := json.Unmarshal(data, raw)
	if err != nil {
		return nil, fmt.Errorf("unmarshal JWK: %w", err)
	}

	if raw.Kty == "" {
		return nil, fmt.Errorf("JWK is missing mandatory \"kty\" member")
	}

	jwk := &JWK{
		Kty:    raw.Kty,
		Use:    raw.Use,
		KeyOps: raw.KeyOps,
		Alg:    raw.Alg,
		Kid:    raw.Kid,
		Crv:    raw.Crv,
		X:      raw.X,
		Y:      raw.Y,
		N:      raw.N,
		E:      raw.E,
		K:      raw.K,
	}

	err = jwk.validate()
	if err != nil {
		return nil, err
	}

	jwk.CustomFields = map[string]interface{}{}

	err = docutil.UnmarshalWithCustomFields(data, raw, jwk.CustomFields)
	if err != nil {
		return nil, fmt.Errorf("unmarshal JWK custom fields: %w", err)
	}

	return jwk, nil
}

// MarshalJSON serializes the JWK with its custom fields preserved.
func (j *JWK) MarshalJSON() ([]byte, error) {
	raw := &rawJWK{
		Kty:    j.Kty,
		Use:    j.Use,
		KeyOps: j.KeyOps,
		Alg:    j.Alg,
		Kid:    j.Kid,
		Crv:    j.Crv,
		X:      j.X,
		Y:      j.Y,
		N:      j.N,
		E:      j.E,
		K:      j.K,
	}

	return docutil.MarshalWithCustomFields(raw, j.CustomFields)
}

func (j *JWK) validate() error {
	if j.Use != "" && !slices.Contains(KeyUses, j.Use) {
		return fmt.Errorf("JWK has invalid \"use\" value %q", j.Use)
	}

	for _, op := range j.KeyOps {
		if !slices.Contains(KeyOperations, op) {
			return fmt.Errorf("JWK has invalid \"key_ops\" value %q", op)
		}
	}

	switch j.Kty {
	case KtyEC:
		return j.validateEC()
	case KtyOKP:
		return j.validateOKP()
	case KtyRSA:
		return j.validateRSA()
	case KtyOct:
		return j.validateOct()
	default:
		return fmt.Errorf("JWK has unsupported \"kty\" value %q", j.Kty)
	}
}

func (j *JWK) validateEC() error {
	if !slices.Contains(ECCurves, j.Crv) {
		return fmt.Errorf("EC JWK has invalid \"crv\" value %q", j.Crv)
	}

	return requireBase64URLMembers(map[string]string{"x": j.X, "y": j.Y})
}

func (j *JWK) validateOKP() error {
	if !slices.Contains(OKPCurves, j.Crv) {
		return fmt.Errorf("OKP JWK has invalid \"crv\" value %q", j.Crv)
	}

	if j.Y != "" {
		return fmt.Errorf("OKP JWK must not have a \"y\" member")
	}

	return requireBase64URLMembers(map[string]string{"x": j.X})
}

func (j *JWK) validateRSA() error {
	return requireBase64URLMembers(map[string]string{"n": j.N, "e": j.E})
}

func (j *JWK) validateOct() error {
	return requireBase64URLMembers(map[string]string{"k": j.K})
}

func requireBase64URLMembers(members map[string]string) error {
	for name, value := range members {
		if value == "" {
			return fmt.Errorf("JWK is missing mandatory %q member", name)
		}

		if !format.IsBase64URL(value) {
			return fmt.Errorf("JWK %q member is not valid base64url without padding", name)
		}
	}

	return nil
}
