/*
Copyright SecureKey Technologies Inc. All Rights Reserved.

SPDX-License-Identifier: Apache-2.0
*/

// Package verifiable implements structural validation of Verifiable
// Credentials and Verifiable Presentations against the W3C data models,
// versions 1.1 and 2.0, including the StatusList2021 and BitstringStatusList
// credential-status extensions. Proof values are checked for syntactic
// well-formedness only and never cryptographically verified.
package verifiable

import (
	"errors"
	"fmt"
	"strings"

	"github.com/xeipuuv/gojsonschema"
	"golang.org/x/exp/slices"

	"github.com/docmodel/webidentity/pkg/common/log"
	"github.com/docmodel/webidentity/pkg/doc/util/onemany"
)

var logger = log.New("webidentity/verifiable")

// JSON-LD core context URIs.
const (
	// ContextV1 is the credentials data model 1.1 core context.
	ContextV1 = "https://www.w3.org/2018/credentials/v1"

	// ContextV2 is the credentials data model 2.0 core context.
	ContextV2 = "https://www.w3.org/ns/credentials/v2"
)

// Mandatory type tags.
const (
	// VCType is the required first type of a credential.
	VCType = "VerifiableCredential"

	// VPType is the required type of a presentation.
	VPType = "VerifiablePresentation"
)

// Version identifies the credentials data model version of a document.
type Version int

// Supported data model versions.
const (
	VersionUnknown Version = iota
	Version1_1
	Version2_0
)

// String returns a human-readable version label.
func (v Version) String() string {
	switch v {
	case Version1_1:
		return "1.1"
	case Version2_0:
		return "2.0"
	default:
		return "unknown"
	}
}

// Violation is a single schema or refinement failure at a field path.
type Violation struct {
	Path    string
	Message string
}

// ValidationError aggregates every violation found in a document. Rejection
// is all-or-nothing: a document either satisfies its schema completely or the
// full list of violations is returned.
type ValidationError struct {
	Violations []Violation
}

// Error implements the error interface.
func (e *ValidationError) Error() string {
	msgs := make([]string, len(e.Violations))

	for i, v := range e.Violations {
		if v.Path == "" || v.Path == "(root)" {
			msgs[i] = v.Message
		} else {
			msgs[i] = v.Path + ": " + v.Message
		}
	}

	return "validation failed: " + strings.Join(msgs, "; ")
}

// newValidationError wraps a single violation.
func newValidationError(path, message string) *ValidationError {
	return &ValidationError{Violations: []Violation{{Path: path, Message: message}}}
}

// validateJSONSchema checks data against an embedded JSON Schema and converts
// the engine's findings into a ValidationError.
func validateJSONSchema(data []byte, schemaLoader gojsonschema.JSONLoader) error {
	result, err := gojsonschema.Validate(schemaLoader, gojsonschema.NewBytesLoader(data))
	if err != nil {
		logger.Errorf("schema validation did not run: %v", err)

		return fmt.Errorf("schema validation: %w", err)
	}

	if result.Valid() {
		return nil
	}

	vErr := &ValidationError{}

	for _, re := range result.Errors() {
		vErr.Violations = append(vErr.Violations, Violation{
			Path:    re.Field(),
			Message: re.Description(),
		})
	}

	return vErr
}

// TypedID defines a JSON-LD object with "id" and "type" members plus
// arbitrary extension members, e.g. credentialStatus and credentialSchema.
type TypedID struct {
	ID   string `json:"id,omitempty"`
	Type string `json:"type,omitempty"`

	CustomFields map[string]interface{} `json:"-"`
}

// decodeType normalizes a raw "type" value (string or array of strings) into
// a string slice, preserving input order.
func decodeType(raw interface{}) ([]string, error) {
	types, err := onemany.Strings(raw)
	if err != nil {
		return nil, fmt.Errorf("decode type: %w", err)
	}

	return types, nil
}

// decodeContext normalizes a raw "@context" value into its context URIs and
// any embedded (non-string) custom context objects, preserving input order.
func decodeContext(raw interface{}) ([]string, []interface{}, error) {
	switch c := raw.(type) {
	case string:
		return []string{c}, nil, nil
	case []interface{}:
		var (
			contexts []string
			custom   []interface{}
		)

		// Custom contexts are allowed only after the URI contexts.
		for i, e := range c {
			if s, isStr := e.(string); isStr {
				if len(custom) > 0 {
					return nil, nil, errors.New("@context has a URI after a custom context object")
				}

				contexts = append(contexts, s)

				continue
			}

			if _, isMap := e.(map[string]interface{}); !isMap {
				return nil, nil, fmt.Errorf("@context element %d is neither a URI nor a context object", i)
			}

			custom = append(custom, e)
		}

		return contexts, custom, nil
	default:
		return nil, nil, errors.New("@context is neither a string nor an array")
	}
}

// validateTypeTag applies the unconstrained type policy: after one-or-many
// normalization, the first type must equal the mandatory tag; any extra tags
// may follow in any order.
func validateTypeTag(types []string, mandatory string) error {
	if len(types) == 0 {
		return newValidationError("type", "type must not be empty")
	}

	if types[0] != mandatory {
		return newValidationError("type", fmt.Sprintf("first type must be %q", mandatory))
	}

	return nil
}

// validateTypeTuple applies the constrained type policy: the types must be
// exactly the mandatory tag followed by the declared additional tags in the
// declared order. Extra tags are rejected. Call sites pinning status-list
// credential types rely on this exactness.
func validateTypeTuple(types []string, mandatory string, additional ...string) error {
	expected := append([]string{mandatory}, additional...)

	if !slices.Equal(types, expected) {
		return newValidationError("type", fmt.Sprintf("type must be exactly %q", expected))
	}

	return nil
}

// validateTypeContains applies the containment type policy: every required
// tag must be present somewhere, extra tags and any ordering are tolerated.
func validateTypeContains(types []string, required ...string) error {
	if missing := onemany.Missing(types, required...); len(missing) > 0 {
		return newValidationError("type", fmt.Sprintf("type is missing %q", missing))
	}

	return nil
}

// validateContext checks that every required context URI is a member of the
// document's contexts. Order is not checked and extra contexts are tolerated.
func validateContext(contexts []string, required ...string) error {
	if len(contexts) == 0 {
		return newValidationError("@context", "@context must not be empty")
	}

	if missing := onemany.Missing(contexts, required...); len(missing) > 0 {
		return newValidationError("@context", fmt.Sprintf("@context is missing %q", missing))
	}

	return nil
}

// proofsFromRaw normalizes a raw "proof" value (object or array of objects)
// into a slice of proof maps.
func proofsFromRaw(raw interface{}) ([]map[string]interface{}, error) {
	if raw == nil {
		return nil, nil
	}

	switch p := raw.(type) {
	case map[string]interface{}:
		return []map[string]interface{}{p}, nil
	case []interface{}:
		proofs := make([]map[string]interface{}, len(p))

		for i, e := range p {
			m, isMap := e.(map[string]interface{})
			if !isMap {
				return nil, fmt.Errorf("proof %d is not an object", i)
			}

			proofs[i] = m
		}

		return proofs, nil
	default:
		return nil, errors.New("proof is neither an object nor an array of objects")
	}
}

// rawProofs mirrors the input cardinality on marshal: a single proof
// marshals back to an object, several to an array.
func rawProofs(proofs []map[string]interface{}) interface{} {
	switch len(proofs) {
	case 0:
		return nil
	case 1:
		return proofs[0]
	default:
		out := make([]interface{}, len(proofs))
		for i, p := range proofs {
			out[i] = p
		}

		return out
	}
}
