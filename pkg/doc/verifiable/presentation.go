/*
Copyright SecureKey Technologies Inc. All Rights Reserved.

SPDX-License-Identifier: Apache-2.0
*/

package verifiable

import (
	"errors"
	"fmt"

	"github.com/goccy/go-json"

	"github.com/docmodel/webidentity/pkg/doc/jose"
	docutil "github.com/docmodel/webidentity/pkg/doc/util/json"
	"github.com/docmodel/webidentity/pkg/doc/util/onemany"
)

// Presentation is a structurally validated Verifiable Presentation. Unlike
// credentials, the type check is a containment check: "VerifiablePresentation"
// must be present among the types but need not come first.
type Presentation struct {
	Context       []string
	CustomContext []interface{}
	ID            string
	Types         []string
	Holder        string
	Proofs        []map[string]interface{}
	Version       Version

	CustomFields map[string]interface{}

	// credentials are the verifiableCredential entries: embedded credential
	// objects as *Credential, compact JWS credentials as string.
	credentials []interface{}

	credentialsSingle bool
}

type rawPresentation struct {
	Context    interface{} `json:"@context,omitempty"`
	ID         string      `json:"id,omitempty"`
	Type       interface{} `json:"type,omitempty"`
	Holder     string      `json:"holder,omitempty"`
	Credential interface{} `json:"verifiableCredential,omitempty"`
	Proof      interface{} `json:"proof,omitempty"`
}

type presentationOpts struct {
	proofRequired     bool
	requireCredential bool
	credentialOpts    []CredentialOpt
}

// PresentationOpt is an option for ParsePresentation.
type PresentationOpt func(opts *presentationOpts)

// WithPresentationProofRequired rejects presentations without at least one proof.
func WithPresentationProofRequired() PresentationOpt {
	return func(opts *presentationOpts) {
		opts.proofRequired = true
	}
}

// WithRequiredCredentials rejects presentations with an empty or absent
// verifiableCredential member.
func WithRequiredCredentials() PresentationOpt {
	return func(opts *presentationOpts) {
		opts.requireCredential = true
	}
}

// WithEmbeddedCredentialOpts passes options through to the validation of each
// embedded credential object.
func WithEmbeddedCredentialOpts(credentialOpts ...CredentialOpt) PresentationOpt {
	return func(opts *presentationOpts) {
		opts.credentialOpts = credentialOpts
	}
}

// ParsePresentation validates vpData as a Verifiable Presentation and
// returns its parsed form. Each verifiableCredential entry is validated in
// place: embedded objects as full credentials, strings as compact JWS.
func ParsePresentation(vpData []byte, opts ...PresentationOpt) (*Presentation, error) {
	pOpts := &presentationOpts{}
	for _, opt := range opts {
		opt(pOpts)
	}

	err := validateJSONSchema(vpData, presentationSchemaLoader)
	if err != nil {
		return nil, fmt.Errorf("verifiable presentation is not valid: %w", err)
	}

	raw := &rawPresentation{}
	customFields := map[string]interface{}{}

	err = docutil.UnmarshalWithCustomFields(vpData, raw, customFields)
	if err != nil {
		return nil, fmt.Errorf("unmarshal verifiable presentation: %w", err)
	}

	vp, err := newPresentation(raw, pOpts)
	if err != nil {
		return nil, err
	}

	vp.CustomFields = customFields

	err = validateTypeContains(vp.Types, VPType)
	if err != nil {
		return nil, err
	}

	err = validateContext(vp.Context, coreContext(vp.Version))
	if err != nil {
		return nil, err
	}

	if pOpts.proofRequired && len(vp.Proofs) == 0 {
		return nil, errors.New("verifiable presentation must have at least one proof")
	}

	if pOpts.requireCredential && len(vp.credentials) == 0 {
		return nil, errors.New("verifiable presentation must hold at least one credential")
	}

	return vp, nil
}

func newPresentation(raw *rawPresentation, pOpts *presentationOpts) (*Presentation, error) {
	types, err := decodeType(raw.Type)
	if err != nil {
		return nil, err
	}

	contexts, customContexts, err := decodeContext(raw.Context)
	if err != nil {
		return nil, err
	}

	version, err := presentationVersion(contexts)
	if err != nil {
		return nil, err
	}

	proofs, err := proofsFromRaw(raw.Proof)
	if err != nil {
		return nil, err
	}

	credentials, err := decodeCredentials(raw.Credential, pOpts.credentialOpts)
	if err != nil {
		return nil, err
	}

	_, single := raw.Credential.(map[string]interface{})
	if _, isStr := raw.Credential.(string); isStr {
		single = true
	}

	return &Presentation{
		Context:           contexts,
		CustomContext:     customContexts,
		ID:                raw.ID,
		Types:             types,
		Holder:            raw.Holder,
		Proofs:            proofs,
		Version:           version,
		credentials:       credentials,
		credentialsSingle: single,
	}, nil
}

// presentationVersion picks the data model version from the contexts already
// decoded; the first core context URI wins.
func presentationVersion(contexts []string) (Version, error) {
	for _, c := range contexts {
		switch c {
		case ContextV1:
			return Version1_1, nil
		case ContextV2:
			return Version2_0, nil
		}
	}

	return VersionUnknown, fmt.Errorf(
		"@context contains neither %q (data model 1.1) nor %q (data model 2.0)", ContextV1, ContextV2)
}

// decodeCredentials validates the verifiableCredential entries. Embedded
// objects are validated as credentials; strings must be compact JWS.
func decodeCredentials(raw interface{}, credentialOpts []CredentialOpt) ([]interface{}, error) {
	entries := onemany.Values(raw)
	credentials := make([]interface{}, 0, len(entries))

	for i, entry := range entries {
		switch cred := entry.(type) {
		case string:
			if !jose.IsCompactJWS(cred) {
				return nil, fmt.Errorf("credential %d is a string but not a compact JWS", i)
			}

			credentials = append(credentials, cred)
		case map[string]interface{}:
			vcBytes, err := json.Marshal(cred)
			if err != nil {
				return nil, fmt.Errorf("credential %d: %w", i, err)
			}

			vc, err := ParseCredential(vcBytes, credentialOpts...)
			if err != nil {
				return nil, fmt.Errorf("credential %d: %w", i, err)
			}

			credentials = append(credentials, vc)
		default:
			return nil, fmt.Errorf("credential %d is neither an object nor a string", i)
		}
	}

	return credentials, nil
}

// Credentials returns the verifiableCredential entries: *Credential for
// embedded objects, string for compact JWS credentials.
func (vp *Presentation) Credentials() []interface{} {
	return vp.credentials
}

// MarshalJSON serializes the presentation back to its JSON form, mirroring
// the cardinality of the original input.
func (vp *Presentation) MarshalJSON() ([]byte, error) {
	rawCreds, err := vp.rawCredentials()
	if err != nil {
		return nil, err
	}

	raw := &rawPresentation{
		Context:    contextToRaw(vp.Context, vp.CustomContext),
		ID:         vp.ID,
		Type:       typesToRaw(vp.Types),
		Holder:     vp.Holder,
		Credential: rawCreds,
		Proof:      rawProofs(vp.Proofs),
	}

	data, err := docutil.MarshalWithCustomFields(raw, vp.CustomFields)
	if err != nil {
		return nil, fmt.Errorf("marshal verifiable presentation: %w", err)
	}

	return data, nil
}

func (vp *Presentation) rawCredentials() (interface{}, error) {
	creds := make([]interface{}, len(vp.credentials))

	for i, entry := range vp.credentials {
		switch cred := entry.(type) {
		case string:
			creds[i] = cred
		case *Credential:
			m, err := docutil.ToMap(cred)
			if err != nil {
				return nil, fmt.Errorf("marshal credential %d: %w", i, err)
			}

			creds[i] = m
		default:
			return nil, fmt.Errorf("credential %d has unexpected type %T", i, entry)
		}
	}

	switch len(creds) {
	case 0:
		return nil, nil
	case 1:
		if vp.credentialsSingle {
			return creds[0], nil
		}

		return creds, nil
	default:
		return creds, nil
	}
}
