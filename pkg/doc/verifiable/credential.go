/*
Copyright SecureKey Technologies Inc. All Rights Reserved.

SPDX-License-Identifier: Apache-2.0
*/

package verifiable

import (
	"errors"
	"fmt"

	"github.com/tidwall/gjson"
	"github.com/xeipuuv/gojsonschema"

	"github.com/docmodel/webidentity/pkg/doc/util/format"
	docutil "github.com/docmodel/webidentity/pkg/doc/util/json"
	"github.com/docmodel/webidentity/pkg/doc/util/onemany"
)

// Credential is a structurally validated Verifiable Credential of either
// data model version. It is a transient view over a caller-supplied JSON
// document: parsed fields mirror the input and marshal back to the input
// cardinality (a single type marshals back to a string, and so on).
type Credential struct {
	Context       []string
	CustomContext []interface{}
	ID            string
	Types         []string
	Subject       interface{}
	Issuer        interface{}
	Issued        string
	Expired       string
	Status        []*TypedID
	Proofs        []map[string]interface{}
	Version       Version

	CustomFields map[string]interface{}

	rawStatus interface{}
}

// rawCredential maps the fields the credential data models share; everything
// else rides along in CustomFields.
type rawCredential struct {
	Context interface{} `json:"@context,omitempty"`
	ID      string      `json:"id,omitempty"`
	Type    interface{} `json:"type,omitempty"`
	Subject interface{} `json:"credentialSubject,omitempty"`
	Issuer  interface{} `json:"issuer,omitempty"`
	Status  interface{} `json:"credentialStatus,omitempty"`
	Proof   interface{} `json:"proof,omitempty"`

	// Data model 1.1 validity fields.
	Issued  string `json:"issuanceDate,omitempty"`
	Expired string `json:"expirationDate,omitempty"`

	// Data model 2.0 validity fields.
	ValidFrom  string `json:"validFrom,omitempty"`
	ValidUntil string `json:"validUntil,omitempty"`
}

type credentialOpts struct {
	proofRequired   bool
	additionalTypes []string
	tupleTypes      bool
}

// CredentialOpt is an option for ParseCredential.
type CredentialOpt func(opts *credentialOpts)

// WithProofRequired rejects credentials without at least one proof.
func WithProofRequired() CredentialOpt {
	return func(opts *credentialOpts) {
		opts.proofRequired = true
	}
}

// WithExpectedTypes requires the credential type to be exactly
// ["VerifiableCredential", additional...] in that order, with no extra tags.
func WithExpectedTypes(additional ...string) CredentialOpt {
	return func(opts *credentialOpts) {
		opts.additionalTypes = additional
		opts.tupleTypes = true
	}
}

// ParseCredential validates vcData as a Verifiable Credential and returns
// its parsed form. The data model version is decided by the core context URI
// present in "@context"; the version-specific schema then rejects any field
// belonging to the other version.
func ParseCredential(vcData []byte, opts ...CredentialOpt) (*Credential, error) {
	pOpts := &credentialOpts{}
	for _, opt := range opts {
		opt(pOpts)
	}

	version, err := credentialVersion(vcData)
	if err != nil {
		return nil, err
	}

	err = validateJSONSchema(vcData, credentialSchemaLoader(version))
	if err != nil {
		return nil, fmt.Errorf("verifiable credential is not valid against data model %s: %w", version, err)
	}

	raw := &rawCredential{}
	customFields := map[string]interface{}{}

	err = docutil.UnmarshalWithCustomFields(vcData, raw, customFields)
	if err != nil {
		return nil, fmt.Errorf("unmarshal verifiable credential: %w", err)
	}

	vc, err := newCredential(raw, version)
	if err != nil {
		return nil, err
	}

	vc.CustomFields = customFields

	if pOpts.tupleTypes {
		err = validateTypeTuple(vc.Types, VCType, pOpts.additionalTypes...)
	} else {
		err = validateTypeTag(vc.Types, VCType)
	}

	if err != nil {
		return nil, err
	}

	err = validateContext(vc.Context, coreContext(version))
	if err != nil {
		return nil, err
	}

	if pOpts.proofRequired && len(vc.Proofs) == 0 {
		return nil, errors.New("verifiable credential must have at least one proof")
	}

	return vc, nil
}

func newCredential(raw *rawCredential, version Version) (*Credential, error) {
	types, err := decodeType(raw.Type)
	if err != nil {
		return nil, err
	}

	contexts, customContexts, err := decodeContext(raw.Context)
	if err != nil {
		return nil, err
	}

	proofs, err := proofsFromRaw(raw.Proof)
	if err != nil {
		return nil, err
	}

	status, err := statusFromRaw(raw.Status)
	if err != nil {
		return nil, err
	}

	vc := &Credential{
		Context:       contexts,
		CustomContext: customContexts,
		ID:            raw.ID,
		Types:         types,
		Subject:       raw.Subject,
		Issuer:        raw.Issuer,
		Status:        status,
		Proofs:        proofs,
		Version:       version,
		rawStatus:     raw.Status,
	}

	if version == Version2_0 {
		vc.Issued = raw.ValidFrom
		vc.Expired = raw.ValidUntil
	} else {
		vc.Issued = raw.Issued
		vc.Expired = raw.Expired
	}

	return vc, nil
}

// credentialVersion picks the data model version by peeking at the core
// context URI, before any full decoding. The first core context URI in
// document order wins.
func credentialVersion(vcData []byte) (Version, error) {
	if !gjson.ValidBytes(vcData) {
		return VersionUnknown, errors.New("verifiable credential is not valid JSON")
	}

	raw := gjson.GetBytes(vcData, `\@context`)

	for _, entry := range contextCandidates(raw) {
		switch entry {
		case ContextV1:
			return Version1_1, nil
		case ContextV2:
			return Version2_0, nil
		}
	}

	return VersionUnknown, fmt.Errorf(
		"@context contains neither %q (data model 1.1) nor %q (data model 2.0)", ContextV1, ContextV2)
}

func contextCandidates(raw gjson.Result) []string {
	if raw.Type == gjson.String {
		return []string{raw.String()}
	}

	if !raw.IsArray() {
		return nil
	}

	var candidates []string

	for _, entry := range raw.Array() {
		if entry.Type == gjson.String {
			candidates = append(candidates, entry.String())
		}
	}

	return candidates
}

func credentialSchemaLoader(version Version) gojsonschema.JSONLoader {
	if version == Version2_0 {
		return credentialSchemaLoaderV2
	}

	return credentialSchemaLoaderV1
}

func coreContext(version Version) string {
	if version == Version2_0 {
		return ContextV2
	}

	return ContextV1
}

// IssuerID returns the issuer identifier whether the issuer is a bare URI or
// an object with an "id" member.
func (vc *Credential) IssuerID() string {
	switch issuer := vc.Issuer.(type) {
	case string:
		return issuer
	case map[string]interface{}:
		id, _ := issuer["id"].(string)

		return id
	default:
		return ""
	}
}

// SubjectID returns the identifier of the single credential subject, or an
// empty string when there are several subjects or none carries an id.
func (vc *Credential) SubjectID() string {
	subject, ok := vc.Subject.(map[string]interface{})
	if !ok {
		return ""
	}

	id, _ := subject["id"].(string)

	return id
}

// MarshalJSON serializes the credential back to its JSON form, mirroring the
// cardinality of the original input.
func (vc *Credential) MarshalJSON() ([]byte, error) {
	raw := &rawCredential{
		Context: contextToRaw(vc.Context, vc.CustomContext),
		ID:      vc.ID,
		Type:    typesToRaw(vc.Types),
		Subject: vc.Subject,
		Issuer:  vc.Issuer,
		Status:  vc.rawStatus,
		Proof:   rawProofs(vc.Proofs),
	}

	if vc.Version == Version2_0 {
		raw.ValidFrom = vc.Issued
		raw.ValidUntil = vc.Expired
	} else {
		raw.Issued = vc.Issued
		raw.Expired = vc.Expired
	}

	data, err := docutil.MarshalWithCustomFields(raw, vc.CustomFields)
	if err != nil {
		return nil, fmt.Errorf("marshal verifiable credential: %w", err)
	}

	return data, nil
}

func typesToRaw(types []string) interface{} {
	if len(types) == 1 {
		return types[0]
	}

	return types
}

func contextToRaw(contexts []string, custom []interface{}) interface{} {
	if len(contexts) == 1 && len(custom) == 0 {
		return contexts[0]
	}

	raw := make([]interface{}, 0, len(contexts)+len(custom))

	for _, c := range contexts {
		raw = append(raw, c)
	}

	raw = append(raw, custom...)

	return raw
}

// statusFromRaw normalizes a raw "credentialStatus" value (absent, object,
// or array of objects in data model 2.0) into typed entries.
func statusFromRaw(raw interface{}) ([]*TypedID, error) {
	if raw == nil {
		return nil, nil
	}

	entries, err := docutil.ToMaps(onemany.Values(raw))
	if err != nil {
		return nil, fmt.Errorf("decode credentialStatus: %w", err)
	}

	statuses := make([]*TypedID, len(entries))

	for i, entry := range entries {
		statuses[i] = typedIDFromMap(entry)
	}

	return statuses, nil
}

func typedIDFromMap(entry map[string]interface{}) *TypedID {
	tid := &TypedID{CustomFields: map[string]interface{}{}}

	for k, v := range entry {
		switch k {
		case "id":
			tid.ID, _ = v.(string)
		case "type":
			tid.Type, _ = v.(string)
		default:
			tid.CustomFields[k] = v
		}
	}

	return tid
}

// ValidateDates checks the validity timestamps against RFC 3339. The schema
// already enforces the date-time format; this is the standalone helper for
// callers holding an assembled Credential.
func (vc *Credential) ValidateDates() error {
	for name, value := range map[string]string{
		"issued":  vc.Issued,
		"expired": vc.Expired,
	} {
		if value != "" && !format.IsRFC3339(value) {
			return fmt.Errorf("%s timestamp is not a valid RFC3339 date-time", name)
		}
	}

	return nil
}
