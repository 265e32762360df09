/*
Copyright SecureKey Technologies Inc. All Rights Reserved.
SPDX-License-Identifier: Apache-2.0
*/

// Package did implements the Decentralized Identifier syntax and the DID
// Document data model (https://w3c.github.io/did-core). Documents are
// validated structurally; no proof is ever verified cryptographically.
package did

import (
	"encoding/hex"
	"encoding/pem"
	"errors"
	"fmt"

	"github.com/btcsuite/btcutil/base58"
	"github.com/goccy/go-json"
	"github.com/mitchellh/mapstructure"
	"github.com/multiformats/go-multibase"
	"github.com/xeipuuv/gojsonschema"

	"github.com/docmodel/webidentity/pkg/doc/jose"
	"github.com/docmodel/webidentity/pkg/doc/util/format"
	"github.com/docmodel/webidentity/pkg/doc/util/onemany"
)

const (
	// ContextV1 is the required JSON-LD context of a DID document.
	ContextV1 = "https://www.w3.org/ns/did/v1"
	// ContextV1Old is the legacy spelling of the DID context, still accepted.
	ContextV1Old = "https://w3id.org/did/v1"
)

// Verification method key representations.
const (
	jsonldPublicKeyJwk       = "publicKeyJwk"
	jsonldPublicKeyMultibase = "publicKeyMultibase"
	jsonldPublicKeyBase58    = "publicKeyBase58"
	jsonldPublicKeyHex       = "publicKeyHex"
	jsonldPublicKeyPem       = "publicKeyPem"
)

//nolint:gochecknoglobals
var docSchemaLoader = gojsonschema.NewStringLoader(docSchema)

// Doc DID Document definition.
type Doc struct {
	Context              []string
	CustomContext        []interface{}
	ID                   string
	AlsoKnownAs          []string
	Controller           []string
	VerificationMethod   []VerificationMethod
	Authentication       []Verification
	AssertionMethod      []Verification
	CapabilityDelegation []Verification
	CapabilityInvocation []Verification
	KeyAgreement         []Verification
	Service              []Service
}

// VerificationMethod holds a public key expressed in one of the supported
// representations: an embedded JWK, a multibase-encoded key, or one of the
// legacy bare-string formats (base58, hex, PEM). Exactly one representation
// must be present.
type VerificationMethod struct {
	ID         string
	Type       string
	Controller string

	JSONWebKey         *jose.JWK
	PublicKeyMultibase string
	PublicKeyBase58    string
	PublicKeyHex       string
	PublicKeyPem       string
}

// Verification is either a reference to a verification method of the document
// or a verification method embedded into the relationship itself.
type Verification struct {
	Reference string
	Embedded  *VerificationMethod
}

// Service DID doc service.
type Service struct {
	ID              string      `json:"id,omitempty"`
	Type            interface{} `json:"type,omitempty"`
	ServiceEndpoint interface{} `json:"serviceEndpoint,omitempty"`
	Priority        uint        `json:"priority,omitempty"`
	RecipientKeys   []string    `json:"recipientKeys,omitempty"`
	RoutingKeys     []string    `json:"routingKeys,omitempty"`
}

type rawDoc struct {
	Context              interface{}              `json:"@context,omitempty"`
	ID                   string                   `json:"id,omitempty"`
	AlsoKnownAs          []string                 `json:"alsoKnownAs,omitempty"`
	Controller           interface{}              `json:"controller,omitempty"`
	VerificationMethod   []map[string]interface{} `json:"verificationMethod,omitempty"`
	Authentication       []interface{}            `json:"authentication,omitempty"`
	AssertionMethod      []interface{}            `json:"assertionMethod,omitempty"`
	CapabilityDelegation []interface{}            `json:"capabilityDelegation,omitempty"`
	CapabilityInvocation []interface{}            `json:"capabilityInvocation,omitempty"`
	KeyAgreement         []interface{}            `json:"keyAgreement,omitempty"`
	Service              []map[string]interface{} `json:"service,omitempty"`
}

// ParseDocument creates an instance of DID Document by reading a JSON document from bytes.
func ParseDocument(data []byte) (*Doc, error) {
	raw := &rawDoc{}

	err := json.Unmarshal(data, &raw)
	if err != nil {
		return nil, fmt.Errorf("JSON unmarshalling of DID document failed: %w", err)
	}

	err = validateDocJSONSchema(data)
	if err != nil {
		return nil, err
	}

	context, customContext, err := parseContext(raw.Context)
	if err != nil {
		return nil, fmt.Errorf("parse DID document context: %w", err)
	}

	if _, err = Parse(raw.ID); err != nil {
		return nil, fmt.Errorf("DID document id: %w", err)
	}

	controller, err := parseController(raw.Controller)
	if err != nil {
		return nil, fmt.Errorf("parse DID document controller: %w", err)
	}

	vms, err := populateVerificationMethods(raw.VerificationMethod)
	if err != nil {
		return nil, fmt.Errorf("populate verification methods failed: %w", err)
	}

	doc := &Doc{
		Context:            context,
		CustomContext:      customContext,
		ID:                 raw.ID,
		AlsoKnownAs:        raw.AlsoKnownAs,
		Controller:         controller,
		VerificationMethod: vms,
	}

	relationships := []struct {
		name string
		raw  []interface{}
		dst  *[]Verification
	}{
		{"authentication", raw.Authentication, &doc.Authentication},
		{"assertionMethod", raw.AssertionMethod, &doc.AssertionMethod},
		{"capabilityDelegation", raw.CapabilityDelegation, &doc.CapabilityDelegation},
		{"capabilityInvocation", raw.CapabilityInvocation, &doc.CapabilityInvocation},
		{"keyAgreement", raw.KeyAgreement, &doc.KeyAgreement},
	}

	for _, r := range relationships {
		verifications, err := populateVerifications(r.raw)
		if err != nil {
			return nil, fmt.Errorf("populate %s failed: %w", r.name, err)
		}

		*r.dst = verifications
	}

	services, err := populateServices(raw.Service)
	if err != nil {
		return nil, fmt.Errorf("populate services failed: %w", err)
	}

	doc.Service = services

	return doc, nil
}

func validateDocJSONSchema(data []byte) error {
	loader := gojsonschema.NewStringLoader(string(data))

	result, err := gojsonschema.Validate(docSchemaLoader, loader)
	if err != nil {
		return fmt.Errorf("validation of DID document: %w", err)
	}

	if !result.Valid() {
		errMsg := "DID document is not valid:\n"
		for _, desc := range result.Errors() {
			errMsg += fmt.Sprintf("- %s\n", desc)
		}

		return errors.New(errMsg)
	}

	return nil
}

// parseContext accepts the three wire forms of a DID document @context:
// a bare string, an array of strings (possibly with trailing object entries),
// or a key-to-URI mapping. The mandated context URI must be present; extra
// entries are tolerated.
func parseContext(c interface{}) ([]string, []interface{}, error) {
	switch rawContext := c.(type) {
	case string:
		if rawContext != ContextV1 && rawContext != ContextV1Old {
			return nil, nil, fmt.Errorf("unsupported @context: %s", rawContext)
		}

		return []string{rawContext}, nil, nil

	case []interface{}:
		strContexts := make([]string, 0)

		var customContext []interface{}

		for i := range rawContext {
			s, isStr := rawContext[i].(string)
			if !isStr {
				// the remaining contexts are of custom type
				customContext = rawContext[i:]
				break
			}

			strContexts = append(strContexts, s)
		}

		if !onemany.ContainsAll(strContexts, ContextV1) && !onemany.ContainsAll(strContexts, ContextV1Old) {
			return nil, nil, fmt.Errorf("@context is missing %q", ContextV1)
		}

		return strContexts, customContext, nil

	case map[string]interface{}:
		// map profile: every value must be a mandated literal or a well-formed URI
		for k, v := range rawContext {
			uri, isStr := v.(string)
			if !isStr || (uri != ContextV1 && uri != ContextV1Old && !format.IsURI(uri)) {
				return nil, nil, fmt.Errorf("@context entry %q is not a valid context URI", k)
			}
		}

		return nil, []interface{}{rawContext}, nil

	default:
		return nil, nil, errors.New("@context of unknown type")
	}
}

func parseController(c interface{}) ([]string, error) {
	if c == nil {
		return nil, nil
	}

	controllers, err := onemany.Strings(c)
	if err != nil {
		return nil, err
	}

	for _, controller := range controllers {
		if !IsDID(controller) {
			return nil, fmt.Errorf("controller %q is not a valid DID", controller)
		}
	}

	return controllers, nil
}

func populateVerificationMethods(rawVMs []map[string]interface{}) ([]VerificationMethod, error) {
	vms := make([]VerificationMethod, 0, len(rawVMs))

	for _, rawVM := range rawVMs {
		vm, err := populateVerificationMethod(rawVM)
		if err != nil {
			return nil, err
		}

		vms = append(vms, *vm)
	}

	return vms, nil
}

//nolint:gocyclo
func populateVerificationMethod(rawVM map[string]interface{}) (*VerificationMethod, error) {
	vm := &VerificationMethod{
		ID:         stringEntry(rawVM["id"]),
		Type:       stringEntry(rawVM["type"]),
		Controller: stringEntry(rawVM["controller"]),
	}

	if !IsDIDURL(vm.ID) {
		return nil, fmt.Errorf("verification method id %q is not a valid DID URL", vm.ID)
	}

	representations := 0

	if jwkMap, ok := rawVM[jsonldPublicKeyJwk].(map[string]interface{}); ok {
		jwkBytes, err := json.Marshal(jwkMap)
		if err != nil {
			return nil, err
		}

		key, err := jose.ParseJWK(jwkBytes)
		if err != nil {
			return nil, fmt.Errorf("verification method %s: %w", vm.ID, err)
		}

		vm.JSONWebKey = key
		representations++
	}

	if mb := stringEntry(rawVM[jsonldPublicKeyMultibase]); mb != "" {
		if _, _, err := multibase.Decode(mb); err != nil {
			return nil, fmt.Errorf("verification method %s: invalid publicKeyMultibase: %w", vm.ID, err)
		}

		vm.PublicKeyMultibase = mb
		representations++
	}

	if b58 := stringEntry(rawVM[jsonldPublicKeyBase58]); b58 != "" {
		if len(base58.Decode(b58)) == 0 {
			return nil, fmt.Errorf("verification method %s: invalid publicKeyBase58", vm.ID)
		}

		vm.PublicKeyBase58 = b58
		representations++
	}

	if h := stringEntry(rawVM[jsonldPublicKeyHex]); h != "" {
		if _, err := hex.DecodeString(h); err != nil {
			return nil, fmt.Errorf("verification method %s: invalid publicKeyHex: %w", vm.ID, err)
		}

		vm.PublicKeyHex = h
		representations++
	}

	if p := stringEntry(rawVM[jsonldPublicKeyPem]); p != "" {
		if block, _ := pem.Decode([]byte(p)); block == nil {
			return nil, fmt.Errorf("verification method %s: invalid publicKeyPem", vm.ID)
		}

		vm.PublicKeyPem = p
		representations++
	}

	if representations != 1 {
		return nil, fmt.Errorf("verification method %s must have exactly one key representation, got %d",
			vm.ID, representations)
	}

	return vm, nil
}

func populateVerifications(rawVerifications []interface{}) ([]Verification, error) {
	verifications := make([]Verification, 0, len(rawVerifications))

	for _, rawVerification := range rawVerifications {
		switch v := rawVerification.(type) {
		case string:
			if !IsReference(v) {
				return nil, fmt.Errorf("%w: %s", errInvalidDIDURL, v)
			}

			verifications = append(verifications, Verification{Reference: v})

		case map[string]interface{}:
			vm, err := populateVerificationMethod(v)
			if err != nil {
				return nil, err
			}

			verifications = append(verifications, Verification{Embedded: vm})

		default:
			return nil, errors.New("verification method entry is neither a reference nor an object")
		}
	}

	return verifications, nil
}

func populateServices(rawServices []map[string]interface{}) ([]Service, error) {
	services := make([]Service, 0, len(rawServices))

	for _, rawService := range rawServices {
		var service Service

		// JSON numbers arrive as float64; weak typing lets them land in uint fields.
		decoder, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
			TagName:          "json",
			WeaklyTypedInput: true,
			Result:           &service,
		})
		if err != nil {
			return nil, err
		}

		if err := decoder.Decode(rawService); err != nil {
			return nil, fmt.Errorf("decode service: %w", err)
		}

		if err := validateServiceEndpoint(service.ServiceEndpoint); err != nil {
			return nil, fmt.Errorf("service %s: %w", service.ID, err)
		}

		services = append(services, service)
	}

	return services, nil
}

// validateServiceEndpoint accepts a URI string, an endpoint object, or an
// array of either.
func validateServiceEndpoint(endpoint interface{}) error {
	switch ep := endpoint.(type) {
	case string:
		if !format.IsURI(ep) {
			return fmt.Errorf("serviceEndpoint %q is not a valid URI", ep)
		}

		return nil

	case map[string]interface{}:
		if len(ep) == 0 {
			return errors.New("serviceEndpoint object must not be empty")
		}

		return nil

	case []interface{}:
		if len(ep) == 0 {
			return errors.New("serviceEndpoint array must not be empty")
		}

		for _, entry := range ep {
			if err := validateServiceEndpoint(entry); err != nil {
				return err
			}
		}

		return nil

	default:
		return errors.New("serviceEndpoint of unknown type")
	}
}

// VerificationMethods returns all verification methods of the document,
// including those embedded into verification relationships.
func (doc *Doc) VerificationMethods() []VerificationMethod {
	vms := make([]VerificationMethod, 0, len(doc.VerificationMethod))
	vms = append(vms, doc.VerificationMethod...)

	for _, relationship := range [][]Verification{
		doc.Authentication, doc.AssertionMethod,
		doc.CapabilityDelegation, doc.CapabilityInvocation, doc.KeyAgreement,
	} {
		for _, v := range relationship {
			if v.Embedded != nil {
				vms = append(vms, *v.Embedded)
			}
		}
	}

	return vms
}

// JSONBytes converts document data model to JSON bytes.
func (doc *Doc) JSONBytes() ([]byte, error) {
	raw, err := doc.raw()
	if err != nil {
		return nil, err
	}

	byteDoc, err := json.Marshal(raw)
	if err != nil {
		return nil, fmt.Errorf("JSON marshalling of DID document failed: %w", err)
	}

	return byteDoc, nil
}

func (doc *Doc) raw() (*rawDoc, error) {
	raw := &rawDoc{
		ID:          doc.ID,
		AlsoKnownAs: doc.AlsoKnownAs,
	}

	switch {
	case len(doc.CustomContext) > 0:
		ctx := make([]interface{}, 0, len(doc.Context)+len(doc.CustomContext))
		for _, c := range doc.Context {
			ctx = append(ctx, c)
		}

		raw.Context = append(ctx, doc.CustomContext...)
	case len(doc.Context) == 1:
		raw.Context = doc.Context[0]
	default:
		raw.Context = doc.Context
	}

	if len(doc.Controller) == 1 {
		raw.Controller = doc.Controller[0]
	} else if len(doc.Controller) > 1 {
		raw.Controller = doc.Controller
	}

	raw.VerificationMethod = populateRawVerificationMethods(doc.VerificationMethod)

	for _, r := range []struct {
		src []Verification
		dst *[]interface{}
	}{
		{doc.Authentication, &raw.Authentication},
		{doc.AssertionMethod, &raw.AssertionMethod},
		{doc.CapabilityDelegation, &raw.CapabilityDelegation},
		{doc.CapabilityInvocation, &raw.CapabilityInvocation},
		{doc.KeyAgreement, &raw.KeyAgreement},
	} {
		*r.dst = populateRawVerifications(r.src)
	}

	if len(doc.Service) > 0 {
		rawServices := make([]map[string]interface{}, 0, len(doc.Service))

		for i := range doc.Service {
			m, err := serviceToMap(&doc.Service[i])
			if err != nil {
				return nil, err
			}

			rawServices = append(rawServices, m)
		}

		raw.Service = rawServices
	}

	return raw, nil
}

func populateRawVerificationMethods(vms []VerificationMethod) []map[string]interface{} {
	if len(vms) == 0 {
		return nil
	}

	rawVMs := make([]map[string]interface{}, 0, len(vms))
	for i := range vms {
		rawVMs = append(rawVMs, verificationMethodToMap(&vms[i]))
	}

	return rawVMs
}

func verificationMethodToMap(vm *VerificationMethod) map[string]interface{} {
	rawVM := map[string]interface{}{
		"id":         vm.ID,
		"type":       vm.Type,
		"controller": vm.Controller,
	}

	switch {
	case vm.JSONWebKey != nil:
		rawVM[jsonldPublicKeyJwk] = vm.JSONWebKey
	case vm.PublicKeyMultibase != "":
		rawVM[jsonldPublicKeyMultibase] = vm.PublicKeyMultibase
	case vm.PublicKeyBase58 != "":
		rawVM[jsonldPublicKeyBase58] = vm.PublicKeyBase58
	case vm.PublicKeyHex != "":
		rawVM[jsonldPublicKeyHex] = vm.PublicKeyHex
	case vm.PublicKeyPem != "":
		rawVM[jsonldPublicKeyPem] = vm.PublicKeyPem
	}

	return rawVM
}

func populateRawVerifications(verifications []Verification) []interface{} {
	if len(verifications) == 0 {
		return nil
	}

	raw := make([]interface{}, 0, len(verifications))

	for i := range verifications {
		if verifications[i].Embedded != nil {
			raw = append(raw, verificationMethodToMap(verifications[i].Embedded))
		} else {
			raw = append(raw, verifications[i].Reference)
		}
	}

	return raw
}

func serviceToMap(service *Service) (map[string]interface{}, error) {
	bytes, err := json.Marshal(service)
	if err != nil {
		return nil, err
	}

	var m map[string]interface{}

	if err := json.Unmarshal(bytes, &m); err != nil {
		return nil, err
	}

	return m, nil
}

func stringEntry(entry interface{}) string {
	if entry == nil {
		return ""
	}

	if s, ok := entry.(string); ok {
		return s
	}

	return ""
}
