/*
Copyright SecureKey Technologies Inc. All Rights Reserved.
SPDX-License-Identifier: Apache-2.0
*/

package did

import (
	"errors"
	"fmt"
	"net/url"
	"regexp"
	"strings"
)

// DID is parsed according to the generic syntax: https://w3c.github.io/did-core/#generic-did-syntax
type DID struct {
	Scheme           string // Scheme is always "did"
	Method           string // Method is the specific DID methods
	MethodSpecificID string // MethodSpecificID is the unique ID computed or assigned by the DID method
}

const idchar = `a-zA-Z0-9-_\.`

//nolint:gochecknoglobals
var (
	didRegex    = regexp.MustCompile(fmt.Sprintf(`^did:[a-z0-9]+:(:+|[:%s]+)*[%s]+$`, idchar, idchar))
	methodRegex = regexp.MustCompile(`^[a-z0-9]+$`)
)

// String returns a string representation of this DID.
func (d *DID) String() string {
	return fmt.Sprintf("%s:%s:%s", d.Scheme, d.Method, d.MethodSpecificID)
}

// Parse parses the string according to the generic DID syntax.
// See https://w3c.github.io/did-core/#generic-did-syntax.
func Parse(did string) (*DID, error) {
	if !didRegex.MatchString(did) {
		return nil, fmt.Errorf(
			"invalid did: %s. Make sure it conforms to the DID syntax: https://w3c.github.io/did-core/#did-syntax", did)
	}

	parts := strings.SplitN(did, ":", 3)

	return &DID{
		Scheme:           "did",
		Method:           parts[1],
		MethodSpecificID: parts[2],
	}, nil
}

// DIDURL holds a DID URL: a DID with optional path, query, and fragment components.
// https://w3c.github.io/did-core/#did-url-syntax
type DIDURL struct {
	DID

	Path     string
	Queries  map[string][]string
	Fragment string
}

// ParseDIDURL takes a string representing a DID URL and returns a DIDURL object.
func ParseDIDURL(didURL string) (*DIDURL, error) {
	split := strings.IndexAny(didURL, "?/#")

	didPart := didURL
	pathQueryFragment := ""

	if split != -1 {
		didPart = didURL[:split]
		pathQueryFragment = didURL[split:]
	}

	retDID, err := Parse(didPart)
	if err != nil {
		return nil, err
	}

	if pathQueryFragment == "" {
		return &DIDURL{
			DID:     *retDID,
			Queries: map[string][]string{},
		}, nil
	}

	hasPath := pathQueryFragment[0] == '/'

	if !hasPath {
		pathQueryFragment = "/" + pathQueryFragment
	}

	urlParts, err := url.Parse(pathQueryFragment)
	if err != nil {
		return nil, fmt.Errorf("failed to parse path, query, and fragment components of DID URL: %w", err)
	}

	ret := &DIDURL{
		DID:      *retDID,
		Queries:  urlParts.Query(),
		Fragment: urlParts.Fragment,
	}

	if hasPath {
		ret.Path = urlParts.Path
	}

	return ret, nil
}

// String returns a string representation of this DID URL.
func (du *DIDURL) String() string {
	out := du.DID.String()
	out += du.Path

	if len(du.Queries) > 0 {
		values := url.Values(du.Queries)
		out += "?" + values.Encode()
	}

	if du.Fragment != "" {
		out += "#" + du.Fragment
	}

	return out
}

// IsDID checks if the given string is a DID of valid generic syntax.
func IsDID(s string) bool {
	return didRegex.MatchString(s)
}

// IsDIDMethod checks if the given string is a valid DID method name.
func IsDIDMethod(method string) bool {
	return methodRegex.MatchString(method)
}

// IsDIDOfMethod checks if the given string is a DID of the given method.
func IsDIDOfMethod(s, method string) bool {
	d, err := Parse(s)
	if err != nil {
		return false
	}

	return d.Method == method
}

// IsDIDURL checks if the given string is a DID URL of valid syntax.
func IsDIDURL(s string) bool {
	_, err := ParseDIDURL(s)

	return err == nil
}

// IsReference checks if the given string is a same-document DID URL reference
// (a bare fragment) or an absolute DID URL.
func IsReference(s string) bool {
	if strings.HasPrefix(s, "#") {
		return len(s) > 1
	}

	return IsDIDURL(s)
}

// errInvalidDIDURL is shared by relationship reference checks.
var errInvalidDIDURL = errors.New("verification method reference is not a valid DID URL")
