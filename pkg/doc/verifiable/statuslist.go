/*
Copyright SecureKey Technologies Inc. All Rights Reserved.

SPDX-License-Identifier: Apache-2.0
*/

package verifiable

import (
	"bytes"
	"compress/gzip"
	"encoding/base64"
	"errors"
	"fmt"
	"io"
	"strconv"

	"github.com/multiformats/go-multibase"

	"github.com/docmodel/webidentity/pkg/doc/util/format"
)

// StatusList2021 names (https://www.w3.org/TR/vc-status-list/).
const (
	// StatusList2021Context is the status-list extension context for data model 1.1.
	StatusList2021Context = "https://w3id.org/vc/status-list/2021/v1"

	// StatusList2021CredentialType is the credential type of a status list credential.
	StatusList2021CredentialType = "StatusList2021Credential"

	// StatusList2021Type is the credentialSubject type of a status list credential.
	StatusList2021Type = "StatusList2021"

	// StatusList2021EntryType is the credentialStatus type referencing a status list.
	StatusList2021EntryType = "StatusList2021Entry"
)

// BitstringStatusList names (https://www.w3.org/TR/vc-bitstring-status-list/).
// The bitstring flavor lives in the data model 2.0 core context; no extension
// context is needed.
const (
	BitstringStatusListCredentialType = "BitstringStatusListCredential"
	BitstringStatusListType           = "BitstringStatusList"
	BitstringStatusListEntryType      = "BitstringStatusListEntry"
)

// StatusList is the parsed credentialSubject of a status list credential.
type StatusList struct {
	ID            string
	Type          string
	StatusPurpose string
	EncodedList   string
}

// ParseStatusListCredential validates vcData as a status list credential:
// a StatusList2021 credential under data model 1.1 or a BitstringStatusList
// credential under data model 2.0. The credential type tuple is pinned
// exactly, and the encoded list must decode to a gzip bitstring.
func ParseStatusListCredential(vcData []byte) (*Credential, *StatusList, error) {
	version, err := credentialVersion(vcData)
	if err != nil {
		return nil, nil, err
	}

	listType := StatusList2021CredentialType
	if version == Version2_0 {
		listType = BitstringStatusListCredentialType
	}

	vc, err := ParseCredential(vcData, WithExpectedTypes(listType))
	if err != nil {
		return nil, nil, err
	}

	if vc.Version == Version1_1 {
		err = validateContext(vc.Context, ContextV1, StatusList2021Context)
		if err != nil {
			return nil, nil, err
		}
	}

	list, err := statusListFromSubject(vc.Subject)
	if err != nil {
		return nil, nil, err
	}

	err = validateStatusListSubject(vc.Version, list)
	if err != nil {
		return nil, nil, err
	}

	return vc, list, nil
}

func statusListFromSubject(subject interface{}) (*StatusList, error) {
	m, ok := subject.(map[string]interface{})
	if !ok {
		return nil, errors.New("status list credential must have a single credentialSubject object")
	}

	list := &StatusList{}

	for k, v := range m {
		s, isStr := v.(string)
		if !isStr {
			continue
		}

		switch k {
		case "id":
			list.ID = s
		case "type":
			list.Type = s
		case "statusPurpose":
			list.StatusPurpose = s
		case "encodedList":
			list.EncodedList = s
		}
	}

	return list, nil
}

func validateStatusListSubject(version Version, list *StatusList) error {
	subjectType := StatusList2021Type
	if version == Version2_0 {
		subjectType = BitstringStatusListType
	}

	if list.Type != subjectType {
		return newValidationError("credentialSubject.type", fmt.Sprintf("type must be %q", subjectType))
	}

	if list.StatusPurpose == "" {
		return newValidationError("credentialSubject.statusPurpose", "statusPurpose is required")
	}

	if list.EncodedList == "" {
		return newValidationError("credentialSubject.encodedList", "encodedList is required")
	}

	bitstring, err := decodeEncodedList(version, list.EncodedList)
	if err != nil {
		return newValidationError("credentialSubject.encodedList", err.Error())
	}

	err = validateGzip(bitstring)
	if err != nil {
		return newValidationError("credentialSubject.encodedList", err.Error())
	}

	return nil
}

// decodeEncodedList decodes the compressed bitstring: base64url for
// StatusList2021, multibase with the base64url ("u") prefix for
// BitstringStatusList.
func decodeEncodedList(version Version, encodedList string) ([]byte, error) {
	if version == Version2_0 {
		encoding, decoded, err := multibase.Decode(encodedList)
		if err != nil {
			return nil, fmt.Errorf("encodedList is not valid multibase: %w", err)
		}

		if encoding != multibase.Base64url {
			return nil, errors.New(`encodedList must use the multibase base64url ("u") encoding`)
		}

		return decoded, nil
	}

	if !format.IsBase64URL(encodedList) {
		return nil, errors.New("encodedList is not valid base64url without padding")
	}

	return base64.RawURLEncoding.DecodeString(encodedList)
}

func validateGzip(data []byte) error {
	r, err := gzip.NewReader(bytes.NewReader(data))
	if err != nil {
		return fmt.Errorf("encodedList is not a gzip bitstring: %w", err)
	}

	defer r.Close() //nolint:errcheck

	_, err = io.Copy(io.Discard, r)
	if err != nil {
		return fmt.Errorf("encodedList gzip bitstring is corrupt: %w", err)
	}

	return nil
}

// ValidateCredentialStatus checks a credentialStatus entry of an ordinary
// credential against the status-list entry shapes.
func ValidateCredentialStatus(status *TypedID) error {
	if status == nil {
		return errors.New("credentialStatus is missing")
	}

	switch status.Type {
	case StatusList2021EntryType, BitstringStatusListEntryType:
	default:
		return newValidationError("credentialStatus.type",
			fmt.Sprintf("unsupported credential status type %q", status.Type))
	}

	if status.ID != "" && !format.IsURI(status.ID) {
		return newValidationError("credentialStatus.id", "id must be a URI")
	}

	purpose, _ := status.CustomFields["statusPurpose"].(string)
	if purpose == "" {
		return newValidationError("credentialStatus.statusPurpose", "statusPurpose is required")
	}

	listCredential, _ := status.CustomFields["statusListCredential"].(string)
	if listCredential == "" || !format.IsURI(listCredential) {
		return newValidationError("credentialStatus.statusListCredential",
			"statusListCredential must be a URI")
	}

	index, _ := status.CustomFields["statusListIndex"].(string)
	if _, err := strconv.ParseUint(index, 10, 64); err != nil {
		return newValidationError("credentialStatus.statusListIndex",
			"statusListIndex must be a decimal string")
	}

	return nil
}
