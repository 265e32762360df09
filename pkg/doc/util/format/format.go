/*
Copyright SecureKey Technologies Inc. All Rights Reserved.

SPDX-License-Identifier: Apache-2.0
*/

// Package format provides primitive pattern matchers shared by the document
// validators: base64url and base64 grammars, generic URIs and RFC3339
// timestamps.
package format

import (
	"net/url"
	"regexp"
	"time"
)

//nolint:gochecknoglobals
var (
	// base64url alphabet without padding (https://tools.ietf.org/html/rfc4648#section-5).
	base64URLRegex = regexp.MustCompile(`^[A-Za-z0-9_-]+$`)

	// standard base64 alphabet with optional padding, length constrained to multiples of 4.
	base64Regex = regexp.MustCompile(
		`^(?:[A-Za-z0-9+/]{4})*(?:[A-Za-z0-9+/]{4}|[A-Za-z0-9+/]{3}=|[A-Za-z0-9+/]{2}==)$`)
)

// IsBase64URL checks that s is a non-empty raw (unpadded) base64url string.
func IsBase64URL(s string) bool {
	return base64URLRegex.MatchString(s)
}

// IsBase64 checks that s is a non-empty standard base64 string with optional
// padding and a length which is a multiple of four.
func IsBase64(s string) bool {
	return base64Regex.MatchString(s)
}

// IsURI checks that s parses as a URI with a scheme.
func IsURI(s string) bool {
	u, err := url.Parse(s)

	return err == nil && u.Scheme != ""
}

// IsRFC3339 checks that s is an RFC3339 (ISO-8601 profile) timestamp.
func IsRFC3339(s string) bool {
	_, err := time.Parse(time.RFC3339, s)

	return err == nil
}
