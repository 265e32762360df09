/*
Copyright SecureKey Technologies Inc. All Rights Reserved.

SPDX-License-Identifier: Apache-2.0
*/

// Package webidentity provides a declarative validation and type layer for the
// Web Identity document family: JSON Web Keys, JSON Web Signatures and
// Encryption, JSON Web Tokens, Decentralized Identifiers and DID Documents,
// and Verifiable Credentials/Presentations (data model versions 1.1 and 2.0)
// including the StatusList2021 and BitstringStatusList credential-status
// extensions.
//
// Packages for end developer usage
//
// pkg/doc/did: DID and DID URL syntax, DID Document validation.
//
// pkg/doc/jose: JWK, JWS and JWE structural validation.
//
// pkg/doc/jwt: JSON Web Token structural validation.
//
// pkg/doc/verifiable: Verifiable Credential and Presentation validation,
// including status-list credentials.
//
// The library accepts or rejects externally supplied JSON documents; it never
// verifies proofs cryptographically and performs no JSON-LD processing beyond
// checking the presence of mandated context URIs.
package webidentity
