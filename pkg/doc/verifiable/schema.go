/*
Copyright SecureKey Technologies Inc. All Rights Reserved.

SPDX-License-Identifier: Apache-2.0
*/

package verifiable

import "github.com/xeipuuv/gojsonschema"

// The version-specific credential schemas are closed (additionalProperties
// false) so that a document carrying fields of both data model versions
// satisfies neither. Extension-carrying sub-objects stay open.

const credentialSchemaV1 = `{
  "$schema": "http://json-schema.org/draft-04/schema#",
  "type": "object",
  "required": ["@context", "type", "credentialSubject", "issuer", "issuanceDate"],
  "additionalProperties": false,
  "properties": {
    "@context": {
      "$ref": "#/definitions/context"
    },
    "id": {
      "type": "string",
      "format": "uri"
    },
    "type": {
      "$ref": "#/definitions/typeDeclaration"
    },
    "credentialSubject": {
      "$ref": "#/definitions/objectOrArrayOfObjects"
    },
    "issuer": {
      "$ref": "#/definitions/issuer"
    },
    "issuanceDate": {
      "type": "string",
      "format": "date-time"
    },
    "expirationDate": {
      "type": ["string", "null"],
      "format": "date-time"
    },
    "credentialStatus": {
      "$ref": "#/definitions/typedID"
    },
    "credentialSchema": {
      "$ref": "#/definitions/typedIDs"
    },
    "evidence": {
      "$ref": "#/definitions/objectOrArrayOfObjects"
    },
    "termsOfUse": {
      "$ref": "#/definitions/objectOrArrayOfObjects"
    },
    "refreshService": {
      "$ref": "#/definitions/typedID"
    },
    "proof": {
      "$ref": "#/definitions/proof"
    }
  },
  "definitions": {
    "context": {
      "oneOf": [
        {
          "type": "string",
          "format": "uri"
        },
        {
          "type": "array",
          "minItems": 1,
          "items": {
            "type": ["string", "object"]
          }
        }
      ]
    },
    "typeDeclaration": {
      "oneOf": [
        {
          "type": "string"
        },
        {
          "type": "array",
          "minItems": 1,
          "items": {
            "type": "string"
          }
        }
      ]
    },
    "objectOrArrayOfObjects": {
      "oneOf": [
        {
          "type": "object"
        },
        {
          "type": "array",
          "minItems": 1,
          "items": {
            "type": "object"
          }
        }
      ]
    },
    "issuer": {
      "oneOf": [
        {
          "type": "string",
          "format": "uri"
        },
        {
          "type": "object",
          "required": ["id"],
          "properties": {
            "id": {
              "type": "string",
              "format": "uri"
            }
          }
        }
      ]
    },
    "typedID": {
      "type": "object",
      "required": ["type"],
      "properties": {
        "id": {
          "type": "string",
          "format": "uri"
        },
        "type": {
          "$ref": "#/definitions/typeDeclaration"
        }
      }
    },
    "typedIDs": {
      "oneOf": [
        {
          "$ref": "#/definitions/typedID"
        },
        {
          "type": "array",
          "items": {
            "$ref": "#/definitions/typedID"
          }
        }
      ]
    },
    "proof": {
      "oneOf": [
        {
          "type": "object"
        },
        {
          "type": "array",
          "minItems": 1,
          "items": {
            "type": "object"
          }
        }
      ]
    }
  }
}`

const credentialSchemaV2 = `{
  "$schema": "http://json-schema.org/draft-04/schema#",
  "type": "object",
  "required": ["@context", "type", "credentialSubject", "issuer"],
  "additionalProperties": false,
  "properties": {
    "@context": {
      "$ref": "#/definitions/context"
    },
    "id": {
      "type": "string",
      "format": "uri"
    },
    "type": {
      "$ref": "#/definitions/typeDeclaration"
    },
    "name": {
      "$ref": "#/definitions/stringOrLanguageValues"
    },
    "description": {
      "$ref": "#/definitions/stringOrLanguageValues"
    },
    "credentialSubject": {
      "$ref": "#/definitions/objectOrArrayOfObjects"
    },
    "issuer": {
      "$ref": "#/definitions/issuer"
    },
    "validFrom": {
      "type": "string",
      "format": "date-time"
    },
    "validUntil": {
      "type": "string",
      "format": "date-time"
    },
    "credentialStatus": {
      "$ref": "#/definitions/typedIDs"
    },
    "credentialSchema": {
      "$ref": "#/definitions/typedIDs"
    },
    "evidence": {
      "$ref": "#/definitions/objectOrArrayOfObjects"
    },
    "termsOfUse": {
      "$ref": "#/definitions/objectOrArrayOfObjects"
    },
    "refreshService": {
      "$ref": "#/definitions/typedIDs"
    },
    "proof": {
      "$ref": "#/definitions/proof"
    }
  },
  "definitions": {
    "context": {
      "oneOf": [
        {
          "type": "string",
          "format": "uri"
        },
        {
          "type": "array",
          "minItems": 1,
          "items": {
            "type": ["string", "object"]
          }
        }
      ]
    },
    "typeDeclaration": {
      "oneOf": [
        {
          "type": "string"
        },
        {
          "type": "array",
          "minItems": 1,
          "items": {
            "type": "string"
          }
        }
      ]
    },
    "stringOrLanguageValues": {
      "oneOf": [
        {
          "type": "string"
        },
        {
          "type": "object"
        },
        {
          "type": "array",
          "items": {
            "type": ["string", "object"]
          }
        }
      ]
    },
    "objectOrArrayOfObjects": {
      "oneOf": [
        {
          "type": "object"
        },
        {
          "type": "array",
          "minItems": 1,
          "items": {
            "type": "object"
          }
        }
      ]
    },
    "issuer": {
      "oneOf": [
        {
          "type": "string",
          "format": "uri"
        },
        {
          "type": "object",
          "required": ["id"],
          "properties": {
            "id": {
              "type": "string",
              "format": "uri"
            }
          }
        }
      ]
    },
    "typedID": {
      "type": "object",
      "required": ["type"],
      "properties": {
        "id": {
          "type": "string",
          "format": "uri"
        },
        "type": {
          "$ref": "#/definitions/typeDeclaration"
        }
      }
    },
    "typedIDs": {
      "oneOf": [
        {
          "$ref": "#/definitions/typedID"
        },
        {
          "type": "array",
          "items": {
            "$ref": "#/definitions/typedID"
          }
        }
      ]
    },
    "proof": {
      "oneOf": [
        {
          "type": "object"
        },
        {
          "type": "array",
          "minItems": 1,
          "items": {
            "type": "object"
          }
        }
      ]
    }
  }
}`

// Presentations carry domain extension data at the top level, so their shape
// stays open.
const presentationSchema = `{
  "$schema": "http://json-schema.org/draft-04/schema#",
  "type": "object",
  "required": ["@context", "type"],
  "properties": {
    "@context": {
      "oneOf": [
        {
          "type": "string",
          "format": "uri"
        },
        {
          "type": "array",
          "minItems": 1,
          "items": {
            "type": ["string", "object"]
          }
        }
      ]
    },
    "id": {
      "type": "string",
      "format": "uri"
    },
    "type": {
      "oneOf": [
        {
          "type": "string"
        },
        {
          "type": "array",
          "minItems": 1,
          "items": {
            "type": "string"
          }
        }
      ]
    },
    "holder": {
      "type": "string",
      "format": "uri"
    },
    "verifiableCredential": {
      "oneOf": [
        {
          "type": ["object", "string"]
        },
        {
          "type": "array",
          "items": {
            "type": ["object", "string"]
          }
        }
      ]
    },
    "proof": {
      "oneOf": [
        {
          "type": "object"
        },
        {
          "type": "array",
          "minItems": 1,
          "items": {
            "type": "object"
          }
        }
      ]
    }
  }
}`

//nolint:gochecknoglobals
var (
	credentialSchemaLoaderV1 = gojsonschema.NewStringLoader(credentialSchemaV1)
	credentialSchemaLoaderV2 = gojsonschema.NewStringLoader(credentialSchemaV2)
	presentationSchemaLoader = gojsonschema.NewStringLoader(presentationSchema)
)
