/*
Copyright SecureKey Technologies Inc. All Rights Reserved.

SPDX-License-Identifier: Apache-2.0
*/

package did

const docSchema = `{
  "required": [
    "@context",
    "id"
  ],
  "properties": {
    "@context": {
      "oneOf": [
        {
          "type": "string",
          "pattern": "^https://(w3id.org|www.w3.org/ns)/did/v1$"
        },
        {
          "type": "array",
          "items": {
            "oneOf": [
              {
                "type": "string",
                "format": "uri"
              },
              {
                "type": "object"
              }
            ]
          }
        },
        {
          "type": "object"
        }
      ]
    },
    "id": {
      "type": "string"
    },
    "alsoKnownAs": {
      "type": "array",
      "items": {
        "type": "string",
        "format": "uri"
      },
      "uniqueItems": true
    },
    "controller": {
      "oneOf": [
        {
          "type": "string"
        },
        {
          "type": "array",
          "items": {
            "type": "string"
          }
        }
      ]
    },
    "verificationMethod": {
      "type": "array",
      "items": {
        "$ref": "#/definitions/verificationMethod"
      }
    },
    "authentication": {
      "$ref": "#/definitions/verificationRelationship"
    },
    "assertionMethod": {
      "$ref": "#/definitions/verificationRelationship"
    },
    "capabilityDelegation": {
      "$ref": "#/definitions/verificationRelationship"
    },
    "capabilityInvocation": {
      "$ref": "#/definitions/verificationRelationship"
    },
    "keyAgreement": {
      "$ref": "#/definitions/verificationRelationship"
    },
    "service": {
      "type": "array",
      "items": {
        "$ref": "#/definitions/service"
      }
    }
  },
  "definitions": {
    "verificationMethod": {
      "required": [
        "id",
        "type",
        "controller"
      ],
      "type": "object",
      "minProperties": 4,
      "properties": {
        "id": {
          "type": "string"
        },
        "type": {
          "type": "string"
        },
        "controller": {
          "type": "string"
        }
      }
    },
    "verificationRelationship": {
      "type": "array",
      "items": {
        "oneOf": [
          {
            "$ref": "#/definitions/verificationMethod"
          },
          {
            "type": "string"
          }
        ]
      }
    },
    "serviceEndpoint": {
      "type": "object",
      "minProperties": 1,
      "properties": {
        "uri": {
          "type": "string",
          "format": "uri"
        },
        "accept": {
          "type": "array",
          "items": [
            {
              "type": "string"
            }
          ]
        },
        "routingKeys": {
          "type": "array",
          "items": [
            {
              "type": "string"
            }
          ]
        }
      }
    },
    "service": {
      "required": [
        "id",
        "type",
        "serviceEndpoint"
      ],
      "type": "object",
      "properties": {
        "id": {
          "type": "string"
        },
        "type": {
          "oneOf": [
            {
              "type": "string"
            },
            {
              "type": "array",
              "items": [
                {
                  "type": "string"
                }
              ]
            }
          ]
        },
        "serviceEndpoint": {
          "oneOf": [
            {
              "type": "array",
              "items": {
                "oneOf": [
                  {
                    "$ref": "#/definitions/serviceEndpoint"
                  },
                  {
                    "type": "string",
                    "format": "uri"
                  }
                ]
              }
            },
            {
              "type": "object"
            },
            {
              "type": "string",
              "format": "uri"
            }
          ]
        }
      }
    }
  }
}`
