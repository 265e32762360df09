/*
Copyright SecureKey Technologies Inc. All Rights Reserved.

SPDX-License-Identifier: Apache-2.0
*/

package json

import (
	"testing"

	"github.com/goccy/go-json"
	"github.com/stretchr/testify/require"
)

type rawDocument struct {
	ID    string   `json:"id,omitempty"`
	Types []string `json:"type,omitempty"`
}

func TestMarshalWithCustomFields(t *testing.T) {
	doc := rawDocument{
		ID:    "did:example:123",
		Types: []string{"VerifiableCredential"},
	}

	data, err := MarshalWithCustomFields(&doc, map[string]interface{}{
		"name":   "custom name",
		"issued": "2023-01-01T00:00:00Z",
	})
	require.NoError(t, err)

	var m map[string]interface{}
	require.NoError(t, json.Unmarshal(data, &m))
	require.Equal(t, "did:example:123", m["id"])
	require.Equal(t, "custom name", m["name"])
	require.Equal(t, "2023-01-01T00:00:00Z", m["issued"])

	t.Run("mapped fields win over custom fields", func(t *testing.T) {
		data, err := MarshalWithCustomFields(&doc, map[string]interface{}{"id": "did:example:other"})
		require.NoError(t, err)

		var m map[string]interface{}
		require.NoError(t, json.Unmarshal(data, &m))
		require.Equal(t, "did:example:123", m["id"])
	})

	t.Run("unmarshallable value", func(t *testing.T) {
		_, err := MarshalWithCustomFields(make(chan int), nil)
		require.Error(t, err)
	})
}

func TestUnmarshalWithCustomFields(t *testing.T) {
	data := []byte(`{
		"id": "did:example:123",
		"type": ["VerifiableCredential"],
		"name": "custom name",
		"evidence": {"type": "DocumentVerification"}
	}`)

	doc := &rawDocument{}
	custom := map[string]interface{}{}

	require.NoError(t, UnmarshalWithCustomFields(data, doc, custom))
	require.Equal(t, "did:example:123", doc.ID)
	require.Equal(t, []string{"VerifiableCredential"}, doc.Types)
	require.Equal(t, "custom name", custom["name"])
	require.Contains(t, custom, "evidence")
	require.NotContains(t, custom, "id", "mapped fields are not custom")

	t.Run("round trip", func(t *testing.T) {
		remarshaled, err := MarshalWithCustomFields(doc, custom)
		require.NoError(t, err)

		var original, actual map[string]interface{}
		require.NoError(t, json.Unmarshal(data, &original))
		require.NoError(t, json.Unmarshal(remarshaled, &actual))
		require.Equal(t, original, actual)
	})

	t.Run("invalid JSON", func(t *testing.T) {
		require.Error(t, UnmarshalWithCustomFields([]byte("not JSON"), &rawDocument{}, custom))
	})

	t.Run("incompatible shape", func(t *testing.T) {
		var wrong struct {
			ID []string `json:"id"`
		}

		require.Error(t, UnmarshalWithCustomFields(data, &wrong, custom))
	})
}

func TestToMap(t *testing.T) {
	m, err := ToMap(`{"a": "b"}`)
	require.NoError(t, err)
	require.Equal(t, map[string]interface{}{"a": "b"}, m)

	m, err = ToMap([]byte(`{"c": 1}`))
	require.NoError(t, err)
	require.Equal(t, map[string]interface{}{"c": float64(1)}, m)

	m, err = ToMap(rawDocument{ID: "did:example:123"})
	require.NoError(t, err)
	require.Equal(t, map[string]interface{}{"id": "did:example:123"}, m)

	_, err = ToMap(`[1, 2]`)
	require.Error(t, err)
}

func TestToMaps(t *testing.T) {
	maps, err := ToMaps([]interface{}{
		map[string]interface{}{"a": "b"},
		rawDocument{ID: "did:example:123"},
	})
	require.NoError(t, err)
	require.Len(t, maps, 2)
	require.Equal(t, "did:example:123", maps[1]["id"])

	_, err = ToMaps([]interface{}{make(chan int)})
	require.Error(t, err)
}
