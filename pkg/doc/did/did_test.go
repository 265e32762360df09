/*
Copyright SecureKey Technologies Inc. All Rights Reserved.

SPDX-License-Identifier: Apache-2.0
*/

package did

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestParse(t *testing.T) {
	t.Run("valid DIDs", func(t *testing.T) {
		for _, did := range []string{
			"did:example:123456789abcdefghi",
			"did:key:z6MkhaXgBZDvotDkL5257faiztiGiC2QtKLGpbnnEGta2doK",
			"did:web:example.com",
			"did:method:abcdefg.one:two",
		} {
			t.Run(did, func(t *testing.T) {
				d, err := Parse(did)
				require.NoError(t, err)
				require.Equal(t, "did", d.Scheme)
				require.Equal(t, did, d.String())
			})
		}
	})

	t.Run("invalid DIDs", func(t *testing.T) {
		for _, did := range []string{
			"",
			"did:",
			"did:method:",
			"did:CAPS:abc",
			"did:method:abc:",
			"not-a-did",
			"did:method",
		} {
			t.Run(did, func(t *testing.T) {
				_, err := Parse(did)
				require.Error(t, err)
			})
		}
	})

	t.Run("parts", func(t *testing.T) {
		d, err := Parse("did:example:123:456")
		require.NoError(t, err)
		require.Equal(t, "example", d.Method)
		require.Equal(t, "123:456", d.MethodSpecificID)
	})
}

func TestParseDIDURL(t *testing.T) {
	t.Run("bare DID", func(t *testing.T) {
		u, err := ParseDIDURL("did:example:123")
		require.NoError(t, err)
		require.Equal(t, "did:example:123", u.DID.String())
		require.Empty(t, u.Path)
		require.Empty(t, u.Fragment)
		require.Empty(t, u.Queries)
	})

	t.Run("path query fragment", func(t *testing.T) {
		u, err := ParseDIDURL("did:example:123/some/path?k=v&k=v2&p=1#frag")
		require.NoError(t, err)
		require.Equal(t, "/some/path", u.Path)
		require.Equal(t, []string{"v", "v2"}, u.Queries["k"])
		require.Equal(t, []string{"1"}, u.Queries["p"])
		require.Equal(t, "frag", u.Fragment)
	})

	t.Run("fragment only", func(t *testing.T) {
		u, err := ParseDIDURL("did:example:123#key-1")
		require.NoError(t, err)
		require.Equal(t, "key-1", u.Fragment)
		require.Empty(t, u.Path)
	})

	t.Run("invalid DID part", func(t *testing.T) {
		_, err := ParseDIDURL("did:CAPS:abc#key-1")
		require.Error(t, err)
	})

	t.Run("string round trip", func(t *testing.T) {
		for _, s := range []string{
			"did:example:123",
			"did:example:123/path",
			"did:example:123#frag",
			"did:example:123/path?a=b#frag",
		} {
			u, err := ParseDIDURL(s)
			require.NoError(t, err)
			require.Equal(t, s, u.String())
		}
	})
}

func TestPredicates(t *testing.T) {
	require.True(t, IsDID("did:example:123"))
	require.False(t, IsDID("did:example"))

	require.True(t, IsDIDMethod("example"))
	require.True(t, IsDIDMethod("web3"))
	require.False(t, IsDIDMethod("Example"))
	require.False(t, IsDIDMethod(""))

	require.True(t, IsDIDOfMethod("did:peer:123", "peer"))
	require.False(t, IsDIDOfMethod("did:peer:123", "key"))
	require.False(t, IsDIDOfMethod("nonsense", "peer"))

	require.True(t, IsDIDURL("did:example:123#key-1"))
	require.False(t, IsDIDURL("#key-1"))

	require.True(t, IsReference("#key-1"))
	require.True(t, IsReference("did:example:123#key-1"))
	require.False(t, IsReference("#"))
	require.False(t, IsReference("key-1"))
}
