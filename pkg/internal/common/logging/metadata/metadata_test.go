/*
Copyright SecureKey Technologies Inc. All Rights Reserved.

SPDX-License-Identifier: Apache-2.0
*/

package metadata

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestLevels(t *testing.T) {
	module := "test-module"

	require.Equal(t, INFO, GetLevel(module))
	require.True(t, IsEnabledFor(module, ERROR))
	require.True(t, IsEnabledFor(module, INFO))
	require.False(t, IsEnabledFor(module, DEBUG))

	SetLevel(module, DEBUG)
	require.Equal(t, DEBUG, GetLevel(module))
	require.True(t, IsEnabledFor(module, DEBUG))
}

func TestParseLevel(t *testing.T) {
	for _, name := range []string{"CRITICAL", "ERROR", "WARNING", "INFO", "DEBUG"} {
		level, err := ParseLevel(name)
		require.NoError(t, err)
		require.Equal(t, name, ParseString(level))
	}

	level, err := ParseLevel("warning")
	require.NoError(t, err)
	require.Equal(t, WARNING, level)

	_, err = ParseLevel("whatever")
	require.Error(t, err)
}
