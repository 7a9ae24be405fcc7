// Copyright 2025 Nonvolatile Inc. d/b/a Confident Security

// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at

//     https://www.apache.org/licenses/LICENSE-2.0

// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package hpke_test

import (
	"testing"

	"github.com/confidentsecurity/hpke"
	"github.com/stretchr/testify/require"
)

func TestSuite(t *testing.T) {
	t.Run("ok, every registry combination is supported", func(t *testing.T) {
		require.Len(t, allSuites, 5*3*3)
		for _, suite := range allSuites {
			require.True(t, suite.IsSupported(), "%+v", suite)
		}
	})

	t.Run("ok, overhead is the tag length", func(t *testing.T) {
		for _, suite := range allSuites {
			overhead, err := suite.Overhead()
			require.NoError(t, err)
			require.Equal(t, 16, overhead)

			n, err := suite.Expansion(100)
			require.NoError(t, err)
			require.Equal(t, 116, n)
		}
	})

	t.Run("fail, zero value", func(t *testing.T) {
		var suite hpke.Suite
		require.False(t, suite.IsSupported())

		_, err := suite.Overhead()
		require.ErrorIs(t, err, hpke.ErrUnsupportedSuite)
		_, err = suite.Expansion(100)
		require.ErrorIs(t, err, hpke.ErrUnsupportedSuite)
	})

	t.Run("fail, one unknown component poisons the suite", func(t *testing.T) {
		for _, suite := range []hpke.Suite{
			{KEM: 0x1234, KDF: hpke.KdfHkdfSHA256, AEAD: hpke.AeadAES128GCM},
			{KEM: hpke.KemX25519, KDF: 0x1234, AEAD: hpke.AeadAES128GCM},
			{KEM: hpke.KemX25519, KDF: hpke.KdfHkdfSHA256, AEAD: 0x1234},
		} {
			require.False(t, suite.IsSupported(), "%+v", suite)
		}
	})
}

func TestMode(t *testing.T) {
	t.Run("ok, string forms", func(t *testing.T) {
		require.Equal(t, "base", hpke.ModeBase.String())
		require.Equal(t, "psk", hpke.ModePSK.String())
		require.Equal(t, "auth", hpke.ModeAuth.String())
		require.Equal(t, "psk-auth", hpke.ModePSKAuth.String())
		require.Equal(t, "mode(0x42)", hpke.Mode(0x42).String())
	})
}
