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
	"errors"
	"testing"

	"github.com/confidentsecurity/hpke"
	"github.com/stretchr/testify/require"
)

type failingReader struct{}

func (failingReader) Read([]byte) (int, error) {
	return 0, errors.New("no randomness today")
}

func TestRandomSuite(t *testing.T) {
	t.Run("ok, always supported", func(t *testing.T) {
		seen := map[hpke.Suite]bool{}
		for i := 0; i < 200; i++ {
			suite, err := hpke.RandomSuite(nil)
			require.NoError(t, err)
			require.True(t, suite.IsSupported())
			seen[suite] = true
		}
		// 200 draws over 45 combinations should not collapse to one.
		require.Greater(t, len(seen), 1)
	})

	t.Run("fail, broken randomness", func(t *testing.T) {
		_, err := hpke.RandomSuite(failingReader{})
		require.Error(t, err)
	})
}

func TestGrease(t *testing.T) {
	t.Run("ok, given suite shapes the decoy", func(t *testing.T) {
		suite := hpke.Suite{
			KEM:  hpke.KemX25519,
			KDF:  hpke.KdfHkdfSHA256,
			AEAD: hpke.AeadAES128GCM,
		}

		got, enc, ct, err := hpke.Grease(suite, 5, nil)
		require.NoError(t, err)
		require.Equal(t, suite, got)
		require.Len(t, enc, 32)
		require.Len(t, ct, 5+16)
	})

	t.Run("ok, unusable suite gets replaced", func(t *testing.T) {
		got, enc, ct, err := hpke.Grease(hpke.Suite{}, 10, nil)
		require.NoError(t, err)
		require.True(t, got.IsSupported())
		require.NotEmpty(t, enc)
		require.Len(t, ct, 10+16)
	})

	t.Run("ok, decoys differ per call", func(t *testing.T) {
		suite := hpke.Suite{
			KEM:  hpke.KemX25519,
			KDF:  hpke.KdfHkdfSHA256,
			AEAD: hpke.AeadAES128GCM,
		}

		_, encA, ctA, err := hpke.Grease(suite, 16, nil)
		require.NoError(t, err)
		_, encB, ctB, err := hpke.Grease(suite, 16, nil)
		require.NoError(t, err)

		require.NotEqual(t, encA, encB)
		require.NotEqual(t, ctA, ctB)
	})

	t.Run("fail, broken randomness", func(t *testing.T) {
		_, _, _, err := hpke.Grease(hpke.Suite{}, 5, failingReader{})
		require.Error(t, err)
	})
}
