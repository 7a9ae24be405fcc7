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

package keyschedule

import (
	"crypto"
	"encoding/hex"
	"testing"

	"github.com/confidentsecurity/hpke/internal/kdf"
	"github.com/stretchr/testify/require"
)

func testParams() Params {
	return Params{
		KDF: kdf.KDF{
			Suite:   kdf.SuiteID{KemID: 0x0020, KdfID: 0x0001, AeadID: 0x0001},
			KemHash: crypto.SHA256,
			Hash:    crypto.SHA256,
		},
		Nk: 16,
		Nn: 12,
		Nh: 32,
	}
}

func hexDecode(t *testing.T, s string) []byte {
	t.Helper()
	b, err := hex.DecodeString(s)
	require.NoError(t, err)
	return b
}

func TestDerive(t *testing.T) {
	t.Run("ok, rfc 9180 a.1.1 base mode", func(t *testing.T) {
		sharedSecret := hexDecode(t, `fe0e18c9f024ce43799ae393c7e8fe8fce9d218875e8227b0187c04e7d2ea1fc`)
		info := hexDecode(t, `4f6465206f6e2061204772656369616e2055726e`)

		keys, err := Derive(testParams(), 0x00, sharedSecret, nil, "", info, nil)
		require.NoError(t, err)
		defer keys.Wipe()

		require.Equal(t, hexDecode(t, `4531685d41d65f03dc48f6b8302c05b0`), keys.Key)
		require.Equal(t, hexDecode(t, `56d890e5accaaf011cff4b7d`), keys.Nonce)
		require.Equal(t,
			hexDecode(t, `45ff1c2e220db587171952c0592d5f5ebe103f1561a2614e38f2ffd47e99e3f8`),
			keys.Exporter)
	})

	t.Run("ok, every input separates the schedule", func(t *testing.T) {
		sharedSecret := hexDecode(t, `fe0e18c9f024ce43799ae393c7e8fe8fce9d218875e8227b0187c04e7d2ea1fc`)

		base, err := Derive(testParams(), 0x00, sharedSecret, nil, "", []byte("info"), nil)
		require.NoError(t, err)

		for name, derive := range map[string]func() (*SessionKeys, error){
			"mode": func() (*SessionKeys, error) {
				return Derive(testParams(), 0x01, sharedSecret, []byte("psk"), "id", []byte("info"), nil)
			},
			"psk": func() (*SessionKeys, error) {
				return Derive(testParams(), 0x00, sharedSecret, []byte("psk"), "", []byte("info"), nil)
			},
			"psk id": func() (*SessionKeys, error) {
				return Derive(testParams(), 0x00, sharedSecret, nil, "id", []byte("info"), nil)
			},
			"info": func() (*SessionKeys, error) {
				return Derive(testParams(), 0x00, sharedSecret, nil, "", []byte("other"), nil)
			},
		} {
			got, err := derive()
			require.NoError(t, err, name)
			require.NotEqual(t, base.Key, got.Key, name)
		}
	})

	t.Run("ok, sequence shifts only the nonce", func(t *testing.T) {
		sharedSecret := hexDecode(t, `fe0e18c9f024ce43799ae393c7e8fe8fce9d218875e8227b0187c04e7d2ea1fc`)

		plain, err := Derive(testParams(), 0x00, sharedSecret, nil, "", nil, nil)
		require.NoError(t, err)
		seqd, err := Derive(testParams(), 0x00, sharedSecret, nil, "", nil, []byte{0x01})
		require.NoError(t, err)

		require.Equal(t, plain.Key, seqd.Key)
		require.Equal(t, plain.Exporter, seqd.Exporter)
		require.NotEqual(t, plain.Nonce, seqd.Nonce)

		// only the last byte moves for a one-byte sequence.
		require.Equal(t, plain.Nonce[:11], seqd.Nonce[:11])
		require.Equal(t, plain.Nonce[11]^0x01, seqd.Nonce[11])
	})

	t.Run("fail, sequence longer than nonce", func(t *testing.T) {
		sharedSecret := hexDecode(t, `fe0e18c9f024ce43799ae393c7e8fe8fce9d218875e8227b0187c04e7d2ea1fc`)

		_, err := Derive(testParams(), 0x00, sharedSecret, nil, "", nil, make([]byte, 13))
		require.ErrorIs(t, err, ErrSequenceTooLong)
	})
}

func TestXORSequence(t *testing.T) {
	t.Run("ok, right aligned", func(t *testing.T) {
		nonce := make([]byte, 12)
		require.NoError(t, xorSequence(nonce, []byte{0xAA, 0xBB}))

		want := make([]byte, 12)
		want[10] = 0xAA
		want[11] = 0xBB
		require.Equal(t, want, nonce)
	})

	t.Run("ok, full length sequence", func(t *testing.T) {
		nonce := make([]byte, 4)
		require.NoError(t, xorSequence(nonce, []byte{1, 2, 3, 4}))
		require.Equal(t, []byte{1, 2, 3, 4}, nonce)
	})

	t.Run("fail, too long", func(t *testing.T) {
		nonce := make([]byte, 4)
		require.ErrorIs(t, xorSequence(nonce, make([]byte, 5)), ErrSequenceTooLong)
	})
}
