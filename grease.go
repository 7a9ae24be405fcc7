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

package hpke

import (
	"crypto/rand"
	"encoding/binary"
	"fmt"
	"io"
)

// RandomSuite picks a uniformly random supported suite. A nil rnd falls
// back to crypto/rand.
func RandomSuite(rnd io.Reader) (Suite, error) {
	if rnd == nil {
		rnd = rand.Reader
	}

	var pick [6]byte
	if _, err := io.ReadFull(rnd, pick[:]); err != nil {
		return Suite{}, fmt.Errorf("failed to read randomness: %w", err)
	}

	return Suite{
		KEM:  kemIDs[int(binary.BigEndian.Uint16(pick[0:2]))%len(kemIDs)],
		KDF:  kdfIDs[int(binary.BigEndian.Uint16(pick[2:4]))%len(kdfIDs)],
		AEAD: aeadIDs[int(binary.BigEndian.Uint16(pick[4:6]))%len(aeadIDs)],
	}, nil
}

// Grease produces a decoy that is indistinguishable on the wire from a real
// sealed message: a suite, an encapsulation-length random value and a
// ciphertext-length random value. If suiteIn resolves it is used as given,
// otherwise a random suite is picked. clearLen sizes the pretend plaintext;
// the decoy ciphertext carries the suite's tag overhead on top of it.
func Grease(suiteIn Suite, clearLen int, rnd io.Reader) (Suite, []byte, []byte, error) {
	if rnd == nil {
		rnd = rand.Reader
	}

	suite := suiteIn
	if !suite.IsSupported() {
		var err error
		suite, err = RandomSuite(rnd)
		if err != nil {
			return Suite{}, nil, nil, err
		}
	}

	kem, _ := suite.KEM.params()
	ctLen, err := suite.Expansion(clearLen)
	if err != nil {
		return Suite{}, nil, nil, err
	}

	enc := make([]byte, kem.nEnc)
	ciphertext := make([]byte, ctLen)
	for _, buf := range [][]byte{enc, ciphertext} {
		if _, err := io.ReadFull(rnd, buf); err != nil {
			return Suite{}, nil, nil, fmt.Errorf("failed to read randomness: %w", err)
		}
	}

	return suite, enc, ciphertext, nil
}
