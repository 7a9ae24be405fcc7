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
	"crypto"
	"crypto/ecdh"
	"fmt"

	"github.com/confidentsecurity/hpke/internal/aeadseal"
	"github.com/confidentsecurity/hpke/internal/kdf"
)

// KemID is an HPKE KEM codepoint from the RFC 9180 registry.
type KemID uint16

// KdfID is an HPKE KDF codepoint from the RFC 9180 registry.
type KdfID uint16

// AeadID is an HPKE AEAD codepoint from the RFC 9180 registry.
type AeadID uint16

// The zero value of each id is the designated not-found sentinel; no
// registry entry ever uses it.
const (
	KemP256   KemID = 0x0010
	KemP384   KemID = 0x0011
	KemP521   KemID = 0x0012
	KemX25519 KemID = 0x0020
	KemX448   KemID = 0x0021

	KdfHkdfSHA256 KdfID = 0x0001
	KdfHkdfSHA384 KdfID = 0x0002
	KdfHkdfSHA512 KdfID = 0x0003

	AeadAES128GCM        AeadID = 0x0001
	AeadAES256GCM        AeadID = 0x0002
	AeadChaCha20Poly1305 AeadID = 0x0003
)

// Suite is one KEM/KDF/AEAD combination. A suite is usable only when all
// three ids resolve in the registry.
type Suite struct {
	KEM  KemID
	KDF  KdfID
	AEAD AeadID
}

type kemParams struct {
	id      KemID
	curve   ecdh.Curve // nil for X448, which circl backs
	hash    crypto.Hash
	nSecret int
	nEnc    int
	nPk     int
	nPriv   int
}

type kdfParams struct {
	id   KdfID
	hash crypto.Hash
	nH   int
}

type aeadParams struct {
	id     AeadID
	cipher aeadseal.Cipher
	tagLen int
	nK     int
	nN     int
}

// The registries are built once at init and never mutated, so concurrent
// reads need no locking.
var (
	kemTab = map[KemID]kemParams{
		KemP256:   {KemP256, ecdh.P256(), crypto.SHA256, 32, 65, 65, 32},
		KemP384:   {KemP384, ecdh.P384(), crypto.SHA384, 48, 97, 97, 48},
		KemP521:   {KemP521, ecdh.P521(), crypto.SHA512, 64, 133, 133, 66},
		KemX25519: {KemX25519, ecdh.X25519(), crypto.SHA256, 32, 32, 32, 32},
		KemX448:   {KemX448, nil, crypto.SHA512, 64, 56, 56, 56},
	}

	kdfTab = map[KdfID]kdfParams{
		KdfHkdfSHA256: {KdfHkdfSHA256, crypto.SHA256, 32},
		KdfHkdfSHA384: {KdfHkdfSHA384, crypto.SHA384, 48},
		KdfHkdfSHA512: {KdfHkdfSHA512, crypto.SHA512, 64},
	}

	aeadTab = map[AeadID]aeadParams{
		AeadAES128GCM:        {AeadAES128GCM, aeadseal.AES128GCM, 16, 16, 12},
		AeadAES256GCM:        {AeadAES256GCM, aeadseal.AES256GCM, 16, 32, 12},
		AeadChaCha20Poly1305: {AeadChaCha20Poly1305, aeadseal.ChaCha20Poly1305, 16, 32, 12},
	}

	// ordered id lists, used when picking a random suite.
	kemIDs  = []KemID{KemP256, KemP384, KemP521, KemX25519, KemX448}
	kdfIDs  = []KdfID{KdfHkdfSHA256, KdfHkdfSHA384, KdfHkdfSHA512}
	aeadIDs = []AeadID{AeadAES128GCM, AeadAES256GCM, AeadChaCha20Poly1305}
)

func (id KemID) params() (kemParams, bool) {
	p, ok := kemTab[id]
	return p, ok
}

func (id KdfID) params() (kdfParams, bool) {
	p, ok := kdfTab[id]
	return p, ok
}

func (id AeadID) params() (aeadParams, bool) {
	p, ok := aeadTab[id]
	return p, ok
}

// IsSupported reports whether every component of the suite resolves in the
// registry.
func (s Suite) IsSupported() bool {
	return s.check() == nil
}

// check fails fast, before any key material is touched, when any component
// of the suite is unknown.
func (s Suite) check() error {
	_, kemOK := s.KEM.params()
	_, kdfOK := s.KDF.params()
	_, aeadOK := s.AEAD.params()
	if !kemOK || !kdfOK || !aeadOK {
		return fmt.Errorf("%w: kem %#04x, kdf %#04x, aead %#04x",
			ErrUnsupportedSuite, uint16(s.KEM), uint16(s.KDF), uint16(s.AEAD))
	}

	return nil
}

// params resolves all three components, or fails with ErrUnsupportedSuite.
func (s Suite) params() (kemParams, kdfParams, aeadParams, error) {
	if err := s.check(); err != nil {
		return kemParams{}, kdfParams{}, aeadParams{}, err
	}
	kem, _ := s.KEM.params()
	kdfp, _ := s.KDF.params()
	aead, _ := s.AEAD.params()

	return kem, kdfp, aead, nil
}

// labeledKDF builds the labeled HKDF runner for this suite.
func (s Suite) labeledKDF(kem kemParams, kdfp kdfParams) kdf.KDF {
	return kdf.KDF{
		Suite: kdf.SuiteID{
			KemID:  uint16(s.KEM),
			KdfID:  uint16(s.KDF),
			AeadID: uint16(s.AEAD),
		},
		KemHash: kem.hash,
		Hash:    kdfp.hash,
	}
}

// Overhead returns the AEAD tag length a sealed message grows by.
func (s Suite) Overhead() (int, error) {
	if err := s.check(); err != nil {
		return 0, err
	}
	aead, _ := s.AEAD.params()

	return aead.tagLen, nil
}

// Expansion returns the ciphertext length for a plaintext of clearLen bytes.
func (s Suite) Expansion(clearLen int) (int, error) {
	overhead, err := s.Overhead()
	if err != nil {
		return 0, err
	}

	return clearLen + overhead, nil
}
