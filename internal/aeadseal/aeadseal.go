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

// Package aeadseal seals and opens single messages under a derived
// key/nonce pair.
//
// Only 16-byte tags are supported; ciphertexts are body || tag. Opening
// reports one undifferentiated failure whether the ciphertext is truncated
// or the tag does not verify, so callers cannot tell which check failed.
package aeadseal

import (
	"crypto/aes"
	"crypto/cipher"
	"errors"
	"fmt"

	"golang.org/x/crypto/chacha20poly1305"
)

// TagLen is the only AEAD tag length this package supports.
const TagLen = 16

// Cipher identifies an AEAD algorithm.
type Cipher int

const (
	AES128GCM Cipher = iota + 1
	AES256GCM
	ChaCha20Poly1305
)

var (
	// ErrOpen is the single failure signal for anything wrong with a
	// ciphertext during opening.
	ErrOpen = errors.New("failed to open ciphertext")

	// ErrTagLength is returned when the cipher's tag is not TagLen bytes.
	ErrTagLength = errors.New("unsupported aead tag length")
)

// New builds the AEAD for the given cipher and key.
func New(c Cipher, key []byte) (cipher.AEAD, error) {
	switch c {
	case AES128GCM, AES256GCM:
		block, err := aes.NewCipher(key)
		if err != nil {
			return nil, fmt.Errorf("failed to init aes: %w", err)
		}
		return cipher.NewGCM(block)
	case ChaCha20Poly1305:
		return chacha20poly1305.New(key)
	default:
		return nil, fmt.Errorf("unknown aead cipher %d", c)
	}
}

// Seal encrypts the plaintext, returning body || tag.
func Seal(a cipher.AEAD, nonce, aad, plaintext []byte) ([]byte, error) {
	if a.Overhead() != TagLen {
		return nil, ErrTagLength
	}

	out := make([]byte, 0, len(plaintext)+TagLen)
	return a.Seal(out, nonce, plaintext, aad), nil
}

// Open decrypts body || tag, verifying the tag and the aad.
func Open(a cipher.AEAD, nonce, aad, ciphertext []byte) ([]byte, error) {
	if a.Overhead() != TagLen {
		return nil, ErrTagLength
	}
	if len(ciphertext) < TagLen {
		return nil, ErrOpen
	}

	out := make([]byte, 0, len(ciphertext)-TagLen)
	pt, err := a.Open(out, nonce, ciphertext, aad)
	if err != nil {
		// deliberately not wrapped: one failure shape for all causes.
		return nil, ErrOpen
	}

	return pt, nil
}
