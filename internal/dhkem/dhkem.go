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

// Package dhkem turns one or two Diffie-Hellman operations into a
// fixed-length KEM shared secret via labeled HKDF.
package dhkem

import (
	"errors"
	"fmt"

	"github.com/confidentsecurity/hpke/internal/kdf"
	"github.com/confidentsecurity/hpke/internal/secret"
)

// maxContext is the fixed capacity of the ikm and kem_context scratch
// buffers. Real encodings stay well below it; exceeding it is an error.
const maxContext = 512

// ErrContextOverflow is returned when the DH outputs or the key encodings
// would exceed the fixed scratch capacity.
var ErrContextOverflow = errors.New("kem inputs exceed scratch capacity")

// PrivateKey is the capability the KEM needs from a key handle: derive a raw
// Diffie-Hellman secret against an encoded peer public key, and encode its
// own public half. Redefined here to prevent circular imports.
type PrivateKey interface {
	DH(peerPublic []byte) ([]byte, error)
	PublicBytes() []byte
}

// Exchange is one KEM run.
//
// Own is the key whose private half this side holds: the ephemeral (or
// supplied) sender key when encapsulating, the recipient key otherwise.
// OwnEnc and PeerEnc are the encoded public halves of Own and of the peer's
// key; both byte forms go verbatim into the KEM context.
//
// AuthKey is nil outside the auth modes. The encapsulating side holds the
// auth private key and AuthPub is derived from it; the decapsulating side
// only holds AuthPub and reuses Own for the second DH.
type Exchange struct {
	KDF     kdf.KDF
	NSecret int

	Encapsulating bool
	Own           PrivateKey
	OwnEnc        []byte
	PeerEnc       []byte
	AuthKey       PrivateKey
	AuthPub       []byte
}

// SharedSecret runs the exchange and returns the NSecret-byte shared secret.
// The caller owns the result and must wipe it.
func (x Exchange) SharedSecret() ([]byte, error) {
	var (
		ikm        [2 * maxContext]byte
		kemContext [maxContext]byte
	)
	defer secret.Wipe(ikm[:], kemContext[:])

	dh1, err := x.Own.DH(x.PeerEnc)
	if err != nil {
		return nil, fmt.Errorf("failed to derive dh secret: %w", err)
	}
	if len(dh1) > len(ikm) {
		secret.Wipe(dh1)
		return nil, ErrContextOverflow
	}
	ikmLen := copy(ikm[:], dh1)
	secret.Wipe(dh1)

	// kem_context is always encapsulator public key first, recipient
	// public key second, whichever side is computing.
	if len(x.OwnEnc)+len(x.PeerEnc)+len(x.AuthPub) > len(kemContext) {
		return nil, ErrContextOverflow
	}
	var ctxLen int
	if x.Encapsulating {
		ctxLen = copy(kemContext[:], x.OwnEnc)
		ctxLen += copy(kemContext[ctxLen:], x.PeerEnc)
	} else {
		ctxLen = copy(kemContext[:], x.PeerEnc)
		ctxLen += copy(kemContext[ctxLen:], x.OwnEnc)
	}
	ctxLen += copy(kemContext[ctxLen:], x.AuthPub)

	if x.AuthKey != nil || (!x.Encapsulating && len(x.AuthPub) > 0) {
		// Second DH for the auth modes. The encapsulator pairs its auth
		// private key with the recipient public key; the decapsulator
		// pairs its own private key with the auth public key. Both
		// compute the same secret.
		var dh2 []byte
		if x.Encapsulating {
			dh2, err = x.AuthKey.DH(x.PeerEnc)
		} else {
			dh2, err = x.Own.DH(x.AuthPub)
		}
		if err != nil {
			return nil, fmt.Errorf("failed to derive auth dh secret: %w", err)
		}
		if ikmLen+len(dh2) > len(ikm) {
			secret.Wipe(dh2)
			return nil, ErrContextOverflow
		}
		ikmLen += copy(ikm[ikmLen:], dh2)
		secret.Wipe(dh2)
	}

	return x.KDF.ExtractAndExpand(ikm[:ikmLen], kemContext[:ctxLen], x.NSecret)
}
