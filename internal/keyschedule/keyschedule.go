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

// Package keyschedule derives the per-message AEAD key, nonce and exporter
// secret from a KEM shared secret, as in section 5.1 of RFC 9180.
package keyschedule

import (
	"errors"
	"fmt"

	"github.com/confidentsecurity/hpke/internal/kdf"
	"github.com/confidentsecurity/hpke/internal/secret"
)

// maxExtract is the largest Extract output of any supported KDF (SHA-512).
const maxExtract = 64

// ErrSequenceTooLong is returned when a sequence value is longer than the
// AEAD nonce it would be folded into.
var ErrSequenceTooLong = errors.New("sequence value longer than nonce")

// Params sizes one derivation run.
type Params struct {
	KDF kdf.KDF
	Nk  int // AEAD key length
	Nn  int // AEAD nonce length
	Nh  int // KDF extract length
}

// SessionKeys is the transient output of one key schedule run. All three
// buffers must be wiped by the caller once the AEAD call is done.
type SessionKeys struct {
	Key      []byte
	Nonce    []byte
	Exporter []byte
}

// Wipe zeroes all derived material.
func (s *SessionKeys) Wipe() {
	secret.Wipe(s.Key, s.Nonce, s.Exporter)
}

// Derive builds the key schedule context and derives the session keys.
//
// psk and pskID are empty outside the PSK modes. seq, when non-empty, is
// folded into the base nonce right-aligned so that repeated single-shot
// calls under one schedule can vary their nonces.
func Derive(p Params, mode byte, sharedSecret, psk []byte, pskID string, info, seq []byte) (*SessionKeys, error) {
	// context = mode || Extract("psk_id_hash", pskID) || Extract("info_hash", info)
	var ksContext [1 + 2*maxExtract]byte
	defer secret.Wipe(ksContext[:])

	ksContext[0] = mode
	ctxLen := 1
	for _, in := range []struct {
		label   string
		payload []byte
	}{
		{"psk_id_hash", []byte(pskID)},
		{"info_hash", info},
	} {
		h, err := p.KDF.Extract(kdf.LabelingFull, nil, in.label, in.payload)
		if err != nil {
			return nil, fmt.Errorf("failed to extract %s: %w", in.label, err)
		}
		ctxLen += copy(ksContext[ctxLen:], h)
		secret.Wipe(h)
	}

	// psk_hash is derived here but feeds nothing downstream; the draft
	// schedule this tracks computes it, so keep the extract in place.
	pskHash, err := p.KDF.Extract(kdf.LabelingFull, nil, "psk_hash", psk)
	if err != nil {
		return nil, fmt.Errorf("failed to extract psk_hash: %w", err)
	}
	secret.Wipe(pskHash)

	sched, err := p.KDF.Extract(kdf.LabelingFull, sharedSecret, "secret", psk)
	if err != nil {
		return nil, fmt.Errorf("failed to extract secret: %w", err)
	}
	defer secret.Wipe(sched)

	keys := &SessionKeys{}
	for _, out := range []struct {
		label string
		n     int
		dst   *[]byte
	}{
		{"key", p.Nk, &keys.Key},
		{"base_nonce", p.Nn, &keys.Nonce},
		{"exp", p.Nh, &keys.Exporter},
	} {
		b, err := p.KDF.Expand(kdf.LabelingFull, sched, out.label, ksContext[:ctxLen], out.n)
		if err != nil {
			keys.Wipe()
			return nil, fmt.Errorf("failed to expand %s: %w", out.label, err)
		}
		*out.dst = b
	}

	if len(seq) > 0 {
		if err := xorSequence(keys.Nonce, seq); err != nil {
			keys.Wipe()
			return nil, err
		}
	}

	return keys, nil
}

// xorSequence folds seq into the base nonce right-aligned: byte i from the
// right of the nonce takes seq[len(seq)-1-(i%len(seq))] while i < len(seq)
// and is left untouched beyond that.
func xorSequence(nonce, seq []byte) error {
	if len(seq) > len(nonce) {
		return ErrSequenceTooLong
	}
	for i := 0; i != len(nonce); i++ {
		var cv byte
		if i < len(seq) {
			cv = seq[len(seq)-1-(i%len(seq))]
		}
		nonce[len(nonce)-1-i] ^= cv
	}
	return nil
}
