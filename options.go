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
	"errors"
	"fmt"
	"io"
)

type keySource int

const (
	sourceEphemeral keySource = iota
	sourceHandle
	sourceRaw
)

// PrivateKey selects how private key material reaches a call: generated
// fresh, supplied as an opaque handle, or supplied as an encoded byte form.
// Exactly one variant applies per value.
type PrivateKey struct {
	source keySource
	handle *KeyHandle
	raw    []byte
}

// EphemeralKey sources a key pair generated freshly inside the call. Only
// valid for the sender key of a Seal.
func EphemeralKey() PrivateKey {
	return PrivateKey{source: sourceEphemeral}
}

// PrivateKeyOf sources key material from an existing handle.
func PrivateKeyOf(h *KeyHandle) PrivateKey {
	return PrivateKey{source: sourceHandle, handle: h}
}

// PrivateKeyBytes sources key material from an encoded private key, raw or
// text-wrapped, via the same import path as [ImportPrivateKey].
func PrivateKeyBytes(raw []byte) PrivateKey {
	return PrivateKey{source: sourceRaw, raw: raw}
}

// resolve produces the handle for the variant. rnd is only consulted for the
// ephemeral variant; passing a nil rnd there forbids it.
func (p PrivateKey) resolve(kemID KemID, rnd io.Reader) (*KeyHandle, error) {
	switch p.source {
	case sourceEphemeral:
		if rnd == nil {
			return nil, fmt.Errorf("%w: key cannot be ephemeral here", ErrInvalidKeySource)
		}
		return generateKemKey(kemID, rnd)
	case sourceHandle:
		if p.handle == nil {
			return nil, fmt.Errorf("%w: nil key handle", ErrInvalidKeySource)
		}
		if p.handle.kem != kemID {
			return nil, fmt.Errorf("%w: handle kem %#04x does not match suite kem %#04x",
				ErrInvalidKeySource, uint16(p.handle.kem), uint16(kemID))
		}
		if !p.handle.key.hasPrivate() {
			return nil, fmt.Errorf("%w: handle holds no private key", ErrInvalidKeySource)
		}
		return p.handle, nil
	case sourceRaw:
		if len(p.raw) == 0 {
			return nil, fmt.Errorf("%w: empty raw private key", ErrInvalidKeySource)
		}
		h, err := ImportPrivateKey(kemID, p.raw)
		if err != nil {
			return nil, fmt.Errorf("failed to import raw private key: %w", err)
		}
		return h, nil
	default:
		return nil, fmt.Errorf("%w: unknown source %d", ErrInvalidKeySource, p.source)
	}
}

type config struct {
	mode  Mode
	psk   []byte
	pskID string
	info  []byte
	aad   []byte
	seq   []byte

	senderKey    PrivateKey
	senderKeySet bool
	authKey      PrivateKey
	authKeySet   bool
	authPub      []byte

	rand io.Reader
}

func defaultConfig() *config {
	return &config{
		mode:      ModeBase,
		senderKey: EphemeralKey(),
		rand:      rand.Reader,
	}
}

// Option configures a single Seal or Open call.
type Option func(*config) error

// WithMode selects the HPKE mode. The default is [ModeBase].
func WithMode(m Mode) Option {
	return func(c *config) error {
		c.mode = m
		return nil
	}
}

// WithPSK binds a pre-shared key and its identifier. Mandatory for
// [ModePSK] and [ModePSKAuth], ignored otherwise.
func WithPSK(psk []byte, pskID string) Option {
	return func(c *config) error {
		c.psk = psk
		c.pskID = pskID
		return nil
	}
}

// WithInfo supplies the application info string bound into the key schedule.
// Both sides must agree on it.
func WithInfo(info []byte) Option {
	return func(c *config) error {
		c.info = info
		return nil
	}
}

// WithAAD supplies associated data that is authenticated but not encrypted.
func WithAAD(aad []byte) Option {
	return func(c *config) error {
		c.aad = aad
		return nil
	}
}

// WithSequence folds a sequence value into the derived nonce, letting
// repeated single-shot calls that share key inputs avoid nonce reuse. The
// opener must supply the matching value. At most nonce-length bytes.
func WithSequence(seq []byte) Option {
	return func(c *config) error {
		c.seq = seq
		return nil
	}
}

// WithSenderKey selects how the sender's KEM key is sourced. The default is
// [EphemeralKey]. Selecting a source twice is an error.
func WithSenderKey(k PrivateKey) Option {
	return func(c *config) error {
		if c.senderKeySet {
			return fmt.Errorf("%w: sender key source already chosen", ErrInvalidKeySource)
		}
		c.senderKey = k
		c.senderKeySet = true
		return nil
	}
}

// WithAuthKey supplies the sender's authentication key for sealing in
// [ModeAuth] and [ModePSKAuth].
func WithAuthKey(k PrivateKey) Option {
	return func(c *config) error {
		if c.authKeySet {
			return fmt.Errorf("%w: auth key source already chosen", ErrInvalidKeySource)
		}
		c.authKey = k
		c.authKeySet = true
		return nil
	}
}

// WithAuthPublicKey supplies the sender's authentication public key for
// opening in [ModeAuth] and [ModePSKAuth].
func WithAuthPublicKey(pub []byte) Option {
	return func(c *config) error {
		c.authPub = pub
		return nil
	}
}

// WithRandom provides a custom randomness source for ephemeral key
// generation. A nil reader keeps the default crypto/rand source.
func WithRandom(rnd io.Reader) Option {
	return func(c *config) error {
		if rnd != nil {
			c.rand = rnd
		}
		return nil
	}
}

// checkMode validates, before any key material is touched, that the mode is
// known and that everything it makes mandatory was supplied. sealing decides
// which side of the auth material is required.
func (c *config) checkMode(sealing bool) error {
	if err := c.mode.check(); err != nil {
		return err
	}

	if c.mode.usesPSK() && (len(c.psk) == 0 || c.pskID == "") {
		return fmt.Errorf("%w: mode %v requires a psk and psk id", ErrMissingParameter, c.mode)
	}

	if c.mode.authenticated() {
		if sealing && !c.authKeySet {
			return fmt.Errorf("%w: mode %v requires an auth key", ErrMissingParameter, c.mode)
		}
		if !sealing && len(c.authPub) == 0 {
			return fmt.Errorf("%w: mode %v requires the sender auth public key", ErrMissingParameter, c.mode)
		}
	}

	return nil
}

// pskInputs returns the PSK material the key schedule sees: the supplied
// values in the PSK modes, empty otherwise.
func (c *config) pskInputs() ([]byte, string) {
	if !c.mode.usesPSK() {
		return nil, ""
	}
	return c.psk, c.pskID
}

var errNilOption = errors.New("nil option")

func applyOptions(opts []Option) (*config, error) {
	cfg := defaultConfig()
	for _, opt := range opts {
		if opt == nil {
			return nil, errNilOption
		}
		if err := opt(cfg); err != nil {
			return nil, err
		}
	}

	return cfg, nil
}
