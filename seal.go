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
	"fmt"

	"github.com/confidentsecurity/hpke/internal/aeadseal"
	"github.com/confidentsecurity/hpke/internal/dhkem"
	"github.com/confidentsecurity/hpke/internal/keyschedule"
	"github.com/confidentsecurity/hpke/internal/secret"
)

// Seal encrypts plaintext for the recipient's encoded public key under the
// suite, returning the KEM encapsulation and the ciphertext. The sender key
// is a fresh ephemeral pair unless [WithSenderKey] chose otherwise; the auth
// modes additionally need [WithAuthKey].
//
// All derived key material lives only for the duration of the call.
func Seal(suite Suite, recipientPub, plaintext []byte, opts ...Option) (enc, ciphertext []byte, err error) {
	cfg, err := applyOptions(opts)
	if err != nil {
		return nil, nil, err
	}
	if err := cfg.checkMode(true); err != nil {
		return nil, nil, err
	}

	kem, kdfp, aead, err := suite.params()
	if err != nil {
		return nil, nil, err
	}

	pkR, err := ImportPublicKey(suite.KEM, recipientPub)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to import recipient public key: %w", err)
	}

	skE, err := cfg.senderKey.resolve(suite.KEM, cfg.rand)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to resolve sender key: %w", err)
	}
	enc = skE.Public()

	exchange := dhkem.Exchange{
		KDF:           suite.labeledKDF(kem, kdfp),
		NSecret:       kem.nSecret,
		Encapsulating: true,
		Own:           kemKey{skE},
		OwnEnc:        enc,
		PeerEnc:       pkR.Public(),
	}
	if cfg.mode.authenticated() {
		skS, err := cfg.authKey.resolve(suite.KEM, nil)
		if err != nil {
			return nil, nil, fmt.Errorf("failed to resolve auth key: %w", err)
		}
		exchange.AuthKey = kemKey{skS}
		exchange.AuthPub = skS.Public()
	}

	ciphertext, err = runSchedule(suite, exchange, cfg, kem, kdfp, aead, plaintext, true)
	if err != nil {
		return nil, nil, err
	}

	return enc, ciphertext, nil
}

// runSchedule takes an exchange through shared secret, key schedule and the
// AEAD call, wiping every intermediate on the way out.
func runSchedule(suite Suite, exchange dhkem.Exchange, cfg *config,
	kem kemParams, kdfp kdfParams, aead aeadParams, body []byte, sealing bool) ([]byte, error) {
	sharedSecret, err := exchange.SharedSecret()
	if err != nil {
		return nil, fmt.Errorf("failed to derive shared secret: %w", err)
	}
	defer secret.Wipe(sharedSecret)

	psk, pskID := cfg.pskInputs()
	keys, err := keyschedule.Derive(keyschedule.Params{
		KDF: suite.labeledKDF(kem, kdfp),
		Nk:  aead.nK,
		Nn:  aead.nN,
		Nh:  kdfp.nH,
	}, byte(cfg.mode), sharedSecret, psk, pskID, cfg.info, cfg.seq)
	if err != nil {
		return nil, fmt.Errorf("failed to derive session keys: %w", err)
	}
	defer keys.Wipe()

	a, err := aeadseal.New(aead.cipher, keys.Key)
	if err != nil {
		return nil, fmt.Errorf("failed to init aead: %w", err)
	}

	if sealing {
		return aeadseal.Seal(a, keys.Nonce, cfg.aad, body)
	}

	return aeadseal.Open(a, keys.Nonce, cfg.aad, body)
}
