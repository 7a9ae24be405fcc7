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

	"github.com/confidentsecurity/hpke/internal/dhkem"
)

// Open decrypts a sealed message with the recipient's private key and the
// sender's KEM encapsulation. Options must mirror the sealing side: same
// mode, info, aad, sequence and PSK, plus [WithAuthPublicKey] in the auth
// modes. Any mismatch, truncation or tampering surfaces as [ErrOpen].
func Open(suite Suite, recipientKey PrivateKey, enc, ciphertext []byte, opts ...Option) ([]byte, error) {
	cfg, err := applyOptions(opts)
	if err != nil {
		return nil, err
	}
	if err := cfg.checkMode(false); err != nil {
		return nil, err
	}

	kem, kdfp, aead, err := suite.params()
	if err != nil {
		return nil, err
	}

	// nil rnd: an ephemeral recipient key could never open anything.
	skR, err := recipientKey.resolve(suite.KEM, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve recipient key: %w", err)
	}

	exchange := dhkem.Exchange{
		KDF:     suite.labeledKDF(kem, kdfp),
		NSecret: kem.nSecret,
		Own:     kemKey{skR},
		OwnEnc:  skR.Public(),
		PeerEnc: enc,
		AuthPub: cfg.authPub,
	}

	return runSchedule(suite, exchange, cfg, kem, kdfp, aead, ciphertext, false)
}
