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
	"errors"

	"github.com/confidentsecurity/hpke/internal/aeadseal"
	"github.com/confidentsecurity/hpke/internal/keyschedule"
)

var (
	// ErrInvalidMode is returned for a mode outside the four defined ones.
	ErrInvalidMode = errors.New("invalid hpke mode")

	// ErrUnsupportedSuite is returned when any suite component does not
	// resolve in the registry.
	ErrUnsupportedSuite = errors.New("unsupported hpke suite")

	// ErrMissingParameter is returned when a mode-mandatory input (PSK,
	// PSK id, authentication key) is absent.
	ErrMissingParameter = errors.New("missing mode-mandatory parameter")

	// ErrInvalidKeySource is returned when private key material is
	// sourced in a way the operation cannot accept.
	ErrInvalidKeySource = errors.New("invalid private key source")

	// ErrOpen is the single failure signal for a ciphertext that cannot
	// be opened, whatever the cause.
	ErrOpen = aeadseal.ErrOpen

	// ErrSequenceTooLong is returned when a sequence value is longer than
	// the AEAD nonce.
	ErrSequenceTooLong = keyschedule.ErrSequenceTooLong
)
