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

import "fmt"

// Mode is an HPKE mode. It decides which optional inputs are mandatory:
// the PSK modes require a pre-shared key and its identifier, the auth modes
// require a sender authentication key.
type Mode uint8

const (
	ModeBase    Mode = 0x00
	ModePSK     Mode = 0x01
	ModeAuth    Mode = 0x02
	ModePSKAuth Mode = 0x03
)

func (m Mode) check() error {
	switch m {
	case ModeBase, ModePSK, ModeAuth, ModePSKAuth:
		return nil
	default:
		return fmt.Errorf("%w: %#02x", ErrInvalidMode, uint8(m))
	}
}

// usesPSK reports whether the mode binds a pre-shared key.
func (m Mode) usesPSK() bool {
	return m == ModePSK || m == ModePSKAuth
}

// authenticated reports whether the mode authenticates the sender.
func (m Mode) authenticated() bool {
	return m == ModeAuth || m == ModePSKAuth
}

func (m Mode) String() string {
	switch m {
	case ModeBase:
		return "base"
	case ModePSK:
		return "psk"
	case ModeAuth:
		return "auth"
	case ModePSKAuth:
		return "psk-auth"
	default:
		return fmt.Sprintf("mode(%#02x)", uint8(m))
	}
}
