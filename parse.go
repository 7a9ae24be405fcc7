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
	"strconv"
	"strings"
)

var (
	kemNames = map[string]KemID{
		"p256":   KemP256,
		"p384":   KemP384,
		"p521":   KemP521,
		"x25519": KemX25519,
		"x448":   KemX448,
	}

	kdfNames = map[string]KdfID{
		"hkdf-sha256": KdfHkdfSHA256,
		"hkdf-sha384": KdfHkdfSHA384,
		"hkdf-sha512": KdfHkdfSHA512,
	}

	aeadNames = map[string]AeadID{
		"aes-128-gcm":       AeadAES128GCM,
		"aes-256-gcm":       AeadAES256GCM,
		"chacha20-poly1305": AeadChaCha20Poly1305,
	}
)

// ParseSuite parses a suite from its three comma-separated components, e.g.
// "x25519,hkdf-sha256,aes-128-gcm". Each component is a case-insensitive
// name, a decimal codepoint, or a 0x-prefixed hex codepoint, and must
// resolve in the registry.
func ParseSuite(s string) (Suite, error) {
	parts := strings.Split(s, ",")
	if len(parts) != 3 {
		return Suite{}, fmt.Errorf("expected 3 suite components, got %d", len(parts))
	}

	kem, err := parseComponent(parts[0], "kem", func(name string) (uint16, bool) {
		id, ok := kemNames[name]
		return uint16(id), ok
	})
	if err != nil {
		return Suite{}, err
	}
	kdfID, err := parseComponent(parts[1], "kdf", func(name string) (uint16, bool) {
		id, ok := kdfNames[name]
		return uint16(id), ok
	})
	if err != nil {
		return Suite{}, err
	}
	aead, err := parseComponent(parts[2], "aead", func(name string) (uint16, bool) {
		id, ok := aeadNames[name]
		return uint16(id), ok
	})
	if err != nil {
		return Suite{}, err
	}

	suite := Suite{KEM: KemID(kem), KDF: KdfID(kdfID), AEAD: AeadID(aead)}
	if err := suite.check(); err != nil {
		return Suite{}, err
	}

	return suite, nil
}

func parseComponent(part, kind string, byName func(string) (uint16, bool)) (uint16, error) {
	name := strings.ToLower(strings.TrimSpace(part))
	if name == "" {
		return 0, fmt.Errorf("empty %s component", kind)
	}

	if id, ok := byName(name); ok {
		return id, nil
	}

	base := 10
	if rest, ok := strings.CutPrefix(name, "0x"); ok {
		name = rest
		base = 16
	}
	id, err := strconv.ParseUint(name, base, 16)
	if err != nil {
		return 0, fmt.Errorf("unknown %s component %q", kind, strings.TrimSpace(part))
	}

	return uint16(id), nil
}
