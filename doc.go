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

// Package hpke implements single-shot hybrid public key encryption per
// RFC 9180: a DH-based KEM, a labeled HKDF key schedule and an AEAD, in the
// base, PSK, auth and PSK-auth modes.
//
// Seal encrypts to a recipient's public key and returns the KEM
// encapsulation alongside the ciphertext; Open reverses it with the
// recipient's private key. Every call is self-contained: no session state
// survives it, and all derived key material is zeroed before it returns.
// Callers that seal repeatedly under fixed keys vary the nonce with
// [WithSequence].
//
// Values of every exported type are safe for concurrent use; the package
// holds no mutable shared state.
package hpke
