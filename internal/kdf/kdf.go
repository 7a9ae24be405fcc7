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

// Package kdf implements the labeled HKDF construction of RFC 9180.
//
// Extract and Expand are plain RFC 5869 HKDF underneath; the labeling mode
// decides what gets prepended to the caller's label and payload before the
// HKDF runs. All concatenation happens in a stack scratch buffer of fixed
// capacity that is wiped before returning.
package kdf

import (
	"crypto"
	_ "crypto/sha256"
	_ "crypto/sha512"
	"errors"
	"fmt"
	"io"

	"golang.org/x/crypto/hkdf"

	"github.com/confidentsecurity/hpke/internal/secret"
)

// Labeling selects how Extract and Expand prefix their inputs.
type Labeling int

const (
	// LabelingPure does no prefixing, classic RFC 5869.
	LabelingPure Labeling = iota
	// LabelingKem prefixes with the version string, "KEM" and the 2-byte
	// KEM id, as in section 4.1 of RFC 9180.
	LabelingKem
	// LabelingFull prefixes with the version string, "HPKE" and the 2-byte
	// KEM, KDF and AEAD ids, as in section 5.1 of RFC 9180.
	LabelingFull
)

const (
	versionLabel   = "HPKE-v1"
	kemSuiteLabel  = "KEM"
	fullSuiteLabel = "HPKE"
)

// maxLabeled is the fixed capacity of the concatenation scratch buffer.
// Inputs that would exceed it are rejected, never truncated.
const maxLabeled = 2048

// ErrScratchOverflow is returned when a labeled concatenation would exceed
// the fixed scratch capacity.
var ErrScratchOverflow = errors.New("labeled input exceeds scratch capacity")

// SuiteID carries the three numeric suite identifiers that feed the labels.
type SuiteID struct {
	KemID  uint16
	KdfID  uint16
	AeadID uint16
}

// KDF runs labeled HKDF for one suite.
//
// KemHash is used with LabelingKem, Hash with the other labelings.
type KDF struct {
	Suite   SuiteID
	KemHash crypto.Hash
	Hash    crypto.Hash
}

func (k KDF) hash(mode Labeling) crypto.Hash {
	if mode == LabelingKem {
		return k.KemHash
	}
	return k.Hash
}

// Size returns the output length of an Extract under the given labeling.
func (k KDF) Size(mode Labeling) int {
	return k.hash(mode).Size()
}

// Extract runs HKDF-Extract over the labeled input keying material.
//
// With LabelingPure the label is ignored and the ikm is used as-is.
func (k KDF) Extract(mode Labeling, salt []byte, label string, ikm []byte) ([]byte, error) {
	h := k.hash(mode)
	if mode == LabelingPure {
		return hkdf.Extract(h.New, ikm, salt), nil
	}

	var scratch [maxLabeled]byte
	defer secret.Wipe(scratch[:])

	labeled, err := k.appendLabeled(scratch[:0], mode, -1, label, ikm)
	if err != nil {
		return nil, fmt.Errorf("failed to label ikm: %w", err)
	}

	return hkdf.Extract(h.New, labeled, salt), nil
}

// Expand runs HKDF-Expand over the labeled info, producing outLen bytes.
func (k KDF) Expand(mode Labeling, prk []byte, label string, info []byte, outLen int) ([]byte, error) {
	var scratch [maxLabeled]byte
	defer secret.Wipe(scratch[:])

	labeled, err := k.appendLabeled(scratch[:0], mode, outLen, label, info)
	if err != nil {
		return nil, fmt.Errorf("failed to label info: %w", err)
	}

	out := make([]byte, outLen)
	if _, err := io.ReadFull(hkdf.Expand(k.hash(mode).New, prk, labeled), out); err != nil {
		secret.Wipe(out)
		return nil, fmt.Errorf("failed to expand: %w", err)
	}

	return out, nil
}

// ExtractAndExpand derives a KEM shared secret of nsecret bytes from the raw
// Diffie-Hellman output and the KEM context, as in section 4.1 of RFC 9180.
func (k KDF) ExtractAndExpand(ikm, kemContext []byte, nsecret int) ([]byte, error) {
	prk, err := k.Extract(LabelingKem, nil, "eae_prk", ikm)
	if err != nil {
		return nil, err
	}
	defer secret.Wipe(prk)

	return k.Expand(LabelingKem, prk, "shared_secret", kemContext, nsecret)
}

// appendLabeled assembles the labeled buffer into dst, whose capacity bounds
// the result. outLen < 0 means no length prefix (Extract); with LabelingPure
// the length prefix is never written.
func (k KDF) appendLabeled(dst []byte, mode Labeling, outLen int, label string, payload []byte) ([]byte, error) {
	need := len(label) + len(payload)
	if mode != LabelingPure && outLen >= 0 {
		need += 2
	}
	switch mode {
	case LabelingPure:
	case LabelingKem:
		need += len(versionLabel) + len(kemSuiteLabel) + 2
	case LabelingFull:
		need += len(versionLabel) + len(fullSuiteLabel) + 6
	default:
		return nil, fmt.Errorf("unknown labeling mode %d", mode)
	}
	if need > cap(dst) {
		return nil, ErrScratchOverflow
	}

	b := dst
	if mode != LabelingPure && outLen >= 0 {
		b = append(b, byte(outLen>>8), byte(outLen))
	}
	switch mode {
	case LabelingKem:
		b = append(b, versionLabel...)
		b = append(b, kemSuiteLabel...)
		b = append(b, byte(k.Suite.KemID>>8), byte(k.Suite.KemID))
	case LabelingFull:
		b = append(b, versionLabel...)
		b = append(b, fullSuiteLabel...)
		b = append(b, byte(k.Suite.KemID>>8), byte(k.Suite.KemID))
		b = append(b, byte(k.Suite.KdfID>>8), byte(k.Suite.KdfID))
		b = append(b, byte(k.Suite.AeadID>>8), byte(k.Suite.AeadID))
	}
	b = append(b, label...)
	b = append(b, payload...)

	return b, nil
}
