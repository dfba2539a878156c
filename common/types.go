// This file is part of DarkFi-Go (https://dark.fi)
//
// Copyright (C) 2020-2026 Dyne.org foundation
//
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as
// published by the Free Software Foundation, either version 3 of the
// License, or (at your option) any later version.
//
// This program is distributed in the hope that it will be useful,
// but WITHOUT ANY WARRANTY; without even the implied warranty of
// MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
// GNU Affero General Public License for more details.
//
// You should have received a copy of the GNU Affero General Public License
// along with this program.  If not, see <https://www.gnu.org/licenses/>.

// Package common holds the small, dependency-free value types shared by
// every darkfi-go package: hashes, contract ids, and byte-slice helpers.
package common

import (
	"encoding/hex"
	"fmt"
)

// HashLength is the size in bytes of a darkfi-go hash.
const HashLength = 32

// Hash is a fixed-size 32-byte cryptographic digest, used for block,
// transaction, and event identifiers throughout the module.
type Hash [HashLength]byte

// BytesToHash right-aligns b into a Hash, truncating from the left if b is
// longer than HashLength.
func BytesToHash(b []byte) Hash {
	var h Hash
	if len(b) > HashLength {
		b = b[len(b)-HashLength:]
	}
	copy(h[HashLength-len(b):], b)
	return h
}

func (h Hash) Bytes() []byte { return h[:] }

func (h Hash) Hex() string { return "0x" + hex.EncodeToString(h[:]) }

func (h Hash) String() string { return h.Hex() }

func (h Hash) IsZero() bool { return h == Hash{} }

// ContractID identifies a deployed smart contract.
type ContractID Hash

func (c ContractID) Bytes() []byte { return c[:] }
func (c ContractID) Hex() string   { return Hash(c).Hex() }

// PublicKey is an opaque Schnorr/Pallas public key, treated as a fixed-size
// blob by everything outside the signature-verification boundary.
type PublicKey [32]byte

func (p PublicKey) Bytes() []byte { return p[:] }

// HashesEqual is a tiny helper to avoid repeating `a == b` boilerplate at
// call sites that compare interface-wrapped hashes.
func HashesEqual(a, b Hash) bool { return a == b }

func (h Hash) Format(f fmt.State, c rune) {
	fmt.Fprintf(f, "%s", h.Hex())
}
