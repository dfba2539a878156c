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

package types

import (
	"encoding/binary"

	"github.com/darkfi-go/darkfi/common"
	"golang.org/x/crypto/blake2b"
)

// MerkleRoot and MonotreeRoot are both plain 32-byte roots; kept as
// distinct named types so a transactions_root can never be passed where a
// state_root is expected, even though both are common.Hash under the hood.
type MerkleRoot common.Hash
type MonotreeRoot common.Hash

// Header is the block header described in spec §3. Hash is deterministic
// over every field except Signature, via the block-hashing blob encoding
// in §6.
type Header struct {
	Previous         common.Hash
	Height           uint32
	Version          uint8
	Timestamp        uint64 // seconds, UTC
	Nonce            uint32
	TransactionsRoot MerkleRoot
	StateRoot        MonotreeRoot
	PowData          PowData
	// Signature authorizes the header; verified against the producer
	// transaction's derived public key, §4.F step 8.
	Signature []byte
}

// ToBlockHashingBlob serializes the header fields in the exact order
// required by spec §6: {version, previous, height, timestamp, nonce,
// transactions_root, state_root, pow_data_tag}. The signature is
// deliberately excluded: it authorizes the hash, so it cannot be part of
// the hashed payload.
func (h *Header) ToBlockHashingBlob() []byte {
	buf := make([]byte, 0, 1+common.HashLength+4+8+4+common.HashLength+common.HashLength+1)
	buf = append(buf, h.Version)
	buf = append(buf, h.Previous[:]...)

	var u32 [4]byte
	binary.LittleEndian.PutUint32(u32[:], h.Height)
	buf = append(buf, u32[:]...)

	var u64 [8]byte
	binary.LittleEndian.PutUint64(u64[:], h.Timestamp)
	buf = append(buf, u64[:]...)

	binary.LittleEndian.PutUint32(u32[:], h.Nonce)
	buf = append(buf, u32[:]...)

	buf = append(buf, h.TransactionsRoot[:]...)
	buf = append(buf, h.StateRoot[:]...)
	buf = h.PowData.Encode(buf)
	return buf
}

// Hash is the blake2b-256 digest of ToBlockHashingBlob, so it covers every
// header field except Signature (see ToBlockHashingBlob's doc for why).
func (h *Header) Hash() common.Hash {
	sum := blake2b.Sum256(h.ToBlockHashingBlob())
	return sum
}

// BlockVersion returns the header version expected at the given height.
// darkfi-go carries a single version (0) for its whole lifetime so far;
// this is the one hook a future hard fork would extend.
func BlockVersion(height uint32) uint8 {
	return 0
}
