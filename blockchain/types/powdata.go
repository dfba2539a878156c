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
//
// PowData is the closed sum type carrying a block's proof-of-work payload,
// §3/§9 ("tagged variants replace dynamic dispatch").

package types

import "encoding/binary"

// PowDataTag discriminates the two PowData variants on the wire and in the
// block-hashing blob, §6.
type PowDataTag uint8

const (
	PowDataDarkFi PowDataTag = iota
	PowDataMonero
)

// MoneroPayload carries the merge-mined Monero block header bytes needed
// to derive the RandomX seed and the block-hashing blob for the Monero
// variant, §3/§4.C.
type MoneroPayload struct {
	// Blob is the embedded Monero header, serialized per Monero's own
	// canonical blob rules. darkfi-go treats it as an opaque byte string;
	// Monero wire semantics are an external collaborator.
	Blob []byte
	// Key is the 32-byte RandomX seed this Monero header was mined with.
	Key [32]byte
}

// ToBlockHashingBlob returns the bytes hashed by RandomX for this Monero
// variant: the embedded Monero header's own blob, per spec §6 ("the
// Monero variant instead serializes the embedded Monero header per
// Monero's canonical blob rules").
func (m *MoneroPayload) ToBlockHashingBlob() []byte {
	out := make([]byte, len(m.Blob))
	copy(out, m.Blob)
	return out
}

// RandomXKey returns the seed this Monero header was mined against.
func (m *MoneroPayload) RandomXKey() [32]byte { return m.Key }

// PowData is the tagged union of {DarkFi, Monero(payload)} from spec §3.
// Exactly one of the two is meaningful, selected by Tag.
type PowData struct {
	Tag    PowDataTag
	Monero *MoneroPayload // nil unless Tag == PowDataMonero
}

// Encode appends this PowData's wire tag (and, for Monero, its payload) to
// dst, used by Header.ToBlockHashingBlob.
func (p PowData) Encode(dst []byte) []byte {
	dst = append(dst, byte(p.Tag))
	if p.Tag == PowDataMonero && p.Monero != nil {
		var lenBuf [4]byte
		binary.LittleEndian.PutUint32(lenBuf[:], uint32(len(p.Monero.Blob)))
		dst = append(dst, lenBuf[:]...)
		dst = append(dst, p.Monero.Blob...)
	}
	return dst
}
