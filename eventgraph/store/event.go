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

// Package store implements §4.I: the rotating per-rotation DAG store —
// header and event trees, genesis generation, the unreferenced-tip index,
// and header/event validation. Ported from
// original_source/src/event_graph/mod.rs; the companion util.rs/event.rs
// submodules that would normally define Event/Header were not retrieved
// into this pack, so their wire shape is reconstructed here from mod.rs's
// usage of them (timestamp_millis/parents/layer/content, dag_validate,
// the null-parents genesis convention).
package store

import (
	"encoding/binary"
	"time"

	"golang.org/x/crypto/blake2b"

	"github.com/darkfi-go/darkfi/common"
	"github.com/darkfi-go/darkfi/params"
)

// genesisContent is the fixed payload every rotation's genesis event
// carries, §3 "Genesis events have all-null parents and fixed content."
var genesisContent = []byte("darkfi-go/eventgraph genesis")

// EventHeader is an event's identity and DAG position: when it was
// created, which events it extends, and its layer (longest path to any
// genesis plus one). Stored standalone in the header tree for cheap
// header-only sync, §4.I/§4.J.
type EventHeader struct {
	TimestampMillis int64
	Parents         [params.EventParentsLen]common.Hash
	Layer           uint64
}

// Event pairs a header with its opaque application payload. Stored in the
// event tree; the header tree holds only the EventHeader half.
type Event struct {
	Header  EventHeader
	Content []byte
}

// IsGenesis reports whether every parent slot is the null hash, the
// convention a rotation's genesis event uses, §3.
func (h *EventHeader) IsGenesis() bool {
	for _, p := range h.Parents {
		if !p.IsZero() {
			return false
		}
	}
	return true
}

// Encode serializes the header as timestamp || layer || parents[0..5],
// all fixed-width little-endian fields, mirroring the length-prefixed
// binary convention used by eventgraph/wire.
func (h *EventHeader) Encode() []byte {
	buf := make([]byte, 0, 8+8+params.EventParentsLen*common.HashLength)
	var u64 [8]byte
	binary.LittleEndian.PutUint64(u64[:], uint64(h.TimestampMillis))
	buf = append(buf, u64[:]...)
	binary.LittleEndian.PutUint64(u64[:], h.Layer)
	buf = append(buf, u64[:]...)
	for _, p := range h.Parents {
		buf = append(buf, p[:]...)
	}
	return buf
}

// DecodeEventHeader is the inverse of Encode.
func DecodeEventHeader(data []byte) (EventHeader, error) {
	want := 16 + params.EventParentsLen*common.HashLength
	if len(data) != want {
		return EventHeader{}, ErrMalformedHeader
	}
	var h EventHeader
	h.TimestampMillis = int64(binary.LittleEndian.Uint64(data[0:8]))
	h.Layer = binary.LittleEndian.Uint64(data[8:16])
	off := 16
	for i := range h.Parents {
		h.Parents[i] = common.BytesToHash(data[off : off+common.HashLength])
		off += common.HashLength
	}
	return h, nil
}

// Encode serializes the full event as header || content, the event tree's
// on-disk value format, §6.
func (e *Event) Encode() []byte {
	buf := e.Header.Encode()
	buf = append(buf, e.Content...)
	return buf
}

// DecodeEvent is the inverse of Encode.
func DecodeEvent(data []byte) (*Event, error) {
	headerLen := 16 + params.EventParentsLen*common.HashLength
	if len(data) < headerLen {
		return nil, ErrMalformedEvent
	}
	header, err := DecodeEventHeader(data[:headerLen])
	if err != nil {
		return nil, err
	}
	content := append([]byte(nil), data[headerLen:]...)
	return &Event{Header: header, Content: content}, nil
}

// Hash identifies a header by the blake2b digest of its fixed-width
// fields alone, deliberately excluding any event content: the header and
// event trees share one key space, and a header must be identifiable
// before its content is ever fetched (header-only sync, §4.J step 5,
// happens strictly before payload sync, §4.J step 6).
func (h *EventHeader) Hash() common.Hash {
	return blake2b.Sum256(h.Encode())
}

// Hash identifies an event by its header's hash; see EventHeader.Hash for
// why content is excluded.
func (e *Event) Hash() common.Hash {
	return e.Header.Hash()
}

// ParentLookup resolves a previously-inserted event's layer, the minimal
// seam dag_validate needs against "the header tree" without this package
// depending on a concrete tree implementation for validation itself.
type ParentLookup interface {
	Layer(hash common.Hash) (uint64, bool)
}

// Validate re-checks an event header's invariants against the DAG it is
// about to join, §4.J "header.validate"/"event.dag_validate": parent
// linkage (every non-null parent must already exist and be strictly
// lower-layered), timestamp bounds (±EVENT_TIME_DRIFT of now), and layer
// monotonicity (exactly one more than the highest resolved parent layer).
func (h *EventHeader) Validate(lookup ParentLookup, now time.Time) error {
	if h.IsGenesis() {
		if h.Layer != 0 {
			return ErrInvalidLayer
		}
		return nil
	}

	drift := params.EventTimeDrift
	t := time.UnixMilli(h.TimestampMillis)
	if t.After(now.Add(drift)) || t.Before(now.Add(-drift)) {
		return ErrEventTimestampOutOfRange
	}

	var maxParentLayer uint64
	sawParent := false
	for _, p := range h.Parents {
		if p.IsZero() {
			continue
		}
		layer, ok := lookup.Layer(p)
		if !ok {
			return ErrUnknownParent
		}
		if layer >= h.Layer {
			return ErrInvalidLayer
		}
		if layer > maxParentLayer {
			maxParentLayer = layer
		}
		sawParent = true
	}
	if !sawParent {
		return ErrInvalidLayer
	}
	if h.Layer != maxParentLayer+1 {
		return ErrInvalidLayer
	}
	return nil
}

// DagValidate re-runs Validate over the event's own header; event-level
// validation has no additional invariant beyond the header's beyond the
// fact it must carry the fixed genesis content when it has no parents.
func (e *Event) DagValidate(lookup ParentLookup, now time.Time) error {
	if err := e.Header.Validate(lookup, now); err != nil {
		return err
	}
	if e.Header.IsGenesis() && string(e.Content) != string(genesisContent) {
		return ErrGenesisWrongContent
	}
	return nil
}

// NewGenesisEvent builds the fixed genesis event for a rotation boundary
// at the given timestamp (milliseconds UTC).
func NewGenesisEvent(timestampMillis int64) *Event {
	return &Event{
		Header:  EventHeader{TimestampMillis: timestampMillis, Layer: 0},
		Content: append([]byte(nil), genesisContent...),
	}
}
