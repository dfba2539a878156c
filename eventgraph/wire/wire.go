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

// Package wire implements the event graph's three P2P message pairs of
// §6: TipReq/TipRep, HeaderReq/HeaderRep, EventReq/EventRep. Encoding is
// manual length-prefixed binary, mirroring the teacher's RLP-free message
// framing in networks/p2p rather than pulling in a generic codec for a
// handful of fixed message shapes.
package wire

import (
	"encoding/binary"

	"github.com/darkfi-go/darkfi/common"
	"github.com/darkfi-go/darkfi/eventgraph/store"
)

// TipReq requests the unreferenced-tip set of the named rotation DAG.
type TipReq struct {
	DagName int64
}

func (m *TipReq) Encode() []byte {
	buf := make([]byte, 8)
	binary.LittleEndian.PutUint64(buf, uint64(m.DagName))
	return buf
}

func DecodeTipReq(data []byte) (*TipReq, error) {
	if len(data) != 8 {
		return nil, ErrMalformedMessage
	}
	return &TipReq{DagName: int64(binary.LittleEndian.Uint64(data))}, nil
}

// TipRep answers a TipReq with the layer-keyed tip map, §4.I's
// LayerUTips, encoded for the wire as a layer count followed, per layer,
// by the layer number, its hash count, and its hashes.
type TipRep struct {
	Tips map[uint64][]common.Hash
}

func (m *TipRep) Encode() []byte {
	layers := make([]uint64, 0, len(m.Tips))
	for layer := range m.Tips {
		layers = append(layers, layer)
	}
	buf := make([]byte, 4)
	binary.LittleEndian.PutUint32(buf, uint32(len(layers)))
	for _, layer := range layers {
		hashes := m.Tips[layer]
		entry := make([]byte, 8+8+4+len(hashes)*common.HashLength)
		binary.LittleEndian.PutUint64(entry[0:8], layer)
		off := 8
		binary.LittleEndian.PutUint32(entry[off:off+4], uint32(len(hashes)))
		off += 4
		for _, h := range hashes {
			copy(entry[off:off+common.HashLength], h[:])
			off += common.HashLength
		}
		buf = append(buf, entry[:off]...)
	}
	return buf
}

func DecodeTipRep(data []byte) (*TipRep, error) {
	if len(data) < 4 {
		return nil, ErrMalformedMessage
	}
	count := binary.LittleEndian.Uint32(data[0:4])
	off := 4
	tips := make(map[uint64][]common.Hash, count)
	for i := uint32(0); i < count; i++ {
		if off+8+4 > len(data) {
			return nil, ErrMalformedMessage
		}
		layer := binary.LittleEndian.Uint64(data[off : off+8])
		off += 8
		n := binary.LittleEndian.Uint32(data[off : off+4])
		off += 4
		hashes := make([]common.Hash, n)
		for j := uint32(0); j < n; j++ {
			if off+common.HashLength > len(data) {
				return nil, ErrMalformedMessage
			}
			hashes[j] = common.BytesToHash(data[off : off+common.HashLength])
			off += common.HashLength
		}
		tips[layer] = hashes
	}
	return &TipRep{Tips: tips}, nil
}

// HeaderReq requests every header currently known in the named DAG.
type HeaderReq struct {
	DagName int64
}

func (m *HeaderReq) Encode() []byte {
	buf := make([]byte, 8)
	binary.LittleEndian.PutUint64(buf, uint64(m.DagName))
	return buf
}

func DecodeHeaderReq(data []byte) (*HeaderReq, error) {
	if len(data) != 8 {
		return nil, ErrMalformedMessage
	}
	return &HeaderReq{DagName: int64(binary.LittleEndian.Uint64(data))}, nil
}

// HeaderRep answers a HeaderReq with the requested header batch.
type HeaderRep struct {
	Headers []store.EventHeader
}

func (m *HeaderRep) Encode() []byte {
	buf := make([]byte, 4)
	binary.LittleEndian.PutUint32(buf, uint32(len(m.Headers)))
	for i := range m.Headers {
		buf = append(buf, m.Headers[i].Encode()...)
	}
	return buf
}

func DecodeHeaderRep(data []byte) (*HeaderRep, error) {
	if len(data) < 4 {
		return nil, ErrMalformedMessage
	}
	count := binary.LittleEndian.Uint32(data[0:4])
	off := 4
	headerLen := len((&store.EventHeader{}).Encode())
	headers := make([]store.EventHeader, 0, count)
	for i := uint32(0); i < count; i++ {
		if off+headerLen > len(data) {
			return nil, ErrMalformedMessage
		}
		h, err := store.DecodeEventHeader(data[off : off+headerLen])
		if err != nil {
			return nil, err
		}
		headers = append(headers, h)
		off += headerLen
	}
	return &HeaderRep{Headers: headers}, nil
}

// EventReq requests the full events (header + content) behind the given
// hashes, the payload-sync request of §4.J step 6.
type EventReq struct {
	Hashes []common.Hash
}

func (m *EventReq) Encode() []byte {
	buf := make([]byte, 4)
	binary.LittleEndian.PutUint32(buf, uint32(len(m.Hashes)))
	for _, h := range m.Hashes {
		buf = append(buf, h[:]...)
	}
	return buf
}

func DecodeEventReq(data []byte) (*EventReq, error) {
	if len(data) < 4 {
		return nil, ErrMalformedMessage
	}
	count := binary.LittleEndian.Uint32(data[0:4])
	off := 4
	hashes := make([]common.Hash, 0, count)
	for i := uint32(0); i < count; i++ {
		if off+common.HashLength > len(data) {
			return nil, ErrMalformedMessage
		}
		hashes = append(hashes, common.BytesToHash(data[off:off+common.HashLength]))
		off += common.HashLength
	}
	return &EventReq{Hashes: hashes}, nil
}

// EventRep answers an EventReq with the full events.
type EventRep struct {
	Events []*store.Event
}

func (m *EventRep) Encode() []byte {
	buf := make([]byte, 4)
	binary.LittleEndian.PutUint32(buf, uint32(len(m.Events)))
	for _, ev := range m.Events {
		body := ev.Encode()
		lenBuf := make([]byte, 4)
		binary.LittleEndian.PutUint32(lenBuf, uint32(len(body)))
		buf = append(buf, lenBuf...)
		buf = append(buf, body...)
	}
	return buf
}

func DecodeEventRep(data []byte) (*EventRep, error) {
	if len(data) < 4 {
		return nil, ErrMalformedMessage
	}
	count := binary.LittleEndian.Uint32(data[0:4])
	off := 4
	events := make([]*store.Event, 0, count)
	for i := uint32(0); i < count; i++ {
		if off+4 > len(data) {
			return nil, ErrMalformedMessage
		}
		bodyLen := binary.LittleEndian.Uint32(data[off : off+4])
		off += 4
		if off+int(bodyLen) > len(data) {
			return nil, ErrMalformedMessage
		}
		ev, err := store.DecodeEvent(data[off : off+int(bodyLen)])
		if err != nil {
			return nil, err
		}
		events = append(events, ev)
		off += int(bodyLen)
	}
	return &EventRep{Events: events}, nil
}
