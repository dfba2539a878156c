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

package wire

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/darkfi-go/darkfi/common"
	"github.com/darkfi-go/darkfi/eventgraph/store"
)

func TestTipReqRoundTrips(t *testing.T) {
	req := &TipReq{DagName: 1_700_000_000_000}
	decoded, err := DecodeTipReq(req.Encode())
	require.NoError(t, err)
	assert.Equal(t, req, decoded)
}

func TestTipRepRoundTrips(t *testing.T) {
	rep := &TipRep{Tips: map[uint64][]common.Hash{
		0: {{0x1}, {0x2}},
		3: {{0x3}},
	}}
	decoded, err := DecodeTipRep(rep.Encode())
	require.NoError(t, err)
	assert.Equal(t, rep.Tips, decoded.Tips)
}

func TestTipRepRoundTripsEmpty(t *testing.T) {
	rep := &TipRep{Tips: map[uint64][]common.Hash{}}
	decoded, err := DecodeTipRep(rep.Encode())
	require.NoError(t, err)
	assert.Empty(t, decoded.Tips)
}

func TestHeaderReqRoundTrips(t *testing.T) {
	req := &HeaderReq{DagName: 42}
	decoded, err := DecodeHeaderReq(req.Encode())
	require.NoError(t, err)
	assert.Equal(t, req, decoded)
}

func TestHeaderRepRoundTrips(t *testing.T) {
	rep := &HeaderRep{Headers: []store.EventHeader{
		{TimestampMillis: 1, Layer: 0},
		{TimestampMillis: 2, Layer: 1, Parents: [5]common.Hash{{0x1}}},
	}}
	decoded, err := DecodeHeaderRep(rep.Encode())
	require.NoError(t, err)
	assert.Equal(t, rep.Headers, decoded.Headers)
}

func TestEventReqRoundTrips(t *testing.T) {
	req := &EventReq{Hashes: []common.Hash{{0x1}, {0x2}, {0x3}}}
	decoded, err := DecodeEventReq(req.Encode())
	require.NoError(t, err)
	assert.Equal(t, req.Hashes, decoded.Hashes)
}

func TestEventRepRoundTrips(t *testing.T) {
	rep := &EventRep{Events: []*store.Event{
		{Header: store.EventHeader{TimestampMillis: 1, Layer: 0}, Content: []byte("genesis")},
		{Header: store.EventHeader{TimestampMillis: 2, Layer: 1, Parents: [5]common.Hash{{0x1}}}, Content: []byte("hello world")},
	}}
	decoded, err := DecodeEventRep(rep.Encode())
	require.NoError(t, err)
	require.Len(t, decoded.Events, 2)
	for i := range rep.Events {
		assert.Equal(t, rep.Events[i].Header, decoded.Events[i].Header)
		assert.Equal(t, rep.Events[i].Content, decoded.Events[i].Content)
	}
}

func TestDecodeRejectsTruncatedMessages(t *testing.T) {
	_, err := DecodeTipReq([]byte{0x1, 0x2})
	assert.ErrorIs(t, err, ErrMalformedMessage)

	_, err = DecodeEventReq([]byte{0x1, 0x0, 0x0, 0x0, 0xaa})
	assert.ErrorIs(t, err, ErrMalformedMessage)
}
