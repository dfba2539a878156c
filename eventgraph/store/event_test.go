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

package store

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/darkfi-go/darkfi/common"
)

type staticLookup map[common.Hash]uint64

func (l staticLookup) Layer(hash common.Hash) (uint64, bool) {
	layer, ok := l[hash]
	return layer, ok
}

func TestEventHeaderEncodeDecodeRoundTrips(t *testing.T) {
	h := EventHeader{
		TimestampMillis: 1_700_000_123_456,
		Layer:           7,
		Parents:         [5]common.Hash{{0x1}, {0x2}},
	}
	decoded, err := DecodeEventHeader(h.Encode())
	require.NoError(t, err)
	assert.Equal(t, h, decoded)
}

func TestEventEncodeDecodeRoundTrips(t *testing.T) {
	ev := &Event{
		Header:  EventHeader{TimestampMillis: 42, Layer: 1, Parents: [5]common.Hash{{0xa}}},
		Content: []byte("hello"),
	}
	decoded, err := DecodeEvent(ev.Encode())
	require.NoError(t, err)
	assert.Equal(t, ev.Header, decoded.Header)
	assert.Equal(t, ev.Content, decoded.Content)
}

func TestGenesisHeaderValidatesWithZeroLayer(t *testing.T) {
	genesis := NewGenesisEvent(1000)
	err := genesis.Header.Validate(staticLookup{}, time.UnixMilli(1000))
	assert.NoError(t, err)
}

func TestNonGenesisHeaderRejectsUnknownParent(t *testing.T) {
	h := EventHeader{TimestampMillis: 1000, Layer: 1, Parents: [5]common.Hash{{0x9}}}
	err := h.Validate(staticLookup{}, time.UnixMilli(1000))
	assert.ErrorIs(t, err, ErrUnknownParent)
}

func TestNonGenesisHeaderRejectsBadLayerMonotonicity(t *testing.T) {
	parent := common.Hash{0x1}
	lookup := staticLookup{parent: 5}
	h := EventHeader{TimestampMillis: 1000, Layer: 3, Parents: [5]common.Hash{parent}}
	err := h.Validate(lookup, time.UnixMilli(1000))
	assert.ErrorIs(t, err, ErrInvalidLayer)
}

func TestNonGenesisHeaderAcceptsValidParentChain(t *testing.T) {
	parent := common.Hash{0x1}
	lookup := staticLookup{parent: 0}
	h := EventHeader{TimestampMillis: 1000, Layer: 1, Parents: [5]common.Hash{parent}}
	err := h.Validate(lookup, time.UnixMilli(1000))
	assert.NoError(t, err)
}

func TestHeaderRejectsTimestampOutsideDriftWindow(t *testing.T) {
	parent := common.Hash{0x1}
	lookup := staticLookup{parent: 0}
	h := EventHeader{TimestampMillis: 1000, Layer: 1, Parents: [5]common.Hash{parent}}
	farFuture := time.UnixMilli(1000).Add(10 * time.Hour)
	err := h.Validate(lookup, farFuture)
	assert.ErrorIs(t, err, ErrEventTimestampOutOfRange)
}

func TestGenesisEventRejectsWrongContent(t *testing.T) {
	genesis := NewGenesisEvent(1000)
	genesis.Content = []byte("not the fixed content")
	err := genesis.DagValidate(staticLookup{}, time.UnixMilli(1000))
	assert.ErrorIs(t, err, ErrGenesisWrongContent)
}
