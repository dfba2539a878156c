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
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/darkfi-go/darkfi/common"
	"github.com/darkfi-go/darkfi/params"
)

func newTestStore(t *testing.T, rotationHours int) *Store {
	t.Helper()
	s, err := Open(t.TempDir(), rotationHours)
	require.NoError(t, err)
	t.Cleanup(func() { _ = s.Close() })
	return s
}

func TestOpenWithRotationDisabledCreatesSingleZeroGenesis(t *testing.T) {
	s := newTestStore(t, 0)
	dags := s.SortDags()
	require.Len(t, dags, 1)
	assert.EqualValues(t, 0, dags[0].GenesisTimestamp)
	assert.Len(t, dags[0].Tips.All(), 1)
}

func TestOpenIsIdempotentAcrossReopen(t *testing.T) {
	dir := t.TempDir()
	s1, err := Open(dir, 0)
	require.NoError(t, err)
	require.NoError(t, s1.Close())

	s2, err := Open(dir, 0)
	require.NoError(t, err)
	defer s2.Close()

	assert.Len(t, s2.SortDags(), 1)
}

func TestHeaderDagInsertThenDagInsertAdvancesTips(t *testing.T) {
	s := newTestStore(t, 0)
	dag, ok := s.Dag(0)
	require.True(t, ok)
	genesisHash := dag.Tips.All()[0]

	child := &Event{
		Header: EventHeader{
			TimestampMillis: time.Now().UnixMilli(),
			Layer:           1,
			Parents:         [5]common.Hash{genesisHash},
		},
		Content: []byte("child content"),
	}

	now := time.UnixMilli(child.Header.TimestampMillis)
	require.NoError(t, s.HeaderDagInsert(0, []EventHeader{child.Header}, now))

	inserted, err := s.DagInsert(0, []*Event{child}, now)
	require.NoError(t, err)
	assert.Equal(t, []common.Hash{child.Hash()}, inserted)

	dag, _ = s.Dag(0)
	tips := dag.Tips.All()
	assert.Equal(t, []common.Hash{child.Hash()}, tips)
}

func TestDagInsertRejectsOrphanEventMissingHeader(t *testing.T) {
	s := newTestStore(t, 0)
	dag, _ := s.Dag(0)
	genesisHash := dag.Tips.All()[0]

	orphan := &Event{
		Header: EventHeader{
			TimestampMillis: time.Now().UnixMilli(),
			Layer:           1,
			Parents:         [5]common.Hash{genesisHash},
		},
		Content: []byte("no header inserted first"),
	}

	inserted, err := s.DagInsert(0, []*Event{orphan}, time.UnixMilli(orphan.Header.TimestampMillis))
	require.NoError(t, err)
	assert.Empty(t, inserted)
}

func TestDagInsertSkipsAlreadyPresentEvent(t *testing.T) {
	s := newTestStore(t, 0)
	dag, _ := s.Dag(0)
	genesisHash := dag.Tips.All()[0]

	child := &Event{
		Header: EventHeader{
			TimestampMillis: time.Now().UnixMilli(),
			Layer:           1,
			Parents:         [5]common.Hash{genesisHash},
		},
		Content: []byte("dup"),
	}
	now := time.UnixMilli(child.Header.TimestampMillis)
	require.NoError(t, s.HeaderDagInsert(0, []EventHeader{child.Header}, now))

	first, err := s.DagInsert(0, []*Event{child}, now)
	require.NoError(t, err)
	require.Len(t, first, 1)

	second, err := s.DagInsert(0, []*Event{child}, now)
	require.NoError(t, err)
	assert.Empty(t, second)
}

func TestOrderEventsReturnsEventsOldestFirst(t *testing.T) {
	s := newTestStore(t, 0)
	dag, _ := s.Dag(0)
	genesisHash := dag.Tips.All()[0]

	first := &Event{
		Header:  EventHeader{TimestampMillis: time.Now().UnixMilli(), Layer: 1, Parents: [5]common.Hash{genesisHash}},
		Content: []byte("first"),
	}
	now := time.UnixMilli(first.Header.TimestampMillis)
	require.NoError(t, s.HeaderDagInsert(0, []EventHeader{first.Header}, now))
	_, err := s.DagInsert(0, []*Event{first}, now)
	require.NoError(t, err)

	second := &Event{
		Header:  EventHeader{TimestampMillis: first.Header.TimestampMillis + 1, Layer: 2, Parents: [5]common.Hash{first.Hash()}},
		Content: []byte("second"),
	}
	now2 := time.UnixMilli(second.Header.TimestampMillis)
	require.NoError(t, s.HeaderDagInsert(0, []EventHeader{second.Header}, now2))
	_, err = s.DagInsert(0, []*Event{second}, now2)
	require.NoError(t, err)

	events, err := s.OrderEvents(0)
	require.NoError(t, err)
	require.Len(t, events, 3) // genesis + first + second
	assert.True(t, events[0].Header.TimestampMillis <= events[1].Header.TimestampMillis)
	assert.True(t, events[1].Header.TimestampMillis <= events[2].Header.TimestampMillis)
}

func TestPruneDropsOldestDagPastRetentionWindow(t *testing.T) {
	s := newTestStore(t, 0)
	s.mu.Lock()
	for i := 1; i < params.DagsMaxNumber; i++ {
		// seed extra dags directly so Prune has something to evict
		s.mu.Unlock()
		require.NoError(t, s.ensureGenesisAt(int64(i)*1000))
		s.mu.Lock()
	}
	s.mu.Unlock()

	require.NoError(t, s.Prune(int64(params.DagsMaxNumber)*1000))
	assert.LessOrEqual(t, len(s.SortDags()), params.DagsMaxNumber)
}

func TestRunPruneTaskExitsImmediatelyWhenRotationDisabled(t *testing.T) {
	s := newTestStore(t, 0)
	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()
	err := s.RunPruneTask(ctx)
	assert.NoError(t, err)
}
