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

package sync

import (
	"context"
	"testing"
	"time"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/darkfi-go/darkfi/common"
	"github.com/darkfi-go/darkfi/eventgraph/store"
	"github.com/darkfi-go/darkfi/eventgraph/wire"
)

type fakePeer struct {
	id        string
	tipRep    *wire.TipRep
	tipErr    error
	headerRep *wire.HeaderRep
	headerErr error
	eventRep  *wire.EventRep
	eventErr  error
}

func (p *fakePeer) ID() string { return p.id }

func (p *fakePeer) RequestTips(ctx context.Context, dagName int64) (*wire.TipRep, error) {
	return p.tipRep, p.tipErr
}

func (p *fakePeer) RequestHeaders(ctx context.Context, dagName int64) (*wire.HeaderRep, error) {
	return p.headerRep, p.headerErr
}

func (p *fakePeer) RequestEvents(ctx context.Context, hashes []common.Hash) (*wire.EventRep, error) {
	return p.eventRep, p.eventErr
}

type fakePeerSource struct {
	peers []Peer
}

func (s *fakePeerSource) ConnectedPeers() []Peer { return s.peers }

func newTestStore(t *testing.T) *store.Store {
	t.Helper()
	s, err := store.Open(t.TempDir(), 0)
	require.NoError(t, err)
	t.Cleanup(func() { _ = s.Close() })
	return s
}

func TestDagSyncNoConnectedPeersIsNoop(t *testing.T) {
	s := newTestStore(t)
	dag, _ := s.Dag(0)
	eg := New(s, &fakePeerSource{}, time.Second)
	assert.NoError(t, eg.DagSync(context.Background(), dag, false))
}

func TestDagSyncFailsWhenNoPeerRespondsWithTips(t *testing.T) {
	s := newTestStore(t)
	dag, _ := s.Dag(0)
	peers := &fakePeerSource{peers: []Peer{
		&fakePeer{id: "p1", tipErr: errors.New("unreachable")},
	}}
	eg := New(s, peers, time.Second)
	err := eg.DagSync(context.Background(), dag, false)
	assert.ErrorIs(t, err, ErrDagSyncFailed)
}

func TestDagSyncFastModeShortCircuitsWhenTipsAlreadyLocal(t *testing.T) {
	s := newTestStore(t)
	dag, _ := s.Dag(0)
	genesisHash := dag.TipsSnapshot()[0]

	peers := &fakePeerSource{peers: []Peer{
		&fakePeer{id: "p1", tipRep: &wire.TipRep{Tips: map[uint64][]common.Hash{0: {genesisHash}}}},
	}}
	eg := New(s, peers, time.Second)
	err := eg.DagSync(context.Background(), dag, true)
	assert.NoError(t, err)
}

func TestDagSyncFullModeInsertsHeadersAndEvents(t *testing.T) {
	s := newTestStore(t)
	dag, _ := s.Dag(0)
	genesisHash := dag.TipsSnapshot()[0]

	child := &store.Event{
		Header: store.EventHeader{
			TimestampMillis: time.Now().UnixMilli(),
			Layer:           1,
			Parents:         [5]common.Hash{genesisHash},
		},
		Content: []byte("synced from peer"),
	}

	peers := &fakePeerSource{peers: []Peer{
		&fakePeer{
			id:        "p1",
			tipRep:    &wire.TipRep{Tips: map[uint64][]common.Hash{1: {child.Hash()}}},
			headerRep: &wire.HeaderRep{Headers: []store.EventHeader{child.Header}},
			eventRep:  &wire.EventRep{Events: []*store.Event{child}},
		},
	}}
	eg := New(s, peers, time.Second)
	err := eg.DagSync(context.Background(), dag, false)
	require.NoError(t, err)

	refreshed, _ := s.Dag(0)
	tips := refreshed.TipsSnapshot()
	assert.Contains(t, tips, child.Hash())
}

func TestSyncSelectedWithNoPeersSucceeds(t *testing.T) {
	s := newTestStore(t)
	eg := New(s, &fakePeerSource{}, time.Second)
	assert.NoError(t, eg.SyncSelected(context.Background(), 1, true))
}

func TestChunkHashesGroupsByConfiguredSize(t *testing.T) {
	headers := make([]store.EventHeader, 45)
	for i := range headers {
		headers[i] = store.EventHeader{TimestampMillis: int64(i)}
	}
	chunks := chunkHashes(headers, 20)
	require.Len(t, chunks, 3)
	assert.Len(t, chunks[0], 20)
	assert.Len(t, chunks[1], 20)
	assert.Len(t, chunks[2], 5)
}

func TestAllTipsKnownReportsFalseOnUnknownTip(t *testing.T) {
	s := newTestStore(t)
	dag, _ := s.Dag(0)
	eg := New(s, &fakePeerSource{}, time.Second)
	unknown := common.Hash{0xff}
	assert.False(t, eg.allTipsKnown(dag, []common.Hash{unknown}))
}
