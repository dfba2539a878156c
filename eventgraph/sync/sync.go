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

// Package sync implements §4.J's event graph synchronization: per-DAG tip
// aggregation, header sync, and chunked payload sync against a set of
// connected peers. The P2P transport itself is out of scope (the teacher's
// networks/p2p/host registry governs connection state; peers here are an
// external collaborator seam a concrete transport plugs into), so peers
// are modeled as the minimal Peer interface this package actually needs.
package sync

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/hashicorp/go-uuid"
	"github.com/pkg/errors"
	"golang.org/x/sync/errgroup"

	"github.com/darkfi-go/darkfi/common"
	"github.com/darkfi-go/darkfi/eventgraph/store"
	"github.com/darkfi-go/darkfi/eventgraph/wire"
	"github.com/darkfi-go/darkfi/log"
	"github.com/darkfi-go/darkfi/params"
)

var logger = log.NewModuleLogger(log.EventGraphSync)

// Peer is the external collaborator seam for one connected P2P peer,
// covering exactly the three request/reply pairs of §6 that dag_sync
// needs. A concrete transport (the host registry's connections) supplies
// the implementation; this package never dials or accepts connections
// itself.
type Peer interface {
	ID() string
	RequestTips(ctx context.Context, dagName int64) (*wire.TipRep, error)
	RequestHeaders(ctx context.Context, dagName int64) (*wire.HeaderRep, error)
	RequestEvents(ctx context.Context, hashes []common.Hash) (*wire.EventRep, error)
}

// PeerSource snapshots the currently connected peer set, §4.J step 1's
// "snapshot connected peers".
type PeerSource interface {
	ConnectedPeers() []Peer
}

// EventGraph wraps a rotating DAG store with the sync behavior of §4.J,
// mirroring how the teacher's datasync fetchers wrap a storage backend
// with a sync loop rather than folding sync logic into the store itself.
type EventGraph struct {
	Store           *store.Store
	Peers           PeerSource
	OutboundTimeout time.Duration
}

// New constructs an EventGraph sync driver over an already-open store.
func New(s *store.Store, peers PeerSource, outboundTimeout time.Duration) *EventGraph {
	return &EventGraph{Store: s, Peers: peers, OutboundTimeout: outboundTimeout}
}

// peerStatus tracks one payload-chunk dispatch attempt's outcome, §4.J
// step 6's Free|Busy|Failed peer states.
type peerStatus int

const (
	statusFree peerStatus = iota
	statusBusy
	statusFailed
)

// SyncSelected implements §4.J's sync_selected(count, fast_mode): the
// count newest DAGs are synchronized in order oldest-to-newest.
func (eg *EventGraph) SyncSelected(ctx context.Context, count int, fastMode bool) error {
	dags := eg.Store.SortDags() // newest-to-oldest
	if count < len(dags) {
		dags = dags[:count]
	}
	for i, j := 0, len(dags)-1; i < j; i, j = i+1, j-1 {
		dags[i], dags[j] = dags[j], dags[i]
	}

	for _, dag := range dags {
		if err := eg.DagSync(ctx, dag, fastMode); err != nil {
			return errors.Wrapf(err, "sync dag %d", dag.GenesisTimestamp)
		}
	}
	return nil
}

// DagSync implements §4.J's dag_sync for a single DAG.
func (eg *EventGraph) DagSync(ctx context.Context, dag *store.DAG, fastMode bool) error {
	sessionID, _ := uuid.GenerateUUID()
	lg := logger.NewWith("session", sessionID, "dag", dag.GenesisTimestamp)

	peers := eg.Peers.ConnectedPeers()
	if len(peers) == 0 {
		lg.Warn("no connected peers, skipping dag sync")
		return nil
	}

	tipCounts, err := eg.collectPeerTips(ctx, lg, peers, dag.GenesisTimestamp)
	if err != nil {
		return err
	}
	if len(tipCounts) == 0 {
		return ErrDagSyncFailed
	}

	threshold := (2 * len(peers)) / 3
	considered := make([]common.Hash, 0, len(tipCounts))
	for hash, count := range tipCounts {
		if count > threshold {
			considered = append(considered, hash)
		}
	}

	if fastMode && eg.allTipsKnown(dag, considered) {
		lg.Info("fast sync: all considered tips already local")
		return nil
	}

	headers, err := eg.syncHeaders(ctx, lg, peers, dag.GenesisTimestamp)
	if err != nil {
		return err
	}

	if !fastMode {
		if err := eg.syncPayloads(ctx, lg, peers, dag.GenesisTimestamp, headers); err != nil {
			return err
		}
	}

	lg.Info("dag sync complete")
	return nil
}

func (eg *EventGraph) allTipsKnown(dag *store.DAG, considered []common.Hash) bool {
	local := make(map[common.Hash]struct{})
	for _, h := range dag.TipsSnapshot() {
		local[h] = struct{}{}
	}
	for _, h := range considered {
		if _, ok := local[h]; !ok {
			return false
		}
	}
	return true
}

// collectPeerTips implements §4.J steps 1-2: send TipReq to every peer in
// parallel, aggregate into tip -> observation count.
func (eg *EventGraph) collectPeerTips(ctx context.Context, lg log.Logger, peers []Peer, dagName int64) (map[common.Hash]int, error) {
	type result struct {
		tips *wire.TipRep
	}
	results := make([]result, len(peers))

	g, gctx := errgroup.WithContext(ctx)
	for i, p := range peers {
		i, p := i, p
		g.Go(func() error {
			reqCtx, cancel := context.WithTimeout(gctx, eg.OutboundTimeout)
			defer cancel()
			rep, err := p.RequestTips(reqCtx, dagName)
			if err != nil {
				lg.Debug("peer did not answer tip request, dropping", "peer", p.ID(), "err", err)
				return nil
			}
			results[i] = result{tips: rep}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	counts := make(map[common.Hash]int)
	for _, r := range results {
		if r.tips == nil {
			continue
		}
		for _, hashes := range r.tips.Tips {
			for _, h := range hashes {
				counts[h]++
			}
		}
	}
	return counts, nil
}

// syncHeaders implements §4.J step 5: fetch the header set from every
// peer in parallel, inserting each reply as it arrives.
func (eg *EventGraph) syncHeaders(ctx context.Context, lg log.Logger, peers []Peer, dagName int64) ([]store.EventHeader, error) {
	var mu sync.Mutex
	var allHeaders []store.EventHeader

	g, gctx := errgroup.WithContext(ctx)
	for _, p := range peers {
		p := p
		g.Go(func() error {
			reqCtx, cancel := context.WithTimeout(gctx, eg.OutboundTimeout)
			defer cancel()
			rep, err := p.RequestHeaders(reqCtx, dagName)
			if err != nil {
				lg.Debug("peer did not answer header request, dropping", "peer", p.ID(), "err", err)
				return nil
			}
			if err := eg.Store.HeaderDagInsert(dagName, rep.Headers, time.Now()); err != nil {
				lg.Warn("rejected header batch from peer", "peer", p.ID(), "err", err)
				return nil
			}
			mu.Lock()
			allHeaders = append(allHeaders, rep.Headers...)
			mu.Unlock()
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return allHeaders, nil
}

// payloadChunk pairs a dispatch chunk with its position in chunk-id order,
// so a chunk can be retried on a different peer and its reply still land
// in the right slot once every chunk has been collected.
type payloadChunk struct {
	id     int
	hashes []common.Hash
}

// syncPayloads implements §4.J step 6: topologically sort headers by
// layer descending, chunk into groups of EventGraphSyncChunkSize, dispatch
// chunks to free peers (retrying failed chunks on any remaining free
// peer) and only once every chunk has been collected, insert them into
// the store one chunk at a time in ascending chunk-id order — mirroring
// the original source's accumulate-into-a-map-then-insert-in-order
// structure rather than inserting each chunk as its own reply arrives.
func (eg *EventGraph) syncPayloads(ctx context.Context, lg log.Logger, peers []Peer, dagName int64, headers []store.EventHeader) error {
	if len(headers) == 0 {
		return nil
	}

	sorted := append([]store.EventHeader(nil), headers...)
	sort.Slice(sorted, func(i, j int) bool { return sorted[i].Layer > sorted[j].Layer })

	chunks := chunkHashes(sorted, params.EventGraphSyncChunkSize)
	pending := make([]payloadChunk, len(chunks))
	for i, c := range chunks {
		pending[i] = payloadChunk{id: i, hashes: c}
	}
	collected := make([]*wire.EventRep, len(chunks))

	statuses := make([]peerStatus, len(peers))
	var mu sync.Mutex

	pick := func() int {
		mu.Lock()
		defer mu.Unlock()
		for i, s := range statuses {
			if s == statusFree {
				statuses[i] = statusBusy
				return i
			}
		}
		return -1
	}
	release := func(i int, failed bool) {
		mu.Lock()
		defer mu.Unlock()
		if failed {
			statuses[i] = statusFailed
		} else {
			statuses[i] = statusFree
		}
	}

	for len(pending) > 0 {
		var retry []payloadChunk
		g, gctx := errgroup.WithContext(ctx)
		for _, pc := range pending {
			pc := pc
			idx := pick()
			if idx == -1 {
				retry = append(retry, pc)
				continue
			}
			g.Go(func() error {
				reqCtx, cancel := context.WithTimeout(gctx, eg.OutboundTimeout)
				defer cancel()
				rep, err := peers[idx].RequestEvents(reqCtx, pc.hashes)
				if err != nil {
					lg.Warn("chunk fetch failed, peer marked failed, will retry on another peer", "peer", peers[idx].ID(), "err", err)
					release(idx, true)
					mu.Lock()
					retry = append(retry, pc)
					mu.Unlock()
					return nil
				}
				release(idx, false)
				mu.Lock()
				collected[pc.id] = rep
				mu.Unlock()
				return nil
			})
		}
		if err := g.Wait(); err != nil {
			return err
		}
		if len(retry) == len(pending) {
			// no progress possible: every remaining chunk failed and no
			// peer is free to retry it.
			return ErrDagSyncFailed
		}
		pending = retry
	}

	for _, rep := range collected {
		if rep == nil {
			continue
		}
		if _, err := eg.Store.DagInsert(dagName, rep.Events, time.Now()); err != nil {
			return errors.Wrap(err, "insert synced event chunk")
		}
	}
	return nil
}

func chunkHashes(headers []store.EventHeader, size int) [][]common.Hash {
	var chunks [][]common.Hash
	for i := 0; i < len(headers); i += size {
		end := i + size
		if end > len(headers) {
			end = len(headers)
		}
		chunk := make([]common.Hash, 0, end-i)
		for _, h := range headers[i:end] {
			chunk = append(chunk, h.Hash())
		}
		chunks = append(chunks, chunk)
	}
	return chunks
}

// OrderEvents passes through to the store's presentation-only topological
// ordering, §4.J order_events.
func (eg *EventGraph) OrderEvents(dagName int64) ([]*store.Event, error) {
	return eg.Store.OrderEvents(dagName)
}

// FetchSuccessorsOf passes through to the store.
func (eg *EventGraph) FetchSuccessorsOf(dagName int64, hash common.Hash) ([]common.Hash, error) {
	return eg.Store.FetchSuccessorsOf(dagName, hash)
}

// RunPruneTask passes through to the store's background pruning task.
func (eg *EventGraph) RunPruneTask(ctx context.Context) error {
	return eg.Store.RunPruneTask(ctx)
}
