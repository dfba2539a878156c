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
	"fmt"
	"sort"
	"time"

	"github.com/dgraph-io/badger"
	"github.com/pkg/errors"

	"github.com/darkfi-go/darkfi/common"
)

// HeaderDagInsert implements §4.J's header_dag_insert: sort the batch by
// layer ascending, validate each header against the header tree (plus
// anything already accepted earlier in this same batch), and apply the
// whole batch as a single badger transaction.
//
// A badger commit failure at this point means the on-disk tree is
// corrupt relative to what was just validated in memory — the same class
// of unrecoverable invariant violation the original source's sled().expect
// calls panic on — so this mirrors that rather than returning a silently
// swallowed error up through a long sync call chain.
func (s *Store) HeaderDagInsert(genesisTimestamp int64, headers []EventHeader, now time.Time) error {
	sorted := append([]EventHeader(nil), headers...)
	sort.Slice(sorted, func(i, j int) bool { return sorted[i].Layer < sorted[j].Layer })

	lookup := dagLookup{store: s, ts: genesisTimestamp}
	accepted := make(map[common.Hash]EventHeader)

	txn := s.db.NewTransaction(true)
	defer txn.Discard()

	for _, h := range sorted {
		if err := h.Validate(batchLookup{base: lookup, batch: accepted}, now); err != nil {
			return errors.Wrap(err, "validate header")
		}
		hash := h.Hash()
		if err := txn.Set(headerKey(genesisTimestamp, hash), h.Encode()); err != nil {
			panic(fmt.Sprintf("eventgraph/store: header batch apply failed: %v", err))
		}
		accepted[hash] = h
	}

	if err := txn.Commit(nil); err != nil {
		panic(fmt.Sprintf("eventgraph/store: header batch commit failed: %v", err))
	}
	for hash := range accepted {
		s.seenHeaders.Add(seenKey{genesisTimestamp, hash}, struct{}{})
	}
	return nil
}

// DagInsert implements §4.J's dag_insert: validate each event against the
// header tree, skip genesis/duplicate/orphan events, apply the accepted
// events as one atomic batch, then refresh the DAG's tip index and mirror
// it onto the header-dag side. Returns the hashes actually inserted.
func (s *Store) DagInsert(genesisTimestamp int64, events []*Event, now time.Time) ([]common.Hash, error) {
	dag, ok := s.Dag(genesisTimestamp)
	if !ok {
		return nil, ErrDagNotFound
	}

	lookup := dagLookup{store: s, ts: genesisTimestamp}
	txn := s.db.NewTransaction(true)
	defer txn.Discard()

	var inserted []common.Hash
	insertedEvents := make([]*Event, 0, len(events))

	for _, ev := range events {
		if ev.Header.IsGenesis() {
			continue
		}
		hash := ev.Hash()
		if s.HasEvent(genesisTimestamp, hash) {
			continue
		}
		if !s.HasHeader(genesisTimestamp, hash) {
			continue
		}
		if err := ev.DagValidate(lookup, now); err != nil {
			return nil, errors.Wrap(err, "validate event")
		}
		if err := txn.Set(eventKey(genesisTimestamp, hash), ev.Encode()); err != nil {
			panic(fmt.Sprintf("eventgraph/store: event batch apply failed: %v", err))
		}
		inserted = append(inserted, hash)
		insertedEvents = append(insertedEvents, ev)
	}

	if len(inserted) == 0 {
		return nil, nil
	}

	if err := txn.Commit(nil); err != nil {
		panic(fmt.Sprintf("eventgraph/store: event batch commit failed: %v", err))
	}
	for _, hash := range inserted {
		s.seenEvents.Add(seenKey{genesisTimestamp, hash}, struct{}{})
	}

	dag.mu.Lock()
	for _, ev := range insertedEvents {
		hash := ev.Hash()
		for _, p := range ev.Header.Parents {
			if !p.IsZero() {
				dag.Tips.Remove(p, ev.Header.Layer)
			}
		}
		dag.Tips.Add(ev.Header.Layer, hash)
	}
	mirrored := dag.Tips.Clone()
	dag.mu.Unlock()
	dag.Tips = mirrored

	return inserted, nil
}

// batchLookup resolves a parent either from the durable header tree or
// from headers accepted earlier within the same in-flight batch, so a
// batch may validly reference a parent inserted a few positions earlier
// in the same call.
type batchLookup struct {
	base  ParentLookup
	batch map[common.Hash]EventHeader
}

func (l batchLookup) Layer(hash common.Hash) (uint64, bool) {
	if h, ok := l.batch[hash]; ok {
		return h.Layer, true
	}
	return l.base.Layer(hash)
}
