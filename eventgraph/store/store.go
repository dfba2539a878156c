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
	"encoding/binary"
	"sort"
	"sync"

	"github.com/dgraph-io/badger"
	"github.com/pkg/errors"

	"github.com/darkfi-go/darkfi/common"
	"github.com/darkfi-go/darkfi/log"
	"github.com/darkfi-go/darkfi/params"
)

var logger = log.NewModuleLogger(log.EventGraphStore)

// DAG is one rotation's pair of trees — conceptually sled's `headers_<ts>`
// and `<ts>` trees, §4.I — collapsed here into one badger key prefix per
// half, since badger has no native named-tree concept the way sled does.
// The header-dag and event-dag tip maps converge after every successful
// insert (dag_insert always copies the refreshed event tip map into the
// header-dag entry, mod.rs step 6), so a single LayerUTips models both.
type DAG struct {
	GenesisTimestamp int64
	Tips             LayerUTips
	mu               sync.RWMutex
}

// TipsSnapshot returns the current unreferenced-tip hashes under a read
// lock, the safe way for a collaborator outside this package (e.g.
// eventgraph/sync) to inspect tip state without racing an in-flight
// insert's tip-map mutation.
func (d *DAG) TipsSnapshot() []common.Hash {
	d.mu.RLock()
	defer d.mu.RUnlock()
	return d.Tips.All()
}

// Store is the badger-backed DAG store of §4.I: a set of at most
// DAGS_MAX_NUMBER rotations, each with a header tree and an event tree
// keyed by event hash.
type Store struct {
	db            *badger.DB
	rotationHours int

	mu   sync.RWMutex
	dags map[int64]*DAG

	// seenHeaders and seenEvents cache recent HasHeader/HasEvent hits so
	// a sync burst that probes the same hash across several overlapping
	// chunks doesn't hit badger every time.
	seenHeaders common.Cache
	seenEvents  common.Cache
}

type seenKey struct {
	ts   int64
	hash common.Hash
}

const metaGenesisKey = "meta:genesis_timestamps"

// Open opens (creating if absent) a badger database at dbDir and wraps it
// in a Store, mirroring the teacher's NewBadgerDB(dbDir) constructor
// shape in storage/database/badger_database.go.
func Open(dbDir string, rotationHours int) (*Store, error) {
	opts := badger.DefaultOptions
	opts.Dir = dbDir
	opts.ValueDir = dbDir

	db, err := badger.Open(opts)
	if err != nil {
		return nil, errors.Wrap(err, "open badger database")
	}
	return NewStore(db, rotationHours)
}

// Close releases the underlying badger database.
func (s *Store) Close() error {
	return s.db.Close()
}

// NewStore opens the store against db and loads (or creates, if absent)
// its rotation schedule's genesis DAGs, §4.I's genesis generation rule.
func NewStore(db *badger.DB, rotationHours int) (*Store, error) {
	seenHeaders, err := common.NewCache(common.LRUCacheType, params.EventGraphSeenCacheSize)
	if err != nil {
		return nil, errors.Wrap(err, "build header cache")
	}
	seenEvents, err := common.NewCache(common.LRUCacheType, params.EventGraphSeenCacheSize)
	if err != nil {
		return nil, errors.Wrap(err, "build event cache")
	}

	s := &Store{
		db:            db,
		rotationHours: rotationHours,
		dags:          make(map[int64]*DAG),
		seenHeaders:   seenHeaders,
		seenEvents:    seenEvents,
	}
	if err := s.loadGenesisTimestamps(); err != nil {
		return nil, errors.Wrap(err, "load existing dags")
	}
	if err := s.EnsureGenesis(); err != nil {
		return nil, errors.Wrap(err, "ensure genesis dags")
	}
	return s, nil
}

func headerTreePrefix(genesisTs int64) []byte {
	buf := make([]byte, 0, 10+8)
	buf = append(buf, "hd:"...)
	var u64 [8]byte
	binary.BigEndian.PutUint64(u64[:], uint64(genesisTs))
	buf = append(buf, u64[:]...)
	buf = append(buf, ':')
	return buf
}

func eventTreePrefix(genesisTs int64) []byte {
	buf := make([]byte, 0, 10+8)
	buf = append(buf, "ev:"...)
	var u64 [8]byte
	binary.BigEndian.PutUint64(u64[:], uint64(genesisTs))
	buf = append(buf, u64[:]...)
	buf = append(buf, ':')
	return buf
}

func headerKey(genesisTs int64, hash common.Hash) []byte {
	return append(headerTreePrefix(genesisTs), hash[:]...)
}

func eventKey(genesisTs int64, hash common.Hash) []byte {
	return append(eventTreePrefix(genesisTs), hash[:]...)
}

// loadGenesisTimestamps restores the set of known rotation genesis
// timestamps and rebuilds each DAG's tip index from its event tree, so a
// restarted process resumes with the same unreferenced-tip state.
func (s *Store) loadGenesisTimestamps() error {
	var timestamps []int64
	err := s.db.View(func(txn *badger.Txn) error {
		item, err := txn.Get([]byte(metaGenesisKey))
		if err == badger.ErrKeyNotFound {
			return nil
		}
		if err != nil {
			return err
		}
		val, err := item.Value()
		if err != nil {
			return err
		}
		for i := 0; i+8 <= len(val); i += 8 {
			timestamps = append(timestamps, int64(binary.BigEndian.Uint64(val[i:i+8])))
		}
		return nil
	})
	if err != nil {
		return err
	}

	for _, ts := range timestamps {
		dag := &DAG{GenesisTimestamp: ts, Tips: NewLayerUTips()}
		if err := s.rebuildTips(dag); err != nil {
			return err
		}
		s.dags[ts] = dag
	}
	return nil
}

func (s *Store) persistGenesisTimestamps() error {
	timestamps := s.sortedGenesisTimestampsLocked()
	buf := make([]byte, 0, len(timestamps)*8)
	var u64 [8]byte
	for _, ts := range timestamps {
		binary.BigEndian.PutUint64(u64[:], uint64(ts))
		buf = append(buf, u64[:]...)
	}
	return s.db.Update(func(txn *badger.Txn) error {
		return txn.Set([]byte(metaGenesisKey), buf)
	})
}

func (s *Store) sortedGenesisTimestampsLocked() []int64 {
	out := make([]int64, 0, len(s.dags))
	for ts := range s.dags {
		out = append(out, ts)
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}

// rebuildTips derives LayerUTips by scanning the event tree and removing
// any hash that appears in another event's parent list, §4.I tip
// maintenance.
func (s *Store) rebuildTips(dag *DAG) error {
	tips := NewLayerUTips()
	referenced := make(map[common.Hash]struct{})

	err := s.db.View(func(txn *badger.Txn) error {
		prefix := eventTreePrefix(dag.GenesisTimestamp)
		it := txn.NewIterator(badger.DefaultIteratorOptions)
		defer it.Close()
		for it.Seek(prefix); it.ValidForPrefix(prefix); it.Next() {
			val, err := it.Item().Value()
			if err != nil {
				return err
			}
			ev, err := DecodeEvent(val)
			if err != nil {
				return err
			}
			hash := ev.Hash()
			tips.Add(ev.Header.Layer, hash)
			for _, p := range ev.Header.Parents {
				if !p.IsZero() {
					referenced[p] = struct{}{}
				}
			}
		}
		return nil
	})
	if err != nil {
		return err
	}

	for layer, set := range tips {
		for hash := range set {
			if _, ok := referenced[hash]; ok {
				delete(set, hash)
			}
		}
		if len(set) == 0 {
			delete(tips, layer)
		}
	}
	dag.Tips = tips
	return nil
}

// Dag returns the DAG for a given genesis timestamp.
func (s *Store) Dag(genesisTimestamp int64) (*DAG, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	dag, ok := s.dags[genesisTimestamp]
	return dag, ok
}

// SortDags returns DAGs newest-to-oldest by genesis timestamp, §4.I's
// sort_dags.
func (s *Store) SortDags() []*DAG {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]*DAG, 0, len(s.dags))
	for _, dag := range s.dags {
		out = append(out, dag)
	}
	sort.Slice(out, func(i, j int) bool {
		return out[i].GenesisTimestamp > out[j].GenesisTimestamp
	})
	return out
}

// HeaderLayer resolves a previously-inserted header's layer, satisfying
// ParentLookup for validation against a specific DAG.
func (s *Store) HeaderLayer(genesisTimestamp int64, hash common.Hash) (uint64, bool) {
	var header EventHeader
	found := false
	_ = s.db.View(func(txn *badger.Txn) error {
		item, err := txn.Get(headerKey(genesisTimestamp, hash))
		if err == badger.ErrKeyNotFound {
			return nil
		}
		if err != nil {
			return err
		}
		val, err := item.Value()
		if err != nil {
			return err
		}
		header, err = DecodeEventHeader(val)
		if err != nil {
			return err
		}
		found = true
		return nil
	})
	return header.Layer, found
}

// HasHeader reports whether the header tree for genesisTimestamp already
// holds hash.
func (s *Store) HasHeader(genesisTimestamp int64, hash common.Hash) bool {
	key := seenKey{genesisTimestamp, hash}
	if s.seenHeaders.Contains(key) {
		return true
	}
	_, ok := s.HeaderLayer(genesisTimestamp, hash)
	if ok {
		s.seenHeaders.Add(key, struct{}{})
	}
	return ok
}

// HasEvent reports whether the event tree for genesisTimestamp already
// holds hash.
func (s *Store) HasEvent(genesisTimestamp int64, hash common.Hash) bool {
	key := seenKey{genesisTimestamp, hash}
	if s.seenEvents.Contains(key) {
		return true
	}
	found := false
	_ = s.db.View(func(txn *badger.Txn) error {
		_, err := txn.Get(eventKey(genesisTimestamp, hash))
		found = err == nil
		return nil
	})
	if found {
		s.seenEvents.Add(key, struct{}{})
	}
	return found
}

// Event fetches a single event by hash from genesisTimestamp's event tree.
func (s *Store) Event(genesisTimestamp int64, hash common.Hash) (*Event, error) {
	var ev *Event
	err := s.db.View(func(txn *badger.Txn) error {
		item, err := txn.Get(eventKey(genesisTimestamp, hash))
		if err != nil {
			return err
		}
		val, err := item.Value()
		if err != nil {
			return err
		}
		ev, err = DecodeEvent(val)
		return err
	})
	if err != nil {
		return nil, err
	}
	return ev, nil
}
