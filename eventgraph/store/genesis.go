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
	"time"

	"github.com/dgraph-io/badger"
	"github.com/pkg/errors"

	"github.com/darkfi-go/darkfi/common"
	"github.com/darkfi-go/darkfi/params"
)

// rotationPeriodMillis returns the configured rotation period in
// milliseconds, or 0 when rotation is disabled.
func (s *Store) rotationPeriodMillis() int64 {
	if s.rotationHours <= 0 {
		return 0
	}
	return int64(s.rotationHours) * int64(time.Hour/time.Millisecond)
}

// EnsureGenesis implements §4.I's genesis generation rule: with rotation
// enabled, create (if absent) a genesis for each of the last
// DAGS_MAX_NUMBER rotation boundaries, UTC-aligned at
// EventGraphInitialGenesis plus a whole number of rotation periods; with
// rotation disabled, a single zero-timestamp genesis.
func (s *Store) EnsureGenesis() error {
	period := s.rotationPeriodMillis()
	if period == 0 {
		return s.ensureGenesisAt(0)
	}

	nowMs := time.Now().UnixMilli()
	elapsed := nowMs - params.EventGraphInitialGenesis
	currentBoundary := params.EventGraphInitialGenesis + (elapsed/period)*period

	for k := 0; k < params.DagsMaxNumber; k++ {
		boundary := currentBoundary - int64(k)*period
		if boundary < params.EventGraphInitialGenesis {
			break
		}
		if err := s.ensureGenesisAt(boundary); err != nil {
			return err
		}
	}
	return nil
}

// ensureGenesisAt creates the genesis DAG at ts if it does not already
// exist, returning nil if it already does.
func (s *Store) ensureGenesisAt(ts int64) error {
	s.mu.RLock()
	_, exists := s.dags[ts]
	s.mu.RUnlock()
	if exists {
		return nil
	}

	genesis := NewGenesisEvent(ts)
	hash := genesis.Hash()

	err := s.db.Update(func(txn *badger.Txn) error {
		if _, err := txn.Get(eventKey(ts, hash)); err == nil {
			return ErrGenesisTimestampCollision
		} else if err != badger.ErrKeyNotFound {
			return err
		}
		if err := txn.Set(eventKey(ts, hash), genesis.Encode()); err != nil {
			return err
		}
		return txn.Set(headerKey(ts, hash), genesis.Header.Encode())
	})
	if err != nil {
		return errors.Wrapf(err, "create genesis dag at %d", ts)
	}

	dag := &DAG{GenesisTimestamp: ts, Tips: NewLayerUTips()}
	dag.Tips.Add(0, hash)

	s.mu.Lock()
	s.dags[ts] = dag
	persistErr := s.persistGenesisTimestamps()
	s.mu.Unlock()
	if persistErr != nil {
		return errors.Wrap(persistErr, "persist genesis timestamp")
	}

	logger.Info("created eventgraph genesis dag", "timestamp_ms", ts)
	return nil
}

// dagLookup adapts a (Store, genesis timestamp) pair to ParentLookup, so
// header/event validation can resolve a candidate's parents against a
// specific rotation's header tree.
type dagLookup struct {
	store *Store
	ts    int64
}

func (l dagLookup) Layer(hash common.Hash) (uint64, bool) {
	return l.store.HeaderLayer(l.ts, hash)
}
