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
	"sort"

	"github.com/darkfi-go/darkfi/common"
)

// OrderEvents implements §4.J's order_events: gather every DAG's current
// tips, run a non-recursive DFS from each collecting every reachable
// event, then stable-sort the result by timestamp ascending. This is for
// presentation only — insertion order never depends on it.
func (s *Store) OrderEvents(genesisTimestamp int64) ([]*Event, error) {
	dag, ok := s.Dag(genesisTimestamp)
	if !ok {
		return nil, ErrDagNotFound
	}

	dag.mu.RLock()
	tips := dag.Tips.All()
	dag.mu.RUnlock()

	seen := make(map[common.Hash]struct{})
	var out []*Event

	for _, tip := range tips {
		stack := []common.Hash{tip}
		for len(stack) > 0 {
			hash := stack[len(stack)-1]
			stack = stack[:len(stack)-1]
			if _, ok := seen[hash]; ok {
				continue
			}
			seen[hash] = struct{}{}

			ev, err := s.Event(genesisTimestamp, hash)
			if err != nil {
				continue // pruned or not yet synced; skip rather than fail the whole walk
			}
			out = append(out, ev)

			for _, p := range ev.Header.Parents {
				if !p.IsZero() {
					stack = append(stack, p)
				}
			}
		}
	}

	sort.SliceStable(out, func(i, j int) bool {
		return out[i].Header.TimestampMillis < out[j].Header.TimestampMillis
	})
	return out, nil
}

// FetchSuccessorsOf returns every event in the given DAG (tips and
// non-tips alike) that lists hash as one of its ancestors, used by sync to
// figure out which locally-known events already cover a peer's reported
// tip.
func (s *Store) FetchSuccessorsOf(genesisTimestamp int64, hash common.Hash) ([]common.Hash, error) {
	events, err := s.OrderEvents(genesisTimestamp)
	if err != nil {
		return nil, err
	}

	reaches := make(map[common.Hash]bool)
	reaches[hash] = true
	var successors []common.Hash
	// events is ordered oldest-ish by timestamp but not topologically; a
	// second pass is safe since reaches only grows monotonically and
	// parents are always processed whenever they appear, re-run until
	// stable.
	for changed := true; changed; {
		changed = false
		for _, ev := range events {
			id := ev.Hash()
			if reaches[id] {
				continue
			}
			for _, p := range ev.Header.Parents {
				if reaches[p] {
					reaches[id] = true
					successors = append(successors, id)
					changed = true
					break
				}
			}
		}
	}
	return successors, nil
}
