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
	"time"

	"github.com/pkg/errors"

	"github.com/darkfi-go/darkfi/params"
)

// Prune implements §4.J's dag_prune: add a new DAG seeded with its own
// genesis at newGenesisTimestamp, then drop whichever existing DAG is now
// oldest once more than DAGS_MAX_NUMBER are retained, §4.I's overflow
// rule.
func (s *Store) Prune(newGenesisTimestamp int64) error {
	if err := s.ensureGenesisAt(newGenesisTimestamp); err != nil {
		return errors.Wrap(err, "prune: seed new genesis")
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	for len(s.dags) > params.DagsMaxNumber {
		oldest := int64(1<<63 - 1)
		for ts := range s.dags {
			if ts < oldest {
				oldest = ts
			}
		}
		delete(s.dags, oldest)
		logger.Info("dropped oldest eventgraph dag past the retention window", "timestamp_ms", oldest)
	}
	return s.persistGenesisTimestamps()
}

// RunPruneTask blocks until ctx is cancelled, waking at each rotation
// boundary to call Prune deterministically — the background pruning task
// of §4.J. A zero rotation period means rotation is disabled and the task
// exits immediately, matching EnsureGenesis's single-genesis behavior.
func (s *Store) RunPruneTask(ctx context.Context) error {
	period := s.rotationPeriodMillis()
	if period == 0 {
		return nil
	}

	for {
		nowMs := time.Now().UnixMilli()
		elapsed := nowMs - params.EventGraphInitialGenesis
		nextBoundary := params.EventGraphInitialGenesis + (elapsed/period+1)*period
		wait := time.Duration(nextBoundary-nowMs) * time.Millisecond

		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(wait):
			if err := s.Prune(nextBoundary); err != nil {
				logger.Error("eventgraph prune task failed", "err", err)
			}
		}
	}
}
