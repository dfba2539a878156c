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

package state

import "github.com/pkg/errors"

// Finalize implements §4.H's finalization rule: find the single longest
// fork with no competitors at the same length. If it exists and has
// non-zero length, replay its blocks into the canonical store and discard
// every other fork. If two or more forks share the maximum length, no
// finalization happens this round. Finalizing an empty fork set is a
// no-op, grounded on original_source's chain_finalization() fork_index=-2
// tie sentinel.
func (cs *ConsensusState) Finalize() error {
	if len(cs.Forks) == 0 {
		return nil
	}

	bestIndex := -1
	bestLen := 0
	tied := false
	for i, f := range cs.Forks {
		n := f.Len()
		switch {
		case n > bestLen:
			bestLen = n
			bestIndex = i
			tied = false
		case n == bestLen && n > 0:
			tied = true
		}
	}

	if bestIndex == -1 || bestLen == 0 || tied {
		return nil
	}

	winner := cs.Forks[bestIndex]
	for _, block := range winner.Blocks() {
		if err := cs.Canonical.Append(block); err != nil {
			return errors.Wrap(err, "finalize: append winning fork's block")
		}
	}
	for i, f := range cs.Forks {
		if i == bestIndex {
			continue
		}
		cs.Factory.Discard(f.Overlay, f.Monotree)
	}
	cs.Forks = nil
	return nil
}
