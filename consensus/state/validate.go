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

import (
	"github.com/darkfi-go/darkfi/blockchain/types"
	"github.com/darkfi-go/darkfi/validator/blockverify"
)

// ValidateChain re-applies §4.F's block invariants over an entire header
// chain against a scratch PoW module, §4.H's "Blockchain validation
// (offline)". It is a thin pass-through to validator/blockverify, which
// already owns the per-block replay loop; this module only supplies the
// scratch module instance so its own retarget history never observes the
// offline replay.
func (cs *ConsensusState) ValidateChain(headers []types.Header) error {
	scratch := cs.Module.Clone()
	return blockverify.ValidateBlockchain(headers, scratch)
}
