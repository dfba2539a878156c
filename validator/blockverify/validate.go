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

package blockverify

import (
	"time"

	"github.com/darkfi-go/darkfi/blockchain/types"
	"github.com/darkfi-go/darkfi/consensus/pow"
	"github.com/darkfi-go/darkfi/log"
)

var logger = log.NewModuleLogger(log.BlockVerify)

// ValidateBlock applies the block-level invariants of §3/§4.F: version,
// previous-hash linkage, height continuity, the timestamp median rule, and
// the PoW hash-against-target check.
func ValidateBlock(header *types.Header, previous *types.Header, module *pow.Module) error {
	if header.Version != types.BlockVersion(header.Height) {
		return ErrWrongVersion
	}
	if header.Previous != previous.Hash() {
		return ErrWrongPrevious
	}
	if header.Height != previous.Height+1 {
		return ErrWrongHeight
	}
	return module.VerifyCurrentBlock(header, time.Now())
}

// ValidateBlockchain replays an entire chain of headers against a scratch
// PoW module, §4.H "Blockchain validation (offline)": each non-genesis
// block is validated against its predecessor and then folded into the
// module's retarget history before moving to the next.
func ValidateBlockchain(headers []types.Header, module *pow.Module) error {
	for i := 1; i < len(headers); i++ {
		if err := ValidateBlock(&headers[i], &headers[i-1], module); err != nil {
			return err
		}
		difficulty, err := module.NextDifficulty()
		if err != nil {
			return err
		}
		module.Append(&headers[i], difficulty)
	}
	return nil
}
