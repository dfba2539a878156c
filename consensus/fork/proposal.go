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

package fork

import (
	"github.com/pkg/errors"

	"github.com/darkfi-go/darkfi/validator/txverify"
)

// VerifyForkProposal implements §4.G's `verify_fork_proposal`: the same
// procedure as verify_proposal minus the fork-location step, since the
// caller already knows which fork the proposal extends.
//
// On any verification error the fork's newly-allocated overlay/monotree
// subtrees are purged via factory, §4.G step 4; the fork itself is left
// unmodified on failure since Extend only appends its bookkeeping after a
// successful VerifyBlock call.
func VerifyForkProposal(factory Factory, f *Fork, c txverify.Collaborators, proposal *Proposal, verifyFees bool) error {
	if err := proposal.Verify(); err != nil {
		return err
	}
	if err := f.Extend(c, proposal.Block, verifyFees); err != nil {
		factory.Discard(f.Overlay, f.Monotree)
		return errors.Wrap(err, "verify fork proposal")
	}
	return nil
}
