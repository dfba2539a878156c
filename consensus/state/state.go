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

// Package state implements §4.H: the consensus state holding the
// canonical blockchain, the live PoW module, and the set of candidate
// forks extended by incoming proposals.
package state

import (
	"github.com/pkg/errors"
	"gopkg.in/fatih/set.v0"

	"github.com/darkfi-go/darkfi/blockchain/types"
	"github.com/darkfi-go/darkfi/common"
	"github.com/darkfi-go/darkfi/consensus/fork"
	"github.com/darkfi-go/darkfi/consensus/pow"
	"github.com/darkfi-go/darkfi/log"
	"github.com/darkfi-go/darkfi/validator/contracthost"
	"github.com/darkfi-go/darkfi/validator/txverify"
)

var logger = log.NewModuleLogger(log.ConsensusState)

// Blockchain is the canonical, already-finalized chain a ConsensusState
// branches forks from and replays winning forks back into, §4.G step 2
// and §4.H's finalization. Concrete storage is out of scope for this
// module, mirroring contracthost's external-collaborator seam.
type Blockchain interface {
	Tip() *types.Header
	HeaderByHash(hash common.Hash) (*types.Header, bool)
	// Overlay and Monotree are the canonical, committed state views a
	// newly branched fork's copy-on-write overlay/monotree wrap.
	Overlay() contracthost.StateOverlay
	Monotree() contracthost.Monotree
	Append(block *types.Block) error
}

var ErrNoBranchPoint = errors.New("state: previous header not found on canonical chain or any fork")

// ConsensusState holds the canonical blockchain, the live PoW module, and
// the candidate forks each accepted proposal extends, §4.H.
type ConsensusState struct {
	Canonical Blockchain
	Module    *pow.Module
	Factory   fork.Factory

	Forks []*fork.Fork

	// seenProposals guards against reprocessing an already-verified
	// proposal hash, the same role work/worker.go's ancestor/family sets
	// play for duplicate-uncle rejection. Lazily initialized so the zero
	// ConsensusState stays usable in struct-literal construction.
	seenProposals *set.Set
}

var ErrProposalAlreadySeen = errors.New("state: proposal already verified")

// VerifyProposal implements §4.G's `verify_proposal`: locate the fork
// whose tip matches the proposal's declared previous header, branching
// from the canonical chain when none does; verify the proposal against
// that fork; and return the (possibly new) fork together with the index
// of the fork it replaces, or nil if it was newly branched.
func (cs *ConsensusState) VerifyProposal(c txverify.Collaborators, proposal *fork.Proposal, verifyFees bool) (*fork.Fork, *int, error) {
	if err := proposal.Verify(); err != nil {
		return nil, nil, err
	}

	if cs.seenProposals == nil {
		cs.seenProposals = set.New()
	}
	if cs.seenProposals.Has(proposal.Hash) {
		return nil, nil, ErrProposalAlreadySeen
	}

	previous := proposal.Block.Header.Previous
	for i, f := range cs.Forks {
		if f.Tip().Hash() != previous {
			continue
		}
		index := i
		extended := f.Clone(cs.Factory)
		if err := extended.Extend(c, proposal.Block, verifyFees); err != nil {
			cs.Factory.Discard(extended.Overlay, extended.Monotree)
			return nil, nil, errors.Wrap(err, "verify proposal against existing fork")
		}
		cs.seenProposals.Add(proposal.Hash)
		return extended, &index, nil
	}

	branchPoint, ok := cs.Canonical.HeaderByHash(previous)
	if !ok {
		return nil, nil, ErrNoBranchPoint
	}

	newFork := fork.New(cs.Factory, cs.Canonical.Overlay(), cs.Canonical.Monotree(), cs.Module, c.Trees, branchPoint)
	if err := newFork.Extend(c, proposal.Block, verifyFees); err != nil {
		cs.Factory.Discard(newFork.Overlay, newFork.Monotree)
		return nil, nil, errors.Wrap(err, "verify proposal on new fork")
	}
	cs.seenProposals.Add(proposal.Hash)
	return newFork, nil, nil
}
