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

// Package fork implements §4.G: a candidate chain branching off the
// canonical blockchain, holding its own copy-on-write state overlay,
// monotree and PoW retarget history until it is finalized or discarded.
package fork

import (
	"github.com/pkg/errors"

	"github.com/darkfi-go/darkfi/blockchain/types"
	"github.com/darkfi-go/darkfi/common"
	"github.com/darkfi-go/darkfi/consensus/pow"
	"github.com/darkfi-go/darkfi/log"
	"github.com/darkfi-go/darkfi/validator/blockverify"
	"github.com/darkfi-go/darkfi/validator/contracthost"
	"github.com/darkfi-go/darkfi/validator/txverify"
)

var logger = log.NewModuleLogger(log.Fork)

// Factory mints the independent, copy-on-write overlay and monotree a new
// fork branches into, and purges them on failure. This stands in for the
// sled-subtree branch/purge operations of §4.G steps 2/4 the same way
// contracthost's interfaces stand in for the rest of the state backend:
// it is a seam, not an implementation kept in this module.
type Factory interface {
	NewOverlay(base contracthost.StateOverlay) contracthost.StateOverlay
	NewMonotree(base contracthost.Monotree) contracthost.Monotree
	// Discard purges the subtrees backing overlay/tree, §4.G step 4's
	// "purge the newly-created sled subtrees".
	Discard(overlay contracthost.StateOverlay, tree contracthost.Monotree)
}

// Proposal is a candidate block together with its claimed hash, §4.G step
// 1's `proposal.hash == proposal.block.hash()` precondition.
type Proposal struct {
	Hash  common.Hash
	Block *types.Block
}

var ErrProposalHashMismatch = errors.New("fork: proposal hash does not match its block's hash")

// Verify checks a proposal's self-consistency, §4.G step 1.
func (p *Proposal) Verify() error {
	if p.Hash != p.Block.Hash() {
		return ErrProposalHashMismatch
	}
	return nil
}

// Fork is the in-memory candidate chain of spec §3: a copy-on-write view
// of post-branch blocks and state changes, sharing the canonical chain up
// to a single branch point.
type Fork struct {
	Overlay  contracthost.StateOverlay
	Monotree contracthost.Monotree
	Module   *pow.Module
	Trees    contracthost.TreeFactory

	// Diffs holds per-block contract state diffs, spec §3's
	// "diffs: [state-diff]". Nothing in this module appends to it: Extend
	// leaves it unchanged and Clone only copies it. The diffs themselves
	// are produced and consumed inside the external StateOverlay/Monotree
	// collaborators.
	Diffs []map[string][]byte

	Proposals        []common.Hash
	LastProposalHash common.Hash

	// headers/blocks are the fork's own append-only history, parallel to
	// Proposals; headers[0] is the branch point's header (on the
	// canonical chain), not itself a fork proposal.
	headers []*types.Header
	blocks  []*types.Block
}

// New branches a fork off the canonical chain at branchPoint, §4.G step 2
// ("branch from the canonical chain at that point").
func New(factory Factory, base contracthost.StateOverlay, baseTree contracthost.Monotree, module *pow.Module, trees contracthost.TreeFactory, branchPoint *types.Header) *Fork {
	branchHash := branchPoint.Hash()
	return &Fork{
		Overlay:          factory.NewOverlay(base),
		Monotree:         factory.NewMonotree(baseTree),
		Module:           module.Clone(),
		Trees:            trees,
		LastProposalHash: branchHash,
		headers:          []*types.Header{branchPoint},
	}
}

// Clone duplicates a fork so an incoming proposal can extend it without
// mutating the fork other proposals may still be building on, §4.G step 2
// ("clone-extend the existing fork").
func (f *Fork) Clone(factory Factory) *Fork {
	return &Fork{
		Overlay:          factory.NewOverlay(f.Overlay),
		Monotree:         factory.NewMonotree(f.Monotree),
		Module:           f.Module.Clone(),
		Trees:            f.Trees,
		Diffs:            append([]map[string][]byte(nil), f.Diffs...),
		Proposals:        append([]common.Hash(nil), f.Proposals...),
		LastProposalHash: f.LastProposalHash,
		headers:          append([]*types.Header(nil), f.headers...),
		blocks:           append([]*types.Block(nil), f.blocks...),
	}
}

// Tip returns the header this fork's next proposal must extend: either the
// last appended block's header, or the branch point if the fork is empty.
func (f *Fork) Tip() *types.Header {
	return f.headers[len(f.headers)-1]
}

// Blocks returns the fork's accepted blocks in proposal order, used by
// consensus/state to replay a winning fork into the canonical chain.
func (f *Fork) Blocks() []*types.Block {
	return f.blocks
}

// Len reports how many proposals this fork has accepted, used by the
// finalization rule's longest-fork comparison, §4.H.
func (f *Fork) Len() int {
	return len(f.Proposals)
}

// Extend runs §4.F's verify_block against this fork's own overlay, PoW
// module and monotree, and on success records the block as the fork's new
// tip. c.Overlay is overridden with the fork's overlay regardless of what
// the caller passed in, since a fork's verification must always run
// against its own copy-on-write view.
func (f *Fork) Extend(c txverify.Collaborators, block *types.Block, verifyFees bool) error {
	c.Overlay = f.Overlay
	previous := f.Tip()

	if err := blockverify.VerifyBlock(c, f.Module, f.Monotree, block, previous, verifyFees); err != nil {
		return errors.Wrap(err, "extend fork")
	}

	difficulty, err := f.Module.NextDifficulty()
	if err != nil {
		return errors.Wrap(err, "compute next difficulty after extend")
	}
	f.Module.Append(&block.Header, difficulty)

	hash := block.Hash()
	f.Proposals = append(f.Proposals, hash)
	f.headers = append(f.headers, &block.Header)
	f.blocks = append(f.blocks, block)
	f.LastProposalHash = hash
	return nil
}
