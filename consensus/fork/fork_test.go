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
	"math/big"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/darkfi-go/darkfi/blockchain/types"
	"github.com/darkfi-go/darkfi/common"
	"github.com/darkfi-go/darkfi/consensus/pow"
	"github.com/darkfi-go/darkfi/validator/contracthost"
	"github.com/darkfi-go/darkfi/validator/txverify"
)

type fakeOverlay struct{ discarded bool }

func (o *fakeOverlay) Get(tree string, key []byte) ([]byte, error) { return nil, nil }
func (o *fakeOverlay) Insert(tree string, key, value []byte) error { return nil }
func (o *fakeOverlay) Checkpoint() (func(), error)                 { return func() {}, nil }
func (o *fakeOverlay) Commit() error                               { return nil }

type fakeMonotree struct{ discarded bool }

func (m *fakeMonotree) Insert(diffs map[string][]byte) error { return nil }
func (m *fakeMonotree) HeadRoot() common.Hash                { return common.Hash{0x1} }

// fakeFactory mints fresh fakeOverlay/fakeMonotree copies and records
// discards, standing in for the sled-subtree branch/purge operations.
type fakeFactory struct {
	discards int
}

func (f *fakeFactory) NewOverlay(base contracthost.StateOverlay) contracthost.StateOverlay {
	return &fakeOverlay{}
}
func (f *fakeFactory) NewMonotree(base contracthost.Monotree) contracthost.Monotree {
	return &fakeMonotree{}
}
func (f *fakeFactory) Discard(overlay contracthost.StateOverlay, tree contracthost.Monotree) {
	f.discards++
}

func newTestPowModule() *pow.Module {
	return pow.NewModule(1_600_000_000, 120, big.NewInt(1), nil, common.Hash{0x01})
}

func TestNewBranchesAtBranchPoint(t *testing.T) {
	factory := &fakeFactory{}
	branchPoint := &types.Header{Height: 10}

	f := New(factory, &fakeOverlay{}, &fakeMonotree{}, newTestPowModule(), nil, branchPoint)

	assert.Equal(t, branchPoint.Hash(), f.LastProposalHash)
	assert.Equal(t, branchPoint.Hash(), f.Tip().Hash())
	assert.Equal(t, 0, f.Len())
}

func TestCloneCopiesProposalsIndependently(t *testing.T) {
	factory := &fakeFactory{}
	branchPoint := &types.Header{Height: 10}
	f := New(factory, &fakeOverlay{}, &fakeMonotree{}, newTestPowModule(), nil, branchPoint)
	f.Proposals = append(f.Proposals, common.Hash{0x1})

	clone := f.Clone(factory)
	clone.Proposals = append(clone.Proposals, common.Hash{0x2})

	assert.Len(t, f.Proposals, 1)
	assert.Len(t, clone.Proposals, 2)
	assert.NotSame(t, f.Overlay, clone.Overlay)
}

func TestProposalVerifyRejectsMismatchedHash(t *testing.T) {
	block := &types.Block{Header: types.Header{Height: 1}}
	p := &Proposal{Hash: common.Hash{0xff}, Block: block}

	err := p.Verify()
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrProposalHashMismatch)
}

func TestExtendRejectsWrongHeight(t *testing.T) {
	factory := &fakeFactory{}
	branchPoint := &types.Header{Height: 10}
	f := New(factory, &fakeOverlay{}, &fakeMonotree{}, newTestPowModule(), nil, branchPoint)

	block := &types.Block{Header: types.Header{
		Height:   99, // not branchPoint.Height+1
		Previous: branchPoint.Hash(),
	}}

	c := txverify.Collaborators{}
	err := f.Extend(c, block, false)
	require.Error(t, err)
	assert.Empty(t, f.Proposals)
}

func TestVerifyForkProposalDiscardsOnFailure(t *testing.T) {
	factory := &fakeFactory{}
	branchPoint := &types.Header{Height: 10}
	f := New(factory, &fakeOverlay{}, &fakeMonotree{}, newTestPowModule(), nil, branchPoint)

	block := &types.Block{Header: types.Header{Height: 2, Previous: branchPoint.Hash()}}
	proposal := &Proposal{Hash: block.Hash(), Block: block}

	err := VerifyForkProposal(factory, f, txverify.Collaborators{}, proposal, false)
	require.Error(t, err)
	assert.Equal(t, 1, factory.discards)
}
