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
	"testing"

	"github.com/darkfi-go/darkfi/blockchain/types"
	"github.com/darkfi-go/darkfi/common"
	"github.com/darkfi-go/darkfi/validator/txverify"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newGenesisCollaborators(metadata []byte) txverify.Collaborators {
	return txverify.Collaborators{
		Overlay: &fakeOverlay{},
		Host:    &fakeHost{runtime: &fakeRuntime{metadata: metadata}},
		Store:   fakeStore{},
		Schnorr: &fakeSchnorr{valid: true},
		Zk:      &fakeZk{valid: true},
		Trees:   &fakeTreeFactory{},
	}
}

func genesisBlock() *types.Block {
	return &types.Block{
		Header: types.Header{
			Height:  0,
			Version: types.BlockVersion(0),
			PowData: types.PowData{Tag: types.PowDataDarkFi},
		},
		Txs: []types.Transaction{
			{
				Calls:      []types.CallNode{{Call: types.ContractCall{ContractID: common.ContractID{0x99}, Data: []byte{0x05}}}},
				Proofs:     [][][]byte{nil},
				Signatures: [][][]byte{nil},
			},
			{Calls: nil, Proofs: nil, Signatures: nil},
		},
	}
}

func TestVerifyGenesisBlockSucceeds(t *testing.T) {
	c := newGenesisCollaborators(emptyMetadataForGenesis())
	block := genesisBlock()
	monotree := &fakeMonotree{}

	err := VerifyGenesisBlock(c, monotree, block, 120)
	require.NoError(t, err)
}

func TestVerifyGenesisBlockRejectsNonZeroHeight(t *testing.T) {
	c := newGenesisCollaborators(emptyMetadataForGenesis())
	block := genesisBlock()
	block.Header.Height = 1

	err := VerifyGenesisBlock(c, &fakeMonotree{}, block, 120)
	assert.ErrorIs(t, err, ErrNotGenesis)
}

func TestVerifyGenesisBlockRejectsNonEmptyProducer(t *testing.T) {
	c := newGenesisCollaborators(emptyMetadataForGenesis())
	block := genesisBlock()
	block.Txs[len(block.Txs)-1].Calls = []types.CallNode{
		{Call: types.ContractCall{ContractID: common.ContractID{0x01}, Data: []byte{0x01}}},
	}

	err := VerifyGenesisBlock(c, &fakeMonotree{}, block, 120)
	assert.ErrorIs(t, err, ErrGenesisNonEmptyProducer)
}

func TestVerifyGenesisBlockRejectsWrongPowDataTag(t *testing.T) {
	c := newGenesisCollaborators(emptyMetadataForGenesis())
	block := genesisBlock()
	block.Header.PowData.Tag = types.PowDataMonero

	err := VerifyGenesisBlock(c, &fakeMonotree{}, block, 120)
	assert.ErrorIs(t, err, ErrGenesisWrongPowData)
}

func TestVerifyGenesisBlockRejectsStateRootMismatch(t *testing.T) {
	c := newGenesisCollaborators(emptyMetadataForGenesis())
	block := genesisBlock()
	monotree := &fakeMonotree{root: common.Hash{0x01}}

	err := VerifyGenesisBlock(c, monotree, block, 120)
	assert.ErrorIs(t, err, ErrStateRootMismatch)
}

func emptyMetadataForGenesis() []byte {
	return encodeMetadataSig()
}
