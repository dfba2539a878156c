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

package txverify

import (
	"testing"

	"github.com/darkfi-go/darkfi/blockchain/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestVerifyTransactionsEmptyIsNoop(t *testing.T) {
	c, _ := newCollaborators(emptyMetadata())
	gasUsed, gasPaid, err := VerifyTransactions(c, 1, 120, nil, &fakeMerkleTree{}, false)
	require.NoError(t, err)
	assert.Zero(t, gasUsed)
	assert.Zero(t, gasPaid)
}

func TestVerifyTransactionsAllValid(t *testing.T) {
	c, _ := newCollaborators(emptyMetadata())
	txs := []types.Transaction{*genericCallTx(), *genericCallTx()}
	tree := &fakeMerkleTree{}

	gasUsed, _, err := VerifyTransactions(c, 1, 120, txs, tree, false)
	require.NoError(t, err)
	assert.Len(t, tree.leaves, 2)
	assert.NotZero(t, gasUsed) // serialized_tx_size contributes to signatures gas
}

func TestVerifyTransactionsRevertsErroneousTx(t *testing.T) {
	c, _ := newCollaborators(emptyMetadata())

	valid := genericCallTx()
	invalid := &types.Transaction{
		Calls: []types.CallNode{
			{Call: valid.Calls[0].Call},
		},
		Proofs:     [][][]byte{nil},
		Signatures: [][][]byte{{{0x01}}},
	}

	txs := []types.Transaction{*valid, *invalid}
	tree := &fakeMerkleTree{}
	_, _, err := VerifyTransactions(c, 1, 120, txs, tree, false)
	require.Error(t, err)

	var erroneous *ErroneousTxsError
	require.ErrorAs(t, err, &erroneous)
	assert.Len(t, erroneous.Txs, 1)
	assert.Len(t, tree.leaves, 1, "only the valid transaction should have been appended")
}

func TestApplyTransactionsSkipsVerification(t *testing.T) {
	host := &fakeHost{runtime: &fakeRuntime{metadata: emptyMetadata()}}
	c := Collaborators{
		Overlay: &fakeOverlay{},
		Host:    host,
		Store:   fakeStore{},
		Schnorr: &fakeSchnorr{valid: false}, // would fail VerifyTransaction, ignored here
		Zk:      &fakeZk{valid: false},
	}

	txs := []types.Transaction{*genericCallTx()}
	tree := &fakeMerkleTree{}
	err := ApplyTransactions(c, 1, 120, txs, tree)
	require.NoError(t, err)
	assert.Len(t, tree.leaves, 1)
}
