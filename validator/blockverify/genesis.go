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
	"github.com/pkg/errors"

	"github.com/darkfi-go/darkfi/blockchain/types"
	"github.com/darkfi-go/darkfi/common"
	"github.com/darkfi-go/darkfi/validator/contracthost"
	"github.com/darkfi-go/darkfi/validator/txverify"
)

// DummySignature is the sentinel signature the genesis block must carry
// instead of a real producer signature, since there is no producer
// transaction to derive a signing key from, §4.F-genesis.
var DummySignature = []byte{}

// VerifyGenesisBlock verifies the chain's height-0 block, §4.F-genesis.
func VerifyGenesisBlock(c txverify.Collaborators, monotree contracthost.Monotree, block *types.Block, blockTarget uint64) error {
	if block.Header.Height != 0 {
		return ErrNotGenesis
	}
	if block.Header.Version != types.BlockVersion(0) {
		return ErrWrongVersion
	}
	if block.Header.PowData.Tag != types.PowDataDarkFi {
		return ErrGenesisWrongPowData
	}
	if len(block.Txs) == 0 {
		return ErrBlockNoTransactions
	}

	producer, err := block.ProducerTx()
	if err != nil {
		return err
	}
	if len(producer.Calls) != 0 {
		return ErrGenesisNonEmptyProducer
	}

	tree := c.Trees.New()
	if _, _, err := txverify.VerifyTransactions(c, 0, blockTarget, block.UserTxs(), tree, false); err != nil {
		return errors.Wrap(err, "verify genesis transactions")
	}

	if tree.Root() != common.Hash(block.Header.TransactionsRoot) {
		return ErrTransactionsRootMismatch
	}

	if err := monotree.Insert(nil); err != nil {
		return errors.Wrap(err, "update state monotree")
	}
	if monotree.HeadRoot() != common.Hash(block.Header.StateRoot) {
		return ErrStateRootMismatch
	}

	if string(block.Header.Signature) != string(DummySignature) {
		return ErrInvalidProducerSignature
	}

	return c.Overlay.Commit()
}
