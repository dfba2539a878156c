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

// VerifyCheckpointBlock re-applies a block already known to be canonical
// (trust-replay, §4.F checkpoint variant): it skips signature/ZK/WASM
// metadata verification on user transactions and only re-executes their
// state updates, but still recomputes and checks both merkle roots and the
// producer signature, and still requires the block's hash to equal the
// caller-supplied expected header hash.
func VerifyCheckpointBlock(c txverify.Collaborators, monotree contracthost.Monotree, block *types.Block, expectedHeader common.Hash, blockTarget uint64) error {
	blockHash := common.Hash(block.Hash())
	if blockHash != expectedHeader {
		return ErrBlockIsInvalid
	}
	if len(block.Txs) == 0 {
		return ErrBlockNoTransactions
	}

	tree := c.Trees.New()
	if err := txverify.ApplyTransactions(c, block.Header.Height, blockTarget, block.UserTxs(), tree); err != nil {
		logger.Warn("erroneous transactions found in checkpoint block", "err", err)
		return err
	}

	producer, err := block.ProducerTx()
	if err != nil {
		return err
	}
	publicKey, err := ApplyProducerTransaction(c, block.Header.Height, blockTarget, producer, tree)
	if err != nil {
		return errors.Wrap(err, "apply producer transaction")
	}

	if tree.Root() != common.Hash(block.Header.TransactionsRoot) {
		return ErrTransactionsRootMismatch
	}

	if err := monotree.Insert(nil); err != nil {
		return errors.Wrap(err, "update state monotree")
	}
	stateRoot := monotree.HeadRoot()
	if stateRoot.IsZero() {
		return ErrStateRootNotFound
	}
	if stateRoot != common.Hash(block.Header.StateRoot) {
		return ErrStateRootMismatch
	}

	if err := VerifyProducerSignature(&block.Header, publicKey, c.Schnorr); err != nil {
		return err
	}

	return c.Overlay.Commit()
}
