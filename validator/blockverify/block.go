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
	"github.com/darkfi-go/darkfi/consensus/pow"
	"github.com/darkfi-go/darkfi/validator/contracthost"
	"github.com/darkfi-go/darkfi/validator/txverify"
)

// VerifyBlock is the full block verification pipeline, §4.F steps 1-9: it
// validates the header against previous, verifies every user transaction
// and the trailing producer transaction, checks both merkle roots, and
// finally the producer's header signature. On success the block is
// committed to the overlay.
func VerifyBlock(c txverify.Collaborators, module *pow.Module, monotree contracthost.Monotree, block *types.Block, previous *types.Header, verifyFees bool) error {
	if err := ValidateBlock(&block.Header, previous, module); err != nil {
		return errors.Wrap(err, "validate block")
	}
	if len(block.Txs) == 0 {
		return ErrBlockNoTransactions
	}

	target := uint64(module.TargetSeconds)

	tree := c.Trees.New()
	if _, _, err := txverify.VerifyTransactions(c, block.Header.Height, target, block.UserTxs(), tree, verifyFees); err != nil {
		logger.Warn("erroneous transactions found in block", "err", err)
		return err
	}

	producer, err := block.ProducerTx()
	if err != nil {
		return err
	}
	publicKey, err := VerifyProducerTransaction(c, block.Header.Height, target, producer, tree)
	if err != nil {
		return errors.Wrap(err, "verify producer transaction")
	}

	if tree.Root() != common.Hash(block.Header.TransactionsRoot) {
		logger.Error("block merkle tree root is invalid", "block", block.Hash())
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
