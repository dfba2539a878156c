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

// Package blockverify implements §4.F: block-level invariant checks,
// genesis and checkpoint (trust-replay) variants, and the producer
// transaction that authorizes a block.
package blockverify

import "github.com/pkg/errors"

var (
	ErrBlockAlreadyExists       = errors.New("blockverify: block already exists")
	ErrBlockNoTransactions      = errors.New("blockverify: block contains no transactions")
	ErrBlockIsInvalid           = errors.New("blockverify: block is invalid")
	ErrWrongVersion             = errors.New("blockverify: header version does not match expected")
	ErrWrongPrevious            = errors.New("blockverify: header previous hash mismatch")
	ErrWrongHeight              = errors.New("blockverify: header height is not previous+1")
	ErrTransactionsRootMismatch = errors.New("blockverify: transactions merkle root mismatch")
	ErrStateRootNotFound        = errors.New("blockverify: contracts state root not found")
	ErrStateRootMismatch        = errors.New("blockverify: contracts state root mismatch")
	ErrInvalidProducerSignature = errors.New("blockverify: producer signature verification failed")
	ErrNotGenesis               = errors.New("blockverify: height is not zero")
	ErrGenesisWrongPowData      = errors.New("blockverify: genesis block must use DarkFi pow data")
	ErrGenesisNonEmptyProducer  = errors.New("blockverify: genesis producer transaction must be the default transaction")
)
