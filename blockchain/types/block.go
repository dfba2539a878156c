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

package types

import "errors"

var ErrBlockNoTransactions = errors.New("block contains no transactions")

// Block is {header, txs} with txs non-empty; the last element is the
// producer transaction, §3.
type Block struct {
	Header Header
	Txs    []Transaction
}

// UserTxs returns every transaction except the trailing producer
// transaction.
func (b *Block) UserTxs() []Transaction {
	if len(b.Txs) == 0 {
		return nil
	}
	return b.Txs[:len(b.Txs)-1]
}

// ProducerTx returns the block's last transaction, which authorizes the
// block via its single ZK proof and signature public key, §4.F step 5.
func (b *Block) ProducerTx() (*Transaction, error) {
	if len(b.Txs) == 0 {
		return nil, ErrBlockNoTransactions
	}
	return &b.Txs[len(b.Txs)-1], nil
}

// Hash delegates to the header: a block's identity is its header's hash.
func (b *Block) Hash() [32]byte {
	return b.Header.Hash()
}

// GasData accumulates the gas subtotals computed by verify_transaction,
// §4.E return value.
type GasData struct {
	Wasm        uint64
	Deployments uint64
	Signatures  uint64
	ZkCircuits  uint64
	Paid        uint64
}

// SaturatingAdd adds other into gd using saturating arithmetic, per the
// spec's explicit recommendation (§9 open question on gas overflow) rather
// than plain +=.
func (gd *GasData) SaturatingAdd(other GasData) {
	gd.Wasm = saturatingAddU64(gd.Wasm, other.Wasm)
	gd.Deployments = saturatingAddU64(gd.Deployments, other.Deployments)
	gd.Signatures = saturatingAddU64(gd.Signatures, other.Signatures)
	gd.ZkCircuits = saturatingAddU64(gd.ZkCircuits, other.ZkCircuits)
	gd.Paid = saturatingAddU64(gd.Paid, other.Paid)
}

// Total sums the four cost components (not Paid) with saturating
// arithmetic, §4.E step 6.
func (gd *GasData) Total() uint64 {
	total := saturatingAddU64(gd.Wasm, gd.Deployments)
	total = saturatingAddU64(total, gd.Signatures)
	total = saturatingAddU64(total, gd.ZkCircuits)
	return total
}

func saturatingAddU64(a, b uint64) uint64 {
	sum := a + b
	if sum < a {
		return ^uint64(0)
	}
	return sum
}
