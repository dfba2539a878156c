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

import (
	"encoding/binary"
	"errors"

	"github.com/darkfi-go/darkfi/common"
	"github.com/darkfi-go/darkfi/params"
	"golang.org/x/crypto/blake2b"
)

var (
	ErrTxTooFewCalls      = errors.New("transaction has fewer than MIN_TX_CALLS calls")
	ErrTxTooManyCalls     = errors.New("transaction has more than MAX_TX_CALLS calls")
	ErrTxBadForest        = errors.New("transaction call forest is malformed")
	ErrTxGasDataMismatch  = errors.New("transaction proofs/signatures array length mismatch with calls")
)

// Transaction is the ordered forest of ContractCalls described in spec §3,
// with parallel proofs/signatures arrays indexed by call position.
type Transaction struct {
	Calls      []CallNode
	Proofs     [][][]byte // Proofs[call_idx] = list of serialized ZK proofs
	Signatures [][][]byte // Signatures[call_idx] = list of serialized signatures
}

// ValidateForestIntegrity checks the parent/child-index invariants of §3:
// each node's children_indexes are strictly greater indices, parent_index
// resolves to an earlier node (or is nil at a root), and the call count is
// within [MIN_TX_CALLS, effectiveMax].
func (tx *Transaction) ValidateForestIntegrity(effectiveMax int) error {
	n := len(tx.Calls)
	if n < params.MinTxCalls {
		return ErrTxTooFewCalls
	}
	if n > effectiveMax {
		return ErrTxTooManyCalls
	}
	if len(tx.Proofs) != n || len(tx.Signatures) != n {
		return ErrTxGasDataMismatch
	}

	for i, node := range tx.Calls {
		if node.ParentIndex != nil {
			p := int(*node.ParentIndex)
			if p < 0 || p >= n || p >= i {
				return ErrTxBadForest
			}
		}
		for _, c := range node.ChildrenIndexes {
			if int(c) <= i || int(c) >= n {
				return ErrTxBadForest
			}
		}
	}
	return nil
}

// EncodeCalls produces the canonical payload used as the "default payload"
// in §4.E step 2: the ordered encoding of every call in the transaction.
func (tx *Transaction) EncodeCalls() []byte {
	return encodeCalls(tx.Calls)
}

// EncodeSingleCall re-encodes a payload consisting of only the call at
// index idx, used for the Money-Fee call per §4.E step 2b.
func (tx *Transaction) EncodeSingleCall(idx int) []byte {
	return encodeCalls([]CallNode{tx.Calls[idx]})
}

func encodeCalls(calls []CallNode) []byte {
	var out []byte
	var countBuf [4]byte
	binary.LittleEndian.PutUint32(countBuf[:], uint32(len(calls)))
	out = append(out, countBuf[:]...)

	for _, node := range calls {
		out = append(out, node.Call.ContractID[:]...)

		var dlen [4]byte
		binary.LittleEndian.PutUint32(dlen[:], uint32(len(node.Call.Data)))
		out = append(out, dlen[:]...)
		out = append(out, node.Call.Data...)

		if node.ParentIndex != nil {
			out = append(out, 1, byte(*node.ParentIndex))
		} else {
			out = append(out, 0, 0)
		}

		var clen [4]byte
		binary.LittleEndian.PutUint32(clen[:], uint32(len(node.ChildrenIndexes)))
		out = append(out, clen[:]...)
		for _, c := range node.ChildrenIndexes {
			var cb [4]byte
			binary.LittleEndian.PutUint32(cb[:], c)
			out = append(out, cb[:]...)
		}
	}
	return out
}

// Hash returns the transaction's identity hash, used as the ZK/signature
// message and as the Merkle tree leaf, §4.E steps 8 & 10.
func (tx *Transaction) Hash() common.Hash {
	payload := tx.EncodeCalls()
	var proofsLen, sigsLen [4]byte
	binary.LittleEndian.PutUint32(proofsLen[:], uint32(len(tx.Proofs)))
	binary.LittleEndian.PutUint32(sigsLen[:], uint32(len(tx.Signatures)))
	payload = append(payload, proofsLen[:]...)
	payload = append(payload, sigsLen[:]...)
	for _, ps := range tx.Proofs {
		for _, p := range ps {
			payload = append(payload, p...)
		}
	}
	for _, ss := range tx.Signatures {
		for _, s := range ss {
			payload = append(payload, s...)
		}
	}
	return blake2b.Sum256(payload)
}

// SerializedSize returns the byte length of the transaction's canonical
// encoding, used in gas_data.signatures's serialized_tx_size term, §4.E
// step 4.
func (tx *Transaction) SerializedSize() uint64 {
	size := uint64(len(tx.EncodeCalls()))
	for _, ps := range tx.Proofs {
		for _, p := range ps {
			size += uint64(len(p))
		}
	}
	for _, ss := range tx.Signatures {
		for _, s := range ss {
			size += uint64(len(s))
		}
	}
	return size
}
