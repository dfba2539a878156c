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

// VerifyProducerTransaction verifies the block's trailing, PoW-reward
// transaction (§4.F step 5 / §4.E-lite): a single call, exactly one ZK
// proof and one signature public key, which becomes the block's signing
// key once the signature itself is verified by the caller.
func VerifyProducerTransaction(c txverify.Collaborators, height uint32, target uint64, tx *types.Transaction, tree contracthost.MerkleTree) (common.PublicKey, error) {
	var zero common.PublicKey
	txHash := tx.Hash()

	if len(tx.Calls) != 1 {
		return zero, txverify.ErrNotSingleCall
	}
	if !contracthost.IsMoneyPoWReward(tx.Calls[0].Call.ContractID, tx.Calls[0].Call.Data) {
		return zero, txverify.ErrNotPowReward
	}
	call := tx.Calls[0].Call

	payload := tx.EncodeCalls()
	runtime, err := c.Host.Instantiate(call.ContractID, c.Overlay, height, target, txHash, 0)
	if err != nil {
		return zero, errors.Wrap(err, "instantiate producer runtime")
	}

	metadata, err := runtime.Metadata(payload)
	if err != nil {
		return zero, errors.Wrap(err, "execute producer metadata call")
	}
	zkPub, sigPub, err := contracthost.DecodeMetadata(metadata)
	if err != nil {
		return zero, errors.Wrap(err, "decode producer metadata")
	}
	if len(zkPub) != 1 || len(sigPub) != 1 {
		return zero, txverify.ErrNotSingleCall
	}
	signingKey := sigPub[0]

	vk, _, err := c.Store.LookupZkBin(call.ContractID, zkPub[0].Namespace)
	if err != nil {
		return zero, errors.Wrap(err, "lookup producer zkas")
	}

	execOut, err := runtime.Exec(payload)
	if err != nil {
		return zero, errors.Wrap(err, "execute producer exec call")
	}
	stateUpdate := append([]byte{call.Data[0]}, execOut...)
	if err := runtime.Apply(stateUpdate); err != nil {
		return zero, errors.Wrap(err, "apply producer state update")
	}

	if len(tx.Signatures) != 1 || len(tx.Signatures[0]) != 1 {
		return zero, txverify.ErrMissingSignatures
	}
	if !c.Schnorr.Verify(signingKey, txHash, tx.Signatures[0][0]) {
		return zero, txverify.ErrInvalidSignature
	}

	if len(tx.Proofs) != 1 || len(tx.Proofs[0]) != 1 {
		return zero, txverify.ErrInvalidZkProof
	}
	inputs := encodeZkInputs(zkPub[0].Inputs)
	ok, err := c.Zk.Verify(vk, tx.Proofs[0][0], inputs)
	if err != nil || !ok {
		return zero, txverify.ErrInvalidZkProof
	}

	tree.Append(txHash)
	return signingKey, nil
}

// ApplyProducerTransaction applies the producer transaction without formal
// verification, used by the checkpoint (trust-replay) variant, §4.F.
func ApplyProducerTransaction(c txverify.Collaborators, height uint32, target uint64, tx *types.Transaction, tree contracthost.MerkleTree) (common.PublicKey, error) {
	var zero common.PublicKey
	if len(tx.Calls) != 1 {
		return zero, txverify.ErrNotSingleCall
	}
	txHash := tx.Hash()
	call := tx.Calls[0].Call

	payload := tx.EncodeCalls()
	runtime, err := c.Host.Instantiate(call.ContractID, c.Overlay, height, target, txHash, 0)
	if err != nil {
		return zero, err
	}

	metadata, err := runtime.Metadata(payload)
	if err != nil {
		return zero, err
	}
	_, sigPub, err := contracthost.DecodeMetadata(metadata)
	if err != nil {
		return zero, err
	}
	if len(sigPub) != 1 {
		return zero, txverify.ErrNotSingleCall
	}
	signingKey := sigPub[0]

	execOut, err := runtime.Exec(payload)
	if err != nil {
		return zero, err
	}
	stateUpdate := append([]byte{call.Data[0]}, execOut...)
	if err := runtime.Apply(stateUpdate); err != nil {
		return zero, err
	}

	tree.Append(txHash)
	return signingKey, nil
}

// VerifyProducerSignature verifies the block header's signature against
// the public key recovered from the producer transaction, §4.F step 8.
func VerifyProducerSignature(header *types.Header, pubkey common.PublicKey, schnorr contracthost.SchnorrVerifier) error {
	if !schnorr.Verify(pubkey, header.Hash(), header.Signature) {
		return ErrInvalidProducerSignature
	}
	return nil
}

func encodeZkInputs(inputs []common.Hash) []byte {
	out := make([]byte, 0, len(inputs)*common.HashLength)
	for _, h := range inputs {
		out = append(out, h[:]...)
	}
	return out
}
