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
	"github.com/pkg/errors"

	"github.com/darkfi-go/darkfi/blockchain/types"
	"github.com/darkfi-go/darkfi/common"
	"github.com/darkfi-go/darkfi/log"
	"github.com/darkfi-go/darkfi/params"
	"github.com/darkfi-go/darkfi/validator/contracthost"
	"github.com/darkfi-go/darkfi/validator/fees"
)

var logger = log.NewModuleLogger(log.TxVerify)

// VerifyTransaction runs the call-ordered verification algorithm of §4.E
// against a single transaction, returning its gas subtotals on success.
// vkMap is shared and mutated across an entire transaction batch so
// verifying keys are looked up from the contract store at most once.
func VerifyTransaction(c Collaborators, height uint32, target uint64, tx *types.Transaction, tree contracthost.MerkleTree, vkMap VkMap, verifyFee bool) (types.GasData, error) {
	var gasData types.GasData
	txHash := tx.Hash()

	effectiveMax := params.MaxTxCalls
	minCalls := params.MinTxCalls
	if verifyFee {
		minCalls = params.MinTxCalls + 1
	}
	if err := tx.ValidateForestIntegrity(effectiveMax); err != nil {
		return gasData, err
	}
	if len(tx.Calls) < minCalls {
		return gasData, types.ErrTxTooFewCalls
	}

	feeCallIdx := -1
	if verifyFee {
		for idx, node := range tx.Calls {
			if !contracthost.IsMoneyFee(node.Call.ContractID, node.Call.Data) {
				continue
			}
			if feeCallIdx != -1 {
				logger.Warn("transaction contains multiple fee payment calls", "tx", txHash)
				return gasData, ErrInvalidFee
			}
			feeCallIdx = idx
		}
		if feeCallIdx == -1 {
			logger.Warn("transaction does not contain a fee payment call", "tx", txHash)
			return gasData, ErrInvalidFee
		}
	}

	defaultPayload := tx.EncodeCalls()

	var zkpTable [][]contracthost.ZkPublicInput
	var sigTable [][]common.PublicKey
	var circuitsToVerify [][]byte

	for idx, node := range tx.Calls {
		call := node.Call

		if contracthost.IsMoneyPoWReward(call.ContractID, call.Data) {
			return gasData, ErrPowRewardOutsideProducer
		}

		var callIndex uint32
		var payload []byte
		if contracthost.IsMoneyFee(call.ContractID, call.Data) {
			payload = tx.EncodeSingleCall(idx)
			callIndex = 0
		} else {
			payload = defaultPayload
			callIndex = uint32(idx)
		}

		runtime, err := c.Host.Instantiate(call.ContractID, c.Overlay, height, target, txHash, callIndex)
		if err != nil {
			return gasData, errors.Wrap(err, "instantiate wasm runtime")
		}

		metadata, err := runtime.Metadata(payload)
		if err != nil {
			return gasData, errors.Wrap(err, "execute metadata call")
		}
		zkPub, sigPub, err := contracthost.DecodeMetadata(metadata)
		if err != nil {
			return gasData, errors.Wrapf(err, "decode metadata for call %d", idx)
		}

		inner := vkMap.forContract(call.ContractID)
		for _, entry := range zkPub {
			if _, ok := inner[entry.Namespace]; ok {
				continue
			}
			zkbin, vk, err := c.Store.LookupZkBin(call.ContractID, entry.Namespace)
			if err != nil {
				return gasData, errors.Wrapf(err, "lookup zkas %s", entry.Namespace)
			}
			inner[entry.Namespace] = vk
			circuitsToVerify = append(circuitsToVerify, zkbin)
		}

		zkpTable = append(zkpTable, zkPub)
		sigTable = append(sigTable, sigPub)

		execOut, err := runtime.Exec(payload)
		if err != nil {
			return gasData, errors.Wrap(err, "execute exec call")
		}
		stateUpdate := append([]byte{selectorOf(call.Data)}, execOut...)
		if err := runtime.Apply(stateUpdate); err != nil {
			return gasData, errors.Wrap(err, "apply state update")
		}

		if contracthost.IsDeployment(call.ContractID, call.Data) {
			deployParams, err := contracthost.DecodeDeployParams(call.Data[1:])
			if err != nil {
				return gasData, errors.Wrap(err, "decode deploy params")
			}
			deployCid := contracthost.DerivePublicContractID(deployParams.PublicKey)
			deployRuntime, err := c.Host.Instantiate(deployCid, c.Overlay, height, target, txHash, callIndex)
			if err != nil {
				return gasData, errors.Wrap(err, "instantiate deploy runtime")
			}
			if err := deployRuntime.Deploy(deployParams.Ix); err != nil {
				return gasData, errors.Wrap(err, "deploy contract")
			}
			gasData.Deployments = saturatingAdd(gasData.Deployments, deployRuntime.GasUsed())
		}

		gasData.Wasm = saturatingAdd(gasData.Wasm, runtime.GasUsed())
	}

	gasData.Signatures = saturatingAdd(params.PallasSchnorrSignatureFee*countSignatures(tx), tx.SerializedSize())

	for _, zkbin := range circuitsToVerify {
		gasData.ZkCircuits = saturatingAdd(gasData.ZkCircuits, fees.CircuitGasUse(zkbin))
	}

	totalGasUsed := gasData.Total()

	if verifyFee {
		feeCall := tx.Calls[feeCallIdx].Call
		if len(feeCall.Data) < int(params.FeeHeaderSize) {
			return gasData, ErrInvalidFee
		}
		paid := decodeFee(feeCall.Data)
		required := fees.ComputeFee(totalGasUsed)
		if required > paid {
			logger.Warn("insufficient fee", "tx", txHash, "required", required, "paid", paid)
			return gasData, ErrInsufficientFee
		}
		gasData.Paid = paid
	}

	if len(sigTable) != len(tx.Signatures) {
		return gasData, ErrMissingSignatures
	}
	for i, pubkeys := range sigTable {
		if len(pubkeys) != len(tx.Signatures[i]) {
			return gasData, ErrMissingSignatures
		}
		for j, pk := range pubkeys {
			if !c.Schnorr.Verify(pk, txHash, tx.Signatures[i][j]) {
				logger.Warn("signature verification failed", "tx", txHash)
				return gasData, ErrInvalidSignature
			}
		}
	}

	for i, entries := range zkpTable {
		if len(entries) != len(tx.Proofs[i]) {
			return gasData, ErrInvalidZkProof
		}
		inner := vkMap.forContract(tx.Calls[i].Call.ContractID)
		for j, entry := range entries {
			vk, ok := inner[entry.Namespace]
			if !ok {
				return gasData, ErrInvalidZkProof
			}
			ok2, err := c.Zk.Verify(vk, tx.Proofs[i][j], encodeInputs(entry.Inputs))
			if err != nil || !ok2 {
				logger.Warn("zk proof verification failed", "tx", txHash, "namespace", entry.Namespace)
				return gasData, ErrInvalidZkProof
			}
		}
	}

	tree.Append(txHash)

	return gasData, nil
}

func selectorOf(data []byte) byte {
	if len(data) == 0 {
		return 0
	}
	return data[0]
}

func countSignatures(tx *types.Transaction) uint64 {
	var n uint64
	for _, sigs := range tx.Signatures {
		n += uint64(len(sigs))
	}
	return n
}

func decodeFee(data []byte) uint64 {
	var v uint64
	for i := 0; i < 8; i++ {
		v |= uint64(data[1+i]) << (8 * uint(i))
	}
	return v
}

func encodeInputs(inputs []common.Hash) []byte {
	out := make([]byte, 0, len(inputs)*32)
	for _, h := range inputs {
		out = append(out, h[:]...)
	}
	return out
}

func saturatingAdd(a, b uint64) uint64 {
	sum := a + b
	if sum < a {
		return ^uint64(0)
	}
	return sum
}
