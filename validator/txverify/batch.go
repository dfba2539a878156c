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
	"github.com/darkfi-go/darkfi/blockchain/types"
	"github.com/darkfi-go/darkfi/params"
	"github.com/darkfi-go/darkfi/validator/contracthost"
)

// VerifyTransactions verifies each of txs in sequence against independent
// overlay checkpoints, §4.F step 4. A transaction whose verification fails
// is recorded and reverted; verification stops early once the block gas
// limit would be exceeded. Returns the combined gas used/paid across every
// transaction that verified successfully.
func VerifyTransactions(c Collaborators, height uint32, target uint64, txs []types.Transaction, tree contracthost.MerkleTree, verifyFees bool) (totalGasUsed uint64, totalGasPaid uint64, err error) {
	if len(txs) == 0 {
		return 0, 0, nil
	}

	vkMap := make(VkMap)
	for i := range txs {
		for _, node := range txs[i].Calls {
			vkMap.forContract(node.Call.ContractID)
		}
	}

	var erroneous []types.Transaction

	for i := range txs {
		revert, cerr := c.Overlay.Checkpoint()
		if cerr != nil {
			return totalGasUsed, totalGasPaid, cerr
		}

		gasData, verr := VerifyTransaction(c, height, target, &txs[i], tree, vkMap, verifyFees)
		if verr != nil {
			logger.Warn("transaction verification failed", "err", verr)
			erroneous = append(erroneous, txs[i])
			revert()
			continue
		}

		txGasUsed := gasData.Total()
		accumulated := totalGasUsed + txGasUsed
		if accumulated > params.BlockGasLimit {
			logger.Warn("transaction exceeds block gas limit", "tx", txs[i].Hash(), "accumulated", accumulated)
			erroneous = append(erroneous, txs[i])
			revert()
			break
		}

		totalGasUsed += txGasUsed
		totalGasPaid += gasData.Paid
	}

	if len(erroneous) > 0 {
		return totalGasUsed, totalGasPaid, &ErroneousTxsError{Txs: erroneous}
	}

	return totalGasUsed, totalGasPaid, nil
}

// ApplyTransaction applies tx's WASM state updates without any formal
// verification, used by trust-replay (§4.F checkpoint variant).
func ApplyTransaction(c Collaborators, height uint32, target uint64, tx *types.Transaction, tree contracthost.MerkleTree) error {
	txHash := tx.Hash()
	defaultPayload := tx.EncodeCalls()

	for idx, node := range tx.Calls {
		call := node.Call

		runtime, err := c.Host.Instantiate(call.ContractID, c.Overlay, height, target, txHash, uint32(idx))
		if err != nil {
			return err
		}

		execOut, err := runtime.Exec(defaultPayload)
		if err != nil {
			return err
		}
		stateUpdate := append([]byte{selectorOf(call.Data)}, execOut...)
		if err := runtime.Apply(stateUpdate); err != nil {
			return err
		}

		if contracthost.IsDeployment(call.ContractID, call.Data) {
			deployParams, err := contracthost.DecodeDeployParams(call.Data[1:])
			if err != nil {
				return err
			}
			deployCid := contracthost.DerivePublicContractID(deployParams.PublicKey)
			deployRuntime, err := c.Host.Instantiate(deployCid, c.Overlay, height, target, txHash, uint32(idx))
			if err != nil {
				return err
			}
			if err := deployRuntime.Deploy(deployParams.Ix); err != nil {
				return err
			}
		}
	}

	tree.Append(txHash)
	return nil
}

// ApplyTransactions applies each of txs in sequence, reverting any
// transaction whose application fails and recording it as erroneous.
func ApplyTransactions(c Collaborators, height uint32, target uint64, txs []types.Transaction, tree contracthost.MerkleTree) error {
	if len(txs) == 0 {
		return nil
	}

	var erroneous []types.Transaction
	for i := range txs {
		revert, err := c.Overlay.Checkpoint()
		if err != nil {
			return err
		}
		if err := ApplyTransaction(c, height, target, &txs[i], tree); err != nil {
			logger.Warn("transaction apply failed", "err", err)
			erroneous = append(erroneous, txs[i])
			revert()
		}
	}

	if len(erroneous) > 0 {
		return &ErroneousTxsError{Txs: erroneous}
	}
	return nil
}
