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

// Package contracthost defines the seam between the verification pipeline
// (validator/txverify, validator/blockverify) and everything this module
// does not implement: WASM contract execution, ZK proof verification,
// Schnorr signature verification, and the contract state overlay/monotree.
// Concrete backends live outside this module, mirroring how the teacher's
// consensus.Engine/blockchain.ChainReader seam decouples work/agent.go from
// a specific BFT implementation.
package contracthost

import "github.com/darkfi-go/darkfi/common"

// ZkVerifier verifies a single Halo2/Pallas ZK proof against a verifying
// key and its public inputs.
type ZkVerifier interface {
	Verify(vk []byte, proof []byte, publicInputs []byte) (bool, error)
}

// WasmRuntime is one instantiated execution of a contract call: the
// metadata/exec/apply/deploy lifecle described in §4.E, plus the gas it
// consumed.
type WasmRuntime interface {
	Metadata(payload []byte) ([]byte, error)
	Exec(payload []byte) ([]byte, error)
	Apply(stateUpdate []byte) error
	Deploy(ix []byte) error
	GasUsed() uint64
}

// WasmHost instantiates a WasmRuntime for a given contract, bound to the
// overlay, block context, and call position it is allowed to observe.
type WasmHost interface {
	Instantiate(contractID common.ContractID, overlay StateOverlay, height uint32, target uint64, txHash common.Hash, callIndex uint32) (WasmRuntime, error)
}

// SchnorrVerifier verifies a Pallas Schnorr signature over a message hash.
type SchnorrVerifier interface {
	Verify(pubkey common.PublicKey, msg common.Hash, sig []byte) bool
}

// ContractStore resolves a deployed contract's compiled zkas circuit and
// its verifying key by namespace, §4.E step 3e.
type ContractStore interface {
	LookupZkBin(contractID common.ContractID, namespace string) (zkbin []byte, vk []byte, err error)
}

// StateOverlay is the transactional view over contract state that exec/
// apply/deploy read and write, with checkpoint/revert for per-transaction
// isolation within a block (§4.E step, §4.F step 1/4).
type StateOverlay interface {
	Get(tree string, key []byte) ([]byte, error)
	Insert(tree string, key, value []byte) error
	// Checkpoint returns a revert func that undoes everything written
	// since the checkpoint was taken.
	Checkpoint() (func(), error)
	Commit() error
}

// Monotree is the sparse Merkle tree over all contract states; its head
// root becomes the block header's state_root, §4.F step 7.
type Monotree interface {
	Insert(diffs map[string][]byte) error
	HeadRoot() common.Hash
}

// MerkleTree accumulates transaction hashes across a block's verification
// pass; its root becomes header.TransactionsRoot, §4.E step 10/§4.F step 6.
// Merkle/SMT primitives are an external collaborator per §1: this module
// only appends and reads the root, never proves or witnesses membership.
type MerkleTree interface {
	Append(leaf common.Hash)
	Root() common.Hash
}

// TreeFactory constructs a fresh MerkleTree, so block-level verification
// (which owns a tree's whole lifetime) never has to depend on a concrete
// Merkle implementation either.
type TreeFactory interface {
	New() MerkleTree
}
