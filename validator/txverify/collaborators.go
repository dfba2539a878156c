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

// Package txverify implements the per-transaction verification pipeline,
// §4.E: call-forest integrity, WASM metadata/exec/apply/deploy, gas
// accounting, fee sufficiency, signature, and ZK proof verification.
package txverify

import (
	"github.com/darkfi-go/darkfi/common"
	"github.com/darkfi-go/darkfi/validator/contracthost"
)

// Collaborators bundles the external seams verify_transaction depends on,
// in place of threading six separate interface parameters through every
// call, matching how the teacher's consensus.Engine call sites group their
// chain/backend dependencies into a single struct.
type Collaborators struct {
	Overlay contracthost.StateOverlay
	Host    contracthost.WasmHost
	Store   contracthost.ContractStore
	Schnorr contracthost.SchnorrVerifier
	Zk      contracthost.ZkVerifier
	Trees   contracthost.TreeFactory
}

// VkMap caches verifying keys looked up so far, keyed by contract id and
// zkas namespace, shared across an entire batch of transactions, §4.E
// step 3e / §4.F "vk_map" TODO note.
type VkMap map[common.ContractID]map[string][]byte

func (m VkMap) forContract(contractID common.ContractID) map[string][]byte {
	inner, ok := m[contractID]
	if !ok {
		inner = make(map[string][]byte)
		m[contractID] = inner
	}
	return inner
}
