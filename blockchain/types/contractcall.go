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

import "github.com/darkfi-go/darkfi/common"

// ContractCall is one node of a transaction's call forest, §3. data[0]
// selects a function within the contract; the remainder is
// contract-specific payload understood only by the WASM host.
type ContractCall struct {
	ContractID common.ContractID
	Data       []byte
}

// FunctionSelector returns data[0], the byte selecting which exported
// function of the contract this call invokes.
func (c *ContractCall) FunctionSelector() (byte, bool) {
	if len(c.Data) == 0 {
		return 0, false
	}
	return c.Data[0], true
}

// CallNode wraps a ContractCall with its forest position. children_indexes
// are strictly greater than this node's own index; parent_index is present
// except at roots, §3.
type CallNode struct {
	Call            ContractCall
	ParentIndex     *uint32
	ChildrenIndexes []uint32
}
