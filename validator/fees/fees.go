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

// Package fees computes two of the gas figures txverify uses: the
// size-based ZK circuit charge and the gas-to-fee conversion, §4.E steps 5
// and 7. The per-signature charge is computed in txverify itself.
package fees

import "github.com/darkfi-go/darkfi/params"

// CircuitGasUse prices a compiled zkas circuit by its encoded length in
// bytes (ZkCircuitGasPerRow per byte), standing
// in for the upstream opcode-cost table (circuit encoding itself is out of
// scope for this module).
func CircuitGasUse(zkbin []byte) uint64 {
	return uint64(len(zkbin)) * params.ZkCircuitGasPerRow
}

// ComputeFee converts accumulated gas into the minimum fee a transaction
// must pay, §4.E step 7.
func ComputeFee(totalGasUsed uint64) uint64 {
	return totalGasUsed * params.FeeMultiplier
}
