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
//
// Adapted from the teacher's params/gas_table.go: same "one exported
// constant table per cost concern" shape, repurposed from EVM opcode
// pricing to zkas circuit opcode pricing (§4.E step 5).

package params

// ZkOpcodeGasTable lists a gas price per zkas circuit opcode. It is not
// consulted when computing gas_data.zk_circuits: fees.CircuitGasUse prices
// a circuit by its encoded size via ZkCircuitGasPerRow instead.
type ZkOpcodeGasTable struct {
	Add               uint64
	Sub               uint64
	Mul               uint64
	Div               uint64
	EcAdd             uint64
	EcMul             uint64
	EcMulBase         uint64
	EcMulShort        uint64
	PoseidonHash      uint64
	MerkleRoot        uint64
	BaseToScalar      uint64
	WitnessBase       uint64
	RangeCheck        uint64
	LessThan          uint64
	BoolCheck         uint64
	CondSelect        uint64
	ConstrainEq       uint64
	ConstrainInstance uint64
}

// DefaultZkOpcodeGas is the default per-opcode price table; it is
// not configurable per-fork, unlike the teacher's era-specific
// GasTableHomestead/GasTableEIP158 tables, because zkas circuits are
// versioned by their binary, not by block height.
var DefaultZkOpcodeGas = ZkOpcodeGasTable{
	Add:               5,
	Sub:               5,
	Mul:               10,
	Div:               15,
	EcAdd:             100,
	EcMul:             500,
	EcMulBase:         500,
	EcMulShort:        300,
	PoseidonHash:      200,
	MerkleRoot:        1_000,
	BaseToScalar:      10,
	WitnessBase:       2,
	RangeCheck:        20,
	LessThan:          20,
	BoolCheck:         5,
	CondSelect:        8,
	ConstrainEq:       3,
	ConstrainInstance: 3,
}

// ZkOpcodeDefaultGas is the price listed for an opcode absent from the
// table; like the table itself, no gas computation in this module reads it.
const ZkOpcodeDefaultGas uint64 = 50

// WasmGasTable is the single place a future per-instruction override would
// land; darkfi-go does not re-price WASM instructions itself, it only sums
// the external host's runtime.GasUsed().
type WasmGasTable struct {
	BaseInstantiate uint64
	BaseDeploy      uint64
}

var DefaultWasmGas = WasmGasTable{
	BaseInstantiate: 1_000,
	BaseDeploy:      50_000,
}

// GasPriceNumerator/GasPriceDenominator convert a total gas figure into the
// minimum fee (smallest native unit) a transaction must pay, §4.E step 7.
const (
	GasPriceNumerator   = 1
	GasPriceDenominator = 1
)

// ComputeFee returns the minimum fee required for the given total gas.
func ComputeFee(totalGas uint64) uint64 {
	return totalGas * GasPriceNumerator / GasPriceDenominator
}
