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

// Package params holds the chain-wide constant tables: PoW difficulty
// buffer sizing, RandomX key-rotation heights, transaction size bounds, and
// the gas cost table. Modeled on the teacher's params/gas_table.go and
// params/protocol_params.go layout (one package, one exported table per
// concern).
package params

import "time"

// Difficulty retarget window, §4.C.
const (
	DifficultyWindow                = 720
	DifficultyLag                   = 15
	DifficultyCut                   = 60
	DifficultyRetained               = 600
	DifficultyCutBegin              = 60
	DifficultyCutEnd                = 660
	DifficultyBufferSize            = DifficultyWindow + DifficultyLag // 735
	BlockchainTimestampCheckWindow  = 60
)

// BlockFutureTimeLimit bounds how far into the future a block timestamp may
// sit relative to local time before it is rejected.
const BlockFutureTimeLimit = 2 * time.Hour

// RandomX key-rotation schedule, §3/§4.C.
const (
	RandomXKeyChangingHeight = 2048
	RandomXKeyChangeDelay    = 64
)

// Transaction call-forest bounds, §3/§4.E.
const (
	MinTxCalls = 1
	MaxTxCalls = 32
)

// PallasSchnorrSignatureFee is the gas charged per Schnorr signature over
// the Pallas curve, §4.E step 4.
const PallasSchnorrSignatureFee uint64 = 10_000

// FeeFunctionSelectorSize and FeeEncodedSize describe the Money-Fee call
// payload layout from spec §6: data[0] selector, data[1..9] little-endian
// u64 fee, remainder MoneyFeeParams.
const (
	FeeFunctionSelectorSize = 1
	FeeEncodedSize          = 8
	FeeHeaderSize           = FeeFunctionSelectorSize + FeeEncodedSize
)

// EventGraph constants, §3/§4.I/§4.J.
const (
	DagsMaxNumber   = 24
	EventParentsLen = 5
	EventTimeDrift  = 60 * time.Second
)

// EventGraphInitialGenesis is the reference epoch, in UTC milliseconds,
// that rotation boundaries are aligned against: the k-th rotation's
// genesis timestamp is this value plus k whole rotation periods. The
// original source's own reference epoch lives in a util.rs helper not
// carried into this retrieval pack, so this fixes a concrete, documented
// epoch (2023-11-14T22:13:20Z) rather than leaving rotation alignment
// ungrounded.
const EventGraphInitialGenesis int64 = 1_700_000_000_000

// EventGraphSyncChunkSize is the number of event hashes grouped into one
// EventReq during payload sync, §4.J step 6.
const EventGraphSyncChunkSize = 20

// EventGraphSeenCacheSize bounds the in-memory recently-seen header/event
// caches eventgraph/store keeps in front of its badger lookups, so gossip
// storms that re-touch the same handful of hashes across overlapping sync
// chunks don't each cost a disk read.
const EventGraphSeenCacheSize = 4096

// Hostlist capacity caps, §3/§4.B.
const (
	GreylistMaxLen = 2000
	WhitelistMaxLen = 5000
)

// BlockGasLimit bounds the accumulated gas usage of a block's user
// transactions, §4.F/§8 invariant on block validity.
const BlockGasLimit uint64 = 2_000_000

// FeeMultiplier scales total gas used into a required fee, mirroring the
// teacher's flat per-gas-unit pricing in params/gas_table.go (no dynamic
// base-fee market in scope here).
const FeeMultiplier uint64 = 1

// ZkCircuitGasPerRow is the gas charged per byte of a compiled ZK circuit
// (see fees.CircuitGasUse), standing in for the opcode-cost table the upstream
// zkas compiler would otherwise produce (circuit encoding itself is a
// documented non-goal).
const ZkCircuitGasPerRow uint64 = 100
