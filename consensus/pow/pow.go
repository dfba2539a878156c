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
// Package pow ports original_source/src/validator/pow.rs: difficulty
// retarget, target/hash verification, and RandomX VM lifecycle, §4.C.
package pow

import (
	"math/big"
	"sort"
	"time"

	"github.com/darkfi-go/darkfi/blockchain/types"
	"github.com/darkfi-go/darkfi/common"
	"github.com/darkfi-go/darkfi/log"
	"github.com/darkfi-go/darkfi/params"
	"github.com/pkg/errors"
)

var logger = log.NewModuleLogger(log.PoW)

var (
	ErrPoWTotalWorkIsZero        = errors.New("PoWTotalWorkIsZero")
	ErrPoWCuttofCalculationError = errors.New("PoWCuttofCalculationError")
	ErrPoWInvalidTimestamp       = errors.New("PoWInvalidTimestamp")
	ErrPoWInvalidOutHash         = errors.New("PoWInvalidOutHash")
)

// Module holds the PoW retarget state described in spec §4.C.
type Module struct {
	GenesisTimestamp   uint64
	TargetSeconds      uint32
	FixedDifficulty    *big.Int // nil unless fixed

	timestamps  *RingBuffer[uint64]
	difficulties *RingBuffer[*big.Int]

	cumulativeDifficulty *big.Int

	// darkfiRxKeys holds the (current, next) RandomX seed keys for native
	// DarkFi PoW, rotated per §4.C append() step 2-4.
	darkfiRxKeys [2]common.Hash
	darkfiCache  map[common.Hash]*Cache
	moneroCache  map[common.Hash]*Cache
}

// NewModule constructs a PoWModule. The caller supplies the last up-to-735
// (timestamp, cumulative_difficulty) pairs, oldest-to-newest, typically
// loaded from the canonical chain tip.
func NewModule(genesisTimestamp uint64, targetSeconds uint32, fixedDifficulty *big.Int, history []BlockDifficulty, initialRxKey common.Hash) *Module {
	m := &Module{
		GenesisTimestamp:     genesisTimestamp,
		TargetSeconds:        targetSeconds,
		FixedDifficulty:      fixedDifficulty,
		timestamps:           NewRingBuffer[uint64](params.DifficultyBufferSize),
		difficulties:         NewRingBuffer[*big.Int](params.DifficultyBufferSize),
		cumulativeDifficulty: big.NewInt(0),
		darkfiRxKeys:         [2]common.Hash{initialRxKey, initialRxKey},
		darkfiCache:          make(map[common.Hash]*Cache),
		moneroCache:          make(map[common.Hash]*Cache),
	}
	for _, d := range history {
		m.timestamps.Push(d.Timestamp)
		m.difficulties.Push(new(big.Int).Set(d.CumulativeDifficulty))
		m.cumulativeDifficulty = new(big.Int).Set(d.CumulativeDifficulty)
	}
	return m
}

// BlockDifficulty is a (timestamp, cumulative_difficulty) sample, §3.
type BlockDifficulty struct {
	Timestamp             uint64
	CumulativeDifficulty  *big.Int
}

// Clone returns an independent copy of the module, so a fork branching off
// the canonical chain (§4.G) can extend its own retarget history without
// disturbing the chain it branched from. RandomX cache maps are shared
// between clones since they are keyed, append-only VM factories and never
// mutated in place; the mutable retarget state (ring buffers, cumulative
// difficulty, rx key pair) is deep-copied.
func (m *Module) Clone() *Module {
	clone := &Module{
		GenesisTimestamp:     m.GenesisTimestamp,
		TargetSeconds:        m.TargetSeconds,
		timestamps:           NewRingBuffer[uint64](params.DifficultyBufferSize),
		difficulties:         NewRingBuffer[*big.Int](params.DifficultyBufferSize),
		cumulativeDifficulty: new(big.Int).Set(m.cumulativeDifficulty),
		darkfiRxKeys:         m.darkfiRxKeys,
		darkfiCache:          m.darkfiCache,
		moneroCache:          m.moneroCache,
	}
	if m.FixedDifficulty != nil {
		clone.FixedDifficulty = new(big.Int).Set(m.FixedDifficulty)
	}
	for _, ts := range m.timestamps.Items() {
		clone.timestamps.Push(ts)
	}
	for _, d := range m.difficulties.Items() {
		clone.difficulties.Push(new(big.Int).Set(d))
	}
	return clone
}

var maxU256 = func() *big.Int {
	v := new(big.Int).Lsh(big.NewInt(1), 256)
	return v.Sub(v, big.NewInt(1))
}()

// NextDifficulty computes the next mining difficulty, §4.C.
func (m *Module) NextDifficulty() (*big.Int, error) {
	n := m.timestamps.Len()
	if n < 2 {
		return big.NewInt(1), nil
	}

	if m.FixedDifficulty != nil {
		return new(big.Int).Set(m.FixedDifficulty), nil
	}

	timestamps := m.timestamps.Items()
	sort.Slice(timestamps, func(i, j int) bool { return timestamps[i] < timestamps[j] })

	cutBegin, cutEnd, err := m.cutoff(n)
	if err != nil {
		return nil, err
	}
	cutEndIdx := cutEnd - 1

	timeSpan := int64(timestamps[cutEndIdx]) - int64(timestamps[cutBegin])
	if timeSpan < 1 {
		timeSpan = 1
	}

	difficulties := m.difficulties.Items()
	totalWork := new(big.Int).Sub(difficulties[cutEndIdx], difficulties[cutBegin])
	if totalWork.Sign() <= 0 {
		return nil, ErrPoWTotalWorkIsZero
	}

	// ceil(total_work * target / time_span)
	num := new(big.Int).Mul(totalWork, big.NewInt(int64(m.TargetSeconds)))
	span := big.NewInt(timeSpan)
	num.Add(num, span)
	num.Sub(num, big.NewInt(1))
	next := num.Div(num, span)
	return next, nil
}

// cutoff computes (cut_begin, cut_end) per §4.C step 5.
func (m *Module) cutoff(length int) (int, int, error) {
	if length >= params.DifficultyWindow {
		return params.DifficultyCutBegin, params.DifficultyCutEnd, nil
	}

	var cutBegin, cutEnd int
	if length <= params.DifficultyRetained {
		cutBegin, cutEnd = 0, length
	} else {
		cutBegin = ceilDiv(length-params.DifficultyRetained, 2)
		cutEnd = cutBegin + params.DifficultyRetained
	}
	if cutBegin+2 > cutEnd || cutEnd > length {
		return 0, 0, ErrPoWCuttofCalculationError
	}
	return cutBegin, cutEnd, nil
}

func ceilDiv(a, b int) int {
	if a <= 0 {
		return 0
	}
	return (a + b - 1) / b
}

// NextMineTarget returns floor((2^256-1) / next_difficulty()), §4.C.
func (m *Module) NextMineTarget() (*big.Int, error) {
	diff, err := m.NextDifficulty()
	if err != nil {
		return nil, err
	}
	return new(big.Int).Div(maxU256, diff), nil
}

// VerifyCurrentTimestamp implements §4.C's timestamp acceptance rule.
func (m *Module) VerifyCurrentTimestamp(t uint64, now time.Time) error {
	limit := now.Add(params.BlockFutureTimeLimit).Unix()
	if int64(t) > limit {
		return ErrPoWInvalidTimestamp
	}
	if t <= m.GenesisTimestamp {
		return ErrPoWInvalidTimestamp
	}

	n := m.timestamps.Len()
	if n < params.BlockchainTimestampCheckWindow {
		return nil
	}

	items := m.timestamps.Items()
	window := items[n-params.BlockchainTimestampCheckWindow:]
	sorted := append([]uint64(nil), window...)
	sort.Slice(sorted, func(i, j int) bool { return sorted[i] < sorted[j] })
	med := median(sorted)
	if t < med {
		return ErrPoWInvalidTimestamp
	}
	return nil
}

// median of a sorted slice of uint64, matching validator::utils::median.
func median(sorted []uint64) uint64 {
	n := len(sorted)
	if n == 0 {
		return 0
	}
	if n%2 == 1 {
		return sorted[n/2]
	}
	return (sorted[n/2-1] + sorted[n/2]) / 2
}

// selectRandomXKey picks current vs next DarkFi key per §4.C's rule.
func (m *Module) selectRandomXKey(height uint32) common.Hash {
	if height > params.RandomXKeyChangingHeight && height%params.RandomXKeyChangingHeight == params.RandomXKeyChangeDelay {
		return m.darkfiRxKeys[1]
	}
	return m.darkfiRxKeys[0]
}

// VerifyBlockHash implements §4.C's verify_block_hash.
func (m *Module) VerifyBlockHash(header *types.Header) error {
	target, err := m.NextMineTarget()
	if err != nil {
		return err
	}

	var outHash [32]byte
	switch header.PowData.Tag {
	case types.PowDataDarkFi:
		key := m.selectRandomXKey(header.Height)
		vm, err := m.vmFor(m.darkfiCache, key)
		if err != nil {
			return err
		}
		outHash = vm.CalculateHash(header.ToBlockHashingBlob())
	case types.PowDataMonero:
		if header.PowData.Monero == nil {
			return ErrPoWInvalidOutHash
		}
		key := header.PowData.Monero.RandomXKey()
		vm, err := m.vmFor(m.moneroCache, common.Hash(key))
		if err != nil {
			return err
		}
		outHash = vm.CalculateHash(header.PowData.Monero.ToBlockHashingBlob())
	}

	if !HashMeetsTarget(outHash, target) {
		return ErrPoWInvalidOutHash
	}
	return nil
}

// HashMeetsTarget reports whether a RandomX output hash, read as a
// little-endian 256-bit integer, is at or below target. Shared between
// verification (above) and the mining search in consensus/mining so both
// sides of the PoW check agree on the comparison.
func HashMeetsTarget(hash [32]byte, target *big.Int) bool {
	var targetBytes [32]byte
	targetBE := target.Bytes()
	for i, b := range targetBE {
		targetBytes[len(targetBE)-1-i] = b
	}
	return leLessOrEqual(hash, targetBytes)
}

// vmFor lazily constructs (and caches in cacheSet) the RandomX cache for
// the given key, and builds a new light-mode verification VM from it on
// every call; verification uses light mode (cache only, no dataset) since
// it runs a single hash per call rather than a mining search.
func (m *Module) vmFor(cacheSet map[common.Hash]*Cache, key common.Hash) (VM, error) {
	cache, ok := cacheSet[key]
	if !ok {
		var err error
		cache, err = NewCache(RecommendedFlags(), key)
		if err != nil {
			return nil, err
		}
		cacheSet[key] = cache
	}
	return NewVM(RecommendedFlags(), cache, nil)
}

// VerifyCurrentBlock verifies timestamp then hash, §4.C.
func (m *Module) VerifyCurrentBlock(header *types.Header, now time.Time) error {
	if err := m.VerifyCurrentTimestamp(header.Timestamp, now); err != nil {
		return err
	}
	return m.VerifyBlockHash(header)
}

// Append records a newly accepted header's timestamp/difficulty and
// rotates RandomX keys per §4.C's append().
func (m *Module) Append(header *types.Header, difficulty *big.Int) {
	m.timestamps.Push(header.Timestamp)
	m.cumulativeDifficulty = new(big.Int).Add(m.cumulativeDifficulty, difficulty)
	m.difficulties.Push(new(big.Int).Set(m.cumulativeDifficulty))

	if header.Height < params.RandomXKeyChangingHeight {
		return
	}

	if header.Height%params.RandomXKeyChangingHeight == 0 {
		next := header.Hash()
		if _, err := m.vmFor(m.darkfiCache, next); err != nil {
			logger.Error("failed to warm next RandomX VM", "err", err)
		}
		m.darkfiRxKeys[1] = next
		return
	}

	if header.Height%params.RandomXKeyChangingHeight == params.RandomXKeyChangeDelay {
		m.darkfiRxKeys[0] = m.darkfiRxKeys[1]
	}
}
