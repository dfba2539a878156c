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

package pow

import (
	"math/big"
	"testing"
	"time"

	"github.com/darkfi-go/darkfi/common"
	"github.com/darkfi-go/darkfi/params"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// genesisTime anchors every scenario below; 2023-10-01 00:00:00 UTC in the
// original test vectors, kept arbitrary here since only deltas matter.
var genesisTime = uint64(1696118400)

func newTestModule(fixed *big.Int) *Module {
	return NewModule(genesisTime, 120, fixed, nil, common.Hash{0x01})
}

// TestNextDifficultyFloorsAtOne covers S1: with fewer than two samples the
// module has no retarget data and must fall back to the difficulty floor.
func TestNextDifficultyFloorsAtOne(t *testing.T) {
	m := newTestModule(nil)
	diff, err := m.NextDifficulty()
	require.NoError(t, err)
	assert.Equal(t, big.NewInt(1), diff)
}

// TestNextDifficultyFixed covers S2: a fixed difficulty short-circuits the
// retarget computation entirely.
func TestNextDifficultyFixed(t *testing.T) {
	m := newTestModule(big.NewInt(12345))
	m.timestamps.Push(genesisTime + 1)
	m.timestamps.Push(genesisTime + 2)
	diff, err := m.NextDifficulty()
	require.NoError(t, err)
	assert.Equal(t, big.NewInt(12345), diff)
}

// TestNextDifficultyRetargetsUpward feeds a window of samples where blocks
// arrived faster than the target spacing, and checks the retarget increases
// difficulty (more cumulative work packed into less time implies a higher
// next difficulty to push the time span back toward target).
func TestNextDifficultyRetargetsUpward(t *testing.T) {
	m := newTestModule(nil)
	cumulative := big.NewInt(0)
	ts := genesisTime
	for i := 0; i < params.DifficultyWindow; i++ {
		ts += 60 // blocks arriving twice as fast as the 120s target
		cumulative = new(big.Int).Add(cumulative, big.NewInt(1000))
		m.timestamps.Push(ts)
		m.difficulties.Push(new(big.Int).Set(cumulative))
	}
	diff, err := m.NextDifficulty()
	require.NoError(t, err)
	assert.True(t, diff.Cmp(big.NewInt(1000)) > 0, "difficulty should retarget upward when blocks arrive faster than target spacing")
}

// TestCutoffShortWindow covers the cutoff() branches for histories shorter
// than the full retarget window, plus one full-window history for contrast.
func TestCutoffShortWindow(t *testing.T) {
	m := newTestModule(nil)

	begin, end, err := m.cutoff(10)
	require.NoError(t, err)
	assert.Equal(t, 0, begin)
	assert.Equal(t, 10, end)

	begin, end, err = m.cutoff(700)
	require.NoError(t, err)
	assert.Equal(t, 50, begin)
	assert.Equal(t, 650, end)

	begin, end, err = m.cutoff(800)
	require.NoError(t, err)
	assert.Equal(t, 60, begin)
	assert.Equal(t, 660, end)
}

// TestVerifyCurrentTimestampRejectsFarFuture covers S3's future-time bound.
func TestVerifyCurrentTimestampRejectsFarFuture(t *testing.T) {
	m := newTestModule(nil)
	now := time.Unix(int64(genesisTime+1000), 0)
	farFuture := uint64(now.Add(3 * time.Hour).Unix())
	err := m.VerifyCurrentTimestamp(farFuture, now)
	assert.ErrorIs(t, err, ErrPoWInvalidTimestamp)
}

// TestVerifyCurrentTimestampRejectsBeforeGenesis covers the genesis floor.
func TestVerifyCurrentTimestampRejectsBeforeGenesis(t *testing.T) {
	m := newTestModule(nil)
	now := time.Unix(int64(genesisTime+1000), 0)
	err := m.VerifyCurrentTimestamp(genesisTime, now)
	assert.ErrorIs(t, err, ErrPoWInvalidTimestamp)
}

// TestVerifyCurrentTimestampMedianRule covers S3's median-of-last-60 rule
// once enough history has accumulated.
func TestVerifyCurrentTimestampMedianRule(t *testing.T) {
	m := newTestModule(nil)
	ts := genesisTime
	for i := 0; i < 60; i++ {
		ts += 10
		m.timestamps.Push(ts)
	}
	now := time.Unix(int64(ts+1000), 0)

	// A timestamp below the median of the last 60 samples must be rejected.
	err := m.VerifyCurrentTimestamp(genesisTime+1, now)
	assert.ErrorIs(t, err, ErrPoWInvalidTimestamp)

	// A timestamp at or after the median must be accepted.
	err = m.VerifyCurrentTimestamp(ts+1, now)
	assert.NoError(t, err)
}

// TestSelectRandomXKeyRotation covers the current/next key selection rule
// around the RANDOMX_KEY_CHANGING_HEIGHT / RANDOMX_KEY_CHANGE_DELAY boundary.
func TestSelectRandomXKeyRotation(t *testing.T) {
	m := newTestModule(nil)
	m.darkfiRxKeys[0] = common.Hash{0xaa}
	m.darkfiRxKeys[1] = common.Hash{0xbb}

	assert.Equal(t, common.Hash{0xaa}, m.selectRandomXKey(2048))
	assert.Equal(t, common.Hash{0xaa}, m.selectRandomXKey(2048+63))
	assert.Equal(t, common.Hash{0xbb}, m.selectRandomXKey(2048+64))
}

func TestMedianOddAndEven(t *testing.T) {
	assert.Equal(t, uint64(3), median([]uint64{1, 2, 3, 4, 5}))
	assert.Equal(t, uint64(3), median([]uint64{1, 2, 4, 5}))
}
