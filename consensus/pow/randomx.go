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
// Thin seam around the RandomX binding, grounded on the binding used by
// the monero-highway example (git.gammaspectra.live/P2Pool/consensus/v4/monero/randomx).
// darkfi-go programs against the small VM/Cache/Dataset interface below so
// the rest of the package never touches the cgo-backed types directly.

package pow

import (
	"sync"

	rx "git.gammaspectra.live/P2Pool/consensus/v4/monero/randomx"
)

// Flags controls RandomX VM/cache/dataset construction, §4.D step 1.
type Flags = rx.Flags

const (
	FlagDefault    = rx.FlagDefault
	FlagFullMem    = rx.FlagFullMEM
	FlagLargePages = rx.FlagLargePages
	FlagSecure     = rx.FlagSecure
	FlagJIT        = rx.FlagJIT
)

// RecommendedFlags returns the CPU-appropriate baseline flags (JIT/hardware
// AES when available), matching get_mining_flags' use of
// RandomXFlags::get_recommended_flags() in the Rust source.
func RecommendedFlags() Flags {
	return rx.GetFlags()
}

// VM is the minimal surface darkfi-go needs from a RandomX virtual
// machine: a one-shot hash, and the pipelined First/Next/Last calls used
// by the mining driver (§4.D step 5, §9 "found_nonce is offset by one").
type VM interface {
	CalculateHash(input []byte) [32]byte
	CalculateHashFirst(input []byte)
	CalculateHashNext(nextInput []byte) [32]byte
	CalculateHashLast() [32]byte
	Close()
}

// Cache wraps a RandomX light-mode cache keyed by a 32-byte seed.
type Cache struct {
	mu    sync.Mutex
	cache *rx.Cache
	key   [32]byte
}

// NewCache allocates and initializes a RandomX cache for the given key.
func NewCache(flags Flags, key [32]byte) (*Cache, error) {
	c := rx.NewCache(flags)
	c.Init(key[:])
	return &Cache{cache: c, key: key}, nil
}

func (c *Cache) Close() {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.cache != nil {
		c.cache.Close()
		c.cache = nil
	}
}

// Dataset wraps a RandomX fast-mode dataset, initialized across all
// available hardware threads, §4.D step 2.
type Dataset struct {
	dataset *rx.Dataset
}

// DatasetItemCount returns the total number of dataset items to split
// across initializer threads.
func DatasetItemCount() uint32 {
	return rx.DatasetItemCount()
}

// NewDataset allocates (but does not populate) a dataset for fast-mode
// mining. Callers populate it with InitRange across worker goroutines.
func NewDataset(flags Flags) (*Dataset, error) {
	return &Dataset{dataset: rx.NewDataset(flags)}, nil
}

// InitRange initializes dataset items [startItem, startItem+count) from
// cache. Safe to call concurrently across disjoint ranges.
func (d *Dataset) InitRange(cache *Cache, startItem, count uint32) {
	d.dataset.InitDataset(cache.cache, startItem, count)
}

func (d *Dataset) Close() {
	if d.dataset != nil {
		d.dataset.Close()
		d.dataset = nil
	}
}

type vmImpl struct {
	vm *rx.VM
}

// NewVM creates a RandomX VM. Exactly one of cache (light mode) or dataset
// (fast mode) should be non-nil, mirroring the Rust source's
// `RandomXVM::new(flags, cache, dataset)`.
func NewVM(flags Flags, cache *Cache, dataset *Dataset) (VM, error) {
	var rc *rx.Cache
	var rd *rx.Dataset
	if cache != nil {
		rc = cache.cache
	}
	if dataset != nil {
		rd = dataset.dataset
	}
	vm := rx.NewVM(flags, rc, rd)
	return &vmImpl{vm: vm}, nil
}

func (v *vmImpl) CalculateHash(input []byte) [32]byte {
	var out [32]byte
	copy(out[:], v.vm.CalculateHash(input))
	return out
}

func (v *vmImpl) CalculateHashFirst(input []byte) {
	v.vm.CalculateHashFirst(input)
}

func (v *vmImpl) CalculateHashNext(nextInput []byte) [32]byte {
	var out [32]byte
	copy(out[:], v.vm.CalculateHashNext(nextInput))
	return out
}

func (v *vmImpl) CalculateHashLast() [32]byte {
	var out [32]byte
	copy(out[:], v.vm.CalculateHashLast())
	return out
}

func (v *vmImpl) Close() { v.vm.Close() }

// leLessOrEqual compares two 32-byte buffers as little-endian 256-bit
// unsigned integers, standing in for the Rust source's
// BigUint::from_bytes_le comparisons without materializing a bignum.
func leLessOrEqual(a, b [32]byte) bool {
	for i := len(a) - 1; i >= 0; i-- {
		if a[i] != b[i] {
			return a[i] < b[i]
		}
	}
	return true
}
