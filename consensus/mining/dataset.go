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
// Ports original_source/src/validator/pow.rs's init_dataset and
// generate_mining_vms: fast-mode dataset construction fanned out across
// hardware threads, with cooperative cancellation checked between spawns.

package mining

import (
	"runtime"

	"github.com/darkfi-go/darkfi/common"
	"github.com/darkfi-go/darkfi/consensus/pow"
	"github.com/pkg/errors"
	"golang.org/x/sync/errgroup"
)

// ErrMiningCancelled is returned by dataset/VM setup when stop fires before
// the work completes.
var ErrMiningCancelled = errors.New("mining cancelled")

// initDataset builds and populates a fast-mode RandomX dataset for key,
// splitting DatasetItemCount() items across min(threads, NumCPU) workers.
// stop is polled before each worker is spawned and after the fan-out
// completes, mirroring the Rust source's per-chunk stop_signal checks.
func initDataset(flags pow.Flags, cache *pow.Cache, threads int, stop <-chan struct{}) (*pow.Dataset, error) {
	if threads <= 0 || threads > runtime.NumCPU() {
		threads = runtime.NumCPU()
	}
	if threads < 1 {
		threads = 1
	}

	dataset, err := pow.NewDataset(flags)
	if err != nil {
		return nil, err
	}

	itemCount := pow.DatasetItemCount()
	perThread := itemCount / uint32(threads)
	if perThread == 0 {
		perThread = itemCount
		threads = 1
	}

	var g errgroup.Group
	start := uint32(0)
	for i := 0; i < threads; i++ {
		select {
		case <-stop:
			dataset.Close()
			return nil, ErrMiningCancelled
		default:
		}

		count := perThread
		if i == threads-1 {
			count = itemCount - start
		}
		s := start
		g.Go(func() error {
			dataset.InitRange(cache, s, count)
			return nil
		})
		start += count
	}
	_ = g.Wait()

	select {
	case <-stop:
		dataset.Close()
		return nil, ErrMiningCancelled
	default:
	}
	return dataset, nil
}

// generateMiningVMs builds `threads` fast-mode RandomX VMs sharing a single
// dataset seeded from key, per §4.D step 2.
func generateMiningVMs(flags pow.Flags, key common.Hash, threads int, stop <-chan struct{}) ([]pow.VM, *pow.Cache, *pow.Dataset, error) {
	cache, err := pow.NewCache(flags, key)
	if err != nil {
		return nil, nil, nil, err
	}

	dataset, err := initDataset(flags, cache, threads, stop)
	if err != nil {
		cache.Close()
		return nil, nil, nil, err
	}

	if threads <= 0 || threads > runtime.NumCPU() {
		threads = runtime.NumCPU()
	}

	vms := make([]pow.VM, 0, threads)
	for i := 0; i < threads; i++ {
		vm, err := pow.NewVM(flags, cache, dataset)
		if err != nil {
			for _, v := range vms {
				v.Close()
			}
			dataset.Close()
			cache.Close()
			return nil, nil, nil, err
		}
		vms = append(vms, vm)
	}
	return vms, cache, dataset, nil
}
