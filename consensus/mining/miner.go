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
// Package mining is the multi-threaded nonce search driver, §4.D. Its
// Start/Stop/Work/quitCurrentOp shape is carried over from work/agent.go's
// CpuAgent, generalized from a single consensus.Engine.Seal call to the
// spec's explicit per-thread RandomX pipeline described in
// original_source/src/validator/pow.rs's mine_block.
package mining

import (
	"math/big"
	"sync"
	"sync/atomic"

	"github.com/darkfi-go/darkfi/blockchain/types"
	"github.com/darkfi-go/darkfi/common"
	"github.com/darkfi-go/darkfi/consensus/pow"
	"github.com/darkfi-go/darkfi/log"
	uatomic "go.uber.org/atomic"
)

var logger = log.NewModuleLogger(log.Mining)

// Task is a unit of mining work: a candidate header (sans nonce) and the
// target it must hash below.
type Task struct {
	Header *types.Header
	Target *big.Int
	RxKey  common.Hash
}

// Result pairs a completed Task with the header that was found to satisfy
// its target, nonce filled in.
type Result struct {
	Task   *Task
	Header *types.Header
}

// Driver runs a pool of RandomX VMs against a single Task at a time,
// exactly like CpuAgent runs a single consensus.Engine.Seal at a time.
type Driver struct {
	mu sync.Mutex

	workCh        chan *Task
	stop          chan struct{}
	quitCurrentOp chan struct{}
	returnCh      chan<- *Result

	flags   pow.Flags
	threads int

	isMining int32
}

// NewDriver constructs a Driver that mines with the given thread count and
// RandomX flags (see pow.RecommendedFlags).
func NewDriver(threads int, flags pow.Flags) *Driver {
	return &Driver{
		flags:   flags,
		threads: threads,
		stop:    make(chan struct{}, 1),
		workCh:  make(chan *Task, 1),
	}
}

func (d *Driver) Work() chan<- *Task            { return d.workCh }
func (d *Driver) SetReturnCh(ch chan<- *Result) { d.returnCh = ch }

// Start begins the driver's dispatch loop. Idempotent.
func (d *Driver) Start() {
	if !atomic.CompareAndSwapInt32(&d.isMining, 0, 1) {
		return
	}
	go d.dispatch()
}

// Stop cancels any in-flight search and drains pending work. Idempotent.
func (d *Driver) Stop() {
	if !atomic.CompareAndSwapInt32(&d.isMining, 1, 0) {
		return
	}
	d.stop <- struct{}{}
done:
	for {
		select {
		case <-d.workCh:
		default:
			break done
		}
	}
}

func (d *Driver) dispatch() {
	for {
		select {
		case task := <-d.workCh:
			d.mu.Lock()
			if d.quitCurrentOp != nil {
				close(d.quitCurrentOp)
			}
			d.quitCurrentOp = make(chan struct{})
			go d.mine(task, d.quitCurrentOp)
			d.mu.Unlock()
		case <-d.stop:
			d.mu.Lock()
			if d.quitCurrentOp != nil {
				close(d.quitCurrentOp)
				d.quitCurrentOp = nil
			}
			d.mu.Unlock()
			return
		}
	}
}

func (d *Driver) mine(task *Task, stop <-chan struct{}) {
	vms, cache, dataset, err := generateMiningVMs(d.flags, task.RxKey, d.threads, stop)
	if err != nil {
		if err != ErrMiningCancelled {
			logger.Warn("failed to prepare RandomX VMs", "err", err)
		}
		if d.returnCh != nil {
			d.returnCh <- nil
		}
		return
	}
	defer func() {
		for _, vm := range vms {
			vm.Close()
		}
		dataset.Close()
		cache.Close()
	}()

	nonce, ok := searchNonce(vms, task.Target, task.Header, stop)
	if !ok {
		if d.returnCh != nil {
			d.returnCh <- nil
		}
		return
	}

	found := *task.Header
	found.Nonce = nonce
	logger.Info("found header satisfying target", "height", found.Height, "nonce", nonce)
	if d.returnCh != nil {
		d.returnCh <- &Result{Task: task, Header: &found}
	}
}

// searchNonce runs one goroutine per VM, each scanning a disjoint,
// monotonically increasing stream of nonces drawn from a shared counter.
// Each VM pipelines two hashes ahead of its comparison (calculate_hash_first
// / calculate_hash_next), so the nonce a hash result corresponds to is
// always the *previous* value drawn from the counter, not the current one —
// this one-nonce-behind offset mirrors the Rust source's mine_block loop.
func searchNonce(vms []pow.VM, target *big.Int, header *types.Header, stop <-chan struct{}) (uint32, bool) {
	nonceCounter := uatomic.NewUint32(0)
	found := uatomic.NewBool(false)
	foundNonce := uatomic.NewUint32(0)

	var wg sync.WaitGroup
	for _, vm := range vms {
		vm := vm
		wg.Add(1)
		go func() {
			defer wg.Done()

			lastNonce := nonceCounter.Inc() - 1
			h := *header
			h.Nonce = lastNonce
			vm.CalculateHashFirst(h.ToBlockHashingBlob())

			for {
				select {
				case <-stop:
					return
				default:
				}
				if found.Load() {
					return
				}

				nextNonce := nonceCounter.Inc() - 1
				h.Nonce = nextNonce
				outHash := vm.CalculateHashNext(h.ToBlockHashingBlob())

				if pow.HashMeetsTarget(outHash, target) {
					if found.CAS(false, true) {
						foundNonce.Store(lastNonce)
					}
					return
				}
				lastNonce = nextNonce
			}
		}()
	}
	wg.Wait()

	if !found.Load() {
		return 0, false
	}
	return foundNonce.Load(), true
}
