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
// RingBuffer ports the fixed-capacity ring buffer from
// original_source/src/util/ringbuffer.rs (consumed by validator/pow.rs) to
// Go using generics in place of Rust const-generic array length.

package pow

// RingBuffer is a fixed-capacity FIFO: once full, each push evicts the
// oldest element. Iteration order is oldest-to-newest, matching the Rust
// source's `.iter()`.
type RingBuffer[T any] struct {
	capacity int
	data     []T
}

// NewRingBuffer creates an empty ring buffer with the given capacity.
func NewRingBuffer[T any](capacity int) *RingBuffer[T] {
	return &RingBuffer[T]{capacity: capacity, data: make([]T, 0, capacity)}
}

// Push appends v, evicting the oldest element if the buffer is at capacity.
func (r *RingBuffer[T]) Push(v T) {
	if len(r.data) < r.capacity {
		r.data = append(r.data, v)
		return
	}
	copy(r.data, r.data[1:])
	r.data[len(r.data)-1] = v
}

// Len returns the number of elements currently stored.
func (r *RingBuffer[T]) Len() int { return len(r.data) }

// At returns the element at the given oldest-to-newest index.
func (r *RingBuffer[T]) At(i int) T { return r.data[i] }

// Items returns a copy of the buffer contents, oldest first.
func (r *RingBuffer[T]) Items() []T {
	out := make([]T, len(r.data))
	copy(out, r.data)
	return out
}

// Last returns the most recently pushed element, and whether the buffer is
// non-empty.
func (r *RingBuffer[T]) Last() (T, bool) {
	var zero T
	if len(r.data) == 0 {
		return zero, false
	}
	return r.data[len(r.data)-1], true
}
