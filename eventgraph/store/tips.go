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

package store

import (
	"sort"

	"github.com/darkfi-go/darkfi/common"
)

// LayerUTips is the unreferenced-tip index of §3: a hash is present iff no
// other event in the DAG lists it as a parent. Keyed by layer so a fresh
// tip's layer neighbors are easy to find during insert/prune.
type LayerUTips map[uint64]map[common.Hash]struct{}

// NewLayerUTips returns an empty tip index.
func NewLayerUTips() LayerUTips {
	return make(LayerUTips)
}

// Add records hash as an unreferenced tip at layer.
func (t LayerUTips) Add(layer uint64, hash common.Hash) {
	set, ok := t[layer]
	if !ok {
		set = make(map[common.Hash]struct{})
		t[layer] = set
	}
	set[hash] = struct{}{}
}

// Remove drops hash from every layer at or below maxLayer, pruning empty
// layers as it goes — the "remove each of its parents from all lower
// layers" step of §4.J's dag_insert.
func (t LayerUTips) Remove(hash common.Hash, maxLayer uint64) {
	for layer, set := range t {
		if layer > maxLayer {
			continue
		}
		delete(set, hash)
		if len(set) == 0 {
			delete(t, layer)
		}
	}
}

// Layers returns every layer that currently holds at least one tip,
// ascending.
func (t LayerUTips) Layers() []uint64 {
	out := make([]uint64, 0, len(t))
	for layer := range t {
		out = append(out, layer)
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}

// All flattens the index into a single slice of tip hashes, order
// unspecified.
func (t LayerUTips) All() []common.Hash {
	var out []common.Hash
	for _, set := range t {
		for h := range set {
			out = append(out, h)
		}
	}
	return out
}

// Clone returns a deep copy, used when dag_insert's refreshed event-dag
// tip map is copied into the parallel header-dag entry, §4.J step 6.
func (t LayerUTips) Clone() LayerUTips {
	out := make(LayerUTips, len(t))
	for layer, set := range t {
		clonedSet := make(map[common.Hash]struct{}, len(set))
		for h := range set {
			clonedSet[h] = struct{}{}
		}
		out[layer] = clonedSet
	}
	return out
}
