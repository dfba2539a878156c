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

package blockverify

import (
	"encoding/binary"

	"github.com/darkfi-go/darkfi/common"
	"github.com/darkfi-go/darkfi/validator/contracthost"
)

type fakeRuntime struct {
	metadata []byte
}

func (r *fakeRuntime) Metadata(payload []byte) ([]byte, error) { return r.metadata, nil }
func (r *fakeRuntime) Exec(payload []byte) ([]byte, error)     { return []byte{}, nil }
func (r *fakeRuntime) Apply(stateUpdate []byte) error          { return nil }
func (r *fakeRuntime) Deploy(ix []byte) error                  { return nil }
func (r *fakeRuntime) GasUsed() uint64                         { return 0 }

type fakeHost struct {
	runtime    *fakeRuntime
	byContract map[common.ContractID]*fakeRuntime
}

func (h *fakeHost) Instantiate(contractID common.ContractID, overlay contracthost.StateOverlay, height uint32, target uint64, txHash common.Hash, callIndex uint32) (contracthost.WasmRuntime, error) {
	if r, ok := h.byContract[contractID]; ok {
		return r, nil
	}
	return h.runtime, nil
}

type fakeOverlay struct {
	committed bool
}

func (o *fakeOverlay) Get(tree string, key []byte) ([]byte, error) { return nil, nil }
func (o *fakeOverlay) Insert(tree string, key, value []byte) error { return nil }
func (o *fakeOverlay) Checkpoint() (func(), error)                 { return func() {}, nil }
func (o *fakeOverlay) Commit() error                               { o.committed = true; return nil }

type fakeSchnorr struct {
	valid bool
}

func (s *fakeSchnorr) Verify(pubkey common.PublicKey, msg common.Hash, sig []byte) bool {
	return s.valid
}

type fakeZk struct {
	valid bool
}

func (z *fakeZk) Verify(vk []byte, proof []byte, publicInputs []byte) (bool, error) {
	return z.valid, nil
}

type fakeStore struct{}

func (fakeStore) LookupZkBin(contractID common.ContractID, namespace string) ([]byte, []byte, error) {
	return []byte("zkbin"), []byte("vk"), nil
}

type fakeMerkleTree struct {
	leaves []common.Hash
	root   common.Hash
}

func (t *fakeMerkleTree) Append(leaf common.Hash) { t.leaves = append(t.leaves, leaf) }
func (t *fakeMerkleTree) Root() common.Hash       { return t.root }

type fakeTreeFactory struct {
	root common.Hash
}

func (f *fakeTreeFactory) New() contracthost.MerkleTree {
	return &fakeMerkleTree{root: f.root}
}

type fakeMonotree struct {
	root common.Hash
}

func (m *fakeMonotree) Insert(diffs map[string][]byte) error { return nil }
func (m *fakeMonotree) HeadRoot() common.Hash                { return m.root }

func encodeMetadataSig(pubkeys ...common.PublicKey) []byte {
	var buf []byte
	var u32 [4]byte
	buf = append(buf, u32[:]...) // zkCount = 0

	binary.LittleEndian.PutUint32(u32[:], uint32(len(pubkeys)))
	buf = append(buf, u32[:]...)
	for _, pk := range pubkeys {
		buf = append(buf, pk[:]...)
	}
	return buf
}

func encodeMetadataZkAndSig(namespace string, inputs []common.Hash, pubkeys ...common.PublicKey) []byte {
	var buf []byte
	var u32 [4]byte

	binary.LittleEndian.PutUint32(u32[:], 1) // one zk entry
	buf = append(buf, u32[:]...)

	binary.LittleEndian.PutUint32(u32[:], uint32(len(namespace)))
	buf = append(buf, u32[:]...)
	buf = append(buf, namespace...)

	binary.LittleEndian.PutUint32(u32[:], uint32(len(inputs)))
	buf = append(buf, u32[:]...)
	for _, in := range inputs {
		buf = append(buf, in[:]...)
	}

	binary.LittleEndian.PutUint32(u32[:], uint32(len(pubkeys)))
	buf = append(buf, u32[:]...)
	for _, pk := range pubkeys {
		buf = append(buf, pk[:]...)
	}
	return buf
}
