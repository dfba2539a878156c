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

package txverify

import (
	"encoding/binary"

	"github.com/darkfi-go/darkfi/common"
	"github.com/darkfi-go/darkfi/validator/contracthost"
)

// fakeRuntime is a scripted WasmRuntime: it returns configured metadata/exec
// outputs and fails only when told to, standing in for an actual WASM VM.
type fakeRuntime struct {
	metadata  []byte
	gasUsed   uint64
	execErr   error
	deployErr error
}

func (r *fakeRuntime) Metadata(payload []byte) ([]byte, error) { return r.metadata, nil }
func (r *fakeRuntime) Exec(payload []byte) ([]byte, error) {
	if r.execErr != nil {
		return nil, r.execErr
	}
	return []byte{}, nil
}
func (r *fakeRuntime) Apply(stateUpdate []byte) error { return nil }
func (r *fakeRuntime) Deploy(ix []byte) error          { return r.deployErr }
func (r *fakeRuntime) GasUsed() uint64                 { return r.gasUsed }

// fakeHost hands out the same scripted runtime for every contract call,
// recording every instantiation it served.
type fakeHost struct {
	runtime *fakeRuntime
	calls   []common.ContractID
}

func (h *fakeHost) Instantiate(contractID common.ContractID, overlay contracthost.StateOverlay, height uint32, target uint64, txHash common.Hash, callIndex uint32) (contracthost.WasmRuntime, error) {
	h.calls = append(h.calls, contractID)
	return h.runtime, nil
}

// fakeOverlay is a trivial in-memory StateOverlay; Checkpoint/Commit are
// no-ops since these tests only exercise the verification control flow.
type fakeOverlay struct {
	committed bool
}

func (o *fakeOverlay) Get(tree string, key []byte) ([]byte, error)        { return nil, nil }
func (o *fakeOverlay) Insert(tree string, key, value []byte) error        { return nil }
func (o *fakeOverlay) Checkpoint() (func(), error)                        { return func() {}, nil }
func (o *fakeOverlay) Commit() error                                      { o.committed = true; return nil }

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
	return []byte("zkbin:" + namespace), []byte("vk:" + namespace), nil
}

// fakeMerkleTree just records appended leaves; Root is their count encoded
// as a hash, which is all these tests need to assert against.
type fakeMerkleTree struct {
	leaves []common.Hash
}

func (t *fakeMerkleTree) Append(leaf common.Hash) { t.leaves = append(t.leaves, leaf) }
func (t *fakeMerkleTree) Root() common.Hash {
	var h common.Hash
	binary.LittleEndian.PutUint32(h[:4], uint32(len(t.leaves)))
	return h
}

func emptyMetadata() []byte {
	return []byte{0, 0, 0, 0, 0, 0, 0, 0}
}

func encodeFeePayload(paid uint64) []byte {
	data := make([]byte, 9)
	data[0] = contracthost.FunctionMoneyFee
	binary.LittleEndian.PutUint64(data[1:], paid)
	return data
}

// encodeMetadataSig builds a metadata buffer with no ZK public inputs and
// one signature public key per argument, matching DecodeMetadata's wire
// format.
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
