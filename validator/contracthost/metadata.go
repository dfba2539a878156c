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

package contracthost

import (
	"encoding/binary"

	"github.com/pkg/errors"

	"github.com/darkfi-go/darkfi/common"
)

var ErrMetadataTruncated = errors.New("contracthost: metadata buffer not fully consumed")

// ZkPublicInput is one (namespace, public inputs) pair a contract call's
// metadata declares, §4.E step 3d.
type ZkPublicInput struct {
	Namespace string
	Inputs    []common.Hash // Pallas base field elements, 32 bytes each
}

// DecodeMetadata parses the buffer WasmRuntime.Metadata returns: a table of
// ZK public inputs followed by a table of signature public keys. The
// decoder must consume the entire buffer, mirroring the upstream
// AsyncDecodable contract that metadata decoding leaves nothing unread.
func DecodeMetadata(buf []byte) ([]ZkPublicInput, []common.PublicKey, error) {
	pos := 0
	readU32 := func() (uint32, error) {
		if pos+4 > len(buf) {
			return 0, ErrMetadataTruncated
		}
		v := binary.LittleEndian.Uint32(buf[pos : pos+4])
		pos += 4
		return v, nil
	}

	zkCount, err := readU32()
	if err != nil {
		return nil, nil, err
	}

	zkp := make([]ZkPublicInput, 0, zkCount)
	for i := uint32(0); i < zkCount; i++ {
		nsLen, err := readU32()
		if err != nil {
			return nil, nil, err
		}
		if pos+int(nsLen) > len(buf) {
			return nil, nil, ErrMetadataTruncated
		}
		ns := string(buf[pos : pos+int(nsLen)])
		pos += int(nsLen)

		inputCount, err := readU32()
		if err != nil {
			return nil, nil, err
		}
		inputs := make([]common.Hash, 0, inputCount)
		for j := uint32(0); j < inputCount; j++ {
			if pos+common.HashLength > len(buf) {
				return nil, nil, ErrMetadataTruncated
			}
			inputs = append(inputs, common.BytesToHash(buf[pos:pos+common.HashLength]))
			pos += common.HashLength
		}
		zkp = append(zkp, ZkPublicInput{Namespace: ns, Inputs: inputs})
	}

	sigCount, err := readU32()
	if err != nil {
		return nil, nil, err
	}
	sigPub := make([]common.PublicKey, 0, sigCount)
	for i := uint32(0); i < sigCount; i++ {
		if pos+32 > len(buf) {
			return nil, nil, ErrMetadataTruncated
		}
		var pk common.PublicKey
		copy(pk[:], buf[pos:pos+32])
		sigPub = append(sigPub, pk)
		pos += 32
	}

	if pos != len(buf) {
		return nil, nil, ErrMetadataTruncated
	}

	return zkp, sigPub, nil
}
