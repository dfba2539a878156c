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
	"testing"

	"github.com/darkfi-go/darkfi/common"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func encodeDeployParamsForTest(pk common.PublicKey, wasm, ix []byte) []byte {
	var buf []byte
	buf = append(buf, pk[:]...)

	var u32 [4]byte
	binary.LittleEndian.PutUint32(u32[:], uint32(len(wasm)))
	buf = append(buf, u32[:]...)
	buf = append(buf, wasm...)

	binary.LittleEndian.PutUint32(u32[:], uint32(len(ix)))
	buf = append(buf, u32[:]...)
	buf = append(buf, ix...)
	return buf
}

func TestDecodeDeployParamsRoundTrip(t *testing.T) {
	pk := common.PublicKey{0x42}
	wasm := []byte{0x00, 0x61, 0x73, 0x6d}
	ix := []byte{0x01, 0x02}

	data := encodeDeployParamsForTest(pk, wasm, ix)
	got, err := DecodeDeployParams(data)
	require.NoError(t, err)
	assert.Equal(t, pk, got.PublicKey)
	assert.Equal(t, wasm, got.WasmBincode)
	assert.Equal(t, ix, got.Ix)
}

func TestDecodeDeployParamsRejectsTruncated(t *testing.T) {
	pk := common.PublicKey{0x01}
	data := encodeDeployParamsForTest(pk, []byte{0x01}, []byte{0x02})
	_, err := DecodeDeployParams(data[:len(data)-1])
	assert.ErrorIs(t, err, ErrDeployParamsTruncated)
}

func TestDerivePublicContractIDDeterministic(t *testing.T) {
	pk := common.PublicKey{0x09, 0x08}
	a := DerivePublicContractID(pk)
	b := DerivePublicContractID(pk)
	assert.Equal(t, a, b)

	other := DerivePublicContractID(common.PublicKey{0x01})
	assert.NotEqual(t, a, other)
}
