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
	"golang.org/x/crypto/blake2b"

	"github.com/darkfi-go/darkfi/common"
)

var ErrDeployParamsTruncated = errors.New("contracthost: deploy params buffer truncated")

// DeployParamsV1 is the payload of a Deploy::DeployV1 call, §4.E step 3h:
// the deploying key, the new contract's WASM bytecode, and its init
// instruction data.
type DeployParamsV1 struct {
	PublicKey   common.PublicKey
	WasmBincode []byte
	Ix          []byte
}

// DecodeDeployParams parses data[1:] of a Deploy call into DeployParamsV1.
func DecodeDeployParams(data []byte) (DeployParamsV1, error) {
	var out DeployParamsV1
	if len(data) < 32+4 {
		return out, ErrDeployParamsTruncated
	}
	copy(out.PublicKey[:], data[:32])
	pos := 32

	wasmLen := binary.LittleEndian.Uint32(data[pos : pos+4])
	pos += 4
	if pos+int(wasmLen)+4 > len(data) {
		return out, ErrDeployParamsTruncated
	}
	out.WasmBincode = data[pos : pos+int(wasmLen)]
	pos += int(wasmLen)

	ixLen := binary.LittleEndian.Uint32(data[pos : pos+4])
	pos += 4
	if pos+int(ixLen) != len(data) {
		return out, ErrDeployParamsTruncated
	}
	out.Ix = data[pos : pos+int(ixLen)]

	return out, nil
}

// DerivePublicContractID derives a new contract's id deterministically
// from the deploying public key, §4.E step 3h ("derive deploy_cid from
// params.public_key").
func DerivePublicContractID(pk common.PublicKey) common.ContractID {
	return common.ContractID(blake2b.Sum256(pk[:]))
}
