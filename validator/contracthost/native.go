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

import "github.com/darkfi-go/darkfi/common"

// NativeContractID derives the fixed id of a built-in contract: a single
// low-valued byte right-aligned into the 32-byte id space, the same
// convention native contracts (Money, DAO, Deploy) use upstream so their
// ids stay stable across the chain's lifetime.
func NativeContractID(n uint8) common.ContractID {
	var id common.ContractID
	id[len(id)-1] = n
	return id
}

// Native contract ids the validator must recognize structurally per §1's
// non-goal boundary: concrete Money/DAO business logic is out of scope,
// but the fee and producer-reward calls they expose are not.
var (
	MoneyContractID  = NativeContractID(1)
	DeployContractID = NativeContractID(3)
)

// Function selectors within the Money and Deploy native contracts that the
// verifier must recognize without interpreting further.
const (
	FunctionMoneyFee       byte = 0x00
	FunctionMoneyPoWReward byte = 0x01
	FunctionDeployV1       byte = 0x00
)

// IsMoneyFee reports whether data selects the Money contract's Fee
// function, §4.E step 1/3b.
func IsMoneyFee(contractID common.ContractID, data []byte) bool {
	return contractID == MoneyContractID && len(data) > 0 && data[0] == FunctionMoneyFee
}

// IsMoneyPoWReward reports whether data selects the Money contract's
// PoWReward function, §4.E step 3a / §4.F step 5.
func IsMoneyPoWReward(contractID common.ContractID, data []byte) bool {
	return contractID == MoneyContractID && len(data) > 0 && data[0] == FunctionMoneyPoWReward
}

// IsDeployment reports whether data selects the Deploy contract's DeployV1
// function, §4.E step 3h.
func IsDeployment(contractID common.ContractID, data []byte) bool {
	return contractID == DeployContractID && len(data) > 0 && data[0] == FunctionDeployV1
}
