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
	"fmt"

	"github.com/pkg/errors"

	"github.com/darkfi-go/darkfi/blockchain/types"
)

var (
	ErrInvalidFee         = errors.New("txverify: invalid fee call")
	ErrInsufficientFee    = errors.New("txverify: insufficient fee")
	ErrMissingSignatures  = errors.New("txverify: incorrect number of signatures")
	ErrInvalidSignature   = errors.New("txverify: signature verification failed")
	ErrInvalidZkProof     = errors.New("txverify: zk proof verification failed")
	ErrPowRewardOutsideProducer = errors.New("txverify: pow reward call outside producer transaction")
	ErrNotPowReward       = errors.New("txverify: producer transaction is not a pow reward")
	ErrNotSingleCall      = errors.New("txverify: producer transaction must be a single call")
)

// ErroneousTxsError reports every transaction that failed verification in
// a batch, §4.E failure policy / §4.F step 4.
type ErroneousTxsError struct {
	Txs []types.Transaction
}

func (e *ErroneousTxsError) Error() string {
	return fmt.Sprintf("txverify: %d erroneous transaction(s)", len(e.Txs))
}
