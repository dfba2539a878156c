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

package metrics

import (
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewRegisteredCounterIsIdempotentByName(t *testing.T) {
	first := NewRegisteredCounter("test/idempotent-counter")
	first.Inc(5)
	second := NewRegisteredCounter("test/idempotent-counter")
	assert.EqualValues(t, 5, second.Count())
}

func TestPackageLevelMetricsAreRegistered(t *testing.T) {
	MiningBlocksFound.Inc(1)
	assert.GreaterOrEqual(t, MiningBlocksFound.Count(), int64(1))
}

func TestCollectorEmitsRegisteredMetrics(t *testing.T) {
	NewRegisteredCounter("test/collector-probe").Inc(3)

	reg := prometheus.NewPedanticRegistry()
	require.NoError(t, reg.Register(NewCollector()))

	families, err := reg.Gather()
	require.NoError(t, err)
	assert.NotEmpty(t, families)
}
