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

// Package metrics is a thin, repo-wide front onto go-metrics' default
// registry, in the style of the teacher's own work/worker.go
// (metrics.NewRegisteredCounter) and chaindatafetcher's use of the same
// library. A Collector bridges the registry into prometheus so the
// daemon can serve /metrics without every package reaching for
// prometheus's own instrument types directly.
package metrics

import (
	gometrics "github.com/rcrowley/go-metrics"
)

// NewRegisteredCounter registers (or returns the existing) named counter
// in the default registry, mirroring work/worker.go's call shape exactly.
func NewRegisteredCounter(name string) gometrics.Counter {
	return gometrics.GetOrRegisterCounter(name, gometrics.DefaultRegistry)
}

// NewRegisteredGauge registers (or returns the existing) named gauge.
func NewRegisteredGauge(name string) gometrics.Gauge {
	return gometrics.GetOrRegisterGauge(name, gometrics.DefaultRegistry)
}

// NewRegisteredTimer registers (or returns the existing) named timer.
func NewRegisteredTimer(name string) gometrics.Timer {
	return gometrics.GetOrRegisterTimer(name, gometrics.DefaultRegistry)
}

// Counters and gauges shared across the mining, consensus, and event-graph
// subsystems, named after the teacher's "subsystem/metric" convention
// (work/worker.go's "miner/timelimitreached").
var (
	MiningBlocksFound   = NewRegisteredCounter("mining/blocksfound")
	MiningStaleShares   = NewRegisteredCounter("mining/staleshares")
	ForksActive         = NewRegisteredGauge("consensus/forksactive")
	ForksDiscarded      = NewRegisteredCounter("consensus/forksdiscarded")
	EventGraphInserted  = NewRegisteredCounter("eventgraph/eventsinserted")
	EventGraphSyncFails = NewRegisteredCounter("eventgraph/syncfailures")
	HostRegistrySuspend = NewRegisteredCounter("host/suspended")
)
