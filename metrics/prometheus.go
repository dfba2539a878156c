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
	"github.com/prometheus/client_golang/prometheus"
	gometrics "github.com/rcrowley/go-metrics"
)

// collector bridges the go-metrics default registry into a prometheus
// Collector, so cmd/darkfid can register one value with
// prometheus.DefaultRegisterer (mirroring cmd/kcn/main.go's own
// promhttp.Handler wiring) instead of every package depending on
// prometheus's own Counter/Gauge types directly.
type collector struct {
	registry gometrics.Registry
}

// NewCollector wraps the default go-metrics registry as a
// prometheus.Collector.
func NewCollector() prometheus.Collector {
	return &collector{registry: gometrics.DefaultRegistry}
}

func (c *collector) Describe(ch chan<- *prometheus.Desc) {
	// Metric set is dynamic (packages register counters at init time), so
	// Describe is deliberately unchecked; this mirrors prometheus's own
	// guidance for bridging a dynamically-populated external registry.
}

func (c *collector) Collect(ch chan<- prometheus.Metric) {
	c.registry.Each(func(name string, i interface{}) {
		switch metric := i.(type) {
		case gometrics.Counter:
			ch <- prometheus.MustNewConstMetric(
				prometheus.NewDesc(sanitize(name), name, nil, nil),
				prometheus.CounterValue, float64(metric.Count()),
			)
		case gometrics.Gauge:
			ch <- prometheus.MustNewConstMetric(
				prometheus.NewDesc(sanitize(name), name, nil, nil),
				prometheus.GaugeValue, float64(metric.Value()),
			)
		case gometrics.Timer:
			ch <- prometheus.MustNewConstMetric(
				prometheus.NewDesc(sanitize(name)+"_count", name, nil, nil),
				prometheus.CounterValue, float64(metric.Count()),
			)
		}
	})
}

// sanitize maps a go-metrics "subsystem/metric" name to prometheus's
// underscore-separated convention.
func sanitize(name string) string {
	out := make([]byte, len(name))
	for i := 0; i < len(name); i++ {
		if name[i] == '/' || name[i] == '.' || name[i] == '-' {
			out[i] = '_'
		} else {
			out[i] = name[i]
		}
	}
	return "darkfi_" + string(out)
}
