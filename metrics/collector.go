//
//  Copyright 2012 Dmitry Kolesnikov, All Rights Reserved
//
//  Licensed under the Apache License, Version 2.0 (the "License");
//  you may not use this file except in compliance with the License.
//  You may obtain a copy of the License at
//
//      http://www.apache.org/licenses/LICENSE-2.0
//
//  Unless required by applicable law or agreed to in writing, software
//  distributed under the License is distributed on an "AS IS" BASIS,
//  WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
//  See the License for the specific language governing permissions and
//  limitations under the License.
//

// Package metrics exports state of metric clock to Prometheus.
package metrics

import (
	"github.com/fogfish/metriclock"
	"github.com/prometheus/client_golang/prometheus"
)

var units = []metriclock.Unit{
	metriclock.Subsecond,
	metriclock.Second,
	metriclock.Minute,
	metriclock.Hour,
	metriclock.Day,
	metriclock.Week,
	metriclock.Month,
	metriclock.Year,
}

// Collector reads the clock at scrape time
//
//	<namespace>_clock_tick
//	<namespace>_clock_field{unit="..."}
//
// Ticks above 2⁵³ lose precision as float64 samples.
type Collector struct {
	clock *metriclock.Clock
	tick  *prometheus.Desc
	field *prometheus.Desc
}

var _ prometheus.Collector = (*Collector)(nil)

// NewCollector creates collector of the clock
func NewCollector(namespace string, clock *metriclock.Clock) *Collector {
	return &Collector{
		clock: clock,
		tick: prometheus.NewDesc(
			prometheus.BuildFQName(namespace, "clock", "tick"),
			"Current value of metric clock tick counter.",
			nil, nil,
		),
		field: prometheus.NewDesc(
			prometheus.BuildFQName(namespace, "clock", "field"),
			"Current metric timestamp decomposed by calendar unit.",
			[]string{"unit"}, nil,
		),
	}
}

func (c *Collector) Describe(ch chan<- *prometheus.Desc) {
	ch <- c.tick
	ch <- c.field
}

func (c *Collector) Collect(ch chan<- prometheus.Metric) {
	now := c.clock.Now()
	ch <- prometheus.MustNewConstMetric(c.tick, prometheus.GaugeValue, float64(now))

	ts, err := c.clock.ToTimestamp(now)
	if err != nil {
		ch <- prometheus.NewInvalidMetric(c.field, err)
		return
	}

	for _, u := range units {
		ch <- prometheus.MustNewConstMetric(c.field, prometheus.GaugeValue, float64(ts.Get(u)), u.String())
	}
}
