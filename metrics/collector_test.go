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

package metrics_test

import (
	"strings"
	"testing"

	"github.com/fogfish/it/v2"
	"github.com/fogfish/metriclock"
	"github.com/fogfish/metriclock/metrics"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
)

func TestCollectorCount(t *testing.T) {
	c := metrics.NewCollector("game", metriclock.New())

	it.Then(t).Should(
		it.Equal(testutil.CollectAndCount(c), 9),
		it.Equal(testutil.CollectAndCount(c, "game_clock_tick"), 1),
		it.Equal(testutil.CollectAndCount(c, "game_clock_field"), 8),
	)
}

func TestCollectorTick(t *testing.T) {
	clock := metriclock.New()
	c := metrics.NewCollector("game", clock)
	clock.Advance(123456)

	err := testutil.CollectAndCompare(c, strings.NewReader(`
# HELP game_clock_tick Current value of metric clock tick counter.
# TYPE game_clock_tick gauge
game_clock_tick 123456
`), "game_clock_tick")

	it.Then(t).Should(
		it.True(err == nil),
	)
}

func TestCollectorField(t *testing.T) {
	clock := metriclock.New(
		metriclock.WithEpoch(1234567891234),
	)
	c := metrics.NewCollector("game", clock)

	err := testutil.CollectAndCompare(c, strings.NewReader(`
# HELP game_clock_field Current metric timestamp decomposed by calendar unit.
# TYPE game_clock_field gauge
game_clock_field{unit="day"} 7
game_clock_field{unit="hour"} 8
game_clock_field{unit="minute"} 91
game_clock_field{unit="month"} 5
game_clock_field{unit="second"} 23
game_clock_field{unit="subsecond"} 4
game_clock_field{unit="week"} 6
game_clock_field{unit="year"} 1234
`), "game_clock_field")

	it.Then(t).Should(
		it.True(err == nil),
	)
}

func TestCollectorInvalidCalendar(t *testing.T) {
	clock := metriclock.New(
		metriclock.WithCalendar(
			metriclock.NewCalendar(metriclock.WithRatio(metriclock.Day, 7)),
		),
	)
	c := metrics.NewCollector("game", clock)

	ch := make(chan prometheus.Metric, 16)
	c.Collect(ch)
	close(ch)

	it.Then(t).Should(
		it.Equal(len(ch), 2),
	)
}
