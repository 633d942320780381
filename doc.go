/*

  Copyright 2012 Dmitry Kolesnikov, All Rights Reserved

  Licensed under the Apache License, Version 2.0 (the "License");
  you may not use this file except in compliance with the License.
  You may obtain a copy of the License at

      http://www.apache.org/licenses/LICENSE-2.0

  Unless required by applicable law or agreed to in writing, software
  distributed under the License is distributed on an "AS IS" BASIS,
  WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
  See the License for the specific language governing permissions and
  limitations under the License.

*/

/*
Package metriclock implements hybrid metric clock and calendar for game
simulations. The clock is a monotonic counter of ticks, the calendar is a
deterministic decomposition of ticks into metric units.

# Key features

↣ Time never goes backward, the clock advances by caller supplied delta.

↣ Conversions are pure and lossless:

	FromTimestamp(ToTimestamp(𝒕)) = 𝒕

↣ Ratios between units are powers of ten, configurable in code, from
environment or from YAML document.

↣ Real-time and turn-based simulation of the clock driven by game loop.

# Calendar

The default calendar follows Hendricksonian metric calendar. The tick is one
tenth of metric second, the metric second equals to SI second.

	1 year   = 10 months    = 1 000 000 000 ticks
	1 month  = 10 weeks     =   100 000 000 ticks
	1 week   = 10 days      =    10 000 000 ticks
	1 day    = 10 hours     =     1 000 000 ticks
	1 hour   = 100 minutes  =       100 000 ticks
	1 minute = 100 seconds  =         1 000 ticks
	1 second = 10 subseconds =           10 ticks

The ratio 1 collapses unit, e.g. the calendar of 100 seconds per hour is

	metriclock.NewCalendar(
		metriclock.WithRatio(metriclock.Second, 100),
		metriclock.WithRatio(metriclock.Minute, 1),
	)

# Usage

	clock := metriclock.New()
	clock.Advance(1000)

	ts, _ := clock.Timestamp()
	ts.String() // 0-00-00-00@00:01:00.0
*/
package metriclock
