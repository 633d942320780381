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

package metriclock

import (
	"fmt"
	"math"

	"go.uber.org/atomic"
	"go.uber.org/zap"
)

// Clock is a metric clock. It owns a single monotonic tick counter and
// converts ticks to timestamps using its calendar.
//
// Clock is safe for concurrent use, advancement is serialized with
// compare-and-swap on the counter.
type Clock struct {
	tick     *atomic.Uint64
	limit    Tick
	calendar *Calendar
	logger   *zap.Logger
}

// Creates instance of metric clock, it starts at tick 0 of Hendricksonian
// calendar unless options say otherwise.
func New(opts ...Config) *Clock {
	clock := &Clock{tick: atomic.NewUint64(0)}
	defopt := []Config{
		WithCalendar(Hendricksonian),
		WithLimit(math.MaxUint64),
		WithLogger(zap.NewNop()),
	}

	for _, opt := range append(defopt, opts...) {
		opt(clock)
	}
	return clock
}

// Config option of metric clock behavior.
type Config func(*Clock)

// WithCalendar configures calendar used for conversions, nil is ignored
func WithCalendar(calendar *Calendar) Config {
	return func(clock *Clock) {
		if calendar != nil {
			clock.calendar = calendar
		}
	}
}

// WithEpoch starts the clock at given tick instead of 0. The epoch must not
// exceed the limit, otherwise every Advance fails with ErrOverflow.
func WithEpoch(t Tick) Config {
	return func(clock *Clock) {
		clock.tick.Store(uint64(t))
	}
}

// WithLimit configures the largest representable tick
func WithLimit(t Tick) Config {
	return func(clock *Clock) {
		clock.limit = t
	}
}

// WithLogger configures logger, the clock is silent by default
func WithLogger(logger *zap.Logger) Config {
	return func(clock *Clock) {
		if logger != nil {
			clock.logger = logger
		}
	}
}

// Now returns current value of tick counter
func (clock *Clock) Now() Tick {
	return Tick(clock.tick.Load())
}

// Limit returns the largest representable tick
func (clock *Clock) Limit() Tick { return clock.limit }

// Calendar used by the clock
func (clock *Clock) Calendar() *Calendar { return clock.calendar }

// Advance adds delta to the counter and returns new tick. The counter is
// left unchanged and ErrOverflow is returned if the result exceeds the limit.
func (clock *Clock) Advance(delta uint64) (Tick, error) {
	for {
		now := clock.tick.Load()
		if now > uint64(clock.limit) || delta > uint64(clock.limit)-now {
			clock.logger.Debug("tick overflow",
				zap.Uint64("tick", now),
				zap.Uint64("delta", delta),
				zap.Uint64("limit", uint64(clock.limit)),
			)
			return Tick(now), fmt.Errorf("%w: %d + %d exceeds %d", ErrOverflow, now, delta, clock.limit)
		}

		if delta == 0 || clock.tick.CompareAndSwap(now, now+delta) {
			return Tick(now + delta), nil
		}
	}
}

// ToTimestamp decomposes tick into calendar fields
func (clock *Clock) ToTimestamp(t Tick) (Timestamp, error) {
	return clock.calendar.ToTimestamp(t)
}

// FromTimestamp composes tick from calendar fields
func (clock *Clock) FromTimestamp(ts Timestamp) (Tick, error) {
	return clock.calendar.FromTimestamp(ts)
}

// Timestamp decomposes current tick into calendar fields
func (clock *Clock) Timestamp() (Timestamp, error) {
	return clock.calendar.ToTimestamp(clock.Now())
}
