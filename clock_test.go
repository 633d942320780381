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

package metriclock_test

import (
	"errors"
	"math"
	"sync"
	"testing"

	"github.com/fogfish/it/v2"
	"github.com/fogfish/metriclock"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
	"pgregory.net/rapid"
)

func TestNew(t *testing.T) {
	c := metriclock.New()
	ts, err := c.Timestamp()

	it.Then(t).Should(
		it.Equal(c.Now(), 0),
		it.Equal(c.Limit(), math.MaxUint64),
		it.True(c.Calendar() == metriclock.Hendricksonian),
		it.True(err == nil),
		it.Equal(ts, metriclock.Timestamp{}),
	)
}

func TestWithEpoch(t *testing.T) {
	c := metriclock.New(
		metriclock.WithEpoch(123456),
	)
	ts, err := c.Timestamp()

	it.Then(t).Should(
		it.Equal(c.Now(), 123456),
		it.True(err == nil),
		it.Equal(ts, metriclock.Timestamp{Hour: 1, Minute: 23, Second: 45, Subsecond: 6}),
	)
}

func TestAdvance(t *testing.T) {
	c := metriclock.New()
	a, errA := c.Advance(10)
	b, errB := c.Advance(990)

	it.Then(t).Should(
		it.True(errA == nil),
		it.True(errB == nil),
		it.Equal(a, 10),
		it.Equal(b, 1000),
		it.Equal(c.Now(), 1000),
	)
}

func TestAdvanceZero(t *testing.T) {
	c := metriclock.New(
		metriclock.WithEpoch(42),
	)
	a, err := c.Advance(0)

	it.Then(t).Should(
		it.True(err == nil),
		it.Equal(a, 42),
		it.Equal(c.Now(), 42),
	)
}

func TestAdvanceAdditive(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		d1 := rapid.Uint64Range(0, math.MaxUint64/2).Draw(t, "d1")
		d2 := rapid.Uint64Range(0, math.MaxUint64/2).Draw(t, "d2")

		a := metriclock.New()
		if _, err := a.Advance(d1); err != nil {
			t.Fatalf("advance %d: %v", d1, err)
		}
		if _, err := a.Advance(d2); err != nil {
			t.Fatalf("advance %d: %v", d2, err)
		}

		b := metriclock.New()
		if _, err := b.Advance(d1 + d2); err != nil {
			t.Fatalf("advance %d: %v", d1+d2, err)
		}

		if a.Now() != b.Now() {
			t.Fatalf("advance(%d); advance(%d) = %d, advance(%d) = %d", d1, d2, a.Now(), d1+d2, b.Now())
		}
	})
}

func TestAdvanceOverflow(t *testing.T) {
	c := metriclock.New(
		metriclock.WithEpoch(math.MaxUint64 - 1),
	)
	a, errA := c.Advance(1)
	b, errB := c.Advance(1)

	it.Then(t).Should(
		it.True(errA == nil),
		it.Equal(a, math.MaxUint64),
		it.True(errors.Is(errB, metriclock.ErrOverflow)),
		it.Equal(b, math.MaxUint64),
		it.Equal(c.Now(), math.MaxUint64),
	)
}

func TestAdvanceLimit(t *testing.T) {
	c := metriclock.New(
		metriclock.WithLimit(100),
	)
	_, errA := c.Advance(100)
	_, errB := c.Advance(1)
	_, errC := c.Advance(0)

	it.Then(t).Should(
		it.True(errA == nil),
		it.True(errors.Is(errB, metriclock.ErrOverflow)),
		it.True(errC == nil),
		it.Equal(c.Now(), 100),
	)
}

func TestAdvanceEpochAboveLimit(t *testing.T) {
	c := metriclock.New(
		metriclock.WithLimit(10),
		metriclock.WithEpoch(20),
	)
	_, err := c.Advance(0)

	it.Then(t).Should(
		it.True(errors.Is(err, metriclock.ErrOverflow)),
		it.Equal(c.Now(), 20),
	)
}

func TestAdvanceConcurrent(t *testing.T) {
	c := metriclock.New()

	var wg sync.WaitGroup
	for i := 0; i < 16; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			last := metriclock.Tick(0)
			for k := 0; k < 1000; k++ {
				now, err := c.Advance(1)
				if err != nil || now <= last {
					t.Errorf("non monotonic advance %d after %d: %v", now, last, err)
					return
				}
				last = now
			}
		}()
	}
	wg.Wait()

	it.Then(t).Should(
		it.Equal(c.Now(), 16*1000),
	)
}

func TestWithLogger(t *testing.T) {
	core, logs := observer.New(zapcore.DebugLevel)
	c := metriclock.New(
		metriclock.WithLimit(1),
		metriclock.WithLogger(zap.New(core)),
	)
	c.Advance(2)

	it.Then(t).Should(
		it.Equal(logs.FilterMessage("tick overflow").Len(), 1),
	)
}

func TestClockConversion(t *testing.T) {
	c := metriclock.New()
	ts, errA := c.ToTimestamp(1000)
	tick, errB := c.FromTimestamp(ts)

	it.Then(t).Should(
		it.True(errA == nil),
		it.True(errB == nil),
		it.Equal(ts, metriclock.Timestamp{Minute: 1}),
		it.Equal(tick, 1000),
	)
}

func TestWithCalendar(t *testing.T) {
	cal := metriclock.NewCalendar(
		metriclock.WithRatio(metriclock.Minute, 1),
	)
	c := metriclock.New(
		metriclock.WithCalendar(cal),
		metriclock.WithEpoch(1000),
	)
	ts, err := c.Timestamp()

	it.Then(t).Should(
		it.True(err == nil),
		it.Equal(ts, metriclock.Timestamp{Hour: 1}),
	)
}

func TestWithCalendarNil(t *testing.T) {
	c := metriclock.New(
		metriclock.WithCalendar(nil),
		metriclock.WithLogger(nil),
		metriclock.WithLimit(1),
		metriclock.WithEpoch(1000),
	)
	ts, errA := c.Timestamp()
	_, errB := c.Advance(1)

	it.Then(t).Should(
		it.True(c.Calendar() == metriclock.Hendricksonian),
		it.True(errA == nil),
		it.Equal(ts, metriclock.Timestamp{Minute: 1}),
		it.True(errors.Is(errB, metriclock.ErrOverflow)),
	)
}

var last metriclock.Tick

func BenchmarkAdvance(b *testing.B) {
	c := metriclock.New()
	for i := 0; i < b.N; i++ {
		last, _ = c.Advance(1)
	}
}
