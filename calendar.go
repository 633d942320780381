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

package metriclock

import (
	"errors"
	"fmt"
	"io"
	"math"

	"github.com/kelseyhightower/envconfig"
	"go.uber.org/multierr"
	"gopkg.in/yaml.v3"
)

/*

Ratios defines the number of units in the next larger unit. Each ratio must
be a power of ten, the ratio 1 collapses the unit (its field is always 0).
*/
type Ratios struct {
	SubsecondsPerSecond uint64 `yaml:"subseconds_per_second" envconfig:"SUBSECONDS_PER_SECOND" default:"10"`
	SecondsPerMinute    uint64 `yaml:"seconds_per_minute" envconfig:"SECONDS_PER_MINUTE" default:"100"`
	MinutesPerHour      uint64 `yaml:"minutes_per_hour" envconfig:"MINUTES_PER_HOUR" default:"100"`
	HoursPerDay         uint64 `yaml:"hours_per_day" envconfig:"HOURS_PER_DAY" default:"10"`
	DaysPerWeek         uint64 `yaml:"days_per_week" envconfig:"DAYS_PER_WEEK" default:"10"`
	WeeksPerMonth       uint64 `yaml:"weeks_per_month" envconfig:"WEEKS_PER_MONTH" default:"10"`
	MonthsPerYear       uint64 `yaml:"months_per_year" envconfig:"MONTHS_PER_YEAR" default:"10"`
}

// HendricksonianRatios of metric calendar
//
//	1 year   = 10 months
//	1 month  = 10 weeks
//	1 week   = 10 days
//	1 day    = 10 hours
//	1 hour   = 100 minutes
//	1 minute = 100 seconds
//	1 second = 10 subseconds
var HendricksonianRatios = Ratios{
	SubsecondsPerSecond: 10,
	SecondsPerMinute:    100,
	MinutesPerHour:      100,
	HoursPerDay:         10,
	DaysPerWeek:         10,
	WeeksPerMonth:       10,
	MonthsPerYear:       10,
}

func (r Ratios) array() [bounded]uint64 {
	return [bounded]uint64{
		r.SubsecondsPerSecond,
		r.SecondsPerMinute,
		r.MinutesPerHour,
		r.HoursPerDay,
		r.DaysPerWeek,
		r.WeeksPerMonth,
		r.MonthsPerYear,
	}
}

/*

Calendar decomposes ticks into metric timestamps using fixed ratios.
Calendar is immutable once created, it is safe for concurrent use.
*/
type Calendar struct {
	ratio [bounded]uint64
	// ticks per unit
	scale [bounded + 1]uint64
	err   error
}

// Hendricksonian is the default calendar
var Hendricksonian = NewCalendar()

// CalendarConfig option of calendar ratios
type CalendarConfig func(*Calendar)

// NewCalendar creates a calendar, Hendricksonian ratios are used unless
// options say otherwise. Misconfiguration is reported by Validate.
func NewCalendar(opts ...CalendarConfig) *Calendar {
	c := &Calendar{}
	defopt := []CalendarConfig{WithRatios(HendricksonianRatios)}

	for _, opt := range append(defopt, opts...) {
		opt(c)
	}

	c.compile()
	return c
}

// WithRatio configures number of units u in the next larger unit
func WithRatio(u Unit, n uint64) CalendarConfig {
	return func(c *Calendar) {
		if u < Subsecond || u >= Year {
			c.err = multierr.Append(c.err,
				fmt.Errorf("%w: %s has no ratio", ErrInvalidTick, u))
			return
		}
		c.ratio[u] = n
	}
}

// WithRatios configures all ratios at once
func WithRatios(r Ratios) CalendarConfig {
	return func(c *Calendar) {
		c.ratio = r.array()
	}
}

// WithRatiosFromEnv configures ratios from environment variables.
// Unset variables fall back to Hendricksonian ratios.
//
//	CONFIG_METRICLOCK_SUBSECONDS_PER_SECOND
//	CONFIG_METRICLOCK_SECONDS_PER_MINUTE
//	CONFIG_METRICLOCK_MINUTES_PER_HOUR
//	CONFIG_METRICLOCK_HOURS_PER_DAY
//	CONFIG_METRICLOCK_DAYS_PER_WEEK
//	CONFIG_METRICLOCK_WEEKS_PER_MONTH
//	CONFIG_METRICLOCK_MONTHS_PER_YEAR
func WithRatiosFromEnv() CalendarConfig {
	return func(c *Calendar) {
		var r Ratios
		if err := envconfig.Process("config_metriclock", &r); err != nil {
			c.err = multierr.Append(c.err, fmt.Errorf("%w: %v", ErrInvalidTick, err))
			return
		}
		c.ratio = r.array()
	}
}

/*

ReadCalendar loads ratios from YAML document. Missing keys fall back to
Hendricksonian ratios.

	subseconds_per_second: 10
	seconds_per_minute: 100
	minutes_per_hour: 100
	hours_per_day: 10
	days_per_week: 10
	weeks_per_month: 10
	months_per_year: 10
*/
func ReadCalendar(r io.Reader) (*Calendar, error) {
	ratios := HendricksonianRatios
	if err := yaml.NewDecoder(r).Decode(&ratios); err != nil && !errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("%w: %v", ErrMalformed, err)
	}

	c := NewCalendar(WithRatios(ratios))
	if err := c.Validate(); err != nil {
		return nil, err
	}
	return c, nil
}

func (c *Calendar) compile() {
	if c.err != nil {
		return
	}

	scale := uint64(1)
	for u := Subsecond; u < Year; u++ {
		r := c.ratio[u]
		if !isPowerOfTen(r) {
			c.err = fmt.Errorf("%w: %s ratio %d is not a power of ten", ErrInvalidTick, u, r)
			return
		}

		c.scale[u] = scale
		if scale > math.MaxUint64/r {
			c.err = fmt.Errorf("%w: %s overflows tick range", ErrInvalidTick, u+1)
			return
		}
		scale *= r
	}
	c.scale[Year] = scale
}

func isPowerOfTen(n uint64) bool {
	if n == 0 {
		return false
	}
	for n%10 == 0 {
		n /= 10
	}
	return n == 1
}

// Validate returns error if calendar ratios are misconfigured
func (c *Calendar) Validate() error { return c.err }

// Ratios returns configuration of the calendar
func (c *Calendar) Ratios() Ratios {
	return Ratios{
		SubsecondsPerSecond: c.ratio[Subsecond],
		SecondsPerMinute:    c.ratio[Second],
		MinutesPerHour:      c.ratio[Minute],
		HoursPerDay:         c.ratio[Hour],
		DaysPerWeek:         c.ratio[Day],
		WeeksPerMonth:       c.ratio[Week],
		MonthsPerYear:       c.ratio[Month],
	}
}

// Scale returns number of ticks in the unit, 0 if calendar is misconfigured.
func (c *Calendar) Scale(u Unit) uint64 {
	if c.err != nil || u < Subsecond || u > Year {
		return 0
	}
	return c.scale[u]
}

/*

ToTimestamp decomposes tick into calendar fields.
*/
func (c *Calendar) ToTimestamp(t Tick) (ts Timestamp, err error) {
	if c.err != nil {
		return ts, c.err
	}

	rem := uint64(t)
	for u := Year; u >= Subsecond; u-- {
		ts.set(u, rem/c.scale[u])
		rem %= c.scale[u]
	}
	return ts, nil
}

/*

FromTimestamp composes tick from calendar fields. The operation is inverse to
ToTimestamp. All fields out of range are reported, each one as *FieldError.
*/
func (c *Calendar) FromTimestamp(ts Timestamp) (Tick, error) {
	if c.err != nil {
		return 0, c.err
	}

	var (
		errs  error
		lower uint64
	)
	for u := Subsecond; u < Year; u++ {
		v := ts.Get(u)
		if v >= c.ratio[u] {
			errs = multierr.Append(errs, &FieldError{Unit: u, Value: v, Limit: c.ratio[u]})
			continue
		}
		// sum of bounded fields is below c.scale[Year]
		lower += v * c.scale[u]
	}
	if errs != nil {
		return 0, errs
	}

	maxYear := (math.MaxUint64 - lower) / c.scale[Year]
	if ts.Year > maxYear {
		return 0, &FieldError{Unit: Year, Value: ts.Year, Limit: maxYear + 1}
	}

	return Tick(ts.Year*c.scale[Year] + lower), nil
}

// Truncate rounds tick down to the start of enclosing unit
func (c *Calendar) Truncate(t Tick, u Unit) (Tick, error) {
	s := c.Scale(u)
	if s == 0 {
		if c.err != nil {
			return t, c.err
		}
		return t, fmt.Errorf("%w: unknown %s", ErrInvalidTick, u)
	}
	return t - t%Tick(s), nil
}
