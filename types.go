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
)

/*

Tick is the smallest indivisible unit of elapsed time since epoch (tick = 0).
*/
type Tick uint64

/*

Unit of metric calendar, ordered from the smallest to the largest one.
*/
type Unit int

const (
	Subsecond Unit = iota
	Second
	Minute
	Hour
	Day
	Week
	Month
	Year
)

// number of units bounded by a ratio, Year is unbounded
const bounded = int(Year)

var unitNames = [...]string{
	"subsecond", "second", "minute", "hour", "day", "week", "month", "year",
}

func (u Unit) String() string {
	if u < Subsecond || u > Year {
		return fmt.Sprintf("unit(%d)", int(u))
	}
	return unitNames[u]
}

/*

Timestamp is human-readable decomposition of Tick into calendar fields.
Every field except Year is strictly less than the ratio of its unit to
the next one. Timestamps are derived views, recompute them on demand.
*/
type Timestamp struct {
	Year      uint64
	Month     uint64
	Week      uint64
	Day       uint64
	Hour      uint64
	Minute    uint64
	Second    uint64
	Subsecond uint64
}

// Get returns value of the field for the unit
func (ts Timestamp) Get(u Unit) uint64 {
	switch u {
	case Subsecond:
		return ts.Subsecond
	case Second:
		return ts.Second
	case Minute:
		return ts.Minute
	case Hour:
		return ts.Hour
	case Day:
		return ts.Day
	case Week:
		return ts.Week
	case Month:
		return ts.Month
	case Year:
		return ts.Year
	}
	return 0
}

func (ts *Timestamp) set(u Unit, v uint64) {
	switch u {
	case Subsecond:
		ts.Subsecond = v
	case Second:
		ts.Second = v
	case Minute:
		ts.Minute = v
	case Hour:
		ts.Hour = v
	case Day:
		ts.Day = v
	case Week:
		ts.Week = v
	case Month:
		ts.Month = v
	case Year:
		ts.Year = v
	}
}

/*******************************************************************************

Errors

*******************************************************************************/

var (
	// ErrOverflow is returned when the clock counter would exceed its
	// representable range.
	ErrOverflow = errors.New("metriclock: tick overflow")

	// ErrInvalidField is returned when a timestamp field is out of range.
	ErrInvalidField = errors.New("metriclock: invalid field")

	// ErrInvalidTick is returned when the calendar cannot decompose ticks.
	ErrInvalidTick = errors.New("metriclock: invalid tick")

	// ErrMalformed is returned by decoders of textual and binary forms.
	ErrMalformed = errors.New("metriclock: malformed input")
)

/*

FieldError describes a timestamp field outside of its range [0, Limit).
*/
type FieldError struct {
	Unit  Unit
	Value uint64
	Limit uint64
}

func (e *FieldError) Error() string {
	return fmt.Sprintf("%s: %s %d is out of range [0, %d)", ErrInvalidField, e.Unit, e.Value, e.Limit)
}

func (e *FieldError) Unwrap() error { return ErrInvalidField }
