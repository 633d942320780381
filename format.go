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
	"fmt"
	"strconv"
	"strings"
)

/*

String encodes timestamp using layout

	year-month-week-day@hour:minute:second.subsecond

e.g. 12-03-07-01@04:55:09.5. Subsecond is a count, not a decimal fraction.
*/
func (ts Timestamp) String() string {
	return fmt.Sprintf("%d-%02d-%02d-%02d@%02d:%02d:%02d.%d",
		ts.Year, ts.Month, ts.Week, ts.Day,
		ts.Hour, ts.Minute, ts.Second, ts.Subsecond,
	)
}

/*

ParseTimestamp decodes timestamp from its string form. Fields are not
checked against calendar ratios, use Calendar.FromTimestamp for it.
*/
func ParseTimestamp(s string) (ts Timestamp, err error) {
	date, clock, ok := strings.Cut(s, "@")
	if !ok {
		return ts, fmt.Errorf("%w: timestamp %q", ErrMalformed, s)
	}

	hms, sub, ok := strings.Cut(clock, ".")
	if !ok {
		return ts, fmt.Errorf("%w: timestamp %q", ErrMalformed, s)
	}

	ymwd := strings.Split(date, "-")
	hhmmss := strings.Split(hms, ":")
	if len(ymwd) != 4 || len(hhmmss) != 3 {
		return ts, fmt.Errorf("%w: timestamp %q", ErrMalformed, s)
	}

	fields := append(append(ymwd, hhmmss...), sub)
	units := []Unit{Year, Month, Week, Day, Hour, Minute, Second, Subsecond}
	for i, u := range units {
		v, err := strconv.ParseUint(fields[i], 10, 64)
		if err != nil {
			return Timestamp{}, fmt.Errorf("%w: timestamp %q, %s: %v", ErrMalformed, s, u, err)
		}
		ts.set(u, v)
	}

	return ts, nil
}

// MarshalText encodes timestamp to its string form
func (ts Timestamp) MarshalText() ([]byte, error) {
	return []byte(ts.String()), nil
}

// UnmarshalText decodes timestamp from its string form
func (ts *Timestamp) UnmarshalText(b []byte) (err error) {
	*ts, err = ParseTimestamp(string(b))
	return
}
