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
	"sync"
	"time"

	"go.uber.org/zap"
)

// Mode of simulation
type Mode int

const (
	// RealTime advances clock by all elapsed time
	RealTime Mode = iota
	// TurnBased advances clock up to the end of current turn
	TurnBased
)

func (m Mode) String() string {
	if m == TurnBased {
		return "turn-based"
	}
	return "real-time"
}

// Simulation drives metric clock from the game loop. It maps real elapsed
// time onto ticks, scaled by the speed multiplier.
type Simulation struct {
	mu         sync.Mutex
	clock      *Clock
	logger     *zap.Logger
	resolution time.Duration
	speed      float64
	mode       Mode
	turn       uint64
	remaining  uint64
	// scaled time below one tick, carried to the next update
	carry      time.Duration
}

// SimulationConfig option of simulation behavior
type SimulationConfig func(*Simulation)

// NewSimulation creates real-time simulation on top of the clock. One tick
// is 100ms of real time, a turn is 60 ticks.
func NewSimulation(clock *Clock, opts ...SimulationConfig) *Simulation {
	sim := &Simulation{clock: clock}
	defopt := []SimulationConfig{
		WithResolution(100 * time.Millisecond),
		WithSpeed(1.0),
		WithTurnLength(60),
		WithSimulationLogger(zap.NewNop()),
	}

	for _, opt := range append(defopt, opts...) {
		opt(sim)
	}
	return sim
}

// WithResolution configures real time duration of a single tick
func WithResolution(d time.Duration) SimulationConfig {
	return func(sim *Simulation) {
		if d > 0 {
			sim.resolution = d
		}
	}
}

// WithSpeed configures clock speed multiplier, negative or infinite speed
// stops the clock
func WithSpeed(speed float64) SimulationConfig {
	return func(sim *Simulation) {
		sim.speed = clampSpeed(speed)
	}
}

// WithTurnLength configures number of ticks in a turn
func WithTurnLength(ticks uint64) SimulationConfig {
	return func(sim *Simulation) {
		sim.turn = ticks
	}
}

// WithSimulationLogger configures logger of mode transitions
func WithSimulationLogger(logger *zap.Logger) SimulationConfig {
	return func(sim *Simulation) {
		sim.logger = logger
	}
}

func clampSpeed(speed float64) float64 {
	// NaN fails the comparison as well
	if !(speed > 0) || math.IsInf(speed, 1) {
		return 0
	}
	return speed
}

// Clock returns the underlying clock
func (sim *Simulation) Clock() *Clock { return sim.clock }

// Update advances the clock by real elapsed time and returns current tick.
// In turn-based mode the clock stops at the end of turn until NextTurn,
// elapsed time past the end of turn is discarded. ErrOverflow is returned,
// leaving the clock unchanged, if scaled time does not fit the tick range.
func (sim *Simulation) Update(elapsed time.Duration) (Tick, error) {
	sim.mu.Lock()
	defer sim.mu.Unlock()

	if elapsed <= 0 || sim.speed == 0 {
		return sim.clock.Now(), nil
	}

	if sim.mode == TurnBased && sim.remaining == 0 {
		return sim.clock.Now(), nil
	}

	ticks, carry, ok := sim.scale(elapsed)
	if sim.mode == TurnBased && (!ok || ticks >= sim.remaining) {
		ticks, carry, ok = sim.remaining, 0, true
	}

	if !ok {
		now := sim.clock.Now()
		sim.logger.Debug("tick overflow",
			zap.Uint64("tick", uint64(now)),
			zap.Duration("elapsed", elapsed),
			zap.Float64("speed", sim.speed),
		)
		return now, fmt.Errorf("%w: %v at speed %g exceeds tick range", ErrOverflow, elapsed, sim.speed)
	}

	t, err := sim.clock.Advance(ticks)
	if err != nil {
		return t, err
	}

	sim.carry = carry
	if sim.mode == TurnBased {
		sim.remaining -= ticks
		if sim.remaining == 0 {
			sim.logger.Debug("turn complete", zap.Uint64("tick", uint64(t)))
		}
	}
	return t, nil
}

// scale maps elapsed real time onto ticks and the remainder below one tick.
// It is false if ticks do not fit uint64.
func (sim *Simulation) scale(elapsed time.Duration) (uint64, time.Duration, bool) {
	scaled := float64(sim.carry) + float64(elapsed)*sim.speed
	if scaled < math.MaxInt64 {
		d := time.Duration(scaled)
		return uint64(d / sim.resolution), d % sim.resolution, true
	}

	// beyond time.Duration range the remainder is below float precision
	ticks := scaled / float64(sim.resolution)
	if ticks < math.MaxUint64 {
		return uint64(ticks), 0, true
	}
	return 0, 0, false
}

// Mode returns current mode of simulation
func (sim *Simulation) Mode() Mode {
	sim.mu.Lock()
	defer sim.mu.Unlock()
	return sim.mode
}

// Speed returns clock speed multiplier
func (sim *Simulation) Speed() float64 {
	sim.mu.Lock()
	defer sim.mu.Unlock()
	return sim.speed
}

// SetSpeed changes clock speed multiplier, negative or infinite speed stops
// the clock
func (sim *Simulation) SetSpeed(speed float64) {
	sim.mu.Lock()
	defer sim.mu.Unlock()
	sim.speed = clampSpeed(speed)
}

// EnableTurns switches real-time simulation to turn-based one and starts a
// new turn.
func (sim *Simulation) EnableTurns() {
	sim.mu.Lock()
	defer sim.mu.Unlock()

	if sim.mode == RealTime {
		sim.mode = TurnBased
		sim.remaining = sim.turn
		sim.carry = 0
		sim.logger.Debug("mode changed",
			zap.Stringer("mode", sim.mode),
			zap.Uint64("tick", uint64(sim.clock.Now())),
		)
	}
}

// DisableTurns switches turn-based simulation back to real-time one
func (sim *Simulation) DisableTurns() {
	sim.mu.Lock()
	defer sim.mu.Unlock()

	if sim.mode == TurnBased {
		sim.mode = RealTime
		sim.remaining = 0
		sim.logger.Debug("mode changed",
			zap.Stringer("mode", sim.mode),
			zap.Uint64("tick", uint64(sim.clock.Now())),
		)
	}
}

// TurnComplete returns true if the current turn has no time left
func (sim *Simulation) TurnComplete() bool {
	sim.mu.Lock()
	defer sim.mu.Unlock()
	return sim.remaining == 0
}

// Remaining returns number of ticks left in the current turn
func (sim *Simulation) Remaining() uint64 {
	sim.mu.Lock()
	defer sim.mu.Unlock()
	return sim.remaining
}

// NextTurn starts a new turn once the current one is complete
func (sim *Simulation) NextTurn() {
	sim.mu.Lock()
	defer sim.mu.Unlock()

	if sim.mode == TurnBased && sim.remaining == 0 {
		sim.remaining = sim.turn
	}
}
