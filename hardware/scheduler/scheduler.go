// This file is part of arm7core.
//
// arm7core is free software: you can redistribute it and/or modify
// it under the terms of the GNU General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
//
// arm7core is distributed in the hope that it will be useful,
// but WITHOUT ANY WARRANTY; without even the implied warranty of
// MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
// GNU General Public License for more details.
//
// You should have received a copy of the GNU General Public License
// along with arm7core.  If not, see <https://www.gnu.org/licenses/>.

package scheduler

import (
	"context"
	"fmt"
	"strings"
	"sync/atomic"

	"github.com/jetsetilly/arm7core/curated"
	"github.com/jetsetilly/arm7core/hardware/preferences"
	"github.com/jetsetilly/arm7core/logger"
)

// Core is a processor that can be run by the scheduler.
type Core interface {
	// Run the core for the number of cycles. Returns the number of cycles
	// actually consumed
	Run(cycles int) int

	// Suspended returns true if the core should not be run
	Suspended() bool

	// Cycles returns the total number of cycles executed by the core
	Cycles() int64
}

// SchedulerError is the curated error pattern for errors returned by the
// Scheduler type.
const SchedulerError = "scheduler: %s"

type namedCore struct {
	name string
	core Core
}

// Scheduler runs a list of cores in round-robin fashion.
type Scheduler struct {
	prefs *preferences.ARMPreferences

	cores  []namedCore
	events eventList

	// the number of cycles each core is given in a slice. a value of zero
	// means the value is taken from the preferences
	Quantum int

	// number of cycles that have elapsed. increases by the quantum at the end
	// of every round
	elapsed int64

	// the number of rounds that have been run
	rounds int64

	// set by Stop(). checked at the end of every round
	stop atomic.Bool
}

// NewScheduler is the preferred method of initialisation for the Scheduler
// type. The prefs argument can be nil, in which case the default preferences
// are used.
func NewScheduler(prefs *preferences.ARMPreferences) *Scheduler {
	if prefs == nil {
		prefs = preferences.DefaultARMPreferences()
	}
	return &Scheduler{
		prefs: prefs,
	}
}

// AddCore adds a named core to the scheduler. Cores run in the order they are
// added. Names must be unique.
func (sch *Scheduler) AddCore(name string, core Core) error {
	for _, c := range sch.cores {
		if c.name == name {
			return curated.Errorf(SchedulerError, fmt.Sprintf("core already exists (%s)", name))
		}
	}
	sch.cores = append(sch.cores, namedCore{name: name, core: core})
	return nil
}

// RemoveCore removes the named core from the scheduler.
func (sch *Scheduler) RemoveCore(name string) error {
	for i, c := range sch.cores {
		if c.name == name {
			sch.cores = append(sch.cores[:i], sch.cores[i+1:]...)
			return nil
		}
	}
	return curated.Errorf(SchedulerError, fmt.Sprintf("no such core (%s)", name))
}

// Core returns the named core.
func (sch *Scheduler) Core(name string) (Core, bool) {
	for _, c := range sch.cores {
		if c.name == name {
			return c.core, true
		}
	}
	return nil, false
}

// Names returns the names of the cores in the order they are run.
func (sch *Scheduler) Names() []string {
	n := make([]string, len(sch.cores))
	for i, c := range sch.cores {
		n[i] = c.name
	}
	return n
}

// Elapsed returns the number of cycles that have elapsed since the scheduler
// was created. Time moves forward by the quantum at the end of every round.
func (sch *Scheduler) Elapsed() int64 {
	return sch.elapsed
}

// Rounds returns the number of rounds that have been run.
func (sch *Scheduler) Rounds() int64 {
	return sch.rounds
}

// AddEvent schedules the callback to be called after the number of cycles
// has elapsed. The callback is called at the end of the round in which the
// event falls due. A value of zero or less calls the callback immediately.
func (sch *Scheduler) AddEvent(cycles int64, cb Callback) EventID {
	return sch.events.add(cycles, cb)
}

// CancelEvent removes a scheduled event. Returns false if the event has
// already happened or has already been cancelled.
func (sch *Scheduler) CancelEvent(id EventID) bool {
	return sch.events.cancel(id)
}

// PendingEvents returns the number of events yet to happen.
func (sch *Scheduler) PendingEvents() int {
	return sch.events.len()
}

func (sch *Scheduler) quantum() int {
	if sch.Quantum > 0 {
		return sch.Quantum
	}
	if q := sch.prefs.Quantum.Get().(int); q > 0 {
		return q
	}
	return preferences.DefaultQuantum
}

// run every core once, advance time and fire any events that fall due
func (sch *Scheduler) round() {
	q := sch.quantum()

	for _, c := range sch.cores {
		if c.core.Suspended() {
			continue // for loop
		}
		c.core.Run(q)
	}

	sch.rounds++
	sch.elapsed += int64(q)
	sch.events.advance(int64(q))
}

// Step runs a single round.
func (sch *Scheduler) Step() {
	sch.round()
}

// RunFor runs rounds until at least the number of cycles has elapsed or until
// Stop() is called. Returns the number of cycles that elapsed.
func (sch *Scheduler) RunFor(cycles int64) int64 {
	sch.stop.Store(false)

	start := sch.elapsed
	for sch.elapsed-start < cycles {
		sch.round()
		if sch.stop.Load() {
			break // for loop
		}
	}

	return sch.elapsed - start
}

// Start runs rounds until the context is cancelled or until Stop() is called.
// The returned error is the context's error if the context was cancelled. A
// call to Stop() returns nil.
func (sch *Scheduler) Start(ctx context.Context) error {
	sch.stop.Store(false)

	logger.Logf(logger.Allow, "scheduler", "starting with %d cores (quantum %d)", len(sch.cores), sch.quantum())

	for {
		select {
		case <-ctx.Done():
			logger.Logf(logger.Allow, "scheduler", "stopped after %d rounds", sch.rounds)
			return ctx.Err()
		default:
		}

		sch.round()

		if sch.stop.Load() {
			logger.Logf(logger.Allow, "scheduler", "stopped after %d rounds", sch.rounds)
			return nil
		}
	}
}

// Stop causes RunFor() and Start() to return at the end of the current round.
// It is safe to call Stop() from another goroutine or from an event callback.
func (sch *Scheduler) Stop() {
	sch.stop.Store(true)
}

func (sch *Scheduler) String() string {
	s := strings.Builder{}
	for _, c := range sch.cores {
		state := ""
		if c.core.Suspended() {
			state = " (suspended)"
		}
		s.WriteString(fmt.Sprintf("%s: %d cycles%s\n", c.name, c.core.Cycles(), state))
	}
	return s.String()
}
