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

package main

import (
	"fmt"
	"os"
	"strconv"

	"github.com/jetsetilly/arm7core/hardware/bus"
	"github.com/jetsetilly/arm7core/hardware/cpu/arm7"
	"github.com/jetsetilly/arm7core/hardware/preferences"
	"github.com/jetsetilly/arm7core/hardware/scheduler"
	"github.com/jetsetilly/arm7core/logger"
	"github.com/jetsetilly/arm7core/modalflag"
	"github.com/jetsetilly/arm7core/prefs"
	"github.com/pkg/errors"
)

// memory layout of every machine. each core has its own RAM at address zero.
// the shared RAM and the halt registers are visible to every core
const (
	sharedOrigin = 0x40000000
	sharedSize   = 0x1000

	// halt register for core n is at haltOrigin + n*4
	haltOrigin = 0xe0000000
)

// flags common to every mode that creates a machine
type machineFlags struct {
	base  *string
	thumb *bool
	ram   *int
	prefs *string
	log   *bool
}

func addMachineFlags(md *modalflag.Modes) *machineFlags {
	return &machineFlags{
		base:  md.AddString("base", "0x0", "address at which programs are loaded and executed"),
		thumb: md.AddBool("thumb", "begin execution in Thumb state"),
		ram:   md.AddInt("ram", 0x100000, "size of each core's RAM in bytes"),
		prefs: md.AddString("prefs", "", "preferences to override, separated by semicolons. eg. \"hardware.arm7.quantum::64\""),
		log:   md.AddBool("log", "echo log to stdout"),
	}
}

// apply the flags that affect the whole program. must be called before any
// machine is created. the returned function reverts the changes
func (mf *machineFlags) apply() func() {
	if *mf.log {
		logger.SetEcho(os.Stdout)
	}
	if *mf.prefs != "" {
		prefs.PushCommandLineStack(*mf.prefs)
	}

	return func() {
		if *mf.log {
			logger.SetEcho(nil)
		}
		if *mf.prefs != "" {
			if unused := prefs.PopCommandLineStack(); unused != "" {
				logger.Logf(logger.Allow, "arm7core", "unused preferences: %s", unused)
			}
		}
	}
}

func (mf *machineFlags) loadAddress() (uint32, error) {
	v, err := strconv.ParseUint(*mf.base, 0, 32)
	if err != nil {
		return 0, errors.Wrapf(err, "base address %q", *mf.base)
	}
	return uint32(v), nil
}

// preferences from disk. the defaults are used if the preferences file can't
// be read
func loadPreferences() *preferences.ARMPreferences {
	p, err := preferences.NewARMPreferences()
	if err != nil {
		logger.Logf(logger.Allow, "arm7core", "using default preferences: %v", err)
		return preferences.DefaultARMPreferences()
	}
	return p
}

// machine is one or more ARM cores driven by a scheduler
type machine struct {
	prefs  *preferences.ARMPreferences
	sch    *scheduler.Scheduler
	cores  []*arm7.ARM
	maps   []*bus.Map
	ram    []*bus.RAM
	shared *bus.RAM
}

// newMachine creates a core for each of the programs. the programs are loaded
// into the RAM of their core at the address given by the base flag
func newMachine(mf *machineFlags, programs []string) (*machine, error) {
	if len(programs) == 0 {
		return nil, fmt.Errorf("no program specified")
	}

	base, err := mf.loadAddress()
	if err != nil {
		return nil, err
	}

	m := &machine{
		prefs:  loadPreferences(),
		shared: bus.NewRAM(sharedOrigin, sharedSize),
	}
	m.sch = scheduler.NewScheduler(m.prefs)

	m.maps = make([]*bus.Map, len(programs))
	maps := m.maps

	for i, fn := range programs {
		data, err := os.ReadFile(fn)
		if err != nil {
			return nil, errors.Wrap(err, "loading program")
		}

		ram := bus.NewRAM(0, *mf.ram)
		if n := ram.Load(base, data); n != len(data) {
			return nil, fmt.Errorf("%s does not fit in RAM at %08x", fn, base)
		}

		maps[i] = bus.NewMap()
		if err := maps[i].Add(ram); err != nil {
			return nil, err
		}
		if err := maps[i].Add(m.shared); err != nil {
			return nil, err
		}

		arm := arm7.NewARM(m.prefs, maps[i])
		arm.ID = coreName(i)
		arm.SetRegister(15, base)
		if *mf.thumb {
			arm.SetCPSR(arm.CPSR() | 0x20)
		}

		if err := m.sch.AddCore(arm.ID, arm); err != nil {
			return nil, err
		}

		m.cores = append(m.cores, arm)
		m.ram = append(m.ram, ram)
	}

	// every core can suspend and resume every other core
	for _, mp := range maps {
		for i, arm := range m.cores {
			if err := mp.Add(scheduler.NewHaltRegister(haltOrigin+uint32(i*4), arm)); err != nil {
				return nil, err
			}
		}
	}

	return m, nil
}

// close every core in the machine
func (m *machine) close() {
	for _, arm := range m.cores {
		arm.Close()
	}
}

func coreName(i int) string {
	return fmt.Sprintf("arm%d", i)
}

// stop the scheduler once every core has suspended itself. checked every
// interval cycles
func (m *machine) stopWhenSuspended(interval int64) {
	var check func()
	check = func() {
		for _, arm := range m.cores {
			if !arm.Suspended() {
				m.sch.AddEvent(interval, check)
				return
			}
		}
		logger.Log(logger.Allow, "arm7core", "all cores suspended")
		m.sch.Stop()
	}
	m.sch.AddEvent(interval, check)
}

// log errors recorded by the cores
func (m *machine) reportErrors() {
	for _, arm := range m.cores {
		if err := arm.Err(); err != nil {
			logger.Logf(logger.Allow, arm.ID, "%v", err)
		}
	}
}

// emulated time in seconds for a number of cycles
func (m *machine) seconds(cycles int64) float64 {
	clk := m.prefs.Clock.Get().(float64)
	if clk <= 0 {
		return 0
	}
	return float64(cycles) / (clk * 1000000)
}
