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

package arm7

import (
	"fmt"
	"time"

	"github.com/jetsetilly/arm7core/curated"
	"github.com/jetsetilly/arm7core/hardware/bus"
	"github.com/jetsetilly/arm7core/hardware/preferences"
	"github.com/jetsetilly/arm7core/logger"
)

// amount added to the address of the current instruction when R15 is read as
// an operand
const (
	pipelineARM   = 8
	pipelineThumb = 4

	// the value of R15 when it is stored by STR, STM or when it is used in a
	// data processing instruction with a register specified shift
	pipelineSTR = 12
)

// IllegalInstruction is the curated error pattern for undefined instructions.
// The placeholders are the opcode and the address of the instruction.
const IllegalInstruction = "ARM7: illegal instruction: %08x at %08x"

// DebugHook is called at every instruction boundary with the address of the
// next instruction, before it is fetched. Returning true stops Run().
type DebugHook func(pc uint32) bool

// State is the saveable and restorable state of the ARM.
type State struct {
	registers Registers

	// interrupt lines. set and cleared by the driver
	irq bool
	fiq bool

	// exceptions raised by an instruction (or by RaiseSWI()) that are taken
	// at the next instruction boundary
	pendingSWI       bool
	pendingUndefined bool

	// Reset() was called while Run() was executing
	pendingReset bool

	// the number of cycles the previous Run() executed beyond its budget.
	// always zero or negative
	overshoot int

	// total number of cycles executed
	cycles int64

	suspended bool
}

// Snapshot makes a copy of the State.
func (s *State) Snapshot() *State {
	n := *s
	return &n
}

// ARM implements the ARM7TDMI processor.
type ARM struct {
	prefs *preferences.ARMPreferences
	mem   bus.Memory

	// mem as a bus.Faulter. nil if mem does not record faults
	faulter bus.Faulter

	// state of the ARM. saveable and restorable
	state *State

	// identifier for the ARM. used in log messages
	ID string

	coprocessors [16]Coprocessor

	hook     DebugHook
	observer Observer

	// updating the preferences every time Run() is executed can be slow
	// (because the preferences need to be synchronised between tasks). the
	// prefsPulse ticker slows the rate at which updatePrefs() is called
	prefsPulse *time.Ticker

	// values taken from the preferences
	abortOnMemoryFault bool
	logUndefined       bool
	traceMnemonics     bool

	// true while Run() is executing
	running bool

	// Run() should stop at the next instruction boundary
	stop bool

	// the instruction being executed has written to the PC
	branched bool

	// cycles remaining in the current (or most recent) Run()
	remaining int

	// most recent error. an illegal instruction or a memory fault
	err error

	// logging is disabled
	quiet bool
}

// NewARM is the preferred method of initialisation for the ARM type. The
// prefs argument can be nil, in which case the default preferences are used.
func NewARM(prefs *preferences.ARMPreferences, mem bus.Memory) *ARM {
	if prefs == nil {
		prefs = preferences.DefaultARMPreferences()
	}

	arm := &ARM{
		prefs: prefs,
		state: &State{},

		// slow prefs update by 100ms
		prefsPulse: time.NewTicker(time.Millisecond * 100),
	}

	arm.setMemory(mem)
	arm.reset()
	arm.updatePrefs()

	return arm
}

func (arm *ARM) setMemory(mem bus.Memory) {
	arm.mem = mem
	arm.faulter, _ = mem.(bus.Faulter)
}

// updatePrefs should be called periodically to ensure that the current
// preference values are being used in the ARM emulation. see also the
// prefsPulse ticker
func (arm *ARM) updatePrefs() {
	arm.abortOnMemoryFault = arm.prefs.AbortOnMemoryFault.Get().(bool)
	arm.logUndefined = arm.prefs.LogUndefined.Get().(bool)
	arm.traceMnemonics = arm.prefs.TraceMnemonics.Get().(bool)
}

// AllowLogging implements the logger.Permission interface.
func (arm *ARM) AllowLogging() bool {
	return !arm.quiet
}

// SetQuiet disables (or enables) logging for this ARM instance.
func (arm *ARM) SetQuiet(quiet bool) {
	arm.quiet = quiet
}

func (arm *ARM) logf(format string, args ...any) {
	if arm.ID != "" {
		format = fmt.Sprintf("%s: %s", arm.ID, format)
	}
	logger.Logf(arm, "ARM7", format, args...)
}

// Snapshot makes a copy of the ARM state.
func (arm *ARM) Snapshot() *State {
	return arm.state.Snapshot()
}

// Plumb replaces the state and memory of the ARM. Either argument can be nil,
// in which case that part of the ARM does not change.
func (arm *ARM) Plumb(state *State, mem bus.Memory) {
	if state != nil {
		arm.state = state
	}
	if mem != nil {
		arm.setMemory(mem)
	}
}

// reset the ARM to its power-on state. the interrupt lines are unaffected.
func (arm *ARM) reset() {
	arm.state.registers.Reset()
	arm.state.registers.r[rPC] = vectorReset
	arm.state.pendingSWI = false
	arm.state.pendingUndefined = false
	arm.state.pendingReset = false
	arm.state.overshoot = 0
}

// Reset the ARM. If Run() is executing, the reset happens at the end of the
// current instruction and Run() returns.
func (arm *ARM) Reset() {
	if arm.running {
		arm.state.pendingReset = true
		arm.stop = true
		return
	}
	arm.reset()
}

// SetIRQ sets the state of the IRQ line. The line is sampled at every
// instruction boundary and stays asserted until it is cleared.
func (arm *ARM) SetIRQ(asserted bool) {
	arm.state.irq = asserted
}

// SetFIQ sets the state of the FIQ line.
func (arm *ARM) SetFIQ(asserted bool) {
	arm.state.fiq = asserted
}

// RaiseSWI causes a software interrupt exception at the next instruction
// boundary.
func (arm *ARM) RaiseSWI() {
	arm.state.pendingSWI = true
}

// Suspend stops the ARM from executing. A suspended ARM consumes any cycles
// given to it by Run() without executing any instructions.
func (arm *ARM) Suspend(suspend bool) {
	arm.state.suspended = suspend
}

// Suspended returns true if the ARM has been suspended.
func (arm *ARM) Suspended() bool {
	return arm.state.suspended
}

// Stop causes Run() to return at the next instruction boundary. Has no effect
// if Run() is not executing.
func (arm *ARM) Stop() {
	if arm.running {
		arm.stop = true
	}
}

// Close releases the resources held by the ARM. The preferences are no longer
// refreshed after Close but the ARM can otherwise still be used. Calling Close
// more than once is safe.
func (arm *ARM) Close() {
	arm.prefsPulse.Stop()
}

// Cycles returns the total number of cycles executed since the ARM was
// created.
func (arm *ARM) Cycles() int64 {
	return arm.state.cycles
}

// Remaining returns the number of cycles left in the budget of the current
// call to Run(). After Run() has returned, it returns the value at the end of
// the most recent call. A negative value is the overshoot, which is deducted
// from the next call to Run().
func (arm *ARM) Remaining() int {
	return arm.remaining
}

// Err returns the most recent error and clears it. The error is either an
// IllegalInstruction or a bus.MemoryFault.
func (arm *ARM) Err() error {
	err := arm.err
	arm.err = nil
	return err
}

// SetDebugHook sets the function to be called at every instruction boundary.
// A value of nil removes the hook.
func (arm *ARM) SetDebugHook(hook DebugHook) {
	arm.hook = hook
}

// Registers returns the live register file of the ARM.
func (arm *ARM) Registers() *Registers {
	return &arm.state.registers
}

// Register returns the value of a visible register.
func (arm *ARM) Register(reg int) uint32 {
	return arm.state.registers.Get(reg)
}

// SetRegister sets the value of a visible register. Setting R15 changes the
// address of the next instruction to be executed.
func (arm *ARM) SetRegister(reg int, value uint32) {
	arm.state.registers.Set(reg, value)
}

// CPSR returns the packed value of the current program status register.
func (arm *ARM) CPSR() uint32 {
	return arm.state.registers.CPSR()
}

// SetCPSR sets the value of the current program status register.
func (arm *ARM) SetCPSR(value uint32) {
	arm.state.registers.SetCPSR(value)
}

func (arm *ARM) String() string {
	return arm.state.registers.String()
}

// Run executes instructions until the number of cycles has been consumed or
// until execution has been stopped. Execution stops on instruction boundaries
// so the number of cycles executed will often be more than requested. The
// additional cycles are deducted from the next call to Run().
//
// Returns the number of cycles executed. A suspended ARM does not execute but
// returns the requested number of cycles.
func (arm *ARM) Run(cycles int) int {
	if arm.state.suspended {
		return cycles
	}

	select {
	case <-arm.prefsPulse.C:
		arm.updatePrefs()
	default:
	}

	arm.running = true
	arm.stop = false
	defer func() {
		arm.running = false
	}()

	arm.remaining = cycles + arm.state.overshoot
	arm.state.overshoot = 0

	var executed int

	for arm.remaining > 0 && !arm.stop {
		arm.exceptions()

		if arm.hook != nil && arm.hook(arm.state.registers.r[rPC]) {
			break // for loop
		}

		c := arm.step()
		arm.remaining -= c
		executed += c
	}

	if arm.remaining < 0 {
		arm.state.overshoot = arm.remaining
	}

	if arm.state.pendingReset {
		arm.reset()
	}

	return executed
}

// Step executes a single instruction, taking any pending exception first.
// Returns the number of cycles consumed. The debug hook is not called.
func (arm *ARM) Step() int {
	if arm.state.suspended {
		return 0
	}
	arm.exceptions()
	return arm.step()
}

// fetch, decode and execute the instruction at the PC
func (arm *ARM) step() int {
	regs := &arm.state.registers
	pc := regs.r[rPC]

	var opcode uint32
	var op DecodedOp
	if regs.status.thumb {
		opcode = uint32(arm.mem.Fetch16(pc))
		op = DecodeThumb(uint16(opcode))
	} else {
		opcode = arm.mem.Fetch32(pc)
		op = Decode(opcode)
	}

	var entry TraceEntry
	if arm.observer != nil {
		entry.PC = pc
		entry.Opcode = opcode
		entry.Thumb = op.Thumb
		entry.Before = regs.r
		entry.CPSRBefore = regs.CPSR()
	}

	arm.branched = false
	executed := true

	var cycles int
	if op.Thumb {
		cycles = int(thumbCycles[opcode>>8])
		arm.executeThumb(op, pc)
	} else if ok, _ := regs.status.condition(op.Cond); ok {
		cycles = armCycles(op) + arm.execute(op, pc)
	} else {
		cycles = cyclesConditionFailed
		executed = false
	}

	if !arm.branched {
		regs.r[rPC] = pc + op.Size()
	}

	arm.state.cycles += int64(cycles)

	if arm.faulter != nil {
		if err := arm.faulter.Fault(); err != nil {
			arm.err = err
			arm.logf("%v (PC %08x)", err, pc)
			if arm.abortOnMemoryFault {
				arm.stop = true
			}
		}
	}

	if arm.observer != nil {
		if arm.traceMnemonics {
			entry.Mnemonic, entry.Operands = op.Disasm(pc)
		}
		entry.After = regs.r
		entry.CPSRAfter = regs.CPSR()
		entry.Cycles = cycles
		entry.Executed = executed
		arm.observer.Observe(entry)
	}

	return cycles
}

// an undefined instruction has been executed. the exception is taken at the
// next instruction boundary
func (arm *ARM) undefined(op DecodedOp, pc uint32) {
	arm.state.pendingUndefined = true
	arm.err = curated.Errorf(IllegalInstruction, op.Opcode, pc)
	if arm.logUndefined {
		arm.logf("%v", arm.err)
	}
}

// value of a register as an operand. reading R15 returns the address of the
// current instruction plus the pipeline offset
func (arm *ARM) readRegister(reg int, pipeline uint32) uint32 {
	if reg == rPC {
		return arm.state.registers.r[rPC] + pipeline
	}
	return arm.state.registers.r[reg]
}

// write to a register. writing to R15 is a branch
func (arm *ARM) writeRegister(reg int, value uint32) {
	if reg == rPC {
		arm.branch(value)
		return
	}
	arm.state.registers.r[reg] = value
}

// set the PC to the target address. the address is aligned according to the
// current state
func (arm *ARM) branch(addr uint32) {
	if arm.state.registers.status.thumb {
		addr &= 0xfffffffe
	} else {
		addr &= 0xfffffffc
	}
	arm.state.registers.r[rPC] = addr
	arm.branched = true
}

// branch and exchange. bit 0 of the target address selects the Thumb state.
// when switching to ARM state a target address with bit 1 set is moved on to
// the next word boundary
func (arm *ARM) branchExchange(addr uint32) {
	if addr&0x01 == 0x01 {
		arm.state.registers.status.thumb = true
		addr &= 0xfffffffe
	} else {
		arm.state.registers.status.thumb = false
		if addr&0x02 == 0x02 {
			addr += 2
		}
	}
	arm.state.registers.r[rPC] = addr
	arm.branched = true
}
