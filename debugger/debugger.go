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

package debugger

import (
	"fmt"
	"io"

	"github.com/jetsetilly/arm7core/hardware/bus"
	"github.com/jetsetilly/arm7core/hardware/cpu/arm7"
	"github.com/jetsetilly/arm7core/logger"
	lua "github.com/yuin/gopher-lua"
)

// DebuggerError is the curated error pattern for errors returned by commands.
const DebuggerError = "debugger: %s"

// Debugger is the container for the debugger state.
type Debugger struct {
	arm *arm7.ARM
	mem bus.Memory
	out io.Writer

	breakpoints *breakpoints

	// interpreter for breakpoint conditions and scripts
	lua *lua.LState

	// source of single key presses for the KEYS command. nil if the debugger
	// is not connected to an interactive terminal
	keys KeyReader

	// the next call to the debug hook is the first boundary after a resume
	// and should not be checked for breakpoints
	resumed bool

	// the most recent RUN command stopped at a breakpoint
	halted   bool
	haltedAt uint32

	quit bool
}

// NewDebugger is the preferred method of initialisation for the Debugger
// type. The debugger installs itself as the ARM's debug hook. Output from
// commands is written to the out argument.
func NewDebugger(arm *arm7.ARM, mem bus.Memory, out io.Writer) *Debugger {
	dbg := &Debugger{
		arm: arm,
		mem: mem,
		out: out,
	}
	dbg.breakpoints = newBreakpoints(dbg)
	dbg.lua = dbg.newLua()
	arm.SetDebugHook(dbg.hook)
	return dbg
}

// Close releases the resources used by the debugger and removes the debug
// hook from the ARM.
func (dbg *Debugger) Close() {
	dbg.arm.SetDebugHook(nil)
	dbg.lua.Close()
}

// SetKeyReader connects the debugger to a source of single key presses. Used
// by the KEYS command.
func (dbg *Debugger) SetKeyReader(keys KeyReader) {
	dbg.keys = keys
}

// Quit returns true once the QUIT command has been executed.
func (dbg *Debugger) Quit() bool {
	return dbg.quit
}

// Halted returns true if the most recent run stopped at a breakpoint. The
// address of the breakpoint is also returned.
func (dbg *Debugger) Halted() (bool, uint32) {
	return dbg.halted, dbg.haltedAt
}

func (dbg *Debugger) printf(format string, args ...any) {
	fmt.Fprintf(dbg.out, format, args...)
}

// the ARM's debug hook. returns true if execution should stop
func (dbg *Debugger) hook(pc uint32) bool {
	if dbg.resumed {
		dbg.resumed = false
		return false
	}

	if dbg.breakpoints.check(pc) {
		dbg.halted = true
		dbg.haltedAt = pc
		return true
	}

	return false
}

// step the ARM by a number of instructions. breakpoints are not checked
func (dbg *Debugger) step(n int) int {
	var cycles int
	for i := 0; i < n; i++ {
		cycles += dbg.arm.Step()
		dbg.reportErr()
	}
	return cycles
}

// run the ARM for a number of cycles or until a breakpoint is reached
func (dbg *Debugger) run(cycles int) int {
	dbg.halted = false
	dbg.resumed = true
	n := dbg.arm.Run(cycles)
	dbg.resumed = false
	dbg.reportErr()
	return n
}

func (dbg *Debugger) reportErr() {
	if err := dbg.arm.Err(); err != nil {
		logger.Log(logger.Allow, "debugger", err)
		dbg.printf("%v\n", err)
	}
}

// the instruction at the PC, disassembled
func (dbg *Debugger) nextInstruction() string {
	regs := dbg.arm.Registers()
	pc := regs.Get(15)

	var opcode uint32
	if regs.Thumb() {
		opcode = uint32(dbg.mem.Fetch16(pc))
	} else {
		opcode = dbg.mem.Fetch32(pc)
	}

	op := arm7.DecodeMode(opcode, regs.Thumb())
	mnemonic, operands := op.Disasm(pc)
	if regs.Thumb() {
		return fmt.Sprintf("%08x     %04x  %-8s %s", pc, opcode, mnemonic, operands)
	}
	return fmt.Sprintf("%08x %08x  %-8s %s", pc, opcode, mnemonic, operands)
}
