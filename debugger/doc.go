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

// Package debugger implements a command driven debugger for a single ARM7
// core. Features include:
//
//	- instruction stepping
//	- running for a number of cycles
//	- breakpoints with optional conditions written in Lua
//	- Lua scripts
//	- single-key stepping in an interactive terminal
//	- a memviz dump of the CPU state
//
// Initialisation of the debugger is done with the NewDebugger() function
//
//	dbg := debugger.NewDebugger(arm, mem, os.Stdout)
//	defer dbg.Close()
//
// Commands are executed with Execute(), one command per call. The Console()
// function runs an interactive prompt that passes each line to Execute()
// until the QUIT command is given.
//
// Breakpoints are checked by the ARM's debug hook at every instruction
// boundary. The first boundary after RUN is not checked so that a run
// started at the address of a breakpoint does not halt immediately.
//
// A breakpoint condition is a Lua expression. The following functions are
// available to conditions and scripts:
//
//	reg(n)      value of register n
//	pc()        address of the next instruction
//	cpsr()      the current program status register
//	peek(addr)  32bit value read from memory
//	cycles()    total number of cycles executed
//
// Scripts can also use:
//
//	step(n)             step n instructions
//	run(n)              run for n cycles
//	breakpoint(addr)    add a breakpoint
//	command(s)          execute a debugger command
package debugger
