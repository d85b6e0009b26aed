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

// Package arm7 emulates the ARM7TDMI processor. Both the 32bit ARM and the
// 16bit Thumb instruction sets are supported, as are the processor modes and
// the banked registers that go with them.
//
// The instance of the ARM type requires an instance of the bus.Memory
// interface. All memory access, including opcode fetches, goes through that
// interface. Opcodes are always read with the Fetch16() and Fetch32()
// functions and never with the data read functions.
//
// The ARM type is driven by the Run() function. The argument is the number of
// cycles the ARM should execute for. Execution always stops on an instruction
// boundary, which means that Run() will often overshoot the requested number
// of cycles. The overshoot is remembered and deducted from the next call to
// Run(), so that two calls of 100 and 50 cycles execute exactly the same
// instructions as a single call of 150 cycles.
//
//	mem := bus.NewRAM(0x00000000, 0x10000)
//	mem.Load(0x00000000, program)
//
//	arm := arm7.NewARM(preferences.DefaultARMPreferences(), mem)
//	for {
//		arm.Run(1000)
//	}
//
// Decoding is separate from execution. The Decode() and DecodeThumb()
// functions are pure functions that return a DecodedOp. A DecodedOp can be
// disassembled with its Disasm() function.
//
// Undefined instructions, software interrupts and the IRQ and FIQ lines are
// handled by the emulated exception vectors. None of these conditions cause
// Run() to fail. Programming errors, such as asking for register 16 or
// switching to a mode that doesn't exist, cause a panic.
//
// Cycle counting is an approximation. Each instruction category has a fixed
// cost with additional cycles for multiply, block transfer and load-to-PC
// instructions. Memory wait states are not modelled. Thumb instructions have
// a cost taken from a table indexed by the upper eight bits of the opcode.
package arm7
