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

// TraceEntry is the information sent to an Observer for every instruction.
type TraceEntry struct {
	// address and opcode of the instruction
	PC     uint32
	Opcode uint32
	Thumb  bool

	// disassembly of the instruction. both fields are empty if the
	// TraceMnemonics preference is false
	Mnemonic string
	Operands string

	// registers before and after the instruction
	Before [NumRegisters]uint32
	After  [NumRegisters]uint32

	CPSRBefore uint32
	CPSRAfter  uint32

	// cycles consumed by the instruction
	Cycles int

	// false if the instruction failed its condition test
	Executed bool
}

// Observer is notified after every instruction. Implementations must not call
// Run() from the Observe() function.
type Observer interface {
	Observe(TraceEntry)
}

// ObserverFunc allows a function to be used as an Observer.
type ObserverFunc func(TraceEntry)

// Observe implements the Observer interface.
func (f ObserverFunc) Observe(e TraceEntry) {
	f(e)
}

// SetObserver sets the Observer that is notified after every instruction. A
// value of nil removes the observer.
func (arm *ARM) SetObserver(o Observer) {
	arm.observer = o
}
