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

package trace

import (
	"encoding/binary"
	"fmt"
	"math/bits"
	"strings"

	"github.com/jetsetilly/arm7core/hardware/cpu/arm7"
)

// Magic is the first four bytes of a trace file.
const Magic = "A7TR"

// Version of the trace file format.
const Version = 1

// all multi-byte values in the file are little-endian
var order = binary.LittleEndian

// Header is the first part of a trace file.
type Header struct {
	Magic   string `struc:"[4]byte"`
	Version uint32

	// identifier of the core being traced. right-null-padded
	Core string `struc:"[32]byte"`
}

// the kinds of entry in the frame stream. every frame is preceded by one
// byte indicating its kind
const (
	kindInstruction = 1
)

// values of the Flags field in Frame
const (
	flagThumb    = 0x01
	flagExecuted = 0x02
)

// Frame is a single traced instruction.
type Frame struct {
	PC     uint32
	Opcode uint32
	Flags  uint8
	Cycles uint8

	// CPSR after the instruction
	CPSR uint32

	// registers that have changed since the previous frame. bit 0 is R0. the
	// new values are in Regs in order of register number
	Changed uint16
	NumRegs int `struc:"uint8,sizeof=Regs"`
	Regs    []uint32

	// empty if the trace was made without mnemonics
	MnemonicLen int `struc:"uint8,sizeof=Mnemonic"`
	Mnemonic    string
	OperandsLen int `struc:"uint8,sizeof=Operands"`
	Operands    string
}

// newFrame creates a frame from a trace entry. the prev argument is the
// register file as it was at the end of the previous frame. if prev is nil
// every register is recorded
func newFrame(e arm7.TraceEntry, prev *[arm7.NumRegisters]uint32) Frame {
	f := Frame{
		PC:       e.PC,
		Opcode:   e.Opcode,
		Cycles:   uint8(e.Cycles),
		CPSR:     e.CPSRAfter,
		Mnemonic: e.Mnemonic,
		Operands: e.Operands,
	}
	if e.Thumb {
		f.Flags |= flagThumb
	}
	if e.Executed {
		f.Flags |= flagExecuted
	}

	for i, v := range e.After {
		if prev == nil || prev[i] != v {
			f.Changed |= 0x01 << i
			f.Regs = append(f.Regs, v)
		}
	}
	f.NumRegs = len(f.Regs)
	f.MnemonicLen = len(f.Mnemonic)
	f.OperandsLen = len(f.Operands)

	return f
}

// Thumb returns true if the instruction was a Thumb instruction.
func (f Frame) Thumb() bool {
	return f.Flags&flagThumb == flagThumb
}

// Executed returns false if the instruction failed its condition test.
func (f Frame) Executed() bool {
	return f.Flags&flagExecuted == flagExecuted
}

// apply the changed registers in the frame to a register file
func (f Frame) apply(regs *[arm7.NumRegisters]uint32) {
	j := 0
	for i := range regs {
		if f.Changed&(0x01<<i) != 0x00 && j < len(f.Regs) {
			regs[i] = f.Regs[j]
			j++
		}
	}
}

func (f Frame) String() string {
	s := strings.Builder{}
	if f.Thumb() {
		s.WriteString(fmt.Sprintf("%08x     %04x  ", f.PC, f.Opcode))
	} else {
		s.WriteString(fmt.Sprintf("%08x %08x  ", f.PC, f.Opcode))
	}
	if f.Mnemonic != "" {
		s.WriteString(fmt.Sprintf("%-8s %-24s", f.Mnemonic, f.Operands))
	}
	s.WriteString(fmt.Sprintf(" %2d", f.Cycles))
	if !f.Executed() {
		s.WriteString(" (skipped)")
	}
	if n := bits.OnesCount16(f.Changed &^ (0x01 << 15)); n > 0 {
		j := 0
		for i := 0; i < arm7.NumRegisters; i++ {
			if f.Changed&(0x01<<i) == 0x00 {
				continue // for loop
			}
			if i != 15 {
				s.WriteString(fmt.Sprintf(" R%d=%08x", i, f.Regs[j]))
			}
			j++
		}
	}
	return s.String()
}
