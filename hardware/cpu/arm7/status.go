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
	"strings"
)

// bit positions of the fields in the CPSR and SPSR registers.
const (
	psrNegative = 0x80000000
	psrZero     = 0x40000000
	psrCarry    = 0x20000000
	psrOverflow = 0x10000000
	psrIRQ      = 0x00000080
	psrFIQ      = 0x00000040
	psrThumb    = 0x00000020
	psrMode     = 0x0000001f

	// the bits of the PSR that are defined for the ARM7TDMI. the remaining
	// bits are reserved and read as zero
	psrDefined = psrNegative | psrZero | psrCarry | psrOverflow | psrIRQ | psrFIQ | psrThumb | psrMode
)

// the status type is the unpacked form of the CPSR. the flags are stored as
// individual booleans because they are tested and set far more often than
// the packed value is needed.
type status struct {
	negative bool
	zero     bool
	carry    bool
	overflow bool

	// interrupt disable bits. an interrupt is disabled when the bit is set
	irqDisable bool
	fiqDisable bool

	// thumb state
	thumb bool

	mode Mode
}

func (sr status) String() string {
	s := strings.Builder{}
	s.WriteString("Status: ")

	if sr.negative {
		s.WriteRune('N')
	} else {
		s.WriteRune('n')
	}
	if sr.zero {
		s.WriteRune('Z')
	} else {
		s.WriteRune('z')
	}
	if sr.carry {
		s.WriteRune('C')
	} else {
		s.WriteRune('c')
	}
	if sr.overflow {
		s.WriteRune('V')
	} else {
		s.WriteRune('v')
	}
	s.WriteRune(' ')
	if sr.irqDisable {
		s.WriteRune('I')
	} else {
		s.WriteRune('i')
	}
	if sr.fiqDisable {
		s.WriteRune('F')
	} else {
		s.WriteRune('f')
	}
	if sr.thumb {
		s.WriteRune('T')
	} else {
		s.WriteRune('t')
	}
	s.WriteRune(' ')
	s.WriteString(sr.mode.String())

	return s.String()
}

func (sr status) pack() uint32 {
	v := uint32(sr.mode) & psrMode
	if sr.negative {
		v |= psrNegative
	}
	if sr.zero {
		v |= psrZero
	}
	if sr.carry {
		v |= psrCarry
	}
	if sr.overflow {
		v |= psrOverflow
	}
	if sr.irqDisable {
		v |= psrIRQ
	}
	if sr.fiqDisable {
		v |= psrFIQ
	}
	if sr.thumb {
		v |= psrThumb
	}
	return v
}

// unpack all fields except the mode field. changing the mode requires the
// registers to be banked and is therefore handled by the Registers type
func (sr *status) unpack(v uint32) {
	sr.negative = v&psrNegative == psrNegative
	sr.zero = v&psrZero == psrZero
	sr.carry = v&psrCarry == psrCarry
	sr.overflow = v&psrOverflow == psrOverflow
	sr.irqDisable = v&psrIRQ == psrIRQ
	sr.fiqDisable = v&psrFIQ == psrFIQ
	sr.thumb = v&psrThumb == psrThumb
}

func (sr *status) isNegative(a uint32) {
	sr.negative = a&0x80000000 == 0x80000000
}

func (sr *status) isZero(a uint32) {
	sr.zero = a == 0x00
}

// sets the overflow flag for the addition a + b + c, where c is the carry in
func (sr *status) isOverflow(a, b, c uint32) {
	d := (a & 0x7fffffff) + (b & 0x7fffffff) + c
	d >>= 31
	e := (d & 0x01) + ((a >> 31) & 0x01) + ((b >> 31) & 0x01)
	e >>= 1
	sr.overflow = (d^e)&0x01 == 0x01
}

// sets the carry flag for the addition a + b + c, where c is the carry in.
// subtraction a - b is the addition a + ^b + 1
func (sr *status) isCarry(a, b, c uint32) {
	d := (a & 0x7fffffff) + (b & 0x7fffffff) + c
	d = (d >> 31) + (a >> 31) + (b >> 31)
	sr.carry = d&0x02 == 0x02
}

func (sr *status) setCarry(a bool) {
	sr.carry = a
}

// the carry flag as an integer for use in ADC, SBC and RSC
func (sr status) carryIn() uint32 {
	if sr.carry {
		return 1
	}
	return 0
}

// conditional execution information from "4.2 The Condition Field" in
// "ARM7TDMI-S Data Sheet". the returned string is the mnemonic suffix for the
// condition. the suffix for AL is the empty string
//
// the NV condition is reserved on the ARM7TDMI and an instruction with that
// condition never executes
func (sr status) condition(cond uint8) (bool, string) {
	var mnemonic string
	var b bool

	switch cond & 0x0f {
	case 0b0000:
		// equal
		mnemonic = "EQ"
		b = sr.zero
	case 0b0001:
		// not equal
		mnemonic = "NE"
		b = !sr.zero
	case 0b0010:
		// carry set
		mnemonic = "CS"
		b = sr.carry
	case 0b0011:
		// carry clear
		mnemonic = "CC"
		b = !sr.carry
	case 0b0100:
		// minus
		mnemonic = "MI"
		b = sr.negative
	case 0b0101:
		// plus
		mnemonic = "PL"
		b = !sr.negative
	case 0b0110:
		// overflow
		mnemonic = "VS"
		b = sr.overflow
	case 0b0111:
		// no overflow
		mnemonic = "VC"
		b = !sr.overflow
	case 0b1000:
		// unsigned higher C==1 and Z==0
		mnemonic = "HI"
		b = sr.carry && !sr.zero
	case 0b1001:
		// unsigned lower or same C==0 or Z==1
		mnemonic = "LS"
		b = !sr.carry || sr.zero
	case 0b1010:
		// signed greater than or equal N==V
		mnemonic = "GE"
		b = sr.negative == sr.overflow
	case 0b1011:
		// signed less than N!=V
		mnemonic = "LT"
		b = sr.negative != sr.overflow
	case 0b1100:
		// signed greater than Z==0 and N==V
		mnemonic = "GT"
		b = !sr.zero && sr.negative == sr.overflow
	case 0b1101:
		// signed less than or equal Z==1 or N!=V
		mnemonic = "LE"
		b = sr.zero || sr.negative != sr.overflow
	case 0b1110:
		// always
		mnemonic = ""
		b = true
	case 0b1111:
		// never
		mnemonic = "NV"
		b = false
	}

	return b, mnemonic
}
