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

// the barrel shifter. the functions return the shifted value and the shifter
// carry out. the carry argument is the current value of the carry flag, which
// is returned as the carry out in the cases where the shifter does not
// produce a carry
//
// "4.5.2 Shifts" in "ARM7TDMI-S Data Sheet"

// shift by an amount taken from the bottom byte of a register. an amount of
// zero leaves both the value and the carry unchanged
func shiftRegister(typ ShiftType, value uint32, amount uint32, carry bool) (uint32, bool) {
	amount &= 0xff
	if amount == 0 {
		return value, carry
	}

	switch typ {
	case LSL:
		switch {
		case amount < 32:
			return value << amount, value&(0x01<<(32-amount)) != 0
		case amount == 32:
			return 0, value&0x01 == 0x01
		}
		return 0, false

	case LSR:
		switch {
		case amount < 32:
			return value >> amount, value&(0x01<<(amount-1)) != 0
		case amount == 32:
			return 0, value&0x80000000 == 0x80000000
		}
		return 0, false

	case ASR:
		if amount < 32 {
			return uint32(int32(value) >> amount), value&(0x01<<(amount-1)) != 0
		}
		if value&0x80000000 == 0x80000000 {
			return 0xffffffff, true
		}
		return 0, false
	}

	// ROR
	amount &= 0x1f
	if amount == 0 {
		return value, value&0x80000000 == 0x80000000
	}
	return (value >> amount) | (value << (32 - amount)), value&(0x01<<(amount-1)) != 0
}

// shift by an amount encoded in the instruction. the encoded amount is five
// bits and an amount of zero has a special meaning for LSR, ASR and ROR
func shiftImmediate(typ ShiftType, value uint32, amount uint8, carry bool) (uint32, bool) {
	amount &= 0x1f
	if amount > 0 {
		return shiftRegister(typ, value, uint32(amount), carry)
	}

	switch typ {
	case LSL:
		// LSL #0 is the register value unchanged. carry is unaffected
		return value, carry
	case LSR, ASR:
		// LSR #0 and ASR #0 are encodings for a shift of 32
		return shiftRegister(typ, value, 32, carry)
	}

	// ROR #0 is an encoding for RRX: rotate right by one through the carry
	var c uint32
	if carry {
		c = 0x80000000
	}
	return c | (value >> 1), value&0x01 == 0x01
}

// the immediate operand of data processing and MSR instructions. an 8 bit
// value rotated right by an even amount. a rotation of zero leaves the carry
// unchanged
func rotateImmediate(imm uint32, rotate uint8, carry bool) (uint32, bool) {
	if rotate == 0 {
		return imm, carry
	}
	v := (imm >> rotate) | (imm << (32 - uint32(rotate)))
	return v, v&0x80000000 == 0x80000000
}
