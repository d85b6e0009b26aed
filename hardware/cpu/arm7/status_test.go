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
	"testing"

	"github.com/jetsetilly/arm7core/test"
)

func TestConditionTable(t *testing.T) {
	for flags := 0; flags < 16; flags++ {
		n := flags&0x08 == 0x08
		z := flags&0x04 == 0x04
		c := flags&0x02 == 0x02
		v := flags&0x01 == 0x01

		sr := status{negative: n, zero: z, carry: c, overflow: v}

		expected := [16]bool{
			z,            // EQ
			!z,           // NE
			c,            // CS
			!c,           // CC
			n,            // MI
			!n,           // PL
			v,            // VS
			!v,           // VC
			c && !z,      // HI
			!c || z,      // LS
			n == v,       // GE
			n != v,       // LT
			!z && n == v, // GT
			z || n != v,  // LE
			true,         // AL
			false,        // NV
		}

		for cond := uint8(0); cond < 16; cond++ {
			b, _ := sr.condition(cond)
			test.ExpectEquality(t, b, expected[cond], fmt.Sprintf("NZCV=%04b cond=%04b", flags, cond))
		}
	}
}

func TestConditionMnemonics(t *testing.T) {
	var sr status
	var s string

	_, s = sr.condition(0b0000)
	test.ExpectEquality(t, s, "EQ")
	_, s = sr.condition(0b1101)
	test.ExpectEquality(t, s, "LE")
	_, s = sr.condition(0b1110)
	test.ExpectEquality(t, s, "")
	_, s = sr.condition(0b1111)
	test.ExpectEquality(t, s, "NV")
}

func TestPackUnpack(t *testing.T) {
	sr := status{negative: true, carry: true, irqDisable: true, thumb: true, mode: ModeIRQ}
	v := sr.pack()
	test.ExpectEquality(t, v, uint32(0xa00000b2))

	var sr2 status
	sr2.unpack(v)
	sr2.mode = ModeIRQ
	test.ExpectEquality(t, sr2, sr)
}

func TestFlags(t *testing.T) {
	var sr status

	// 0x7fffffff + 1 overflows but does not carry
	sr.isCarry(0x7fffffff, 1, 0)
	sr.isOverflow(0x7fffffff, 1, 0)
	test.ExpectEquality(t, sr.carry, false)
	test.ExpectEquality(t, sr.overflow, true)

	// 0xffffffff + 1 carries but does not overflow
	sr.isCarry(0xffffffff, 1, 0)
	sr.isOverflow(0xffffffff, 1, 0)
	test.ExpectEquality(t, sr.carry, true)
	test.ExpectEquality(t, sr.overflow, false)

	// subtraction 5 - 5 is 5 + ^5 + 1. carry is set (no borrow)
	sr.isCarry(5, ^uint32(5), 1)
	sr.isOverflow(5, ^uint32(5), 1)
	test.ExpectEquality(t, sr.carry, true)
	test.ExpectEquality(t, sr.overflow, false)

	// 0 - 1 borrows
	sr.isCarry(0, ^uint32(1), 1)
	test.ExpectEquality(t, sr.carry, false)

	// 0x80000000 - 1 overflows
	sr.isOverflow(0x80000000, ^uint32(1), 1)
	test.ExpectEquality(t, sr.overflow, true)
}
