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
	"testing"

	"github.com/jetsetilly/arm7core/test"
)

func TestMulCycles(t *testing.T) {
	test.ExpectEquality(t, mulCycles(0x00000000, false), 1)
	test.ExpectEquality(t, mulCycles(0x000000ff, false), 1)
	test.ExpectEquality(t, mulCycles(0x0000ff00, false), 2)
	test.ExpectEquality(t, mulCycles(0x00ff0000, false), 3)
	test.ExpectEquality(t, mulCycles(0xff000000, false), 4)

	// upper bits all one only count for signed multiplies
	test.ExpectEquality(t, mulCycles(0xffffff80, true), 1)
	test.ExpectEquality(t, mulCycles(0xffffff80, false), 4)
	test.ExpectEquality(t, mulCycles(0xffff8000, true), 2)
	test.ExpectEquality(t, mulCycles(0xff800000, true), 3)
	test.ExpectEquality(t, mulCycles(0x80000000, true), 4)
}

func TestARMCycles(t *testing.T) {
	test.ExpectEquality(t, armCycles(Decode(0xe0810002)), cyclesExecuted)
	test.ExpectEquality(t, armCycles(Decode(0xe10f0000)), cyclesPSRTransfer)
	test.ExpectEquality(t, armCycles(Decode(0xe7f000f0)), cyclesUndefined)

	// undefined instruction entry is 2S + 1I + 1N
	test.ExpectEquality(t, cyclesUndefined, 4)
}

func TestThumbCycles(t *testing.T) {
	// format 1 move shifted register
	test.ExpectEquality(t, thumbCycles[0x00], uint8(1))
	// format 6 PC relative load
	test.ExpectEquality(t, thumbCycles[0x48], uint8(3))
	// format 14 push/pop
	test.ExpectEquality(t, thumbCycles[0xb4], uint8(2))
	test.ExpectEquality(t, thumbCycles[0xbc], uint8(4))
	// format 19 long branch
	test.ExpectEquality(t, thumbCycles[0xf0], uint8(3))
}
