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
	"math/bits"
)

// net cost in cycles of each category of ARM instruction. instructions that
// need more cycles (multiply, block transfer, loads into the PC, swap) add to
// the category cost
const (
	cyclesExecuted        = 3
	cyclesConditionFailed = 1
	cyclesPSRTransfer     = 1

	// 2S + 1I + 1N. this includes coprocessor instructions that no attached
	// coprocessor accepts
	cyclesUndefined = 4
)

// additional cycles for a load into the PC. the pipeline must be refilled
const cyclesPipelineRefill = 2

// the base cost of an ARM instruction that passes its condition test
func armCycles(op DecodedOp) int {
	switch op.Class {
	case PSRTransfer:
		return cyclesPSRTransfer
	case Undefined:
		return cyclesUndefined
	}
	return cyclesExecuted
}

// the number of internal cycles required by a multiply depends on the value
// of the multiplier operand. for signed multiplies the upper bits can be all
// zero or all one. for unsigned multiplies the upper bits must be zero
//
// "7.2 Instruction Cycle Count Summary" in "ARM7TDMI-S Technical Reference
// Manual r4p3"
func mulCycles(multiplier uint32, signed bool) int {
	p := bits.OnesCount32(multiplier & 0xffffff00)
	if p == 0 || (signed && p == 24) {
		// ... Is 1 if bits [32:8] of the multiplier operand are all zero or one.
		return 1
	}
	p = bits.OnesCount32(multiplier & 0xffff0000)
	if p == 0 || (signed && p == 16) {
		// ... Is 2 if bits [32:16] of the multiplier operand are all zero or one.
		return 2
	}
	p = bits.OnesCount32(multiplier & 0xff000000)
	if p == 0 || (signed && p == 8) {
		// ... Is 3 if bits [31:24] of the multiplier operand are all zero or one.
		return 3
	}
	// ... Is 4 otherwise.
	return 4
}

// cost of every Thumb instruction indexed by the upper eight bits of the
// opcode. there are no additional costs for Thumb instructions
var thumbCycles = [256]uint8{
	// 0 - move shifted register
	1, 1, 1, 1, 1, 1, 1, 1, 1, 1, 1, 1, 1, 1, 1, 1,
	// 1 - move shifted register, add/subtract
	1, 1, 1, 1, 1, 1, 1, 1, 1, 1, 1, 1, 1, 1, 1, 1,
	// 2 - move/compare immediate
	1, 1, 1, 1, 1, 1, 1, 1, 1, 1, 1, 1, 1, 1, 1, 1,
	// 3 - add/subtract immediate
	1, 1, 1, 1, 1, 1, 1, 1, 1, 1, 1, 1, 1, 1, 1, 1,
	// 4 - ALU, hi register, PC relative load
	1, 1, 1, 1, 1, 1, 1, 1, 3, 3, 3, 3, 3, 3, 3, 3,
	// 5 - load/store with register offset, sign-extended byte/halfword
	2, 2, 2, 2, 2, 2, 2, 2, 3, 3, 3, 3, 3, 3, 3, 3,
	// 6 - store/load word with immediate offset
	2, 2, 2, 2, 2, 2, 2, 2, 3, 3, 3, 3, 3, 3, 3, 3,
	// 7 - store/load byte with immediate offset
	2, 2, 2, 2, 2, 2, 2, 2, 3, 3, 3, 3, 3, 3, 3, 3,
	// 8 - store/load halfword
	2, 2, 2, 2, 2, 2, 2, 2, 3, 3, 3, 3, 3, 3, 3, 3,
	// 9 - SP relative store/load
	2, 2, 2, 2, 2, 2, 2, 2, 3, 3, 3, 3, 3, 3, 3, 3,
	// a - load address
	1, 1, 1, 1, 1, 1, 1, 1, 1, 1, 1, 1, 1, 1, 1, 1,
	// b - add offset to SP, push/pop
	1, 1, 1, 1, 2, 2, 1, 1, 1, 1, 1, 1, 4, 4, 1, 1,
	// c - multiple store/load
	2, 2, 2, 2, 2, 2, 2, 2, 3, 3, 3, 3, 3, 3, 3, 3,
	// d - conditional branch, software interrupt
	3, 3, 3, 3, 3, 3, 3, 3, 3, 3, 3, 3, 3, 3, 3, 3,
	// e - unconditional branch
	3, 3, 3, 3, 3, 3, 3, 3, 3, 3, 3, 3, 3, 3, 3, 3,
	// f - long branch with link
	3, 3, 3, 3, 3, 3, 3, 3, 3, 3, 3, 3, 3, 3, 3, 3,
}
