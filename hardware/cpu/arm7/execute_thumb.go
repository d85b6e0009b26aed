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

// data processing opcodes equivalent to the Thumb ALU operations. the shift
// operations, NEG and MUL are handled separately
var thumbALUEquivalent = [16]uint8{
	thumbAND: aluAND,
	thumbEOR: aluEOR,
	thumbADC: aluADC,
	thumbSBC: aluSBC,
	thumbTST: aluTST,
	thumbCMP: aluCMP,
	thumbCMN: aluCMN,
	thumbORR: aluORR,
	thumbBIC: aluBIC,
	thumbMVN: aluMVN,
}

// execute a Thumb instruction. the PC is the address of the instruction.
// Thumb instructions have a fixed cost so nothing is returned
func (arm *ARM) executeThumb(op DecodedOp, pc uint32) {
	regs := &arm.state.registers

	switch op.Class {
	case ThumbMoveShifted:
		v, c := shiftImmediate(op.Shift, regs.r[op.Rm], op.ShiftAmount, regs.status.carry)
		regs.r[op.Rd] = v
		regs.status.setCarry(c)
		regs.status.isZero(v)
		regs.status.isNegative(v)

	case ThumbAddSubtract:
		b := op.Imm
		if !op.Immediate {
			b = regs.r[op.Rm]
		}
		regs.r[op.Rd], _ = arm.alu(op.Op, regs.r[op.Rn], b, regs.status.carry, true)

	case ThumbImmediate:
		if v, write := arm.alu(op.Op, regs.r[op.Rd], op.Imm, regs.status.carry, true); write {
			regs.r[op.Rd] = v
		}

	case ThumbALU:
		arm.executeThumbALU(op)

	case ThumbHiRegister:
		arm.executeThumbHiRegister(op)

	case ThumbPCRelativeLoad:
		// bit 1 of the PC is forced to zero so that the address is always
		// word aligned
		addr := ((pc + pipelineThumb) &^ 0x03) + op.Imm
		regs.r[op.Rd] = arm.mem.Read32(addr)

	case ThumbLoadStoreRegister, ThumbLoadStoreImmediate:
		addr := regs.r[op.Rn]
		if op.Class == ThumbLoadStoreRegister {
			addr += regs.r[op.Rm]
		} else {
			addr += op.Imm
		}
		switch {
		case op.Load && op.Byte:
			regs.r[op.Rd] = uint32(arm.mem.Read8(addr))
		case op.Load:
			regs.r[op.Rd] = arm.readWord(addr)
		case op.Byte:
			arm.mem.Write8(addr, uint8(regs.r[op.Rd]))
		default:
			arm.mem.Write32(addr&^0x03, regs.r[op.Rd])
		}

	case ThumbLoadStoreSigned, ThumbLoadStoreHalfword:
		addr := regs.r[op.Rn]
		if op.Class == ThumbLoadStoreSigned {
			addr += regs.r[op.Rm]
		} else {
			addr += op.Imm
		}
		switch {
		case !op.Load:
			arm.mem.Write16(addr&^0x01, uint16(regs.r[op.Rd]))
		case op.Signed && op.Halfword:
			regs.r[op.Rd] = uint32(int32(int16(arm.mem.Read16(addr &^ 0x01))))
		case op.Signed:
			regs.r[op.Rd] = uint32(int32(int8(arm.mem.Read8(addr))))
		default:
			regs.r[op.Rd] = uint32(arm.mem.Read16(addr &^ 0x01))
		}

	case ThumbSPRelative:
		addr := regs.r[rSP] + op.Imm
		if op.Load {
			regs.r[op.Rd] = arm.readWord(addr)
		} else {
			arm.mem.Write32(addr&^0x03, regs.r[op.Rd])
		}

	case ThumbLoadAddress:
		if op.Rn == rPC {
			regs.r[op.Rd] = ((pc + pipelineThumb) &^ 0x03) + op.Imm
		} else {
			regs.r[op.Rd] = regs.r[rSP] + op.Imm
		}

	case ThumbAddSP:
		regs.r[rSP] += uint32(op.Offset)

	case ThumbPushPop:
		arm.executeThumbPushPop(op)

	case ThumbMultiple:
		arm.executeThumbMultiple(op)

	case ThumbConditionalBranch:
		if ok, _ := regs.status.condition(op.Cond); ok {
			arm.branch(pc + pipelineThumb + uint32(op.Offset))
		}

	case ThumbSoftwareInterrupt:
		arm.state.pendingSWI = true

	case ThumbBranch:
		arm.branch(pc + pipelineThumb + uint32(op.Offset))

	case ThumbLongBranch:
		if !op.Link {
			// first half. the upper part of the offset is added to the PC and
			// the result is stored in LR
			regs.r[rLR] = pc + pipelineThumb + uint32(op.Offset)
		} else {
			// second half. the lower part of the offset is added to LR to
			// give the target address. LR becomes the address of the next
			// instruction with bit 0 set
			target := regs.r[rLR] + uint32(op.Offset)
			regs.r[rLR] = (pc + 2) | 0x01
			arm.branch(target)
		}

	case Undefined:
		arm.undefined(op, pc)
	}
}

// format 4 - ALU operations
func (arm *ARM) executeThumbALU(op DecodedOp) {
	regs := &arm.state.registers

	switch op.Op {
	case thumbLSL, thumbLSR, thumbASR, thumbROR:
		var typ ShiftType
		switch op.Op {
		case thumbLSL:
			typ = LSL
		case thumbLSR:
			typ = LSR
		case thumbASR:
			typ = ASR
		case thumbROR:
			typ = ROR
		}
		v, c := shiftRegister(typ, regs.r[op.Rd], regs.r[op.Rm], regs.status.carry)
		regs.r[op.Rd] = v
		regs.status.setCarry(c)
		regs.status.isZero(v)
		regs.status.isNegative(v)

	case thumbNEG:
		regs.r[op.Rd], _ = arm.alu(aluRSB, regs.r[op.Rm], 0, regs.status.carry, true)

	case thumbMUL:
		// the C flag is unaffected. the V flag is unaffected
		v := regs.r[op.Rm] * regs.r[op.Rd]
		regs.r[op.Rd] = v
		regs.status.isZero(v)
		regs.status.isNegative(v)

	default:
		// the carry out for the logical operations is the carry flag
		// unchanged
		if v, write := arm.alu(thumbALUEquivalent[op.Op], regs.r[op.Rd], regs.r[op.Rm], regs.status.carry, true); write {
			regs.r[op.Rd] = v
		}
	}
}

// format 5 - hi register operations/branch exchange
func (arm *ARM) executeThumbHiRegister(op DecodedOp) {
	regs := &arm.state.registers

	switch op.Op {
	case 0b00:
		// ADD. flags are not affected
		v, _ := arm.alu(aluADD, arm.readRegister(op.Rd, pipelineThumb), arm.readRegister(op.Rm, pipelineThumb), regs.status.carry, false)
		arm.writeRegister(op.Rd, v)
	case 0b01:
		// CMP
		arm.alu(aluCMP, arm.readRegister(op.Rd, pipelineThumb), arm.readRegister(op.Rm, pipelineThumb), regs.status.carry, true)
	case 0b10:
		// MOV. flags are not affected
		arm.writeRegister(op.Rd, arm.readRegister(op.Rm, pipelineThumb))
	case 0b11:
		// BX
		arm.branchExchange(arm.readRegister(op.Rm, pipelineThumb))
	}
}

// format 14 - push/pop registers
//
// PUSH stores the lowest register at the lowest address with LR (if present)
// at the highest address. POP loads in the same order with PC (if present)
// loaded last
func (arm *ARM) executeThumbPushPop(op DecodedOp) {
	regs := &arm.state.registers

	n := uint32(bits.OnesCount16(op.RegList))
	if op.Link {
		n++
	}

	if !op.Load {
		addr := regs.r[rSP] - n*4
		regs.r[rSP] = addr
		for i := 0; i < 8; i++ {
			if op.RegList&(0x01<<i) == 0x00 {
				continue // for loop
			}
			arm.mem.Write32(addr, regs.r[i])
			addr += 4
		}
		if op.Link {
			arm.mem.Write32(addr, regs.r[rLR])
		}
		return
	}

	addr := regs.r[rSP]
	for i := 0; i < 8; i++ {
		if op.RegList&(0x01<<i) == 0x00 {
			continue // for loop
		}
		regs.r[i] = arm.mem.Read32(addr)
		addr += 4
	}

	// bit 0 of the loaded PC is ignored and the processor stays in the Thumb
	// state
	if op.Link {
		arm.branch(arm.mem.Read32(addr))
		addr += 4
	}

	regs.r[rSP] = addr
}

// format 15 - multiple load/store
func (arm *ARM) executeThumbMultiple(op DecodedOp) {
	regs := &arm.state.registers

	n := uint32(bits.OnesCount16(op.RegList))
	if n == 0 {
		return
	}

	base := regs.r[op.Rn]
	newBase := base + n*4
	addr := base

	if op.Load {
		regs.r[op.Rn] = newBase
		for i := 0; i < 8; i++ {
			if op.RegList&(0x01<<i) == 0x00 {
				continue // for loop
			}
			regs.r[i] = arm.mem.Read32(addr)
			addr += 4
		}
		return
	}

	first := true
	for i := 0; i < 8; i++ {
		if op.RegList&(0x01<<i) == 0x00 {
			continue // for loop
		}
		v := regs.r[i]
		if i == op.Rn && !first {
			v = newBase
		}
		first = false
		arm.mem.Write32(addr, v)
		addr += 4
	}
	regs.r[op.Rn] = newBase
}
