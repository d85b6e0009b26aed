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

// execute an ARM instruction that has passed its condition test. the PC is
// the address of the instruction. returns the number of cycles required in
// addition to the category cost
func (arm *ARM) execute(op DecodedOp, pc uint32) int {
	switch op.Class {
	case DataProcessing:
		arm.executeDataProcessing(op)
	case PSRTransfer:
		arm.executePSRTransfer(op)
	case Multiply:
		return arm.executeMultiply(op)
	case MultiplyLong:
		return arm.executeMultiplyLong(op)
	case Swap:
		return arm.executeSwap(op)
	case HalfwordTransfer:
		return arm.executeHalfwordTransfer(op)
	case SingleTransfer:
		return arm.executeSingleTransfer(op)
	case BlockTransfer:
		return arm.executeBlockTransfer(op, pc)
	case Branch:
		// the link is the address of the instruction after the branch
		if op.Link {
			arm.state.registers.r[rLR] = pc + 4
		}
		arm.branch(pc + pipelineARM + uint32(op.Offset))
	case BranchExchange:
		arm.branchExchange(arm.readRegister(op.Rm, pipelineARM))
	case CoprocDataTransfer, CoprocDataOperation, CoprocRegisterTransfer:
		if !arm.executeCoprocessor(op) {
			arm.undefined(op, pc)
			return cyclesUndefined - cyclesExecuted
		}
	case SoftwareInterrupt:
		arm.state.pendingSWI = true
	case Undefined:
		arm.undefined(op, pc)
	}

	return 0
}

// perform a data processing operation. a is the first operand (Rn) and b is
// the second operand (the output of the barrel shifter). shiftCarry is the
// carry out of the barrel shifter, which becomes the carry flag for the
// logical operations
//
// returns the result and whether the result should be written to the
// destination register. the comparison operations do not write a result
func (arm *ARM) alu(opcode uint8, a uint32, b uint32, shiftCarry bool, setFlags bool) (uint32, bool) {
	sr := &arm.state.registers.status

	// arithmetic operations are all performed as the addition x + y + c
	var x, y, c uint32
	arithmetic := true

	switch opcode {
	case aluSUB, aluCMP:
		x, y, c = a, ^b, 1
	case aluRSB:
		x, y, c = b, ^a, 1
	case aluADD, aluCMN:
		x, y, c = a, b, 0
	case aluADC:
		x, y, c = a, b, sr.carryIn()
	case aluSBC:
		x, y, c = a, ^b, sr.carryIn()
	case aluRSC:
		x, y, c = b, ^a, sr.carryIn()
	default:
		arithmetic = false
	}

	var result uint32
	if arithmetic {
		result = x + y + c
		if setFlags {
			sr.isCarry(x, y, c)
			sr.isOverflow(x, y, c)
		}
	} else {
		switch opcode {
		case aluAND, aluTST:
			result = a & b
		case aluEOR, aluTEQ:
			result = a ^ b
		case aluORR:
			result = a | b
		case aluMOV:
			result = b
		case aluBIC:
			result = a &^ b
		case aluMVN:
			result = ^b
		}
		if setFlags {
			sr.setCarry(shiftCarry)
		}
	}

	if setFlags {
		sr.isZero(result)
		sr.isNegative(result)
	}

	return result, opcode < aluTST || opcode > aluCMN
}

// "4.5 Data Processing"
func (arm *ARM) executeDataProcessing(op DecodedOp) {
	regs := &arm.state.registers
	carry := regs.status.carry

	// the PC is read as the address of the instruction plus 12 when the shift
	// amount is taken from a register
	pipeline := uint32(pipelineARM)

	var b uint32
	var shiftCarry bool
	if op.Immediate {
		b, shiftCarry = rotateImmediate(op.Imm, op.Rotate, carry)
	} else if op.ShiftByRegister {
		pipeline = pipelineSTR
		b, shiftCarry = shiftRegister(op.Shift, arm.readRegister(op.Rm, pipeline), regs.r[op.Rs], carry)
	} else {
		b, shiftCarry = shiftImmediate(op.Shift, arm.readRegister(op.Rm, pipeline), op.ShiftAmount, carry)
	}

	a := arm.readRegister(op.Rn, pipeline)

	// with the S bit set and R15 as the destination the SPSR of the current
	// mode is copied to the CPSR. the flags are not set from the result
	if op.SetFlags && op.Rd == rPC {
		if result, write := arm.alu(op.Op, a, b, shiftCarry, false); write {
			arm.restoreCPSR()
			arm.branch(result)
			return
		}
	}

	if result, write := arm.alu(op.Op, a, b, shiftCarry, op.SetFlags); write {
		arm.writeRegister(op.Rd, result)
	}
}

// "4.6 PSR Transfer"
func (arm *ARM) executePSRTransfer(op DecodedOp) {
	regs := &arm.state.registers

	// MRS
	if !op.Load {
		if op.SPSR {
			arm.writeRegister(op.Rd, regs.SPSR())
		} else {
			arm.writeRegister(op.Rd, regs.CPSR())
		}
		return
	}

	// MSR
	var value uint32
	if op.Immediate {
		value, _ = rotateImmediate(op.Imm, op.Rotate, false)
	} else {
		value = regs.r[op.Rm]
	}

	var mask uint32
	if op.Fields&0x01 == 0x01 {
		mask |= 0x000000ff
	}
	if op.Fields&0x08 == 0x08 {
		mask |= 0xff000000
	}

	if op.SPSR {
		regs.SetSPSR((regs.SPSR() &^ mask) | (value & mask))
		return
	}

	// only the flags can be changed in USR mode. the T bit can only be
	// changed with BX
	if regs.status.mode == ModeUSR {
		mask &= 0xff000000
	}
	mask &^= psrThumb

	arm.writeCPSR((regs.CPSR() &^ mask) | (value & mask))
}

// "4.7 Multiply and Multiply-Accumulate"
//
// the C flag is unaffected. the V flag is unaffected
func (arm *ARM) executeMultiply(op DecodedOp) int {
	regs := &arm.state.registers

	rs := regs.r[op.Rs]
	result := regs.r[op.Rm] * rs
	extra := mulCycles(rs, true)

	if op.Accumulate {
		result += regs.r[op.Rn]
		extra++
	}

	arm.writeRegister(op.Rd, result)

	if op.SetFlags {
		regs.status.isZero(result)
		regs.status.isNegative(result)
	}

	return extra
}

// "4.8 Multiply Long and Multiply-Accumulate Long"
func (arm *ARM) executeMultiplyLong(op DecodedOp) int {
	regs := &arm.state.registers

	rm := regs.r[op.Rm]
	rs := regs.r[op.Rs]

	var result uint64
	if op.Signed {
		result = uint64(int64(int32(rm)) * int64(int32(rs)))
	} else {
		result = uint64(rm) * uint64(rs)
	}
	extra := mulCycles(rs, op.Signed) + 1

	if op.Accumulate {
		result += uint64(regs.r[op.RdHi])<<32 | uint64(regs.r[op.Rd])
		extra++
	}

	regs.r[op.Rd] = uint32(result)
	regs.r[op.RdHi] = uint32(result >> 32)

	if op.SetFlags {
		regs.status.zero = result == 0
		regs.status.negative = result&0x8000000000000000 == 0x8000000000000000
	}

	return extra
}

// read a word from memory. a misaligned address reads the aligned word and
// rotates it so that the addressed byte is in the least significant bits
func (arm *ARM) readWord(addr uint32) uint32 {
	v := arm.mem.Read32(addr &^ 0x03)
	return bits.RotateLeft32(v, -int((addr&0x03)*8))
}

// "4.12 Single Data Swap"
func (arm *ARM) executeSwap(op DecodedOp) int {
	regs := &arm.state.registers
	addr := regs.r[op.Rn]

	if op.Byte {
		v := arm.mem.Read8(addr)
		arm.mem.Write8(addr, uint8(regs.r[op.Rm]))
		arm.writeRegister(op.Rd, uint32(v))
	} else {
		v := arm.readWord(addr)
		arm.mem.Write32(addr&^0x03, regs.r[op.Rm])
		arm.writeRegister(op.Rd, v)
	}

	return 1
}

// "4.9 Single Data Transfer"
func (arm *ARM) executeSingleTransfer(op DecodedOp) int {
	regs := &arm.state.registers

	offset := op.Imm
	if !op.Immediate {
		offset, _ = shiftImmediate(op.Shift, regs.r[op.Rm], op.ShiftAmount, regs.status.carry)
	}

	base := arm.readRegister(op.Rn, pipelineARM)
	target := base - offset
	if op.Up {
		target = base + offset
	}

	addr := base
	if op.Pre {
		addr = target
	}

	// post-indexed transfers always write back
	writeback := (op.Writeback || !op.Pre) && op.Rn != rPC

	if op.Load {
		var v uint32
		if op.Byte {
			v = uint32(arm.mem.Read8(addr))
		} else {
			v = arm.readWord(addr)
		}

		// a load into the base register takes the loaded value
		if writeback {
			regs.r[op.Rn] = target
		}
		arm.writeRegister(op.Rd, v)

		if op.Rd == rPC {
			return cyclesPipelineRefill
		}
		return 0
	}

	v := arm.readRegister(op.Rd, pipelineSTR)
	if op.Byte {
		arm.mem.Write8(addr, uint8(v))
	} else {
		arm.mem.Write32(addr&^0x03, v)
	}

	if writeback {
		regs.r[op.Rn] = target
	}

	return 0
}

// "4.10 Halfword and Signed Data Transfer"
func (arm *ARM) executeHalfwordTransfer(op DecodedOp) int {
	regs := &arm.state.registers

	offset := op.Imm
	if !op.Immediate {
		offset = regs.r[op.Rm]
	}

	base := arm.readRegister(op.Rn, pipelineARM)
	target := base - offset
	if op.Up {
		target = base + offset
	}

	addr := base
	if op.Pre {
		addr = target
	}

	writeback := (op.Writeback || !op.Pre) && op.Rn != rPC

	if op.Load {
		var v uint32
		switch {
		case op.Signed && op.Halfword:
			v = uint32(int32(int16(arm.mem.Read16(addr &^ 0x01))))
		case op.Signed:
			v = uint32(int32(int8(arm.mem.Read8(addr))))
		default:
			v = uint32(arm.mem.Read16(addr &^ 0x01))
		}

		if writeback {
			regs.r[op.Rn] = target
		}
		arm.writeRegister(op.Rd, v)

		if op.Rd == rPC {
			return cyclesPipelineRefill
		}
		return 0
	}

	arm.mem.Write16(addr&^0x01, uint16(arm.readRegister(op.Rd, pipelineSTR)))

	if writeback {
		regs.r[op.Rn] = target
	}

	return 0
}

// "4.11 Block Data Transfer"
//
// registers are always transferred lowest register to lowest address,
// whatever the addressing mode
func (arm *ARM) executeBlockTransfer(op DecodedOp, pc uint32) int {
	regs := &arm.state.registers

	n := uint32(bits.OnesCount16(op.RegList))
	if n == 0 {
		return 0
	}

	base := regs.r[op.Rn]

	var addr, newBase uint32
	if op.Up {
		newBase = base + n*4
		addr = base
		if op.Pre {
			addr += 4
		}
	} else {
		newBase = base - n*4
		addr = newBase
		if !op.Pre {
			addr += 4
		}
	}

	writeback := op.Writeback && op.Rn != rPC
	pcInList := op.RegList&(0x01<<rPC) != 0x00

	extra := int(n) - 1

	if op.Load {
		// a load into the base register takes the loaded value
		if writeback {
			regs.r[op.Rn] = newBase
		}

		// with the S bit set the USR bank is used, unless R15 is in the list
		// in which case the SPSR is copied to the CPSR
		user := op.UserBank && !pcInList

		for i := 0; i < NumRegisters; i++ {
			if op.RegList&(0x01<<i) == 0x00 {
				continue // for loop
			}

			v := arm.mem.Read32(addr)
			addr += 4

			switch {
			case i == rPC:
				if op.UserBank {
					arm.restoreCPSR()
				}
				arm.branch(v)
				extra += cyclesPipelineRefill
			case user:
				regs.SetUser(i, v)
			default:
				regs.r[i] = v
			}
		}

		return extra
	}

	// the base register is stored with its original value if it is the first
	// register in the list. otherwise the written back value is stored
	first := true

	for i := 0; i < NumRegisters; i++ {
		if op.RegList&(0x01<<i) == 0x00 {
			continue // for loop
		}

		var v uint32
		switch {
		case i == rPC:
			v = pc + pipelineSTR
		case op.UserBank:
			v = regs.GetUser(i)
		case i == op.Rn && writeback && !first:
			v = newBase
		default:
			v = regs.r[i]
		}
		first = false

		arm.mem.Write32(addr, v)
		addr += 4
	}

	if writeback {
		regs.r[op.Rn] = newBase
	}

	return extra
}
