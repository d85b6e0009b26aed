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

// condition field used for Thumb instructions that are always executed
const condAlways = 0b1110

// DecodeThumb decodes a Thumb opcode. The function has no side effects.
// Opcodes that do not match any Thumb format are decoded as Undefined.
//
// Format numbers in the comments are from "5 Thumb Instruction Set" in the
// "ARM7TDMI-S Data Sheet".
func DecodeThumb(opcode uint16) DecodedOp {
	op := DecodedOp{
		Thumb:  true,
		Opcode: uint32(opcode),
		Cond:   condAlways,
	}

	switch opcode >> 13 {
	case 0b000:
		if opcode&0x1800 == 0x1800 {
			// format 2 - add/subtract
			op.Class = ThumbAddSubtract
			op.Immediate = opcode&0x0400 == 0x0400
			if opcode&0x0200 == 0x0200 {
				op.Op = aluSUB
			} else {
				op.Op = aluADD
			}
			if op.Immediate {
				op.Imm = uint32((opcode >> 6) & 0x07)
			} else {
				op.Rm = int((opcode >> 6) & 0x07)
			}
			op.Rn = int((opcode >> 3) & 0x07)
			op.Rd = int(opcode & 0x07)
			op.SetFlags = true
		} else {
			// format 1 - move shifted register
			op.Class = ThumbMoveShifted
			op.Shift = ShiftType((opcode >> 11) & 0x03)
			op.ShiftAmount = uint8((opcode >> 6) & 0x1f)
			op.Rm = int((opcode >> 3) & 0x07)
			op.Rd = int(opcode & 0x07)
			op.SetFlags = true
		}

	case 0b001:
		// format 3 - move/compare/add/subtract immediate
		op.Class = ThumbImmediate
		switch (opcode >> 11) & 0x03 {
		case 0b00:
			op.Op = aluMOV
		case 0b01:
			op.Op = aluCMP
		case 0b10:
			op.Op = aluADD
		case 0b11:
			op.Op = aluSUB
		}
		op.Rd = int((opcode >> 8) & 0x07)
		op.Rn = op.Rd
		op.Imm = uint32(opcode & 0xff)
		op.Immediate = true
		op.SetFlags = true

	case 0b010:
		switch {
		case opcode&0x1c00 == 0x0000:
			// format 4 - ALU operations
			op.Class = ThumbALU
			op.Op = uint8((opcode >> 6) & 0x0f)
			op.Rm = int((opcode >> 3) & 0x07)
			op.Rd = int(opcode & 0x07)
			op.SetFlags = true
		case opcode&0x1c00 == 0x0400:
			decodeThumbHiRegister(&op)
		case opcode&0x1800 == 0x0800:
			// format 6 - PC relative load
			op.Class = ThumbPCRelativeLoad
			op.Rd = int((opcode >> 8) & 0x07)
			op.Rn = rPC
			op.Imm = uint32(opcode&0xff) << 2
			op.Load = true
		case opcode&0x1200 == 0x1000:
			// format 7 - load/store with register offset
			op.Class = ThumbLoadStoreRegister
			op.Load = opcode&0x0800 == 0x0800
			op.Byte = opcode&0x0400 == 0x0400
			op.Rm = int((opcode >> 6) & 0x07)
			op.Rn = int((opcode >> 3) & 0x07)
			op.Rd = int(opcode & 0x07)
		default:
			// format 8 - load/store sign-extended byte/halfword
			op.Class = ThumbLoadStoreSigned
			h := opcode&0x0800 == 0x0800
			op.Signed = opcode&0x0400 == 0x0400
			op.Halfword = h || !op.Signed
			op.Load = op.Signed || h
			op.Rm = int((opcode >> 6) & 0x07)
			op.Rn = int((opcode >> 3) & 0x07)
			op.Rd = int(opcode & 0x07)
		}

	case 0b011:
		// format 9 - load/store with immediate offset
		op.Class = ThumbLoadStoreImmediate
		op.Byte = opcode&0x1000 == 0x1000
		op.Load = opcode&0x0800 == 0x0800
		op.Imm = uint32((opcode >> 6) & 0x1f)
		if !op.Byte {
			op.Imm <<= 2
		}
		op.Rn = int((opcode >> 3) & 0x07)
		op.Rd = int(opcode & 0x07)

	case 0b100:
		op.Load = opcode&0x0800 == 0x0800
		if opcode&0x1000 == 0x0000 {
			// format 10 - load/store halfword
			op.Class = ThumbLoadStoreHalfword
			op.Halfword = true
			op.Imm = uint32((opcode>>6)&0x1f) << 1
			op.Rn = int((opcode >> 3) & 0x07)
			op.Rd = int(opcode & 0x07)
		} else {
			// format 11 - SP relative load/store
			op.Class = ThumbSPRelative
			op.Rd = int((opcode >> 8) & 0x07)
			op.Rn = rSP
			op.Imm = uint32(opcode&0xff) << 2
		}

	case 0b101:
		switch {
		case opcode&0x1000 == 0x0000:
			// format 12 - load address
			op.Class = ThumbLoadAddress
			if opcode&0x0800 == 0x0800 {
				op.Rn = rSP
			} else {
				op.Rn = rPC
			}
			op.Rd = int((opcode >> 8) & 0x07)
			op.Imm = uint32(opcode&0xff) << 2
		case opcode&0x0f00 == 0x0000:
			// format 13 - add offset to stack pointer
			op.Class = ThumbAddSP
			op.Imm = uint32(opcode&0x7f) << 2
			if opcode&0x0080 == 0x0080 {
				op.Offset = -int32(op.Imm)
			} else {
				op.Offset = int32(op.Imm)
			}
		case opcode&0x0600 == 0x0400:
			// format 14 - push/pop registers
			op.Class = ThumbPushPop
			op.Load = opcode&0x0800 == 0x0800
			op.Link = opcode&0x0100 == 0x0100
			op.RegList = opcode & 0xff
			op.Rn = rSP
		default:
			// 0xb100 to 0xb3ff, 0xb800 to 0xb9ff and 0xbe00 to 0xbfff
			// are not used by ARMv4T
			op.Class = Undefined
		}

	case 0b110:
		if opcode&0x1000 == 0x0000 {
			// format 15 - multiple load/store
			op.Class = ThumbMultiple
			op.Load = opcode&0x0800 == 0x0800
			op.Rn = int((opcode >> 8) & 0x07)
			op.RegList = opcode & 0xff
			op.Writeback = true
			break // switch
		}

		cond := uint8((opcode >> 8) & 0x0f)
		switch cond {
		case 0b1111:
			// format 17 - software interrupt
			op.Class = ThumbSoftwareInterrupt
			op.Comment = uint32(opcode & 0xff)
		case 0b1110:
			// the "always" condition is not a valid conditional branch
			op.Class = Undefined
		default:
			// format 16 - conditional branch
			op.Class = ThumbConditionalBranch
			op.Cond = cond
			op.Offset = int32(int8(opcode&0xff)) << 1
		}

	case 0b111:
		switch (opcode >> 11) & 0x03 {
		case 0b00:
			// format 18 - unconditional branch
			op.Class = ThumbBranch
			op.Offset = int32(uint32(opcode)<<21) >> 20
		case 0b01:
			// BLX suffix. not part of ARMv4T
			op.Class = Undefined
		case 0b10:
			// format 19 - long branch with link. first half: upper part of
			// the offset, sign extended
			op.Class = ThumbLongBranch
			op.Offset = int32(uint32(opcode)<<21) >> 9
		case 0b11:
			// format 19 - second half: lower part of the offset
			op.Class = ThumbLongBranch
			op.Link = true
			op.Offset = int32(opcode&0x07ff) << 1
		}
	}

	return op
}

// format 5 - hi register operations/branch exchange
func decodeThumbHiRegister(op *DecodedOp) {
	opcode := uint16(op.Opcode)

	op.Class = ThumbHiRegister
	op.Op = uint8((opcode >> 8) & 0x03)
	h1 := opcode&0x0080 == 0x0080
	h2 := opcode&0x0040 == 0x0040

	op.Rm = int((opcode >> 3) & 0x07)
	op.Rd = int(opcode & 0x07)
	if h1 {
		op.Rd += 8
	}
	if h2 {
		op.Rm += 8
	}
	op.Rn = op.Rd

	switch op.Op {
	case 0b00, 0b01, 0b10:
		// ADD, CMP and MOV with two low registers is not defined for this
		// format. the equivalents are in formats 2, 3 and 4
		if !h1 && !h2 {
			op.Class = Undefined
		}
		op.SetFlags = op.Op == 0b01
	case 0b11:
		// BX with H1 set is BLX in later architectures
		if h1 {
			op.Class = Undefined
		}
	}
}
