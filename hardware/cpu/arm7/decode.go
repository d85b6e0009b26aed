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

// DecodeMode decodes an opcode in the ARM or Thumb instruction set. In the
// Thumb case only the lower 16 bits of the opcode are used.
func DecodeMode(opcode uint32, thumb bool) DecodedOp {
	if thumb {
		return DecodeThumb(uint16(opcode))
	}
	return Decode(opcode)
}

// Decode an ARM opcode. The function has no side effects. Opcodes that do not
// match any instruction class are decoded as Undefined.
//
// Instruction groups and bit patterns from "4 ARM Instruction Set" in the
// "ARM7TDMI-S Data Sheet".
func Decode(opcode uint32) DecodedOp {
	op := DecodedOp{
		Opcode: opcode,
		Cond:   uint8(opcode >> 28),
	}

	// branch and exchange is the one data processing pattern that needs to
	// be identified before anything else
	if opcode&0x0ffffff0 == 0x012fff10 {
		op.Class = BranchExchange
		op.Rm = int(opcode & 0x0f)
		return op
	}

	switch (opcode >> 24) & 0x0f {
	case 0x0, 0x1, 0x2, 0x3:
		if opcode&0x0e000090 == 0x00000090 {
			decodeMultiplyGroup(&op)
		} else if opcode&0x0d900000 == 0x01000000 {
			// S bit clear and opcode field of TST, TEQ, CMP or CMN. the
			// comparison opcodes are meaningless without the S bit so this
			// space is used for the PSR transfer instructions
			decodePSRTransfer(&op)
		} else {
			decodeDataProcessing(&op)
		}
	case 0x4, 0x5, 0x6, 0x7:
		decodeSingleTransfer(&op)
	case 0x8, 0x9:
		op.Class = BlockTransfer
		op.Pre = opcode&0x01000000 == 0x01000000
		op.Up = opcode&0x00800000 == 0x00800000
		op.UserBank = opcode&0x00400000 == 0x00400000
		op.Writeback = opcode&0x00200000 == 0x00200000
		op.Load = opcode&0x00100000 == 0x00100000
		op.Rn = int((opcode >> 16) & 0x0f)
		op.RegList = uint16(opcode)
	case 0xa, 0xb:
		op.Class = Branch
		op.Link = opcode&0x01000000 == 0x01000000

		// 24 bit offset is sign extended and shifted left two bits
		op.Offset = int32(opcode<<8) >> 6
	case 0xc, 0xd:
		op.Class = CoprocDataTransfer
		op.Pre = opcode&0x01000000 == 0x01000000
		op.Up = opcode&0x00800000 == 0x00800000
		op.Long = opcode&0x00400000 == 0x00400000
		op.Writeback = opcode&0x00200000 == 0x00200000
		op.Load = opcode&0x00100000 == 0x00100000
		op.Rn = int((opcode >> 16) & 0x0f)
		op.Rd = int((opcode >> 12) & 0x0f)
		op.Coproc = uint8((opcode >> 8) & 0x0f)
		op.Imm = (opcode & 0xff) << 2
	case 0xe:
		op.Rn = int((opcode >> 16) & 0x0f)
		op.Rd = int((opcode >> 12) & 0x0f)
		op.Coproc = uint8((opcode >> 8) & 0x0f)
		op.Info = uint8((opcode >> 5) & 0x07)
		op.Rm = int(opcode & 0x0f)
		if opcode&0x10 == 0x00 {
			op.Class = CoprocDataOperation
			op.Op = uint8((opcode >> 20) & 0x0f)
		} else {
			op.Class = CoprocRegisterTransfer
			op.Op = uint8((opcode >> 21) & 0x07)
			op.Load = opcode&0x00100000 == 0x00100000
		}
	case 0xf:
		op.Class = SoftwareInterrupt
		op.Comment = opcode & 0x00ffffff
	}

	return op
}

// multiply, multiply long, swap and halfword transfer. bits 27 to 25 are
// clear and bits 7 and 4 are set
func decodeMultiplyGroup(op *DecodedOp) {
	opcode := op.Opcode

	if opcode&0x60 != 0x00 {
		// "4.10 Halfword and Signed Data Transfer"
		op.Class = HalfwordTransfer
		op.Pre = opcode&0x01000000 == 0x01000000
		op.Up = opcode&0x00800000 == 0x00800000
		op.Immediate = opcode&0x00400000 == 0x00400000
		op.Writeback = opcode&0x00200000 == 0x00200000
		op.Load = opcode&0x00100000 == 0x00100000
		op.Rn = int((opcode >> 16) & 0x0f)
		op.Rd = int((opcode >> 12) & 0x0f)
		op.Signed = opcode&0x40 == 0x40
		op.Halfword = opcode&0x20 == 0x20
		if op.Immediate {
			op.Imm = ((opcode >> 4) & 0xf0) | (opcode & 0x0f)
		} else {
			if opcode&0x0f00 != 0x0000 {
				op.Class = Undefined
				return
			}
			op.Rm = int(opcode & 0x0f)
		}

		// signed stores are not part of ARMv4T
		if op.Signed && !op.Load {
			op.Class = Undefined
		}
		return
	}

	if opcode&0x01000000 == 0x01000000 {
		// "4.12 Single Data Swap"
		if opcode&0x0fb00ff0 != 0x01000090 {
			op.Class = Undefined
			return
		}
		op.Class = Swap
		op.Byte = opcode&0x00400000 == 0x00400000
		op.Rn = int((opcode >> 16) & 0x0f)
		op.Rd = int((opcode >> 12) & 0x0f)
		op.Rm = int(opcode & 0x0f)
		return
	}

	if opcode&0x00800000 == 0x00800000 {
		// "4.8 Multiply Long and Multiply-Accumulate Long"
		op.Class = MultiplyLong
		op.Signed = opcode&0x00400000 == 0x00400000
		op.Accumulate = opcode&0x00200000 == 0x00200000
		op.SetFlags = opcode&0x00100000 == 0x00100000
		op.RdHi = int((opcode >> 16) & 0x0f)
		op.Rd = int((opcode >> 12) & 0x0f)
		op.Rs = int((opcode >> 8) & 0x0f)
		op.Rm = int(opcode & 0x0f)
		return
	}

	// "4.7 Multiply and Multiply-Accumulate"
	if opcode&0x00400000 == 0x00400000 {
		op.Class = Undefined
		return
	}
	op.Class = Multiply
	op.Accumulate = opcode&0x00200000 == 0x00200000
	op.SetFlags = opcode&0x00100000 == 0x00100000
	op.Rd = int((opcode >> 16) & 0x0f)
	op.Rn = int((opcode >> 12) & 0x0f)
	op.Rs = int((opcode >> 8) & 0x0f)
	op.Rm = int(opcode & 0x0f)
}

// "4.6 PSR Transfer"
func decodePSRTransfer(op *DecodedOp) {
	opcode := op.Opcode

	op.Class = PSRTransfer
	op.SPSR = opcode&0x00400000 == 0x00400000

	if opcode&0x00200000 == 0x00000000 {
		// MRS
		if opcode&0x020f0fff != 0x000f0000 {
			op.Class = Undefined
			return
		}
		op.Rd = int((opcode >> 12) & 0x0f)
		return
	}

	// MSR
	op.Load = true
	op.Fields = uint8((opcode >> 16) & 0x0f)
	op.Immediate = opcode&0x02000000 == 0x02000000
	if op.Immediate {
		op.Imm = opcode & 0xff
		op.Rotate = uint8((opcode>>8)&0x0f) * 2
	} else {
		if opcode&0x0ff0 != 0x0000 {
			op.Class = Undefined
			return
		}
		op.Rm = int(opcode & 0x0f)
	}
}

// "4.5 Data Processing"
func decodeDataProcessing(op *DecodedOp) {
	opcode := op.Opcode

	op.Class = DataProcessing
	op.Op = uint8((opcode >> 21) & 0x0f)
	op.SetFlags = opcode&0x00100000 == 0x00100000
	op.Rn = int((opcode >> 16) & 0x0f)
	op.Rd = int((opcode >> 12) & 0x0f)
	op.Immediate = opcode&0x02000000 == 0x02000000

	if op.Immediate {
		op.Imm = opcode & 0xff
		op.Rotate = uint8((opcode>>8)&0x0f) * 2
		return
	}

	op.Rm = int(opcode & 0x0f)
	op.Shift = ShiftType((opcode >> 5) & 0x03)
	op.ShiftByRegister = opcode&0x10 == 0x10
	if op.ShiftByRegister {
		op.Rs = int((opcode >> 8) & 0x0f)
	} else {
		op.ShiftAmount = uint8((opcode >> 7) & 0x1f)
	}
}

// "4.9 Single Data Transfer"
func decodeSingleTransfer(op *DecodedOp) {
	opcode := op.Opcode

	// register offset with bit 4 set is the undefined instruction space
	if opcode&0x02000010 == 0x02000010 {
		op.Class = Undefined
		return
	}

	op.Class = SingleTransfer
	op.Pre = opcode&0x01000000 == 0x01000000
	op.Up = opcode&0x00800000 == 0x00800000
	op.Byte = opcode&0x00400000 == 0x00400000
	op.Writeback = opcode&0x00200000 == 0x00200000
	op.Load = opcode&0x00100000 == 0x00100000
	op.Rn = int((opcode >> 16) & 0x0f)
	op.Rd = int((opcode >> 12) & 0x0f)

	// the I bit is inverted compared to data processing. when clear the
	// offset is an immediate value
	op.Immediate = opcode&0x02000000 == 0x00000000
	if op.Immediate {
		op.Imm = opcode & 0x0fff
		return
	}

	op.Rm = int(opcode & 0x0f)
	op.Shift = ShiftType((opcode >> 5) & 0x03)
	op.ShiftAmount = uint8((opcode >> 7) & 0x1f)
}
