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

package arm7_test

import (
	"fmt"
	"testing"

	"github.com/jetsetilly/arm7core/hardware/cpu/arm7"
	"github.com/jetsetilly/arm7core/test"
)

func TestDecodeClass(t *testing.T) {
	tests := []struct {
		opcode uint32
		class  arm7.Class
	}{
		{0xe0810002, arm7.DataProcessing},         // ADD R0, R1, R2
		{0xe3a000ff, arm7.DataProcessing},         // MOV R0, #
		{0xe1500001, arm7.DataProcessing},         // CMP R0, R1
		{0xe10f0000, arm7.PSRTransfer},            // MRS R0, CPSR
		{0xe328f20f, arm7.PSRTransfer},            // MSR CPSR_f, #
		{0xe0000291, arm7.Multiply},               // MUL R0, R1, R2
		{0xe0214392, arm7.Multiply},               // MLA R1, R2, R3, R4
		{0xe0810392, arm7.MultiplyLong},           // UMULL R0, R1, R2, R3
		{0xe0c10392, arm7.MultiplyLong},           // SMULL R0, R1, R2, R3
		{0xe1020091, arm7.Swap},                   // SWP R0, R1, [R2]
		{0xe1d100b2, arm7.HalfwordTransfer},       // LDRH R0, [R1, #2]
		{0xe19100d2, arm7.HalfwordTransfer},       // LDRSB R0, [R1, R2]
		{0xe5910004, arm7.SingleTransfer},         // LDR R0, [R1, #4]
		{0xe7810002, arm7.SingleTransfer},         // STR R0, [R1, R2]
		{0xe92d4001, arm7.BlockTransfer},          // STMDB SP!, {R0, LR}
		{0xeafffffe, arm7.Branch},                 // B .
		{0xeb000000, arm7.Branch},                 // BL
		{0xe12fff10, arm7.BranchExchange},         // BX R0
		{0xed910100, arm7.CoprocDataTransfer},     // LDC p1, c0, [R1]
		{0xee000000, arm7.CoprocDataOperation},    // CDP p0
		{0xee110f10, arm7.CoprocRegisterTransfer}, // MRC p15, 0, R0, c1, c0, 0
		{0xef000011, arm7.SoftwareInterrupt},      // SWI #$11

		// undefined instruction space
		{0xe7f000f0, arm7.Undefined},
		// multiply with bit 22 set
		{0xe0400291, arm7.Undefined},
		// signed halfword store
		{0xe1c100f0, arm7.Undefined},
		// MRS with non-zero bits in the should-be-zero field
		{0xe10f0001, arm7.Undefined},
	}

	for _, tc := range tests {
		op := arm7.Decode(tc.opcode)
		test.ExpectEquality(t, op.Class, tc.class, fmt.Sprintf("%08x", tc.opcode))
		test.ExpectEquality(t, op.Thumb, false, fmt.Sprintf("%08x", tc.opcode))
		test.ExpectEquality(t, op.Size(), uint32(4), fmt.Sprintf("%08x", tc.opcode))
	}
}

func TestDecodeThumbClass(t *testing.T) {
	tests := []struct {
		opcode uint16
		class  arm7.Class
	}{
		{0x0088, arm7.ThumbMoveShifted},        // LSL R0, R1, #2
		{0x1888, arm7.ThumbAddSubtract},        // ADD R0, R1, R2
		{0x1e48, arm7.ThumbAddSubtract},        // SUB R0, R1, #1
		{0x2001, arm7.ThumbImmediate},          // MOV R0, #1
		{0x4348, arm7.ThumbALU},                // MUL R0, R1
		{0x4770, arm7.ThumbHiRegister},         // BX LR
		{0x46c0, arm7.ThumbHiRegister},         // MOV R8, R8
		{0x4800, arm7.ThumbPCRelativeLoad},     // LDR R0, [PC, #0]
		{0x5088, arm7.ThumbLoadStoreRegister},  // STR R0, [R1, R2]
		{0x5e88, arm7.ThumbLoadStoreSigned},    // LDSH R0, [R1, R2]
		{0x6848, arm7.ThumbLoadStoreImmediate}, // LDR R0, [R1, #4]
		{0x8848, arm7.ThumbLoadStoreHalfword},  // LDRH R0, [R1, #2]
		{0x9801, arm7.ThumbSPRelative},         // LDR R0, [SP, #4]
		{0xa801, arm7.ThumbLoadAddress},        // ADD R0, SP, #4
		{0xb081, arm7.ThumbAddSP},              // ADD SP, #-4
		{0xb500, arm7.ThumbPushPop},            // PUSH {LR}
		{0xbd01, arm7.ThumbPushPop},            // POP {R0, PC}
		{0xc903, arm7.ThumbMultiple},           // LDMIA R1!, {R0, R1}
		{0xd0fe, arm7.ThumbConditionalBranch},  // BEQ .
		{0xdf01, arm7.ThumbSoftwareInterrupt},  // SWI 1
		{0xe7fe, arm7.ThumbBranch},             // B .
		{0xf000, arm7.ThumbLongBranch},         // BL (first half)
		{0xf800, arm7.ThumbLongBranch},         // BL (second half)

		// hi register ADD with two low registers
		{0x4408, arm7.Undefined},
		// BX with H1 set
		{0x4780, arm7.Undefined},
		// conditional branch with the "always" condition
		{0xde00, arm7.Undefined},
		// BLX suffix
		{0xe800, arm7.Undefined},
		// unused miscellaneous space
		{0xb100, arm7.Undefined},
		{0xb800, arm7.Undefined},
		{0xbe00, arm7.Undefined},
	}

	for _, tc := range tests {
		op := arm7.DecodeThumb(tc.opcode)
		test.ExpectEquality(t, op.Class, tc.class, fmt.Sprintf("%04x", tc.opcode))
		test.ExpectEquality(t, op.Thumb, true, fmt.Sprintf("%04x", tc.opcode))
		test.ExpectEquality(t, op.Size(), uint32(2), fmt.Sprintf("%04x", tc.opcode))
	}
}

func TestDecodeFields(t *testing.T) {
	test.ExpectNoDiff(t, arm7.Decode(0xe0810002), arm7.DecodedOp{
		Class:  arm7.DataProcessing,
		Opcode: 0xe0810002,
		Cond:   0x0e,
		Op:     4,
		Rd:     0,
		Rn:     1,
		Rm:     2,
	})

	test.ExpectNoDiff(t, arm7.Decode(0xe92d4001), arm7.DecodedOp{
		Class:     arm7.BlockTransfer,
		Opcode:    0xe92d4001,
		Cond:      0x0e,
		Pre:       true,
		Writeback: true,
		Rn:        13,
		RegList:   0x4001,
	})

	test.ExpectNoDiff(t, arm7.Decode(0xe328f20f), arm7.DecodedOp{
		Class:     arm7.PSRTransfer,
		Opcode:    0xe328f20f,
		Cond:      0x0e,
		Load:      true,
		Fields:    0x08,
		Immediate: true,
		Imm:       0x0f,
		Rotate:    4,
	})

	// branch offsets are sign extended
	test.ExpectEquality(t, arm7.Decode(0xeafffffe).Offset, int32(-8))
	test.ExpectEquality(t, arm7.DecodeThumb(0xe7fe).Offset, int32(-4))
	test.ExpectEquality(t, arm7.DecodeThumb(0xd0fe).Offset, int32(-4))
	test.ExpectEquality(t, arm7.DecodeThumb(0xf7ff).Offset, int32(-4096))

	// hi register operands
	op := arm7.DecodeThumb(0x4770)
	test.ExpectEquality(t, op.Rm, 14)
	op = arm7.DecodeThumb(0x46c0)
	test.ExpectEquality(t, op.Rd, 8)
	test.ExpectEquality(t, op.Rm, 8)

	// the NV condition is decoded normally
	op = arm7.Decode(0xf0810002)
	test.ExpectEquality(t, op.Class, arm7.DataProcessing)
	test.ExpectEquality(t, op.Cond, uint8(0x0f))
}

func TestDecodeFieldsARM(t *testing.T) {
	tests := []arm7.DecodedOp{
		// MOVS R0, R1, LSR R2
		{Class: arm7.DataProcessing, Opcode: 0xe1b00231, Cond: 0x0e, Op: 13, SetFlags: true,
			Rm: 1, Shift: arm7.LSR, ShiftByRegister: true, Rs: 2},
		// MRS R3, SPSR
		{Class: arm7.PSRTransfer, Opcode: 0xe14f3000, Cond: 0x0e, SPSR: true, Rd: 3},
		// MLAS R1, R2, R3, R4
		{Class: arm7.Multiply, Opcode: 0xe0314392, Cond: 0x0e, Accumulate: true, SetFlags: true,
			Rd: 1, Rn: 4, Rs: 3, Rm: 2},
		// SMLALS R0, R1, R2, R3
		{Class: arm7.MultiplyLong, Opcode: 0xe0f10392, Cond: 0x0e, Signed: true, Accumulate: true,
			SetFlags: true, RdHi: 1, Rd: 0, Rs: 3, Rm: 2},
		// SWPB R0, R1, [R2]
		{Class: arm7.Swap, Opcode: 0xe1420091, Cond: 0x0e, Byte: true, Rn: 2, Rd: 0, Rm: 1},
		// LDRSH R0, [R1, #-$23]!
		{Class: arm7.HalfwordTransfer, Opcode: 0xe17102f3, Cond: 0x0e, Pre: true, Immediate: true,
			Writeback: true, Load: true, Rn: 1, Signed: true, Halfword: true, Imm: 0x23},
		// LDRB R0, [R1, -R2, LSR #3]!
		{Class: arm7.SingleTransfer, Opcode: 0xe77101a2, Cond: 0x0e, Pre: true, Byte: true,
			Writeback: true, Load: true, Rn: 1, Rm: 2, Shift: arm7.LSR, ShiftAmount: 3},
		// LDMIB R2, {R1, R3}^
		{Class: arm7.BlockTransfer, Opcode: 0xe9d2000a, Cond: 0x0e, Pre: true, Up: true,
			UserBank: true, Load: true, Rn: 2, RegList: 0x000a},
		// BL +$40
		{Class: arm7.Branch, Opcode: 0xeb000010, Cond: 0x0e, Link: true, Offset: 0x40},
		// BXNE R3
		{Class: arm7.BranchExchange, Opcode: 0x112fff13, Cond: 0x01, Rm: 3},
		// STCL p2, c3, [R4, #-8]!
		{Class: arm7.CoprocDataTransfer, Opcode: 0xed643202, Cond: 0x0e, Pre: true, Long: true,
			Writeback: true, Rn: 4, Rd: 3, Coproc: 2, Imm: 8},
		// CDP p5, 3, c1, c2, c4, 6
		{Class: arm7.CoprocDataOperation, Opcode: 0xee3215c4, Cond: 0x0e, Op: 3, Rn: 2, Rd: 1,
			Coproc: 5, Info: 6, Rm: 4},
		// MCR p14, 2, R3, c5, c6, 7
		{Class: arm7.CoprocRegisterTransfer, Opcode: 0xee453ef6, Cond: 0x0e, Op: 2, Rn: 5, Rd: 3,
			Coproc: 14, Info: 7, Rm: 6},
		// MRC p15, 0, R0, c1, c0, 0
		{Class: arm7.CoprocRegisterTransfer, Opcode: 0xee110f10, Cond: 0x0e, Load: true, Rn: 1,
			Coproc: 15},
		// SWIEQ #$123456
		{Class: arm7.SoftwareInterrupt, Opcode: 0x0f123456, Cond: 0x00, Comment: 0x123456},
		// undefined instruction space
		{Class: arm7.Undefined, Opcode: 0xe7f000f0, Cond: 0x0e},
	}

	for _, expected := range tests {
		test.ExpectNoDiff(t, arm7.Decode(expected.Opcode), expected)
	}
}

func TestDecodeFieldsThumb(t *testing.T) {
	tests := []arm7.DecodedOp{
		// format 1: LSR R2, R3, #5
		{Class: arm7.ThumbMoveShifted, Opcode: 0x095a, Shift: arm7.LSR, ShiftAmount: 5, Rm: 3,
			Rd: 2, SetFlags: true},
		// format 2: ADD R0, R1, R2
		{Class: arm7.ThumbAddSubtract, Opcode: 0x1888, Op: 4, Rm: 2, Rn: 1, SetFlags: true},
		// format 2: SUB R0, R1, #1
		{Class: arm7.ThumbAddSubtract, Opcode: 0x1e48, Op: 2, Immediate: true, Imm: 1, Rn: 1,
			SetFlags: true},
		// format 3: CMP R3, #$40
		{Class: arm7.ThumbImmediate, Opcode: 0x2b40, Op: 10, Rd: 3, Rn: 3, Imm: 0x40,
			Immediate: true, SetFlags: true},
		// format 4: MUL R0, R1
		{Class: arm7.ThumbALU, Opcode: 0x4348, Op: 13, Rm: 1, SetFlags: true},
		// format 5: ADD R1, R10
		{Class: arm7.ThumbHiRegister, Opcode: 0x4451, Op: 0, Rd: 1, Rn: 1, Rm: 10},
		// format 5: CMP R8, R0
		{Class: arm7.ThumbHiRegister, Opcode: 0x4580, Op: 1, Rd: 8, Rn: 8, SetFlags: true},
		// format 5: BX LR
		{Class: arm7.ThumbHiRegister, Opcode: 0x4770, Op: 3, Rm: 14},
		// format 6: LDR R5, [PC, #$3fc]
		{Class: arm7.ThumbPCRelativeLoad, Opcode: 0x4dff, Rd: 5, Rn: 15, Imm: 0x3fc, Load: true},
		// format 7: LDRB R0, [R1, R2]
		{Class: arm7.ThumbLoadStoreRegister, Opcode: 0x5c88, Load: true, Byte: true, Rm: 2, Rn: 1},
		// format 8: STRH R0, [R1, R2]
		{Class: arm7.ThumbLoadStoreSigned, Opcode: 0x5288, Halfword: true, Rm: 2, Rn: 1},
		// format 8: LDSB R0, [R1, R2]
		{Class: arm7.ThumbLoadStoreSigned, Opcode: 0x5688, Signed: true, Load: true, Rm: 2, Rn: 1},
		// format 8: LDSH R0, [R1, R2]
		{Class: arm7.ThumbLoadStoreSigned, Opcode: 0x5e88, Signed: true, Halfword: true, Load: true,
			Rm: 2, Rn: 1},
		// format 9: STRB R3, [R4, #7]
		{Class: arm7.ThumbLoadStoreImmediate, Opcode: 0x71e3, Byte: true, Imm: 7, Rn: 4, Rd: 3},
		// format 9: LDR R0, [R1, #4]
		{Class: arm7.ThumbLoadStoreImmediate, Opcode: 0x6848, Load: true, Imm: 4, Rn: 1},
		// format 10: STRH R1, [R2, #6]
		{Class: arm7.ThumbLoadStoreHalfword, Opcode: 0x80d1, Halfword: true, Imm: 6, Rn: 2, Rd: 1},
		// format 11: STR R2, [SP, #8]
		{Class: arm7.ThumbSPRelative, Opcode: 0x9202, Rd: 2, Rn: 13, Imm: 8},
		// format 12: ADD R0, PC, #4
		{Class: arm7.ThumbLoadAddress, Opcode: 0xa001, Rn: 15, Imm: 4},
		// format 12: ADD R0, SP, #4
		{Class: arm7.ThumbLoadAddress, Opcode: 0xa801, Rn: 13, Imm: 4},
		// format 13: ADD SP, #-4
		{Class: arm7.ThumbAddSP, Opcode: 0xb081, Imm: 4, Offset: -4},
		// format 13: ADD SP, #8
		{Class: arm7.ThumbAddSP, Opcode: 0xb002, Imm: 8, Offset: 8},
		// format 14: POP {R0, PC}
		{Class: arm7.ThumbPushPop, Opcode: 0xbd01, Load: true, Link: true, RegList: 0x01, Rn: 13},
		// format 15: LDMIA R1!, {R0, R1}
		{Class: arm7.ThumbMultiple, Opcode: 0xc903, Load: true, Rn: 1, RegList: 0x03,
			Writeback: true},
		// format 16: BEQ .
		{Class: arm7.ThumbConditionalBranch, Opcode: 0xd0fe, Offset: -4},
		// format 17: SWI 1
		{Class: arm7.ThumbSoftwareInterrupt, Opcode: 0xdf01, Comment: 1},
		// format 18: B .
		{Class: arm7.ThumbBranch, Opcode: 0xe7fe, Offset: -4},
		// format 19: BL first and second halves
		{Class: arm7.ThumbLongBranch, Opcode: 0xf7ff, Offset: -4096},
		{Class: arm7.ThumbLongBranch, Opcode: 0xf801, Link: true, Offset: 2},
		// conditional branch with the "always" condition
		{Class: arm7.Undefined, Opcode: 0xde00},
		// unused miscellaneous space
		{Class: arm7.Undefined, Opcode: 0xb100},
	}

	for _, expected := range tests {
		expected.Thumb = true
		if expected.Class != arm7.ThumbConditionalBranch {
			expected.Cond = 0x0e
		}
		test.ExpectNoDiff(t, arm7.DecodeThumb(uint16(expected.Opcode)), expected)
	}
}

func TestDecodeIsPure(t *testing.T) {
	for _, opcode := range []uint32{0xe0810002, 0xe92d4001, 0xee110f10, 0xe7f000f0} {
		test.ExpectEquality(t, arm7.Decode(opcode), arm7.Decode(opcode))
	}
	for opcode := 0; opcode <= 0xffff; opcode += 0x0101 {
		test.ExpectEquality(t, arm7.DecodeThumb(uint16(opcode)), arm7.DecodeThumb(uint16(opcode)))
		test.ExpectEquality(t, arm7.DecodeMode(uint32(opcode), true), arm7.DecodeThumb(uint16(opcode)))
	}
}

func TestDisasm(t *testing.T) {
	tests := []struct {
		opcode   uint32
		thumb    bool
		pc       uint32
		mnemonic string
		operands string
	}{
		{0xe0810002, false, 0, "ADD", "R0, R1, R2"},
		{0xe0910002, false, 0, "ADDS", "R0, R1, R2"},
		{0xe3a000ff, false, 0, "MOV", "R0, #$ff"},
		{0x01a00001, false, 0, "MOVEQ", "R0, R1"},
		{0xe1a00101, false, 0, "MOV", "R0, R1, LSL #2"},
		{0xe1a00231, false, 0, "MOV", "R0, R1, LSR R2"},
		{0xe1500001, false, 0, "CMP", "R0, R1"},
		{0xe10f0000, false, 0, "MRS", "R0, CPSR"},
		{0xe328f20f, false, 0, "MSR", "CPSR_f, #$f0000000"},
		{0xe0000291, false, 0, "MUL", "R0, R1, R2"},
		{0xe0810392, false, 0, "UMULL", "R0, R1, R2, R3"},
		{0xe1020091, false, 0, "SWP", "R0, R1, [R2]"},
		{0xe5910004, false, 0, "LDR", "R0, [R1, #$4]"},
		{0xe4910004, false, 0, "LDR", "R0, [R1], #$4"},
		{0xe92d4001, false, 0, "STMDB", "SP!, {R0, LR}"},
		{0xe8bd8001, false, 0, "LDMIA", "SP!, {R0, PC}"},
		{0xeafffffe, false, 0x100, "B", "$00000100"},
		{0xe12fff1e, false, 0, "BX", "LR"},
		{0xef000011, false, 0, "SWI", "$000011"},
		{0xe7f000f0, false, 0, "UNDEFINED", "$e7f000f0"},
		{0x0088, true, 0, "LSL", "R0, R1, #2"},
		{0x2001, true, 0, "MOV", "R0, #$01"},
		{0x4770, true, 0, "BX", "LR"},
		{0xb500, true, 0, "PUSH", "{LR}"},
		{0xbd01, true, 0, "POP", "{R0, PC}"},
		{0xd0fe, true, 0x200, "BEQ", "$00000200"},
		{0xe7fe, true, 0x200, "B", "$00000200"},
	}

	for _, tc := range tests {
		op := arm7.DecodeMode(tc.opcode, tc.thumb)
		mnemonic, operands := op.Disasm(tc.pc)
		test.ExpectEquality(t, mnemonic, tc.mnemonic, fmt.Sprintf("%08x", tc.opcode))
		test.ExpectEquality(t, operands, tc.operands, fmt.Sprintf("%08x", tc.opcode))
	}
}
