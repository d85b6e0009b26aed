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

// Class is the instruction class of a DecodedOp. There is one class for each
// of the ARM instruction groups and one for each of the Thumb formats.
type Class int

// List of valid Class values.
const (
	Undefined Class = iota

	// ARM instruction classes
	DataProcessing
	PSRTransfer
	Multiply
	MultiplyLong
	Swap
	HalfwordTransfer
	SingleTransfer
	BlockTransfer
	Branch
	BranchExchange
	CoprocDataTransfer
	CoprocDataOperation
	CoprocRegisterTransfer
	SoftwareInterrupt

	// Thumb formats
	ThumbMoveShifted
	ThumbAddSubtract
	ThumbImmediate
	ThumbALU
	ThumbHiRegister
	ThumbPCRelativeLoad
	ThumbLoadStoreRegister
	ThumbLoadStoreSigned
	ThumbLoadStoreImmediate
	ThumbLoadStoreHalfword
	ThumbSPRelative
	ThumbLoadAddress
	ThumbAddSP
	ThumbPushPop
	ThumbMultiple
	ThumbConditionalBranch
	ThumbSoftwareInterrupt
	ThumbBranch
	ThumbLongBranch
)

var classNames = [...]string{
	"undefined",
	"data processing",
	"PSR transfer",
	"multiply",
	"multiply long",
	"swap",
	"halfword transfer",
	"single transfer",
	"block transfer",
	"branch",
	"branch exchange",
	"coprocessor data transfer",
	"coprocessor data operation",
	"coprocessor register transfer",
	"software interrupt",
	"move shifted register",
	"add/subtract",
	"move/compare/add/subtract immediate",
	"ALU operation",
	"hi register operation",
	"PC relative load",
	"load/store with register offset",
	"load/store sign-extended byte/halfword",
	"load/store with immediate offset",
	"load/store halfword",
	"SP relative load/store",
	"load address",
	"add offset to SP",
	"push/pop registers",
	"multiple load/store",
	"conditional branch",
	"software interrupt",
	"unconditional branch",
	"long branch with link",
}

func (c Class) String() string {
	if c < 0 || int(c) >= len(classNames) {
		return "unknown"
	}
	return classNames[c]
}

// ShiftType is the type of shift applied by the barrel shifter.
type ShiftType uint8

// List of valid ShiftType values.
const (
	LSL ShiftType = iota
	LSR
	ASR
	ROR
)

func (s ShiftType) String() string {
	switch s {
	case LSL:
		return "LSL"
	case LSR:
		return "LSR"
	case ASR:
		return "ASR"
	}
	return "ROR"
}

// data processing opcodes. the Thumb formats that are equivalent to a data
// processing instruction use the same values
const (
	aluAND = iota
	aluEOR
	aluSUB
	aluRSB
	aluADD
	aluADC
	aluSBC
	aluRSC
	aluTST
	aluTEQ
	aluCMP
	aluCMN
	aluORR
	aluMOV
	aluBIC
	aluMVN
)

var aluMnemonics = [16]string{
	"AND", "EOR", "SUB", "RSB", "ADD", "ADC", "SBC", "RSC",
	"TST", "TEQ", "CMP", "CMN", "ORR", "MOV", "BIC", "MVN",
}

// opcodes of the Thumb ALU format
const (
	thumbAND = iota
	thumbEOR
	thumbLSL
	thumbLSR
	thumbASR
	thumbADC
	thumbSBC
	thumbROR
	thumbTST
	thumbNEG
	thumbCMP
	thumbCMN
	thumbORR
	thumbMUL
	thumbBIC
	thumbMVN
)

var thumbALUMnemonics = [16]string{
	"AND", "EOR", "LSL", "LSR", "ASR", "ADC", "SBC", "ROR",
	"TST", "NEG", "CMP", "CMN", "ORR", "MUL", "BIC", "MVN",
}

// DecodedOp is the result of decoding a single instruction. Which fields are
// meaningful depends on the Class.
//
// DecodedOp is comparable. Two decodes of the same opcode always produce equal
// values.
type DecodedOp struct {
	Class Class

	// the instruction was decoded as a Thumb instruction
	Thumb bool

	// the opcode as fetched. Thumb opcodes use the lower 16 bits
	Opcode uint32

	// condition field. Thumb instructions other than the conditional branch
	// have the "always" condition
	Cond uint8

	// data processing opcode (aluAND etc.) for DataProcessing and the Thumb
	// formats that map onto data processing. Thumb ALU opcode for ThumbALU.
	// coprocessor opcode for the coprocessor classes. the operation for
	// ThumbHiRegister (0 = ADD, 1 = CMP, 2 = MOV, 3 = BX)
	Op uint8

	// register indexes. high registers in Thumb formats are stored with the
	// high bit already applied (ie. in the range 8 to 15)
	Rd   int
	Rn   int
	Rs   int
	Rm   int
	RdHi int

	// immediate value. for the ARM data processing and MSR instructions this
	// is the unrotated 8 bit value with Rotate holding the rotation
	Imm    uint32
	Rotate uint8

	// operand 2 is an immediate value rather than a register
	Immediate bool

	// register shift. the shift amount comes from Rs if ShiftByRegister is
	// true
	Shift           ShiftType
	ShiftAmount     uint8
	ShiftByRegister bool

	// S bit of data processing and multiply instructions
	SetFlags bool

	// transfer flags
	Pre       bool
	Up        bool
	Writeback bool
	Load      bool
	Byte      bool
	Signed    bool
	Halfword  bool

	// accumulate form of the multiply instructions
	Accumulate bool

	// S bit of LDM and STM
	UserBank bool

	// PSR transfer uses SPSR instead of CPSR
	SPSR bool

	// field mask of MSR instruction (bit 0 control, bit 3 flags)
	Fields uint8

	// block transfer register list. for ThumbPushPop the lower eight bits
	// with the PC/LR bit in the Link field
	RegList uint16

	// signed branch offset in bytes. also the signed SP adjustment for
	// ThumbAddSP
	Offset int32

	// branch with link. for ThumbPushPop the R bit (push LR or pop PC). for
	// ThumbLongBranch the second half of the instruction pair
	Link bool

	// coprocessor number, coprocessor information field and the N bit of
	// coprocessor data transfers
	Coproc uint8
	Info   uint8
	Long   bool

	// comment field of the software interrupt instruction
	Comment uint32
}

// Size returns the number of bytes occupied by the instruction.
func (op DecodedOp) Size() uint32 {
	if op.Thumb {
		return 2
	}
	return 4
}
