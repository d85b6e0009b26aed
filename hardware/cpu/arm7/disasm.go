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
	"strings"
)

func regName(r int) string {
	switch r {
	case rSP:
		return "SP"
	case rLR:
		return "LR"
	case rPC:
		return "PC"
	}
	return fmt.Sprintf("R%d", r)
}

// list of registers in the form used by LDM, STM, PUSH and POP
func regListString(list uint16, extra string) string {
	s := strings.Builder{}
	s.WriteRune('{')
	for i := 0; i < NumRegisters; i++ {
		if list&(0x01<<i) == 0x00 {
			continue // for loop
		}
		if s.Len() > 1 {
			s.WriteString(", ")
		}
		s.WriteString(regName(i))
	}
	if extra != "" {
		if s.Len() > 1 {
			s.WriteString(", ")
		}
		s.WriteString(extra)
	}
	s.WriteRune('}')
	return s.String()
}

func conditionSuffix(cond uint8) string {
	_, s := status{}.condition(cond)
	return s
}

// the second operand of a data processing instruction
func (op DecodedOp) operand2() string {
	if op.Immediate {
		v, _ := rotateImmediate(op.Imm, op.Rotate, false)
		return fmt.Sprintf("#$%x", v)
	}
	if op.ShiftByRegister {
		return fmt.Sprintf("%s, %s %s", regName(op.Rm), op.Shift, regName(op.Rs))
	}
	return regName(op.Rm) + shiftString(op.Shift, op.ShiftAmount)
}

// the shift applied to a register with an immediate shift amount. the empty
// string if the shift has no effect
func shiftString(typ ShiftType, amount uint8) string {
	switch {
	case typ == LSL && amount == 0:
		return ""
	case typ == ROR && amount == 0:
		return ", RRX"
	case amount == 0:
		return fmt.Sprintf(", %s #32", typ)
	}
	return fmt.Sprintf(", %s #%d", typ, amount)
}

// addressing mode of single, halfword and coprocessor transfers
func (op DecodedOp) address(offset string) string {
	sign := ""
	if !op.Up {
		sign = "-"
	}
	if op.Pre {
		wb := ""
		if op.Writeback {
			wb = "!"
		}
		return fmt.Sprintf("[%s, %s%s]%s", regName(op.Rn), sign, offset, wb)
	}
	return fmt.Sprintf("[%s], %s%s", regName(op.Rn), sign, offset)
}

// Disasm returns the mnemonic and operands of the instruction. The pc argument
// is the address of the instruction and is used to show the target address of
// branches and PC relative loads.
func (op DecodedOp) Disasm(pc uint32) (string, string) {
	cond := conditionSuffix(op.Cond)

	switch op.Class {
	case DataProcessing:
		mnemonic := aluMnemonics[op.Op] + cond
		switch op.Op {
		case aluTST, aluTEQ, aluCMP, aluCMN:
			return mnemonic, fmt.Sprintf("%s, %s", regName(op.Rn), op.operand2())
		case aluMOV, aluMVN:
			if op.SetFlags {
				mnemonic += "S"
			}
			return mnemonic, fmt.Sprintf("%s, %s", regName(op.Rd), op.operand2())
		}
		if op.SetFlags {
			mnemonic += "S"
		}
		return mnemonic, fmt.Sprintf("%s, %s, %s", regName(op.Rd), regName(op.Rn), op.operand2())

	case PSRTransfer:
		psr := "CPSR"
		if op.SPSR {
			psr = "SPSR"
		}
		if !op.Load {
			return "MRS" + cond, fmt.Sprintf("%s, %s", regName(op.Rd), psr)
		}
		fields := "_"
		if op.Fields&0x08 == 0x08 {
			fields += "f"
		}
		if op.Fields&0x01 == 0x01 {
			fields += "c"
		}
		if op.Immediate {
			v, _ := rotateImmediate(op.Imm, op.Rotate, false)
			return "MSR" + cond, fmt.Sprintf("%s%s, #$%x", psr, fields, v)
		}
		return "MSR" + cond, fmt.Sprintf("%s%s, %s", psr, fields, regName(op.Rm))

	case Multiply:
		s := ""
		if op.SetFlags {
			s = "S"
		}
		if op.Accumulate {
			return "MLA" + cond + s, fmt.Sprintf("%s, %s, %s, %s", regName(op.Rd), regName(op.Rm), regName(op.Rs), regName(op.Rn))
		}
		return "MUL" + cond + s, fmt.Sprintf("%s, %s, %s", regName(op.Rd), regName(op.Rm), regName(op.Rs))

	case MultiplyLong:
		mnemonic := "U"
		if op.Signed {
			mnemonic = "S"
		}
		if op.Accumulate {
			mnemonic += "MLAL"
		} else {
			mnemonic += "MULL"
		}
		mnemonic += cond
		if op.SetFlags {
			mnemonic += "S"
		}
		return mnemonic, fmt.Sprintf("%s, %s, %s, %s", regName(op.Rd), regName(op.RdHi), regName(op.Rm), regName(op.Rs))

	case Swap:
		mnemonic := "SWP" + cond
		if op.Byte {
			mnemonic += "B"
		}
		return mnemonic, fmt.Sprintf("%s, %s, [%s]", regName(op.Rd), regName(op.Rm), regName(op.Rn))

	case SingleTransfer:
		mnemonic := "STR"
		if op.Load {
			mnemonic = "LDR"
		}
		mnemonic += cond
		if op.Byte {
			mnemonic += "B"
		}
		if !op.Pre && op.Writeback {
			mnemonic += "T"
		}
		var offset string
		if op.Immediate {
			offset = fmt.Sprintf("#$%x", op.Imm)
		} else {
			offset = regName(op.Rm) + shiftString(op.Shift, op.ShiftAmount)
		}
		return mnemonic, fmt.Sprintf("%s, %s", regName(op.Rd), op.address(offset))

	case HalfwordTransfer:
		mnemonic := "STR"
		if op.Load {
			mnemonic = "LDR"
		}
		mnemonic += cond
		if op.Signed {
			mnemonic += "S"
		}
		if op.Halfword {
			mnemonic += "H"
		} else {
			mnemonic += "B"
		}
		var offset string
		if op.Immediate {
			offset = fmt.Sprintf("#$%x", op.Imm)
		} else {
			offset = regName(op.Rm)
		}
		return mnemonic, fmt.Sprintf("%s, %s", regName(op.Rd), op.address(offset))

	case BlockTransfer:
		mnemonic := "STM"
		if op.Load {
			mnemonic = "LDM"
		}
		mnemonic += cond
		switch {
		case op.Up && !op.Pre:
			mnemonic += "IA"
		case op.Up && op.Pre:
			mnemonic += "IB"
		case !op.Up && !op.Pre:
			mnemonic += "DA"
		default:
			mnemonic += "DB"
		}
		wb := ""
		if op.Writeback {
			wb = "!"
		}
		s := ""
		if op.UserBank {
			s = "^"
		}
		return mnemonic, fmt.Sprintf("%s%s, %s%s", regName(op.Rn), wb, regListString(op.RegList, ""), s)

	case Branch:
		mnemonic := "B"
		if op.Link {
			mnemonic = "BL"
		}
		return mnemonic + cond, fmt.Sprintf("$%08x", pc+pipelineARM+uint32(op.Offset))

	case BranchExchange:
		return "BX" + cond, regName(op.Rm)

	case CoprocDataTransfer:
		mnemonic := "STC"
		if op.Load {
			mnemonic = "LDC"
		}
		mnemonic += cond
		if op.Long {
			mnemonic += "L"
		}
		return mnemonic, fmt.Sprintf("p%d, c%d, %s", op.Coproc, op.Rd, op.address(fmt.Sprintf("#$%x", op.Imm)))

	case CoprocDataOperation:
		return "CDP" + cond, fmt.Sprintf("p%d, %d, c%d, c%d, c%d, %d", op.Coproc, op.Op, op.Rd, op.Rn, op.Rm, op.Info)

	case CoprocRegisterTransfer:
		mnemonic := "MCR"
		if op.Load {
			mnemonic = "MRC"
		}
		return mnemonic + cond, fmt.Sprintf("p%d, %d, %s, c%d, c%d, %d", op.Coproc, op.Op, regName(op.Rd), op.Rn, op.Rm, op.Info)

	case SoftwareInterrupt:
		return "SWI" + cond, fmt.Sprintf("$%06x", op.Comment)

	case Undefined:
		if op.Thumb {
			return "UNDEFINED", fmt.Sprintf("$%04x", op.Opcode)
		}
		return "UNDEFINED", fmt.Sprintf("$%08x", op.Opcode)
	}

	return op.disasmThumb(pc)
}

func (op DecodedOp) disasmThumb(pc uint32) (string, string) {
	switch op.Class {
	case ThumbMoveShifted:
		return op.Shift.String(), fmt.Sprintf("%s, %s, #%d", regName(op.Rd), regName(op.Rm), op.ShiftAmount)

	case ThumbAddSubtract:
		if op.Immediate {
			return aluMnemonics[op.Op], fmt.Sprintf("%s, %s, #%d", regName(op.Rd), regName(op.Rn), op.Imm)
		}
		return aluMnemonics[op.Op], fmt.Sprintf("%s, %s, %s", regName(op.Rd), regName(op.Rn), regName(op.Rm))

	case ThumbImmediate:
		return aluMnemonics[op.Op], fmt.Sprintf("%s, #$%02x", regName(op.Rd), op.Imm)

	case ThumbALU:
		return thumbALUMnemonics[op.Op], fmt.Sprintf("%s, %s", regName(op.Rd), regName(op.Rm))

	case ThumbHiRegister:
		switch op.Op {
		case 0b00:
			return "ADD", fmt.Sprintf("%s, %s", regName(op.Rd), regName(op.Rm))
		case 0b01:
			return "CMP", fmt.Sprintf("%s, %s", regName(op.Rd), regName(op.Rm))
		case 0b10:
			return "MOV", fmt.Sprintf("%s, %s", regName(op.Rd), regName(op.Rm))
		}
		return "BX", regName(op.Rm)

	case ThumbPCRelativeLoad:
		return "LDR", fmt.Sprintf("%s, [PC, #$%02x] ($%08x)", regName(op.Rd), op.Imm, ((pc+pipelineThumb)&^0x03)+op.Imm)

	case ThumbLoadStoreRegister, ThumbLoadStoreImmediate:
		mnemonic := "STR"
		if op.Load {
			mnemonic = "LDR"
		}
		if op.Byte {
			mnemonic += "B"
		}
		if op.Class == ThumbLoadStoreRegister {
			return mnemonic, fmt.Sprintf("%s, [%s, %s]", regName(op.Rd), regName(op.Rn), regName(op.Rm))
		}
		return mnemonic, fmt.Sprintf("%s, [%s, #$%02x]", regName(op.Rd), regName(op.Rn), op.Imm)

	case ThumbLoadStoreSigned:
		var mnemonic string
		switch {
		case !op.Load:
			mnemonic = "STRH"
		case op.Signed && op.Halfword:
			mnemonic = "LDSH"
		case op.Signed:
			mnemonic = "LDSB"
		default:
			mnemonic = "LDRH"
		}
		return mnemonic, fmt.Sprintf("%s, [%s, %s]", regName(op.Rd), regName(op.Rn), regName(op.Rm))

	case ThumbLoadStoreHalfword:
		mnemonic := "STRH"
		if op.Load {
			mnemonic = "LDRH"
		}
		return mnemonic, fmt.Sprintf("%s, [%s, #$%02x]", regName(op.Rd), regName(op.Rn), op.Imm)

	case ThumbSPRelative:
		mnemonic := "STR"
		if op.Load {
			mnemonic = "LDR"
		}
		return mnemonic, fmt.Sprintf("%s, [SP, #$%02x]", regName(op.Rd), op.Imm)

	case ThumbLoadAddress:
		return "ADD", fmt.Sprintf("%s, %s, #$%02x", regName(op.Rd), regName(op.Rn), op.Imm)

	case ThumbAddSP:
		if op.Offset < 0 {
			return "ADD", fmt.Sprintf("SP, #-$%02x", -op.Offset)
		}
		return "ADD", fmt.Sprintf("SP, #$%02x", op.Offset)

	case ThumbPushPop:
		if op.Load {
			extra := ""
			if op.Link {
				extra = "PC"
			}
			return "POP", regListString(op.RegList, extra)
		}
		extra := ""
		if op.Link {
			extra = "LR"
		}
		return "PUSH", regListString(op.RegList, extra)

	case ThumbMultiple:
		mnemonic := "STMIA"
		if op.Load {
			mnemonic = "LDMIA"
		}
		return mnemonic, fmt.Sprintf("%s!, %s", regName(op.Rn), regListString(op.RegList, ""))

	case ThumbConditionalBranch:
		return "B" + conditionSuffix(op.Cond), fmt.Sprintf("$%08x", pc+pipelineThumb+uint32(op.Offset))

	case ThumbSoftwareInterrupt:
		return "SWI", fmt.Sprintf("$%02x", op.Comment)

	case ThumbBranch:
		return "B", fmt.Sprintf("$%08x", pc+pipelineThumb+uint32(op.Offset))

	case ThumbLongBranch:
		if op.Link {
			return "BL", fmt.Sprintf("LR + $%04x", op.Offset)
		}
		return "BL", fmt.Sprintf("PC + $%08x (hi)", uint32(op.Offset))
	}

	return "UNKNOWN", ""
}
