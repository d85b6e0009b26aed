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
	"github.com/jetsetilly/arm7core/curated"
	"github.com/jetsetilly/arm7core/hardware/bus"
)

// Coprocessor is implemented by devices that attach to the coprocessor
// interface of the ARM7TDMI. A coprocessor instruction for a coprocessor
// number that has nothing attached is an undefined instruction. A coprocessor
// can also refuse an instruction by returning false, in which case the
// instruction is again treated as undefined.
type Coprocessor interface {
	// the coprocessor number in the range 0 to 15
	Number() int

	// CDP. perform an internal operation
	Operation(opcode uint8, crd int, crn int, crm int, info uint8) bool

	// LDC and STC. transfer one or more words between memory and the
	// coprocessor register crd. the first address is addr. returns the
	// number of words transferred
	DataTransfer(load bool, long bool, crd int, mem bus.Memory, addr uint32) (int, bool)

	// MRC and MCR. when load is true the value of the coprocessor register is
	// returned (MRC). otherwise value is written to the coprocessor (MCR)
	RegisterTransfer(load bool, opcode uint8, crn int, crm int, info uint8, value uint32) (uint32, bool)
}

// CoprocessorError is returned by AttachCoprocessor() when the coprocessor
// cannot be attached.
const CoprocessorError = "coprocessor: %s"

// AttachCoprocessor adds a coprocessor to the ARM. A coprocessor with the
// same number must not already be attached.
func (arm *ARM) AttachCoprocessor(cp Coprocessor) error {
	n := cp.Number()
	if n < 0 || n >= len(arm.coprocessors) {
		return curated.Errorf(CoprocessorError, "invalid number")
	}
	if arm.coprocessors[n] != nil {
		return curated.Errorf(CoprocessorError, "number already in use")
	}
	arm.coprocessors[n] = cp
	return nil
}

// DetachCoprocessor removes the coprocessor with the specified number. Does
// nothing if there is no coprocessor with that number.
func (arm *ARM) DetachCoprocessor(n int) {
	if n < 0 || n >= len(arm.coprocessors) {
		return
	}
	arm.coprocessors[n] = nil
}

// execute one of the three coprocessor classes. returns false if the
// instruction was not accepted by a coprocessor
func (arm *ARM) executeCoprocessor(op DecodedOp) bool {
	cp := arm.coprocessors[op.Coproc]
	if cp == nil {
		return false
	}

	regs := &arm.state.registers

	switch op.Class {
	case CoprocDataOperation:
		return cp.Operation(op.Op, op.Rd, op.Rn, op.Rm, op.Info)

	case CoprocRegisterTransfer:
		if op.Load {
			v, ok := cp.RegisterTransfer(true, op.Op, op.Rn, op.Rm, op.Info, 0)
			if !ok {
				return false
			}

			// MRC to R15 sets the condition flags from the top four bits
			if op.Rd == rPC {
				regs.status.negative = v&psrNegative == psrNegative
				regs.status.zero = v&psrZero == psrZero
				regs.status.carry = v&psrCarry == psrCarry
				regs.status.overflow = v&psrOverflow == psrOverflow
			} else {
				regs.r[op.Rd] = v
			}
			return true
		}
		_, ok := cp.RegisterTransfer(false, op.Op, op.Rn, op.Rm, op.Info, arm.readRegister(op.Rd, pipelineSTR))
		return ok

	case CoprocDataTransfer:
		base := arm.readRegister(op.Rn, pipelineARM)
		target := base - op.Imm
		if op.Up {
			target = base + op.Imm
		}
		addr := base
		if op.Pre {
			addr = target
		}

		if _, ok := cp.DataTransfer(op.Load, op.Long, op.Rd, arm.mem, addr); !ok {
			return false
		}

		if op.Writeback || !op.Pre {
			arm.writeRegister(op.Rn, target)
		}
		return true
	}

	return false
}
