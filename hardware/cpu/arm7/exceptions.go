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

// exception vectors. "3.9 Exceptions" in "ARM7TDMI-S Technical Reference
// Manual r4p3"
const (
	vectorReset     = 0x00000000
	vectorUndefined = 0x00000004
	vectorSWI       = 0x00000008
	vectorIRQ       = 0x00000018
	vectorFIQ       = 0x0000001c
)

// take at most one pending exception. called at every instruction boundary,
// at which point the PC is the address of the next instruction
//
// exceptions raised by the previous instruction have priority over the
// interrupt lines. FIQ has priority over IRQ
func (arm *ARM) exceptions() {
	s := arm.state

	switch {
	case s.pendingReset:
		arm.reset()
	case s.pendingUndefined:
		s.pendingUndefined = false
		arm.exception(ModeUND, vectorUndefined, 0)
	case s.pendingSWI:
		s.pendingSWI = false
		arm.exception(ModeSVC, vectorSWI, 0)
	case s.fiq && !s.registers.status.fiqDisable:
		arm.exception(ModeFIQ, vectorFIQ, 4)
	case s.irq && !s.registers.status.irqDisable:
		arm.exception(ModeIRQ, vectorIRQ, 4)
	}
}

// exception entry sequence:
//
//	R14_<exception_mode> = return link
//	SPSR_<exception_mode> = CPSR
//	CPSR[4:0] = exception mode number
//	CPSR[5] = 0 /* Execute in ARM state */
//	if <exception_mode> == Reset or FIQ then
//		CPSR[6] = 1 /* Disable fast interrupts */
//	/* else CPSR[6] is unchanged */
//	CPSR[7] = 1 /* Disable normal interrupts */
//	PC = exception vector address
//
// the return link is the address of the next instruction plus the lr
// argument. the exception handler returns with MOVS PC, R14 for SWI and
// undefined instructions and with SUBS PC, R14, #4 for IRQ and FIQ
func (arm *ARM) exception(mode Mode, vector uint32, lr uint32) {
	regs := &arm.state.registers

	cpsr := regs.CPSR()
	link := regs.r[rPC] + lr

	regs.SwitchMode(mode)
	regs.SetSPSR(cpsr)
	regs.r[rLR] = link
	regs.status.thumb = false
	regs.status.irqDisable = true
	if mode == ModeFIQ {
		regs.status.fiqDisable = true
	}
	regs.r[rPC] = vector
}

// copy the SPSR of the current mode to the CPSR. used by data processing
// instructions with the S bit set and R15 as the destination and by LDM with
// the S bit set and R15 in the register list
func (arm *ARM) restoreCPSR() {
	regs := &arm.state.registers
	if b, _ := regs.status.mode.bank(); b == bankUSR {
		arm.logf("no SPSR to restore in %s mode", regs.status.mode)
		return
	}
	arm.writeCPSR(regs.SPSR())
}

// write a value to the CPSR on behalf of the emulated program. unlike
// Registers.SetCPSR() an invalid mode is not a programming error and is
// logged and ignored. the rest of the value is still written
func (arm *ARM) writeCPSR(value uint32) {
	regs := &arm.state.registers
	if !Mode(value & psrMode).Valid() {
		arm.logf("invalid mode in CPSR write (%05b)", value&psrMode)
		value = (value &^ psrMode) | uint32(regs.status.mode)
	}
	regs.SetCPSR(value)
}
