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

	"github.com/jetsetilly/arm7core/logger"
)

// register names.
const (
	rSP = 13 + iota // stack pointer
	rLR             // link register
	rPC             // program counter
	NumRegisters
)

// Mode is the processor mode as stored in the lower five bits of the CPSR.
type Mode uint8

// List of valid Mode values.
const (
	ModeUSR Mode = 0b10000
	ModeFIQ Mode = 0b10001
	ModeIRQ Mode = 0b10010
	ModeSVC Mode = 0b10011
	ModeABT Mode = 0b10111
	ModeUND Mode = 0b11011
	ModeSYS Mode = 0b11111
)

func (m Mode) String() string {
	switch m {
	case ModeUSR:
		return "USR"
	case ModeFIQ:
		return "FIQ"
	case ModeIRQ:
		return "IRQ"
	case ModeSVC:
		return "SVC"
	case ModeABT:
		return "ABT"
	case ModeUND:
		return "UND"
	case ModeSYS:
		return "SYS"
	}
	return fmt.Sprintf("%05b", uint8(m))
}

// Valid returns true if the mode is one of the seven ARM7TDMI modes.
func (m Mode) Valid() bool {
	_, ok := m.bank()
	return ok
}

// each bank is a set of physical registers that back R13 and R14 (and R8 to
// R12 for FIQ). USR and SYS share the same bank
type bank int

const (
	bankUSR bank = iota
	bankFIQ
	bankIRQ
	bankSVC
	bankABT
	bankUND
	numBanks
)

func (m Mode) bank() (bank, bool) {
	switch m {
	case ModeUSR, ModeSYS:
		return bankUSR, true
	case ModeFIQ:
		return bankFIQ, true
	case ModeIRQ:
		return bankIRQ, true
	case ModeSVC:
		return bankSVC, true
	case ModeABT:
		return bankABT, true
	case ModeUND:
		return bankUND, true
	}
	return bankUSR, false
}

// Registers is the register file of the ARM7TDMI. It contains the sixteen
// visible registers, the CPSR and the banked registers of every mode.
//
// The zero value is not usable. Call Reset() before use.
type Registers struct {
	// the visible registers. the banked registers of the current mode are
	// always stored here and are copied to the bank storage below when the
	// mode changes
	r [NumRegisters]uint32

	status status

	// storage for R8 to R12 when they are not visible. one copy for FIQ mode
	// and one copy for every other mode
	usrHigh [5]uint32
	fiqHigh [5]uint32

	// storage for R13 and R14 of every bank when they are not visible
	sp [numBanks]uint32
	lr [numBanks]uint32

	// saved program status registers. the entry for bankUSR is never used
	spsr [numBanks]uint32
}

// Reset registers to the values they have after the ARM7TDMI reset sequence:
// all registers zero, SVC mode, IRQ and FIQ disabled, ARM state.
func (r *Registers) Reset() {
	*r = Registers{}
	r.status.mode = ModeSVC
	r.status.irqDisable = true
	r.status.fiqDisable = true
}

func panicOnRegister(reg int) {
	if reg < 0 || reg >= NumRegisters {
		panic(fmt.Sprintf("arm7: register index out of range (%d)", reg))
	}
}

// Get returns the value of a visible register. The value of R15 is the value
// as stored and is not adjusted for the pipeline.
func (r *Registers) Get(reg int) uint32 {
	panicOnRegister(reg)
	return r.r[reg]
}

// Set the value of a visible register. Setting R15 stores the value as it is
// and does not apply any pipeline offset.
func (r *Registers) Set(reg int, value uint32) {
	panicOnRegister(reg)
	r.r[reg] = value
}

// GetUser returns the value of a register in the USR bank, regardless of the
// current mode.
func (r *Registers) GetUser(reg int) uint32 {
	panicOnRegister(reg)

	b, _ := r.status.mode.bank()
	switch {
	case reg < 8 || reg == rPC || b == bankUSR:
		return r.r[reg]
	case reg < rSP:
		if b == bankFIQ {
			return r.usrHigh[reg-8]
		}
		return r.r[reg]
	case reg == rSP:
		return r.sp[bankUSR]
	}
	return r.lr[bankUSR]
}

// SetUser sets the value of a register in the USR bank, regardless of the
// current mode.
func (r *Registers) SetUser(reg int, value uint32) {
	panicOnRegister(reg)

	b, _ := r.status.mode.bank()
	switch {
	case reg < 8 || reg == rPC || b == bankUSR:
		r.r[reg] = value
	case reg < rSP:
		if b == bankFIQ {
			r.usrHigh[reg-8] = value
		} else {
			r.r[reg] = value
		}
	case reg == rSP:
		r.sp[bankUSR] = value
	default:
		r.lr[bankUSR] = value
	}
}

// Mode returns the current processor mode.
func (r *Registers) Mode() Mode {
	return r.status.mode
}

// Thumb returns true if the processor is in the Thumb state.
func (r *Registers) Thumb() bool {
	return r.status.thumb
}

// SwitchMode changes the processor mode and the registers that are visible
// as a consequence. The switch happens in a single step. Switching to an
// invalid mode will cause a panic.
func (r *Registers) SwitchMode(mode Mode) {
	to, ok := mode.bank()
	if !ok {
		panic(fmt.Sprintf("arm7: invalid processor mode (%s)", mode))
	}

	from, ok := r.status.mode.bank()
	if !ok {
		panic(fmt.Sprintf("arm7: invalid processor mode (%s)", r.status.mode))
	}

	r.status.mode = mode
	if from == to {
		return
	}

	if from == bankFIQ {
		copy(r.fiqHigh[:], r.r[8:rSP])
		copy(r.r[8:rSP], r.usrHigh[:])
	} else if to == bankFIQ {
		copy(r.usrHigh[:], r.r[8:rSP])
		copy(r.r[8:rSP], r.fiqHigh[:])
	}

	r.sp[from] = r.r[rSP]
	r.lr[from] = r.r[rLR]
	r.r[rSP] = r.sp[to]
	r.r[rLR] = r.lr[to]
}

// CPSR returns the packed value of the current program status register.
func (r *Registers) CPSR() uint32 {
	return r.status.pack()
}

// SetCPSR sets the current program status register. If the mode field is
// different to the current mode then the registers are banked accordingly.
// An invalid mode will cause a panic.
func (r *Registers) SetCPSR(value uint32) {
	r.SwitchMode(Mode(value & psrMode))
	r.status.unpack(value)
}

// SPSR returns the saved program status register of the current mode. USR and
// SYS modes do not have an SPSR and the CPSR is returned instead.
func (r *Registers) SPSR() uint32 {
	b, _ := r.status.mode.bank()
	if b == bankUSR {
		return r.status.pack()
	}
	return r.spsr[b]
}

// SetSPSR sets the saved program status register of the current mode. The
// write is ignored in USR and SYS modes.
func (r *Registers) SetSPSR(value uint32) {
	b, _ := r.status.mode.bank()
	if b == bankUSR {
		logger.Logf(logger.Allow, "ARM7", "write to SPSR ignored in %s mode", r.status.mode)
		return
	}
	r.spsr[b] = value & psrDefined
}

func (r *Registers) String() string {
	s := strings.Builder{}
	for i, v := range r.r {
		if i > 0 {
			if i%4 == 0 {
				s.WriteString("\n")
			} else {
				s.WriteString("\t\t")
			}
		}
		s.WriteString(fmt.Sprintf("R%-2d: %08x", i, v))
	}
	s.WriteString("\n")
	s.WriteString(r.status.String())
	return s.String()
}
