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

package scheduler

import (
	"github.com/jetsetilly/arm7core/hardware/bus"
)

// Suspender is implemented by cores that can be suspended.
type Suspender interface {
	Suspend(bool)
	Suspended() bool
}

// HaltRegister is a memory mapped register that controls whether a core is
// running. Writing a value with bit 0 set resumes the core and writing a value
// with bit 0 clear suspends it. Reading the register returns 1 if the core is
// running and 0 if it is suspended.
//
// The register occupies four bytes. A write of any width to any of the four
// bytes is a write to the register.
type HaltRegister struct {
	addr   uint32
	target Suspender
}

// NewHaltRegister creates a HaltRegister at the address, controlling the
// target core.
func NewHaltRegister(addr uint32, target Suspender) *HaltRegister {
	return &HaltRegister{
		addr:   addr &^ 0x03,
		target: target,
	}
}

// Origin implements the bus.Device interface.
func (h *HaltRegister) Origin() uint32 {
	return h.addr
}

// Memtop implements the bus.Device interface.
func (h *HaltRegister) Memtop() uint32 {
	return h.addr + 3
}

func (h *HaltRegister) value() uint32 {
	if h.target.Suspended() {
		return 0
	}
	return 1
}

func (h *HaltRegister) write(v uint32) {
	h.target.Suspend(v&0x01 == 0x00)
}

// Read8 implements the bus.Memory interface.
func (h *HaltRegister) Read8(addr uint32) uint8 {
	if addr == h.addr {
		return uint8(h.value())
	}
	return 0
}

// Read16 implements the bus.Memory interface.
func (h *HaltRegister) Read16(addr uint32) uint16 {
	if addr&^0x01 == h.addr {
		return uint16(h.value())
	}
	return 0
}

// Read32 implements the bus.Memory interface.
func (h *HaltRegister) Read32(addr uint32) uint32 {
	return h.value()
}

// Write8 implements the bus.Memory interface.
func (h *HaltRegister) Write8(addr uint32, val uint8) {
	h.write(uint32(val))
}

// Write16 implements the bus.Memory interface.
func (h *HaltRegister) Write16(addr uint32, val uint16) {
	h.write(uint32(val))
}

// Write32 implements the bus.Memory interface.
func (h *HaltRegister) Write32(addr uint32, val uint32) {
	h.write(val)
}

// Fetch16 implements the bus.Memory interface. Executing from the register
// returns zero.
func (h *HaltRegister) Fetch16(addr uint32) uint16 {
	return 0
}

// Fetch32 implements the bus.Memory interface.
func (h *HaltRegister) Fetch32(addr uint32) uint32 {
	return 0
}

// compile time check that HaltRegister is a bus.Device
var _ bus.Device = (*HaltRegister)(nil)
