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

package bus

// Memory represents the bus as seen by a CPU core. Multi-byte values are
// returned in the host representation; byte order is the concern of the
// implementation.
//
// Addresses passed to the 16bit and 32bit functions are not guaranteed to be
// aligned. It is up to the implementation to decide how to handle unaligned
// access. RAM and Map force alignment, which is how the ARM7TDMI bus behaves.
type Memory interface {
	Read8(addr uint32) uint8
	Read16(addr uint32) uint16
	Read32(addr uint32) uint32

	Write8(addr uint32, val uint8)
	Write16(addr uint32, val uint16)
	Write32(addr uint32, val uint32)

	// opcode fetches
	Fetch16(addr uint32) uint16
	Fetch32(addr uint32) uint32
}

// Faulter is implemented by Memory implementations that record memory faults.
type Faulter interface {
	// Fault returns the most recent fault and clears it. Returns nil if there
	// has been no fault since the previous call.
	Fault() error
}

// Device is a Memory implementation that occupies a fixed address range.
// Required by the Map type.
type Device interface {
	Memory

	// Origin and Memtop return the first and last address of the device
	Origin() uint32
	Memtop() uint32
}
