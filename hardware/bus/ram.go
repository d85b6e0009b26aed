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

import (
	"encoding/binary"
)

// RAM is a flat block of memory starting at an origin address. Values are
// stored in little-endian byte order by default.
type RAM struct {
	faultLatch

	data   []byte
	origin uint32
	memtop uint32

	// the binary interface for reading and writing multi-byte values
	byteOrder binary.ByteOrder

	readOnly bool
}

// NewRAM is the preferred method of initialisation for the RAM type.
func NewRAM(origin uint32, size int) *RAM {
	return &RAM{
		data:      make([]byte, size),
		origin:    origin,
		memtop:    origin + uint32(size) - 1,
		byteOrder: binary.LittleEndian,
	}
}

// NewROM returns a RAM instance loaded with data that ignores writes. Writes
// are recorded as faults.
func NewROM(origin uint32, data []byte) *RAM {
	r := NewRAM(origin, len(data))
	copy(r.data, data)
	r.readOnly = true
	return r
}

// SetByteOrder changes the binary interface used to store multi-byte values.
func (r *RAM) SetByteOrder(o binary.ByteOrder) {
	r.byteOrder = o
}

// Origin implements the Device interface.
func (r *RAM) Origin() uint32 {
	return r.origin
}

// Memtop implements the Device interface.
func (r *RAM) Memtop() uint32 {
	return r.memtop
}

// Load copies data into memory starting at addr. Data that would fall
// outside of the memory is ignored. Returns the number of bytes copied.
func (r *RAM) Load(addr uint32, data []byte) int {
	if addr < r.origin || addr > r.memtop {
		return 0
	}
	return copy(r.data[addr-r.origin:], data)
}

// Bytes returns the underlying byte slice. Changes to the slice are changes
// to the memory.
func (r *RAM) Bytes() []byte {
	return r.data
}

// index returns the index into the data slice for an access of size bytes.
// returns false if the access is not entirely within the memory
func (r *RAM) index(addr uint32, size uint32) (uint32, bool) {
	if addr < r.origin || addr > r.memtop || r.memtop-addr < size-1 {
		return 0, false
	}
	return addr - r.origin, true
}

// Read8 implements the Memory interface.
func (r *RAM) Read8(addr uint32) uint8 {
	idx, ok := r.index(addr, 1)
	if !ok {
		r.record(IllegalAddress, "read 8bit", addr)
		return IllegalAccessValue
	}
	return r.data[idx]
}

// Read16 implements the Memory interface.
func (r *RAM) Read16(addr uint32) uint16 {
	addr &^= 0x01
	idx, ok := r.index(addr, 2)
	if !ok {
		r.record(IllegalAddress, "read 16bit", addr)
		return IllegalAccessValue
	}
	return r.byteOrder.Uint16(r.data[idx:])
}

// Read32 implements the Memory interface.
func (r *RAM) Read32(addr uint32) uint32 {
	addr &^= 0x03
	idx, ok := r.index(addr, 4)
	if !ok {
		r.record(IllegalAddress, "read 32bit", addr)
		return IllegalAccessValue
	}
	return r.byteOrder.Uint32(r.data[idx:])
}

// Write8 implements the Memory interface.
func (r *RAM) Write8(addr uint32, val uint8) {
	idx, ok := r.index(addr, 1)
	if !ok {
		r.record(IllegalAddress, "write 8bit", addr)
		return
	}
	if r.readOnly {
		r.record(ReadOnly, "write 8bit", addr)
		return
	}
	r.data[idx] = val
}

// Write16 implements the Memory interface.
func (r *RAM) Write16(addr uint32, val uint16) {
	addr &^= 0x01
	idx, ok := r.index(addr, 2)
	if !ok {
		r.record(IllegalAddress, "write 16bit", addr)
		return
	}
	if r.readOnly {
		r.record(ReadOnly, "write 16bit", addr)
		return
	}
	r.byteOrder.PutUint16(r.data[idx:], val)
}

// Write32 implements the Memory interface.
func (r *RAM) Write32(addr uint32, val uint32) {
	addr &^= 0x03
	idx, ok := r.index(addr, 4)
	if !ok {
		r.record(IllegalAddress, "write 32bit", addr)
		return
	}
	if r.readOnly {
		r.record(ReadOnly, "write 32bit", addr)
		return
	}
	r.byteOrder.PutUint32(r.data[idx:], val)
}

// Fetch16 implements the Memory interface. There is no difference between a
// fetch and a read for RAM.
func (r *RAM) Fetch16(addr uint32) uint16 {
	return r.Read16(addr)
}

// Fetch32 implements the Memory interface. There is no difference between a
// fetch and a read for RAM.
func (r *RAM) Fetch32(addr uint32) uint32 {
	return r.Read32(addr)
}
