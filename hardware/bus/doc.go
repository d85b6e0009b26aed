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

// Package bus defines the interface through which a CPU core accesses memory
// and provides two implementations: RAM, a flat little-endian memory block,
// and Map, which routes accesses to any number of devices by address range.
//
// The core never conflates opcode fetches with data reads. Fetch16() and
// Fetch32() are separate entry points so that an implementation can return
// different data for instruction fetches (decrypted opcodes or an instruction
// cache for example).
//
// Memory faults (unmapped addresses) are not returned as errors from the
// access functions. An implementation can instead satisfy the Faulter
// interface, which the CPU core checks after every instruction.
package bus
