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

package bus_test

import (
	"strings"
	"testing"

	"github.com/jetsetilly/arm7core/curated"
	"github.com/jetsetilly/arm7core/hardware/bus"
	"github.com/jetsetilly/arm7core/logger"
	"github.com/jetsetilly/arm7core/test"
)

func TestRAM(t *testing.T) {
	r := bus.NewRAM(0x1000, 0x100)
	test.ExpectEquality(t, r.Origin(), uint32(0x1000))
	test.ExpectEquality(t, r.Memtop(), uint32(0x10ff))

	r.Write32(0x1000, 0x11223344)
	test.ExpectEquality(t, r.Read8(0x1000), uint8(0x44))
	test.ExpectEquality(t, r.Read8(0x1003), uint8(0x11))
	test.ExpectEquality(t, r.Read16(0x1002), uint16(0x1122))
	test.ExpectEquality(t, r.Read32(0x1000), uint32(0x11223344))
	test.ExpectEquality(t, r.Fetch32(0x1000), uint32(0x11223344))
	test.ExpectEquality(t, r.Fetch16(0x1000), uint16(0x3344))
	test.ExpectSuccess(t, r.Fault())
}

func TestRAMAlignment(t *testing.T) {
	r := bus.NewRAM(0x0000, 0x10)
	r.Write32(0x0000, 0xaabbccdd)

	// unaligned accesses are forced to the containing halfword/word
	test.ExpectEquality(t, r.Read32(0x0002), uint32(0xaabbccdd))
	test.ExpectEquality(t, r.Read16(0x0001), uint16(0xccdd))

	r.Write16(0x0003, 0x1234)
	test.ExpectEquality(t, r.Read32(0x0000), uint32(0x1234ccdd))
}

func TestRAMFaults(t *testing.T) {
	r := bus.NewRAM(0x1000, 0x10)

	test.ExpectEquality(t, r.Read32(0x2000), uint32(bus.IllegalAccessValue))
	err := r.Fault()
	test.ExpectFailure(t, err)
	test.ExpectSuccess(t, curated.Is(err, bus.MemoryFault))
	test.ExpectEquality(t, err.Error(), "memory fault: illegal address: read 32bit: 00002000")

	// fault has been cleared
	test.ExpectSuccess(t, r.Fault())

	// a word access that straddles the end of memory is illegal
	r.Write32(0x100e, 0xffffffff)
	test.ExpectSuccess(t, r.Fault())
	r.Write16(0x1010, 0xffff)
	test.ExpectFailure(t, r.Fault())
}

func TestROM(t *testing.T) {
	r := bus.NewROM(0x0000, []byte{0x01, 0x02, 0x03, 0x04})
	test.ExpectEquality(t, r.Read32(0x0000), uint32(0x04030201))
	r.Write8(0x0000, 0xff)
	test.ExpectEquality(t, r.Read8(0x0000), uint8(0x01))
	err := r.Fault()
	test.ExpectSuccess(t, curated.Has(err, bus.MemoryFault))
}

func TestRAMLoad(t *testing.T) {
	r := bus.NewRAM(0x8000, 0x8)
	n := r.Load(0x8004, []byte{1, 2, 3, 4, 5, 6})
	test.ExpectEquality(t, n, 4)
	test.ExpectEquality(t, r.Read32(0x8004), uint32(0x04030201))
	test.ExpectEquality(t, r.Load(0x0000, []byte{1}), 0)
}

func TestMap(t *testing.T) {
	m := bus.NewMap()
	lo := bus.NewRAM(0x0000, 0x100)
	hi := bus.NewRAM(0x4000, 0x100)
	test.DemandSuccess(t, m.Add(hi))
	test.DemandSuccess(t, m.Add(lo))

	// overlapping devices are rejected
	test.ExpectFailure(t, m.Add(bus.NewRAM(0x00f0, 0x20)))

	m.Write32(0x0010, 0x12345678)
	m.Write32(0x4010, 0x9abcdef0)
	test.ExpectEquality(t, lo.Read32(0x0010), uint32(0x12345678))
	test.ExpectEquality(t, hi.Read32(0x4010), uint32(0x9abcdef0))
	test.ExpectEquality(t, m.Fetch32(0x4010), uint32(0x9abcdef0))
	test.ExpectSuccess(t, m.Fault())

	// unmapped
	test.ExpectEquality(t, m.Read8(0x2000), uint8(bus.IllegalAccessValue))
	test.ExpectFailure(t, m.Fault())
	test.ExpectSuccess(t, m.Fault())
}

func TestMapFaultDrainsDevices(t *testing.T) {
	m := bus.NewMap()
	lo := bus.NewRAM(0x0000, 0x100)
	hi := bus.NewRAM(0x4000, 0x100)
	test.DemandSuccess(t, m.Add(lo))
	test.DemandSuccess(t, m.Add(hi))

	// out of range accesses made directly on the devices
	lo.Read32(0x0200)
	hi.Write8(0x5000, 0xff)

	logger.Clear()
	err := m.Fault()
	test.ExpectSuccess(t, curated.Is(err, bus.MemoryFault))
	test.ExpectEquality(t, err.Error(), "memory fault: illegal address: read 32bit: 00000200")

	// the second fault is logged rather than left in the latch
	test.ExpectSuccess(t, lo.Fault())
	test.ExpectSuccess(t, hi.Fault())
	test.ExpectSuccess(t, m.Fault())

	w := &strings.Builder{}
	logger.Write(w)
	test.ExpectSuccess(t, strings.Contains(w.String(), "write 8bit: 00005000"))
}
