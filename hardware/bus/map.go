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
	"fmt"
	"sort"

	"github.com/jetsetilly/arm7core/logger"
)

// Map routes memory accesses to the Device that covers the address. Accesses
// to unmapped addresses are recorded as faults.
//
// Map is shared by all CPU cores attached to it. It is not safe for
// concurrent use but cores are never run concurrently (see the scheduler
// package).
type Map struct {
	faultLatch

	// devices sorted by origin
	devices []Device

	// most recently used device. accesses tend to be clustered so this saves
	// a search most of the time
	last Device
}

// NewMap is the preferred method of initialisation for the Map type.
func NewMap() *Map {
	return &Map{}
}

// Add device to the map. The address range of the device must not overlap
// with any existing device.
func (m *Map) Add(dev Device) error {
	if dev.Memtop() < dev.Origin() {
		return fmt.Errorf("bus: device memtop (%08x) is before origin (%08x)", dev.Memtop(), dev.Origin())
	}
	for _, d := range m.devices {
		if dev.Origin() <= d.Memtop() && d.Origin() <= dev.Memtop() {
			return fmt.Errorf("bus: device at %08x-%08x overlaps device at %08x-%08x",
				dev.Origin(), dev.Memtop(), d.Origin(), d.Memtop())
		}
	}
	m.devices = append(m.devices, dev)
	sort.Slice(m.devices, func(i, j int) bool {
		return m.devices[i].Origin() < m.devices[j].Origin()
	})
	return nil
}

// find the device that covers the address. returns nil if no device
func (m *Map) find(addr uint32) Device {
	if m.last != nil && addr >= m.last.Origin() && addr <= m.last.Memtop() {
		return m.last
	}

	i := sort.Search(len(m.devices), func(i int) bool {
		return m.devices[i].Memtop() >= addr
	})
	if i < len(m.devices) && m.devices[i].Origin() <= addr {
		m.last = m.devices[i]
		return m.last
	}

	return nil
}

// Fault implements the Faulter interface. Faults from the Map itself take
// priority over faults recorded by any of the devices. Every latch is cleared
// by the call and faults other than the returned one are logged.
func (m *Map) Fault() error {
	first := m.faultLatch.Fault()
	for _, d := range m.devices {
		f, ok := d.(Faulter)
		if !ok {
			continue
		}
		if err := f.Fault(); err != nil {
			if first == nil {
				first = err
			} else {
				logger.Log(logger.Allow, "bus", err)
			}
		}
	}
	return first
}

// Read8 implements the Memory interface.
func (m *Map) Read8(addr uint32) uint8 {
	if d := m.find(addr); d != nil {
		return d.Read8(addr)
	}
	m.record(IllegalAddress, "read 8bit", addr)
	return IllegalAccessValue
}

// Read16 implements the Memory interface.
func (m *Map) Read16(addr uint32) uint16 {
	if d := m.find(addr); d != nil {
		return d.Read16(addr)
	}
	m.record(IllegalAddress, "read 16bit", addr)
	return IllegalAccessValue
}

// Read32 implements the Memory interface.
func (m *Map) Read32(addr uint32) uint32 {
	if d := m.find(addr); d != nil {
		return d.Read32(addr)
	}
	m.record(IllegalAddress, "read 32bit", addr)
	return IllegalAccessValue
}

// Write8 implements the Memory interface.
func (m *Map) Write8(addr uint32, val uint8) {
	if d := m.find(addr); d != nil {
		d.Write8(addr, val)
		return
	}
	m.record(IllegalAddress, "write 8bit", addr)
}

// Write16 implements the Memory interface.
func (m *Map) Write16(addr uint32, val uint16) {
	if d := m.find(addr); d != nil {
		d.Write16(addr, val)
		return
	}
	m.record(IllegalAddress, "write 16bit", addr)
}

// Write32 implements the Memory interface.
func (m *Map) Write32(addr uint32, val uint32) {
	if d := m.find(addr); d != nil {
		d.Write32(addr, val)
		return
	}
	m.record(IllegalAddress, "write 32bit", addr)
}

// Fetch16 implements the Memory interface.
func (m *Map) Fetch16(addr uint32) uint16 {
	if d := m.find(addr); d != nil {
		return d.Fetch16(addr)
	}
	m.record(IllegalAddress, "fetch 16bit", addr)
	return IllegalAccessValue
}

// Fetch32 implements the Memory interface.
func (m *Map) Fetch32(addr uint32) uint32 {
	if d := m.find(addr); d != nil {
		return d.Fetch32(addr)
	}
	m.record(IllegalAddress, "fetch 32bit", addr)
	return IllegalAccessValue
}
