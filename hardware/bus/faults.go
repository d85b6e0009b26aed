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
	"github.com/jetsetilly/arm7core/curated"
)

// Category of memory fault.
type Category string

// List of valid fault categories.
const (
	IllegalAddress Category = "illegal address"
	ReadOnly       Category = "write to read-only memory"
)

// MemoryFault is the curated error pattern for all memory faults. The
// placeholders are the fault category, the event (eg. "read 32bit") and the
// address.
const MemoryFault = "memory fault: %s: %s: %08x"

// IllegalAccessValue is the value returned by a read from an unmapped address.
const IllegalAccessValue = 0x00000000

// faultLatch records the most recent fault. embedded in the Memory
// implementations of this package
type faultLatch struct {
	fault error
}

func (f *faultLatch) record(category Category, event string, addr uint32) {
	f.fault = curated.Errorf(MemoryFault, category, event, addr)
}

// Fault implements the Faulter interface.
func (f *faultLatch) Fault() error {
	err := f.fault
	f.fault = nil
	return err
}
