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

package preferences

import (
	"github.com/jetsetilly/arm7core/paths"
	"github.com/jetsetilly/arm7core/prefs"
)

// DefaultQuantum is the number of cycles each core runs for in a single
// scheduler slice unless the preferences say otherwise.
const DefaultQuantum = 256

// ARMPreferences collates the preference values used by the ARM7 emulation
// and by the scheduler that drives it.
type ARMPreferences struct {
	dsk *prefs.Disk

	// speed of processor. used to convert cycles into wall clock time when
	// reporting and by the scheduler when running in real time
	Clock prefs.Float // Mhz

	// number of cycles given to each core in a single scheduler slice
	Quantum prefs.Int

	// stop execution at the end of the instruction that caused a memory fault.
	// execution can be resumed by calling Run() again
	AbortOnMemoryFault prefs.Bool

	// log every undefined instruction encountered
	LogUndefined prefs.Bool

	// include the disassembly of each instruction in trace output
	TraceMnemonics prefs.Bool
}

func (p *ARMPreferences) String() string {
	if p.dsk == nil {
		return ""
	}
	return p.dsk.String()
}

// DefaultARMPreferences returns an instance of ARMPreferences with default
// values and no disk backing. Load() and Save() do nothing.
func DefaultARMPreferences() *ARMPreferences {
	p := &ARMPreferences{}
	p.SetDefaults()
	return p
}

// NewARMPreferences is the preferred method of initialisation for the
// ARMPreferences type. Values are loaded from the preferences file in the
// resource path.
func NewARMPreferences() (*ARMPreferences, error) {
	p := &ARMPreferences{}
	p.SetDefaults()

	pth, err := paths.ResourcePath("", prefs.DefaultPrefsFile)
	if err != nil {
		return nil, err
	}
	p.dsk, err = prefs.NewDisk(pth)
	if err != nil {
		return nil, err
	}
	err = p.dsk.Add("hardware.arm7.clock", &p.Clock)
	if err != nil {
		return nil, err
	}
	err = p.dsk.Add("hardware.arm7.quantum", &p.Quantum)
	if err != nil {
		return nil, err
	}
	err = p.dsk.Add("hardware.arm7.abortOnMemoryFault", &p.AbortOnMemoryFault)
	if err != nil {
		return nil, err
	}
	err = p.dsk.Add("hardware.arm7.logUndefined", &p.LogUndefined)
	if err != nil {
		return nil, err
	}
	err = p.dsk.Add("hardware.arm7.traceMnemonics", &p.TraceMnemonics)
	if err != nil {
		return nil, err
	}
	err = p.dsk.Load()
	if err != nil {
		return nil, err
	}

	return p, nil
}

// SetDefaults reverts all settings to default values.
func (p *ARMPreferences) SetDefaults() {
	p.Clock.Set(70.0)
	p.Quantum.Set(DefaultQuantum)
	p.AbortOnMemoryFault.Set(false)
	p.LogUndefined.Set(true)
	p.TraceMnemonics.Set(true)
}

// Load current arm preference from disk.
func (p *ARMPreferences) Load() error {
	if p.dsk == nil {
		return nil
	}
	return p.dsk.Load()
}

// Save current arm preferences to disk.
func (p *ARMPreferences) Save() error {
	if p.dsk == nil {
		return nil
	}
	return p.dsk.Save()
}
