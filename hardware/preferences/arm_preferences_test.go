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

package preferences_test

import (
	"os"
	"testing"

	"github.com/jetsetilly/arm7core/hardware/preferences"
	"github.com/jetsetilly/arm7core/prefs"
	"github.com/jetsetilly/arm7core/test"
)

func TestDefaults(t *testing.T) {
	p := preferences.DefaultARMPreferences()
	test.ExpectEquality(t, p.Quantum.Get().(int), preferences.DefaultQuantum)
	test.ExpectEquality(t, p.Clock.Get().(float64), 70.0)
	test.ExpectEquality(t, p.AbortOnMemoryFault.Get().(bool), false)
	test.ExpectEquality(t, p.LogUndefined.Get().(bool), true)

	// no disk backing
	test.ExpectSuccess(t, p.Save())
	test.ExpectSuccess(t, p.Load())
	test.ExpectEquality(t, p.String(), "")
}

func TestDiskAndCommandLine(t *testing.T) {
	wd, err := os.Getwd()
	test.DemandSuccess(t, err)
	test.DemandSuccess(t, os.Chdir(t.TempDir()))
	defer os.Chdir(wd)

	p, err := preferences.NewARMPreferences()
	test.DemandSuccess(t, err)
	p.Quantum.Set(1000)
	p.AbortOnMemoryFault.Set(true)
	test.ExpectSuccess(t, p.Save())

	// values saved to disk are loaded by a new instance
	p, err = preferences.NewARMPreferences()
	test.DemandSuccess(t, err)
	test.ExpectEquality(t, p.Quantum.Get().(int), 1000)
	test.ExpectEquality(t, p.AbortOnMemoryFault.Get().(bool), true)

	// command line value takes precedence over the value on disk
	prefs.PushCommandLineStack("hardware.arm7.quantum::50")
	defer prefs.PopCommandLineStack()

	p, err = preferences.NewARMPreferences()
	test.DemandSuccess(t, err)
	test.ExpectEquality(t, p.Quantum.Get().(int), 50)
}
