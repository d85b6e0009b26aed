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

package debugger

import (
	"os"

	"github.com/bradleyjkemp/memviz"
	"github.com/jetsetilly/arm7core/curated"
)

// memviz writes a graphviz description of a snapshot of the CPU state to the
// named file
func (dbg *Debugger) memviz(filename string) error {
	f, err := os.Create(filename)
	if err != nil {
		return curated.Errorf(DebuggerError, err)
	}
	defer f.Close()

	memviz.Map(f, dbg.arm.Snapshot())

	dbg.printf("state written to %s\n", filename)
	return nil
}
