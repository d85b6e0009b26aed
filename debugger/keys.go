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
	"io"

	"github.com/jetsetilly/arm7core/curated"
)

// the number of cycles run by the continue key if no breakpoint is reached
const continueBudget = 1 << 24

// KeyReader is a source of single key presses.
type KeyReader interface {
	// ReadKey blocks until a key is pressed. The terminal should be in
	// cbreak mode for the duration of KeyMode().
	ReadKey() (rune, error)

	// CBreakMode and CanonicalMode switch the terminal between single key and
	// line input.
	CBreakMode() error
	CanonicalMode() error
}

// keyMode steps the CPU one instruction for each press of the space bar (or
// return). the mode ends when Q is pressed or when the key reader fails
func (dbg *Debugger) keyMode() error {
	if dbg.keys == nil {
		return curated.Errorf(DebuggerError, "no interactive terminal")
	}

	if err := dbg.keys.CBreakMode(); err != nil {
		return curated.Errorf(DebuggerError, err)
	}
	defer dbg.keys.CanonicalMode()

	dbg.printf("%s\n", dbg.nextInstruction())

	for {
		k, err := dbg.keys.ReadKey()
		if err != nil {
			if err == io.EOF {
				return nil
			}
			return curated.Errorf(DebuggerError, err)
		}

		switch k {
		case ' ', '\n', '\r':
			dbg.step(1)
			dbg.printf("%s\n", dbg.nextInstruction())
		case 'r', 'R':
			dbg.printf("%s\n", dbg.arm.String())
		case 'c', 'C':
			dbg.run(continueBudget)
			if dbg.halted {
				dbg.printf("break at %08x\n", dbg.haltedAt)
			}
			dbg.printf("%s\n", dbg.nextInstruction())
		case 'q', 'Q':
			return nil
		}
	}
}
