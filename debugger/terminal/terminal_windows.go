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

package terminal

import (
	"bufio"
	"fmt"
	"os"
	"sync"

	"golang.org/x/term"
)

// Terminal is the container for a Windows console.
type Terminal struct {
	input *os.File
	keys  *bufio.Reader

	mu    sync.Mutex
	state *term.State
}

// NewTerminal is the preferred method of initialisation for the Terminal type.
func NewTerminal(input *os.File) (*Terminal, error) {
	if input == nil {
		return nil, fmt.Errorf("terminal: requires an input file")
	}
	return &Terminal{
		input: input,
		keys:  bufio.NewReader(input),
	}, nil
}

// CanonicalMode restores the console to the mode it was in before
// CBreakMode() was called.
func (t *Terminal) CanonicalMode() error {
	t.mu.Lock()
	defer t.mu.Unlock()

	if t.state == nil {
		return nil
	}
	err := term.Restore(int(t.input.Fd()), t.state)
	t.state = nil
	if err != nil {
		return fmt.Errorf("terminal: %w", err)
	}
	return nil
}

// CBreakMode puts the console into raw mode. The console has no cbreak mode
// so the interrupt key is handled by ReadKey().
func (t *Terminal) CBreakMode() error {
	t.mu.Lock()
	defer t.mu.Unlock()

	if t.state != nil {
		return nil
	}
	s, err := term.MakeRaw(int(t.input.Fd()))
	if err != nil {
		return fmt.Errorf("terminal: %w", err)
	}
	t.state = s
	t.keys.Reset(t.input)
	return nil
}

// ReadKey blocks until a key is pressed. The interrupt key returns io.EOF.
func (t *Terminal) ReadKey() (rune, error) {
	return readKey(t.keys)
}
