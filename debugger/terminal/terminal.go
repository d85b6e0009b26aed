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

//go:build !windows

package terminal

import (
	"bufio"
	"fmt"
	"os"
	"sync"

	"github.com/pkg/term/termios"
	"golang.org/x/sys/unix"
)

// Terminal is the container for a posix terminal.
type Terminal struct {
	input *os.File
	keys  *bufio.Reader

	canAttr    unix.Termios
	cbreakAttr unix.Termios

	mu sync.Mutex
}

// NewTerminal is the preferred method of initialisation for the Terminal type.
// The terminal starts in whatever mode it is in when NewTerminal() is called.
// That mode is restored by CanonicalMode().
func NewTerminal(input *os.File) (*Terminal, error) {
	if input == nil {
		return nil, fmt.Errorf("terminal: requires an input file")
	}

	t := &Terminal{
		input: input,
		keys:  bufio.NewReader(input),
	}

	if err := termios.Tcgetattr(input.Fd(), &t.canAttr); err != nil {
		return nil, fmt.Errorf("terminal: %w", err)
	}
	t.cbreakAttr = t.canAttr
	termios.Cfmakecbreak(&t.cbreakAttr)

	return t, nil
}

// CanonicalMode puts terminal into normal, everyday canonical mode.
func (t *Terminal) CanonicalMode() error {
	t.mu.Lock()
	defer t.mu.Unlock()

	if err := termios.Tcsetattr(t.input.Fd(), termios.TCSANOW, &t.canAttr); err != nil {
		return fmt.Errorf("terminal: %w", err)
	}
	return nil
}

// CBreakMode puts terminal into cbreak mode. Key presses are available
// immediately and are not echoed.
func (t *Terminal) CBreakMode() error {
	t.mu.Lock()
	defer t.mu.Unlock()

	if err := t.flush(); err != nil {
		return err
	}
	if err := termios.Tcsetattr(t.input.Fd(), termios.TCSANOW, &t.cbreakAttr); err != nil {
		return fmt.Errorf("terminal: %w", err)
	}
	return nil
}

// ReadKey blocks until a key is pressed. The interrupt key returns io.EOF.
func (t *Terminal) ReadKey() (rune, error) {
	return readKey(t.keys)
}

// makes sure the terminal's input buffer is empty
func (t *Terminal) flush() error {
	t.keys.Reset(t.input)
	if err := termios.Tcflush(t.input.Fd(), termios.TCIFLUSH); err != nil {
		return fmt.Errorf("terminal: %w", err)
	}
	return nil
}
