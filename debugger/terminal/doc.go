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

// Package terminal is a wrapper for "github.com/pkg/term/termios". It switches
// an interactive terminal between canonical and cbreak mode and reads single
// key presses. The Terminal type satisfies the debugger.KeyReader interface.
//
// On Windows, where termios is not available, the console is put into raw mode
// with "golang.org/x/term" instead.
package terminal
