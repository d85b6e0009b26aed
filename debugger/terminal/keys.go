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
	"io"
)

// list of ASCII codes for non-alphanumeric characters
const (
	KeyInterrupt      = 3  // end-of-text character
	KeyEOF            = 4  // end-of-transmission character
	KeyTab            = 9
	KeyCarriageReturn = 13
	KeyEsc            = 27
)

// list of ASCII code for characters that can follow KeyEsc
const (
	EscCursor = '['
	EscSS3    = 'O'
)

// readKey reads the next key press. escape sequences, such as those sent by
// the cursor keys, are consumed and ignored. the interrupt and EOF keys are
// returned as io.EOF
func readKey(r *bufio.Reader) (rune, error) {
	for {
		k, _, err := r.ReadRune()
		if err != nil {
			return 0, err
		}

		switch k {
		case KeyInterrupt, KeyEOF:
			return 0, io.EOF
		case KeyEsc:
			if r.Buffered() == 0 {
				return k, nil
			}
			n, _, err := r.ReadRune()
			if err != nil {
				return 0, err
			}
			if n != EscCursor && n != EscSS3 {
				continue // for loop
			}
			// the sequence ends with a letter or a tilde
			for {
				c, _, err := r.ReadRune()
				if err != nil {
					return 0, err
				}
				if (c >= 'A' && c <= 'Z') || (c >= 'a' && c <= 'z') || c == '~' {
					break // for loop
				}
			}
		default:
			return k, nil
		}
	}
}
