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

package test

import (
	"fmt"
	"strings"
)

// RingWriter is an io.Writer that keeps only the last bytes written to it. A
// test can connect it to a component that produces an unbounded amount of
// output and then examine the most recent lines.
type RingWriter struct {
	size int
	buf  []byte

	// the oldest retained line has lost its beginning
	partial bool
}

// NewRingWriter is the preferred method of initialisation for the RingWriter
// type. The size is the number of bytes retained.
func NewRingWriter(size int) (*RingWriter, error) {
	if size <= 0 {
		return nil, fmt.Errorf("ring writer: size must be positive (%d)", size)
	}
	return &RingWriter{
		size: size,
		buf:  make([]byte, 0, size),
	}, nil
}

// Write implements the io.Writer interface. It never fails.
func (r *RingWriter) Write(p []byte) (int, error) {
	r.buf = append(r.buf, p...)
	if over := len(r.buf) - r.size; over > 0 {
		r.partial = r.buf[over-1] != '\n'
		r.buf = append(r.buf[:0], r.buf[over:]...)
	}
	return len(p), nil
}

// String returns the retained bytes as a string.
func (r *RingWriter) String() string {
	return string(r.buf)
}

// Lines returns the retained output as a list of lines without the newline
// characters. A line that has been partly pushed out of the ring is omitted.
func (r *RingWriter) Lines() []string {
	s := string(r.buf)
	if r.partial {
		i := strings.IndexByte(s, '\n')
		if i < 0 {
			return nil
		}
		s = s[i+1:]
	}
	s = strings.TrimSuffix(s, "\n")
	if s == "" {
		return nil
	}
	return strings.Split(s, "\n")
}

// Reset discards everything written so far.
func (r *RingWriter) Reset() {
	r.buf = r.buf[:0]
	r.partial = false
}
