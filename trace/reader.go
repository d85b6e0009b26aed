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

package trace

import (
	"io"
	"strings"

	"github.com/golang/snappy"
	"github.com/jetsetilly/arm7core/hardware/cpu/arm7"
	"github.com/lunixbochs/struc"
	"github.com/pkg/errors"
)

// Reader reads the frames of a trace file.
type Reader struct {
	zr     *snappy.Reader
	Header Header

	// register file after the most recent frame
	regs [arm7.NumRegisters]uint32
}

// NewReader reads and checks the header of a trace file.
func NewReader(r io.Reader) (*Reader, error) {
	t := &Reader{}
	if err := struc.UnpackWithOptions(r, &t.Header, &struc.Options{Order: order}); err != nil {
		return nil, errors.Wrap(err, "trace: failed to unpack header")
	}
	if t.Header.Magic != Magic {
		return nil, errors.New("trace: invalid trace file magic")
	}
	if t.Header.Version != Version {
		return nil, errors.Errorf("trace: unsupported trace file version (%d)", t.Header.Version)
	}
	t.Header.Core = strings.TrimRight(t.Header.Core, "\x00")
	t.zr = snappy.NewReader(r)
	return t, nil
}

// Next returns the next frame in the file. Returns io.EOF when there are no
// more frames.
func (t *Reader) Next() (Frame, error) {
	var kind [1]byte
	if _, err := io.ReadFull(t.zr, kind[:]); err != nil {
		if err == io.EOF {
			return Frame{}, io.EOF
		}
		return Frame{}, errors.Wrap(err, "trace: failed to read frame")
	}

	if kind[0] != kindInstruction {
		return Frame{}, errors.Errorf("trace: unknown frame kind (%d)", kind[0])
	}

	var f Frame
	if err := struc.UnpackWithOptions(t.zr, &f, &struc.Options{Order: order}); err != nil {
		return Frame{}, errors.Wrap(err, "trace: failed to unpack frame")
	}
	f.apply(&t.regs)

	return f, nil
}

// Registers returns the register file as it was at the end of the most
// recently read frame.
func (t *Reader) Registers() [arm7.NumRegisters]uint32 {
	return t.regs
}
