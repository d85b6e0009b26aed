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

	"github.com/golang/snappy"
	"github.com/jetsetilly/arm7core/hardware/cpu/arm7"
	"github.com/jetsetilly/arm7core/logger"
	"github.com/lunixbochs/struc"
	"github.com/pkg/errors"
)

// Writer implements the arm7.Observer interface and writes every instruction
// to a trace file.
type Writer struct {
	w  io.Writer
	zw *snappy.Writer

	// register file at the end of the previous frame. nil until the first
	// frame has been written
	regs *[arm7.NumRegisters]uint32

	frames int

	// the first error encountered. once an error has occurred no more frames
	// are written
	err error
}

// NewWriter writes the trace file header and returns a Writer ready to
// receive trace entries. The core argument identifies the core in the header.
func NewWriter(w io.Writer, core string) (*Writer, error) {
	header := &Header{
		Magic:   Magic,
		Version: Version,
		Core:    core,
	}
	if err := struc.PackWithOptions(w, header, &struc.Options{Order: order}); err != nil {
		return nil, errors.Wrap(err, "trace: failed to pack header")
	}

	return &Writer{
		w:  w,
		zw: snappy.NewBufferedWriter(w),
	}, nil
}

// Observe implements the arm7.Observer interface.
func (t *Writer) Observe(e arm7.TraceEntry) {
	if t.err != nil {
		return
	}

	f := newFrame(e, t.regs)
	if t.regs == nil {
		t.regs = &[arm7.NumRegisters]uint32{}
	}
	*t.regs = e.After

	if _, err := t.zw.Write([]byte{kindInstruction}); err != nil {
		t.fail(err)
		return
	}
	if err := struc.PackWithOptions(t.zw, &f, &struc.Options{Order: order}); err != nil {
		t.fail(err)
		return
	}

	t.frames++
}

func (t *Writer) fail(err error) {
	t.err = errors.Wrapf(err, "trace: failed to write frame %d", t.frames)
	logger.Log(logger.Allow, "trace", t.err)
}

// Frames returns the number of frames written so far.
func (t *Writer) Frames() int {
	return t.frames
}

// Err returns the first error that occurred while writing frames.
func (t *Writer) Err() error {
	return t.err
}

// Close flushes the compressed stream. If the underlying writer is an
// io.Closer it is also closed. Returns the first error that occurred while
// writing, if any.
func (t *Writer) Close() error {
	err := t.zw.Close()
	if c, ok := t.w.(io.Closer); ok {
		if cerr := c.Close(); err == nil {
			err = cerr
		}
	}
	if t.err != nil {
		return t.err
	}
	if err != nil {
		return errors.Wrap(err, "trace: failed to close")
	}
	return nil
}
