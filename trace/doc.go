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

// Package trace writes and reads instruction trace files. A trace file is
// created by attaching a Writer to an ARM as its observer:
//
//	w, err := trace.NewWriter(f, "main")
//	arm.SetObserver(w)
//	arm.Run(100000)
//	err = w.Close()
//
// The file starts with an uncompressed header followed by a stream of frames,
// one per instruction, compressed with snappy. Each frame records the address,
// opcode, cycle cost and CPSR of the instruction and the value of every
// register that is different to the previous frame. The Reader type
// reconstructs the full register file as it reads each frame.
package trace
