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

// Package scheduler runs several emulated processors in step with each other.
// The processors share a bus and are given a slice of cycles each, in turn.
// A processor is anything that implements the Core interface, which the arm7
// package's ARM type does.
//
//	sch := scheduler.NewScheduler(prefs)
//	sch.AddCore("main", mainCPU)
//	sch.AddCore("gpu", gpu)
//	sch.RunFor(1000000)
//
// The scheduler is an approximation. Cores never run concurrently and a write
// to shared memory made by one core during its slice is only seen by another
// core when that core's next slice begins. Within a slice a core runs until
// its budget is consumed, so the cores drift apart by up to one quantum (plus
// the overshoot of the last instruction). A smaller quantum reduces the drift
// at the expense of speed.
//
// Events can be scheduled to happen after a number of cycles. Events fire at
// the end of the slice in which they fall due and are kept in a delta list,
// each event storing the cycles remaining after the event before it.
//
// A suspended core is skipped. The suspend flag is checked only at the start
// of each slice. The HaltRegister type is a bus device that allows one core to
// suspend and resume another by writing to an address.
package scheduler
