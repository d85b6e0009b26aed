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

package arm7_test

import (
	"reflect"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/jetsetilly/arm7core/curated"
	"github.com/jetsetilly/arm7core/hardware/bus"
	"github.com/jetsetilly/arm7core/hardware/cpu/arm7"
	"github.com/jetsetilly/arm7core/test"
)

const (
	nop        = 0xe1a00000 // MOV R0, R0
	cpsrThumb  = 0x00000020
	cpsrIRQ    = 0x00000080
	cpsrFIQ    = 0x00000040
	cpsrCarry  = 0x20000000
	cpsrOflow  = 0x10000000
	cpsrZero   = 0x40000000
	cpsrNegate = 0x80000000
)

// a RAM that counts the opcode fetches and data reads separately
type countingMemory struct {
	*bus.RAM
	fetches int
	reads   int
}

func (mem *countingMemory) Fetch32(addr uint32) uint32 {
	mem.fetches++
	return mem.RAM.Fetch32(addr)
}

func (mem *countingMemory) Fetch16(addr uint32) uint16 {
	mem.fetches++
	return mem.RAM.Fetch16(addr)
}

func (mem *countingMemory) Read32(addr uint32) uint32 {
	mem.reads++
	return mem.RAM.Read32(addr)
}

// prepare an ARM with 64k of RAM. the exception vectors are filled with NOP
// instructions and the PC is set to 0x100
func prepareTestARM() (*arm7.ARM, *bus.RAM) {
	mem := bus.NewRAM(0x0000, 0x10000)
	for addr := uint32(0); addr < 0x100; addr += 4 {
		mem.Write32(addr, nop)
	}
	arm := arm7.NewARM(nil, mem)
	arm.SetQuiet(true)
	arm.SetRegister(15, 0x100)
	return arm, mem
}

func putARM(mem *bus.RAM, addr uint32, opcodes ...uint32) {
	for i, o := range opcodes {
		mem.Write32(addr+uint32(i*4), o)
	}
}

func putThumb(mem *bus.RAM, addr uint32, opcodes ...uint16) {
	for i, o := range opcodes {
		mem.Write16(addr+uint32(i*2), o)
	}
}

func TestReset(t *testing.T) {
	arm, _ := prepareTestARM()
	arm.Reset()
	test.ExpectEquality(t, arm.Register(15), uint32(0))
	test.ExpectEquality(t, arm.Registers().Mode(), arm7.ModeSVC)
	test.ExpectEquality(t, arm.CPSR(), uint32(0x000000d3))
}

func TestBranchExchange(t *testing.T) {
	arm, mem := prepareTestARM()

	// BX R0 with an odd address
	putARM(mem, 0x100, 0xe12fff10)
	arm.SetRegister(0, 0x1001)
	test.ExpectEquality(t, arm.Step(), 3)
	test.ExpectEquality(t, arm.Register(15), uint32(0x1000))
	test.ExpectEquality(t, arm.Registers().Thumb(), true)

	// BX R0 in Thumb state with an even address
	putThumb(mem, 0x1000, 0x4700)
	arm.SetRegister(0, 0x2000)
	arm.Step()
	test.ExpectEquality(t, arm.Register(15), uint32(0x2000))
	test.ExpectEquality(t, arm.Registers().Thumb(), false)

	// BX R0 in ARM state with bit 1 set
	putARM(mem, 0x2000, 0xe12fff10)
	arm.SetRegister(0, 0x3002)
	arm.Step()
	test.ExpectEquality(t, arm.Register(15), uint32(0x3004))
	test.ExpectEquality(t, arm.Registers().Thumb(), false)

	// BX R0 in Thumb state with bit 1 set
	arm.SetRegister(15, 0x3100)
	arm.SetCPSR(arm.CPSR() | cpsrThumb)
	putThumb(mem, 0x3100, 0x4700)
	arm.SetRegister(0, 0x4002)
	arm.Step()
	test.ExpectEquality(t, arm.Register(15), uint32(0x4004))
	test.ExpectEquality(t, arm.Registers().Thumb(), false)
}

func TestMultiplyFlags(t *testing.T) {
	arm, mem := prepareTestARM()

	// MULS R0, R2, R1
	putARM(mem, 0x100, 0xe0100192)
	arm.SetRegister(1, 0)
	arm.SetRegister(2, 5)
	arm.SetRegister(0, 0xffffffff)
	arm.SetCPSR(arm.CPSR() | cpsrCarry | cpsrOflow | cpsrNegate)

	test.ExpectEquality(t, arm.Step(), 4)
	test.ExpectEquality(t, arm.Register(0), uint32(0))

	cpsr := arm.CPSR()
	test.ExpectEquality(t, cpsr&cpsrZero, uint32(cpsrZero))
	test.ExpectEquality(t, cpsr&cpsrNegate, uint32(0))

	// carry and overflow are not affected
	test.ExpectEquality(t, cpsr&cpsrCarry, uint32(cpsrCarry))
	test.ExpectEquality(t, cpsr&cpsrOflow, uint32(cpsrOflow))
}

func TestUndefinedThumb(t *testing.T) {
	arm, mem := prepareTestARM()

	arm.SetRegister(15, 0x200)
	arm.SetCPSR(arm.CPSR() | cpsrThumb)
	putThumb(mem, 0x200, 0xe800)

	for i := 0; i < 13; i++ {
		arm.SetRegister(i, uint32(0x1000+i))
	}

	arm.Step()
	test.ExpectEquality(t, arm.Register(15), uint32(0x202))

	err := arm.Err()
	test.ExpectFailure(t, err)
	test.ExpectSuccess(t, curated.Is(err, arm7.IllegalInstruction))
	test.ExpectSuccess(t, arm.Err())

	// the exception is taken before the next instruction. the instruction at
	// the vector is a NOP
	arm.Step()
	regs := arm.Registers()
	test.ExpectEquality(t, regs.Mode(), arm7.ModeUND)
	test.ExpectEquality(t, regs.Thumb(), false)
	test.ExpectEquality(t, arm.Register(14), uint32(0x202))
	test.ExpectEquality(t, arm.Register(15), uint32(0x08))
	test.ExpectEquality(t, regs.SPSR()&cpsrThumb, uint32(cpsrThumb))

	for i := 0; i < 13; i++ {
		test.ExpectEquality(t, arm.Register(i), uint32(0x1000+i))
	}
}

func TestUndefinedARM(t *testing.T) {
	arm, mem := prepareTestARM()
	putARM(mem, 0x100, 0xe7f000f0)

	test.ExpectEquality(t, arm.Step(), 4)
	test.ExpectFailure(t, arm.Err())

	arm.Step()
	test.ExpectEquality(t, arm.Registers().Mode(), arm7.ModeUND)
	test.ExpectEquality(t, arm.Register(14), uint32(0x104))
}

func TestConditionFailed(t *testing.T) {
	arm, mem := prepareTestARM()

	// MOVEQ R0, #1 with Z clear
	putARM(mem, 0x100, 0x03a00001)
	test.ExpectEquality(t, arm.Step(), 1)
	test.ExpectEquality(t, arm.Register(0), uint32(0))
	test.ExpectEquality(t, arm.Register(15), uint32(0x104))

	// ADDNV R0, R0, #1 never executes
	putARM(mem, 0x104, 0xf2800001)
	arm.SetCPSR(arm.CPSR() | cpsrZero)
	test.ExpectEquality(t, arm.Step(), 1)
	test.ExpectEquality(t, arm.Register(0), uint32(0))
}

func TestPCOffset(t *testing.T) {
	arm, mem := prepareTestARM()

	// setting R15 directly is not adjusted
	arm.SetRegister(15, 0x100)
	test.ExpectEquality(t, arm.Register(15), uint32(0x100))

	// ADD R0, PC, #0
	// STR PC, [R1]
	putARM(mem, 0x100, 0xe28f0000, 0xe581f000)
	arm.SetRegister(1, 0x800)

	arm.Step()
	test.ExpectEquality(t, arm.Register(0), uint32(0x108))

	arm.Step()
	test.ExpectEquality(t, mem.Read32(0x800), uint32(0x110))

	// MOV R0, PC in Thumb state
	arm.SetRegister(15, 0x200)
	arm.SetCPSR(arm.CPSR() | cpsrThumb)
	putThumb(mem, 0x200, 0x4678)
	arm.Step()
	test.ExpectEquality(t, arm.Register(0), uint32(0x204))
}

func TestFetchSeparation(t *testing.T) {
	mem := &countingMemory{RAM: bus.NewRAM(0x0000, 0x1000)}
	arm := arm7.NewARM(nil, mem)
	arm.SetQuiet(true)

	// LDR R0, [R1]
	mem.RAM.Write32(0x100, 0xe5910000)
	mem.RAM.Write32(0x800, 0x12345678)
	arm.SetRegister(15, 0x100)
	arm.SetRegister(1, 0x800)

	arm.Step()
	test.ExpectEquality(t, arm.Register(0), uint32(0x12345678))
	test.ExpectEquality(t, mem.fetches, 1)
	test.ExpectEquality(t, mem.reads, 1)
}

func TestThumbBranchLink(t *testing.T) {
	arm, mem := prepareTestARM()
	arm.SetRegister(15, 0x200)
	arm.SetCPSR(arm.CPSR() | cpsrThumb)

	// BL to 0x300
	putThumb(mem, 0x200, 0xf000, 0xf87e)
	arm.Step()
	arm.Step()
	test.ExpectEquality(t, arm.Register(15), uint32(0x300))
	test.ExpectEquality(t, arm.Register(14), uint32(0x205))

	// PUSH {R0, LR} then POP {R1, PC}
	arm.SetRegister(13, 0x1000)
	arm.SetRegister(0, 0xabcd)
	putThumb(mem, 0x300, 0xb501, 0xbd02)
	arm.Step()
	test.ExpectEquality(t, arm.Register(13), uint32(0x0ff8))
	test.ExpectEquality(t, mem.Read32(0x0ff8), uint32(0xabcd))
	test.ExpectEquality(t, mem.Read32(0x0ffc), uint32(0x205))

	arm.Step()
	test.ExpectEquality(t, arm.Register(13), uint32(0x1000))
	test.ExpectEquality(t, arm.Register(1), uint32(0xabcd))
	test.ExpectEquality(t, arm.Register(15), uint32(0x204))
	test.ExpectEquality(t, arm.Registers().Thumb(), true)
}

func TestBlockTransfer(t *testing.T) {
	arm, mem := prepareTestARM()

	// STMDB SP!, {R0, LR}
	// LDMIA SP!, {R1, PC}
	putARM(mem, 0x100, 0xe92d4001, 0xe8bd8002)
	arm.SetRegister(13, 0x1000)
	arm.SetRegister(0, 0x55)
	arm.SetRegister(14, 0x400)

	test.ExpectEquality(t, arm.Step(), 4)
	test.ExpectEquality(t, arm.Register(13), uint32(0x0ff8))
	test.ExpectEquality(t, mem.Read32(0x0ff8), uint32(0x55))
	test.ExpectEquality(t, mem.Read32(0x0ffc), uint32(0x400))

	test.ExpectEquality(t, arm.Step(), 6)
	test.ExpectEquality(t, arm.Register(13), uint32(0x1000))
	test.ExpectEquality(t, arm.Register(1), uint32(0x55))
	test.ExpectEquality(t, arm.Register(15), uint32(0x400))
}

func TestRegisterBanking(t *testing.T) {
	arm, _ := prepareTestARM()
	regs := arm.Registers()

	for i := 8; i < 15; i++ {
		regs.Set(i, uint32(0x100+i))
	}

	regs.SwitchMode(arm7.ModeFIQ)
	for i := 8; i < 15; i++ {
		test.ExpectEquality(t, regs.Get(i), uint32(0))
		regs.Set(i, uint32(0x200+i))
	}

	// the USR bank is visible through GetUser(). R13 and R14 in SVC mode are
	// not the USR registers
	test.ExpectEquality(t, regs.GetUser(8), uint32(0x108))
	test.ExpectEquality(t, regs.GetUser(13), uint32(0))

	regs.SwitchMode(arm7.ModeSVC)
	for i := 8; i < 15; i++ {
		test.ExpectEquality(t, regs.Get(i), uint32(0x100+i))
	}

	regs.SwitchMode(arm7.ModeFIQ)
	for i := 8; i < 15; i++ {
		test.ExpectEquality(t, regs.Get(i), uint32(0x200+i))
	}

	// IRQ mode shares R8 to R12 with USR mode but not R13 and R14
	regs.SwitchMode(arm7.ModeIRQ)
	test.ExpectEquality(t, regs.Get(8), uint32(0x108))
	test.ExpectEquality(t, regs.Get(13), uint32(0))
}

func TestInterrupts(t *testing.T) {
	arm, mem := prepareTestARM()
	putARM(mem, 0x100, nop, nop, nop, nop)

	// interrupts are disabled after reset
	arm.SetIRQ(true)
	arm.Step()
	test.ExpectEquality(t, arm.Register(15), uint32(0x104))

	// enable IRQ. the exception is taken before the next instruction
	arm.SetCPSR(uint32(arm7.ModeUSR))
	cpsr := arm.CPSR()
	arm.Step()
	regs := arm.Registers()
	test.ExpectEquality(t, regs.Mode(), arm7.ModeIRQ)
	test.ExpectEquality(t, arm.Register(14), uint32(0x108))
	test.ExpectEquality(t, arm.Register(15), uint32(0x1c))
	test.ExpectEquality(t, regs.SPSR(), cpsr)
	test.ExpectEquality(t, arm.CPSR()&cpsrIRQ, uint32(cpsrIRQ))
	test.ExpectEquality(t, arm.CPSR()&cpsrFIQ, uint32(0))

	// the IRQ line is still asserted but IRQ is now disabled
	arm.Step()
	test.ExpectEquality(t, arm.Register(15), uint32(0x20))
	arm.SetIRQ(false)

	// FIQ has priority over IRQ
	arm.SetRegister(15, 0x100)
	arm.SetCPSR(uint32(arm7.ModeUSR))
	arm.SetIRQ(true)
	arm.SetFIQ(true)
	arm.Step()
	test.ExpectEquality(t, regs.Mode(), arm7.ModeFIQ)
	test.ExpectEquality(t, arm.Register(14), uint32(0x104))
	test.ExpectEquality(t, arm.Register(15), uint32(0x20))
	test.ExpectEquality(t, arm.CPSR()&(cpsrIRQ|cpsrFIQ), uint32(cpsrIRQ|cpsrFIQ))
}

func TestSoftwareInterrupt(t *testing.T) {
	arm, mem := prepareTestARM()
	arm.SetCPSR(uint32(arm7.ModeUSR))

	// SWI #0
	putARM(mem, 0x100, 0xef000000)
	test.ExpectEquality(t, arm.Step(), 3)
	test.ExpectEquality(t, arm.Register(15), uint32(0x104))

	arm.Step()
	test.ExpectEquality(t, arm.Registers().Mode(), arm7.ModeSVC)
	test.ExpectEquality(t, arm.Register(14), uint32(0x104))
	test.ExpectEquality(t, arm.Register(15), uint32(0x0c))

	// SWI from outside of the instruction stream
	arm.RaiseSWI()
	arm.Step()
	test.ExpectEquality(t, arm.Register(14), uint32(0x0c))
	test.ExpectEquality(t, arm.Register(15), uint32(0x0c))
}

// a loop of ADD, MUL and a branch. the cost of the MUL changes as R0 grows
func prepareLoop() (*arm7.ARM, *bus.RAM) {
	arm, mem := prepareTestARM()
	putARM(mem, 0x100, 0xe2800001, 0xe0020090, 0xeafffffc)
	return arm, mem
}

func TestResumable(t *testing.T) {
	a, amem := prepareLoop()
	b, bmem := prepareLoop()

	ca := a.Run(100)
	ca += a.Run(50)
	cb := b.Run(150)

	test.ExpectEquality(t, ca, cb)
	test.ExpectEquality(t, a.Cycles(), b.Cycles())
	test.ExpectEquality(t, a.Remaining(), b.Remaining())
	test.ExpectEquality(t, string(amem.Bytes()), string(bmem.Bytes()))

	// compare the entire state, including the overshoot
	exportAll := cmp.Exporter(func(reflect.Type) bool { return true })
	test.ExpectNoDiff(t, a.Snapshot(), b.Snapshot(), exportAll)
}

func TestRunBudget(t *testing.T) {
	arm, mem := prepareTestARM()
	for addr := uint32(0x100); addr < 0x1000; addr += 4 {
		putARM(mem, addr, nop)
	}

	// NOP costs 3 cycles. a budget of 10 executes 4 instructions and
	// overshoots by 2
	test.ExpectEquality(t, arm.Run(10), 12)
	test.ExpectEquality(t, arm.Remaining(), -2)
	test.ExpectEquality(t, arm.Register(15), uint32(0x110))

	// the overshoot is deducted from the next budget
	test.ExpectEquality(t, arm.Run(8), 6)
	test.ExpectEquality(t, arm.Register(15), uint32(0x118))

	// a budget smaller than the overshoot executes nothing
	test.ExpectEquality(t, arm.Run(1), 3)
	test.ExpectEquality(t, arm.Remaining(), -2)
	test.ExpectEquality(t, arm.Run(1), 0)
	test.ExpectEquality(t, arm.Remaining(), -1)
	test.ExpectEquality(t, arm.Run(2), 3)
}

func TestDebugHook(t *testing.T) {
	arm, mem := prepareTestARM()
	putARM(mem, 0x100, nop, nop, nop, nop)

	var pcs []uint32
	arm.SetDebugHook(func(pc uint32) bool {
		pcs = append(pcs, pc)
		return pc == 0x108
	})

	test.ExpectEquality(t, arm.Run(1000), 6)
	test.ExpectEquality(t, arm.Register(15), uint32(0x108))
	test.ExpectNoDiff(t, pcs, []uint32{0x100, 0x104, 0x108})

	arm.SetDebugHook(nil)
	test.ExpectEquality(t, arm.Run(3), 3)
	test.ExpectEquality(t, arm.Register(15), uint32(0x10c))
}

func TestResetWhileRunning(t *testing.T) {
	arm, mem := prepareTestARM()
	putARM(mem, 0x100, nop, nop, nop, nop)

	arm.SetDebugHook(func(pc uint32) bool {
		if pc == 0x104 {
			arm.Reset()
		}
		return false
	})

	// the instruction at 0x104 completes before the reset takes effect
	test.ExpectEquality(t, arm.Run(1000), 6)
	test.ExpectEquality(t, arm.Register(15), uint32(0))
	test.ExpectEquality(t, arm.Registers().Mode(), arm7.ModeSVC)
}

func TestStop(t *testing.T) {
	arm, mem := prepareTestARM()
	putARM(mem, 0x100, nop, nop, nop, nop)

	// Stop() outside of Run() has no effect
	arm.Stop()
	test.ExpectEquality(t, arm.Run(3), 3)

	arm.SetObserver(arm7.ObserverFunc(func(e arm7.TraceEntry) {
		arm.Stop()
	}))
	test.ExpectEquality(t, arm.Run(1000), 3)
	test.ExpectEquality(t, arm.Register(15), uint32(0x108))
}

func TestObserver(t *testing.T) {
	arm, mem := prepareTestARM()

	// MOV R0, #1
	// MOVEQ R0, #2
	putARM(mem, 0x100, 0xe3a00001, 0x03a00002)

	var entries []arm7.TraceEntry
	arm.SetObserver(arm7.ObserverFunc(func(e arm7.TraceEntry) {
		entries = append(entries, e)
	}))
	arm.Step()
	arm.Step()

	test.DemandEquality(t, len(entries), 2)

	e := entries[0]
	test.ExpectEquality(t, e.PC, uint32(0x100))
	test.ExpectEquality(t, e.Opcode, uint32(0xe3a00001))
	test.ExpectEquality(t, e.Mnemonic, "MOV")
	test.ExpectEquality(t, e.Operands, "R0, #$1")
	test.ExpectEquality(t, e.Before[0], uint32(0))
	test.ExpectEquality(t, e.After[0], uint32(1))
	test.ExpectEquality(t, e.After[15], uint32(0x104))
	test.ExpectEquality(t, e.Cycles, 3)
	test.ExpectEquality(t, e.Executed, true)

	e = entries[1]
	test.ExpectEquality(t, e.Mnemonic, "MOVEQ")
	test.ExpectEquality(t, e.Cycles, 1)
	test.ExpectEquality(t, e.Executed, false)
}

func TestSuspend(t *testing.T) {
	arm, mem := prepareTestARM()
	putARM(mem, 0x100, nop)

	arm.Suspend(true)
	test.ExpectEquality(t, arm.Suspended(), true)
	test.ExpectEquality(t, arm.Run(100), 100)
	test.ExpectEquality(t, arm.Step(), 0)
	test.ExpectEquality(t, arm.Register(15), uint32(0x100))
	test.ExpectEquality(t, arm.Cycles(), int64(0))

	arm.Suspend(false)
	test.ExpectEquality(t, arm.Step(), 3)
	test.ExpectEquality(t, arm.Cycles(), int64(3))
}

func TestMemoryFault(t *testing.T) {
	arm, mem := prepareTestARM()

	// LDR R0, [R1]
	putARM(mem, 0x100, 0xe5910000, nop)
	arm.SetRegister(1, 0x80000000)

	arm.Step()
	err := arm.Err()
	test.ExpectFailure(t, err)
	test.ExpectSuccess(t, curated.Is(err, bus.MemoryFault))
	test.ExpectEquality(t, arm.Register(0), uint32(bus.IllegalAccessValue))
}

type testCoprocessor struct {
	value uint32
}

func (cp *testCoprocessor) Number() int {
	return 15
}

func (cp *testCoprocessor) Operation(opcode uint8, crd int, crn int, crm int, info uint8) bool {
	return false
}

func (cp *testCoprocessor) DataTransfer(load bool, long bool, crd int, mem bus.Memory, addr uint32) (int, bool) {
	return 0, false
}

func (cp *testCoprocessor) RegisterTransfer(load bool, opcode uint8, crn int, crm int, info uint8, value uint32) (uint32, bool) {
	if load {
		return cp.value, true
	}
	cp.value = value
	return 0, true
}

func TestCoprocessor(t *testing.T) {
	arm, mem := prepareTestARM()
	cp := &testCoprocessor{value: 0x1234}

	test.ExpectSuccess(t, arm.AttachCoprocessor(cp))
	test.ExpectFailure(t, arm.AttachCoprocessor(cp))

	// MRC p15, 0, R0, c1, c0, 0
	// MCR p15, 0, R1, c1, c0, 0
	// CDP p15, 0, c0, c0, c0, 0
	putARM(mem, 0x100, 0xee110f10, 0xee011f10, 0xee000f00)
	arm.SetRegister(1, 0x5678)

	test.ExpectEquality(t, arm.Step(), 3)
	test.ExpectEquality(t, arm.Register(0), uint32(0x1234))

	test.ExpectEquality(t, arm.Step(), 3)
	test.ExpectEquality(t, cp.value, uint32(0x5678))

	// the coprocessor refuses the CDP
	test.ExpectEquality(t, arm.Step(), 4)
	test.ExpectFailure(t, arm.Err())

	// nothing attached. the reset clears the pending undefined instruction
	// exception
	arm.DetachCoprocessor(15)
	arm.Reset()
	arm.SetRegister(15, 0x100)
	test.ExpectEquality(t, arm.Step(), 4)
	test.ExpectFailure(t, arm.Err())
}

func TestClose(t *testing.T) {
	arm, mem := prepareTestARM()
	putARM(mem, 0x100, nop, nop, nop)

	// closing more than once is safe and the ARM still runs afterwards
	arm.Close()
	arm.Close()
	test.ExpectEquality(t, arm.Run(9), 9)
	test.ExpectEquality(t, arm.Register(15), uint32(0x10c))
}
