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

package debugger

import (
	"fmt"
	"sort"
	"strconv"
	"strings"

	"github.com/jetsetilly/arm7core/curated"
	"github.com/jetsetilly/arm7core/hardware/cpu/arm7"
	"github.com/jetsetilly/arm7core/logger"
)

// debugger keywords
const (
	KeywordHelp        = "HELP"
	KeywordStep        = "STEP"
	KeywordRun         = "RUN"
	KeywordCPU         = "CPU"
	KeywordPeek        = "PEEK"
	KeywordPoke        = "POKE"
	KeywordDisassemble = "DISASSEMBLE"
	KeywordBreak       = "BREAK"
	KeywordDrop        = "DROP"
	KeywordClear       = "CLEAR"
	KeywordList        = "LIST"
	KeywordReset       = "RESET"
	KeywordInterrupt   = "INTERRUPT"
	KeywordLua         = "LUA"
	KeywordScript      = "SCRIPT"
	KeywordMemviz      = "MEMVIZ"
	KeywordKeys        = "KEYS"
	KeywordLog         = "LOG"
	KeywordQuit        = "QUIT"
)

// Help contains the help text for the debugger's top level commands
var Help = map[string]string{
	KeywordHelp:        "Lists commands and provides help for individual debugger commands",
	KeywordStep:        "Execute one or more instructions. Breakpoints are ignored",
	KeywordRun:         "Run for a number of cycles or until a breakpoint is reached",
	KeywordCPU:         "Display the current state of the CPU",
	KeywordPeek:        "Inspect 32bit values in memory",
	KeywordPoke:        "Write a 32bit value to memory",
	KeywordDisassemble: "Disassemble instructions. Defaults to the instruction at the PC",
	KeywordBreak:       "Halt execution when the PC reaches an address. An optional Lua expression is the condition",
	KeywordDrop:        "Remove the breakpoint at an address",
	KeywordClear:       "Remove all breakpoints",
	KeywordList:        "List current breakpoints",
	KeywordReset:       "Reset the CPU",
	KeywordInterrupt:   "Assert or deassert the IRQ or FIQ line",
	KeywordLua:         "Execute a line of Lua",
	KeywordScript:      "Run a Lua script from the specified file",
	KeywordMemviz:      "Write a graphviz representation of the CPU state to the specified file",
	KeywordKeys:        "Step with single key presses. SPACE steps, R shows registers, C continues, Q leaves",
	KeywordLog:         "Show the most recent log entries or the entries with a tag. CLEAR empties the log",
	KeywordQuit:        "Exits the debugger",
}

// usage of each command
var usage = map[string]string{
	KeywordHelp:        "[command]",
	KeywordStep:        "[count]",
	KeywordRun:         "<cycles>",
	KeywordCPU:         "",
	KeywordPeek:        "<address> [count]",
	KeywordPoke:        "<address> <value>",
	KeywordDisassemble: "[address] [count]",
	KeywordBreak:       "<address> [condition]",
	KeywordDrop:        "<address>",
	KeywordClear:       "",
	KeywordList:        "",
	KeywordReset:       "",
	KeywordInterrupt:   "<IRQ|FIQ> <ON|OFF>",
	KeywordLua:         "<statement>",
	KeywordScript:      "<file>",
	KeywordMemviz:      "<file>",
	KeywordKeys:        "",
	KeywordLog:         "[count|tag|CLEAR]",
	KeywordQuit:        "",
}

// Keywords returns the list of debugger keywords in alphabetical order.
func Keywords() []string {
	k := make([]string, 0, len(Help))
	for kw := range Help {
		k = append(k, kw)
	}
	sort.Strings(k)
	return k
}

// parseValue accepts decimal and hex values. hex values are prefixed with 0x
// or $
func parseValue(s string) (uint32, error) {
	if strings.HasPrefix(s, "$") {
		s = "0x" + s[1:]
	}
	v, err := strconv.ParseUint(s, 0, 32)
	if err != nil {
		return 0, curated.Errorf(DebuggerError, fmt.Sprintf("not a value: %s", s))
	}
	return uint32(v), nil
}

func parseCount(s string) (int, error) {
	v, err := strconv.Atoi(s)
	if err != nil || v < 1 {
		return 0, curated.Errorf(DebuggerError, fmt.Sprintf("not a count: %s", s))
	}
	return v, nil
}

// Execute parses and executes a single debugger command. Keywords are not
// case sensitive. An empty input is not an error.
func (dbg *Debugger) Execute(input string) error {
	tokens := strings.Fields(input)
	if len(tokens) == 0 {
		return nil
	}

	keyword := strings.ToUpper(tokens[0])
	args := tokens[1:]

	if _, ok := Help[keyword]; !ok {
		return curated.Errorf(DebuggerError, fmt.Sprintf("unrecognised command: %s", tokens[0]))
	}

	// the number of arguments must be between lo and hi. a negative hi means
	// there is no upper limit
	argc := func(lo, hi int) error {
		if len(args) < lo || (hi >= 0 && len(args) > hi) {
			return curated.Errorf(DebuggerError, fmt.Sprintf("usage: %s %s", keyword, usage[keyword]))
		}
		return nil
	}

	switch keyword {
	case KeywordHelp:
		if err := argc(0, 1); err != nil {
			return err
		}
		if len(args) == 0 {
			dbg.printf("%s\n", strings.Join(Keywords(), " "))
			return nil
		}
		kw := strings.ToUpper(args[0])
		h, ok := Help[kw]
		if !ok {
			return curated.Errorf(DebuggerError, fmt.Sprintf("no help for %s", args[0]))
		}
		dbg.printf("%s %s\n  %s\n", kw, usage[kw], h)

	case KeywordStep:
		if err := argc(0, 1); err != nil {
			return err
		}
		n := 1
		if len(args) == 1 {
			var err error
			if n, err = parseCount(args[0]); err != nil {
				return err
			}
		}
		c := dbg.step(n)
		dbg.printf("%d cycles\n", c)
		dbg.printf("%s\n", dbg.nextInstruction())

	case KeywordRun:
		if err := argc(1, 1); err != nil {
			return err
		}
		cycles, err := parseCount(args[0])
		if err != nil {
			return err
		}
		c := dbg.run(cycles)
		if dbg.halted {
			dbg.printf("break at %08x after %d cycles\n", dbg.haltedAt, c)
		} else {
			dbg.printf("%d cycles\n", c)
		}
		dbg.printf("%s\n", dbg.nextInstruction())

	case KeywordCPU:
		if err := argc(0, 0); err != nil {
			return err
		}
		dbg.printf("%s\n", dbg.arm.String())

	case KeywordPeek:
		if err := argc(1, 2); err != nil {
			return err
		}
		addr, err := parseValue(args[0])
		if err != nil {
			return err
		}
		n := 1
		if len(args) == 2 {
			if n, err = parseCount(args[1]); err != nil {
				return err
			}
		}
		for i := 0; i < n; i++ {
			a := addr + uint32(i*4)
			dbg.printf("%08x: %08x\n", a, dbg.mem.Read32(a))
		}

	case KeywordPoke:
		if err := argc(2, 2); err != nil {
			return err
		}
		addr, err := parseValue(args[0])
		if err != nil {
			return err
		}
		val, err := parseValue(args[1])
		if err != nil {
			return err
		}
		dbg.mem.Write32(addr, val)

	case KeywordDisassemble:
		if err := argc(0, 2); err != nil {
			return err
		}
		addr := dbg.arm.Register(15)
		n := 1
		var err error
		if len(args) >= 1 {
			if addr, err = parseValue(args[0]); err != nil {
				return err
			}
		}
		if len(args) == 2 {
			if n, err = parseCount(args[1]); err != nil {
				return err
			}
		}
		dbg.disassemble(addr, n)

	case KeywordBreak:
		if err := argc(1, -1); err != nil {
			return err
		}
		addr, err := parseValue(args[0])
		if err != nil {
			return err
		}
		return dbg.breakpoints.add(addr, strings.Join(args[1:], " "))

	case KeywordDrop:
		if err := argc(1, 1); err != nil {
			return err
		}
		addr, err := parseValue(args[0])
		if err != nil {
			return err
		}
		if !dbg.breakpoints.drop(addr) {
			return curated.Errorf(DebuggerError, fmt.Sprintf("no breakpoint at %08x", addr))
		}

	case KeywordClear:
		if err := argc(0, 0); err != nil {
			return err
		}
		dbg.breakpoints.clear()

	case KeywordList:
		if err := argc(0, 0); err != nil {
			return err
		}
		l := dbg.breakpoints.list()
		if len(l) == 0 {
			dbg.printf("no breakpoints\n")
		}
		for _, bk := range l {
			dbg.printf("%s\n", bk)
		}

	case KeywordReset:
		if err := argc(0, 0); err != nil {
			return err
		}
		dbg.arm.Reset()

	case KeywordInterrupt:
		if err := argc(2, 2); err != nil {
			return err
		}
		var asserted bool
		switch strings.ToUpper(args[1]) {
		case "ON":
			asserted = true
		case "OFF":
		default:
			return curated.Errorf(DebuggerError, fmt.Sprintf("usage: %s %s", keyword, usage[keyword]))
		}
		switch strings.ToUpper(args[0]) {
		case "IRQ":
			dbg.arm.SetIRQ(asserted)
		case "FIQ":
			dbg.arm.SetFIQ(asserted)
		default:
			return curated.Errorf(DebuggerError, fmt.Sprintf("usage: %s %s", keyword, usage[keyword]))
		}

	case KeywordLua:
		if err := argc(1, -1); err != nil {
			return err
		}
		// the statement is taken from the input unchanged so that spacing
		// inside strings is preserved
		stmt := strings.TrimSpace(strings.TrimSpace(input)[len(tokens[0]):])
		if err := dbg.lua.DoString(stmt); err != nil {
			return curated.Errorf(DebuggerError, err)
		}

	case KeywordScript:
		if err := argc(1, 1); err != nil {
			return err
		}
		if err := dbg.lua.DoFile(args[0]); err != nil {
			return curated.Errorf(DebuggerError, err)
		}

	case KeywordMemviz:
		if err := argc(1, 1); err != nil {
			return err
		}
		return dbg.memviz(args[0])

	case KeywordKeys:
		if err := argc(0, 0); err != nil {
			return err
		}
		return dbg.keyMode()

	case KeywordLog:
		if err := argc(0, 1); err != nil {
			return err
		}
		if len(args) == 0 {
			logger.Tail(dbg.out, defaultLogTail)
			return nil
		}
		if strings.ToUpper(args[0]) == "CLEAR" {
			logger.Clear()
			return nil
		}
		if n, err := strconv.Atoi(args[0]); err == nil {
			if n < 1 {
				return curated.Errorf(DebuggerError, fmt.Sprintf("not a count: %s", args[0]))
			}
			logger.Tail(dbg.out, n)
			return nil
		}
		dbg.logTag(args[0])

	case KeywordQuit:
		if err := argc(0, 0); err != nil {
			return err
		}
		dbg.quit = true
	}

	return nil
}

// number of log entries shown by LOG with no arguments
const defaultLogTail = 10

// write the log entries with the tag. tags are not case sensitive
func (dbg *Debugger) logTag(tag string) {
	logger.BorrowLog(func(entries []logger.Entry) {
		for i := range entries {
			if strings.EqualFold(entries[i].Tag, tag) {
				dbg.printf("%s", entries[i].String())
			}
		}
	})
}

func (dbg *Debugger) disassemble(addr uint32, n int) {
	thumb := dbg.arm.Registers().Thumb()
	for i := 0; i < n; i++ {
		var opcode uint32
		if thumb {
			opcode = uint32(dbg.mem.Read16(addr))
		} else {
			opcode = dbg.mem.Read32(addr)
		}
		op := arm7.DecodeMode(opcode, thumb)
		mnemonic, operands := op.Disasm(addr)
		dbg.printf("%08x  %-8s %s\n", addr, mnemonic, operands)
		addr += op.Size()
	}
}
