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

// breakpoints are used to halt execution when the PC reaches an address.
// a breakpoint can have a condition, in which case execution only halts if
// the condition is true.

package debugger

import (
	"fmt"
	"sort"
	"strings"

	"github.com/jetsetilly/arm7core/curated"
	"github.com/jetsetilly/arm7core/logger"
	lua "github.com/yuin/gopher-lua"
)

// breaker defines a specific break condition
type breaker struct {
	addr uint32

	// the source of the condition. empty if the breakpoint is unconditional
	cond string

	// compiled condition
	fn *lua.LFunction

	// number of times the breakpoint has halted execution
	hits int
}

func (bk breaker) String() string {
	s := strings.Builder{}
	s.WriteString(fmt.Sprintf("%08x", bk.addr))
	if bk.cond != "" {
		s.WriteString(fmt.Sprintf(" if %s", bk.cond))
	}
	if bk.hits > 0 {
		s.WriteString(fmt.Sprintf(" (hits %d)", bk.hits))
	}
	return s.String()
}

// breakpoints keeps track of all the currently defined breakers
type breakpoints struct {
	dbg *Debugger

	// breakers indexed by address. only one breaker per address
	breaks map[uint32]*breaker
}

// newBreakpoints is the preferred method of initialisation for breakpoints
func newBreakpoints(dbg *Debugger) *breakpoints {
	return &breakpoints{
		dbg:    dbg,
		breaks: make(map[uint32]*breaker),
	}
}

// add a breakpoint at an address. an existing breakpoint at the same address
// is replaced. the condition is compiled immediately so that syntax errors are
// reported when the breakpoint is created
func (bp *breakpoints) add(addr uint32, cond string) error {
	bk := &breaker{
		addr: addr,
		cond: strings.TrimSpace(cond),
	}

	if bk.cond != "" {
		fn, err := bp.dbg.lua.LoadString("return " + bk.cond)
		if err != nil {
			return curated.Errorf(DebuggerError, fmt.Sprintf("breakpoint condition: %v", err))
		}
		bk.fn = fn
	}

	bp.breaks[addr] = bk
	return nil
}

// drop the breakpoint at an address. returns false if there was no
// breakpoint
func (bp *breakpoints) drop(addr uint32) bool {
	if _, ok := bp.breaks[addr]; !ok {
		return false
	}
	delete(bp.breaks, addr)
	return true
}

func (bp *breakpoints) clear() {
	bp.breaks = make(map[uint32]*breaker)
}

// check returns true if execution should halt at the address. a condition
// that fails to evaluate halts execution so that the error can be seen
func (bp *breakpoints) check(pc uint32) bool {
	bk, ok := bp.breaks[pc]
	if !ok {
		return false
	}

	if bk.fn != nil {
		L := bp.dbg.lua
		L.Push(bk.fn)
		if err := L.PCall(0, 1, nil); err != nil {
			logger.Logf(logger.Allow, "debugger", "breakpoint at %08x: %v", pc, err)
			bk.hits++
			return true
		}
		v := L.Get(-1)
		L.Pop(1)
		if !lua.LVAsBool(v) {
			return false
		}
	}

	bk.hits++
	return true
}

// list returns the breakpoints in address order
func (bp *breakpoints) list() []breaker {
	l := make([]breaker, 0, len(bp.breaks))
	for _, bk := range bp.breaks {
		l = append(l, *bk)
	}
	sort.Slice(l, func(i, j int) bool {
		return l[i].addr < l[j].addr
	})
	return l
}
