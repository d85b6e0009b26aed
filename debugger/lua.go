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
	"strings"

	lua "github.com/yuin/gopher-lua"
)

// newLua creates the interpreter used for breakpoint conditions and scripts
func (dbg *Debugger) newLua() *lua.LState {
	L := lua.NewState()

	L.SetGlobal("reg", L.NewFunction(func(L *lua.LState) int {
		n := L.CheckInt(1)
		if n < 0 || n > 15 {
			L.ArgError(1, "register out of range")
			return 0
		}
		L.Push(lua.LNumber(dbg.arm.Register(n)))
		return 1
	}))

	L.SetGlobal("pc", L.NewFunction(func(L *lua.LState) int {
		L.Push(lua.LNumber(dbg.arm.Register(15)))
		return 1
	}))

	L.SetGlobal("cpsr", L.NewFunction(func(L *lua.LState) int {
		L.Push(lua.LNumber(dbg.arm.CPSR()))
		return 1
	}))

	L.SetGlobal("peek", L.NewFunction(func(L *lua.LState) int {
		addr := uint32(L.CheckNumber(1))
		L.Push(lua.LNumber(dbg.mem.Read32(addr)))
		return 1
	}))

	L.SetGlobal("cycles", L.NewFunction(func(L *lua.LState) int {
		L.Push(lua.LNumber(dbg.arm.Cycles()))
		return 1
	}))

	L.SetGlobal("step", L.NewFunction(func(L *lua.LState) int {
		L.Push(lua.LNumber(dbg.step(L.OptInt(1, 1))))
		return 1
	}))

	L.SetGlobal("run", L.NewFunction(func(L *lua.LState) int {
		L.Push(lua.LNumber(dbg.run(L.CheckInt(1))))
		L.Push(lua.LBool(dbg.halted))
		return 2
	}))

	L.SetGlobal("breakpoint", L.NewFunction(func(L *lua.LState) int {
		addr := uint32(L.CheckNumber(1))
		if err := dbg.breakpoints.add(addr, L.OptString(2, "")); err != nil {
			L.RaiseError("%v", err)
		}
		return 0
	}))

	L.SetGlobal("command", L.NewFunction(func(L *lua.LState) int {
		if err := dbg.Execute(L.CheckString(1)); err != nil {
			L.RaiseError("%v", err)
		}
		return 0
	}))

	// print writes to the debugger's output rather than stdout
	L.SetGlobal("print", L.NewFunction(func(L *lua.LState) int {
		s := make([]string, L.GetTop())
		for i := range s {
			s[i] = L.ToStringMeta(L.Get(i + 1)).String()
		}
		fmt.Fprintln(dbg.out, strings.Join(s, "\t"))
		return 0
	}))

	return L
}
