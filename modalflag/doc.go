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

// Package modalflag is a wrapper for the getopt package. It provides a
// convenient method of handling program modes (and sub-modes) and allows
// different flags for each mode.
//
// Whereas a getopt.Set is parsed with the list of arguments, with modalflag
// you first call NewArgs() with the list of arguments and then Parse() with no
// arguments.
//
//	md = Modes{Output: os.Stdout}
//	md.NewArgs(os.Args[1:])
//	_, _ = md.Parse()
//
// The reason for this difference is to allow effective parsing of modes and
// sub-modes. Once the arguments have been parsed, non-flag arguments can be
// retrieved with the RemainingArgs() or GetArg() function.
//
// Flags are always long flags. Adding a flag returns a pointer to a variable
// that is set by Parse():
//
//	cycles := md.AddInt("cycles", 1000, "number of cycles to run for")
//
// A mode is a special command line argument that puts the program into a
// different mode of operation, each with its own set of flags. Sub-modes are
// added with the AddSubModes() function. The first sub-mode is the default.
//
//	md.AddSubModes("run", "trace", "debug")
//
// All sub-mode comparisons are case insensitive. After the call to Parse(),
// Mode() returns the selected mode. NewMode() then starts a new set of flags
// for the selected mode and Parse() is called again:
//
//	switch md.Mode() {
//	case "RUN":
//		md.NewMode()
//		quantum := md.AddInt("quantum", 256, "scheduler quantum")
//		p, err := md.Parse()
//		...
//	}
//
// Every mode has a --help flag. When it is given, the help for the mode is
// written to the Output field and Parse() returns ParseHelp.
package modalflag
