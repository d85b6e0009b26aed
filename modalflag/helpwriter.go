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

package modalflag

import (
	"fmt"
	"io"
	"strings"

	getopt "github.com/pborman/getopt/v2"
)

// writeHelp amends the usage message produced by the getopt package with the
// list of sub-modes and any additional help
func writeHelp(output io.Writer, flags *getopt.Set, banner string, subModes []string, additionalHelp string) {
	if output == nil {
		return
	}

	if banner != "" {
		fmt.Fprintf(output, "Help for %s mode\n", banner)
	}

	flags.PrintUsage(output)

	if len(subModes) > 0 {
		fmt.Fprintf(output, "\n  available sub-modes: %s\n", strings.Join(subModes, ", "))
		fmt.Fprintf(output, "    default: %s\n", subModes[0])
	}

	if additionalHelp != "" {
		fmt.Fprintf(output, "\n%s\n", additionalHelp)
	}
}
