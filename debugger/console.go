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
	"errors"
	"io"
	"strings"

	"github.com/jetsetilly/arm7core/logger"
	"github.com/peterh/liner"
)

// complete the keyword at the start of the line
func completeKeyword(line string) []string {
	if strings.ContainsRune(line, ' ') {
		return nil
	}
	line = strings.ToUpper(line)

	var c []string
	for _, kw := range Keywords() {
		if strings.HasPrefix(kw, line) {
			c = append(c, kw)
		}
	}
	return c
}

// Console reads commands from an interactive prompt and executes them until
// the QUIT command is given or the prompt is aborted with ctrl-c.
func (dbg *Debugger) Console(prompt string) error {
	line := liner.NewLiner()
	defer line.Close()

	line.SetCtrlCAborts(true)
	line.SetCompleter(completeKeyword)

	for !dbg.quit {
		input, err := line.Prompt(prompt)
		if err != nil {
			if errors.Is(err, liner.ErrPromptAborted) || errors.Is(err, io.EOF) {
				return nil
			}
			logger.Logf(logger.Allow, "debugger", "error reading line: %v", err)
			return err
		}

		line.AppendHistory(input)

		if err := dbg.Execute(input); err != nil {
			dbg.printf("%v\n", err)
		}
	}

	return nil
}
