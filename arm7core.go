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

package main

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strings"

	"github.com/jetsetilly/arm7core/debugger"
	"github.com/jetsetilly/arm7core/debugger/terminal"
	"github.com/jetsetilly/arm7core/logger"
	"github.com/jetsetilly/arm7core/modalflag"
	"github.com/jetsetilly/arm7core/paths"
	"github.com/jetsetilly/arm7core/statsview"
	"github.com/jetsetilly/arm7core/trace"
	"github.com/jetsetilly/arm7core/version"
	"github.com/pkg/errors"
	"golang.org/x/term"
)

// the number of cycles between checks for all cores being suspended
const suspendCheck = 10000

func main() {
	// ctrl-c stops the scheduler at the end of the current round
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	os.Exit(launch(ctx, os.Stdout, os.Args[1:]))
}

// launch parses the arguments and runs the selected mode. returns the value
// to be used with os.Exit()
func launch(ctx context.Context, output io.Writer, args []string) int {
	md := &modalflag.Modes{Output: output}
	md.NewArgs(args)
	md.AddSubModes("RUN", "MULTI", "TRACE", "DEBUG", "VERSION")

	p, err := md.Parse()
	switch p {
	case modalflag.ParseHelp:
		return 0

	case modalflag.ParseError:
		fmt.Fprintf(output, "* error: %v\n", err)
		return 10
	}

	switch md.Mode() {
	case "RUN":
		err = run(ctx, md, output, false)

	case "MULTI":
		err = run(ctx, md, output, true)

	case "TRACE":
		err = traceMode(md, output)

	case "DEBUG":
		err = debug(md, output)

	case "VERSION":
		err = showVersion(md, output)
	}

	if err != nil {
		fmt.Fprintf(output, "* error in %s mode: %s\n", md.String(), err)
		return 20
	}

	return 0
}

func run(ctx context.Context, md *modalflag.Modes, output io.Writer, multi bool) error {
	md.NewMode()

	mf := addMachineFlags(md)
	cycles := md.AddInt("cycles", 0, "number of cycles to run for. zero runs until every core is suspended")
	quantum := md.AddInt("quantum", 0, "cycles given to each core in a scheduler round. zero uses the preference value")
	stats := md.AddBool("statsview", fmt.Sprintf("run stats server (%s)", statsview.Address))

	p, err := md.Parse()
	if err != nil || p != modalflag.ParseContinue {
		return err
	}
	defer mf.apply()()

	programs := md.RemainingArgs()
	switch {
	case len(programs) == 0:
		return fmt.Errorf("program required")
	case len(programs) > 1 && !multi:
		return fmt.Errorf("too many arguments for %s mode", md)
	}

	if *stats {
		if !statsview.Available() {
			return fmt.Errorf("statsview not available in this build")
		}
		statsview.Launch(output)
	}

	m, err := newMachine(mf, programs)
	if err != nil {
		return err
	}
	defer m.close()
	m.sch.Quantum = *quantum

	var elapsed int64
	if *cycles > 0 {
		elapsed = m.sch.RunFor(int64(*cycles))
	} else {
		m.stopWhenSuspended(suspendCheck)
		start := m.sch.Elapsed()
		err = m.sch.Start(ctx)
		elapsed = m.sch.Elapsed() - start
		if err != nil && !errors.Is(err, context.Canceled) {
			return err
		}
	}
	m.reportErrors()

	for _, arm := range m.cores {
		fmt.Fprintf(output, "%s\n%s\n\n", arm.ID, arm.String())
	}
	fmt.Fprint(output, m.sch.String())
	fmt.Fprintf(output, "%d cycles (%.6fs)\n", elapsed, m.seconds(elapsed))

	return nil
}

func traceMode(md *modalflag.Modes, output io.Writer) error {
	md.NewMode()

	mf := addMachineFlags(md)
	cycles := md.AddInt("cycles", 10000, "number of cycles to trace")
	out := md.AddString("out", "", "trace file to create. defaults to a unique name in the working directory")
	read := md.AddString("read", "", "print the contents of an existing trace file")

	p, err := md.Parse()
	if err != nil || p != modalflag.ParseContinue {
		return err
	}
	defer mf.apply()()

	if *read != "" {
		return printTrace(*read, output)
	}

	if len(md.RemainingArgs()) != 1 {
		return fmt.Errorf("one program required")
	}
	program := md.GetArg(0)

	m, err := newMachine(mf, []string{program})
	if err != nil {
		return err
	}
	defer m.close()
	arm := m.cores[0]

	fn := *out
	if fn == "" {
		fn = paths.UniqueFilename("trace", program) + ".a7tr"
	}
	f, err := os.Create(fn)
	if err != nil {
		return errors.Wrap(err, "creating trace file")
	}
	defer f.Close()

	tw, err := trace.NewWriter(f, arm.ID)
	if err != nil {
		return err
	}
	arm.SetObserver(tw)

	arm.Run(*cycles)
	m.reportErrors()

	arm.SetObserver(nil)
	if err := tw.Close(); err != nil {
		return err
	}

	fmt.Fprintf(output, "%d instructions written to %s\n", tw.Frames(), fn)
	return nil
}

func printTrace(fn string, output io.Writer) error {
	f, err := os.Open(fn)
	if err != nil {
		return errors.Wrap(err, "opening trace file")
	}
	defer f.Close()

	tr, err := trace.NewReader(f)
	if err != nil {
		return err
	}

	for {
		fr, err := tr.Next()
		if err == io.EOF {
			break // for loop
		}
		if err != nil {
			return err
		}
		fmt.Fprintln(output, fr.String())
	}

	return nil
}

func debug(md *modalflag.Modes, output io.Writer) error {
	md.NewMode()

	mf := addMachineFlags(md)
	script := md.AddString("script", "", "lua script to run before the first prompt")

	p, err := md.Parse()
	if err != nil || p != modalflag.ParseContinue {
		return err
	}
	defer mf.apply()()

	if len(md.RemainingArgs()) != 1 {
		return fmt.Errorf("one program required")
	}

	m, err := newMachine(mf, md.RemainingArgs())
	if err != nil {
		return err
	}
	defer m.close()

	dbg := debugger.NewDebugger(m.cores[0], m.maps[0], output)
	defer dbg.Close()

	if *script != "" {
		if err := dbg.Execute(fmt.Sprintf("%s %s", debugger.KeywordScript, *script)); err != nil {
			return err
		}
	}

	// an interactive terminal gets a prompt with line editing. otherwise
	// commands are read from stdin one per line
	if term.IsTerminal(int(os.Stdin.Fd())) {
		keys, err := terminal.NewTerminal(os.Stdin)
		if err != nil {
			logger.Logf(logger.Allow, "arm7core", "key stepping unavailable: %v", err)
		} else {
			dbg.SetKeyReader(keys)
		}
		return dbg.Console("> ")
	}

	scanner := bufio.NewScanner(os.Stdin)
	for !dbg.Quit() && scanner.Scan() {
		if err := dbg.Execute(scanner.Text()); err != nil {
			fmt.Fprintf(output, "%v\n", err)
		}
	}
	return scanner.Err()
}

func showVersion(md *modalflag.Modes, output io.Writer) error {
	md.NewMode()
	revision := md.AddBool("revision", "display revision information from version control")

	p, err := md.Parse()
	if err != nil || p != modalflag.ParseContinue {
		return err
	}

	ver, rev, _ := version.Version()
	s := strings.Builder{}
	s.WriteString(fmt.Sprintf("%s %s", version.ApplicationName, ver))
	if *revision && rev != "" {
		s.WriteString(fmt.Sprintf(" (%s)", rev))
	}
	fmt.Fprintln(output, s.String())

	return nil
}
