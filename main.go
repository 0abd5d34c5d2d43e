/*
Copyright (C) 2026  Carl-Philip Hänsch

	This program is free software: you can redistribute it and/or modify
	it under the terms of the GNU General Public License as published by
	the Free Software Foundation, either version 3 of the License, or
	(at your option) any later version.

	This program is distributed in the hope that it will be useful,
	but WITHOUT ANY WARRANTY; without even the implied warranty of
	MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
	GNU General Public License for more details.

	You should have received a copy of the GNU General Public License
	along with this program.  If not, see <https://www.gnu.org/licenses/>.
*/
/*
	logos: a small homoiconic lisp with reflection, contracts and multimethods

	usage: logos [flags] [script.l0 ...]
*/
package main

import "os"
import "fmt"
import "flag"
import "syscall"
import "os/signal"
import "github.com/dc0d/onexit"
import "github.com/logos-lang/logos/scm"

// workaround for flags package to allow multiple values
type arrayFlags []string

func (i *arrayFlags) String() string {
	return "dummy"
}

func (i *arrayFlags) Set(value string) error {
	*i = append(*i, value)
	return nil
}

func main() {
	defer onexit.Done()
	settings := scm.DefaultSettings()

	// parse command line options
	var commands arrayFlags
	flag.Var(&commands, "c", "Execute command (can be given multiple times)")
	flag.StringVar(&settings.WorkDir, "wd", settings.WorkDir, "Working Directory for (load) and (read-source) (Default: .)")
	flag.BoolVar(&settings.Trace, "trace", false, "Write a chrome trace file into $LOGOS_TRACEDIR")
	flag.Int64Var(&settings.Seed, "seed", 0, "Seed for (random); 0 seeds from the clock")
	noprelude := flag.Bool("noprelude", false, "Do not load the builtin prelude (cond, when, fold ...)")
	nobacktrace := flag.Bool("nobacktrace", false, "Print uncaught signals without source backtrace")
	doc := flag.String("doc", "", "Write markdown documentation of all builtins into this folder and exit")
	interactive := flag.Bool("i", false, "Start the REPL after running scripts and commands")
	flag.Parse()
	settings.Prelude = !*noprelude
	settings.Backtrace = !*nobacktrace

	if *doc != "" {
		if err := scm.WriteDocumentation(*doc); err != nil {
			fmt.Fprintln(os.Stderr, err)
			os.Exit(1)
		}
		return
	}

	it, err := scm.NewInterp(settings)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
	onexit.Register(func() { it.Close() })

	// install exit handler
	cancelChan := make(chan os.Signal, 1)
	signal.Notify(cancelChan, syscall.SIGTERM, syscall.SIGINT)
	go func() {
		<-cancelChan
		onexit.Done()
		os.Exit(1)
	}()

	scripts := flag.Args()
	for _, script := range scripts {
		if _, err := it.LoadFile(script, it.Globalenv); err != nil {
			it.ReportError(os.Stderr, err)
			onexit.Done()
			os.Exit(1)
		}
	}
	for _, command := range commands {
		if _, err := scm.EvalAll("command line", command, it.Globalenv); err != nil {
			it.ReportError(os.Stderr, err)
			onexit.Done()
			os.Exit(1)
		}
	}
	if (len(scripts) > 0 || len(commands) > 0) && !*interactive {
		return
	}

	fmt.Print(`logos interactive shell
    Type (help) to list all builtins, Ctrl+D to exit

`)
	if err := it.Repl(); err != nil {
		fmt.Fprintln(os.Stderr, err)
	}
}
