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

package scm

import (
	"errors"
	"fmt"
	"io"
	"runtime/debug"

	"github.com/chzyer/readline"
)

const newprompt = "\033[32m>\033[0m "
const contprompt = "\033[32m.\033[0m "
const resultprompt = "\033[31m=\033[0m "

// ReportError prints an uncaught signal the way REPL and script mode do.
func (it *Interp) ReportError(w io.Writer, err error) {
	sig := asSignal(err)
	if it.Settings.Backtrace {
		fmt.Fprintln(w, sig.Report())
	} else {
		fmt.Fprintln(w, sig.Error())
	}
}

// EvalInput evaluates everything typed so far. It returns true if the
// input ends inside a list or string and more lines are needed; nothing
// has been evaluated in that case.
func (it *Interp) EvalInput(input string, w io.Writer) (incomplete bool) {
	// anti-panic func
	defer func() {
		if r := recover(); r != nil {
			fmt.Fprintln(w, "panic:", r, string(debug.Stack()))
			incomplete = false
		}
	}()
	forms, err := Read("user prompt", input)
	var sig *Signal
	if errors.As(err, &sig) && sig.Incomplete {
		return true
	}
	for _, code := range forms {
		result, err := Eval(code, it.Globalenv)
		if err != nil {
			it.ReportError(w, err)
			return false
		}
		fmt.Fprint(w, resultprompt)
		fmt.Fprintln(w, SerializeToString(result))
	}
	if err != nil {
		it.ReportError(w, err)
	}
	return false
}

func (it *Interp) Repl() error {
	l, err := readline.NewEx(&readline.Config{
		Prompt:            newprompt,
		HistoryFile:       ".logos-history.tmp",
		InterruptPrompt:   "^C",
		EOFPrompt:         "exit",
		HistorySearchFold: true,
	})
	if err != nil {
		return err
	}
	defer l.Close()
	l.CaptureExitSignal()

	oldline := ""
	for {
		line, err := l.Readline()
		line = oldline + line
		if err == readline.ErrInterrupt {
			if len(line) == 0 {
				return nil
			}
			oldline = ""
			l.SetPrompt(newprompt)
			continue
		} else if err == io.EOF {
			return nil
		} else if err != nil {
			return err
		}
		if line == "" {
			continue
		}
		if _, err := it.PollWatches(); err != nil {
			it.ReportError(l.Stdout(), err)
		}
		if it.EvalInput(line, l.Stdout()) {
			oldline = line + "\n"
			l.SetPrompt(contprompt)
			continue
		}
		oldline = ""
		l.SetPrompt(newprompt)
	}
}
