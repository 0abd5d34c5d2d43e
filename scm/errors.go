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
	"strings"
)

type Kind string

const (
	SyntaxError          Kind = "SyntaxError"
	UnboundVariableError Kind = "UnboundVariableError"
	ArityError           Kind = "ArityError"
	NotApplicableError   Kind = "NotApplicableError"
	UserError            Kind = "UserError"
	ContractViolation    Kind = "ContractViolation"
	NoMatchingMethod     Kind = "NoMatchingMethod"
	TypeError            Kind = "TypeError"
	IOError              Kind = "IOError"
	AssertionError       Kind = "AssertionError"
)

// maximum number of source locations a signal remembers while unwinding
const maxBacktrace = 16

// Signal is the one error value of the language. It travels as a Go error
// out of Eval and becomes an ordinary value once a (try ... (catch e ...))
// handler binds it.
type Signal struct {
	Kind       Kind
	Message    string
	Payload    Scmer
	Incomplete bool // reader hit end of input inside a list or string
	Backtrace  []SourceInfo
}

func (s *Signal) Error() string {
	return string(s.Kind) + ": " + s.Message
}

// Report renders the signal with its backtrace for the REPL and script mode.
func (s *Signal) Report() string {
	var b strings.Builder
	b.WriteString(s.Error())
	for _, si := range s.Backtrace {
		b.WriteString("\n  in ")
		b.WriteString(si.String())
	}
	return b.String()
}

func NewSignal(kind Kind, format string, args ...any) *Signal {
	return &Signal{Kind: kind, Message: fmt.Sprintf(format, args...)}
}

func typeError(fn string, want string, got Scmer) *Signal {
	return &Signal{Kind: TypeError, Message: fmt.Sprintf("%s expects %s, got %s", fn, want, TypeName(got)), Payload: got}
}

// asSignal turns any error into a signal; host errors become IOError
func asSignal(err error) *Signal {
	var sig *Signal
	if errors.As(err, &sig) {
		return sig
	}
	return &Signal{Kind: IOError, Message: err.Error()}
}

// IsKind reports whether err is a signal of the given kind.
func IsKind(err error, kind Kind) bool {
	var sig *Signal
	return errors.As(err, &sig) && sig.Kind == kind
}

// withSource records the position of the list form a signal unwinds through.
func withSource(err error, form *Pair) error {
	if form == nil || form.pos == nil {
		return err
	}
	sig := asSignal(err)
	if n := len(sig.Backtrace); n < maxBacktrace && (n == 0 || sig.Backtrace[n-1] != *form.pos) {
		sig.Backtrace = append(sig.Backtrace, *form.pos)
	}
	return sig
}
