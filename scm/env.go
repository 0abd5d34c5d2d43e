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

/*
 Environments
*/

type Vars map[Symbol]Scmer

// Env is one frame of the environment chain. Closures share frames by
// pointer, so a frame stays alive as long as anything captured it.
type Env struct {
	Vars   Vars
	Outer  *Env
	interp *Interp
}

// Child creates a new frame whose parent is e.
func (e *Env) Child() *Env {
	return &Env{Vars: make(Vars), Outer: e, interp: e.interp}
}

// FindRead returns the innermost frame that binds s or nil.
func (e *Env) FindRead(s Symbol) *Env {
	for en := e; en != nil; en = en.Outer {
		if _, ok := en.Vars[s]; ok {
			return en
		}
	}
	return nil
}

func (e *Env) Lookup(s Symbol) (Scmer, error) {
	if en := e.FindRead(s); en != nil {
		return en.Vars[s], nil
	}
	return nil, &Signal{Kind: UnboundVariableError, Message: "Symbol '" + string(s) + "' is not defined", Payload: s}
}

// Define binds s in this very frame.
func (e *Env) Define(s Symbol, value Scmer) {
	e.Vars[s] = value
}

// Set mutates the frame that already owns s.
func (e *Env) Set(s Symbol, value Scmer) error {
	en := e.FindRead(s)
	if en == nil {
		return &Signal{Kind: UnboundVariableError, Message: "cannot set! undefined symbol '" + string(s) + "'", Payload: s}
	}
	en.Vars[s] = value
	return nil
}

// Root returns the global frame of the interpreter this frame belongs to.
func (e *Env) Root() *Env {
	en := e
	for en.Outer != nil {
		en = en.Outer
	}
	return en
}

func (e *Env) Interp() *Interp {
	return e.interp
}
