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
	"io"
	"math/rand"
	"os"
	"time"

	"github.com/google/uuid"
	"golang.org/x/text/collate"
)

// Interp owns everything one running program can observe: the root frame,
// settings, the memoization cache, metrics, the random source, the trace
// file and file watches. Interpreters never share state.
type Interp struct {
	ID        uuid.UUID
	Settings  Settings
	Globalenv *Env
	Out       io.Writer // target of print and display

	start    time.Time
	rand     *rand.Rand
	cache    *Cache
	metrics  map[string][]Scmer
	jitSeen  map[string]bool
	trace    *Tracefile
	watch    *watchState
	collator *collate.Collator
}

func NewInterp(settings Settings) (*Interp, error) {
	it := &Interp{
		ID:       uuid.New(),
		Settings: settings,
		Out:      os.Stdout,
		start:    time.Now(),
		metrics:  make(map[string][]Scmer),
		jitSeen:  make(map[string]bool),
	}
	seed := settings.Seed
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	it.rand = rand.New(rand.NewSource(seed))
	it.cache = NewCache(settings.CacheCapacity)
	it.Globalenv = &Env{Vars: make(Vars), interp: it}
	it.Globalenv.Vars[Symbol("true")] = true
	it.Globalenv.Vars[Symbol("false")] = false
	it.Globalenv.Vars[Symbol("nil")] = nil
	for _, def := range declarations {
		if def.Fn != nil {
			it.Globalenv.Vars[Symbol(def.Name)] = def
		}
	}
	if settings.Trace {
		if err := it.SetTrace(true); err != nil {
			return nil, err
		}
	}
	if settings.Prelude {
		if _, err := EvalAll("prelude.l0", preludeSource, it.Globalenv); err != nil {
			it.Close()
			return nil, err
		}
	}
	return it, nil
}

// Close releases the trace file and file watches. The interpreter must not
// be used afterwards.
func (it *Interp) Close() error {
	var err error
	if it.watch != nil {
		err = it.watch.close()
		it.watch = nil
	}
	if terr := it.SetTrace(false); terr != nil && err == nil {
		err = terr
	}
	it.cache.Clear()
	return err
}

// EvalString reads and evaluates all forms of code in the root frame.
func (it *Interp) EvalString(code string) (Scmer, error) {
	return EvalAll("eval", code, it.Globalenv)
}

// EvalAll evaluates the forms of s one by one; forms before a syntax error
// have already run when the error is returned.
func EvalAll(source, s string, en *Env) (result Scmer, err error) {
	r := NewReader(source, s)
	for {
		code, err := r.Next()
		if err == io.EOF {
			return result, nil
		}
		if err != nil {
			return result, err
		}
		result, err = Eval(code, en)
		if err != nil {
			return result, err
		}
	}
}

// ClockMillis is the monotonic time since the interpreter was created.
func (it *Interp) ClockMillis() float64 {
	return float64(time.Since(it.start).Microseconds()) / 1000.0
}
