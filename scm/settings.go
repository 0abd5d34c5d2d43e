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
	"os"
)

type Settings struct {
	Backtrace     bool
	Trace         bool
	TracePrint    bool
	TraceDir      string
	WorkDir       string
	CacheCapacity int
	Seed          int64 // 0 = seed from the clock
	Prelude       bool
}

func DefaultSettings() Settings {
	wd, _ := os.Getwd()
	return Settings{
		Backtrace:     true,
		TraceDir:      os.Getenv("LOGOS_TRACEDIR"),
		WorkDir:       wd,
		CacheCapacity: 4096,
		Prelude:       true,
	}
}

// ChangeSettings implements (settings), (settings key) and (settings key value)
func (it *Interp) ChangeSettings(a ...Scmer) (Scmer, error) {
	s := &it.Settings
	if len(a) == 0 {
		return List(
			"Backtrace", s.Backtrace,
			"Trace", s.Trace,
			"TracePrint", s.TracePrint,
			"TraceDir", s.TraceDir,
			"WorkDir", s.WorkDir,
			"CacheCapacity", int64(s.CacheCapacity),
			"Seed", s.Seed,
			"Prelude", s.Prelude,
		), nil
	} else if len(a) == 1 {
		switch String(a[0]) {
		case "Backtrace":
			return s.Backtrace, nil
		case "Trace":
			return s.Trace, nil
		case "TracePrint":
			return s.TracePrint, nil
		case "TraceDir":
			return s.TraceDir, nil
		case "WorkDir":
			return s.WorkDir, nil
		case "CacheCapacity":
			return int64(s.CacheCapacity), nil
		case "Seed":
			return s.Seed, nil
		case "Prelude":
			return s.Prelude, nil
		default:
			return nil, NewSignal(UserError, "unknown setting: %s", String(a[0]))
		}
	}
	switch String(a[0]) {
	case "Backtrace":
		s.Backtrace = ToBool(a[1])
	case "Trace":
		if err := it.SetTrace(ToBool(a[1])); err != nil {
			return nil, err
		}
	case "TracePrint":
		s.TracePrint = ToBool(a[1])
	case "TraceDir":
		s.TraceDir = String(a[1])
	case "WorkDir":
		s.WorkDir = String(a[1])
	case "CacheCapacity":
		s.CacheCapacity = ToInt(a[1])
		it.cache.SetCapacity(s.CacheCapacity)
	case "Seed":
		s.Seed = int64(ToInt(a[1]))
		it.rand.Seed(s.Seed)
	case "Prelude":
		s.Prelude = ToBool(a[1])
	default:
		return nil, NewSignal(UserError, "unknown setting: %s", String(a[0]))
	}
	return true, nil
}
