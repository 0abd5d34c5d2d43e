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

import "io"
import "os"
import "fmt"
import "sync"
import "time"
import "path/filepath"
import "encoding/json"

// Tracefile writes Chrome trace events (chrome://tracing, Perfetto).
// All methods accept a nil receiver so callers need not check whether
// tracing is on.
type Tracefile struct {
	isFirst bool
	file    io.WriteCloser
	start   time.Time
	m       sync.Mutex
}

// SetTrace closes the current trace file and opens a new one if on.
func (it *Interp) SetTrace(on bool) error {
	if it.trace != nil {
		if err := it.trace.Close(); err != nil {
			return err
		}
		it.trace = nil
	}
	it.Settings.Trace = on
	if on {
		name := fmt.Sprintf("trace_%d_%s.json", time.Now().Unix(), it.ID.String()[:8])
		f, err := os.Create(filepath.Join(it.Settings.TraceDir, name))
		if err != nil {
			it.Settings.Trace = false
			return &Signal{Kind: IOError, Message: fmt.Errorf("cannot open trace file: %w", err).Error()}
		}
		it.trace = NewTrace(f)
	}
	return nil
}

func NewTrace(file io.WriteCloser) *Tracefile {
	file.Write([]byte("["))
	result := new(Tracefile)
	result.file = file
	result.isFirst = true
	result.start = time.Now()
	return result
}

func (t *Tracefile) Close() error {
	if t == nil {
		return nil
	}
	t.file.Write([]byte("]"))
	return t.file.Close()
}

func (t *Tracefile) Duration(name string, cat string, f func()) {
	if t == nil {
		f()
		return
	}
	t.EventHalf(name, cat, "B", 0, 0)
	defer t.EventHalf(name, cat, "E", 0, 0)
	f()
}

func (t *Tracefile) Event(name string, cat string, typ string) {
	if t == nil {
		return
	}
	t.EventHalf(name, cat, typ, 0, 0)
}

func (t *Tracefile) EventHalf(name string, cat string, typ string, tid int, pid int) {
	ts := time.Since(t.start).Microseconds()
	t.EventFull(name, cat, typ, ts, tid, pid)
}

/*
	@name string function
	@cat string comma separated categories (for filtering)
	@typ B/E for begin/end, i for instant events
	@ts timestamp in microseconds
	@pid process id
	@tid thread id
*/
func (t *Tracefile) EventFull(name string, cat string, typ string, ts int64, tid int, pid int) {
	t.m.Lock()
	defer t.m.Unlock()
	if t.isFirst {
		t.isFirst = false
	} else {
		t.file.Write([]byte(",\n"))
	}
	t.file.Write([]byte("{\"name\": "))
	b, _ := json.Marshal(name)
	t.file.Write(b)
	t.file.Write([]byte(", \"cat\": "))
	b, _ = json.Marshal(cat)
	t.file.Write(b)
	t.file.Write([]byte(", \"ph\": \""))
	t.file.Write([]byte(typ))
	t.file.Write([]byte("\", \"ts\": "))
	b, _ = json.Marshal(ts)
	t.file.Write(b)
	t.file.Write([]byte(", \"pid\": "))
	b, _ = json.Marshal(pid)
	t.file.Write(b)
	t.file.Write([]byte(", \"tid\": "))
	b, _ = json.Marshal(tid)
	t.file.Write(b)
	t.file.Write([]byte(", \"s\": \"g\"}"))
}
