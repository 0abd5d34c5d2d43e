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
	"path/filepath"
	"strings"
	"testing"
	"time"
)

func TestSourceRoundTrip(t *testing.T) {
	for _, name := range []string{"prog.l0", "prog.l0.xz", "prog.l0.lz4", "prog.l0.gz"} {
		t.Run(name, func(t *testing.T) {
			it := newTestInterp(t)
			mustEval(t, it, `(define forms '((define (sq x) (* x x)) (display "a\nb") (sq 4)))`)
			expectSerialized(t, it, `(write-source "`+name+`" forms)`, "3")
			expectSerialized(t, it, `(equal? forms (read-source "`+name+`"))`, "#t")
			expectSerialized(t, it, `(load "`+name+`")`, "16")
			expectSerialized(t, it, "(sq 5)", "25")
		})
	}
}

func TestCompressedFilesAreCompressed(t *testing.T) {
	dir := t.TempDir()
	text := strings.Repeat("(display \"the same line again\")\n", 200)
	for _, ext := range []string{".xz", ".lz4", ".gz"} {
		path := filepath.Join(dir, "big.l0"+ext)
		if err := WriteSourceFile(path, text); err != nil {
			t.Fatalf("write %s: %v", path, err)
		}
		info, err := os.Stat(path)
		if err != nil {
			t.Fatalf("stat: %v", err)
		}
		if info.Size() >= int64(len(text)) {
			t.Errorf("%s is not smaller than its text: %d", ext, info.Size())
		}
		back, err := ReadSourceFile(path)
		if err != nil || back != text {
			t.Errorf("%s did not round trip: %v", ext, err)
		}
	}
}

func TestLoadRunsFormsBeforeSyntaxError(t *testing.T) {
	it := newTestInterp(t)
	path := filepath.Join(it.Settings.WorkDir, "broken.l0")
	if err := os.WriteFile(path, []byte("(define before 1)\n(define after"), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}
	sig := mustFail(t, it, `(load "broken.l0")`, SyntaxError)
	if !strings.Contains(sig.Message, "broken.l0:2:1") {
		t.Errorf("syntax error should point at the open list: %s", sig.Message)
	}
	expectSerialized(t, it, "before", "1")
	mustFail(t, it, "after", UnboundVariableError)
}

func TestLoadIntoEnvironment(t *testing.T) {
	it := newTestInterp(t)
	path := filepath.Join(it.Settings.WorkDir, "module.l0")
	if err := os.WriteFile(path, []byte("(define inner 5)"), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}
	mustEval(t, it, "(define sandbox (let () (the-environment)))")
	mustEval(t, it, `(load "module.l0" sandbox)`)
	expectSerialized(t, it, "(eval 'inner sandbox)", "5")
	mustFail(t, it, "inner", UnboundVariableError)
	mustFail(t, it, `(load "missing.l0")`, IOError)
}

func TestDirectoryPrimitives(t *testing.T) {
	it := newTestInterp(t)
	for _, name := range []string{"b.l0", "a.l0"} {
		if err := os.WriteFile(filepath.Join(it.Settings.WorkDir, name), nil, 0o644); err != nil {
			t.Fatalf("write: %v", err)
		}
	}
	expectSerialized(t, it, `(list-directory ".")`, `("a.l0" "b.l0")`)
	expectSerialized(t, it, `(file-exists? "a.l0")`, "#t")
	expectSerialized(t, it, `(file-exists? "c.l0")`, "#f")
	mustFail(t, it, `(list-directory "nope")`, IOError)
}

func TestWatchReloadsChangedFiles(t *testing.T) {
	it := newTestInterp(t)
	path := filepath.Join(it.Settings.WorkDir, "live.l0")
	if err := os.WriteFile(path, []byte("(define version 1)"), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}
	mustEval(t, it, `(watch "live.l0")`)
	expectSerialized(t, it, "version", "1")
	if err := os.WriteFile(path, []byte("(define version 2)"), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}
	deadline := time.Now().Add(5 * time.Second)
	for {
		if _, err := it.PollWatches(); err != nil {
			t.Fatalf("poll: %v", err)
		}
		if v, _ := it.Globalenv.Lookup("version"); v == int64(2) {
			break
		}
		if time.Now().After(deadline) {
			t.Fatalf("file change was not picked up")
		}
		time.Sleep(20 * time.Millisecond)
	}
	expectSerialized(t, it, `(unwatch "live.l0")`, "#t")
	expectSerialized(t, it, `(unwatch "live.l0")`, "#f")
}
