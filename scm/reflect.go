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
	"bytes"
	"errors"
	"io/fs"
	"os"
	"path/filepath"
)

/*
 Reflection bridge: source files in and out of code-as-data
*/

// ResolvePath interprets relative paths against the working directory
// setting.
func (it *Interp) ResolvePath(path string) string {
	if filepath.IsAbs(path) || it.Settings.WorkDir == "" {
		return path
	}
	return filepath.Join(it.Settings.WorkDir, path)
}

// LoadFile evaluates the forms of a file one after another in en. A syntax
// error stops loading, but the forms before it have already run.
func (it *Interp) LoadFile(path string, en *Env) (Scmer, error) {
	path = it.ResolvePath(path)
	text, err := ReadSourceFile(path)
	if err != nil {
		return nil, asSignal(err)
	}
	return EvalAll(path, text, en)
}

// SerializeForms prints forms one per line.
func SerializeForms(forms []Scmer) string {
	var b bytes.Buffer
	for _, form := range forms {
		Serialize(&b, form)
		b.WriteByte('\n')
	}
	return b.String()
}

func pathArg(fn string, en *Env, v Scmer) (string, error) {
	s, ok := v.(string)
	if !ok {
		return "", typeError(fn, "a path string", v)
	}
	return en.Interp().ResolvePath(s), nil
}

func init_reflect() {
	DeclareTitle("Reflection")

	Declare(&Declaration{
		"read-source", "reads all forms of a source file as code-as-data without evaluating them",
		1, 1,
		[]DeclarationParameter{
			DeclarationParameter{"path", "string", "file name; .xz, .lz4 and .gz are decompressed"},
		}, "list",
		func(en *Env, a ...Scmer) (Scmer, error) {
			path, err := pathArg("read-source", en, a[0])
			if err != nil {
				return nil, err
			}
			text, err := ReadSourceFile(path)
			if err != nil {
				return nil, asSignal(err)
			}
			forms, err := Read(path, text)
			if err != nil {
				return nil, err
			}
			return List(forms...), nil
		},
	})
	Declare(&Declaration{
		"write-source", "prints forms into a source file, one form per line",
		2, 2,
		[]DeclarationParameter{
			DeclarationParameter{"path", "string", "file name; .xz, .lz4 and .gz are compressed"},
			DeclarationParameter{"forms", "list", "list of forms"},
		}, "int",
		func(en *Env, a ...Scmer) (Scmer, error) {
			path, err := pathArg("write-source", en, a[0])
			if err != nil {
				return nil, err
			}
			forms, err := listArg("write-source", a[1])
			if err != nil {
				return nil, err
			}
			if err := WriteSourceFile(path, SerializeForms(forms)); err != nil {
				return nil, asSignal(err)
			}
			return int64(len(forms)), nil
		},
	})
	Declare(&Declaration{
		"load", "evaluates a source file form by form in the given environment (default: global)",
		1, 2,
		[]DeclarationParameter{
			DeclarationParameter{"path", "string", "file name"},
			DeclarationParameter{"environment", "any", "target environment"},
		}, "any",
		func(en *Env, a ...Scmer) (Scmer, error) {
			path, ok := a[0].(string)
			if !ok {
				return nil, typeError("load", "a path string", a[0])
			}
			target := en.Root()
			if len(a) > 1 {
				var err error
				if target, err = envArg("load", en, a, 1); err != nil {
					return nil, err
				}
			}
			return en.Interp().LoadFile(path, target)
		},
	})
	Declare(&Declaration{
		"list-directory", "names of the entries of a directory, sorted",
		1, 1,
		[]DeclarationParameter{
			DeclarationParameter{"path", "string", "directory"},
		}, "list",
		func(en *Env, a ...Scmer) (Scmer, error) {
			path, err := pathArg("list-directory", en, a[0])
			if err != nil {
				return nil, err
			}
			entries, err := os.ReadDir(path)
			if err != nil {
				return nil, asSignal(err)
			}
			result := make([]Scmer, len(entries))
			for i, e := range entries {
				result[i] = e.Name()
			}
			return List(result...), nil
		},
	})
	Declare(&Declaration{
		"file-exists?", "tells whether a file or directory exists",
		1, 1,
		[]DeclarationParameter{
			DeclarationParameter{"path", "string", "file name"},
		}, "bool",
		func(en *Env, a ...Scmer) (Scmer, error) {
			path, err := pathArg("file-exists?", en, a[0])
			if err != nil {
				return nil, err
			}
			_, err = os.Stat(path)
			if errors.Is(err, fs.ErrNotExist) {
				return false, nil
			}
			if err != nil {
				return nil, asSignal(err)
			}
			return true, nil
		},
	})
}
