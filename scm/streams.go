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
import "strings"
import "compress/gzip"
import "github.com/ulikunitz/xz"
import "github.com/pierrec/lz4/v4"

// module files may be stored compressed; the extension picks the codec

type stackedCloser struct {
	io.Writer
	closers []io.Closer // innermost first
}

func (s *stackedCloser) Close() error {
	var err error
	for _, c := range s.closers {
		if cerr := c.Close(); cerr != nil && err == nil {
			err = cerr
		}
	}
	return err
}

type readCloser struct {
	io.Reader
	file *os.File
}

func (r readCloser) Close() error {
	return r.file.Close()
}

// OpenSource opens a file for reading and decompresses .xz, .lz4 and .gz.
func OpenSource(path string) (io.ReadCloser, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	switch {
	case strings.HasSuffix(path, ".xz"):
		r, err := xz.NewReader(f)
		if err != nil {
			f.Close()
			return nil, fmt.Errorf("%s: %w", path, err)
		}
		return readCloser{r, f}, nil
	case strings.HasSuffix(path, ".lz4"):
		return readCloser{lz4.NewReader(f), f}, nil
	case strings.HasSuffix(path, ".gz"):
		r, err := gzip.NewReader(f)
		if err != nil {
			f.Close()
			return nil, fmt.Errorf("%s: %w", path, err)
		}
		return readCloser{r, f}, nil
	}
	return f, nil
}

// CreateSource creates a file and compresses what is written according to
// the extension. Close flushes the codec before the file.
func CreateSource(path string) (io.WriteCloser, error) {
	f, err := os.Create(path)
	if err != nil {
		return nil, err
	}
	switch {
	case strings.HasSuffix(path, ".xz"):
		w, err := xz.NewWriter(f)
		if err != nil {
			f.Close()
			return nil, fmt.Errorf("%s: %w", path, err)
		}
		return &stackedCloser{w, []io.Closer{w, f}}, nil
	case strings.HasSuffix(path, ".lz4"):
		w := lz4.NewWriter(f)
		return &stackedCloser{w, []io.Closer{w, f}}, nil
	case strings.HasSuffix(path, ".gz"):
		w := gzip.NewWriter(f)
		return &stackedCloser{w, []io.Closer{w, f}}, nil
	}
	return f, nil
}

func ReadSourceFile(path string) (string, error) {
	r, err := OpenSource(path)
	if err != nil {
		return "", err
	}
	defer r.Close()
	b, err := io.ReadAll(r)
	if err != nil {
		return "", fmt.Errorf("%s: %w", path, err)
	}
	return string(b), nil
}

func WriteSourceFile(path string, text string) error {
	w, err := CreateSource(path)
	if err != nil {
		return err
	}
	if _, err := io.WriteString(w, text); err != nil {
		w.Close()
		return fmt.Errorf("%s: %w", path, err)
	}
	return w.Close()
}
