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
	"fmt"
	"io"
	"strconv"
	"strings"
)

/*
 Reader: source text to code-as-data

 The reader is lazy. Next() scans exactly one top-level form so that load
 can evaluate a form before the following one is even tokenized.
*/

type tokenKind int

const (
	tokEOF tokenKind = iota
	tokOpen
	tokClose
	tokDot
	tokSugar // ' ` , ,@
	tokAtom
)

type token struct {
	kind  tokenKind
	value Scmer
	pos   SourceInfo
}

type Reader struct {
	source string
	text   string
	pos    int
	line   int
	col    int
}

func NewReader(source, text string) *Reader {
	return &Reader{source: source, text: text, line: 1, col: 1}
}

// Reset restarts reading at the beginning of the text.
func (r *Reader) Reset() {
	r.pos = 0
	r.line = 1
	r.col = 1
}

// Next returns the next top-level form; io.EOF after the last one.
func (r *Reader) Next() (Scmer, error) {
	tok, err := r.token()
	if err != nil {
		return nil, err
	}
	if tok.kind == tokEOF {
		return nil, io.EOF
	}
	return r.form(tok)
}

// Read returns all forms of a text.
func Read(source, text string) ([]Scmer, error) {
	r := NewReader(source, text)
	var result []Scmer
	for {
		code, err := r.Next()
		if err == io.EOF {
			return result, nil
		}
		if err != nil {
			return result, err
		}
		result = append(result, code)
	}
}

func syntaxError(pos SourceInfo, incomplete bool, format string, args ...any) *Signal {
	return &Signal{Kind: SyntaxError, Message: pos.String() + ": " + fmt.Sprintf(format, args...), Incomplete: incomplete}
}

// Syntactic Analysis
func (r *Reader) form(tok token) (Scmer, error) {
	switch tok.kind {
	case tokAtom:
		return tok.value, nil
	case tokClose:
		return nil, syntaxError(tok.pos, false, "unexpected )")
	case tokDot:
		return nil, syntaxError(tok.pos, false, "unexpected .")
	case tokSugar:
		next, err := r.token()
		if err != nil {
			return nil, err
		}
		if next.kind == tokEOF {
			return nil, syntaxError(tok.pos, true, "expecting a form after %s", String(tok.value))
		}
		inner, err := r.form(next)
		if err != nil {
			return nil, err
		}
		pos := tok.pos
		return &Pair{Car: tok.value, Cdr: &Pair{Car: inner}, pos: &pos}, nil
	}
	// tokOpen
	var items []Scmer
	var tail Scmer
	for {
		next, err := r.token()
		if err != nil {
			return nil, err
		}
		switch next.kind {
		case tokEOF:
			return nil, syntaxError(tok.pos, true, "expecting matching )")
		case tokClose:
			return r.list(items, tail, tok.pos), nil
		case tokDot:
			if len(items) == 0 {
				return nil, syntaxError(next.pos, false, "unexpected .")
			}
			t, err := r.token()
			if err != nil {
				return nil, err
			}
			if t.kind == tokEOF {
				return nil, syntaxError(tok.pos, true, "expecting matching )")
			}
			if tail, err = r.form(t); err != nil {
				return nil, err
			}
			c, err := r.token()
			if err != nil {
				return nil, err
			}
			if c.kind == tokEOF {
				return nil, syntaxError(tok.pos, true, "expecting matching )")
			}
			if c.kind != tokClose {
				return nil, syntaxError(c.pos, false, "expecting ) after dotted tail")
			}
			return r.list(items, tail, tok.pos), nil
		default:
			v, err := r.form(next)
			if err != nil {
				return nil, err
			}
			items = append(items, v)
		}
	}
}

func (r *Reader) list(items []Scmer, tail Scmer, pos SourceInfo) Scmer {
	result := ListWithTail(items, tail)
	if p, ok := result.(*Pair); ok {
		p.pos = &pos
	}
	return result
}

// Lexical Analysis
func (r *Reader) advance() {
	if r.text[r.pos] == '\n' {
		r.line++
		r.col = 1
	} else if r.text[r.pos]&0xC0 != 0x80 {
		// count runes, not continuation bytes
		r.col++
	}
	r.pos++
}

func isDelimiter(ch byte) bool {
	switch ch {
	case ' ', '\t', '\r', '\n', '(', ')', '"', ';':
		return true
	}
	return false
}

func (r *Reader) token() (token, error) {
	// skip white space and ; comments
	for r.pos < len(r.text) {
		ch := r.text[r.pos]
		if ch == ';' {
			for r.pos < len(r.text) && r.text[r.pos] != '\n' {
				r.advance()
			}
		} else if ch == ' ' || ch == '\t' || ch == '\r' || ch == '\n' {
			r.advance()
		} else {
			break
		}
	}
	pos := SourceInfo{r.source, r.line, r.col}
	if r.pos >= len(r.text) {
		return token{kind: tokEOF, pos: pos}, nil
	}
	switch r.text[r.pos] {
	case '(':
		r.advance()
		return token{kind: tokOpen, pos: pos}, nil
	case ')':
		r.advance()
		return token{kind: tokClose, pos: pos}, nil
	case '\'':
		r.advance()
		return token{kind: tokSugar, value: Symbol("quote"), pos: pos}, nil
	case '`':
		r.advance()
		return token{kind: tokSugar, value: Symbol("quasiquote"), pos: pos}, nil
	case ',':
		r.advance()
		if r.pos < len(r.text) && r.text[r.pos] == '@' {
			r.advance()
			return token{kind: tokSugar, value: Symbol("unquote-splicing"), pos: pos}, nil
		}
		return token{kind: tokSugar, value: Symbol("unquote"), pos: pos}, nil
	case '"':
		return r.stringToken(pos)
	}
	start := r.pos
	for r.pos < len(r.text) && !isDelimiter(r.text[r.pos]) {
		r.advance()
	}
	word := r.text[start:r.pos]
	if word == "." {
		return token{kind: tokDot, pos: pos}, nil
	}
	v, ok := parseAtom(word)
	if !ok {
		return token{}, syntaxError(pos, false, "invalid numeric literal %s", word)
	}
	return token{kind: tokAtom, value: v, pos: pos}, nil
}

func (r *Reader) stringToken(pos SourceInfo) (token, error) {
	var b strings.Builder
	r.advance() // opening quote
	for {
		if r.pos >= len(r.text) {
			return token{}, syntaxError(pos, true, "unterminated string")
		}
		ch := r.text[r.pos]
		r.advance()
		if ch == '"' {
			return token{kind: tokAtom, value: b.String(), pos: pos}, nil
		}
		if ch != '\\' {
			b.WriteByte(ch)
			continue
		}
		if r.pos >= len(r.text) {
			return token{}, syntaxError(pos, true, "unterminated string")
		}
		esc := r.text[r.pos]
		r.advance()
		switch esc {
		case 'n':
			b.WriteByte('\n')
		case 't':
			b.WriteByte('\t')
		case 'r':
			b.WriteByte('\r')
		default:
			b.WriteByte(esc) // \" and \\
		}
	}
}

func looksNumeric(word string) bool {
	if word[0] >= '0' && word[0] <= '9' {
		return true
	}
	if len(word) > 1 && (word[0] == '+' || word[0] == '-' || word[0] == '.') {
		return word[1] >= '0' && word[1] <= '9' || word[0] != '.' && word[1] == '.' && len(word) > 2 && word[2] >= '0' && word[2] <= '9'
	}
	return false
}

// parseAtom turns a symbol-like word into its value; ok is false for
// malformed numbers
func parseAtom(word string) (Scmer, bool) {
	switch word {
	case "#t":
		return true, true
	case "#f":
		return false, true
	case "nil":
		return nil, true
	}
	if !looksNumeric(word) {
		return Symbol(word), true
	}
	if i, err := strconv.ParseInt(word, 10, 64); err == nil {
		return i, true
	}
	if f, err := strconv.ParseFloat(word, 64); err == nil {
		return f, true
	}
	return nil, false
}
