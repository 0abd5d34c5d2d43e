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
	"fmt"
	"strconv"
	"strings"
)

// String is the display form of a value: strings appear raw, everything
// else like SerializeToString.
func String(v Scmer) string {
	if s, ok := v.(string); ok {
		return s
	}
	return SerializeToString(v)
}

// SerializeToString prints a value so that the reader yields a
// structurally equal value again (for all readable values).
func SerializeToString(v Scmer) string {
	var b bytes.Buffer
	Serialize(&b, v)
	return b.String()
}

func Serialize(b *bytes.Buffer, v Scmer) {
	serialize(b, v, make(map[*Pair]bool))
}

var stringEscaper = strings.NewReplacer("\\", "\\\\", "\"", "\\\"", "\n", "\\n", "\r", "\\r", "\t", "\\t")

var quoteSugar = map[Symbol]string{
	"quote":            "'",
	"quasiquote":       "`",
	"unquote":          ",",
	"unquote-splicing": ",@",
}

func formatFloat(f float64) string {
	s := strconv.FormatFloat(f, 'g', -1, 64)
	if !strings.ContainsAny(s, ".eIN") {
		s += ".0" // keep floats floats when read back
	}
	return s
}

// active holds the pairs currently being printed; meeting one again means
// the structure is cyclic.
func serialize(b *bytes.Buffer, v Scmer, active map[*Pair]bool) {
	switch v_ := v.(type) {
	case nil:
		b.WriteString("()")
	case bool:
		if v_ {
			b.WriteString("#t")
		} else {
			b.WriteString("#f")
		}
	case int64:
		b.WriteString(strconv.FormatInt(v_, 10))
	case float64:
		b.WriteString(formatFloat(v_))
	case string:
		b.WriteByte('"')
		stringEscaper.WriteString(b, v_)
		b.WriteByte('"')
	case Symbol:
		b.WriteString(string(v_))
	case *Pair:
		if active[v_] {
			b.WriteString("#<cycle>")
			return
		}
		if sym, ok := v_.Car.(Symbol); ok {
			if prefix, ok := quoteSugar[sym]; ok {
				if rest, ok := v_.Cdr.(*Pair); ok && rest.Cdr == nil && !active[rest] {
					b.WriteString(prefix)
					active[v_] = true
					serialize(b, rest.Car, active)
					delete(active, v_)
					return
				}
			}
		}
		b.WriteByte('(')
		var chain []*Pair
		var cur Scmer = v_
		for {
			p := cur.(*Pair)
			active[p] = true
			chain = append(chain, p)
			serialize(b, p.Car, active)
			next, ok := p.Cdr.(*Pair)
			if !ok {
				if p.Cdr != nil {
					b.WriteString(" . ")
					serialize(b, p.Cdr, active)
				}
				break
			}
			if active[next] {
				b.WriteString(" . #<cycle>")
				break
			}
			b.WriteByte(' ')
			cur = next
		}
		for _, p := range chain {
			delete(active, p)
		}
		b.WriteByte(')')
	case *HashMap:
		b.WriteString("(hash-map")
		for _, k := range v_.keys {
			b.WriteByte(' ')
			serialize(b, k, active)
			b.WriteByte(' ')
			serialize(b, v_.values[hashKey(k)], active)
		}
		b.WriteByte(')')
	case *Proc:
		serializeProcShallow(b, v_, active)
	case *Macro:
		fmt.Fprintf(b, "#<macro %s>", v_.Name)
	case *Declaration:
		fmt.Fprintf(b, "#<primitive %s>", v_.Name)
	case *Multimethod:
		fmt.Fprintf(b, "#<multimethod %s>", v_.Name)
	case *Contract:
		fmt.Fprintf(b, "#<contract %s>", v_.Name)
	case *Env:
		b.WriteString("#<environment>")
	case *Signal:
		fmt.Fprintf(b, "#<signal %s>", v_.Error())
	default:
		fmt.Fprintf(b, "#<%T %v>", v, v)
	}
}

// procedures print as their lambda expression without the captured frame
func serializeProcShallow(b *bytes.Buffer, v *Proc, active map[*Pair]bool) {
	b.WriteString("(lambda ")
	serialize(b, v.Params, active)
	for p, ok := v.Body.(*Pair); ok; p, ok = p.Cdr.(*Pair) {
		b.WriteByte(' ')
		serialize(b, p.Car, active)
	}
	b.WriteByte(')')
}
