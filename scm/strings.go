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
import "strconv"
import "strings"
import "golang.org/x/text/collate"
import "golang.org/x/text/language"

func stringArg(fn string, v Scmer) (string, error) {
	s, ok := v.(string)
	if !ok {
		return "", typeError(fn, "a string", v)
	}
	return s, nil
}

// parseCollation understands LANG, LANG_ci and LANG_cs with LANG a BCP 47 code
func parseCollation(collation string) (*collate.Collator, error) {
	ci := false
	if strings.HasSuffix(collation, "_ci") {
		ci = true
		collation = collation[:len(collation)-3]
	} else if strings.HasSuffix(collation, "_cs") {
		collation = collation[:len(collation)-3]
	}
	tag, err := language.Parse(collation)
	if err != nil {
		return nil, &Signal{Kind: TypeError, Message: "unknown collation: " + collation, Payload: collation}
	}
	// Numeric sorts embedded numbers by value
	if ci {
		return collate.New(tag, collate.Numeric, collate.IgnoreCase), nil
	}
	return collate.New(tag, collate.Numeric), nil
}

func (it *Interp) rootCollator() *collate.Collator {
	if it.collator == nil {
		it.collator = collate.New(language.Und)
	}
	return it.collator
}

func init_strings() {
	DeclareTitle("Strings")

	Declare(&Declaration{
		"string-append", "concatenates the display form of all arguments",
		0, -1,
		[]DeclarationParameter{
			DeclarationParameter{"value...", "any", "parts"},
		}, "string",
		func(en *Env, a ...Scmer) (Scmer, error) {
			var b strings.Builder
			for _, x := range a {
				b.WriteString(String(x))
			}
			return b.String(), nil
		},
	})
	Declare(&Declaration{
		"string-length", "number of characters of a string",
		1, 1,
		[]DeclarationParameter{
			DeclarationParameter{"value", "string", "input string"},
		}, "int",
		func(en *Env, a ...Scmer) (Scmer, error) {
			s, err := stringArg("string-length", a[0])
			if err != nil {
				return nil, err
			}
			return int64(len([]rune(s))), nil
		},
	})
	Declare(&Declaration{
		"substring", "characters from start to end (exclusive, default: end of string)",
		2, 3,
		[]DeclarationParameter{
			DeclarationParameter{"value", "string", "input string"},
			DeclarationParameter{"start", "int", "first character, from 0"},
			DeclarationParameter{"end", "int", "character after the last one"},
		}, "string",
		func(en *Env, a ...Scmer) (Scmer, error) {
			s, err := stringArg("substring", a[0])
			if err != nil {
				return nil, err
			}
			runes := []rune(s)
			start, end := ToInt(a[1]), len(runes)
			if len(a) > 2 {
				end = ToInt(a[2])
			}
			if start < 0 || end > len(runes) || start > end {
				return nil, &Signal{Kind: TypeError, Message: "substring: index out of range", Payload: List(a...)}
			}
			return string(runes[start:end]), nil
		},
	})
	Declare(&Declaration{
		"string=?", "compares strings for equality",
		2, -1,
		[]DeclarationParameter{
			DeclarationParameter{"value...", "string", "strings"},
		}, "bool",
		func(en *Env, a ...Scmer) (Scmer, error) {
			for _, x := range a {
				if _, err := stringArg("string=?", x); err != nil {
					return nil, err
				}
			}
			for i := 1; i < len(a); i++ {
				if a[i] != a[0] {
					return false, nil
				}
			}
			return true, nil
		},
	})
	Declare(&Declaration{
		"string<?", "orders strings by the root collation of the Unicode collation algorithm",
		2, -1,
		[]DeclarationParameter{
			DeclarationParameter{"value...", "string", "strings"},
		}, "bool",
		func(en *Env, a ...Scmer) (Scmer, error) {
			c := en.Interp().rootCollator()
			for i := 1; i < len(a); i++ {
				x, err := stringArg("string<?", a[i-1])
				if err != nil {
					return nil, err
				}
				y, err := stringArg("string<?", a[i])
				if err != nil {
					return nil, err
				}
				if c.CompareString(x, y) >= 0 {
					return false, nil
				}
			}
			return true, nil
		},
	})
	Declare(&Declaration{
		"collate", "returns the `<` operator for a given collation with natural sorting of numbers",
		1, 2,
		[]DeclarationParameter{
			DeclarationParameter{"collation", "string", "collation string of the form LANG, LANG_ci or LANG_cs where LANG is a BCP 47 code"},
			DeclarationParameter{"reverse", "bool", "whether to return `>` instead"},
		}, "func",
		func(en *Env, a ...Scmer) (Scmer, error) {
			c, err := parseCollation(String(a[0]))
			if err != nil {
				return nil, err
			}
			reverse := len(a) > 1 && ToBool(a[1])
			// collators are not safe for concurrent use; interpreters are single threaded
			return &Declaration{
				"collate " + String(a[0]), "compares two strings",
				2, 2,
				[]DeclarationParameter{
					DeclarationParameter{"a", "string", "left side"},
					DeclarationParameter{"b", "string", "right side"},
				}, "bool",
				func(en *Env, b ...Scmer) (Scmer, error) {
					cmp := c.CompareString(String(b[0]), String(b[1]))
					if reverse {
						return cmp == 1, nil
					}
					return cmp == -1, nil
				},
			}, nil
		},
	})
	affix := func(name, desc string, test func(s, affix string) bool) {
		Declare(&Declaration{
			name, desc,
			2, 2,
			[]DeclarationParameter{
				DeclarationParameter{"value", "string", "string to check"},
				DeclarationParameter{"affix", "string", "part to look for"},
			}, "bool",
			func(en *Env, a ...Scmer) (Scmer, error) {
				s, err := stringArg(name, a[0])
				if err != nil {
					return nil, err
				}
				x, err := stringArg(name, a[1])
				if err != nil {
					return nil, err
				}
				return test(s, x), nil
			},
		})
	}
	affix("starts-with?", "tells whether a string starts with a prefix", strings.HasPrefix)
	affix("ends-with?", "tells whether a string ends with a suffix", strings.HasSuffix)
	affix("string-contains?", "tells whether a string contains another one", strings.Contains)
	Declare(&Declaration{
		"string-upcase", "converts a string to upper case",
		1, 1,
		[]DeclarationParameter{
			DeclarationParameter{"value", "string", "input string"},
		}, "string",
		func(en *Env, a ...Scmer) (Scmer, error) {
			s, err := stringArg("string-upcase", a[0])
			return strings.ToUpper(s), err
		},
	})
	Declare(&Declaration{
		"string-downcase", "converts a string to lower case",
		1, 1,
		[]DeclarationParameter{
			DeclarationParameter{"value", "string", "input string"},
		}, "string",
		func(en *Env, a ...Scmer) (Scmer, error) {
			s, err := stringArg("string-downcase", a[0])
			return strings.ToLower(s), err
		},
	})
	Declare(&Declaration{
		"string-split", "splits a string at every separator",
		2, 2,
		[]DeclarationParameter{
			DeclarationParameter{"value", "string", "input string"},
			DeclarationParameter{"separator", "string", "separator"},
		}, "list",
		func(en *Env, a ...Scmer) (Scmer, error) {
			s, err := stringArg("string-split", a[0])
			if err != nil {
				return nil, err
			}
			parts := strings.Split(s, String(a[1]))
			result := make([]Scmer, len(parts))
			for i, p := range parts {
				result[i] = p
			}
			return List(result...), nil
		},
	})
	Declare(&Declaration{
		"string-join", "joins the display forms of a list with a separator",
		1, 2,
		[]DeclarationParameter{
			DeclarationParameter{"list", "list", "parts"},
			DeclarationParameter{"separator", "string", "separator, default empty"},
		}, "string",
		func(en *Env, a ...Scmer) (Scmer, error) {
			list, err := listArg("string-join", a[0])
			if err != nil {
				return nil, err
			}
			parts := make([]string, len(list))
			for i, x := range list {
				parts[i] = String(x)
			}
			sep := ""
			if len(a) > 1 {
				sep = String(a[1])
			}
			return strings.Join(parts, sep), nil
		},
	})

	DeclareTitle("Conversion")
	Declare(&Declaration{
		"symbol", "creates a symbol from the display form of its arguments",
		1, -1,
		[]DeclarationParameter{
			DeclarationParameter{"part...", "any", "parts of the name"},
		}, "symbol",
		func(en *Env, a ...Scmer) (Scmer, error) {
			var b strings.Builder
			for _, x := range a {
				b.WriteString(String(x))
			}
			return Symbol(b.String()), nil
		},
	})
	Declare(&Declaration{
		"string->symbol", "converts a string to a symbol",
		1, 1,
		[]DeclarationParameter{
			DeclarationParameter{"value", "string", "name"},
		}, "symbol",
		func(en *Env, a ...Scmer) (Scmer, error) {
			s, err := stringArg("string->symbol", a[0])
			return Symbol(s), err
		},
	})
	Declare(&Declaration{
		"symbol->string", "name of a symbol",
		1, 1,
		[]DeclarationParameter{
			DeclarationParameter{"value", "symbol", "symbol"},
		}, "string",
		func(en *Env, a ...Scmer) (Scmer, error) {
			s, ok := a[0].(Symbol)
			if !ok {
				return nil, typeError("symbol->string", "a symbol", a[0])
			}
			return string(s), nil
		},
	})
	Declare(&Declaration{
		"number->string", "prints a number",
		1, 1,
		[]DeclarationParameter{
			DeclarationParameter{"value", "number", "number"},
		}, "string",
		func(en *Env, a ...Scmer) (Scmer, error) {
			if !isNumber(a[0]) {
				return nil, typeError("number->string", "a number", a[0])
			}
			return SerializeToString(a[0]), nil
		},
	})
	Declare(&Declaration{
		"string->number", "parses a number; returns #f if the string is no number",
		1, 1,
		[]DeclarationParameter{
			DeclarationParameter{"value", "string", "text"},
		}, "number|bool",
		func(en *Env, a ...Scmer) (Scmer, error) {
			s, err := stringArg("string->number", a[0])
			if err != nil {
				return nil, err
			}
			s = strings.TrimSpace(s)
			if i, err := strconv.ParseInt(s, 10, 64); err == nil {
				return i, nil
			}
			if f, err := strconv.ParseFloat(s, 64); err == nil {
				return f, nil
			}
			return false, nil
		},
	})
	Declare(&Declaration{
		"read-string", "reads the first form of a string as code-as-data",
		1, 1,
		[]DeclarationParameter{
			DeclarationParameter{"code", "string", "source text"},
		}, "any",
		func(en *Env, a ...Scmer) (Scmer, error) {
			s, err := stringArg("read-string", a[0])
			if err != nil {
				return nil, err
			}
			code, err := NewReader("string", s).Next()
			if err == io.EOF {
				return nil, nil
			}
			if err != nil {
				return nil, asSignal(err)
			}
			return code, nil
		},
	})
	Declare(&Declaration{
		"serialize", "prints a value as readable source text",
		1, 1,
		[]DeclarationParameter{
			DeclarationParameter{"value", "any", "value"},
		}, "string",
		func(en *Env, a ...Scmer) (Scmer, error) {
			return SerializeToString(a[0]), nil
		},
	})
}
