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
import "path/filepath"

// Declaration describes a primitive. The registry is static metadata shared
// by all interpreters; NewInterp binds every declared Fn into its own root
// frame.
type Declaration struct {
	Name         string
	Desc         string
	MinParameter int
	MaxParameter int // -1 = unbounded
	Params       []DeclarationParameter
	Returns      string // any | string | number | int | bool | func | list | symbol | nil
	Fn           func(en *Env, a ...Scmer) (Scmer, error)
}

type DeclarationParameter struct {
	Name string
	Type string // any | string | number | int | bool | func | list | symbol | nil
	Desc string
}

var declaration_titles []string
var declarations map[string]*Declaration = make(map[string]*Declaration)

func DeclareTitle(title string) {
	declaration_titles = append(declaration_titles, "#"+title)
}

func Declare(def *Declaration) {
	declaration_titles = append(declaration_titles, def.Name)
	declarations[def.Name] = def
}

func init() {
	init_core()
	init_alu()
	init_list()
	init_strings()
	init_hashmap()
	init_math()
	init_multimethod()
	init_reflect()
	init_cache()
	init_instrument()
	init_watch()
}

// slugify makes a filesystem-safe, lowercase slug from a chapter title.
func slugify(s string) string {
	s = strings.ToLower(strings.TrimSpace(s))
	s = strings.ReplaceAll(s, " ", "-")
	var b strings.Builder
	for _, r := range s {
		if (r >= 'a' && r <= 'z') || (r >= '0' && r <= '9') || r == '-' || r == '_' {
			b.WriteRune(r)
		}
	}
	out := b.String()
	if out == "" {
		out = "chapter"
	}
	return out
}

func arityString(def *Declaration) string {
	if def.MaxParameter < 0 {
		return fmt.Sprintf("%d or more", def.MinParameter)
	}
	if def.MinParameter == def.MaxParameter {
		return fmt.Sprintf("%d", def.MinParameter)
	}
	return fmt.Sprintf("%d–%d", def.MinParameter, def.MaxParameter)
}

type chapter struct {
	Title string
	Slug  string
	Fns   []*Declaration
}

func chapters() []*chapter {
	var result []*chapter
	var current *chapter
	for _, t := range declaration_titles {
		if len(t) > 0 && t[0] == '#' {
			current = &chapter{Title: t[1:], Slug: slugify(t[1:])}
			result = append(result, current)
			continue
		}
		def, ok := declarations[t]
		if !ok {
			continue
		}
		if current == nil {
			current = &chapter{Title: "General", Slug: "general"}
			result = append(result, current)
		}
		current.Fns = append(current.Fns, def)
	}
	return result
}

// WriteDocumentation generates Markdown docs:
// - index.md with links to chapters
// - one <chapter>.md file per chapter, containing all primitives of that chapter
func WriteDocumentation(folder string) error {
	if err := os.MkdirAll(folder, 0o755); err != nil {
		return fmt.Errorf("failed to create folder %q: %w", folder, err)
	}
	chs := chapters()

	indexPath := filepath.Join(folder, "index.md")
	indexFile, err := os.Create(indexPath)
	if err != nil {
		return fmt.Errorf("failed to create %s: %w", indexPath, err)
	}
	defer indexFile.Close()

	fmt.Fprint(indexFile, "# Documentation\n\n")
	for _, ch := range chs {
		if len(ch.Fns) == 0 {
			continue
		}
		fmt.Fprintf(indexFile, "- [%s](%s.md)\n", ch.Title, ch.Slug)
	}

	for _, ch := range chs {
		if len(ch.Fns) == 0 {
			continue
		}
		fp := filepath.Join(folder, ch.Slug+".md")
		f, err := os.Create(fp)
		if err != nil {
			return fmt.Errorf("failed to create %s: %w", fp, err)
		}
		fmt.Fprintf(f, "# %s\n\n", ch.Title)
		for _, def := range ch.Fns {
			fmt.Fprintf(f, "## %s\n\n", def.Name)
			if def.Desc != "" {
				fmt.Fprintf(f, "%s\n\n", def.Desc)
			}
			fmt.Fprintf(f, "**Allowed number of parameters:** %s\n\n", arityString(def))
			fmt.Fprint(f, "### Parameters\n\n")
			if len(def.Params) == 0 {
				fmt.Fprint(f, "_This function has no parameters._\n\n")
			} else {
				for _, p := range def.Params {
					fmt.Fprintf(f, "- **%s** (`%s`): %s\n", p.Name, p.Type, p.Desc)
				}
				fmt.Fprintln(f)
			}
			fmt.Fprintf(f, "### Returns\n\n`%s`\n\n", def.Returns)
		}
		if err := f.Close(); err != nil {
			return fmt.Errorf("failed to write %s: %w", fp, err)
		}
	}
	return nil
}

func types_match(given string, required string) bool {
	if given == "any" || required == "any" {
		return true
	}
	if given == "int" && required == "number" {
		return true // we allow int to number but not otherwise
	}
	for _, r := range strings.Split(required, "|") {
		for _, g := range strings.Split(given, "|") {
			if r == g {
				return true
			}
		}
	}
	return false
}

// Validate checks the calls to primitives inside code without running it
// and returns the guessed type of the code ("any" if unknown). Quoted data
// is not inspected.
func Validate(val Scmer, require string) (string, error) {
	switch v := val.(type) {
	case nil:
		return "nil", nil
	case string:
		return "string", nil
	case float64:
		return "number", nil
	case int64:
		return "int", nil
	case bool:
		return "bool", nil
	case *Pair:
		list, ok := ToSlice(v)
		if !ok {
			return "any", nil
		}
		head, _ := list[0].(Symbol)
		switch head {
		case "quote", "quasiquote":
			return "any", nil
		case "lambda", "defmacro":
			return "func", validateAll(from(list, 2))
		case "defun", "defcontract":
			return "func", validateAll(from(list, 3))
		case "let", "let*":
			if len(list) > 1 {
				if _, inits, err := letBindings(list[1]); err == nil {
					if err := validateAll(inits); err != nil {
						return "any", err
					}
				}
			}
			return "any", validateAll(from(list, 2))
		}
		def := declarations[string(head)]
		if def == nil {
			return "any", validateAll(list[1:])
		}
		pos := ""
		if v.pos != nil {
			pos = v.pos.String() + ": "
		}
		if len(list)-1 < def.MinParameter || def.MaxParameter >= 0 && len(list)-1 > def.MaxParameter {
			return "any", &Signal{Kind: ArityError, Message: pos + declarationArityError(def, len(list)-1).Message, Payload: v}
		}
		for i := 1; i < len(list); i++ {
			subrequired := "any"
			if len(def.Params) > 0 {
				j := i - 1
				if j >= len(def.Params) {
					j = len(def.Params) - 1
				}
				subrequired = def.Params[j].Type
			}
			typ, err := Validate(list[i], subrequired)
			if err != nil {
				return "any", err
			}
			if !types_match(typ, subrequired) {
				return "any", &Signal{Kind: TypeError, Message: fmt.Sprintf("%sfunction %s expects parameter %d to be %s, but found value of type %s", pos, def.Name, i, subrequired, typ), Payload: v}
			}
		}
		return def.Returns, nil
	}
	return "any", nil
}

func from(list []Scmer, n int) []Scmer {
	if n > len(list) {
		return nil
	}
	return list[n:]
}

func validateAll(list []Scmer) error {
	for _, x := range list {
		if _, err := Validate(x, "any"); err != nil {
			return err
		}
	}
	return nil
}

func Help(w io.Writer, fn Scmer) error {
	if fn == nil {
		fmt.Fprintln(w, "Available functions:")
		for _, title := range declaration_titles {
			if title[0] == '#' {
				fmt.Fprintln(w, "")
				fmt.Fprintln(w, "-- "+title[1:]+" --")
			} else {
				fmt.Fprintln(w, "  "+title+": "+strings.Split(declarations[title].Desc, "\n")[0])
			}
		}
		fmt.Fprintln(w, "")
		fmt.Fprintln(w, "get further information by typing (help \"functionname\") to get more info")
		return nil
	}
	def := DeclarationForValue(fn)
	if def == nil {
		return NewSignal(UserError, "function not found: %s", String(fn))
	}
	fmt.Fprintln(w, "Help for: "+def.Name)
	fmt.Fprintln(w, "===")
	fmt.Fprintln(w, "")
	fmt.Fprintln(w, def.Desc)
	fmt.Fprintln(w, "")
	fmt.Fprintln(w, "Allowed nø of parameters: "+arityString(def))
	fmt.Fprintln(w, "")
	for _, p := range def.Params {
		fmt.Fprintln(w, " - "+p.Name+" ("+p.Type+"): "+p.Desc)
	}
	fmt.Fprintln(w, "")
	return nil
}

// DeclarationForValue resolves a name or primitive value to its Declaration.
func DeclarationForValue(v Scmer) *Declaration {
	switch h := v.(type) {
	case string:
		return declarations[h]
	case Symbol:
		return declarations[string(h)]
	case *Declaration:
		return h
	}
	return nil
}
