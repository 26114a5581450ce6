package macro

import (
	"strings"

	"github.com/gopherpp/lcpp/token"
)

// Expand runs the macro-expansion pass over line: flag/text/number macros
// substitute inline as the tokenizer walks the line; function-macro
// identifiers are left in place for a second pass applied, in table
// definition order, to the whole intermediate line. Expansion is
// single-pass over identifiers; produced text is never rescanned for
// further macros.
func Expand(table *Table, line string) string {
	tk := token.New(line, token.Default())
	queued := make(map[string]bool)

	var intermediate strings.Builder
	for {
		tok, ok := tk.Next()
		if !ok || tok.Kind == token.KindEOF {
			break
		}
		if tok.Kind == token.KindIdentifier {
			if v, bound := table.Lookup(tok.Lexeme); bound {
				if v.Kind == KindFunction {
					queued[tok.Lexeme] = true
					intermediate.WriteString(tok.Lexeme)
				} else {
					intermediate.WriteString(v.Substitution())
				}
				continue
			}
		}
		intermediate.WriteString(tok.Lexeme)
	}

	out := intermediate.String()
	if len(queued) == 0 {
		return out
	}
	for _, name := range table.Names() {
		if !queued[name] {
			continue
		}
		v, _ := table.Lookup(name)
		if v.Kind != KindFunction {
			continue
		}
		out = v.Function.Apply(out)
	}
	return out
}
