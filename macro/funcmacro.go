package macro

import (
	"regexp"
	"strings"

	"github.com/gopherpp/lcpp/token"
)

// templatePart is one compiled fragment of a function-macro's replacement
// text: either a literal span or a reference to a positional argument.
// Compiling the replacement once into this form avoids re-deriving
// placeholders at every call site.
type templatePart struct {
	literal    string
	isParam    bool
	paramIndex int
}

// Function is a compiled function-like macro: given a whole source line,
// Apply rewrites every call-site NAME(arg, ...) in place.
type Function struct {
	Name        string
	Params      []string
	template    []templatePart
	callPattern *regexp.Regexp
}

// Compile builds a Function from a #define NAME(a, b, ...) REPLACEMENT
// directive's already-split parts. Parameter substitution in REPLACEMENT
// is whole-identifier (re-tokenized, not textual), so a parameter name
// never matches as a substring of some longer identifier.
func Compile(name string, params []string, replacement string) *Function {
	fn := &Function{Name: name, Params: params}
	fn.template = compileTemplate(replacement, params)
	fn.callPattern = compileCallPattern(name, len(params))
	return fn
}

func compileTemplate(replacement string, params []string) []templatePart {
	index := make(map[string]int, len(params))
	for i, p := range params {
		index[p] = i
	}

	var parts []templatePart
	var literal strings.Builder
	flush := func() {
		if literal.Len() > 0 {
			parts = append(parts, templatePart{literal: literal.String()})
			literal.Reset()
		}
	}

	tk := token.New(replacement, token.Default())
	for {
		tok, ok := tk.Next()
		if !ok || tok.Kind == token.KindEOF {
			break
		}
		if tok.Kind == token.KindIdentifier {
			if i, isParam := index[tok.Lexeme]; isParam {
				flush()
				parts = append(parts, templatePart{isParam: true, paramIndex: i})
				continue
			}
		}
		literal.WriteString(tok.Lexeme)
	}
	flush()
	return parts
}

// argGroup is the non-greedy "run up to the next comma or close-paren"
// pattern used to split a call site's arguments. Nested parentheses are
// explicitly unsupported, matching the teacher's scope.
const argGroup = `\s*([^,()]*?)\s*`

func compileCallPattern(name string, arity int) *regexp.Regexp {
	quoted := regexp.QuoteMeta(name)
	if arity == 0 {
		return regexp.MustCompile(`\b` + quoted + `\s*\(\s*\)`)
	}
	groups := make([]string, arity)
	for i := range groups {
		groups[i] = argGroup
	}
	return regexp.MustCompile(`\b` + quoted + `\s*\(` + strings.Join(groups, ",") + `\)`)
}

// Apply rewrites every call site of fn in line, substituting captured
// arguments into fn's compiled template. Only call sites with exactly
// len(fn.Params) arguments match; a call with a different number of
// arguments is left unchanged.
func (fn *Function) Apply(line string) string {
	matches := fn.callPattern.FindAllStringSubmatchIndex(line, -1)
	if matches == nil {
		return line
	}

	var out strings.Builder
	last := 0
	for _, m := range matches {
		out.WriteString(line[last:m[0]])
		args := make([]string, len(fn.Params))
		for i := range fn.Params {
			if 2+2*i+1 < len(m) && m[2+2*i] >= 0 {
				args[i] = line[m[2+2*i]:m[2+2*i+1]]
			}
		}
		out.WriteString(fn.render(args))
		last = m[1]
	}
	out.WriteString(line[last:])
	return out.String()
}

func (fn *Function) render(args []string) string {
	var b strings.Builder
	for _, part := range fn.template {
		if part.isParam {
			if part.paramIndex < len(args) {
				b.WriteString(args[part.paramIndex])
			}
			continue
		}
		b.WriteString(part.literal)
	}
	return b.String()
}
