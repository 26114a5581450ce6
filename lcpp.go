// Package lcpp is the core preprocessing pipeline: the screener, macro
// table and expander, #if/#elif expression evaluator, conditional state
// machine, and the line processor and #include recursion that thread
// them together. It is grounded on the teacher's Preprocessor
// (internal/preprocessor.go), generalized to a tagged-union macro value
// and flat conditional counters instead of the teacher's stacked
// condStack.
package lcpp

import (
	"fmt"
	"regexp"
	"strings"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/gopherpp/lcpp/cond"
	"github.com/gopherpp/lcpp/expr"
	"github.com/gopherpp/lcpp/macro"
	"github.com/gopherpp/lcpp/screen"
)

// Options is the static, per-invocation configuration. A zero Options is
// usable for Compile on #include-free input: there is no default
// FileLoader, and a nil Logger is replaced by a discard logger.
type Options struct {
	// FileLoader resolves #include targets. CompileFile also uses it to
	// load the entry file. Required for any input containing #include;
	// Compile on #include-free input works with it left nil.
	FileLoader FileLoader

	// IncludeDirs is recorded on the State and passed on to the child
	// States of #include. Resolving #include targets is left entirely to
	// FileLoader, which does not see this field; a FileLoader that
	// searches directories is configured with them itself.
	IncludeDirs []string

	// Env is a default predefines table applied to every compile before
	// the call-site predefines passed to Compile/CompileFile/Init.
	// Typically populated by internal/config from a config file or
	// environment variables.
	Env *macro.Table

	// Logger receives Debug/Trace events for compile-start, #include
	// descent, and macro-redefinition overrides. A nil Logger is
	// treated as a discard logger.
	Logger *logrus.Logger
}

func (o Options) logger() *logrus.Entry {
	l := o.Logger
	if l == nil {
		l = discardLogger
	}
	return logrus.NewEntry(l)
}

var discardLogger = func() *logrus.Logger {
	l := logrus.New()
	l.SetOutput(discardWriter{})
	return l
}()

type discardWriter struct{}

func (discardWriter) Write(p []byte) (int, error) { return len(p), nil }

// Init constructs a State from text without running the driver. It
// installs Options.Env, then predefines, then the five builtin
// predefines, and wraps text in a fresh screener. Callers that just want
// compiled output should use Compile instead; Init exists for
// stepwise/testing use.
func Init(text string, predefines *macro.Table, opts Options) (*State, error) {
	return initWithFile(text, "<string>", predefines, opts)
}

func initWithFile(text, file string, predefines *macro.Table, opts Options) (*State, error) {
	table := macro.NewTable()
	logger := opts.logger()

	if opts.Env != nil {
		if err := mergeInto(table, opts.Env, logger); err != nil {
			return nil, err
		}
	}
	if predefines != nil {
		if err := mergeInto(table, predefines, logger); err != nil {
			return nil, err
		}
	}
	now := time.Now()
	installBuiltins(table, file, now)

	state := &State{
		Defines:     table,
		Cond:        cond.New(),
		File:        file,
		screener:    screen.New(text),
		loader:      opts.FileLoader,
		includeDirs: opts.IncludeDirs,
		logger:      logger,
		compileTime: now,
	}
	logger.WithField("file", file).Debug("lcpp: compile started")
	return state, nil
}

// mergeInto installs every binding of src into dst, overriding any
// existing binding (predefines are allowed to shadow each other; the
// call-site predefines table always wins over Options.Env since it is
// merged second). A logged override is not an error: RedefinitionError
// is reserved for #define directives encountered in source text.
func mergeInto(dst, src *macro.Table, logger *logrus.Entry) error {
	for _, name := range src.Names() {
		v, _ := src.Lookup(name)
		if dst.Defined(name) {
			logger.WithField("name", name).Trace("lcpp: predefine override")
		}
		if err := dst.Define(name, v, true); err != nil {
			return err
		}
	}
	return nil
}

// Compile runs the full pipeline over text and returns the concatenated
// output plus the final State.
func Compile(text string, predefines *macro.Table, opts Options) (string, *State, error) {
	state, err := Init(text, predefines, opts)
	if err != nil {
		return "", nil, err
	}
	out, err := drive(state)
	return out, state, err
}

// CompileFile loads path via opts.FileLoader, sets __FILE__ := path, and
// delegates to the same driver Compile uses.
func CompileFile(path string, predefines *macro.Table, opts Options) (string, *State, error) {
	if opts.FileLoader == nil {
		return "", nil, newError(KindIncludeNotFound, 0, "no FileLoader configured")
	}
	text, err := opts.FileLoader.Load(path)
	if err != nil {
		return "", nil, wrapError(KindIncludeNotFound, 0, fmt.Sprintf("cannot load %q: %v", path, err), err)
	}
	state, err := initWithFile(text, path, predefines, opts)
	if err != nil {
		return "", nil, err
	}
	out, err := drive(state)
	return out, state, err
}

// drive is the driver stage: it iterates lines from the screener
// through the line processor, yields surviving output lines, and
// concatenates them with newline separators. Output lines are emitted
// in strict input order.
func drive(state *State) (string, error) {
	var out strings.Builder
	for {
		line, ok := state.screener.Next()
		if !ok {
			break
		}
		state.Lineno++
		refreshLineBuiltins(state.Defines, state.Lineno)

		emitted, err := processLine(state, line)
		if err != nil {
			return "", err
		}
		if emitted == "" {
			continue
		}
		out.WriteString(emitted)
		if !strings.HasSuffix(emitted, "\n") {
			out.WriteByte('\n')
		}
	}
	if !state.Cond.Balanced() {
		return "", newError(KindUnbalancedConditional, state.Lineno,
			fmt.Sprintf("unbalanced conditional: %d level(s) still open at end of input", state.Cond.Level))
	}
	return out.String(), nil
}

// processLine implements the line processor: route directives one way,
// ordinary content the other.
func processLine(state *State, line screen.Line) (string, error) {
	if line.Kind == screen.Directive {
		return processDirectiveLine(state, line.Text)
	}
	return processBlockLine(state, line.Text)
}

func processBlockLine(state *State, text string) (string, error) {
	if !state.Cond.Active() {
		return "", nil
	}
	expanded := macro.Expand(state.Defines, text)
	if trimmed := strings.TrimSpace(expanded); trimmed != "" && trimmed[0] == '#' {
		return processDirectiveLine(state, collapseDirectiveSpacing(trimmed))
	}
	return expanded, nil
}

var directiveName = regexp.MustCompile(`\A#([A-Za-z]+)`)

func splitDirective(text string) (cmd, arg string) {
	m := directiveName.FindStringSubmatchIndex(text)
	if m == nil {
		return "", ""
	}
	cmd = text[m[2]:m[3]]
	arg = strings.TrimSpace(text[m[1]:])
	return cmd, arg
}

func collapseDirectiveSpacing(trimmed string) string {
	return "#" + strings.TrimLeft(trimmed[1:], " \t")
}

// structuralDirectives update the conditional state machine before
// suppression is checked, so an #endif inside an already-skipped block
// still closes correctly.
var structuralDirectives = map[string]bool{
	"if": true, "ifdef": true, "ifndef": true,
	"elif": true, "else": true, "endif": true,
}

func processDirectiveLine(state *State, text string) (string, error) {
	cmd, arg := splitDirective(text)

	if structuralDirectives[cmd] {
		if err := applyStructural(state, cmd, arg); err != nil {
			return "", err
		}
		return "", nil
	}

	if !state.Cond.Active() {
		return "", nil
	}

	switch cmd {
	case "include":
		return doInclude(state, arg)
	case "define":
		return "", doDefine(state, arg)
	case "undef":
		state.Defines.Undef(strings.TrimSpace(arg))
		return "", nil
	case "error":
		msg := arg
		if msg == "" {
			msg = "#error"
		}
		return "", newError(KindUser, state.Lineno, msg)
	case "pragma":
		return "", nil
	default:
		return "", newError(KindUnknownDirective, state.Lineno, "unknown directive: #"+cmd)
	}
}

// applyStructural implements the conditional-state-machine transition
// table. Expression/identifier predicates are only ever computed when
// the machine is not already skipping at the relevant depth, so a
// malformed #if/#elif inside dead code never raises an
// ExpressionParseError, matching real preprocessors, which don't
// validate expressions they never need.
func applyStructural(state *State, cmd, arg string) error {
	switch cmd {
	case "ifdef", "ifndef":
		name := strings.TrimSpace(arg)
		predicate := false
		if state.Cond.Active() {
			predicate = state.Defines.Defined(name)
			if cmd == "ifndef" {
				predicate = !predicate
			}
		}
		state.Cond.Open(predicate)
	case "if":
		predicate := false
		if state.Cond.Active() {
			v, err := expr.Evaluate(state.Defines, arg)
			if err != nil {
				return wrapError(KindExpressionParse, state.Lineno, err.Error(), err)
			}
			predicate = v
		}
		state.Cond.Open(predicate)
	case "elif":
		predicate := false
		if state.Cond.Level == state.Cond.SkipLevel {
			v, err := expr.Evaluate(state.Defines, arg)
			if err != nil {
				return wrapError(KindExpressionParse, state.Lineno, err.Error(), err)
			}
			predicate = v
		}
		if err := state.Cond.Elif(predicate); err != nil {
			return wrapError(KindUnbalancedConditional, state.Lineno, err.Error(), err)
		}
	case "else":
		if err := state.Cond.Else(); err != nil {
			return wrapError(KindUnbalancedConditional, state.Lineno, err.Error(), err)
		}
	case "endif":
		if err := state.Cond.Endif(); err != nil {
			return wrapError(KindUnbalancedConditional, state.Lineno, err.Error(), err)
		}
	}
	refreshIndentBuiltin(state.Defines, state.Cond.Level)
	return nil
}

var wholeIdentifier = regexp.MustCompile(`\A[_A-Za-z][_A-Za-z0-9]*\z`)

// doDefine implements the three #define forms: bare identifier (Flag),
// identifier + replacement (Text or Number), and identifier + (params) +
// replacement (FunctionMacro). Forms are tried in that order by how the
// directive's argument parses, not by a leading keyword.
func doDefine(state *State, arg string) error {
	name, rest, ok := splitIdentifierPrefix(arg)
	if !ok {
		return newError(KindExpressionParse, state.Lineno, "malformed #define: "+arg)
	}

	var value macro.Value
	if strings.HasPrefix(rest, "(") {
		params, body, ok := splitParams(rest)
		if !ok {
			return newError(KindExpressionParse, state.Lineno, "malformed #define parameter list: "+arg)
		}
		value = macro.FunctionValue(macro.Compile(name, params, body))
	} else {
		body := strings.TrimLeft(rest, " \t")
		value = objectLikeValue(body)
	}

	if err := state.Defines.Define(name, value, false); err != nil {
		if _, isRedef := err.(macro.ErrRedefinition); isRedef {
			state.logger.WithField("name", name).Trace("lcpp: macro redefinition override")
			return wrapError(KindRedefinition, state.Lineno, err.Error(), err)
		}
		return wrapError(KindExpressionParse, state.Lineno, err.Error(), err)
	}
	return nil
}

func objectLikeValue(body string) macro.Value {
	return macro.ParseLiteral(body)
}

func splitIdentifierPrefix(s string) (name, rest string, ok bool) {
	s = strings.TrimLeft(s, " \t")
	if s == "" || !isIdentStart(s[0]) {
		return "", "", false
	}
	i := 1
	for i < len(s) && isIdentPart(s[i]) {
		i++
	}
	return s[:i], s[i:], true
}

func splitParams(rest string) (params []string, body string, ok bool) {
	end := strings.IndexByte(rest, ')')
	if end < 0 {
		return nil, "", false
	}
	paramStr := strings.TrimSpace(rest[1:end])
	body = strings.TrimLeft(rest[end+1:], " \t")
	if paramStr == "" {
		return []string{}, body, true
	}
	raw := strings.Split(paramStr, ",")
	params = make([]string, len(raw))
	for i, p := range raw {
		name := strings.TrimSpace(p)
		if !wholeIdentifier.MatchString(name) {
			return nil, "", false
		}
		params[i] = name
	}
	return params, body, true
}

func isIdentStart(b byte) bool {
	return b == '_' || (b >= 'A' && b <= 'Z') || (b >= 'a' && b <= 'z')
}

func isIdentPart(b byte) bool {
	return isIdentStart(b) || (b >= '0' && b <= '9')
}

// doInclude delegates to the injected FileLoader, runs a child State
// over the included text sharing this State's macro table, and
// reabsorbs the child's final table. __FILE__ is restored to this
// State's own file afterward, since Defines is the same table object
// the child mutated in place; otherwise every line for the remainder of
// this file would see __FILE__ still pointing at the included file.
func doInclude(state *State, arg string) (string, error) {
	name, ok := parseIncludeTarget(arg)
	if !ok {
		return "", newError(KindExpressionParse, state.Lineno, "malformed #include: "+arg)
	}
	if state.loader == nil {
		return "", newError(KindIncludeNotFound, state.Lineno, "no FileLoader configured for #include "+arg)
	}

	text, err := state.loader.Load(name)
	if err != nil {
		return "", wrapError(KindIncludeNotFound, state.Lineno, fmt.Sprintf("cannot resolve include %q: %v", name, err), err)
	}

	state.logger.WithFields(logrus.Fields{"parent": state.File, "include": name}).Debug("lcpp: descending into include")

	child := &State{
		Defines:     state.Defines,
		Cond:        cond.New(),
		File:        name,
		screener:    screen.New(text),
		loader:      state.loader,
		includeDirs: state.includeDirs,
		logger:      state.logger,
		compileTime: state.compileTime,
	}
	installBuiltins(child.Defines, name, child.compileTime)

	out, err := drive(child)
	if err != nil {
		return "", err
	}

	state.Defines = child.Defines
	refreshLineBuiltins(state.Defines, state.Lineno)
	state.Defines.Define("__FILE__", macro.Text(state.File), true)
	refreshIndentBuiltin(state.Defines, state.Cond.Level)
	return out, nil
}

var (
	quoteInclude = regexp.MustCompile(`\A"([^"]*)"\z`)
	angleInclude = regexp.MustCompile(`\A<([^>]*)>\z`)
)

func parseIncludeTarget(arg string) (string, bool) {
	arg = strings.TrimSpace(arg)
	if m := quoteInclude.FindStringSubmatch(arg); m != nil {
		return m[1], true
	}
	if m := angleInclude.FindStringSubmatch(arg); m != nil {
		return m[1], true
	}
	return "", false
}
