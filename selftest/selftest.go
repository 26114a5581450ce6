// Package selftest is a runtime self-check harness: it exercises the
// root package's Compile against a handful of concrete scenarios, the
// way the teacher's own package exposed its worked examples through
// _test.go, here surfaced instead as a runnable report so cmd/lcpp can
// offer `--self-test` without the Go toolchain.
package selftest

import (
	"strconv"
	"strings"

	"github.com/gopherpp/lcpp"
)

// Result is one scenario's outcome: Err is nil on a match.
type Result struct {
	Name string
	Err  error
}

type scenario struct {
	name  string
	input string
	want  string
}

var scenarios = []scenario{
	{
		name:  "object-like macro",
		input: "#define LEET 0x1337\nint x = LEET;",
		want:  "int x = 0x1337;",
	},
	{
		name:  "function-like macro",
		input: "#define MAX(x,y) ((x)>(y)?(x):(y))\nint z = MAX(a, b);",
		want:  "int z = ((a)>(b)?(a):(b));",
	},
	{
		name:  "ifdef/else chooses the right arm",
		input: "#define TRUE\n#ifdef TRUE\nA\n#else\nB\n#endif",
		want:  "A",
	},
	{
		name:  "elif with defined and logical operators",
		input: "#define X\n#if defined(Y)\nno\n#elif defined(X) && !defined(Y)\nyes\n#else\nno\n#endif",
		want:  "yes",
	},
	{
		name:  "continuation and multi-line function macro",
		input: "#define F(x) \\\n  (x+1)\nint v = F(7);",
		want:  "int v = (7+1);",
	},
	{
		name:  "comments removed, directive still recognized",
		input: "/* prelude */\n#define K 5 // trailing\nK",
		want:  "5",
	},
}

// Run compiles every scenario and reports whether its output matched,
// modulo leading/trailing whitespace on each line.
func Run() []Result {
	results := make([]Result, 0, len(scenarios))
	for _, sc := range scenarios {
		got, _, err := lcpp.Compile(sc.input, nil, lcpp.Options{})
		if err == nil && normalize(got) != normalize(sc.want) {
			err = &mismatchError{want: sc.want, got: got}
		}
		results = append(results, Result{Name: sc.name, Err: err})
	}
	return results
}

func normalize(s string) string {
	lines := strings.Split(s, "\n")
	for i, l := range lines {
		lines[i] = strings.TrimSpace(l)
	}
	return strings.TrimSpace(strings.Join(lines, "\n"))
}

type mismatchError struct {
	want, got string
}

func (e *mismatchError) Error() string {
	return "want " + strconv.Quote(e.want) + ", got " + strconv.Quote(e.got)
}
