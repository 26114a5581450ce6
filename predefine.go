package lcpp

import (
	"time"

	"github.com/gopherpp/lcpp/macro"
)

// installBuiltins installs the five predefines always present before user
// input: __FILE__, __LINE__, __DATE__, __TIME__, __INDENT__. __DATE__/
// __TIME__ are captured once, at the moment the outermost State is
// constructed, and are not refreshed by #include descents or by the
// per-line refresh in refreshLineBuiltins.
func installBuiltins(table *macro.Table, file string, now time.Time) {
	table.Define("__FILE__", macro.Text(file), true)
	table.Define("__LINE__", macro.Number(0), true)
	table.Define("__DATE__", macro.Text(now.Format("Jan _2 2006")), true)
	table.Define("__TIME__", macro.Text(now.Format("15:04:05")), true)
	table.Define("__INDENT__", macro.Number(0), true)
}

// refreshLineBuiltins updates __LINE__ to the current logical line number,
// called once per line the screener yields.
func refreshLineBuiltins(table *macro.Table, lineno int) {
	table.Define("__LINE__", macro.Number(int64(lineno)), true)
}

// refreshIndentBuiltin updates __INDENT__ to the current nesting depth,
// called whenever that depth changes.
func refreshIndentBuiltin(table *macro.Table, level int) {
	table.Define("__INDENT__", macro.Number(int64(level)), true)
}
