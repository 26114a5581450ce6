package lcpp

import (
	"time"

	"github.com/sirupsen/logrus"

	"github.com/gopherpp/lcpp/cond"
	"github.com/gopherpp/lcpp/macro"
	"github.com/gopherpp/lcpp/screen"
)

// FileLoader is the injected file-system reader: it maps a filename to
// the text blob #include should recurse into. internal/fsloader provides
// the afero-backed production implementation; tests can supply any type
// with this method.
type FileLoader interface {
	Load(name string) (string, error)
}

// State is one compile invocation's mutable world: the macro table, the
// logical line counter, the conditional-compilation machine, and the
// lazy screener feeding it lines. It is single-owner within one compile;
// #include passes Defines by reference into a child State and reabsorbs
// the child's mutated table on return (see doInclude in lcpp.go).
type State struct {
	Defines *macro.Table
	Lineno  int
	Cond    *cond.Machine
	File    string

	screener    *screen.Screener
	loader      FileLoader
	includeDirs []string
	logger      *logrus.Entry
	compileTime time.Time
}

// Level is the current conditional nesting depth.
func (s *State) Level() int { return s.Cond.Level }

// SkipLevel is the depth at which the current suppression began, or -1.
func (s *State) SkipLevel() int { return s.Cond.SkipLevel }

// ElseSkipLevel is the depth at which a future #else/#elif must also be
// suppressed because the chosen arm was already taken, or -1.
func (s *State) ElseSkipLevel() int { return s.Cond.ElseSkipLevel }
