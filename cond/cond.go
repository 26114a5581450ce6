// Package cond implements the conditional-compilation state machine as
// three flat counters (Level, SkipLevel, ElseSkipLevel) rather than a
// stack of frames. That is a deliberate departure from the teacher's
// condStack (internal/preprocessor.go), which tracks a frame per nesting
// depth; the invariant skipLevel <= level is what lets the flatter model
// stay correct without a stack: once suppression begins at some depth,
// every deeper #if/#ifdef/#ifndef is guarded by "if not currently
// skipping" and so never overwrites the marker that will unsuppress at
// the matching #endif.
package cond

import "errors"

// ErrUnbalanced reports an #endif/#else/#elif with no matching open
// conditional. A stream that ends with Level != 0 is detected through
// Balanced instead.
var ErrUnbalanced = errors.New("unbalanced conditional directive")

// Machine holds the conditional nesting depth and suppression markers:
// level, skipLevel, elseSkipLevel.
type Machine struct {
	Level         int
	SkipLevel     int
	ElseSkipLevel int
}

// New returns a Machine at depth 0 with no suppression armed.
func New() *Machine {
	return &Machine{SkipLevel: -1, ElseSkipLevel: -1}
}

// Active reports whether output and directive side effects are currently
// permitted. The invariant skipLevel <= level (maintained by every method
// below) means this collapses to "skipLevel is armed".
func (m *Machine) Active() bool {
	return m.SkipLevel < 0
}

// Open handles #if, #ifdef, and #ifndef: predicate is the already-
// evaluated truth of the condition (E, "defined(X)", or "!defined(X)").
func (m *Machine) Open(predicate bool) {
	wasSkipping := m.SkipLevel >= 0
	m.Level++
	if wasSkipping {
		return
	}
	if predicate {
		m.ElseSkipLevel = m.Level
	} else {
		m.SkipLevel = m.Level
	}
}

// Elif handles #elif: it closes the previous arm of the current #if
// chain and opens a new one at the same depth. It returns ErrUnbalanced
// if there is no open conditional at all.
func (m *Machine) Elif(predicate bool) error {
	if m.Level == 0 {
		return ErrUnbalanced
	}
	switch {
	case m.SkipLevel < 0 || m.Level == m.ElseSkipLevel:
		// An earlier arm in this chain was already taken (the arm just
		// closed was active, or one before it was); every later arm,
		// regardless of its own predicate, stays suppressed.
		m.SkipLevel = m.Level
		m.ElseSkipLevel = m.Level
	case m.Level == m.SkipLevel:
		if predicate {
			m.SkipLevel = -1
			m.ElseSkipLevel = m.Level
		}
		// else: still no arm taken yet, stay suppressed at this depth.
	default:
		// Nested under an outer skip that isn't tracked at this depth;
		// leave the outer suppression alone.
	}
	return nil
}

// Else handles #else. It returns ErrUnbalanced if there is no open
// conditional at all.
func (m *Machine) Else() error {
	if m.Level == 0 {
		return ErrUnbalanced
	}
	switch {
	case m.SkipLevel < 0 || m.Level == m.ElseSkipLevel:
		m.SkipLevel = m.Level
		m.ElseSkipLevel = m.Level
	case m.Level == m.SkipLevel:
		m.SkipLevel = -1
		m.ElseSkipLevel = m.Level
	default:
		// Nested under an outer skip; no-op.
	}
	return nil
}

// Endif handles #endif. It returns ErrUnbalanced if there is no open
// conditional to close.
func (m *Machine) Endif() error {
	if m.Level == 0 {
		return ErrUnbalanced
	}
	if m.Level == m.SkipLevel {
		m.SkipLevel = -1
	}
	if m.Level == m.ElseSkipLevel {
		m.ElseSkipLevel = -1
	}
	m.Level--
	return nil
}

// Balanced reports whether the stream may legally end here: Level must
// have returned to 0.
func (m *Machine) Balanced() bool {
	return m.Level == 0
}
