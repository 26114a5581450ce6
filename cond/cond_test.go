package cond

import "testing"

func TestSimpleIfElse(t *testing.T) {
	m := New()
	m.Open(true) // #if true
	if !m.Active() {
		t.Fatalf("expected active inside true #if")
	}
	if err := m.Else(); err != nil {
		t.Fatalf("Else: %v", err)
	}
	if m.Active() {
		t.Fatalf("expected suppressed inside #else of a taken #if")
	}
	if err := m.Endif(); err != nil {
		t.Fatalf("Endif: %v", err)
	}
	if !m.Balanced() {
		t.Fatalf("expected balanced after matching #endif")
	}
}

func TestFalseIfThenElse(t *testing.T) {
	m := New()
	m.Open(false)
	if m.Active() {
		t.Fatalf("expected suppressed inside false #if")
	}
	if err := m.Else(); err != nil {
		t.Fatalf("Else: %v", err)
	}
	if !m.Active() {
		t.Fatalf("expected active inside #else of a not-taken #if")
	}
	if err := m.Endif(); err != nil {
		t.Fatalf("Endif: %v", err)
	}
}

func TestElifChainTakesFirstTrueArm(t *testing.T) {
	m := New()
	m.Open(false) // #if false
	if err := m.Elif(false); err != nil {
		t.Fatalf("Elif: %v", err)
	}
	if m.Active() {
		t.Fatalf("expected suppressed: no arm taken yet")
	}
	if err := m.Elif(true); err != nil {
		t.Fatalf("Elif: %v", err)
	}
	if !m.Active() {
		t.Fatalf("expected active: this arm should be taken")
	}
	if err := m.Elif(true); err != nil {
		t.Fatalf("Elif: %v", err)
	}
	if m.Active() {
		t.Fatalf("expected suppressed: an earlier arm was already taken")
	}
	if err := m.Else(); err != nil {
		t.Fatalf("Else: %v", err)
	}
	if m.Active() {
		t.Fatalf("expected suppressed else: an earlier arm was already taken")
	}
	if err := m.Endif(); err != nil {
		t.Fatalf("Endif: %v", err)
	}
}

func TestNestedIfInsideSkippedBlockStaysSkipped(t *testing.T) {
	m := New()
	m.Open(false) // outer #if false: level 1, skipLevel 1
	m.Open(true)  // inner #if true: level 2, but we're already skipping
	if m.Active() {
		t.Fatalf("expected suppressed: nested inside an outer skip")
	}
	if err := m.Endif(); err != nil { // closes inner
		t.Fatalf("Endif: %v", err)
	}
	if m.Active() {
		t.Fatalf("expected still suppressed: outer #if still false")
	}
	if err := m.Else(); err != nil {
		t.Fatalf("Else: %v", err)
	}
	if !m.Active() {
		t.Fatalf("expected active: outer #else")
	}
	if err := m.Endif(); err != nil {
		t.Fatalf("Endif: %v", err)
	}
	if !m.Balanced() {
		t.Fatalf("expected balanced")
	}
}

func TestStrayElseIsUnbalanced(t *testing.T) {
	m := New()
	if err := m.Else(); err != ErrUnbalanced {
		t.Fatalf("expected ErrUnbalanced, got %v", err)
	}
}

func TestStrayEndifIsUnbalanced(t *testing.T) {
	m := New()
	if err := m.Endif(); err != ErrUnbalanced {
		t.Fatalf("expected ErrUnbalanced, got %v", err)
	}
}

func TestSkipLevelInvariantNeverExceedsLevel(t *testing.T) {
	m := New()
	m.Open(false)
	m.Open(false)
	m.Open(false)
	if m.SkipLevel < 0 || m.SkipLevel > m.Level {
		t.Fatalf("invariant violated: skipLevel=%d level=%d", m.SkipLevel, m.Level)
	}
}
