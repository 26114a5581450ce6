package expr

import (
	"testing"

	"github.com/gopherpp/lcpp/macro"
)

func TestEvaluateDefinedParenForm(t *testing.T) {
	table := macro.NewTable()
	table.Define("X", macro.Flag(), false)

	got, err := Evaluate(table, "defined(X)")
	if err != nil {
		t.Fatalf("Evaluate: %v", err)
	}
	if !got {
		t.Fatalf("expected true")
	}
}

func TestEvaluateDefinedBareForm(t *testing.T) {
	table := macro.NewTable()
	got, err := Evaluate(table, "defined Y")
	if err != nil {
		t.Fatalf("Evaluate: %v", err)
	}
	if got {
		t.Fatalf("expected false: Y is not defined")
	}
}

func TestEvaluateNegation(t *testing.T) {
	table := macro.NewTable()
	got, err := Evaluate(table, "!defined(Y)")
	if err != nil {
		t.Fatalf("Evaluate: %v", err)
	}
	if !got {
		t.Fatalf("expected true: Y is not defined")
	}
}

func TestEvaluateLogicalAndOr(t *testing.T) {
	table := macro.NewTable()
	table.Define("X", macro.Flag(), false)

	got, err := Evaluate(table, "defined(Y) || defined(X) && !defined(Y)")
	if err != nil {
		t.Fatalf("Evaluate: %v", err)
	}
	if !got {
		t.Fatalf("expected true")
	}
}

func TestEvaluateParentheses(t *testing.T) {
	table := macro.NewTable()
	table.Define("X", macro.Flag(), false)

	got, err := Evaluate(table, "(defined(X))")
	if err != nil {
		t.Fatalf("Evaluate: %v", err)
	}
	if !got {
		t.Fatalf("expected true")
	}
}

func TestEvaluateParseErrorCarriesInput(t *testing.T) {
	table := macro.NewTable()
	_, err := Evaluate(table, "defined(")
	if err == nil {
		t.Fatalf("expected parse error")
	}
	pe, ok := err.(*ParseError)
	if !ok {
		t.Fatalf("expected *ParseError, got %T", err)
	}
	if pe.Input != "defined(" {
		t.Fatalf("expected offending input preserved, got %q", pe.Input)
	}
}

func TestEvaluateTrailingGarbageIsParseError(t *testing.T) {
	table := macro.NewTable()
	_, err := Evaluate(table, "defined(X) defined(X)")
	if err == nil {
		t.Fatalf("expected parse error for trailing garbage")
	}
}
