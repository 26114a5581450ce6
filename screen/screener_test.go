package screen

import (
	"testing"

	"github.com/google/go-cmp/cmp"
)

func drain(text string) []Line {
	s := New(text)
	var out []Line
	for {
		l, ok := s.Next()
		if !ok {
			break
		}
		out = append(out, l)
	}
	return out
}

func TestBlockAndDirectiveBatching(t *testing.T) {
	got := drain("a\nb\n#define X 1\nc\nd\n")
	want := []Line{
		{Kind: Block, Text: "a\nb"},
		{Kind: Directive, Text: "#define X 1"},
		{Kind: Block, Text: "c\nd"},
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("mismatch (-want +got):\n%s", diff)
	}
}

func TestMultiLineCommentRemoved(t *testing.T) {
	got := drain("/* prelude\nspanning lines */\n#define K 5\nK\n")
	want := []Line{
		{Kind: Directive, Text: "#define K 5"},
		{Kind: Block, Text: "K"},
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("mismatch (-want +got):\n%s", diff)
	}
}

func TestSingleLineCommentRemoved(t *testing.T) {
	got := drain("#define K 5 // trailing\nK\n")
	want := []Line{
		{Kind: Directive, Text: "#define K 5"},
		{Kind: Block, Text: "K"},
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("mismatch (-want +got):\n%s", diff)
	}
}

func TestLineContinuationSpliced(t *testing.T) {
	got := drain("#define F(x) \\\n  (x+1)\nint v = F(7);\n")
	want := []Line{
		{Kind: Directive, Text: "#define F(x)    (x+1)"},
		{Kind: Block, Text: "int v = F(7);"},
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("mismatch (-want +got):\n%s", diff)
	}
}

func TestStackedContinuationsCollapseToFixpoint(t *testing.T) {
	got := drain("a \\\n\\\nb\n")
	want := []Line{
		{Kind: Block, Text: "a   b"},
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("mismatch (-want +got):\n%s", diff)
	}
}

func TestDirectiveSpacingCollapsed(t *testing.T) {
	got := drain("#   define X 1\n")
	want := []Line{
		{Kind: Directive, Text: "#define X 1"},
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("mismatch (-want +got):\n%s", diff)
	}
}

func TestNoDirectivesRoundTripsModuloWhitespace(t *testing.T) {
	got := drain("  a  \n  b  \n")
	want := []Line{
		{Kind: Block, Text: "a\nb"},
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("mismatch (-want +got):\n%s", diff)
	}
}

func TestEmptyInputYieldsNoLines(t *testing.T) {
	got := drain("")
	if len(got) != 0 {
		t.Fatalf("expected no lines, got %v", got)
	}
}
