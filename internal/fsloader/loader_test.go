package fsloader

import (
	"testing"

	"github.com/spf13/afero"
)

func TestLoadResolvesFromSearchDirs(t *testing.T) {
	l := NewMemory("/inc")
	afero.WriteFile(l.Fs, "/inc/foo.h", []byte("content"), 0644)

	got, err := l.Load("foo.h")
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if got != "content" {
		t.Fatalf("got %q", got)
	}
}

func TestLoadMissingFileErrors(t *testing.T) {
	l := NewMemory("/inc")
	if _, err := l.Load("missing.h"); err == nil {
		t.Fatalf("expected error for missing include")
	}
}

func TestLoadDetectsIncludeCycle(t *testing.T) {
	l := NewMemory("/inc")
	afero.WriteFile(l.Fs, "/inc/a.h", []byte("a"), 0644)

	l.inFlight["/inc/a.h"] = true
	if _, err := l.Load("a.h"); err == nil {
		t.Fatalf("expected cycle error")
	}
}

func TestLoadAbsolutePath(t *testing.T) {
	l := NewMemory()
	afero.WriteFile(l.Fs, "/abs/path/foo.h", []byte("x"), 0644)

	got, err := l.Load("/abs/path/foo.h")
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if got != "x" {
		t.Fatalf("got %q", got)
	}
}
