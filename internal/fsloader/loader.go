// Package fsloader is the production FileLoader: a function that maps a
// filename to a text blob for #include to recurse into. It is grounded
// on the teacher's resolveAsFile/readInclude (internal/preprocessor.go),
// generalized from direct os.ReadFile/os.Stat calls onto an afero.Fs so
// the same search-path logic is exercised against an in-memory
// filesystem in tests and a real one in production.
package fsloader

import (
	"fmt"
	"path/filepath"

	"github.com/spf13/afero"
)

// Loader resolves #include targets by searching, in order, each of Dirs,
// then the name as given (relative to the filesystem's working
// directory). The directory of the including file is not searched. It
// implements lcpp.FileLoader structurally (one method, Load) without
// importing the lcpp package.
type Loader struct {
	Fs   afero.Fs
	Dirs []string

	inFlight map[string]bool
}

// New constructs a Loader backed by the real operating-system filesystem.
func New(dirs ...string) *Loader {
	return &Loader{Fs: afero.NewOsFs(), Dirs: dirs, inFlight: map[string]bool{}}
}

// NewMemory constructs a Loader over an in-memory filesystem, for tests
// that want #include coverage without touching disk.
func NewMemory(dirs ...string) *Loader {
	return &Loader{Fs: afero.NewMemMapFs(), Dirs: dirs, inFlight: map[string]bool{}}
}

// Load resolves name against Dirs (and, for absolute paths, directly) and
// returns its contents. It refuses a path that is marked in flight, but
// a path is marked only while Load itself reads it: the mark is cleared
// before the caller processes the returned text, so a file that includes
// itself, directly or through other files, is not detected here.
func (l *Loader) Load(name string) (string, error) {
	if l.inFlight == nil {
		l.inFlight = map[string]bool{}
	}
	resolved, err := l.resolve(name)
	if err != nil {
		return "", err
	}
	if l.inFlight[resolved] {
		return "", fmt.Errorf("include cycle detected at %q", resolved)
	}
	l.inFlight[resolved] = true
	defer delete(l.inFlight, resolved)

	bs, err := afero.ReadFile(l.Fs, resolved)
	if err != nil {
		return "", err
	}
	return string(bs), nil
}

func (l *Loader) resolve(name string) (string, error) {
	if filepath.IsAbs(name) {
		if l.exists(name) {
			return filepath.Clean(name), nil
		}
		return "", fmt.Errorf("cannot resolve include %q", name)
	}
	for _, dir := range l.Dirs {
		candidate := filepath.Join(dir, name)
		if l.exists(candidate) {
			return filepath.Clean(candidate), nil
		}
	}
	if l.exists(name) {
		return filepath.Clean(name), nil
	}
	return "", fmt.Errorf("cannot resolve include %q", name)
}

func (l *Loader) exists(path string) bool {
	info, err := l.Fs.Stat(path)
	return err == nil && !info.IsDir()
}
