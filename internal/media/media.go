// Package media manages the library of lineup video clips referenced by
// spots. Imported files are copied under the library directory with a
// generated name so spot records never point outside it.
package media

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
)

// ErrOutsideLibrary is returned when a reference tries to escape the
// library directory.
var ErrOutsideLibrary = errors.New("reference outside media library")

// Library is a directory of imported clips.
type Library struct {
	dir string
}

// NewLibrary opens the library at dir, creating it if needed.
func NewLibrary(dir string) (*Library, error) {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("create media dir: %w", err)
	}
	return &Library{dir: dir}, nil
}

// Dir returns the library directory.
func (l *Library) Dir() string { return l.dir }

// Import copies src into the library and returns the stored file name,
// which is what a spot's VideoPath records.
func (l *Library) Import(src string) (string, error) {
	in, err := os.Open(src)
	if err != nil {
		return "", fmt.Errorf("open source clip: %w", err)
	}
	defer in.Close()

	name := uuid.NewString() + strings.ToLower(filepath.Ext(src))
	out, err := os.Create(filepath.Join(l.dir, name))
	if err != nil {
		return "", fmt.Errorf("create library file: %w", err)
	}

	if _, err := io.Copy(out, in); err != nil {
		out.Close()
		os.Remove(out.Name())
		return "", fmt.Errorf("copy clip: %w", err)
	}
	if err := out.Close(); err != nil {
		return "", err
	}
	return name, nil
}

// Resolve turns a stored name back into an absolute path.
func (l *Library) Resolve(name string) (string, error) {
	if name == "" || name != filepath.Base(name) {
		return "", fmt.Errorf("%w: %q", ErrOutsideLibrary, name)
	}
	return filepath.Abs(filepath.Join(l.dir, name))
}

// Remove deletes a stored clip. Removing a clip that is already gone is
// not an error.
func (l *Library) Remove(name string) error {
	path, err := l.Resolve(name)
	if err != nil {
		return err
	}
	if err := os.Remove(path); err != nil && !errors.Is(err, os.ErrNotExist) {
		return err
	}
	return nil
}
