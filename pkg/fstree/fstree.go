/*
Author: KleaSCM
Email: KleaSCM@gmail.com
File: fstree.go
Description: afero-backed implementation of the srccat Tree abstraction. The CLI
walks the real filesystem through afero.OsFs; tests use an in-memory MemMapFs.
*/

package fstree

import (
	"fmt"
	"path/filepath"

	"github.com/kleascm/srccat/pkg/interfaces"
	"github.com/spf13/afero"
)

// Tree lists directories of an afero filesystem
type Tree struct {
	fs afero.Fs
}

// New wraps an afero filesystem
func New(fs afero.Fs) *Tree {
	return &Tree{fs: fs}
}

// NewOS returns a Tree over the host filesystem
func NewOS() *Tree {
	return New(afero.NewOsFs())
}

// Fs returns the underlying filesystem
func (t *Tree) Fs() afero.Fs {
	return t.fs
}

// ListChildren returns the direct children of dir in name order.
func (t *Tree) ListChildren(dir string) ([]interfaces.FileEntry, error) {
	infos, err := afero.ReadDir(t.fs, dir)
	if err != nil {
		return nil, fmt.Errorf("listing %s: %w", dir, err)
	}

	entries := make([]interfaces.FileEntry, 0, len(infos))
	for _, info := range infos {
		entries = append(entries, &Entry{
			fs:    t.fs,
			path:  filepath.Join(dir, info.Name()),
			isDir: info.IsDir(),
		})
	}
	return entries, nil
}

// Open returns the entry for a single path
func (t *Tree) Open(p string) (*Entry, error) {
	info, err := t.fs.Stat(p)
	if err != nil {
		return nil, err
	}
	return &Entry{fs: t.fs, path: p, isDir: info.IsDir()}, nil
}

// Entry is a FileEntry backed by afero
type Entry struct {
	fs    afero.Fs
	path  string
	isDir bool
}

// IsDir reports whether the entry is a directory
func (e *Entry) IsDir() bool { return e.isDir }

// Path returns the entry path as it was listed
func (e *Entry) Path() string { return e.path }

// Contents reads the whole file
func (e *Entry) Contents() ([]byte, error) {
	if e.isDir {
		return nil, fmt.Errorf("%s is a directory", e.path)
	}
	return afero.ReadFile(e.fs, e.path)
}

// String makes entries print as their path
func (e *Entry) String() string { return e.path }
