/*
Author: KleaSCM
Email: KleaSCM@gmail.com
File: classifier_test.go
Description: Tests for the tree classifier. Covers rule precedence, ignore
patterns, editor artifacts, missing roots, diagnostics and the parallel walk.
*/

package catalog_test

import (
	"errors"
	"os"
	"path/filepath"
	"regexp/syntax"
	"sync"
	"testing"

	"github.com/kleascm/srccat/pkg/catalog"
	"github.com/kleascm/srccat/pkg/fstree"
	"github.com/kleascm/srccat/pkg/interfaces"
	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type recordingSink struct {
	mu    sync.Mutex
	infos []string
	warns []string
}

func (s *recordingSink) Info(msg string, fields map[string]interface{}) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.infos = append(s.infos, msg)
}

func (s *recordingSink) Warn(msg string, fields map[string]interface{}) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.warns = append(s.warns, fields["path"].(string))
}

func memTree(t *testing.T, files ...string) *fstree.Tree {
	t.Helper()
	fs := afero.NewMemMapFs()
	for _, f := range files {
		require.NoError(t, afero.WriteFile(fs, f, []byte("x"), 0644))
	}
	return fstree.New(fs)
}

func classify(t *testing.T, tree *fstree.Tree, opts catalog.Options) (*catalog.Catalog, *recordingSink) {
	t.Helper()
	sink := &recordingSink{}
	c, err := catalog.NewClassifier(tree, sink, opts)
	require.NoError(t, err)
	return c.Classify("/src"), sink
}

// TestClassifyBuckets tests that every rule feeds the right bucket
func TestClassifyBuckets(t *testing.T) {
	tree := memTree(t,
		"/src/a.h", "/src/b.hpp", "/src/c.h++", "/src/d.hxx", "/src/e.hh",
		"/src/a.c", "/src/b.cpp", "/src/c.c++", "/src/d.cxx", "/src/e.cc",
		"/src/Expr.g",
		"/src/Vector",
	)

	cat, sink := classify(t, tree, catalog.Options{})
	paths := cat.Paths()

	assert.ElementsMatch(t, []string{"/src/a.h", "/src/b.hpp", "/src/c.h++", "/src/d.hxx", "/src/e.hh", "/src/Vector"}, paths.Headers)
	assert.ElementsMatch(t, []string{"/src/a.c", "/src/b.cpp", "/src/c.c++", "/src/d.cxx", "/src/e.cc"}, paths.Sources)
	assert.Equal(t, []string{"/src/Expr.g"}, paths.Grammars)
	assert.Empty(t, sink.warns)
}

// TestClassifySkipsBuildFiles tests that build files shadow every later rule
func TestClassifySkipsBuildFiles(t *testing.T) {
	tree := memTree(t,
		"/src/sconscript",
		"/src/makefile",
		"/src/makefile.g",
		"/src/makefile.am",
		"/src/expandedExpr.g",
		"/src/main.o",
	)

	cat, sink := classify(t, tree, catalog.Options{})
	assert.Zero(t, cat.Len())
	assert.Empty(t, sink.warns)
}

// TestClassifySkipsEditorFiles tests that editor artifacts never reach a bucket
func TestClassifySkipsEditorFiles(t *testing.T) {
	tree := memTree(t, "/src/foo.cpp~", "/src/#foo.cpp#", "/src/.bar.swp")

	cat, sink := classify(t, tree, catalog.Options{})
	assert.Zero(t, cat.Len())
	assert.Empty(t, sink.warns)
}

// TestClassifyUnrecognized tests that unknown files are warned about and dropped
func TestClassifyUnrecognized(t *testing.T) {
	tree := memTree(t, "/src/README.md", "/src/a.cpp")

	cat, sink := classify(t, tree, catalog.Options{})
	assert.Equal(t, []string{"/src/a.cpp"}, cat.Paths().Sources)
	assert.Equal(t, []string{"/src/README.md"}, sink.warns)
}

// TestClassifyIgnorePatterns tests that ignore patterns short-circuit classification
func TestClassifyIgnorePatterns(t *testing.T) {
	tree := memTree(t, "/src/a.cpp", "/src/b.h", "/src/notes.txt", "/src/gen/x.cpp")

	cat, sink := classify(t, tree, catalog.Options{
		IgnorePatterns: []string{`.*\.cpp$`, `notes`},
	})
	assert.Empty(t, cat.Sources)
	assert.Equal(t, []string{"/src/b.h"}, cat.Paths().Headers)
	assert.Empty(t, sink.warns, "ignored files are not unrecognized")
}

// TestClassifyIgnoreIsUnanchored tests that patterns are searched, not anchored
func TestClassifyIgnoreIsUnanchored(t *testing.T) {
	tree := memTree(t, "/src/test/a.cpp", "/src/lib/b.cpp")

	cat, _ := classify(t, tree, catalog.Options{IgnorePatterns: []string{`/test/`}})
	assert.Equal(t, []string{"/src/lib/b.cpp"}, cat.Paths().Sources)
}

// TestClassifyBadPattern tests that a bad pattern fails before walking
func TestClassifyBadPattern(t *testing.T) {
	_, err := catalog.NewClassifier(memTree(t), nil, catalog.Options{
		IgnorePatterns: []string{`ok`, `(`},
	})
	require.Error(t, err)

	var perr *catalog.PatternError
	require.ErrorAs(t, err, &perr)
	assert.Equal(t, "(", perr.Pattern)

	var serr *syntax.Error
	assert.True(t, errors.As(err, &serr))
}

// TestClassifyRecursesInOrder tests pre-order recursion and listing order
func TestClassifyRecursesInOrder(t *testing.T) {
	tree := memTree(t,
		"/src/a.cpp",
		"/src/b/x.cpp",
		"/src/b/deep/y.cpp",
		"/src/c.cpp",
	)

	cat, _ := classify(t, tree, catalog.Options{})
	assert.Equal(t, []string{"/src/a.cpp", "/src/b/deep/y.cpp", "/src/b/x.cpp", "/src/c.cpp"}, cat.Paths().Sources)
}

// TestClassifyMissingRoot tests that a missing root is an empty catalog
func TestClassifyMissingRoot(t *testing.T) {
	sink := &recordingSink{}
	c, err := catalog.NewClassifier(memTree(t), sink, catalog.Options{})
	require.NoError(t, err)

	cat := c.Classify("/does/not/exist")
	assert.Zero(t, cat.Len())
	assert.Empty(t, sink.warns)
}

// unlistableTree fails to list one directory and defers everything else
type unlistableTree struct {
	interfaces.Tree
	broken string
}

func (u unlistableTree) ListChildren(path string) ([]interfaces.FileEntry, error) {
	if path == u.broken {
		return nil, &os.PathError{Op: "open", Path: path, Err: os.ErrPermission}
	}
	return u.Tree.ListChildren(path)
}

// TestClassifyUnlistableDirectory tests that a listing failure warns and the walk continues
func TestClassifyUnlistableDirectory(t *testing.T) {
	tree := unlistableTree{
		Tree:   memTree(t, "/src/a.cpp", "/src/locked/b.cpp", "/src/open/c.h", "/src/z.h"),
		broken: "/src/locked",
	}
	sink := &recordingSink{}
	c, err := catalog.NewClassifier(tree, sink, catalog.Options{})
	require.NoError(t, err)

	cat := c.Classify("/src")
	paths := cat.Paths()
	assert.Equal(t, []string{"/src/a.cpp"}, paths.Sources)
	assert.Equal(t, []string{"/src/open/c.h", "/src/z.h"}, paths.Headers)
	assert.Equal(t, []string{"/src/locked"}, sink.warns)
}

// TestClassifyVerbose tests that diagnostics only fire when verbose
func TestClassifyVerbose(t *testing.T) {
	tree := memTree(t, "/src/a.cpp", "/src/main.o", "/src/skip.h")

	_, quiet := classify(t, tree, catalog.Options{IgnorePatterns: []string{`skip`}})
	assert.Empty(t, quiet.infos)

	_, loud := classify(t, tree, catalog.Options{IgnorePatterns: []string{`skip`}, Verbose: true})
	assert.Len(t, loud.infos, 3)
}

// TestClassifyDeterministic tests that repeated and parallel walks agree
func TestClassifyDeterministic(t *testing.T) {
	var files []string
	for _, dir := range []string{"a", "b", "c", "d", "e"} {
		for _, sub := range []string{"x", "y"} {
			files = append(files,
				filepath.Join("/src", dir, sub, "impl.cpp"),
				filepath.Join("/src", dir, sub, "api.hpp"),
				filepath.Join("/src", dir, "Lang.g"),
			)
		}
		files = append(files, filepath.Join("/src", dir, "top.cc"))
	}
	tree := memTree(t, files...)

	first, _ := classify(t, tree, catalog.Options{})
	second, _ := classify(t, tree, catalog.Options{})
	parallel, _ := classify(t, tree, catalog.Options{Workers: 4})

	assert.Equal(t, first.Paths(), second.Paths())
	assert.Equal(t, first.Paths(), parallel.Paths())
	assert.Len(t, first.Sources, 15)
	assert.Len(t, first.Headers, 10)
	assert.Len(t, first.Grammars, 5)
}

// TestClassifyOS tests the host filesystem entry point
func TestClassifyOS(t *testing.T) {
	root := t.TempDir()
	require.NoError(t, os.MkdirAll(filepath.Join(root, "inca"), 0755))
	require.NoError(t, os.WriteFile(filepath.Join(root, "inca", "world.hpp"), nil, 0644))
	require.NoError(t, os.WriteFile(filepath.Join(root, "inca", "world.cpp"), nil, 0644))
	require.NoError(t, os.WriteFile(filepath.Join(root, "Foo"), nil, 0644))

	cat, err := catalog.Classify(root, nil, false)
	require.NoError(t, err)
	assert.Equal(t, []string{filepath.Join(root, "Foo"), filepath.Join(root, "inca", "world.hpp")}, cat.Paths().Headers)
	assert.Equal(t, []string{filepath.Join(root, "inca", "world.cpp")}, cat.Paths().Sources)

	_, err = catalog.Classify(root, []string{`[`}, false)
	assert.Error(t, err)
}
