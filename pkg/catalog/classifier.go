/*
Author: KleaSCM
Email: KleaSCM@gmail.com
File: classifier.go
Description: Tree classifier for srccat. Recursively walks a directory tree and
sorts every file into the headers, sources or grammars bucket of a Catalog,
skipping build artifacts, editor temp files and manually ignored paths.
Subdirectories can be walked by several goroutines; partial catalogs are merged
in listing order so the result does not depend on scheduling.
*/

package catalog

import (
	"errors"
	"io/fs"
	"path/filepath"
	"regexp"

	"github.com/kleascm/srccat/pkg/fstree"
	"github.com/kleascm/srccat/pkg/interfaces"
	"golang.org/x/sync/errgroup"
)

// Options configures a Classifier
type Options struct {
	IgnorePatterns []string // Regular expressions searched in each file path
	Verbose        bool     // Report every classification decision
	Workers        int      // Goroutines used for subdirectories (<= 1 walks sequentially)
}

// Classifier walks trees and builds catalogs. It is safe for concurrent use.
type Classifier struct {
	tree    interfaces.Tree
	sink    interfaces.Sink
	ignore  []*regexp.Regexp
	verbose bool
	tokens  chan struct{}
}

// NewClassifier compiles the ignore patterns and returns a classifier.
// A bad pattern is reported as *PatternError.
func NewClassifier(tree interfaces.Tree, sink interfaces.Sink, opts Options) (*Classifier, error) {
	// Compile every pattern before any walk
	ignore, err := CompilePatterns(opts.IgnorePatterns)
	if err != nil {
		return nil, err
	}
	if sink == nil {
		sink = interfaces.DiscardSink{}
	}

	c := &Classifier{
		tree:    tree,
		sink:    sink,
		ignore:  ignore,
		verbose: opts.Verbose,
	}
	// The calling goroutine is the first worker
	if opts.Workers > 1 {
		c.tokens = make(chan struct{}, opts.Workers-1)
	}
	return c, nil
}

// Classify walks the host filesystem below rootPath.
// Unrecognized files are reported as warnings on a discarding sink; use
// NewClassifier with a real sink to see them.
func Classify(rootPath string, ignorePatterns []string, verbose bool) (*Catalog, error) {
	c, err := NewClassifier(fstree.NewOS(), nil, Options{
		IgnorePatterns: ignorePatterns,
		Verbose:        verbose,
	})
	if err != nil {
		return nil, err
	}
	return c.Classify(rootPath), nil
}

// Classify walks root and returns the populated catalog.
// A root that does not exist yields an empty catalog.
func (c *Classifier) Classify(root string) *Catalog {
	return c.walk(root)
}

func (c *Classifier) walk(dir string) *Catalog {
	children, err := c.tree.ListChildren(dir)
	if err != nil {
		// A missing directory is silently empty
		if !errors.Is(err, fs.ErrNotExist) {
			c.sink.Warn("Unable to list directory", map[string]interface{}{
				"path":  dir,
				"error": err.Error(),
			})
		}
		return NewCatalog()
	}

	// Each subdirectory gets its own slot so sibling order survives the fan-out.
	current := NewCatalog()
	parts := []*Catalog{current}
	var g errgroup.Group

	for _, child := range children {
		// Files land in the current slot
		if !child.IsDir() {
			c.classifyFile(child, current)
			continue
		}

		slot := NewCatalog()
		current = NewCatalog()
		parts = append(parts, slot, current)

		// Walk in another goroutine if a token is free, else inline
		path := child.Path()
		if c.acquire() {
			g.Go(func() error {
				defer c.release()
				slot.Append(c.walk(path))
				return nil
			})
		} else {
			slot.Append(c.walk(path))
		}
	}
	// Walks never fail; errors are already on the sink
	_ = g.Wait()

	if len(parts) == 1 {
		return parts[0]
	}
	// Merge slots in listing order
	merged := NewCatalog()
	for _, p := range parts {
		merged.Append(p)
	}
	return merged
}

func (c *Classifier) classifyFile(entry interfaces.FileEntry, into *Catalog) {
	path := entry.Path()

	// Ignore patterns run before the name rules
	for _, re := range c.ignore {
		if re.MatchString(filepath.ToSlash(path)) {
			c.info("Manually ignored", path, re.String())
			return
		}
	}

	// Classify by name
	role := ClassifyName(filepath.Base(path))
	if role == RoleUnknown {
		c.sink.Warn("Ignoring unrecognized file", map[string]interface{}{"path": path})
		return
	}

	c.info(role.String(), path, "")
	into.add(role, entry)
}

func (c *Classifier) info(msg, path, pattern string) {
	if !c.verbose {
		return
	}
	fields := map[string]interface{}{"path": path}
	if pattern != "" {
		fields["pattern"] = pattern
	}
	c.sink.Info(msg, fields)
}

func (c *Classifier) acquire() bool {
	select {
	case c.tokens <- struct{}{}:
		return true
	default:
		return false
	}
}

func (c *Classifier) release() {
	<-c.tokens
}
