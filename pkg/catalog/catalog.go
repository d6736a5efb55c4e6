/*
Author: KleaSCM
Email: KleaSCM@gmail.com
File: catalog.go
Description: Catalog of classified files produced by one tree walk, plus the
pattern compilation error surfaced for bad ignore patterns.
*/

package catalog

import (
	"fmt"
	"regexp"

	"github.com/kleascm/srccat/pkg/interfaces"
)

// Catalog holds the classified files of one walk in discovery order
type Catalog struct {
	Headers  []interfaces.FileEntry
	Sources  []interfaces.FileEntry
	Grammars []interfaces.FileEntry
}

// NewCatalog returns an empty catalog
func NewCatalog() *Catalog {
	return &Catalog{
		Headers:  []interfaces.FileEntry{},
		Sources:  []interfaces.FileEntry{},
		Grammars: []interfaces.FileEntry{},
	}
}

// add places an entry in the bucket for role. Skipped roles are a no-op.
func (c *Catalog) add(role Role, entry interfaces.FileEntry) {
	switch role.Bucket() {
	case "headers":
		c.Headers = append(c.Headers, entry)
	case "sources":
		c.Sources = append(c.Sources, entry)
	case "grammars":
		c.Grammars = append(c.Grammars, entry)
	}
}

// Append merges other onto the end of c
func (c *Catalog) Append(other *Catalog) {
	if other == nil {
		return
	}
	c.Headers = append(c.Headers, other.Headers...)
	c.Sources = append(c.Sources, other.Sources...)
	c.Grammars = append(c.Grammars, other.Grammars...)
}

// Len returns the number of catalogued files
func (c *Catalog) Len() int {
	return len(c.Headers) + len(c.Sources) + len(c.Grammars)
}

// Paths is the serialisable view of a catalog
type Paths struct {
	Headers  []string `json:"headers" yaml:"headers"`
	Sources  []string `json:"sources" yaml:"sources"`
	Grammars []string `json:"grammars" yaml:"grammars"`
}

// Paths returns the path of every entry, bucket by bucket
func (c *Catalog) Paths() Paths {
	return Paths{
		Headers:  entryPaths(c.Headers),
		Sources:  entryPaths(c.Sources),
		Grammars: entryPaths(c.Grammars),
	}
}

func entryPaths(entries []interfaces.FileEntry) []string {
	out := make([]string, 0, len(entries))
	for _, e := range entries {
		out = append(out, e.Path())
	}
	return out
}

// PatternError reports an ignore pattern that does not compile
type PatternError struct {
	Pattern string
	Err     error
}

func (e *PatternError) Error() string {
	return fmt.Sprintf("invalid ignore pattern %q: %v", e.Pattern, e.Err)
}

func (e *PatternError) Unwrap() error { return e.Err }

// CompilePatterns compiles ignore patterns, failing on the first bad one.
func CompilePatterns(patterns []string) ([]*regexp.Regexp, error) {
	compiled := make([]*regexp.Regexp, 0, len(patterns))
	for _, p := range patterns {
		re, err := regexp.Compile(p)
		if err != nil {
			return nil, &PatternError{Pattern: p, Err: err}
		}
		compiled = append(compiled, re)
	}
	return compiled, nil
}
