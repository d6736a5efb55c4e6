/*
Author: KleaSCM
Email: KleaSCM@gmail.com
File: interfaces.go
Description: Shared interfaces for srccat. Defines the file-tree, diagnostic and
tool-runner abstractions the classifier, the grammar inferrer and the build
pipeline consume, so each package can be driven by a host build system.
*/

package interfaces

import (
	"context"
	"time"
)

// Source is anything whose full text can be read, typically a grammar file.
type Source interface {
	Path() string
	Contents() ([]byte, error)
}

// FileEntry is one filesystem entry handed out by a Tree.
// Entries are borrowed per call and never retained by the classifier beyond
// the Catalog it returns.
type FileEntry interface {
	Source
	IsDir() bool
}

// Tree lists the direct children of a directory.
// Missing paths must be reported with an error wrapping fs.ErrNotExist.
type Tree interface {
	ListChildren(path string) ([]FileEntry, error)
}

// Sink receives line-oriented diagnostics.
// The wording of messages is informational only.
type Sink interface {
	Info(msg string, fields map[string]interface{})
	Warn(msg string, fields map[string]interface{})
}

// ToolResult represents one invocation of the external grammar compiler
type ToolResult struct {
	Source   string
	ExitCode int
	Output   []byte
	Duration time.Duration
}

// ToolRunner runs the external grammar compiler on a single source file
type ToolRunner interface {
	Run(ctx context.Context, source string) (*ToolResult, error)
}

// DiscardSink drops every diagnostic
type DiscardSink struct{}

// Info implements Sink
func (DiscardSink) Info(string, map[string]interface{}) {}

// Warn implements Sink
func (DiscardSink) Warn(string, map[string]interface{}) {}
