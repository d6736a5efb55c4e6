/*
Author: KleaSCM
Email: KleaSCM@gmail.com
File: antlr.go
Description: Output inference for ANTLR 2 grammars. Scans grammar text for
"class X extends Lexer|Parser|TreeParser" declarations and predicts the C++
files the grammar compiler will write, so a build system can declare them as
targets before the compiler has run. No grammar parsing is done: a declaration
inside a comment still counts.
*/

package antlr

import (
	"regexp"

	"github.com/kleascm/srccat/pkg/interfaces"
)

// ClassKind is the kind of processor a grammar class declares
type ClassKind int

const (
	Lexer ClassKind = iota
	Parser
	TreeParser
)

// String returns the ANTLR superclass name
func (k ClassKind) String() string {
	switch k {
	case Lexer:
		return "Lexer"
	case Parser:
		return "Parser"
	case TreeParser:
		return "TreeParser"
	default:
		return "Unknown"
	}
}

// Outputs returns the files generated for a class of this kind named name.
func (k ClassKind) Outputs(name string) []string {
	switch k {
	case Lexer:
		return []string{
			name + ".hpp",
			name + ".cpp",
			name + "TokenTypes.hpp",
			name + "TokenTypes.txt",
		}
	case Parser, TreeParser:
		return []string{name + ".hpp", name + ".cpp"}
	default:
		return nil
	}
}

type classRule struct {
	kind    ClassKind
	pattern *regexp.Regexp
}

// classRules is scanned in this order for every grammar.
var classRules = []classRule{
	newClassRule(Lexer),
	newClassRule(Parser),
	newClassRule(TreeParser),
}

func newClassRule(kind ClassKind) classRule {
	return classRule{
		kind:    kind,
		pattern: regexp.MustCompile(`(?m)^class\s+(\S+)\s+extends\s+` + kind.String()),
	}
}

// Declaration is one class declaration found in grammar text
type Declaration struct {
	Kind ClassKind
	Name string
}

// Declarations returns every class declaration in text, grouped by kind in
// Lexer, Parser, TreeParser order and in text order within a kind.
func Declarations(text string) []Declaration {
	var decls []Declaration
	for _, rule := range classRules {
		for _, m := range rule.pattern.FindAllStringSubmatch(text, -1) {
			decls = append(decls, Declaration{Kind: rule.kind, Name: m[1]})
		}
	}
	return decls
}

// InferText returns the files the grammar compiler will generate for text
func InferText(text string) []string {
	outputs := []string{}
	for _, d := range Declarations(text) {
		outputs = append(outputs, d.Kind.Outputs(d.Name)...)
	}
	return outputs
}

// Inferrer predicts grammar compiler outputs for a list of sources
type Inferrer struct {
	sink interfaces.Sink
}

// NewInferrer creates an inferrer reporting unreadable sources to sink
func NewInferrer(sink interfaces.Sink) *Inferrer {
	if sink == nil {
		sink = interfaces.DiscardSink{}
	}
	return &Inferrer{sink: sink}
}

// InferOutputs concatenates the inferred outputs of sources in input order.
// A source that cannot be read is reported and contributes nothing.
func (i *Inferrer) InferOutputs(sources []interfaces.Source) []string {
	outputs := []string{}
	for _, src := range sources {
		contents, err := src.Contents()
		if err != nil {
			i.sink.Warn("Unable to read grammar", map[string]interface{}{
				"path":  src.Path(),
				"error": err.Error(),
			})
			continue
		}
		outputs = append(outputs, InferText(string(contents))...)
	}
	return outputs
}

// Emit behaves like a build-system emitter: the incoming targets are replaced
// by the inferred outputs and the sources pass through unchanged.
func (i *Inferrer) Emit(targets []string, sources []interfaces.Source) ([]string, []interfaces.Source) {
	return i.InferOutputs(sources), sources
}

// InferOutputs predicts outputs for sources, silently skipping unreadable ones
func InferOutputs(sources []interfaces.Source) []string {
	return NewInferrer(nil).InferOutputs(sources)
}
