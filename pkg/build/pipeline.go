/*
Author: KleaSCM
Email: KleaSCM@gmail.com
File: pipeline.go
Description: Build pipeline tying the tree classifier, the grammar output
inferrer and the grammar compiler runner together. A Plan is the catalog plus
the outputs every grammar declares; Run compiles each grammar and checks that
the declared outputs actually appeared.
*/

package build

import (
	"context"
	"fmt"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	"github.com/kleascm/srccat/pkg/antlr"
	"github.com/kleascm/srccat/pkg/catalog"
	"github.com/kleascm/srccat/pkg/interfaces"
	"github.com/kleascm/srccat/pkg/logging"
	"github.com/spf13/afero"
)

// Target is one grammar and the files the compiler is expected to write for it
type Target struct {
	Grammar string   `json:"grammar" yaml:"grammar"`
	Outputs []string `json:"outputs" yaml:"outputs"`
	Missing []string `json:"missing,omitempty" yaml:"missing,omitempty"`
}

// Plan is the result of classifying a tree and inferring grammar outputs
type Plan struct {
	RunID     string
	Root      string
	CreatedAt time.Time
	Catalog   *catalog.Catalog
	Targets   []*Target
}

// Outputs returns every declared output in grammar order
func (p *Plan) Outputs() []string {
	var out []string
	for _, t := range p.Targets {
		out = append(out, t.Outputs...)
	}
	return out
}

// Report is the serialisable view of a plan
type Report struct {
	RunID     string        `json:"run_id" yaml:"run_id"`
	Root      string        `json:"root" yaml:"root"`
	CreatedAt time.Time     `json:"created_at" yaml:"created_at"`
	Catalog   catalog.Paths `json:"catalog" yaml:"catalog"`
	Targets   []*Target     `json:"targets" yaml:"targets"`
}

// Report converts the plan for JSON or YAML output
func (p *Plan) Report() *Report {
	// Empty list, not null, in reports
	targets := p.Targets
	if targets == nil {
		targets = []*Target{}
	}
	return &Report{
		RunID:     p.RunID,
		Root:      p.Root,
		CreatedAt: p.CreatedAt,
		Catalog:   p.Catalog.Paths(),
		Targets:   targets,
	}
}

// Pipeline plans and runs grammar compilation for a source tree
type Pipeline struct {
	classifier *catalog.Classifier
	inferrer   *antlr.Inferrer
	runner     interfaces.ToolRunner
	logger     *logging.Logger
	outputFs   afero.Fs
	outputDir  string
}

// NewPipeline wires the pipeline. Outputs are looked up under outputDir on
// outputFs after the runner has finished with a grammar.
func NewPipeline(classifier *catalog.Classifier, runner interfaces.ToolRunner, logger *logging.Logger, outputFs afero.Fs, outputDir string) *Pipeline {
	return &Pipeline{
		classifier: classifier,
		inferrer:   antlr.NewInferrer(logger.Sink("emit")),
		runner:     runner,
		logger:     logger,
		outputFs:   outputFs,
		outputDir:  outputDir,
	}
}

// Plan classifies root and infers the outputs of every grammar found
func (p *Pipeline) Plan(root string) *Plan {
	start := time.Now()
	plan := &Plan{
		RunID:     uuid.New().String(),
		Root:      root,
		CreatedAt: start,
		Catalog:   p.classifier.Classify(root),
	}

	// Declare the outputs of each grammar
	for _, g := range plan.Catalog.Grammars {
		outputs := p.inferrer.InferOutputs([]interfaces.Source{g})
		p.logger.LogInference(g.Path(), outputs)
		plan.Targets = append(plan.Targets, &Target{Grammar: g.Path(), Outputs: outputs})
	}

	// Log catalog summary
	c := plan.Catalog
	p.logger.LogCatalog(plan.RunID, root, len(c.Headers), len(c.Sources), len(c.Grammars), time.Since(start))
	return plan
}

// Run compiles every grammar of plan in order and records missing outputs.
// The first compiler failure stops the run.
func (p *Pipeline) Run(ctx context.Context, plan *Plan) error {
	for _, t := range plan.Targets {
		// Stop between grammars when cancelled
		if err := ctx.Err(); err != nil {
			return err
		}

		result, err := p.runner.Run(ctx, t.Grammar)
		if err != nil {
			return fmt.Errorf("compiling grammar %s: %w", t.Grammar, err)
		}

		// A zero exit does not guarantee every declared file was written
		t.Missing = p.missing(t.Outputs)
		p.logger.LogToolRun(result, t.Missing)
	}
	return nil
}

func (p *Pipeline) missing(outputs []string) []string {
	var missing []string
	for _, name := range outputs {
		// Unreadable counts as missing
		exists, err := afero.Exists(p.outputFs, filepath.Join(p.outputDir, name))
		if err != nil || !exists {
			missing = append(missing, name)
		}
	}
	return missing
}
