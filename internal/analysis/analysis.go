// SPDX-License-Identifier: MIT
// Copyright (c) 2025 Vladyslav Kazantsev

// Package analysis runs the whole pipeline for a document: parse, build the
// language tree, resolve against a schema, apply the override policy and
// reflect the resulting object graph.
package analysis

import (
	"context"
	"fmt"
	"os"
	"runtime"

	"github.com/hashicorp/hcl/v2"
	"github.com/specialistvlad/dclfront/internal/cst"
	"github.com/specialistvlad/dclfront/internal/ctxlog"
	"github.com/specialistvlad/dclfront/internal/diagnostics"
	"github.com/specialistvlad/dclfront/internal/langtree"
	"github.com/specialistvlad/dclfront/internal/reflection"
	"github.com/specialistvlad/dclfront/internal/resolution"
	"github.com/specialistvlad/dclfront/internal/schema"
	"github.com/specialistvlad/dclfront/internal/trace"
	"golang.org/x/sync/errgroup"
)

// Document is one unit of source text.
type Document struct {
	Name   string
	Source []byte
}

// ReadDocument loads a document from disk.
func ReadDocument(path string) (Document, error) {
	src, err := os.ReadFile(path)
	if err != nil {
		return Document{}, fmt.Errorf("failed to read document: %w", err)
	}
	return Document{Name: path, Source: src}, nil
}

// Report holds everything the pipeline produced for one document.
type Report struct {
	Document    string
	Sources     map[string][]byte
	Tree        *langtree.Result
	Resolution  *resolution.Result
	Trace       *trace.Trace
	Object      *reflection.Object
	Diagnostics []diagnostics.Diagnostic
}

// HasErrors reports whether any error-level diagnostic was produced.
func (r *Report) HasErrors() bool {
	return diagnostics.HasErrors(r.Diagnostics)
}

// Analyzer runs documents against one schema. It is safe for concurrent
// use; the schema and reference context are shared read-only.
type Analyzer struct {
	schema       *schema.Schema
	refs         *schema.RefContext
	workers      int
	warnOverride bool
}

// Option configures an Analyzer.
type Option func(*Analyzer)

// WithWorkers bounds the number of documents AnalyzeAll processes at once.
func WithWorkers(n int) Option {
	return func(a *Analyzer) {
		if n > 0 {
			a.workers = n
		}
	}
}

// WithOverrideWarnings adds a warning for every overridden assignment.
func WithOverrideWarnings(enabled bool) Option {
	return func(a *Analyzer) { a.warnOverride = enabled }
}

// New creates an Analyzer for s.
func New(s *schema.Schema, opts ...Option) *Analyzer {
	a := &Analyzer{
		schema:  s,
		refs:    schema.NewRefContext(s),
		workers: runtime.GOMAXPROCS(0),
	}
	for _, opt := range opts {
		opt(a)
	}
	return a
}

// Schema returns the schema documents are resolved against.
func (a *Analyzer) Schema() *schema.Schema {
	return a.schema
}

// Analyze runs the pipeline on a single document.
func (a *Analyzer) Analyze(ctx context.Context, doc Document) *Report {
	root, parseDiags := cst.Parse(doc.Source, doc.Name, hcl.InitialPos)
	tree := langtree.Build(root, doc.Source, 0, langtree.SourceID(doc.Name))
	tree.Failures = append(parseDiags, tree.Failures...)
	return a.finish(ctx, doc.Name, map[string][]byte{doc.Name: doc.Source}, tree)
}

// AnalyzeFragments treats fragments as consecutive pieces of one script
// named name. Each fragment is parsed on its own and the trees are composed,
// so a syntax error in one fragment does not affect the others.
func (a *Analyzer) AnalyzeFragments(ctx context.Context, name string, fragments ...[]byte) *Report {
	var (
		all   []byte
		parts = make([]*langtree.Result, 0, len(fragments))
		start = hcl.InitialPos
	)
	for _, frag := range fragments {
		root, parseDiags := cst.Parse(frag, name, start)
		part := langtree.Build(root, frag, start.Byte, langtree.SourceID(name))
		part.Failures = append(parseDiags, part.Failures...)
		parts = append(parts, part)

		all = append(all, frag...)
		start = cst.Advance(start, frag)
	}
	tree := langtree.Compose(langtree.SourceID(name), parts...)
	return a.finish(ctx, name, map[string][]byte{name: all}, tree)
}

func (a *Analyzer) finish(ctx context.Context, name string, sources map[string][]byte, tree *langtree.Result) *Report {
	logger := ctxlog.FromContext(ctx).With("document", name)

	res := resolution.Resolve(ctx, tree, a.schema, a.refs)
	tr := trace.Build(res)
	diags := diagnostics.Collect(tree, res)
	if a.warnOverride {
		diags = append(diags, diagnostics.Overrides(tr)...)
		diagnostics.Sort(diags)
	}

	logger.Debug("Document analyzed.",
		"nodes", tree.Tree.Len(),
		"assignments", len(res.Assignments),
		"diagnostics", len(diags),
		"partial", res.Partial,
	)

	return &Report{
		Document:    name,
		Sources:     sources,
		Tree:        tree,
		Resolution:  res,
		Trace:       tr,
		Object:      reflection.Reflect(res, tr),
		Diagnostics: diags,
	}
}

// AnalyzeAll analyzes independent documents concurrently. Reports are
// returned in the order of docs. If ctx is cancelled the reports that were
// produced are partial and the context error is returned.
func (a *Analyzer) AnalyzeAll(ctx context.Context, docs []Document) ([]*Report, error) {
	reports := make([]*Report, len(docs))

	g := new(errgroup.Group)
	g.SetLimit(a.workers)
	for i, doc := range docs {
		i, doc := i, doc
		g.Go(func() error {
			reports[i] = a.Analyze(ctx, doc)
			return nil
		})
	}
	_ = g.Wait()

	if err := ctx.Err(); err != nil {
		return reports, fmt.Errorf("analysis interrupted: %w", err)
	}
	return reports, nil
}
