package app

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/specialistvlad/dclfront/internal/diagnostics"
)

// CheckSummary counts what Check found.
type CheckSummary struct {
	Documents int
	Errors    int
	Warnings  int
}

type jsonDiagnostic struct {
	File     string `json:"file"`
	Line     int    `json:"line"`
	Column   int    `json:"column"`
	Severity string `json:"severity"`
	Kind     string `json:"kind"`
	Message  string `json:"message"`
	Detail   string `json:"detail,omitempty"`
}

// Check analyzes every document under paths and writes their diagnostics.
func (a *App) Check(ctx context.Context, paths []string) (*CheckSummary, error) {
	ctx = a.context(ctx)
	docs, err := a.documents(paths)
	if err != nil {
		return nil, err
	}

	reports, err := a.analyzer.AnalyzeAll(ctx, docs)
	if err != nil {
		return nil, err
	}

	summary := &CheckSummary{Documents: len(reports)}
	var all []diagnostics.Diagnostic
	sources := make(map[string][]byte)
	for _, r := range reports {
		for name, src := range r.Sources {
			sources[name] = src
		}
		for _, d := range r.Diagnostics {
			if d.Severity == diagnostics.SeverityError {
				summary.Errors++
			} else {
				summary.Warnings++
			}
		}
		all = append(all, r.Diagnostics...)
	}

	if a.config.OutputFormat == "json" {
		out := make([]jsonDiagnostic, 0, len(all))
		for _, d := range all {
			out = append(out, jsonDiagnostic{
				File:     d.Range.Filename,
				Line:     d.Range.Start.Line,
				Column:   d.Range.Start.Column,
				Severity: d.Severity.String(),
				Kind:     d.Kind,
				Message:  d.Message,
				Detail:   d.Detail,
			})
		}
		enc := json.NewEncoder(a.outW)
		enc.SetIndent("", "  ")
		if err := enc.Encode(out); err != nil {
			return nil, fmt.Errorf("failed to write diagnostics: %w", err)
		}
	} else if err := diagnostics.Write(a.outW, sources, all, a.config.Width, a.config.Color); err != nil {
		return nil, fmt.Errorf("failed to write diagnostics: %w", err)
	}

	a.logger.Info("Check finished.", "documents", summary.Documents, "errors", summary.Errors, "warnings", summary.Warnings)
	return summary, nil
}
