package app

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/specialistvlad/dclfront/internal/objpath"
	"github.com/specialistvlad/dclfront/internal/reflection"
)

// Preview analyzes a single document and writes the object graph it
// describes. A non-empty selection narrows the output to the object at
// that path. The returned bool reports whether the document had errors;
// the preview is written either way.
func (a *App) Preview(ctx context.Context, path, selection string) (bool, error) {
	ctx = a.context(ctx)
	docs, err := a.documents([]string{path})
	if err != nil {
		return false, err
	}
	if len(docs) != 1 {
		return false, fmt.Errorf("preview needs exactly one document, %s contains %d", path, len(docs))
	}

	report := a.analyzer.Analyze(ctx, docs[0])
	obj := report.Object
	if selection != "" {
		sel, err := objpath.Parse(selection)
		if err != nil {
			return false, fmt.Errorf("invalid selection: %w", err)
		}
		found, ok := obj.Select(sel)
		if !ok {
			return false, fmt.Errorf("nothing configured at %q", selection)
		}
		obj = found
	}

	if a.config.OutputFormat == "json" {
		raw, err := json.MarshalIndent(obj, "", "  ")
		if err != nil {
			return false, fmt.Errorf("failed to encode preview: %w", err)
		}
		_, err = fmt.Fprintln(a.outW, string(raw))
		return report.HasErrors(), err
	}
	return report.HasErrors(), reflection.Render(a.outW, obj)
}
