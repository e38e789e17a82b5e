package app

import (
	"context"
	"fmt"
	"io"
	"log/slog"

	"github.com/specialistvlad/dclfront/internal/analysis"
	"github.com/specialistvlad/dclfront/internal/ctxlog"
	"github.com/specialistvlad/dclfront/internal/fsutil"
	"github.com/specialistvlad/dclfront/internal/manifest"
	"github.com/specialistvlad/dclfront/internal/schema"
)

// DocumentExtension is the file extension of model documents.
const DocumentExtension = ".dcl"

// App encapsulates the application's dependencies, configuration, and lifecycle.
type App struct {
	outW     io.Writer
	logger   *slog.Logger
	config   *Config
	schema   *schema.Schema
	analyzer *analysis.Analyzer
}

// NewApp loads the host model and prepares an analyzer for it. Results are
// written to outW and logs to logW. Manifest problems are returned as errors.
func NewApp(ctx context.Context, outW, logW io.Writer, cfg *Config) (*App, error) {
	logger := newLogger(cfg.LogLevel, cfg.LogFormat, logW)
	ctx = ctxlog.WithLogger(ctx, logger)
	logger.Debug("Logger configured successfully.")

	s, err := manifest.LoadSchema(ctx, cfg.SchemaPaths...)
	if err != nil {
		return nil, fmt.Errorf("failed to load host model: %w", err)
	}
	logger.Debug("Host model loaded.", "top_level", s.TopLevel().Name, "types", len(s.Types()))

	return &App{
		outW:   outW,
		logger: logger,
		config: cfg,
		schema: s,
		analyzer: analysis.New(s,
			analysis.WithWorkers(cfg.Workers),
			analysis.WithOverrideWarnings(cfg.WarnOverrides),
		),
	}, nil
}

// Schema returns the loaded host model. This is primarily for testing.
func (a *App) Schema() *schema.Schema {
	return a.schema
}

func (a *App) context(ctx context.Context) context.Context {
	return ctxlog.WithLogger(ctx, a.logger)
}

// documents expands paths into the model documents they contain.
func (a *App) documents(paths []string) ([]analysis.Document, error) {
	var docs []analysis.Document
	for _, p := range paths {
		files, err := fsutil.FindFilesByExtension(p, DocumentExtension)
		if err != nil {
			return nil, err
		}
		for _, f := range files {
			doc, err := analysis.ReadDocument(f)
			if err != nil {
				return nil, err
			}
			docs = append(docs, doc)
		}
	}
	if len(docs) == 0 {
		return nil, fmt.Errorf("no %s documents found in %v", DocumentExtension, paths)
	}
	a.logger.Debug("Documents discovered.", "count", len(docs))
	return docs, nil
}
