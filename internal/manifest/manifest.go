// SPDX-License-Identifier: MIT
// Copyright (c) 2025 Vladyslav Kazantsev

package manifest

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/specialistvlad/dclfront/internal/ctxlog"
	"github.com/specialistvlad/dclfront/internal/fsutil"
	"github.com/specialistvlad/dclfront/internal/schema"
)

// ErrNoTopLevel is returned when no loaded file names the top-level type.
var ErrNoTopLevel = errors.New("no manifest declares top_level")

// Manifest is the merged content of one or more manifest files.
type Manifest struct {
	TopLevel string
	Types    []*schema.Type
	// Files lists the files that contributed, in load order.
	Files []string
}

// Schema validates the manifest and builds the schema.
func (m *Manifest) Schema() (*schema.Schema, error) {
	if m.TopLevel == "" {
		return nil, ErrNoTopLevel
	}
	return schema.New(m.TopLevel, m.Types...)
}

// merge folds another manifest into m. At most one distinct top-level type
// may be declared across all files.
func (m *Manifest) merge(other *Manifest) error {
	if other.TopLevel != "" {
		if m.TopLevel != "" && m.TopLevel != other.TopLevel {
			return fmt.Errorf("conflicting top_level declarations: %q and %q", m.TopLevel, other.TopLevel)
		}
		m.TopLevel = other.TopLevel
	}
	m.Types = append(m.Types, other.Types...)
	m.Files = append(m.Files, other.Files...)
	return nil
}

var extensions = []string{".hcl", ".yaml", ".yml"}

// Load reads every manifest file found under paths (files or directories)
// and merges them. Files are processed in sorted order per path.
func Load(ctx context.Context, paths ...string) (*Manifest, error) {
	logger := ctxlog.FromContext(ctx)
	logger.Debug("Manifest loader started.", "path_count", len(paths))

	merged := &Manifest{}
	seen := make(map[string]struct{})
	for _, root := range paths {
		files, err := fsutil.FindFilesByExtension(root, extensions...)
		if err != nil {
			return nil, fmt.Errorf("failed to discover manifests: %w", err)
		}
		for _, file := range files {
			if _, dup := seen[file]; dup {
				continue
			}
			seen[file] = struct{}{}

			if err := ctx.Err(); err != nil {
				return nil, err
			}

			m, err := loadFile(ctx, file)
			if err != nil {
				return nil, err
			}
			if err := merged.merge(m); err != nil {
				return nil, fmt.Errorf("%s: %w", file, err)
			}
		}
	}

	if len(merged.Files) == 0 {
		return nil, fmt.Errorf("no manifest files found in %s", strings.Join(paths, ", "))
	}
	logger.Debug("Manifest loading complete.", "files", len(merged.Files), "types", len(merged.Types), "top_level", merged.TopLevel)
	return merged, nil
}

// LoadSchema is Load followed by Manifest.Schema.
func LoadSchema(ctx context.Context, paths ...string) (*schema.Schema, error) {
	m, err := Load(ctx, paths...)
	if err != nil {
		return nil, err
	}
	return m.Schema()
}

func loadFile(ctx context.Context, file string) (*Manifest, error) {
	switch strings.ToLower(filepath.Ext(file)) {
	case ".hcl":
		return LoadHCL(ctx, file)
	case ".yaml", ".yml":
		return LoadYAML(ctx, file)
	default:
		return nil, fmt.Errorf("unsupported manifest format: %s", file)
	}
}

// typeBuilder accumulates declaration errors for one type so that a manifest
// with several mistakes reports all of them.
type typeBuilder struct {
	typeName string
	errs     []error
}

func (b *typeBuilder) fail(format string, args ...any) {
	b.errs = append(b.errs, fmt.Errorf("type %q: "+format, append([]any{b.typeName}, args...)...))
}

func (b *typeBuilder) semantics(fn, raw string) schema.Semantics {
	s, ok := schema.ParseSemantics(raw)
	if !ok {
		b.fail("function %q: unknown semantics %q (expected pure, add_and_configure or access_and_configure)", fn, raw)
	}
	return s
}
