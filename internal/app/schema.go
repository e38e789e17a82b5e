package app

import (
	"fmt"
	"strings"

	"github.com/specialistvlad/dclfront/internal/schema"
)

// DescribeSchema writes a summary of the loaded host model.
func (a *App) DescribeSchema() error {
	var sb strings.Builder
	for i, t := range a.schema.Types() {
		if i > 0 {
			sb.WriteString("\n")
		}
		writeType(&sb, t, t == a.schema.TopLevel())
	}
	_, err := fmt.Fprint(a.outW, sb.String())
	return err
}

func writeType(sb *strings.Builder, t *schema.Type, topLevel bool) {
	sb.WriteString("type " + t.Name)
	if len(t.TypeParams) > 0 {
		sb.WriteString("[" + strings.Join(t.TypeParams, ", ") + "]")
	}
	if topLevel {
		sb.WriteString(" (top level)")
	}
	sb.WriteString("\n")
	if t.Description != "" {
		sb.WriteString("  # " + t.Description + "\n")
	}

	for _, p := range t.Properties {
		fmt.Fprintf(sb, "  %s: %s", p.Name, p.Type)
		if p.ReadOnly {
			sb.WriteString(" (read-only)")
		}
		sb.WriteString("\n")
	}
	for _, f := range t.Functions {
		fmt.Fprintf(sb, "  %s", f.Signature())
		if f.Semantics != schema.SemanticsPure {
			fmt.Fprintf(sb, " [%s %s]", f.Semantics, f.Target)
		}
		sb.WriteString("\n")
	}
}
