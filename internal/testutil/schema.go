// SPDX-License-Identifier: MIT
// Copyright (c) 2025 Vladyslav Kazantsev

package testutil

import (
	"testing"

	"github.com/specialistvlad/dclfront/internal/schema"
)

// SampleTypes describes a small build model:
//
//	Project            name, version, description, tags, id (read-only),
//	                   server Server, dependencies list(Dependency) (read-only),
//	                   box Box(string)
//	  dependency(coordinates)           adds to dependencies
//	  dependency(group, name)           adds to dependencies
//	  server()                          configures server
//	  listOf[T](items T...) list(T)     pure
//	  checksum(value string) string     pure
//	  checksum(value any) string        pure, overlaps the one above
//	Server             host, port, tls TLS
//	TLS                enabled, cert
//	Dependency         coordinates, group, name, optional, scope
//	Box[T]             content T, label
func SampleTypes() []*schema.Type {
	return []*schema.Type{
		{
			Name: "Project",
			Properties: []*schema.Property{
				{Name: "name", Type: schema.String},
				{Name: "version", Type: schema.String},
				{Name: "description", Type: schema.String},
				{Name: "tags", Type: schema.ListOf(schema.String)},
				{Name: "id", Type: schema.String, ReadOnly: true},
				{Name: "server", Type: schema.Named("Server")},
				{Name: "dependencies", Type: schema.ListOf(schema.Named("Dependency")), ReadOnly: true},
				{Name: "box", Type: schema.Named("Box", schema.String)},
			},
			Functions: []*schema.Function{
				{
					Name:      "dependency",
					Params:    []schema.Param{{Name: "coordinates", Type: schema.String}},
					Returns:   schema.Named("Dependency"),
					Semantics: schema.SemanticsAddAndConfigure,
					Target:    "dependencies",
				},
				{
					Name:      "dependency",
					Params:    []schema.Param{{Name: "group", Type: schema.String}, {Name: "name", Type: schema.String}},
					Returns:   schema.Named("Dependency"),
					Semantics: schema.SemanticsAddAndConfigure,
					Target:    "dependencies",
				},
				{
					Name:      "server",
					Returns:   schema.Named("Server"),
					Semantics: schema.SemanticsAccessAndConfigure,
					Target:    "server",
				},
				{
					Name:       "listOf",
					TypeParams: []string{"T"},
					Params:     []schema.Param{{Name: "items", Type: schema.TypeParam("T")}},
					Variadic:   true,
					Returns:    schema.ListOf(schema.TypeParam("T")),
				},
				{
					Name:    "checksum",
					Params:  []schema.Param{{Name: "value", Type: schema.String}},
					Returns: schema.String,
				},
				{
					Name:    "checksum",
					Params:  []schema.Param{{Name: "value", Type: schema.Any}},
					Returns: schema.String,
				},
			},
		},
		{
			Name: "Server",
			Properties: []*schema.Property{
				{Name: "host", Type: schema.String},
				{Name: "port", Type: schema.Number},
				{Name: "tls", Type: schema.Named("TLS")},
			},
		},
		{
			Name: "TLS",
			Properties: []*schema.Property{
				{Name: "enabled", Type: schema.Bool},
				{Name: "cert", Type: schema.String},
			},
		},
		{
			Name: "Dependency",
			Properties: []*schema.Property{
				{Name: "coordinates", Type: schema.String},
				{Name: "group", Type: schema.String},
				{Name: "name", Type: schema.String},
				{Name: "optional", Type: schema.Bool},
				{Name: "scope", Type: schema.String},
			},
		},
		{
			Name:       "Box",
			TypeParams: []string{"T"},
			Properties: []*schema.Property{
				{Name: "content", Type: schema.TypeParam("T")},
				{Name: "label", Type: schema.String},
			},
		},
	}
}

// SampleSchema returns the validated sample model rooted at Project.
func SampleSchema(t testing.TB) *schema.Schema {
	t.Helper()
	s, err := schema.New("Project", SampleTypes()...)
	if err != nil {
		t.Fatalf("sample schema is invalid: %v", err)
	}
	return s
}
