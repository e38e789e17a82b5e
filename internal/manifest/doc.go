// SPDX-License-Identifier: MIT
// Copyright (c) 2025 Vladyslav Kazantsev

// Package manifest reads host model descriptions from disk and turns them
// into a validated schema. Two formats are supported and may be mixed:
//
// HCL (.hcl):
//
//	top_level = "Project"
//
//	type "Project" {
//	  property "name" {
//	    type = string
//	  }
//	  function "dependency" {
//	    param "coordinates" {
//	      type = string
//	    }
//	    returns   = Dependency
//	    semantics = "add_and_configure"
//	    target    = "dependencies"
//	  }
//	}
//
// YAML (.yaml, .yml):
//
//	top_level: Project
//	types:
//	  - name: Project
//	    properties:
//	      - name: name
//	        type: string
//
// Type expressions use the same syntax in both formats: string, number, bool,
// any, list(T), TypeName and Generic(T1, T2).
package manifest
