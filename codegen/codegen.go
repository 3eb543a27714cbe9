// Copyright (c) 2026 mframe-io
// SPDX-License-Identifier: Apache-2.0
// This file is part of the dynamic-copybook library.

// Package codegen generates typed Go bindings for compiled copybook layouts:
// a wrapper struct around *dyncb.Record with one getter/setter pair per
// scalar field and view accessors for repeating groups. The generated code
// keeps all offset arithmetic inside the dyncb runtime; the binding only
// fixes names and value types at compile time.
package codegen

import (
	"bytes"
	"fmt"
	"strings"

	"golang.org/x/tools/imports"

	dyncb "github.com/mframe-io/dynamic-copybook"
)

// Options controls one binding generation.
type Options struct {
	// Package is the package name of the generated file.
	Package string
	// TypeName is the wrapper struct name, e.g. "CustomerRecord".
	TypeName string
}

// Generate renders the binding source for a layout and formats it with
// goimports, so unused imports of the template are dropped.
func Generate(layout *dyncb.Layout, opts Options) ([]byte, error) {
	if opts.Package == "" || opts.TypeName == "" {
		return nil, fmt.Errorf("package and type name are required")
	}

	model := bindingModel{
		Package:  opts.Package,
		TypeName: opts.TypeName,
		Size:     layout.Size,
	}
	for _, node := range layout.Root.Children {
		field, ok := fieldModelFor(node)
		if !ok {
			continue
		}
		model.Fields = append(model.Fields, field)
	}

	var buf bytes.Buffer
	if err := bindingTemplate.Execute(&buf, model); err != nil {
		return nil, fmt.Errorf("rendering binding: %w", err)
	}
	formatted, err := imports.Process(strings.ToLower(opts.TypeName)+".go", buf.Bytes(), nil)
	if err != nil {
		return nil, fmt.Errorf("formatting binding: %w\n%s", err, buf.String())
	}
	return formatted, nil
}

type bindingModel struct {
	Package  string
	TypeName string
	Size     int
	Fields   []fieldModel
}

type fieldModel struct {
	MethodName string
	FieldName  string
	GoType     string
	Zero       string
	Composite  bool
}

func fieldModelFor(node *dyncb.LayoutNode) (fieldModel, bool) {
	if node.Filler {
		return fieldModel{}, false
	}
	field := fieldModel{
		MethodName: methodName(node.Name),
		FieldName:  node.Name,
	}
	if node.Kind != dyncb.NodeScalar {
		field.GoType = "*dyncb.Array"
		field.Zero = "nil"
		field.Composite = true
		return field, true
	}
	field.GoType, field.Zero = scalarGoType(node.Type)
	return field, true
}

func scalarGoType(ft *dyncb.FieldType) (goType, zero string) {
	switch {
	case ft.Kind == dyncb.FieldAlphanumeric || ft.Kind == dyncb.FieldEdited:
		return "string", `""`
	case ft.FracDigits > 0:
		return "decimal.Decimal", "decimal.Decimal{}"
	case ft.Digits() > 18:
		return "*big.Int", "nil"
	default:
		return "int64", "0"
	}
}

// methodName maps a normalized copybook name to an exported Go identifier:
// CUST_FIRST_NAME becomes CustFirstName.
func methodName(name string) string {
	parts := strings.Split(name, "_")
	var sb strings.Builder
	for _, part := range parts {
		if part == "" {
			continue
		}
		sb.WriteString(strings.ToUpper(part[:1]))
		sb.WriteString(strings.ToLower(part[1:]))
	}
	return sb.String()
}
