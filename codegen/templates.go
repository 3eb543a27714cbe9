// Copyright (c) 2026 mframe-io
// SPDX-License-Identifier: Apache-2.0
// This file is part of the dynamic-copybook library.

package codegen

import "text/template"

var bindingTemplate = template.Must(template.New("binding").Parse(`// Code generated by copybook-gen. DO NOT EDIT.

package {{.Package}}

import (
	"math/big"

	"github.com/shopspring/decimal"

	dyncb "github.com/mframe-io/dynamic-copybook"
)

// {{.TypeName}} is a typed view over a {{.Size}} byte record.
type {{.TypeName}} struct {
	rec *dyncb.Record
}

func New{{.TypeName}}(rec *dyncb.Record) *{{.TypeName}} {
	return &{{.TypeName}}{rec: rec}
}

// Record returns the underlying record accessor.
func (r *{{.TypeName}}) Record() *dyncb.Record {
	return r.rec
}

// Bytes returns the underlying record buffer.
func (r *{{.TypeName}}) Bytes() []byte {
	return r.rec.Bytes()
}
{{range .Fields}}
func (r *{{$.TypeName}}) {{.MethodName}}() ({{.GoType}}, error) {
	v, err := r.rec.Get({{printf "%q" .FieldName}})
	if err != nil {
		return {{.Zero}}, err
	}
	return v.({{.GoType}}), nil
}
{{if not .Composite}}
func (r *{{$.TypeName}}) Set{{.MethodName}}(v {{.GoType}}) error {
	return r.rec.Set({{printf "%q" .FieldName}}, v)
}
{{end}}{{end}}`))
