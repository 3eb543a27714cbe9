// Package dyncb compiles COBOL copybooks into fixed-width record layouts and
// exposes typed, name and index addressable access over raw record buffers.
// It is used to interpret or produce mainframe-style binary records (batch
// files, transaction commareas) without hand-written offset arithmetic.
//
// A copybook is compiled once into an immutable Layout; the layout is then
// bound to any number of byte buffers, each producing an independent accessor
// tree that decodes and encodes field values in place.
//
// Copyright (c) 2026 by mframe-io. See LICENSE file for details.
package dyncb

import (
	"strings"

	"github.com/mframe-io/dynamic-copybook/textenc"
)

// DynCb is the copybook compiler and record codec. An instance carries the
// configured charset, the spec values available to OCCURS expressions and a
// cache of compiled layouts, so the same instance should be reused across
// operations.
//
// Key properties:
//   - Layout caching: each distinct copybook source is parsed and compiled once
//   - Spec value support: symbolic OCCURS counts resolve against runtime values
//   - Thread-safe compilation: layouts are immutable and safe to share; each
//     record accessor tree owns one buffer and is used from one goroutine
//
// Example usage:
//
//	ds := dyncb.NewDynCb(nil, dyncb.WithCharset(textenc.EBCDIC()))
//	layout, err := ds.CompileCopybook(copybookText)
//	rec, err := layout.NewRecord(inputBytes)
//	name, err := rec.Get("CUSTOMER-NAME")
type DynCb struct {
	layoutCache    *LayoutCache
	specValues     map[string]any
	specValueCache map[string]*cachedSpecValue
	charset        *textenc.Charset
	trimSpaces     bool
	logCb          func(format string, args ...any)

	// Verbose enables detailed logging of compilation steps through the
	// configured log callback.
	Verbose bool
}

// NewDynCb creates a new copybook compiler instance.
//
// The specs map supplies the values symbolic OCCURS counts are resolved
// against; expressions in the copybook may combine them arithmetically
// (e.g. OCCURS MAX_ITEMS*2 TIMES). Keys containing dashes are aliased with
// underscores so copybook-style names can be used directly. Pass nil when the
// copybooks use literal counts only.
func NewDynCb(specs map[string]any, opts ...DynCbOption) *DynCb {
	options := &DynCbOptions{}
	for _, opt := range opts {
		opt(options)
	}

	specValues := map[string]any{}
	for name, value := range specs {
		specValues[name] = value
		if alias := strings.ReplaceAll(name, "-", "_"); alias != name {
			specValues[alias] = value
		}
	}

	charset := options.Charset
	if charset == nil {
		charset = textenc.ASCII()
	}

	d := &DynCb{
		specValues:     specValues,
		specValueCache: map[string]*cachedSpecValue{},
		charset:        charset,
		trimSpaces:     !options.NoTrim,
		logCb:          options.LogCb,
		Verbose:        options.Verbose,
	}
	d.layoutCache = NewLayoutCache(d)
	return d
}

// CompileCopybook compiles copybook source text into a record layout.
// Compilation is amortized: the same source compiles once per instance.
// A grammar or picture clause violation aborts the whole compilation; no
// partial layout is returned.
func (d *DynCb) CompileCopybook(source string) (*Layout, error) {
	layout, err := d.layoutCache.GetLayout(source)
	if err != nil {
		return nil, err
	}
	d.logf("compiled copybook: %d bytes, %d top level fields", layout.Size, len(layout.Root.Children))
	return layout, nil
}

// Charset returns the byte<->text conversion the instance encodes and
// decodes text fields with.
func (d *DynCb) Charset() *textenc.Charset {
	return d.charset
}

func (d *DynCb) logf(format string, args ...any) {
	if !d.Verbose || d.logCb == nil {
		return
	}
	d.logCb(format, args...)
}
