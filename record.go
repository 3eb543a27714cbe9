// dyncb: COBOL copybook compilation and fixed-width record access for Go.
// This file is part of the dyncb package.
// Copyright (c) 2026 by mframe-io. Refer to LICENSE for more information.
package dyncb

import (
	"fmt"
	"strings"

	"github.com/mframe-io/dynamic-copybook/cbutils"
)

// Record is the accessor tree over one record buffer. It is the root Group
// of the layout plus the buffer itself. A record owns logical access to its
// buffer; use one record per buffer per goroutine.
type Record struct {
	*Group
	layout *Layout
}

// Layout returns the compiled layout the record was built from.
func (r *Record) Layout() *Layout {
	return r.layout
}

// Bytes returns the underlying record buffer. Writes through the accessors
// are visible in the returned slice immediately.
func (r *Record) Bytes() []byte {
	return r.buf[:r.layout.Size]
}

// Text converts the whole record buffer through the configured charset.
func (r *Record) Text() (string, error) {
	return r.dyncb.charset.Decode(r.Bytes())
}

// Group exposes the named children of a group node over the record buffer.
// Child accessors and decoded scalar values are materialized lazily and
// cached; Set invalidates the cache entry of the written name so the next
// Get re-reads the buffer. Fields overlaying the same storage through
// REDEFINES are cached under their own names and keep any value decoded
// before the overlaid write; re-read aliased fields through a fresh accessor.
type Group struct {
	dyncb  *DynCb
	node   *LayoutNode
	buf    []byte
	base   int // absolute offset of the group start
	values map[string]any
}

func newGroup(d *DynCb, node *LayoutNode, buf []byte, base int) *Group {
	return &Group{
		dyncb:  d,
		node:   node,
		buf:    buf,
		base:   base,
		values: map[string]any{},
	}
}

// Get returns the value of a named child: the decoded value for scalar
// fields, a *Group or *Array accessor for composite ones. Unknown names fail
// with cbutils.ErrUnknownField.
func (g *Group) Get(name string) (any, error) {
	key := NormalizeName(name)
	if value, ok := g.values[key]; ok {
		return value, nil
	}
	child := g.node.childIndex[key]
	if child == nil {
		return nil, fmt.Errorf("%w: %s", cbutils.ErrUnknownField, name)
	}
	value, err := g.materialize(child)
	if err != nil {
		return nil, err
	}
	g.values[key] = value
	return value, nil
}

func (g *Group) materialize(child *LayoutNode) (any, error) {
	switch child.Kind {
	case NodeScalar:
		slice, err := g.fieldSlice(child)
		if err != nil {
			return nil, err
		}
		return g.dyncb.decodeField(child.Type, slice)
	case NodeArray:
		return &Array{dyncb: g.dyncb, node: child, buf: g.buf, base: g.base + child.Offset}, nil
	default:
		return newGroup(g.dyncb, child, g.buf, g.base+child.Offset), nil
	}
}

// Set encodes a scalar value into the named child's storage. Assigning to a
// group or array child fails with cbutils.ErrInvalidAssignment; the buffer
// is left untouched on any error.
func (g *Group) Set(name string, value any) error {
	key := NormalizeName(name)
	child := g.node.childIndex[key]
	if child == nil {
		return fmt.Errorf("%w: %s", cbutils.ErrUnknownField, name)
	}
	if child.Kind != NodeScalar {
		return fmt.Errorf("%w: %s is a %s", cbutils.ErrInvalidAssignment, name, kindName(child.Kind))
	}
	slice, err := g.fieldSlice(child)
	if err != nil {
		return err
	}
	if err := g.dyncb.encodeField(child.Type, slice, value); err != nil {
		return err
	}
	delete(g.values, key)
	return nil
}

func (g *Group) fieldSlice(child *LayoutNode) ([]byte, error) {
	start := g.base + child.Offset
	if start+child.Length > len(g.buf) {
		return nil, fmt.Errorf("%w: field %s ends at %d, buffer has %d bytes",
			cbutils.ErrBufferLength, child.Name, start+child.Length, len(g.buf))
	}
	return g.buf[start : start+child.Length], nil
}

// Names lists the addressable children in declaration order. FILLER storage
// is part of the layout but not listed.
func (g *Group) Names() []string {
	names := make([]string, 0, len(g.node.Children))
	for _, child := range g.node.Children {
		if !child.Filler {
			names = append(names, child.Name)
		}
	}
	return names
}

// Fields materializes every addressable child and returns the name to value
// mapping, so no unrendered field is silently omitted.
func (g *Group) Fields() (map[string]any, error) {
	fields := make(map[string]any, len(g.node.Children))
	for _, name := range g.Names() {
		value, err := g.Get(name)
		if err != nil {
			return nil, err
		}
		fields[name] = value
	}
	return fields, nil
}

func (g *Group) String() string {
	var sb strings.Builder
	sb.WriteByte('{')
	for i, name := range g.Names() {
		if i > 0 {
			sb.WriteString(", ")
		}
		sb.WriteString(name)
		sb.WriteByte(':')
		value, err := g.Get(name)
		if err != nil {
			fmt.Fprintf(&sb, "<%v>", err)
			continue
		}
		fmt.Fprintf(&sb, "%v", value)
	}
	sb.WriteByte('}')
	return sb.String()
}

// Array exposes the indexed elements of a repeating group or field over the
// record buffer. Element accessors are materialized lazily and cached per
// index.
type Array struct {
	dyncb *DynCb
	node  *LayoutNode
	buf   []byte
	base  int // absolute offset of the first element
	elems []any
}

// Len returns the declared repeat count.
func (a *Array) Len() int {
	return a.node.Count
}

// Get returns the element at the given index: the decoded value for scalar
// elements, a *Group accessor for group elements. Indexes outside the
// declared count fail with cbutils.ErrUnknownField.
func (a *Array) Get(index int) (any, error) {
	if index < 0 || index >= a.node.Count {
		return nil, fmt.Errorf("%w: index %d of %d", cbutils.ErrUnknownField, index, a.node.Count)
	}
	if a.elems == nil {
		a.elems = make([]any, a.node.Count)
	}
	if a.elems[index] != nil {
		return a.elems[index], nil
	}
	value, err := a.materialize(index)
	if err != nil {
		return nil, err
	}
	a.elems[index] = value
	return value, nil
}

func (a *Array) materialize(index int) (any, error) {
	start := a.base + index*a.node.ElemLength
	if a.node.Elem.Kind == NodeGroup {
		return newGroup(a.dyncb, a.node.Elem, a.buf, start), nil
	}
	if start+a.node.ElemLength > len(a.buf) {
		return nil, fmt.Errorf("%w: element %d ends at %d, buffer has %d bytes",
			cbutils.ErrBufferLength, index, start+a.node.ElemLength, len(a.buf))
	}
	return a.dyncb.decodeField(a.node.Elem.Type, a.buf[start:start+a.node.ElemLength])
}

// Set encodes a scalar value into the element at the given index. Group
// elements cannot be assigned directly and fail with
// cbutils.ErrInvalidAssignment.
func (a *Array) Set(index int, value any) error {
	if index < 0 || index >= a.node.Count {
		return fmt.Errorf("%w: index %d of %d", cbutils.ErrUnknownField, index, a.node.Count)
	}
	if a.node.Elem.Kind == NodeGroup {
		return fmt.Errorf("%w: element %d is a group", cbutils.ErrInvalidAssignment, index)
	}
	start := a.base + index*a.node.ElemLength
	if start+a.node.ElemLength > len(a.buf) {
		return fmt.Errorf("%w: element %d ends at %d, buffer has %d bytes",
			cbutils.ErrBufferLength, index, start+a.node.ElemLength, len(a.buf))
	}
	if err := a.dyncb.encodeField(a.node.Elem.Type, a.buf[start:start+a.node.ElemLength], value); err != nil {
		return err
	}
	if a.elems != nil {
		a.elems[index] = nil
	}
	return nil
}

// Values materializes every element and returns them in index order.
func (a *Array) Values() ([]any, error) {
	values := make([]any, a.node.Count)
	for i := range values {
		value, err := a.Get(i)
		if err != nil {
			return nil, err
		}
		values[i] = value
	}
	return values, nil
}

func (a *Array) String() string {
	var sb strings.Builder
	sb.WriteByte('[')
	for i := 0; i < a.node.Count; i++ {
		if i > 0 {
			sb.WriteString(", ")
		}
		value, err := a.Get(i)
		if err != nil {
			fmt.Fprintf(&sb, "<%v>", err)
			continue
		}
		fmt.Fprintf(&sb, "%v", value)
	}
	sb.WriteByte(']')
	return sb.String()
}

func kindName(k NodeKind) string {
	switch k {
	case NodeGroup:
		return "group"
	case NodeArray:
		return "array"
	default:
		return "scalar"
	}
}
