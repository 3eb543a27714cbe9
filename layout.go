// dyncb: COBOL copybook compilation and fixed-width record access for Go.
// This file is part of the dyncb package.
// Copyright (c) 2026 by mframe-io. Refer to LICENSE for more information.
package dyncb

import (
	"fmt"
	"strings"
	"sync"

	"github.com/mframe-io/dynamic-copybook/cbutils"
)

// NodeKind identifies the variant of a LayoutNode.
type NodeKind uint8

const (
	// NodeScalar is a single codec-backed field.
	NodeScalar NodeKind = iota
	// NodeGroup is an ordered set of named children: the record root or the
	// element of a repeating group.
	NodeGroup
	// NodeArray is a fixed-count repetition of its element node.
	NodeArray
)

// LayoutNode is one node of a compiled record layout. Nodes are built once
// by the layout compiler and never modified afterwards, so a Layout can be
// shared read-only across any number of records.
//
// Offset is absolute within the record, except for nodes below an array
// element, whose offsets are relative to the element start (each repetition
// places the same sub-layout at a different base).
type LayoutNode struct {
	Kind      NodeKind
	Name      string
	Offset    int
	Length    int
	Redefines string // name of the overlaid sibling, "" if none
	Filler    bool

	// scalar fields
	Type  *FieldType
	Value string // raw VALUE literal, "" if none

	// group fields
	Children []*LayoutNode

	// array fields
	Count      int
	ElemLength int
	Elem       *LayoutNode

	childIndex map[string]*LayoutNode
}

// Child resolves a group child by normalized name. Returns nil if the name
// is not a child of this group.
func (n *LayoutNode) Child(name string) *LayoutNode {
	return n.childIndex[NormalizeName(name)]
}

// Layout is the compiled description of one fixed-width record. It is
// immutable after compilation; the default template is built lazily on the
// first record constructed without a buffer.
type Layout struct {
	dyncb *DynCb

	// Root is the record-level group holding all top-level fields.
	Root *LayoutNode
	// Size is the total record length in bytes.
	Size int

	defaultOnce sync.Once
	defaultBuf  []byte
	defaultErr  error
}

// NewRecord binds the layout to a byte buffer and returns the accessor tree
// over it. A nil buffer allocates a fresh record of the layout's size,
// pre-populated with the encoded VALUE-clause defaults. A supplied buffer
// must be at least Size bytes long.
func (l *Layout) NewRecord(buf []byte) (*Record, error) {
	if buf == nil {
		template, err := l.defaultTemplate()
		if err != nil {
			return nil, err
		}
		buf = make([]byte, l.Size)
		copy(buf, template)
	} else if len(buf) < l.Size {
		return nil, fmt.Errorf("%w: layout needs %d bytes, got %d", cbutils.ErrBufferLength, l.Size, len(buf))
	}
	return &Record{
		Group:  newGroup(l.dyncb, l.Root, buf, 0),
		layout: l,
	}, nil
}

// defaultTemplate returns the record image with every VALUE-clause default
// applied, building it once per layout.
func (l *Layout) defaultTemplate() ([]byte, error) {
	l.defaultOnce.Do(func() {
		buf := make([]byte, l.Size)
		l.defaultErr = l.applyDefaults(l.Root, 0, buf)
		l.defaultBuf = buf
	})
	return l.defaultBuf, l.defaultErr
}

func (l *Layout) applyDefaults(node *LayoutNode, base int, buf []byte) error {
	switch node.Kind {
	case NodeScalar:
		if node.Value == "" {
			return nil
		}
		start := base + node.Offset
		return l.encodeDefault(node, buf[start:start+node.Length])
	case NodeGroup:
		for _, child := range node.Children {
			if err := l.applyDefaults(child, base, buf); err != nil {
				return err
			}
		}
	case NodeArray:
		for i := 0; i < node.Count; i++ {
			if err := l.applyDefaults(node.Elem, base+node.Offset+i*node.ElemLength, buf); err != nil {
				return err
			}
		}
	}
	return nil
}

// encodeDefault applies one VALUE literal to a field slice. Quoted literals
// are used verbatim, the figurative constants SPACE/ZERO/LOW-VALUE/HIGH-VALUE
// fill the field, anything else is encoded through the field codec.
func (l *Layout) encodeDefault(node *LayoutNode, buf []byte) error {
	literal := node.Value
	switch NormalizeName(literal) {
	case "SPACE", "SPACES":
		cbutils.Fill(buf, l.dyncb.charset.Space)
		return nil
	case "ZERO", "ZEROS", "ZEROES":
		if node.Type.Kind == FieldAlphanumeric || node.Type.Kind == FieldEdited {
			cbutils.Fill(buf, l.dyncb.charset.Digits[0])
			return nil
		}
		literal = "0"
	case "LOW_VALUE", "LOW_VALUES":
		cbutils.Fill(buf, 0x00)
		return nil
	case "HIGH_VALUE", "HIGH_VALUES":
		cbutils.Fill(buf, 0xff)
		return nil
	}
	if len(literal) >= 2 && (literal[0] == '\'' || literal[0] == '"') {
		literal = literal[1 : len(literal)-1]
	}
	var err error
	if node.Type.Kind == FieldAlphanumeric || node.Type.Kind == FieldEdited {
		err = l.dyncb.encodeField(node.Type, buf, literal)
	} else {
		err = l.dyncb.encodeField(node.Type, buf, strings.TrimPrefix(literal, "+"))
	}
	if err != nil {
		return fmt.Errorf("default value for %s: %w", node.Name, err)
	}
	return nil
}
