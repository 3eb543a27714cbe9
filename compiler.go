// dyncb: COBOL copybook compilation and fixed-width record access for Go.
// This file is part of the dyncb package.
// Copyright (c) 2026 by mframe-io. Refer to LICENSE for more information.
package dyncb

import (
	"fmt"

	"github.com/mframe-io/dynamic-copybook/cbutils"
)

// compilerFrame tracks the running byte offset of one open offset scope:
// the record root or the interior of an OCCURS group. Offsets of items in a
// frame are relative to the frame's group start.
type compilerFrame struct {
	group  *LayoutNode
	offset int

	// marks records the start offset of flattened plain groups, so later
	// REDEFINES clauses can target them.
	marks map[string]int
}

func (f *compilerFrame) mark(name string) {
	if f.marks == nil {
		f.marks = map[string]int{}
	}
	f.marks[name] = f.offset
}

// targetOffset resolves a REDEFINES target among the already-declared
// siblings of the frame: scalar and array nodes by name, flattened plain
// groups by their recorded start offset.
func (f *compilerFrame) targetOffset(name string) (int, error) {
	for i := len(f.group.Children) - 1; i >= 0; i-- {
		if f.group.Children[i].Name == name {
			return f.group.Children[i].Offset, nil
		}
	}
	if offset, ok := f.marks[name]; ok {
		return offset, nil
	}
	return 0, fmt.Errorf("%w: %s", cbutils.ErrMissingRedefinesTarget, name)
}

// compilerScope mirrors the parser's level nesting for the constructs that
// influence offsets: OCCURS groups (which open a fresh frame) and REDEFINES
// groups (which rewind the enclosing frame until they close).
type compilerScope struct {
	level     int
	array     *LayoutNode    // OCCURS scope: array node being filled
	inner     *compilerFrame // OCCURS scope: frame of the array interior
	outer     *compilerFrame // enclosing frame
	advance   bool           // advance outer offset when the array closes
	redefines bool           // REDEFINES scope
	saved     int            // REDEFINES scope: outer offset to restore
}

// compileLayout resolves the declaration list into the layout tree, walking
// in declaration order with an explicit scope stack so the compiler needs no
// shared mutable state and stays reentrant.
func (d *DynCb) compileLayout(vars []DeclaredVariable) (*Layout, error) {
	root := &LayoutNode{Kind: NodeGroup}
	rootFrame := &compilerFrame{group: root}
	scopes := []*compilerScope{}

	closeScope := func(s *compilerScope) {
		if s.redefines {
			s.outer.offset = s.saved
			return
		}
		elemLength := s.inner.offset
		s.array.Elem.Length = elemLength
		s.array.ElemLength = elemLength
		s.array.Length = elemLength * s.array.Count
		if s.advance {
			s.outer.offset += s.array.Length
		}
	}

	frame := rootFrame
	for i := range vars {
		v := &vars[i]
		for len(scopes) > 0 && scopes[len(scopes)-1].level >= v.Level {
			closeScope(scopes[len(scopes)-1])
			scopes = scopes[:len(scopes)-1]
		}
		frame = rootFrame
		for j := len(scopes) - 1; j >= 0; j-- {
			if scopes[j].array != nil {
				frame = scopes[j].inner
				break
			}
		}

		switch {
		case v.Format != "" && v.Occurs == 0:
			node, err := d.compileScalar(v, frame)
			if err != nil {
				return nil, err
			}
			frame.group.Children = append(frame.group.Children, node)
			if v.Redefines == "" {
				frame.offset += node.Length
			}

		case v.Format != "" && v.Occurs > 0:
			scalar, err := d.compileScalar(v, frame)
			if err != nil {
				return nil, err
			}
			offset := scalar.Offset
			scalar.Name, scalar.Offset, scalar.Redefines, scalar.Filler = "", 0, "", false
			node := &LayoutNode{
				Kind:       NodeArray,
				Name:       v.Name,
				Offset:     offset,
				Length:     v.Occurs * scalar.Length,
				Redefines:  v.Redefines,
				Filler:     v.Filler,
				Count:      v.Occurs,
				ElemLength: scalar.Length,
				Elem:       scalar,
			}
			frame.group.Children = append(frame.group.Children, node)
			if v.Redefines == "" {
				frame.offset += node.Length
			}

		case v.Occurs > 0:
			offset := frame.offset
			if v.Redefines != "" {
				target, err := frame.targetOffset(v.Redefines)
				if err != nil {
					return nil, err
				}
				offset = target
			}
			elem := &LayoutNode{Kind: NodeGroup}
			node := &LayoutNode{
				Kind:      NodeArray,
				Name:      v.Name,
				Offset:    offset,
				Redefines: v.Redefines,
				Filler:    v.Filler,
				Count:     v.Occurs,
				Elem:      elem,
			}
			frame.group.Children = append(frame.group.Children, node)
			scopes = append(scopes, &compilerScope{
				level:   v.Level,
				array:   node,
				inner:   &compilerFrame{group: elem},
				outer:   frame,
				advance: v.Redefines == "",
			})

		case v.Redefines != "":
			// plain group redefinition: rewind the frame to the target and
			// restore it when the group closes
			target, err := frame.targetOffset(v.Redefines)
			if err != nil {
				return nil, err
			}
			scopes = append(scopes, &compilerScope{
				level:     v.Level,
				outer:     frame,
				redefines: true,
				saved:     frame.offset,
			})
			frame.offset = target
			frame.mark(v.Name)

		default:
			// plain group: structural only, its children share this frame
			frame.mark(v.Name)
		}
	}
	for len(scopes) > 0 {
		closeScope(scopes[len(scopes)-1])
		scopes = scopes[:len(scopes)-1]
	}

	root.Length = rootFrame.offset
	buildChildIndex(root)
	return &Layout{dyncb: d, Root: root, Size: root.Length}, nil
}

func (d *DynCb) compileScalar(v *DeclaredVariable, frame *compilerFrame) (*LayoutNode, error) {
	ft, err := ParsePicture(v.Format)
	if err != nil {
		return nil, fmt.Errorf("field %s: %w", v.Name, err)
	}
	offset := frame.offset
	if v.Redefines != "" {
		target, err := frame.targetOffset(v.Redefines)
		if err != nil {
			return nil, err
		}
		offset = target
	}
	return &LayoutNode{
		Kind:      NodeScalar,
		Name:      v.Name,
		Offset:    offset,
		Length:    ft.Length,
		Redefines: v.Redefines,
		Filler:    v.Filler,
		Type:      ft,
		Value:     v.Value,
	}, nil
}

func buildChildIndex(group *LayoutNode) {
	group.childIndex = make(map[string]*LayoutNode, len(group.Children))
	for _, child := range group.Children {
		group.childIndex[child.Name] = child
		if child.Kind == NodeArray && child.Elem.Kind == NodeGroup {
			buildChildIndex(child.Elem)
		}
	}
}
