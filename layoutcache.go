// dyncb: COBOL copybook compilation and fixed-width record access for Go.
// This file is part of the dyncb package.
// Copyright (c) 2026 by mframe-io. Refer to LICENSE for more information.
package dyncb

import "sync"

// LayoutCache holds compiled layouts keyed by copybook source, so repeated
// compilations of the same copybook are amortized to one. Compilation is
// serialized under the write lock to avoid duplicate work for concurrent
// first uses of the same copybook.
type LayoutCache struct {
	dyncb   *DynCb
	mutex   sync.RWMutex
	layouts map[string]*Layout
}

// NewLayoutCache creates a new layout cache
func NewLayoutCache(dyncb *DynCb) *LayoutCache {
	return &LayoutCache{
		dyncb:   dyncb,
		layouts: make(map[string]*Layout),
	}
}

// GetLayout returns the cached layout for a copybook source, compiling and
// caching it on first use. Failed compilations are not cached; callers get
// the same error again with corrected input expected.
func (lc *LayoutCache) GetLayout(source string) (*Layout, error) {
	lc.mutex.RLock()
	if layout, exists := lc.layouts[source]; exists {
		lc.mutex.RUnlock()
		return layout, nil
	}
	lc.mutex.RUnlock()

	lc.mutex.Lock()
	defer lc.mutex.Unlock()
	if layout, exists := lc.layouts[source]; exists {
		return layout, nil
	}

	vars, err := lc.dyncb.parseDeclarations(source)
	if err != nil {
		return nil, err
	}
	layout, err := lc.dyncb.compileLayout(vars)
	if err != nil {
		return nil, err
	}
	lc.layouts[source] = layout
	return layout, nil
}
