// dyncb: COBOL copybook compilation and fixed-width record access for Go.
// This file is part of the dyncb package.
// Copyright (c) 2026 by mframe-io. Refer to LICENSE for more information.
package dyncb

var globalDynCb *DynCb

func GetGlobalDynCb() *DynCb {
	if globalDynCb == nil {
		globalDynCb = NewDynCb(nil)
	}
	return globalDynCb
}

func SetGlobalSpecs(specs map[string]any) {
	globalDynCb = NewDynCb(specs)
}

// CompileCopybook compiles a copybook with the global instance.
func CompileCopybook(source string) (*Layout, error) {
	return GetGlobalDynCb().CompileCopybook(source)
}
