// Copyright (c) 2026 mframe-io
// SPDX-License-Identifier: Apache-2.0
// This file is part of the dynamic-copybook library.

package main

import (
	"flag"
	"log"
	"os"
	"strconv"
	"strings"

	dyncb "github.com/mframe-io/dynamic-copybook"
	"github.com/mframe-io/dynamic-copybook/codegen"
)

func main() {
	var (
		copybookFile = flag.String("copybook", "", "Copybook source file to compile")
		typeName     = flag.String("type", "", "Name of the generated wrapper type")
		packageName  = flag.String("package", "", "Package name for the generated code")
		outputFile   = flag.String("output", "", "Output file path for generated code")
		specFlags    specValueFlags
		verbose      = flag.Bool("v", false, "Verbose output")
	)
	flag.Var(&specFlags, "spec", "Spec value as NAME=NUMBER, repeatable")
	flag.Parse()

	if *copybookFile == "" {
		log.Fatal("Copybook file is required (-copybook)")
	}
	if *typeName == "" {
		log.Fatal("Type name is required (-type)")
	}
	if *packageName == "" {
		log.Fatal("Package name is required (-package)")
	}
	if *outputFile == "" {
		log.Fatal("Output file is required (-output)")
	}

	source, err := os.ReadFile(*copybookFile)
	if err != nil {
		log.Fatalf("Failed to read copybook %s: %v", *copybookFile, err)
	}

	ds := dyncb.NewDynCb(specFlags.values)
	layout, err := ds.CompileCopybook(string(source))
	if err != nil {
		log.Fatalf("Failed to compile copybook: %v", err)
	}
	if *verbose {
		log.Printf("Compiled copybook: %d bytes, %d top level fields", layout.Size, len(layout.Root.Children))
	}

	generated, err := codegen.Generate(layout, codegen.Options{
		Package:  *packageName,
		TypeName: *typeName,
	})
	if err != nil {
		log.Fatalf("Failed to generate binding: %v", err)
	}

	if err := os.WriteFile(*outputFile, generated, 0o644); err != nil {
		log.Fatalf("Failed to write %s: %v", *outputFile, err)
	}
	if *verbose {
		log.Printf("Wrote %s (%d bytes)", *outputFile, len(generated))
	}
}

type specValueFlags struct {
	values map[string]any
}

func (f *specValueFlags) String() string {
	parts := make([]string, 0, len(f.values))
	for name, value := range f.values {
		parts = append(parts, name+"="+strconv.FormatUint(value.(uint64), 10))
	}
	return strings.Join(parts, ",")
}

func (f *specValueFlags) Set(arg string) error {
	name, value, ok := strings.Cut(arg, "=")
	if !ok {
		return strconv.ErrSyntax
	}
	parsed, err := strconv.ParseUint(value, 10, 64)
	if err != nil {
		return err
	}
	if f.values == nil {
		f.values = map[string]any{}
	}
	f.values[name] = parsed
	return nil
}
