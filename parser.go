// dyncb: COBOL copybook compilation and fixed-width record access for Go.
// This file is part of the dyncb package.
// Copyright (c) 2026 by mframe-io. Refer to LICENSE for more information.
package dyncb

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/mframe-io/dynamic-copybook/cbutils"
)

// DeclaredVariable is one parsed copybook declaration. It is produced by the
// grammar parser and consumed by the layout compiler; instances are never
// modified after parsing.
type DeclaredVariable struct {
	Level     int    // 1-49
	Name      string // normalized (upper case, dashes joined with underscores)
	Format    string // raw picture format, "" for group items
	Occurs    int    // repeat count, 0 for scalar items
	Redefines string // normalized target name, "" if not redefining
	Value     string // raw VALUE literal, "" if none

	// Filler marks FILLER items; they occupy storage under a synthetic name
	// but are not meant to be addressed by callers.
	Filler bool
}

var (
	declRe      = regexp.MustCompile(`^(\d{1,2})\s+([A-Za-z][A-Za-z0-9-]*|[0-9][A-Za-z0-9-]*[A-Za-z][A-Za-z0-9-]*)(\s+.*)?$`)
	redefinesRe = regexp.MustCompile(`^\s*REDEFINES\s+([A-Za-z0-9-]+)`)
	pictureRe   = regexp.MustCompile(`\bPIC(?:TURE)?\s+(\S+)(\s+(?:COMP(?:-[34])?|COMPUTATIONAL(?:-3)?|BINARY|PACKED-DECIMAL))?`)
	occursRe    = regexp.MustCompile(`\bOCCURS\s+(.+?)(?:\s+TIMES\b|$)`)
	valueRe     = regexp.MustCompile(`\bVALUE\s+(?:IS\s+)?('[^']*'|"[^"]*"|\S+)`)
)

// parseDeclarations turns copybook source text into the ordered declaration
// list. The source is split on clause-terminating periods (a period followed
// by whitespace or end of input, so decimal points inside edited pictures and
// quoted literals survive), comment lines are dropped and whitespace is
// collapsed before each clause is matched against the grammar. Nesting is
// carried by the level numbers alone; the layout compiler derives group
// scoping from them.
func (d *DynCb) parseDeclarations(source string) ([]DeclaredVariable, error) {
	vars := []DeclaredVariable{}
	fillerSeq := 0

	for _, clause := range splitClauses(source) {
		m := declRe.FindStringSubmatch(clause)
		if m == nil {
			return nil, fmt.Errorf("%w: %q", cbutils.ErrGrammar, clause)
		}
		level, err := strconv.Atoi(m[1])
		if err != nil || level < 1 || level > 49 {
			return nil, fmt.Errorf("%w: level %q out of range in %q", cbutils.ErrGrammar, m[1], clause)
		}

		v := DeclaredVariable{Level: level, Name: NormalizeName(m[2])}
		if v.Name == "FILLER" {
			fillerSeq++
			v.Name = fmt.Sprintf("FILLER_%d", fillerSeq)
			v.Filler = true
		}
		rest := m[3]

		if rm := redefinesRe.FindStringSubmatch(rest); rm != nil {
			v.Redefines = NormalizeName(rm[1])
			rest = rest[len(rm[0]):]
		}
		if pm := pictureRe.FindStringSubmatch(rest); pm != nil {
			v.Format = strings.TrimSpace(pm[1] + pm[2])
		}
		if vm := valueRe.FindStringSubmatch(rest); vm != nil {
			v.Value = vm[1]
		}
		if om := occursRe.FindStringSubmatch(rest); om != nil {
			count, err := d.resolveOccurs(om[1])
			if err != nil {
				return nil, fmt.Errorf("%w: OCCURS count in %q: %v", cbutils.ErrGrammar, clause, err)
			}
			v.Occurs = count
		}

		vars = append(vars, v)
	}
	return vars, nil
}

// resolveOccurs turns the OCCURS count token into a fixed repeat count.
// Plain integers are taken literally; anything else is evaluated as a
// spec-value expression, so counts like MAX_ITEMS or MAX_ITEMS*2 resolve
// against the values the DynCb instance was created with. The count is fixed
// at compile time either way, records stay fixed-width.
func (d *DynCb) resolveOccurs(token string) (int, error) {
	token = strings.TrimSpace(token)
	if n, err := strconv.Atoi(token); err == nil {
		if n <= 0 {
			return 0, fmt.Errorf("count must be positive, got %d", n)
		}
		return n, nil
	}
	ok, value, err := d.getSpecValue(strings.ReplaceAll(token, "-", "_"))
	if err != nil {
		return 0, err
	}
	if !ok || value == 0 {
		return 0, fmt.Errorf("expression %q did not resolve to a positive count", token)
	}
	return int(value), nil
}

// splitClauses splits copybook source into whitespace-collapsed clause
// strings. Lines whose first non-blank character is '*' are comments.
func splitClauses(source string) []string {
	lines := strings.Split(source, "\n")
	kept := make([]string, 0, len(lines))
	for _, line := range lines {
		if trimmed := strings.TrimSpace(line); strings.HasPrefix(trimmed, "*") {
			continue
		}
		kept = append(kept, line)
	}
	text := strings.Join(kept, "\n")

	clauses := []string{}
	var sb strings.Builder
	var quote byte
	flush := func() {
		clause := strings.Join(strings.Fields(sb.String()), " ")
		if clause != "" {
			clauses = append(clauses, clause)
		}
		sb.Reset()
	}
	for i := 0; i < len(text); i++ {
		c := text[i]
		switch {
		case quote != 0:
			sb.WriteByte(c)
			if c == quote {
				quote = 0
			}
		case c == '\'' || c == '"':
			quote = c
			sb.WriteByte(c)
		case c == '.' && (i+1 == len(text) || isSpace(text[i+1])):
			flush()
		default:
			sb.WriteByte(c)
		}
	}
	flush()
	return clauses
}

func isSpace(c byte) bool {
	return c == ' ' || c == '\t' || c == '\r' || c == '\n'
}

// NormalizeName maps a copybook field name to its canonical form: upper case
// with dashes replaced by underscores. Callers may address fields with either
// separator.
func NormalizeName(name string) string {
	return strings.ToUpper(strings.ReplaceAll(name, "-", "_"))
}
