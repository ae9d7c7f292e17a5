// Copyright © 2026 Teradata Corporation - All Rights Reserved.
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.

// Package testutil holds helpers shared by package tests. The fragment diff
// keeps failures on multi-kilobyte HTML strings readable.
package testutil

import (
	"fmt"
	"strings"

	"github.com/sergi/go-diff/diffmatchpatch"
)

// FragmentDiff renders a line-oriented diff between two HTML fragments.
// Equal runs longer than a few lines collapse to a count so the changed
// region stands out.
func FragmentDiff(want, got string) string {
	dmp := diffmatchpatch.New()
	wantLines, gotLines, lines := dmp.DiffLinesToChars(want, got)
	diffs := dmp.DiffCharsToLines(dmp.DiffMain(wantLines, gotLines, false), lines)

	var b strings.Builder
	for _, d := range diffs {
		text := strings.TrimRight(d.Text, "\n")
		switch d.Type {
		case diffmatchpatch.DiffDelete:
			writePrefixed(&b, "-", text)
		case diffmatchpatch.DiffInsert:
			writePrefixed(&b, "+", text)
		case diffmatchpatch.DiffEqual:
			eq := strings.Split(text, "\n")
			if len(eq) > 4 {
				writePrefixed(&b, " ", eq[0])
				fmt.Fprintf(&b, "  ... %d unchanged lines ...\n", len(eq)-2)
				writePrefixed(&b, " ", eq[len(eq)-1])
			} else {
				writePrefixed(&b, " ", text)
			}
		}
	}
	return b.String()
}

func writePrefixed(b *strings.Builder, prefix, text string) {
	for _, line := range strings.Split(text, "\n") {
		b.WriteString(prefix)
		b.WriteString(" ")
		b.WriteString(line)
		b.WriteString("\n")
	}
}
