// Package textdiff produces line-granular two-way diffs of opaque text.
//
// It is a thin layer over the diff-match-patch port in
// github.com/sergi/go-diff: texts are hashed line by line, diffed, cleaned up
// semantically and expanded back to lines, so every edit covers whole lines.
package textdiff

import (
	"github.com/sergi/go-diff/diffmatchpatch"
)

// Op is the kind of a diff entry
type Op int

const (
	// Equal text is present in both inputs
	Equal Op = iota
	// Insert text is present only in the right input
	Insert
	// Delete text is present only in the left input
	Delete
)

func (o Op) String() string {
	switch o {
	case Equal:
		return "equal"
	case Insert:
		return "insert"
	case Delete:
		return "delete"
	default:
		return "unknown"
	}
}

// Diff is one entry of an edit script
type Diff struct {
	Op   Op
	Text string
}

// Lines diffs left against right. Concatenating the Equal and Delete entries
// yields left; concatenating the Equal and Insert entries yields right.
func Lines(left, right string) []Diff {
	dmp := diffmatchpatch.New()
	// Results must not depend on wall-clock time
	dmp.DiffTimeout = 0

	a, b, lines := dmp.DiffLinesToChars(left, right)
	diffs := dmp.DiffMain(a, b, false)
	diffs = dmp.DiffCleanupSemantic(diffs)
	diffs = dmp.DiffCharsToLines(diffs, lines)

	out := make([]Diff, 0, len(diffs))
	for _, d := range diffs {
		if d.Text == "" {
			continue
		}
		out = append(out, Diff{Op: convert(d.Type), Text: d.Text})
	}
	return out
}

// Left reassembles the left input from an edit script
func Left(diffs []Diff) string {
	return join(diffs, Insert)
}

// Right reassembles the right input from an edit script
func Right(diffs []Diff) string {
	return join(diffs, Delete)
}

func join(diffs []Diff, skip Op) string {
	n := 0
	for _, d := range diffs {
		if d.Op != skip {
			n += len(d.Text)
		}
	}
	buf := make([]byte, 0, n)
	for _, d := range diffs {
		if d.Op != skip {
			buf = append(buf, d.Text...)
		}
	}
	return string(buf)
}

func convert(op diffmatchpatch.Operation) Op {
	switch op {
	case diffmatchpatch.DiffInsert:
		return Insert
	case diffmatchpatch.DiffDelete:
		return Delete
	default:
		return Equal
	}
}
