package renumber

import (
	"github.com/arthur-debert/modmerge/pkg/errors"
	"github.com/arthur-debert/modmerge/pkg/logging"
)

// Placement says on which side of its current slot a file is re-inserted
type Placement int

const (
	Before Placement = iota
	After
)

func (p Placement) String() string {
	if p == Before {
		return "before"
	}
	return "after"
}

// Rename moves the file at From to To
type Rename struct {
	From string
	To   string
}

// Plan is the outcome of a move: the moved file's new path and the sibling
// renames that make room for it. Shifts are ordered so that applying them
// one by one never lands a sibling on a slot another sibling still holds.
type Plan struct {
	Path   string
	Shifts []Rename
}

// MoveBefore plans moving the file at p one slot down. See Move.
func MoveBefore(p string, set []string) (Plan, error) {
	return Move(p, Before, set)
}

// MoveAfter plans moving the file at p one slot up. See Move.
func MoveAfter(p string, set []string) (Plan, error) {
	return Move(p, After, set)
}

// Move plans re-inserting the file at p next to its current slot.
//
// set lists the other files; those sharing p's directory and unprefixed name
// are its siblings. A prefixed file at ordinal o targets o-1 (Before) or o+1
// (After); an unprefixed file targets the first or last ordinal. Siblings in
// the contiguous run starting at the target shift one step further, towards
// p's slot for a prefixed file and away from the edge for an unprefixed one.
// An entry of set at p itself, such as the merge target a file is leaving,
// keeps its slot and takes part in the run. Nothing ever wraps: a target or
// shift past either end is an ErrOutOfRange error.
func Move(p string, placement Placement, set []string) (Plan, error) {
	logger := logging.GetLogger("renumber")

	name, err := Parse(p)
	if err != nil {
		return Plan{}, err
	}

	var target Ordinal
	step := Ordinal(1)
	switch {
	case name.Prefixed && placement == Before:
		target = name.Ordinal - 1
	case name.Prefixed:
		target = name.Ordinal + 1
		step = -1
	case placement == Before:
		target = MinOrdinal
	default:
		target = MaxOrdinal
		step = -1
	}
	if target < MinOrdinal || target > MaxOrdinal {
		return Plan{}, outOfRange(p, placement)
	}

	occupants := slots(name, set)

	var run []Ordinal
	for o := target; ; o += step {
		if _, ok := occupants[o]; !ok {
			break
		}
		if o+step < MinOrdinal || o+step > MaxOrdinal {
			return Plan{}, outOfRange(p, placement).WithDetail("sibling", occupants[o].Path())
		}
		run = append(run, o)
	}

	plan := Plan{Path: name.At(target).Path()}
	for i := len(run) - 1; i >= 0; i-- {
		sib := occupants[run[i]]
		plan.Shifts = append(plan.Shifts, Rename{From: sib.Path(), To: sib.At(run[i] + step).Path()})
	}

	logger.Debug().
		Str("path", p).
		Str("placement", placement.String()).
		Str("to", plan.Path).
		Int("shifted", len(plan.Shifts)).
		Msg("Renumber planned")
	return plan, nil
}

// slots maps each ordinal held by a prefixed sibling of name to that sibling.
// Paths equal by key hold the same slot.
func slots(name Name, set []string) map[Ordinal]Name {
	out := make(map[Ordinal]Name)
	for _, s := range set {
		other, err := Parse(s)
		if err != nil {
			// Unparseable names cannot hold an ordinal slot
			continue
		}
		if other.Prefixed && name.SiblingOf(other) {
			out[other.Ordinal] = other
		}
	}
	return out
}

func outOfRange(p string, placement Placement) *errors.MergeError {
	return errors.Newf(errors.ErrOutOfRange, "cannot move %s %s: no prefix left", p, placement).
		WithDetail("path", p)
}
