package session

import (
	"github.com/arthur-debert/modmerge/pkg/alignment"
	"github.com/arthur-debert/modmerge/pkg/errors"
)

// Cursor returns the block block commands apply to
func (s *Session) Cursor() alignment.BlockID { return s.cursor }

// Select moves the cursor to block id
func (s *Session) Select(id alignment.BlockID) error {
	if s.state != Aligned {
		return s.wrongState("select")
	}
	if !s.model.Contains(id) {
		return errors.Newf(errors.ErrInvalidOperation, "block %d is not part of the alignment", id).
			WithDetail("block", int(id))
	}
	s.cursor = id
	return nil
}

// SelectAt moves the cursor to the block covering offset in view
func (s *Session) SelectAt(offset int, view alignment.View) error {
	if s.state != Aligned {
		return s.wrongState("select")
	}
	id, _, err := s.model.BlockAt(offset, view)
	if err != nil {
		return err
	}
	s.cursor = id
	return nil
}

// NextConflict moves the cursor to the next Conflict block and reports
// whether there was one
func (s *Session) NextConflict() bool {
	return s.seekConflict(s.model.Next)
}

// PrevConflict moves the cursor to the previous Conflict block and reports
// whether there was one
func (s *Session) PrevConflict() bool {
	return s.seekConflict(s.model.Prev)
}

func (s *Session) seekConflict(step func(alignment.BlockID) alignment.BlockID) bool {
	if s.state != Aligned {
		return false
	}
	for id := step(s.cursor); id != alignment.NoBlock; id = step(id) {
		if b, _ := s.model.Block(id); b.Kind == alignment.Conflict {
			s.cursor = id
			return true
		}
	}
	return false
}

// TakeLeft resolves the cursor block to its left text
func (s *Session) TakeLeft() error {
	return s.take(alignment.Left)
}

// TakeRight resolves the cursor block to its right text
func (s *Session) TakeRight() error {
	return s.take(alignment.Right)
}

// TakeLeftThenRight resolves the cursor block to its left text followed by
// its right text
func (s *Session) TakeLeftThenRight() error {
	return s.takeThen(alignment.Left, alignment.Right)
}

// TakeRightThenLeft resolves the cursor block to its right text followed by
// its left text
func (s *Session) TakeRightThenLeft() error {
	return s.takeThen(alignment.Right, alignment.Left)
}

func (s *Session) take(side alignment.Side) error {
	return s.resolveCursor(func(id alignment.BlockID) (alignment.Change, error) {
		return s.model.Take(id, side)
	})
}

func (s *Session) takeThen(first, second alignment.Side) error {
	return s.resolveCursor(func(id alignment.BlockID) (alignment.Change, error) {
		return s.model.TakeThen(id, first, second)
	})
}

func (s *Session) resolveCursor(op func(alignment.BlockID) (alignment.Change, error)) error {
	if s.state != Aligned {
		return s.wrongState("resolve a block")
	}
	prev := s.model.Prev(s.cursor)
	change, err := op(s.cursor)
	if err != nil {
		return err
	}
	s.apply(change)

	s.cursor = s.model.NextDifference(prev)
	if s.cursor == alignment.NoBlock {
		s.cursor = s.firstDifference()
	}

	if s.autoCommit && s.model.IsFullyResolved() {
		_, err := s.Commit()
		return err
	}
	return nil
}

// EditResult replaces deleteLen bytes of the result at offset with insert.
// The edited range must lie within one block that is resolved text; an
// offset on the boundary after such a block edits that block, and an insert
// at the very end of the result after unresolved text is appended.
func (s *Session) EditResult(offset, deleteLen int, insert string) error {
	if s.state != Aligned {
		return s.wrongState("edit")
	}

	id, inner, err := s.model.BlockAt(offset, alignment.ViewResult)
	switch {
	case err != nil && offset == 0 && deleteLen == 0:
		// Nothing to edit yet
		return s.AppendResult(insert)
	case err != nil:
		return err
	}

	if b, _ := s.model.Block(id); b.Kind != alignment.Equal {
		prev := s.model.Prev(id)
		pb, ok := s.model.Block(prev)
		switch {
		case inner == 0 && ok && pb.Kind == alignment.Equal:
			id, inner = prev, len(s.model.BlockText(prev, alignment.ViewResult))
		case id == s.model.Tail() && inner == len(s.model.BlockText(id, alignment.ViewResult)) && deleteLen == 0:
			return s.AppendResult(insert)
		default:
			return errors.Newf(errors.ErrInvalidOperation, "offset %d is inside an unresolved %s block", offset, b.Kind).
				WithDetail("block", int(id))
		}
	}

	change, err := s.model.EditResult(id, inner, deleteLen, insert)
	if err != nil {
		return err
	}
	s.apply(change)
	return nil
}

// AppendResult adds text at the end of the result
func (s *Session) AppendResult(text string) error {
	if s.state != Aligned {
		return s.wrongState("append")
	}
	s.apply(s.model.Append(text))
	return nil
}

// apply replays a change on the three buffers
func (s *Session) apply(change alignment.Change) {
	for _, v := range alignment.Views {
		s.buffers[v] = change.Apply(s.model, v, s.buffers[v])
	}
}

func (s *Session) firstDifference() alignment.BlockID {
	if id := s.model.NextDifference(alignment.NoBlock); id != alignment.NoBlock {
		return id
	}
	return s.model.Head()
}
