package alignment

import (
	"github.com/arthur-debert/modmerge/pkg/errors"
)

// Range is a half-open byte range in one view
type Range struct {
	Start int
	End   int
}

// ChangeKind describes what a resolution did to the chain
type ChangeKind int

const (
	// Replaced means a block was swapped for one or more new blocks
	Replaced ChangeKind = iota
	// Spliced means a block was removed without replacement
	Spliced
	// Edited means a block's result text changed in place
	Edited
	// Appended means a block was added after the tail
	Appended
)

func (k ChangeKind) String() string {
	switch k {
	case Replaced:
		return "replaced"
	case Spliced:
		return "spliced"
	case Edited:
		return "edited"
	case Appended:
		return "appended"
	default:
		return "unknown"
	}
}

// Change reports a mutation of the chain. For every view, the text in Old
// has been replaced by the concatenated text of the Inserted blocks in that
// view. Applying the same replacement to a buffer holding the previous
// document yields the current one.
type Change struct {
	Kind     ChangeKind
	Removed  BlockID
	Old      [viewCount]Range
	Inserted []BlockID
}

// InsertedText returns the text the change put in place of Old in view
func (c Change) InsertedText(m *Model, view View) string {
	text := ""
	for _, id := range c.Inserted {
		text += m.BlockText(id, view)
	}
	return text
}

// Apply replays the change on a buffer holding the previous document of view
func (c Change) Apply(m *Model, view View, buf string) string {
	r := c.Old[view]
	return buf[:r.Start] + c.InsertedText(m, view) + buf[r.End:]
}

// Take resolves block id to the raw text of side. A OneSided block that lacks
// side is removed from the chain.
func (m *Model) Take(id BlockID, side Side) (Change, error) {
	if !m.Contains(id) {
		return Change{}, notInChain(id)
	}
	b := m.blocks[id]
	change := Change{Removed: id, Old: m.ranges(id)}

	if !b.Has(side) {
		m.replace(id, nil)
		change.Kind = Spliced
		return change, nil
	}

	nid := m.alloc(equalBlock(b.Raw(side)))
	m.replace(id, []BlockID{nid})
	change.Kind = Replaced
	change.Inserted = []BlockID{nid}
	return change, nil
}

// TakeThen resolves block id to the raw text of first followed by the raw
// text of second, as two Equal blocks. A side the block lacks contributes
// nothing, so a OneSided block reduces to Take of its present side.
func (m *Model) TakeThen(id BlockID, first, second Side) (Change, error) {
	if !m.Contains(id) {
		return Change{}, notInChain(id)
	}
	if first == second {
		return Change{}, errors.Newf(errors.ErrInvalidOperation, "cannot take the %s side twice", first)
	}
	b := m.blocks[id]
	if b.Kind == OneSided {
		return m.Take(id, b.Side)
	}

	change := Change{Kind: Replaced, Removed: id, Old: m.ranges(id)}
	change.Inserted = []BlockID{
		m.alloc(equalBlock(b.Raw(first))),
		m.alloc(equalBlock(b.Raw(second))),
	}
	m.replace(id, change.Inserted)
	return change, nil
}

// EditResult rewrites the result text of Equal block id: deleteLen bytes at
// offset are replaced by insert. Left and right text and the block count are
// never affected.
func (m *Model) EditResult(id BlockID, offset, deleteLen int, insert string) (Change, error) {
	if !m.Contains(id) {
		return Change{}, notInChain(id)
	}
	b := &m.blocks[id]
	if b.Kind != Equal {
		return Change{}, errors.Newf(errors.ErrInvalidOperation, "block %d is a %s block; only equal blocks take result edits", id, b.Kind).
			WithDetail("block", int(id))
	}
	if offset < 0 || deleteLen < 0 || offset+deleteLen > len(b.result) {
		return Change{}, errors.Newf(errors.ErrInvalidOperation, "edit [%d,%d) is outside block %d", offset, offset+deleteLen, id).
			WithDetail("block", int(id))
	}

	change := Change{Kind: Edited, Removed: id, Old: m.ranges(id), Inserted: []BlockID{id}}
	b.result = b.result[:offset] + insert + b.result[offset+deleteLen:]
	return change, nil
}

// Append adds text to the end of the result as a new trailing Equal block.
// The new block has no left or right content.
func (m *Model) Append(text string) Change {
	var old [viewCount]Range
	for _, v := range Views {
		n := m.Len(v)
		old[v] = Range{Start: n, End: n}
	}
	id := m.push(Block{Kind: Equal, result: text})
	return Change{Kind: Appended, Removed: NoBlock, Old: old, Inserted: []BlockID{id}}
}
