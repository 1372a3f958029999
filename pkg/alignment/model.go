package alignment

import (
	"strings"

	"github.com/arthur-debert/modmerge/pkg/errors"
	"github.com/arthur-debert/modmerge/pkg/logging"
	"github.com/arthur-debert/modmerge/pkg/textdiff"
)

// Model is the block chain describing one left/right pair
type Model struct {
	blocks []Block
	head   BlockID
	tail   BlockID
}

// FromTexts diffs left against right and builds a model from the result
func FromTexts(left, right string) *Model {
	return New(textdiff.Lines(left, right))
}

// New builds a model from an edit script. Equal entries become Equal blocks.
// A non-equal entry directly followed by a non-equal entry of the opposite
// direction forms one Conflict block with both; any other non-equal entry is
// a OneSided block.
func New(diffs []textdiff.Diff) *Model {
	logger := logging.GetLogger("alignment")
	m := &Model{head: NoBlock, tail: NoBlock}

	for i := 0; i < len(diffs); i++ {
		d := diffs[i]
		if d.Op == textdiff.Equal {
			m.push(equalBlock(d.Text))
			continue
		}

		if i+1 < len(diffs) {
			n := diffs[i+1]
			if n.Op != textdiff.Equal && n.Op != d.Op {
				b := Block{Kind: Conflict}
				if d.Op == textdiff.Delete {
					b.Left, b.Right = d.Text, n.Text
				} else {
					b.Left, b.Right = n.Text, d.Text
				}
				m.push(b)
				i++
				continue
			}
		}

		if d.Op == textdiff.Delete {
			m.push(Block{Kind: OneSided, Side: Left, Left: d.Text})
		} else {
			m.push(Block{Kind: OneSided, Side: Right, Right: d.Text})
		}
	}

	logger.Trace().
		Int("entries", len(diffs)).
		Int("blocks", len(m.blocks)).
		Int("conflicts", len(m.Conflicts())).
		Msg("Alignment built")
	return m
}

func (m *Model) alloc(b Block) BlockID {
	b.live = true
	b.prev, b.next = NoBlock, NoBlock
	m.blocks = append(m.blocks, b)
	return BlockID(len(m.blocks) - 1)
}

func (m *Model) push(b Block) BlockID {
	id := m.alloc(b)
	m.blocks[id].prev = m.tail
	if m.tail != NoBlock {
		m.blocks[m.tail].next = id
	} else {
		m.head = id
	}
	m.tail = id
	return id
}

// Head returns the first block of the chain, or NoBlock
func (m *Model) Head() BlockID { return m.head }

// Tail returns the last block of the chain, or NoBlock
func (m *Model) Tail() BlockID { return m.tail }

// Contains reports whether id is a block of the current chain
func (m *Model) Contains(id BlockID) bool {
	return id >= 0 && int(id) < len(m.blocks) && m.blocks[id].live
}

// Block returns a copy of the block addressed by id
func (m *Model) Block(id BlockID) (Block, bool) {
	if !m.Contains(id) {
		return Block{}, false
	}
	return m.blocks[id], true
}

// Next returns the block after id, or NoBlock
func (m *Model) Next(id BlockID) BlockID {
	if !m.Contains(id) {
		return NoBlock
	}
	return m.blocks[id].next
}

// Prev returns the block before id, or NoBlock
func (m *Model) Prev(id BlockID) BlockID {
	if !m.Contains(id) {
		return NoBlock
	}
	return m.blocks[id].prev
}

// Blocks returns the ids of the chain in order
func (m *Model) Blocks() []BlockID {
	var ids []BlockID
	for id := m.head; id != NoBlock; id = m.blocks[id].next {
		ids = append(ids, id)
	}
	return ids
}

// Conflicts returns the ids of Conflict blocks in order
func (m *Model) Conflicts() []BlockID {
	var ids []BlockID
	for id := m.head; id != NoBlock; id = m.blocks[id].next {
		if m.blocks[id].Kind == Conflict {
			ids = append(ids, id)
		}
	}
	return ids
}

// IsFullyResolved reports whether no Conflict block remains
func (m *Model) IsFullyResolved() bool {
	for id := m.head; id != NoBlock; id = m.blocks[id].next {
		if m.blocks[id].Kind == Conflict {
			return false
		}
	}
	return true
}

// NextDifference returns the first non-Equal block after from. NoBlock as
// from starts at the head.
func (m *Model) NextDifference(from BlockID) BlockID {
	id := m.head
	if from != NoBlock {
		id = m.Next(from)
	}
	for ; id != NoBlock; id = m.blocks[id].next {
		if m.blocks[id].Kind != Equal {
			return id
		}
	}
	return NoBlock
}

// PrevDifference returns the last non-Equal block before from. NoBlock as
// from starts at the tail.
func (m *Model) PrevDifference(from BlockID) BlockID {
	id := m.tail
	if from != NoBlock {
		id = m.Prev(from)
	}
	for ; id != NoBlock; id = m.blocks[id].prev {
		if m.blocks[id].Kind != Equal {
			return id
		}
	}
	return NoBlock
}

// BlockText returns the effective text of block id in view
func (m *Model) BlockText(id BlockID, view View) string {
	if !m.Contains(id) {
		return ""
	}
	return m.blocks[id].Text(view)
}

// Text returns the whole document of view
func (m *Model) Text(view View) string {
	var sb strings.Builder
	for id := m.head; id != NoBlock; id = m.blocks[id].next {
		sb.WriteString(m.blocks[id].Text(view))
	}
	return sb.String()
}

// Len returns the length in bytes of the document of view
func (m *Model) Len(view View) int {
	n := 0
	for id := m.head; id != NoBlock; id = m.blocks[id].next {
		n += len(m.blocks[id].Text(view))
	}
	return n
}

// Render returns the document of view with every block padded to the line
// height of its tallest view, for side-by-side display
func (m *Model) Render(view View) string {
	var sb strings.Builder
	for id := m.head; id != NoBlock; id = m.blocks[id].next {
		sb.WriteString(m.blocks[id].Padded(view))
	}
	return sb.String()
}

// OffsetOf returns the offset at which block id starts in view
func (m *Model) OffsetOf(id BlockID, view View) (int, error) {
	if !m.Contains(id) {
		return 0, notInChain(id)
	}
	offset := 0
	for cur := m.head; cur != id; cur = m.blocks[cur].next {
		offset += len(m.blocks[cur].Text(view))
	}
	return offset, nil
}

// BlockAt returns the block covering offset in view and the offset within
// that block. The end of the document maps to the end of the last block.
func (m *Model) BlockAt(offset int, view View) (BlockID, int, error) {
	if offset < 0 {
		return NoBlock, 0, errors.Newf(errors.ErrInvalidOperation, "offset %d is negative", offset)
	}
	pos := 0
	for id := m.head; id != NoBlock; id = m.blocks[id].next {
		l := len(m.blocks[id].Text(view))
		if offset < pos+l {
			return id, offset - pos, nil
		}
		pos += l
	}
	if offset == pos && m.tail != NoBlock {
		return m.tail, len(m.blocks[m.tail].Text(view)), nil
	}
	return NoBlock, 0, errors.Newf(errors.ErrInvalidOperation, "offset %d is outside the %s view", offset, view).
		WithDetail("length", pos)
}

func (m *Model) ranges(id BlockID) [viewCount]Range {
	var out [viewCount]Range
	for _, v := range Views {
		start, _ := m.OffsetOf(id, v)
		out[v] = Range{Start: start, End: start + len(m.blocks[id].Text(v))}
	}
	return out
}

// replace swaps block id for the blocks in ids, or unlinks it when ids is empty
func (m *Model) replace(id BlockID, ids []BlockID) {
	prev, next := m.blocks[id].prev, m.blocks[id].next
	m.blocks[id].live = false
	m.blocks[id].prev, m.blocks[id].next = NoBlock, NoBlock

	last := prev
	for _, nid := range ids {
		m.blocks[nid].prev = last
		if last != NoBlock {
			m.blocks[last].next = nid
		} else {
			m.head = nid
		}
		last = nid
	}

	if last != NoBlock {
		m.blocks[last].next = next
	} else {
		m.head = next
	}
	if next != NoBlock {
		m.blocks[next].prev = last
	} else {
		m.tail = last
	}
}

func notInChain(id BlockID) error {
	return errors.Newf(errors.ErrInvalidOperation, "block %d is not part of the alignment", id).
		WithDetail("block", int(id))
}
