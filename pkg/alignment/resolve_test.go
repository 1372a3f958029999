package alignment

import (
	"testing"

	"github.com/arthur-debert/modmerge/pkg/errors"
	"github.com/arthur-debert/modmerge/pkg/textdiff"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// buffers mirrors the three documents the way an editor would
type buffers [viewCount]string

func snapshot(m *Model) buffers {
	var b buffers
	for _, v := range Views {
		b[v] = m.Text(v)
	}
	return b
}

func (b *buffers) apply(t *testing.T, m *Model, c Change) {
	t.Helper()
	for _, v := range Views {
		b[v] = c.Apply(m, v, b[v])
		assert.Equal(t, m.Text(v), b[v], "%s buffer out of sync after %s", v, c.Kind)
	}
}

func conflictModel() *Model {
	return New([]textdiff.Diff{eq("a\n"), del("b\n"), ins("B\n"), eq("c\n")})
}

func TestTakeConflict(t *testing.T) {
	tests := []struct {
		name string
		side Side
		want string
	}{
		{"left", Left, "a\nb\nc\n"},
		{"right", Right, "a\nB\nc\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m := conflictModel()
			id := m.Conflicts()[0]

			c, err := m.Take(id, tt.side)
			require.NoError(t, err)

			assert.Equal(t, Replaced, c.Kind)
			assert.Equal(t, id, c.Removed)
			require.Len(t, c.Inserted, 1)
			assert.False(t, m.Contains(id))
			assert.True(t, m.IsFullyResolved())
			assert.Equal(t, tt.want, m.Text(ViewResult))
			assert.Equal(t, tt.want, m.Text(ViewLeft))
			assert.Equal(t, tt.want, m.Text(ViewRight))
		})
	}
}

func TestTakeAbsentSideSplices(t *testing.T) {
	m := New([]textdiff.Diff{eq("a\n"), ins("x\n"), eq("b\n")})
	id := m.NextDifference(NoBlock)

	c, err := m.Take(id, Left)
	require.NoError(t, err)

	assert.Equal(t, Spliced, c.Kind)
	assert.Empty(t, c.Inserted)
	assert.Len(t, m.Blocks(), 2)
	assert.Equal(t, "a\nb\n", m.Text(ViewRight))
	assert.Equal(t, "a\nb\n", m.Text(ViewResult))
	assert.Equal(t, Range{Start: 2, End: 4}, c.Old[ViewRight])
	assert.Equal(t, Range{Start: 2, End: 2}, c.Old[ViewLeft])
}

func TestTakePresentSideOfOneSided(t *testing.T) {
	m := New([]textdiff.Diff{del("x\n"), eq("b\n")})
	id := m.Head()

	_, err := m.Take(id, Left)
	require.NoError(t, err)

	assert.Equal(t, "x\nb\n", m.Text(ViewRight), "taken text now belongs to both sides")
	b, ok := m.Block(m.Head())
	require.True(t, ok)
	assert.Equal(t, Equal, b.Kind)
}

func TestTakeThen(t *testing.T) {
	m := conflictModel()
	id := m.Conflicts()[0]

	c, err := m.TakeThen(id, Left, Right)
	require.NoError(t, err)

	require.Len(t, c.Inserted, 2)
	assert.Equal(t, "a\nb\nB\nc\n", m.Text(ViewResult))
	assert.Len(t, m.Blocks(), 4)
	assert.True(t, m.IsFullyResolved())

	m = conflictModel()
	_, err = m.TakeThen(m.Conflicts()[0], Right, Left)
	require.NoError(t, err)
	assert.Equal(t, "a\nB\nb\nc\n", m.Text(ViewResult))
}

func TestTakeThenDecomposes(t *testing.T) {
	// Taking the first part of a compound resolution again changes nothing
	single := conflictModel()
	c1, err := single.Take(single.Conflicts()[0], Left)
	require.NoError(t, err)

	compound := conflictModel()
	c2, err := compound.TakeThen(compound.Conflicts()[0], Left, Right)
	require.NoError(t, err)

	first := c2.Inserted[0]
	assert.Equal(t, single.BlockText(c1.Inserted[0], ViewResult), compound.BlockText(first, ViewResult))

	before := compound.Text(ViewResult)
	c3, err := compound.Take(first, Left)
	require.NoError(t, err)
	assert.Equal(t, before, compound.Text(ViewResult))
	assert.Equal(t, compound.BlockText(c3.Inserted[0], ViewResult), single.BlockText(c1.Inserted[0], ViewResult))
}

func TestTakeThenOneSided(t *testing.T) {
	m := New([]textdiff.Diff{eq("a\n"), ins("x\n")})
	id := m.Tail()

	c, err := m.TakeThen(id, Left, Right)
	require.NoError(t, err)

	require.Len(t, c.Inserted, 1)
	assert.Equal(t, "a\nx\n", m.Text(ViewResult))
}

func TestTakeThenSameSide(t *testing.T) {
	m := conflictModel()

	_, err := m.TakeThen(m.Conflicts()[0], Left, Left)
	assert.True(t, errors.IsErrorCode(err, errors.ErrInvalidOperation))
}

func TestEditResult(t *testing.T) {
	m := conflictModel()
	head := m.Head()

	c, err := m.EditResult(head, 0, 1, "alpha")
	require.NoError(t, err)

	assert.Equal(t, Edited, c.Kind)
	assert.Equal(t, []BlockID{head}, c.Inserted)
	assert.Equal(t, "alpha\nc\n", m.Text(ViewResult))
	assert.Equal(t, "a\nb\nc\n", m.Text(ViewLeft), "left is untouched")
	assert.Equal(t, "a\nB\nc\n", m.Text(ViewRight), "right is untouched")
	assert.Len(t, m.Blocks(), 3)
}

func TestEditResultErrors(t *testing.T) {
	tests := []struct {
		name      string
		pick      func(m *Model) BlockID
		offset    int
		deleteLen int
	}{
		{"conflict block", func(m *Model) BlockID { return m.Conflicts()[0] }, 0, 0},
		{"unknown block", func(m *Model) BlockID { return BlockID(99) }, 0, 0},
		{"past the end", func(m *Model) BlockID { return m.Head() }, 1, 2},
		{"negative offset", func(m *Model) BlockID { return m.Head() }, -1, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m := conflictModel()
			_, err := m.EditResult(tt.pick(m), tt.offset, tt.deleteLen, "x")
			assert.True(t, errors.IsErrorCode(err, errors.ErrInvalidOperation))
		})
	}
}

func TestAppend(t *testing.T) {
	m := conflictModel()

	c := m.Append("tail\n")

	assert.Equal(t, Appended, c.Kind)
	assert.Equal(t, NoBlock, c.Removed)
	assert.Equal(t, c.Inserted[0], m.Tail())
	assert.Equal(t, "a\nc\ntail\n", m.Text(ViewResult))
	assert.Equal(t, "a\nb\nc\n", m.Text(ViewLeft))
	assert.Equal(t, Range{Start: 6, End: 6}, c.Old[ViewLeft])
}

func TestResolvedBlocksAreGone(t *testing.T) {
	m := conflictModel()
	id := m.Conflicts()[0]
	_, err := m.Take(id, Left)
	require.NoError(t, err)

	_, err = m.Take(id, Right)
	assert.True(t, errors.IsErrorCode(err, errors.ErrInvalidOperation))
	_, err = m.TakeThen(id, Left, Right)
	assert.True(t, errors.IsErrorCode(err, errors.ErrInvalidOperation))
}

func TestChangesKeepBuffersInSync(t *testing.T) {
	m := FromTexts(
		"one\ntwo\nthree\nfour\nfive\n",
		"one\n2\nthree\nfive\nsix\n",
	)
	bufs := snapshot(m)

	for id := m.NextDifference(NoBlock); id != NoBlock; id = m.NextDifference(NoBlock) {
		b, _ := m.Block(id)
		var (
			c   Change
			err error
		)
		if b.Kind == Conflict {
			c, err = m.TakeThen(id, Right, Left)
		} else {
			c, err = m.Take(id, b.Side.Other())
		}
		require.NoError(t, err)
		bufs.apply(t, m, c)
	}

	c, err := m.EditResult(m.Head(), 0, 3, "ONE")
	require.NoError(t, err)
	bufs.apply(t, m, c)

	bufs.apply(t, m, m.Append("seven\n"))

	assert.True(t, m.IsFullyResolved())
	assert.Equal(t, m.Text(ViewResult), bufs[ViewResult])
}
