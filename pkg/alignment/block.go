package alignment

import "strings"

// Kind classifies a block
type Kind int

const (
	// Equal blocks hold text identical on both sides
	Equal Kind = iota
	// OneSided blocks hold text present on one side only
	OneSided
	// Conflict blocks pair differing text from both sides
	Conflict
)

func (k Kind) String() string {
	switch k {
	case Equal:
		return "equal"
	case OneSided:
		return "one-sided"
	case Conflict:
		return "conflict"
	default:
		return "unknown"
	}
}

// Side selects one of the two inputs
type Side int

const (
	Left Side = iota
	Right
)

func (s Side) String() string {
	if s == Left {
		return "left"
	}
	return "right"
}

// Other returns the opposite side
func (s Side) Other() Side {
	if s == Left {
		return Right
	}
	return Left
}

// View selects one of the three documents a model describes
type View int

const (
	ViewLeft View = iota
	ViewRight
	ViewResult

	viewCount = 3
)

// Views lists every view in order
var Views = [viewCount]View{ViewLeft, ViewRight, ViewResult}

func (v View) String() string {
	switch v {
	case ViewLeft:
		return "left"
	case ViewRight:
		return "right"
	case ViewResult:
		return "result"
	default:
		return "unknown"
	}
}

// BlockID addresses a block in a model's arena
type BlockID int

// NoBlock is the nil BlockID
const NoBlock BlockID = -1

// Block is one segment of an alignment
type Block struct {
	Kind Kind
	// Side is the side holding content for OneSided blocks
	Side Side
	// Left and Right are the raw texts; identical for Equal blocks
	Left  string
	Right string

	result     string
	prev, next BlockID
	live       bool
}

func equalBlock(text string) Block {
	return Block{Kind: Equal, Left: text, Right: text, result: text}
}

// Has reports whether the block carries content for side
func (b Block) Has(side Side) bool {
	return b.Kind != OneSided || b.Side == side
}

// Raw returns the raw text of side
func (b Block) Raw(side Side) string {
	if side == Left {
		return b.Left
	}
	return b.Right
}

// Text returns the effective text of the block in view. Unresolved conflicts
// contribute nothing to the result; one-sided edits are carried into it.
func (b Block) Text(view View) string {
	switch view {
	case ViewLeft:
		if b.Has(Left) {
			return b.Left
		}
		return ""
	case ViewRight:
		if b.Has(Right) {
			return b.Right
		}
		return ""
	default:
		switch b.Kind {
		case Equal:
			return b.result
		case OneSided:
			return b.Raw(b.Side)
		default:
			return ""
		}
	}
}

// Padded returns the block's text in view followed by filler lines so that
// all three views span the same number of lines
func (b Block) Padded(view View) string {
	height := 0
	for _, v := range Views {
		height = max(height, lineCount(b.Text(v)))
	}

	text := b.Text(view)
	missing := height - lineCount(text)
	if missing <= 0 {
		return text
	}
	if text != "" && !strings.HasSuffix(text, "\n") {
		text += "\n"
	}
	return text + strings.Repeat(fillerLine, missing)
}

const fillerLine = " \n"

func lineCount(s string) int {
	if s == "" {
		return 0
	}
	n := strings.Count(s, "\n")
	if !strings.HasSuffix(s, "\n") {
		n++
	}
	return n
}
