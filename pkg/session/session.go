// Package session drives the pairwise reduction of a merge target's sources
// down to one definitive text.
//
// A Session aligns the first two sources of its target, lets the caller
// resolve the alignment block by block, and on commit folds the merged text
// back into the target as a new source. The loop repeats until the target is
// resolved. Sources change only on commit, so abandoning a session at any
// point leaves the target as it was.
package session

import (
	"github.com/arthur-debert/modmerge/pkg/alignment"
	"github.com/arthur-debert/modmerge/pkg/errors"
	"github.com/arthur-debert/modmerge/pkg/logging"
	"github.com/arthur-debert/modmerge/pkg/types"
)

// State is the phase a session is in
type State int

const (
	// AwaitingPair means the next two sources have not been aligned yet
	AwaitingPair State = iota
	// Aligned means a pair is being resolved
	Aligned
	// Resolved means the target has definitive content
	Resolved
)

func (s State) String() string {
	switch s {
	case AwaitingPair:
		return "awaiting-pair"
	case Aligned:
		return "aligned"
	case Resolved:
		return "resolved"
	default:
		return "unknown"
	}
}

// CommitResult describes the target after a commit
type CommitResult struct {
	Path      string
	Remaining int
	Resolved  bool
}

// Option configures a Session
type Option func(*Session)

// WithAutoCommit makes a block command that leaves the alignment free of
// conflicts commit the pair immediately
func WithAutoCommit(auto bool) Option {
	return func(s *Session) {
		s.autoCommit = auto
	}
}

// Session resolves one merge target. It is not safe for concurrent use and
// there should be a single session per target.
type Session struct {
	target     *types.MergeTarget
	state      State
	autoCommit bool

	left, right types.File
	model       *alignment.Model
	buffers     [len(alignment.Views)]string
	cursor      alignment.BlockID
	commits     int
}

// New creates a session for target. A target that is already resolved
// yields a session in the Resolved state.
func New(target *types.MergeTarget, opts ...Option) *Session {
	s := &Session{
		target: target,
		state:  AwaitingPair,
		cursor: alignment.NoBlock,
	}
	if target.Resolved() {
		s.state = Resolved
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// State returns the current phase
func (s *Session) State() State { return s.state }

// Target returns the merge target being resolved
func (s *Session) Target() *types.MergeTarget { return s.target }

// Commits returns the number of successful commits so far
func (s *Session) Commits() int { return s.commits }

// Pair returns the two sources being aligned, or nils outside Aligned
func (s *Session) Pair() (left, right types.File) { return s.left, s.right }

// Model returns the alignment of the current pair, or nil outside Aligned
func (s *Session) Model() *alignment.Model { return s.model }

// Buffer returns the session's copy of the document of view
func (s *Session) Buffer(view alignment.View) string { return s.buffers[view] }

// Align picks the first two sources of the target, a previously committed
// merge among them, and builds their alignment
func (s *Session) Align() error {
	if s.state != AwaitingPair {
		return s.wrongState("align")
	}
	if s.target.SourceCount() < 2 {
		if s.target.Resolved() {
			s.state = Resolved
		}
		return errors.Newf(errors.ErrInvalidOperation, "%s needs two sources to align", s.target.Path()).
			WithDetail("sources", s.target.SourceCount())
	}
	sources := s.target.Sources()
	return s.align(sources[0], sources[1])
}

func (s *Session) align(left, right types.File) error {
	logger := logging.GetLogger("session")

	leftText, err := readText(left)
	if err != nil {
		return err
	}
	rightText, err := readText(right)
	if err != nil {
		return err
	}

	s.left, s.right = left, right
	s.model = alignment.FromTexts(leftText, rightText)
	for _, v := range alignment.Views {
		s.buffers[v] = s.model.Text(v)
	}
	s.cursor = s.firstDifference()
	s.state = Aligned

	logger.Debug().
		Str("path", s.target.Path()).
		Str("left", left.PackageID()).
		Str("right", right.PackageID()).
		Int("conflicts", len(s.model.Conflicts())).
		Msg("Pair aligned")
	return nil
}

func readText(f types.File) (string, error) {
	data, err := f.Bytes()
	if err != nil {
		return "", errors.Wrapf(err, errors.ErrFileAccess, "cannot read %s from %s", f.Path(), f.PackageID())
	}
	if types.IsBinary(data) {
		return "", errors.Newf(errors.ErrBinaryContent, "%s from %s is binary and cannot be merged", f.Path(), f.PackageID()).
			WithDetail("path", f.Path()).
			WithDetail("package", f.PackageID())
	}
	return string(data), nil
}

// Reset discards progress on the current pair and aligns it afresh
func (s *Session) Reset() error {
	if s.state != Aligned {
		return s.wrongState("reset")
	}
	return s.align(s.left, s.right)
}

// Commit folds the merged text into the target in place of the current
// pair. The alignment must be free of conflicts.
func (s *Session) Commit() (CommitResult, error) {
	logger := logging.GetLogger("session")

	if s.state != Aligned {
		return CommitResult{}, s.wrongState("commit")
	}
	if !s.model.IsFullyResolved() {
		return CommitResult{}, errors.Newf(errors.ErrInvalidOperation, "%s still has unresolved conflicts", s.target.Path()).
			WithDetail("conflicts", len(s.model.Conflicts()))
	}

	if err := s.target.Fold(s.left, s.right, []byte(s.buffers[alignment.ViewResult])); err != nil {
		return CommitResult{}, err
	}
	s.commits++
	s.left, s.right, s.model = nil, nil, nil
	s.buffers = [len(alignment.Views)]string{}
	s.cursor = alignment.NoBlock

	s.state = AwaitingPair
	if s.target.Resolved() {
		s.state = Resolved
	}

	result := CommitResult{
		Path:      s.target.Path(),
		Remaining: s.target.SourceCount(),
		Resolved:  s.state == Resolved,
	}
	logger.Debug().
		Str("path", result.Path).
		Int("remaining", result.Remaining).
		Bool("resolved", result.Resolved).
		Msg("Pair committed")
	return result, nil
}

func (s *Session) wrongState(op string) error {
	return errors.Newf(errors.ErrInvalidOperation, "cannot %s while %s", op, s.state).
		WithDetail("state", s.state.String()).
		WithDetail("path", s.target.Path())
}
