package session

import (
	"strings"

	"github.com/arthur-debert/modmerge/pkg/alignment"
	"github.com/arthur-debert/modmerge/pkg/errors"
	"github.com/arthur-debert/modmerge/pkg/logging"
)

// Strategy resolves every conflict of a target the same way
type Strategy int

const (
	// Manual leaves targets for interactive resolution
	Manual Strategy = iota
	// PreferLeft keeps the earlier variant of every conflict
	PreferLeft
	// PreferRight keeps the later variant of every conflict
	PreferRight
)

func (s Strategy) String() string {
	switch s {
	case PreferLeft:
		return "left"
	case PreferRight:
		return "right"
	default:
		return "none"
	}
}

// ParseStrategy reads the names used in configuration: none, left, right
func ParseStrategy(name string) (Strategy, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "", "none", "manual":
		return Manual, nil
	case "left":
		return PreferLeft, nil
	case "right":
		return PreferRight, nil
	default:
		return Manual, errors.Newf(errors.ErrInvalidInput, "unknown merge strategy %q", name).
			WithDetail("strategy", name)
	}
}

// Resolve drives the session to Resolved without interaction. Every conflict
// takes the preferred side. One-sided blocks the diff reports stay in the
// result, but an edit that diff cleanup folded into a neighbouring conflict
// follows the preferred side with it. Binary targets,
// which cannot be aligned, keep the variant the strategy would have kept:
// the first source for PreferLeft, the last for PreferRight.
func (s *Session) Resolve(strategy Strategy) error {
	logger := logging.GetLogger("session")

	if strategy == Manual {
		return errors.New(errors.ErrInvalidInput, "a manual strategy cannot resolve targets")
	}
	preferred := alignment.Left
	if strategy == PreferRight {
		preferred = alignment.Right
	}

	for s.state != Resolved {
		if s.state == AwaitingPair {
			err := s.Align()
			if errors.IsErrorCode(err, errors.ErrBinaryContent) {
				return s.pickBinary(strategy)
			}
			if err != nil {
				return err
			}
		}

		for s.state == Aligned {
			id := s.model.NextDifference(alignment.NoBlock)
			if id == alignment.NoBlock {
				if _, err := s.Commit(); err != nil {
					return err
				}
				break
			}

			side := preferred
			if b, _ := s.model.Block(id); b.Kind == alignment.OneSided {
				side = b.Side
			}
			s.cursor = id
			if err := s.take(side); err != nil {
				return err
			}
		}
	}

	logger.Debug().
		Str("path", s.target.Path()).
		Str("strategy", strategy.String()).
		Int("commits", s.commits).
		Msg("Target resolved")
	return nil
}

func (s *Session) pickBinary(strategy Strategy) error {
	index := 0
	if strategy == PreferRight {
		index = s.target.SourceCount() - 1
	}
	if err := s.target.Pick(index); err != nil {
		return err
	}
	s.state = Resolved
	return nil
}
