package join

import (
	"fmt"

	"github.com/sddsgo/xref/page"
	"github.com/sddsgo/xref/pageio"
)

// State is the position of a secondary dataset relative to the primary.
type State int

const (
	// AdvancingBoth reads one secondary page per primary page.
	AdvancingBoth State = iota
	// PinnedSecondaryPage pairs the first secondary page with every
	// primary page.
	PinnedSecondaryPage
	// Exhausted means the secondary ran out of pages.
	Exhausted
)

func (s State) String() string {
	switch s {
	case AdvancingBoth:
		return "advancing"
	case PinnedSecondaryPage:
		return "pinned"
	case Exhausted:
		return "exhausted"
	}
	return fmt.Sprintf("state(%d)", int(s))
}

// synchronizer advances one secondary dataset in step with the primary.
type synchronizer struct {
	reader    pageio.Reader
	reusePage bool
	state     State
	page      *page.Page
}

// advance moves to the secondary page paired with the next primary page.
// fresh is set when a new page was read; underrun is set exactly once,
// on the transition to Exhausted.
func (s *synchronizer) advance() (fresh, underrun bool, err error) {
	switch s.state {
	case PinnedSecondaryPage:
		return false, false, nil
	case Exhausted:
		return false, false, nil
	}
	p, err := s.reader.Read()
	if err != nil {
		return false, false, err
	}
	if p == nil {
		s.state = Exhausted
		s.page = nil
		return false, true, nil
	}
	s.page = p
	if s.reusePage {
		s.state = PinnedSecondaryPage
	}
	return true, false, nil
}
