package join

import (
	"github.com/sddsgo/xref/errors"
	"github.com/sddsgo/xref/page"
)

// assemble builds the output page for primary page p.  It returns a nil
// page when a secondary underrun stops the run.
//
// Start: the output page gets the primary's parameters, arrays and rows.
// Then, per secondary in order, BuildIndices advances the secondary and
// indexes its page and MatchRows pairs every selected row.  Unselected rows
// are compacted away before the page is returned for writing.
func (e *Engine) assemble(p *page.Page) (*page.Page, error) {
	out := page.New(e.layout, p.Rows())
	out.Number = p.Number
	copy(out.RowFlags, p.RowFlags)
	out.CopyParameters(p)
	if err := out.CopyRows(p); err != nil {
		return nil, err
	}
	for _, s := range e.secondaries {
		ok, err := e.buildIndices(s, p, out)
		if !ok || err != nil {
			return nil, err
		}
		if err := e.matchRows(s, out); err != nil {
			return nil, err
		}
	}
	if out.CountSelected() < out.Rows() {
		out.DeleteUnselected()
	}
	return out, nil
}

// buildIndices pairs s with the next primary page.  It returns false when
// s is exhausted and neither fillIn nor invert lets the run continue.
func (e *Engine) buildIndices(s *secondary, p, out *page.Page) (bool, error) {
	fresh, underrun, err := s.sync.advance()
	if err != nil {
		return false, errors.E(errors.IO, "reading %s page: %w", s.name, err)
	}
	if underrun {
		if err := e.warnf("%s has no page to pair with primary page %d", s.name, p.Number); err != nil {
			return false, err
		}
	}
	switch {
	case s.sync.state == Exhausted:
		if !e.spec.FillIn && !e.spec.Invert {
			return false, nil
		}
		s.matcher.sec = nil
	case fresh:
		if err := s.matcher.setSecondary(s.sync.page); err != nil {
			return false, errors.E(errors.Schema, "%s page %d: %w", s.name, s.sync.page.Number, err)
		}
	default:
		s.matcher.reset()
	}
	// Keys come from the output page so a key replaced by an earlier
	// secondary is seen by later ones.
	if err := s.matcher.setPrimary(out); err != nil {
		return false, errors.E(errors.Schema, "primary page %d: %w", p.Number, err)
	}
	if sec := s.sync.page; sec != nil {
		for _, sl := range s.params {
			out.Parameters[sl.out].CopyRow(0, sec.Parameters[sl.sec], 0)
		}
		for _, sl := range s.arrays {
			out.Arrays[sl.out] = sec.Arrays[sl.sec].Convert(out.Layout.Arrays[sl.out].Type)
		}
	}
	return true, nil
}

// matchRows pairs every selected row of out with a row of s.
func (e *Engine) matchRows(s *secondary, out *page.Page) error {
	exhausted := s.sync.state == Exhausted
	for row, selected := range out.RowFlags {
		if !selected {
			continue
		}
		sec, matched := s.matcher.match(row)
		if matched {
			e.stats.RowsMatched++
			e.metrics.rowsMatched.Inc()
		} else {
			e.stats.RowsUnmatched++
			e.metrics.rowsUnmatched.Inc()
		}
		if e.spec.Flavor == Select {
			out.RowFlags[row] = matched != e.spec.Invert
			continue
		}
		if matched {
			for _, sl := range s.columns {
				out.Columns[sl.out].CopyRow(row, s.matcher.sec.Columns[sl.sec], sec)
			}
			continue
		}
		if !e.spec.FillIn {
			out.RowFlags[row] = false
		}
		if !exhausted {
			if err := e.warnf("no match for row %d (%s) in %s", row, s.matcher.describe(row), s.name); err != nil {
				return err
			}
		}
	}
	return nil
}
