package join

import (
	"context"
	"fmt"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/sddsgo/xref/errors"
	"github.com/sddsgo/xref/page"
	"github.com/sddsgo/xref/pageio"
	"github.com/sddsgo/xref/projection"
	"github.com/sddsgo/xref/reglob"
	"go.uber.org/zap"
)

type Config struct {
	Spec       Spec
	Directives []projection.Directive
	// NoWarnings suppresses warnings.  They are still counted.
	NoWarnings bool
	// CacheSize bounds the compiled wildcard pattern cache.
	CacheSize int
	// Warner receives warnings.  The default logs them at warn level.
	Warner Warner
	// Registerer receives the engine's counters if not nil.
	Registerer prometheus.Registerer
}

type Stats struct {
	PagesRead     int64 `json:"pages_read"`
	PagesWritten  int64 `json:"pages_written"`
	RowsMatched   int64 `json:"rows_matched"`
	RowsUnmatched int64 `json:"rows_unmatched"`
	Warnings      int64 `json:"warnings"`
}

// slot maps an entity of a secondary layout to one of the output layout.
type slot struct {
	out int
	sec int
}

type secondary struct {
	n       int
	name    string
	sync    synchronizer
	matcher *matcher
	proj    *projection.Projection
	columns []slot
	params  []slot
	arrays  []slot
}

// Engine joins a primary dataset with its secondaries.  An Engine owns
// its caches and counters and is used for a single run.
type Engine struct {
	logger      *zap.Logger
	spec        Spec
	conf        Config
	primary     pageio.Reader
	secondaries []*secondary
	layout      *page.Layout
	cache       *reglob.Cache
	metrics     *metrics
	warner      Warner
	stats       Stats
}

// New validates the configuration against the layouts of the inputs and
// fixes the output layout.  Schema problems are reported here, before any
// page is read.  If a guard directive rejects the primary, the error wraps
// errors.ErrGuard.
func New(logger *zap.Logger, conf Config, primary pageio.Reader, secondaries []pageio.Reader) (*Engine, error) {
	if logger == nil {
		logger = zap.NewNop()
	}
	spec := conf.Spec.copy()
	if err := spec.Validate(); err != nil {
		return nil, err
	}
	if len(secondaries) == 0 {
		return nil, errors.E(errors.Invalid, "no secondary dataset")
	}
	if err := projection.Validate(conf.Directives); err != nil {
		return nil, err
	}
	cache, err := reglob.NewCache(conf.CacheSize)
	if err != nil {
		return nil, err
	}
	e := &Engine{
		logger:  logger,
		spec:    spec,
		conf:    conf,
		primary: primary,
		cache:   cache,
		metrics: newMetrics(conf.Registerer),
		warner:  conf.Warner,
	}
	if e.warner == nil {
		e.warner = &logWarner{logger}
	}
	if err := projection.CheckGuards(conf.Directives, primary.Layout(), cache); err != nil {
		return nil, err
	}
	if err := checkKeyColumns(&spec, primary.Layout(), true, "primary"); err != nil {
		return nil, err
	}
	e.layout = primary.Layout().Copy()
	for k, r := range secondaries {
		s := &secondary{
			n:       k + 1,
			name:    fmt.Sprintf("secondary %d", k+1),
			sync:    synchronizer{reader: r, reusePage: spec.ReusePage},
			matcher: newMatcher(&e.spec, cache),
		}
		if err := checkKeyColumns(&spec, r.Layout(), false, s.name); err != nil {
			return nil, err
		}
		if spec.Flavor == Xref {
			if err := e.project(s, r.Layout()); err != nil {
				return nil, err
			}
		}
		e.secondaries = append(e.secondaries, s)
	}
	return e, nil
}

func (e *Engine) project(s *secondary, l *page.Layout) error {
	proj, err := projection.Resolve(e.conf.Directives, l, e.primary.Layout(), e.layout, s.n, e.cache)
	if err != nil {
		return err
	}
	for _, msg := range proj.Warnings {
		if err := e.warn(msg); err != nil {
			return err
		}
	}
	s.proj = proj
	slots := func(k page.Kind) []slot {
		var out []slot
		for _, pair := range proj.Pairs(k) {
			out = append(out, slot{
				out: e.layout.Index(k, pair.Output),
				sec: l.Index(k, pair.Origin),
			})
		}
		return out
	}
	s.columns = slots(page.ColumnKind)
	s.params = slots(page.ParameterKind)
	s.arrays = slots(page.ArrayKind)
	e.logger.Debug("projection resolved",
		zap.Int("secondary", s.n),
		zap.Int("columns", len(s.columns)),
		zap.Int("parameters", len(s.params)),
		zap.Int("arrays", len(s.arrays)))
	return nil
}

// Layout returns the output layout.  It does not change once New returns.
func (e *Engine) Layout() *page.Layout {
	return e.layout
}

func (e *Engine) Stats() Stats {
	return e.stats
}

// State returns the synchronization state of the secondary numbered n,
// counting from 1.
func (e *Engine) State(n int) State {
	return e.secondaries[n-1].sync.state
}

func (e *Engine) warn(msg string) error {
	e.stats.Warnings++
	e.metrics.warnings.Inc()
	if e.conf.NoWarnings {
		return nil
	}
	return e.warner.Warn(msg)
}

func (e *Engine) warnf(format string, args ...interface{}) error {
	return e.warn(fmt.Sprintf(format, args...))
}

// Run reads the primary to the end, or until a secondary underrun stops
// it, and writes one output page per primary page.
func (e *Engine) Run(ctx context.Context, w pageio.Writer) error {
	for {
		if err := ctx.Err(); err != nil {
			return err
		}
		p, err := e.primary.Read()
		if err != nil {
			return errors.E(errors.IO, "reading primary page %d: %w", e.stats.PagesRead+1, err)
		}
		if p == nil {
			return nil
		}
		e.stats.PagesRead++
		e.metrics.pagesRead.Inc()
		out, err := e.assemble(p)
		if err != nil {
			return err
		}
		if out == nil {
			e.logger.Info("stopping at primary page without a secondary page", zap.Int("page", p.Number))
			return nil
		}
		if err := w.Write(out); err != nil {
			return errors.E(errors.IO, "writing page %d: %w", out.Number, err)
		}
		e.stats.PagesWritten++
		e.metrics.pagesWritten.Inc()
	}
}
