package join

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

type metrics struct {
	pagesRead     prometheus.Counter
	pagesWritten  prometheus.Counter
	rowsMatched   prometheus.Counter
	rowsUnmatched prometheus.Counter
	warnings      prometheus.Counter
}

func newMetrics(registerer prometheus.Registerer) *metrics {
	if registerer == nil {
		registerer = prometheus.NewRegistry()
	}
	factory := promauto.With(registerer)
	return &metrics{
		pagesRead: factory.NewCounter(prometheus.CounterOpts{
			Name: "xref_pages_read_total",
			Help: "Number of primary pages read.",
		}),
		pagesWritten: factory.NewCounter(prometheus.CounterOpts{
			Name: "xref_pages_written_total",
			Help: "Number of output pages written.",
		}),
		rowsMatched: factory.NewCounter(prometheus.CounterOpts{
			Name: "xref_rows_matched_total",
			Help: "Number of primary rows matched with a secondary row.",
		}),
		rowsUnmatched: factory.NewCounter(prometheus.CounterOpts{
			Name: "xref_rows_unmatched_total",
			Help: "Number of primary rows without a secondary row.",
		}),
		warnings: factory.NewCounter(prometheus.CounterOpts{
			Name: "xref_warnings_total",
			Help: "Number of warnings, including suppressed ones.",
		}),
	}
}
