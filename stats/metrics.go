package stats

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	ElementsRead = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "osmjson_elements_read_total",
			Help: "Total number of elements read from the input",
		},
	)

	ElementsSkipped = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "osmjson_elements_skipped_total",
			Help: "Total number of elements without record (relations, tags, etc.)",
		},
	)

	RecordsWritten = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "osmjson_records_written_total",
			Help: "Total number of records written",
		},
		[]string{"type"},
	)
)
