package stats

import (
	"net/http"
	_ "net/http/pprof"
	"sync"

	"github.com/omniscale/osmjson/logging"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	log             = logging.NewLogger("stats")
	registerMetrics sync.Once
)

// StartHttpPProf serves /debug/pprof and /metrics on bind.
func StartHttpPProf(bind string) {
	registerMetrics.Do(func() {
		http.Handle("/metrics", promhttp.Handler())
	})
	go func() {
		log.Print(http.ListenAndServe(bind, nil))
	}()
}
