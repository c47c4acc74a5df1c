package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	ReportsGenerated = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "horus",
		Name:      "reports_generated_total",
		Help:      "Reports generated, by period and output format.",
	}, []string{"period", "format"})

	ReportDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: "horus",
		Name:      "report_duration_seconds",
		Help:      "Time spent generating a report.",
		Buckets:   prometheus.DefBuckets,
	}, []string{"period"})

	SummariesWritten = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: "horus",
		Name:      "daily_summaries_written_total",
		Help:      "Daily summaries computed and stored by attendance processing.",
	})

	CronRuns = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "horus",
		Name:      "cron_runs_total",
		Help:      "Scheduled job runs, by job and result.",
	}, []string{"job", "result"})
)
