package util

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	RowsAppendedTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "sheet_rows_appended_total",
		Help: "Total number of rows appended, per sheet",
	}, []string{"sheet"})

	AppendFailedTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "sheet_appends_failed_total",
		Help: "Total number of failed row appends, per sheet",
	}, []string{"sheet"})

	FieldUpdatesTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "sheet_field_updates_total",
		Help: "Total number of targeted cell updates, per sheet and outcome",
	}, []string{"sheet", "outcome"})

	SheetsCallLatency = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "sheets_call_latency_seconds",
		Help:    "Latency of Google Sheets API calls",
		Buckets: prometheus.DefBuckets,
	}, []string{"op"})

	CacheHitsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "reference_cache_hits_total",
		Help: "Reference store cache hits, per entity kind",
	}, []string{"kind"})

	CacheMissesTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "reference_cache_misses_total",
		Help: "Reference store cache misses, per entity kind",
	}, []string{"kind"})

	FlowsStartedTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "flows_started_total",
		Help: "Conversation flows started, per flow",
	}, []string{"flow"})

	FlowsCompletedTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "flows_completed_total",
		Help: "Conversation flows completed with a committed write, per flow",
	}, []string{"flow"})

	FlowsCancelledTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "flows_cancelled_total",
		Help: "Conversation flows cancelled by the user, per flow",
	}, []string{"flow"})

	NotificationsSentTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "admin_notifications_sent_total",
		Help: "Admin notifications delivered",
	})

	NotificationsFailedTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "admin_notifications_failed_total",
		Help: "Admin notification deliveries that failed and were skipped",
	})

	EventsPublishedTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "farm_events_published_total",
		Help: "Domain events published to the event mirror, per type",
	}, []string{"type"})

	HTTPRequestDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "http_request_duration_seconds",
		Help:    "HTTP request latency",
		Buckets: prometheus.DefBuckets,
	}, []string{"method", "path", "status"})

	HTTPRequestsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "http_requests_total",
		Help: "Total number of HTTP requests",
	}, []string{"method", "path", "status"})
)
