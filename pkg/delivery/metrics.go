package delivery

import "github.com/zeromicro/go-zero/core/metric"

var (
	emailsSent = metric.NewCounterVec(&metric.CounterVecOpts{
		Namespace: "pitchmail",
		Subsystem: "delivery",
		Name:      "emails_sent_total",
		Help:      "Total pitch emails sent successfully",
	})

	emailsFailed = metric.NewCounterVec(&metric.CounterVecOpts{
		Namespace: "pitchmail",
		Subsystem: "delivery",
		Name:      "emails_failed_total",
		Help:      "Total pitch emails failed permanently",
		Labels:    []string{"reason"},
	})

	emailsRetried = metric.NewCounterVec(&metric.CounterVecOpts{
		Namespace: "pitchmail",
		Subsystem: "delivery",
		Name:      "emails_retried_total",
		Help:      "Total delivery retries",
	})

	deliveryDuration = metric.NewHistogramVec(&metric.HistogramVecOpts{
		Namespace: "pitchmail",
		Subsystem: "delivery",
		Name:      "duration_ms",
		Help:      "Email delivery duration in milliseconds",
		Buckets:   []float64{100, 500, 1000, 2000, 5000, 10000, 30000},
	})

	queueDepth = metric.NewGaugeVec(&metric.GaugeVecOpts{
		Namespace: "pitchmail",
		Subsystem: "queue",
		Name:      "depth",
		Help:      "Current queue depth by status",
		Labels:    []string{"status"},
	})
)
