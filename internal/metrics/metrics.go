// Package metrics exposes Prometheus collectors for the notification service.
package metrics

import (
	"context"

	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus"

	"github.com/katatrina/feed-notification/internal/notification"
)

const namespace = "feed_notification"

type Recorder struct {
	created    *prometheus.CounterVec
	suppressed *prometheus.CounterVec
	read       prometheus.Counter
	storeUp    prometheus.Gauge
}

var _ notification.Observer = (*Recorder)(nil)

// NewRecorder creates the collectors and registers them on reg.
func NewRecorder(reg prometheus.Registerer) *Recorder {
	r := &Recorder{
		created: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "notifications_created_total",
			Help:      "Notifications written to the store.",
		}, []string{"type"}),
		suppressed: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "notifications_suppressed_total",
			Help:      "Events that did not produce a notification.",
		}, []string{"type", "reason"}),
		read: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "notifications_read_total",
			Help:      "Notifications transitioned to read.",
		}),
		storeUp: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "store_up",
			Help:      "1 when the last store ping succeeded.",
		}),
	}

	reg.MustRegister(r.created, r.suppressed, r.read, r.storeUp)
	return r
}

func (r *Recorder) NotificationCreated(_ context.Context, n notification.Notification) {
	r.created.WithLabelValues(n.NotificationType).Inc()
}

func (r *Recorder) NotificationSuppressed(_ context.Context, notificationType string, reason notification.SuppressReason) {
	r.suppressed.WithLabelValues(notificationType, string(reason)).Inc()
}

func (r *Recorder) NotificationsRead(_ context.Context, _ uuid.UUID, count int64) {
	r.read.Add(float64(count))
}

func (r *Recorder) SetStoreUp(up bool) {
	if up {
		r.storeUp.Set(1)
		return
	}
	r.storeUp.Set(0)
}
