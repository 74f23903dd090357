package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds the prometheus collectors for the payment pipeline.
type Metrics struct {
	PaymentsInitiated  *prometheus.CounterVec
	PaymentsConfirmed  *prometheus.CounterVec
	WebhookRejections  *prometheus.CounterVec
	GatewayCallSeconds *prometheus.HistogramVec
}

func New(reg prometheus.Registerer) *Metrics {
	factory := promauto.With(reg)
	return &Metrics{
		PaymentsInitiated: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "immodirect_payments_initiated_total",
			Help: "Payment initiations by reason and outcome.",
		}, []string{"reason", "outcome"}),
		PaymentsConfirmed: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "immodirect_payments_confirmed_total",
			Help: "Webhook confirmations by verified status.",
		}, []string{"status"}),
		WebhookRejections: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "immodirect_webhook_rejections_total",
			Help: "Webhook notifications rejected, by cause.",
		}, []string{"cause"}),
		GatewayCallSeconds: factory.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "immodirect_gateway_call_seconds",
			Help:    "Latency of outbound gateway calls.",
			Buckets: prometheus.DefBuckets,
		}, []string{"call"}),
	}
}
