// File: internal/infra/metrics/telegram.go
package metrics

import "github.com/prometheus/client_golang/prometheus"

func init() {
	register(
		tgUpdatesReceived,
		tgPollFailures,
		tgSendsTotal,
	)
}

var (
	tgUpdatesReceived = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "tg_updates_received_total",
			Help: "Updates pulled from the Telegram getUpdates long poll.",
		},
	)

	tgPollFailures = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "tg_poll_failures_total",
			Help: "Failed poll cycles by fault category.",
		},
		[]string{"category"},
	)

	tgSendsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "tg_sends_total",
			Help: "Outbound Telegram calls by method (photo/text) and status.",
		},
		[]string{"method", "status"},
	)
)

func IncUpdatesReceived(n int) {
	tgUpdatesReceived.Add(float64(n))
}

func IncPollFailure(category string) {
	tgPollFailures.WithLabelValues(norm(category)).Inc()
}

func IncSend(method, status string) {
	tgSendsTotal.WithLabelValues(norm(method), norm(status)).Inc()
}
