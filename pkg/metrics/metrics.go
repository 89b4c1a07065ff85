package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics provides observability for registration, notification, verification
// and card issuance. A nil *Metrics is valid and records nothing.
type Metrics struct {
	Registrations  *prometheus.CounterVec
	Notifications  *prometheus.CounterVec
	Verifications  *prometheus.CounterVec
	CardsGenerated *prometheus.CounterVec
}

// New registers every collector on reg. Pass prometheus.DefaultRegisterer in
// production and a fresh registry in tests.
func New(reg prometheus.Registerer) *Metrics {
	factory := promauto.With(reg)

	return &Metrics{
		Registrations: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "adyc_registrations_total",
			Help: "Member registrations by outcome",
		}, []string{"outcome"}), // outcome: "created", "duplicate", "failed"

		Notifications: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "adyc_notifications_total",
			Help: "Notification emails by kind and outcome",
		}, []string{"kind", "outcome"}),

		Verifications: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "adyc_verifications_total",
			Help: "Member verification lookups by result",
		}, []string{"result"}),

		CardsGenerated: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "adyc_cards_generated_total",
			Help: "ID card generation attempts by outcome",
		}, []string{"outcome"}),
	}
}

func (m *Metrics) IncrementRegistration(outcome string) {
	if m != nil {
		m.Registrations.WithLabelValues(outcome).Inc()
	}
}

func (m *Metrics) IncrementNotification(kind string, ok bool) {
	if m != nil {
		m.Notifications.WithLabelValues(kind, outcomeLabel(ok)).Inc()
	}
}

func (m *Metrics) IncrementVerification(result string) {
	if m != nil {
		m.Verifications.WithLabelValues(result).Inc()
	}
}

func (m *Metrics) IncrementCardGenerated(outcome string) {
	if m != nil {
		m.CardsGenerated.WithLabelValues(outcome).Inc()
	}
}

func outcomeLabel(ok bool) string {
	if ok {
		return "sent"
	}
	return "failed"
}
