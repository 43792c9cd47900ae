package metrics

import "github.com/prometheus/client_golang/prometheus"

// IntakeMetrics exposes counters for the registration and appointment flows.
type IntakeMetrics struct {
	registrationsTotal  *prometheus.CounterVec
	appointmentsCreated prometheus.Counter
	statusUpdatesTotal  *prometheus.CounterVec
	notificationsTotal  *prometheus.CounterVec
}

func NewIntakeMetrics(reg prometheus.Registerer) *IntakeMetrics {
	m := &IntakeMetrics{
		registrationsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "carepulse",
			Subsystem: "intake",
			Name:      "registrations_total",
			Help:      "Total patient registration attempts",
		}, []string{"status", "with_document"}),
		appointmentsCreated: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "carepulse",
			Subsystem: "appointments",
			Name:      "created_total",
			Help:      "Total appointments created",
		}),
		statusUpdatesTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "carepulse",
			Subsystem: "appointments",
			Name:      "status_updates_total",
			Help:      "Total appointment status updates",
		}, []string{"type", "status"}),
		notificationsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "carepulse",
			Subsystem: "notify",
			Name:      "deliveries_total",
			Help:      "Total notification delivery attempts",
		}, []string{"channel", "status"}),
	}
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	reg.MustRegister(m.registrationsTotal, m.appointmentsCreated, m.statusUpdatesTotal, m.notificationsTotal)
	return m
}

func (m *IntakeMetrics) ObserveRegistration(status string, withDocument bool) {
	if m == nil {
		return
	}
	label := "false"
	if withDocument {
		label = "true"
	}
	m.registrationsTotal.WithLabelValues(status, label).Inc()
}

func (m *IntakeMetrics) ObserveAppointmentCreated() {
	if m == nil {
		return
	}
	m.appointmentsCreated.Inc()
}

func (m *IntakeMetrics) ObserveStatusUpdate(updateType, status string) {
	if m == nil {
		return
	}
	m.statusUpdatesTotal.WithLabelValues(updateType, status).Inc()
}

func (m *IntakeMetrics) ObserveNotification(channel, status string) {
	if m == nil {
		return
	}
	m.notificationsTotal.WithLabelValues(channel, status).Inc()
}
