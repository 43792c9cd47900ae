package metrics

import (
	"testing"

	"github.com/prometheus/client_golang/prometheus"
)

func TestNewIntakeMetricsRegisters(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := NewIntakeMetrics(reg)

	m.ObserveRegistration("ok", true)
	m.ObserveAppointmentCreated()
	m.ObserveStatusUpdate("schedule", "scheduled")
	m.ObserveNotification("sms", "sent")

	families, err := reg.Gather()
	if err != nil {
		t.Fatalf("gather: %v", err)
	}
	if len(families) != 4 {
		t.Fatalf("expected 4 metric families, got %d", len(families))
	}
}

func TestNilMetricsAreSafe(t *testing.T) {
	var m *IntakeMetrics

	m.ObserveRegistration("ok", false)
	m.ObserveAppointmentCreated()
	m.ObserveStatusUpdate("cancel", "cancelled")
	m.ObserveNotification("email", "failed")
}
