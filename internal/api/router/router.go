package router

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/carepulse/intake-platform/internal/admin"
	"github.com/carepulse/intake-platform/internal/appointments"
	"github.com/carepulse/intake-platform/internal/http/handlers"
	custommw "github.com/carepulse/intake-platform/internal/http/middleware"
	"github.com/carepulse/intake-platform/internal/identity"
	"github.com/carepulse/intake-platform/internal/registration"
	"github.com/carepulse/intake-platform/pkg/logging"
)

// Deps carries everything the router wires together.
type Deps struct {
	Users             *identity.Handler
	Registration      *registration.Handler
	Appointments      *appointments.Handler
	Admin             *admin.Handler
	AdminGate         *admin.Gate
	AdminAppointments *handlers.AdminAppointmentsHandler
	Logger            *logging.Logger
	CORSOrigins       []string
}

// New builds the HTTP routing tree.
func New(deps Deps) *chi.Mux {
	r := chi.NewRouter()

	r.Use(chimiddleware.RequestID)
	r.Use(chimiddleware.RealIP)
	r.Use(custommw.RequestLogger(deps.Logger))
	r.Use(chimiddleware.Recoverer)
	r.Use(custommw.CORS(deps.CORSOrigins))

	r.Get("/health", func(w http.ResponseWriter, req *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"status":"ok"}`))
	})
	r.Handle("/metrics", promhttp.Handler())

	r.Post("/users", deps.Users.CreateUser)
	r.Get("/users/{userID}", deps.Users.GetUser)
	r.Get("/users/{userID}/patient", deps.Registration.GetPatientByUser)

	r.Post("/patients/register", deps.Registration.RegisterPatient)
	r.Get("/patients/{patientID}", deps.Registration.GetPatient)

	r.Post("/appointments", deps.Appointments.CreateAppointment)
	r.Get("/appointments/{appointmentID}", deps.Appointments.GetAppointment)
	r.Patch("/appointments/{appointmentID}", deps.Appointments.UpdateAppointment)

	r.Route("/admin", func(ar chi.Router) {
		ar.Post("/login", deps.Admin.Login)
		ar.Post("/logout", deps.Admin.Logout)

		ar.Group(func(protected chi.Router) {
			protected.Use(custommw.AdminSession(deps.AdminGate, deps.Logger))
			protected.Get("/appointments", deps.AdminAppointments.List)
		})
	})

	return r
}
