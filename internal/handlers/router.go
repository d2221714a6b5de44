package handlers

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"

	"github.com/ukydev/car-rental-admin/internal/middleware"
)

// RouterConfig carries the handlers and middleware the router wires
// together.
type RouterConfig struct {
	Auth       *AuthHandler
	Cars       *CarHandler
	Rentals    *RentalHandler
	Reminders  *ReminderHandler
	Dashboard  *DashboardHandler
	Admin      *AdminHandler
	AuthMW     *middleware.AuthMiddleware
	RateLimit  *middleware.RateLimitMiddleware
	RateMax    int
	RateWindow int
	Timeout    time.Duration
	UploadDir  string
}

// NewRouter assembles the API routes.
func NewRouter(cfg RouterConfig) http.Handler {
	r := chi.NewRouter()

	r.Use(chimw.Recoverer)
	r.Use(middleware.RequestLogger)
	if cfg.Timeout > 0 {
		r.Use(middleware.Timeout(cfg.Timeout))
	}
	r.Use(cfg.RateLimit.RateLimit(cfg.RateMax, cfg.RateWindow))
	r.Use(cfg.AuthMW.Authenticate)

	r.Get("/health", func(w http.ResponseWriter, req *http.Request) {
		writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})

	// Uploaded documents are served statically; locators in the API point
	// here.
	fileServer := http.StripPrefix("/uploads/", http.FileServer(http.Dir(cfg.UploadDir)))
	r.Get("/uploads/*", fileServer.ServeHTTP)

	r.Route("/api", func(api chi.Router) {
		api.Route("/auth", func(a chi.Router) {
			a.Post("/login", cfg.Auth.Login)
			a.Post("/register", cfg.Auth.Register)
			a.Post("/refresh", cfg.Auth.Refresh)
			a.Get("/profile", cfg.Auth.GetProfile)
			a.Put("/profile", cfg.Auth.UpdateProfile)
			a.Post("/change-password", cfg.Auth.ChangePassword)
		})

		api.Route("/cars", func(c chi.Router) {
			c.Get("/", cfg.Cars.List)
			c.Post("/", cfg.Cars.Create)
			c.Get("/available", cfg.Cars.Available)
			c.Get("/reminders/upcoming", cfg.Cars.UpcomingReminders)

			c.Route("/{id}", func(car chi.Router) {
				car.Get("/", cfg.Cars.Get)
				car.Put("/", cfg.Cars.Update)
				car.Delete("/", cfg.Cars.Delete)
				car.Post("/documents", cfg.Cars.AddDocuments)
				car.Delete("/documents/{docID}", cfg.Cars.DeleteDocument)
				car.Post("/reminders", cfg.Cars.SetReminders)
				car.Put("/reminders/{reminderID}", cfg.Cars.UpdateReminder)
				car.Delete("/reminders/{reminderID}", cfg.Cars.DeleteReminder)
			})
		})

		api.Route("/rentals", func(re chi.Router) {
			re.Get("/", cfg.Rentals.List)
			re.Post("/", cfg.Rentals.Create)
			re.Get("/active", cfg.Dashboard.ActiveRentals)

			re.Route("/{id}", func(rental chi.Router) {
				rental.Get("/", cfg.Rentals.Get)
				rental.Delete("/", cfg.Rentals.Delete)
				rental.Post("/end", cfg.Rentals.End)
				rental.Put("/return", cfg.Rentals.Return)
				rental.Post("/extend", cfg.Rentals.Extend)
				rental.Post("/clear", cfg.Rentals.Clear)
				rental.Get("/notes", cfg.Rentals.ListNotes)
				rental.Post("/notes", cfg.Rentals.AddNote)
				rental.Post("/documents", cfg.Rentals.AddDocuments)
			})
		})

		api.Route("/reminders", func(rem chi.Router) {
			rem.Get("/", cfg.Reminders.List)
			rem.Post("/", cfg.Reminders.Create)
			rem.Get("/upcoming", cfg.Reminders.Upcoming)
			rem.Get("/{id}", cfg.Reminders.Get)
			rem.Put("/{id}", cfg.Reminders.Update)
			rem.Delete("/{id}", cfg.Reminders.Delete)
			rem.Post("/{id}/complete", cfg.Reminders.Complete)
		})

		api.Route("/dashboard", func(d chi.Router) {
			d.Get("/summary", cfg.Dashboard.Summary)
			d.Get("/revenue", cfg.Dashboard.Revenue)
		})

		api.Route("/admin", func(ad chi.Router) {
			ad.Use(cfg.AuthMW.RequirePermission("admin_maintenance"))
			ad.Get("/dbstats", cfg.Admin.Stats)
			ad.Post("/prune", cfg.Admin.Prune)
			ad.Post("/reset-database", cfg.Admin.Reset)
		})
	})

	return r
}
