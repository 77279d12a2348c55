package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/cors"
	"github.com/joho/godotenv"

	"github.com/vistamar/club-reservations/internal/cache"
	"github.com/vistamar/club-reservations/internal/domain"
	"github.com/vistamar/club-reservations/internal/http/handlers"
	"github.com/vistamar/club-reservations/internal/integrations/rates"
	"github.com/vistamar/club-reservations/internal/mailer"
	"github.com/vistamar/club-reservations/internal/payments"
	"github.com/vistamar/club-reservations/internal/repo"
	"github.com/vistamar/club-reservations/internal/repo/fixture"
	"github.com/vistamar/club-reservations/internal/repo/postgres"
	"github.com/vistamar/club-reservations/internal/service/billing"
	"github.com/vistamar/club-reservations/internal/service/reservations"
	"github.com/vistamar/club-reservations/pkg/auth"
	"github.com/vistamar/club-reservations/pkg/config"
	"github.com/vistamar/club-reservations/pkg/database"
	"github.com/vistamar/club-reservations/pkg/events"
	"github.com/vistamar/club-reservations/pkg/logger"
	mw "github.com/vistamar/club-reservations/pkg/middleware"
)

func main() {
	_ = godotenv.Load()
	cfg := config.Load()

	ctx := context.Background()

	// Repositories: real database or the bundled fixture data set.
	var (
		reservationRepo repo.ReservationRepository
		billingRepo     repo.BillingRepository
		calendarRepo    repo.CalendarRepository
	)
	switch cfg.Database.DataSource {
	case "fixture":
		store := fixture.NewStore()
		fixture.Seed(store)
		reservationRepo = store.Reservations()
		billingRepo = store.Billing()
		calendarRepo = store.Calendar()
		logger.Info("Using fixture data source")
	default:
		pool, err := database.Connect(ctx, cfg.Database.URL)
		if err != nil {
			logger.Error("Failed to connect to database", "error", err)
			os.Exit(1)
		}
		defer pool.Close()
		reservationRepo = postgres.NewReservationsRepo(pool)
		billingRepo = postgres.NewBillingRepo(pool)
		calendarRepo = postgres.NewCalendarRepo(pool)
	}

	// Event bus
	var bus events.Publisher = events.NopBus{}
	if cfg.NATS.Enabled {
		natsBus, err := events.NewNATSEventBus(cfg.NATS.URL)
		if err != nil {
			logger.Error("Failed to connect to NATS", "error", err)
			os.Exit(1)
		}
		bus = natsBus
	}
	defer bus.Close()

	// Quote cache
	var quotes cache.Quoter = cache.Passthrough{}
	if cfg.Redis.Enabled {
		quoteCache, err := cache.NewQuoteCache(cfg.Redis.URL, cfg.Redis.QuoteTTL)
		if err != nil {
			logger.Error("Failed to connect to redis", "error", err)
			os.Exit(1)
		}
		quotes = quoteCache
	}

	// Rates: remote service with the fixture as transport-failure fallback.
	fallback := rates.NewFixture()
	var rateSource rates.Source = fallback
	if cfg.Rates.URL != "" {
		rateSource = rates.NewClient(cfg.Rates.URL, cfg.Rates.Timeout, fallback)
	}

	var processor payments.Processor = payments.NewDevProcessor()
	if !cfg.Payments.DevMode && cfg.Payments.StripeKey != "" {
		processor = payments.NewStripeProcessor(cfg.Payments.StripeKey)
	}

	var mail mailer.Service = mailer.NewDevMailer()
	if !cfg.Email.DevMode && cfg.Email.MailerSendKey != "" {
		mail = mailer.NewMailerSend(cfg.Email.MailerSendKey, cfg.Email.FromName, cfg.Email.FromEmail)
	}

	policy := domain.BookingPolicy{
		MinAdvanceDays: cfg.Booking.MinAdvanceDays,
		MaxStayNights:  cfg.Booking.MaxStayNights,
	}

	reservationSvc := reservations.NewService(
		reservationRepo, calendarRepo, rateSource, quotes, bus, processor, mail,
		policy, cfg.Booking.Currency,
	)
	billingSvc := billing.NewService(billingRepo, bus)

	h := handlers.New(reservationSvc, billingSvc, cfg.Booking.Currency, cfg.Auth.JWTSecret)

	r := chi.NewRouter()

	r.Use(mw.RequestID)
	r.Use(mw.ServiceName("reservations"))
	r.Use(mw.Logging)
	r.Use(mw.Health)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   []string{"*"},
		AllowedMethods:   []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type"},
		AllowCredentials: false,
		MaxAge:           300,
	}))

	r.Route("/", func(r chi.Router) {
		// Public booking surface
		r.Get("/policy", h.GetPolicy)
		r.Get("/policy/validate", h.ValidateDates)
		r.Get("/quotes", h.GetQuote)
		r.Get("/availability/{accommodationID}", h.GetAvailability)

		// Member routes
		r.Route("/reservations", func(r chi.Router) {
			r.Use(h.RequireRole(auth.RoleMember))
			r.Post("/", h.CreateReservation)
			r.Get("/", h.ListMyReservations)
			r.Get("/{id}", h.GetReservation)
			r.Post("/{id}/cancel", h.CancelMyReservation)
		})

		// Staff routes
		r.Route("/admin", func(r chi.Router) {
			r.Use(h.RequireRole(auth.RoleStaff))
			r.Get("/reservations", h.ListReservations)
			r.Post("/reservations/{id}/confirm", h.ConfirmReservation)
			r.Post("/reservations/{id}/check-in", h.CheckInReservation)
			r.Post("/reservations/{id}/check-out", h.CheckOutReservation)
			r.Post("/reservations/{id}/mark-paid", h.MarkReservationPaid)
			r.Post("/reservations/{id}/cancel", h.CancelReservation)
			r.Get("/billing/pending", h.ListPendingBilling)
			r.Get("/billing/stats", h.GetBillingStats)
			r.Post("/billing/{id}/process", h.ProcessBilling)
			r.Post("/billing/{id}/cancel", h.CancelBilling)
		})

		// Gatekeeper routes
		r.Route("/gate", func(r chi.Router) {
			r.Use(h.RequireRole(auth.RoleGatekeeper))
			r.Post("/billing", h.RecordGateEntry)
		})
	})

	srv := &http.Server{
		Addr:         ":" + cfg.Server.Port,
		Handler:      r,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  cfg.Server.IdleTimeout,
	}

	go func() {
		sigChan := make(chan os.Signal, 1)
		signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
		<-sigChan

		logger.Info("Shutting down reservations service...")

		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()

		if err := srv.Shutdown(ctx); err != nil {
			logger.Error("Reservations service shutdown error", "error", err)
		}
	}()

	logger.Info("Starting reservations service", "port", cfg.Server.Port)
	if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		logger.Error("Reservations service error", "error", err)
		os.Exit(1)
	}
}
