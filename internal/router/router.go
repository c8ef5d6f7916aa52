package router

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/cors"
	"github.com/go-chi/httprate"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/zerolog"

	"github.com/ThierryWelling/simplo-ti/internal/config"
	"github.com/ThierryWelling/simplo-ti/internal/handlers"
	"github.com/ThierryWelling/simplo-ti/internal/mailer"
	"github.com/ThierryWelling/simplo-ti/internal/middleware"
	"github.com/ThierryWelling/simplo-ti/internal/models"
	"github.com/ThierryWelling/simplo-ti/internal/notify"
	"github.com/ThierryWelling/simplo-ti/internal/repository/postgres"
	"github.com/ThierryWelling/simplo-ti/internal/service"
	"github.com/ThierryWelling/simplo-ti/internal/storage"
)

// Deps are the externally constructed pieces main wires in. Events, Images
// and Mail may be nil / log-only in dev.
type Deps struct {
	Events *notify.Publisher
	Images *storage.ImageStore
	Mail   mailer.Mailer
}

func New(log zerolog.Logger, db *pgxpool.Pool, cfg config.Config, deps Deps) http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.RequestLogger(log))
	r.Use(middleware.Recoverer(log))
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   []string{cfg.Origin},
		AllowedMethods:   []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type"},
		AllowCredentials: true,
	}))
	r.Use(httprate.LimitByIP(200, time.Minute))
	r.Use(middleware.WithAuth(cfg))

	// Repos
	ticketRepo := postgres.NewTicketRepo(db)
	profileRepo := postgres.NewProfileRepo(db)
	identityRepo := postgres.NewIdentityRepo(db)
	equipmentRepo := postgres.NewEquipmentRepo(db)

	// Services
	mail := deps.Mail
	if mail == nil {
		mail = &mailer.LogMailer{Log: log}
	}
	authSvc := service.NewAuthService(identityRepo, profileRepo, mail, cfg.SessionSecret, log)
	ticketSvc := service.NewTicketService(ticketRepo, profileRepo, equipmentRepo, deps.Events, log)
	userSvc := service.NewUserService(identityRepo, profileRepo, ticketRepo, log)
	equipmentSvc := service.NewEquipmentService(equipmentRepo, deps.Images, log)

	// Handlers
	ah := handlers.NewAuthHTTP(authSvc, userSvc)
	th := handlers.NewTicketHTTP(ticketSvc)
	uh := handlers.NewUserHTTP(userSvc)
	eh := handlers.NewEquipmentHTTP(equipmentSvc)

	r.Get("/healthz", handlers.Health())

	r.Route("/api/auth", func(r chi.Router) {
		r.Post("/register", ah.Register())
		r.Post("/login", ah.Login())
		r.Post("/logout", ah.Logout())
		r.Post("/confirm", ah.Confirm())
		r.Post("/resend-confirmation", ah.ResendConfirmation())
		r.Post("/setup", ah.Setup())
		r.With(middleware.RequireAuth).Get("/me", ah.Me())
	})

	r.Route("/api/tickets", func(r chi.Router) {
		r.Use(middleware.RequireAuth)

		r.Get("/", th.List())
		r.Post("/", th.Create())
		r.Get("/stats", th.Stats())
		r.Route("/{id}", func(r chi.Router) {
			r.Get("/", th.Get())
			r.Post("/rate", th.Rate())
			r.Post("/updates", th.AddUpdate())
			r.Get("/updates", th.ListUpdates())
			r.With(middleware.RequireRoles(models.RoleAuxiliar, models.RoleAdmin)).
				Post("/assign", th.Assign())
			r.With(middleware.RequireRoles(models.RoleAuxiliar, models.RoleAdmin)).
				Post("/close", th.Close())
		})
	})

	r.Route("/api/users", func(r chi.Router) {
		r.Use(middleware.RequireAuth)

		r.With(middleware.RequireRoles(models.RoleAdmin)).Get("/", uh.List())
		r.With(middleware.RequireRoles(models.RoleAdmin)).Post("/", uh.Create())
		r.With(middleware.RequireRoles(models.RoleAdmin)).Get("/stats", uh.Stats())
		r.Get("/top-auxiliares", uh.TopAuxiliares())
		r.Route("/{id}", func(r chi.Router) {
			r.With(middleware.RequireSelfOrRoles(models.RoleAdmin)).Get("/", uh.Get())
			r.With(middleware.RequireSelfOrRoles(models.RoleAdmin)).Get("/stats", uh.TicketStats())
			r.With(middleware.RequireRoles(models.RoleAdmin)).Patch("/", uh.Update())
			r.With(middleware.RequireRoles(models.RoleAdmin)).Patch("/role", uh.UpdateRole())
			r.With(middleware.RequireRoles(models.RoleAdmin)).Delete("/", uh.Delete())
		})
	})

	r.Route("/api/equipment", func(r chi.Router) {
		r.Use(middleware.RequireAuth)

		r.Get("/", eh.List())
		r.With(middleware.RequireRoles(models.RoleAdmin)).Post("/", eh.Create())
		r.Route("/{id}", func(r chi.Router) {
			r.Get("/", eh.Get())
			r.With(middleware.RequireRoles(models.RoleAdmin)).Patch("/", eh.Update())
			r.With(middleware.RequireRoles(models.RoleAdmin)).Delete("/", eh.Delete())
			r.With(middleware.RequireRoles(models.RoleAdmin)).Post("/image", eh.UploadImage())
		})
	})

	return r
}
