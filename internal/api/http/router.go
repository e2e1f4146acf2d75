package http

import (
	"context"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"

	auth "github.com/mind-engage/mindengage-portal/internal/auth/middleware"
	"github.com/mind-engage/mindengage-portal/internal/identity"
	"github.com/mind-engage/mindengage-portal/internal/portal"
	"github.com/mind-engage/mindengage-portal/internal/rbac"
)

type RouterDeps struct {
	Service     *portal.Service
	Identity    identity.Provider
	Roles       rbac.RoleResolver
	CORSOrigins []string
	// Ready reports backend readiness for /readyz; nil means always ready.
	Ready func(ctx context.Context) error
}

func NewRouter(d RouterDeps) http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID, middleware.RealIP, middleware.Logger, middleware.Recoverer)
	r.Use(middleware.Timeout(30 * time.Second))
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   d.CORSOrigins,
		AllowedMethods:   []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Authorization", "Content-Type"},
		ExposedHeaders:   []string{"Content-Length"},
		AllowCredentials: true,
		MaxAge:           300,
	}))

	svc := d.Service

	r.Post("/auth/signup", SignUpHandler(svc))
	r.Post("/auth/signin", SignInHandler(d.Identity))
	r.Post("/auth/password-reset", PasswordResetHandler(d.Identity))
	r.Post("/auth/password-reset/confirm", ConfirmPasswordResetHandler(d.Identity))

	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) { w.WriteHeader(200) })
	r.Get("/readyz", func(w http.ResponseWriter, r *http.Request) {
		if d.Ready != nil {
			if err := d.Ready(r.Context()); err != nil {
				writeError(w, http.StatusServiceUnavailable, err.Error())
				return
			}
		}
		w.WriteHeader(200)
	})

	// Protected API (bearer → identity → role → RBAC)
	r.Group(func(pr chi.Router) {
		pr.Use(auth.Authenticate(d.Identity), auth.AttachRole(d.Roles))

		pr.Post("/auth/signout", SignOutHandler(d.Identity))

		pr.With(rbac.Require(rbac.PermProfileViewOwn)).Get("/me", MeHandler(svc))
		pr.With(rbac.Require(rbac.PermScoresViewOwn)).Get("/me/stats", MeStatsHandler(svc))

		pr.Route("/content", func(cr chi.Router) {
			cr.With(rbac.Require(rbac.PermContentCreate)).Post("/", CreateContentHandler(svc))
			cr.With(rbac.Require(rbac.PermContentCreate)).Post("/preview", PreviewContentHandler(svc))
			cr.With(rbac.Require(rbac.PermContentView)).Get("/", ListContentHandler(svc))
			cr.Route("/{id}", func(ir chi.Router) {
				ir.With(rbac.Require(rbac.PermContentView)).Get("/", GetContentHandler(svc))
				ir.With(rbac.Require(rbac.PermContentSource)).Get("/source", ContentSourceHandler(svc))
				ir.With(rbac.Require(rbac.PermAttemptSubmit)).Post("/submissions", SubmitHandler(svc))
			})
		})

		pr.With(rbac.Require(rbac.PermScoresViewOwn, rbac.PermScoresViewAll)).Get("/scores", ScoresHandler(svc))

		pr.With(rbac.Require(rbac.PermStudentsList)).Get("/students", ListStudentsHandler(svc))
		pr.With(rbac.Require(rbac.PermStudentsDelete)).Delete("/students/{id}", DeleteStudentHandler(svc))

		pr.With(rbac.Require(rbac.PermAnalyticsView)).Get("/analytics/overview", OverviewHandler(svc))
		pr.With(rbac.Require(rbac.PermEventsView)).Get("/events", EventsHandler(svc))
	})

	return r
}
