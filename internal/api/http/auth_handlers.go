package http

import (
	"net/http"

	auth "github.com/mind-engage/mindengage-portal/internal/auth/middleware"
	"github.com/mind-engage/mindengage-portal/internal/identity"
	"github.com/mind-engage/mindengage-portal/internal/portal"
	"github.com/mind-engage/mindengage-portal/internal/rbac"
	"github.com/mind-engage/mindengage-portal/internal/reporting"
)

type signUpRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=6"`
	Name     string `json:"name" validate:"required"`
	Semester string `json:"semester" validate:"omitempty,oneof=sem-1 sem-2 sem-3 sem-4 sem-5 sem-6 sem-7 sem-8"`
}

type signInRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

type resetRequest struct {
	Email string `json:"email" validate:"required,email"`
}

type resetConfirmRequest struct {
	Code     string `json:"code" validate:"required"`
	Password string `json:"password" validate:"required,min=6"`
}

// POST /auth/signup
func SignUpHandler(svc *portal.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req signUpRequest
		if !decode(w, r, &req) {
			return
		}
		sess, p, err := svc.Register(r.Context(), portal.SignUpInput{
			Email: req.Email, Password: req.Password, Name: req.Name, Semester: req.Semester,
		})
		if err != nil {
			fail(w, err)
			return
		}
		writeJSON(w, http.StatusCreated, map[string]any{"session": sess, "profile": p})
	}
}

// POST /auth/signin
func SignInHandler(ids identity.Provider) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req signInRequest
		if !decode(w, r, &req) {
			return
		}
		sess, err := ids.SignIn(r.Context(), req.Email, req.Password)
		if err != nil {
			fail(w, err)
			return
		}
		writeJSON(w, http.StatusOK, sess)
	}
}

// POST /auth/signout
func SignOutHandler(ids identity.Provider) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if err := ids.SignOut(r.Context(), auth.TokenFromContext(r.Context())); err != nil {
			fail(w, err)
			return
		}
		w.WriteHeader(http.StatusNoContent)
	}
}

// POST /auth/password-reset. Always 202 so the response does not reveal
// whether the address is registered.
func PasswordResetHandler(ids identity.Provider) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req resetRequest
		if !decode(w, r, &req) {
			return
		}
		if err := ids.SendPasswordReset(r.Context(), req.Email); err != nil {
			fail(w, err)
			return
		}
		writeJSON(w, http.StatusAccepted, map[string]string{"status": "sent"})
	}
}

// POST /auth/password-reset/confirm
func ConfirmPasswordResetHandler(ids identity.Provider) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		rc, ok := ids.(identity.ResetConfirmer)
		if !ok {
			fail(w, identity.ErrUnsupported)
			return
		}
		var req resetConfirmRequest
		if !decode(w, r, &req) {
			return
		}
		if err := rc.ConfirmPasswordReset(r.Context(), req.Code, req.Password); err != nil {
			fail(w, err)
			return
		}
		w.WriteHeader(http.StatusNoContent)
	}
}

// GET /me. Admins without a profile get one created on first visit.
func MeHandler(svc *portal.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		u, _ := auth.UserFromContext(ctx)
		role := rbac.RoleFromContext(ctx)

		var (
			p   portal.Profile
			err error
		)
		if role == rbac.RoleAdmin {
			p, err = svc.EnsureAdminProfile(ctx, u)
		} else {
			p, err = svc.Profile(ctx, u.UID)
		}
		if err != nil {
			fail(w, err)
			return
		}
		writeJSON(w, http.StatusOK, map[string]any{"user": u, "role": role, "profile": p})
	}
}

// GET /me/stats
func MeStatsHandler(svc *portal.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		scores, err := svc.ScoresForStudent(r.Context(), auth.SubjectFromContext(r.Context()))
		if err != nil {
			fail(w, err)
			return
		}
		views := make([]scoreView, 0, len(scores))
		for _, rec := range scores {
			views = append(views, scoreView{ID: rec.ID, ScoreRecord: rec, Pct: rec.Percentage()})
		}
		writeJSON(w, http.StatusOK, map[string]any{
			"summary": reporting.StudentSummary(scores),
			"scores":  views,
		})
	}
}
