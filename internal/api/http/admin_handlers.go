package http

import (
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	auth "github.com/mind-engage/mindengage-portal/internal/auth/middleware"
	"github.com/mind-engage/mindengage-portal/internal/portal"
	"github.com/mind-engage/mindengage-portal/internal/rbac"
	"github.com/mind-engage/mindengage-portal/internal/reporting"
)

type scoreView struct {
	ID string `json:"id"`
	portal.ScoreRecord
	Pct float64 `json:"percentage"`
}

type studentView struct {
	ID string `json:"id"`
	portal.Profile
}

// GET /scores[?student=ID]. Students only ever see their own records.
func ScoresHandler(svc *portal.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		var (
			recs []portal.ScoreRecord
			err  error
		)
		switch student := r.URL.Query().Get("student"); {
		case !rbac.Can(rbac.RoleFromContext(ctx), rbac.PermScoresViewAll):
			recs, err = svc.ScoresForStudent(ctx, auth.SubjectFromContext(ctx))
		case student != "":
			recs, err = svc.ScoresForStudent(ctx, student)
		default:
			recs, err = svc.AllScores(ctx)
		}
		if err != nil {
			fail(w, err)
			return
		}
		out := make([]scoreView, 0, len(recs))
		for _, rec := range recs {
			out = append(out, scoreView{ID: rec.ID, ScoreRecord: rec, Pct: rec.Percentage()})
		}
		writeJSON(w, http.StatusOK, out)
	}
}

// GET /students
func ListStudentsHandler(svc *portal.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ps, err := svc.ListStudents(r.Context())
		if err != nil {
			fail(w, err)
			return
		}
		out := make([]studentView, 0, len(ps))
		for _, p := range ps {
			out = append(out, studentView{ID: p.UID, Profile: p})
		}
		writeJSON(w, http.StatusOK, out)
	}
}

// DELETE /students/{id}
func DeleteStudentHandler(svc *portal.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		err := svc.DeleteStudent(r.Context(), auth.SubjectFromContext(r.Context()), chi.URLParam(r, "id"))
		if err != nil {
			fail(w, err)
			return
		}
		w.WriteHeader(http.StatusNoContent)
	}
}

// GET /analytics/overview
func OverviewHandler(svc *portal.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		students, err := svc.ListStudents(ctx)
		if err != nil {
			fail(w, err)
			return
		}
		sets, err := svc.ListContent(ctx)
		if err != nil {
			fail(w, err)
			return
		}
		scores, err := svc.AllScores(ctx)
		if err != nil {
			fail(w, err)
			return
		}
		writeJSON(w, http.StatusOK, reporting.BuildOverview(students, sets, scores))
	}
}

// GET /events?type=&limit=
func EventsHandler(svc *portal.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		limit := 0
		if raw := r.URL.Query().Get("limit"); raw != "" {
			n, err := strconv.Atoi(raw)
			if err != nil || n < 0 {
				writeError(w, http.StatusBadRequest, "limit must be a non-negative integer")
				return
			}
			limit = n
		}
		evs, err := svc.Events(r.Context(), r.URL.Query().Get("type"), limit)
		if err != nil {
			fail(w, err)
			return
		}
		writeJSON(w, http.StatusOK, evs)
	}
}
