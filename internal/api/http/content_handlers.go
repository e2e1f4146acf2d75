package http

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	auth "github.com/mind-engage/mindengage-portal/internal/auth/middleware"
	"github.com/mind-engage/mindengage-portal/internal/content"
	"github.com/mind-engage/mindengage-portal/internal/portal"
	"github.com/mind-engage/mindengage-portal/internal/rbac"
)

type createContentRequest struct {
	Title    string `json:"title" validate:"required"`
	Type     string `json:"type" validate:"required,oneof=assignment quiz"`
	Semester string `json:"semester" validate:"omitempty,oneof=sem-1 sem-2 sem-3 sem-4 sem-5 sem-6 sem-7 sem-8"`
	Text     string `json:"text" validate:"required"`
}

type previewRequest struct {
	Type string `json:"type" validate:"required,oneof=assignment quiz"`
	Text string `json:"text"`
}

type submitRequest struct {
	Answers []string `json:"answers" validate:"required"`
}

// contentView is a stored set with its id exposed.
type contentView struct {
	ID string `json:"id"`
	content.QuestionSet
}

func viewOf(s content.QuestionSet) contentView { return contentView{ID: s.ID, QuestionSet: s} }

// POST /content
func CreateContentHandler(svc *portal.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req createContentRequest
		if !decode(w, r, &req) {
			return
		}
		set, err := svc.CreateContent(r.Context(), auth.SubjectFromContext(r.Context()), portal.CreateContentInput{
			Title:    req.Title,
			Kind:     content.Kind(req.Type),
			Semester: req.Semester,
			Text:     req.Text,
		})
		if err != nil {
			fail(w, err)
			return
		}
		writeJSON(w, http.StatusCreated, viewOf(set))
	}
}

// POST /content/preview
func PreviewContentHandler(svc *portal.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req previewRequest
		if !decode(w, r, &req) {
			return
		}
		qs, err := svc.PreviewContent(content.Kind(req.Type), req.Text)
		if err != nil {
			fail(w, err)
			return
		}
		writeJSON(w, http.StatusOK, map[string]any{"questions": qs, "count": len(qs)})
	}
}

// GET /content. Admins get every record; students get the records of their
// semester without answer keys.
func ListContentHandler(svc *portal.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		if rbac.Can(rbac.RoleFromContext(ctx), rbac.PermContentViewAll) {
			sets, err := svc.ListContent(ctx)
			if err != nil {
				fail(w, err)
				return
			}
			out := make([]contentView, 0, len(sets))
			for _, s := range sets {
				out = append(out, viewOf(s))
			}
			writeJSON(w, http.StatusOK, out)
			return
		}
		items, err := svc.ListForStudent(ctx, auth.SubjectFromContext(ctx))
		if err != nil {
			fail(w, err)
			return
		}
		type studentItem struct {
			contentView
			Attempted bool                `json:"attempted"`
			Latest    *portal.ScoreRecord `json:"latest,omitempty"`
		}
		out := make([]studentItem, 0, len(items))
		for _, it := range items {
			out = append(out, studentItem{contentView: viewOf(it.Content), Attempted: it.Attempted, Latest: it.Latest})
		}
		writeJSON(w, http.StatusOK, out)
	}
}

// GET /content/{id}
func GetContentHandler(svc *portal.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		set, err := svc.GetContent(r.Context(), chi.URLParam(r, "id"))
		if err != nil {
			fail(w, err)
			return
		}
		if !rbac.Can(rbac.RoleFromContext(r.Context()), rbac.PermContentViewKeys) {
			set = set.StudentView()
		}
		writeJSON(w, http.StatusOK, viewOf(set))
	}
}

// GET /content/{id}/source
func ContentSourceHandler(svc *portal.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		src, err := svc.ContentSource(r.Context(), chi.URLParam(r, "id"))
		if err != nil {
			fail(w, err)
			return
		}
		w.Header().Set("Content-Type", "text/plain; charset=utf-8")
		_, _ = w.Write([]byte(src))
	}
}

// POST /content/{id}/submissions
func SubmitHandler(svc *portal.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req submitRequest
		if !decode(w, r, &req) {
			return
		}
		sub, err := svc.Submit(r.Context(), auth.SubjectFromContext(r.Context()), chi.URLParam(r, "id"), req.Answers)
		if err != nil {
			fail(w, err)
			return
		}
		writeJSON(w, http.StatusCreated, sub)
	}
}
