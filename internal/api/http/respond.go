package http

import (
	"encoding/json"
	"errors"
	"log"
	"net/http"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"

	"github.com/mind-engage/mindengage-portal/internal/content"
	"github.com/mind-engage/mindengage-portal/internal/grading"
	"github.com/mind-engage/mindengage-portal/internal/identity"
	"github.com/mind-engage/mindengage-portal/internal/portal"
)

const (
	msgParseEmpty = "no valid questions found; check format"
	msgIncomplete = "please answer all questions"
)

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New()
	// report json field names
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name, _, _ := strings.Cut(f.Tag.Get("json"), ",")
		if name == "-" {
			return ""
		}
		return name
	})
	return v
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}

// decode reads a JSON body into dst and validates it. On failure the response
// has been written and false is returned.
func decode(w http.ResponseWriter, r *http.Request, dst any) bool {
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, 1<<20))
	if err := dec.Decode(dst); err != nil {
		writeError(w, http.StatusBadRequest, "bad json")
		return false
	}
	if err := validate.Struct(dst); err != nil {
		var ve validator.ValidationErrors
		if !errors.As(err, &ve) {
			writeError(w, http.StatusBadRequest, "invalid input")
			return false
		}
		fields := make(map[string]string, len(ve))
		for _, fe := range ve {
			fields[fe.Field()] = fe.Tag()
		}
		writeJSON(w, http.StatusBadRequest, map[string]any{"error": "validation failed", "fields": fields})
		return false
	}
	return true
}

// fail maps domain errors onto HTTP statuses.
func fail(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, content.ErrParseEmpty):
		writeError(w, http.StatusUnprocessableEntity, msgParseEmpty)
	case errors.Is(err, grading.ErrIncompleteSubmission):
		writeError(w, http.StatusUnprocessableEntity, msgIncomplete)
	case errors.Is(err, grading.ErrAnswerCountMismatch),
		errors.Is(err, content.ErrMalformedQuestionSet),
		errors.Is(err, portal.ErrTitleRequired),
		errors.Is(err, portal.ErrNameRequired),
		errors.Is(err, portal.ErrInvalidSemester),
		errors.Is(err, portal.ErrInvalidKind),
		errors.Is(err, portal.ErrInvalidEvent),
		errors.Is(err, identity.ErrWeakPassword),
		errors.Is(err, identity.ErrInvalidEmail),
		errors.Is(err, identity.ErrInvalidResetCode):
		writeError(w, http.StatusBadRequest, err.Error())
	case errors.Is(err, portal.ErrContentNotFound),
		errors.Is(err, portal.ErrProfileNotFound),
		errors.Is(err, portal.ErrSourceNotFound):
		writeError(w, http.StatusNotFound, err.Error())
	case errors.Is(err, identity.ErrInvalidCredentials),
		errors.Is(err, identity.ErrInvalidToken):
		writeError(w, http.StatusUnauthorized, err.Error())
	case errors.Is(err, identity.ErrEmailTaken),
		errors.Is(err, portal.ErrNotStudent):
		writeError(w, http.StatusConflict, err.Error())
	case errors.Is(err, identity.ErrUnsupported):
		writeError(w, http.StatusNotImplemented, err.Error())
	default:
		log.Printf("internal error: %v", err)
		writeError(w, http.StatusInternalServerError, "internal error")
	}
}
