package portal

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log"
	"strings"
	"time"

	"github.com/mind-engage/mindengage-portal/internal/content"
	"github.com/mind-engage/mindengage-portal/internal/docstore"
	"github.com/mind-engage/mindengage-portal/internal/eventlog"
	"github.com/mind-engage/mindengage-portal/internal/grading"
	"github.com/mind-engage/mindengage-portal/internal/identity"
	"github.com/mind-engage/mindengage-portal/internal/rbac"
	"github.com/mind-engage/mindengage-portal/internal/storage"
)

type Deps struct {
	Store    docstore.Store
	Identity identity.Provider
	Blobs    storage.BlobStore // optional; authoring text is not archived when nil
	Events   *eventlog.Repo    // optional
}

type Service struct {
	repo   repo
	ids    identity.Provider
	engine *grading.Engine
	blobs  storage.BlobStore
	events *eventlog.Repo
	now    func() time.Time
}

func NewService(d Deps) *Service {
	return &Service{
		repo:   repo{store: d.Store},
		ids:    d.Identity,
		engine: grading.NewEngine(),
		blobs:  d.Blobs,
		events: d.Events,
		now:    time.Now,
	}
}

// ---- profiles ----

// Register signs the user up and creates their student profile. When the
// profile cannot be written the new account is deleted again, so the email
// stays free for a retry.
func (s *Service) Register(ctx context.Context, in SignUpInput) (identity.Session, Profile, error) {
	name := strings.TrimSpace(in.Name)
	if name == "" {
		return identity.Session{}, Profile{}, ErrNameRequired
	}
	sem := strings.TrimSpace(in.Semester)
	if sem == "" {
		sem = content.DefaultSemester
	}
	if !content.ValidSemester(sem) {
		return identity.Session{}, Profile{}, ErrInvalidSemester
	}
	sess, err := s.ids.SignUp(ctx, in.Email, in.Password)
	if err != nil {
		return identity.Session{}, Profile{}, err
	}
	p := Profile{
		UID:       sess.User.UID,
		Email:     sess.User.Email,
		Name:      name,
		Role:      rbac.RoleStudent,
		Semester:  sem,
		CreatedAt: s.now().UnixMilli(),
	}
	if err := s.repo.putProfile(ctx, p); err != nil {
		if derr := s.ids.DeleteUser(ctx, p.UID); derr != nil {
			log.Printf("register %s: remove account %s: %v", p.Email, p.UID, derr)
		}
		return identity.Session{}, Profile{}, err
	}
	return sess, p, nil
}

func (s *Service) Profile(ctx context.Context, uid string) (Profile, error) {
	return s.repo.getProfile(ctx, uid)
}

// EnsureAdminProfile creates the admin profile for u if none exists yet.
// An existing profile is returned unchanged.
func (s *Service) EnsureAdminProfile(ctx context.Context, u identity.User) (Profile, error) {
	p, err := s.repo.getProfile(ctx, u.UID)
	if err == nil {
		return p, nil
	}
	if !errors.Is(err, ErrProfileNotFound) {
		return Profile{}, err
	}
	p = Profile{
		UID:       u.UID,
		Email:     u.Email,
		Name:      AdminName,
		Role:      rbac.RoleAdmin,
		CreatedAt: s.now().UnixMilli(),
	}
	if err := s.repo.putProfile(ctx, p); err != nil {
		return Profile{}, err
	}
	log.Printf("created admin profile for %s", u.Email)
	return p, nil
}

// ProfileRole implements rbac.RoleLookup.
func (s *Service) ProfileRole(ctx context.Context, uid string) (string, bool, error) {
	p, err := s.repo.getProfile(ctx, uid)
	if errors.Is(err, ErrProfileNotFound) {
		return "", false, nil
	}
	if err != nil {
		return "", false, err
	}
	return p.Role, true, nil
}

// ---- content ----

// PreviewContent parses text without persisting anything.
func (s *Service) PreviewContent(kind content.Kind, text string) ([]content.Question, error) {
	if !kind.Valid() {
		return nil, ErrInvalidKind
	}
	qs := content.Parse(kind, text)
	if len(qs) == 0 {
		return nil, content.ErrParseEmpty
	}
	return qs, nil
}

// CreateContent parses, validates and persists a question set, then archives
// the authoring text.
func (s *Service) CreateContent(ctx context.Context, actor string, in CreateContentInput) (content.QuestionSet, error) {
	title := strings.TrimSpace(in.Title)
	if title == "" {
		return content.QuestionSet{}, ErrTitleRequired
	}
	sem := strings.TrimSpace(in.Semester)
	if sem != "" && !content.ValidSemester(sem) {
		return content.QuestionSet{}, ErrInvalidSemester
	}
	qs, err := s.PreviewContent(in.Kind, in.Text)
	if err != nil {
		return content.QuestionSet{}, err
	}
	set := content.QuestionSet{
		Title:     title,
		Kind:      in.Kind,
		Semester:  sem,
		Questions: qs,
		CreatedAt: s.now().UnixMilli(),
	}
	if err := content.Validate(set); err != nil {
		return content.QuestionSet{}, err
	}
	id, err := s.repo.createContent(ctx, set)
	if err != nil {
		return content.QuestionSet{}, err
	}
	set.ID = id

	if s.blobs != nil {
		if _, err := s.blobs.Put(ctx, sourceKey(id), strings.NewReader(in.Text)); err != nil {
			log.Printf("archive source of %s: %v", id, err)
		}
	}
	s.emit(ctx, eventlog.Event{
		Type:  eventlog.TypeContentCreated,
		Key:   id,
		Actor: actor,
		Data:  map[string]any{"type": string(set.Kind), "questions": len(set.Questions)},
	})
	return set, nil
}

func (s *Service) GetContent(ctx context.Context, id string) (content.QuestionSet, error) {
	return s.repo.getContent(ctx, id)
}

// ListContent returns every content record, newest first.
func (s *Service) ListContent(ctx context.Context) ([]content.QuestionSet, error) {
	return s.repo.listContent(ctx)
}

// ListForStudent returns the records visible to the student's semester with
// answer keys removed, each flagged with the student's latest attempt.
func (s *Service) ListForStudent(ctx context.Context, uid string) ([]StudentItem, error) {
	sem := content.DefaultSemester
	p, err := s.repo.getProfile(ctx, uid)
	switch {
	case err == nil:
		if p.Semester != "" {
			sem = p.Semester
		}
	case !errors.Is(err, ErrProfileNotFound):
		return nil, err
	}

	sets, err := s.repo.listContent(ctx)
	if err != nil {
		return nil, err
	}
	scores, err := s.repo.listScores(ctx, uid)
	if err != nil {
		return nil, err
	}
	latest := make(map[string]ScoreRecord, len(scores))
	for _, rec := range scores { // newest first
		if _, seen := latest[rec.ContentID]; !seen {
			latest[rec.ContentID] = rec
		}
	}

	out := make([]StudentItem, 0, len(sets))
	for _, set := range sets {
		if !set.VisibleTo(sem) {
			continue
		}
		it := StudentItem{Content: set.StudentView()}
		if rec, ok := latest[set.ID]; ok {
			rec := rec
			it.Attempted = true
			it.Latest = &rec
		}
		out = append(out, it)
	}
	return out, nil
}

// ContentSource returns the archived authoring text of a record.
func (s *Service) ContentSource(ctx context.Context, id string) (string, error) {
	if _, err := s.repo.getContent(ctx, id); err != nil {
		return "", err
	}
	if s.blobs == nil {
		return "", ErrSourceNotFound
	}
	rc, err := s.blobs.Get(ctx, sourceKey(id))
	if errors.Is(err, storage.ErrNotFound) {
		return "", ErrSourceNotFound
	}
	if err != nil {
		return "", fmt.Errorf("read source of %s: %w", id, err)
	}
	defer rc.Close()
	b, err := io.ReadAll(rc)
	if err != nil {
		return "", fmt.Errorf("read source of %s: %w", id, err)
	}
	return string(b), nil
}

func sourceKey(id string) string { return "content/" + id + ".txt" }

// ---- submissions ----

// Submit checks completeness, grades the attempt and records the score. An
// incomplete attempt is rejected before anything is read or written.
func (s *Service) Submit(ctx context.Context, uid, contentID string, answers []string) (Submission, error) {
	if err := grading.CheckComplete(answers); err != nil {
		return Submission{}, err
	}
	set, err := s.repo.getContent(ctx, contentID)
	if err != nil {
		return Submission{}, err
	}
	res, err := s.engine.Grade(set, grading.Attempt{Answers: answers})
	if err != nil {
		return Submission{}, err
	}

	name := UnknownStudent
	if p, err := s.repo.getProfile(ctx, uid); err == nil && strings.TrimSpace(p.Name) != "" {
		name = p.Name
	} else if err != nil && !errors.Is(err, ErrProfileNotFound) {
		log.Printf("student name for %s: %v", uid, err)
	}

	rec := ScoreRecord{
		StudentID:      uid,
		StudentName:    name,
		ContentID:      set.ID,
		ContentTitle:   set.Title,
		Score:          res.Score,
		TotalQuestions: res.Total,
		Timestamp:      s.now().UnixMilli(),
	}
	id, err := s.repo.addScore(ctx, rec)
	if err != nil {
		return Submission{}, err
	}
	rec.ID = id
	s.emit(ctx, eventlog.Event{
		Type:  eventlog.TypeScoreRecorded,
		Key:   id,
		Actor: uid,
		Data:  map[string]any{"assignmentId": set.ID, "score": rec.Score, "totalQuestions": rec.TotalQuestions},
	})
	return Submission{Record: rec, Verdicts: res.Verdicts}, nil
}

// ---- scores & students ----

func (s *Service) ScoresForStudent(ctx context.Context, uid string) ([]ScoreRecord, error) {
	return s.repo.listScores(ctx, uid)
}

// AllScores returns every score record, newest first.
func (s *Service) AllScores(ctx context.Context) ([]ScoreRecord, error) {
	return s.repo.listScores(ctx, "")
}

func (s *Service) ListStudents(ctx context.Context) ([]Profile, error) {
	return s.repo.listProfiles(ctx, rbac.RoleStudent)
}

// DeleteStudent removes a student's score records, their profile and their
// identity account. An account already gone is not an error.
func (s *Service) DeleteStudent(ctx context.Context, actor, uid string) error {
	p, err := s.repo.getProfile(ctx, uid)
	if err != nil {
		return err
	}
	if p.Role != rbac.RoleStudent {
		return ErrNotStudent
	}
	n, err := s.repo.deleteScores(ctx, uid)
	if err != nil {
		return err
	}
	if err := s.repo.store.Delete(ctx, CollUsers, uid); err != nil && !errors.Is(err, docstore.ErrNotFound) {
		return fmt.Errorf("delete profile %s: %w", uid, err)
	}
	if err := s.ids.DeleteUser(ctx, uid); err != nil && !errors.Is(err, identity.ErrUserNotFound) {
		return fmt.Errorf("delete account %s: %w", uid, err)
	}
	s.emit(ctx, eventlog.Event{
		Type:  eventlog.TypeStudentDeleted,
		Key:   uid,
		Actor: actor,
		Data:  map[string]any{"email": p.Email, "scores": n},
	})
	return nil
}

// ---- audit ----

// MaxEvents caps one page of the audit log.
const MaxEvents = 500

// Events returns audit events, newest first. typ narrows to one event type;
// limit is clamped to (0, MaxEvents]. Without an event log the list is empty.
func (s *Service) Events(ctx context.Context, typ string, limit int) ([]eventlog.Event, error) {
	if typ != "" && !eventlog.KnownType(typ) {
		return nil, ErrInvalidEvent
	}
	if limit <= 0 || limit > MaxEvents {
		limit = MaxEvents
	}
	if s.events == nil {
		return []eventlog.Event{}, nil
	}
	return s.events.List(ctx, typ, limit)
}

// emit appends to the audit log; failures are logged only.
func (s *Service) emit(ctx context.Context, e eventlog.Event) {
	if s.events == nil {
		return
	}
	if err := s.events.Append(ctx, e); err != nil {
		log.Printf("eventlog %s %s: %v", e.Type, e.Key, err)
	}
}
