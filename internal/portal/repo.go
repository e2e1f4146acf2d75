package portal

import (
	"context"
	"errors"
	"fmt"

	"github.com/mind-engage/mindengage-portal/internal/content"
	"github.com/mind-engage/mindengage-portal/internal/docstore"
)

// repo maps portal records onto the document store.
type repo struct {
	store docstore.Store
}

func (r repo) getProfile(ctx context.Context, uid string) (Profile, error) {
	d, err := r.store.Get(ctx, CollUsers, uid)
	if errors.Is(err, docstore.ErrNotFound) {
		return Profile{}, ErrProfileNotFound
	}
	if err != nil {
		return Profile{}, fmt.Errorf("get profile %s: %w", uid, err)
	}
	var p Profile
	if err := docstore.Decode(d.Fields, &p); err != nil {
		return Profile{}, err
	}
	p.UID = d.ID
	return p, nil
}

func (r repo) putProfile(ctx context.Context, p Profile) error {
	f, err := docstore.Encode(p)
	if err != nil {
		return err
	}
	if err := r.store.Set(ctx, CollUsers, p.UID, f); err != nil {
		return fmt.Errorf("put profile %s: %w", p.UID, err)
	}
	return nil
}

func (r repo) listProfiles(ctx context.Context, role string) ([]Profile, error) {
	q := docstore.Query{OrderBy: "createdAt"}
	if role != "" {
		q = q.Where("role", role)
	}
	docs, err := r.store.List(ctx, CollUsers, q)
	if err != nil {
		return nil, fmt.Errorf("list profiles: %w", err)
	}
	out := make([]Profile, 0, len(docs))
	for _, d := range docs {
		var p Profile
		if err := docstore.Decode(d.Fields, &p); err != nil {
			return nil, err
		}
		p.UID = d.ID
		out = append(out, p)
	}
	return out, nil
}

func (r repo) createContent(ctx context.Context, s content.QuestionSet) (string, error) {
	f, err := docstore.Encode(s)
	if err != nil {
		return "", err
	}
	id, err := r.store.Create(ctx, CollAssignments, f)
	if err != nil {
		return "", fmt.Errorf("create content: %w", err)
	}
	return id, nil
}

func (r repo) getContent(ctx context.Context, id string) (content.QuestionSet, error) {
	d, err := r.store.Get(ctx, CollAssignments, id)
	if errors.Is(err, docstore.ErrNotFound) {
		return content.QuestionSet{}, ErrContentNotFound
	}
	if err != nil {
		return content.QuestionSet{}, fmt.Errorf("get content %s: %w", id, err)
	}
	return decodeContent(d)
}

func (r repo) listContent(ctx context.Context) ([]content.QuestionSet, error) {
	docs, err := r.store.List(ctx, CollAssignments, docstore.Query{OrderBy: "createdAt", Desc: true})
	if err != nil {
		return nil, fmt.Errorf("list content: %w", err)
	}
	out := make([]content.QuestionSet, 0, len(docs))
	for _, d := range docs {
		s, err := decodeContent(d)
		if err != nil {
			return nil, err
		}
		out = append(out, s)
	}
	return out, nil
}

func decodeContent(d docstore.Document) (content.QuestionSet, error) {
	var s content.QuestionSet
	if err := docstore.Decode(d.Fields, &s); err != nil {
		return content.QuestionSet{}, err
	}
	s.ID = d.ID
	return s, nil
}

func (r repo) addScore(ctx context.Context, rec ScoreRecord) (string, error) {
	f, err := docstore.Encode(rec)
	if err != nil {
		return "", err
	}
	id, err := r.store.Create(ctx, CollScores, f)
	if err != nil {
		return "", fmt.Errorf("record score: %w", err)
	}
	return id, nil
}

// listScores returns score records newest first; an empty studentID lists all.
func (r repo) listScores(ctx context.Context, studentID string) ([]ScoreRecord, error) {
	q := docstore.Query{OrderBy: "timestamp", Desc: true}
	if studentID != "" {
		q = q.Where("studentId", studentID)
	}
	docs, err := r.store.List(ctx, CollScores, q)
	if err != nil {
		return nil, fmt.Errorf("list scores: %w", err)
	}
	out := make([]ScoreRecord, 0, len(docs))
	for _, d := range docs {
		var rec ScoreRecord
		if err := docstore.Decode(d.Fields, &rec); err != nil {
			return nil, err
		}
		rec.ID = d.ID
		out = append(out, rec)
	}
	return out, nil
}

func (r repo) deleteScores(ctx context.Context, studentID string) (int, error) {
	recs, err := r.listScores(ctx, studentID)
	if err != nil {
		return 0, err
	}
	for _, rec := range recs {
		if err := r.store.Delete(ctx, CollScores, rec.ID); err != nil && !errors.Is(err, docstore.ErrNotFound) {
			return 0, fmt.Errorf("delete score %s: %w", rec.ID, err)
		}
	}
	return len(recs), nil
}
