package eventlog

import (
	"context"
	"time"

	"github.com/mind-engage/mindengage-portal/internal/docstore"
)

const Collection = "events"

const (
	TypeContentCreated = "ContentCreated"
	TypeScoreRecorded  = "ScoreRecorded"
	TypeStudentDeleted = "StudentDeleted"
)

// KnownType reports whether typ is one of the event types the portal emits.
func KnownType(typ string) bool {
	switch typ {
	case TypeContentCreated, TypeScoreRecorded, TypeStudentDeleted:
		return true
	}
	return false
}

type Event struct {
	Type      string         `json:"type"`
	Key       string         `json:"key"` // natural key: content id, score id, user id
	Actor     string         `json:"actor,omitempty"`
	Data      map[string]any `json:"data,omitempty"`
	CreatedAt int64          `json:"createdAt"` // unix millis
}

type Repo struct {
	store docstore.Store
	now   func() time.Time
}

func NewRepo(s docstore.Store) *Repo { return &Repo{store: s, now: time.Now} }

func (r *Repo) Append(ctx context.Context, e Event) error {
	e.CreatedAt = r.now().UnixMilli()
	f, err := docstore.Encode(e)
	if err != nil {
		return err
	}
	_, err = r.store.Create(ctx, Collection, f)
	return err
}

// List returns events of one type, newest first. An empty typ lists all.
func (r *Repo) List(ctx context.Context, typ string, limit int) ([]Event, error) {
	q := docstore.Query{OrderBy: "createdAt", Desc: true, Limit: limit}
	if typ != "" {
		q = q.Where("type", typ)
	}
	docs, err := r.store.List(ctx, Collection, q)
	if err != nil {
		return nil, err
	}
	out := make([]Event, 0, len(docs))
	for _, d := range docs {
		var e Event
		if err := docstore.Decode(d.Fields, &e); err != nil {
			return nil, err
		}
		out = append(out, e)
	}
	return out, nil
}
