package docstore

import (
	"context"
	"errors"
	"fmt"

	"cloud.google.com/go/firestore"
	"google.golang.org/api/iterator"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

// FirestoreStore maps collections onto top-level Firestore collections.
type FirestoreStore struct {
	client *firestore.Client
}

func NewFirestoreStore(c *firestore.Client) *FirestoreStore {
	return &FirestoreStore{client: c}
}

func (s *FirestoreStore) Create(ctx context.Context, collection string, fields Fields) (string, error) {
	ref, _, err := s.client.Collection(collection).Add(ctx, map[string]interface{}(fields))
	if err != nil {
		return "", fmt.Errorf("firestore: add %s: %w", collection, err)
	}
	return ref.ID, nil
}

func (s *FirestoreStore) Insert(ctx context.Context, collection, id string, fields Fields) error {
	if id == "" {
		return errors.New("docstore: empty id")
	}
	if _, err := s.client.Collection(collection).Doc(id).Create(ctx, map[string]interface{}(fields)); err != nil {
		if status.Code(err) == codes.AlreadyExists {
			return ErrExists
		}
		return fmt.Errorf("firestore: create %s/%s: %w", collection, id, err)
	}
	return nil
}

func (s *FirestoreStore) Set(ctx context.Context, collection, id string, fields Fields) error {
	if id == "" {
		return errors.New("docstore: empty id")
	}
	if _, err := s.client.Collection(collection).Doc(id).Set(ctx, map[string]interface{}(fields)); err != nil {
		return fmt.Errorf("firestore: set %s/%s: %w", collection, id, err)
	}
	return nil
}

func (s *FirestoreStore) Get(ctx context.Context, collection, id string) (Document, error) {
	snap, err := s.client.Collection(collection).Doc(id).Get(ctx)
	if err != nil {
		if status.Code(err) == codes.NotFound {
			return Document{}, ErrNotFound
		}
		return Document{}, fmt.Errorf("firestore: get %s/%s: %w", collection, id, err)
	}
	return Document{ID: snap.Ref.ID, Fields: Fields(snap.Data())}, nil
}

func (s *FirestoreStore) List(ctx context.Context, collection string, q Query) ([]Document, error) {
	if err := validateQuery(q); err != nil {
		return nil, err
	}
	fq := s.client.Collection(collection).Query
	for _, f := range q.Filters {
		fq = fq.Where(f.Field, "==", f.Value)
	}
	if q.OrderBy != "" {
		dir := firestore.Asc
		if q.Desc {
			dir = firestore.Desc
		}
		fq = fq.OrderBy(q.OrderBy, dir)
	}
	if q.Limit > 0 {
		fq = fq.Limit(q.Limit)
	}

	iter := fq.Documents(ctx)
	defer iter.Stop()
	out := []Document{}
	for {
		snap, err := iter.Next()
		if err == iterator.Done {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("firestore: list %s: %w", collection, err)
		}
		out = append(out, Document{ID: snap.Ref.ID, Fields: Fields(snap.Data())})
	}
	return out, nil
}

func (s *FirestoreStore) Delete(ctx context.Context, collection, id string) error {
	ref := s.client.Collection(collection).Doc(id)
	if _, err := ref.Get(ctx); err != nil {
		if status.Code(err) == codes.NotFound {
			return ErrNotFound
		}
		return fmt.Errorf("firestore: delete %s/%s: %w", collection, id, err)
	}
	if _, err := ref.Delete(ctx); err != nil {
		return fmt.Errorf("firestore: delete %s/%s: %w", collection, id, err)
	}
	return nil
}

func (s *FirestoreStore) Close() error { return s.client.Close() }
