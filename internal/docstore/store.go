// Package docstore is the document-store collaborator: collection-based CRUD
// with equality filters and a single sort key.
package docstore

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"regexp"
)

var (
	ErrNotFound = errors.New("document not found")
	ErrExists   = errors.New("document already exists")
)

// Fields is a document body, as stored.
type Fields map[string]any

type Document struct {
	ID     string
	Fields Fields
}

// Filter is an equality condition on a top-level string field.
type Filter struct {
	Field string
	Value string
}

type Query struct {
	Filters []Filter
	OrderBy string // top-level field; empty keeps backend order
	Desc    bool
	Limit   int // 0 = no limit
}

// Where returns a query with an additional equality filter.
func (q Query) Where(field, value string) Query {
	q.Filters = append(append([]Filter(nil), q.Filters...), Filter{Field: field, Value: value})
	return q
}

type Store interface {
	// Create inserts a document under a generated id and returns the id.
	Create(ctx context.Context, collection string, fields Fields) (string, error)
	// Insert creates the document with the given id, or fails with ErrExists.
	Insert(ctx context.Context, collection, id string, fields Fields) error
	// Set creates or replaces the document with the given id.
	Set(ctx context.Context, collection, id string, fields Fields) error
	Get(ctx context.Context, collection, id string) (Document, error)
	List(ctx context.Context, collection string, q Query) ([]Document, error)
	Delete(ctx context.Context, collection, id string) error
	Close() error
}

// Encode converts a JSON-tagged record into Fields.
func Encode(v any) (Fields, error) {
	b, err := json.Marshal(v)
	if err != nil {
		return nil, fmt.Errorf("docstore: encode: %w", err)
	}
	var f Fields
	if err := json.Unmarshal(b, &f); err != nil {
		return nil, fmt.Errorf("docstore: encode: %w", err)
	}
	return f, nil
}

// Decode fills a JSON-tagged record from Fields.
func Decode(f Fields, v any) error {
	b, err := json.Marshal(f)
	if err != nil {
		return fmt.Errorf("docstore: decode: %w", err)
	}
	if err := json.Unmarshal(b, v); err != nil {
		return fmt.Errorf("docstore: decode: %w", err)
	}
	return nil
}

var fieldName = regexp.MustCompile(`^[A-Za-z_][A-Za-z0-9_]*$`)

func validateQuery(q Query) error {
	for _, f := range q.Filters {
		if !fieldName.MatchString(f.Field) {
			return fmt.Errorf("docstore: invalid filter field %q", f.Field)
		}
	}
	if q.OrderBy != "" && !fieldName.MatchString(q.OrderBy) {
		return fmt.Errorf("docstore: invalid order field %q", q.OrderBy)
	}
	if q.Limit < 0 {
		return errors.New("docstore: negative limit")
	}
	return nil
}
