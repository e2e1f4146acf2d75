package docstore

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/mind-engage/mindengage-portal/internal/db"
)

// SQLStore keeps every collection in the documents table of a sqlite or
// postgres database opened with db.Open.
type SQLStore struct {
	db     *sql.DB
	driver db.Driver
}

func NewSQLStore(h *sql.DB, driver db.Driver) *SQLStore {
	return &SQLStore{db: h, driver: driver}
}

func (s *SQLStore) Create(ctx context.Context, collection string, fields Fields) (string, error) {
	id := uuid.NewString()
	if err := s.Set(ctx, collection, id, fields); err != nil {
		return "", err
	}
	return id, nil
}

func (s *SQLStore) Insert(ctx context.Context, collection, id string, fields Fields) error {
	res, err := s.write(ctx, `INSERT INTO documents (collection,id,data,created_at)
		VALUES ($1,$2,$3,$4)
		ON CONFLICT (collection,id) DO NOTHING`, collection, id, fields)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrExists
	}
	return nil
}

func (s *SQLStore) Set(ctx context.Context, collection, id string, fields Fields) error {
	_, err := s.write(ctx, `INSERT INTO documents (collection,id,data,created_at)
		VALUES ($1,$2,$3,$4)
		ON CONFLICT (collection,id) DO UPDATE SET data=EXCLUDED.data`, collection, id, fields)
	return err
}

func (s *SQLStore) write(ctx context.Context, stmt, collection, id string, fields Fields) (sql.Result, error) {
	if id == "" {
		return nil, errors.New("docstore: empty id")
	}
	if fields == nil {
		fields = Fields{}
	}
	buf, err := json.Marshal(fields)
	if err != nil {
		return nil, fmt.Errorf("docstore: encode: %w", err)
	}
	return s.db.ExecContext(ctx, stmt, collection, id, string(buf), time.Now().UnixMilli())
}

func (s *SQLStore) Get(ctx context.Context, collection, id string) (Document, error) {
	row := s.db.QueryRowContext(ctx, `SELECT data FROM documents WHERE collection=$1 AND id=$2`, collection, id)
	var data string
	if err := row.Scan(&data); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return Document{}, ErrNotFound
		}
		return Document{}, err
	}
	f, err := decodeRow(data)
	if err != nil {
		return Document{}, err
	}
	return Document{ID: id, Fields: f}, nil
}

func (s *SQLStore) List(ctx context.Context, collection string, q Query) ([]Document, error) {
	if err := validateQuery(q); err != nil {
		return nil, err
	}
	var sb strings.Builder
	sb.WriteString(`SELECT id, data FROM documents WHERE collection=$1`)
	args := []any{collection}
	for _, f := range q.Filters {
		args = append(args, f.Field, f.Value)
		fmt.Fprintf(&sb, " AND %s = $%d", s.jsonField(len(args)-1), len(args))
	}
	sb.WriteString(` ORDER BY created_at, id`)

	rows, err := s.db.QueryContext(ctx, sb.String(), args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []Document{}
	for rows.Next() {
		var id, data string
		if err := rows.Scan(&id, &data); err != nil {
			return nil, err
		}
		f, err := decodeRow(data)
		if err != nil {
			return nil, err
		}
		out = append(out, Document{ID: id, Fields: f})
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return orderAndLimit(out, q), nil
}

func (s *SQLStore) Delete(ctx context.Context, collection, id string) error {
	res, err := s.db.ExecContext(ctx, `DELETE FROM documents WHERE collection=$1 AND id=$2`, collection, id)
	if err != nil {
		return err
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return ErrNotFound
	}
	return nil
}

func (s *SQLStore) Close() error { return s.db.Close() }

// jsonField renders the dialect's text extraction of a top-level JSON key
// bound at placeholder $n.
func (s *SQLStore) jsonField(n int) string {
	if s.driver == db.DriverPostgres {
		return fmt.Sprintf("(data::jsonb ->> $%d)", n)
	}
	return fmt.Sprintf("json_extract(data, '$.' || $%d)", n)
}

func decodeRow(data string) (Fields, error) {
	var f Fields
	if err := json.Unmarshal([]byte(data), &f); err != nil {
		return nil, fmt.Errorf("docstore: decode: %w", err)
	}
	if f == nil {
		f = Fields{}
	}
	return f, nil
}
