package survey

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"
	_ "modernc.org/sqlite"
)

// SQLiteRecordStore persists submission records across restarts.
type SQLiteRecordStore struct {
	db *sqlx.DB
}

const recordSchema = `
CREATE TABLE IF NOT EXISTS submissions (
	token         TEXT PRIMARY KEY,
	file_name     TEXT NOT NULL DEFAULT '',
	object_id     TEXT NOT NULL DEFAULT '',
	view_link     TEXT NOT NULL DEFAULT '',
	status        TEXT NOT NULL,
	error_code    TEXT NOT NULL DEFAULT '',
	error_message TEXT NOT NULL DEFAULT '',
	created_at    TEXT NOT NULL
);

CREATE INDEX IF NOT EXISTS submissions_created_at ON submissions (created_at);
`

type recordRow struct {
	Record
	CreatedAt string `db:"created_at"`
}

func NewSQLiteRecordStore(dbPath string) (*SQLiteRecordStore, error) {
	db, err := sqlx.Open("sqlite", dbPath+"?_pragma=journal_mode(wal)&_pragma=busy_timeout(5000)")
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}
	db.SetMaxOpenConns(1)

	if _, err := db.Exec(recordSchema); err != nil {
		db.Close()
		return nil, fmt.Errorf("create schema: %w", err)
	}
	return &SQLiteRecordStore{db: db}, nil
}

func (s *SQLiteRecordStore) Close() error {
	return s.db.Close()
}

// createdAtLayout is fixed width so created_at sorts chronologically as text.
const createdAtLayout = "2006-01-02T15:04:05.000000000Z"

func timeToString(t time.Time) string {
	return t.UTC().Format(createdAtLayout)
}

func (s *SQLiteRecordStore) Save(ctx context.Context, rec Record) error {
	row := recordRow{Record: rec, CreatedAt: timeToString(rec.CreatedAt)}
	_, err := s.db.NamedExecContext(ctx, `
		INSERT OR REPLACE INTO submissions
			(token, file_name, object_id, view_link, status, error_code, error_message, created_at)
		VALUES
			(:token, :file_name, :object_id, :view_link, :status, :error_code, :error_message, :created_at)`, row)
	if err != nil {
		return fmt.Errorf("save record %s: %w", rec.Token, err)
	}
	return nil
}

func (s *SQLiteRecordStore) Get(ctx context.Context, token string) (Record, bool, error) {
	var row recordRow
	err := s.db.GetContext(ctx, &row, `SELECT * FROM submissions WHERE token = ?`, token)
	if errors.Is(err, sql.ErrNoRows) {
		return Record{}, false, nil
	}
	if err != nil {
		return Record{}, false, fmt.Errorf("get record %s: %w", token, err)
	}
	rec, err := row.record()
	if err != nil {
		return Record{}, false, err
	}
	return rec, true, nil
}

func (s *SQLiteRecordStore) Recent(ctx context.Context, limit int) ([]Record, error) {
	if limit <= 0 {
		limit = -1
	}
	var rows []recordRow
	if err := s.db.SelectContext(ctx, &rows,
		`SELECT * FROM submissions ORDER BY created_at DESC, token ASC LIMIT ?`, limit); err != nil {
		return nil, fmt.Errorf("list records: %w", err)
	}
	out := make([]Record, 0, len(rows))
	for _, row := range rows {
		rec, err := row.record()
		if err != nil {
			return nil, err
		}
		out = append(out, rec)
	}
	return out, nil
}

func (r recordRow) record() (Record, error) {
	rec := r.Record
	t, err := time.Parse(createdAtLayout, r.CreatedAt)
	if err != nil {
		return Record{}, fmt.Errorf("record %s created_at: %w", r.Token, err)
	}
	rec.CreatedAt = t
	return rec, nil
}
