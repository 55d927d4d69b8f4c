package history

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"

	_ "modernc.org/sqlite"
)

// SQLiteStore persists ticket records to a SQLite database.
type SQLiteStore struct {
	db *sql.DB
}

// NewSQLiteStore opens or creates the database at path and ensures schema.
func NewSQLiteStore(path string) (*SQLiteStore, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, err
	}
	schema := `CREATE TABLE IF NOT EXISTS ticket_history (
        id INTEGER PRIMARY KEY AUTOINCREMENT,
        exit_ts INTEGER,
        plate TEXT,
        class TEXT,
        record TEXT
    );`
	if _, err := db.Exec(schema); err != nil {
		if cerr := db.Close(); cerr != nil {
			return nil, fmt.Errorf("close db: %v (schema err: %w)", cerr, err)
		}
		return nil, err
	}
	return &SQLiteStore{db: db}, nil
}

// Append writes the record to the database.
func (s *SQLiteStore) Append(ctx context.Context, rec TicketRecord) error {
	b, err := json.Marshal(rec)
	if err != nil {
		return err
	}
	_, err = s.db.ExecContext(ctx,
		`INSERT INTO ticket_history (exit_ts, plate, class, record) VALUES (?, ?, ?, ?)`,
		rec.Exit.Unix(), rec.Plate, rec.Class, string(b))
	return err
}

// Query returns records matching q ordered by exit time.
func (s *SQLiteStore) Query(ctx context.Context, q Query) ([]TicketRecord, error) {
	var args []any
	query := `SELECT record FROM ticket_history WHERE 1=1`
	if !q.Start.IsZero() {
		query += ` AND exit_ts >= ?`
		args = append(args, q.Start.Unix())
	}
	if !q.End.IsZero() {
		query += ` AND exit_ts <= ?`
		args = append(args, q.End.Unix())
	}
	if q.Plate != "" {
		query += ` AND plate = ?`
		args = append(args, q.Plate)
	}
	if q.Class != "" {
		query += ` AND class = ?`
		args = append(args, q.Class)
	}
	query += ` ORDER BY exit_ts`
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer func() { _ = rows.Close() }()
	var res []TicketRecord
	for rows.Next() {
		var data string
		if err := rows.Scan(&data); err != nil {
			return nil, err
		}
		var r TicketRecord
		if err := json.Unmarshal([]byte(data), &r); err != nil {
			return nil, fmt.Errorf("unmarshal record: %w", err)
		}
		res = append(res, r)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return res, nil
}

// Close closes the underlying database.
func (s *SQLiteStore) Close() error { return s.db.Close() }
