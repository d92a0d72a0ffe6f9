package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"labelgen/internal/logging"
)

// ErrDuplicateSerial is returned when an insert would reuse a serial number.
var ErrDuplicateSerial = errors.New("serial number already exists")

// Record is one row of LabelHistory.
type Record struct {
	ID           int64     `json:"id"`
	SerialNumber string    `json:"serial_number"`
	Wood         string    `json:"wood"`
	Length       string    `json:"length"`
	Weight       string    `json:"weight"`
	Bracelet     string    `json:"bracelet"`
	Wrap         string    `json:"wrap"`
	CreatedAt    time.Time `json:"created_at"`
}

const insertLabelSQL = `
	INSERT INTO LabelHistory (serial_number, wood, length, weight, bracelet, wrap)
	VALUES (?, ?, ?, ?, ?, ?)`

// Insert appends one label and returns it with ID and CreatedAt filled in.
// The row is committed before Insert returns.
func (s *Store) Insert(ctx context.Context, r Record) (Record, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return Record{}, ErrClosed
	}

	// One statement, so a committed row is never reported as a failure.
	var created interface{}
	err := s.db.QueryRowContext(ctx, insertLabelSQL+" RETURNING id, date_created",
		r.SerialNumber, r.Wood, r.Length, r.Weight, r.Bracelet, r.Wrap).Scan(&r.ID, &created)
	if err != nil {
		return Record{}, classifyInsertError(r.SerialNumber, err)
	}
	r.CreatedAt = parseTimestamp(created)

	logging.StoreDebug("Inserted label %s as id %d", r.SerialNumber, r.ID)
	return r, nil
}

// InsertBatch appends all records in one transaction: either every row is
// committed or none is. Ids are returned in input order.
func (s *Store) InsertBatch(ctx context.Context, records []Record) ([]int64, error) {
	timer := logging.StartTimer(logging.CategoryStore, "InsertBatch")
	defer timer.Stop()

	if len(records) == 0 {
		return nil, nil
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return nil, ErrClosed
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() {
		// No-op after a successful Commit.
		_ = tx.Rollback()
	}()

	stmt, err := tx.PrepareContext(ctx, insertLabelSQL)
	if err != nil {
		return nil, fmt.Errorf("failed to prepare insert: %w", err)
	}
	defer stmt.Close()

	ids := make([]int64, 0, len(records))
	for _, r := range records {
		res, err := stmt.ExecContext(ctx,
			r.SerialNumber, r.Wood, r.Length, r.Weight, r.Bracelet, r.Wrap)
		if err != nil {
			return nil, classifyInsertError(r.SerialNumber, err)
		}
		id, err := res.LastInsertId()
		if err != nil {
			return nil, fmt.Errorf("failed to read inserted id: %w", err)
		}
		ids = append(ids, id)
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("failed to commit batch: %w", err)
	}

	logging.Store("Inserted %d labels (%s..%s)", len(records),
		records[0].SerialNumber, records[len(records)-1].SerialNumber)
	return ids, nil
}

// LastSerial returns the serial number of the row with the highest id, or ""
// when the table is empty.
func (s *Store) LastSerial(ctx context.Context) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return "", ErrClosed
	}

	var serial string
	err := s.db.QueryRowContext(ctx,
		"SELECT serial_number FROM LabelHistory ORDER BY id DESC LIMIT 1").Scan(&serial)
	if errors.Is(err, sql.ErrNoRows) {
		return "", nil
	}
	if err != nil {
		return "", fmt.Errorf("failed to query last serial: %w", err)
	}
	return serial, nil
}

// FetchAll returns every label in insertion order.
func (s *Store) FetchAll(ctx context.Context) ([]Record, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return nil, ErrClosed
	}

	rows, err := s.db.QueryContext(ctx, `
		SELECT id, serial_number, wood, length, weight, bracelet, wrap, date_created
		FROM LabelHistory ORDER BY id ASC`)
	if err != nil {
		return nil, fmt.Errorf("failed to query label history: %w", err)
	}
	defer rows.Close()

	var records []Record
	for rows.Next() {
		var r Record
		var created interface{}
		if err := rows.Scan(&r.ID, &r.SerialNumber, &r.Wood, &r.Length, &r.Weight,
			&r.Bracelet, &r.Wrap, &created); err != nil {
			return nil, fmt.Errorf("failed to scan label: %w", err)
		}
		r.CreatedAt = parseTimestamp(created)
		records = append(records, r)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read label history: %w", err)
	}
	return records, nil
}

// Count returns the number of stored labels.
func (s *Store) Count(ctx context.Context) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return 0, ErrClosed
	}

	var n int
	if err := s.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM LabelHistory").Scan(&n); err != nil {
		return 0, fmt.Errorf("failed to count labels: %w", err)
	}
	return n, nil
}

func classifyInsertError(serial string, err error) error {
	if strings.Contains(err.Error(), "UNIQUE constraint failed") {
		logging.StoreError("Rejected duplicate serial %s", serial)
		return fmt.Errorf("%w: %s", ErrDuplicateSerial, serial)
	}
	return fmt.Errorf("failed to insert label %s: %w", serial, err)
}

var timestampLayouts = []string{
	"2006-01-02 15:04:05",
	"2006-01-02 15:04:05.999999999-07:00",
	"2006-01-02T15:04:05Z07:00",
	time.RFC3339Nano,
}

// parseTimestamp normalizes date_created: depending on the driver it arrives
// as time.Time or as SQLite's CURRENT_TIMESTAMP text (UTC).
func parseTimestamp(v interface{}) time.Time {
	var s string
	switch t := v.(type) {
	case time.Time:
		return t.UTC()
	case string:
		s = t
	case []byte:
		s = string(t)
	default:
		return time.Time{}
	}
	for _, layout := range timestampLayouts {
		if ts, err := time.Parse(layout, s); err == nil {
			return ts.UTC()
		}
	}
	return time.Time{}
}
