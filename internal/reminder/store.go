package reminder

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	_ "modernc.org/sqlite"
)

// Store provides SQLite-backed storage for reminder rows. Timestamps are
// persisted as integer epoch milliseconds, is_active as 0/1, description and
// notification_id as nullable text.
type Store struct {
	db *sql.DB
}

// NewStore opens (or creates) the SQLite database at dbPath and ensures the
// reminders table exists.
func NewStore(dbPath string) (*Store, error) {
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	// Enable WAL mode for better concurrency
	if _, err := db.Exec("PRAGMA journal_mode=WAL"); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to set WAL mode: %w", err)
	}

	if err := createTable(db); err != nil {
		db.Close()
		return nil, err
	}

	return &Store{db: db}, nil
}

func createTable(db *sql.DB) error {
	_, err := db.Exec(`
		CREATE TABLE IF NOT EXISTS reminders (
			id              TEXT    PRIMARY KEY,
			title           TEXT    NOT NULL,
			description     TEXT,
			scheduled_time  INTEGER NOT NULL,
			is_active       INTEGER NOT NULL,
			repeat          TEXT    NOT NULL DEFAULT 'none',
			notification_id TEXT,
			created_at      INTEGER NOT NULL,
			updated_at      INTEGER NOT NULL
		)
	`)
	if err != nil {
		return fmt.Errorf("failed to create table: %w", err)
	}
	return nil
}

// Close closes the underlying database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

// Create inserts a new reminder row.
func (s *Store) Create(ctx context.Context, r *Reminder) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO reminders (id, title, description, scheduled_time, is_active, repeat, notification_id, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
	`, r.ID, r.Title, nullable(r.Description), r.ScheduledTime.UnixMilli(),
		boolToInt(r.IsActive), string(r.Repeat), nullable(r.NotificationID),
		r.CreatedAt.UnixMilli(), r.UpdatedAt.UnixMilli())
	if err != nil {
		return fmt.Errorf("failed to insert reminder: %w", err)
	}
	return nil
}

// Update rewrites every mutable column of an existing row.
func (s *Store) Update(ctx context.Context, r *Reminder) error {
	result, err := s.db.ExecContext(ctx, `
		UPDATE reminders
		SET title = ?, description = ?, scheduled_time = ?, is_active = ?, repeat = ?, notification_id = ?, updated_at = ?
		WHERE id = ?
	`, r.Title, nullable(r.Description), r.ScheduledTime.UnixMilli(),
		boolToInt(r.IsActive), string(r.Repeat), nullable(r.NotificationID),
		r.UpdatedAt.UnixMilli(), r.ID)
	if err != nil {
		return fmt.Errorf("failed to update reminder: %w", err)
	}

	n, _ := result.RowsAffected()
	if n == 0 {
		return fmt.Errorf("%w: %s", ErrNotFound, r.ID)
	}
	return nil
}

// UpdateNotificationID rewrites only the trigger handle column. An empty
// handle clears it to NULL.
func (s *Store) UpdateNotificationID(ctx context.Context, id, notificationID string) error {
	result, err := s.db.ExecContext(ctx, `
		UPDATE reminders SET notification_id = ?, updated_at = ? WHERE id = ?
	`, nullable(notificationID), time.Now().UnixMilli(), id)
	if err != nil {
		return fmt.Errorf("failed to update notification id: %w", err)
	}

	n, _ := result.RowsAffected()
	if n == 0 {
		return fmt.Errorf("%w: %s", ErrNotFound, id)
	}
	return nil
}

// Delete removes a reminder row.
func (s *Store) Delete(ctx context.Context, id string) error {
	result, err := s.db.ExecContext(ctx, `DELETE FROM reminders WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("failed to delete reminder: %w", err)
	}

	n, _ := result.RowsAffected()
	if n == 0 {
		return fmt.Errorf("%w: %s", ErrNotFound, id)
	}
	return nil
}

// GetByID returns a single reminder.
func (s *Store) GetByID(ctx context.Context, id string) (*Reminder, error) {
	row := s.db.QueryRowContext(ctx, `
		SELECT id, title, description, scheduled_time, is_active, repeat, notification_id, created_at, updated_at
		FROM reminders WHERE id = ?
	`, id)

	r, err := scanRow(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("%w: %s", ErrNotFound, id)
		}
		return nil, fmt.Errorf("failed to get reminder: %w", err)
	}
	return r, nil
}

// All returns every persisted reminder.
func (s *Store) All(ctx context.Context) ([]*Reminder, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, title, description, scheduled_time, is_active, repeat, notification_id, created_at, updated_at
		FROM reminders ORDER BY scheduled_time ASC
	`)
	if err != nil {
		return nil, fmt.Errorf("failed to list reminders: %w", err)
	}
	defer rows.Close()

	var reminders []*Reminder
	for rows.Next() {
		r, err := scanRow(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan reminder: %w", err)
		}
		reminders = append(reminders, r)
	}
	return reminders, rows.Err()
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanRow(sc rowScanner) (*Reminder, error) {
	var (
		r                     Reminder
		description, notifID  sql.NullString
		scheduled, crtd, updt int64
		active                int
		repeat                string
	)

	if err := sc.Scan(&r.ID, &r.Title, &description, &scheduled,
		&active, &repeat, &notifID, &crtd, &updt); err != nil {
		return nil, err
	}

	r.Description = description.String
	r.NotificationID = notifID.String
	r.ScheduledTime = time.UnixMilli(scheduled)
	r.IsActive = active != 0
	r.Repeat = Repeat(repeat)
	if !r.Repeat.Valid() {
		r.Repeat = RepeatNone
	}
	r.CreatedAt = time.UnixMilli(crtd)
	r.UpdatedAt = time.UnixMilli(updt)

	return &r, nil
}

func nullable(s string) any {
	if s == "" {
		return nil
	}
	return s
}

func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}
