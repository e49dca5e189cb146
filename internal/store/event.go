package store

import (
	"database/sql"
	"errors"
	"time"
)

// ErrNotFound is returned when a requested resource does not exist.
var ErrNotFound = errors.New("not found")

// TriggerEvent represents a fired trigger stored in the database.
// FrameTS is the capture-relative frame timestamp in seconds; CreatedAt
// is the wall-clock insertion time.
type TriggerEvent struct {
	ID        string
	Kind      string
	FrameTS   float64
	CreatedAt time.Time
}

// EventRepository provides storage operations for trigger events.
type EventRepository struct {
	db *sql.DB
}

// Events returns the trigger event repository for this store.
func (s *Store) Events() *EventRepository {
	return &EventRepository{db: s.db}
}

// Create inserts a new trigger event into the database.
func (r *EventRepository) Create(e *TriggerEvent) error {
	e.CreatedAt = time.Now()

	_, err := r.db.Exec(
		`INSERT INTO trigger_events (id, kind, frame_ts, created_at)
		 VALUES (?, ?, ?, ?)`,
		e.ID, e.Kind, e.FrameTS, e.CreatedAt,
	)
	return err
}

// GetByID retrieves a trigger event by its ID.
func (r *EventRepository) GetByID(id string) (*TriggerEvent, error) {
	e := &TriggerEvent{}

	err := r.db.QueryRow(
		`SELECT id, kind, frame_ts, created_at
		 FROM trigger_events WHERE id = ?`,
		id,
	).Scan(&e.ID, &e.Kind, &e.FrameTS, &e.CreatedAt)

	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}

	return e, nil
}

// ListRecent retrieves the most recent trigger events, newest first,
// up to the given limit.
func (r *EventRepository) ListRecent(limit int) ([]*TriggerEvent, error) {
	rows, err := r.db.Query(
		`SELECT id, kind, frame_ts, created_at
		 FROM trigger_events ORDER BY created_at DESC, frame_ts DESC LIMIT ?`,
		limit,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var events []*TriggerEvent
	for rows.Next() {
		e := &TriggerEvent{}
		if err := rows.Scan(&e.ID, &e.Kind, &e.FrameTS, &e.CreatedAt); err != nil {
			return nil, err
		}
		events = append(events, e)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return events, nil
}

// CountByKind returns the number of stored events per trigger kind.
func (r *EventRepository) CountByKind() (map[string]int, error) {
	rows, err := r.db.Query(
		`SELECT kind, COUNT(*) FROM trigger_events GROUP BY kind`,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	counts := make(map[string]int)
	for rows.Next() {
		var kind string
		var n int
		if err := rows.Scan(&kind, &n); err != nil {
			return nil, err
		}
		counts[kind] = n
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return counts, nil
}

// DeleteBefore removes all events inserted before the given wall-clock
// time and returns how many rows were deleted.
func (r *EventRepository) DeleteBefore(cutoff time.Time) (int64, error) {
	result, err := r.db.Exec(
		`DELETE FROM trigger_events WHERE created_at < ?`, cutoff,
	)
	if err != nil {
		return 0, err
	}
	return result.RowsAffected()
}
