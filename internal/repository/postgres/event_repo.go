package postgres

import (
	"context"
	"database/sql"
	"errors"

	"eventmanager/internal/domain"
)

// eventColumns selects an event row together with the size of its attendee set.
const eventColumns = `e.id, e.name, e.description, e.date, e.venue, e.organizer_id, e.capacity,
		(SELECT COUNT(*) FROM event_attendees a WHERE a.event_id = e.id) AS attendee_count,
		e.created_at, e.updated_at`

// eventOrder lists events by date. seq is assigned from a sequence on insert,
// so events on the same day keep insertion order regardless of created_at.
const eventOrder = `ORDER BY e.date ASC, e.seq ASC`

type eventRepository struct {
	DB *sql.DB
}

func NewEventRepository(db *sql.DB) domain.EventRepository {
	return &eventRepository{
		DB: db,
	}
}

func (r *eventRepository) Create(ctx context.Context, e *domain.Event) error {
	query := `
		INSERT INTO events (name, description, date, venue, organizer_id, capacity, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		RETURNING id
	`
	return r.DB.QueryRowContext(ctx, query,
		e.Name, e.Description, e.Date, e.Venue, e.OrganizerID, e.Capacity, e.CreatedAt, e.UpdatedAt,
	).Scan(&e.ID)
}

func (r *eventRepository) GetByID(ctx context.Context, id string) (*domain.Event, error) {
	query := `SELECT ` + eventColumns + `
		FROM events e
		WHERE e.id = $1
	`
	e, err := scanEvent(r.DB.QueryRowContext(ctx, query, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}
	return e, nil
}

func (r *eventRepository) List(ctx context.Context, params domain.PaginationParams) ([]*domain.Event, error) {
	query := `SELECT ` + eventColumns + `
		FROM events e
		` + eventOrder
	var args []any
	if limit := params.Limit(); limit > 0 {
		query += ` LIMIT $1 OFFSET $2`
		args = append(args, limit, params.Offset())
	}
	return r.queryEvents(ctx, query, args...)
}

func (r *eventRepository) Count(ctx context.Context) (int, error) {
	var n int
	err := r.DB.QueryRowContext(ctx, `SELECT COUNT(*) FROM events`).Scan(&n)
	return n, err
}

func (r *eventRepository) ListByOrganizerID(ctx context.Context, organizerID string) ([]*domain.Event, error) {
	query := `SELECT ` + eventColumns + `
		FROM events e
		WHERE e.organizer_id = $1
		` + eventOrder
	return r.queryEvents(ctx, query, organizerID)
}

func (r *eventRepository) Update(ctx context.Context, eventID string, in domain.EventInput) (*domain.Event, error) {
	// The attendee-count guard keeps |attendees| <= capacity when capacity shrinks.
	query := `
		UPDATE events AS e
		SET name = $1, description = $2, date = $3, venue = $4, capacity = $5, updated_at = NOW()
		WHERE e.id = $6
		  AND (SELECT COUNT(*) FROM event_attendees a WHERE a.event_id = e.id) <= $5
		RETURNING ` + eventColumns
	e, err := scanEvent(r.DB.QueryRowContext(ctx, query,
		in.Name, in.Description, in.Date, in.Venue, in.Capacity, eventID,
	))
	if err == nil {
		return e, nil
	}
	if !errors.Is(err, sql.ErrNoRows) {
		return nil, err
	}

	var exists bool
	if err := r.DB.QueryRowContext(ctx, `SELECT EXISTS (SELECT 1 FROM events WHERE id = $1)`, eventID).Scan(&exists); err != nil {
		return nil, err
	}
	if !exists {
		return nil, domain.ErrNotFound
	}
	return nil, domain.ErrCapacityBelowAttendees
}

// Delete removes the attendance rows and then the event in one transaction.
func (r *eventRepository) Delete(ctx context.Context, id string) (err error) {
	tx, err := r.DB.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback()
		}
	}()

	if _, err = tx.ExecContext(ctx, `DELETE FROM event_attendees WHERE event_id = $1`, id); err != nil {
		return err
	}
	result, err := tx.ExecContext(ctx, `DELETE FROM events WHERE id = $1`, id)
	if err != nil {
		return err
	}
	rows, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if rows == 0 {
		return domain.ErrNotFound
	}
	return tx.Commit()
}

func (r *eventRepository) queryEvents(ctx context.Context, query string, args ...any) ([]*domain.Event, error) {
	rows, err := r.DB.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	events := make([]*domain.Event, 0)
	for rows.Next() {
		e, err := scanEvent(rows)
		if err != nil {
			return nil, err
		}
		events = append(events, e)
	}
	return events, rows.Err()
}

func scanEvent(s rowScanner) (*domain.Event, error) {
	e := &domain.Event{}
	err := s.Scan(
		&e.ID, &e.Name, &e.Description, &e.Date, &e.Venue, &e.OrganizerID, &e.Capacity,
		&e.AttendeeCount, &e.CreatedAt, &e.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return e, nil
}
