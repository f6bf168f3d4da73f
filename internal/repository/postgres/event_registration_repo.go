package postgres

import (
	"context"
	"database/sql"
	"errors"

	"eventmanager/internal/domain"
)

type eventRegistrationRepository struct {
	DB *sql.DB
}

func NewEventRegistrationRepository(db *sql.DB) domain.EventRegistrationRepository {
	return &eventRegistrationRepository{
		DB: db,
	}
}

// Create registers reg.UserID for reg.EventID.
//
// The event row is locked with SELECT ... FOR UPDATE so concurrent registrations
// for the same event run one after another: each sees the attendee count left
// by the previous one and capacity can never be exceeded. The insert still goes
// through the (event_id, user_id) unique constraint; a violation is reported as
// ErrDuplicateRegistration.
func (r *eventRegistrationRepository) Create(ctx context.Context, reg *domain.EventRegistration) (err error) {
	tx, err := r.DB.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback()
		}
	}()

	var capacity int
	err = tx.QueryRowContext(ctx, `SELECT capacity FROM events WHERE id = $1 FOR UPDATE`, reg.EventID).Scan(&capacity)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return domain.ErrNotFound
		}
		return err
	}

	var registered bool
	err = tx.QueryRowContext(ctx,
		`SELECT EXISTS (SELECT 1 FROM event_attendees WHERE event_id = $1 AND user_id = $2)`,
		reg.EventID, reg.UserID,
	).Scan(&registered)
	if err != nil {
		return err
	}
	if registered {
		return domain.ErrDuplicateRegistration
	}

	var attendees int
	err = tx.QueryRowContext(ctx, `SELECT COUNT(*) FROM event_attendees WHERE event_id = $1`, reg.EventID).Scan(&attendees)
	if err != nil {
		return err
	}
	if attendees >= capacity {
		return domain.ErrAlreadyFull
	}

	err = tx.QueryRowContext(ctx, `
		INSERT INTO event_attendees (event_id, user_id, created_at)
		VALUES ($1, $2, $3)
		RETURNING id
	`, reg.EventID, reg.UserID, reg.CreatedAt).Scan(&reg.ID)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrDuplicateRegistration
		}
		return err
	}
	return tx.Commit()
}

func (r *eventRegistrationRepository) Exists(ctx context.Context, eventID, userID string) (bool, error) {
	var exists bool
	err := r.DB.QueryRowContext(ctx,
		`SELECT EXISTS (SELECT 1 FROM event_attendees WHERE event_id = $1 AND user_id = $2)`,
		eventID, userID,
	).Scan(&exists)
	return exists, err
}

func (r *eventRegistrationRepository) ListUserIDsByEventID(ctx context.Context, eventID string) ([]string, error) {
	query := `
		SELECT user_id
		FROM event_attendees
		WHERE event_id = $1
		ORDER BY created_at ASC
	`
	rows, err := r.DB.QueryContext(ctx, query, eventID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	ids := make([]string, 0)
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, err
		}
		ids = append(ids, id)
	}
	return ids, rows.Err()
}

func (r *eventRegistrationRepository) ListByUserID(ctx context.Context, userID string) ([]*domain.EventRegistration, error) {
	query := `
		SELECT id, event_id, user_id, created_at
		FROM event_attendees
		WHERE user_id = $1
		ORDER BY created_at DESC
	`
	rows, err := r.DB.QueryContext(ctx, query, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var regs []*domain.EventRegistration
	for rows.Next() {
		reg := &domain.EventRegistration{}
		if err := rows.Scan(&reg.ID, &reg.EventID, &reg.UserID, &reg.CreatedAt); err != nil {
			return nil, err
		}
		regs = append(regs, reg)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	if regs == nil {
		regs = []*domain.EventRegistration{}
	}
	return regs, nil
}
