package postgres

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"eventmanager/internal/domain"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/lib/pq"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEventRegistrationRepository_Create(t *testing.T) {
	ctx := context.Background()
	createdAt := time.Date(2026, 10, 19, 9, 0, 0, 0, time.UTC)

	lockEvent := func(mock sqlmock.Sqlmock, capacity int) {
		mock.ExpectBegin()
		mock.ExpectQuery(`SELECT capacity FROM events WHERE id = \$1 FOR UPDATE`).
			WithArgs("ev-1").
			WillReturnRows(sqlmock.NewRows([]string{"capacity"}).AddRow(capacity))
	}
	alreadyRegistered := func(mock sqlmock.Sqlmock, registered bool) {
		mock.ExpectQuery(`SELECT EXISTS \(SELECT 1 FROM event_attendees WHERE event_id = \$1 AND user_id = \$2\)`).
			WithArgs("ev-1", "user-1").
			WillReturnRows(sqlmock.NewRows([]string{"exists"}).AddRow(registered))
	}
	attendeeCount := func(mock sqlmock.Sqlmock, n int) {
		mock.ExpectQuery(`SELECT COUNT\(\*\) FROM event_attendees WHERE event_id = \$1`).
			WithArgs("ev-1").
			WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(n))
	}

	tests := []struct {
		name    string
		mock    func(mock sqlmock.Sqlmock)
		wantID  string
		errIs   error
		wantErr bool
	}{
		{
			name: "success",
			mock: func(mock sqlmock.Sqlmock) {
				lockEvent(mock, 2)
				alreadyRegistered(mock, false)
				attendeeCount(mock, 1)
				mock.ExpectQuery(`INSERT INTO event_attendees \(event_id, user_id, created_at\)`).
					WithArgs("ev-1", "user-1", createdAt).
					WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow("reg-1"))
				mock.ExpectCommit()
			},
			wantID: "reg-1",
		},
		{
			name: "event not found",
			mock: func(mock sqlmock.Sqlmock) {
				mock.ExpectBegin()
				mock.ExpectQuery(`SELECT capacity FROM events`).WithArgs("ev-1").WillReturnError(sql.ErrNoRows)
				mock.ExpectRollback()
			},
			wantErr: true,
			errIs:   domain.ErrNotFound,
		},
		{
			name: "already registered",
			mock: func(mock sqlmock.Sqlmock) {
				lockEvent(mock, 1)
				alreadyRegistered(mock, true)
				mock.ExpectRollback()
			},
			wantErr: true,
			errIs:   domain.ErrDuplicateRegistration,
		},
		{
			name: "capacity reached",
			mock: func(mock sqlmock.Sqlmock) {
				lockEvent(mock, 1)
				alreadyRegistered(mock, false)
				attendeeCount(mock, 1)
				mock.ExpectRollback()
			},
			wantErr: true,
			errIs:   domain.ErrAlreadyFull,
		},
		{
			name: "unique violation on insert",
			mock: func(mock sqlmock.Sqlmock) {
				lockEvent(mock, 5)
				alreadyRegistered(mock, false)
				attendeeCount(mock, 0)
				mock.ExpectQuery(`INSERT INTO event_attendees`).
					WillReturnError(&pq.Error{Code: "23505"})
				mock.ExpectRollback()
			},
			wantErr: true,
			errIs:   domain.ErrDuplicateRegistration,
		},
		{
			name: "begin error",
			mock: func(mock sqlmock.Sqlmock) {
				mock.ExpectBegin().WillReturnError(sql.ErrConnDone)
			},
			wantErr: true,
		},
		{
			name: "commit error",
			mock: func(mock sqlmock.Sqlmock) {
				lockEvent(mock, 2)
				alreadyRegistered(mock, false)
				attendeeCount(mock, 0)
				mock.ExpectQuery(`INSERT INTO event_attendees`).
					WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow("reg-1"))
				mock.ExpectCommit().WillReturnError(sql.ErrConnDone)
			},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			db, mock, err := sqlmock.New()
			require.NoError(t, err)
			defer db.Close()

			tt.mock(mock)
			repo := NewEventRegistrationRepository(db)
			reg := domain.NewEventRegistration("ev-1", "user-1", createdAt)
			err = repo.Create(ctx, reg)
			if tt.wantErr {
				require.Error(t, err)
				if tt.errIs != nil {
					require.ErrorIs(t, err, tt.errIs)
				}
			} else {
				require.NoError(t, err)
				assert.Equal(t, tt.wantID, reg.ID)
			}
			require.NoError(t, mock.ExpectationsWereMet())
		})
	}
}

func TestEventRegistrationRepository_Exists(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	mock.ExpectQuery(`SELECT EXISTS`).
		WithArgs("ev-1", "user-1").
		WillReturnRows(sqlmock.NewRows([]string{"exists"}).AddRow(true))

	ok, err := NewEventRegistrationRepository(db).Exists(context.Background(), "ev-1", "user-1")
	require.NoError(t, err)
	assert.True(t, ok)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestEventRegistrationRepository_ListUserIDsByEventID(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	mock.ExpectQuery(`SELECT user_id\s+FROM event_attendees\s+WHERE event_id = \$1`).
		WithArgs("ev-1").
		WillReturnRows(sqlmock.NewRows([]string{"user_id"}).AddRow("user-1").AddRow("user-2"))

	ids, err := NewEventRegistrationRepository(db).ListUserIDsByEventID(context.Background(), "ev-1")
	require.NoError(t, err)
	assert.Equal(t, []string{"user-1", "user-2"}, ids)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestEventRegistrationRepository_ListByUserID(t *testing.T) {
	ctx := context.Background()
	createdAt := time.Date(2026, 10, 19, 9, 0, 0, 0, time.UTC)

	t.Run("returns registrations", func(t *testing.T) {
		db, mock, err := sqlmock.New()
		require.NoError(t, err)
		defer db.Close()

		mock.ExpectQuery(`SELECT id, event_id, user_id, created_at\s+FROM event_attendees\s+WHERE user_id = \$1`).
			WithArgs("user-1").
			WillReturnRows(sqlmock.NewRows([]string{"id", "event_id", "user_id", "created_at"}).
				AddRow("reg-1", "ev-1", "user-1", createdAt))

		regs, err := NewEventRegistrationRepository(db).ListByUserID(ctx, "user-1")
		require.NoError(t, err)
		require.Len(t, regs, 1)
		assert.Equal(t, &domain.EventRegistration{ID: "reg-1", EventID: "ev-1", UserID: "user-1", CreatedAt: createdAt}, regs[0])
		require.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("none returns empty slice", func(t *testing.T) {
		db, mock, err := sqlmock.New()
		require.NoError(t, err)
		defer db.Close()

		mock.ExpectQuery(`FROM event_attendees`).
			WithArgs("user-2").
			WillReturnRows(sqlmock.NewRows([]string{"id", "event_id", "user_id", "created_at"}))

		regs, err := NewEventRegistrationRepository(db).ListByUserID(ctx, "user-2")
		require.NoError(t, err)
		assert.NotNil(t, regs)
		assert.Empty(t, regs)
	})
}
