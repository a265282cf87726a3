package postgres

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"meetapp/internal/domain"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/require"
)

var meetupColumns = []string{"id", "title", "description", "location", "date", "organizer_id", "banner_id", "created_at", "updated_at"}

var meetupDetailTestColumns = []string{
	"id", "title", "description", "location", "date", "organizer_id", "banner_id", "created_at", "updated_at",
	"f_id", "f_name", "f_path",
	"u_id", "u_name", "u_email",
}

func TestMeetupRepository_Create(t *testing.T) {
	ctx := context.Background()
	date := time.Date(2025, 9, 12, 18, 0, 0, 0, time.UTC)
	now := time.Date(2025, 9, 1, 12, 0, 0, 0, time.UTC)
	bannerID := "banner-1"

	tests := []struct {
		name    string
		meetup  *domain.Meetup
		mock    func(mock sqlmock.Sqlmock)
		wantID  string
		wantErr bool
	}{
		{
			name: "success",
			meetup: &domain.Meetup{
				Title:       "Go Meetup",
				Description: "Talks",
				Location:    "Downtown",
				Date:        date,
				OrganizerID: "user-1",
				BannerID:    &bannerID,
				CreatedAt:   now,
				UpdatedAt:   now,
			},
			mock: func(mock sqlmock.Sqlmock) {
				mock.ExpectQuery(`INSERT INTO meetups \(title, description, location, date, organizer_id, banner_id, created_at, updated_at\)`).
					WithArgs("Go Meetup", "Talks", "Downtown", date, "user-1", &bannerID, now, now).
					WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow("meetup-uuid-1"))
			},
			wantID: "meetup-uuid-1",
		},
		{
			name: "db error",
			meetup: &domain.Meetup{
				Title:       "Go Meetup",
				OrganizerID: "user-1",
				Date:        date,
			},
			mock: func(mock sqlmock.Sqlmock) {
				mock.ExpectQuery(`INSERT INTO meetups`).
					WillReturnError(sql.ErrConnDone)
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
			repo := NewMeetupRepository(db)
			err = repo.Create(ctx, tt.meetup)
			if tt.wantErr {
				require.Error(t, err)
				return
			}
			require.NoError(t, err)
			require.Equal(t, tt.wantID, tt.meetup.ID)
			require.NoError(t, mock.ExpectationsWereMet())
		})
	}
}

func TestMeetupRepository_GetByID(t *testing.T) {
	ctx := context.Background()
	date := time.Date(2025, 9, 12, 18, 0, 0, 0, time.UTC)
	created := time.Date(2025, 9, 1, 12, 0, 0, 0, time.UTC)

	t.Run("success", func(t *testing.T) {
		db, mock, err := sqlmock.New()
		require.NoError(t, err)
		defer db.Close()

		mock.ExpectQuery(`SELECT id, title, description, location, date, organizer_id, banner_id, created_at, updated_at`).
			WithArgs("meetup-1").
			WillReturnRows(sqlmock.NewRows(meetupColumns).
				AddRow("meetup-1", "Go Meetup", "Talks", "Downtown", date, "user-1", nil, created, created))

		repo := NewMeetupRepository(db)
		m, err := repo.GetByID(ctx, "meetup-1")
		require.NoError(t, err)
		require.Equal(t, "meetup-1", m.ID)
		require.Equal(t, "user-1", m.OrganizerID)
		require.Nil(t, m.BannerID)
		require.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("not found", func(t *testing.T) {
		db, mock, err := sqlmock.New()
		require.NoError(t, err)
		defer db.Close()

		mock.ExpectQuery(`SELECT id, title, description, location, date, organizer_id, banner_id, created_at, updated_at`).
			WithArgs("meetup-99").
			WillReturnError(sql.ErrNoRows)

		repo := NewMeetupRepository(db)
		_, err = repo.GetByID(ctx, "meetup-99")
		require.ErrorIs(t, err, domain.ErrNotFound)
	})
}

func TestMeetupRepository_GetByIDForOrganizer(t *testing.T) {
	ctx := context.Background()
	date := time.Date(2025, 9, 12, 18, 0, 0, 0, time.UTC)
	created := time.Date(2025, 9, 1, 12, 0, 0, 0, time.UTC)

	t.Run("scoped to the organizer", func(t *testing.T) {
		db, mock, err := sqlmock.New()
		require.NoError(t, err)
		defer db.Close()

		mock.ExpectQuery(`WHERE id = \$1 AND organizer_id = \$2`).
			WithArgs("meetup-1", "user-1").
			WillReturnRows(sqlmock.NewRows(meetupColumns).
				AddRow("meetup-1", "Go Meetup", "Talks", "Downtown", date, "user-1", nil, created, created))

		repo := NewMeetupRepository(db)
		m, err := repo.GetByIDForOrganizer(ctx, "meetup-1", "user-1")
		require.NoError(t, err)
		require.Equal(t, "meetup-1", m.ID)
		require.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("foreign meetup reads as not found", func(t *testing.T) {
		db, mock, err := sqlmock.New()
		require.NoError(t, err)
		defer db.Close()

		mock.ExpectQuery(`WHERE id = \$1 AND organizer_id = \$2`).
			WithArgs("meetup-1", "user-2").
			WillReturnError(sql.ErrNoRows)

		repo := NewMeetupRepository(db)
		_, err = repo.GetByIDForOrganizer(ctx, "meetup-1", "user-2")
		require.ErrorIs(t, err, domain.ErrNotFound)
	})
}

func TestMeetupRepository_GetDetail(t *testing.T) {
	ctx := context.Background()
	date := time.Date(2025, 9, 12, 18, 0, 0, 0, time.UTC)
	created := time.Date(2025, 9, 1, 12, 0, 0, 0, time.UTC)

	t.Run("with banner", func(t *testing.T) {
		db, mock, err := sqlmock.New()
		require.NoError(t, err)
		defer db.Close()

		mock.ExpectQuery(`LEFT JOIN files f ON f.id = m.banner_id`).
			WithArgs("meetup-1").
			WillReturnRows(sqlmock.NewRows(meetupDetailTestColumns).
				AddRow("meetup-1", "Go Meetup", "Talks", "Downtown", date, "user-1", "banner-1", created, created,
					"banner-1", "banner.png", "stored.png",
					"user-1", "Ada", "ada@example.com"))

		repo := NewMeetupRepository(db)
		detail, err := repo.GetDetail(ctx, "meetup-1")
		require.NoError(t, err)
		require.Equal(t, "meetup-1", detail.Meetup.ID)
		require.NotNil(t, detail.Banner)
		require.Equal(t, "/files/stored.png", detail.Banner.URL)
		require.Equal(t, "Ada", detail.Organizer.Name)
		require.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("without banner", func(t *testing.T) {
		db, mock, err := sqlmock.New()
		require.NoError(t, err)
		defer db.Close()

		mock.ExpectQuery(`LEFT JOIN files f ON f.id = m.banner_id`).
			WithArgs("meetup-1").
			WillReturnRows(sqlmock.NewRows(meetupDetailTestColumns).
				AddRow("meetup-1", "Go Meetup", "Talks", "Downtown", date, "user-1", nil, created, created,
					nil, nil, nil,
					"user-1", "Ada", "ada@example.com"))

		repo := NewMeetupRepository(db)
		detail, err := repo.GetDetail(ctx, "meetup-1")
		require.NoError(t, err)
		require.Nil(t, detail.Banner)
	})

	t.Run("not found", func(t *testing.T) {
		db, mock, err := sqlmock.New()
		require.NoError(t, err)
		defer db.Close()

		mock.ExpectQuery(`LEFT JOIN files f ON f.id = m.banner_id`).
			WithArgs("meetup-99").
			WillReturnError(sql.ErrNoRows)

		repo := NewMeetupRepository(db)
		_, err = repo.GetDetail(ctx, "meetup-99")
		require.ErrorIs(t, err, domain.ErrNotFound)
	})
}

func TestMeetupRepository_Update(t *testing.T) {
	ctx := context.Background()
	date := time.Date(2025, 9, 12, 18, 0, 0, 0, time.UTC)
	created := time.Date(2025, 9, 1, 12, 0, 0, 0, time.UTC)
	title := "Renamed"

	t.Run("updates only the patched fields", func(t *testing.T) {
		db, mock, err := sqlmock.New()
		require.NoError(t, err)
		defer db.Close()

		mock.ExpectQuery(`UPDATE meetups SET updated_at = NOW\(\), title = \$1`).
			WithArgs("Renamed", "meetup-1").
			WillReturnRows(sqlmock.NewRows(meetupColumns).
				AddRow("meetup-1", "Renamed", "Talks", "Downtown", date, "user-1", nil, created, created))

		repo := NewMeetupRepository(db)
		m, err := repo.Update(ctx, "meetup-1", &domain.MeetupPatch{Title: &title})
		require.NoError(t, err)
		require.Equal(t, "Renamed", m.Title)
		require.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("empty patch falls back to a read", func(t *testing.T) {
		db, mock, err := sqlmock.New()
		require.NoError(t, err)
		defer db.Close()

		mock.ExpectQuery(`SELECT id, title, description, location, date, organizer_id, banner_id, created_at, updated_at`).
			WithArgs("meetup-1").
			WillReturnRows(sqlmock.NewRows(meetupColumns).
				AddRow("meetup-1", "Go Meetup", "Talks", "Downtown", date, "user-1", nil, created, created))

		repo := NewMeetupRepository(db)
		m, err := repo.Update(ctx, "meetup-1", &domain.MeetupPatch{})
		require.NoError(t, err)
		require.Equal(t, "Go Meetup", m.Title)
		require.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("not found", func(t *testing.T) {
		db, mock, err := sqlmock.New()
		require.NoError(t, err)
		defer db.Close()

		mock.ExpectQuery(`UPDATE meetups SET`).
			WillReturnError(sql.ErrNoRows)

		repo := NewMeetupRepository(db)
		_, err = repo.Update(ctx, "meetup-99", &domain.MeetupPatch{Title: &title})
		require.ErrorIs(t, err, domain.ErrNotFound)
	})
}

func TestMeetupRepository_Delete(t *testing.T) {
	ctx := context.Background()

	t.Run("success", func(t *testing.T) {
		db, mock, err := sqlmock.New()
		require.NoError(t, err)
		defer db.Close()

		mock.ExpectExec(`DELETE FROM meetups WHERE id = \$1`).
			WithArgs("meetup-1").
			WillReturnResult(sqlmock.NewResult(0, 1))

		repo := NewMeetupRepository(db)
		require.NoError(t, repo.Delete(ctx, "meetup-1"))
		require.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("no rows deleted", func(t *testing.T) {
		db, mock, err := sqlmock.New()
		require.NoError(t, err)
		defer db.Close()

		mock.ExpectExec(`DELETE FROM meetups WHERE id = \$1`).
			WithArgs("meetup-99").
			WillReturnResult(sqlmock.NewResult(0, 0))

		repo := NewMeetupRepository(db)
		err = repo.Delete(ctx, "meetup-99")
		require.ErrorIs(t, err, domain.ErrNotFound)
	})
}

func TestMeetupRepository_ListByDateWindow(t *testing.T) {
	ctx := context.Background()
	from := time.Date(2025, 9, 12, 0, 0, 0, 0, time.UTC)
	to := from.Add(24 * time.Hour)
	created := time.Date(2025, 9, 1, 12, 0, 0, 0, time.UTC)

	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	mock.ExpectQuery(`WHERE m.date >= \$1 AND m.date < \$2`).
		WithArgs(from, to, 10, 0).
		WillReturnRows(sqlmock.NewRows(meetupDetailTestColumns).
			AddRow("meetup-1", "Morning", "Talks", "Downtown", from.Add(9*time.Hour), "user-1", nil, created, created,
				nil, nil, nil,
				"user-1", "Ada", "ada@example.com").
			AddRow("meetup-2", "Evening", "Talks", "Uptown", from.Add(19*time.Hour), "user-2", nil, created, created,
				nil, nil, nil,
				"user-2", "Grace", "grace@example.com"))

	repo := NewMeetupRepository(db)
	got, err := repo.ListByDateWindow(ctx, from, to, domain.PaginationParams{Page: 1, PageSize: 10})
	require.NoError(t, err)
	require.Len(t, got, 2)
	require.Equal(t, "Morning", got[0].Meetup.Title)
	require.Equal(t, "Evening", got[1].Meetup.Title)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestMeetupRepository_ListByOrganizer(t *testing.T) {
	ctx := context.Background()
	created := time.Date(2025, 9, 1, 12, 0, 0, 0, time.UTC)
	date := time.Date(2025, 9, 12, 18, 0, 0, 0, time.UTC)

	t.Run("success", func(t *testing.T) {
		db, mock, err := sqlmock.New()
		require.NoError(t, err)
		defer db.Close()

		mock.ExpectQuery(`WHERE m.organizer_id = \$1`).
			WithArgs("user-1").
			WillReturnRows(sqlmock.NewRows(meetupDetailTestColumns).
				AddRow("meetup-1", "Go Meetup", "Talks", "Downtown", date, "user-1", nil, created, created,
					nil, nil, nil,
					"user-1", "Ada", "ada@example.com"))

		repo := NewMeetupRepository(db)
		got, err := repo.ListByOrganizer(ctx, "user-1")
		require.NoError(t, err)
		require.Len(t, got, 1)
		require.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("empty result", func(t *testing.T) {
		db, mock, err := sqlmock.New()
		require.NoError(t, err)
		defer db.Close()

		mock.ExpectQuery(`WHERE m.organizer_id = \$1`).
			WithArgs("user-3").
			WillReturnRows(sqlmock.NewRows(meetupDetailTestColumns))

		repo := NewMeetupRepository(db)
		got, err := repo.ListByOrganizer(ctx, "user-3")
		require.NoError(t, err)
		require.NotNil(t, got)
		require.Empty(t, got)
	})
}
