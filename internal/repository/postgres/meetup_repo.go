package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"meetapp/internal/domain"
)

type meetupRepository struct {
	DB *sql.DB
}

func NewMeetupRepository(db *sql.DB) domain.MeetupRepository {
	return &meetupRepository{
		DB: db,
	}
}

// meetupDetailColumns are the joined columns shared by every detail query:
// the meetup row, its optional banner, and the organizer projection.
const meetupDetailColumns = `
	m.id, m.title, m.description, m.location, m.date, m.organizer_id, m.banner_id, m.created_at, m.updated_at,
	f.id, f.name, f.path,
	u.id, u.name, u.email
`

const meetupDetailJoins = `
	FROM meetups m
	LEFT JOIN files f ON f.id = m.banner_id
	JOIN users u ON u.id = m.organizer_id
`

func (r *meetupRepository) Create(ctx context.Context, m *domain.Meetup) error {
	query := `
		INSERT INTO meetups (title, description, location, date, organizer_id, banner_id, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		RETURNING id
	`
	return r.DB.QueryRowContext(ctx, query,
		m.Title, m.Description, m.Location, m.Date, m.OrganizerID, m.BannerID, m.CreatedAt, m.UpdatedAt,
	).Scan(&m.ID)
}

func (r *meetupRepository) GetByID(ctx context.Context, id string) (*domain.Meetup, error) {
	query := `
		SELECT id, title, description, location, date, organizer_id, banner_id, created_at, updated_at
		FROM meetups
		WHERE id = $1
	`
	return r.scanMeetup(r.DB.QueryRowContext(ctx, query, id))
}

func (r *meetupRepository) GetByIDForOrganizer(ctx context.Context, id, organizerID string) (*domain.Meetup, error) {
	query := `
		SELECT id, title, description, location, date, organizer_id, banner_id, created_at, updated_at
		FROM meetups
		WHERE id = $1 AND organizer_id = $2
	`
	return r.scanMeetup(r.DB.QueryRowContext(ctx, query, id, organizerID))
}

func (r *meetupRepository) scanMeetup(row *sql.Row) (*domain.Meetup, error) {
	m := &domain.Meetup{}
	var bannerID sql.NullString
	err := row.Scan(&m.ID, &m.Title, &m.Description, &m.Location, &m.Date, &m.OrganizerID, &bannerID, &m.CreatedAt, &m.UpdatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}
	if bannerID.Valid {
		m.BannerID = &bannerID.String
	}
	return m, nil
}

func (r *meetupRepository) GetDetail(ctx context.Context, id string) (*domain.MeetupDetail, error) {
	query := `SELECT ` + meetupDetailColumns + meetupDetailJoins + `WHERE m.id = $1`
	detail, err := scanMeetupDetail(r.DB.QueryRowContext(ctx, query, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}
	return detail, nil
}

// rowScanner is satisfied by both *sql.Row and *sql.Rows.
type rowScanner interface {
	Scan(dest ...any) error
}

func scanMeetupDetail(row rowScanner) (*domain.MeetupDetail, error) {
	m := &domain.Meetup{}
	org := &domain.UserProfile{}
	var bannerID sql.NullString
	var fileID, fileName, filePath sql.NullString
	err := row.Scan(
		&m.ID, &m.Title, &m.Description, &m.Location, &m.Date, &m.OrganizerID, &bannerID, &m.CreatedAt, &m.UpdatedAt,
		&fileID, &fileName, &filePath,
		&org.ID, &org.Name, &org.Email,
	)
	if err != nil {
		return nil, err
	}
	if bannerID.Valid {
		m.BannerID = &bannerID.String
	}
	detail := &domain.MeetupDetail{Meetup: m, Organizer: org}
	if fileID.Valid {
		detail.Banner = &domain.Banner{
			ID:   fileID.String,
			Name: fileName.String,
			Path: filePath.String,
			URL:  domain.BannerURL(filePath.String),
		}
	}
	return detail, nil
}

func (r *meetupRepository) Update(ctx context.Context, id string, patch *domain.MeetupPatch) (*domain.Meetup, error) {
	setClauses := []string{"updated_at = NOW()"}
	args := []interface{}{}
	n := 1
	if patch.Title != nil {
		setClauses = append(setClauses, fmt.Sprintf("title = $%d", n))
		args = append(args, *patch.Title)
		n++
	}
	if patch.Description != nil {
		setClauses = append(setClauses, fmt.Sprintf("description = $%d", n))
		args = append(args, *patch.Description)
		n++
	}
	if patch.Location != nil {
		setClauses = append(setClauses, fmt.Sprintf("location = $%d", n))
		args = append(args, *patch.Location)
		n++
	}
	if patch.Date != nil {
		setClauses = append(setClauses, fmt.Sprintf("date = $%d", n))
		args = append(args, *patch.Date)
		n++
	}
	if patch.BannerID != nil {
		setClauses = append(setClauses, fmt.Sprintf("banner_id = $%d", n))
		args = append(args, *patch.BannerID)
		n++
	}
	if n == 1 {
		// No fields to update; just fetch current row
		return r.GetByID(ctx, id)
	}
	args = append(args, id)
	query := fmt.Sprintf(`
		UPDATE meetups SET %s
		WHERE id = $%d
		RETURNING id, title, description, location, date, organizer_id, banner_id, created_at, updated_at
	`, strings.Join(setClauses, ", "), n)
	return r.scanMeetup(r.DB.QueryRowContext(ctx, query, args...))
}

func (r *meetupRepository) Delete(ctx context.Context, id string) error {
	query := `DELETE FROM meetups WHERE id = $1`
	result, err := r.DB.ExecContext(ctx, query, id)
	if err != nil {
		return err
	}
	rows, _ := result.RowsAffected()
	if rows == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func (r *meetupRepository) ListByOrganizer(ctx context.Context, organizerID string) ([]*domain.MeetupDetail, error) {
	query := `SELECT ` + meetupDetailColumns + meetupDetailJoins + `
		WHERE m.organizer_id = $1
		ORDER BY m.date ASC
	`
	return r.queryDetails(ctx, query, organizerID)
}

func (r *meetupRepository) ListByDateWindow(ctx context.Context, from, to time.Time, params domain.PaginationParams) ([]*domain.MeetupDetail, error) {
	query := `SELECT ` + meetupDetailColumns + meetupDetailJoins + `
		WHERE m.date >= $1 AND m.date < $2
		ORDER BY m.date ASC
		LIMIT $3 OFFSET $4
	`
	return r.queryDetails(ctx, query, from, to, params.Limit(), params.Offset())
}

func (r *meetupRepository) queryDetails(ctx context.Context, query string, args ...any) ([]*domain.MeetupDetail, error) {
	rows, err := r.DB.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	details := make([]*domain.MeetupDetail, 0)
	for rows.Next() {
		detail, err := scanMeetupDetail(rows)
		if err != nil {
			return nil, err
		}
		details = append(details, detail)
	}
	return details, rows.Err()
}
