package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/lib/pq"

	"meetapp/internal/domain"
)

// pq error codes mapped to domain outcomes.
const (
	pqUniqueViolation      = "23505"
	pqSerializationFailure = "40001"
)

// maxSubscribeAttempts bounds retries when the serializable transaction
// aborts with a serialization failure.
const maxSubscribeAttempts = 3

type subscriptionRepository struct {
	DB *sql.DB
}

func NewSubscriptionRepository(db *sql.DB) domain.SubscriptionRepository {
	return &subscriptionRepository{
		DB: db,
	}
}

// Subscribe runs the duplicate check, the schedule-collision check, and the
// insert inside one serializable transaction. A partial unique index on
// (subscriber_id, meetup_id) WHERE canceled_at IS NULL backs the duplicate
// check, so a unique violation also maps to ErrAlreadySubscribed.
func (r *subscriptionRepository) Subscribe(ctx context.Context, meetupID, subscriberID string, meetupDate, now time.Time) (*domain.Subscription, error) {
	var sub *domain.Subscription
	var err error
	for attempt := 0; attempt < maxSubscribeAttempts; attempt++ {
		sub, err = r.subscribeOnce(ctx, meetupID, subscriberID, meetupDate, now)
		if err == nil || !isSerializationFailure(err) {
			return sub, err
		}
	}
	return nil, fmt.Errorf("subscribe: retries exhausted: %w", err)
}

func (r *subscriptionRepository) subscribeOnce(ctx context.Context, meetupID, subscriberID string, meetupDate, now time.Time) (*domain.Subscription, error) {
	tx, err := r.DB.BeginTx(ctx, &sql.TxOptions{Isolation: sql.LevelSerializable})
	if err != nil {
		return nil, err
	}
	defer tx.Rollback()

	var existing string
	err = tx.QueryRowContext(ctx, `
		SELECT id FROM subscriptions
		WHERE meetup_id = $1 AND subscriber_id = $2 AND canceled_at IS NULL
	`, meetupID, subscriberID).Scan(&existing)
	if err == nil {
		return nil, domain.ErrAlreadySubscribed
	}
	if !errors.Is(err, sql.ErrNoRows) {
		return nil, err
	}

	// Collision policy is exact date-and-time equality.
	err = tx.QueryRowContext(ctx, `
		SELECT s.id FROM subscriptions s
		JOIN meetups m ON m.id = s.meetup_id
		WHERE s.subscriber_id = $1 AND s.canceled_at IS NULL AND m.date = $2
	`, subscriberID, meetupDate).Scan(&existing)
	if err == nil {
		return nil, domain.ErrScheduleConflict
	}
	if !errors.Is(err, sql.ErrNoRows) {
		return nil, err
	}

	sub := &domain.Subscription{
		MeetupID:     meetupID,
		SubscriberID: subscriberID,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	err = tx.QueryRowContext(ctx, `
		INSERT INTO subscriptions (meetup_id, subscriber_id, created_at, updated_at)
		VALUES ($1, $2, $3, $4)
		RETURNING id
	`, meetupID, subscriberID, now, now).Scan(&sub.ID)
	if err != nil {
		if isUniqueViolation(err) {
			return nil, domain.ErrAlreadySubscribed
		}
		return nil, err
	}

	if err := tx.Commit(); err != nil {
		return nil, err
	}
	return sub, nil
}

func isUniqueViolation(err error) bool {
	var pqErr *pq.Error
	return errors.As(err, &pqErr) && string(pqErr.Code) == pqUniqueViolation
}

func isSerializationFailure(err error) bool {
	var pqErr *pq.Error
	return errors.As(err, &pqErr) && string(pqErr.Code) == pqSerializationFailure
}

// Cancel is a single conditional update: only the owning subscriber can
// cancel, and only once. Zero affected rows means absent, foreign, or
// already canceled; the caller cannot tell which.
func (r *subscriptionRepository) Cancel(ctx context.Context, id, subscriberID string, now time.Time) error {
	query := `
		UPDATE subscriptions
		SET canceled_at = $1, updated_at = $1
		WHERE id = $2 AND subscriber_id = $3 AND canceled_at IS NULL
	`
	result, err := r.DB.ExecContext(ctx, query, now, id, subscriberID)
	if err != nil {
		return err
	}
	rows, _ := result.RowsAffected()
	if rows == 0 {
		return domain.ErrSubscriptionNotFound
	}
	return nil
}

func (r *subscriptionRepository) GetDetail(ctx context.Context, id string) (*domain.SubscriptionDetail, error) {
	query := `
		SELECT s.id, s.meetup_id, s.subscriber_id, s.canceled_at, s.created_at, s.updated_at,
			m.id, m.title, m.description, m.location, m.date, m.organizer_id, m.banner_id, m.created_at, m.updated_at,
			org.id, org.name, org.email,
			sub.id, sub.name, sub.email
		FROM subscriptions s
		JOIN meetups m ON m.id = s.meetup_id
		JOIN users org ON org.id = m.organizer_id
		JOIN users sub ON sub.id = s.subscriber_id
		WHERE s.id = $1
	`
	subscription := &domain.Subscription{}
	meetup := &domain.Meetup{}
	organizer := &domain.UserProfile{}
	subscriber := &domain.UserProfile{}
	var canceledAt sql.NullTime
	var bannerID sql.NullString
	err := r.DB.QueryRowContext(ctx, query, id).Scan(
		&subscription.ID, &subscription.MeetupID, &subscription.SubscriberID, &canceledAt, &subscription.CreatedAt, &subscription.UpdatedAt,
		&meetup.ID, &meetup.Title, &meetup.Description, &meetup.Location, &meetup.Date, &meetup.OrganizerID, &bannerID, &meetup.CreatedAt, &meetup.UpdatedAt,
		&organizer.ID, &organizer.Name, &organizer.Email,
		&subscriber.ID, &subscriber.Name, &subscriber.Email,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}
	if canceledAt.Valid {
		subscription.CanceledAt = &canceledAt.Time
	}
	if bannerID.Valid {
		meetup.BannerID = &bannerID.String
	}
	return &domain.SubscriptionDetail{
		Subscription: subscription,
		Meetup:       meetup,
		Organizer:    organizer,
		Subscriber:   subscriber,
	}, nil
}

func (r *subscriptionRepository) ListUpcomingBySubscriber(ctx context.Context, subscriberID string, now time.Time) ([]*domain.UpcomingMeetup, error) {
	query := `
		SELECT m.id, m.title, m.description, m.location, m.date, m.organizer_id, m.banner_id, m.created_at, m.updated_at,
			s.id, s.meetup_id, s.subscriber_id, s.canceled_at, s.created_at, s.updated_at,
			f.id, f.name, f.path,
			u.id, u.name, u.email
		FROM meetups m
		JOIN subscriptions s ON s.meetup_id = m.id
		LEFT JOIN files f ON f.id = m.banner_id
		JOIN users u ON u.id = m.organizer_id
		WHERE s.subscriber_id = $1 AND s.canceled_at IS NULL AND m.date >= $2
		ORDER BY m.date ASC
	`
	rows, err := r.DB.QueryContext(ctx, query, subscriberID, now)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	upcoming := make([]*domain.UpcomingMeetup, 0)
	for rows.Next() {
		meetup := &domain.Meetup{}
		subscription := &domain.Subscription{}
		organizer := &domain.UserProfile{}
		var canceledAt sql.NullTime
		var bannerID sql.NullString
		var fileID, fileName, filePath sql.NullString
		err := rows.Scan(
			&meetup.ID, &meetup.Title, &meetup.Description, &meetup.Location, &meetup.Date, &meetup.OrganizerID, &bannerID, &meetup.CreatedAt, &meetup.UpdatedAt,
			&subscription.ID, &subscription.MeetupID, &subscription.SubscriberID, &canceledAt, &subscription.CreatedAt, &subscription.UpdatedAt,
			&fileID, &fileName, &filePath,
			&organizer.ID, &organizer.Name, &organizer.Email,
		)
		if err != nil {
			return nil, err
		}
		if canceledAt.Valid {
			subscription.CanceledAt = &canceledAt.Time
		}
		if bannerID.Valid {
			meetup.BannerID = &bannerID.String
		}
		item := &domain.UpcomingMeetup{
			Meetup:       meetup,
			Subscription: subscription,
			Organizer:    organizer,
		}
		if fileID.Valid {
			item.Banner = &domain.Banner{
				ID:   fileID.String,
				Name: fileName.String,
				Path: filePath.String,
				URL:  domain.BannerURL(filePath.String),
			}
		}
		upcoming = append(upcoming, item)
	}
	return upcoming, rows.Err()
}
