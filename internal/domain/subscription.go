package domain

import (
	"context"
	"time"
)

// Subscription represents a user attending a meetup. It is soft-deleted:
// canceled_at null means active, and Canceled is terminal.
// swagger:model Subscription
type Subscription struct {
	ID           string     `json:"id"`
	MeetupID     string     `json:"meetup_id"`
	SubscriberID string     `json:"subscriber_id"`
	CanceledAt   *time.Time `json:"canceled_at,omitempty"`
	CreatedAt    time.Time  `json:"created_at"`
	UpdatedAt    time.Time  `json:"updated_at"`
}

// Active reports whether the subscription has not been canceled.
func (s *Subscription) Active() bool { return s.CanceledAt == nil }

// SubscriptionDetail bundles a subscription with the meetup summary, the
// meetup's organizer, and the subscriber projection. This is both the
// subscribe response shape and the notification email payload.
type SubscriptionDetail struct {
	Subscription *Subscription `json:"subscription"`
	Meetup       *Meetup       `json:"meetup"`
	Organizer    *UserProfile  `json:"organizer"`
	Subscriber   *UserProfile  `json:"subscriber"`
}

// UpcomingMeetup is a meetup joined with the caller's own active
// subscription for it.
type UpcomingMeetup struct {
	Meetup       *Meetup       `json:"meetup"`
	Subscription *Subscription `json:"subscription"`
	Banner       *Banner       `json:"banner,omitempty"`
	Organizer    *UserProfile  `json:"organizer"`
}

// SubscriptionRepository defines storage operations for subscriptions.
type SubscriptionRepository interface {
	// Subscribe atomically verifies that the subscriber holds no active
	// subscription for the meetup (ErrAlreadySubscribed) and none for any
	// meetup scheduled at exactly meetupDate (ErrScheduleConflict), then
	// inserts an active subscription. The checks and the insert execute in a
	// single serializable transaction so that concurrent attempts cannot
	// both commit.
	Subscribe(ctx context.Context, meetupID, subscriberID string, meetupDate, now time.Time) (*Subscription, error)
	// Cancel sets canceled_at on the subscription scoped to
	// (id, subscriber_id, canceled_at IS NULL). Absent, foreign, or already
	// canceled rows are ErrSubscriptionNotFound.
	Cancel(ctx context.Context, id, subscriberID string, now time.Time) error
	GetDetail(ctx context.Context, id string) (*SubscriptionDetail, error)
	// ListUpcomingBySubscriber returns meetups with date >= now for which
	// the subscriber holds an active subscription, date ascending.
	ListUpcomingBySubscriber(ctx context.Context, subscriberID string, now time.Time) ([]*UpcomingMeetup, error)
}

// SubscriptionService defines the subscription eligibility rules.
type SubscriptionService interface {
	Subscribe(ctx context.Context, subscriberID, meetupID string) (*SubscriptionDetail, error)
	Cancel(ctx context.Context, subscriberID, subscriptionID string) error
	ListUpcoming(ctx context.Context, subscriberID string) ([]*UpcomingMeetup, error)
}
