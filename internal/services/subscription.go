package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"meetapp/internal/domain"
)

type subscriptionService struct {
	meetupRepo       domain.MeetupRepository
	subscriptionRepo domain.SubscriptionRepository
	queue            domain.TaskQueue
	clock            domain.Clock
	logger           *slog.Logger
	contextTimeout   time.Duration
}

// NewSubscriptionService creates a SubscriptionService with the given
// repositories, task queue, and clock.
func NewSubscriptionService(
	meetupRepo domain.MeetupRepository,
	subscriptionRepo domain.SubscriptionRepository,
	queue domain.TaskQueue,
	clock domain.Clock,
	logger *slog.Logger,
	timeout time.Duration,
) domain.SubscriptionService {
	return &subscriptionService{
		meetupRepo:       meetupRepo,
		subscriptionRepo: subscriptionRepo,
		queue:            queue,
		clock:            clock,
		logger:           logger,
		contextTimeout:   timeout,
	}
}

func (s *subscriptionService) Subscribe(ctx context.Context, subscriberID, meetupID string) (*domain.SubscriptionDetail, error) {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	// Absent, own, and past meetups all collapse into the same generic
	// answer so the endpoint reveals nothing about the meetup.
	meetup, err := s.meetupRepo.GetByID(ctx, meetupID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, domain.ErrIneligibleMeetup
		}
		return nil, fmt.Errorf("get meetup: %w", err)
	}
	if meetup.OrganizerID == subscriberID || !meetup.Date.After(s.clock.Now()) {
		return nil, domain.ErrIneligibleMeetup
	}

	// The duplicate and schedule-collision checks run with the insert in
	// one serializable transaction inside the repository.
	sub, err := s.subscriptionRepo.Subscribe(ctx, meetupID, subscriberID, meetup.Date, s.clock.Now())
	if err != nil {
		if errors.Is(err, domain.ErrAlreadySubscribed) || errors.Is(err, domain.ErrScheduleConflict) {
			return nil, err
		}
		return nil, fmt.Errorf("create subscription: %w", err)
	}

	detail, err := s.subscriptionRepo.GetDetail(ctx, sub.ID)
	if err != nil {
		return nil, fmt.Errorf("get subscription detail: %w", err)
	}

	// The subscription is committed; notification is best-effort and an
	// enqueue failure never surfaces to the caller.
	if err := s.queue.Enqueue(domain.TaskSubscriptionNotification, detail); err != nil {
		s.logger.ErrorContext(ctx, "failed to enqueue subscription notification",
			"subscription_id", sub.ID,
			"meetup_id", meetupID,
			"err", err,
		)
	}

	return detail, nil
}

func (s *subscriptionService) Cancel(ctx context.Context, subscriberID, subscriptionID string) error {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	err := s.subscriptionRepo.Cancel(ctx, subscriptionID, subscriberID, s.clock.Now())
	if err != nil {
		if errors.Is(err, domain.ErrSubscriptionNotFound) {
			return domain.ErrSubscriptionNotFound
		}
		return fmt.Errorf("cancel subscription: %w", err)
	}
	return nil
}

func (s *subscriptionService) ListUpcoming(ctx context.Context, subscriberID string) ([]*domain.UpcomingMeetup, error) {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	meetups, err := s.subscriptionRepo.ListUpcomingBySubscriber(ctx, subscriberID, s.clock.Now())
	if err != nil {
		return nil, fmt.Errorf("list upcoming meetups: %w", err)
	}
	if meetups == nil {
		meetups = []*domain.UpcomingMeetup{}
	}
	return meetups, nil
}
