package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"meetapp/internal/domain"
)

type meetupService struct {
	meetupRepo     domain.MeetupRepository
	bannerRepo     domain.BannerRepository
	clock          domain.Clock
	contextTimeout time.Duration
}

// NewMeetupService creates a MeetupService with the given repositories and clock.
func NewMeetupService(
	meetupRepo domain.MeetupRepository,
	bannerRepo domain.BannerRepository,
	clock domain.Clock,
	timeout time.Duration,
) domain.MeetupService {
	return &meetupService{
		meetupRepo:     meetupRepo,
		bannerRepo:     bannerRepo,
		clock:          clock,
		contextTimeout: timeout,
	}
}

func (s *meetupService) Create(ctx context.Context, organizerID string, input *domain.CreateMeetupInput) (*domain.MeetupDetail, error) {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	var messages []string
	if strings.TrimSpace(input.Title) == "" {
		messages = append(messages, "the title is required")
	}
	if strings.TrimSpace(input.Description) == "" {
		messages = append(messages, "description is required")
	}
	if strings.TrimSpace(input.Location) == "" {
		messages = append(messages, "the location is required")
	}
	if input.Date.IsZero() {
		messages = append(messages, "please, inform a date")
	} else if !input.Date.After(s.clock.Now()) {
		messages = append(messages, "only future dates are available")
	}
	if input.BannerID == "" {
		messages = append(messages, "the banner is required")
	} else if _, err := s.bannerRepo.GetByID(ctx, input.BannerID); err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			messages = append(messages, "banner not found")
		} else {
			return nil, fmt.Errorf("get banner: %w", err)
		}
	}
	if len(messages) > 0 {
		return nil, domain.NewValidationError(messages...)
	}

	now := s.clock.Now()
	bannerID := input.BannerID
	meetup := domain.NewMeetup(input.Title, input.Description, input.Location, organizerID, input.Date, &bannerID, now, now)
	if err := s.meetupRepo.Create(ctx, meetup); err != nil {
		return nil, fmt.Errorf("create meetup: %w", err)
	}

	detail, err := s.meetupRepo.GetDetail(ctx, meetup.ID)
	if err != nil {
		return nil, fmt.Errorf("get meetup detail: %w", err)
	}
	return detail, nil
}

func (s *meetupService) Update(ctx context.Context, actorID, meetupID string, patch *domain.MeetupPatch) (*domain.MeetupDetail, error) {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	now := s.clock.Now()
	if patch.Date != nil && !patch.Date.After(now) {
		return nil, domain.NewValidationError("only future dates are available")
	}
	if patch.BannerID != nil {
		if _, err := s.bannerRepo.GetByID(ctx, *patch.BannerID); err != nil {
			if errors.Is(err, domain.ErrNotFound) {
				return nil, domain.NewValidationError("banner not found")
			}
			return nil, fmt.Errorf("get banner: %w", err)
		}
	}

	// Scoped load: a meetup owned by someone else looks absent to the
	// caller, so ownership is never leaked here.
	meetup, err := s.meetupRepo.GetByIDForOrganizer(ctx, meetupID, actorID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("get meetup: %w", err)
	}
	if !meetup.Date.After(now) {
		return nil, domain.ErrPastMeetup
	}

	if !patch.Empty() {
		if _, err := s.meetupRepo.Update(ctx, meetupID, patch); err != nil {
			if errors.Is(err, domain.ErrNotFound) {
				return nil, domain.ErrNotFound
			}
			return nil, fmt.Errorf("update meetup: %w", err)
		}
	}

	detail, err := s.meetupRepo.GetDetail(ctx, meetupID)
	if err != nil {
		return nil, fmt.Errorf("get meetup detail: %w", err)
	}
	return detail, nil
}

func (s *meetupService) Delete(ctx context.Context, actorID, meetupID string) error {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	// Unscoped load so "not found" and "not the owner" come back as
	// distinct outcomes.
	meetup, err := s.meetupRepo.GetByID(ctx, meetupID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return domain.ErrNotFound
		}
		return fmt.Errorf("get meetup: %w", err)
	}
	if meetup.OrganizerID != actorID {
		return domain.ErrForbidden
	}
	if !meetup.Date.After(s.clock.Now()) {
		return domain.ErrPastMeetup
	}
	if err := s.meetupRepo.Delete(ctx, meetupID); err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return domain.ErrNotFound
		}
		return fmt.Errorf("delete meetup: %w", err)
	}
	return nil
}

func (s *meetupService) ListOwned(ctx context.Context, actorID string) ([]*domain.MeetupDetail, error) {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	meetups, err := s.meetupRepo.ListByOrganizer(ctx, actorID)
	if err != nil {
		return nil, fmt.Errorf("list meetups: %w", err)
	}
	if meetups == nil {
		meetups = []*domain.MeetupDetail{}
	}
	return meetups, nil
}

func (s *meetupService) ListByDate(ctx context.Context, date time.Time, params domain.PaginationParams) ([]*domain.MeetupDetail, error) {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	meetups, err := s.meetupRepo.ListByDateWindow(ctx, date, date.Add(24*time.Hour), params)
	if err != nil {
		return nil, fmt.Errorf("list meetups by date: %w", err)
	}
	if meetups == nil {
		meetups = []*domain.MeetupDetail{}
	}
	return meetups, nil
}
