package domain

import (
	"context"
	"time"
)

// Meetup represents a scheduled event owned by its organizer. The date must
// be strictly in the future at creation time and at every edit.
// swagger:model Meetup
type Meetup struct {
	ID          string    `json:"id"`
	Title       string    `json:"title"`
	Description string    `json:"description"`
	Location    string    `json:"location"`
	Date        time.Time `json:"date"`
	OrganizerID string    `json:"organizer_id"`
	BannerID    *string   `json:"banner_id,omitempty"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// NewMeetup returns a new Meetup with the given fields. ID is typically set by the repository on create.
func NewMeetup(title, description, location, organizerID string, date time.Time, bannerID *string, createdAt, updatedAt time.Time) *Meetup {
	return &Meetup{
		Title:       title,
		Description: description,
		Location:    location,
		Date:        date,
		OrganizerID: organizerID,
		BannerID:    bannerID,
		CreatedAt:   createdAt,
		UpdatedAt:   updatedAt,
	}
}

// MeetupDetail bundles a meetup with its banner and organizer projection.
type MeetupDetail struct {
	Meetup    *Meetup      `json:"meetup"`
	Banner    *Banner      `json:"banner,omitempty"`
	Organizer *UserProfile `json:"organizer"`
}

// MeetupPatch carries the fields of a partial meetup update. Nil fields are
// left untouched.
type MeetupPatch struct {
	Title       *string
	Description *string
	Location    *string
	Date        *time.Time
	BannerID    *string
}

// Empty reports whether the patch would change nothing.
func (p *MeetupPatch) Empty() bool {
	return p.Title == nil && p.Description == nil && p.Location == nil && p.Date == nil && p.BannerID == nil
}

// MeetupRepository defines the interface for meetup storage
type MeetupRepository interface {
	Create(ctx context.Context, meetup *Meetup) error
	GetByID(ctx context.Context, id string) (*Meetup, error)
	// GetByIDForOrganizer loads a meetup scoped to its organizer; a meetup
	// owned by someone else is ErrNotFound, indistinguishable from absent.
	GetByIDForOrganizer(ctx context.Context, id, organizerID string) (*Meetup, error)
	GetDetail(ctx context.Context, id string) (*MeetupDetail, error)
	Update(ctx context.Context, id string, patch *MeetupPatch) (*Meetup, error)
	Delete(ctx context.Context, id string) error
	ListByOrganizer(ctx context.Context, organizerID string) ([]*MeetupDetail, error)
	// ListByDateWindow returns meetups with from <= date < to, ordered by
	// date ascending, paginated.
	ListByDateWindow(ctx context.Context, from, to time.Time, params PaginationParams) ([]*MeetupDetail, error)
}

// CreateMeetupInput is the input to MeetupService.Create.
type CreateMeetupInput struct {
	Title       string
	Description string
	Location    string
	Date        time.Time
	BannerID    string
}

// MeetupService defines the meetup lifecycle rules: who may create, edit,
// and remove a meetup, and when.
type MeetupService interface {
	Create(ctx context.Context, organizerID string, input *CreateMeetupInput) (*MeetupDetail, error)
	Update(ctx context.Context, actorID, meetupID string, patch *MeetupPatch) (*MeetupDetail, error)
	Delete(ctx context.Context, actorID, meetupID string) error
	ListOwned(ctx context.Context, actorID string) ([]*MeetupDetail, error)
	// ListByDate returns meetups from any organizer inside the 24-hour
	// window starting at date.
	ListByDate(ctx context.Context, date time.Time, params PaginationParams) ([]*MeetupDetail, error)
}
