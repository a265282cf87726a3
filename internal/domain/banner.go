package domain

import (
	"context"
	"time"
)

// Banner is an uploaded image attached to a meetup. The stored record keeps
// only the path; URL is a pure projection applied when the row is read.
// swagger:model Banner
type Banner struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Path      string    `json:"path"`
	URL       string    `json:"url"`
	CreatedAt time.Time `json:"created_at"`
}

// NewBanner returns a new Banner with the given fields. ID is typically set by the repository on create.
func NewBanner(name, path string, createdAt time.Time) *Banner {
	return &Banner{
		Name:      name,
		Path:      path,
		URL:       BannerURL(path),
		CreatedAt: createdAt,
	}
}

// BannerURL derives the public URL for a stored banner path.
func BannerURL(path string) string {
	return "/files/" + path
}

// BannerRepository defines the interface for banner storage
type BannerRepository interface {
	Create(ctx context.Context, banner *Banner) error
	GetByID(ctx context.Context, id string) (*Banner, error)
}
