package postgres

import (
	"context"
	"database/sql"
	"errors"

	"meetapp/internal/domain"
)

type bannerRepository struct {
	DB *sql.DB
}

func NewBannerRepository(db *sql.DB) domain.BannerRepository {
	return &bannerRepository{DB: db}
}

func (r *bannerRepository) Create(ctx context.Context, b *domain.Banner) error {
	query := `
		INSERT INTO files (name, path, created_at)
		VALUES ($1, $2, $3)
		RETURNING id
	`
	return r.DB.QueryRowContext(ctx, query, b.Name, b.Path, b.CreatedAt).Scan(&b.ID)
}

func (r *bannerRepository) GetByID(ctx context.Context, id string) (*domain.Banner, error) {
	query := `
		SELECT id, name, path, created_at
		FROM files
		WHERE id = $1
	`
	b := &domain.Banner{}
	err := r.DB.QueryRowContext(ctx, query, id).Scan(&b.ID, &b.Name, &b.Path, &b.CreatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}
	b.URL = domain.BannerURL(b.Path)
	return b, nil
}
