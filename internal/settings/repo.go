// Package settings persists the single site-wide pricing-mode document.
package settings

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/dmstore/backend/internal/pricing"
)

// priceModeKey is the settings row holding the catalog price display mode.
const priceModeKey = "catalog_price_display"

type Repository interface {
	PriceMode(ctx context.Context) (pricing.Mode, error)
	SetPriceMode(ctx context.Context, m pricing.Mode) error
}

type PGRepo struct {
	db *pgxpool.Pool
	// fallback is returned when no settings row exists yet.
	fallback pricing.Mode
}

func NewPGRepo(db *pgxpool.Pool, fallback pricing.Mode) *PGRepo {
	return &PGRepo{db: db, fallback: fallback}
}

func (r *PGRepo) PriceMode(ctx context.Context) (pricing.Mode, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	var mode string
	err := r.db.QueryRow(ctx, `SELECT mode FROM settings WHERE id=$1`, priceModeKey).Scan(&mode)
	if errors.Is(err, pgx.ErrNoRows) {
		return r.fallback, nil
	}
	if err != nil {
		return "", err
	}
	return pricing.ParseMode(mode, r.fallback), nil
}

func (r *PGRepo) SetPriceMode(ctx context.Context, m pricing.Mode) error {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	_, err := r.db.Exec(ctx, `
		INSERT INTO settings (id, mode) VALUES ($1,$2)
		ON CONFLICT (id) DO UPDATE SET mode = EXCLUDED.mode
	`, priceModeKey, string(m))
	return err
}
