package storage

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/asset-dashboard/internal/types"
)

var assetColumns = []string{"id", "name", "image", "owner"}

// AssetRepository writes the asset table read by the postgres source
type AssetRepository struct {
	pool *pgxpool.Pool
}

// NewAssetRepository creates a repository over db
func NewAssetRepository(db *PostgresDB) *AssetRepository {
	return &AssetRepository{pool: db.Pool()}
}

// ReplaceAll swaps the table contents for assets in one transaction
func (r *AssetRepository) ReplaceAll(ctx context.Context, assets []types.Asset) (int64, error) {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return 0, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() {
		_ = tx.Rollback(ctx) // nolint:errcheck // no-op after commit
	}()

	if _, err := tx.Exec(ctx, "DELETE FROM assets"); err != nil {
		return 0, fmt.Errorf("failed to clear assets: %w", err)
	}

	n, err := tx.CopyFrom(ctx, pgx.Identifier{"assets"}, assetColumns, pgx.CopyFromSlice(len(assets), func(i int) ([]any, error) {
		a := assets[i]
		return []any{a.ID, a.Name, a.Image, a.Owner}, nil
	}))
	if err != nil {
		return 0, fmt.Errorf("failed to copy assets: %w", err)
	}

	if err := tx.Commit(ctx); err != nil {
		return 0, fmt.Errorf("failed to commit assets: %w", err)
	}

	return n, nil
}

// Count returns the number of stored assets
func (r *AssetRepository) Count(ctx context.Context) (int64, error) {
	var n int64
	if err := r.pool.QueryRow(ctx, "SELECT COUNT(*) FROM assets").Scan(&n); err != nil {
		return 0, fmt.Errorf("failed to count assets: %w", err)
	}
	return n, nil
}
