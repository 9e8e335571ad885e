package source

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/asset-dashboard/internal/types"
)

// Querier is the subset of pgxpool.Pool the Postgres source needs
type Querier interface {
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
}

const selectAssetsQuery = `
	SELECT id, name, image, owner
	FROM assets
	ORDER BY id
`

// PostgresSource reads the asset list from the assets table
type PostgresSource struct {
	db Querier
}

// NewPostgresSource creates a Postgres source
func NewPostgresSource(db Querier) *PostgresSource {
	return &PostgresSource{db: db}
}

// Name implements Source
func (s *PostgresSource) Name() string { return "postgres:assets" }

// Fetch implements Source
func (s *PostgresSource) Fetch(ctx context.Context) ([]types.Asset, error) {
	rows, err := s.db.Query(ctx, selectAssetsQuery)
	if err != nil {
		return nil, fmt.Errorf("failed to query assets: %w", err)
	}
	defer rows.Close()

	assets := make([]types.Asset, 0)
	for rows.Next() {
		var a types.Asset
		if err := rows.Scan(&a.ID, &a.Name, &a.Image, &a.Owner); err != nil {
			return nil, fmt.Errorf("failed to scan asset: %w", err)
		}
		assets = append(assets, a)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating assets: %w", err)
	}

	return assets, nil
}
