package repos

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"

	"nexus-gateway/internal/model"
)

type GenresRepo struct {
	db *pgxpool.Pool
}

// Upsert keeps the genre reference table in step with the provider.
// Returns the number of rows written.
func (r *GenresRepo) Upsert(ctx context.Context, genres []model.Genre) (int, error) {
	count := 0
	for _, g := range genres {
		if _, err := r.db.Exec(ctx, `
			INSERT INTO genres (id, name) VALUES ($1, $2)
			ON CONFLICT (id) DO UPDATE SET name = EXCLUDED.name`,
			g.ID, g.Name); err != nil {
			return count, err
		}
		count++
	}
	return count, nil
}
