package repos

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"

	"nexus-gateway/internal/model"
)

type FavoritesRepo struct {
	db *pgxpool.Pool
}

// Add records a favorite. Adding an already-favorited movie is a no-op
// success; the (user_id, movie_id) primary key enforces uniqueness even
// under concurrent adds.
func (r *FavoritesRepo) Add(ctx context.Context, userID string, m model.Movie) error {
	_, err := r.db.Exec(ctx, `
		INSERT INTO favorites (user_id, movie_id, title, overview, release_date, poster_url, popularity, genre_ids)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		ON CONFLICT (user_id, movie_id) DO NOTHING`,
		userID, m.ID, m.Title, m.Overview, m.ReleaseDate, m.PosterURL, m.Popularity, m.GenreIDs)
	return err
}

// Remove deletes a favorite. Removing a non-favorited movie is a no-op
// success.
func (r *FavoritesRepo) Remove(ctx context.Context, userID string, movieID int64) error {
	_, err := r.db.Exec(ctx,
		`DELETE FROM favorites WHERE user_id = $1 AND movie_id = $2`,
		userID, movieID)
	return err
}

// List returns the user's favorites, most recently favorited first.
func (r *FavoritesRepo) List(ctx context.Context, userID string) ([]model.Favorite, error) {
	rows, err := r.db.Query(ctx, `
		SELECT movie_id, title, overview, release_date, poster_url, popularity, genre_ids, favorited_at
		FROM favorites
		WHERE user_id = $1
		ORDER BY favorited_at DESC`,
		userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []model.Favorite{}
	for rows.Next() {
		var f model.Favorite
		if err := rows.Scan(&f.MovieID, &f.Title, &f.Overview, &f.ReleaseDate, &f.PosterURL, &f.Popularity, &f.GenreIDs, &f.FavoritedAt); err != nil {
			return nil, err
		}
		out = append(out, f)
	}
	return out, rows.Err()
}
