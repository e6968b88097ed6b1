package repos

import (
	"context"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type ProfilesRepo struct {
	db *pgxpool.Pool
}

// FavoriteGenres returns the user's favorite-genre ids. An unknown user has
// an empty set, not an error.
func (r *ProfilesRepo) FavoriteGenres(ctx context.Context, userID string) ([]int64, error) {
	rows, err := r.db.Query(ctx,
		`SELECT genre_id FROM profile_genres WHERE user_id = $1 ORDER BY genre_id`,
		userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []int64
	for rows.Next() {
		var id int64
		if err := rows.Scan(&id); err != nil {
			return nil, err
		}
		out = append(out, id)
	}
	return out, rows.Err()
}

// SetFavoriteGenres replaces the user's favorite-genre set.
func (r *ProfilesRepo) SetFavoriteGenres(ctx context.Context, userID string, genreIDs []int64) error {
	return pgx.BeginFunc(ctx, r.db, func(tx pgx.Tx) error {
		if _, err := tx.Exec(ctx, `DELETE FROM profile_genres WHERE user_id = $1`, userID); err != nil {
			return err
		}
		for _, id := range genreIDs {
			if _, err := tx.Exec(ctx, `
				INSERT INTO profile_genres (user_id, genre_id) VALUES ($1, $2)
				ON CONFLICT (user_id, genre_id) DO NOTHING`,
				userID, id); err != nil {
				return err
			}
		}
		return nil
	})
}
