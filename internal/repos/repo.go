package repos

import (
	"github.com/jackc/pgx/v5/pgxpool"
)

// Repository bundles the persistence repos sharing one pool.
type Repository struct {
	db *pgxpool.Pool

	Favorites *FavoritesRepo
	Profiles  *ProfilesRepo
	Genres    *GenresRepo
}

func New(db *pgxpool.Pool) *Repository {
	return &Repository{
		db:        db,
		Favorites: &FavoritesRepo{db: db},
		Profiles:  &ProfilesRepo{db: db},
		Genres:    &GenresRepo{db: db},
	}
}
