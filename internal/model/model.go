package model

import "time"

// Movie is an immutable snapshot of provider data at fetch time; it is never
// mutated locally, only re-fetched and replaced in cache on expiry.
type Movie struct {
	ID          int64   `json:"id"` // TMDb id
	Title       string  `json:"title"`
	Overview    string  `json:"overview,omitempty"`
	ReleaseDate string  `json:"release_date,omitempty"`
	PosterURL   string  `json:"poster_url,omitempty"`
	Popularity  float64 `json:"popularity"`
	GenreIDs    []int64 `json:"genre_ids,omitempty"`
}

type Genre struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
}

// MoviePage is one gateway page of results. Total carries the upstream
// result count when the provider reports one.
type MoviePage struct {
	Page     int     `json:"page"`
	PageSize int     `json:"page_size"`
	Total    int64   `json:"total,omitempty"`
	Results  []Movie `json:"results"`
}

// Recommendation is a MoviePage plus whether the results are personalized
// or the trending fallback.
type Recommendation struct {
	MoviePage
	Personalized bool   `json:"personalized"`
	Message      string `json:"message,omitempty"`
}

// Favorite is a movie snapshot a user saved, newest first in listings.
type Favorite struct {
	MovieID     int64     `json:"movie_id"`
	Title       string    `json:"title"`
	Overview    string    `json:"overview,omitempty"`
	ReleaseDate string    `json:"release_date,omitempty"`
	PosterURL   string    `json:"poster_url,omitempty"`
	Popularity  float64   `json:"popularity"`
	GenreIDs    []int64   `json:"genre_ids,omitempty"`
	FavoritedAt time.Time `json:"favorited_at"`
}

// Identity is the rate-limiting and favorites key: an authenticated user or
// an anonymous bucket derived from the client address.
type Identity struct {
	UserID string
	Bucket string
}

func (i Identity) Anonymous() bool { return i.UserID == "" }

// Key returns the stable counter-keyspace form of the identity.
func (i Identity) Key() string {
	if i.UserID != "" {
		return "user:" + i.UserID
	}
	return "anon:" + i.Bucket
}
