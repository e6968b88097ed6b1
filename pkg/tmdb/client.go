package tmdb

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"nexus-gateway/pkg/fault"
)

// PageSize is the fixed result-page size of the TMDb v3 API.
const PageSize = 20

type Client struct {
	Token   string
	BaseURL string
	Client  *http.Client

	// TrendingPages bounds how many provider pages Trending aggregates.
	TrendingPages int
	// Retries is the number of extra attempts after a transient failure.
	Retries int
}

type Movie struct {
	ID          int64
	Title       string
	Overview    string
	ReleaseDate string
	PosterPath  string
	Popularity  float64
	GenreIDs    []int64
}

type Genre struct {
	ID   int64
	Name string
}

// Page is one provider result page plus the upstream total.
type Page struct {
	Page         int
	TotalPages   int
	TotalResults int64
	Results      []Movie
}

type listResp struct {
	Page         int        `json:"page"`
	TotalPages   int        `json:"total_pages"`
	TotalResults int64      `json:"total_results"`
	Results      []listItem `json:"results"`
}

type listItem struct {
	ID          int64   `json:"id"`
	Title       string  `json:"title"`
	Overview    string  `json:"overview"`
	ReleaseDate string  `json:"release_date"`
	PosterPath  string  `json:"poster_path"`
	Popularity  float64 `json:"popularity"`
	GenreIDs    []int64 `json:"genre_ids"`
	Adult       bool    `json:"adult"`
}

type detailResp struct {
	ID          int64       `json:"id"`
	Title       string      `json:"title"`
	Overview    string      `json:"overview"`
	ReleaseDate string      `json:"release_date"`
	PosterPath  string      `json:"poster_path"`
	Popularity  float64     `json:"popularity"`
	Genres      []genreItem `json:"genres"`
}

type genreItem struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
}

type genresResp struct {
	Genres []genreItem `json:"genres"`
}

func New(token string) *Client {
	return &Client{
		Token:         token,
		BaseURL:       "https://api.themoviedb.org/3",
		Client:        &http.Client{Timeout: 15 * time.Second},
		TrendingPages: 3,
		Retries:       2,
	}
}

// get issues one authenticated request with bounded retries on transport
// errors and server-side statuses. 404 maps to not_found, any other non-200
// to upstream_unavailable. Retries never apply to 4xx.
func (c *Client) get(ctx context.Context, path string, q url.Values, dst any) error {
	if c.Token == "" {
		return fault.UpstreamUnavailable("missing TMDb API token", nil)
	}
	u, err := url.Parse(c.BaseURL + path)
	if err != nil {
		return fault.UpstreamUnavailable("bad provider URL", err)
	}
	u.RawQuery = q.Encode()

	var lastErr error
	for attempt := 0; attempt <= c.Retries; attempt++ {
		if attempt > 0 {
			backoff := time.Duration(attempt) * 200 * time.Millisecond
			select {
			case <-ctx.Done():
				return fault.UpstreamUnavailable("provider request canceled", ctx.Err())
			case <-time.After(backoff):
			}
		}
		req, err := http.NewRequestWithContext(ctx, http.MethodGet, u.String(), nil)
		if err != nil {
			return fault.UpstreamUnavailable("build provider request", err)
		}
		req.Header.Set("Authorization", "Bearer "+c.Token)
		req.Header.Set("Accept", "application/json")

		resp, err := c.Client.Do(req)
		if err != nil {
			lastErr = err
			continue
		}
		switch {
		case resp.StatusCode == http.StatusOK:
			err = json.NewDecoder(resp.Body).Decode(dst)
			resp.Body.Close()
			if err != nil {
				return fault.UpstreamUnavailable("decode provider response", err)
			}
			return nil
		case resp.StatusCode == http.StatusNotFound:
			resp.Body.Close()
			return fault.NotFound("provider reports no such resource", nil)
		case resp.StatusCode >= 500 || resp.StatusCode == http.StatusTooManyRequests:
			resp.Body.Close()
			lastErr = fmt.Errorf("tmdb status %d", resp.StatusCode)
			continue
		default:
			resp.Body.Close()
			return fault.UpstreamUnavailable(fmt.Sprintf("tmdb status %d", resp.StatusCode), nil)
		}
	}
	return fault.UpstreamUnavailable("provider unreachable", lastErr)
}

func discoverQuery() url.Values {
	q := url.Values{}
	q.Set("include_adult", "false")
	q.Set("include_video", "false")
	q.Set("language", "en-US")
	q.Set("sort_by", "popularity.desc")
	return q
}

// Trending aggregates the top discover pages into one popularity-ordered list.
func (c *Client) Trending(ctx context.Context) ([]Movie, error) {
	var out []Movie
	maxPages := c.TrendingPages
	if maxPages <= 0 {
		maxPages = 1
	}
	for page := 1; page <= maxPages; page++ {
		q := discoverQuery()
		q.Set("page", strconv.Itoa(page))
		var lr listResp
		if err := c.get(ctx, "/discover/movie", q, &lr); err != nil {
			return nil, err
		}
		out = append(out, toMovies(lr.Results)...)
		if lr.Page >= lr.TotalPages {
			break
		}
	}
	return out, nil
}

// Detail fetches one movie by TMDb id.
func (c *Client) Detail(ctx context.Context, id int64) (Movie, error) {
	var dr detailResp
	if err := c.get(ctx, fmt.Sprintf("/movie/%d", id), url.Values{}, &dr); err != nil {
		return Movie{}, err
	}
	genreIDs := make([]int64, 0, len(dr.Genres))
	for _, g := range dr.Genres {
		genreIDs = append(genreIDs, g.ID)
	}
	return Movie{
		ID:          dr.ID,
		Title:       dr.Title,
		Overview:    dr.Overview,
		ReleaseDate: dr.ReleaseDate,
		PosterPath:  dr.PosterPath,
		Popularity:  dr.Popularity,
		GenreIDs:    genreIDs,
	}, nil
}

// Search fetches one provider page of title/keyword matches.
func (c *Client) Search(ctx context.Context, query string, page int) (Page, error) {
	q := url.Values{}
	q.Set("query", query)
	q.Set("include_adult", "false")
	q.Set("language", "en-US")
	q.Set("page", strconv.Itoa(page))
	var lr listResp
	if err := c.get(ctx, "/search/movie", q, &lr); err != nil {
		return Page{}, err
	}
	return toPage(lr), nil
}

// DiscoverByGenres fetches one discover page of movies matching any of the
// given genres.
func (c *Client) DiscoverByGenres(ctx context.Context, genreIDs []int64, page int) (Page, error) {
	ids := make([]string, 0, len(genreIDs))
	for _, id := range genreIDs {
		ids = append(ids, strconv.FormatInt(id, 10))
	}
	q := discoverQuery()
	q.Set("with_genres", strings.Join(ids, "|")) // | means any-of
	q.Set("page", strconv.Itoa(page))
	var lr listResp
	if err := c.get(ctx, "/discover/movie", q, &lr); err != nil {
		return Page{}, err
	}
	return toPage(lr), nil
}

// Genres fetches the movie genre reference list.
func (c *Client) Genres(ctx context.Context) ([]Genre, error) {
	var gr genresResp
	if err := c.get(ctx, "/genre/movie/list", url.Values{}, &gr); err != nil {
		return nil, err
	}
	out := make([]Genre, 0, len(gr.Genres))
	for _, g := range gr.Genres {
		out = append(out, Genre{ID: g.ID, Name: g.Name})
	}
	return out, nil
}

func toMovies(items []listItem) []Movie {
	out := make([]Movie, 0, len(items))
	for _, it := range items {
		if it.Adult {
			continue
		}
		out = append(out, Movie{
			ID:          it.ID,
			Title:       it.Title,
			Overview:    it.Overview,
			ReleaseDate: it.ReleaseDate,
			PosterPath:  it.PosterPath,
			Popularity:  it.Popularity,
			GenreIDs:    it.GenreIDs,
		})
	}
	return out
}

func toPage(lr listResp) Page {
	return Page{
		Page:         lr.Page,
		TotalPages:   lr.TotalPages,
		TotalResults: lr.TotalResults,
		Results:      toMovies(lr.Results),
	}
}
