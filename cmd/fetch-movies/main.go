// fetch-movies snapshots the current discover listing to a JSON file.
// Diagnostic utility; it is not part of the serving path.
package main

import (
	"context"
	"encoding/json"
	"flag"
	"os"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog/log"

	"nexus-gateway/pkg/tmdb"
)

func main() {
	pages := flag.Int("pages", 3, "number of provider pages to fetch")
	out := flag.String("out", "data.json", "output file")
	flag.Parse()

	_ = godotenv.Load()
	token := os.Getenv("TMDB_API_TOKEN")
	if token == "" {
		log.Fatal().Msg("TMDB_API_TOKEN is required")
	}

	client := tmdb.New(token)
	client.TrendingPages = *pages

	movies, err := client.Trending(context.Background())
	if err != nil {
		log.Fatal().Err(err).Msg("discover fetch failed")
	}

	b, err := json.MarshalIndent(map[string]any{"results": movies}, "", "  ")
	if err != nil {
		log.Fatal().Err(err).Msg("marshal failed")
	}
	if err := os.WriteFile(*out, b, 0o644); err != nil {
		log.Fatal().Err(err).Msg("write failed")
	}
	log.Info().Int("count", len(movies)).Str("file", *out).Msg("snapshot written")
}
