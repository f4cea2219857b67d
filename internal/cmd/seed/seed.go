// Package seed parses seed command flags and provisions a deployment without
// starting the bot: bucket, assets, district table, and the first map render.
package seed

import (
	"context"
	"flag"
	"os"

	"github.com/louisbranch/turfwars/internal/app"
	"github.com/louisbranch/turfwars/internal/blob/minio"
	"github.com/louisbranch/turfwars/internal/config"
	"github.com/louisbranch/turfwars/internal/mapart"
	entrypoint "github.com/louisbranch/turfwars/internal/platform/cmd"
	"github.com/louisbranch/turfwars/internal/storage/sqlite"
)

// Config holds seed command configuration.
type Config struct {
	DBPath         string `env:"TURFWARS_DB_PATH" envDefault:"turfwars.db"`
	GameConfigPath string `env:"TURFWARS_GAME_CONFIG" envDefault:"game.yml"`
	AssetsDir      string `env:"TURFWARS_ASSETS_DIR" envDefault:"assets"`
	Bucket         string `env:"TURFWARS_BUCKET" envDefault:"turfwars"`
	MinioEndpoint  string `env:"TURFWARS_MINIO_ENDPOINT" envDefault:"localhost:9000"`
	MinioAccessKey string `env:"TURFWARS_MINIO_ACCESS_KEY"`
	MinioSecretKey string `env:"TURFWARS_MINIO_SECRET_KEY"`
	MinioSecure    bool   `env:"TURFWARS_MINIO_SECURE"`
}

// ParseConfig parses environment and flags into a Config.
func ParseConfig(fs *flag.FlagSet, args []string) (Config, error) {
	var cfg Config
	if err := entrypoint.ParseConfig(&cfg); err != nil {
		return Config{}, err
	}
	fs.StringVar(&cfg.DBPath, "db", cfg.DBPath, "The SQLite database path")
	fs.StringVar(&cfg.GameConfigPath, "game", cfg.GameConfigPath, "The game definition YAML path")
	fs.StringVar(&cfg.AssetsDir, "assets", cfg.AssetsDir, "The map assets directory")
	fs.StringVar(&cfg.Bucket, "bucket", cfg.Bucket, "The object storage bucket")
	if err := entrypoint.ParseArgs(fs, args); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Run provisions storage and exits.
func Run(ctx context.Context, cfg Config) error {
	return entrypoint.RunWithTelemetry(ctx, entrypoint.ServiceSeed, func(ctx context.Context) error {
		game, err := config.LoadGame(cfg.GameConfigPath)
		if err != nil {
			return err
		}

		store, err := sqlite.Open(cfg.DBPath)
		if err != nil {
			return err
		}
		defer store.Close()

		blobs, err := minio.New(minio.Options{
			Endpoint:  cfg.MinioEndpoint,
			AccessKey: cfg.MinioAccessKey,
			SecretKey: cfg.MinioSecretKey,
			Secure:    cfg.MinioSecure,
		})
		if err != nil {
			return err
		}

		assets := mapart.Assets{
			Bucket:       cfg.Bucket,
			BaseKey:      game.Map.BaseAssetRef,
			LegendKey:    game.Map.LegendAssetRef,
			NeutralColor: game.Map.NeutralColor,
		}
		maps := mapart.NewCache(blobs, store, assets, game)

		return app.Bootstrap(ctx, blobs, store, game, maps, cfg.Bucket, os.DirFS(cfg.AssetsDir))
	})
}
