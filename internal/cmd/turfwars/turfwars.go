// Package turfwars parses bot command flags and starts the game runtime.
package turfwars

import (
	"context"
	"flag"
	"fmt"
	"os"

	"github.com/louisbranch/turfwars/internal/app"
	"github.com/louisbranch/turfwars/internal/blob/minio"
	"github.com/louisbranch/turfwars/internal/config"
	"github.com/louisbranch/turfwars/internal/fanout"
	"github.com/louisbranch/turfwars/internal/mapart"
	"github.com/louisbranch/turfwars/internal/ownership"
	entrypoint "github.com/louisbranch/turfwars/internal/platform/cmd"
	"github.com/louisbranch/turfwars/internal/render"
	"github.com/louisbranch/turfwars/internal/storage/sqlite"
	"github.com/louisbranch/turfwars/internal/transport/telegram"
)

// Config holds bot command configuration.
type Config struct {
	Token          string `env:"TURFWARS_TELEGRAM_TOKEN"`
	DBPath         string `env:"TURFWARS_DB_PATH" envDefault:"turfwars.db"`
	GameConfigPath string `env:"TURFWARS_GAME_CONFIG" envDefault:"game.yml"`
	AssetsDir      string `env:"TURFWARS_ASSETS_DIR" envDefault:"assets"`
	Language       string `env:"TURFWARS_LANGUAGE" envDefault:"en"`
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
	fs.StringVar(&cfg.Language, "lang", cfg.Language, "The chat copy language")
	fs.StringVar(&cfg.Bucket, "bucket", cfg.Bucket, "The object storage bucket")
	if err := entrypoint.ParseArgs(fs, args); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Run starts the bot: bootstrap, then the event loop until ctx is canceled.
func Run(ctx context.Context, cfg Config) error {
	if cfg.Token == "" {
		return fmt.Errorf("telegram token is required")
	}
	return entrypoint.RunWithTelemetry(ctx, entrypoint.ServiceTurfwars, func(ctx context.Context) error {
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
		owners := ownership.NewService(store, maps, game)

		client, err := telegram.New(cfg.Token)
		if err != nil {
			return err
		}
		notifier := fanout.New(client, game.AllTeams())
		defer notifier.Wait()

		if err := app.Bootstrap(ctx, blobs, store, game, maps, cfg.Bucket, os.DirFS(cfg.AssetsDir)); err != nil {
			return err
		}

		bot := app.New(game, render.NewRenderer(cfg.Language), client, maps, owners, owners, notifier)
		return bot.Run(ctx, client)
	})
}
