package app

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"log"
	"net/http"

	"github.com/louisbranch/turfwars/internal/blob"
	"github.com/louisbranch/turfwars/internal/config"
	"github.com/louisbranch/turfwars/internal/domain"
	"github.com/louisbranch/turfwars/internal/storage"
)

// Rebuilder regenerates the rendered ownership map.
type Rebuilder interface {
	Rebuild(ctx context.Context) error
}

// Bootstrap prepares a deployment for its first run and is a no-op on every
// later one: it ensures the asset bucket exists, uploads the static assets
// when the bucket is empty, seeds the district table from the game
// definition, and renders the initial map when the artifact log is empty.
func Bootstrap(ctx context.Context, blobs blob.Store, store storage.Store, game *config.Game, rebuilder Rebuilder, bucket string, assets fs.FS) error {
	isEmpty, err := blobs.EnsureBucket(ctx, bucket)
	if err != nil {
		return fmt.Errorf("ensure bucket: %w", err)
	}
	if isEmpty {
		if err := uploadAssets(ctx, blobs, bucket, assets); err != nil {
			return err
		}
	}

	seeded, err := store.SeedDistricts(ctx, seedDistricts(game))
	if err != nil {
		return fmt.Errorf("seed districts: %w", err)
	}
	if seeded {
		log.Printf("seeded %d districts", len(game.Districts))
	}

	if _, err := store.CurrentArtifact(ctx); err != nil {
		if !errors.Is(err, storage.ErrNotFound) {
			return fmt.Errorf("check artifact log: %w", err)
		}
		if err := rebuilder.Rebuild(ctx); err != nil {
			return fmt.Errorf("initial map render: %w", err)
		}
	}
	return nil
}

func uploadAssets(ctx context.Context, blobs blob.Store, bucket string, assets fs.FS) error {
	count := 0
	err := fs.WalkDir(assets, ".", func(path string, entry fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if entry.IsDir() {
			return nil
		}
		data, err := fs.ReadFile(assets, path)
		if err != nil {
			return fmt.Errorf("read asset %s: %w", path, err)
		}
		if err := blobs.Put(ctx, bucket, path, data, http.DetectContentType(data)); err != nil {
			return fmt.Errorf("upload asset %s: %w", path, err)
		}
		count++
		return nil
	})
	if err != nil {
		return err
	}
	log.Printf("uploaded %d assets to bucket %s", count, bucket)
	return nil
}

// seedDistricts assigns stable ordinals from definition order; the district
// table and every stable-order listing key off these ids.
func seedDistricts(game *config.Game) []domain.District {
	districts := make([]domain.District, 0, len(game.Districts))
	for i, cfg := range game.Districts {
		district := domain.District{ID: int64(i + 1), Name: cfg.Name, MaskAssetRef: cfg.MaskAssetRef}
		if owner, ok := game.DefaultOwner(cfg.Name); ok {
			id := owner.ID
			district.Owner = &id
		}
		districts = append(districts, district)
	}
	return districts
}
