package mapart

import (
	"context"
	"errors"
	"fmt"
	"log"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/trace"

	"github.com/louisbranch/turfwars/internal/blob"
	"github.com/louisbranch/turfwars/internal/domain"
	"github.com/louisbranch/turfwars/internal/storage"
)

// Assets identifies the static inputs of every map render.
type Assets struct {
	Bucket       string
	BaseKey      string
	LegendKey    string
	NeutralColor string
}

// Palette resolves a team's map color. Implemented by the game config.
type Palette interface {
	TeamColorHex(teamID domain.TeamID) (string, bool)
}

// Payload is what a map delivery needs: either a previously recorded external
// handle, or the raw encoded bytes plus the obligation to call RecordHandle
// once delivery succeeds.
type Payload struct {
	ArtifactID        int64
	Handle            string
	Bytes             []byte
	NeedsHandleUpdate bool
}

// Cache builds the composited ownership map from district state, persists it
// as a versioned artifact, and serves a cheap delivery handle once the
// artifact has been sent once.
type Cache struct {
	blobs   blob.Store
	store   storage.Store
	assets  Assets
	palette Palette
	clock   func() time.Time
	tracer  trace.Tracer
}

// NewCache wires a map artifact cache.
func NewCache(blobs blob.Store, store storage.Store, assets Assets, palette Palette) *Cache {
	return &Cache{
		blobs:   blobs,
		store:   store,
		assets:  assets,
		palette: palette,
		clock:   time.Now,
		tracer:  otel.Tracer("turfwars/mapart"),
	}
}

// Rebuild recomputes the composite from current ownership, uploads it under a
// timestamp-derived key, and appends a new artifact row with no external
// handle. A missing asset is fatal to the rebuild and is not retried.
func (c *Cache) Rebuild(ctx context.Context) error {
	ctx, span := c.tracer.Start(ctx, "mapart.Rebuild")
	defer span.End()

	districts, err := c.store.ListDistricts(ctx)
	if err != nil {
		return fmt.Errorf("list districts: %w", err)
	}

	base, err := c.fetchAsset(ctx, c.assets.BaseKey)
	if err != nil {
		return err
	}

	layers := make([]Layer, 0, len(districts))
	for _, district := range districts {
		mask, err := c.fetchAsset(ctx, district.MaskAssetRef)
		if err != nil {
			return err
		}
		colorHex := c.assets.NeutralColor
		if district.Owner != nil {
			hex, ok := c.palette.TeamColorHex(*district.Owner)
			if !ok {
				return fmt.Errorf("district %s owner %d: %w", district.Name, *district.Owner, domain.ErrUnknownTeam)
			}
			colorHex = hex
		}
		layerColor, err := ParseHexColor(colorHex)
		if err != nil {
			return err
		}
		layers = append(layers, Layer{Mask: mask, Color: layerColor})
	}

	legend, err := c.fetchAsset(ctx, c.assets.LegendKey)
	if err != nil {
		return err
	}

	encoded, err := Compose(base, layers, legend)
	if err != nil {
		return err
	}

	key := fmt.Sprintf("maps/ownership_%s.png", c.now().UTC().Format("20060102T150405.000"))
	if err := c.blobs.Put(ctx, c.assets.Bucket, key, encoded, "image/png"); err != nil {
		return fmt.Errorf("upload map %s: %w", key, err)
	}

	artifact, err := c.store.AppendArtifact(ctx, key)
	if err != nil {
		return fmt.Errorf("append artifact: %w", err)
	}
	log.Printf("rebuilt ownership map artifact %d as %s", artifact.ID, key)
	return nil
}

// Get returns the current artifact's delivery payload: the recorded handle
// when one exists, otherwise the encoded bytes with NeedsHandleUpdate set.
func (c *Cache) Get(ctx context.Context) (Payload, error) {
	artifact, err := c.store.CurrentArtifact(ctx)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return Payload{}, domain.ErrNoArtifact
		}
		return Payload{}, fmt.Errorf("current artifact: %w", err)
	}

	if artifact.ExternalHandle != nil {
		return Payload{ArtifactID: artifact.ID, Handle: *artifact.ExternalHandle}, nil
	}

	data, err := c.fetchAsset(ctx, artifact.ImageAssetRef)
	if err != nil {
		return Payload{}, err
	}
	return Payload{ArtifactID: artifact.ID, Bytes: data, NeedsHandleUpdate: true}, nil
}

// RecordHandle stores the delivery handle for the artifact the payload came
// from. When a newer artifact was produced in the meantime the stale handle
// is dropped rather than applied to the newer row.
func (c *Cache) RecordHandle(ctx context.Context, artifactID int64, handle string) error {
	applied, err := c.store.SetArtifactHandleIfCurrent(ctx, artifactID, handle)
	if err != nil {
		return fmt.Errorf("record artifact handle: %w", err)
	}
	if !applied {
		log.Printf("dropped stale delivery handle for artifact %d", artifactID)
	}
	return nil
}

func (c *Cache) fetchAsset(ctx context.Context, key string) ([]byte, error) {
	data, err := c.blobs.Get(ctx, c.assets.Bucket, key)
	if err != nil {
		if errors.Is(err, blob.ErrNotFound) {
			return nil, fmt.Errorf("%s: %w", key, domain.ErrMissingAsset)
		}
		return nil, fmt.Errorf("fetch asset %s: %w", key, err)
	}
	return data, nil
}

func (c *Cache) now() time.Time {
	if c.clock == nil {
		return time.Now()
	}
	return c.clock()
}
