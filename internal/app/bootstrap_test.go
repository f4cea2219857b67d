package app

import (
	"context"
	"path/filepath"
	"testing"
	"testing/fstest"

	"github.com/louisbranch/turfwars/internal/blob/memory"
	"github.com/louisbranch/turfwars/internal/config"
	"github.com/louisbranch/turfwars/internal/storage/sqlite"
)

func TestBootstrapFirstRun(t *testing.T) {
	t.Parallel()

	game, err := config.ParseGame([]byte(testGameYAML))
	if err != nil {
		t.Fatalf("parse game: %v", err)
	}
	blobs := memory.New()
	store := &fakeStore{}
	rebuilder := &fakeRebuilder{}
	assets := fstest.MapFS{
		"map/base.png":     {Data: []byte("base")},
		"map/legend.png":   {Data: []byte("legend")},
		"masks/harbor.png": {Data: []byte("mask")},
	}

	if err := Bootstrap(context.Background(), blobs, store, game, rebuilder, "turfwars", assets); err != nil {
		t.Fatalf("bootstrap: %v", err)
	}

	for _, key := range []string{"map/base.png", "map/legend.png", "masks/harbor.png"} {
		if _, err := blobs.Get(context.Background(), "turfwars", key); err != nil {
			t.Fatalf("expected asset %s uploaded: %v", key, err)
		}
	}

	if len(store.seeded) != 3 {
		t.Fatalf("expected 3 seeded districts, got %v", store.seeded)
	}
	byName := make(map[string]*int64)
	for _, district := range store.seeded {
		if district.Owner != nil {
			id := int64(*district.Owner)
			byName[district.Name] = &id
		} else {
			byName[district.Name] = nil
		}
	}
	if byName["Harbor"] != nil {
		t.Fatalf("expected Harbor unowned, got %v", *byName["Harbor"])
	}
	if byName["Docks"] == nil || *byName["Docks"] != 100 {
		t.Fatalf("expected Docks seeded to team 100, got %v", byName["Docks"])
	}
	if byName["Meadow"] == nil || *byName["Meadow"] != 200 {
		t.Fatalf("expected Meadow seeded to team 200, got %v", byName["Meadow"])
	}

	if rebuilder.calls != 1 {
		t.Fatalf("expected the initial map render, got %d", rebuilder.calls)
	}
}

func TestBootstrapSeedsSQLiteStore(t *testing.T) {
	t.Parallel()

	game, err := config.ParseGame([]byte(testGameYAML))
	if err != nil {
		t.Fatalf("parse game: %v", err)
	}
	store, err := sqlite.Open(filepath.Join(t.TempDir(), "turfwars.db"))
	if err != nil {
		t.Fatalf("open store: %v", err)
	}
	defer store.Close()
	blobs := memory.New()
	rebuilder := &fakeRebuilder{}
	assets := fstest.MapFS{"map/base.png": {Data: []byte("base")}}

	if err := Bootstrap(context.Background(), blobs, store, game, rebuilder, "turfwars", assets); err != nil {
		t.Fatalf("bootstrap: %v", err)
	}

	districts, err := store.ListDistricts(context.Background())
	if err != nil {
		t.Fatalf("list districts: %v", err)
	}
	if len(districts) != 3 {
		t.Fatalf("expected 3 districts, got %v", districts)
	}
	for i, want := range []string{"Harbor", "Docks", "Meadow"} {
		if districts[i].ID != int64(i+1) || districts[i].Name != want {
			t.Fatalf("expected district %d to be %s, got %+v", i+1, want, districts[i])
		}
	}

	free, err := store.FreeDistrictNames(context.Background())
	if err != nil {
		t.Fatalf("free districts: %v", err)
	}
	if len(free) != 1 || free[0] != "Harbor" {
		t.Fatalf("expected only Harbor free, got %v", free)
	}
}

func TestBootstrapIsIdempotent(t *testing.T) {
	t.Parallel()

	game, err := config.ParseGame([]byte(testGameYAML))
	if err != nil {
		t.Fatalf("parse game: %v", err)
	}
	blobs := memory.New()
	if err := blobs.Put(context.Background(), "turfwars", "map/base.png", []byte("existing"), "image/png"); err != nil {
		t.Fatalf("pre-populate bucket: %v", err)
	}
	store := &fakeStore{hasRows: true}
	if _, err := store.AppendArtifact(context.Background(), "maps/existing.png"); err != nil {
		t.Fatalf("pre-populate artifacts: %v", err)
	}
	rebuilder := &fakeRebuilder{}
	assets := fstest.MapFS{"map/base.png": {Data: []byte("new")}}

	if err := Bootstrap(context.Background(), blobs, store, game, rebuilder, "turfwars", assets); err != nil {
		t.Fatalf("bootstrap: %v", err)
	}

	data, err := blobs.Get(context.Background(), "turfwars", "map/base.png")
	if err != nil || string(data) != "existing" {
		t.Fatalf("expected existing asset untouched, got %q err=%v", data, err)
	}
	if len(store.seeded) != 0 {
		t.Fatalf("expected no reseed, got %v", store.seeded)
	}
	if rebuilder.calls != 0 {
		t.Fatalf("expected no rebuild with a populated artifact log, got %d", rebuilder.calls)
	}
}
