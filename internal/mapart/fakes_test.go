package mapart

import (
	"context"
	"sync"
	"time"

	"github.com/louisbranch/turfwars/internal/domain"
	"github.com/louisbranch/turfwars/internal/storage"
)

// fakeStore is an in-memory storage.Store for cache tests.
type fakeStore struct {
	mu        sync.Mutex
	districts []domain.District
	artifacts []domain.MapArtifact
	nextID    int64
}

func (f *fakeStore) SeedDistricts(ctx context.Context, districts []domain.District) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if len(f.districts) > 0 {
		return false, nil
	}
	f.districts = append(f.districts, districts...)
	return true, nil
}

func (f *fakeStore) ListDistricts(ctx context.Context) ([]domain.District, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]domain.District, len(f.districts))
	copy(out, f.districts)
	return out, nil
}

func (f *fakeStore) FreeDistrictNames(ctx context.Context) ([]string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var names []string
	for _, district := range f.districts {
		if district.Owner == nil {
			names = append(names, district.Name)
		}
	}
	return names, nil
}

func (f *fakeStore) DistrictNamesOwnedBy(ctx context.Context, teamID domain.TeamID) ([]string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var names []string
	for _, district := range f.districts {
		if district.Owner != nil && *district.Owner == teamID {
			names = append(names, district.Name)
		}
	}
	return names, nil
}

func (f *fakeStore) SetDistrictOwner(ctx context.Context, districtName string, owner domain.TeamID) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	for i := range f.districts {
		if f.districts[i].Name == districtName {
			value := owner
			f.districts[i].Owner = &value
			return nil
		}
	}
	return storage.ErrNotFound
}

func (f *fakeStore) OwnerCounts(ctx context.Context) (map[domain.TeamID]int, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	counts := make(map[domain.TeamID]int)
	for _, district := range f.districts {
		if district.Owner != nil {
			counts[*district.Owner]++
		}
	}
	return counts, nil
}

func (f *fakeStore) AppendArtifact(ctx context.Context, imageAssetRef string) (domain.MapArtifact, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.nextID++
	createdAt := time.Unix(0, f.nextID*int64(time.Millisecond)).UTC()
	artifact := domain.MapArtifact{ID: f.nextID, CreatedAt: createdAt, ImageAssetRef: imageAssetRef}
	f.artifacts = append(f.artifacts, artifact)
	return artifact, nil
}

func (f *fakeStore) CurrentArtifact(ctx context.Context) (domain.MapArtifact, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if len(f.artifacts) == 0 {
		return domain.MapArtifact{}, storage.ErrNotFound
	}
	return f.artifacts[len(f.artifacts)-1], nil
}

func (f *fakeStore) SetArtifactHandleIfCurrent(ctx context.Context, artifactID int64, handle string) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if len(f.artifacts) == 0 {
		return false, nil
	}
	current := &f.artifacts[len(f.artifacts)-1]
	if current.ID != artifactID {
		return false, nil
	}
	value := handle
	current.ExternalHandle = &value
	return true, nil
}

// fakePalette maps team ids to hex colors.
type fakePalette map[domain.TeamID]string

func (f fakePalette) TeamColorHex(teamID domain.TeamID) (string, bool) {
	hex, ok := f[teamID]
	return hex, ok
}
