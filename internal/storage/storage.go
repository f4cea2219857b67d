// Package storage defines the persistence contracts for the authoritative
// ownership table and the append-only map artifact log.
package storage

import (
	"context"
	"errors"

	"github.com/louisbranch/turfwars/internal/domain"
)

// ErrNotFound indicates a requested record is missing.
var ErrNotFound = errors.New("record not found")

// DistrictStore persists the district ownership table, the single source of
// truth for who owns what.
type DistrictStore interface {
	// SeedDistricts inserts the given districts when the table is empty and
	// reports whether seeding happened.
	SeedDistricts(ctx context.Context, districts []domain.District) (bool, error)
	// ListDistricts returns every district in stable id order.
	ListDistricts(ctx context.Context) ([]domain.District, error)
	// FreeDistrictNames returns the names of unowned districts in stable id order.
	FreeDistrictNames(ctx context.Context) ([]string, error)
	// DistrictNamesOwnedBy returns the names of districts owned by the team in
	// stable id order.
	DistrictNamesOwnedBy(ctx context.Context, teamID domain.TeamID) ([]string, error)
	// SetDistrictOwner updates the owner of the named district. It returns
	// ErrNotFound when no district has that name.
	SetDistrictOwner(ctx context.Context, districtName string, owner domain.TeamID) error
	// OwnerCounts returns per-team district counts for teams owning at least
	// one district.
	OwnerCounts(ctx context.Context) (map[domain.TeamID]int, error)
}

// ArtifactStore persists the append-only map artifact log. The row with the
// greatest creation time is the current artifact.
type ArtifactStore interface {
	// AppendArtifact appends a new artifact row with a nil external handle and
	// returns the stored record. Creation times are kept strictly increasing.
	AppendArtifact(ctx context.Context, imageAssetRef string) (domain.MapArtifact, error)
	// CurrentArtifact returns the newest artifact row, or ErrNotFound when the
	// log is empty.
	CurrentArtifact(ctx context.Context) (domain.MapArtifact, error)
	// SetArtifactHandleIfCurrent records the external handle on the identified
	// artifact only while it is still the newest row, reporting whether the
	// write happened. A stale id is ignored, never applied to a newer row.
	SetArtifactHandleIfCurrent(ctx context.Context, artifactID int64, handle string) (bool, error)
}

// Store combines both persistence contracts, as implemented by the SQLite
// backend.
type Store interface {
	DistrictStore
	ArtifactStore
}
