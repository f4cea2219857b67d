// Package sqlite provides SQLite-backed persistence for the district
// ownership table and the map artifact log.
package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"path/filepath"
	"strings"
	"time"

	_ "modernc.org/sqlite"

	"github.com/louisbranch/turfwars/internal/domain"
	"github.com/louisbranch/turfwars/internal/platform/storage/sqlitemigrate"
	"github.com/louisbranch/turfwars/internal/storage"
	"github.com/louisbranch/turfwars/internal/storage/sqlite/migrations"
)

// Store provides SQLite-backed persistence for turfwars state.
type Store struct {
	sqlDB *sql.DB
	clock func() time.Time
}

func toMillis(value time.Time) int64 {
	return value.UTC().UnixMilli()
}

func fromMillis(value int64) time.Time {
	return time.UnixMilli(value).UTC()
}

// Open opens a turfwars SQLite store at the provided path.
func Open(path string) (*Store, error) {
	if strings.TrimSpace(path) == "" {
		return nil, fmt.Errorf("storage path is required")
	}

	cleanPath := filepath.Clean(path)
	dsn := cleanPath + "?_journal_mode=WAL&_busy_timeout=5000&_synchronous=NORMAL"
	sqlDB, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("open sqlite db: %w", err)
	}
	if err := sqlDB.Ping(); err != nil {
		_ = sqlDB.Close()
		return nil, fmt.Errorf("ping sqlite db: %w", err)
	}

	store := &Store{sqlDB: sqlDB, clock: time.Now}
	if err := sqlitemigrate.ApplyMigrations(sqlDB, migrations.FS); err != nil {
		_ = sqlDB.Close()
		return nil, fmt.Errorf("run migrations: %w", err)
	}
	return store, nil
}

// Close closes the underlying SQLite database.
func (s *Store) Close() error {
	if s == nil || s.sqlDB == nil {
		return nil
	}
	return s.sqlDB.Close()
}

// SeedDistricts inserts districts when the table is empty.
func (s *Store) SeedDistricts(ctx context.Context, districts []domain.District) (bool, error) {
	if err := ctx.Err(); err != nil {
		return false, err
	}
	if s == nil || s.sqlDB == nil {
		return false, fmt.Errorf("storage is not configured")
	}

	tx, err := s.sqlDB.BeginTx(ctx, nil)
	if err != nil {
		return false, fmt.Errorf("begin seed transaction: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	var count int
	if err := tx.QueryRowContext(ctx, "SELECT COUNT(1) FROM districts").Scan(&count); err != nil {
		return false, fmt.Errorf("count districts: %w", err)
	}
	if count > 0 {
		return false, nil
	}

	for _, district := range districts {
		var owner any
		if district.Owner != nil {
			owner = int64(*district.Owner)
		}
		if _, err := tx.ExecContext(ctx,
			"INSERT INTO districts (id, name, mask_asset_ref, owner_team_id) VALUES (?, ?, ?, ?)",
			district.ID, district.Name, district.MaskAssetRef, owner,
		); err != nil {
			return false, fmt.Errorf("insert district %s: %w", district.Name, err)
		}
	}
	if err := tx.Commit(); err != nil {
		return false, fmt.Errorf("commit seed transaction: %w", err)
	}
	return true, nil
}

// ListDistricts returns every district in stable id order.
func (s *Store) ListDistricts(ctx context.Context) ([]domain.District, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	rows, err := s.sqlDB.QueryContext(ctx,
		"SELECT id, name, mask_asset_ref, owner_team_id FROM districts ORDER BY id ASC")
	if err != nil {
		return nil, fmt.Errorf("list districts: %w", err)
	}
	defer rows.Close()

	var districts []domain.District
	for rows.Next() {
		var district domain.District
		var owner sql.NullInt64
		if err := rows.Scan(&district.ID, &district.Name, &district.MaskAssetRef, &owner); err != nil {
			return nil, fmt.Errorf("scan district: %w", err)
		}
		if owner.Valid {
			teamID := domain.TeamID(owner.Int64)
			district.Owner = &teamID
		}
		districts = append(districts, district)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate districts: %w", err)
	}
	return districts, nil
}

// FreeDistrictNames returns unowned district names in stable id order.
func (s *Store) FreeDistrictNames(ctx context.Context) ([]string, error) {
	return s.districtNames(ctx,
		"SELECT name FROM districts WHERE owner_team_id IS NULL ORDER BY id ASC")
}

// DistrictNamesOwnedBy returns the team's district names in stable id order.
func (s *Store) DistrictNamesOwnedBy(ctx context.Context, teamID domain.TeamID) ([]string, error) {
	return s.districtNames(ctx,
		"SELECT name FROM districts WHERE owner_team_id = ? ORDER BY id ASC", int64(teamID))
}

func (s *Store) districtNames(ctx context.Context, query string, args ...any) ([]string, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	rows, err := s.sqlDB.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query district names: %w", err)
	}
	defer rows.Close()

	var names []string
	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			return nil, fmt.Errorf("scan district name: %w", err)
		}
		names = append(names, name)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate district names: %w", err)
	}
	return names, nil
}

// SetDistrictOwner updates the owner of the named district.
func (s *Store) SetDistrictOwner(ctx context.Context, districtName string, owner domain.TeamID) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	result, err := s.sqlDB.ExecContext(ctx,
		"UPDATE districts SET owner_team_id = ? WHERE name = ?", int64(owner), districtName)
	if err != nil {
		return fmt.Errorf("set district owner: %w", err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("set district owner rows affected: %w", err)
	}
	if affected == 0 {
		return fmt.Errorf("district %q: %w", districtName, storage.ErrNotFound)
	}
	return nil
}

// OwnerCounts returns district counts per owning team.
func (s *Store) OwnerCounts(ctx context.Context) (map[domain.TeamID]int, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	rows, err := s.sqlDB.QueryContext(ctx,
		"SELECT owner_team_id, COUNT(1) FROM districts WHERE owner_team_id IS NOT NULL GROUP BY owner_team_id")
	if err != nil {
		return nil, fmt.Errorf("count owned districts: %w", err)
	}
	defer rows.Close()

	counts := make(map[domain.TeamID]int)
	for rows.Next() {
		var teamID int64
		var count int
		if err := rows.Scan(&teamID, &count); err != nil {
			return nil, fmt.Errorf("scan owner count: %w", err)
		}
		counts[domain.TeamID(teamID)] = count
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate owner counts: %w", err)
	}
	return counts, nil
}

// AppendArtifact appends a new artifact row with a nil external handle.
// Creation times are forced strictly past the previous maximum so the newest
// row is always unambiguous.
func (s *Store) AppendArtifact(ctx context.Context, imageAssetRef string) (domain.MapArtifact, error) {
	if err := ctx.Err(); err != nil {
		return domain.MapArtifact{}, err
	}
	if strings.TrimSpace(imageAssetRef) == "" {
		return domain.MapArtifact{}, fmt.Errorf("image asset ref is required")
	}

	tx, err := s.sqlDB.BeginTx(ctx, nil)
	if err != nil {
		return domain.MapArtifact{}, fmt.Errorf("begin artifact transaction: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	createdAt := toMillis(s.now())
	var maxCreatedAt sql.NullInt64
	if err := tx.QueryRowContext(ctx, "SELECT MAX(created_at) FROM map_artifacts").Scan(&maxCreatedAt); err != nil {
		return domain.MapArtifact{}, fmt.Errorf("max artifact created_at: %w", err)
	}
	if maxCreatedAt.Valid && createdAt <= maxCreatedAt.Int64 {
		createdAt = maxCreatedAt.Int64 + 1
	}

	result, err := tx.ExecContext(ctx,
		"INSERT INTO map_artifacts (created_at, image_asset_ref) VALUES (?, ?)",
		createdAt, imageAssetRef)
	if err != nil {
		return domain.MapArtifact{}, fmt.Errorf("insert artifact: %w", err)
	}
	id, err := result.LastInsertId()
	if err != nil {
		return domain.MapArtifact{}, fmt.Errorf("artifact insert id: %w", err)
	}
	if err := tx.Commit(); err != nil {
		return domain.MapArtifact{}, fmt.Errorf("commit artifact transaction: %w", err)
	}

	return domain.MapArtifact{
		ID:            id,
		CreatedAt:     fromMillis(createdAt),
		ImageAssetRef: imageAssetRef,
	}, nil
}

// CurrentArtifact returns the newest artifact row.
func (s *Store) CurrentArtifact(ctx context.Context) (domain.MapArtifact, error) {
	if err := ctx.Err(); err != nil {
		return domain.MapArtifact{}, err
	}
	row := s.sqlDB.QueryRowContext(ctx,
		"SELECT id, created_at, image_asset_ref, external_handle FROM map_artifacts ORDER BY created_at DESC, id DESC LIMIT 1")

	var artifact domain.MapArtifact
	var createdAt int64
	var handle sql.NullString
	if err := row.Scan(&artifact.ID, &createdAt, &artifact.ImageAssetRef, &handle); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return domain.MapArtifact{}, storage.ErrNotFound
		}
		return domain.MapArtifact{}, fmt.Errorf("current artifact: %w", err)
	}
	artifact.CreatedAt = fromMillis(createdAt)
	if handle.Valid {
		artifact.ExternalHandle = &handle.String
	}
	return artifact, nil
}

// SetArtifactHandleIfCurrent records the handle only while the identified row
// is still the newest one.
func (s *Store) SetArtifactHandleIfCurrent(ctx context.Context, artifactID int64, handle string) (bool, error) {
	if err := ctx.Err(); err != nil {
		return false, err
	}
	result, err := s.sqlDB.ExecContext(ctx, `
UPDATE map_artifacts SET external_handle = ?
WHERE id = ?
  AND id = (SELECT id FROM map_artifacts ORDER BY created_at DESC, id DESC LIMIT 1)`,
		handle, artifactID)
	if err != nil {
		return false, fmt.Errorf("set artifact handle: %w", err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("set artifact handle rows affected: %w", err)
	}
	return affected > 0, nil
}

func (s *Store) now() time.Time {
	if s.clock == nil {
		return time.Now()
	}
	return s.clock()
}
