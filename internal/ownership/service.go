// Package ownership exposes the authoritative district ownership operations.
// Every successful transfer synchronously rebuilds the ownership map so the
// artifact log never lags the table by more than one in-flight failure.
package ownership

import (
	"context"
	"errors"
	"fmt"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"github.com/louisbranch/turfwars/internal/domain"
	"github.com/louisbranch/turfwars/internal/storage"
)

// Rebuilder regenerates the rendered ownership map from current state.
type Rebuilder interface {
	Rebuild(ctx context.Context) error
}

// TeamDirectory resolves team identity for summary rows. Implemented by the
// game config.
type TeamDirectory interface {
	TeamByID(id domain.TeamID) (domain.Team, error)
}

// Service is the single writer of district ownership.
type Service struct {
	store     storage.DistrictStore
	rebuilder Rebuilder
	teams     TeamDirectory
	tracer    trace.Tracer
}

// NewService wires an ownership service.
func NewService(store storage.DistrictStore, rebuilder Rebuilder, teams TeamDirectory) *Service {
	return &Service{
		store:     store,
		rebuilder: rebuilder,
		teams:     teams,
		tracer:    otel.Tracer("turfwars/ownership"),
	}
}

// Transfer sets the district's owner and rebuilds the map as part of the same
// logical operation. The two steps are not transactional: when the rebuild
// fails the ownership write stays and the error is propagated, leaving the
// next map read to surface the missing fresh artifact.
//
// Nothing serializes concurrent transfers of the same district; two racing
// flows both succeed with a last-write-wins outcome and two rebuilds.
func (s *Service) Transfer(ctx context.Context, districtName string, newOwner domain.TeamID) error {
	ctx, span := s.tracer.Start(ctx, "ownership.Transfer",
		trace.WithAttributes(
			attribute.String("district", districtName),
			attribute.Int64("team", int64(newOwner)),
		))
	defer span.End()

	if err := s.store.SetDistrictOwner(ctx, districtName, newOwner); err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return fmt.Errorf("district %q: %w", districtName, domain.ErrUnknownDistrict)
		}
		return fmt.Errorf("transfer %s to team %d: %w", districtName, newOwner, err)
	}
	if err := s.rebuilder.Rebuild(ctx); err != nil {
		return fmt.Errorf("rebuild after transfer of %s: %w", districtName, err)
	}
	return nil
}

// FreeDistrictNames returns unowned district names in stable id order.
func (s *Service) FreeDistrictNames(ctx context.Context) ([]string, error) {
	return s.store.FreeDistrictNames(ctx)
}

// DistrictNamesOwnedBy returns the team's district names in stable id order.
func (s *Service) DistrictNamesOwnedBy(ctx context.Context, teamID domain.TeamID) ([]string, error) {
	return s.store.DistrictNamesOwnedBy(ctx, teamID)
}

// OwnershipSummary aggregates district counts for every team holding at least
// one district.
func (s *Service) OwnershipSummary(ctx context.Context) (map[domain.TeamID]domain.TeamStanding, error) {
	counts, err := s.store.OwnerCounts(ctx)
	if err != nil {
		return nil, fmt.Errorf("owner counts: %w", err)
	}

	standings := make(map[domain.TeamID]domain.TeamStanding, len(counts))
	for teamID, count := range counts {
		team, err := s.teams.TeamByID(teamID)
		if err != nil {
			return nil, fmt.Errorf("summary owner %d: %w", teamID, err)
		}
		standings[teamID] = domain.TeamStanding{
			TeamID:        teamID,
			DisplayName:   team.Name,
			ColorEmoji:    team.ColorEmoji,
			DistrictCount: count,
		}
	}
	return standings, nil
}
