// Package domain holds the core territory-control game model shared by the
// negotiation engine, the ownership service, and storage implementations.
package domain

import (
	"errors"
	"time"
)

var (
	// ErrUnknownDistrict indicates a district name has no matching record.
	ErrUnknownDistrict = errors.New("unknown district")
	// ErrUnknownTeam indicates a team name or id has no matching record.
	ErrUnknownTeam = errors.New("unknown team")
	// ErrNoArtifact indicates the map artifact log is empty.
	ErrNoArtifact = errors.New("no map artifact")
	// ErrMissingAsset indicates a required map asset is absent from the blob store.
	ErrMissingAsset = errors.New("missing map asset")
)

// TeamID identifies one team. It doubles as the team's channel id on the
// messaging platform, matching how teams are provisioned.
type TeamID int64

// District is one unit of territory, owned by at most one team. District
// masks form a non-overlapping partition of the map canvas.
type District struct {
	ID           int64
	Name         string
	MaskAssetRef string
	Owner        *TeamID
}

// Owned reports whether the district currently has an owner.
func (d District) Owned() bool {
	return d.Owner != nil
}

// Team is one playing team bound to a dedicated channel.
type Team struct {
	ID                  TeamID
	Name                string
	ChannelID           int64
	ColorHex            string
	ColorEmoji          string
	DefaultDistrictName string
}

// MapArtifact is one rendered, versioned ownership-map image. Rows are
// append-only; the row with the greatest CreatedAt is current. ExternalHandle
// stays nil until the artifact has been delivered once and is never reused
// across versions.
type MapArtifact struct {
	ID             int64
	CreatedAt      time.Time
	ImageAssetRef  string
	ExternalHandle *string
}

// TeamStanding aggregates ownership counts for one team holding at least one
// district.
type TeamStanding struct {
	TeamID        TeamID
	DisplayName   string
	ColorEmoji    string
	DistrictCount int
}
