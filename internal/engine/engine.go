// Package engine drives the multi-step negotiations that move district
// ownership: the claim flow for unowned districts and the raid flow for
// contested ones. Each flow keeps one ephemeral session per chat; sessions
// are never persisted and die with the process, an accepted limitation of the
// game.
package engine

import (
	"context"
	"errors"

	"github.com/louisbranch/turfwars/internal/domain"
	"github.com/louisbranch/turfwars/internal/render"
)

// ErrSessionCorrupted reports a continuation step running without the state a
// prior step must have captured. That is a programming error, not a player
// mistake, and it fails loudly.
var ErrSessionCorrupted = errors.New("negotiation session is missing prior step state")

// Ownership is the slice of the ownership service the flows need.
type Ownership interface {
	Transfer(ctx context.Context, districtName string, newOwner domain.TeamID) error
	FreeDistrictNames(ctx context.Context) ([]string, error)
	DistrictNamesOwnedBy(ctx context.Context, teamID domain.TeamID) ([]string, error)
}

// Teams resolves team identity from player input. An unknown name fails with
// a lookup error rather than silently no-oping.
type Teams interface {
	TeamByName(name string) (domain.Team, error)
	TeamNames() []string
}

// Notifier delivers fire-and-forget outcome notifications.
type Notifier interface {
	Notify(channelID int64, text string)
	Broadcast(text string, exclude ...domain.TeamID)
}

// Responder replies into the negotiating chat. ReplyMap delivers the current
// ownership map with its standings caption.
type Responder interface {
	Reply(ctx context.Context, channelID int64, text string, keyboard render.Keyboard) error
	ReplyMap(ctx context.Context, channelID int64) error
}

// Deps bundles the collaborators injected into both flows.
type Deps struct {
	Ownership Ownership
	Teams     Teams
	Notifier  Notifier
	Responder Responder
	Renderer  *render.Renderer
}
