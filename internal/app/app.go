// Package app wires the negotiation flows, map delivery, and channel routing
// into the running bot.
package app

import (
	"context"
	"fmt"
	"log"
	"sort"

	"github.com/louisbranch/turfwars/internal/config"
	"github.com/louisbranch/turfwars/internal/domain"
	"github.com/louisbranch/turfwars/internal/engine"
	"github.com/louisbranch/turfwars/internal/mapart"
	"github.com/louisbranch/turfwars/internal/render"
	"github.com/louisbranch/turfwars/internal/transport"
)

// MapCache is the slice of the artifact cache the app delivers from.
type MapCache interface {
	Get(ctx context.Context) (mapart.Payload, error)
	RecordHandle(ctx context.Context, artifactID int64, handle string) error
}

// Standings aggregates the ownership counts for the map caption.
type Standings interface {
	OwnershipSummary(ctx context.Context) (map[domain.TeamID]domain.TeamStanding, error)
}

// Notifier delivers fire-and-forget notices outside the awaited reply path.
type Notifier interface {
	Notify(channelID int64, text string)
}

// App routes inbound chat events to the negotiation flows and serves the
// shared commands every channel understands.
type App struct {
	game      *config.Game
	renderer  *render.Renderer
	messenger transport.Messenger
	maps      MapCache
	standings Standings
	notifier  Notifier

	claim *engine.ClaimFlow
	raid  *engine.RaidFlow
}

// New assembles the app and its negotiation flows.
func New(game *config.Game, renderer *render.Renderer, messenger transport.Messenger, maps MapCache, standings Standings, ownership engine.Ownership, notifier engine.Notifier) *App {
	a := &App{
		game:      game,
		renderer:  renderer,
		messenger: messenger,
		maps:      maps,
		standings: standings,
		notifier:  notifier,
	}
	deps := engine.Deps{
		Ownership: ownership,
		Teams:     game,
		Notifier:  notifier,
		Responder: a,
		Renderer:  renderer,
	}
	a.claim = engine.NewClaimFlow(deps)
	a.raid = engine.NewRaidFlow(deps)
	return a
}

// Run consumes events from the source until ctx is canceled. Events are
// handled one at a time; the flows assume no two messages of the same chat
// interleave.
func (a *App) Run(ctx context.Context, source transport.Source) error {
	events, err := source.Events(ctx)
	if err != nil {
		return fmt.Errorf("open event source: %w", err)
	}
	for event := range events {
		a.HandleEvent(ctx, event)
	}
	return ctx.Err()
}

// HandleEvent routes one inbound message. Messages from unknown channels are
// dropped.
func (a *App) HandleEvent(ctx context.Context, event transport.Event) {
	role, ok := a.game.ChannelRole(event.ChannelID)
	if !ok {
		log.Printf("ignoring message from unknown channel %d", event.ChannelID)
		return
	}

	r := a.renderer
	switch event.Text {
	case r.ShowMapLabel():
		if err := a.ReplyMap(ctx, event.ChannelID); err != nil {
			a.reportError(ctx, event.ChannelID, err)
		}
		return
	case r.GameMechanicsLabel():
		if err := a.Reply(ctx, event.ChannelID, r.GameMechanics(), r.DefaultKeyboard(string(role))); err != nil {
			a.reportError(ctx, event.ChannelID, err)
		}
		return
	}

	switch role {
	case config.RoleBank:
		handled, err := a.claim.Handle(ctx, event.ChannelID, event.Text)
		if err != nil {
			a.reportError(ctx, event.ChannelID, err)
			return
		}
		if handled {
			return
		}
	case config.RoleFight:
		handled, err := a.raid.Handle(ctx, event.ChannelID, event.Text)
		if err != nil {
			a.reportError(ctx, event.ChannelID, err)
			return
		}
		if handled {
			return
		}
	}

	if err := a.Reply(ctx, event.ChannelID, r.Help(string(role)), r.DefaultKeyboard(string(role))); err != nil {
		a.reportError(ctx, event.ChannelID, err)
	}
}

// Reply implements engine.Responder.
func (a *App) Reply(ctx context.Context, channelID int64, text string, keyboard render.Keyboard) error {
	return a.messenger.SendText(ctx, channelID, text, keyboard)
}

// ReplyMap implements engine.Responder. It delivers the current ownership map
// with its standings caption, reusing the recorded delivery handle when one
// exists and recording the handle issued by a fresh upload.
func (a *App) ReplyMap(ctx context.Context, channelID int64) error {
	payload, err := a.maps.Get(ctx)
	if err != nil {
		return fmt.Errorf("map payload: %w", err)
	}

	caption, err := a.mapCaption(ctx, channelID)
	if err != nil {
		return err
	}

	role, _ := a.game.ChannelRole(channelID)
	image := transport.ImagePayload{Bytes: payload.Bytes, Handle: payload.Handle}
	handle, err := a.messenger.SendImage(ctx, channelID, image, caption, a.renderer.DefaultKeyboard(string(role)))
	if err != nil {
		return fmt.Errorf("send map: %w", err)
	}
	if payload.NeedsHandleUpdate && handle != "" {
		if err := a.maps.RecordHandle(ctx, payload.ArtifactID, handle); err != nil {
			return err
		}
	}
	return nil
}

func (a *App) mapCaption(ctx context.Context, channelID int64) (string, error) {
	standings, err := a.standings.OwnershipSummary(ctx)
	if err != nil {
		return "", fmt.Errorf("standings: %w", err)
	}

	var viewer *domain.TeamStanding
	role, _ := a.game.ChannelRole(channelID)
	if role == config.RoleTeam {
		if standing, ok := standings[domain.TeamID(channelID)]; ok {
			viewer = &standing
		}
	}

	others := make([]domain.TeamStanding, 0, len(standings))
	for teamID, standing := range standings {
		if viewer != nil && teamID == viewer.TeamID {
			continue
		}
		others = append(others, standing)
	}
	sort.Slice(others, func(i, j int) bool { return others[i].DisplayName < others[j].DisplayName })

	return a.renderer.MapCaption(viewer, others), nil
}

// reportError answers the failing chat with the generic error copy and
// forwards the cause to the admin channel.
func (a *App) reportError(ctx context.Context, channelID int64, cause error) {
	log.Printf("channel %d: %v", channelID, cause)
	role, _ := a.game.ChannelRole(channelID)
	if err := a.Reply(ctx, channelID, a.renderer.ErrorMessage(), a.renderer.DefaultKeyboard(string(role))); err != nil {
		log.Printf("error reply to channel %d failed: %v", channelID, err)
	}
	a.notifier.Notify(a.game.AdminChannelID, fmt.Sprintf("channel %d: %v", channelID, cause))
}
