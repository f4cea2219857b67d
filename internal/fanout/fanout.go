// Package fanout broadcasts outcome notifications to team channels as
// fire-and-forget sends kept off the awaited critical path.
package fanout

import (
	"context"
	"log"
	"sync"
	"time"

	"github.com/louisbranch/turfwars/internal/domain"
)

const sendTimeout = 15 * time.Second

// TextSender is the outbound side of the messaging transport the fanout
// needs.
type TextSender interface {
	SendText(ctx context.Context, channelID int64, text string, keyboard [][]string) error
}

// Fanout delivers notifications to team channels. Every send runs in its own
// supervised goroutine; failures are logged and swallowed, never retried, and
// nothing orders deliveries across channels.
type Fanout struct {
	sender TextSender
	teams  []domain.Team
	wg     sync.WaitGroup
}

// New wires a fanout over the full team list.
func New(sender TextSender, teams []domain.Team) *Fanout {
	return &Fanout{sender: sender, teams: teams}
}

// Broadcast sends text to every team channel not excluded. It returns without
// waiting for any delivery.
func (f *Fanout) Broadcast(text string, exclude ...domain.TeamID) {
	excluded := make(map[domain.TeamID]bool, len(exclude))
	for _, teamID := range exclude {
		excluded[teamID] = true
	}
	for _, team := range f.teams {
		if excluded[team.ID] {
			continue
		}
		f.Notify(team.ChannelID, text)
	}
}

// Notify sends text to one channel without waiting for the delivery.
func (f *Fanout) Notify(channelID int64, text string) {
	f.wg.Add(1)
	go func() {
		defer f.wg.Done()
		ctx, cancel := context.WithTimeout(context.Background(), sendTimeout)
		defer cancel()
		if err := f.sender.SendText(ctx, channelID, text, nil); err != nil {
			log.Printf("notification to channel %d failed: %v", channelID, err)
		}
	}()
}

// Wait blocks until every in-flight send has finished. Used on shutdown and
// in tests; the game never waits on it mid-flow.
func (f *Fanout) Wait() {
	f.wg.Wait()
}
