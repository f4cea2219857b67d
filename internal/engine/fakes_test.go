package engine

import (
	"context"
	"fmt"
	"sync"

	"github.com/louisbranch/turfwars/internal/domain"
	"github.com/louisbranch/turfwars/internal/render"
)

type transferCall struct {
	district string
	owner    domain.TeamID
}

type fakeOwnership struct {
	mu          sync.Mutex
	order       []string
	owners      map[string]domain.TeamID // 0 means unowned
	transferErr error
	transfers   []transferCall
}

func newFakeOwnership() *fakeOwnership {
	return &fakeOwnership{owners: make(map[string]domain.TeamID)}
}

func (f *fakeOwnership) addDistrict(name string, owner domain.TeamID) {
	f.order = append(f.order, name)
	f.owners[name] = owner
}

func (f *fakeOwnership) Transfer(ctx context.Context, districtName string, newOwner domain.TeamID) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.transferErr != nil {
		return f.transferErr
	}
	if _, ok := f.owners[districtName]; !ok {
		return fmt.Errorf("%q: %w", districtName, domain.ErrUnknownDistrict)
	}
	f.owners[districtName] = newOwner
	f.transfers = append(f.transfers, transferCall{district: districtName, owner: newOwner})
	return nil
}

func (f *fakeOwnership) FreeDistrictNames(ctx context.Context) ([]string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var free []string
	for _, name := range f.order {
		if f.owners[name] == 0 {
			free = append(free, name)
		}
	}
	return free, nil
}

func (f *fakeOwnership) DistrictNamesOwnedBy(ctx context.Context, teamID domain.TeamID) ([]string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var owned []string
	for _, name := range f.order {
		if f.owners[name] == teamID {
			owned = append(owned, name)
		}
	}
	return owned, nil
}

type fakeTeams struct {
	teams []domain.Team
}

func (f *fakeTeams) TeamByName(name string) (domain.Team, error) {
	for _, team := range f.teams {
		if team.Name == name {
			return team, nil
		}
	}
	return domain.Team{}, fmt.Errorf("%q: %w", name, domain.ErrUnknownTeam)
}

func (f *fakeTeams) TeamNames() []string {
	names := make([]string, 0, len(f.teams))
	for _, team := range f.teams {
		names = append(names, team.Name)
	}
	return names
}

type notifyCall struct {
	channelID int64
	text      string
}

type broadcastCall struct {
	text    string
	exclude []domain.TeamID
}

type fakeNotifier struct {
	mu         sync.Mutex
	notifies   []notifyCall
	broadcasts []broadcastCall
}

func (f *fakeNotifier) Notify(channelID int64, text string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.notifies = append(f.notifies, notifyCall{channelID: channelID, text: text})
}

func (f *fakeNotifier) Broadcast(text string, exclude ...domain.TeamID) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.broadcasts = append(f.broadcasts, broadcastCall{text: text, exclude: exclude})
}

type replyCall struct {
	channelID int64
	text      string
	keyboard  render.Keyboard
}

type fakeResponder struct {
	mu         sync.Mutex
	replies    []replyCall
	mapReplies []int64
	replyErr   error
}

func (f *fakeResponder) Reply(ctx context.Context, channelID int64, text string, keyboard render.Keyboard) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.replyErr != nil {
		return f.replyErr
	}
	f.replies = append(f.replies, replyCall{channelID: channelID, text: text, keyboard: keyboard})
	return nil
}

func (f *fakeResponder) ReplyMap(ctx context.Context, channelID int64) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.mapReplies = append(f.mapReplies, channelID)
	return nil
}

func (f *fakeResponder) lastReply() replyCall {
	f.mu.Lock()
	defer f.mu.Unlock()
	if len(f.replies) == 0 {
		return replyCall{}
	}
	return f.replies[len(f.replies)-1]
}
