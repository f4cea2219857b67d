package engine

import (
	"context"
	"fmt"
	"sync"

	"github.com/louisbranch/turfwars/internal/domain"
)

type claimState int

const (
	claimAwaitTeam claimState = iota + 1
	claimAwaitDistrict
	claimAwaitConfirm
)

type claimSession struct {
	state    claimState
	team     domain.Team
	district string
}

// ClaimFlow negotiates a team acquiring an unowned district. One session per
// chat; a new start while a session exists restarts it from the beginning.
type ClaimFlow struct {
	deps Deps

	mu       sync.Mutex
	sessions map[int64]*claimSession
}

// NewClaimFlow builds a claim flow.
func NewClaimFlow(deps Deps) *ClaimFlow {
	return &ClaimFlow{deps: deps, sessions: make(map[int64]*claimSession)}
}

// Handle consumes one inbound message for chatID. It reports false when the
// message neither starts nor continues a claim negotiation; validation
// failures return an error and keep the session where it was so the player
// can answer again.
func (f *ClaimFlow) Handle(ctx context.Context, chatID int64, text string) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	r := f.deps.Renderer
	session := f.sessions[chatID]

	if text == r.ClaimStartLabel() {
		f.sessions[chatID] = &claimSession{state: claimAwaitTeam}
		prompt := r.ClaimChooseTeam()
		keyboard := r.ChooseKeyboard(f.deps.Teams.TeamNames())
		return true, f.deps.Responder.Reply(ctx, chatID, prompt, keyboard)
	}
	if session == nil {
		return false, nil
	}
	if text == r.CancelLabel() {
		delete(f.sessions, chatID)
		return true, f.deps.Responder.Reply(ctx, chatID, r.Canceled(), r.DefaultKeyboard("bank"))
	}

	switch session.state {
	case claimAwaitTeam:
		team, err := f.deps.Teams.TeamByName(text)
		if err != nil {
			return true, err
		}
		session.team = team
		session.state = claimAwaitDistrict
		free, err := f.deps.Ownership.FreeDistrictNames(ctx)
		if err != nil {
			return true, err
		}
		prompt := r.ClaimChooseDistrict(team.Name)
		return true, f.deps.Responder.Reply(ctx, chatID, prompt, r.ChooseKeyboard(free))
	case claimAwaitDistrict:
		if session.team.ID == 0 {
			return true, ErrSessionCorrupted
		}
		free, err := f.deps.Ownership.FreeDistrictNames(ctx)
		if err != nil {
			return true, err
		}
		if !contains(free, text) {
			return true, fmt.Errorf("%q: %w", text, domain.ErrUnknownDistrict)
		}
		session.district = text
		session.state = claimAwaitConfirm
		prompt := r.ClaimConfirm(session.team.Name, session.district)
		return true, f.deps.Responder.Reply(ctx, chatID, prompt, r.ConfirmKeyboard())
	case claimAwaitConfirm:
		if session.team.ID == 0 || session.district == "" {
			return true, ErrSessionCorrupted
		}
		if text != r.ConfirmLabel() {
			return true, fmt.Errorf("unexpected confirmation reply %q", text)
		}
		if err := f.deps.Ownership.Transfer(ctx, session.district, session.team.ID); err != nil {
			return true, err
		}
		delete(f.sessions, chatID)
		done := r.ClaimDone(session.team.Name, session.district)
		if err := f.deps.Responder.Reply(ctx, chatID, done, r.DefaultKeyboard("bank")); err != nil {
			return true, err
		}
		f.deps.Notifier.Broadcast(r.ClaimAnnouncement(session.team.Name, session.district), session.team.ID)
		f.deps.Notifier.Notify(session.team.ChannelID, r.ClaimOwnerNotice(session.district))
		return true, f.deps.Responder.ReplyMap(ctx, chatID)
	default:
		return true, ErrSessionCorrupted
	}
}

// Cancel drops any session for chatID without replying. Used when the chat is
// reset from outside the flow.
func (f *ClaimFlow) Cancel(chatID int64) {
	f.mu.Lock()
	defer f.mu.Unlock()
	delete(f.sessions, chatID)
}

func contains(names []string, want string) bool {
	for _, name := range names {
		if name == want {
			return true
		}
	}
	return false
}
