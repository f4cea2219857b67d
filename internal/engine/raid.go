package engine

import (
	"context"
	"fmt"
	"sync"

	"github.com/louisbranch/turfwars/internal/domain"
)

type raidState int

const (
	raidAwaitAssaulter raidState = iota + 1
	raidAwaitDefender
	raidAwaitResult
	raidAwaitDistrict
)

type raidSession struct {
	state     raidState
	assaulter domain.Team
	defender  domain.Team
	winner    domain.Team
	loser     domain.Team
}

// RaidFlow negotiates one team taking a district from another after a fight.
// The flow records the outcome; the fight itself happens outside the chat.
type RaidFlow struct {
	deps Deps

	mu       sync.Mutex
	sessions map[int64]*raidSession
}

// NewRaidFlow builds a raid flow.
func NewRaidFlow(deps Deps) *RaidFlow {
	return &RaidFlow{deps: deps, sessions: make(map[int64]*raidSession)}
}

// Handle consumes one inbound message for chatID. Same contract as the claim
// flow: false means the message is not part of a raid negotiation.
func (f *RaidFlow) Handle(ctx context.Context, chatID int64, text string) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	r := f.deps.Renderer
	session := f.sessions[chatID]

	if text == r.RaidStartLabel() {
		f.sessions[chatID] = &raidSession{state: raidAwaitAssaulter}
		prompt := r.RaidChooseAssaulter()
		keyboard := r.ChooseKeyboard(f.deps.Teams.TeamNames())
		return true, f.deps.Responder.Reply(ctx, chatID, prompt, keyboard)
	}
	if session == nil {
		return false, nil
	}
	if text == r.CancelLabel() {
		delete(f.sessions, chatID)
		return true, f.deps.Responder.Reply(ctx, chatID, r.Canceled(), r.DefaultKeyboard("fight"))
	}

	switch session.state {
	case raidAwaitAssaulter:
		team, err := f.deps.Teams.TeamByName(text)
		if err != nil {
			return true, err
		}
		session.assaulter = team
		session.state = raidAwaitDefender
		candidates := exclude(f.deps.Teams.TeamNames(), team.Name)
		prompt := r.RaidChooseDefender(team.Name)
		return true, f.deps.Responder.Reply(ctx, chatID, prompt, r.ChooseKeyboard(candidates))
	case raidAwaitDefender:
		if session.assaulter.ID == 0 {
			return true, ErrSessionCorrupted
		}
		team, err := f.deps.Teams.TeamByName(text)
		if err != nil {
			return true, err
		}
		if team.ID == session.assaulter.ID {
			return true, fmt.Errorf("defender %q is the assaulter", text)
		}
		session.defender = team
		session.state = raidAwaitResult
		f.deps.Notifier.Notify(team.ChannelID, r.RaidDefenderAlert(session.assaulter.Name))
		return true, f.replyResultPrompt(ctx, chatID, session)
	case raidAwaitResult:
		if session.assaulter.ID == 0 || session.defender.ID == 0 {
			return true, ErrSessionCorrupted
		}
		if text == r.NotifyDefenderLabel() {
			// Re-send only; the session does not move.
			f.deps.Notifier.Notify(session.defender.ChannelID, r.RaidDefenderAlert(session.assaulter.Name))
			return true, f.replyResultPrompt(ctx, chatID, session)
		}
		switch text {
		case session.assaulter.Name:
			session.winner, session.loser = session.assaulter, session.defender
		case session.defender.Name:
			session.winner, session.loser = session.defender, session.assaulter
		default:
			return true, fmt.Errorf("%q: %w", text, domain.ErrUnknownTeam)
		}
		session.state = raidAwaitDistrict
		spoils, err := f.deps.Ownership.DistrictNamesOwnedBy(ctx, session.loser.ID)
		if err != nil {
			return true, err
		}
		prompt := r.RaidChooseDistrict(session.winner.Name, session.loser.Name)
		return true, f.deps.Responder.Reply(ctx, chatID, prompt, r.ChooseKeyboard(spoils))
	case raidAwaitDistrict:
		if session.winner.ID == 0 || session.loser.ID == 0 {
			return true, ErrSessionCorrupted
		}
		spoils, err := f.deps.Ownership.DistrictNamesOwnedBy(ctx, session.loser.ID)
		if err != nil {
			return true, err
		}
		if !contains(spoils, text) {
			return true, fmt.Errorf("%q: %w", text, domain.ErrUnknownDistrict)
		}
		if err := f.deps.Ownership.Transfer(ctx, text, session.winner.ID); err != nil {
			return true, err
		}
		delete(f.sessions, chatID)
		done := r.RaidDone(session.winner.Name, session.loser.Name, text)
		if err := f.deps.Responder.Reply(ctx, chatID, done, r.DefaultKeyboard("fight")); err != nil {
			return true, err
		}
		announcement := r.RaidAnnouncement(session.winner.Name, session.loser.Name, text)
		f.deps.Notifier.Broadcast(announcement, session.winner.ID, session.loser.ID)
		f.deps.Notifier.Notify(session.winner.ChannelID, r.RaidWinnerNotice(text, session.loser.Name))
		f.deps.Notifier.Notify(session.loser.ChannelID, r.RaidLoserNotice(text, session.winner.Name))
		return true, f.deps.Responder.ReplyMap(ctx, chatID)
	default:
		return true, ErrSessionCorrupted
	}
}

// Cancel drops any session for chatID without replying.
func (f *RaidFlow) Cancel(chatID int64) {
	f.mu.Lock()
	defer f.mu.Unlock()
	delete(f.sessions, chatID)
}

func (f *RaidFlow) replyResultPrompt(ctx context.Context, chatID int64, session *raidSession) error {
	r := f.deps.Renderer
	prompt := r.RaidResultPrompt(session.assaulter.Name, session.defender.Name)
	options := []string{session.assaulter.Name, session.defender.Name, r.NotifyDefenderLabel()}
	return f.deps.Responder.Reply(ctx, chatID, prompt, r.ChooseKeyboard(options))
}

func exclude(names []string, drop string) []string {
	out := make([]string, 0, len(names))
	for _, name := range names {
		if name != drop {
			out = append(out, name)
		}
	}
	return out
}
