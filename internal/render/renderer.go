// Package render produces the localized message texts and reply keyboards the
// negotiation flows present in chat.
package render

import (
	"fmt"
	"strings"

	"golang.org/x/text/language"
	"golang.org/x/text/message"

	"github.com/louisbranch/turfwars/internal/domain"
)

// Renderer renders chat copy for one language.
type Renderer struct {
	printer *message.Printer
}

// NewRenderer builds a renderer for the given language tag, falling back to
// English for unknown tags.
func NewRenderer(lang string) *Renderer {
	tag, err := language.Parse(lang)
	if err != nil {
		tag = language.English
	}
	return &Renderer{printer: message.NewPrinter(tag)}
}

// Button labels double as the engine's recognized inputs.

// CancelLabel returns the cancel button label.
func (r *Renderer) CancelLabel() string { return r.printer.Sprintf("button.cancel") }

// ConfirmLabel returns the confirm button label.
func (r *Renderer) ConfirmLabel() string { return r.printer.Sprintf("button.confirm") }

// NotifyDefenderLabel returns the re-notify button label shown while a raid
// result is awaited.
func (r *Renderer) NotifyDefenderLabel() string {
	return r.printer.Sprintf("button.notify_defender")
}

// ClaimStartLabel returns the claim entry button label.
func (r *Renderer) ClaimStartLabel() string { return r.printer.Sprintf("button.claim_start") }

// RaidStartLabel returns the raid entry button label.
func (r *Renderer) RaidStartLabel() string { return r.printer.Sprintf("button.raid_start") }

// ShowMapLabel returns the map request button label.
func (r *Renderer) ShowMapLabel() string { return r.printer.Sprintf("button.show_map") }

// GameMechanicsLabel returns the rules button label.
func (r *Renderer) GameMechanicsLabel() string { return r.printer.Sprintf("button.game_mechanics") }

// Claim flow copy.

// ClaimChooseTeam prompts for the acquiring team.
func (r *Renderer) ClaimChooseTeam() string { return r.printer.Sprintf("claim.choose_team") }

// ClaimChooseDistrict prompts for the district the team acquires.
func (r *Renderer) ClaimChooseDistrict(team string) string {
	return r.printer.Sprintf("claim.choose_district", team)
}

// ClaimConfirm asks for the final confirmation.
func (r *Renderer) ClaimConfirm(team, district string) string {
	return r.printer.Sprintf("claim.confirm", district, team)
}

// ClaimDone closes the claim negotiation.
func (r *Renderer) ClaimDone(team, district string) string {
	return r.printer.Sprintf("claim.done", district, team)
}

// ClaimAnnouncement tells uninvolved teams about the acquisition.
func (r *Renderer) ClaimAnnouncement(team, district string) string {
	return r.printer.Sprintf("claim.notification.all", team, district)
}

// ClaimOwnerNotice congratulates the new owner.
func (r *Renderer) ClaimOwnerNotice(district string) string {
	return r.printer.Sprintf("claim.notification.owner", district)
}

// Raid flow copy.

// RaidChooseAssaulter prompts for the attacking team.
func (r *Renderer) RaidChooseAssaulter() string { return r.printer.Sprintf("raid.choose_assaulter") }

// RaidChooseDefender prompts for the defending team.
func (r *Renderer) RaidChooseDefender(assaulter string) string {
	return r.printer.Sprintf("raid.choose_defender", assaulter)
}

// RaidDefenderAlert is the one-shot notification sent to the defender.
func (r *Renderer) RaidDefenderAlert(assaulter string) string {
	return r.printer.Sprintf("raid.notification.defender", assaulter)
}

// RaidResultPrompt asks who won the fight.
func (r *Renderer) RaidResultPrompt(assaulter, defender string) string {
	return r.printer.Sprintf("raid.result", assaulter, defender)
}

// RaidChooseDistrict prompts for the district the loser gives up.
func (r *Renderer) RaidChooseDistrict(winner, loser string) string {
	return r.printer.Sprintf("raid.choose_district", winner, loser)
}

// RaidDone closes the raid negotiation.
func (r *Renderer) RaidDone(winner, loser, district string) string {
	return r.printer.Sprintf("raid.done", district, loser, winner)
}

// RaidAnnouncement tells uninvolved teams about the takeover.
func (r *Renderer) RaidAnnouncement(winner, loser, district string) string {
	return r.printer.Sprintf("raid.notification.all", winner, district, loser)
}

// RaidWinnerNotice congratulates the raid winner.
func (r *Renderer) RaidWinnerNotice(district, loser string) string {
	return r.printer.Sprintf("raid.notification.winner", district, loser)
}

// RaidLoserNotice informs the raid loser.
func (r *Renderer) RaidLoserNotice(district, winner string) string {
	return r.printer.Sprintf("raid.notification.loser", district, winner)
}

// Shared copy.

// Canceled acknowledges a negotiation abort.
func (r *Renderer) Canceled() string { return r.printer.Sprintf("flow.canceled") }

// Help returns the role-specific help text.
func (r *Renderer) Help(role string) string {
	switch role {
	case "bank":
		return r.printer.Sprintf("help.bank")
	case "fight":
		return r.printer.Sprintf("help.fight")
	case "admin":
		return r.printer.Sprintf("help.admin")
	default:
		return r.printer.Sprintf("help.team")
	}
}

// GameMechanics returns the rules text.
func (r *Renderer) GameMechanics() string { return r.printer.Sprintf("game.mechanics") }

// ErrorMessage is the generic failure reply.
func (r *Renderer) ErrorMessage() string { return r.printer.Sprintf("flow.error") }

// MapCaption renders the standings caption attached to the ownership map. The
// viewer's own standing leads when the request came from a team channel;
// other teams follow sorted by display name.
func (r *Renderer) MapCaption(viewer *domain.TeamStanding, others []domain.TeamStanding) string {
	var lines []string
	if viewer != nil {
		lines = append(lines, r.printer.Sprintf("map.caption.viewer",
			viewer.ColorEmoji, viewer.DisplayName, viewer.DistrictCount))
	}
	for _, standing := range others {
		lines = append(lines, fmt.Sprintf("%s %s — %d",
			standing.ColorEmoji, standing.DisplayName, standing.DistrictCount))
	}
	if len(lines) == 0 {
		return r.printer.Sprintf("map.caption.empty")
	}
	return strings.Join(lines, "\n")
}
