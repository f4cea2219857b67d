package render

import (
	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

func init() {
	lang := language.English

	message.SetString(lang, "button.cancel", "Cancel")
	message.SetString(lang, "button.confirm", "Confirm")
	message.SetString(lang, "button.notify_defender", "Notify defender")
	message.SetString(lang, "button.claim_start", "Sell a district")
	message.SetString(lang, "button.raid_start", "Settle a raid")
	message.SetString(lang, "button.show_map", "Show the map")
	message.SetString(lang, "button.game_mechanics", "Game rules")

	message.SetString(lang, "claim.choose_team", "Which team is buying a district?")
	message.SetString(lang, "claim.choose_district", "Which free district does %s take?")
	message.SetString(lang, "claim.confirm", "Hand %s over to %s?")
	message.SetString(lang, "claim.done", "%s now belongs to %s.")
	message.SetString(lang, "claim.notification.all", "%s has claimed %s.")
	message.SetString(lang, "claim.notification.owner", "%s is yours now. Hold it.")

	message.SetString(lang, "raid.choose_assaulter", "Which team called the raid?")
	message.SetString(lang, "raid.choose_defender", "Who is %s raiding?")
	message.SetString(lang, "raid.notification.defender", "%s has called a raid on you. Show up.")
	message.SetString(lang, "raid.result", "Who won the raid, %s or %s?")
	message.SetString(lang, "raid.choose_district", "%s won. Which district does %s give up?")
	message.SetString(lang, "raid.done", "%s passes from %s to %s.")
	message.SetString(lang, "raid.notification.all", "%s took %s from %s in a raid.")
	message.SetString(lang, "raid.notification.winner", "You took %s from %s.")
	message.SetString(lang, "raid.notification.loser", "You lost %s to %s.")

	message.SetString(lang, "flow.canceled", "Never mind. Back to business.")
	message.SetString(lang, "flow.error", "Something went wrong. Try again or call the admins.")
	message.SetString(lang, "help.bank", "This is the bank channel. Start a district sale or show the map.")
	message.SetString(lang, "help.fight", "This is the raid channel. Settle a raid result or show the map.")
	message.SetString(lang, "help.admin", "Admin channel. Errors land here; the map is available too.")
	message.SetString(lang, "help.team", "Ask for the map or read the game rules.")
	message.SetString(lang, "game.mechanics", "Claim free districts through the bank. Contest owned ones by calling a raid. The map shows who holds what.")
	message.SetString(lang, "map.caption.viewer", "%s Your team %s holds %d district(s)")
	message.SetString(lang, "map.caption.empty", "No district is owned yet.")
}
