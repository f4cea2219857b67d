package render

import (
	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

func init() {
	lang := language.Russian

	message.SetString(lang, "button.cancel", "Отмена")
	message.SetString(lang, "button.confirm", "Подтвердить")
	message.SetString(lang, "button.notify_defender", "Уведомить защищающихся")
	message.SetString(lang, "button.claim_start", "Продать райончик")
	message.SetString(lang, "button.raid_start", "Провести стрелку")
	message.SetString(lang, "button.show_map", "Показать карту")
	message.SetString(lang, "button.game_mechanics", "Правила игры")

	message.SetString(lang, "claim.choose_team", "Какая команда покупает райончик?")
	message.SetString(lang, "claim.choose_district", "Какой свободный райончик забирает %s?")
	message.SetString(lang, "claim.confirm", "Передать %s команде %s?")
	message.SetString(lang, "claim.done", "%s теперь принадлежит команде %s.")
	message.SetString(lang, "claim.notification.all", "Команда %s заняла %s.")
	message.SetString(lang, "claim.notification.owner", "%s теперь ваш. Держите его.")

	message.SetString(lang, "raid.choose_assaulter", "Какая команда забила стрелку?")
	message.SetString(lang, "raid.choose_defender", "На кого идёт %s?")
	message.SetString(lang, "raid.notification.defender", "Команда %s забила вам стрелку. Приходите.")
	message.SetString(lang, "raid.result", "Кто победил на стрелке: %s или %s?")
	message.SetString(lang, "raid.choose_district", "Победила команда %s. Какой райончик отдаёт %s?")
	message.SetString(lang, "raid.done", "%s переходит от %s к %s.")
	message.SetString(lang, "raid.notification.all", "Команда %s забрала %s у %s на стрелке.")
	message.SetString(lang, "raid.notification.winner", "Вы забрали %s у %s.")
	message.SetString(lang, "raid.notification.loser", "Вы потеряли %s, он уходит %s.")

	message.SetString(lang, "flow.canceled", "Проехали. Возвращаемся к делам.")
	message.SetString(lang, "flow.error", "Что-то пошло не так. Попробуйте ещё раз или зовите админов.")
	message.SetString(lang, "help.bank", "Это канал банка. Начните продажу райончика или запросите карту.")
	message.SetString(lang, "help.fight", "Это канал стрелок. Зафиксируйте результат или запросите карту.")
	message.SetString(lang, "help.admin", "Канал админов. Сюда падают ошибки; карта тоже доступна.")
	message.SetString(lang, "help.team", "Запросите карту или почитайте правила игры.")
	message.SetString(lang, "game.mechanics", "Свободные райончики покупаются через банк. Занятые отбиваются на стрелках. Карта показывает, кто что держит.")
	message.SetString(lang, "map.caption.viewer", "%s Ваша команда %s держит райончиков: %d")
	message.SetString(lang, "map.caption.empty", "Пока ни один райончик не занят.")
}
