package render

// Keyboard is a reply-keyboard layout: rows of button labels.
type Keyboard [][]string

// ChooseKeyboard lays out candidate options two per row and appends a
// trailing cancel row, the layout every selection step uses.
func (r *Renderer) ChooseKeyboard(options []string) Keyboard {
	return append(packRows(options), []string{r.CancelLabel()})
}

// ConfirmKeyboard offers the confirm/cancel choice.
func (r *Renderer) ConfirmKeyboard() Keyboard {
	return Keyboard{{r.ConfirmLabel()}, {r.CancelLabel()}}
}

// DefaultKeyboard is the idle keyboard for a channel role.
func (r *Renderer) DefaultKeyboard(role string) Keyboard {
	switch role {
	case "bank":
		return Keyboard{{r.ClaimStartLabel()}, {r.ShowMapLabel()}}
	case "fight":
		return Keyboard{{r.RaidStartLabel()}, {r.ShowMapLabel()}}
	case "admin":
		return Keyboard{{r.ShowMapLabel()}}
	default:
		return Keyboard{{r.ShowMapLabel()}, {r.GameMechanicsLabel()}}
	}
}

func packRows(options []string) Keyboard {
	if len(options) <= 2 {
		if len(options) == 0 {
			return Keyboard{}
		}
		return Keyboard{options}
	}
	var rows Keyboard
	for i := 0; i < len(options); i += 2 {
		end := i + 2
		if end > len(options) {
			end = len(options)
		}
		rows = append(rows, options[i:end])
	}
	return rows
}
