// internal/input/keymap.go
package input

import (
	"github.com/gdamore/tcell/v2"
)

// Keymap maps special keys to actions.
type Keymap map[tcell.Key]Action

// RuneKeymap maps plain runes to actions.
type RuneKeymap map[rune]Action

// InputProcessor translates tcell events into ActionEvents.
type InputProcessor struct {
	keymap     Keymap
	runeKeymap RuneKeymap
}

// NewInputProcessor creates a processor with default keybindings.
func NewInputProcessor() *InputProcessor {
	p := &InputProcessor{
		keymap:     make(Keymap),
		runeKeymap: make(RuneKeymap),
	}
	p.loadDefaultBindings()
	return p
}

func (p *InputProcessor) loadDefaultBindings() {
	p.keymap[tcell.KeyEscape] = ActionQuit
	p.keymap[tcell.KeyCtrlC] = ActionQuit
	p.keymap[tcell.KeyLeft] = ActionNudgeLeft
	p.keymap[tcell.KeyRight] = ActionNudgeRight
	p.keymap[tcell.KeyPgUp] = ActionPrevPage
	p.keymap[tcell.KeyPgDn] = ActionNextPage
	p.keymap[tcell.KeyDelete] = ActionDeleteItem
	p.keymap[tcell.KeyCtrlZ] = ActionUndo
	p.keymap[tcell.KeyCtrlY] = ActionRedo

	p.runeKeymap['q'] = ActionQuit
	p.runeKeymap['t'] = ActionAddText
	p.runeKeymap['i'] = ActionAddImage
	p.runeKeymap['s'] = ActionAddShape
	p.runeKeymap['a'] = ActionAddAnnotation
	p.runeKeymap['h'] = ActionNudgeLeft
	p.runeKeymap['l'] = ActionNudgeRight
	p.runeKeymap['x'] = ActionDeleteItem
	p.runeKeymap['['] = ActionPrevPage
	p.runeKeymap[']'] = ActionNextPage
	p.runeKeymap['n'] = ActionAddPage
	p.runeKeymap['D'] = ActionDeletePage
	p.runeKeymap['u'] = ActionUndo
	p.runeKeymap['r'] = ActionRedo
	p.runeKeymap['y'] = ActionYank
	p.runeKeymap['C'] = ActionClearHistory
}

// Bind maps r to action, replacing any earlier binding.
func (p *InputProcessor) Bind(r rune, action Action) {
	p.runeKeymap[r] = action
}

// ProcessEvent returns the action bound to ev.
func (p *InputProcessor) ProcessEvent(ev *tcell.EventKey) ActionEvent {
	key := ev.Key()
	mod := ev.Modifiers()

	// Ctrl-letter keys already encode the modifier.
	if key >= tcell.KeyCtrlA && key <= tcell.KeyCtrlZ {
		mod &^= tcell.ModCtrl
	}

	if key == tcell.KeyRune {
		// Shift is part of the rune ('D' vs 'd').
		if mod&^tcell.ModShift != tcell.ModNone {
			return ActionEvent{Action: ActionUnknown, Rune: ev.Rune()}
		}
		if action, ok := p.runeKeymap[ev.Rune()]; ok {
			return ActionEvent{Action: action, Rune: ev.Rune()}
		}
		return ActionEvent{Action: ActionUnknown, Rune: ev.Rune()}
	}

	if mod == tcell.ModNone || mod == tcell.ModShift {
		if action, ok := p.keymap[key]; ok {
			return ActionEvent{Action: action}
		}
	}
	return ActionEvent{Action: ActionUnknown}
}
