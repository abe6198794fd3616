// internal/input/action.go
package input

// Action represents an operation requested by a key press.
type Action int

const (
	ActionUnknown Action = iota
	ActionQuit

	// --- Items ---
	ActionAddText
	ActionAddImage
	ActionAddShape
	ActionAddAnnotation
	ActionNudgeLeft
	ActionNudgeRight
	ActionDeleteItem

	// --- Pages ---
	ActionPrevPage
	ActionNextPage
	ActionAddPage
	ActionDeletePage

	// --- History ---
	ActionUndo
	ActionRedo
	ActionClearHistory

	ActionYank
)

var actionNames = map[Action]string{
	ActionQuit:          "quit",
	ActionAddText:       "add-text",
	ActionAddImage:      "add-image",
	ActionAddShape:      "add-shape",
	ActionAddAnnotation: "add-annotation",
	ActionNudgeLeft:     "nudge-left",
	ActionNudgeRight:    "nudge-right",
	ActionDeleteItem:    "delete-item",
	ActionPrevPage:      "prev-page",
	ActionNextPage:      "next-page",
	ActionAddPage:       "add-page",
	ActionDeletePage:    "delete-page",
	ActionUndo:          "undo",
	ActionRedo:          "redo",
	ActionClearHistory:  "clear-history",
	ActionYank:          "yank",
}

func (a Action) String() string {
	if name, ok := actionNames[a]; ok {
		return name
	}
	return "unknown"
}

// ActionEvent is a decoded key press.
type ActionEvent struct {
	Action Action
	Rune   rune
}
