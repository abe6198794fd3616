// internal/event/event.go
package event

// Type identifies the kind of event.
type Type int

const (
	TypeUnknown Type = iota

	// History events
	TypeHistoryChanged // Undo or redo stack of a page changed
	TypeHistoryPurged  // Stacks were re-keyed after a page insert/remove

	// Document events
	TypePageAdded   // A page was appended or inserted
	TypePageRemoved // A page was removed
	TypeItemsChanged

	// Application lifecycle
	TypeAppReady
	TypeAppQuit
)

func (t Type) String() string {
	switch t {
	case TypeHistoryChanged:
		return "HistoryChanged"
	case TypeHistoryPurged:
		return "HistoryPurged"
	case TypePageAdded:
		return "PageAdded"
	case TypePageRemoved:
		return "PageRemoved"
	case TypeItemsChanged:
		return "ItemsChanged"
	case TypeAppReady:
		return "AppReady"
	case TypeAppQuit:
		return "AppQuit"
	}
	return "Unknown"
}

// Event is the structure passed through the event bus.
type Event struct {
	Type Type
	Data interface{}
}

// HistoryChangedData reports the stack depths of one page after a push,
// undo or redo, so UI can enable or disable its undo/redo controls.
type HistoryChangedData struct {
	Page      int
	UndoDepth int
	RedoDepth int
}

// HistoryPurgedData reports a page-structure change applied to history.
type HistoryPurgedData struct {
	Page    int
	Removed bool // false means a page was inserted at Page
}

// PageData carries the index of an added or removed page.
type PageData struct {
	Page  int
	Count int // page count after the change
}

// ItemsChangedData names the page whose items were mutated.
type ItemsChangedData struct {
	Page int
}
