// internal/types/snapshot.go
package types

// Snapshot holds an independent copy of every item on one page at one
// point in time. A nil slice (JSON null) means the kind was not captured
// and is left alone when the snapshot is applied; an empty slice means the
// page had no items of that kind.
type Snapshot struct {
	TextItems       []Item `json:"textItems"`
	ImageItems      []Item `json:"imageItems"`
	ShapeItems      []Item `json:"shapeItems"`
	AnnotationItems []Item `json:"annotationItems"`
}

// Items returns the snapshot's slice for kind k.
func (s *Snapshot) Items(k Kind) []Item {
	switch k {
	case KindText:
		return s.TextItems
	case KindImage:
		return s.ImageItems
	case KindShape:
		return s.ShapeItems
	case KindAnnotation:
		return s.AnnotationItems
	}
	return nil
}

// SetItems replaces the snapshot's slice for kind k.
func (s *Snapshot) SetItems(k Kind, items []Item) {
	switch k {
	case KindText:
		s.TextItems = items
	case KindImage:
		s.ImageItems = items
	case KindShape:
		s.ShapeItems = items
	case KindAnnotation:
		s.AnnotationItems = items
	}
}

// Len is the total number of items across all kinds.
func (s *Snapshot) Len() int {
	return len(s.TextItems) + len(s.ImageItems) + len(s.ShapeItems) + len(s.AnnotationItems)
}

// Stacks maps a page index to its chronological list of snapshots.
// The last element is the most recently pushed.
type Stacks map[int][]Snapshot
