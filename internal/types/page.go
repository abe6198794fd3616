// internal/types/page.go
package types

// Page is one entry of the page-grouped structure used for persistence.
// It mirrors the flat collections: the items here are the same items the
// flat collections hold for this page, cloned independently.
type Page struct {
	TextItems   []Item `json:"textItems"`
	ImageItems  []Item `json:"imageItems"`
	Shapes      []Item `json:"shapes"`
	Annotations []Item `json:"annotations"`

	// Extra carries page attributes the history engine does not own
	// (size, background, ...). It is preserved across snapshot applies.
	Extra map[string]any `json:"extra,omitempty"`
}

// Items returns the page's list for kind k.
func (p *Page) Items(k Kind) []Item {
	switch k {
	case KindText:
		return p.TextItems
	case KindImage:
		return p.ImageItems
	case KindShape:
		return p.Shapes
	case KindAnnotation:
		return p.Annotations
	}
	return nil
}

// SetItems replaces the page's list for kind k.
func (p *Page) SetItems(k Kind, items []Item) {
	switch k {
	case KindText:
		p.TextItems = items
	case KindImage:
		p.ImageItems = items
	case KindShape:
		p.Shapes = items
	case KindAnnotation:
		p.Annotations = items
	}
}
