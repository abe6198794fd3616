// internal/types/item.go
package types

// Item is one placed object on a page (text box, image, shape or annotation).
// Items are free-form records; the only shared convention is the page
// reference, stored under one of PageRefFields.
type Item map[string]any

// PageRefFields lists the field names that have carried an item's page
// index over time, in lookup order.
var PageRefFields = [...]string{"index", "page", "pageIndex"}

// Kind identifies which flat collection an item lives in.
type Kind int

const (
	KindText Kind = iota
	KindImage
	KindShape
	KindAnnotation
)

// Kinds is every item kind in snapshot order.
var Kinds = [...]Kind{KindText, KindImage, KindShape, KindAnnotation}

func (k Kind) String() string {
	switch k {
	case KindText:
		return "textItems"
	case KindImage:
		return "imageItems"
	case KindShape:
		return "shapeItems"
	case KindAnnotation:
		return "annotationItems"
	}
	return "unknown"
}
