package document

import (
	"github.com/google/uuid"

	"github.com/bethropolis/pagehist/internal/types"
)

// Annotation styles and their default color/opacity.
const (
	AnnotationHighlight     = "highlight"
	AnnotationStrikethrough = "strikethrough"
	AnnotationUnderline     = "underline"
)

var annotationDefaults = map[string]struct {
	color   string
	opacity float64
}{
	AnnotationHighlight:     {"#FFFF00", 0.4},
	AnnotationStrikethrough: {"#FF0000", 1.0},
	AnnotationUnderline:     {"#0000FF", 1.0},
}

// NewTextItem builds a text box on page.
func NewTextItem(page int, text string, x, y float64) types.Item {
	return types.Item{
		"index":      page,
		"text":       text,
		"x":          x,
		"y":          y,
		"fontSize":   16,
		"boxPadding": 4,
		"color":      "#000000",
		"anchor":     "top",
	}
}

// NewImageItem builds an image placement on page. data is usually a data URL.
func NewImageItem(page int, data string, x, y, width, height float64) types.Item {
	return types.Item{
		"index":  page,
		"data":   data,
		"x":      x,
		"y":      y,
		"width":  width,
		"height": height,
	}
}

// NewShapeItem builds a vector shape on page.
func NewShapeItem(page int, shape string, x, y, width, height float64) types.Item {
	return types.Item{
		"index":       page,
		"type":        shape,
		"x":           x,
		"y":           y,
		"width":       width,
		"height":      height,
		"strokeColor": "#000000",
		"strokeWidth": 2,
		"fillColor":   nil,
		"zIndex":      0,
	}
}

// NewAnnotation builds an annotation of the given style on page with a
// fresh id and the style's default color and opacity.
func NewAnnotation(page int, style string, spans []map[string]any) types.Item {
	def, ok := annotationDefaults[style]
	if !ok {
		def = annotationDefaults[AnnotationHighlight]
	}
	if spans == nil {
		spans = []map[string]any{}
	}
	return types.Item{
		"id":      uuid.NewString(),
		"index":   page,
		"type":    style,
		"spans":   spans,
		"color":   def.color,
		"opacity": def.opacity,
		"zIndex":  -50,
		"visible": true,
		"locked":  false,
	}
}
