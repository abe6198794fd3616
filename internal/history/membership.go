package history

import (
	"encoding/json"
	"math"

	"github.com/bethropolis/pagehist/internal/types"
)

// pageRef finds the first numeric page-reference field of item, in
// types.PageRefFields order.
func pageRef(item types.Item) (field string, value float64, ok bool) {
	for _, f := range types.PageRefFields {
		if v, numeric := toFloat(item[f]); numeric {
			return f, v, true
		}
	}
	return "", 0, false
}

func toFloat(v any) (float64, bool) {
	switch n := v.(type) {
	case int:
		return float64(n), true
	case int8:
		return float64(n), true
	case int16:
		return float64(n), true
	case int32:
		return float64(n), true
	case int64:
		return float64(n), true
	case uint:
		return float64(n), true
	case uint8:
		return float64(n), true
	case uint16:
		return float64(n), true
	case uint32:
		return float64(n), true
	case uint64:
		return float64(n), true
	case float32:
		return float64(n), true
	case float64:
		return n, true
	case json.Number:
		f, err := n.Float64()
		return f, err == nil
	}
	return 0, false
}

// BelongsToPage reports whether item is on page. The first numeric field
// among index, page and pageIndex decides; later fields are not consulted
// even when the first one does not match. Items with no numeric page field
// belong to no page.
func BelongsToPage(item types.Item, page int) bool {
	_, v, ok := pageRef(item)
	return ok && v == float64(page)
}

// PageOf returns the page index item refers to. ok is false when the item
// has no numeric page field or the value is not a whole number.
func PageOf(item types.Item) (page int, ok bool) {
	_, v, ok := pageRef(item)
	if !ok || v != math.Trunc(v) || math.IsInf(v, 0) {
		return 0, false
	}
	return int(v), true
}

// HasPageRef reports whether item carries any numeric page field.
func HasPageRef(item types.Item) bool {
	_, _, ok := pageRef(item)
	return ok
}

// SetPageRef returns a shallow copy of item whose page reference points at
// page. The field that currently carries the reference is rewritten; items
// without one get an "index" field. The input is left untouched.
func SetPageRef(item types.Item, page int) types.Item {
	field, _, ok := pageRef(item)
	if !ok {
		field = types.PageRefFields[0]
	}
	out := make(types.Item, len(item)+1)
	for k, v := range item {
		out[k] = v
	}
	out[field] = page
	return out
}

// filterPage splits items into those on page and the rest. Both results
// are non-nil. orphans counts items with no page reference at all.
func filterPage(items []types.Item, page int) (on, off []types.Item, orphans int) {
	on = make([]types.Item, 0, len(items))
	off = make([]types.Item, 0, len(items))
	for _, it := range items {
		if !HasPageRef(it) {
			orphans++
		}
		if BelongsToPage(it, page) {
			on = append(on, it)
		} else {
			off = append(off, it)
		}
	}
	return on, off, orphans
}
