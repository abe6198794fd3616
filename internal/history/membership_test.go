package history

import (
	"encoding/json"
	"testing"

	"github.com/bethropolis/pagehist/internal/types"
)

func TestBelongsToPage(t *testing.T) {
	tests := []struct {
		name string
		item types.Item
		page int
		want bool
	}{
		{"index int", types.Item{"index": 2}, 2, true},
		{"index other page", types.Item{"index": 1}, 2, false},
		{"page field", types.Item{"page": 3}, 3, true},
		{"pageIndex field", types.Item{"pageIndex": 0}, 0, true},
		{"json float", types.Item{"index": 4.0}, 4, true},
		{"json number", types.Item{"page": json.Number("5")}, 5, true},
		{"fractional never matches", types.Item{"index": 1.5}, 1, false},
		{"index wins over page", types.Item{"index": 1, "page": 2}, 2, false},
		{"non-numeric index falls through", types.Item{"index": "2", "page": 2}, 2, true},
		{"no page field", types.Item{"text": "orphan"}, 0, false},
		{"nil item", nil, 0, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := BelongsToPage(tt.item, tt.page); got != tt.want {
				t.Errorf("BelongsToPage(%v, %d) = %v, want %v", tt.item, tt.page, got, tt.want)
			}
		})
	}
}

func TestPageOf(t *testing.T) {
	if p, ok := PageOf(types.Item{"pageIndex": uint8(7)}); !ok || p != 7 {
		t.Errorf("PageOf(pageIndex=7) = %d, %v; want 7, true", p, ok)
	}
	if _, ok := PageOf(types.Item{"index": 2.5}); ok {
		t.Error("PageOf(2.5) should not be ok")
	}
	if _, ok := PageOf(types.Item{}); ok {
		t.Error("PageOf(empty) should not be ok")
	}
}

func TestSetPageRef(t *testing.T) {
	tests := []struct {
		name      string
		item      types.Item
		wantField string
	}{
		{"rewrites index", types.Item{"index": 3}, "index"},
		{"rewrites legacy page", types.Item{"page": 3}, "page"},
		{"rewrites pageIndex", types.Item{"pageIndex": 3.0}, "pageIndex"},
		{"adds index when missing", types.Item{"text": "x"}, "index"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			before := len(tt.item)
			got := SetPageRef(tt.item, 1)
			if got[tt.wantField] != 1 {
				t.Errorf("%s = %v, want 1", tt.wantField, got[tt.wantField])
			}
			if len(tt.item) != before {
				t.Error("input item was modified")
			}
			if !BelongsToPage(got, 1) {
				t.Error("rewritten item does not belong to page 1")
			}
		})
	}
}

func TestFilterPage(t *testing.T) {
	items := []types.Item{
		{"index": 0, "text": "a"},
		{"index": 1, "text": "b"},
		{"text": "orphan"},
	}
	on, off, orphans := filterPage(items, 0)
	if len(on) != 1 || on[0]["text"] != "a" {
		t.Errorf("on = %v, want [a]", on)
	}
	if len(off) != 2 {
		t.Errorf("off = %v, want 2 items", off)
	}
	if orphans != 1 {
		t.Errorf("orphans = %d, want 1", orphans)
	}

	on, off, _ = filterPage(nil, 0)
	if on == nil || off == nil {
		t.Error("filterPage(nil) should return non-nil slices")
	}
}
