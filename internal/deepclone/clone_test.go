package deepclone

import (
	"net/url"
	"reflect"
	"regexp"
	"testing"
	"time"
)

type node struct {
	Name string
	Next *node
}

type stamped struct {
	When time.Time
	Tags map[string]struct{}
}

type withFunc struct {
	Name string
	Fn   func() int
}

type hidden struct {
	Visible []int
	secret  string
}

func TestCloneNestedMapIsIndependent(t *testing.T) {
	orig := map[string]any{
		"text":  "A",
		"index": 0,
		"spans": []any{map[string]any{"x": 1.5}},
		"data":  []byte{1, 2, 3},
	}

	for name, clone := range map[string]func(map[string]any) map[string]any{
		"Clone":    Clone[map[string]any],
		"Fallback": Fallback[map[string]any],
	} {
		t.Run(name, func(t *testing.T) {
			c := clone(orig)
			if !reflect.DeepEqual(c, orig) {
				t.Fatalf("clone = %v, want %v", c, orig)
			}

			c["text"] = "B"
			c["spans"].([]any)[0].(map[string]any)["x"] = 9.0
			c["data"].([]byte)[0] = 42

			if orig["text"] != "A" {
				t.Errorf("orig text = %v, want A", orig["text"])
			}
			if got := orig["spans"].([]any)[0].(map[string]any)["x"]; got != 1.5 {
				t.Errorf("orig span x = %v, want 1.5", got)
			}
			if got := orig["data"].([]byte)[0]; got != 1 {
				t.Errorf("orig data[0] = %v, want 1", got)
			}
		})
	}
}

func TestClonePointerCycle(t *testing.T) {
	n := &node{Name: "a"}
	n.Next = n

	c := Clone(n)
	if c == n {
		t.Fatal("clone returned the original pointer")
	}
	if c.Next != c {
		t.Error("cycle not preserved: c.Next should point at c")
	}
	if c.Name != "a" {
		t.Errorf("Name = %q, want %q", c.Name, "a")
	}
}

func TestCloneMapCycle(t *testing.T) {
	m := map[string]any{"a": 1}
	m["self"] = m

	c := Clone(m)
	c["a"] = 2
	if m["a"] != 1 {
		t.Errorf("orig a = %v, want 1", m["a"])
	}
	self, ok := c["self"].(map[string]any)
	if !ok {
		t.Fatalf("self has type %T", c["self"])
	}
	if reflect.ValueOf(self).Pointer() != reflect.ValueOf(c).Pointer() {
		t.Error("cycle not preserved: c[self] should be c")
	}
	if reflect.ValueOf(self).Pointer() == reflect.ValueOf(m).Pointer() {
		t.Error("clone cycle points back at the original map")
	}
}

func TestCloneSpecialTypes(t *testing.T) {
	t.Run("time and set", func(t *testing.T) {
		orig := stamped{
			When: time.Date(2024, 5, 1, 10, 0, 0, 0, time.UTC),
			Tags: map[string]struct{}{"draft": {}},
		}
		c := Clone(orig)
		if !c.When.Equal(orig.When) {
			t.Errorf("When = %v, want %v", c.When, orig.When)
		}
		c.Tags["final"] = struct{}{}
		if _, leaked := orig.Tags["final"]; leaked {
			t.Error("set mutation leaked into original")
		}
	})

	t.Run("regexp", func(t *testing.T) {
		re := regexp.MustCompile(`a+b`)
		c := Clone(re)
		if c == re {
			t.Error("regexp was not copied")
		}
		if c.String() != re.String() {
			t.Errorf("pattern = %q, want %q", c.String(), re.String())
		}
	})

	t.Run("posix regexp stays leftmost-longest", func(t *testing.T) {
		re := regexp.MustCompilePOSIX(`a|ab`)
		c := Clone(re)
		if got := c.FindString("ab"); got != "ab" {
			t.Errorf("FindString() = %q, want ab", got)
		}
	})

	t.Run("longest flag kept", func(t *testing.T) {
		re := regexp.MustCompile(`a+?`)
		re.Longest()
		c := Clone(re)
		if got := c.FindString("aaa"); got != "aaa" {
			t.Errorf("FindString() = %q, want aaa", got)
		}
	})

	t.Run("url", func(t *testing.T) {
		u, _ := url.Parse("https://example.com/a?b=c")
		c := Clone(u)
		c.Path = "/changed"
		if u.Path != "/a" {
			t.Errorf("orig path = %q, want /a", u.Path)
		}
	})

	t.Run("func shared", func(t *testing.T) {
		orig := withFunc{Name: "f", Fn: func() int { return 42 }}
		c := Clone(orig)
		if c.Fn == nil || c.Fn() != 42 {
			t.Error("func field not carried over")
		}
	})

	t.Run("unexported fields", func(t *testing.T) {
		orig := hidden{Visible: []int{1}, secret: "s"}
		c := Clone(orig)
		if c.secret != "s" {
			t.Errorf("secret = %q, want s", c.secret)
		}
		c.Visible[0] = 7
		if orig.Visible[0] != 1 {
			t.Error("exported slice shared with original")
		}
	})
}

func TestCloneNil(t *testing.T) {
	var v any
	if got := Clone(v); got != nil {
		t.Errorf("Clone(nil) = %v, want nil", got)
	}
	if got := CloneSlice[int](nil); got != nil {
		t.Errorf("CloneSlice(nil) = %v, want nil", got)
	}
}

func TestIsPlain(t *testing.T) {
	cyc := &node{}
	cyc.Next = cyc
	shared := []int{1}

	tests := []struct {
		name string
		v    any
		want bool
	}{
		{"json-like", map[string]any{"a": []any{1, "x"}}, true},
		{"shared but acyclic", map[string]any{"a": shared, "b": shared}, true},
		{"pointer cycle", cyc, false},
		{"func", withFunc{}, false},
		{"unexported field", hidden{}, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := isPlain(reflect.ValueOf(tt.v)); got != tt.want {
				t.Errorf("isPlain() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestStructuralCopy(t *testing.T) {
	tests := []struct {
		name string
		in   map[string]any
	}{
		{"nested", map[string]any{"text": "A", "index": 0, "spans": []any{map[string]any{"xNorm": 0.1}}}},
		{"empty", map[string]any{}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out, ok := structural(tt.in)
			if !ok {
				t.Fatal("structural() ok = false for plain data")
			}
			if !reflect.DeepEqual(out, tt.in) {
				t.Errorf("structural() = %v, want %v", out, tt.in)
			}
			out["added"] = true
			if _, leaked := tt.in["added"]; leaked {
				t.Error("copy shares memory with the original")
			}
		})
	}

	var zero map[string]any
	if out, ok := structural(zero); !ok || out != nil {
		t.Errorf("structural(nil) = %v, %v; want nil, true", out, ok)
	}
}
