package substitute

import (
	"encoding/json"
	"testing"
)

func TestApply(t *testing.T) {
	tests := []struct {
		name string
		tmpl string
		vars Vars
		want string
	}{
		{
			name: "single key",
			tmpl: "<h1>{{heading}}</h1>",
			vars: Vars{"heading": "Hello"},
			want: "<h1>Hello</h1>",
		},
		{
			name: "repeated key",
			tmpl: "{{a}}-{{a}}",
			vars: Vars{"a": "x"},
			want: "x-x",
		},
		{
			name: "unmatched placeholder blanks",
			tmpl: "<p>{{missing}}</p>",
			vars: Vars{},
			want: "<p></p>",
		},
		{
			name: "nil value blanks",
			tmpl: "<p>{{subheading}}</p>",
			vars: Vars{"subheading": nil},
			want: "<p></p>",
		},
		{
			name: "numbers and booleans",
			tmpl: "{{n}} {{f}} {{b}}",
			vars: Vars{"n": float64(3), "f": 2.5, "b": true},
			want: "3 2.5 true",
		},
		{
			name: "non scalar blanks",
			tmpl: "[{{list}}]",
			vars: Vars{"list": []any{"a"}},
			want: "[]",
		},
		{
			name: "spaced token is a different name",
			tmpl: "{{ heading }}",
			vars: Vars{"heading": "x"},
			want: "",
		},
		{
			name: "empty template",
			tmpl: "",
			vars: Vars{"a": "b"},
			want: "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Apply(tt.tmpl, tt.vars); got != tt.want {
				t.Errorf("Apply() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestApplyIsSinglePass(t *testing.T) {
	got := Apply("{{a}}|{{b}}", Vars{"a": "{{b}}", "b": "B"})
	if got != "{{b}}|B" {
		t.Errorf("Apply() = %q, want %q", got, "{{b}}|B")
	}

	// Key order must not matter.
	got2 := Apply("{{b}}|{{a}}", Vars{"b": "B", "a": "{{b}}"})
	if got2 != "B|{{b}}" {
		t.Errorf("Apply() = %q, want %q", got2, "B|{{b}}")
	}
}

func TestStringifyJSONNumbers(t *testing.T) {
	var decoded map[string]any
	if err := json.Unmarshal([]byte(`{"price": 29, "rating": 4.5}`), &decoded); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if s, _ := Stringify(decoded["price"]); s != "29" {
		t.Errorf("Stringify(29) = %q, want 29", s)
	}
	if s, _ := Stringify(decoded["rating"]); s != "4.5" {
		t.Errorf("Stringify(4.5) = %q, want 4.5", s)
	}
	if _, ok := Stringify(map[string]any{}); ok {
		t.Error("maps are not scalars")
	}
}
