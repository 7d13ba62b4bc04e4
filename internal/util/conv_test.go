package util

import (
	"encoding/json"
	"testing"
)

func TestFlexibleInt(t *testing.T) {
	cases := []struct {
		name  string
		input string
		want  int
	}{
		{"number", `{"marks": 5}`, 5},
		{"numeric string", `{"marks": "3"}`, 3},
		{"padded string", `{"marks": " 7 "}`, 7},
		{"garbage string", `{"marks": "lots"}`, 0},
		{"empty string", `{"marks": ""}`, 0},
		{"null", `{"marks": null}`, 0},
		{"missing", `{}`, 0},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			var payload struct {
				Marks FlexibleInt `json:"marks"`
			}
			if err := json.Unmarshal([]byte(tc.input), &payload); err != nil {
				t.Fatalf("unmarshal: %v", err)
			}
			if int(payload.Marks) != tc.want {
				t.Fatalf("got %d, want %d", payload.Marks, tc.want)
			}
		})
	}
}

func TestMustParseUint(t *testing.T) {
	if got := MustParseUint("42"); got != 42 {
		t.Fatalf("got %d", got)
	}
	if got := MustParseUint("not a number"); got != 0 {
		t.Fatalf("got %d", got)
	}
	if got := MustParseUint("-1"); got != 0 {
		t.Fatalf("got %d", got)
	}
}
