package chat

import (
	"math/rand"
	"testing"
)

func TestParseRoll(t *testing.T) {
	tests := []struct {
		spec      string
		rolls     int
		sides     int
		wantError bool
	}{
		{spec: "20", rolls: 1, sides: 20},
		{spec: "3d6", rolls: 3, sides: 6},
		{spec: " 2d10 ", rolls: 2, sides: 10},
		{spec: "0d6", wantError: true},
		{spec: "3d0", wantError: true},
		{spec: "-1", wantError: true},
		{spec: "0", wantError: true},
		{spec: "abc", wantError: true},
		{spec: "d6", wantError: true},
		{spec: "3d", wantError: true},
		{spec: "3d6d2", wantError: true},
		{spec: "", wantError: true},
		{spec: "101d6", wantError: true},
	}

	for _, tt := range tests {
		rolls, sides, err := ParseRoll(tt.spec)
		if tt.wantError {
			if err == nil || !IsCode(err, ErrorCodeInvalidArgument) {
				t.Errorf("ParseRoll(%q) expected invalid argument, got %v", tt.spec, err)
			}
			continue
		}
		if err != nil {
			t.Errorf("ParseRoll(%q) unexpected error: %v", tt.spec, err)
			continue
		}
		if rolls != tt.rolls || sides != tt.sides {
			t.Errorf("ParseRoll(%q) = %d, %d; want %d, %d", tt.spec, rolls, sides, tt.rolls, tt.sides)
		}
	}
}

func TestRollRanges(t *testing.T) {
	for i := 0; i < 200; i++ {
		res, err := Roll("3d6", rand.Intn)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if len(res.Values) != 3 {
			t.Fatalf("expected 3 values, got %v", res.Values)
		}
		for _, v := range res.Values {
			if v < 1 || v > 6 {
				t.Fatalf("value out of range: %d", v)
			}
		}

		single, err := Roll("20", rand.Intn)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if len(single.Values) != 1 || single.Values[0] < 1 || single.Values[0] > 20 {
			t.Fatalf("bad single roll: %v", single.Values)
		}
	}
}

func TestRollResultString(t *testing.T) {
	res, err := Roll("3d6", func(n int) int { return 1 })
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got := res.String(); got != "2, 2, 2" {
		t.Fatalf("String() = %q", got)
	}
}

func TestFlip(t *testing.T) {
	if got := Flip(func(int) int { return 0 }); got != "heads" {
		t.Fatalf("Flip = %q", got)
	}
	if got := Flip(func(int) int { return 1 }); got != "tails" {
		t.Fatalf("Flip = %q", got)
	}
}

func TestFormatMarkup(t *testing.T) {
	tests := map[string]string{
		"**bold**":           "<b>bold</b>",
		"*it*":               "<i>it</i>",
		"_under_":            "<u>under</u>",
		"#r red r#":          "<span style='color:red;'>red</span>",
		"#b blue b#":         "<span style='color:blue;'>blue</span>",
		"#g green g#":        "<span style='color:green;'>green</span>",
		"plain text":         "plain text",
		"**a** and *b* _c_": "<b>a</b> and <i>b</i> <u>c</u>",
	}
	for in, want := range tests {
		if got := FormatMarkup(in); got != want {
			t.Errorf("FormatMarkup(%q) = %q, want %q", in, got, want)
		}
	}
}
