package service

import "testing"

func TestExtractJSONArray(t *testing.T) {
	cases := []struct {
		name string
		in   string
		want string
	}{
		{"bare array", `[{"text":"q"}]`, `[{"text":"q"}]`},
		{"markdown fenced", "```json\n[1,2]\n```", "[1,2]"},
		{"prose wrapped", `Here you go: ["S3","EC2"] hope that helps`, `["S3","EC2"]`},
		{"no array", "sorry, nothing found", ""},
		{"mismatched brackets", "] broken [", ""},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := extractJSONArray(tc.in); got != tc.want {
				t.Errorf("extractJSONArray(%q) = %q, want %q", tc.in, got, tc.want)
			}
		})
	}
}

func TestFirstNumber(t *testing.T) {
	cases := []struct {
		in   string
		want uint
		ok   bool
	}{
		{"3", 3, true},
		{"Domain ID: 42.", 42, true},
		{"the answer is 7 or maybe 9", 7, true},
		{"no digits here", 0, false},
		{"", 0, false},
	}
	for _, tc := range cases {
		got, ok := firstNumber(tc.in)
		if got != tc.want || ok != tc.ok {
			t.Errorf("firstNumber(%q) = (%d, %v), want (%d, %v)", tc.in, got, ok, tc.want, tc.ok)
		}
	}
}

func TestTruncateText(t *testing.T) {
	if got := truncateText("short", 100); got != "short" {
		t.Errorf("short text changed: %q", got)
	}
	long := make([]rune, 150)
	for i := range long {
		long[i] = 'ä' // multi-byte, truncation must count runes
	}
	got := truncateText(string(long), 100)
	if runes := []rune(got); len(runes) != 103 {
		t.Errorf("truncated length = %d runes, want 103", len(runes))
	}
}

func TestExtractGraphModel(t *testing.T) {
	in := "Sure:\n```xml\n<mxGraphModel><root><mxCell id=\"0\"/></root></mxGraphModel>\n```"
	want := `<mxGraphModel><root><mxCell id="0"/></root></mxGraphModel>`
	if got := extractGraphModel(in); got != want {
		t.Errorf("extractGraphModel = %q, want %q", got, want)
	}
	if got := extractGraphModel("no xml at all"); got != "" {
		t.Errorf("expected empty for missing element, got %q", got)
	}
}
