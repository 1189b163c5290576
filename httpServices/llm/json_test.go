package llm

import "testing"

func TestExtractJSONFromMarkdown(t *testing.T) {
	cases := map[string]string{
		"```json\n[1,2]\n```": "[1,2]",
		"```\n{\"a\":1}\n```":  "{\"a\":1}",
		"  [3]  ":              "[3]",
	}
	for in, want := range cases {
		if got := ExtractJSONFromMarkdown(in); got != want {
			t.Errorf("ExtractJSONFromMarkdown(%q) = %q, want %q", in, got, want)
		}
	}
}

func TestExtractJSONArray(t *testing.T) {
	text := "Here you go:\n```json\n[{\"title\":\"کافه [نادری]\",\"reason\":\"says \\\"Persian]\\\"\"}]\n```\nHope that helps [really]."
	got, ok := ExtractJSONArray(text)
	if !ok {
		t.Fatalf("expected an array")
	}
	want := "[{\"title\":\"کافه [نادری]\",\"reason\":\"says \\\"Persian]\\\"\"}]"
	if got != want {
		t.Fatalf("got %q\nwant %q", got, want)
	}
}

func TestExtractJSONArrayMissing(t *testing.T) {
	for _, text := range []string{"no json here", "[1, 2", ""} {
		if _, ok := ExtractJSONArray(text); ok {
			t.Errorf("expected no array in %q", text)
		}
	}
}
