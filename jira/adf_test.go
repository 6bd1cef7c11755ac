package jira

import (
	"encoding/json"
	"testing"
)

func TestADFText(t *testing.T) {
	tests := []struct {
		name string
		raw  string
		want string
	}{
		{
			name: "simple paragraph",
			raw:  `{"type":"doc","version":1,"content":[{"type":"paragraph","content":[{"type":"text","text":"Hello "},{"type":"text","text":"World","marks":[{"type":"strong"}]}]}]}`,
			want: "Hello World",
		},
		{
			name: "two paragraphs become two lines",
			raw:  `{"type":"doc","version":1,"content":[{"type":"paragraph","content":[{"type":"text","text":"First"}]},{"type":"paragraph","content":[{"type":"text","text":"Second"}]}]}`,
			want: "First\nSecond",
		},
		{
			name: "bullet list gets dashes",
			raw:  `{"type":"doc","version":1,"content":[{"type":"bulletList","content":[{"type":"listItem","content":[{"type":"paragraph","content":[{"type":"text","text":"one"}]}]},{"type":"listItem","content":[{"type":"paragraph","content":[{"type":"text","text":"two"}]}]}]}]}`,
			want: "- one\n- two",
		},
		{
			name: "hard break splits a paragraph",
			raw:  `{"type":"doc","version":1,"content":[{"type":"paragraph","content":[{"type":"text","text":"above"},{"type":"hardBreak"},{"type":"text","text":"below"}]}]}`,
			want: "above\nbelow",
		},
		{
			name: "table row cells are pipe separated",
			raw:  `{"type":"doc","version":1,"content":[{"type":"table","content":[{"type":"tableRow","content":[{"type":"tableCell","content":[{"type":"paragraph","content":[{"type":"text","text":"A"}]}]},{"type":"tableCell","content":[{"type":"paragraph","content":[{"type":"text","text":"B"}]}]}]}]}]}`,
			want: "A | B",
		},
		{
			name: "mention contributes its display text",
			raw:  `{"type":"doc","version":1,"content":[{"type":"paragraph","content":[{"type":"text","text":"ping "},{"type":"mention","attrs":{"id":"abc","text":"@Sam Doe"}}]}]}`,
			want: "ping @Sam Doe",
		},
		{
			name: "code block survives",
			raw:  `{"type":"doc","version":1,"content":[{"type":"codeBlock","attrs":{"language":"go"},"content":[{"type":"text","text":"x := 1"}]}]}`,
			want: "x := 1",
		},
		{
			name: "bare string field",
			raw:  `"already plain text"`,
			want: "already plain text",
		},
		{
			name: "null field",
			raw:  `null`,
			want: "",
		},
		{
			name: "empty input",
			raw:  ``,
			want: "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ADFText(json.RawMessage(tt.raw))
			if got != tt.want {
				t.Errorf("ADFText() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestADFTextGarbageIn(t *testing.T) {
	// Whatever arrives, ADFText never panics and never errors.
	inputs := []string{`{`, `123`, `[1,2,3]`, `{"type":"doc","content":"not a list"}`}
	for _, input := range inputs {
		_ = ADFText(json.RawMessage(input))
	}
}
