package htmlclean

import (
	"reflect"
	"testing"
)

func TestStructuredTables(t *testing.T) {
	in := "<table><tr><th>Name</th><th>Role</th></tr>" +
		"<tr><td>Sam</td><td>Dev</td></tr>" +
		"<tr><td>Alex</td><td>Ops</td></tr></table>"

	s := Structured(in)
	if len(s.Tables) != 1 {
		t.Fatalf("expected 1 table, got %d", len(s.Tables))
	}

	tab := s.Tables[0]
	if !reflect.DeepEqual(tab.Headers, []string{"Name", "Role"}) {
		t.Errorf("headers = %v", tab.Headers)
	}
	wantRows := [][]string{{"Sam", "Dev"}, {"Alex", "Ops"}}
	if !reflect.DeepEqual(tab.Rows, wantRows) {
		t.Errorf("rows = %v", tab.Rows)
	}
	if tab.Shape != "2x2" {
		t.Errorf("shape = %q, want 2x2", tab.Shape)
	}
}

func TestStructuredTableWithoutHeaders(t *testing.T) {
	s := Structured("<table><tr><td>A</td><td>B</td><td>C</td></tr></table>")
	if len(s.Tables) != 1 {
		t.Fatalf("expected 1 table, got %d", len(s.Tables))
	}
	tab := s.Tables[0]
	if tab.Headers != nil {
		t.Errorf("headers should be empty, got %v", tab.Headers)
	}
	if tab.Shape != "1x3" {
		t.Errorf("shape = %q, want 1x3", tab.Shape)
	}
}

func TestStructuredCodeMacro(t *testing.T) {
	in := `<ac:structured-macro ac:name="code"><ac:parameter ac:name="language">go</ac:parameter>` +
		`<ac:plain-text-body><![CDATA[x := 1]]></ac:plain-text-body></ac:structured-macro>`

	s := Structured(in)
	if len(s.CodeBlocks) != 1 {
		t.Fatalf("expected 1 code block, got %d", len(s.CodeBlocks))
	}
	if s.CodeBlocks[0].Language != "go" {
		t.Errorf("language = %q, want go", s.CodeBlocks[0].Language)
	}
	if s.CodeBlocks[0].Content != "x := 1" {
		t.Errorf("content = %q, want x := 1", s.CodeBlocks[0].Content)
	}
}

func TestStructuredRenderedPre(t *testing.T) {
	in := `<pre><code class="language-python">print(1)</code></pre>`

	s := Structured(in)
	if len(s.CodeBlocks) != 1 {
		t.Fatalf("expected 1 code block, got %d", len(s.CodeBlocks))
	}
	if s.CodeBlocks[0].Language != "python" {
		t.Errorf("language = %q, want python", s.CodeBlocks[0].Language)
	}
	if s.CodeBlocks[0].Content != "print(1)" {
		t.Errorf("content = %q", s.CodeBlocks[0].Content)
	}
}

func TestStructuredEmpty(t *testing.T) {
	s := Structured("<p>just prose, nothing structured</p>")
	if len(s.Tables) != 0 || len(s.CodeBlocks) != 0 {
		t.Errorf("expected empty structure, got %+v", s)
	}
	if s = Structured(""); len(s.Tables) != 0 || len(s.CodeBlocks) != 0 {
		t.Errorf("expected empty structure for empty input, got %+v", s)
	}
}
