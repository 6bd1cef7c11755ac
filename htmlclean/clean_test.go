package htmlclean

import (
	"strings"
	"testing"
)

func TestClean(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{
			name: "inline markup flattens",
			in:   "<p>Hello <b>World</b></p>",
			want: "Hello World",
		},
		{
			name: "table row joins cells with pipes",
			in:   "<table><tr><td>A</td><td>B</td></tr></table>",
			want: "A | B",
		},
		{
			name: "table with headers and several rows",
			in: "<table><tr><th>Name</th><th>Role</th></tr>" +
				"<tr><td>Sam</td><td>Dev</td></tr>" +
				"<tr><td>Alex</td><td>Ops</td></tr></table>",
			want: "Name | Role\nSam | Dev\nAlex | Ops",
		},
		{
			name: "blocks separate onto their own lines",
			in:   "<p>Test content</p><div>More content</div>",
			want: "Test content\nMore content",
		},
		{
			name: "headings then prose",
			in:   "<h1>Overview</h1><p>Services talk over HTTP.</p>",
			want: "Overview\nServices talk over HTTP.",
		},
		{
			name: "list items get a line each",
			in:   "<ul><li>one</li><li>two</li></ul>",
			want: "one\ntwo",
		},
		{
			name: "line breaks are honoured",
			in:   "<p>line1<br/>line2</p>",
			want: "line1\nline2",
		},
		{
			name: "script and style are dropped",
			in:   "<p>keep</p><script>var x = 1;</script><style>p { color: red }</style>",
			want: "keep",
		},
		{
			name: "entities decode and whitespace collapses",
			in:   "<p>Tom &amp; Jerry&nbsp;&nbsp;forever</p>",
			want: "Tom & Jerry forever",
		},
		{
			name: "escaped tags in prose do not survive the sweep",
			in:   "<p>use &lt;b&gt;bold&lt;/b&gt; sparingly</p>",
			want: "use bold sparingly",
		},
		{
			name: "unclosed tags parse anyway",
			in:   "<p>unclosed <b>bold",
			want: "unclosed bold",
		},
		{
			name: "code macro keeps its CDATA body",
			in: `<ac:structured-macro ac:name="code"><ac:parameter ac:name="language">python</ac:parameter>` +
				`<ac:plain-text-body><![CDATA[x = 1]]></ac:plain-text-body></ac:structured-macro>`,
			want: "x = 1",
		},
		{
			name: "panel macro unwraps to its body, parameters dropped",
			in: `<ac:structured-macro ac:name="info"><ac:parameter ac:name="title">Note</ac:parameter>` +
				`<ac:rich-text-body><p>Keep backups.</p></ac:rich-text-body></ac:structured-macro>`,
			want: "Keep backups.",
		},
		{
			name: "image resource refs vanish but surrounding prose stays",
			in:   `<p>see <ac:image><ri:attachment ri:filename="diagram.png" /></ac:image> the diagram</p>`,
			want: "see the diagram",
		},
		{
			name: "nested cell markup flattens to spaces",
			in:   "<table><tr><td><p>first</p><p>second</p></td><td>B</td></tr></table>",
			want: "first second | B",
		},
		{
			name: "empty input",
			in:   "",
			want: "",
		},
		{
			name: "whitespace only",
			in:   "   \n\t  ",
			want: "",
		},
		{
			name: "empty elements collapse to nothing",
			in:   "<p></p><div>  </div>",
			want: "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Clean(tt.in); got != tt.want {
				t.Errorf("Clean(%q) = %q, want %q", tt.in, got, tt.want)
			}
		})
	}
}

// Cleaning is idempotent: text that has been through Clean once comes out
// unchanged a second time.
func TestCleanIdempotent(t *testing.T) {
	inputs := []string{
		"<p>Hello <b>World</b></p>",
		"<table><tr><td>A</td><td>B</td></tr></table>",
		"<h1>Overview</h1><ul><li>one</li><li>two</li></ul>",
		`<ac:structured-macro ac:name="code"><ac:plain-text-body><![CDATA[if x > 0 { run() }]]></ac:plain-text-body></ac:structured-macro>`,
	}
	for _, in := range inputs {
		once := Clean(in)
		if twice := Clean(once); twice != once {
			t.Errorf("Clean not idempotent for %q: first %q, second %q", in, once, twice)
		}
	}
}

func TestCleanLeavesNoTags(t *testing.T) {
	inputs := []string{
		"<p>Hello <b>World</b></p>",
		"<div><span>a</span><table><tr><td>x</td></tr></table></div>",
		"<p>broken <b><i>nesting</b></i></p>",
		"<p>use &lt;b&gt; for bold</p>",
		`<ac:structured-macro ac:name="note"><ac:rich-text-body>text</ac:rich-text-body></ac:structured-macro>`,
	}
	for _, in := range inputs {
		got := Clean(in)
		if tagPattern.MatchString(got) {
			t.Errorf("Clean(%q) = %q, still contains a tag", in, got)
		}
	}
}

func TestCleanMultilineCode(t *testing.T) {
	in := `<ac:structured-macro ac:name="code"><ac:plain-text-body><![CDATA[def f():
    return 1]]></ac:plain-text-body></ac:structured-macro>`
	got := Clean(in)
	if !strings.Contains(got, "def f():") || !strings.Contains(got, "return 1") {
		t.Errorf("code body lost: %q", got)
	}
}
