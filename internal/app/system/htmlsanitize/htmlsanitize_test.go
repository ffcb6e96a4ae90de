package htmlsanitize_test

import (
	"strings"
	"testing"

	"github.com/dalemusser/clubdesk/internal/app/system/htmlsanitize"
)

func TestSanitize(t *testing.T) {
	tests := []struct {
		name    string
		in      string
		keep    []string
		dropped []string
	}{
		{"empty", "", nil, nil},
		{"plain text", "Club night moved to Friday", []string{"Club night moved to Friday"}, nil},
		{"formatting", "<p><strong>Bold</strong> <em>it</em> <u>u</u> <mark>m</mark></p>",
			[]string{"<strong>", "<em>", "<u>", "<mark>"}, nil},
		{"script", `<p>Hi</p><script>alert(1)</script>`, []string{"<p>Hi</p>"}, []string{"<script", "alert"}},
		{"onclick", `<a href="https://club.example" onclick="x()">go</a>`, []string{"https://club.example"}, []string{"onclick"}},
		{"javascript href", `<a href="javascript:alert(1)">x</a>`, nil, []string{"javascript:"}},
		{"iframe", `<iframe src="https://evil.example"></iframe>`, nil, []string{"<iframe"}},
		{"style tag", `<style>body{display:none}</style><p>x</p>`, []string{"<p>x</p>"}, []string{"<style"}},
		{"form elements", `<form><input name="a"></form>`, nil, []string{"<form", "<input"}},
		{"image onerror", `<img src="https://club.example/a.png" onerror="x()">`, []string{"<img"}, []string{"onerror"}},
		{"data url image", `<img src="data:image/png;base64,AAAA">`, nil, []string{"data:"}},
		{"tables", `<table class="t"><tr><td colspan="2" style="text-align:center">Cell</td></tr></table>`,
			[]string{"<table", `class="t"`, `colspan="2"`, "style="}, nil},
		{"lists and quotes", "<ul><li>a</li></ul><ol><li>b</li></ol><blockquote>c</blockquote>",
			[]string{"<ul>", "<ol>", "<blockquote>"}, nil},
		{"headings and rules", "<h2>Ride</h2><hr><br><pre><code>x</code></pre>",
			[]string{"<h2>", "<hr", "<br", "<code>"}, nil},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := htmlsanitize.Sanitize(tt.in)
			if tt.in == "" && got != "" {
				t.Fatalf("Sanitize(\"\") = %q", got)
			}
			for _, s := range tt.keep {
				if !strings.Contains(got, s) {
					t.Errorf("Sanitize(%q) = %q, missing %q", tt.in, got, s)
				}
			}
			for _, s := range tt.dropped {
				if strings.Contains(got, s) {
					t.Errorf("Sanitize(%q) = %q, kept %q", tt.in, got, s)
				}
			}
		})
	}
}

func TestIsPlainText(t *testing.T) {
	tests := []struct {
		in   string
		want bool
	}{
		{"", true},
		{"no tags here", true},
		{"<p>tag</p>", false},
		{"a < b", true},
		{"a > b", true},
	}
	for _, tt := range tests {
		if got := htmlsanitize.IsPlainText(tt.in); got != tt.want {
			t.Errorf("IsPlainText(%q) = %v, want %v", tt.in, got, tt.want)
		}
	}
}

func TestPrepareForDisplay(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{"empty", "", ""},
		{"plain text", "line one\r\nline two", "<p>line one<br>line two</p>"},
		{"escapes", "Tom & Jerry <3", "<p>Tom &amp; Jerry &lt;3</p>"},
		{"html", "<p>ok</p><script>x</script>", "<p>ok</p>"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := string(htmlsanitize.PrepareForDisplay(tt.in)); got != tt.want {
				t.Errorf("PrepareForDisplay(%q) = %q, want %q", tt.in, got, tt.want)
			}
		})
	}
}

func TestMarkdown(t *testing.T) {
	got, err := htmlsanitize.Markdown("# Title\n\n**bold** <script>alert(1)</script>\n\n| a | b |\n|---|---|\n| 1 | 2 |")
	if err != nil {
		t.Fatalf("Markdown: %v", err)
	}
	s := string(got)
	for _, want := range []string{"<h1", "<strong>bold</strong>", "<table>"} {
		if !strings.Contains(s, want) {
			t.Errorf("Markdown output %q missing %q", s, want)
		}
	}
	if strings.Contains(s, "<script") {
		t.Errorf("script survived: %q", s)
	}

	if got, err := htmlsanitize.Markdown("   "); err != nil || got != "" {
		t.Errorf("Markdown(blank) = %q, %v", got, err)
	}
}
