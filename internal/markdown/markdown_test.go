package markdown

import (
	"strings"
	"testing"
)

func TestRenderBasicMarkdown(t *testing.T) {
	tests := []struct {
		name   string
		source string
		want   string
	}{
		{
			name:   "heading",
			source: "# Airport Transfers",
			want:   "<h1",
		},
		{
			name:   "emphasis",
			source: "fixed *price* guarantee",
			want:   "<em>price</em>",
		},
		{
			name:   "strong",
			source: "**no hidden fees**",
			want:   "<strong>no hidden fees</strong>",
		},
		{
			name:   "unordered list",
			source: "- KLIA\n- KLIA 2",
			want:   "<ul>",
		},
		{
			name:   "blockquote",
			source: "> best ride ever",
			want:   "<blockquote>",
		},
		{
			name:   "link",
			source: "[book now](https://example.com)",
			want:   `<a href="https://example.com"`,
		},
		{
			name:   "fenced code block",
			source: "```\nfare table\n```",
			want:   "<code>",
		},
		{
			name:   "gfm table",
			source: "| Route | Price |\n|---|---|\n| KLIA | RM 90 |",
			want:   "<table>",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Render(tt.source)
			if err != nil {
				t.Fatalf("Render(%q) error: %v", tt.source, err)
			}
			if !strings.Contains(string(got), tt.want) {
				t.Errorf("Render(%q) = %q, want it to contain %q", tt.source, got, tt.want)
			}
		})
	}
}

func TestRenderStripsScriptTags(t *testing.T) {
	sources := []string{
		`<script>alert("xss")</script>`,
		"# Title\n\n<script src=\"https://evil.example/x.js\"></script>",
		"text with <ScRiPt>alert(1)</ScRiPt> inline",
	}

	for _, source := range sources {
		got, err := Render(source)
		if err != nil {
			t.Fatalf("Render(%q) error: %v", source, err)
		}
		if strings.Contains(strings.ToLower(string(got)), "<script") {
			t.Errorf("Render(%q) = %q, script tag not stripped", source, got)
		}
	}
}

func TestRenderAllowsIframes(t *testing.T) {
	source := `<iframe src="https://www.google.com/maps/embed?pb=abc" width="600" height="450"></iframe>`

	got, err := Render(source)
	if err != nil {
		t.Fatalf("Render error: %v", err)
	}
	if !strings.Contains(string(got), "<iframe") {
		t.Errorf("Render(%q) = %q, iframe should be allow-listed", source, got)
	}
}

func TestRenderStripsEventHandlers(t *testing.T) {
	source := `<img src="x.jpg" onerror="alert(1)">`

	got, err := Render(source)
	if err != nil {
		t.Fatalf("Render error: %v", err)
	}
	if strings.Contains(string(got), "onerror") {
		t.Errorf("Render(%q) = %q, event handler not stripped", source, got)
	}
}

// Sanitization must be idempotent: rendering already-sanitized output
// through the policy again should not change it.
func TestSanitizeIdempotent(t *testing.T) {
	source := "# Title\n\nbody with **bold** and <script>alert(1)</script>"

	once, err := Render(source)
	if err != nil {
		t.Fatalf("Render error: %v", err)
	}
	twice := policy.Sanitize(string(once))
	if string(once) != twice {
		t.Errorf("sanitize not idempotent:\nonce:  %q\ntwice: %q", once, twice)
	}
}

func TestExcerpt(t *testing.T) {
	long := strings.Repeat("a", 200)

	tests := []struct {
		name     string
		explicit string
		content  string
		want     string
	}{
		{
			name:     "explicit excerpt wins",
			explicit: "hand-written summary",
			content:  long,
			want:     "hand-written summary",
		},
		{
			name:    "long content truncated",
			content: long,
			want:    strings.Repeat("a", 150) + "...",
		},
		{
			name:    "short content still gets ellipsis",
			content: "short body",
			want:    "short body...",
		},
		{
			name:    "empty content",
			content: "",
			want:    "...",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Excerpt(tt.explicit, tt.content)
			if got != tt.want {
				t.Errorf("Excerpt(%q, len %d) = %q, want %q", tt.explicit, len(tt.content), got, tt.want)
			}
		})
	}
}
