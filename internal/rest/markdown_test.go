package rest

import (
	"strings"
	"testing"
)

func TestRenderMarkdown(t *testing.T) {
	tests := []struct {
		name     string
		markdown string
		contains []string
		excludes []string
	}{
		{
			name:     "Table",
			markdown: "| a | b |\n| --- | --- |\n| 1 | 2 |\n",
			contains: []string{"<table>", "<td>1</td>"},
		},
		{
			name:     "Heading id",
			markdown: "# Image API\n",
			contains: []string{`<h1 id="image-api">Image API</h1>`},
		},
		{
			name:     "Inline code",
			markdown: "Use `POST`.",
			contains: []string{"<code>POST</code>"},
		},
		{
			name:     "Raw HTML is dropped",
			markdown: "<script>alert(1)</script>\n",
			excludes: []string{"<script>"},
		},
		{
			name:     "Empty input",
			markdown: "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			html, err := renderMarkdown([]byte(tt.markdown))
			if err != nil {
				t.Fatalf("renderMarkdown() error = %v", err)
			}
			for _, want := range tt.contains {
				if !strings.Contains(string(html), want) {
					t.Errorf("renderMarkdown() = %q, want it to contain %q", html, want)
				}
			}
			for _, unwanted := range tt.excludes {
				if strings.Contains(string(html), unwanted) {
					t.Errorf("renderMarkdown() = %q, must not contain %q", html, unwanted)
				}
			}
		})
	}
}
