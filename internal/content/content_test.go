// Copyright (c) 2026 BookVault. All rights reserved.

package content

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHTMLToMarkdown_SimpleParagraph(t *testing.T) {
	pipeline := NewPipeline()

	markdown, err := pipeline.HTMLToMarkdown("<p>A classic.</p>")
	require.NoError(t, err)

	assert.Equal(t, "A classic.", strings.TrimSpace(markdown))
}

func TestHTMLToMarkdown_RemovesDangerousElements(t *testing.T) {
	pipeline := NewPipeline()

	testCases := []struct {
		name     string
		input    string
		excluded []string
	}{
		{
			name:     "script tag and body",
			input:    `<p>Intro</p><script>alert("pwned")</script><p>Outro</p>`,
			excluded: []string{"script", "alert", "pwned"},
		},
		{
			name:     "iframe tag and body",
			input:    `<p>Before</p><iframe src="https://evil.example">framed</iframe>`,
			excluded: []string{"iframe", "evil.example", "framed"},
		},
		{
			name:     "object tag and body",
			input:    `<object data="movie.swf">fallback text</object><p>After</p>`,
			excluded: []string{"object", "movie.swf", "fallback text"},
		},
		{
			name:     "embed tag",
			input:    `<p>Keep</p><embed src="plugin.bin" type="application/octet-stream">`,
			excluded: []string{"embed", "plugin.bin"},
		},
		{
			name:     "style tag and body",
			input:    `<style>body { display: none; }</style><p>Visible</p>`,
			excluded: []string{"style", "display: none"},
		},
	}

	for _, testCase := range testCases {
		t.Run(testCase.name, func(t *testing.T) {
			markdown, err := pipeline.HTMLToMarkdown(testCase.input)
			require.NoError(t, err)

			for _, fragment := range testCase.excluded {
				assert.NotContains(t, markdown, fragment)
			}
		})
	}
}

func TestHTMLToMarkdown_KeepsSafeContent(t *testing.T) {
	pipeline := NewPipeline()

	markdown, err := pipeline.HTMLToMarkdown(
		`<p>Intro</p><script>alert(1)</script><p>A <strong>bold</strong> claim.</p>`,
	)
	require.NoError(t, err)

	assert.Contains(t, markdown, "Intro")
	assert.Contains(t, markdown, "**bold**")
}

func TestMarkdownToHTML_RendersGFM(t *testing.T) {
	pipeline := NewPipeline()

	html, err := pipeline.MarkdownToHTML("A **classic** reference.")
	require.NoError(t, err)

	assert.Contains(t, html, "<strong>classic</strong>")
}

func TestSanitizeHTML(t *testing.T) {
	pipeline := NewPipeline()

	t.Run("removes script tags", func(t *testing.T) {
		safe := pipeline.SanitizeHTML(`<p>ok</p><script>alert(1)</script>`)

		assert.Contains(t, safe, "<p>ok</p>")
		assert.NotContains(t, safe, "script")
		assert.NotContains(t, safe, "alert")
	})

	t.Run("removes event handler attributes", func(t *testing.T) {
		safe := pipeline.SanitizeHTML(`<a href="https://example.com" onclick="steal()">link</a>`)

		assert.Contains(t, safe, "link")
		assert.NotContains(t, safe, "onclick")
		assert.NotContains(t, safe, "steal")
	})
}
