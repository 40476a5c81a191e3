// Copyright (c) 2026 BookVault. All rights reserved.

/*
Package content implements the description sanitization pipeline.

Book descriptions arrive from two untrusted directions: HTML fetched from the
external metadata API and rich-text submitted by admins. Both are stored as
Markdown and re-rendered to HTML only at display time.

Three independent transforms:

  - HTMLToMarkdown: strips dangerous elements, then converts to Markdown.
    Applied before storage.
  - MarkdownToHTML: renders stored Markdown for display. Assumes trusted
    input (admin-authored or previously stripped).
  - SanitizeHTML: defense-in-depth sanitizer for HTML that must be shown
    without a Markdown round-trip.

The dangerous-element removal in HTMLToMarkdown is not configurable. Script,
iframe, object, embed, and style elements are removed together with their
contents, never escaped.
*/
package content

import (
	"bytes"
	"fmt"

	htmltomarkdown "github.com/JohannesKaufmann/html-to-markdown"
	"github.com/microcosm-cc/bluemonday"
	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"
	"github.com/yuin/goldmark/renderer/html"
)

// removedElements are stripped entirely (tag and contents) before the
// HTML-to-Markdown conversion runs.
var removedElements = []string{"script", "iframe", "object", "embed", "style"}

// Pipeline bundles the three content transforms behind one reusable value.
//
// The underlying converter, renderer, and policy are all safe for concurrent
// use, so a single Pipeline is shared across requests.
type Pipeline struct {
	converter *htmltomarkdown.Converter
	renderer  goldmark.Markdown
	policy    *bluemonday.Policy
}

// NewPipeline constructs the shared content pipeline.
func NewPipeline() *Pipeline {
	converter := htmltomarkdown.NewConverter("", true, nil)
	converter.Remove(removedElements...)

	renderer := goldmark.New(
		goldmark.WithExtensions(extension.GFM),
		goldmark.WithRendererOptions(
			html.WithHardWraps(),
		),
	)

	return &Pipeline{
		converter: converter,
		renderer:  renderer,
		policy:    bluemonday.UGCPolicy(),
	}
}

// HTMLToMarkdown converts HTML to Markdown after removing dangerous elements
// and their contents.
func (p *Pipeline) HTMLToMarkdown(htmlInput string) (string, error) {
	markdown, err := p.converter.ConvertString(htmlInput)
	if err != nil {
		return "", fmt.Errorf("content: html to markdown conversion failed: %w", err)
	}
	return markdown, nil
}

// MarkdownToHTML renders Markdown (GFM) to HTML.
//
// It performs no XSS filtering itself; callers pass it stored descriptions
// that went through [Pipeline.HTMLToMarkdown] or were authored by an admin.
func (p *Pipeline) MarkdownToHTML(markdown string) (string, error) {
	var buffer bytes.Buffer
	if err := p.renderer.Convert([]byte(markdown), &buffer); err != nil {
		return "", fmt.Errorf("content: markdown rendering failed: %w", err)
	}
	return buffer.String(), nil
}

// SanitizeHTML strips script tags, event-handler attributes, and other
// dangerous markup from HTML that must be displayed directly.
func (p *Pipeline) SanitizeHTML(htmlInput string) string {
	return p.policy.Sanitize(htmlInput)
}
