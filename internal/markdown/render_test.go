package markdown

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFragment_HeadingsAndInlineSpans(t *testing.T) {
	out := Fragment("# Title\n\n**bold** and *italic*")

	assert.Contains(t, out, "<h1>Title</h1>")
	assert.Contains(t, out, "<strong>bold</strong>")
	assert.Contains(t, out, "<em>italic</em>")
	assert.NotContains(t, out, "*")
}

func TestFragment_HeadingLevels(t *testing.T) {
	out := Fragment("# One\n## Two\n### Three")

	assert.Contains(t, out, "<h1>One</h1>")
	assert.Contains(t, out, "<h2>Two</h2>")
	assert.Contains(t, out, "<h3>Three</h3>")
}

func TestFragment_BoldIsNotParsedAsItalic(t *testing.T) {
	out := Fragment("**emphasis**")

	assert.Contains(t, out, "<strong>emphasis</strong>")
	assert.NotContains(t, out, "<em>")
}

func TestFragment_InlineCode(t *testing.T) {
	out := Fragment("use `go test` here in the middle of a sentence")

	assert.Contains(t, out, "<code>go test</code>")
}

func TestFragment_ListItems(t *testing.T) {
	out := Fragment("- first\n- second")

	assert.Contains(t, out, "<li>first</li>")
	assert.Contains(t, out, "<li>second</li>")
}

func TestFragment_Table(t *testing.T) {
	out := Fragment("| Name | Role |\n|------|------|\n| Alice | Developer |")

	require.Equal(t, 1, strings.Count(out, "<table>"))
	assert.Equal(t, 2, strings.Count(out, "<tr>"), "separator row must produce no <tr>")
	assert.Contains(t, out, "<th>Name</th><th>Role</th>")
	assert.Contains(t, out, "<td>Alice</td><td>Developer</td>")
}

func TestFragment_TableKeepsEmptyCells(t *testing.T) {
	out := Fragment("| | |\n|---|---|\n| **Remote** | Yes |")

	assert.Contains(t, out, "<th></th><th></th>")
	assert.Contains(t, out, "<td><strong>Remote</strong></td><td>Yes</td>")
}

func TestFragment_HorizontalRule(t *testing.T) {
	out := Fragment("before\n\n---\n\nafter")

	assert.Contains(t, out, "<hr>")
	assert.Contains(t, out, "<p>before</p>")
	assert.Contains(t, out, "<p>after</p>")
}

func TestFragment_LongerDashRunsAreRules(t *testing.T) {
	out := Fragment("----------")
	assert.Contains(t, out, "<hr>")
	assert.NotContains(t, out, "<p>")
}

func TestFragment_ParagraphsFromBlankSeparatedBlocks(t *testing.T) {
	out := Fragment("first block\n\n\n\nsecond block")

	assert.Equal(t, 2, strings.Count(out, "<p>"))
	assert.NotContains(t, out, "<p></p>")
}

func TestRender_FullDocument(t *testing.T) {
	fixed := time.Date(2025, 3, 14, 9, 30, 0, 0, time.UTC)
	r := NewRendererAt(func() time.Time { return fixed })

	out := r.Render("# Summary\n\nContent here.", "候補者レジュメ")

	assert.True(t, strings.HasPrefix(out, "<!DOCTYPE html>"))
	assert.Contains(t, out, "<title>候補者レジュメ</title>")
	assert.Contains(t, out, "2025-03-14 09:30")
	assert.Contains(t, out, "<h1>Summary</h1>")
	assert.Contains(t, out, "<p>Content here.</p>")
}
