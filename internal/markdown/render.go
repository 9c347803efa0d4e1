// Package markdown converts the limited Markdown subset produced by the
// model into a standalone, print-styled HTML document. The converter is a
// single forward scan classifying lines into typed blocks, followed by a
// renderer over the block sequence.
package markdown

import (
	"fmt"
	"regexp"
	"strings"
	"time"
)

type blockKind int

const (
	blockHeading blockKind = iota
	blockListItem
	blockTable
	blockRule
	blockParagraph
)

type block struct {
	kind  blockKind
	level int      // heading level 1..3
	text  string   // heading, list item or paragraph content
	rows  []string // raw table rows
}

var (
	headingRe   = regexp.MustCompile(`^(#{1,3}) (.+)$`)
	listItemRe  = regexp.MustCompile(`^- (.+)$`)
	tableRowRe  = regexp.MustCompile(`^\|.*\|$`)
	ruleRe      = regexp.MustCompile(`^-{3,}$`)
	separatorRe = regexp.MustCompile(`^[-\s:]+$`)

	// Bold must be substituted before italic so that ** is not consumed
	// as two italic markers.
	boldRe   = regexp.MustCompile(`\*\*(.+?)\*\*`)
	italicRe = regexp.MustCompile(`\*(.+?)\*`)
	codeRe   = regexp.MustCompile("`(.+?)`")
)

// Renderer produces HTML documents. The clock is injectable so the
// generation timestamp is deterministic in tests.
type Renderer struct {
	now func() time.Time
}

func NewRenderer() *Renderer {
	return &Renderer{now: time.Now}
}

// NewRendererAt fixes the renderer's clock.
func NewRendererAt(now func() time.Time) *Renderer {
	return &Renderer{now: now}
}

// Render converts markdown into a full HTML document with the given title.
// Re-rendering the output is not supported: the converter is applied once,
// to model-generated Markdown only.
func (r *Renderer) Render(markdown, title string) string {
	fragment := Fragment(markdown)
	generated := r.now().Format("2006-01-02 15:04")
	return fmt.Sprintf(documentTemplate, title, title, generated, fragment)
}

// Fragment converts markdown into an HTML fragment.
func Fragment(markdown string) string {
	blocks := scan(markdown)

	var sb strings.Builder
	for _, b := range blocks {
		switch b.kind {
		case blockHeading:
			sb.WriteString(fmt.Sprintf("<h%d>%s</h%d>\n", b.level, inline(b.text), b.level))
		case blockListItem:
			sb.WriteString("<li>" + inline(b.text) + "</li>\n")
		case blockTable:
			sb.WriteString(renderTable(b.rows))
		case blockRule:
			sb.WriteString("<hr>\n")
		case blockParagraph:
			content := inline(strings.TrimSpace(b.text))
			if content == "" {
				continue
			}
			sb.WriteString("<p>" + content + "</p>\n")
		}
	}
	return sb.String()
}

// scan classifies lines into blocks in one forward pass. Ordering of the
// checks matters: a table separator row is also a run of dashes, so table
// grouping must win over the rule check while a table is open.
func scan(markdown string) []block {
	var blocks []block
	var paragraph []string
	var table []string

	flushParagraph := func() {
		if len(paragraph) > 0 {
			blocks = append(blocks, block{kind: blockParagraph, text: strings.Join(paragraph, "\n")})
			paragraph = nil
		}
	}
	flushTable := func() {
		if len(table) > 0 {
			blocks = append(blocks, block{kind: blockTable, rows: table})
			table = nil
		}
	}

	for _, line := range strings.Split(markdown, "\n") {
		trimmed := strings.TrimSpace(line)

		if tableRowRe.MatchString(trimmed) {
			flushParagraph()
			table = append(table, trimmed)
			continue
		}
		flushTable()

		if m := headingRe.FindStringSubmatch(trimmed); m != nil {
			flushParagraph()
			blocks = append(blocks, block{kind: blockHeading, level: len(m[1]), text: m[2]})
			continue
		}
		if m := listItemRe.FindStringSubmatch(trimmed); m != nil {
			flushParagraph()
			blocks = append(blocks, block{kind: blockListItem, text: m[1]})
			continue
		}
		if ruleRe.MatchString(trimmed) {
			flushParagraph()
			blocks = append(blocks, block{kind: blockRule})
			continue
		}
		if trimmed == "" {
			flushParagraph()
			continue
		}
		paragraph = append(paragraph, line)
	}
	flushTable()
	flushParagraph()

	return blocks
}

// renderTable converts a contiguous run of pipe rows. The first rendered
// row uses header cells; separator rows of dashes are dropped.
func renderTable(rows []string) string {
	var sb strings.Builder
	sb.WriteString("<table>\n")

	headerDone := false
	for _, row := range rows {
		cells := splitRow(row)
		if isSeparatorRow(cells) {
			continue
		}

		tag := "td"
		if !headerDone {
			tag = "th"
			headerDone = true
		}
		sb.WriteString("<tr>")
		for _, cell := range cells {
			sb.WriteString(fmt.Sprintf("<%s>%s</%s>", tag, inline(cell), tag))
		}
		sb.WriteString("</tr>\n")
	}

	sb.WriteString("</table>\n")
	return sb.String()
}

// splitRow returns trimmed cell contents, dropping only the delimiter
// artifacts outside the outermost pipes. Interior empty cells are kept as
// empty strings.
func splitRow(row string) []string {
	row = strings.TrimPrefix(row, "|")
	row = strings.TrimSuffix(row, "|")
	parts := strings.Split(row, "|")
	cells := make([]string, len(parts))
	for i, p := range parts {
		cells[i] = strings.TrimSpace(p)
	}
	return cells
}

func isSeparatorRow(cells []string) bool {
	sawDash := false
	for _, c := range cells {
		if c == "" {
			continue
		}
		if !separatorRe.MatchString(c) {
			return false
		}
		sawDash = true
	}
	return sawDash
}

func inline(text string) string {
	text = boldRe.ReplaceAllString(text, "<strong>$1</strong>")
	text = italicRe.ReplaceAllString(text, "<em>$1</em>")
	text = codeRe.ReplaceAllString(text, "<code>$1</code>")
	return text
}

const documentTemplate = `<!DOCTYPE html>
<html lang="ja">
<head>
    <meta charset="UTF-8">
    <meta name="viewport" content="width=device-width, initial-scale=1.0">
    <title>%s</title>
    <style>
        * { margin: 0; padding: 0; box-sizing: border-box; }
        body {
            font-family: "Hiragino Kaku Gothic ProN", "Hiragino Sans", "Yu Gothic", "Meiryo", sans-serif;
            font-size: 14px;
            line-height: 1.8;
            color: #333;
            max-width: 800px;
            margin: 0 auto;
            padding: 40px 20px;
            background: #fff;
        }
        h1 {
            font-size: 24px;
            color: #1a73e8;
            border-bottom: 3px solid #1a73e8;
            padding-bottom: 10px;
            margin-bottom: 20px;
        }
        h2 {
            font-size: 18px;
            color: #333;
            background: #f5f5f5;
            padding: 8px 12px;
            margin: 25px 0 15px 0;
            border-left: 4px solid #1a73e8;
        }
        h3 {
            font-size: 16px;
            color: #555;
            margin: 20px 0 10px 0;
            padding-left: 10px;
            border-left: 3px solid #ddd;
        }
        p { margin: 10px 0; }
        ul, ol { margin: 10px 0 10px 25px; }
        li { margin: 5px 0; }
        table { width: 100%%; border-collapse: collapse; margin: 15px 0; }
        th, td { border: 1px solid #ddd; padding: 10px 12px; text-align: left; }
        th { background: #f8f9fa; font-weight: bold; }
        tr:nth-child(even) { background: #fafafa; }
        strong { color: #1a73e8; }
        code { background: #f5f5f5; padding: 2px 6px; border-radius: 3px; font-family: monospace; }
        hr { border: none; border-top: 1px solid #ddd; margin: 20px 0; }
        .header { text-align: center; margin-bottom: 30px; }
        .generated { text-align: right; color: #999; font-size: 12px; margin-bottom: 20px; }
        @media print {
            body { padding: 20px; font-size: 12px; }
            h1 { font-size: 20px; }
            h2 { font-size: 16px; }
        }
    </style>
</head>
<body>
    <div class="header">
        <h1>%s</h1>
    </div>
    <div class="generated">%s</div>
    <div class="content">
        %s
    </div>
</body>
</html>`
