package nlpetanque

import (
	"strings"

	"github.com/PuerkitoBio/goquery"
	"golang.org/x/net/html"
)

const cellSeparator = "|"

var lineBreakOnClose = map[string]bool{
	"tr": true, "table": true,
	"h1": true, "h2": true, "h3": true, "h4": true, "h5": true, "h6": true,
	"p": true, "div": true, "li": true,
}

var leftoverEntities = strings.NewReplacer(
	"&nbsp;", " ",
	"&amp;", "&",
	"&#39;", "'",
	"&quot;", `"`,
)

// ExtractRows flattens markup into text rows. Table cells are joined with "|",
// empty cells are dropped and every row is trimmed. It never fails; markup the
// HTML parser cannot make sense of yields no rows.
func ExtractRows(markup string) []string {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(markup))
	if err != nil {
		return nil
	}
	doc.Find("script, style, noscript, template").Remove()

	w := &rowWriter{}
	for _, node := range doc.Nodes {
		w.walk(node)
	}
	w.breakLine()

	return w.rows
}

type rowWriter struct {
	current strings.Builder
	rows    []string
}

func (w *rowWriter) walk(n *html.Node) {
	switch n.Type {
	case html.TextNode:
		w.current.WriteString(n.Data)
		return
	case html.ElementNode:
		switch n.Data {
		case "tr":
			w.breakLine()
		case "br":
			w.breakLine()
			return
		}
	case html.DocumentNode:
	default:
		return
	}

	for child := n.FirstChild; child != nil; child = child.NextSibling {
		w.walk(child)
	}

	if n.Type != html.ElementNode {
		return
	}
	switch {
	case n.Data == "td" || n.Data == "th":
		w.current.WriteString(cellSeparator)
	case lineBreakOnClose[n.Data]:
		w.breakLine()
	default:
		// inline elements are separated by whitespace only
		w.current.WriteByte(' ')
	}
}

func (w *rowWriter) breakLine() {
	line := normalizeRow(w.current.String())
	w.current.Reset()
	if line != "" {
		w.rows = append(w.rows, line)
	}
}

func normalizeRow(raw string) string {
	raw = leftoverEntities.Replace(raw)

	// strings.Fields treats U+00A0 as whitespace.
	parts := strings.Split(raw, cellSeparator)
	cells := make([]string, 0, len(parts))
	for _, part := range parts {
		cell := strings.Join(strings.Fields(part), " ")
		if cell != "" {
			cells = append(cells, cell)
		}
	}

	return strings.Join(cells, cellSeparator)
}

// splitCells is the inverse of the row encoding used by ExtractRows.
func splitCells(row string) []string {
	if row == "" {
		return nil
	}
	parts := strings.Split(row, cellSeparator)
	out := parts[:0]
	for _, part := range parts {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
