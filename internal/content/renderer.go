package content

import (
	"fmt"
	"sort"
	"strings"
)

// Sorted returns a copy of blocks in ascending order. Equal orders keep
// their original position.
func Sorted(blocks []Block) []Block {
	out := make([]Block, len(blocks))
	copy(out, blocks)
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].Order < out[j].Order
	})
	return out
}

// Render turns content blocks into Markdown text. Blocks of unknown type
// are skipped.
func Render(blocks []Block) string {
	var parts []string
	for _, block := range Sorted(blocks) {
		var sb strings.Builder
		switch d := block.Data.(type) {
		case Paragraph:
			renderParagraph(&sb, d)
		case List:
			renderList(&sb, d)
		case Code:
			renderCode(&sb, d)
		case Media:
			renderMedia(&sb, d)
		case Table:
			renderTable(&sb, d)
		default:
			continue
		}
		if text := strings.TrimRight(sb.String(), "\n"); text != "" {
			parts = append(parts, text)
		}
	}
	return strings.Join(parts, "\n\n")
}

// CodeFor returns the code of the first block written in language.
func CodeFor(blocks []Block, language string) (string, bool) {
	for _, block := range Sorted(blocks) {
		if code, ok := block.Data.(Code); ok && strings.EqualFold(code.Language, language) {
			return code.Code, true
		}
	}
	return "", false
}

func renderParagraph(sb *strings.Builder, p Paragraph) {
	sb.WriteString(strings.TrimSpace(p.Text))
}

func renderList(sb *strings.Builder, l List) {
	for i, item := range l.Items {
		if l.Style == ListOrdered {
			fmt.Fprintf(sb, "%d. %s\n", i+1, item)
		} else {
			fmt.Fprintf(sb, "• %s\n", item)
		}
	}
}

func renderCode(sb *strings.Builder, c Code) {
	sb.WriteString("```")
	sb.WriteString(c.Language)
	sb.WriteString("\n")
	sb.WriteString(strings.TrimRight(c.Code, "\n"))
	sb.WriteString("\n```")
}

func renderMedia(sb *strings.Builder, m Media) {
	label := m.Caption
	if label == "" {
		label = m.AltText
	}
	if label == "" {
		label = m.URL
	}
	fmt.Fprintf(sb, "[%s](%s)", label, m.URL)
	if m.Caption != "" && m.AltText != "" && m.AltText != m.Caption {
		fmt.Fprintf(sb, "\n_%s_", m.AltText)
	}
}

func renderTable(sb *strings.Builder, t Table) {
	width := len(t.Headers)
	for _, row := range t.Rows {
		if len(row.Cells) > width {
			width = len(row.Cells)
		}
	}
	if width == 0 {
		return
	}

	writeRow := func(cells []string) {
		sb.WriteString("|")
		for i := 0; i < width; i++ {
			cell := ""
			if i < len(cells) {
				cell = strings.ReplaceAll(cells[i], "|", "\\|")
			}
			sb.WriteString(" ")
			sb.WriteString(cell)
			sb.WriteString(" |")
		}
		sb.WriteString("\n")
	}

	writeRow(t.Headers)
	sb.WriteString("|")
	for i := 0; i < width; i++ {
		sb.WriteString(" --- |")
	}
	sb.WriteString("\n")
	for _, row := range t.Rows {
		writeRow(row.Cells)
	}
}
