package cmd

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/lepinkainen/sanad/internal/hadith"
	"github.com/lepinkainen/sanad/internal/pagination"
)

type textStyles struct {
	title     lipgloss.Style
	id        lipgloss.Style
	native    lipgloss.Style
	metadata  lipgloss.Style
	highlight lipgloss.Style
	grades    map[hadith.Grade]lipgloss.Style
}

func newTextStyles() textStyles {
	return textStyles{
		title: lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("254")),
		id: lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("110")),
		native: lipgloss.NewStyle().
			Foreground(lipgloss.Color("248")),
		metadata: lipgloss.NewStyle().
			Foreground(lipgloss.Color("247")).
			Faint(true),
		highlight: lipgloss.NewStyle().
			Foreground(lipgloss.Color("230")).
			Background(lipgloss.Color("62")),
		grades: map[hadith.Grade]lipgloss.Style{
			hadith.GradeAuthentic:  lipgloss.NewStyle().Foreground(lipgloss.Color("114")),
			hadith.GradeGood:       lipgloss.NewStyle().Foreground(lipgloss.Color("178")),
			hadith.GradeWeak:       lipgloss.NewStyle().Foreground(lipgloss.Color("208")),
			hadith.GradeFabricated: lipgloss.NewStyle().Foreground(lipgloss.Color("196")),
			hadith.GradeUnknown:    lipgloss.NewStyle().Foreground(lipgloss.Color("244")),
		},
	}
}

var styles = newTextStyles()

func writeJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	enc.SetEscapeHTML(false)
	return enc.Encode(v)
}

func renderCollections(w io.Writer, collections []hadith.Collection) error {
	for _, c := range collections {
		line := fmt.Sprintf("%-10s %s", styles.id.Render(c.ID), styles.title.Render(c.DisplayName))
		if c.DisplayNameNative != "" {
			line += "  " + styles.native.Render(c.DisplayNameNative)
		}
		if _, err := fmt.Fprintln(w, line); err != nil {
			return err
		}
		meta := fmt.Sprintf("           %d books, %d narrations", c.TotalBooks, c.TotalNarrations)
		if c.CompilerName != "" {
			meta += ", compiled by " + c.CompilerName
		}
		if _, err := fmt.Fprintln(w, styles.metadata.Render(meta)); err != nil {
			return err
		}
	}
	return nil
}

func renderBooks(w io.Writer, books []hadith.Book) error {
	if len(books) == 0 {
		_, err := fmt.Fprintln(w, "No books found")
		return err
	}
	for _, b := range books {
		line := fmt.Sprintf("%4d. %s", b.Number, styles.title.Render(b.Name))
		if b.NameNative != "" {
			line += "  " + styles.native.Render(b.NameNative)
		}
		switch {
		case b.Synthetic:
			line += "  " + styles.metadata.Render("(placeholder)")
		case b.NarrationCount > 0 && b.LastNarrationNumber > 0:
			line += "  " + styles.metadata.Render(fmt.Sprintf("(%d narrations, %d-%d)",
				b.NarrationCount, b.FirstNarrationNumber, b.LastNarrationNumber))
		case b.NarrationCount > 0:
			line += "  " + styles.metadata.Render(fmt.Sprintf("(%d narrations)", b.NarrationCount))
		}
		if _, err := fmt.Fprintln(w, line); err != nil {
			return err
		}
	}
	return nil
}

func renderPage(w io.Writer, res pagination.Result[hadith.Hadith]) error {
	header := fmt.Sprintf("Page %d of %d, %d narrations", res.CurrentPage, max(res.LastPage, 1), res.Total)
	if res.Source != "" {
		header += ", from " + res.Source
	}
	if _, err := fmt.Fprintln(w, styles.metadata.Render(header)); err != nil {
		return err
	}
	for _, h := range res.Items {
		if _, err := fmt.Fprintln(w); err != nil {
			return err
		}
		if err := renderHadith(w, h); err != nil {
			return err
		}
	}
	return nil
}

func renderHadith(w io.Writer, h hadith.Hadith) error {
	ref := h.Reference
	if ref == "" {
		ref = fmt.Sprintf("%s %d", h.CollectionID, h.Number)
	}

	var b strings.Builder
	grade := styles.grades[h.Grade].Render(string(h.Grade))
	if h.GradedBy != "" {
		grade += styles.metadata.Render(" (" + h.GradedBy + ")")
	}
	fmt.Fprintf(&b, "%s  %s\n", styles.id.Render(ref), grade)
	if h.InBookReference != "" {
		fmt.Fprintln(&b, styles.metadata.Render(h.InBookReference))
	}
	if h.Narrator != "" {
		fmt.Fprintln(&b, styles.metadata.Render("Narrator: "+h.Narrator))
	}

	text := h.Text
	if h.Snippet != "" {
		text = highlight(h.Snippet)
	}
	if text != "" {
		fmt.Fprintln(&b, text)
	}
	if h.TextNative != "" && h.Snippet == "" {
		fmt.Fprintln(&b, styles.native.Render(h.TextNative))
	}

	_, err := io.WriteString(w, b.String())
	return err
}

// highlight replaces <mark> spans from search snippets with styled text.
func highlight(snippet string) string {
	var b strings.Builder
	for {
		start := strings.Index(snippet, "<mark>")
		if start < 0 {
			break
		}
		end := strings.Index(snippet[start:], "</mark>")
		if end < 0 {
			break
		}
		end += start
		b.WriteString(snippet[:start])
		b.WriteString(styles.highlight.Render(snippet[start+len("<mark>") : end]))
		snippet = snippet[end+len("</mark>"):]
	}
	b.WriteString(snippet)
	return b.String()
}
