package main

import (
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/dgallion1/bookpager/internal/doctree"
)

var (
	// titleStyle for the book title
	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("75"))

	dimStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("240"))

	countStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("42"))

	// emptyStyle marks chapters with no pages
	emptyStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("214"))

	boxStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("75")).
			Padding(0, 1)
)

// FormatSummary renders a boxed table of chapters and their page counts.
func FormatSummary(w io.Writer, title string, wordsPerPage int, book []doctree.PaginatedSection) {
	width := 0
	for _, s := range book {
		width = max(width, lipgloss.Width(s.ChapterName))
	}

	var b strings.Builder
	fmt.Fprintf(&b, "%s\n%s %d  %s %d  %s %d\n",
		titleStyle.Render(title),
		dimStyle.Render("Chapters:"), len(book),
		dimStyle.Render("Pages:"), doctree.PageCount(book),
		dimStyle.Render("Words/page:"), wordsPerPage,
	)
	for _, s := range book {
		name := s.ChapterName + strings.Repeat(" ", width-lipgloss.Width(s.ChapterName))
		count := countStyle.Render(fmt.Sprintf("%d", len(s.Pages)))
		if len(s.Pages) == 0 {
			count = emptyStyle.Render("empty")
		}
		fmt.Fprintf(&b, "\n%s  %s", name, count)
	}

	fmt.Fprintln(w, boxStyle.Render(b.String()))
}
