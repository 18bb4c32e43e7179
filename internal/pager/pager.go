package pager

import (
	"errors"
	"fmt"
	"strings"

	"github.com/dgallion1/bookpager/internal/doctree"
)

// DefaultWordsPerPage is the page size used when none is configured.
const DefaultWordsPerPage = 250

// ErrInvalidConfiguration is returned when the page size is not a positive integer.
var ErrInvalidConfiguration = errors.New("invalid configuration")

// Config controls pagination.
type Config struct {
	WordsPerPage int // Maximum words per page; the last page may be shorter.
}

// DefaultConfig returns the standard 250-word page size.
func DefaultConfig() Config {
	return Config{WordsPerPage: DefaultWordsPerPage}
}

// Validate checks that the page size is usable.
func (c Config) Validate() error {
	if c.WordsPerPage < 1 {
		return fmt.Errorf("%w: wordsPerPage must be >= 1, got %d", ErrInvalidConfiguration, c.WordsPerPage)
	}
	return nil
}

// Paginate splits text into pages of at most wordsPerPage words. Words are
// re-joined with single spaces; original spacing and newlines are dropped.
// Empty or whitespace-only text yields no pages.
func Paginate(text string, wordsPerPage int) ([]doctree.Page, error) {
	if err := (Config{WordsPerPage: wordsPerPage}).Validate(); err != nil {
		return nil, err
	}

	words := Words(text)
	pages := make([]doctree.Page, 0, (len(words)+wordsPerPage-1)/wordsPerPage)
	for i := 0; i < len(words); i += wordsPerPage {
		end := min(i+wordsPerPage, len(words))
		pages = append(pages, doctree.Page{
			PageNumber: len(pages) + 1,
			Text:       strings.Join(words[i:end], " "),
		})
	}
	return pages, nil
}

// PaginateSections paginates every section in order. The config is checked
// before any work is done, so an error never comes with partial output.
func PaginateSections(sections []doctree.Section, cfg Config) ([]doctree.PaginatedSection, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	out := make([]doctree.PaginatedSection, 0, len(sections))
	for _, s := range sections {
		pages, err := Paginate(s.Text, cfg.WordsPerPage)
		if err != nil {
			return nil, fmt.Errorf("paginate %q: %w", s.ChapterName, err)
		}
		out = append(out, doctree.PaginatedSection{
			ChapterName: s.ChapterName,
			Pages:       pages,
		})
	}
	return out, nil
}
