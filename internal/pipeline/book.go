package pipeline

import (
	"github.com/dgallion1/bookpager/internal/doctree"
	"github.com/dgallion1/bookpager/internal/pager"
	"github.com/dgallion1/bookpager/internal/segment"
)

// Run segments document into chapters and paginates each one. It is pure:
// the same input always yields the same output, and an invalid config
// yields no output at all.
func Run(document string, cfg pager.Config) ([]doctree.PaginatedSection, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return pager.PaginateSections(segment.Segment(document), cfg)
}
