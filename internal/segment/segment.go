// Package segment splits a plain-text book into named sections at heading
// lines.
package segment

import (
	"regexp"
	"strings"

	"github.com/dgallion1/bookpager/internal/doctree"
)

var lineBreak = regexp.MustCompile(`\r?\n`)

type scanState int

const (
	accumulating scanState = iota // collecting body lines for the open section
	finished                      // final section closed, no more input
)

// scanner accumulates body lines for the open section. A heading closes it
// and opens the next one; finish closes the last.
type scanner struct {
	state scanState
	name  string
	body  []string
	out   []doctree.Section
}

func newScanner() *scanner {
	return &scanner{state: accumulating, name: doctree.TitleSection}
}

func (s *scanner) feed(line string) {
	if name, ok := Classify(line); ok {
		s.transition(name)
		return
	}
	s.body = append(s.body, line)
}

// transition closes the open section and starts one named next.
func (s *scanner) transition(next string) {
	s.out = append(s.out, doctree.Section{
		ChapterName: s.name,
		Text:        strings.Join(s.body, "\n"),
	})
	s.name = next
	s.body = s.body[:0]
}

func (s *scanner) finish() []doctree.Section {
	if s.state == accumulating {
		s.transition("")
		s.state = finished
	}
	return s.out
}

// Segment partitions document into sections in a single forward scan. The
// first section is always TITLE, even when empty. Heading lines are consumed
// and never appear in section text.
func Segment(document string) []doctree.Section {
	s := newScanner()
	for _, line := range lineBreak.Split(document, -1) {
		s.feed(line)
	}
	return s.finish()
}
