package parser

import (
	"fmt"
	"io"

	"github.com/dgallion1/bookpager/internal/doctree"
)

// TextParser handles plain text files. The text is passed through untouched;
// line structure matters to heading detection.
type TextParser struct{}

func (p *TextParser) Parse(r io.Reader, filename string) (*doctree.Document, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("read text: %w", err)
	}
	return &doctree.Document{
		Title: baseTitle(filename),
		Text:  string(data),
	}, nil
}
