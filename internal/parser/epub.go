package parser

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/dgallion1/bookpager/internal/doctree"
	"github.com/taylorskalyo/goreader/epub"
	"golang.org/x/net/html"
)

// EPUBParser handles .epub files. Spine items are read in reading order and
// flattened with the same block rules as HTML.
type EPUBParser struct{}

func (p *EPUBParser) Parse(r io.Reader, filename string) (*doctree.Document, error) {
	tmpPath, err := spool(r, "bookpager-epub-*.epub")
	if err != nil {
		return nil, err
	}
	defer os.Remove(tmpPath)

	rc, err := epub.OpenReader(tmpPath)
	if err != nil {
		return nil, fmt.Errorf("open epub: %w", err)
	}
	defer rc.Close()

	if len(rc.Rootfiles) == 0 {
		return nil, fmt.Errorf("no rootfiles found in epub")
	}
	book := rc.Rootfiles[0]

	out := &doctree.Document{Title: baseTitle(filename)}
	if book.Title != "" {
		out.Title = book.Title
	}

	var blocks []string
	for _, ref := range book.Spine.Itemrefs {
		if ref.Item == nil {
			continue
		}
		item, err := ref.Item.Open()
		if err != nil {
			continue
		}
		doc, err := html.Parse(item)
		item.Close()
		if err != nil {
			continue
		}
		root := findBody(doc)
		if root == nil {
			root = doc
		}
		blocks = append(blocks, blockLines(root)...)
	}

	out.Text = strings.Join(blocks, "\n\n")
	return out, nil
}
