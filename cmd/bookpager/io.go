package main

import (
	"bytes"
	"fmt"
	"io"
	"os"

	"github.com/dgallion1/bookpager/internal/codec"
	"github.com/dgallion1/bookpager/internal/doctree"
	"github.com/dgallion1/bookpager/internal/parser"
)

// readBook loads path as a document. "-" reads plain text from stdin; files
// with an unknown extension are read as plain text.
func readBook(path string) (*doctree.Document, error) {
	if path == "-" {
		return (&parser.TextParser{}).Parse(os.Stdin, "stdin")
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read input: %w", err)
	}

	var p parser.Parser = &parser.TextParser{}
	if parser.IsSupportedExtension(path) {
		if p, err = parser.ForFile(path, parseOptions()); err != nil {
			return nil, err
		}
	}
	doc, err := p.Parse(bytes.NewReader(data), path)
	if err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}
	log.Debug("read book", "path", path, "title", doc.Title, "bytes", len(data))
	return doc, nil
}

// openInput opens path for reading, with "-" meaning stdin.
func openInput(path string) (io.ReadCloser, error) {
	if path == "-" {
		return io.NopCloser(os.Stdin), nil
	}
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("read input: %w", err)
	}
	return f, nil
}

// writeOutput writes v as indented JSON to out, or to stdout when out is
// empty.
func writeOutput(out string, v any) error {
	if out == "" {
		return codec.Encode(os.Stdout, v)
	}
	var buf bytes.Buffer
	if err := codec.Encode(&buf, v); err != nil {
		return err
	}
	if err := os.WriteFile(out, buf.Bytes(), 0o644); err != nil {
		return fmt.Errorf("write output: %w", err)
	}
	log.Debug("wrote output", "path", out, "bytes", buf.Len())
	return nil
}
