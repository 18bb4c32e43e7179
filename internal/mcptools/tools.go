// Package mcptools exposes chapter splitting and pagination as MCP tools.
package mcptools

import (
	"bytes"
	"context"
	"fmt"
	"os"

	"github.com/dgallion1/bookpager/internal/doctree"
	"github.com/dgallion1/bookpager/internal/pager"
	"github.com/dgallion1/bookpager/internal/parser"
	"github.com/dgallion1/bookpager/internal/pipeline"
	"github.com/dgallion1/bookpager/internal/segment"
	"github.com/modelcontextprotocol/go-sdk/mcp"
)

const serverName = "bookpager"

// Toolset holds the defaults shared by every tool call.
type Toolset struct {
	WordsPerPage int
	ParseOpts    parser.Options
}

type SplitChaptersInput struct {
	Text string `json:"text" jsonschema:"Plain text of the book"`
}

type SplitChaptersOutput struct {
	Chapters []doctree.Section `json:"chapters"`
}

// ChapterInput mirrors doctree.Section but lets text be null or absent.
type ChapterInput struct {
	ChapterName string  `json:"chapterName" jsonschema:"Chapter name"`
	Text        *string `json:"text,omitempty" jsonschema:"Chapter text (null or missing is treated as empty)"`
}

type SplitPagesInput struct {
	Chapters     []ChapterInput `json:"chapters" jsonschema:"Chapters as produced by split_chapters"`
	WordsPerPage int            `json:"words_per_page,omitempty" jsonschema:"Words per page (optional, defaults to 250)"`
}

type PaginateBookInput struct {
	Text         string `json:"text,omitempty" jsonschema:"Plain text of the book (optional if path is set)"`
	Path         string `json:"path,omitempty" jsonschema:"Path to a txt, md, html, pdf, docx or epub file (optional if text is set)"`
	WordsPerPage int    `json:"words_per_page,omitempty" jsonschema:"Words per page (optional, defaults to 250)"`
}

type PagesOutput struct {
	Chapters  []doctree.PaginatedSection `json:"chapters"`
	PageCount int                        `json:"page_count"`
}

// SplitChapters segments text into TITLE, PREFACE, CHAPTER and CONCLUSION
// sections.
func (ts Toolset) SplitChapters(ctx context.Context, req *mcp.CallToolRequest, input SplitChaptersInput) (*mcp.CallToolResult, SplitChaptersOutput, error) {
	return nil, SplitChaptersOutput{Chapters: segment.Segment(input.Text)}, nil
}

// SplitPages paginates a chapter list.
func (ts Toolset) SplitPages(ctx context.Context, req *mcp.CallToolRequest, input SplitPagesInput) (*mcp.CallToolResult, PagesOutput, error) {
	sections := make([]doctree.Section, len(input.Chapters))
	for i, ch := range input.Chapters {
		sections[i].ChapterName = ch.ChapterName
		if ch.Text != nil {
			sections[i].Text = *ch.Text
		}
	}
	result, err := pager.PaginateSections(sections, ts.pageConfig(input.WordsPerPage))
	if err != nil {
		return nil, PagesOutput{}, err
	}
	return nil, PagesOutput{Chapters: result, PageCount: doctree.PageCount(result)}, nil
}

// PaginateBook segments and paginates a book given inline or by path.
func (ts Toolset) PaginateBook(ctx context.Context, req *mcp.CallToolRequest, input PaginateBookInput) (*mcp.CallToolResult, PagesOutput, error) {
	text := input.Text
	if input.Path != "" {
		doc, err := ts.readBook(input.Path)
		if err != nil {
			return nil, PagesOutput{}, err
		}
		text = doc.Text
	}
	result, err := pipeline.Run(text, ts.pageConfig(input.WordsPerPage))
	if err != nil {
		return nil, PagesOutput{}, err
	}
	return nil, PagesOutput{Chapters: result, PageCount: doctree.PageCount(result)}, nil
}

func (ts Toolset) readBook(path string) (*doctree.Document, error) {
	p, err := parser.ForFile(path, ts.ParseOpts)
	if err != nil {
		return nil, err
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read book '%s': %w", path, err)
	}
	return p.Parse(bytes.NewReader(data), path)
}

// pageConfig treats zero as "use the default"; negative values are passed
// through so validation rejects them.
func (ts Toolset) pageConfig(wordsPerPage int) pager.Config {
	if wordsPerPage != 0 {
		return pager.Config{WordsPerPage: wordsPerPage}
	}
	if ts.WordsPerPage != 0 {
		return pager.Config{WordsPerPage: ts.WordsPerPage}
	}
	return pager.DefaultConfig()
}

// Register adds the bookpager tools to server.
func Register(server *mcp.Server, ts Toolset) {
	mcp.AddTool(server,
		&mcp.Tool{
			Name:        "split_chapters",
			Description: "Splits a plain text book into chapters. A chapter starts at a PREFACE, CONCLUSION or CHAPTER <roman numeral> heading line; text before the first heading is the TITLE section.",
		},
		ts.SplitChapters,
	)
	mcp.AddTool(server,
		&mcp.Tool{
			Name:        "split_pages",
			Description: "Splits each chapter's text into pages of a fixed number of words (250 by default). Page numbers restart at 1 in every chapter.",
		},
		ts.SplitPages,
	)
	mcp.AddTool(server,
		&mcp.Tool{
			Name:        "paginate_book",
			Description: "Splits a book into chapters and pages in one step. Accepts inline text or a path to a txt, md, html, pdf, docx or epub file.",
		},
		ts.PaginateBook,
	)
}

// NewServer returns an MCP server with every bookpager tool registered.
func NewServer(version string, ts Toolset) *mcp.Server {
	server := mcp.NewServer(
		&mcp.Implementation{
			Name:    serverName,
			Version: version,
		},
		nil,
	)
	Register(server, ts)
	return server
}
