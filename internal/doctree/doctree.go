package doctree

// TitleSection names the content that precedes the first heading.
const TitleSection = "TITLE"

// Document is the raw text of a book, ready for segmentation.
type Document struct {
	Title string // Document title (from metadata or filename)
	Text  string // Line-oriented plain text
}

// Section is a named span of body text between two headings.
type Section struct {
	ChapterName string `json:"chapterName"`
	Text        string `json:"text"`
}

// Page is a fixed-size run of words from a section, numbered from 1.
type Page struct {
	PageNumber int    `json:"pageNumber"`
	Text       string `json:"text"`
}

// PaginatedSection is a section split into pages.
type PaginatedSection struct {
	ChapterName string `json:"chapterName"`
	Pages       []Page `json:"pages"`
}

// PageCount returns the total number of pages across sections.
func PageCount(sections []PaginatedSection) int {
	n := 0
	for _, s := range sections {
		n += len(s.Pages)
	}
	return n
}
