package pipeline

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/dgallion1/bookpager/internal/doctree"
	"github.com/dgallion1/bookpager/internal/pathstore"
)

const booksPrefix = "books"

// Publisher writes paginated books to pathstore:
//
//	books/{doc}/meta
//	books/{doc}/chapters/{i}
//	books/{doc}/chapters/{i}/pages/{n}
//	books/by_hash/{hash}/{doc}
type Publisher struct {
	ps            *pathstore.Client
	log           *slog.Logger
	maxConcurrent int
	wait          func(attempt int) time.Duration
}

func NewPublisher(ps *pathstore.Client, log *slog.Logger, maxConcurrent int) *Publisher {
	if maxConcurrent <= 0 {
		maxConcurrent = 1
	}
	return &Publisher{ps: ps, log: log, maxConcurrent: maxConcurrent, wait: Backoff}
}

// BookSummary is one published book as listed by List.
type BookSummary struct {
	Key   string `json:"key"`
	Value any    `json:"value"`
}

func bookPrefix(docID string) string {
	return fmt.Sprintf("%s/%s", booksPrefix, docID)
}

func hashPrefix(hash string) string {
	return fmt.Sprintf("%s/by_hash/%s", booksPrefix, hash)
}

// Duplicate reports the doc ID of an already published book with the same
// content hash, if any.
func (p *Publisher) Duplicate(ctx context.Context, hash string) (string, bool, error) {
	children, err := p.ps.ListChildren(ctx, hashPrefix(hash), 1)
	if err != nil {
		return "", false, err
	}
	if len(children) == 0 {
		return "", false, nil
	}
	key := children[0].Key
	if i := strings.LastIndexAny(key, "./"); i >= 0 {
		key = key[i+1:]
	}
	return key, true, nil
}

type putNode struct {
	key string
	req pathstore.NodeRequest
}

// Publish stores every chapter and page of result, then the book meta and
// hash index. It returns the number of page nodes stored.
func (p *Publisher) Publish(ctx context.Context, job *Job, result []doctree.PaginatedSection, wordsPerPage int) (int, error) {
	source := "bookpager:" + job.DocID
	prefix := bookPrefix(job.DocID)

	var nodes []putNode
	for i, s := range result {
		chapterKey := fmt.Sprintf("%s/chapters/%03d", prefix, i)
		nodes = append(nodes, putNode{key: chapterKey, req: pathstore.NodeRequest{
			Value:  map[string]any{"chapterName": s.ChapterName, "index": i, "pages": len(s.Pages)},
			Source: source,
		}})
		for _, pg := range s.Pages {
			nodes = append(nodes, putNode{key: fmt.Sprintf("%s/pages/%04d", chapterKey, pg.PageNumber), req: pathstore.NodeRequest{
				Value:  map[string]any{"chapterName": s.ChapterName, "pageNumber": pg.PageNumber, "text": pg.Text},
				Source: source,
			}})
		}
	}

	type putResult struct {
		key  string
		page bool
		err  error
	}
	results := make(chan putResult, len(nodes))
	sem := make(chan struct{}, p.maxConcurrent)

	for _, n := range nodes {
		sem <- struct{}{}
		go func(n putNode) {
			defer func() { <-sem }()
			err := withRetry(ctx, p.wait, func() error {
				return p.ps.PutNode(ctx, n.key, n.req)
			})
			results <- putResult{key: n.key, page: strings.Contains(n.key, "/pages/"), err: err}
		}(n)
	}

	stored := 0
	var failed []string
	for range nodes {
		r := <-results
		if r.err != nil {
			p.log.Error("publish failed", "key", r.key, "error", r.err)
			job.AddError(fmt.Sprintf("publish %s: %s", r.key, r.err))
			failed = append(failed, r.key)
			continue
		}
		if r.page {
			stored++
		}
	}
	if len(failed) > 0 {
		return stored, fmt.Errorf("publish: %d of %d nodes failed", len(failed), len(nodes))
	}

	meta := pathstore.NodeRequest{
		Value: map[string]any{
			"filename":       job.Filename,
			"title":          job.Title,
			"content_hash":   job.ContentHash,
			"sections":       len(result),
			"pages":          doctree.PageCount(result),
			"words_per_page": wordsPerPage,
			"created_at":     job.CreatedAt.Format(time.RFC3339),
		},
		Source: source,
	}
	if err := withRetry(ctx, p.wait, func() error { return p.ps.PutNode(ctx, prefix+"/meta", meta) }); err != nil {
		return stored, fmt.Errorf("publish meta: %w", err)
	}

	index := pathstore.NodeRequest{
		Value:  map[string]any{"filename": job.Filename, "created_at": job.CreatedAt.Format(time.RFC3339)},
		Source: source,
	}
	hashKey := fmt.Sprintf("%s/%s", hashPrefix(job.ContentHash), job.DocID)
	if err := withRetry(ctx, p.wait, func() error { return p.ps.PutNode(ctx, hashKey, index) }); err != nil {
		// The book is readable without the index; only dedup suffers.
		p.log.Warn("hash index write failed", "key", hashKey, "error", err)
	}

	return stored, nil
}

// List returns the meta nodes of published books.
func (p *Publisher) List(ctx context.Context, limit int) ([]BookSummary, error) {
	children, err := p.ps.ListChildren(ctx, booksPrefix, limit)
	if err != nil {
		return nil, err
	}
	books := []BookSummary{}
	for _, c := range children {
		if strings.HasSuffix(c.Key, ".meta") || strings.HasSuffix(c.Key, "/meta") {
			books = append(books, BookSummary{Key: c.Key, Value: c.Value})
		}
	}
	return books, nil
}

// Delete removes a published book and its hash index entry. It reports
// whether the book existed.
func (p *Publisher) Delete(ctx context.Context, docID string) (bool, error) {
	prefix := bookPrefix(docID)
	meta, err := p.ps.GetNode(ctx, prefix+"/meta")
	if err != nil {
		return false, err
	}
	if meta == nil {
		return false, nil
	}

	if m, ok := meta.Value.(map[string]any); ok {
		if hash, _ := m["content_hash"].(string); hash != "" {
			if err := p.ps.DeleteNode(ctx, fmt.Sprintf("%s/%s", hashPrefix(hash), docID), false); err != nil {
				p.log.Warn("hash index delete failed", "doc_id", docID, "error", err)
			}
		}
	}

	if err := p.ps.DeleteNode(ctx, prefix, true); err != nil {
		return true, err
	}
	return true, nil
}
