package pipeline

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"sort"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/dgallion1/bookpager/internal/doctree"
	"github.com/dgallion1/bookpager/internal/pathstore"
)

// fakeStore is an in-memory stand-in for the pathstore /kv API.
type fakeStore struct {
	mu    sync.Mutex
	nodes map[string]any
	// failPut makes PUTs under this prefix answer with failCode.
	failPut  string
	failCode int
	puts     int
}

func newFakeStore(t *testing.T) (*fakeStore, *httptest.Server) {
	t.Helper()
	fs := &fakeStore{nodes: make(map[string]any)}
	srv := httptest.NewServer(http.HandlerFunc(fs.serve))
	t.Cleanup(srv.Close)
	return fs, srv
}

func (fs *fakeStore) serve(w http.ResponseWriter, r *http.Request) {
	fs.mu.Lock()
	defer fs.mu.Unlock()

	key := strings.TrimPrefix(r.URL.Path, "/kv/")
	switch r.Method {
	case http.MethodPut:
		fs.puts++
		if fs.failPut != "" && strings.HasPrefix(key, fs.failPut) {
			http.Error(w, "rejected", fs.failCode)
			return
		}
		var req pathstore.NodeRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		fs.nodes[key] = req.Value
		w.WriteHeader(http.StatusCreated)
	case http.MethodGet:
		if prefix, ok := strings.CutSuffix(key, "/*"); ok {
			var keys []string
			for k := range fs.nodes {
				if strings.HasPrefix(k, prefix+"/") {
					keys = append(keys, k)
				}
			}
			sort.Strings(keys)
			nodes := []pathstore.NodeResponse{}
			for _, k := range keys {
				nodes = append(nodes, pathstore.NodeResponse{Key: k, Value: fs.nodes[k]})
			}
			json.NewEncoder(w).Encode(map[string]any{"nodes": nodes})
			return
		}
		v, ok := fs.nodes[key]
		if !ok {
			http.NotFound(w, r)
			return
		}
		json.NewEncoder(w).Encode(pathstore.NodeResponse{Key: key, Value: v})
	case http.MethodDelete:
		delete(fs.nodes, key)
		if r.URL.Query().Get("children") == "true" {
			for k := range fs.nodes {
				if strings.HasPrefix(k, key+"/") {
					delete(fs.nodes, k)
				}
			}
		}
		w.WriteHeader(http.StatusNoContent)
	}
}

func (fs *fakeStore) has(key string) bool {
	fs.mu.Lock()
	defer fs.mu.Unlock()
	_, ok := fs.nodes[key]
	return ok
}

func (fs *fakeStore) putCount() int {
	fs.mu.Lock()
	defer fs.mu.Unlock()
	return fs.puts
}

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func newTestPublisher(srv *httptest.Server) *Publisher {
	p := NewPublisher(pathstore.NewClient(srv.URL, "k"), discardLogger(), 4)
	p.wait = func(int) time.Duration { return 0 }
	return p
}

func sampleResult() []doctree.PaginatedSection {
	return []doctree.PaginatedSection{
		{ChapterName: "TITLE", Pages: []doctree.Page{{PageNumber: 1, Text: "My Book"}}},
		{ChapterName: "CHAPTER I", Pages: []doctree.Page{
			{PageNumber: 1, Text: "one two"},
			{PageNumber: 2, Text: "three"},
		}},
	}
}

func TestPublisher_PublishWritesLayout(t *testing.T) {
	fs, srv := newFakeStore(t)
	p := newTestPublisher(srv)

	job := &Job{ID: "j1", DocID: "doc1", Filename: "book.txt", ContentHash: "hash1", CreatedAt: time.Now()}
	stored, err := p.Publish(context.Background(), job, sampleResult(), 2)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if stored != 3 {
		t.Errorf("expected 3 pages stored, got %d", stored)
	}

	for _, key := range []string{
		"books/doc1/meta",
		"books/doc1/chapters/000",
		"books/doc1/chapters/000/pages/0001",
		"books/doc1/chapters/001/pages/0002",
		"books/by_hash/hash1/doc1",
	} {
		if !fs.has(key) {
			t.Errorf("expected node %s to be stored", key)
		}
	}
}

func TestPublisher_DuplicateLookup(t *testing.T) {
	_, srv := newFakeStore(t)
	p := newTestPublisher(srv)
	ctx := context.Background()

	if _, found, err := p.Duplicate(ctx, "hash1"); err != nil || found {
		t.Fatalf("expected no duplicate before publishing, found=%v err=%v", found, err)
	}

	job := &Job{ID: "j1", DocID: "doc1", ContentHash: "hash1", CreatedAt: time.Now()}
	if _, err := p.Publish(ctx, job, sampleResult(), 2); err != nil {
		t.Fatalf("publish: %v", err)
	}

	docID, found, err := p.Duplicate(ctx, "hash1")
	if err != nil || !found {
		t.Fatalf("expected duplicate, found=%v err=%v", found, err)
	}
	if docID != "doc1" {
		t.Errorf("expected doc1, got %q", docID)
	}
}

func TestPublisher_PermanentFailureIsNotRetried(t *testing.T) {
	fs, srv := newFakeStore(t)
	fs.failPut = "books/doc1/chapters/001"
	fs.failCode = http.StatusBadRequest
	p := newTestPublisher(srv)

	job := &Job{ID: "j1", DocID: "doc1", ContentHash: "hash1", CreatedAt: time.Now()}
	_, err := p.Publish(context.Background(), job, sampleResult(), 2)
	if err == nil {
		t.Fatal("expected publish error")
	}
	if fs.has("books/doc1/meta") {
		t.Error("expected meta not to be written after a failed chapter")
	}
	// 5 content nodes, each tried once.
	if n := fs.putCount(); n != 5 {
		t.Errorf("expected 5 PUTs, got %d", n)
	}
	if errs := job.Snapshot().Progress.Errors; len(errs) != 3 {
		t.Errorf("expected 3 recorded errors, got %v", errs)
	}
}

func TestPublisher_TemporaryFailureRetries(t *testing.T) {
	fs, srv := newFakeStore(t)
	fs.failPut = "books/doc1/chapters/000/pages/0001"
	fs.failCode = http.StatusServiceUnavailable
	p := newTestPublisher(srv)

	job := &Job{ID: "j1", DocID: "doc1", ContentHash: "hash1", CreatedAt: time.Now()}
	if _, err := p.Publish(context.Background(), job, sampleResult(), 2); err == nil {
		t.Fatal("expected publish error")
	}
	// 4 good nodes plus MaxRetries attempts on the failing page.
	if want := 4 + MaxRetries; fs.putCount() != want {
		t.Errorf("expected %d PUTs, got %d", want, fs.putCount())
	}
}

func TestPublisher_ListAndDelete(t *testing.T) {
	fs, srv := newFakeStore(t)
	p := newTestPublisher(srv)
	ctx := context.Background()

	job := &Job{ID: "j1", DocID: "doc1", Title: "My Book", ContentHash: "hash1", CreatedAt: time.Now()}
	if _, err := p.Publish(ctx, job, sampleResult(), 2); err != nil {
		t.Fatalf("publish: %v", err)
	}

	books, err := p.List(ctx, 0)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(books) != 1 || books[0].Key != "books/doc1/meta" {
		t.Fatalf("expected one book meta, got %+v", books)
	}

	existed, err := p.Delete(ctx, "doc1")
	if err != nil || !existed {
		t.Fatalf("expected delete to succeed, existed=%v err=%v", existed, err)
	}
	if fs.has("books/doc1/chapters/000") || fs.has("books/by_hash/hash1/doc1") {
		t.Error("expected book nodes and hash index to be removed")
	}

	existed, err = p.Delete(ctx, "doc1")
	if err != nil || existed {
		t.Errorf("expected second delete to report missing, existed=%v err=%v", existed, err)
	}
}
