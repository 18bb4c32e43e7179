package pathstore

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
)

func TestClient_PutNodeSendsAuthAndBody(t *testing.T) {
	var gotAuth, gotPath string
	var gotBody NodeRequest
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		gotPath = r.URL.Path
		json.NewDecoder(r.Body).Decode(&gotBody)
		w.WriteHeader(http.StatusCreated)
	}))
	defer srv.Close()

	c := NewClient(srv.URL, "secret")
	err := c.PutNode(context.Background(), "books/abc/meta", NodeRequest{Value: "x", Source: "bookpager:abc"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if gotAuth != "Bearer secret" {
		t.Errorf("expected bearer auth, got %q", gotAuth)
	}
	if gotPath != "/kv/books/abc/meta" {
		t.Errorf("expected path /kv/books/abc/meta, got %q", gotPath)
	}
	if gotBody.Source != "bookpager:abc" {
		t.Errorf("expected source to round trip, got %q", gotBody.Source)
	}
}

func TestClient_StatusError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "busy", http.StatusServiceUnavailable)
	}))
	defer srv.Close()

	err := NewClient(srv.URL, "k").PutNode(context.Background(), "a", NodeRequest{})
	var se *StatusError
	if !errors.As(err, &se) {
		t.Fatalf("expected *StatusError, got %v", err)
	}
	if se.Code != http.StatusServiceUnavailable || !se.Temporary() {
		t.Errorf("expected temporary 503, got %d temporary=%v", se.Code, se.Temporary())
	}
	if (&StatusError{Code: http.StatusBadRequest}).Temporary() {
		t.Error("expected 400 to be permanent")
	}
}

func TestClient_GetNodeMissing(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	defer srv.Close()

	node, err := NewClient(srv.URL, "k").GetNode(context.Background(), "missing")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if node != nil {
		t.Errorf("expected nil node, got %+v", node)
	}
}

func TestClient_ListChildren(t *testing.T) {
	var gotPath, gotLimit string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		gotLimit = r.URL.Query().Get("limit")
		w.Write([]byte(`{"nodes":[{"key_path":"books.a.meta","value":{"title":"A"}}]}`))
	}))
	defer srv.Close()

	nodes, err := NewClient(srv.URL, "k").ListChildren(context.Background(), "books", 5)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if gotPath != "/kv/books/*" || gotLimit != "5" {
		t.Errorf("unexpected request path=%q limit=%q", gotPath, gotLimit)
	}
	if len(nodes) != 1 || nodes[0].Key != "books.a.meta" {
		t.Errorf("unexpected nodes: %+v", nodes)
	}
}

func TestClient_DeleteNodeRecursive(t *testing.T) {
	var gotQuery string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotQuery = r.URL.RawQuery
		w.WriteHeader(http.StatusNoContent)
	}))
	defer srv.Close()

	if err := NewClient(srv.URL, "k").DeleteNode(context.Background(), "books/a", true); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if gotQuery != "children=true" {
		t.Errorf("expected children=true, got %q", gotQuery)
	}
}
