package admin

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"gopkg.in/yaml.v3"

	"golang-network-labs/blogd/internal/resource"
	"golang-network-labs/blogd/internal/server"
	"golang-network-labs/blogd/internal/store"
)

type fixedStats server.Stats

func (f fixedStats) Stats() server.Stats { return server.Stats(f) }

type memPosts []store.Post

func (m memPosts) GetByID(_ context.Context, id int64) (store.Post, error) {
	for _, p := range m {
		if p.ID == id {
			return p, nil
		}
	}
	return store.Post{}, store.ErrNotFound
}

func (m memPosts) NextID(context.Context) (int64, error) { return int64(len(m) + 1), nil }

func (m memPosts) List(context.Context) ([]store.Post, error) { return m, nil }

type memResources map[string]string

func (m memResources) Get(name string) ([]byte, error) {
	if s, ok := m[name]; ok {
		return []byte(s), nil
	}
	return nil, resource.ErrNotFound
}

func newTestAdmin(t *testing.T) http.Handler {
	t.Helper()
	ctx, cancel := context.WithCancel(context.Background())
	t.Cleanup(cancel)
	return New(ctx, Deps{
		Stats: fixedStats{Accepted: 4, Active: 1, Served: 9, Failed: 2},
		Posts: memPosts{{ID: 1, User: "kim", Title: "hello", Content: "body"}},
		Resources: memResources{
			"index":   "<html><head><title>Home</title></head></html>",
			"notitle": "<p>x</p>",
		},
		Logger: slog.New(slog.NewTextHandler(io.Discard, nil)),
	})
}

func get(t *testing.T, h http.Handler, target, accept string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodGet, target, nil)
	if accept != "" {
		req.Header.Set("Accept", accept)
	}
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func TestHealthz(t *testing.T) {
	rec := get(t, newTestAdmin(t), "/healthz", "")
	if rec.Code != 200 || rec.Body.String() != "ok" {
		t.Fatalf("healthz = %d %q", rec.Code, rec.Body.String())
	}
}

func TestMetricsJSON(t *testing.T) {
	rec := get(t, newTestAdmin(t), "/metrics", "")
	if rec.Code != 200 {
		t.Fatalf("code = %d", rec.Code)
	}
	var m map[string]int64
	if err := json.Unmarshal(rec.Body.Bytes(), &m); err != nil {
		t.Fatal(err)
	}
	want := map[string]int64{"accepted": 4, "active": 1, "served": 9, "failed": 2, "next_post_id": 2}
	for k, v := range want {
		if m[k] != v {
			t.Errorf("%s = %d, want %d", k, m[k], v)
		}
	}
}

func TestMetricsYAML(t *testing.T) {
	for _, tc := range []struct{ target, accept string }{
		{"/metrics?format=yaml", ""},
		{"/metrics", "application/x-yaml"},
	} {
		rec := get(t, newTestAdmin(t), tc.target, tc.accept)
		if ct := rec.Header().Get("Content-Type"); !strings.HasPrefix(ct, "application/x-yaml") {
			t.Fatalf("content type = %q", ct)
		}
		var m map[string]int64
		if err := yaml.Unmarshal(rec.Body.Bytes(), &m); err != nil {
			t.Fatal(err)
		}
		if m["served"] != 9 || m["next_post_id"] != 2 {
			t.Fatalf("yaml metrics = %v", m)
		}
	}
}

func TestPosts(t *testing.T) {
	h := newTestAdmin(t)

	rec := get(t, h, "/api/posts/1", "")
	var p store.Post
	if err := json.Unmarshal(rec.Body.Bytes(), &p); err != nil {
		t.Fatal(err)
	}
	if rec.Code != 200 || p.Title != "hello" || p.User != "kim" {
		t.Fatalf("post = %d %+v", rec.Code, p)
	}

	if rec := get(t, h, "/api/posts/9", ""); rec.Code != http.StatusNotFound {
		t.Fatalf("missing post code = %d", rec.Code)
	}
	if rec := get(t, h, "/api/posts/abc", ""); rec.Code != http.StatusBadRequest {
		t.Fatalf("bad id code = %d", rec.Code)
	}

	rec = get(t, h, "/api/posts", "")
	var list []store.Post
	if err := json.Unmarshal(rec.Body.Bytes(), &list); err != nil {
		t.Fatal(err)
	}
	if len(list) != 1 {
		t.Fatalf("list = %+v", list)
	}
}

func TestPageTitle(t *testing.T) {
	h := newTestAdmin(t)

	rec := get(t, h, "/api/pages/index/title", "")
	var res TitleResult
	if err := json.Unmarshal(rec.Body.Bytes(), &res); err != nil {
		t.Fatal(err)
	}
	if res.Title != "Home" || res.Name != "index" {
		t.Fatalf("title = %+v", res)
	}

	if rec := get(t, h, "/api/pages/nope/title", ""); rec.Code != http.StatusNotFound {
		t.Fatalf("missing page code = %d", rec.Code)
	}
	if rec := get(t, h, "/api/pages/notitle/title", ""); rec.Code != http.StatusUnprocessableEntity {
		t.Fatalf("untitled page code = %d", rec.Code)
	}
}
