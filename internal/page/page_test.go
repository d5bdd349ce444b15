package page

import (
	"bytes"
	"errors"
	"strings"
	"testing"

	"golang-network-labs/blogd/internal/store"
)

func TestPostEscapesContent(t *testing.T) {
	b, err := Post(store.Post{ID: 3, User: "kim", Title: "<script>x</script>", Content: "a & b"})
	if err != nil {
		t.Fatal(err)
	}
	s := string(b)
	if !strings.HasPrefix(s, "<!DOCTYPE html>") {
		t.Fatalf("missing doctype: %q", s)
	}
	if strings.Contains(s, "<script>") {
		t.Fatalf("title not escaped: %q", s)
	}
	if !strings.Contains(s, "&lt;script&gt;x&lt;/script&gt;") || !strings.Contains(s, "a &amp; b") {
		t.Fatalf("escaped text missing: %q", s)
	}

	title, err := Title(bytes.NewReader(b))
	if err != nil {
		t.Fatal(err)
	}
	if title != "<script>x</script>" {
		t.Fatalf("Title = %q", title)
	}
}

func TestIndex(t *testing.T) {
	b, err := Index([]store.Post{
		{ID: 1, User: "a", Title: "first"},
		{ID: 2, User: "b", Title: "second"},
	})
	if err != nil {
		t.Fatal(err)
	}
	s := string(b)
	for _, want := range []string{`<a href="/post/1">first</a>`, `<a href="/post/2">second</a>`, " by b"} {
		if !strings.Contains(s, want) {
			t.Errorf("index missing %q: %s", want, s)
		}
	}

	empty, err := Index(nil)
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(string(empty), "No posts yet.") {
		t.Fatalf("empty index: %s", empty)
	}
}

func TestPublishedLinksToPost(t *testing.T) {
	b, err := Published(store.Post{ID: 12, Title: "hi"})
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(string(b), `<a href="/post/12">hi</a>`) {
		t.Fatalf("published page: %s", b)
	}
}

func TestTitleMissing(t *testing.T) {
	if _, err := Title(strings.NewReader("<html><body>none</body></html>")); !errors.Is(err, ErrNoTitle) {
		t.Fatal("expected error")
	}
}
