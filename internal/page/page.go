package page

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"strconv"

	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"

	"golang-network-labs/blogd/internal/store"
)

// <title> 이 없거나 비어 있음
var ErrNoTitle = errors.New("no title")

// 요소 노드
func el(a atom.Atom, attrs []html.Attribute, children ...*html.Node) *html.Node {
	n := &html.Node{Type: html.ElementNode, DataAtom: a, Data: a.String(), Attr: attrs}
	for _, c := range children {
		n.AppendChild(c)
	}
	return n
}

// 텍스트 노드
func text(s string) *html.Node {
	return &html.Node{Type: html.TextNode, Data: s}
}

func link(href, label string) *html.Node {
	return el(atom.A, []html.Attribute{{Key: "href", Val: href}}, text(label))
}

// <!DOCTYPE html><html><head><title>..</title></head><body>..</body></html>
func document(title string, body ...*html.Node) ([]byte, error) {
	doc := &html.Node{Type: html.DocumentNode}
	doc.AppendChild(&html.Node{Type: html.DoctypeNode, Data: "html"})
	doc.AppendChild(el(atom.Html, nil,
		el(atom.Head, nil,
			el(atom.Meta, []html.Attribute{{Key: "charset", Val: "utf-8"}}),
			el(atom.Title, nil, text(title)),
		),
		el(atom.Body, nil, body...),
	))

	var buf bytes.Buffer
	if err := html.Render(&buf, doc); err != nil {
		return nil, fmt.Errorf("render %q: %w", title, err)
	}
	return buf.Bytes(), nil
}

// 글 주소
func PostPath(id int64) string {
	return "/post/" + strconv.FormatInt(id, 10)
}

// 글 한 편
func Post(p store.Post) ([]byte, error) {
	return document(p.Title,
		el(atom.Article, nil,
			el(atom.H1, nil, text(p.Title)),
			el(atom.P, []html.Attribute{{Key: "class", Val: "author"}}, text("by "+p.User)),
			el(atom.Pre, nil, text(p.Content)),
		),
		el(atom.P, nil, link("/posts", "all posts")),
	)
}

// 글 목록
func Index(posts []store.Post) ([]byte, error) {
	list := el(atom.Ul, nil)
	for _, p := range posts {
		list.AppendChild(el(atom.Li, nil,
			link(PostPath(p.ID), p.Title),
			text(" by "+p.User),
		))
	}

	body := []*html.Node{el(atom.H1, nil, text("Posts"))}
	if len(posts) == 0 {
		body = append(body, el(atom.P, nil, text("No posts yet.")))
	} else {
		body = append(body, list)
	}
	return document("Posts", body...)
}

// 게시 완료
func Published(p store.Post) ([]byte, error) {
	return document("Published",
		el(atom.P, nil,
			text("Published "),
			link(PostPath(p.ID), p.Title),
		),
	)
}

// HTML 의 첫 <title> 텍스트
func Title(r io.Reader) (string, error) {
	doc, err := html.Parse(r)
	if err != nil {
		return "", err
	}

	var title string
	var dfs func(*html.Node)
	dfs = func(n *html.Node) {
		if n.Type == html.ElementNode && n.DataAtom == atom.Title && n.FirstChild != nil {
			title = n.FirstChild.Data
			return
		}
		for c := n.FirstChild; c != nil && title == ""; c = c.NextSibling {
			dfs(c)
		}
	}
	dfs(doc)

	if title == "" {
		return "", ErrNoTitle
	}
	return title, nil
}
