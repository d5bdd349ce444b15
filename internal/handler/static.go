package handler

import (
	"errors"
	"fmt"
	"net/http"
	"strings"

	"golang-network-labs/blogd/internal/conn"
	"golang-network-labs/blogd/internal/protocol"
	"golang-network-labs/blogd/internal/resource"
)

// 기본 리소스 이름
const indexName = "index"

// GET /<name>: 정적 리소스 그대로 반환
func (h *Handler) Static(c *conn.Conn, req *protocol.Request) (*protocol.Response, error) {
	name := resourceName(req.Path)

	b, err := h.res.Get(name)
	if errors.Is(err, resource.ErrNotFound) {
		return protocol.Text(http.StatusOK, protocol.NonexistentResourceBody), nil
	}
	if err != nil {
		return nil, fmt.Errorf("static %q: %w", name, err)
	}
	return protocol.OK(b), nil
}

// "/docs/about?x=1" → "docs/about", "/" → "index"
func resourceName(path string) string {
	if i := strings.IndexAny(path, "?#"); i >= 0 {
		path = path[:i]
	}
	name := strings.TrimPrefix(path, "/")
	if name == "" {
		return indexName
	}
	return name
}
