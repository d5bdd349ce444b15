package handler

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"strings"

	"golang-network-labs/blogd/internal/conn"
	"golang-network-labs/blogd/internal/page"
	"golang-network-labs/blogd/internal/protocol"
	"golang-network-labs/blogd/internal/router"
	"golang-network-labs/blogd/internal/store"
)

// GET /post/<id>
func (h *Handler) Post(c *conn.Conn, req *protocol.Request) (*protocol.Response, error) {
	id, err := strconv.ParseInt(strings.TrimPrefix(req.Path, "/post/"), 10, 64)
	if err != nil || id <= 0 {
		return protocol.Text(http.StatusOK, protocol.NonexistentResourceBody), nil
	}

	p, err := h.posts.GetByID(context.Background(), id)
	if errors.Is(err, store.ErrNotFound) {
		return protocol.Text(http.StatusOK, protocol.NonexistentResourceBody), nil
	}
	if err != nil {
		return nil, err
	}

	b, err := page.Post(p)
	if err != nil {
		return nil, err
	}
	return protocol.OK(b), nil
}

// GET /posts
func (h *Handler) Posts(c *conn.Conn, req *protocol.Request) (*protocol.Response, error) {
	posts, err := h.posts.List(context.Background())
	if err != nil {
		return nil, err
	}
	b, err := page.Index(posts)
	if err != nil {
		return nil, err
	}
	return protocol.OK(b), nil
}

// POST /publish: form 본문 저장
func (h *Handler) Publish(c *conn.Conn, req *protocol.Request) (*protocol.Response, error) {
	// 잘린 본문은 저장하지 않음
	if req.Truncated {
		return protocol.Text(http.StatusRequestEntityTooLarge, protocol.TruncatedRequestBody), nil
	}

	var connID uint64
	if c != nil {
		connID = c.ID
	}

	p, err := store.ParseForm(strings.TrimSpace(string(req.Body)))
	if err != nil {
		h.log.Warn("bad publish form", "conn", connID, "err", err)
		return protocol.Text(http.StatusOK, protocol.InvalidRequestBody), nil
	}
	if strings.TrimSpace(p.User) == "" || strings.TrimSpace(p.Title) == "" {
		h.log.Warn("publish missing user or title", "conn", connID)
		return protocol.Text(http.StatusOK, protocol.InvalidRequestBody), nil
	}

	// 쓰기 실패는 치명적
	id, err := h.posts.Insert(context.Background(), p)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", router.ErrFatal, err)
	}
	p.ID = id

	h.log.Info("post published", "conn", connID, "post", id, "user", p.User)

	b, err := page.Published(p)
	if err != nil {
		return nil, err
	}
	return protocol.OK(b), nil
}
