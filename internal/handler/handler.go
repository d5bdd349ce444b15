package handler

import (
	"context"
	"log/slog"

	"golang-network-labs/blogd/internal/router"
	"golang-network-labs/blogd/internal/store"
)

// 글 저장소 (store.Store 가 구현)
type Posts interface {
	Insert(ctx context.Context, p store.Post) (int64, error)
	GetByID(ctx context.Context, id int64) (store.Post, error)
	NextID(ctx context.Context) (int64, error)
	List(ctx context.Context) ([]store.Post, error)
}

// 정적 리소스 (resource.Provider 가 구현)
type Resources interface {
	Get(name string) ([]byte, error)
}

// 핸들러 의존성
type Deps struct {
	Posts     Posts
	Resources Resources
	Logger    *slog.Logger
}

// 핸들러 본체
type Handler struct {
	posts Posts
	res   Resources
	log   *slog.Logger
}

func New(d Deps) *Handler {
	if d.Logger == nil {
		d.Logger = slog.Default()
	}
	return &Handler{posts: d.Posts, res: d.Resources, log: d.Logger}
}

// 라우팅 테이블 (구체적인 접두사 먼저)
func (h *Handler) Routes() []router.Route {
	return []router.Route{
		{Prefix: "GET /post/", Handler: h.Post},
		{Prefix: "GET /posts", Handler: h.Posts},
		{Prefix: "POST /publish", Handler: h.Publish},
		{Prefix: "GET /", Handler: h.Static},
	}
}

// 테이블로 라우터 생성
func (h *Handler) Router() *router.Router {
	return router.New(h.Routes()...)
}
