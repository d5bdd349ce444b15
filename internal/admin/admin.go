package admin

import (
	"bytes"
	"context"
	"errors"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"golang-network-labs/blogd/internal/admin/middleware"
	"golang-network-labs/blogd/internal/page"
	"golang-network-labs/blogd/internal/resource"
	"golang-network-labs/blogd/internal/server"
	"golang-network-labs/blogd/internal/store"
)

// 서버 카운터 제공자
type StatsSource interface {
	Stats() server.Stats
}

// 글 조회 (store.Store 가 구현)
type Posts interface {
	GetByID(ctx context.Context, id int64) (store.Post, error)
	NextID(ctx context.Context) (int64, error)
	List(ctx context.Context) ([]store.Post, error)
}

// 정적 리소스 조회
type Resources interface {
	Get(name string) ([]byte, error)
}

// 미들웨어 설정
type Limits struct {
	RPS            float64
	Burst          int
	MaxConcurrency int
}

// 핸들러 의존성
type Deps struct {
	Stats     StatsSource
	Posts     Posts
	Resources Resources
	Logger    *slog.Logger
	Limits    Limits
}

type api struct {
	stats StatsSource
	posts Posts
	res   Resources
}

// /metrics 응답
type Metrics struct {
	server.Stats `yaml:",inline"`
	NextPostID   int64 `json:"next_post_id" yaml:"next_post_id"`
}

// /api/pages/{name}/title 응답
type TitleResult struct {
	Name  string `json:"name" yaml:"name"`
	Title string `json:"title" yaml:"title"`
}

// chi 라우터 구성
// ctx 가 끝나면 레이트리밋 정리 고루틴도 종료
func New(ctx context.Context, d Deps) http.Handler {
	if d.Logger == nil {
		d.Logger = slog.Default()
	}
	a := &api{stats: d.Stats, posts: d.Posts, res: d.Resources}

	r := chi.NewRouter()
	r.Use(middleware.RequestLogger(d.Logger))
	r.Use(middleware.RateLimitPerIP(ctx, d.Limits.RPS, d.Limits.Burst))
	r.Use(middleware.ConcurrencyLimit(d.Limits.MaxConcurrency))

	r.Get("/healthz", a.healthz)
	r.Get("/metrics", a.metrics)
	r.Route("/api", func(r chi.Router) {
		r.Get("/posts", a.listPosts)
		r.Get("/posts/{id}", a.getPost)
		r.Get("/pages/{name}/title", a.pageTitle)
	})
	return r
}

func (a *api) healthz(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("ok"))
}

func (a *api) metrics(w http.ResponseWriter, r *http.Request) {
	m := Metrics{Stats: a.stats.Stats()}
	next, err := a.posts.NextID(r.Context())
	if err != nil {
		writeError(w, r, http.StatusInternalServerError, err.Error())
		return
	}
	m.NextPostID = next
	writeResponse(w, r, http.StatusOK, m)
}

func (a *api) listPosts(w http.ResponseWriter, r *http.Request) {
	posts, err := a.posts.List(r.Context())
	if err != nil {
		writeError(w, r, http.StatusInternalServerError, err.Error())
		return
	}
	if posts == nil {
		posts = []store.Post{}
	}
	writeResponse(w, r, http.StatusOK, posts)
}

func (a *api) getPost(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil || id <= 0 {
		writeError(w, r, http.StatusBadRequest, "invalid id")
		return
	}
	p, err := a.posts.GetByID(r.Context(), id)
	if errors.Is(err, store.ErrNotFound) {
		writeError(w, r, http.StatusNotFound, err.Error())
		return
	}
	if err != nil {
		writeError(w, r, http.StatusInternalServerError, err.Error())
		return
	}
	writeResponse(w, r, http.StatusOK, p)
}

// 정적 페이지의 <title>
func (a *api) pageTitle(w http.ResponseWriter, r *http.Request) {
	name := chi.URLParam(r, "name")
	b, err := a.res.Get(name)
	if errors.Is(err, resource.ErrNotFound) {
		writeError(w, r, http.StatusNotFound, err.Error())
		return
	}
	if err != nil {
		writeError(w, r, http.StatusInternalServerError, err.Error())
		return
	}
	title, err := page.Title(bytes.NewReader(b))
	if errors.Is(err, page.ErrNoTitle) {
		writeError(w, r, http.StatusUnprocessableEntity, err.Error())
		return
	}
	if err != nil {
		writeError(w, r, http.StatusInternalServerError, err.Error())
		return
	}
	writeResponse(w, r, http.StatusOK, TitleResult{Name: name, Title: title})
}
