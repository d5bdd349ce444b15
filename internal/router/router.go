package router

import (
	"errors"
	"net/http"
	"strings"

	"golang-network-labs/blogd/internal/conn"
	"golang-network-labs/blogd/internal/protocol"
)

// 프로세스를 계속 돌리면 안 되는 핸들러 에러
// (저장소 쓰기 실패 등) 은 이 값을 감싼다
var ErrFatal = errors.New("fatal handler error")

// 요청 처리 함수
type Handler func(c *conn.Conn, req *protocol.Request) (*protocol.Response, error)

// (접두사, 핸들러) 한 쌍
// Prefix 는 "METHOD /path" 요청 라인에 대해 비교
type Route struct {
	Prefix  string
	Handler Handler
}

// 순서 고정 라우팅 테이블
type Router struct {
	routes   []Route
	notFound Handler
}

// 라우터 생성
// 더 구체적인 접두사를 먼저 넘겨야 한다 (첫 매치 우선)
func New(routes ...Route) *Router {
	rs := make([]Route, len(routes))
	copy(rs, routes)
	return &Router{routes: rs, notFound: Default}
}

// 기본 핸들러 교체
func (rt *Router) NotFound(h Handler) {
	if h == nil {
		h = Default
	}
	rt.notFound = h
}

// 등록된 테이블(복사본)
func (rt *Router) Routes() []Route {
	out := make([]Route, len(rt.routes))
	copy(out, rt.routes)
	return out
}

// 첫 매치 핸들러 선택
func (rt *Router) Match(req *protocol.Request) Handler {
	line := req.Line()
	if line == "" {
		return rt.notFound
	}
	for _, r := range rt.routes {
		if strings.HasPrefix(line, r.Prefix) {
			return r.Handler
		}
	}
	return rt.notFound
}

// 선택 + 호출, I/O 없음
func (rt *Router) Dispatch(c *conn.Conn, req *protocol.Request) (*protocol.Response, error) {
	return rt.Match(req)(c, req)
}

// 매치 실패 응답
func Default(*conn.Conn, *protocol.Request) (*protocol.Response, error) {
	return protocol.Text(http.StatusOK, protocol.InvalidRequestBody), nil
}
