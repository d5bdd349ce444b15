package router

import (
	"testing"

	"golang-network-labs/blogd/internal/conn"
	"golang-network-labs/blogd/internal/protocol"
)

func named(name string) Handler {
	return func(*conn.Conn, *protocol.Request) (*protocol.Response, error) {
		return protocol.Text(200, name), nil
	}
}

func blogRouter() *Router {
	return New(
		Route{Prefix: "GET /post/", Handler: named("post")},
		Route{Prefix: "GET /posts", Handler: named("posts")},
		Route{Prefix: "POST /publish", Handler: named("publish")},
		Route{Prefix: "GET /", Handler: named("static")},
	)
}

func TestDispatch(t *testing.T) {
	rt := blogRouter()

	tests := []struct {
		raw  string
		want string
	}{
		{"GET /post/42 HTTP/1.1\r\n\r\n", "post"},
		{"GET /posts HTTP/1.1\r\n\r\n", "posts"},
		{"POST /publish HTTP/1.1\r\n\r\nuser=a", "publish"},
		{"GET /index HTTP/1.1\r\n\r\n", "static"},
		{"GET /post HTTP/1.1\r\n\r\n", "static"},
		{"GET / HTTP/1.1\r\n\r\n", "static"},
		{"DELETE /x HTTP/1.1\r\n\r\n", protocol.InvalidRequestBody},
		{"POST /other HTTP/1.1\r\n\r\n", protocol.InvalidRequestBody},
		{"\x00garbage", protocol.InvalidRequestBody},
	}
	for _, tt := range tests {
		resp, err := rt.Dispatch(nil, protocol.Decode([]byte(tt.raw)))
		if err != nil {
			t.Fatalf("%q: %v", tt.raw, err)
		}
		if string(resp.Body) != tt.want {
			t.Errorf("%q routed to %q, want %q", tt.raw, resp.Body, tt.want)
		}
	}
}

func TestFirstMatchWins(t *testing.T) {
	// 일반 규칙을 먼저 두면 구체 규칙은 도달 불가
	rt := New(
		Route{Prefix: "GET /", Handler: named("general")},
		Route{Prefix: "GET /post/", Handler: named("post")},
	)
	resp, _ := rt.Dispatch(nil, protocol.Decode([]byte("GET /post/42 HTTP/1.1\r\n\r\n")))
	if string(resp.Body) != "general" {
		t.Fatalf("got %q, want table order to decide", resp.Body)
	}
}

func TestNotFoundOverride(t *testing.T) {
	rt := blogRouter()
	rt.NotFound(named("custom"))

	resp, _ := rt.Dispatch(nil, protocol.Decode([]byte("PUT /x HTTP/1.1\r\n\r\n")))
	if string(resp.Body) != "custom" {
		t.Fatalf("got %q", resp.Body)
	}

	rt.NotFound(nil)
	resp, _ = rt.Dispatch(nil, protocol.Decode([]byte("PUT /x HTTP/1.1\r\n\r\n")))
	if string(resp.Body) != protocol.InvalidRequestBody {
		t.Fatalf("got %q", resp.Body)
	}
}

func TestRoutesIsCopy(t *testing.T) {
	rt := blogRouter()
	rs := rt.Routes()
	rs[0].Prefix = "GET /"
	if rt.Routes()[0].Prefix != "GET /post/" {
		t.Fatal("Routes() exposed the internal table")
	}
}
