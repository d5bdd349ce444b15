package server

import (
	"errors"
	"fmt"
	"io"
	"net/http"

	"golang-network-labs/blogd/internal/conn"
	"golang-network-labs/blogd/internal/protocol"
	"golang-network-labs/blogd/internal/router"
)

// 연결 하나의 read → decode → route → write 루프
// 상대가 닫으면 nil, I/O 실패면 *Error
// 어떤 경로로 끝나든 연결은 닫힌다
func (s *Server) serveConn(c *conn.Conn) error {
	defer c.Close()

	buf := make([]byte, s.cfg.MaxMessage)
	for {
		// 반복마다 read 한 번
		n, err := c.Read(buf)
		if n == 0 {
			if err == nil || errors.Is(err, io.EOF) {
				s.log.Debug("peer closed", "conn", c.ID)
				return nil
			}
			return &Error{Kind: KindRead, ConnID: c.ID, Err: err}
		}
		if err != nil && !errors.Is(err, io.EOF) {
			return &Error{Kind: KindRead, ConnID: c.ID, Err: err}
		}
		peerDone := errors.Is(err, io.EOF)

		req := protocol.DecodeChunk(buf[:n], n == len(buf))
		s.log.Debug("request",
			"conn", c.ID, "bytes", n, "method", req.Method, "path", req.Path)
		if req.Truncated {
			s.log.Warn("request may be truncated",
				"conn", c.ID, "bytes", n, "method", req.Method, "path", req.Path)
		}

		resp, herr := s.dispatch(c, req)

		if _, err := resp.WriteTo(c); err != nil {
			return &Error{Kind: KindWrite, ConnID: c.ID, Err: err}
		}
		s.served.Add(1)

		if herr != nil && errors.Is(herr, router.ErrFatal) {
			s.cfg.OnFatal(herr)
			return &Error{Kind: KindHandler, ConnID: c.ID, Err: herr}
		}
		if peerDone {
			return nil
		}
	}
}

// 라우팅 + 핸들러 에러를 일반 실패 응답으로
func (s *Server) dispatch(c *conn.Conn, req *protocol.Request) (*protocol.Response, error) {
	resp, err := s.router.Dispatch(c, req)
	if err == nil && resp == nil {
		err = fmt.Errorf("handler for %q returned no response", req.Line())
	}
	if err != nil {
		s.log.Error("handler failed",
			"conn", c.ID, "method", req.Method, "path", req.Path, "err", err)
		return protocol.Text(http.StatusInternalServerError, protocol.InternalFailureBody), err
	}
	return resp, nil
}
