package server

import (
	"errors"
	"log/slog"
	"net"
	"os"
	"sync/atomic"
	"time"

	"golang-network-labs/blogd/internal/conn"
	"golang-network-labs/blogd/internal/router"
)

// 한 번의 read 최대 크기(10MiB)
const DefaultMaxMessage = 10 * 1024 * 1024

// 서버 설정
type Config struct {
	// 리슨 주소 (":8888")
	Addr string
	// 한 번의 read 버퍼 크기
	MaxMessage int
	// 로거 (nil 이면 slog.Default)
	Logger *slog.Logger
	// 치명적 핸들러 에러 처리 (nil 이면 로그 후 종료)
	OnFatal func(error)
}

// 카운터 스냅샷
type Stats struct {
	Accepted int64 `json:"accepted" yaml:"accepted"`
	Active   int64 `json:"active" yaml:"active"`
	Served   int64 `json:"served" yaml:"served"`
	Failed   int64 `json:"failed" yaml:"failed"`
}

// 서버 본체
type Server struct {
	cfg    Config
	router *router.Router
	log    *slog.Logger

	accepted atomic.Int64
	active   atomic.Int64
	served   atomic.Int64
	failed   atomic.Int64
}

// 서버 생성
func New(cfg Config, rt *router.Router) *Server {
	if cfg.MaxMessage <= 0 {
		cfg.MaxMessage = DefaultMaxMessage
	}
	if cfg.Logger == nil {
		cfg.Logger = slog.Default()
	}
	s := &Server{cfg: cfg, router: rt, log: cfg.Logger}
	if s.cfg.OnFatal == nil {
		s.cfg.OnFatal = s.exit
	}
	return s
}

// 모든 인터페이스에 TCP 리슨
func Listen(addr string) (net.Listener, error) {
	ln, err := net.Listen("tcp", addr)
	if err != nil {
		return nil, listenError(err)
	}
	return ln, nil
}

// 리슨 + Accept 루프
func (s *Server) ListenAndServe() error {
	ln, err := Listen(s.cfg.Addr)
	if err != nil {
		return err
	}
	s.log.Info("listening", "addr", ln.Addr().String())
	return s.Serve(ln)
}

// Accept 루프
// 연결마다 고루틴 하나, worker 진행을 기다리지 않음
func (s *Server) Serve(ln net.Listener) error {
	defer ln.Close()

	var delay time.Duration
	for {
		nc, err := ln.Accept()
		if err != nil {
			// 리슨 소켓이 닫히면 종료
			if errors.Is(err, net.ErrClosed) {
				return &Error{Kind: KindAccept, Err: err}
			}
			// 나머지는 로그 후 계속
			if delay == 0 {
				delay = 5 * time.Millisecond
			} else if delay *= 2; delay > time.Second {
				delay = time.Second
			}
			s.log.Warn("accept failed", "err", err, "retry_in", delay)
			time.Sleep(delay)
			continue
		}
		delay = 0

		c := conn.New(nc)
		s.accepted.Add(1)
		s.log.Debug("connection accepted", "conn", c.ID, "peer", c.PeerString())

		go s.handle(c)
	}
}

// worker 실행 + 결과 기록
func (s *Server) handle(c *conn.Conn) {
	s.active.Add(1)
	defer s.active.Add(-1)

	if err := s.serveConn(c); err != nil {
		s.failed.Add(1)
		s.log.Error("connection failed", "conn", c.ID, "peer", c.PeerString(), "err", err)
		return
	}
	s.log.Debug("connection finished", "conn", c.ID, "peer", c.PeerString())
}

// 카운터 읽기
func (s *Server) Stats() Stats {
	return Stats{
		Accepted: s.accepted.Load(),
		Active:   s.active.Load(),
		Served:   s.served.Load(),
		Failed:   s.failed.Load(),
	}
}

// 기본 치명 에러 처리: 잘못된 상태로 계속 돌지 않음
func (s *Server) exit(err error) {
	s.log.Error("fatal handler error, exiting", "err", err)
	os.Exit(1)
}
