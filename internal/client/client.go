package client

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"net"
	"net/url"
	"strconv"
	"strings"
	"time"
)

// 클라이언트 설정
type Config struct {
	// 서버 주소 (host:port)
	Addr        string
	DialTimeout time.Duration
	// 요청 하나당 읽기/쓰기 타임아웃
	IOTimeout time.Duration
}

// 받은 응답
type Reply struct {
	// 상태 라인 전체
	StatusLine string
	// 상태 코드
	Status int
	// 헤더(이름 소문자)
	Header map[string]string
	// Content-Length 만큼의 본문
	Body []byte
}

// 연결 하나를 재사용하는 클라이언트
type Client struct {
	cfg  Config
	conn net.Conn
	br   *bufio.Reader
}

// 서버 접속 (Context + 연결 타임아웃)
func Dial(ctx context.Context, cfg Config) (*Client, error) {
	if cfg.DialTimeout <= 0 {
		cfg.DialTimeout = 2 * time.Second
	}
	if cfg.IOTimeout <= 0 {
		cfg.IOTimeout = 5 * time.Second
	}

	dialer := net.Dialer{Timeout: cfg.DialTimeout}
	conn, err := dialer.DialContext(ctx, "tcp", cfg.Addr)
	if err != nil {
		return nil, err
	}
	return &Client{cfg: cfg, conn: conn, br: bufio.NewReader(conn)}, nil
}

// 원본 요청 전송 → 응답 하나 수신
func (c *Client) Do(raw []byte) (*Reply, error) {
	// 요청마다 전체 타임아웃
	if err := c.conn.SetDeadline(time.Now().Add(c.cfg.IOTimeout)); err != nil {
		return nil, fmt.Errorf("set deadline: %w", err)
	}

	if _, err := c.conn.Write(raw); err != nil {
		return nil, fmt.Errorf("send request: %w", err)
	}
	return ReadReply(c.br)
}

// GET 요청
func (c *Client) Get(path string) (*Reply, error) {
	return c.Do([]byte("GET " + path + " HTTP/1.1\r\nHost: " + c.cfg.Addr + "\r\n\r\n"))
}

// POST /publish (form 본문)
func (c *Client) Publish(user, title, content string) (*Reply, error) {
	body := "user=" + url.QueryEscape(user) +
		"&title=" + url.QueryEscape(title) +
		"&content=" + url.QueryEscape(content)
	req := "POST /publish HTTP/1.1\r\n" +
		"Host: " + c.cfg.Addr + "\r\n" +
		"Content-Type: application/x-www-form-urlencoded\r\n" +
		"Content-Length: " + strconv.Itoa(len(body)) + "\r\n\r\n" + body
	return c.Do([]byte(req))
}

// 로컬 주소
func (c *Client) LocalAddr() net.Addr {
	return c.conn.LocalAddr()
}

// 연결 닫기
func (c *Client) Close() error {
	return c.conn.Close()
}

// 상태 라인 + 헤더 + Content-Length 본문 읽기
func ReadReply(br *bufio.Reader) (*Reply, error) {
	line, err := br.ReadString('\n')
	if err != nil {
		return nil, fmt.Errorf("read status line: %w", err)
	}
	r := &Reply{StatusLine: strings.TrimRight(line, "\r\n"), Header: map[string]string{}}

	// "HTTP/1.1 200 OK"
	fields := strings.Fields(r.StatusLine)
	if len(fields) < 2 || !strings.HasPrefix(fields[0], "HTTP/") {
		return nil, fmt.Errorf("bad status line %q", r.StatusLine)
	}
	if r.Status, err = strconv.Atoi(fields[1]); err != nil {
		return nil, fmt.Errorf("bad status code %q", fields[1])
	}

	for {
		line, err := br.ReadString('\n')
		if err != nil {
			return nil, fmt.Errorf("read header: %w", err)
		}
		line = strings.TrimRight(line, "\r\n")
		if line == "" {
			break
		}
		k, v, ok := strings.Cut(line, ":")
		if !ok {
			return nil, fmt.Errorf("bad header %q", line)
		}
		r.Header[strings.ToLower(strings.TrimSpace(k))] = strings.TrimSpace(v)
	}

	cl, ok := r.Header["content-length"]
	if !ok {
		return nil, errors.New("missing Content-Length")
	}
	n, err := strconv.Atoi(cl)
	if err != nil || n < 0 {
		return nil, fmt.Errorf("bad Content-Length %q", cl)
	}
	r.Body = make([]byte, n)
	if _, err := io.ReadFull(br, r.Body); err != nil {
		return nil, fmt.Errorf("read body: %w", err)
	}
	return r, nil
}
