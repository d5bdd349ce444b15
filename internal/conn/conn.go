package conn

import (
	"net"
	"sync"
	"sync/atomic"
)

// 프로세스 전체 연결 ID 카운터
var lastID atomic.Uint64

// 수락된 연결 하나
type Conn struct {
	// 고유 ID (1부터 증가)
	ID uint64
	// 상대 주소
	Peer net.Addr

	nc net.Conn

	closeOnce sync.Once
	closeErr  error
	closed    atomic.Bool
}

// 연결 생성(ID 발급)
func New(nc net.Conn) *Conn {
	return &Conn{
		ID:   lastID.Add(1),
		Peer: nc.RemoteAddr(),
		nc:   nc,
	}
}

// 한 번 읽기
func (c *Conn) Read(p []byte) (int, error) {
	return c.nc.Read(p)
}

// 전체 쓰기
func (c *Conn) Write(p []byte) (int, error) {
	return c.nc.Write(p)
}

// 로컬 주소
func (c *Conn) LocalAddr() net.Addr {
	return c.nc.LocalAddr()
}

// 핸들 반납은 정확히 한 번
func (c *Conn) Close() error {
	c.closeOnce.Do(func() {
		c.closed.Store(true)
		c.closeErr = c.nc.Close()
	})
	return c.closeErr
}

// 닫힘 여부
func (c *Conn) Closed() bool {
	return c.closed.Load()
}

// 로그용 상대 주소 문자열
func (c *Conn) PeerString() string {
	if c.Peer == nil {
		return "-"
	}
	return c.Peer.String()
}
