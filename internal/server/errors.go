package server

import (
	"errors"
	"fmt"
	"syscall"
)

// 서버 에러 종류
type Kind int

const (
	// 포트 사용 불가
	KindBind Kind = iota + 1
	// 소켓 생성 실패
	KindSocket
	// accept 실패(일시적)
	KindAccept
	// 연결 read 실패
	KindRead
	// 연결 write 실패
	KindWrite
	// 치명적 핸들러 실패
	KindHandler
)

func (k Kind) String() string {
	switch k {
	case KindBind:
		return "bind"
	case KindSocket:
		return "socket"
	case KindAccept:
		return "accept"
	case KindRead:
		return "read"
	case KindWrite:
		return "write"
	case KindHandler:
		return "handler"
	default:
		return fmt.Sprintf("kind(%d)", int(k))
	}
}

// 종류 + 원인 에러
type Error struct {
	Kind Kind
	// 연결 ID (연결 단위 에러만)
	ConnID uint64
	Err    error
}

func (e *Error) Error() string {
	if e.ConnID != 0 {
		return fmt.Sprintf("%s error (conn %d): %v", e.Kind, e.ConnID, e.Err)
	}
	return fmt.Sprintf("%s error: %v", e.Kind, e.Err)
}

func (e *Error) Unwrap() error {
	return e.Err
}

// 에러 종류 확인
func IsKind(err error, k Kind) bool {
	var se *Error
	return errors.As(err, &se) && se.Kind == k
}

// listen 실패 분류
func listenError(err error) *Error {
	if errors.Is(err, syscall.EADDRINUSE) ||
		errors.Is(err, syscall.EACCES) ||
		errors.Is(err, syscall.EADDRNOTAVAIL) {
		return &Error{Kind: KindBind, Err: err}
	}
	return &Error{Kind: KindSocket, Err: err}
}
