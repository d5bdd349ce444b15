package protocol

import (
	"fmt"
	"io"
	"net/http"
	"strconv"
)

// 기본 콘텐츠 타입
const DefaultContentType = "text/html"

// 고정 응답 본문
const (
	InvalidRequestBody      = "Invalid request.\n\nNot found.\n"
	NonexistentResourceBody = "Nonexistent resource\n"
	InternalFailureBody     = "Internal failure\n"
	TruncatedRequestBody    = "Request truncated\n"
)

// 요청마다 새로 만드는 응답
type Response struct {
	// 상태 코드(기본 200)
	Status int
	// Content-type 값
	ContentType string
	// 본문(바이너리 가능)
	Body []byte
}

// 200 응답
func OK(body []byte) *Response {
	return &Response{Status: http.StatusOK, ContentType: DefaultContentType, Body: body}
}

// 텍스트 응답
func Text(status int, s string) *Response {
	return &Response{Status: status, ContentType: DefaultContentType, Body: []byte(s)}
}

// 상태 라인 + 헤더 + 빈 줄
// Content-Length 는 본문 바이트 길이
func (r *Response) Header() []byte {
	status := r.Status
	if status == 0 {
		status = http.StatusOK
	}
	ct := r.ContentType
	if ct == "" {
		ct = DefaultContentType
	}

	b := make([]byte, 0, 128)
	b = append(b, "HTTP/1.1 "...)
	b = strconv.AppendInt(b, int64(status), 10)
	if text := http.StatusText(status); text != "" {
		b = append(b, ' ')
		b = append(b, text...)
	}
	b = append(b, "\r\nContent-type: "...)
	b = append(b, ct...)
	b = append(b, "\r\nContent-Length: "...)
	b = strconv.AppendInt(b, int64(len(r.Body)), 10)
	b = append(b, "\r\nConnection: Keep-Alive\r\n\r\n"...)
	return b
}

// 와이어 포맷 전체
func Encode(r *Response) []byte {
	h := r.Header()
	out := make([]byte, 0, len(h)+len(r.Body))
	out = append(out, h...)
	return append(out, r.Body...)
}

// 헤더 쓰기 → 본문 쓰기 (순서대로 두 번)
// 어느 쪽이든 실패하면 에러
func (r *Response) WriteTo(w io.Writer) (int64, error) {
	h := r.Header()
	n, err := w.Write(h)
	total := int64(n)
	if err == nil && n < len(h) {
		err = io.ErrShortWrite
	}
	if err != nil {
		return total, fmt.Errorf("write header: %w", err)
	}

	if len(r.Body) == 0 {
		return total, nil
	}

	n, err = w.Write(r.Body)
	total += int64(n)
	if err == nil && n < len(r.Body) {
		err = io.ErrShortWrite
	}
	if err != nil {
		return total, fmt.Errorf("write body: %w", err)
	}
	return total, nil
}
