package protocol

import (
	"bytes"
	"strconv"
)

var (
	// 헤더/바디 경계
	blankLine = []byte("\r\n\r\n")
	// 경로 끝 표시
	version11 = []byte("HTTP/1.1")
	// 잘림 판별용 헤더
	contentLengthKey = []byte("content-length:")
)

// 디코딩된 요청
// Header/Body 는 Raw 의 부분 슬라이스(복사 없음)
type Request struct {
	// 메서드(GET/POST..), 문법 불일치면 ""
	Method string
	// 대상 경로, 문법 불일치면 ""
	Path string

	// 한 번의 read 로 받은 원본
	Raw []byte
	// 요청 라인 포함 헤더 블록(빈 줄 제외)
	Header []byte
	// 빈 줄 다음부터 끝까지
	Body []byte

	// 한 번의 read 에 다 못 들어왔을 가능성
	Truncated bool
}

// 라우팅용 요청 라인 "METHOD /path"
func (r *Request) Line() string {
	if r.Method == "" {
		return ""
	}
	return r.Method + " " + r.Path
}

// 바이트 버퍼 → Request (실패 없음)
func Decode(buf []byte) *Request {
	return decode(buf, false)
}

// read 한 번의 결과 디코딩
// bufferFull 은 read 가 버퍼를 가득 채웠는지 여부
func DecodeChunk(chunk []byte, bufferFull bool) *Request {
	return decode(chunk, bufferFull)
}

func decode(buf []byte, bufferFull bool) *Request {
	r := &Request{Raw: buf}

	// 첫 빈 줄에서 헤더 스캔 종료
	if end := bytes.Index(buf, blankLine); end >= 0 {
		r.Header = buf[:end]
		r.Body = buf[end+len(blankLine):]
	} else {
		r.Header = buf
		r.Body = buf[len(buf):]
	}

	r.Method, r.Path = parseRequestLine(r.Header)

	r.Truncated = bufferFull
	if n, ok := declaredLength(r.Header); ok && n > len(r.Body) {
		r.Truncated = true
	}
	return r
}

// "METHOD SP PATH (SP|HTTP/1.1)" 만 인식
func parseRequestLine(b []byte) (string, string) {
	// 메서드: 대문자 토큰
	i := 0
	for i < len(b) && b[i] >= 'A' && b[i] <= 'Z' {
		i++
	}
	if i == 0 || i >= len(b) || b[i] != ' ' {
		return "", ""
	}
	method := string(b[:i])

	// 경로: 다음 공백/줄끝/HTTP/1.1 전까지
	rest := b[i+1:]
	j := 0
	for j < len(rest) {
		c := rest[j]
		if c == ' ' || c == '\r' || c == '\n' || bytes.HasPrefix(rest[j:], version11) {
			break
		}
		j++
	}
	if j == 0 {
		return "", ""
	}
	return method, string(rest[:j])
}

// 헤더 블록의 Content-Length 값
func declaredLength(header []byte) (int, bool) {
	for _, line := range bytes.Split(header, []byte("\r\n"))[1:] {
		if len(line) < len(contentLengthKey) {
			continue
		}
		if !bytes.EqualFold(line[:len(contentLengthKey)], contentLengthKey) {
			continue
		}
		n, err := strconv.Atoi(string(bytes.TrimSpace(line[len(contentLengthKey):])))
		if err != nil || n < 0 {
			return 0, false
		}
		return n, true
	}
	return 0, false
}
