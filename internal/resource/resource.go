package resource

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
)

// 리소스 없음
var ErrNotFound = errors.New("resource not found")

// 기본 확장자
const DefaultExt = ".html"

// 이름 → 파일 바이트
type Provider struct {
	// 파일 루트
	root string
	// 이름 뒤에 붙일 확장자
	ext string
}

// 루트 디렉터리 기준 provider
func New(root, ext string) *Provider {
	if ext == "" {
		ext = DefaultExt
	}
	return &Provider{root: filepath.Clean(root), ext: ext}
}

// 루트
func (p *Provider) Root() string {
	return p.root
}

// 이름 → <root>/<name><ext> 경로
func (p *Provider) path(name string) (string, bool) {
	// 공백/널 거절
	name = strings.TrimSpace(name)
	if name == "" || strings.ContainsRune(name, 0) {
		return "", false
	}

	// 경로 정규화 후 루트 아래로 고정
	clean := filepath.Clean("/" + name)
	abs := filepath.Join(p.root, clean+p.ext)

	// 루트 탈출 방지
	rel, err := filepath.Rel(p.root, abs)
	if err != nil || rel == ".." || strings.HasPrefix(rel, ".."+string(filepath.Separator)) {
		return "", false
	}
	return abs, true
}

// 리소스 읽기
// 없으면 ErrNotFound, 그 밖의 실패는 감싸서 반환
func (p *Provider) Get(name string) ([]byte, error) {
	abs, ok := p.path(name)
	if !ok {
		return nil, ErrNotFound
	}

	b, err := os.ReadFile(abs)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) || errors.Is(err, fs.ErrInvalid) {
			return nil, ErrNotFound
		}
		// 디렉터리 등
		var pe *fs.PathError
		if errors.As(err, &pe) && isDir(abs) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("read resource %q: %w", name, err)
	}
	return b, nil
}

func isDir(p string) bool {
	fi, err := os.Stat(p)
	return err == nil && fi.IsDir()
}
