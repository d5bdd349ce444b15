package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"net/url"
	"strings"
	"sync"

	"github.com/go-sql-driver/mysql"
	_ "github.com/mattn/go-sqlite3"
)

// 드라이버 이름
const (
	DriverSQLite = "sqlite3"
	DriverMySQL  = "mysql"
)

// 글 없음
var ErrNotFound = errors.New("post not found")

// 블로그 글
type Post struct {
	ID      int64  `json:"id" yaml:"id"`
	User    string `json:"user" yaml:"user"`
	Title   string `json:"title" yaml:"title"`
	Content string `json:"content" yaml:"content"`
}

// 드라이버별 테이블 생성 SQL
var schema = map[string]string{
	DriverSQLite: `CREATE TABLE IF NOT EXISTS blog_posts (
		post_id INTEGER PRIMARY KEY AUTOINCREMENT,
		user    TEXT NOT NULL,
		title   TEXT NOT NULL,
		content TEXT NOT NULL
	)`,
	DriverMySQL: `CREATE TABLE IF NOT EXISTS blog_posts (
		post_id BIGINT PRIMARY KEY AUTO_INCREMENT,
		user    VARCHAR(255) NOT NULL,
		title   VARCHAR(255) NOT NULL,
		content TEXT NOT NULL
	)`,
}

// 글 저장소
// 모든 호출은 mu 로 직렬화 (여러 worker 가 공유)
type Store struct {
	mu     sync.Mutex
	db     *sql.DB
	driver string
}

// 드라이버 + DSN 으로 열고 테이블 준비
func Open(ctx context.Context, driver, dsn string) (*Store, error) {
	if _, ok := schema[driver]; !ok {
		return nil, fmt.Errorf("unsupported driver %q", driver)
	}
	db, err := sql.Open(driver, dsn)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", driver, err)
	}
	// sqlite 는 연결 하나로 고정
	if driver == DriverSQLite {
		db.SetMaxOpenConns(1)
	}
	s, err := New(ctx, db, driver)
	if err != nil {
		_ = db.Close()
		return nil, err
	}
	return s, nil
}

// 이미 열린 DB 로 저장소 생성
func New(ctx context.Context, db *sql.DB, driver string) (*Store, error) {
	ddl, ok := schema[driver]
	if !ok {
		return nil, fmt.Errorf("unsupported driver %q", driver)
	}
	if err := db.PingContext(ctx); err != nil {
		return nil, fmt.Errorf("ping %s: %w", driver, err)
	}
	if _, err := db.ExecContext(ctx, ddl); err != nil {
		return nil, fmt.Errorf("create blog_posts: %w", err)
	}
	return &Store{db: db, driver: driver}, nil
}

// MySQL DSN 조립
func MySQLDSN(host, port, name, user, pass string) string {
	cfg := mysql.NewConfig()
	cfg.Net = "tcp"
	cfg.Addr = host + ":" + port
	cfg.DBName = name
	cfg.User = user
	cfg.Passwd = pass
	cfg.ParseTime = true
	return cfg.FormatDSN()
}

// 드라이버 이름
func (s *Store) Driver() string {
	return s.driver
}

// 글 저장 → 새 ID
func (s *Store) Insert(ctx context.Context, p Post) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	res, err := s.db.ExecContext(ctx,
		`INSERT INTO blog_posts (user, title, content) VALUES (?, ?, ?)`,
		p.User, p.Title, p.Content,
	)
	if err != nil {
		return 0, fmt.Errorf("insert post: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("insert post id: %w", err)
	}
	return id, nil
}

// ID 로 글 조회
func (s *Store) GetByID(ctx context.Context, id int64) (Post, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	p := Post{ID: id}
	err := s.db.QueryRowContext(ctx,
		`SELECT user, title, content FROM blog_posts WHERE post_id = ?`, id,
	).Scan(&p.User, &p.Title, &p.Content)
	if errors.Is(err, sql.ErrNoRows) {
		return Post{}, ErrNotFound
	}
	if err != nil {
		return Post{}, fmt.Errorf("select post %d: %w", id, err)
	}
	return p, nil
}

// 다음에 배정될 ID (MAX+1)
func (s *Store) NextID(ctx context.Context) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var next int64
	err := s.db.QueryRowContext(ctx,
		`SELECT COALESCE(MAX(post_id), 0) + 1 FROM blog_posts`,
	).Scan(&next)
	if err != nil {
		return 0, fmt.Errorf("next post id: %w", err)
	}
	return next, nil
}

// 전체 글 (ID 오름차순)
func (s *Store) List(ctx context.Context) ([]Post, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	rows, err := s.db.QueryContext(ctx,
		`SELECT post_id, user, title, content FROM blog_posts ORDER BY post_id`,
	)
	if err != nil {
		return nil, fmt.Errorf("list posts: %w", err)
	}
	defer rows.Close()

	var out []Post
	for rows.Next() {
		var p Post
		if err := rows.Scan(&p.ID, &p.User, &p.Title, &p.Content); err != nil {
			return nil, fmt.Errorf("scan post: %w", err)
		}
		out = append(out, p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list posts: %w", err)
	}
	return out, nil
}

// DB 닫기
func (s *Store) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.db.Close()
}

// form 본문 → Post
// "user=..&title=..&content=.." , '+' 는 공백
func ParseForm(body string) (Post, error) {
	var p Post
	for _, pair := range strings.Split(body, "&") {
		if pair == "" {
			continue
		}
		k, v, _ := strings.Cut(pair, "=")
		val, err := url.QueryUnescape(v)
		if err != nil {
			return Post{}, fmt.Errorf("field %q: %w", k, err)
		}
		switch k {
		case "user":
			p.User = val
		case "title":
			p.Title = val
		case "content":
			p.Content = val
		}
	}
	return p, nil
}
