package config

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"
)

// 전체 설정 묶음
type Config struct {
	Server ServerConfig `yaml:"server"`
	DB     DBConfig     `yaml:"db"`
	Admin  AdminConfig  `yaml:"admin"`
	Log    LogConfig    `yaml:"log"`
}

// 코어 서버 설정
type ServerConfig struct {
	// 리슨 포트
	Port int `yaml:"port"`
	// 정적 리소스 루트
	Root string `yaml:"root"`
	// 리소스 확장자
	Ext string `yaml:"ext"`
	// 한 번의 read 최대 바이트
	MaxMessage int `yaml:"max_message"`
}

// DB 설정
// DSN 이 비어 있고 driver 가 mysql 이면 Host/Port/Name/User/Pass 로 조립
type DBConfig struct {
	Driver string `yaml:"driver"`
	DSN    string `yaml:"dsn"`
	Host   string `yaml:"host"`
	Port   string `yaml:"port"`
	Name   string `yaml:"name"`
	User   string `yaml:"user"`
	Pass   string `yaml:"pass"`
}

// 관리용 HTTP 설정 (Addr 가 비면 끔)
type AdminConfig struct {
	Addr           string  `yaml:"addr"`
	RPS            float64 `yaml:"rps"`
	Burst          int     `yaml:"burst"`
	MaxConcurrency int     `yaml:"max_concurrency"`
}

// 로그 설정
type LogConfig struct {
	// debug|info|warn|error
	Level string `yaml:"level"`
}

// sqlite DSN 이 없을 때 쓰는 파일
const DefaultSQLiteFile = "./blog.db"

// 기본값
func Default() Config {
	return Config{
		Server: ServerConfig{
			Port:       8888,
			Root:       ".",
			Ext:        ".html",
			MaxMessage: 10 * 1024 * 1024,
		},
		DB: DBConfig{
			Driver: "sqlite3",
		},
		Admin: AdminConfig{
			RPS:            5,
			Burst:          10,
			MaxConcurrency: 5,
		},
		Log: LogConfig{Level: "info"},
	}
}

// 기본값 → YAML 파일(있으면) → 환경변수 → 검증
func Load(path string) (Config, error) {
	cfg := Default()

	if path != "" {
		b, err := os.ReadFile(path)
		if err != nil {
			return Config{}, fmt.Errorf("read config: %w", err)
		}
		if err := yaml.Unmarshal(b, &cfg); err != nil {
			return Config{}, fmt.Errorf("parse config %s: %w", path, err)
		}
	}

	applyEnv(&cfg)

	// sqlite 기본 파일
	if cfg.DB.Driver == "sqlite3" && cfg.DB.DSN == "" {
		cfg.DB.DSN = DefaultSQLiteFile
	}

	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// 환경변수 덮어쓰기
func applyEnv(c *Config) {
	c.Server.Port = envInt("BLOG_PORT", c.Server.Port)
	c.Server.Root = envString("BLOG_ROOT", c.Server.Root)
	c.Server.MaxMessage = envInt("BLOG_MAX_MESSAGE", c.Server.MaxMessage)

	c.DB.Driver = envString("BLOG_DB_DRIVER", c.DB.Driver)
	c.DB.DSN = envString("BLOG_DB_DSN", c.DB.DSN)
	c.DB.Host = envString("DB_HOST", c.DB.Host)
	c.DB.Port = envString("DB_PORT", c.DB.Port)
	c.DB.Name = envString("DB_NAME", c.DB.Name)
	c.DB.User = envString("DB_USER", c.DB.User)
	c.DB.Pass = envString("DB_PASS", c.DB.Pass)

	c.Admin.Addr = envString("BLOG_ADMIN_ADDR", c.Admin.Addr)
	c.Admin.RPS = envFloat("ADMIN_RATE_RPS", c.Admin.RPS)
	c.Admin.Burst = envInt("ADMIN_RATE_BURST", c.Admin.Burst)
	c.Admin.MaxConcurrency = envInt("ADMIN_MAX_CONCURRENCY", c.Admin.MaxConcurrency)

	c.Log.Level = envString("BLOG_LOG_LEVEL", c.Log.Level)
}

// 설정 검증
func (c Config) Validate() error {
	if c.Server.Port < 0 || c.Server.Port > 65535 {
		return fmt.Errorf("invalid port: %d", c.Server.Port)
	}
	if c.Server.MaxMessage <= 0 {
		return fmt.Errorf("invalid max_message: %d", c.Server.MaxMessage)
	}
	switch c.DB.Driver {
	case "sqlite3":
	case "mysql":
		if c.DB.DSN == "" && (c.DB.Host == "" || c.DB.Port == "" || c.DB.Name == "" || c.DB.User == "") {
			return errors.New("mysql needs db.dsn or DB_HOST/DB_PORT/DB_NAME/DB_USER")
		}
	default:
		return fmt.Errorf("unsupported db driver %q", c.DB.Driver)
	}
	if _, err := parseLevel(c.Log.Level); err != nil {
		return err
	}
	return nil
}

// 코어 리슨 주소 (모든 인터페이스)
func (c Config) ListenAddr() string {
	return ":" + strconv.Itoa(c.Server.Port)
}

// slog 로거 생성
func NewLogger(level string, w io.Writer) *slog.Logger {
	lv, err := parseLevel(level)
	if err != nil {
		lv = slog.LevelInfo
	}
	return slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: lv}))
}

func parseLevel(s string) (slog.Level, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "debug":
		return slog.LevelDebug, nil
	case "", "info":
		return slog.LevelInfo, nil
	case "warn":
		return slog.LevelWarn, nil
	case "error":
		return slog.LevelError, nil
	}
	return 0, fmt.Errorf("invalid log level %q", s)
}

// 문자열 환경변수
func envString(key, def string) string {
	v := strings.TrimSpace(os.Getenv(key))
	if v == "" {
		return def
	}
	return v
}

// 정수 환경변수
func envInt(key string, def int) int {
	// 공백 제거
	v := strings.TrimSpace(os.Getenv(key))
	// 없으면 기본값
	if v == "" {
		return def
	}
	// 실패/0이하면 기본값
	n, err := strconv.Atoi(v)
	if err != nil || n <= 0 {
		return def
	}
	return n
}

// 실수 환경변수
func envFloat(key string, def float64) float64 {
	v := strings.TrimSpace(os.Getenv(key))
	if v == "" {
		return def
	}
	f, err := strconv.ParseFloat(v, 64)
	if err != nil || f <= 0 {
		return def
	}
	return f
}
