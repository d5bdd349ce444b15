package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"strconv"
	"time"

	"golang-network-labs/blogd/internal/admin"
	"golang-network-labs/blogd/internal/config"
	"golang-network-labs/blogd/internal/handler"
	"golang-network-labs/blogd/internal/resource"
	"golang-network-labs/blogd/internal/server"
	"golang-network-labs/blogd/internal/store"
)

func main() {
	configPath := flag.String("config", "", "YAML 설정 파일")
	flag.Usage = func() {
		fmt.Fprintln(os.Stderr, "usage: blogd [-config file.yaml] [port]")
		flag.PrintDefaults()
	}
	flag.Parse()

	// 설정 로드
	cfg, err := config.Load(*configPath)
	if err != nil {
		fmt.Fprintln(os.Stderr, "config:", err)
		os.Exit(1)
	}

	// 위치 인자 포트가 최우선
	if flag.NArg() > 0 {
		port, err := strconv.Atoi(flag.Arg(0))
		if err != nil || port < 1 || port > 65535 {
			fmt.Fprintf(os.Stderr, "invalid port %q\n", flag.Arg(0))
			os.Exit(1)
		}
		cfg.Server.Port = port
	}

	log := config.NewLogger(cfg.Log.Level, os.Stderr)
	slog.SetDefault(log)

	// 글 저장소
	dsn := cfg.DB.DSN
	if cfg.DB.Driver == store.DriverMySQL && dsn == "" {
		dsn = store.MySQLDSN(cfg.DB.Host, cfg.DB.Port, cfg.DB.Name, cfg.DB.User, cfg.DB.Pass)
	}
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	st, err := store.Open(ctx, cfg.DB.Driver, dsn)
	cancel()
	if err != nil {
		log.Error("open store", "driver", cfg.DB.Driver, "err", err)
		os.Exit(1)
	}
	defer st.Close()

	res := resource.New(cfg.Server.Root, cfg.Server.Ext)
	h := handler.New(handler.Deps{Posts: st, Resources: res, Logger: log})

	srv := server.New(server.Config{
		Addr:       cfg.ListenAddr(),
		MaxMessage: cfg.Server.MaxMessage,
		Logger:     log,
	}, h.Router())

	// 관리용 HTTP (선택)
	if cfg.Admin.Addr != "" {
		go serveAdmin(log, cfg, srv, st, res)
	}

	// 바인드 실패 등은 종료
	if err := srv.ListenAndServe(); err != nil {
		log.Error("server stopped", "err", err)
		os.Exit(1)
	}
}

func serveAdmin(log *slog.Logger, cfg config.Config, srv *server.Server, st *store.Store, res *resource.Provider) {
	hs := &http.Server{
		Addr: cfg.Admin.Addr,
		Handler: admin.New(context.Background(), admin.Deps{
			Stats:     srv,
			Posts:     st,
			Resources: res,
			Logger:    log,
			Limits: admin.Limits{
				RPS:            cfg.Admin.RPS,
				Burst:          cfg.Admin.Burst,
				MaxConcurrency: cfg.Admin.MaxConcurrency,
			},
		}),
		ReadHeaderTimeout: 5 * time.Second,
	}
	log.Info("admin listening", "addr", cfg.Admin.Addr)
	if err := hs.ListenAndServe(); err != nil {
		log.Error("admin server stopped", "err", err)
	}
}
