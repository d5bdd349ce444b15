package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"os"
	"time"

	"golang-network-labs/blogd/internal/client"
)

func usage() {
	fmt.Fprintln(os.Stderr, `usage:
  blogctl [-addr host:port] get <path>
  blogctl [-addr host:port] publish -user U -title T [-content C | -content -]`)
	flag.PrintDefaults()
}

func main() {
	addr := flag.String("addr", "127.0.0.1:8888", "blogd 주소")
	timeout := flag.Duration("timeout", 5*time.Second, "요청 타임아웃")
	flag.Usage = usage
	flag.Parse()

	if flag.NArg() < 1 {
		usage()
		os.Exit(2)
	}

	ctx, cancel := context.WithTimeout(context.Background(), *timeout)
	defer cancel()

	c, err := client.Dial(ctx, client.Config{Addr: *addr, IOTimeout: *timeout})
	if err != nil {
		fmt.Fprintln(os.Stderr, "dial:", err)
		os.Exit(1)
	}
	defer c.Close()

	var r *client.Reply
	switch flag.Arg(0) {
	case "get":
		if flag.NArg() != 2 {
			usage()
			os.Exit(2)
		}
		r, err = c.Get(flag.Arg(1))

	case "publish":
		fs := flag.NewFlagSet("publish", flag.ExitOnError)
		user := fs.String("user", "", "작성자")
		title := fs.String("title", "", "제목")
		content := fs.String("content", "", "본문 (- 이면 stdin)")
		_ = fs.Parse(flag.Args()[1:])

		body := *content
		if body == "-" {
			b, rerr := io.ReadAll(os.Stdin)
			if rerr != nil {
				fmt.Fprintln(os.Stderr, "stdin:", rerr)
				os.Exit(1)
			}
			body = string(b)
		}
		r, err = c.Publish(*user, *title, body)

	default:
		usage()
		os.Exit(2)
	}

	if err != nil {
		fmt.Fprintln(os.Stderr, "request:", err)
		os.Exit(1)
	}
	if r.Status != 200 {
		fmt.Fprintln(os.Stderr, r.StatusLine)
	}
	_, _ = os.Stdout.Write(r.Body)
	if r.Status != 200 {
		os.Exit(1)
	}
}
