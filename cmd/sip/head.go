package main

import (
	"context"
	"flag"
	"fmt"
	"net/http"
	"os"
	"time"

	"github.com/ligustah/sip/pkg/loader"
)

// headHeaders are the response headers the head command reports.
var headHeaders = []string{
	"Content-Type",
	"Content-Length",
	"Content-Range",
	"Accept-Ranges",
	"ETag",
	"Last-Modified",
}

func runHead(args []string) int {
	fs := flag.NewFlagSet("head", flag.ExitOnError)

	url := fs.String("url", "", "URL to inspect (required)")
	timeout := fs.Duration("timeout", 30*time.Second, "Load timeout")

	fs.Usage = func() {
		fmt.Fprintln(os.Stderr, `Usage: sip head [options]

Preview response metadata for a URL by requesting its first byte.
Servers that ignore Range requests return the full body; the payload is
discarded either way.

Options:`)
		fs.PrintDefaults()
	}

	if err := fs.Parse(args); err != nil {
		return ExitInvalidArgs
	}

	if *url == "" {
		fmt.Fprintln(os.Stderr, "Error: -url is required")
		fs.Usage()
		return ExitInvalidArgs
	}

	l := loader.New(loader.Options{})
	defer l.Destroy()

	done := make(chan int, 1)
	cb := loader.Callbacks{
		OnSuccess: func(result loader.Result, stats loader.Stats, req loader.Request, resp *http.Response) {
			done <- ExitSuccess
		},
		OnError: func(failure *loader.Failure, stats loader.Stats, req loader.Request, resp *http.Response) {
			fmt.Fprintf(os.Stderr, "Error: %v\n", failure)
			if failure.Kind == loader.HTTPStatusError {
				done <- ExitHTTPError
				return
			}
			done <- ExitGeneralError
		},
		OnTimeout: func(stats loader.Stats, req loader.Request, resp *http.Response) {
			fmt.Fprintf(os.Stderr, "Error: no response within %v\n", *timeout)
			done <- ExitTimeout
		},
	}

	req := loader.Request{URL: *url, RangeStart: 0, RangeEnd: 1}
	if err := l.Load(context.Background(), req, loader.Config{Timeout: *timeout}, cb); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return ExitGeneralError
	}

	code := <-done
	if code != ExitSuccess {
		return code
	}

	for _, name := range headHeaders {
		if v := l.GetResponseHeader(name); v != "" {
			fmt.Printf("%s: %s\n", name, v)
		}
	}
	return ExitSuccess
}
