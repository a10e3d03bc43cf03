package main

import (
	"context"
	"flag"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"gocloud.dev/blob"
	_ "gocloud.dev/blob/gcsblob"
	_ "gocloud.dev/blob/memblob"
	_ "gocloud.dev/blob/s3blob"

	"github.com/ligustah/sip/internal/config"
	"github.com/ligustah/sip/internal/progress"
	"github.com/ligustah/sip/pkg/loader"
)

func runFetch(args []string) int {
	fs := flag.NewFlagSet("fetch", flag.ExitOnError)

	configPath := fs.String("config", "", "Path to YAML config file")
	url := fs.String("url", "", "URL to fetch (required unless set in config)")
	rangeStart := fs.String("range-start", "", "Byte range start (supports 1KB style sizes)")
	rangeEnd := fs.String("range-end", "", "Byte range end, exclusive")
	timeout := fs.Duration("timeout", 0, "Load timeout (default 30s)")
	text := fs.Bool("text", false, "Decode the payload as text")
	showProgress := fs.Bool("progress", false, "Show a progress bar")
	output := fs.String("output", "", "Output file path, '-' for stdout")
	bucket := fs.String("bucket", "", "Destination bucket URL (s3://, gs://, mem://)")
	object := fs.String("object", "", "Destination object path within the bucket")

	fs.Usage = func() {
		fmt.Fprintln(os.Stderr, `Usage: sip fetch [options]

Fetch one HTTP resource with a single GET request. The request can be
restricted to a byte range and is raced against a timeout; SIGINT
aborts it. The payload is written to a local file, stdout, or an
object-storage bucket.

Options:`)
		fs.PrintDefaults()
	}

	if err := fs.Parse(args); err != nil {
		return ExitInvalidArgs
	}

	cfg := config.Default()
	if *configPath != "" {
		fileCfg, err := config.LoadFromFile(*configPath)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			return ExitInvalidArgs
		}
		cfg = fileCfg
	}
	if err := cfg.LoadFromEnv(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return ExitInvalidArgs
	}

	override := config.Config{
		URL:      *url,
		Timeout:  *timeout,
		Progress: *showProgress,
		Output:   *output,
		Bucket:   *bucket,
		Object:   *object,
	}
	if *rangeStart != "" {
		n, err := progress.ParseBytes(*rangeStart)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: parse -range-start: %v\n", err)
			return ExitInvalidArgs
		}
		override.RangeStart = n
	}
	if *rangeEnd != "" {
		n, err := progress.ParseBytes(*rangeEnd)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: parse -range-end: %v\n", err)
			return ExitInvalidArgs
		}
		override.RangeEnd = n
	}
	if *text {
		override.ResponseType = "text"
	}
	cfg = cfg.Merge(override)

	if err := cfg.Validate(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		fs.Usage()
		return ExitInvalidArgs
	}

	return fetch(context.Background(), cfg)
}

// settled carries the terminal outcome from the loader callbacks back to
// the command goroutine.
type settled struct {
	code   int
	result loader.Result
	stats  loader.Stats
	ok     bool
}

func fetch(ctx context.Context, cfg config.Config) int {
	l := loader.New(loader.Options{})
	defer l.Destroy()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	defer func() {
		signal.Stop(sigCh)
		close(sigCh)
	}()
	go func() {
		if _, ok := <-sigCh; ok {
			fmt.Fprintln(os.Stderr, "\n[sip] Received interrupt, aborting...")
			l.Abort()
		}
	}()

	req := loader.Request{
		URL:        cfg.URL,
		RangeStart: cfg.RangeStart,
		RangeEnd:   cfg.RangeEnd,
	}
	if cfg.ResponseType == "text" {
		req.ResponseType = loader.Text
	}

	var reporter *progress.Reporter
	done := make(chan settled, 1)
	cb := loader.Callbacks{
		OnSuccess: func(result loader.Result, stats loader.Stats, req loader.Request, resp *http.Response) {
			done <- settled{code: ExitSuccess, result: result, stats: stats, ok: true}
		},
		OnError: func(failure *loader.Failure, stats loader.Stats, req loader.Request, resp *http.Response) {
			fmt.Fprintf(os.Stderr, "Error: %v\n", failure)
			code := ExitGeneralError
			if failure.Kind == loader.HTTPStatusError {
				code = ExitHTTPError
			}
			done <- settled{code: code}
		},
		OnTimeout: func(stats loader.Stats, req loader.Request, resp *http.Response) {
			fmt.Fprintf(os.Stderr, "Error: no response within %v\n", cfg.Timeout)
			done <- settled{code: ExitTimeout}
		},
		OnAbort: func(stats loader.Stats, req loader.Request, resp *http.Response) {
			done <- settled{code: ExitAborted}
		},
	}
	if cfg.Progress {
		reporter = progress.NewReporter(progress.Options{SourceURL: cfg.URL})
		cb.OnProgress = func(stats loader.Stats, req loader.Request, chunk []byte, resp *http.Response) {
			reporter.Update(stats.BytesLoaded, stats.BytesTotal)
		}
	}

	if err := l.Load(ctx, req, loader.Config{Timeout: cfg.Timeout}, cb); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return ExitGeneralError
	}

	s := <-done
	if !s.ok {
		if reporter != nil {
			reporter.Stop()
		}
		return s.code
	}
	if reporter != nil {
		reporter.Finish(s.stats.BytesLoaded)
	}

	payload := s.result.Data
	if req.ResponseType == loader.Text {
		payload = []byte(s.result.Text)
	}

	if cfg.Bucket != "" {
		if err := writeToBucket(ctx, cfg.Bucket, cfg.Object, payload); err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			return ExitStorageError
		}
		fmt.Fprintf(os.Stderr, "[sip] Stored %s as %s in %s\n", progress.FormatBytes(int64(len(payload))), cfg.Object, cfg.Bucket)
		return ExitSuccess
	}

	if err := writeToFile(cfg.Output, payload); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return ExitGeneralError
	}
	return ExitSuccess
}

// writeToBucket streams the payload into an object via gocloud.
func writeToBucket(ctx context.Context, bucketURL, object string, payload []byte) error {
	bucket, err := blob.OpenBucket(ctx, bucketURL)
	if err != nil {
		return fmt.Errorf("open bucket: %w", err)
	}
	defer bucket.Close()

	w, err := bucket.NewWriter(ctx, object, nil)
	if err != nil {
		return fmt.Errorf("create object writer: %w", err)
	}
	if _, err := w.Write(payload); err != nil {
		w.Close()
		return fmt.Errorf("write object: %w", err)
	}
	if err := w.Close(); err != nil {
		return fmt.Errorf("close object: %w", err)
	}
	return nil
}

func writeToFile(path string, payload []byte) error {
	if path == "" || path == "-" {
		if _, err := os.Stdout.Write(payload); err != nil {
			return fmt.Errorf("write stdout: %w", err)
		}
		return nil
	}
	if err := os.WriteFile(path, payload, 0644); err != nil {
		return fmt.Errorf("write file: %w", err)
	}
	return nil
}
