package main

import (
	"bytes"
	"fmt"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"testing"
)

// startRangeServer serves data with byte-range support, mirroring what
// segment servers do.
func startRangeServer(t *testing.T, data []byte) *httptest.Server {
	t.Helper()
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		size := int64(len(data))

		rangeHeader := r.Header.Get("Range")
		if rangeHeader == "" {
			w.Header().Set("Content-Length", strconv.FormatInt(size, 10))
			w.Write(data)
			return
		}

		rangeHeader = strings.TrimPrefix(rangeHeader, "bytes=")
		parts := strings.Split(rangeHeader, "-")
		start, _ := strconv.ParseInt(parts[0], 10, 64)
		end, _ := strconv.ParseInt(parts[1], 10, 64)
		if end >= size {
			end = size - 1
		}

		w.Header().Set("Content-Range", fmt.Sprintf("bytes %d-%d/%d", start, end, size))
		w.Header().Set("Content-Length", strconv.FormatInt(end-start+1, 10))
		w.WriteHeader(http.StatusPartialContent)
		w.Write(data[start : end+1])
	}))
}

func TestRunFetchToFile(t *testing.T) {
	data := make([]byte, 4096)
	for i := range data {
		data[i] = byte(i % 256)
	}
	server := startRangeServer(t, data)
	defer server.Close()

	out := filepath.Join(t.TempDir(), "out.bin")
	code := run([]string{"fetch", "-url", server.URL + "/seg.ts", "-output", out, "-timeout", "5s"})
	if code != ExitSuccess {
		t.Fatalf("expected exit %d, got %d", ExitSuccess, code)
	}

	got, err := os.ReadFile(out)
	if err != nil {
		t.Fatalf("read output: %v", err)
	}
	if !bytes.Equal(got, data) {
		t.Errorf("output mismatch: got %d bytes, want %d", len(got), len(data))
	}
}

func TestRunFetchRanged(t *testing.T) {
	data := make([]byte, 4096)
	for i := range data {
		data[i] = byte(i % 256)
	}
	server := startRangeServer(t, data)
	defer server.Close()

	out := filepath.Join(t.TempDir(), "out.bin")
	code := run([]string{"fetch",
		"-url", server.URL + "/seg.ts",
		"-range-start", "100",
		"-range-end", "200",
		"-output", out,
		"-timeout", "5s",
	})
	if code != ExitSuccess {
		t.Fatalf("expected exit %d, got %d", ExitSuccess, code)
	}

	got, err := os.ReadFile(out)
	if err != nil {
		t.Fatalf("read output: %v", err)
	}
	if !bytes.Equal(got, data[100:200]) {
		t.Errorf("expected bytes [100,200), got %d bytes", len(got))
	}
}

func TestRunFetchToMemBucket(t *testing.T) {
	data := []byte("bucket payload")
	server := startRangeServer(t, data)
	defer server.Close()

	code := run([]string{"fetch",
		"-url", server.URL + "/seg.ts",
		"-bucket", "mem://",
		"-object", "fetched/seg.ts",
		"-timeout", "5s",
	})
	if code != ExitSuccess {
		t.Fatalf("expected exit %d, got %d", ExitSuccess, code)
	}
}

func TestRunFetchNotFound(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.NotFound(w, r)
	}))
	defer server.Close()

	code := run([]string{"fetch", "-url", server.URL + "/missing.ts", "-output", "-", "-timeout", "5s"})
	if code != ExitHTTPError {
		t.Errorf("expected exit %d for 404, got %d", ExitHTTPError, code)
	}
}

func TestRunFetchTimeout(t *testing.T) {
	block := make(chan struct{})
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		<-block
	}))
	defer server.Close()
	defer close(block)

	code := run([]string{"fetch", "-url", server.URL + "/slow.ts", "-output", "-", "-timeout", "100ms"})
	if code != ExitTimeout {
		t.Errorf("expected exit %d for timeout, got %d", ExitTimeout, code)
	}
}

func TestRunInvalidArgs(t *testing.T) {
	if code := run(nil); code != ExitInvalidArgs {
		t.Errorf("expected exit %d for no args, got %d", ExitInvalidArgs, code)
	}
	if code := run([]string{"unknown"}); code != ExitInvalidArgs {
		t.Errorf("expected exit %d for unknown command, got %d", ExitInvalidArgs, code)
	}
	if code := run([]string{"fetch"}); code != ExitInvalidArgs {
		t.Errorf("expected exit %d for fetch without url, got %d", ExitInvalidArgs, code)
	}
}

func TestRunHead(t *testing.T) {
	server := startRangeServer(t, []byte("0123456789"))
	defer server.Close()

	if code := run([]string{"head", "-url", server.URL + "/seg.ts"}); code != ExitSuccess {
		t.Errorf("expected exit %d, got %d", ExitSuccess, code)
	}
	if code := run([]string{"head"}); code != ExitInvalidArgs {
		t.Errorf("expected exit %d for head without url, got %d", ExitInvalidArgs, code)
	}
}
