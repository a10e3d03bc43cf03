//go:build integration

package main

import (
	"bytes"
	"context"
	"io"
	"testing"
	"time"

	"github.com/ligustah/sip/internal/config"
	"github.com/ligustah/sip/internal/testutils"
)

func TestIntegrationFetchToMinio(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test in short mode")
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Minute)
	defer cancel()

	data := testutils.GenerateTestData(1024 * 1024)
	server := testutils.StartTestHTTPServer(t, []testutils.TestResource{
		{Path: "/file.bin", Data: data},
	})
	defer server.Close()

	t.Log("Starting Minio container...")
	env := testutils.StartMinioContainer(t, ctx, "test-bucket")
	defer env.Close(ctx)

	cfg := config.Default()
	cfg.URL = server.URL + "/file.bin"
	cfg.Timeout = time.Minute
	cfg.Bucket = env.BucketURL
	cfg.Object = "fetched/file.bin"

	if code := fetch(ctx, cfg); code != ExitSuccess {
		t.Fatalf("expected exit %d, got %d", ExitSuccess, code)
	}

	bucket, err := env.OpenBucket(ctx)
	if err != nil {
		t.Fatalf("open bucket: %v", err)
	}
	defer bucket.Close()

	r, err := bucket.NewReader(ctx, "fetched/file.bin", nil)
	if err != nil {
		t.Fatalf("open object: %v", err)
	}
	defer r.Close()

	got, err := io.ReadAll(r)
	if err != nil {
		t.Fatalf("read object: %v", err)
	}
	if !bytes.Equal(got, data) {
		t.Fatalf("object mismatch: got %d bytes, want %d", len(got), len(data))
	}
}

func TestIntegrationFetchRangeToMinio(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test in short mode")
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Minute)
	defer cancel()

	data := testutils.GenerateTestData(64 * 1024)
	server := testutils.StartTestHTTPServer(t, []testutils.TestResource{
		{Path: "/file.bin", Data: data},
	})
	defer server.Close()

	env := testutils.StartMinioContainer(t, ctx, "test-bucket")
	defer env.Close(ctx)

	cfg := config.Default()
	cfg.URL = server.URL + "/file.bin"
	cfg.Timeout = time.Minute
	cfg.RangeStart = 1024
	cfg.RangeEnd = 2048
	cfg.Bucket = env.BucketURL
	cfg.Object = "fetched/slice.bin"

	if code := fetch(ctx, cfg); code != ExitSuccess {
		t.Fatalf("expected exit %d, got %d", ExitSuccess, code)
	}

	bucket, err := env.OpenBucket(ctx)
	if err != nil {
		t.Fatalf("open bucket: %v", err)
	}
	defer bucket.Close()

	r, err := bucket.NewReader(ctx, "fetched/slice.bin", nil)
	if err != nil {
		t.Fatalf("open object: %v", err)
	}
	defer r.Close()

	got, err := io.ReadAll(r)
	if err != nil {
		t.Fatalf("read object: %v", err)
	}
	if !bytes.Equal(got, data[1024:2048]) {
		t.Fatalf("object mismatch: got %d bytes, want %d", len(got), 1024)
	}
}
