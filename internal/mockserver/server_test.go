package mockserver

import (
	"bytes"
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/cliplight/cliplight/internal/api"
	"github.com/cliplight/cliplight/internal/session"
)

func newTestServer(t *testing.T) (*Server, *api.Client) {
	t.Helper()
	s := NewServer(Config{Latency: time.Millisecond})
	srv := httptest.NewServer(s.router())
	t.Cleanup(srv.Close)
	return s, api.NewClient(srv.URL, "", 5*time.Second, nil)
}

func TestFullRoundTrip(t *testing.T) {
	_, client := newTestServer(t)
	ctx := context.Background()

	path := filepath.Join(t.TempDir(), "clip.mp4")
	if err := os.WriteFile(path, make([]byte, 2048), 0644); err != nil {
		t.Fatalf("write test file: %v", err)
	}

	init, err := client.InitUpload(ctx, "clip.mp4", 2048, "video/mp4")
	if err != nil {
		t.Fatalf("InitUpload() error = %v", err)
	}

	if err := client.Upload(ctx, init.UploadURL, path, nil); err != nil {
		t.Fatalf("Upload() error = %v", err)
	}

	result, err := client.Analyze(ctx, init.FileID, nil)
	if err != nil {
		t.Fatalf("Analyze() error = %v", err)
	}
	if len(result.Highlights) != 6 {
		t.Fatalf("len(Highlights) = %d, want 6", len(result.Highlights))
	}
	if result.Highlights[0].Description != "clip.mp4の導入部分" {
		t.Errorf("first description = %q, want upload filename woven in", result.Highlights[0].Description)
	}
	for i, h := range result.Highlights {
		if h.End-h.Start != 30 {
			t.Errorf("highlight %d span = %v, want 30", i, h.End-h.Start)
		}
	}

	gen, err := client.Generate(ctx, init.FileID, []session.Segment{{Start: 5, End: 30}})
	if err != nil {
		t.Fatalf("Generate() error = %v", err)
	}

	dest := filepath.Join(t.TempDir(), "out.mp4")
	if err := client.Download(ctx, gen.DownloadURL, dest); err != nil {
		t.Fatalf("Download() error = %v", err)
	}
	got, err := os.ReadFile(dest)
	if err != nil {
		t.Fatalf("read download: %v", err)
	}
	if !bytes.Equal(got, placeholderMP4) {
		t.Error("downloaded bytes do not match the placeholder clip")
	}
}

func TestAnalyze_UnknownFile(t *testing.T) {
	_, client := newTestServer(t)

	_, err := client.Analyze(context.Background(), "no-such-file", nil)

	var reqErr *api.RequestError
	if !errors.As(err, &reqErr) {
		t.Fatalf("error = %v, want *api.RequestError", err)
	}
	if reqErr.StatusCode != http.StatusNotFound {
		t.Errorf("status = %d, want 404", reqErr.StatusCode)
	}
	if reqErr.Message != "unknown file id" {
		t.Errorf("message = %q", reqErr.Message)
	}
}

func TestExtract_RejectsInvalidSegments(t *testing.T) {
	s, client := newTestServer(t)
	s.storeFile("abc", storedFile{fileName: "clip.mp4", fileSize: 1})

	tests := []struct {
		name     string
		segments []session.Segment
	}{
		{"reversed range", []session.Segment{{Start: 30, End: 5}}},
		{"zero width", []session.Segment{{Start: 5, End: 5}}},
		{"negative start", []session.Segment{{Start: -1, End: 5}}},
	}

	for _, tt := range tests {
		_, err := client.Generate(context.Background(), "abc", tt.segments)
		var reqErr *api.RequestError
		if !errors.As(err, &reqErr) || reqErr.StatusCode != http.StatusBadRequest {
			t.Errorf("%s: error = %v, want HTTP 400", tt.name, err)
		}
	}
}

func TestUploadInit_RejectsBadRequests(t *testing.T) {
	s := NewServer(Config{Latency: time.Millisecond})
	srv := httptest.NewServer(s.router())
	defer srv.Close()

	for _, body := range []string{
		`{"fileName": "", "fileSize": 100, "contentType": "video/mp4"}`,
		`{"fileName": "a.mp4", "fileSize": 0, "contentType": "video/mp4"}`,
		`not json`,
	} {
		resp, err := http.Post(srv.URL+"/api/upload/init", "application/json", bytes.NewBufferString(body))
		if err != nil {
			t.Fatalf("post: %v", err)
		}
		resp.Body.Close()
		if resp.StatusCode != http.StatusBadRequest {
			t.Errorf("body %q: status = %d, want 400", body, resp.StatusCode)
		}
	}
}

func TestUpload_UnknownFileID(t *testing.T) {
	s := NewServer(Config{Latency: time.Millisecond})
	srv := httptest.NewServer(s.router())
	defer srv.Close()

	req, _ := http.NewRequest(http.MethodPut, srv.URL+"/upload/nope", bytes.NewReader([]byte("data")))
	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		t.Fatalf("put: %v", err)
	}
	resp.Body.Close()
	if resp.StatusCode != http.StatusNotFound {
		t.Errorf("status = %d, want 404", resp.StatusCode)
	}
}

func TestAnalyze_HonorsCancellation(t *testing.T) {
	s := NewServer(Config{Latency: 10 * time.Second})
	s.storeFile("abc", storedFile{fileName: "clip.mp4", fileSize: 1})
	srv := httptest.NewServer(s.router())
	defer srv.Close()

	client := api.NewClient(srv.URL, "", time.Minute, nil)

	ctx, cancel := context.WithCancel(context.Background())
	go func() {
		time.Sleep(50 * time.Millisecond)
		cancel()
	}()

	start := time.Now()
	_, err := client.Analyze(ctx, "abc", nil)
	if !errors.Is(err, context.Canceled) {
		t.Errorf("error = %v, want context.Canceled", err)
	}
	if elapsed := time.Since(start); elapsed > 5*time.Second {
		t.Errorf("cancellation took %v, want prompt return", elapsed)
	}
}

func TestListModels_Catalog(t *testing.T) {
	_, client := newTestServer(t)

	catalog, err := client.ListModels(context.Background())
	if err != nil {
		t.Fatalf("ListModels() error = %v", err)
	}
	for _, key := range []string{"vertex_ai", "google_ai"} {
		provider, ok := catalog.Providers[key]
		if !ok {
			t.Errorf("missing provider %q", key)
			continue
		}
		if len(provider.Models) == 0 {
			t.Errorf("provider %q has no models", key)
		}
	}
}

func TestListenAndShutdown(t *testing.T) {
	s := NewServer(Config{Port: 0, Latency: time.Millisecond})

	baseURL, err := s.Listen()
	if err != nil {
		t.Fatalf("Listen() error = %v", err)
	}

	done := make(chan error, 1)
	go func() { done <- s.Serve() }()

	resp, err := http.Get(baseURL + "/health")
	if err != nil {
		t.Fatalf("health check: %v", err)
	}
	resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		t.Errorf("health status = %d", resp.StatusCode)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	if err := s.Shutdown(ctx); err != nil {
		t.Fatalf("Shutdown() error = %v", err)
	}
	if err := <-done; err != nil {
		t.Errorf("Serve() returned %v after shutdown", err)
	}
}
