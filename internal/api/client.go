// Package api is the HTTP client for the highlight analysis backend: upload
// initiation, byte transfer with progress, cancellable analysis, segment
// extraction, and the model catalog.
package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"os"
	"time"

	"github.com/google/uuid"

	"github.com/cliplight/cliplight/internal/session"
)

type Client struct {
	baseURL    string
	token      string
	httpClient *http.Client
	logger     *slog.Logger
}

func NewClient(baseURL, token string, timeout time.Duration, logger *slog.Logger) *Client {
	return &Client{
		baseURL: baseURL,
		token:   token,
		httpClient: &http.Client{
			Timeout: timeout,
		},
		logger: logger,
	}
}

// InitUpload requests an upload slot for a video file and returns the signed
// upload URL plus the backend-assigned file id.
func (c *Client) InitUpload(ctx context.Context, fileName string, fileSize int64, contentType string) (*UploadInit, error) {
	req := UploadInitRequest{FileName: fileName, FileSize: fileSize, ContentType: contentType}

	var resp UploadInit
	if err := c.postJSON(ctx, "/api/upload/init", req, &resp); err != nil {
		return nil, err
	}
	if err := resp.Validate(); err != nil {
		return nil, err
	}

	if c.logger != nil {
		c.logger.Info("upload initiated", "file_id", resp.FileID, "size", fileSize)
	}
	return &resp, nil
}

// Upload transfers the file to the signed URL, reporting progress through the
// callback as bytes go out.
func (c *Client) Upload(ctx context.Context, uploadURL, path string, onProgress func(session.UploadProgress)) error {
	file, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("open upload file: %w", err)
	}
	defer file.Close()

	info, err := file.Stat()
	if err != nil {
		return fmt.Errorf("stat upload file: %w", err)
	}

	body := &progressReader{
		reader:     file,
		total:      info.Size(),
		onProgress: onProgress,
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPut, uploadURL, body)
	if err != nil {
		return fmt.Errorf("create upload request: %w", err)
	}
	req.ContentLength = info.Size()
	req.Header.Set("Content-Type", "application/octet-stream")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("upload failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		respBody, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		return newRequestError(resp.StatusCode, respBody)
	}

	if onProgress != nil {
		onProgress(session.UploadProgress{Loaded: info.Size(), Total: info.Size(), Percentage: 100})
	}
	return nil
}

// Analyze runs AI analysis on an uploaded file. The call is cancellable via
// ctx; a cancelled call returns ctx.Err().
func (c *Client) Analyze(ctx context.Context, fileID string, model *session.ModelChoice) (*session.AnalysisResult, error) {
	var req *AnalyzeRequest
	if model != nil {
		req = &AnalyzeRequest{Provider: model.Provider, ModelKey: model.ModelKey}
	}

	var resp session.AnalysisResult
	if err := c.postJSON(ctx, "/api/analyze/"+fileID, req, &resp); err != nil {
		return nil, err
	}
	if err := ValidateAnalysis(&resp); err != nil {
		return nil, err
	}

	if c.logger != nil {
		c.logger.Info("analysis complete", "file_id", fileID, "highlight_count", len(resp.Highlights))
	}
	return &resp, nil
}

// Generate asks the backend to extract the given segments into a new video.
func (c *Client) Generate(ctx context.Context, fileID string, segments []session.Segment) (*GenerateResult, error) {
	if len(segments) == 0 {
		return nil, fmt.Errorf("no segments selected")
	}

	req := ExtractRequest{FileID: fileID, Segments: segments}

	var resp GenerateResult
	if err := c.postJSON(ctx, "/api/extract", req, &resp); err != nil {
		return nil, err
	}
	if err := resp.Validate(); err != nil {
		return nil, err
	}

	if c.logger != nil {
		c.logger.Info("video generated", "file_id", fileID, "segment_count", len(segments))
	}
	return &resp, nil
}

// ListModels fetches the catalog of analysis providers and models.
func (c *Client) ListModels(ctx context.Context) (*ModelCatalog, error) {
	req, err := c.newRequest(ctx, http.MethodGet, "/api/v1/models", nil)
	if err != nil {
		return nil, err
	}

	var resp ModelCatalog
	if err := c.do(req, &resp); err != nil {
		return nil, err
	}
	if err := resp.Validate(); err != nil {
		return nil, err
	}
	return &resp, nil
}

// Download fetches a generated video to a local path.
func (c *Client) Download(ctx context.Context, downloadURL, destPath string) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, downloadURL, nil)
	if err != nil {
		return fmt.Errorf("create download request: %w", err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("download failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		respBody, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		return newRequestError(resp.StatusCode, respBody)
	}

	out, err := os.Create(destPath)
	if err != nil {
		return fmt.Errorf("create output file: %w", err)
	}
	defer out.Close()

	if _, err := io.Copy(out, resp.Body); err != nil {
		return fmt.Errorf("write output file: %w", err)
	}
	return nil
}

func (c *Client) postJSON(ctx context.Context, path string, payload, out interface{}) error {
	var body io.Reader
	if payload != nil {
		encoded, err := json.Marshal(payload)
		if err != nil {
			return fmt.Errorf("marshal request: %w", err)
		}
		body = bytes.NewReader(encoded)
	}

	req, err := c.newRequest(ctx, http.MethodPost, path, body)
	if err != nil {
		return err
	}
	return c.do(req, out)
}

func (c *Client) newRequest(ctx context.Context, method, path string, body io.Reader) (*http.Request, error) {
	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, body)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}

	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("X-Cliplight-Request-Id", uuid.NewString())
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}
	return req, nil
}

func (c *Client) do(req *http.Request, out interface{}) error {
	resp, err := c.httpClient.Do(req)
	if err != nil {
		// Context cancellation surfaces as-is so callers can tell a
		// user-initiated abort from a transport failure.
		if ctxErr := req.Context().Err(); ctxErr != nil {
			return ctxErr
		}
		return fmt.Errorf("http request failed: %w", err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(io.LimitReader(resp.Body, 16*1024*1024))
	if err != nil {
		return fmt.Errorf("read response: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return newRequestError(resp.StatusCode, respBody)
	}

	if out != nil {
		if err := json.Unmarshal(respBody, out); err != nil {
			return fmt.Errorf("invalid response from server: %w", err)
		}
	}
	return nil
}

// progressReader reports cumulative bytes read to the progress callback.
type progressReader struct {
	reader     io.Reader
	total      int64
	loaded     int64
	onProgress func(session.UploadProgress)
}

func (r *progressReader) Read(p []byte) (int, error) {
	n, err := r.reader.Read(p)
	if n > 0 {
		r.loaded += int64(n)
		if r.onProgress != nil {
			pct := float64(0)
			if r.total > 0 {
				pct = float64(r.loaded) / float64(r.total) * 100
			}
			r.onProgress(session.UploadProgress{Loaded: r.loaded, Total: r.total, Percentage: pct})
		}
	}
	return n, err
}
