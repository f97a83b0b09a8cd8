package api

import (
	"fmt"
	"net/url"

	"github.com/cliplight/cliplight/internal/session"
)

// Wire types for the analysis backend. Field names follow the backend's
// camelCase JSON. Every inbound payload is validated before it reaches
// session state; a non-conforming payload is a recoverable error, never a
// silent default.

type UploadInitRequest struct {
	FileName    string `json:"fileName"`
	FileSize    int64  `json:"fileSize"`
	ContentType string `json:"contentType"`
}

type UploadInit struct {
	UploadURL string `json:"uploadUrl"`
	FileID    string `json:"fileId"`
}

func (u *UploadInit) Validate() error {
	if u.FileID == "" {
		return fmt.Errorf("upload init response: fileId is empty")
	}
	if err := validateURL(u.UploadURL); err != nil {
		return fmt.Errorf("upload init response: %w", err)
	}
	return nil
}

type AnalyzeRequest struct {
	Provider string `json:"provider,omitempty"`
	ModelKey string `json:"modelKey,omitempty"`
}

// ValidateAnalysis checks the analysis payload against its schema. Note that
// end > start is expected but not backend-guaranteed, so ordering is not
// enforced here; the editor treats the original bounds as read-only either
// way.
func ValidateAnalysis(result *session.AnalysisResult) error {
	if result == nil {
		return fmt.Errorf("analysis response: missing body")
	}
	for i, h := range result.Highlights {
		if h.Start < 0 {
			return fmt.Errorf("analysis response: highlight %d has negative start", i)
		}
		if h.End < 0 {
			return fmt.Errorf("analysis response: highlight %d has negative end", i)
		}
		if h.Title == "" {
			return fmt.Errorf("analysis response: highlight %d has empty title", i)
		}
		if h.Score < 0 || h.Score > 1 {
			return fmt.Errorf("analysis response: highlight %d score %v outside [0, 1]", i, h.Score)
		}
	}
	return nil
}

type ExtractRequest struct {
	FileID   string            `json:"fileId"`
	Segments []session.Segment `json:"segments"`
}

type GenerateResult struct {
	DownloadURL string `json:"downloadUrl"`
}

func (g *GenerateResult) Validate() error {
	if err := validateURL(g.DownloadURL); err != nil {
		return fmt.Errorf("extract response: %w", err)
	}
	return nil
}

type ModelInfo struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description"`
}

type ProviderModels struct {
	Name   string               `json:"name"`
	Models map[string]ModelInfo `json:"models"`
}

type ModelCatalog struct {
	Providers map[string]ProviderModels `json:"providers"`
}

func (m *ModelCatalog) Validate() error {
	for key, provider := range m.Providers {
		if provider.Name == "" {
			return fmt.Errorf("models response: provider %q has empty name", key)
		}
		for modelKey, model := range provider.Models {
			if model.ID == "" {
				return fmt.Errorf("models response: model %q of provider %q has empty id", modelKey, key)
			}
		}
	}
	return nil
}

func validateURL(raw string) error {
	if raw == "" {
		return fmt.Errorf("url is empty")
	}
	u, err := url.Parse(raw)
	if err != nil {
		return fmt.Errorf("malformed url %q: %w", raw, err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return fmt.Errorf("url %q is not http(s)", raw)
	}
	return nil
}
