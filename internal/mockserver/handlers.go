package mockserver

import (
	"encoding/json"
	"io"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/cliplight/cliplight/internal/api"
	"github.com/cliplight/cliplight/internal/logging"
	"github.com/cliplight/cliplight/internal/session"
)

func (s *Server) healthHandler(w http.ResponseWriter, r *http.Request) {
	WriteJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *Server) uploadInitHandler(w http.ResponseWriter, r *http.Request) {
	var req api.UploadInitRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		WriteError(w, http.StatusBadRequest, "invalid request body", "BAD_REQUEST")
		return
	}
	if req.FileName == "" {
		WriteError(w, http.StatusBadRequest, "fileName is required", "BAD_REQUEST")
		return
	}
	if req.FileSize <= 0 {
		WriteError(w, http.StatusBadRequest, "fileSize must be positive", "BAD_REQUEST")
		return
	}

	fileID := uuid.NewString()
	s.storeFile(fileID, storedFile{
		fileName:    req.FileName,
		fileSize:    req.FileSize,
		contentType: req.ContentType,
	})

	WriteJSON(w, http.StatusOK, api.UploadInit{
		UploadURL: "http://" + r.Host + "/upload/" + fileID,
		FileID:    fileID,
	})
}

func (s *Server) uploadHandler(w http.ResponseWriter, r *http.Request) {
	fileID := chi.URLParam(r, "fileId")

	n, err := io.Copy(io.Discard, r.Body)
	if err != nil {
		WriteError(w, http.StatusBadRequest, "upload interrupted", "BAD_REQUEST")
		return
	}

	if !s.markReceived(fileID, n) {
		WriteError(w, http.StatusNotFound, "unknown file id", "NOT_FOUND")
		return
	}
	w.WriteHeader(http.StatusOK)
}

func (s *Server) analyzeHandler(w http.ResponseWriter, r *http.Request) {
	fileID := chi.URLParam(r, "fileId")

	file, ok := s.lookupFile(fileID)
	if !ok {
		WriteError(w, http.StatusNotFound, "unknown file id", "NOT_FOUND")
		return
	}

	// The real backend takes a while. Simulate that, but stop immediately if
	// the client cancels.
	select {
	case <-time.After(s.latency):
	case <-r.Context().Done():
		return
	}

	logging.WithFileID(s.logger, fileID).Info("analysis served", "file_name", file.fileName)
	WriteJSON(w, http.StatusOK, cannedAnalysis(file.fileName))
}

func (s *Server) extractHandler(w http.ResponseWriter, r *http.Request) {
	var req api.ExtractRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		WriteError(w, http.StatusBadRequest, "invalid request body", "BAD_REQUEST")
		return
	}
	if _, ok := s.lookupFile(req.FileID); !ok {
		WriteError(w, http.StatusNotFound, "unknown file id", "NOT_FOUND")
		return
	}
	if len(req.Segments) == 0 {
		WriteError(w, http.StatusBadRequest, "segments must not be empty", "BAD_REQUEST")
		return
	}
	for _, seg := range req.Segments {
		if seg.Start < 0 || seg.End <= seg.Start {
			WriteError(w, http.StatusBadRequest, "segment range is invalid", "BAD_REQUEST")
			return
		}
	}

	WriteJSON(w, http.StatusOK, api.GenerateResult{
		DownloadURL: "http://" + r.Host + "/download/" + uuid.NewString(),
	})
}

func (s *Server) downloadHandler(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "video/mp4")
	w.Write(placeholderMP4)
}

func (s *Server) modelsHandler(w http.ResponseWriter, r *http.Request) {
	WriteJSON(w, http.StatusOK, cannedCatalog())
}

// cannedAnalysis returns six evenly spaced highlights covering the first three
// minutes, matching what the hosted backend produces for its demo footage.
func cannedAnalysis(fileName string) *session.AnalysisResult {
	intro := "モック動画の導入部分"
	if fileName != "" {
		intro = fileName + "の導入部分"
	}
	return &session.AnalysisResult{
		Highlights: []session.Highlight{
			{Start: 0, End: 30, Title: "オープニングシーン", Description: intro, Score: 0.85},
			{Start: 30, End: 60, Title: "メインコンテンツ", Description: "重要な内容が始まる部分", Score: 0.92},
			{Start: 60, End: 90, Title: "ハイライトシーン", Description: "最も注目すべきシーン", Score: 0.95},
			{Start: 90, End: 120, Title: "詳細説明", Description: "技術的な詳細や補足説明", Score: 0.78},
			{Start: 120, End: 150, Title: "クライマックス", Description: "盛り上がりのピーク", Score: 0.88},
			{Start: 150, End: 180, Title: "まとめ", Description: "要点のまとめと結論", Score: 0.82},
		},
	}
}

func cannedCatalog() *api.ModelCatalog {
	return &api.ModelCatalog{
		Providers: map[string]api.ProviderModels{
			"vertex_ai": {
				Name: "Vertex AI",
				Models: map[string]api.ModelInfo{
					"gemini-25-flash-lite": {
						ID:          "gemini-2.5-flash-lite-preview-06-17",
						Name:        "Gemini 2.5 Flash Lite (Preview)",
						Description: "Fast and efficient model for video analysis",
					},
					"gemini-20-flash-lite": {
						ID:          "gemini-2.0-flash-lite-001",
						Name:        "Gemini 2.0 Flash Lite",
						Description: "Stable lightweight model",
					},
				},
			},
			"google_ai": {
				Name: "Google AI",
				Models: map[string]api.ModelInfo{
					"gemini-25-flash-lite": {
						ID:          "gemini-2.5-flash-lite-preview-06-17",
						Name:        "Gemini 2.5 Flash Lite (Preview)",
						Description: "Fast and efficient model via Google AI API",
					},
					"gemini-20-flash-exp": {
						ID:          "gemini-2.0-flash-exp",
						Name:        "Gemini 2.0 Flash (Experimental)",
						Description: "Experimental features with Google AI",
					},
				},
			},
		},
	}
}

// placeholderMP4 is an empty-but-valid ftyp box, enough for a download to
// produce a file players recognize as MP4.
var placeholderMP4 = []byte{
	0x00, 0x00, 0x00, 0x18, 'f', 't', 'y', 'p',
	'i', 's', 'o', 'm', 0x00, 0x00, 0x02, 0x00,
	'i', 's', 'o', 'm', 'm', 'p', '4', '1',
}
