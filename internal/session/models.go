package session

import "fmt"

// VideoFile is the active uploaded video. The path points at the local file
// used for preview playback; ID is the backend-assigned file id.
type VideoFile struct {
	ID              string  `json:"id"`
	Path            string  `json:"path"`
	Filename        string  `json:"filename"`
	Size            int64   `json:"size"`
	DurationSeconds float64 `json:"duration_seconds"`
}

// Highlight is an AI-identified time range of interest. Immutable once
// received from the analysis backend.
type Highlight struct {
	Start       float64 `json:"start"`
	End         float64 `json:"end"`
	Title       string  `json:"title"`
	Description string  `json:"description"`
	Score       float64 `json:"score"`
}

// AnalysisResult is the raw backend analysis payload.
type AnalysisResult struct {
	Highlights []Highlight `json:"highlights"`
}

// SelectedHighlight is the editable view derived from a raw Highlight. The
// edited bounds, when set, replace the originals for playback and export.
type SelectedHighlight struct {
	Highlight
	ID          string   `json:"id"`
	Selected    bool     `json:"selected"`
	EditedStart *float64 `json:"edited_start,omitempty"`
	EditedEnd   *float64 `json:"edited_end,omitempty"`
}

// EffectiveStart returns the edited start when present, else the original.
func (h *SelectedHighlight) EffectiveStart() float64 {
	if h.EditedStart != nil {
		return *h.EditedStart
	}
	return h.Start
}

// EffectiveEnd returns the edited end when present, else the original.
func (h *SelectedHighlight) EffectiveEnd() float64 {
	if h.EditedEnd != nil {
		return *h.EditedEnd
	}
	return h.End
}

// Segment is an export range sent to the extract endpoint.
type Segment struct {
	Start float64 `json:"start"`
	End   float64 `json:"end"`
}

// UploadProgress tracks an in-flight byte transfer.
type UploadProgress struct {
	Loaded     int64   `json:"loaded"`
	Total      int64   `json:"total"`
	Percentage float64 `json:"percentage"`
}

// ModelChoice names the provider and model used for analysis.
type ModelChoice struct {
	Provider string `json:"provider"`
	ModelKey string `json:"model_key"`
}

// highlightID assigns the stable per-session id for the highlight at the
// given position in the analysis result.
func highlightID(index int) string {
	return fmt.Sprintf("highlight-%d", index)
}
