// Package session owns the single mutable aggregate behind the highlight
// editor: the active video file, the analysis result and its derived editable
// highlight list, playback position, the one-shot seek request, and the
// in-flight operation flags for upload, analysis, and export.
//
// The aggregate is confined to the UI event loop. All mutation goes through
// the named operations below; callers never reach into the fields directly.
package session

import (
	"context"
	"log/slog"
)

type Session struct {
	logger *slog.Logger

	videoFile   *VideoFile
	currentTime float64
	seekTo      *float64

	isUploading    bool
	uploadProgress *UploadProgress

	analysisResult *AnalysisResult
	highlights     []SelectedHighlight
	isAnalyzing    bool
	analysisGen    uint64
	cancelAnalysis context.CancelFunc

	model *ModelChoice

	isGenerating bool
	generatedURL string

	errMsg string
}

func New(logger *slog.Logger) *Session {
	return &Session{logger: logger}
}

// SetVideoFile replaces the active file. It does not clear an existing
// analysis; callers wanting a full reset clear that explicitly.
func (s *Session) SetVideoFile(file *VideoFile) {
	s.videoFile = file
	if s.logger != nil && file != nil {
		s.logger.Info("video file set", "file_id", file.ID, "duration_s", file.DurationSeconds)
	}
}

func (s *Session) VideoFile() *VideoFile {
	return s.videoFile
}

func (s *Session) SetCurrentTime(t float64) {
	s.currentTime = t
}

func (s *Session) CurrentTime() float64 {
	return s.currentTime
}

// SetSeekTo records a one-shot seek request. The playback surface consumes it
// exactly once via ConsumeSeek.
func (s *Session) SetSeekTo(t float64) {
	s.seekTo = &t
}

// ConsumeSeek returns and clears the pending seek request. The clear happens
// before the caller applies the seek, so a request is never re-applied on an
// unrelated pass through the loop.
func (s *Session) ConsumeSeek() (float64, bool) {
	if s.seekTo == nil {
		return 0, false
	}
	t := *s.seekTo
	s.seekTo = nil
	return t, true
}

// SetAnalysisResult stores a new analysis and derives the editable highlight
// list, one entry per raw highlight with positional ids and nothing selected.
// A nil result clears both. Any prior selection and edited bounds are gone
// either way: a new analysis supersedes the old one entirely.
func (s *Session) SetAnalysisResult(result *AnalysisResult) {
	if result == nil {
		s.analysisResult = nil
		s.highlights = nil
		return
	}

	highlights := make([]SelectedHighlight, len(result.Highlights))
	for i, h := range result.Highlights {
		highlights[i] = SelectedHighlight{
			Highlight: h,
			ID:        highlightID(i),
			Selected:  false,
		}
	}

	s.analysisResult = result
	s.highlights = highlights

	if s.logger != nil {
		s.logger.Info("analysis result stored", "highlight_count", len(highlights))
	}
}

func (s *Session) AnalysisResult() *AnalysisResult {
	return s.analysisResult
}

// Highlights returns the derived editable highlight list in declaration
// order. Callers must not mutate entries; edits go through the operations.
func (s *Session) Highlights() []SelectedHighlight {
	return s.highlights
}

// SelectedHighlight returns the single selected entry, if any.
func (s *Session) SelectedHighlight() *SelectedHighlight {
	for i := range s.highlights {
		if s.highlights[i].Selected {
			return &s.highlights[i]
		}
	}
	return nil
}

// ToggleHighlight flips the selection state of the entry with the given id
// and forces every other entry off. Selecting an already-selected highlight
// toggles it off, leaving nothing selected. Unknown ids are a no-op.
func (s *Session) ToggleHighlight(id string) {
	found := false
	for i := range s.highlights {
		if s.highlights[i].ID == id {
			found = true
			break
		}
	}
	if !found {
		return
	}

	for i := range s.highlights {
		if s.highlights[i].ID == id {
			s.highlights[i].Selected = !s.highlights[i].Selected
		} else {
			s.highlights[i].Selected = false
		}
	}
}

// ClearSelection deselects every highlight without touching edited bounds.
func (s *Session) ClearSelection() {
	for i := range s.highlights {
		s.highlights[i].Selected = false
	}
}

// UpdateHighlightTimes overwrites the edited bounds of the entry with the
// given id. Validation happens at the editing surface, not here; this is a
// plain store. Unknown ids are a no-op.
func (s *Session) UpdateHighlightTimes(id string, editedStart, editedEnd float64) {
	for i := range s.highlights {
		if s.highlights[i].ID == id {
			start, end := editedStart, editedEnd
			s.highlights[i].EditedStart = &start
			s.highlights[i].EditedEnd = &end
			return
		}
	}
}

func (s *Session) SetModel(m *ModelChoice) {
	s.model = m
}

func (s *Session) Model() *ModelChoice {
	return s.model
}

// BeginUpload brackets the start of a byte transfer: busy flag on, stale
// error cleared, progress reset.
func (s *Session) BeginUpload() {
	s.isUploading = true
	s.uploadProgress = nil
	s.errMsg = ""
}

func (s *Session) SetUploadProgress(p *UploadProgress) {
	s.uploadProgress = p
}

// FinishUpload clears the upload busy state. Called on every exit path,
// success or failure, so the flag can never stick.
func (s *Session) FinishUpload() {
	s.isUploading = false
	s.uploadProgress = nil
}

func (s *Session) IsUploading() bool {
	return s.isUploading
}

func (s *Session) UploadProgress() *UploadProgress {
	return s.uploadProgress
}

// BeginAnalysis brackets the start of an analysis call. The returned
// generation token must be handed back to FinishAnalysis; completions
// carrying a stale token are discarded, which is what suppresses responses
// that arrive after a cancel or after a newer request superseded them.
func (s *Session) BeginAnalysis(cancel context.CancelFunc) uint64 {
	s.analysisGen++
	s.isAnalyzing = true
	s.cancelAnalysis = cancel
	s.errMsg = ""
	return s.analysisGen
}

// FinishAnalysis completes the analysis carrying the given generation token.
// It reports whether the completion was applied; stale completions are
// ignored entirely, including their errors.
func (s *Session) FinishAnalysis(gen uint64, result *AnalysisResult, err error) bool {
	if gen != s.analysisGen {
		if s.logger != nil {
			s.logger.Debug("stale analysis completion discarded", "gen", gen, "current", s.analysisGen)
		}
		return false
	}

	s.isAnalyzing = false
	s.cancelAnalysis = nil

	if err != nil {
		s.errMsg = err.Error()
		return true
	}

	s.SetAnalysisResult(result)
	return true
}

// CancelAnalysis aborts the in-flight analysis and flips the busy flag off
// immediately. The generation bump makes the eventual network completion
// stale, so its result or error is discarded when it lands.
func (s *Session) CancelAnalysis() {
	if s.cancelAnalysis != nil {
		s.cancelAnalysis()
	}
	s.cancelAnalysis = nil
	s.isAnalyzing = false
	s.analysisGen++

	if s.logger != nil {
		s.logger.Info("analysis cancelled")
	}
}

func (s *Session) IsAnalyzing() bool {
	return s.isAnalyzing
}

// BeginGenerate brackets the start of an export call.
func (s *Session) BeginGenerate() {
	s.isGenerating = true
	s.errMsg = ""
}

// FinishGenerate completes the export, recording the download URL on success
// or the failure message on error.
func (s *Session) FinishGenerate(downloadURL string, err error) {
	s.isGenerating = false
	if err != nil {
		s.errMsg = err.Error()
		return
	}
	s.generatedURL = downloadURL
}

func (s *Session) IsGenerating() bool {
	return s.isGenerating
}

func (s *Session) GeneratedURL() string {
	return s.generatedURL
}

// ExportSegments returns the single effective range to send to the extract
// endpoint, or nil when nothing is selected.
func (s *Session) ExportSegments() []Segment {
	sel := s.SelectedHighlight()
	if sel == nil {
		return nil
	}
	return []Segment{{Start: sel.EffectiveStart(), End: sel.EffectiveEnd()}}
}

func (s *Session) SetError(msg string) {
	s.errMsg = msg
}

func (s *Session) ClearError() {
	s.errMsg = ""
}

func (s *Session) Err() string {
	return s.errMsg
}

// Reset restores the aggregate to its initial empty state in one step. Any
// in-flight analysis is cancelled first so its completion cannot land on the
// fresh state.
func (s *Session) Reset() {
	if s.cancelAnalysis != nil {
		s.cancelAnalysis()
	}

	gen := s.analysisGen + 1
	*s = Session{logger: s.logger, analysisGen: gen}
}
