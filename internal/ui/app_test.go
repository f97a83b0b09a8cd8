package ui

import (
	"errors"
	"testing"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/cliplight/cliplight/internal/session"
	"github.com/cliplight/cliplight/internal/timeline"
)

func editingModel(t *testing.T) Model {
	t.Helper()

	sess := session.New(nil)
	sess.SetVideoFile(&session.VideoFile{ID: "abc", Filename: "clip.mp4", DurationSeconds: 100})
	sess.SetAnalysisResult(&session.AnalysisResult{
		Highlights: []session.Highlight{
			{Start: 0, End: 30, Title: "Opening", Score: 0.9},
			{Start: 50, End: 80, Title: "Peak", Score: 0.95},
		},
	})

	m := NewModel(nil, sess, t.TempDir(), nil)
	m.phase = phaseEditing
	m.width = 100
	return m
}

func clickAt(x, y int) tea.MouseMsg {
	return tea.MouseMsg{X: x, Y: y, Action: tea.MouseActionPress, Button: tea.MouseButtonLeft}
}

func TestMouseClick_SelectsAndSeeks(t *testing.T) {
	m := editingModel(t)

	// Column 10 of 100 over a 100s video is t=10, inside highlight-0.
	updated, _ := m.Update(clickAt(10, timelineTopRow+timeline.BandTop))
	m = updated.(Model)

	sel := m.sess.SelectedHighlight()
	if sel == nil || sel.ID != "highlight-0" {
		t.Fatalf("selection = %v, want highlight-0", sel)
	}
	if seek, ok := m.sess.ConsumeSeek(); !ok || seek != 0 {
		t.Errorf("seek = %v %v, want highlight start 0", seek, ok)
	}
	if !m.editor.Active() {
		t.Error("editor not activated by selection")
	}
}

func TestMouseClick_SameHighlightTogglesOff(t *testing.T) {
	m := editingModel(t)

	updated, _ := m.Update(clickAt(10, timelineTopRow+timeline.BandTop))
	m = updated.(Model)
	updated, _ = m.Update(clickAt(10, timelineTopRow+timeline.BandTop))
	m = updated.(Model)

	if sel := m.sess.SelectedHighlight(); sel != nil {
		t.Errorf("selection = %v, want toggled off", sel)
	}
	if m.editor.Active() {
		t.Error("editor still active with no selection")
	}
}

func TestMouseClick_BareTimelineSeeksOnly(t *testing.T) {
	m := editingModel(t)

	updated, _ := m.Update(clickAt(10, timelineTopRow+timeline.BandTop))
	m = updated.(Model)
	m.sess.ConsumeSeek()

	// Column 40 is t=40, between the two highlights.
	updated, _ = m.Update(clickAt(40, timelineTopRow+timeline.RulerRow))
	m = updated.(Model)

	if sel := m.sess.SelectedHighlight(); sel == nil || sel.ID != "highlight-0" {
		t.Errorf("bare-timeline click changed selection: %v", sel)
	}
	if seek, ok := m.sess.ConsumeSeek(); !ok || seek != 40 {
		t.Errorf("seek = %v %v, want 40", seek, ok)
	}
}

func TestMouseHover_TooltipOnBandOnly(t *testing.T) {
	m := editingModel(t)

	motion := tea.MouseMsg{X: 10, Y: timelineTopRow + timeline.BandTop, Action: tea.MouseActionMotion}
	updated, _ := m.Update(motion)
	m = updated.(Model)
	if m.hover == nil || m.hover.Title != "Opening" {
		t.Fatalf("hover = %+v, want Opening tooltip", m.hover)
	}

	motion = tea.MouseMsg{X: 10, Y: timelineTopRow + timeline.RulerRow, Action: tea.MouseActionMotion}
	updated, _ = m.Update(motion)
	m = updated.(Model)
	if m.hover != nil {
		t.Errorf("hover on ruler row = %+v, want nil", m.hover)
	}
}

func TestPlaybackTick_ConsumesSeekBeforeAdvancing(t *testing.T) {
	m := editingModel(t)
	m.playing = true
	m.sess.SetCurrentTime(10)
	m.sess.SetSeekTo(42)

	updated, _ := m.Update(playbackTickMsg{})
	m = updated.(Model)

	if got := m.sess.CurrentTime(); got != 42 {
		t.Errorf("CurrentTime = %v, want seek target 42", got)
	}
	if _, ok := m.sess.ConsumeSeek(); ok {
		t.Error("seek request survived consumption")
	}

	updated, _ = m.Update(playbackTickMsg{})
	m = updated.(Model)
	if got := m.sess.CurrentTime(); got != 43 {
		t.Errorf("CurrentTime = %v, want clock advance to 43", got)
	}
}

func TestPlaybackTick_StopsAtDuration(t *testing.T) {
	m := editingModel(t)
	m.playing = true
	m.sess.SetCurrentTime(99.5)

	updated, _ := m.Update(playbackTickMsg{})
	m = updated.(Model)

	if got := m.sess.CurrentTime(); got != 100 {
		t.Errorf("CurrentTime = %v, want clamped 100", got)
	}
	if m.playing {
		t.Error("still playing past the end")
	}
}

func TestAnalysisDone_StaleGenerationDiscarded(t *testing.T) {
	m := editingModel(t)
	m.phase = phaseAnalyzing
	gen := m.sess.BeginAnalysis(func() {})
	m.sess.CancelAnalysis()

	before := len(m.sess.Highlights())
	updated, _ := m.Update(analysisDoneMsg{
		gen: gen,
		result: &session.AnalysisResult{
			Highlights: []session.Highlight{{Start: 0, End: 5, Title: "late", Score: 0.5}},
		},
	})
	m = updated.(Model)

	if len(m.sess.Highlights()) != before {
		t.Error("stale analysis completion replaced the highlight list")
	}
}

func TestEscDuringAnalysis_CancelsWithStatus(t *testing.T) {
	m := editingModel(t)
	m.phase = phaseAnalyzing
	m.sess.BeginAnalysis(func() {})

	updated, cmd := m.Update(tea.KeyMsg{Type: tea.KeyEsc})
	m = updated.(Model)

	if m.phase != phaseEditing {
		t.Errorf("phase = %v, want editing", m.phase)
	}
	if m.statusMsg != "Analysis cancelled" {
		t.Errorf("statusMsg = %q, want cancellation notice", m.statusMsg)
	}
	if cmd == nil {
		t.Error("cancel did not resume the playback clock")
	}
}

func TestAnalysisDone_DoesNotStackTickLoops(t *testing.T) {
	m := editingModel(t)
	m.phase = phaseAnalyzing
	m.tickRunning = true
	gen := m.sess.BeginAnalysis(func() {})

	updated, cmd := m.Update(analysisDoneMsg{gen: gen, result: &session.AnalysisResult{}})
	m = updated.(Model)

	if cmd != nil {
		t.Error("completion started a second tick loop while one was running")
	}
	if m.phase != phaseEditing {
		t.Errorf("phase = %v, want editing", m.phase)
	}
}

func TestPlaybackTick_OutsideEditingStopsLoop(t *testing.T) {
	m := editingModel(t)
	m.phase = phaseAnalyzing
	m.tickRunning = true

	updated, cmd := m.Update(playbackTickMsg{})
	m = updated.(Model)

	if cmd != nil {
		t.Error("tick outside editing rescheduled itself")
	}
	if m.tickRunning {
		t.Error("stopped loop still marked running")
	}

	// With the loop stopped, the next analysis completion restarts it.
	gen := m.sess.BeginAnalysis(func() {})
	_, cmd = m.Update(analysisDoneMsg{gen: gen, result: &session.AnalysisResult{}})
	if cmd == nil {
		t.Error("completion after a stopped loop did not restart the clock")
	}
}

func TestAnalysisDone_ErrorLandsInSession(t *testing.T) {
	m := editingModel(t)
	m.phase = phaseAnalyzing
	gen := m.sess.BeginAnalysis(func() {})

	updated, _ := m.Update(analysisDoneMsg{gen: gen, err: errors.New("model unavailable")})
	m = updated.(Model)

	if m.sess.Err() != "model unavailable" {
		t.Errorf("Err() = %q", m.sess.Err())
	}
	if m.phase != phaseEditing {
		t.Errorf("phase = %v, want editing", m.phase)
	}
}
