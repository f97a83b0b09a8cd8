// Package ui is the terminal front end: a bubbletea program that walks a
// video through upload, analysis, and interactive highlight editing, then
// exports the selected range.
package ui

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/charmbracelet/bubbles/list"
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/cliplight/cliplight/internal/api"
	"github.com/cliplight/cliplight/internal/media"
	"github.com/cliplight/cliplight/internal/session"
	"github.com/cliplight/cliplight/internal/timecode"
	"github.com/cliplight/cliplight/internal/timeline"
)

type phase int

const (
	phaseProbing phase = iota
	phaseUploading
	phaseAnalyzing
	phaseEditing
	phaseGenerating
)

// Rows above the timeline strip in the editing view; mouse coordinates are
// translated by this offset before hit-testing.
const timelineTopRow = 2

const defaultWidth = 80

type Model struct {
	client    *api.Client
	sess      *session.Session
	logger    *slog.Logger
	outputDir string

	phase       phase
	spinner     spinner.Model
	editor      Editor
	width       int
	playing     bool
	quitting    bool
	tickRunning bool

	progress chan session.UploadProgress

	catalog      *api.ModelCatalog
	modelList    list.Model
	pickingModel bool

	hover      *timeline.Tooltip
	statusMsg  string
	outputPath string
}

func NewModel(client *api.Client, sess *session.Session, outputDir string, logger *slog.Logger) Model {
	s := spinner.New()
	s.Spinner = spinner.Dot
	s.Style = SpinnerStyle

	return Model{
		client:    client,
		sess:      sess,
		logger:    logger,
		outputDir: outputDir,
		phase:     phaseProbing,
		spinner:   s,
		editor:    NewEditor(),
		width:     defaultWidth,
	}
}

func (m Model) Init() tea.Cmd {
	file := m.sess.VideoFile()
	return tea.Batch(
		m.spinner.Tick,
		probeDurationCmd(file.Path),
		listModelsCmd(m.client),
	)
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		return m, nil

	case tea.KeyMsg:
		return m.handleKey(msg)

	case tea.MouseMsg:
		return m.handleMouse(msg)

	case durationProbedMsg:
		return m.handleDurationProbed(msg)

	case uploadProgressMsg:
		p := msg.progress
		m.sess.SetUploadProgress(&p)
		return m, waitForProgress(m.progress)

	case uploadDoneMsg:
		return m.handleUploadDone(msg)

	case analysisDoneMsg:
		return m.handleAnalysisDone(msg)

	case generateDoneMsg:
		m.sess.FinishGenerate(msg.outputPath, msg.err)
		if msg.err == nil {
			m.outputPath = msg.outputPath
			m.statusMsg = "Saved " + msg.outputPath
		}
		m.phase = phaseEditing
		return m, nil

	case modelsLoadedMsg:
		if msg.err == nil {
			m.catalog = msg.catalog
			m.modelList = newModelList(msg.catalog, m.width)
		}
		return m, nil

	case playbackTickMsg:
		return m.handlePlaybackTick()

	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd
	}

	return m, nil
}

func (m Model) handleDurationProbed(msg durationProbedMsg) (tea.Model, tea.Cmd) {
	if msg.err != nil {
		m.sess.SetError(msg.err.Error())
		m.quitting = true
		return m, tea.Quit
	}

	file := m.sess.VideoFile()
	file.DurationSeconds = msg.duration
	m.sess.SetVideoFile(file)

	m.phase = phaseUploading
	m.sess.BeginUpload()
	m.progress = make(chan session.UploadProgress, 8)
	return m, tea.Batch(
		uploadCmd(m.client, file, m.progress),
		waitForProgress(m.progress),
	)
}

func (m Model) handleUploadDone(msg uploadDoneMsg) (tea.Model, tea.Cmd) {
	m.sess.FinishUpload()
	if msg.err != nil {
		m.sess.SetError(msg.err.Error())
		m.quitting = true
		return m, tea.Quit
	}

	file := m.sess.VideoFile()
	file.ID = msg.fileID
	m.sess.SetVideoFile(file)

	return m.startAnalysis()
}

func (m Model) startAnalysis() (tea.Model, tea.Cmd) {
	ctx, cancel := context.WithCancel(context.Background())
	gen := m.sess.BeginAnalysis(cancel)
	m.phase = phaseAnalyzing
	return m, analyzeCmd(ctx, m.client, m.sess.VideoFile().ID, m.sess.Model(), gen)
}

func (m Model) handleAnalysisDone(msg analysisDoneMsg) (tea.Model, tea.Cmd) {
	if !m.sess.FinishAnalysis(msg.gen, msg.result, msg.err) {
		// A cancel or newer request superseded this completion.
		return m, nil
	}

	m.phase = phaseEditing
	if msg.err == nil {
		// The fresh highlight list has no selection yet.
		m.editor.Deactivate()
	}
	return m, m.ensureTick()
}

// ensureTick starts the playback clock loop unless one is already running.
// At most one tick is ever in flight.
func (m *Model) ensureTick() tea.Cmd {
	if m.tickRunning {
		return nil
	}
	m.tickRunning = true
	return playbackTick()
}

func (m Model) handlePlaybackTick() (tea.Model, tea.Cmd) {
	if m.phase != phaseEditing && m.phase != phaseGenerating {
		m.tickRunning = false
		return m, nil
	}

	// Pending seeks apply exactly once, before the clock advances, whether or
	// not playback is running.
	if t, ok := m.sess.ConsumeSeek(); ok {
		m.sess.SetCurrentTime(t)
		return m, playbackTick()
	}

	if m.playing {
		duration := m.sess.VideoFile().DurationSeconds
		t := m.sess.CurrentTime() + playbackTickInterval.Seconds()
		if t >= duration {
			t = duration
			m.playing = false
		}
		m.sess.SetCurrentTime(t)
	}
	return m, playbackTick()
}

func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if m.pickingModel {
		return m.handlePickerKey(msg)
	}

	switch msg.String() {
	case "q", "ctrl+c":
		m.quitting = true
		return m, tea.Quit

	case "esc":
		if m.phase == phaseAnalyzing {
			m.sess.CancelAnalysis()
			m.phase = phaseEditing
			m.statusMsg = "Analysis cancelled"
			return m, m.ensureTick()
		}
		m.sess.ClearError()
		return m, nil
	}

	if m.phase != phaseEditing {
		return m, nil
	}

	switch msg.String() {
	case "tab":
		m.editor.FocusNext()
		return m, nil

	case "enter":
		m.applyCommit(m.editor.Commit())
		return m, nil

	case "up":
		m.applyCommit(m.editor.Step(1))
		return m, nil

	case "down":
		m.applyCommit(m.editor.Step(-1))
		return m, nil

	case " ":
		m.playing = !m.playing
		return m, nil

	case "p":
		if sel := m.sess.SelectedHighlight(); sel != nil {
			path := m.sess.VideoFile().Path
			start, end := sel.EffectiveStart(), sel.EffectiveEnd()
			go media.Preview(path, start, end)
		}
		return m, nil

	case "g":
		return m.startGenerate()

	case "m":
		if m.catalog != nil {
			m.pickingModel = true
		}
		return m, nil

	case "a":
		if m.sess.VideoFile().ID != "" {
			return m.startAnalysis()
		}
		return m, nil
	}

	return m, m.editor.Update(msg)
}

func (m *Model) applyCommit(result CommitResult) {
	if !result.Committed {
		return
	}
	sel := m.sess.SelectedHighlight()
	if sel == nil {
		return
	}
	m.sess.UpdateHighlightTimes(sel.ID, result.Range.Start, result.Range.End)
	if result.SeekTo != nil {
		m.sess.SetSeekTo(*result.SeekTo)
	}
}

func (m Model) startGenerate() (tea.Model, tea.Cmd) {
	segments := m.sess.ExportSegments()
	if len(segments) == 0 {
		m.statusMsg = "Select a highlight before generating"
		return m, nil
	}

	sel := m.sess.SelectedHighlight()
	m.sess.BeginGenerate()
	m.phase = phaseGenerating
	return m, generateCmd(m.client, m.sess.VideoFile().ID, segments, m.outputDir, sel.Title)
}

func (m Model) handleMouse(msg tea.MouseMsg) (tea.Model, tea.Cmd) {
	if m.phase != phaseEditing {
		return m, nil
	}

	layout := m.timelineLayout()
	x, y := msg.X, msg.Y-timelineTopRow
	if x < 0 || x >= layout.Width || y < 0 || y >= timeline.Height {
		m.hover = nil
		return m, nil
	}

	hit := layout.HitTest(x, y, m.sess.Highlights())

	switch msg.Action {
	case tea.MouseActionMotion:
		if hit.OnBand && hit.Index >= 0 {
			tt := layout.TooltipFor(&m.sess.Highlights()[hit.Index])
			m.hover = &tt
		} else {
			m.hover = nil
		}
		return m, nil

	case tea.MouseActionPress:
		if msg.Button != tea.MouseButtonLeft {
			return m, nil
		}
		if hit.Index >= 0 {
			h := &m.sess.Highlights()[hit.Index]
			m.sess.SetSeekTo(h.Start)
			m.sess.ToggleHighlight(h.ID)
			m.syncEditor()
		} else {
			m.sess.SetSeekTo(hit.Time)
		}
		return m, nil
	}

	return m, nil
}

// syncEditor repoints the editing surface at the current selection.
func (m *Model) syncEditor() {
	sel := m.sess.SelectedHighlight()
	if sel == nil {
		m.editor.Deactivate()
		return
	}
	r := timecode.Range{Start: sel.EffectiveStart(), End: sel.EffectiveEnd()}
	m.editor.SetRange(r, m.sess.VideoFile().DurationSeconds)
}

func (m Model) timelineLayout() timeline.Layout {
	width := m.width
	if width <= 0 {
		width = defaultWidth
	}
	return timeline.Layout{Width: width, Duration: m.sess.VideoFile().DurationSeconds}
}

func (m Model) handlePickerKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "esc":
		m.pickingModel = false
		return m, nil
	case "enter":
		if item, ok := m.modelList.SelectedItem().(modelItem); ok {
			m.sess.SetModel(&session.ModelChoice{Provider: item.provider, ModelKey: item.key})
		}
		m.pickingModel = false
		return m, nil
	}

	var cmd tea.Cmd
	m.modelList, cmd = m.modelList.Update(msg)
	return m, cmd
}

func (m Model) View() string {
	if m.quitting {
		if err := m.sess.Err(); err != "" {
			return ErrorStyle.Render(err) + "\n"
		}
		if m.outputPath != "" {
			return SuccessStyle.Render("Saved "+m.outputPath) + "\n"
		}
		return ""
	}

	switch m.phase {
	case phaseProbing:
		return m.spinner.View() + TextStyle.Render("Reading video metadata...")

	case phaseUploading:
		label := "Uploading..."
		if p := m.sess.UploadProgress(); p != nil {
			label = fmt.Sprintf("Uploading... %.0f%%", p.Percentage)
		}
		return m.spinner.View() + TextStyle.Render(label)

	case phaseAnalyzing:
		return m.spinner.View() + TextStyle.Render("Analyzing video for highlights... ") +
			DimTextStyle.Render("(esc to cancel)")
	}

	if m.pickingModel {
		return m.modelList.View()
	}

	return m.editingView()
}

func (m Model) editingView() string {
	var b strings.Builder

	file := m.sess.VideoFile()
	playState := "⏸"
	if m.playing {
		playState = "▶"
	}
	b.WriteString(TitleStyle.Render("cliplight"))
	b.WriteString(DimTextStyle.Render("  " + file.Filename))
	b.WriteString(TextStyle.Render(fmt.Sprintf("  %s %s / %s",
		playState,
		timecode.FormatTime(m.sess.CurrentTime()),
		timecode.FormatTime(file.DurationSeconds))))
	b.WriteString("\n\n")

	layout := m.timelineLayout()
	frame := timeline.Frame{
		Layout:      layout,
		Highlights:  m.sess.Highlights(),
		CurrentTime: m.sess.CurrentTime(),
	}
	b.WriteString(timeline.Render(frame))
	b.WriteString("\n")

	if m.hover != nil {
		b.WriteString(timeline.RenderTooltip(*m.hover, layout.Width))
		b.WriteString("\n")
	}

	b.WriteString(m.highlightListView())
	b.WriteString("\n")
	b.WriteString(m.editor.View())
	b.WriteString("\n")

	if err := m.sess.Err(); err != "" {
		b.WriteString(ErrorStyle.Render(err))
		b.WriteString("\n")
	} else if m.statusMsg != "" {
		b.WriteString(SuccessStyle.Render(m.statusMsg))
		b.WriteString("\n")
	}

	if m.phase == phaseGenerating {
		b.WriteString(m.spinner.View() + TextStyle.Render("Generating video..."))
		b.WriteString("\n")
	}

	b.WriteString(HelpStyle.Render("click select/seek · tab field · enter commit · ↑/↓ nudge · space play · p preview · g generate · m model · a re-analyze · q quit"))
	return b.String()
}

func (m Model) highlightListView() string {
	highlights := m.sess.Highlights()
	if len(highlights) == 0 {
		return DimTextStyle.Render("no highlights yet")
	}

	var b strings.Builder
	for i := range highlights {
		h := &highlights[i]
		marker := "☐"
		style := HighlightStyle
		if h.Selected {
			marker = "◼"
			style = SelectedStyle
		}
		line := fmt.Sprintf("%s %s  %s – %s  %d%%",
			marker, h.Title,
			timecode.FormatTime(h.EffectiveStart()),
			timecode.FormatTime(h.EffectiveEnd()),
			int(h.Score*100+0.5))
		b.WriteString(style.Render(line))
		if i < len(highlights)-1 {
			b.WriteString("\n")
		}
	}
	return b.String()
}

type modelItem struct {
	provider string
	key      string
	name     string
	desc     string
}

func (i modelItem) Title() string       { return i.name }
func (i modelItem) Description() string { return i.desc }
func (i modelItem) FilterValue() string { return i.name }

func newModelList(catalog *api.ModelCatalog, width int) list.Model {
	var items []list.Item
	for providerKey, provider := range catalog.Providers {
		for modelKey, info := range provider.Models {
			items = append(items, modelItem{
				provider: providerKey,
				key:      modelKey,
				name:     provider.Name + " · " + info.Name,
				desc:     info.Description,
			})
		}
	}

	if width <= 0 {
		width = defaultWidth
	}
	l := list.New(items, list.NewDefaultDelegate(), width, 14)
	l.Title = "Analysis model"
	l.SetShowStatusBar(false)
	l.SetFilteringEnabled(true)
	return l
}
