package ui

import (
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/cliplight/cliplight/internal/timecode"
)

// Editor binds the start/end text fields and their steppers to the selected
// highlight's effective range. Malformed or out-of-range input reverts the
// displayed text to the last committed value without touching session state.
type Editor struct {
	startInput textinput.Model
	endInput   textinput.Model
	focus      timecode.Field
	committed  timecode.Range
	duration   float64
	active     bool
}

// CommitResult reports what a commit attempt did. When Committed is false the
// displayed text has been reverted and the caller must not mutate state.
// SeekTo is non-nil only for committed start-field edits.
type CommitResult struct {
	Committed bool
	Field     timecode.Field
	Range     timecode.Range
	SeekTo    *float64
}

func NewEditor() Editor {
	start := textinput.New()
	start.Placeholder = "m:ss"
	start.CharLimit = 8
	start.Width = 8

	end := textinput.New()
	end.Placeholder = "m:ss"
	end.CharLimit = 8
	end.Width = 8

	return Editor{
		startInput: start,
		endInput:   end,
		focus:      timecode.FieldStart,
	}
}

// SetRange points the editor at a new effective range. Display text is
// normalized to m:ss.
func (e *Editor) SetRange(r timecode.Range, duration float64) {
	e.committed = r
	e.duration = duration
	e.active = true
	e.startInput.SetValue(timecode.FormatTime(r.Start))
	e.endInput.SetValue(timecode.FormatTime(r.End))
	e.focusField(timecode.FieldStart)
}

// Deactivate clears the editor when no highlight is selected.
func (e *Editor) Deactivate() {
	e.active = false
	e.startInput.Blur()
	e.endInput.Blur()
	e.startInput.SetValue("")
	e.endInput.SetValue("")
}

func (e *Editor) Active() bool { return e.active }

func (e *Editor) Committed() timecode.Range { return e.committed }

func (e *Editor) Focused() timecode.Field { return e.focus }

func (e *Editor) FocusNext() {
	if e.focus == timecode.FieldStart {
		e.focusField(timecode.FieldEnd)
	} else {
		e.focusField(timecode.FieldStart)
	}
}

func (e *Editor) focusField(f timecode.Field) {
	e.focus = f
	if f == timecode.FieldStart {
		e.startInput.Focus()
		e.endInput.Blur()
	} else {
		e.endInput.Focus()
		e.startInput.Blur()
	}
}

// Commit parses the focused field's text and runs it through validation.
// On success the new range is committed and the text normalized; on any
// failure the text silently reverts to the last committed value.
func (e *Editor) Commit() CommitResult {
	if !e.active {
		return CommitResult{}
	}

	input := &e.startInput
	committed := e.committed.Start
	if e.focus == timecode.FieldEnd {
		input = &e.endInput
		committed = e.committed.End
	}

	parsed, err := timecode.ParseTimeInput(input.Value())
	if err != nil {
		input.SetValue(timecode.FormatTime(committed))
		return CommitResult{Field: e.focus}
	}

	value, ok := timecode.ValidateTimeValue(parsed, e.focus, e.committed, e.duration)
	if !ok {
		input.SetValue(timecode.FormatTime(committed))
		return CommitResult{Field: e.focus}
	}

	return e.commitValue(value)
}

// Step nudges the focused field by delta seconds. A candidate that violates
// the bounds is a no-op: no revert, no commit, prior value stands.
func (e *Editor) Step(delta float64) CommitResult {
	if !e.active {
		return CommitResult{}
	}

	current := e.committed.Start
	if e.focus == timecode.FieldEnd {
		current = e.committed.End
	}

	value, ok := timecode.AdjustByDelta(current, delta, e.focus, e.committed, e.duration)
	if !ok {
		return CommitResult{Field: e.focus}
	}
	return e.commitValue(value)
}

func (e *Editor) commitValue(value float64) CommitResult {
	result := CommitResult{Committed: true, Field: e.focus}

	if e.focus == timecode.FieldStart {
		e.committed.Start = value
		e.startInput.SetValue(timecode.FormatTime(value))
		seek := value
		result.SeekTo = &seek
	} else {
		e.committed.End = value
		e.endInput.SetValue(timecode.FormatTime(value))
	}

	result.Range = e.committed
	return result
}

// Update forwards key input to the focused text field.
func (e *Editor) Update(msg tea.Msg) tea.Cmd {
	if !e.active {
		return nil
	}
	var cmd tea.Cmd
	if e.focus == timecode.FieldStart {
		e.startInput, cmd = e.startInput.Update(msg)
	} else {
		e.endInput, cmd = e.endInput.Update(msg)
	}
	return cmd
}

func (e *Editor) View() string {
	if !e.active {
		return DimTextStyle.Render("select a highlight to edit its range")
	}
	return lipgloss.JoinHorizontal(lipgloss.Top,
		LabelStyle.Render("start"),
		e.startInput.View(),
		LabelStyle.Render("  end"),
		e.endInput.View(),
	)
}
