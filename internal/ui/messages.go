package ui

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/cliplight/cliplight/internal/api"
	"github.com/cliplight/cliplight/internal/media"
	"github.com/cliplight/cliplight/internal/session"
)

type durationProbedMsg struct {
	duration float64
	err      error
}

type uploadProgressMsg struct {
	progress session.UploadProgress
}

type uploadDoneMsg struct {
	fileID string
	err    error
}

type analysisDoneMsg struct {
	gen    uint64
	result *session.AnalysisResult
	err    error
}

type generateDoneMsg struct {
	outputPath string
	err        error
}

type modelsLoadedMsg struct {
	catalog *api.ModelCatalog
	err     error
}

type playbackTickMsg time.Time

const playbackTickInterval = time.Second

func playbackTick() tea.Cmd {
	return tea.Tick(playbackTickInterval, func(t time.Time) tea.Msg {
		return playbackTickMsg(t)
	})
}

func probeDurationCmd(path string) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()
		d, err := media.ProbeDuration(ctx, path)
		return durationProbedMsg{duration: d, err: err}
	}
}

// uploadCmd runs init + transfer in one command. Progress is streamed through
// a channel; pair it with waitForProgress so ticks reach the event loop.
func uploadCmd(client *api.Client, file *session.VideoFile, progress chan session.UploadProgress) tea.Cmd {
	return func() tea.Msg {
		defer close(progress)

		ctx := context.Background()
		init, err := client.InitUpload(ctx, file.Filename, file.Size, contentTypeFor(file.Filename))
		if err != nil {
			return uploadDoneMsg{err: err}
		}

		err = client.Upload(ctx, init.UploadURL, file.Path, func(p session.UploadProgress) {
			select {
			case progress <- p:
			default:
			}
		})
		if err != nil {
			return uploadDoneMsg{err: err}
		}
		return uploadDoneMsg{fileID: init.FileID}
	}
}

func waitForProgress(progress chan session.UploadProgress) tea.Cmd {
	return func() tea.Msg {
		p, ok := <-progress
		if !ok {
			return nil
		}
		return uploadProgressMsg{progress: p}
	}
}

func analyzeCmd(ctx context.Context, client *api.Client, fileID string, model *session.ModelChoice, gen uint64) tea.Cmd {
	return func() tea.Msg {
		result, err := client.Analyze(ctx, fileID, model)
		return analysisDoneMsg{gen: gen, result: result, err: err}
	}
}

func generateCmd(client *api.Client, fileID string, segments []session.Segment, outputDir, title string) tea.Cmd {
	return func() tea.Msg {
		ctx := context.Background()

		result, err := client.Generate(ctx, fileID, segments)
		if err != nil {
			return generateDoneMsg{err: err}
		}

		if err := os.MkdirAll(outputDir, 0755); err != nil {
			return generateDoneMsg{err: err}
		}
		dest := filepath.Join(outputDir, media.OutputFileName(title, time.Now()))
		if err := client.Download(ctx, result.DownloadURL, dest); err != nil {
			return generateDoneMsg{err: err}
		}
		return generateDoneMsg{outputPath: dest}
	}
}

func listModelsCmd(client *api.Client) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()
		catalog, err := client.ListModels(ctx)
		return modelsLoadedMsg{catalog: catalog, err: err}
	}
}

func contentTypeFor(filename string) string {
	ext := strings.ToLower(filepath.Ext(filename))
	if ct, ok := media.ContentTypes[ext]; ok {
		return ct
	}
	return "application/octet-stream"
}
