// Package media handles local video files: upload eligibility checks,
// duration probing, export filenames, and segment preview.
package media

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/cliplight/cliplight/internal/timecode"
)

// MaxFileSize is the upload ceiling, inclusive: exactly 2 GiB is accepted.
const MaxFileSize = 2 * 1024 * 1024 * 1024

// ContentTypes maps accepted container extensions to their MIME types.
var ContentTypes = map[string]string{
	".mp4":  "video/mp4",
	".mov":  "video/quicktime",
	".avi":  "video/x-msvideo",
	".webm": "video/webm",
}

// ValidateFile checks a local video against the upload policy before any
// network call is made. It returns the file size and content type on success.
func ValidateFile(path string) (int64, string, error) {
	info, err := os.Stat(path)
	if err != nil {
		return 0, "", fmt.Errorf("cannot read file: %w", err)
	}
	if info.IsDir() {
		return 0, "", fmt.Errorf("%s is a directory, not a video file", path)
	}

	ext := strings.ToLower(filepath.Ext(path))
	contentType, ok := ContentTypes[ext]
	if !ok {
		return 0, "", fmt.Errorf("unsupported file format %q: only MP4, MOV, AVI, and WebM are accepted", ext)
	}

	if err := ValidateSize(info.Size()); err != nil {
		return 0, "", err
	}

	return info.Size(), contentType, nil
}

// ValidateSize enforces the upload ceiling. The ceiling itself is accepted.
func ValidateSize(size int64) error {
	if size > MaxFileSize {
		return fmt.Errorf("file is too large (%d bytes): the limit is 2 GiB", size)
	}
	return nil
}

// ProbeDuration reads the video duration in seconds via ffprobe.
func ProbeDuration(ctx context.Context, path string) (float64, error) {
	cmd := exec.CommandContext(ctx, "ffprobe",
		"-v", "quiet",
		"-print_format", "json",
		"-show_format",
		path,
	)

	output, err := cmd.Output()
	if err != nil {
		return 0, fmt.Errorf("ffprobe failed: %w", err)
	}

	var probe struct {
		Format struct {
			Duration string `json:"duration"`
		} `json:"format"`
	}
	if err := json.Unmarshal(output, &probe); err != nil {
		return 0, fmt.Errorf("failed to parse ffprobe output: %w", err)
	}

	duration, err := strconv.ParseFloat(probe.Format.Duration, 64)
	if err != nil {
		return 0, fmt.Errorf("ffprobe reported no duration: %w", err)
	}
	return duration, nil
}

// Preview plays a segment of the video in mpv. Runs to completion; callers
// spawn it off the event loop.
func Preview(path string, start, end float64) error {
	cmd := exec.Command("mpv",
		"--start="+timecode.FormatTime(start),
		"--end="+timecode.FormatTime(end),
		path,
	)
	return cmd.Run()
}

// HasCommand reports whether an external tool is on PATH.
func HasCommand(name string) bool {
	_, err := exec.LookPath(name)
	return err == nil
}
