package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strings"
	"syscall"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/zalando/go-keyring"
	"golang.org/x/term"

	"github.com/cliplight/cliplight/internal/api"
	"github.com/cliplight/cliplight/internal/config"
	"github.com/cliplight/cliplight/internal/logging"
	"github.com/cliplight/cliplight/internal/media"
	"github.com/cliplight/cliplight/internal/mockserver"
	"github.com/cliplight/cliplight/internal/session"
	"github.com/cliplight/cliplight/internal/ui"
)

func main() {
	if err := run(); err != nil {
		log.Fatalf("fatal error: %v", err)
	}
}

func run() error {
	var mock bool
	var version bool

	flag.BoolVar(&mock, "mock", false, "Run against a built-in mock backend (no credentials needed)")
	flag.BoolVar(&version, "version", false, "Show version info")
	flag.Usage = func() {
		fmt.Println("Usage: cliplight [options] <video-file>")
		fmt.Println()
		fmt.Println("Options:")
		fmt.Println("  --mock      run against a built-in mock backend")
		fmt.Println("  --version   show version info")
		fmt.Println()
		fmt.Println("Requirements:")
		for _, dep := range []string{"ffprobe", "mpv"} {
			status := "✔ installed"
			if !media.HasCommand(dep) {
				status = "✗ missing"
			}
			fmt.Printf("  %-10s %s\n", dep, status)
		}
		fmt.Println()
		fmt.Println("Supported formats: .mp4, .mov, .avi, .webm")
	}
	flag.Parse()

	if version {
		fmt.Printf("cliplight %s (%s, built %s)\n", config.Version, config.GitCommit, config.BuildTime)
		return nil
	}

	args := flag.Args()
	if len(args) != 1 {
		flag.Usage()
		return nil
	}

	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}
	if mock {
		cfg.SetMockMode(true)
	}

	if err := os.MkdirAll(cfg.DataDir(), 0755); err != nil {
		return fmt.Errorf("failed to create data dir: %w", err)
	}

	logger, closeLog, err := logging.NewLogger(cfg.LogPath(), cfg.LogLevel())
	if err != nil {
		return fmt.Errorf("failed to open log: %w", err)
	}
	defer closeLog()
	logger.Info("starting cliplight", "version", config.Version, "mock", cfg.MockMode())

	path := args[0]
	size, _, err := media.ValidateFile(path)
	if err != nil {
		return err
	}
	logger.Info("video selected", "path", logging.SanitizePath(path), "size", size)

	backendURL := cfg.BackendURL()
	token := ""

	if cfg.MockMode() {
		srv := mockserver.NewServer(mockserver.Config{Port: 0, Logger: logging.WithComponent(logger, "mockserver")})
		baseURL, err := srv.Listen()
		if err != nil {
			return err
		}
		go srv.Serve()
		defer func() {
			ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
			defer cancel()
			srv.Shutdown(ctx)
		}()
		backendURL = baseURL
	} else {
		token, err = ensureToken()
		if err != nil {
			return err
		}
		if token != "" {
			logger.Info("backend token loaded", "token", logging.SanitizeToken(token))
		}
	}

	client := api.NewClient(backendURL, token, cfg.RequestTimeout(), logging.WithComponent(logger, "api"))

	sess := session.New(logging.WithComponent(logger, "session"))
	sess.SetVideoFile(&session.VideoFile{
		Path:     path,
		Filename: filepath.Base(path),
		Size:     size,
	})

	p := tea.NewProgram(
		ui.NewModel(client, sess, cfg.OutputDir(), logger),
		tea.WithAltScreen(),
		tea.WithMouseAllMotion(),
	)
	if _, err := p.Run(); err != nil {
		return fmt.Errorf("program error: %w", err)
	}
	return nil
}

// ensureToken loads the backend token from the system keyring, prompting once
// and storing it when absent. An empty entry means "no auth".
func ensureToken() (string, error) {
	token, err := keyring.Get(config.KeyringService, config.KeyringUser)
	if err == nil {
		return token, nil
	}
	if !errors.Is(err, keyring.ErrNotFound) {
		return "", fmt.Errorf("failed to read token from keyring: %w", err)
	}

	fmt.Print("Backend token (empty for none): ")
	raw, err := term.ReadPassword(int(syscall.Stdin))
	fmt.Println()
	if err != nil {
		return "", fmt.Errorf("failed to read token: %w", err)
	}

	token = strings.TrimSpace(string(raw))
	if err := keyring.Set(config.KeyringService, config.KeyringUser, token); err != nil {
		return "", fmt.Errorf("failed to store token in keyring: %w", err)
	}
	return token, nil
}
