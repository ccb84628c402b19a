package commands

import (
	"context"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/atotto/clipboard"
	"github.com/charmbracelet/log"
	"golang.org/x/term"

	"github.com/diogo/groqchat/internal/api"
	"github.com/diogo/groqchat/internal/chat"
	"github.com/diogo/groqchat/internal/config"
	"github.com/diogo/groqchat/internal/tui"
)

// CompleterFactory builds the completion backend for a session
type CompleterFactory func(cfg config.Config, logger *log.Logger) (chat.Completer, error)

// ChatRunner hosts an interactive session until the user leaves
type ChatRunner func(ctx context.Context, session *chat.Session, opts tui.Options) error

// Dependencies holds the external dependencies for the commands.
// This allows for dependency injection and easier testing.
type Dependencies struct {
	Stdin  io.Reader
	Stdout io.Writer
	Stderr io.Writer

	// NewCompleter creates the API client. Tests swap in api.MockClient.
	NewCompleter CompleterFactory

	// RunChat is the interactive host.
	RunChat ChatRunner

	// StdinIsTerminal and StdoutIsTerminal select interactive prompts
	// and decorated output.
	StdinIsTerminal  func() bool
	StdoutIsTerminal func() bool

	// ReadSecret reads a line without echoing it.
	ReadSecret func(prompt string) (string, error)

	CopyClipboard func(text string) error
}

// NewDependencies creates a new Dependencies struct with default implementations.
func NewDependencies() *Dependencies {
	return &Dependencies{
		Stdin:            os.Stdin,
		Stdout:           os.Stdout,
		Stderr:           os.Stderr,
		NewCompleter:     newAPIClient,
		RunChat:          tui.RunChat,
		StdinIsTerminal:  func() bool { return term.IsTerminal(int(os.Stdin.Fd())) },
		StdoutIsTerminal: isStdoutTTY,
		ReadSecret:       readSecret,
		CopyClipboard:    clipboard.WriteAll,
	}
}

func newAPIClient(cfg config.Config, logger *log.Logger) (chat.Completer, error) {
	opts := []api.ClientOption{
		api.WithBaseURL(cfg.ResolveBaseURL()),
		api.WithRequestsPerMinute(cfg.RequestsPerMinute),
		api.WithLogger(logger),
	}
	if cfg.TimeoutSeconds > 0 {
		opts = append(opts, api.WithTimeout(time.Duration(cfg.TimeoutSeconds)*time.Second))
	}

	client, err := api.NewClient(opts...)
	if err != nil {
		return nil, err
	}
	return client, nil
}

// readSecret prompts on stderr and reads from the terminal with echo off
func readSecret(prompt string) (string, error) {
	fmt.Fprint(os.Stderr, prompt)
	b, err := term.ReadPassword(int(os.Stdin.Fd()))
	fmt.Fprintln(os.Stderr)
	if err != nil {
		return "", fmt.Errorf("failed to read API key: %w", err)
	}
	return string(b), nil
}
