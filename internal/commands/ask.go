package commands

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"golang.org/x/term"

	"github.com/diogo/groqchat/internal/config"
	apierrors "github.com/diogo/groqchat/internal/errors"
	"github.com/diogo/groqchat/internal/logging"
	"github.com/diogo/groqchat/internal/models"
	"github.com/diogo/groqchat/internal/render"
)

var (
	colorText    = lipgloss.Color("#c0caf5")
	colorTextDim = lipgloss.Color("#565f89")
	colorSuccess = lipgloss.Color("#9ece6a")
	colorWarning = lipgloss.Color("#e0af68")
	colorError   = lipgloss.Color("#f7768e")
	colorPrimary = lipgloss.Color("#f55036")
)

var (
	assistantLabelStyle = lipgloss.NewStyle().
				Foreground(colorPrimary).
				Bold(true)

	assistantBubbleStyle = lipgloss.NewStyle().
				BorderStyle(lipgloss.RoundedBorder()).
				BorderForeground(colorPrimary).
				Foreground(colorText).
				Padding(0, 1).
				MarginTop(1).
				MarginBottom(1)

	successStyle = lipgloss.NewStyle().Foreground(colorSuccess)
	warningStyle = lipgloss.NewStyle().Foreground(colorWarning)
	dimStyle     = lipgloss.NewStyle().Foreground(colorTextDim)
)

// runAsk sends a single message through a fresh session and prints the reply.
// Raw output (no TTY or --raw) prints only the reply text.
func runAsk(ctx context.Context, deps *Dependencies, flags *globalFlags, prompt string) error {
	prompt = strings.TrimSpace(prompt)
	if prompt == "" {
		return fmt.Errorf("prompt cannot be empty")
	}

	cfg, err := config.LoadConfig()
	if err != nil {
		return err
	}

	rawOutput := flags.raw || !deps.StdoutIsTerminal()

	logger := logging.Discard()
	if flags.verbose || cfg.Verbose {
		logger = logging.New(deps.Stderr, true)
	}

	apiKey, err := askAPIKey(deps, flags)
	if err != nil {
		return err
	}

	session, _, err := newSession(deps, cfg, flags, apiKey, logger)
	if err != nil {
		return err
	}

	var spin *statusSpinner
	if !rawOutput {
		spin = newStatusSpinner(deps.Stderr, "Asking "+session.Config().Model)
		spin.start()
	}

	result, err := session.Submit(ctx, prompt)
	if err != nil {
		if spin != nil {
			spin.stop()
		}
		return err
	}
	if spin != nil {
		spin.succeed(result.Notice())
	}

	text := result.Reply.Content
	if result.Suppressed {
		text = result.Warning
	}

	if rawOutput {
		if flags.output != "" {
			return writeOutput(flags.output, text)
		}
		fmt.Fprint(deps.Stdout, text)
		if !strings.HasSuffix(text, "\n") {
			fmt.Fprintln(deps.Stdout)
		}
		return nil
	}

	fmt.Fprintln(deps.Stderr)

	if cfg.CopyToClipboard {
		if err := deps.CopyClipboard(text); err != nil {
			fmt.Fprintln(deps.Stderr, warningStyle.Render(fmt.Sprintf("⚠ Failed to copy to clipboard: %v", err)))
		} else {
			fmt.Fprintln(deps.Stderr, successStyle.Render("✓ Copied to clipboard"))
		}
	}

	if flags.output != "" {
		if err := writeOutput(flags.output, text); err != nil {
			return err
		}
		fmt.Fprintln(deps.Stderr, successStyle.Render(fmt.Sprintf("✓ Response saved to %s", flags.output)))
		return nil
	}

	bubbleWidth := getTerminalWidth() - 4
	if bubbleWidth < 40 {
		bubbleWidth = 40
	}
	if bubbleWidth > 120 {
		bubbleWidth = 120
	}

	fmt.Fprintln(deps.Stdout, assistantLabelStyle.Render("✦ "+session.Config().Model))
	rendered := render.MarkdownOrPlain(text, render.OptionsFromMarkdown(cfg.Markdown, bubbleWidth-4))
	fmt.Fprintln(deps.Stdout, assistantBubbleStyle.Width(bubbleWidth).Render(rendered))

	if usage := result.Completion; usage != nil && (flags.verbose || cfg.Verbose) {
		fmt.Fprintln(deps.Stderr, dimStyle.Render(fmt.Sprintf("%d prompt + %d completion tokens",
			usage.Usage.PromptTokens, usage.Usage.CompletionTokens)))
	}

	return nil
}

// askAPIKey resolves the key for a one-shot question, prompting when stdin is a terminal
func askAPIKey(deps *Dependencies, flags *globalFlags) (string, error) {
	if key := apiKeyFromFlagsOrEnv(flags); key != "" {
		return key, nil
	}
	if !deps.StdinIsTerminal() {
		return "", nil
	}

	fmt.Fprintln(deps.Stderr, dimStyle.Render("No API key found. Create one at "+models.KeysConsoleURL))
	key, err := deps.ReadSecret("Groq API key: ")
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(key), nil
}

func writeOutput(path, text string) error {
	if err := os.WriteFile(path, []byte(text), 0o644); err != nil {
		return fmt.Errorf("failed to write output file: %w", err)
	}
	return nil
}

// getTerminalWidth returns the terminal width or a default value
func getTerminalWidth() int {
	width, _, err := term.GetSize(int(os.Stdout.Fd()))
	if err != nil || width <= 0 {
		return 80
	}
	return width
}

// isStdoutTTY returns true if stdout is connected to a terminal
func isStdoutTTY() bool {
	return term.IsTerminal(int(os.Stdout.Fd()))
}

// formatErrorMessage formats an error with additional context from structured errors
func formatErrorMessage(err error, label string) string {
	if err == nil {
		return ""
	}

	errorStyle := lipgloss.NewStyle().Foreground(colorError)

	var sb strings.Builder
	sb.WriteString(errorStyle.Render(fmt.Sprintf("✗ %s: %v", label, err)))

	if status := apierrors.GetHTTPStatus(err); status > 0 {
		sb.WriteString(dimStyle.Render(fmt.Sprintf("\n  HTTP Status: %d", status)))
	}
	if endpoint := apierrors.GetEndpoint(err); endpoint != "" {
		sb.WriteString(dimStyle.Render(fmt.Sprintf("\n  Endpoint: %s", endpoint)))
	}

	switch {
	case apierrors.IsConfigurationError(err):
		sb.WriteString(dimStyle.Render("\n  Hint: Pass --api-key or set " + config.EnvAPIKey + ". Keys: " + models.KeysConsoleURL))
	case apierrors.IsAuthError(err):
		sb.WriteString(dimStyle.Render("\n  Hint: Check your API key at " + models.KeysConsoleURL))
	case apierrors.IsRateLimitError(err):
		sb.WriteString(dimStyle.Render("\n  Hint: Rate limit reached. Wait a moment or lower requests_per_minute"))
	case apierrors.IsTimeoutError(err):
		sb.WriteString(dimStyle.Render("\n  Hint: Request timed out. Try again or raise timeout_seconds"))
	case apierrors.IsNetworkError(err):
		sb.WriteString(dimStyle.Render("\n  Hint: Check your internet connection and try again"))
	}

	return sb.String()
}
