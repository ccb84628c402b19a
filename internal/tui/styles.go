// Package tui provides the terminal chat interface for groqchat.
package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	apierrors "github.com/diogo/groqchat/internal/errors"
	"github.com/diogo/groqchat/internal/models"
	"github.com/diogo/groqchat/internal/render"
)

// Color variables (updated from theme)
var (
	colorBorder    lipgloss.Color
	colorUser      lipgloss.Color
	colorAssistant lipgloss.Color
	colorAccent    lipgloss.Color
	colorSuccess   lipgloss.Color
	colorWarning   lipgloss.Color
	colorError     lipgloss.Color
	colorText      lipgloss.Color
	colorTextDim   lipgloss.Color
)

// Style variables (rebuilt when theme changes)
var (
	headerStyle   lipgloss.Style
	titleStyle    lipgloss.Style
	subtitleStyle lipgloss.Style
	hintStyle     lipgloss.Style

	messagesAreaStyle    lipgloss.Style
	userLabelStyle       lipgloss.Style
	userBubbleStyle      lipgloss.Style
	assistantLabelStyle  lipgloss.Style
	assistantBubbleStyle lipgloss.Style

	inputPanelStyle lipgloss.Style
	inputLabelStyle lipgloss.Style
	loadingStyle    lipgloss.Style

	statusBarStyle  lipgloss.Style
	statusKeyStyle  lipgloss.Style
	statusDescStyle lipgloss.Style

	noticeStyle  lipgloss.Style
	warningStyle lipgloss.Style
	errorStyle   lipgloss.Style

	welcomeStyle      lipgloss.Style
	welcomeTitleStyle lipgloss.Style

	pickerBoxStyle      lipgloss.Style
	pickerItemStyle     lipgloss.Style
	pickerSelectedStyle lipgloss.Style
)

func init() {
	ApplyTheme(render.DefaultTUIThemeName)
}

// ApplyTheme switches the color scheme. Unknown names use the default theme.
func ApplyTheme(name string) {
	theme := render.TUIThemeOrDefault(name)

	colorBorder = theme.Border
	colorUser = theme.User
	colorAssistant = theme.Assistant
	colorAccent = theme.Accent
	colorSuccess = theme.Success
	colorWarning = theme.Warning
	colorError = theme.Error
	colorText = theme.Text
	colorTextDim = theme.TextDim

	rebuildStyles()
}

func rebuildStyles() {
	headerStyle = lipgloss.NewStyle().
		BorderStyle(lipgloss.RoundedBorder()).
		BorderForeground(colorBorder).
		Padding(0, 2)

	titleStyle = lipgloss.NewStyle().Foreground(colorAccent).Bold(true)
	subtitleStyle = lipgloss.NewStyle().Foreground(colorTextDim)
	hintStyle = lipgloss.NewStyle().Foreground(colorTextDim).Italic(true)

	messagesAreaStyle = lipgloss.NewStyle().
		BorderStyle(lipgloss.RoundedBorder()).
		BorderForeground(colorBorder).
		Padding(0, 1)

	userLabelStyle = lipgloss.NewStyle().Foreground(colorUser).Bold(true).MarginLeft(4)
	userBubbleStyle = lipgloss.NewStyle().
		BorderStyle(lipgloss.RoundedBorder()).
		BorderForeground(colorUser).
		Padding(0, 1).
		MarginLeft(4)

	assistantLabelStyle = lipgloss.NewStyle().Foreground(colorAssistant).Bold(true)
	assistantBubbleStyle = lipgloss.NewStyle().
		BorderStyle(lipgloss.RoundedBorder()).
		BorderForeground(colorAssistant).
		Foreground(colorText).
		Padding(0, 1).
		MarginRight(4)

	inputPanelStyle = lipgloss.NewStyle().
		BorderStyle(lipgloss.RoundedBorder()).
		BorderForeground(colorBorder).
		Padding(0, 1)
	inputLabelStyle = lipgloss.NewStyle().Foreground(colorUser).Bold(true)
	loadingStyle = lipgloss.NewStyle().Foreground(colorAccent).Bold(true)

	statusBarStyle = lipgloss.NewStyle().Foreground(colorTextDim)
	statusKeyStyle = lipgloss.NewStyle().Foreground(colorText).Bold(true)
	statusDescStyle = lipgloss.NewStyle().Foreground(colorTextDim)

	noticeStyle = lipgloss.NewStyle().Foreground(colorSuccess)
	warningStyle = lipgloss.NewStyle().Foreground(colorWarning).Bold(true)
	errorStyle = lipgloss.NewStyle().Foreground(colorError).Bold(true)

	welcomeStyle = lipgloss.NewStyle().Foreground(colorText).Align(lipgloss.Center)
	welcomeTitleStyle = lipgloss.NewStyle().Foreground(colorAccent).Bold(true).Align(lipgloss.Center)

	pickerBoxStyle = lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(colorAccent).
		Padding(1, 2)
	pickerItemStyle = lipgloss.NewStyle().Foreground(colorText).PaddingLeft(2)
	pickerSelectedStyle = lipgloss.NewStyle().Foreground(colorAccent).Bold(true)
}

// ErrorHint returns a one-line suggestion for a failed turn, or ""
func ErrorHint(err error) string {
	switch {
	case err == nil:
		return ""
	case apierrors.IsConfigurationError(err):
		return "Set a key with /key <your-key>. Get one at " + models.KeysConsoleURL
	case apierrors.IsAuthError(err):
		return "The API key was rejected. Check it at " + models.KeysConsoleURL
	case apierrors.IsRateLimitError(err):
		return "Rate limit reached. Wait a moment or switch models with /model"
	case apierrors.IsTimeoutError(err):
		return "Request timed out. Try again"
	case apierrors.IsNetworkError(err):
		return "Check your internet connection"
	}
	return ""
}

// FormatError returns a styled error message with structured details
func FormatError(err error) string {
	if err == nil {
		return ""
	}

	dimStyle := lipgloss.NewStyle().Foreground(colorTextDim).PaddingLeft(2)

	var sb strings.Builder
	sb.WriteString(errorStyle.Render(fmt.Sprintf("✗ Error: %v", err)))

	if status := apierrors.GetHTTPStatus(err); status > 0 {
		sb.WriteString("\n")
		sb.WriteString(dimStyle.Render(fmt.Sprintf("HTTP Status: %d", status)))
	}
	if hint := ErrorHint(err); hint != "" {
		sb.WriteString("\n")
		sb.WriteString(dimStyle.Render("Hint: " + hint))
	}

	return sb.String()
}
