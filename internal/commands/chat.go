package commands

import (
	"context"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/diogo/groqchat/internal/config"
	"github.com/diogo/groqchat/internal/logging"
	"github.com/diogo/groqchat/internal/tui"
)

func newChatCmd(deps *Dependencies, flags *globalFlags) *cobra.Command {
	return &cobra.Command{
		Use:   "chat",
		Short: "Start an interactive chat session",
		Long: `Start an interactive chat session.

The chat keeps the last 10 messages as context for each reply.
Type /help for commands, /exit or press Esc to end the session.
Without an API key the session starts locked; use /key to unlock it.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runChat(cmd.Context(), deps, flags)
		},
	}
}

func runChat(ctx context.Context, deps *Dependencies, flags *globalFlags) error {
	cfg, err := config.LoadConfig()
	if err != nil {
		return err
	}

	logger, closeLog := chatLogger(flags.verbose || cfg.Verbose)
	defer closeLog()

	session, persona, err := newSession(deps, cfg, flags, apiKeyFromFlagsOrEnv(flags), logger)
	if err != nil {
		return err
	}

	logger.Info("chat started", "session", session.ID(), "state", session.State())
	defer logger.Info("chat ended", "session", session.ID(), "messages", session.Stats().Messages)

	return deps.RunChat(ctx, session, tui.Options{
		PersonaName:   persona.Name,
		Markdown:      cfg.Markdown,
		Theme:         cfg.TUITheme,
		CopyClipboard: deps.CopyClipboard,
	})
}

// chatLogger writes to the log file when verbose; the TUI owns the terminal
func chatLogger(verbose bool) (*log.Logger, func()) {
	if !verbose {
		return logging.Discard(), func() {}
	}

	path, err := config.GetLogPath()
	if err != nil {
		return logging.Discard(), func() {}
	}

	logger, f, err := logging.OpenFile(path, true)
	if err != nil {
		return logging.Discard(), func() {}
	}
	return logger, func() { _ = f.Close() }
}
