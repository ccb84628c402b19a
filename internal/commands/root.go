// Package commands provides CLI commands for groqchat.
package commands

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
)

// Version info (set at build time)
var (
	Version   = "0.1.0"
	BuildTime = "unknown"
)

// globalFlags are shared by the one-shot ask and the chat command
type globalFlags struct {
	model       string
	apiKey      string
	persona     string
	temperature float64
	maxTokens   int
	verbose     bool

	output string
	file   string
	raw    bool
}

// NewRootCmd builds the command tree around deps
func NewRootCmd(deps *Dependencies) *cobra.Command {
	flags := &globalFlags{}

	rootCmd := &cobra.Command{
		Use:   "groqchat [prompt]",
		Short: "Chat with Groq-hosted language models",
		Long: `groqchat is a terminal chat client for the Groq chat completion API.
Conversations keep a sliding window of recent messages, and repeated
identical messages are answered locally instead of being sent.

The API key is read from --api-key, then the GROQ_API_KEY environment
variable, and is never written to disk.

Examples:
  groqchat chat                         Start interactive chat
  groqchat "What is Go?"                Send a single question
  groqchat -f prompt.md                 Read prompt from file
  cat prompt.md | groqchat              Read prompt from stdin
  groqchat "Hello" -o response.md       Save response to file
  groqchat models                       List available models`,
		Args:          cobra.MaximumNArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			if v, _ := cmd.Flags().GetBool("version"); v {
				fmt.Fprintf(deps.Stdout, "groqchat %s (built %s)\n", Version, BuildTime)
				return nil
			}

			prompt, ok, err := readPrompt(deps, flags, args)
			if err != nil {
				return err
			}
			if !ok {
				return cmd.Help()
			}
			return runAsk(cmd.Context(), deps, flags, prompt)
		},
	}

	pf := rootCmd.PersistentFlags()
	pf.StringVarP(&flags.model, "model", "m", "", "Model to use (see 'groqchat models')")
	pf.StringVar(&flags.apiKey, "api-key", "", "Groq API key (default $GROQ_API_KEY)")
	pf.StringVarP(&flags.persona, "persona", "p", "", "Persona to start with")
	pf.Float64Var(&flags.temperature, "temperature", -1, "Sampling temperature (0-2)")
	pf.IntVar(&flags.maxTokens, "max-tokens", 0, "Maximum tokens per reply (256-8192)")
	pf.BoolVar(&flags.verbose, "verbose", false, "Enable debug logging")

	rootCmd.Flags().StringVarP(&flags.output, "output", "o", "", "Save response to file")
	rootCmd.Flags().StringVarP(&flags.file, "file", "f", "", "Read prompt from file")
	rootCmd.Flags().BoolVar(&flags.raw, "raw", false, "Print only the reply text")
	rootCmd.Flags().BoolP("version", "v", false, "Show version and exit")

	rootCmd.SetIn(deps.Stdin)
	rootCmd.SetOut(deps.Stdout)
	rootCmd.SetErr(deps.Stderr)

	rootCmd.AddCommand(newChatCmd(deps, flags))
	rootCmd.AddCommand(newModelsCmd(deps))
	rootCmd.AddCommand(newConfigCmd(deps))
	rootCmd.AddCommand(newPersonaCmd(deps))

	return rootCmd
}

// readPrompt picks the prompt from --file, piped stdin or the argument, in that order.
// ok is false when no input was given.
func readPrompt(deps *Dependencies, flags *globalFlags, args []string) (string, bool, error) {
	if flags.file != "" {
		data, err := os.ReadFile(flags.file)
		if err != nil {
			return "", false, fmt.Errorf("failed to read file: %w", err)
		}
		return string(data), true, nil
	}

	if !deps.StdinIsTerminal() && len(args) == 0 {
		data, err := io.ReadAll(deps.Stdin)
		if err != nil {
			return "", false, fmt.Errorf("failed to read stdin: %w", err)
		}
		if len(data) > 0 {
			return string(data), true, nil
		}
	}

	if len(args) > 0 {
		return args[0], true, nil
	}

	return "", false, nil
}

// Execute runs the root command
func Execute() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	deps := NewDependencies()
	if err := NewRootCmd(deps).ExecuteContext(ctx); err != nil {
		fmt.Fprintln(deps.Stderr, formatErrorMessage(err, "Error"))
		stop()
		os.Exit(1)
	}
}
