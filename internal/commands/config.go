package commands

import (
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/diogo/groqchat/internal/config"
)

// newConfigCmd creates the config command tree
func newConfigCmd(deps *Dependencies) *cobra.Command {
	configCmd := &cobra.Command{
		Use:   "config",
		Short: "Show or change saved defaults",
		Long: `Show or change the defaults new sessions start from.

Changes made inside a chat session are never written back here,
and the API key is never stored.`,
	}

	configCmd.AddCommand(&cobra.Command{
		Use:   "show",
		Short: "Show the current defaults",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.LoadConfig()
			if err != nil {
				return err
			}

			w := tabwriter.NewWriter(deps.Stdout, 0, 0, 2, ' ', 0)
			_, _ = fmt.Fprintln(w, "KEY\tVALUE")
			_, _ = fmt.Fprintln(w, "---\t-----")
			for _, key := range config.SettableKeys() {
				value, _ := cfg.Get(key)
				_, _ = fmt.Fprintf(w, "%s\t%s\n", key, value)
			}
			_, _ = fmt.Fprintf(w, "api_key\t%s\n", config.MaskSecret(config.APIKeyFromEnv()))
			return w.Flush()
		},
	})

	configCmd.AddCommand(&cobra.Command{
		Use:   "set <key> <value>",
		Short: "Change a default",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.LoadConfig()
			if err != nil {
				return err
			}
			if err := cfg.Set(args[0], args[1]); err != nil {
				return err
			}
			if err := config.SaveConfig(cfg); err != nil {
				return err
			}

			value, _ := cfg.Get(args[0])
			fmt.Fprintf(deps.Stdout, "%s set to %s\n", args[0], value)
			return nil
		},
	})

	configCmd.AddCommand(&cobra.Command{
		Use:   "path",
		Short: "Print the config file location",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			path, err := config.GetConfigPath()
			if err != nil {
				return err
			}
			fmt.Fprintln(deps.Stdout, path)
			return nil
		},
	})

	return configCmd
}
